package fit

import (
	"math"

	"github.com/nosqlbench/vectorstat/distshape"
	"github.com/nosqlbench/vectorstat/moment"
)

// GammaFitter fits distshape.GammaModel (with an optional location shift)
// by matching the first three moments: shape is recovered from skewness
// (skewness = 2/sqrt(shape) for an unshifted gamma), scale from variance
// and shape, and location as whatever shift makes the mean match, per
// spec.md §4.4.
type GammaFitter struct {
	// MinSkewness is the smallest |skewness| this fitter will attempt to
	// match; gamma requires nonzero skewness, so samples below this are
	// treated as (locally) symmetric and given a large, neutral shape.
	MinSkewness float64
}

// DefaultGammaFitter returns spec.md §4.4 defaults.
func DefaultGammaFitter() GammaFitter { return GammaFitter{MinSkewness: 0.05} }

func (f GammaFitter) Name() distshape.ModelType { return distshape.Gamma }
func (f GammaFitter) Complexity() int           { return 4 }

func (f GammaFitter) Estimate(stats moment.Stats, sorted []float64) distshape.ScalarModel {
	minSkew := f.MinSkewness
	if minSkew <= 0 {
		minSkew = 0.05
	}
	skew := math.Abs(stats.Skewness)
	if skew < minSkew {
		skew = minSkew
	}

	shape := 4 / (skew * skew)
	if stats.Variance <= 0 || math.IsNaN(stats.Variance) {
		return distshape.GammaModel{Shape: shape, Scale: 1e-9, Location: stats.Mean}
	}
	// GammaModel only represents the right-skewed [Location, +inf) form;
	// a negatively-skewed sample is matched with the same shape/scale
	// magnitudes a positively-skewed sample of equal |skewness| would
	// get, which the KS score will penalize accordingly.
	scale := math.Sqrt(stats.Variance / shape)
	if scale <= 0 || math.IsNaN(scale) {
		scale = 1e-9
	}
	location := stats.Mean - shape*scale
	return distshape.GammaModel{Shape: shape, Scale: scale, Location: location}
}

func (f GammaFitter) Fit(stats moment.Stats, sorted []float64) (Result, error) {
	if err := requireNonEmpty(sorted); err != nil {
		return Result{}, err
	}
	model := f.Estimate(stats, sorted).(distshape.GammaModel)
	score := ksStatistic(sorted, model)
	return Result{Model: model, Score: clampScore(score), Tag: distshape.Gamma}, nil
}
