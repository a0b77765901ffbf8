// Package composite implements the Composite (mixture) Fitter of
// spec.md §4.8: mode-segmented component fitting over a sample detected
// to be multimodal, assembled into a distshape.CompositeModel with a
// CDF sanity check and a BIC-like complexity-penalized score.
//
// To avoid an import cycle (package selector needs to build
// multimodal-aware panels that include this fitter, while this fitter
// needs "a separate best-fit selector instance" per spec.md §4.8 to
// pick each segment's component model), this package never imports
// selector. Instead it defines ComponentSelector, a minimal structural
// interface that selector.Selector satisfies without either package
// naming the other.
package composite

import (
	"math"
	"sort"

	"github.com/nosqlbench/vectorstat/distshape"
	"github.com/nosqlbench/vectorstat/fit"
	"github.com/nosqlbench/vectorstat/modedetect"
	"github.com/nosqlbench/vectorstat/moment"
)

// ComponentSelector picks the best-fitting scalar model for one segment
// of data. selector.Selector implements this interface structurally.
type ComponentSelector interface {
	Select(stats moment.Stats, sorted []float64) (fit.Result, error)
}

// Config tunes the composite fitter.
type Config struct {
	// MaxComponents bounds how many mixture components are fit, mirroring
	// modedetect's KMax.
	MaxComponents int
	// CDFSanityPoints is how many evenly spaced points the assembled
	// CDF is sampled at to check monotonicity end-to-end.
	CDFSanityPoints int
	// CDFSanityThreshold is the largest backward CDF step (x increases,
	// CDF decreases) tolerated before the composite is considered
	// internally inconsistent, per spec.md §4.8.
	CDFSanityThreshold float64
	// ComplexityPenalty scales the BIC-like per-component penalty added
	// to the KS score: penalty = ComplexityPenalty * k * log(n) / n.
	ComplexityPenalty float64
	// Mode tunes the detector used to segment the sample into candidate
	// components.
	Mode modedetect.Config
}

// DefaultConfig returns spec.md §4.8 defaults.
func DefaultConfig() Config {
	return Config{
		MaxComponents:      10,
		CDFSanityPoints:    101,
		CDFSanityThreshold: 0.05,
		ComplexityPenalty:  0.02,
		Mode:               modedetect.DefaultConfig(),
	}
}

// Fitter is the Composite model fitter: it segments a sample at
// detected valleys, fits each segment independently via Selector, and
// assembles the results into a single weighted distshape.CompositeModel.
type Fitter struct {
	Config
	Selector ComponentSelector
}

// New builds a composite Fitter with the given selector and config.
func New(selector ComponentSelector, cfg Config) Fitter {
	return Fitter{Config: cfg, Selector: selector}
}

func (f Fitter) Name() distshape.ModelType { return distshape.Composite }
func (f Fitter) Complexity() int           { return 9 }

// Estimate builds the composite model without scoring it. Satisfies
// fit.Fitter's Estimate signature; a segment whose Selector call fails
// contributes a Normal component built from that segment's mean and
// variance.
func (f Fitter) Estimate(stats moment.Stats, sorted []float64) distshape.ScalarModel {
	model, _ := f.build(stats, sorted)
	return model
}

// Fit estimates the composite model and scores it with a KS statistic
// plus a BIC-like per-component complexity penalty, after running the
// CDF sanity check of spec.md §4.8.
func (f Fitter) Fit(stats moment.Stats, sorted []float64) (fit.Result, error) {
	if len(sorted) == 0 {
		return fit.Result{}, errEmptySample
	}
	model, numComponents := f.build(stats, sorted)

	if violation := sanityCheckCDF(model, sorted, f.sanityPoints()); violation > f.sanityThreshold() {
		// An internally inconsistent composite (CDF goes backward by more
		// than the tolerance) is scored as a very poor fit rather than
		// rejected outright, so the selector can still fall back to it if
		// every other candidate is worse.
		return fit.Result{Model: model, Score: 1 + violation, Tag: distshape.Composite}, nil
	}

	score := ksStatistic(sorted, model)
	n := float64(len(sorted))
	penalty := f.complexityPenalty() * float64(numComponents) * math.Log(n) / n
	score += penalty

	return fit.Result{Model: model, Score: score, Tag: distshape.Composite}, nil
}

func (f Fitter) build(stats moment.Stats, sorted []float64) (distshape.CompositeModel, int) {
	segments := segmentByModes(sorted, f.modeConfig())
	components := make([]distshape.CompositeComponent, 0, len(segments))
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		segStats := statsOf(seg)
		result, err := f.Selector.Select(segStats, seg)
		weight := float64(len(seg)) / float64(len(sorted))
		if err != nil {
			components = append(components, distshape.CompositeComponent{
				Weight: weight,
				Model:  distshape.NormalModel{Mu: segStats.Mean, Sigma: math.Sqrt(math.Max(segStats.Variance, 1e-18))},
			})
			continue
		}
		components = append(components, distshape.CompositeComponent{Weight: weight, Model: result.Model})
	}
	if len(components) == 0 {
		components = append(components, distshape.CompositeComponent{
			Weight: 1,
			Model:  distshape.NormalModel{Mu: stats.Mean, Sigma: math.Sqrt(math.Max(stats.Variance, 1e-18))},
		})
	}
	return distshape.NewCompositeModel(components), len(components)
}

func (f Fitter) modeConfig() modedetect.Config {
	cfg := f.Mode
	if cfg.KMax <= 0 {
		cfg = modedetect.DefaultConfig()
	}
	if f.MaxComponents > 0 && f.MaxComponents < cfg.KMax {
		cfg.KMax = f.MaxComponents
	}
	return cfg
}

func (f Fitter) sanityPoints() int {
	if f.CDFSanityPoints <= 1 {
		return 101
	}
	return f.CDFSanityPoints
}

func (f Fitter) sanityThreshold() float64 {
	if f.CDFSanityThreshold <= 0 {
		return 0.05
	}
	return f.CDFSanityThreshold
}

func (f Fitter) complexityPenalty() float64 {
	if f.ComplexityPenalty <= 0 {
		return 0.02
	}
	return f.ComplexityPenalty
}

// minSamplesPerMode is spec.md §4.8's precondition: the Composite Fitter
// only segments a sample when the mode detector reports multimodal AND
// every resulting segment has at least this many samples. A detector
// result that fails either clause falls back to a single segment, which
// Selector then fits as an ordinary unimodal model.
const minSamplesPerMode = 50

// segmentByModes splits sorted (ascending) into contiguous segments at
// the valley locations modedetect reports, honoring spec.md §4.8's
// precondition that the sample be reported multimodal and every segment
// carry at least minSamplesPerMode samples. Either failing collapses to
// a single whole-sample segment.
func segmentByModes(sorted []float64, cfg modedetect.Config) [][]float64 {
	whole := [][]float64{sorted}

	result := modedetect.Detect(cfg, sorted)
	if !result.Multimodal || len(result.ValleyLocations) == 0 {
		return whole
	}

	segments := make([][]float64, 0, len(result.ValleyLocations)+1)
	start := 0
	for _, v := range result.ValleyLocations {
		end := sort.SearchFloat64s(sorted, v)
		if end <= start {
			continue
		}
		segments = append(segments, sorted[start:end])
		start = end
	}
	segments = append(segments, sorted[start:])

	for _, seg := range segments {
		if len(seg) < minSamplesPerMode {
			return whole
		}
	}
	return segments
}

func statsOf(sorted []float64) moment.Stats {
	acc := moment.NewAccumulator(0)
	for _, v := range sorted {
		acc.Add(v)
	}
	return acc.Stats()
}

// sanityCheckCDF samples model.CDF at n evenly spaced points across
// sorted's range and returns the largest backward step observed.
func sanityCheckCDF(model distshape.CompositeModel, sorted []float64, n int) float64 {
	if len(sorted) == 0 {
		return 0
	}
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if hi <= lo {
		return 0
	}
	prev := model.CDF(lo)
	var worst float64
	for i := 1; i < n; i++ {
		x := lo + (hi-lo)*float64(i)/float64(n-1)
		v := model.CDF(x)
		if v < prev {
			if d := prev - v; d > worst {
				worst = d
			}
		}
		prev = v
	}
	return worst
}

func ksStatistic(sorted []float64, model distshape.ScalarModel) float64 {
	n := float64(len(sorted))
	var maxDiff float64
	for i, x := range sorted {
		modelCDF := model.CDF(x)
		empBefore := float64(i) / n
		empAfter := float64(i+1) / n
		if d := math.Abs(modelCDF - empBefore); d > maxDiff {
			maxDiff = d
		}
		if d := math.Abs(modelCDF - empAfter); d > maxDiff {
			maxDiff = d
		}
	}
	return maxDiff
}

type compositeError string

func (e compositeError) Error() string { return string(e) }

const errEmptySample = compositeError("composite: empty sample")
