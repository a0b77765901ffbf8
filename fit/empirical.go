package fit

import (
	"math"

	"github.com/nosqlbench/vectorstat/distshape"
	"github.com/nosqlbench/vectorstat/moment"
)

// EmpiricalFitter builds distshape.EmpiricalModel as the fallback of
// last resort (spec.md §4.5, §7): a histogram over sorted sized by
// Sturges' rule and clamped to [MinBins, MaxBins], with cumulative bin
// masses forming the model's piecewise-linear CDF. Freedman-Diaconis
// binning belongs to package modedetect's mode-detection histogram
// (spec.md §4.7), a distinct component with its own binning rule; the
// Empirical Fitter uses Sturges' rule exclusively, per spec.md §4.5.
//
// A BasePenalty is always added to the KS score: the empirical model can
// fit any sample essentially exactly, so without a penalty it would
// always win the selector's comparison (spec.md §4.9) regardless of
// whether a parametric model is a better structural description.
type EmpiricalFitter struct {
	BasePenalty float64
	MinBins     int
	MaxBins     int
}

// DefaultEmpiricalFitter returns spec.md §4.5 defaults: Sturges' rule
// clamped to [10, 100].
func DefaultEmpiricalFitter() EmpiricalFitter {
	return EmpiricalFitter{BasePenalty: 0.02, MinBins: 10, MaxBins: 100}
}

func (f EmpiricalFitter) Name() distshape.ModelType { return distshape.Empirical }
func (f EmpiricalFitter) Complexity() int           { return 10 }

// binCount implements spec.md §4.5's "bin count from Sturges' rule
// clamped to [minBins, maxBins]".
func binCount(sorted []float64, minBins, maxBins int) int {
	n := len(sorted)
	if minBins <= 0 {
		minBins = 10
	}
	if maxBins <= 0 {
		maxBins = 100
	}
	if n < 2 {
		return minBins
	}
	lo, hi := sorted[0], sorted[n-1]
	if hi <= lo {
		return minBins
	}

	bins := int(math.Ceil(math.Log2(float64(n)) + 1))
	if bins < minBins {
		bins = minBins
	}
	if bins > maxBins {
		bins = maxBins
	}
	return bins
}

func (f EmpiricalFitter) Estimate(stats moment.Stats, sorted []float64) distshape.ScalarModel {
	if len(sorted) == 0 {
		return distshape.EmpiricalModel{Boundaries: []float64{0, 1}, CumProb: []float64{1}}
	}
	minBins, maxBins := f.MinBins, f.MaxBins
	if minBins <= 0 {
		minBins = 10
	}
	if maxBins <= 0 {
		maxBins = 100
	}
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if hi <= lo {
		return distshape.EmpiricalModel{Boundaries: []float64{lo, lo + 1e-9}, CumProb: []float64{1}}
	}

	bins := binCount(sorted, minBins, maxBins)
	boundaries := make([]float64, bins+1)
	width := (hi - lo) / float64(bins)
	for i := 0; i <= bins; i++ {
		boundaries[i] = lo + width*float64(i)
	}
	boundaries[bins] = hi

	counts := make([]int, bins)
	bi := 0
	for _, x := range sorted {
		for bi < bins-1 && x >= boundaries[bi+1] {
			bi++
		}
		counts[bi]++
	}

	cumProb := make([]float64, bins)
	n := float64(len(sorted))
	running := 0
	for i, c := range counts {
		running += c
		cumProb[i] = float64(running) / n
	}
	cumProb[bins-1] = 1

	return distshape.EmpiricalModel{Boundaries: boundaries, CumProb: cumProb}
}

func (f EmpiricalFitter) Fit(stats moment.Stats, sorted []float64) (Result, error) {
	if err := requireNonEmpty(sorted); err != nil {
		return Result{}, err
	}
	model := f.Estimate(stats, sorted).(distshape.EmpiricalModel)
	basePenalty := f.BasePenalty
	if basePenalty <= 0 {
		basePenalty = 0.02
	}
	score := ksStatistic(sorted, model) + basePenalty
	return Result{Model: model, Score: clampScore(score), Tag: distshape.Empirical}, nil
}
