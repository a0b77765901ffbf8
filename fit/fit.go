// Package fit implements the parametric and empirical distribution
// fitters of spec.md §4.4–§4.6: each exposes Estimate (method-of-moments
// or MLE parameter estimation) and Fit (Estimate plus a Kolmogorov-Smirnov
// goodness-of-fit score with distribution-specific adjustments).
package fit

import (
	"math"
	"sort"

	"github.com/nosqlbench/vectorstat/distshape"
	"github.com/nosqlbench/vectorstat/moment"
)

// Result is the (model, score, tag) triple spec.md §3 calls a Fit Result.
// Score is never NaN: clampScore panics on a NaN score, and numeric
// failures are recovered into a large-but-finite score rather than an
// error (see Fitter.Fit).
type Result struct {
	Model distshape.ScalarModel
	Score float64
	Tag   distshape.ModelType
}

// Fitter is the capability every distribution fitter implements: a
// stateless value that can estimate parameters from data and score the
// resulting model's fit.
type Fitter interface {
	// Name is the model-type tag this fitter produces.
	Name() distshape.ModelType
	// Complexity is this fitter's rank in the fixed simplicity-bias table
	// of spec.md §4.9 (lower is simpler).
	Complexity() int
	// Estimate fits parameters from stats/sorted values, always
	// succeeding — on a degenerate input it returns a wide-parameter
	// fallback model so that Fit's score comes out large rather than
	// panicking (spec.md §4.4).
	Estimate(stats moment.Stats, sorted []float64) distshape.ScalarModel
	// Fit estimates a model and scores it against sorted (which must
	// already be sorted ascending). Numeric failures (degenerate
	// variance, support mismatch) are recovered into a large-but-finite
	// score, not an error; Fit only returns an error for programmer
	// misuse (nil/empty input).
	Fit(stats moment.Stats, sorted []float64) (Result, error)
}

// ksStatistic computes the Kolmogorov-Smirnov D-statistic between the
// empirical CDF of sorted (already ascending) and model.CDF.
func ksStatistic(sorted []float64, model distshape.ScalarModel) float64 {
	n := float64(len(sorted))
	var maxDiff float64
	for i, x := range sorted {
		modelCDF := model.CDF(x)
		// Empirical CDF has a jump at each order statistic; compare
		// against both the pre- and post-jump empirical values, which is
		// the standard two-sided KS construction.
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

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if math.IsNaN(score) {
		panic("fit: fitter produced a NaN score")
	}
	return score
}

// errEmptyInput is returned (never panicked) when a Fitter is asked to
// operate on a nil/empty sample — callers are expected to have already
// validated input shape before reaching an individual fitter.
var errEmptyInput = errNew("fit: empty input")

type fitError string

func (e fitError) Error() string { return string(e) }

func errNew(s string) error { return fitError(s) }

func requireNonEmpty(sorted []float64) error {
	if len(sorted) == 0 {
		return errEmptyInput
	}
	return nil
}

func isSorted(sorted []float64) bool {
	return sort.Float64sAreSorted(sorted)
}
