package fit

import (
	"math"

	"github.com/nosqlbench/vectorstat/distshape"
	"github.com/nosqlbench/vectorstat/moment"
)

// InverseGammaFitter fits distshape.InverseGammaModel by the method of
// moments: for an inverse-gamma, Mean = Beta/(Alpha-1) and
// Var = Beta^2/((Alpha-1)^2(Alpha-2)), which inverts to
// Alpha = Mean^2/Var + 2, Beta = Mean*(Alpha-1). Per spec.md §4.4, a
// sample whose support includes non-positive values (inverse-gamma is
// only defined on (0,+inf)) falls back to a weak, wide prior so the KS
// score penalizes the mismatch instead of producing an invalid model.
type InverseGammaFitter struct{}

// DefaultInverseGammaFitter returns the (stateless) default fitter.
func DefaultInverseGammaFitter() InverseGammaFitter { return InverseGammaFitter{} }

func (f InverseGammaFitter) Name() distshape.ModelType { return distshape.InverseGamma }
func (f InverseGammaFitter) Complexity() int           { return 6 }

func (f InverseGammaFitter) Estimate(stats moment.Stats, sorted []float64) distshape.ScalarModel {
	if len(sorted) > 0 && sorted[0] <= 0 {
		// Out of support: fall back rather than producing NaN parameters.
		return distshape.InverseGammaModel{Alpha: 2.01, Beta: math.Max(stats.Mean, 1e-9)}
	}
	if stats.Mean <= 0 || stats.Variance <= 0 {
		return distshape.InverseGammaModel{Alpha: 2.01, Beta: 1e-9}
	}
	alpha := stats.Mean*stats.Mean/stats.Variance + 2
	if alpha <= 2 || math.IsNaN(alpha) {
		alpha = 2.01
	}
	beta := stats.Mean * (alpha - 1)
	if beta <= 0 || math.IsNaN(beta) {
		beta = 1e-9
	}
	return distshape.InverseGammaModel{Alpha: alpha, Beta: beta}
}

func (f InverseGammaFitter) Fit(stats moment.Stats, sorted []float64) (Result, error) {
	if err := requireNonEmpty(sorted); err != nil {
		return Result{}, err
	}
	model := f.Estimate(stats, sorted).(distshape.InverseGammaModel)
	score := ksStatistic(sorted, model)
	if len(sorted) > 0 && sorted[0] <= 0 {
		// Definitionally out of support: treat as a poor fit regardless
		// of the accidental KS agreement the fallback model may produce.
		score += 0.5
	}
	return Result{Model: model, Score: clampScore(score), Tag: distshape.InverseGamma}, nil
}
