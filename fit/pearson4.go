package fit

import (
	"math"

	"github.com/nosqlbench/vectorstat/distshape"
	"github.com/nosqlbench/vectorstat/moment"
)

// PearsonIVFitter fits distshape.PearsonIVModel by the classical
// Elderton-Johnson moment formulas for the Pearson system, used only in
// the full-Pearson selector panel (spec.md §4.9) since Pearson-IV is the
// most expensive model to evaluate (numeric CDF integration).
//
// Given skewness gamma1 and raw kurtosis beta2, with beta1 = gamma1^2:
//
//	r      = 6(beta2 - beta1 - 1) / (2*beta2 - 3*beta1 - 6)
//	m      = r/2 + 1
//	nu     = -r(r-2)*sqrt(beta1) / sqrt(16(r-1) - beta1*(r-2)^2)
//	lambda = (sigma/4) * sqrt(16(r-1) - beta1*(r-2)^2)
//	a      = mean - (r-2)*sqrt(beta1)*sigma/4
type PearsonIVFitter struct{}

// DefaultPearsonIVFitter returns the (stateless) default fitter.
func DefaultPearsonIVFitter() PearsonIVFitter { return PearsonIVFitter{} }

func (f PearsonIVFitter) Name() distshape.ModelType { return distshape.PearsonIV }
func (f PearsonIVFitter) Complexity() int           { return 8 }

func (f PearsonIVFitter) Estimate(stats moment.Stats, sorted []float64) distshape.ScalarModel {
	sigma := math.Sqrt(stats.Variance)
	if sigma <= 0 || math.IsNaN(sigma) {
		return fallbackPearsonIV(stats.Mean)
	}
	beta1 := stats.Skewness * stats.Skewness
	beta2 := stats.Kurtosis

	denom := 2*beta2 - 3*beta1 - 6
	if math.Abs(denom) < 1e-9 {
		return fallbackPearsonIV(stats.Mean)
	}
	r := 6 * (beta2 - beta1 - 1) / denom
	m := r/2 + 1
	if m <= 1 || math.IsNaN(m) {
		return fallbackPearsonIV(stats.Mean)
	}

	radicand := 16*(r-1) - beta1*(r-2)*(r-2)
	if radicand <= 0 || math.IsNaN(radicand) {
		return fallbackPearsonIV(stats.Mean)
	}
	root := math.Sqrt(radicand)

	sqrtBeta1 := math.Sqrt(beta1)
	if stats.Skewness < 0 {
		sqrtBeta1 = -sqrtBeta1
	}

	nu := -r * (r - 2) * sqrtBeta1 / root
	lambda := sigma / 4 * root
	if lambda <= 0 || math.IsNaN(lambda) || math.IsNaN(nu) {
		return fallbackPearsonIV(stats.Mean)
	}
	a := stats.Mean - (r-2)*sqrtBeta1*sigma/4

	return distshape.PearsonIVModel{M: m, Nu: nu, A: a, Lambda: lambda}
}

func fallbackPearsonIV(mean float64) distshape.PearsonIVModel {
	return distshape.PearsonIVModel{M: 2, Nu: 0, A: mean, Lambda: 1}
}

func (f PearsonIVFitter) Fit(stats moment.Stats, sorted []float64) (Result, error) {
	if err := requireNonEmpty(sorted); err != nil {
		return Result{}, err
	}
	model := f.Estimate(stats, sorted).(distshape.PearsonIVModel)
	score := ksStatistic(sorted, model)
	return Result{Model: model, Score: clampScore(score), Tag: distshape.PearsonIV}, nil
}
