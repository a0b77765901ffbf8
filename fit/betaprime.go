package fit

import (
	"math"

	"github.com/nosqlbench/vectorstat/distshape"
	"github.com/nosqlbench/vectorstat/moment"
)

// BetaPrimeFitter fits distshape.BetaPrimeModel by the method of moments.
// For X ~ BetaPrime(a,b): Mean = a/(b-1), Var = m(m+1)/(b-2), which
// inverts to Beta = m(m+1)/Var + 2, Alpha = Mean*(Beta-1), per spec.md
// §4.4. As with InverseGammaFitter, out-of-support samples (non-positive
// values) fall back to a weak prior.
type BetaPrimeFitter struct{}

// DefaultBetaPrimeFitter returns the (stateless) default fitter.
func DefaultBetaPrimeFitter() BetaPrimeFitter { return BetaPrimeFitter{} }

func (f BetaPrimeFitter) Name() distshape.ModelType { return distshape.BetaPrime }
func (f BetaPrimeFitter) Complexity() int           { return 7 }

func (f BetaPrimeFitter) Estimate(stats moment.Stats, sorted []float64) distshape.ScalarModel {
	if len(sorted) > 0 && sorted[0] <= 0 {
		return distshape.BetaPrimeModel{Alpha: 1, Beta: 2.01}
	}
	m := stats.Mean
	v := stats.Variance
	if m <= 0 || v <= 0 {
		return distshape.BetaPrimeModel{Alpha: 1, Beta: 2.01}
	}
	beta := m*(m+1)/v + 2
	if beta <= 2 || math.IsNaN(beta) {
		beta = 2.01
	}
	alpha := m * (beta - 1)
	if alpha <= 0 || math.IsNaN(alpha) {
		alpha = 1
	}
	return distshape.BetaPrimeModel{Alpha: alpha, Beta: beta}
}

func (f BetaPrimeFitter) Fit(stats moment.Stats, sorted []float64) (Result, error) {
	if err := requireNonEmpty(sorted); err != nil {
		return Result{}, err
	}
	model := f.Estimate(stats, sorted).(distshape.BetaPrimeModel)
	score := ksStatistic(sorted, model)
	if len(sorted) > 0 && sorted[0] <= 0 {
		score += 0.5
	}
	return Result{Model: model, Score: clampScore(score), Tag: distshape.BetaPrime}, nil
}
