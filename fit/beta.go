package fit

import (
	"math"

	"github.com/nosqlbench/vectorstat/distshape"
	"github.com/nosqlbench/vectorstat/moment"
)

// BetaFitter fits distshape.BetaModel by the method of moments over the
// observed support [min, max], then standardizes the sample mean into
// (0,1) before solving for (alpha, beta).
//
// Per the resolved open question in spec.md §9 (the original source
// clamped every standardized sample rather than just the standardized
// mean, silently flattening any genuine near-boundary mass): this
// fitter clamps only the single standardized mean value used in the
// moment-matching formula, never individual standardized samples. Only
// the one value that feeds the alpha/beta formula needs protecting from
// landing exactly on 0 or 1 (which would make the moment-matching
// formula divide by zero); clamping every sample would distort the
// variance estimate itself.
type BetaFitter struct {
	// MeanClampEpsilon bounds the standardized mean away from {0,1}.
	MeanClampEpsilon float64
}

// DefaultBetaFitter returns spec.md §9 defaults.
func DefaultBetaFitter() BetaFitter { return BetaFitter{MeanClampEpsilon: 1e-6} }

func (f BetaFitter) Name() distshape.ModelType { return distshape.Beta }
func (f BetaFitter) Complexity() int           { return 3 }

func (f BetaFitter) Estimate(stats moment.Stats, sorted []float64) distshape.ScalarModel {
	lo, hi := 0.0, 1.0
	if len(sorted) > 0 {
		lo, hi = sorted[0], sorted[len(sorted)-1]
	}
	width := hi - lo
	if width <= 0 {
		return distshape.BetaModel{Alpha: 1, Beta: 1, Lo: lo, Hi: lo + 1e-9}
	}

	m := (stats.Mean - lo) / width
	eps := f.MeanClampEpsilon
	if eps <= 0 {
		eps = 1e-6
	}
	if m < eps {
		m = eps
	}
	if m > 1-eps {
		m = 1 - eps
	}

	v := stats.Variance / (width * width)
	maxVar := m * (1 - m)
	if v <= 0 || v >= maxVar {
		// Degenerate/unsupported variance: fall back to a wide, weak
		// prior-like shape rather than dividing by a non-positive
		// denominator.
		return distshape.BetaModel{Alpha: 1, Beta: 1, Lo: lo, Hi: hi}
	}

	common := m*(1-m)/v - 1
	alpha := m * common
	beta := (1 - m) * common
	if alpha <= 0 || beta <= 0 || math.IsNaN(alpha) || math.IsNaN(beta) {
		alpha, beta = 1, 1
	}
	alpha, beta = clampAndSnap(alpha), clampAndSnap(beta)
	return distshape.BetaModel{Alpha: alpha, Beta: beta, Lo: lo, Hi: hi}
}

// clampAndSnap implements spec.md §4.4's "clamp α,β to >= 0.1; snap both
// to 1.0 when each is within 0.15 of 1.0".
func clampAndSnap(p float64) float64 {
	if p < 0.1 {
		p = 0.1
	}
	if math.Abs(p-1.0) < 0.15 {
		p = 1.0
	}
	return p
}

// betaSkewness is the theoretical skewness of Beta(alpha, beta):
// 2(beta-alpha)*sqrt(alpha+beta+1) / ((alpha+beta+2)*sqrt(alpha*beta)).
func betaSkewness(alpha, beta float64) float64 {
	denom := (alpha + beta + 2) * math.Sqrt(alpha*beta)
	if denom == 0 || math.IsNaN(denom) {
		return 0
	}
	return 2 * (beta - alpha) * math.Sqrt(alpha+beta+1) / denom
}

func (f BetaFitter) Fit(stats moment.Stats, sorted []float64) (Result, error) {
	if err := requireNonEmpty(sorted); err != nil {
		return Result{}, err
	}
	model := f.Estimate(stats, sorted).(distshape.BetaModel)
	score := ksStatistic(sorted, model)

	// Score adjustments per spec.md §4.4: a U-shaped beta (alpha,beta < 1)
	// concentrates mass at the boundaries where the KS statistic is
	// least sensitive, so it gets a small bonus relief; a fit whose
	// predicted skew tracks the sample's own skew gets a bonus too; and a
	// fit to a sample that is both symmetric and near-Gaussian
	// (kurtosis close to 3) is strongly penalized, since that territory
	// belongs to the Normal fitter, which Beta should lose to there.
	if model.Alpha < 1 && model.Beta < 1 {
		score *= 0.9
	}
	predictedSkew := betaSkewness(model.Alpha, model.Beta)
	if math.Abs(predictedSkew-stats.Skewness) < 0.3 {
		score *= 0.9
	}
	symmetryGap := math.Abs(model.Alpha - model.Beta)
	if symmetryGap < 0.1 && math.Abs(stats.Kurtosis-3) < 0.2 {
		score *= 1.25
	}

	return Result{Model: model, Score: clampScore(score), Tag: distshape.Beta}, nil
}
