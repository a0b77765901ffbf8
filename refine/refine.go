// Package refine implements the Iterative Refiner of spec.md §4.10: a
// tiered escalation that tries the cheapest model families first and
// only escalates to a more expensive family when the cheaper tier's
// goodness-of-fit fails a threshold. A tier is accepted on its KS score
// alone; the accepted result then gets a round-trip verification pass
// (sample from the fitted model, re-fit the same family, compare CDF
// values at five quantiles) whose outcome is reported in Result.Verified.
// A failed verification neither rejects the result nor triggers
// escalation, and fitted parameters are not compared directly.
package refine

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/nosqlbench/vectorstat/composite"
	"github.com/nosqlbench/vectorstat/distshape"
	"github.com/nosqlbench/vectorstat/fit"
	"github.com/nosqlbench/vectorstat/moment"
)

// Tier names the four escalation stages of spec.md §4.10.
type Tier string

const (
	TierSimpleParametric   Tier = "simple_parametric"
	TierExtendedParametric Tier = "extended_parametric"
	TierComposite          Tier = "composite"
	TierEmpirical          Tier = "empirical"
)

// Config tunes the refiner.
type Config struct {
	// ParametricKSThreshold is the KS-statistic ceiling a simple or
	// extended parametric fit must clear to be accepted without
	// escalating further.
	ParametricKSThreshold float64
	// CompositeKSThreshold is the (looser) ceiling a composite fit must
	// clear, since a mixture is expected to carry a small irreducible
	// sanity-check/complexity penalty on top of its KS statistic.
	CompositeKSThreshold float64
	// CompositeKMax bounds how many mixture-component counts are tried
	// in the composite tier (k = 2..CompositeKMax).
	CompositeKMax int
	// RoundTripSamples is how many samples are drawn from a candidate
	// model to verify it re-fits to consistent parameters.
	RoundTripSamples int
	// DriftTolerance is the largest absolute difference between the
	// original and re-fitted models' CDF values, at any of the round-trip
	// check's reference quantiles, before the result is flagged unverified.
	DriftTolerance float64
	// RandSeed seeds the round-trip sampler deterministically so refine
	// runs are reproducible; two Refiners built with the same seed
	// produce identical verification draws.
	RandSeed uint64
}

// DefaultConfig returns spec.md §4.10 defaults: parametric KS threshold
// 0.03, composite KS threshold 0.05, composite k up to 10, 500 round-trip
// samples, 2% drift tolerance.
func DefaultConfig() Config {
	return Config{
		ParametricKSThreshold: 0.03,
		CompositeKSThreshold:  0.05,
		CompositeKMax:         10,
		RoundTripSamples:      500,
		DriftTolerance:        0.02,
		RandSeed:              1,
	}
}

// Result is a refined fit, reporting which tier produced it and whether
// the round-trip verification pass confirmed its parameters.
type Result struct {
	fit.Result
	Tier     Tier
	Verified bool
}

// Refiner escalates through the four tiers of spec.md §4.10.
type Refiner struct {
	Config
	SimpleTier   []fit.Fitter
	ExtendedTier []fit.Fitter
	Empirical    fit.Fitter
}

// New builds a Refiner with the standard tier assignments: Normal and
// Uniform as the simple tier, Beta/Gamma/Student-t/Inverse-Gamma/
// Beta-Prime as the extended tier, and the default Empirical fitter as
// the last-resort tier.
func New(cfg Config) Refiner {
	return Refiner{
		Config: cfg,
		SimpleTier: []fit.Fitter{
			fit.DefaultNormalFitter(),
			fit.DefaultUniformFitter(),
		},
		ExtendedTier: []fit.Fitter{
			fit.DefaultBetaFitter(),
			fit.DefaultGammaFitter(),
			fit.DefaultStudentTFitter(),
			fit.DefaultInverseGammaFitter(),
			fit.DefaultBetaPrimeFitter(),
		},
		Empirical: fit.DefaultEmpiricalFitter(),
	}
}

// Refine runs the tiered escalation over sorted (must already be
// ascending) and returns the first tier's result to clear its
// threshold; if no tier clears its threshold, the Empirical fallback is
// returned unconditionally. Whichever result is returned carries the
// round-trip verification outcome in Verified; that outcome does not
// affect which tier is accepted.
func (r Refiner) Refine(stats moment.Stats, sorted []float64) (Result, error) {
	if len(sorted) == 0 {
		return Result{}, errEmptySample
	}
	threshold := r.parametricThreshold()

	if best, ok := bestOf(r.SimpleTier, stats, sorted, threshold); ok {
		return r.finish(best, TierSimpleParametric, sorted), nil
	}
	if best, ok := bestOf(r.ExtendedTier, stats, sorted, threshold); ok {
		return r.finish(best, TierExtendedParametric, sorted), nil
	}
	if best, ok := r.bestComposite(stats, sorted); ok {
		return r.finish(best, TierComposite, sorted), nil
	}

	empiricalResult, err := r.Empirical.Fit(stats, sorted)
	if err != nil {
		return Result{}, err
	}
	return r.finish(empiricalResult, TierEmpirical, sorted), nil
}

func bestOf(fitters []fit.Fitter, stats moment.Stats, sorted []float64, threshold float64) (fit.Result, bool) {
	var best fit.Result
	found := false
	for _, f := range fitters {
		result, err := f.Fit(stats, sorted)
		if err != nil {
			continue
		}
		if !found || result.Score < best.Score {
			best = result
			found = true
		}
	}
	if !found {
		return fit.Result{}, false
	}
	return best, best.Score <= threshold
}

func (r Refiner) bestComposite(stats moment.Stats, sorted []float64) (fit.Result, bool) {
	kMax := r.CompositeKMax
	if kMax <= 0 {
		kMax = 10
	}
	componentSelector := simpleComponentSelector{tier: append(append([]fit.Fitter(nil), r.SimpleTier...), r.ExtendedTier...)}

	var best fit.Result
	found := false
	for k := 2; k <= kMax; k++ {
		cfg := composite.DefaultConfig()
		cfg.MaxComponents = k
		cfg.Mode.KMax = k
		fitter := composite.New(componentSelector, cfg)
		result, err := fitter.Fit(stats, sorted)
		if err != nil {
			continue
		}
		if !found || result.Score < best.Score {
			best = result
			found = true
		}
	}
	if !found {
		return fit.Result{}, false
	}
	return best, best.Score <= r.compositeThreshold()
}

// simpleComponentSelector satisfies composite.ComponentSelector using a
// plain lowest-score pick over a fixed fitter list, so package refine
// does not depend on package selector.
type simpleComponentSelector struct {
	tier []fit.Fitter
}

func (s simpleComponentSelector) Select(stats moment.Stats, sorted []float64) (fit.Result, error) {
	// No threshold gating here: a component selector always wants
	// whichever family scored best, unlike the tiered Refiner itself.
	best, ok := bestOf(s.tier, stats, sorted, math.MaxFloat64)
	if !ok {
		return fit.Result{}, errEmptySample
	}
	return best, nil
}

func (r Refiner) parametricThreshold() float64 {
	if r.ParametricKSThreshold <= 0 {
		return 0.03
	}
	return r.ParametricKSThreshold
}

func (r Refiner) compositeThreshold() float64 {
	if r.CompositeKSThreshold <= 0 {
		return 0.05
	}
	return r.CompositeKSThreshold
}

// finish runs the round-trip verification pass and wraps result.
func (r Refiner) finish(result fit.Result, tier Tier, sorted []float64) Result {
	verified := r.verify(result, sorted)
	return Result{Result: result, Tier: tier, Verified: verified}
}

// verify draws RoundTripSamples samples from result.Model's InverseCDF,
// re-fits the same family, and checks the refit's CDF agrees with the
// original model's CDF within DriftTolerance at a handful of reference
// quantiles — a stand-in for direct parameter comparison that works
// uniformly across every model type including Composite and Empirical,
// which have no single scalar "parameter vector" to diff.
func (r Refiner) verify(result fit.Result, sorted []float64) bool {
	n := r.RoundTripSamples
	if n <= 0 {
		n = 500
	}
	tol := r.DriftTolerance
	if tol <= 0 {
		tol = 0.02
	}
	src := rand.New(rand.NewPCG(r.seed(), r.seed()^0x9E3779B97F4A7C15))

	samples := make([]float64, n)
	for i := 0; i < n; i++ {
		u := src.Float64()
		if u <= 0 {
			u = 1e-9
		}
		if u >= 1 {
			u = 1 - 1e-9
		}
		samples[i] = result.Model.InverseCDF(u)
	}
	sort.Float64s(samples)

	refitStats := statsOf(samples)
	refitted, err := refitSameFamily(result.Tag, refitStats, samples)
	if err != nil {
		return false
	}

	quantiles := []float64{0.1, 0.25, 0.5, 0.75, 0.9}
	for _, q := range quantiles {
		x := result.Model.InverseCDF(q)
		original := result.Model.CDF(x)
		refit := refitted.CDF(x)
		if math.Abs(original-refit) > tol {
			return false
		}
	}
	return true
}

func (r Refiner) seed() uint64 {
	if r.RandSeed == 0 {
		return 1
	}
	return r.RandSeed
}

func refitSameFamily(tag distshape.ModelType, stats moment.Stats, sorted []float64) (distshape.ScalarModel, error) {
	switch tag {
	case distshape.Normal:
		return fit.DefaultNormalFitter().Estimate(stats, sorted), nil
	case distshape.Uniform:
		return fit.DefaultUniformFitter().Estimate(stats, sorted), nil
	case distshape.Beta:
		return fit.DefaultBetaFitter().Estimate(stats, sorted), nil
	case distshape.Gamma:
		return fit.DefaultGammaFitter().Estimate(stats, sorted), nil
	case distshape.StudentT:
		return fit.DefaultStudentTFitter().Estimate(stats, sorted), nil
	case distshape.InverseGamma:
		return fit.DefaultInverseGammaFitter().Estimate(stats, sorted), nil
	case distshape.BetaPrime:
		return fit.DefaultBetaPrimeFitter().Estimate(stats, sorted), nil
	case distshape.PearsonIV:
		return fit.DefaultPearsonIVFitter().Estimate(stats, sorted), nil
	case distshape.Empirical:
		return fit.DefaultEmpiricalFitter().Estimate(stats, sorted), nil
	default:
		// Composite: a full re-segmentation is expensive and composite
		// component boundaries are not guaranteed stable across resampling,
		// so the round-trip check for Composite compares against a quick
		// Normal re-fit of the resampled data's overall mean/variance
		// instead, which still catches a grossly inconsistent model.
		return fit.DefaultNormalFitter().Estimate(stats, sorted), nil
	}
}

func statsOf(sorted []float64) moment.Stats {
	acc := moment.NewAccumulator(0)
	for _, v := range sorted {
		acc.Add(v)
	}
	return acc.Stats()
}

type refineError string

func (e refineError) Error() string { return string(e) }

const errEmptySample = refineError("refine: empty sample")
