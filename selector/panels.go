package selector

import (
	"github.com/nosqlbench/vectorstat/composite"
	"github.com/nosqlbench/vectorstat/fit"
)

// Default returns the standard panel, fit.AllFitters: every parametric
// fitter except Pearson-IV, plus the Empirical fallback.
func Default() Selector {
	return New(fit.AllFitters())
}

// ParametricOnly returns a panel that never degrades to the Empirical
// histogram fallback, for callers that require a closed-form model.
func ParametricOnly() Selector {
	return New(fit.ParametricFitters())
}

// BoundedData returns a panel restricted to fitters whose support
// naturally matches a known-finite-range sample: Normal (including its
// truncated variant), Uniform, and Beta, plus the Empirical fallback.
// Gamma/Inverse-Gamma/Beta-Prime assume a one-sided-infinite support and
// are excluded since they cannot represent a hard upper bound, per
// spec.md §4.9.
func BoundedData() Selector {
	return New([]fit.Fitter{
		fit.DefaultNormalFitter(),
		fit.DefaultUniformFitter(),
		fit.DefaultBetaFitter(),
		fit.DefaultEmpiricalFitter(),
	})
}

// NormalizedVectors returns the bounded-data panel, used for vector
// components already normalized into a fixed range such as [-1, 1].
// The Beta fitter reads its support directly from the observed sample
// range rather than the nominal normalization bounds, so no bounds
// parameter is threaded through here; a caller that wants the Beta
// model's Lo/Hi pinned to the nominal bounds rather than the observed
// extrema should post-process the returned fit.Result accordingly.
func NormalizedVectors() Selector {
	return BoundedData()
}

// FullPearson returns the panel willing to pay Pearson-IV's numeric
// integration cost, per spec.md §4.9.
func FullPearson() Selector {
	return New(fit.FullPearsonFitters())
}

// MultimodalAware returns a panel that adds the Composite (mixture)
// fitter to the fit.AllFitters set (which includes Empirical), using a
// ParametricOnly selector (no
// Empirical, no nested Composite) as each mixture component's own
// best-fit selector. Package composite never imports this package; the
// composite.Fitter constructed here is handed this package's Selector
// through composite's structural ComponentSelector interface.
func MultimodalAware() Selector {
	parametric := fit.ParametricFitters()
	componentSelector := New(parametric)
	compositeFitter := composite.New(componentSelector, composite.DefaultConfig())

	fitters := append(append([]fit.Fitter(nil), fit.AllFitters()...), compositeFitter)
	return New(fitters)
}
