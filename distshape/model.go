// Package distshape defines the scalar distribution models the fitters in
// package fit produce: a tagged-variant ScalarModel for each distribution
// family spec.md §3 names, plus the Composite (mixture) and Empirical
// fallback variants. Every variant exposes CDF, InverseCDF, and a stable
// model-type tag, matching the "Model contract" external interface in
// spec.md §6.
package distshape

// ModelType is the stable model-type string tag spec.md §6 requires for
// serialization compatibility. Values must never change once shipped.
type ModelType string

const (
	Normal       ModelType = "normal"
	Uniform      ModelType = "uniform"
	Beta         ModelType = "beta"
	Gamma        ModelType = "gamma"
	StudentT     ModelType = "student_t"
	InverseGamma ModelType = "inverse_gamma"
	BetaPrime    ModelType = "beta_prime"
	PearsonIV    ModelType = "pearson_iv"
	Empirical    ModelType = "empirical"
	Composite    ModelType = "composite"
)

// ScalarModel is the contract every fitted per-dimension distribution
// satisfies: a CDF, its inverse (the quantile function) for u in (0,1),
// and a stable type tag. No downstream behavior depends on which concrete
// variant is behind the interface as long as these three round-trip
// within documented tolerances (spec.md §6).
type ScalarModel interface {
	// Type returns the stable model-type tag.
	Type() ModelType
	// CDF returns the cumulative probability at x. Must be non-decreasing.
	CDF(x float64) float64
	// InverseCDF returns x such that CDF(x) ≈ u, for u in (0,1).
	InverseCDF(u float64) float64
	// CharacteristicLocation is used to canonically order Composite
	// components (spec.md §3: "stored in canonical order (by
	// characteristic location)"). For unimodal variants this is their
	// central tendency (mean, mode, or midpoint); for Composite it is the
	// weighted average of its children's locations.
	CharacteristicLocation() float64
}
