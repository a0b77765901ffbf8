package fit

import (
	"math"

	"github.com/nosqlbench/vectorstat/distshape"
	"github.com/nosqlbench/vectorstat/moment"
)

// Classify applies the Pearson system's kappa discriminant (spec.md
// §4.6) to a sample's skewness/kurtosis to suggest which fitter is most
// likely to produce the best structural match, letting a caller try that
// fitter first (or exclusively, in a performance-constrained panel)
// before falling back to the full fitter set.
//
// beta1 = skewness^2, beta2 = kurtosis (raw). When beta1 is
// approximately zero (the sample is symmetric), the branch is decided
// by kurtosis alone: near 3 is Normal, below 3 is a symmetric
// bounded-support shape (Type II, reported as Beta since this package
// has no distinct Type-II model), above 3 is heavy-tailed (Type VII,
// Student-t).
//
// Otherwise,
//
//	kappa = beta1*(beta2+3)^2 / (4*(4*beta2-3*beta1)*(2*beta2-3*beta1-6))
//
// partitions the remaining Pearson types:
//
//	kappa < 0        : Type IV     (PearsonIV)
//	kappa ~ 0         : Type III    (Gamma)
//	0 < kappa < 1     : Type I      (Beta)
//	kappa ~ 1         : Type V      (InverseGamma)
//	kappa > 1         : Type VI     (BetaPrime)
//
// Tolerances, per spec.md §4.6: 0.05 for kappa, 0.1 for skewness (the
// beta1~0 symmetry check), 0.2 for kurtosis (the beta2~3 Normal check).
func Classify(stats moment.Stats) distshape.ModelType {
	const kappaTol = 0.05
	const skewTol = 0.1
	const kurtosisTol = 0.2

	beta1 := stats.Skewness * stats.Skewness
	beta2 := stats.Kurtosis

	if math.Abs(stats.Skewness) < skewTol {
		switch {
		case math.Abs(beta2-3) < kurtosisTol:
			return distshape.Normal
		case beta2 < 3:
			// Type II, symmetric bounded support: no distinct Symmetric-Beta
			// model exists in this package, so the Beta fitter (which can
			// represent a symmetric platykurtic shape via alpha=beta>1) is
			// returned in its place.
			return distshape.Beta
		default:
			return distshape.StudentT
		}
	}

	denom := 4 * (4*beta2 - 3*beta1) * (2*beta2 - 3*beta1 - 6)
	if math.Abs(denom) < 1e-9 {
		return distshape.Gamma
	}

	kappa := beta1 * (beta2 + 3) * (beta2 + 3) / denom

	switch {
	case kappa < -kappaTol:
		return distshape.PearsonIV
	case math.Abs(kappa) <= kappaTol:
		return distshape.Gamma
	case kappa < 1-kappaTol:
		return distshape.Beta
	case math.Abs(kappa-1) <= kappaTol:
		return distshape.InverseGamma
	default:
		return distshape.BetaPrime
	}
}
