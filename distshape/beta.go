package distshape

import "github.com/nosqlbench/vectorstat/specfunc"

// BetaModel is the Beta distribution with shape parameters Alpha, Beta
// rescaled onto the support [Lo,Hi]. Mirrors gonum's distuv.Beta (Alpha,
// Beta fields), generalized with a support rescaling the way spec.md §3
// requires.
type BetaModel struct {
	Alpha, Beta float64
	Lo, Hi      float64
}

func (b BetaModel) Type() ModelType { return Beta }

func (b BetaModel) standardize(x float64) float64 {
	return (x - b.Lo) / (b.Hi - b.Lo)
}

func (b BetaModel) CDF(x float64) float64 {
	if x <= b.Lo {
		return 0
	}
	if x >= b.Hi {
		return 1
	}
	return specfunc.RegIncBeta(b.Alpha, b.Beta, b.standardize(x))
}

func (b BetaModel) InverseCDF(u float64) float64 {
	std := specfunc.RegIncBetaInv(b.Alpha, b.Beta, u)
	return b.Lo + std*(b.Hi-b.Lo)
}

func (b BetaModel) CharacteristicLocation() float64 {
	mean := b.Alpha / (b.Alpha + b.Beta)
	return b.Lo + mean*(b.Hi-b.Lo)
}
