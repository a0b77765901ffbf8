package distshape

import "github.com/nosqlbench/vectorstat/specfunc"

// BetaPrimeModel is the Beta-Prime (inverted Beta) distribution with
// shape parameters Alpha, Beta, supported on (0, +inf). If X ~
// BetaPrime(a,b) then X/(1+X) ~ Beta(a,b), which gives a closed-form CDF
// via the regularized incomplete beta function.
type BetaPrimeModel struct {
	Alpha, Beta float64
}

func (bp BetaPrimeModel) Type() ModelType { return BetaPrime }

func (bp BetaPrimeModel) CDF(x float64) float64 {
	if x <= 0 {
		return 0
	}
	y := x / (1 + x)
	return specfunc.RegIncBeta(bp.Alpha, bp.Beta, y)
}

func (bp BetaPrimeModel) InverseCDF(u float64) float64 {
	y := specfunc.RegIncBetaInv(bp.Alpha, bp.Beta, u)
	if y >= 1 {
		y = 1 - 1e-12
	}
	return y / (1 - y)
}

func (bp BetaPrimeModel) CharacteristicLocation() float64 {
	if bp.Beta > 1 {
		return bp.Alpha / (bp.Beta - 1)
	}
	return bp.Alpha
}
