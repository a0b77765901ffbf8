package distshape

import "github.com/nosqlbench/vectorstat/specfunc"

// InverseGammaModel is the Inverse-Gamma distribution with shape Alpha
// and scale Beta, supported on (0, +inf).
type InverseGammaModel struct {
	Alpha, Beta float64
}

func (ig InverseGammaModel) Type() ModelType { return InverseGamma }

func (ig InverseGammaModel) CDF(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return specfunc.RegIncGammaC(ig.Alpha, ig.Beta/x)
}

func (ig InverseGammaModel) InverseCDF(u float64) float64 {
	hi := ig.Beta / ig.Alpha * 4
	for ig.CDF(hi) < u {
		hi *= 2
	}
	return specfunc.InvertMonotonicCDF(ig.CDF, u, 1e-12, hi)
}

func (ig InverseGammaModel) CharacteristicLocation() float64 {
	if ig.Alpha > 1 {
		return ig.Beta / (ig.Alpha - 1)
	}
	return ig.Beta
}
