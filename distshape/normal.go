package distshape

import (
	"math"

	"github.com/nosqlbench/vectorstat/specfunc"
)

// NormalModel is the Normal (Gaussian) distribution, optionally truncated
// to [Lo,Hi]. Mirrors gonum's distuv.Normal (Mu, Sigma fields), extended
// with the optional truncation bounds spec.md §3/§4.4 call for.
type NormalModel struct {
	Mu, Sigma   float64
	Truncated   bool
	Lo, Hi      float64
}

func (n NormalModel) Type() ModelType { return Normal }

func (n NormalModel) untruncatedCDF(x float64) float64 {
	return 0.5 * (1 + specfunc.Erf((x-n.Mu)/(n.Sigma*math.Sqrt2)))
}

func (n NormalModel) CDF(x float64) float64 {
	if !n.Truncated {
		return n.untruncatedCDF(x)
	}
	if x < n.Lo {
		return 0
	}
	if x > n.Hi {
		return 1
	}
	num := n.untruncatedCDF(x) - n.untruncatedCDF(n.Lo)
	den := n.untruncatedCDF(n.Hi) - n.untruncatedCDF(n.Lo)
	if den <= 0 {
		return 0
	}
	return num / den
}

func (n NormalModel) InverseCDF(u float64) float64 {
	if !n.Truncated {
		return n.Mu + n.Sigma*specfunc.NormalQuantile(u)
	}
	lo := n.untruncatedCDF(n.Lo)
	hi := n.untruncatedCDF(n.Hi)
	target := lo + u*(hi-lo)
	// Clamp away from the exact endpoints, where NormalQuantile is +-Inf.
	target = math.Min(math.Max(target, 1e-12), 1-1e-12)
	return n.Mu + n.Sigma*specfunc.NormalQuantile(target)
}

func (n NormalModel) CharacteristicLocation() float64 { return n.Mu }
