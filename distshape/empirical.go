package distshape

import "sort"

// EmpiricalModel is a histogram-based fallback: a piecewise-linear CDF
// over the bin boundaries, built from a Sturges-ruled histogram (see
// package fit's empirical fitter). Boundaries has len(CumProb)+1 entries;
// CumProb[i] is the cumulative probability mass at Boundaries[i+1].
type EmpiricalModel struct {
	Boundaries []float64
	CumProb    []float64
}

func (e EmpiricalModel) Type() ModelType { return Empirical }

func (e EmpiricalModel) CDF(x float64) float64 {
	if len(e.Boundaries) == 0 {
		return 0
	}
	if x <= e.Boundaries[0] {
		return 0
	}
	last := e.Boundaries[len(e.Boundaries)-1]
	if x >= last {
		return 1
	}
	// Find the bin i such that Boundaries[i] <= x < Boundaries[i+1].
	i := sort.Search(len(e.Boundaries)-1, func(k int) bool {
		return e.Boundaries[k+1] > x
	})
	lo := e.Boundaries[i]
	hi := e.Boundaries[i+1]
	cumLo := 0.0
	if i > 0 {
		cumLo = e.CumProb[i-1]
	}
	cumHi := e.CumProb[i]
	if hi == lo {
		return cumHi
	}
	frac := (x - lo) / (hi - lo)
	return cumLo + frac*(cumHi-cumLo)
}

func (e EmpiricalModel) InverseCDF(u float64) float64 {
	if len(e.Boundaries) == 0 {
		return 0
	}
	i := sort.Search(len(e.CumProb), func(k int) bool { return e.CumProb[k] >= u })
	if i >= len(e.CumProb) {
		i = len(e.CumProb) - 1
	}
	lo := e.Boundaries[i]
	hi := e.Boundaries[i+1]
	cumLo := 0.0
	if i > 0 {
		cumLo = e.CumProb[i-1]
	}
	cumHi := e.CumProb[i]
	if cumHi == cumLo {
		return lo
	}
	frac := (u - cumLo) / (cumHi - cumLo)
	return lo + frac*(hi-lo)
}

func (e EmpiricalModel) CharacteristicLocation() float64 {
	if len(e.Boundaries) == 0 {
		return 0
	}
	return e.Boundaries[0] + (e.Boundaries[len(e.Boundaries)-1]-e.Boundaries[0])/2
}
