package distshape

import (
	"math"
	"sort"
)

// CompositeComponent is one (weight, model) pair in a mixture.
type CompositeComponent struct {
	Weight float64
	Model  ScalarModel
}

// CompositeModel is a weighted mixture of child ScalarModels. Weights sum
// to 1 within 1e-9 after normalization, and components are kept in
// canonical order (sorted by CharacteristicLocation) so two equivalent
// composites compare equal, per spec.md §3/§8.
type CompositeModel struct {
	Components []CompositeComponent
}

// NewCompositeModel normalizes weights and canonically orders components.
func NewCompositeModel(components []CompositeComponent) CompositeModel {
	out := make([]CompositeComponent, len(components))
	copy(out, components)
	var total float64
	for _, c := range out {
		total += c.Weight
	}
	if total > 0 {
		for i := range out {
			out[i].Weight /= total
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Model.CharacteristicLocation() < out[j].Model.CharacteristicLocation()
	})
	return CompositeModel{Components: out}
}

func (c CompositeModel) Type() ModelType { return Composite }

func (c CompositeModel) CDF(x float64) float64 {
	var sum float64
	for _, comp := range c.Components {
		sum += comp.Weight * comp.Model.CDF(x)
	}
	return sum
}

func (c CompositeModel) InverseCDF(u float64) float64 {
	lo, hi := c.bounds()
	cdf := func(x float64) float64 { return c.CDF(x) }
	return invertWithExpansion(cdf, u, lo, hi)
}

func (c CompositeModel) bounds() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, comp := range c.Components {
		loc := comp.Model.CharacteristicLocation()
		if loc < lo {
			lo = loc
		}
		if loc > hi {
			hi = loc
		}
	}
	if !math.IsInf(lo, 0) {
		lo -= 1
		hi += 1
	}
	return lo, hi
}

func invertWithExpansion(cdf func(float64) float64, u, lo, hi float64) float64 {
	for cdf(lo) > u {
		lo -= (hi - lo + 1)
	}
	for cdf(hi) < u {
		hi += (hi - lo + 1)
	}
	for i := 0; i < 200; i++ {
		mid := lo + (hi-lo)/2
		if cdf(mid) < u {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo + (hi-lo)/2
}

func (c CompositeModel) CharacteristicLocation() float64 {
	var sum float64
	for _, comp := range c.Components {
		sum += comp.Weight * comp.Model.CharacteristicLocation()
	}
	return sum
}

// WeightSum returns the sum of component weights, for validating the
// Sigma wi = 1 invariant (spec.md §3/§8).
func (c CompositeModel) WeightSum() float64 {
	var sum float64
	for _, comp := range c.Components {
		sum += comp.Weight
	}
	return sum
}
