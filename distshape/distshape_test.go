package distshape

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
)

func modelsUnderTest() map[string]ScalarModel {
	return map[string]ScalarModel{
		"normal":            NormalModel{Mu: 2, Sigma: 1.5},
		"normal_truncated":  NormalModel{Mu: 0, Sigma: 1, Truncated: true, Lo: -1, Hi: 1},
		"uniform":           UniformModel{Lo: -3, Hi: 4},
		"beta":              BetaModel{Alpha: 2, Beta: 5, Lo: 0, Hi: 1},
		"gamma":             GammaModel{Shape: 3, Scale: 2, Location: 0},
		"student_t":         StudentTModel{Nu: 6, Location: 0, Scale: 1},
		"inverse_gamma":     InverseGammaModel{Alpha: 4, Beta: 3},
		"beta_prime":        BetaPrimeModel{Alpha: 3, Beta: 5},
		"empirical": EmpiricalModel{
			Boundaries: []float64{0, 1, 2, 3, 4},
			CumProb:    []float64{0.2, 0.5, 0.8, 1.0},
		},
	}
}

func boundsFor(name string, m ScalarModel) (float64, float64) {
	switch v := m.(type) {
	case NormalModel:
		if v.Truncated {
			return v.Lo, v.Hi
		}
		return v.Mu - 6*v.Sigma, v.Mu + 6*v.Sigma
	case UniformModel:
		return v.Lo, v.Hi
	case BetaModel:
		return v.Lo, v.Hi
	case GammaModel:
		return v.Location + 1e-6, v.Location + v.Shape*v.Scale+8*math.Sqrt(v.Shape)*v.Scale
	case StudentTModel:
		return -20, 20
	case InverseGammaModel:
		return 1e-6, 50
	case BetaPrimeModel:
		return 1e-6, 50
	case EmpiricalModel:
		return v.Boundaries[0], v.Boundaries[len(v.Boundaries)-1]
	}
	return -10, 10
}

func TestCDFMonotonicity(t *testing.T) {
	for name, m := range modelsUnderTest() {
		lo, hi := boundsFor(name, m)
		prev := -1.0
		for i := 0; i <= 1000; i++ {
			x := lo + (hi-lo)*float64(i)/1000
			v := m.CDF(x)
			assert.GreaterOrEqualf(t, v+1e-9, prev, "%s: CDF not monotonic at x=%v", name, x)
			prev = v
		}
	}
}

func TestInverseRoundTrip(t *testing.T) {
	quantiles := []float64{0.01, 0.05, 0.25, 0.5, 0.75, 0.95, 0.99}
	for name, m := range modelsUnderTest() {
		for _, u := range quantiles {
			x := m.InverseCDF(u)
			got := m.CDF(x)
			assert.InDeltaf(t, u, got, 1e-3, "%s: round-trip at u=%v gave cdf=%v", name, u, got)
		}
	}
}

func TestCompositeWeightsNormalizeAndCanonicalOrder(t *testing.T) {
	comp := NewCompositeModel([]CompositeComponent{
		{Weight: 3, Model: NormalModel{Mu: 5, Sigma: 1}},
		{Weight: 1, Model: NormalModel{Mu: -5, Sigma: 1}},
	})
	assert.InDelta(t, 1.0, comp.WeightSum(), 1e-9)
	assert.Less(t, comp.Components[0].Model.CharacteristicLocation(), comp.Components[1].Model.CharacteristicLocation())
	assert.InDelta(t, 0.25, comp.Components[0].Weight, 1e-9)
	assert.InDelta(t, 0.75, comp.Components[1].Weight, 1e-9)
}

func TestCompositeCDFMonotonicAndRoundTrip(t *testing.T) {
	comp := NewCompositeModel([]CompositeComponent{
		{Weight: 0.5, Model: NormalModel{Mu: -2, Sigma: 0.5}},
		{Weight: 0.5, Model: NormalModel{Mu: 2, Sigma: 0.5}},
	})
	prev := -1.0
	for i := 0; i <= 200; i++ {
		x := -10 + 20*float64(i)/200
		v := comp.CDF(x)
		assert.GreaterOrEqual(t, v+1e-9, prev)
		prev = v
	}
	for _, u := range []float64{0.1, 0.5, 0.9} {
		x := comp.InverseCDF(u)
		assert.InDelta(t, u, comp.CDF(x), 1e-3)
	}
}

func TestCompositeDeterministicStructure(t *testing.T) {
	build := func() CompositeModel {
		return NewCompositeModel([]CompositeComponent{
			{Weight: 0.4, Model: NormalModel{Mu: 1, Sigma: 1}},
			{Weight: 0.6, Model: UniformModel{Lo: -1, Hi: 1}},
		})
	}
	a, b := build(), build()
	diff := cmp.Diff(a, b, cmpopts.EquateApprox(0, 1e-12))
	assert.Empty(t, diff)
}
