package refine

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nosqlbench/vectorstat/distshape"
	"github.com/nosqlbench/vectorstat/moment"
)

type xorshift struct{ state uint64 }

func (x *xorshift) next() float64 {
	x.state ^= x.state << 13
	x.state ^= x.state >> 7
	x.state ^= x.state << 17
	return float64(x.state%1_000_000_000) / 1_000_000_000
}

func (x *xorshift) normal(mu, sigma float64) float64 {
	u1, u2 := x.next(), x.next()
	if u1 <= 1e-12 {
		u1 = 1e-12
	}
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	return mu + sigma*z
}

func statsAndSorted(data []float64) (moment.Stats, []float64) {
	acc := moment.NewAccumulator(0)
	for _, v := range data {
		acc.Add(v)
	}
	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)
	return acc.Stats(), sorted
}

func TestRefineStopsAtSimpleTierForGaussianSample(t *testing.T) {
	rng := &xorshift{state: 10}
	data := make([]float64, 8000)
	for i := range data {
		data[i] = rng.normal(5, 1.5)
	}
	stats, sorted := statsAndSorted(data)

	r := New(DefaultConfig())
	result, err := r.Refine(stats, sorted)
	require.NoError(t, err)
	assert.Equal(t, TierSimpleParametric, result.Tier)
	assert.Equal(t, distshape.Normal, result.Tag)
	assert.True(t, result.Verified)
}

func TestRefineEscalatesToExtendedTierForSkewedSample(t *testing.T) {
	rng := &xorshift{state: 11}
	data := make([]float64, 8000)
	for i := range data {
		var sum float64
		for j := 0; j < 2; j++ {
			sum += -1.5 * math.Log(rng.next()+1e-12)
		}
		data[i] = sum
	}
	stats, sorted := statsAndSorted(data)

	r := New(DefaultConfig())
	result, err := r.Refine(stats, sorted)
	require.NoError(t, err)
	assert.Contains(t, []Tier{TierSimpleParametric, TierExtendedParametric}, result.Tier)
}

func TestRefineFallsBackToEmpiricalForHardSample(t *testing.T) {
	rng := &xorshift{state: 12}
	data := make([]float64, 8000)
	for i := range data {
		if i%3 == 0 {
			data[i] = rng.normal(-10, 0.3)
		} else if i%3 == 1 {
			data[i] = rng.normal(0, 0.3)
		} else {
			data[i] = rng.normal(10, 0.3)
		}
	}
	stats, sorted := statsAndSorted(data)

	cfg := DefaultConfig()
	cfg.ParametricKSThreshold = 0.001 // unreachably strict, forces escalation
	cfg.CompositeKSThreshold = 0.001
	r := New(cfg)
	result, err := r.Refine(stats, sorted)
	require.NoError(t, err)
	assert.Equal(t, TierEmpirical, result.Tier)
}

func TestRefineRejectsEmptySample(t *testing.T) {
	r := New(DefaultConfig())
	_, err := r.Refine(moment.Stats{}, nil)
	assert.Error(t, err)
}

func TestRefineDeterministicAcrossRunsWithSameSeed(t *testing.T) {
	rng := &xorshift{state: 13}
	data := make([]float64, 4000)
	for i := range data {
		data[i] = rng.normal(0, 1)
	}
	stats, sorted := statsAndSorted(data)

	cfg := DefaultConfig()
	cfg.RandSeed = 42
	r1 := New(cfg)
	r2 := New(cfg)

	res1, err1 := r1.Refine(stats, sorted)
	res2, err2 := r2.Refine(stats, sorted)
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, res1.Verified, res2.Verified)
	assert.Equal(t, res1.Tier, res2.Tier)
}
