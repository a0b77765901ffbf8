package modedetect

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
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

func TestDetectUnimodalSample(t *testing.T) {
	rng := &xorshift{state: 1}
	data := make([]float64, 5000)
	for i := range data {
		data[i] = rng.normal(0, 1)
	}
	sort.Float64s(data)

	result := Detect(DefaultConfig(), data)
	assert.LessOrEqual(t, result.NumModes, 2)
	assert.Less(t, result.DipStatistic, 0.3)
}

func TestDetectBimodalSample(t *testing.T) {
	rng := &xorshift{state: 2}
	data := make([]float64, 6000)
	for i := range data {
		if i%2 == 0 {
			data[i] = rng.normal(-6, 0.6)
		} else {
			data[i] = rng.normal(6, 0.6)
		}
	}
	sort.Float64s(data)

	result := Detect(DefaultConfig(), data)
	assert.Equal(t, 2, result.NumModes)
	assert.Len(t, result.ModeLocations, 2)
	assert.Greater(t, result.DipStatistic, 0.2)
	assert.Less(t, result.ModeLocations[0], 0.0)
	assert.Greater(t, result.ModeLocations[1], 0.0)
}

func TestDetectConstantSample(t *testing.T) {
	data := make([]float64, 1000)
	for i := range data {
		data[i] = 5.0
	}
	result := Detect(DefaultConfig(), data)
	assert.Equal(t, 1, result.NumModes)
	assert.Equal(t, []float64{5.0}, result.ModeLocations)
}

func TestDetectEmptySample(t *testing.T) {
	result := Detect(DefaultConfig(), nil)
	assert.Equal(t, 1, result.NumModes)
}

func TestDetectRespectsKMax(t *testing.T) {
	rng := &xorshift{state: 3}
	data := make([]float64, 12000)
	centers := []float64{-20, -14, -8, -2, 4, 10, 16}
	for i := range data {
		c := centers[i%len(centers)]
		data[i] = rng.normal(c, 0.3)
	}
	sort.Float64s(data)

	cfg := DefaultConfig()
	cfg.KMax = 3
	result := Detect(cfg, data)
	assert.LessOrEqual(t, result.NumModes, 3)
}

func TestDetectBimodalSampleReportsMultimodalAndWeights(t *testing.T) {
	rng := &xorshift{state: 2}
	data := make([]float64, 6000)
	for i := range data {
		if i%2 == 0 {
			data[i] = rng.normal(-6, 0.6)
		} else {
			data[i] = rng.normal(6, 0.6)
		}
	}
	sort.Float64s(data)

	result := Detect(DefaultConfig(), data)
	assert.True(t, result.Multimodal)
	assert.Len(t, result.PeakHeights, 2)
	assert.Equal(t, 1.0, result.PeakHeights[0])
	assert.InDelta(t, 1.0, result.PeakHeights[1], 0.3)
	assert.Len(t, result.ModeWeights, 2)
	assert.InDelta(t, 1.0, result.ModeWeights[0]+result.ModeWeights[1], 1e-9)
	assert.InDelta(t, 0.5, result.ModeWeights[0], 0.1)
}

func TestDetectUnimodalSampleNotMultimodal(t *testing.T) {
	rng := &xorshift{state: 1}
	data := make([]float64, 5000)
	for i := range data {
		data[i] = rng.normal(0, 1)
	}
	sort.Float64s(data)

	result := Detect(DefaultConfig(), data)
	assert.False(t, result.Multimodal)
}

func TestAnalyzeGapsFindsContiguousGapRegion(t *testing.T) {
	density := []float64{1, 1, 1, 1, 0, 0, 1, 1, 1, 1}
	ev := analyzeGaps(density)
	assert.GreaterOrEqual(t, ev.gapRegions, 1)
	assert.True(t, ev.present())
}

func TestAnalyzeGapsNoEvidenceOnUniformDensity(t *testing.T) {
	density := []float64{1, 1, 1, 1, 1, 1, 1, 1}
	ev := analyzeGaps(density)
	assert.False(t, ev.present())
}

func TestModeWeightsAssignsNearestPeak(t *testing.T) {
	sorted := []float64{-6, -5.9, -6.1, 5.9, 6, 6.1}
	weights := modeWeights(sorted, []float64{-6, 6})
	assert.InDelta(t, 0.5, weights[0], 1e-9)
	assert.InDelta(t, 0.5, weights[1], 1e-9)
}
