package composite

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nosqlbench/vectorstat/distshape"
	"github.com/nosqlbench/vectorstat/fit"
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

// normalOnlySelector is a minimal ComponentSelector that always fits a
// Normal, standing in for package selector's full panel without this
// test depending on it.
type normalOnlySelector struct{}

func (normalOnlySelector) Select(stats moment.Stats, sorted []float64) (fit.Result, error) {
	return fit.DefaultNormalFitter().Fit(stats, sorted)
}

func bimodalSample(n int, seed uint64) []float64 {
	rng := &xorshift{state: seed}
	data := make([]float64, n)
	for i := range data {
		if i%2 == 0 {
			data[i] = rng.normal(-8, 0.7)
		} else {
			data[i] = rng.normal(8, 0.7)
		}
	}
	sort.Float64s(data)
	return data
}

func statsOfSample(sorted []float64) moment.Stats {
	acc := moment.NewAccumulator(0)
	for _, v := range sorted {
		acc.Add(v)
	}
	return acc.Stats()
}

func TestCompositeFitterSegmentsBimodalSample(t *testing.T) {
	sorted := bimodalSample(6000, 11)
	stats := statsOfSample(sorted)

	f := New(normalOnlySelector{}, DefaultConfig())
	result, err := f.Fit(stats, sorted)
	require.NoError(t, err)
	model := result.Model.(distshape.CompositeModel)

	assert.GreaterOrEqual(t, len(model.Components), 2)
	assert.InDelta(t, 1.0, model.WeightSum(), 1e-9)
	assert.Less(t, result.Score, 0.5)
}

func TestCompositeFitterFallsBackOnUnimodalSample(t *testing.T) {
	rng := &xorshift{state: 22}
	data := make([]float64, 4000)
	for i := range data {
		data[i] = rng.normal(0, 1)
	}
	sort.Float64s(data)
	stats := statsOfSample(data)

	f := New(normalOnlySelector{}, DefaultConfig())
	result, err := f.Fit(stats, data)
	require.NoError(t, err)
	model := result.Model.(distshape.CompositeModel)
	assert.GreaterOrEqual(t, len(model.Components), 1)
}

func TestCompositeFitterRejectsEmptySample(t *testing.T) {
	f := New(normalOnlySelector{}, DefaultConfig())
	_, err := f.Fit(moment.Stats{}, nil)
	assert.Error(t, err)
}

func TestSanityCheckCDFDetectsNoViolationOnValidComposite(t *testing.T) {
	model := distshape.NewCompositeModel([]distshape.CompositeComponent{
		{Weight: 0.5, Model: distshape.NormalModel{Mu: -3, Sigma: 1}},
		{Weight: 0.5, Model: distshape.NormalModel{Mu: 3, Sigma: 1}},
	})
	sorted := []float64{-10, -5, 0, 5, 10}
	violation := sanityCheckCDF(model, sorted, 101)
	assert.Less(t, violation, 1e-9)
}

func TestFitEMRecoversTwoClusters(t *testing.T) {
	sorted := bimodalSample(4000, 33)
	model := FitEM(sorted, DefaultEMConfig())
	assert.Len(t, model.Components, 2)
	assert.InDelta(t, 1.0, model.WeightSum(), 1e-6)

	locs := make([]float64, len(model.Components))
	for i, c := range model.Components {
		locs[i] = c.Model.CharacteristicLocation()
	}
	assert.Less(t, locs[0], 0.0)
	assert.Greater(t, locs[1], 0.0)
}

func TestFitEMHandlesEmptyInput(t *testing.T) {
	model := FitEM(nil, DefaultEMConfig())
	assert.Len(t, model.Components, 1)
}

func TestCompositeComplexityMatchesSpecTable(t *testing.T) {
	f := New(normalOnlySelector{}, DefaultConfig())
	assert.Equal(t, 9, f.Complexity())
}

func TestSegmentByModesRejectsUndersizedSegments(t *testing.T) {
	// Well-separated but thin clusters: modedetect may still report two
	// modes, but neither segment clears the 50-sample precondition, so
	// segmentByModes must fall back to treating the sample as one piece.
	sorted := bimodalSample(40, 44)
	segments := segmentByModes(sorted, DefaultConfig().Mode)
	require.Len(t, segments, 1)
	assert.Equal(t, len(sorted), len(segments[0]))
}

func TestSegmentByModesSegmentsWellSampledBimodal(t *testing.T) {
	sorted := bimodalSample(6000, 11)
	segments := segmentByModes(sorted, DefaultConfig().Mode)
	require.GreaterOrEqual(t, len(segments), 2)
	for _, seg := range segments {
		assert.GreaterOrEqual(t, len(seg), minSamplesPerMode)
	}
}
