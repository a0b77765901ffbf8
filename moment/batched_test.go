package moment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchAccumulatorMatchesIndividual(t *testing.T) {
	const nSamples = 500
	cols := make([][]float64, BatchWidth)
	for d := range cols {
		cols[d] = make([]float64, nSamples)
		for s := range cols[d] {
			cols[d][s] = float64((d+1)*7+s%37) * 0.1
		}
	}

	// Reference: independent accumulators per column.
	want := make([]Stats, BatchWidth)
	for d := range cols {
		acc := NewAccumulator(d)
		for _, v := range cols[d] {
			acc.Add(v)
		}
		want[d] = acc.Stats()
	}

	buf := Interleave(nil, cols, 0, nSamples)
	require.Len(t, buf, nSamples*BatchWidth)

	batch := NewBatchAccumulator(0)
	batch.AddSweep(buf)
	got := batch.Stats()

	for d := 0; d < BatchWidth; d++ {
		assert.Equal(t, want[d].N, got[d].N)
		assert.InDelta(t, want[d].Mean, got[d].Mean, 1e-9)
		assert.InDelta(t, want[d].Variance, got[d].Variance, 1e-9)
		assert.InDelta(t, want[d].Skewness, got[d].Skewness, 1e-9)
		assert.InDelta(t, want[d].Kurtosis, got[d].Kurtosis, 1e-9)
	}
}

func TestAddInterleavedRejectsWrongWidth(t *testing.T) {
	b := NewBatchAccumulator(0)
	assert.Panics(t, func() { b.AddInterleaved([]float64{1, 2, 3}) })
}
