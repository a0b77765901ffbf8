package extract

import (
	"math"
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

// gaussianMatrix builds a nSamples x nDims matrix whose d-th column is
// Normal(d+1, 1) distributed, each dimension seeded independently.
func gaussianMatrix(nSamples, nDims int) [][]float64 {
	data := make([][]float64, nSamples)
	rngs := make([]*xorshift, nDims)
	for d := range rngs {
		rngs[d] = &xorshift{state: uint64(1000 + d*97)}
	}
	for r := 0; r < nSamples; r++ {
		row := make([]float64, nDims)
		for d := 0; d < nDims; d++ {
			row[d] = rngs[d].normal(float64(d+1), 1)
		}
		data[r] = row
	}
	return data
}

func TestValidateRejectsEmptyAndJaggedInput(t *testing.T) {
	assert.ErrorIs(t, Validate(nil), ErrMalformedInput)
	assert.ErrorIs(t, Validate([][]float64{}), ErrMalformedInput)
	assert.ErrorIs(t, Validate([][]float64{{}}), ErrMalformedInput)
	assert.ErrorIs(t, Validate([][]float64{{1, 2}, {1}}), ErrMalformedInput)
	assert.NoError(t, Validate([][]float64{{1, 2}, {3, 4}}))
}

func TestExtractSerialFitsEachDimension(t *testing.T) {
	data := gaussianMatrix(2000, 5)
	cfg := DefaultConfig()

	model, err := ExtractSerial(data, cfg)
	require.NoError(t, err)
	assert.Equal(t, 5, model.NumDimensions)
	assert.EqualValues(t, 2000, model.NumSamples)
	require.Len(t, model.Fits, 5)

	for d := 0; d < 5; d++ {
		fr, ok := model.ByDimension(d)
		require.True(t, ok)
		assert.Equal(t, d, fr.Dimension)
		assert.InDelta(t, float64(d+1), fr.Model.CharacteristicLocation(), 0.2)
	}
	_, ok := model.ByDimension(5)
	assert.False(t, ok)
	_, ok = model.ByDimension(-1)
	assert.False(t, ok)
}

func TestExtractSerialReportsProgressAndHonorsCancellation(t *testing.T) {
	data := gaussianMatrix(600, 3)
	cfg := DefaultConfig()

	var seen []float64
	cfg.Progress = func(progress float64, message string) bool {
		seen = append(seen, progress)
		return true
	}
	_, err := ExtractSerial(data, cfg)
	require.NoError(t, err)
	assert.NotEmpty(t, seen)
	assert.InDelta(t, 1.0, seen[len(seen)-1], 1e-9)

	cfg.Progress = func(progress float64, message string) bool { return false }
	_, err = ExtractSerial(data, cfg)
	assert.ErrorIs(t, err, ErrCanceled)
}

type recordingObserver struct {
	started, updated, completed []int
}

func (r *recordingObserver) OnDimensionStart(dim int) { r.started = append(r.started, dim) }
func (r *recordingObserver) OnAccumulatorUpdate(dim int, _ DimensionStats) {
	r.updated = append(r.updated, dim)
}
func (r *recordingObserver) OnDimensionComplete(dim int, _ FitResult) {
	r.completed = append(r.completed, dim)
}

func TestExtractSerialDrivesObserverCallbacks(t *testing.T) {
	data := gaussianMatrix(500, 4)
	cfg := DefaultConfig()
	obs := &recordingObserver{}
	cfg.Observer = obs

	_, err := ExtractSerial(data, cfg)
	require.NoError(t, err)
	assert.Len(t, obs.started, 4)
	assert.Len(t, obs.updated, 4)
	assert.Len(t, obs.completed, 4)
}

func TestExtractConvergenceDrivenStopsEarlyOnSettledData(t *testing.T) {
	data := gaussianMatrix(20000, 3)
	cfg := DefaultConfig()
	convCfg := moment.ConvergenceConfig{
		CheckpointInterval: 200,
		Tolerance:          0.5,
		MinSamples:         1000,
	}

	model, err := ExtractConvergenceDriven(data, cfg, convCfg)
	require.NoError(t, err)
	assert.Equal(t, 3, model.NumDimensions)
	assert.Less(t, model.NumSamples, int64(20000))
	assert.Greater(t, model.NumSamples, int64(0))
	for d := 0; d < 3; d++ {
		fr, ok := model.ByDimension(d)
		require.True(t, ok)
		assert.InDelta(t, float64(d+1), fr.Model.CharacteristicLocation(), 0.5)
	}
}

func TestExtractConvergenceDrivenConsumesAllDataIfNeverConverged(t *testing.T) {
	data := gaussianMatrix(1500, 2)
	cfg := DefaultConfig()
	convCfg := moment.ConvergenceConfig{
		CheckpointInterval: 100,
		Tolerance:          1e-12,
		MinSamples:         10_000_000, // unreachable, forces a full pass
	}

	model, err := ExtractConvergenceDriven(data, cfg, convCfg)
	require.NoError(t, err)
	assert.EqualValues(t, 1500, model.NumSamples)
}

func TestExtractConvergenceDrivenHonorsCancellation(t *testing.T) {
	data := gaussianMatrix(500, 2)
	cfg := DefaultConfig()
	cfg.Progress = func(progress float64, message string) bool { return false }

	_, err := ExtractConvergenceDriven(data, cfg, moment.DefaultConvergenceConfig())
	assert.ErrorIs(t, err, ErrCanceled)
}

func TestExtractParallelMatchesSerialFitsOnSameData(t *testing.T) {
	data := gaussianMatrix(3000, 20)
	cfg := DefaultConfig()

	serialModel, err := ExtractSerial(data, cfg)
	require.NoError(t, err)
	parallelModel, err := ExtractParallel(data, cfg)
	require.NoError(t, err)

	require.Equal(t, serialModel.NumDimensions, parallelModel.NumDimensions)
	require.EqualValues(t, serialModel.NumSamples, parallelModel.NumSamples)
	for d := 0; d < serialModel.NumDimensions; d++ {
		sfr, _ := serialModel.ByDimension(d)
		pfr, _ := parallelModel.ByDimension(d)
		assert.InDelta(t, sfr.Model.CharacteristicLocation(), pfr.Model.CharacteristicLocation(), 0.2)
	}
}

func TestExtractParallelCrossesBatchBoundary(t *testing.T) {
	// dimensionBatch is 64; exercise a dimension count spanning more than
	// one batch and not a multiple of BatchWidth within the remainder.
	data := gaussianMatrix(500, 70)
	cfg := DefaultConfig()

	model, err := ExtractParallel(data, cfg)
	require.NoError(t, err)
	assert.Equal(t, 70, model.NumDimensions)
	for d := 0; d < 70; d++ {
		fr, ok := model.ByDimension(d)
		require.True(t, ok)
		assert.Equal(t, d, fr.Dimension)
	}
}

func TestExtractParallelHonorsCancellation(t *testing.T) {
	data := gaussianMatrix(400, 10)
	cfg := DefaultConfig()
	cfg.Progress = func(progress float64, message string) bool { return false }

	_, err := ExtractParallel(data, cfg)
	assert.ErrorIs(t, err, ErrCanceled)
}

func TestExtractSerialRejectsMalformedInput(t *testing.T) {
	cfg := DefaultConfig()
	_, err := ExtractSerial(nil, cfg)
	assert.ErrorIs(t, err, ErrMalformedInput)
	_, err = ExtractSerial([][]float64{{1, 2}, {1}}, cfg)
	assert.ErrorIs(t, err, ErrMalformedInput)
}

// Every Refiner ultimately falls back to Empirical (see refine.Refiner's
// unconditional final tier), so extraction over data that defeats every
// parametric and composite fit still returns a usable, if Empirical, model
// rather than an error.
func TestExtractSerialFallsBackToEmpiricalOnDegenerateData(t *testing.T) {
	rng := &xorshift{state: 99}
	data := make([][]float64, 4000)
	for i := range data {
		var v float64
		switch i % 5 {
		case 0:
			v = rng.normal(-20, 0.2)
		case 1:
			v = rng.normal(-5, 0.2)
		case 2:
			v = rng.normal(0, 0.2)
		case 3:
			v = rng.normal(5, 0.2)
		default:
			v = rng.normal(20, 0.2)
		}
		data[i] = []float64{v}
	}

	cfg := DefaultConfig()
	cfg.Refiner.ParametricKSThreshold = 0.0001
	cfg.Refiner.CompositeKSThreshold = 0.0001

	model, err := ExtractSerial(data, cfg)
	require.NoError(t, err)
	fr, ok := model.ByDimension(0)
	require.True(t, ok)
	assert.Equal(t, distshape.Empirical, fr.Tag)
}
