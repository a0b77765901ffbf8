// Package extract implements the Extraction Orchestrator of spec.md
// §4.11/§5: it walks a row-major sample matrix (samples x dimensions),
// accumulates per-dimension moments, fits each dimension's marginal
// distribution, and assembles the results into a VectorSpaceModel. Three
// modes trade off latency against throughput: Serial (cache-blocked
// transpose, one pass), ConvergenceDriven (stops reading rows early once
// every dimension's moments have settled), and Parallel (worker-pool
// fan-out over dimension batches using 8-wide moment.BatchAccumulator
// lanes).
package extract

import (
	"errors"
	"fmt"

	"github.com/nosqlbench/vectorstat/moment"
	"github.com/nosqlbench/vectorstat/refine"
)

// DimensionStats is an alias for moment.Stats, named for the vocabulary
// of spec.md §3's data model; it carries no extra fields of its own.
type DimensionStats = moment.Stats

// FitResult pairs one dimension's refined fit with its index.
type FitResult struct {
	Dimension int
	refine.Result
}

// AllFitsData is the wire-level extraction output: one FitResult per
// dimension plus the sample/dimension counts that produced it.
type AllFitsData struct {
	NumDimensions int
	NumSamples    int64
	Fits          []FitResult
}

// VectorSpaceModel wraps AllFitsData with dimension-indexed lookup,
// the richer in-memory form callers query after extraction.
type VectorSpaceModel struct {
	AllFitsData
}

// ByDimension returns the FitResult for dim, and whether it was found.
func (m VectorSpaceModel) ByDimension(dim int) (FitResult, bool) {
	if dim < 0 || dim >= len(m.Fits) {
		return FitResult{}, false
	}
	return m.Fits[dim], true
}

// ErrMalformedInput is returned by Validate (and by every extraction
// entry point, which validates before doing any work) for a nil, empty,
// or non-rectangular (jagged) sample matrix.
var ErrMalformedInput = errors.New("extract: malformed input")

// Validate fast-fails on the malformed-input cases spec.md §4.11/§7
// names: a nil or zero-row matrix, a zero-width row, or rows of
// differing lengths (jagged/non-rectangular input).
func Validate(data [][]float64) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: no rows", ErrMalformedInput)
	}
	width := len(data[0])
	if width == 0 {
		return fmt.Errorf("%w: zero-width rows", ErrMalformedInput)
	}
	for i, row := range data {
		if len(row) != width {
			return fmt.Errorf("%w: row %d has length %d, want %d", ErrMalformedInput, i, len(row), width)
		}
	}
	return nil
}

// Observer receives progress callbacks during extraction. Every method
// must return quickly; long-running work belongs in the caller, not the
// observer.
type Observer interface {
	// OnDimensionStart fires once a dimension begins accumulating.
	OnDimensionStart(dim int)
	// OnAccumulatorUpdate fires periodically (mode-dependent) with the
	// dimension's current moment snapshot.
	OnAccumulatorUpdate(dim int, stats DimensionStats)
	// OnDimensionComplete fires once a dimension's fit is finalized.
	OnDimensionComplete(dim int, result FitResult)
}

// NoopObserver implements Observer with no-op methods, the default when
// a caller has no progress-reporting need.
type NoopObserver struct{}

func (NoopObserver) OnDimensionStart(int)                    {}
func (NoopObserver) OnAccumulatorUpdate(int, DimensionStats) {}
func (NoopObserver) OnDimensionComplete(int, FitResult)      {}

// ProgressFunc reports overall extraction progress in [0,1] plus a
// human-readable status message. Returning false requests cancellation;
// the orchestrator checks this after each row tile (Serial), after each
// row (ConvergenceDriven) or after each dimension batch (Parallel) and
// stops early, returning ErrCanceled.
type ProgressFunc func(progress float64, message string) bool

// ErrCanceled is returned when a ProgressFunc requests cancellation.
var ErrCanceled = errors.New("extract: canceled by progress callback")

// Config tunes an extraction run, shared across all three modes.
type Config struct {
	Refiner  refine.Refiner
	Observer Observer
	Progress ProgressFunc
}

// DefaultConfig returns a Config with refine.DefaultConfig's Refiner, a
// NoopObserver, and no progress callback.
func DefaultConfig() Config {
	return Config{
		Refiner:  refine.New(refine.DefaultConfig()),
		Observer: NoopObserver{},
	}
}

func (c Config) observer() Observer {
	if c.Observer == nil {
		return NoopObserver{}
	}
	return c.Observer
}

func (c Config) reportProgress(progress float64, message string) bool {
	if c.Progress == nil {
		return true
	}
	return c.Progress(progress, message)
}
