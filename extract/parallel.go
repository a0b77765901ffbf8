package extract

import (
	"runtime"
	"sort"
	"sync"

	"github.com/nosqlbench/vectorstat/moment"
)

// dimensionBatch is the number of dimensions one worker claims per job,
// per spec.md §4.11/§5.
const dimensionBatch = 64

// reservedCPUs is held back from the worker pool for the caller's own
// goroutines (request handling, GC, the main extraction driver).
const reservedCPUs = 10

type dimensionRange struct{ start, end int }

// ExtractParallel fans dimensions out across a worker pool: a
// cache-blocked transpose builds per-dimension columns once, then each
// worker claims a dimensionBatch-wide range of dimensions, accumulates
// their moments eight lanes at a time via moment.BatchAccumulator (via
// moment.Interleave), and fits each dimension's marginal distribution.
// Worker count is runtime.NumCPU()-reservedCPUs, clamped to at least 1.
//
// Observer callbacks may be invoked concurrently from multiple workers;
// a caller-supplied Observer that is not safe for concurrent use must do
// its own synchronization.
func ExtractParallel(data [][]float64, cfg Config) (VectorSpaceModel, error) {
	if err := Validate(data); err != nil {
		return VectorSpaceModel{}, err
	}
	nSamples := len(data)
	nDims := len(data[0])

	columns := transposeCacheBlocked(data, nSamples, nDims)

	workers := runtime.NumCPU() - reservedCPUs
	if workers < 1 {
		workers = 1
	}

	batches := make([]dimensionRange, 0, (nDims+dimensionBatch-1)/dimensionBatch)
	for start := 0; start < nDims; start += dimensionBatch {
		end := start + dimensionBatch
		if end > nDims {
			end = nDims
		}
		batches = append(batches, dimensionRange{start, end})
	}

	fits := make([]FitResult, nDims)
	stats := make([]moment.Stats, nDims)
	errs := make([]error, len(batches))

	observer := cfg.observer()
	for d := 0; d < nDims; d++ {
		observer.OnDimensionStart(d)
	}

	jobs := make(chan int, len(batches))
	for i := range batches {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	var progressMu sync.Mutex
	completed := 0
	canceled := false

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for bi := range jobs {
				progressMu.Lock()
				stop := canceled
				progressMu.Unlock()
				if stop {
					return
				}
				b := batches[bi]
				accumulateBatch(b, columns, nSamples, stats)

				for d := b.start; d < b.end; d++ {
					observer.OnAccumulatorUpdate(d, stats[d])
					sorted := append([]float64(nil), columns[d]...)
					sort.Float64s(sorted)
					result, err := cfg.Refiner.Refine(stats[d], sorted)
					if err != nil {
						errs[bi] = err
						return
					}
					fr := FitResult{Dimension: d, Result: result}
					fits[d] = fr
					observer.OnDimensionComplete(d, fr)
				}

				progressMu.Lock()
				completed++
				ok := cfg.reportProgress(float64(completed)/float64(len(batches)), "fitting (parallel)")
				if !ok {
					canceled = true
				}
				progressMu.Unlock()
			}
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return VectorSpaceModel{}, err
		}
	}
	if canceled {
		return VectorSpaceModel{}, ErrCanceled
	}

	return VectorSpaceModel{AllFitsData{NumDimensions: nDims, NumSamples: int64(nSamples), Fits: fits}}, nil
}

// accumulateBatch computes moments for every dimension in b, consuming
// columns eight at a time through a BatchAccumulator where a full lane
// group is available and falling back to a plain Accumulator for the
// remainder.
func accumulateBatch(b dimensionRange, columns [][]float64, nSamples int, stats []moment.Stats) {
	width := b.end - b.start
	lane := 0
	var buf []float64
	for lane+moment.BatchWidth <= width {
		base := b.start + lane
		batch := moment.NewBatchAccumulator(base)
		buf = moment.Interleave(buf, columns, base, nSamples)
		batch.AddSweep(buf)
		laneStats := batch.Stats()
		for k := 0; k < moment.BatchWidth; k++ {
			stats[base+k] = laneStats[k]
		}
		lane += moment.BatchWidth
	}
	for ; lane < width; lane++ {
		d := b.start + lane
		acc := moment.NewAccumulator(d)
		for _, v := range columns[d] {
			acc.Add(v)
		}
		stats[d] = acc.Stats()
	}
}

// transposeCacheBlocked walks data in cacheBlock x cacheBlock tiles,
// scattering each row's values into per-dimension columns, the same
// pattern ExtractSerial uses for its single-pass accumulate-and-fit.
func transposeCacheBlocked(data [][]float64, nSamples, nDims int) [][]float64 {
	columns := make([][]float64, nDims)
	for d := range columns {
		columns[d] = make([]float64, nSamples)
	}
	for rowStart := 0; rowStart < nSamples; rowStart += cacheBlock {
		rowEnd := rowStart + cacheBlock
		if rowEnd > nSamples {
			rowEnd = nSamples
		}
		for colStart := 0; colStart < nDims; colStart += cacheBlock {
			colEnd := colStart + cacheBlock
			if colEnd > nDims {
				colEnd = nDims
			}
			for r := rowStart; r < rowEnd; r++ {
				row := data[r]
				for c := colStart; c < colEnd; c++ {
					columns[c][r] = row[c]
				}
			}
		}
	}
	return columns
}
