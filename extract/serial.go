package extract

import (
	"sort"

	"github.com/nosqlbench/vectorstat/moment"
)

// cacheBlock is the row/column tile size for ExtractSerial's
// cache-blocked transpose, per spec.md §4.11.
const cacheBlock = 256

// ExtractSerial runs a single cache-blocked pass over data (samples x
// dimensions, row-major), transposing it into per-dimension columns
// while accumulating each dimension's moments, then fits each
// dimension's marginal distribution.
//
// data is walked in cacheBlock x cacheBlock tiles: for each
// row-tile/column-tile pair, every row in the tile is read once and its
// cacheBlock values scattered into that many columns/accumulators,
// which keeps the working set (one row-major row, one cacheBlock-wide
// band of columns) small enough to stay cache-resident rather than
// touching every column on every single row read.
func ExtractSerial(data [][]float64, cfg Config) (VectorSpaceModel, error) {
	if err := Validate(data); err != nil {
		return VectorSpaceModel{}, err
	}
	nSamples := len(data)
	nDims := len(data[0])

	accs := make([]*moment.Accumulator, nDims)
	columns := make([][]float64, nDims)
	for d := range accs {
		accs[d] = moment.NewAccumulator(d)
		columns[d] = make([]float64, nSamples)
	}
	observer := cfg.observer()
	for d := range accs {
		observer.OnDimensionStart(d)
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
					v := row[c]
					columns[c][r] = v
					accs[c].Add(v)
				}
			}
		}
		progress := float64(rowEnd) / float64(nSamples)
		if !cfg.reportProgress(progress, "accumulating") {
			return VectorSpaceModel{}, ErrCanceled
		}
	}

	for d, acc := range accs {
		observer.OnAccumulatorUpdate(d, acc.Stats())
	}

	return fitColumns(accs, columns, cfg)
}

// fitColumns sorts each dimension's column (required by the
// KS-statistic-based fitters) and refines a model for it.
func fitColumns(accs []*moment.Accumulator, columns [][]float64, cfg Config) (VectorSpaceModel, error) {
	fits := make([]FitResult, len(accs))
	observer := cfg.observer()
	for d, acc := range accs {
		stats := acc.Stats()
		sort.Float64s(columns[d])
		result, err := cfg.Refiner.Refine(stats, columns[d])
		if err != nil {
			return VectorSpaceModel{}, err
		}
		fr := FitResult{Dimension: d, Result: result}
		fits[d] = fr
		observer.OnDimensionComplete(d, fr)
	}
	var nSamples int64
	if len(accs) > 0 {
		nSamples = accs[0].N()
	}
	return VectorSpaceModel{AllFitsData{NumDimensions: len(accs), NumSamples: nSamples, Fits: fits}}, nil
}
