package extract

import (
	"sort"

	"github.com/nosqlbench/vectorstat/moment"
)

// ExtractConvergenceDriven streams data row by row, tracking each
// dimension's moments with a moment.ConvergenceDetector, and stops
// reading further rows as soon as every dimension's four tracked
// moments (mean, variance, skewness, kurtosis) have converged — or once
// data is exhausted, whichever comes first. This trades the guarantee
// of seeing every sample for early exit on data that settles well
// before the full pass, per spec.md §4.11.
func ExtractConvergenceDriven(data [][]float64, cfg Config, convCfg moment.ConvergenceConfig) (VectorSpaceModel, error) {
	if err := Validate(data); err != nil {
		return VectorSpaceModel{}, err
	}
	nDims := len(data[0])

	detectors := make([]*moment.ConvergenceDetector, nDims)
	columns := make([][]float64, nDims)
	for d := range detectors {
		detectors[d] = moment.NewConvergenceDetector(moment.NewAccumulator(d), convCfg)
	}
	observer := cfg.observer()
	for d := range detectors {
		observer.OnDimensionStart(d)
	}

	samplesRead := 0
	const observeEvery = 1000
	for _, row := range data {
		for d, v := range row {
			detectors[d].Add(v)
			columns[d] = append(columns[d], v)
		}
		samplesRead++

		allConverged := true
		for _, det := range detectors {
			if !det.Converged().All() {
				allConverged = false
				break
			}
		}
		if samplesRead%observeEvery == 0 || allConverged {
			for d, det := range detectors {
				observer.OnAccumulatorUpdate(d, det.Stats())
			}
		}

		progress := float64(samplesRead) / float64(len(data))
		if !cfg.reportProgress(progress, "accumulating (convergence-driven)") {
			return VectorSpaceModel{}, ErrCanceled
		}
		if allConverged {
			break
		}
	}

	fits := make([]FitResult, nDims)
	for d, det := range detectors {
		stats := det.Stats()
		sorted := append([]float64(nil), columns[d]...)
		sort.Float64s(sorted)
		result, err := cfg.Refiner.Refine(stats, sorted)
		if err != nil {
			return VectorSpaceModel{}, err
		}
		fr := FitResult{Dimension: d, Result: result}
		fits[d] = fr
		observer.OnDimensionComplete(d, fr)
	}

	return VectorSpaceModel{AllFitsData{NumDimensions: nDims, NumSamples: int64(samplesRead), Fits: fits}}, nil
}
