package modedetect

import "math"

// scottBinWidth applies Scott's normal-reference rule: 3.49*sigma*n^(-1/3).
// Used as the starting resolution for the refinement loop in detect.go;
// subsequent rounds double the bin count rather than re-deriving sigma.
func scottBinWidth(sigma float64, n int) float64 {
	if n <= 1 || sigma <= 0 {
		return 1
	}
	return 3.49 * sigma * math.Pow(float64(n), -1.0/3.0)
}

// histogram builds a fixed-width density histogram over sorted (already
// ascending) with the given bin count, returning bin centers and
// normalized densities (integrating to 1 over [lo,hi]).
func histogram(sorted []float64, bins int) (centers, density []float64) {
	n := len(sorted)
	if n == 0 || bins < 1 {
		return nil, nil
	}
	lo, hi := sorted[0], sorted[n-1]
	if hi <= lo {
		return []float64{lo}, []float64{1}
	}
	width := (hi - lo) / float64(bins)
	counts := make([]float64, bins)
	bi := 0
	for _, x := range sorted {
		idx := int((x - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		for bi < idx {
			bi++
		}
		counts[idx]++
	}
	centers = make([]float64, bins)
	density = make([]float64, bins)
	norm := float64(n) * width
	for i := 0; i < bins; i++ {
		centers[i] = lo + width*(float64(i)+0.5)
		density[i] = counts[i] / norm
	}
	return centers, density
}

// gaussianSmooth convolves density with a truncated Gaussian kernel of
// the given bandwidth (in bin units), per spec.md §4.7's smoothing step —
// raw histogram counts are too jagged for reliable peak detection at
// high resolution.
func gaussianSmooth(density []float64, bandwidth float64) []float64 {
	n := len(density)
	if n == 0 || bandwidth <= 0 {
		return append([]float64(nil), density...)
	}
	radius := int(math.Ceil(3 * bandwidth))
	kernel := make([]float64, 2*radius+1)
	var sum float64
	for i := -radius; i <= radius; i++ {
		w := math.Exp(-float64(i*i) / (2 * bandwidth * bandwidth))
		kernel[i+radius] = w
		sum += w
	}
	for i := range kernel {
		kernel[i] /= sum
	}

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		var acc float64
		for k := -radius; k <= radius; k++ {
			j := i + k
			if j < 0 {
				j = 0
			}
			if j >= n {
				j = n - 1
			}
			acc += density[j] * kernel[k+radius]
		}
		out[i] = acc
	}
	return out
}
