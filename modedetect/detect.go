package modedetect

import (
	"math"
	"sort"
)

// peakValley holds one local-maximum/local-minimum pair candidate found
// by a single scan of a smoothed density curve.
type peakValley struct {
	peakIdx   []int
	valleyIdx []int
}

// findExtrema scans a smoothed density for strict local maxima (peaks)
// and the local minima between consecutive peaks (valleys).
func findExtrema(smoothed []float64) peakValley {
	n := len(smoothed)
	var pv peakValley
	for i := 1; i < n-1; i++ {
		if smoothed[i] > smoothed[i-1] && smoothed[i] >= smoothed[i+1] {
			pv.peakIdx = append(pv.peakIdx, i)
		}
	}
	for k := 0; k+1 < len(pv.peakIdx); k++ {
		lo, hi := pv.peakIdx[k], pv.peakIdx[k+1]
		minIdx := lo
		for i := lo + 1; i <= hi; i++ {
			if smoothed[i] < smoothed[minIdx] {
				minIdx = i
			}
		}
		pv.valleyIdx = append(pv.valleyIdx, minIdx)
	}
	return pv
}

// dipStatistic is a Hartigan's-dip-inspired unimodality measure: for each
// valley, how deep it cuts relative to its shorter flanking peak,
// maximized across all valleys. A perfectly unimodal curve (no valleys)
// scores 0.
func dipStatistic(smoothed []float64, pv peakValley) float64 {
	if len(pv.valleyIdx) == 0 {
		return 0
	}
	var maxDip float64
	for k, v := range pv.valleyIdx {
		left := smoothed[pv.peakIdx[k]]
		right := smoothed[pv.peakIdx[k+1]]
		shorter := math.Min(left, right)
		if shorter <= 0 {
			continue
		}
		dip := (shorter - smoothed[v]) / shorter
		if dip > maxDip {
			maxDip = dip
		}
	}
	return maxDip
}

// topKByHeight keeps the k tallest peaks (and rebuilds consistent
// valleys between them) when more peaks survive filtering than KMax
// allows.
func topKByHeight(smoothed []float64, pv peakValley, k int) peakValley {
	if k <= 0 || len(pv.peakIdx) <= k {
		return pv
	}
	idx := append([]int(nil), pv.peakIdx...)
	sort.Slice(idx, func(i, j int) bool { return smoothed[idx[i]] > smoothed[idx[j]] })
	idx = idx[:k]
	sort.Ints(idx)
	return peakValley{peakIdx: idx, valleyIdx: valleysBetween(smoothed, idx)}
}

func valleysBetween(smoothed []float64, peaks []int) []int {
	var valleys []int
	for k := 0; k+1 < len(peaks); k++ {
		lo, hi := peaks[k], peaks[k+1]
		minIdx := lo
		for i := lo + 1; i <= hi; i++ {
			if smoothed[i] < smoothed[minIdx] {
				minIdx = i
			}
		}
		valleys = append(valleys, minIdx)
	}
	return valleys
}

func sampleSigma(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	var sum float64
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(n)
	var ss float64
	for _, v := range sorted {
		d := v - mean
		ss += d * d
	}
	if n <= 1 {
		return 0
	}
	return math.Sqrt(ss / float64(n))
}

// gapEvidence records spec.md §4.7 step 3's structural multimodality
// signals from the raw (unsmoothed) histogram: contiguous runs of
// sparse bins, and individual sparse-bin valleys relative to their
// neighbors. These count as multimodality evidence even when Gaussian
// smoothing would erase them.
type gapEvidence struct {
	gapRegions    int
	sparseValleys int
}

func (g gapEvidence) present() bool { return g.gapRegions > 0 || g.sparseValleys > 0 }

// analyzeGaps implements spec.md §4.7 step 3 over the raw histogram
// density: bins with < 10% of the expected-uniform mass are "gap" bins;
// contiguous runs of >= 2 such bins are gap regions. A bin under 30% of
// expected mass that is also under 50% of both neighbors is a
// sparse-bin valley, counted independently of run length.
func analyzeGaps(density []float64) gapEvidence {
	n := len(density)
	if n == 0 {
		return gapEvidence{}
	}
	var total float64
	for _, d := range density {
		total += d
	}
	expected := total / float64(n)
	if expected <= 0 {
		return gapEvidence{}
	}

	var ev gapEvidence
	runLen := 0
	for i := 0; i < n; i++ {
		if density[i] < 0.1*expected {
			runLen++
			continue
		}
		if runLen >= 2 {
			ev.gapRegions++
		}
		runLen = 0
	}
	if runLen >= 2 {
		ev.gapRegions++
	}

	for i := 1; i < n-1; i++ {
		if density[i] < 0.3*expected && density[i] < 0.5*density[i-1] && density[i] < 0.5*density[i+1] {
			ev.sparseValleys++
		}
	}
	return ev
}

// nonGapRegionCenters returns the centroid of each maximal run of bins
// at or above 10% of expected-uniform mass, used per spec.md §4.7's
// final paragraph to estimate mode centers when gap evidence is strong
// but no peak survives smoothing/prominence filtering.
func nonGapRegionCenters(centers, density []float64) []float64 {
	n := len(density)
	if n == 0 {
		return nil
	}
	var total float64
	for _, d := range density {
		total += d
	}
	expected := total / float64(n)
	if expected <= 0 {
		return nil
	}

	var out []float64
	i := 0
	for i < n {
		if density[i] < 0.1*expected {
			i++
			continue
		}
		j := i
		var massSum, weighted float64
		for j < n && density[j] >= 0.1*expected {
			massSum += density[j]
			weighted += density[j] * centers[j]
			j++
		}
		if massSum > 0 {
			out = append(out, weighted/massSum)
		}
		i = j
	}
	return out
}

// modeWeights assigns every sample to its nearest mode location and
// returns each mode's share of the sample (summing to 1), per spec.md
// §4.7 step 8.
func modeWeights(sorted, modeLocs []float64) []float64 {
	weights := make([]float64, len(modeLocs))
	if len(modeLocs) == 0 || len(sorted) == 0 {
		return weights
	}
	counts := make([]int, len(modeLocs))
	for _, v := range sorted {
		best := 0
		bestDist := math.Abs(v - modeLocs[0])
		for k := 1; k < len(modeLocs); k++ {
			d := math.Abs(v - modeLocs[k])
			if d < bestDist {
				bestDist = d
				best = k
			}
		}
		counts[best]++
	}
	n := float64(len(sorted))
	for k, c := range counts {
		weights[k] = float64(c) / n
	}
	return weights
}

func peakHeights(smoothed []float64, peaks []int) []float64 {
	heights := make([]float64, len(peaks))
	if len(peaks) == 0 {
		return heights
	}
	maxHeight := 0.0
	for _, p := range peaks {
		if smoothed[p] > maxHeight {
			maxHeight = smoothed[p]
		}
	}
	if maxHeight <= 0 {
		return heights
	}
	for i, p := range peaks {
		heights[i] = smoothed[p] / maxHeight
	}
	return heights
}

// secondPeakFraction resolves cfg.SecondPeakFraction against cfg.KMax:
// a higher KMax tolerates more modes, so the bar for "is this second
// peak real" relaxes somewhat as KMax grows.
func secondPeakFraction(base float64, kMax int) float64 {
	if base <= 0 {
		base = 0.1
	}
	if kMax <= 1 {
		return base
	}
	adapted := base / math.Sqrt(float64(kMax))
	if adapted < 0.02 {
		adapted = 0.02
	}
	return adapted
}

// declareMultimodal implements spec.md §4.7's final rule: dip alone
// clears DipMultimodalThreshold, or (>=2 peaks, second-tallest >= an
// adaptive fraction of the tallest, gap evidence present, dip clears the
// lower GapDipThreshold).
func declareMultimodal(cfg Config, dip float64, heights []float64, gaps gapEvidence) bool {
	dipHigh := cfg.DipMultimodalThreshold
	if dipHigh <= 0 {
		dipHigh = 0.05
	}
	if dip > dipHigh {
		return true
	}
	if len(heights) < 2 {
		return false
	}
	dipLow := cfg.GapDipThreshold
	if dipLow <= 0 {
		dipLow = 0.03
	}
	fraction := secondPeakFraction(cfg.SecondPeakFraction, cfg.KMax)
	tallest, second := 0.0, 0.0
	for _, h := range heights {
		if h > tallest {
			tallest, second = h, tallest
		} else if h > second {
			second = h
		}
	}
	return second >= fraction*tallest && gaps.present() && dip > dipLow
}

// Detect runs the adaptive-resolution gap-analysis mode detector of
// spec.md §4.7 over sorted (must already be ascending): it starts from a
// Scott's-rule histogram resolution, smooths with a Gaussian kernel,
// finds peaks/valleys, filters by prominence, and doubles the bin count
// until the detected mode count is stable for cfg.StabilityRounds
// consecutive rounds or cfg.MaxBins is reached.
func Detect(cfg Config, sorted []float64) Result {
	n := len(sorted)
	if n == 0 {
		return Result{NumModes: 1}
	}
	if sorted[0] == sorted[n-1] {
		return Result{NumModes: 1, ModeLocations: []float64{sorted[0]}, ModeWeights: []float64{1}, PeakHeights: []float64{1}, BinsUsed: 1}
	}

	minBins, maxBins := cfg.MinBins, cfg.MaxBins
	if minBins <= 0 {
		minBins = 16
	}
	if maxBins < minBins {
		maxBins = minBins
	}
	sigma := sampleSigma(sorted)
	width := scottBinWidth(sigma, n)
	bins := minBins
	if width > 0 {
		span := sorted[n-1] - sorted[0]
		estimated := int(span / width)
		if estimated > bins {
			bins = estimated
		}
	}
	if bins < minBins {
		bins = minBins
	}
	if bins > maxBins {
		bins = maxBins
	}

	bandwidth := cfg.SmoothingBandwidth
	if bandwidth <= 0 {
		bandwidth = 1.5
	}
	threshold := cfg.ProminenceThreshold
	if threshold <= 0 {
		threshold = 0.05
	}
	kMax := cfg.KMax
	if kMax <= 0 {
		kMax = 10
	}
	stabilityRounds := cfg.StabilityRounds
	if stabilityRounds <= 0 {
		stabilityRounds = 2
	}

	var best Result
	lastCount := -1
	stableFor := 0

	for round := 0; round < 12 && bins <= maxBins; round++ {
		centers, density := histogram(sorted, bins)
		gaps := analyzeGaps(density)
		smoothed := gaussianSmooth(density, bandwidth)
		pv := findExtrema(smoothed)
		pv = filterByProminence(smoothed, pv, threshold)
		pv = topKByHeight(smoothed, pv, kMax)

		modeLocs := make([]float64, 0, len(pv.peakIdx))
		for _, p := range pv.peakIdx {
			modeLocs = append(modeLocs, centers[p])
		}
		heights := peakHeights(smoothed, pv.peakIdx)
		dip := dipStatistic(smoothed, pv)

		if len(modeLocs) == 0 && gaps.present() && dip > cfg.GapDipThreshold {
			modeLocs = nonGapRegionCenters(centers, density)
		}
		if len(modeLocs) == 0 {
			modeLocs = append(modeLocs, centers[len(centers)/2])
			heights = []float64{1}
		}

		valleyLocs := make([]float64, 0, len(pv.valleyIdx))
		for _, v := range pv.valleyIdx {
			valleyLocs = append(valleyLocs, centers[v])
		}

		count := len(modeLocs)
		multimodal := declareMultimodal(cfg, dip, heights, gaps)

		best = Result{
			NumModes:        count,
			ModeLocations:   modeLocs,
			PeakHeights:     heights,
			ModeWeights:     modeWeights(sorted, modeLocs),
			ValleyLocations: valleyLocs,
			DipStatistic:    dip,
			Multimodal:      multimodal,
			BinsUsed:        bins,
		}

		if count == lastCount {
			stableFor++
		} else {
			stableFor = 1
		}
		lastCount = count
		if stableFor >= stabilityRounds {
			break
		}
		bins *= 2
	}

	return best
}

// filterByProminence drops peaks whose height, relative to the tallest
// peak, falls below threshold — removing noise bumps that survive
// smoothing, per spec.md §4.7.
func filterByProminence(smoothed []float64, pv peakValley, threshold float64) peakValley {
	if len(pv.peakIdx) <= 1 {
		return pv
	}
	maxHeight := 0.0
	for _, p := range pv.peakIdx {
		if smoothed[p] > maxHeight {
			maxHeight = smoothed[p]
		}
	}
	if maxHeight <= 0 {
		return pv
	}
	var kept []int
	for _, p := range pv.peakIdx {
		if smoothed[p]/maxHeight >= threshold {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(pv.peakIdx) || len(kept) == 0 {
		return pv
	}
	return peakValley{peakIdx: kept, valleyIdx: valleysBetween(smoothed, kept)}
}
