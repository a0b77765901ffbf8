package fit

import (
	"math"

	"github.com/nosqlbench/vectorstat/distshape"
	"github.com/nosqlbench/vectorstat/moment"
)

// NormalFitter fits distshape.NormalModel by the method of moments, with
// truncation detection per spec.md §4.4: truncation is declared when
// either (a) a mass-near-both-extrema condition holds on a sample large
// enough to judge it, or (b) the observed range itself is narrower than
// TruncationZ standard deviations — two independent signals of a
// clipped tail, checked as a disjunction.
type NormalFitter struct {
	// TruncationZ is the z-score defining the "observed range < Z·σ"
	// disjunct. Default 3.0 per spec.md §4.4.
	TruncationZ float64
	// EdgeMassFraction is the minimum fraction of samples that must lie
	// within EdgeBandTau·range of both the min and the max for the
	// mass-near-extrema disjunct to fire. Default 0.02.
	EdgeMassFraction float64
	// EdgeBandTau scales the range to define "near" an extremum. Default
	// 0.01 (τ in spec.md §4.4).
	EdgeBandTau float64
	// EdgeMassMinSamples is the minimum sample count required before the
	// mass-near-extrema disjunct is evaluated at all. Default 100.
	EdgeMassMinSamples int
}

// DefaultNormalFitter returns a NormalFitter with spec.md §4.4 defaults.
func DefaultNormalFitter() NormalFitter {
	return NormalFitter{
		TruncationZ:        3.0,
		EdgeMassFraction:   0.02,
		EdgeBandTau:        0.01,
		EdgeMassMinSamples: 100,
	}
}

func (f NormalFitter) Name() distshape.ModelType { return distshape.Normal }
func (f NormalFitter) Complexity() int           { return 1 }

func (f NormalFitter) Estimate(stats moment.Stats, sorted []float64) distshape.ScalarModel {
	mu := stats.Mean
	sigma := math.Sqrt(stats.Variance)
	if sigma <= 0 || math.IsNaN(sigma) {
		sigma = 1e-9
	}
	model := distshape.NormalModel{Mu: mu, Sigma: sigma}
	if len(sorted) == 0 {
		return model
	}
	obsLo, obsHi := sorted[0], sorted[len(sorted)-1]
	rangeWidth := obsHi - obsLo

	z := f.TruncationZ
	if z <= 0 {
		z = 3.0
	}
	narrowRange := rangeWidth < z*sigma

	edgeMass := f.edgeMassTriggered(sorted, obsLo, obsHi, rangeWidth)

	if narrowRange || edgeMass {
		model.Truncated = true
		model.Lo = obsLo
		model.Hi = obsHi
	}
	return model
}

// edgeMassTriggered implements spec.md §4.4's first truncation disjunct:
// at least EdgeMassFraction of samples lie within EdgeBandTau·range of
// both the min and the max, and the sample is large enough
// (EdgeMassMinSamples) to make that fraction meaningful.
func (f NormalFitter) edgeMassTriggered(sorted []float64, lo, hi, rangeWidth float64) bool {
	n := len(sorted)
	minSamples := f.EdgeMassMinSamples
	if minSamples <= 0 {
		minSamples = 100
	}
	if n < minSamples || rangeWidth <= 0 {
		return false
	}
	tau := f.EdgeBandTau
	if tau <= 0 {
		tau = 0.01
	}
	fraction := f.EdgeMassFraction
	if fraction <= 0 {
		fraction = 0.02
	}
	band := tau * rangeWidth
	loBound, hiBound := lo+band, hi-band

	var nearLo, nearHi int
	for _, v := range sorted {
		if v <= loBound {
			nearLo++
		}
		if v >= hiBound {
			nearHi++
		}
	}
	threshold := fraction * float64(n)
	return float64(nearLo) >= threshold && float64(nearHi) >= threshold
}

func (f NormalFitter) Fit(stats moment.Stats, sorted []float64) (Result, error) {
	if err := requireNonEmpty(sorted); err != nil {
		return Result{}, err
	}
	model := f.Estimate(stats, sorted).(distshape.NormalModel)
	score := ksStatistic(sorted, model)
	return Result{Model: model, Score: clampScore(score), Tag: distshape.Normal}, nil
}
