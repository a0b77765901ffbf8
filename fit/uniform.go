package fit

import (
	"github.com/nosqlbench/vectorstat/distshape"
	"github.com/nosqlbench/vectorstat/moment"
)

// UniformFitter fits distshape.UniformModel from the observed range, with
// a kurtosis-based score adjustment per spec.md §4.4: a true uniform has
// raw kurtosis 1.8, so samples whose kurtosis sits close to that get a
// bonus, while samples whose kurtosis is clearly too peaked (> 2.5, more
// Normal- or Laplace-like than uniform) get a penalty.
type UniformFitter struct {
	// ExpectedRawKurtosis is the raw (non-excess) kurtosis of a true
	// uniform distribution: 9/5 = 1.8.
	ExpectedRawKurtosis float64
	// BonusBand is the |kurtosis-ExpectedRawKurtosis| threshold under
	// which the bonus applies. Default 0.5.
	BonusBand float64
	// BonusFraction is the fraction of KS score subtracted as a bonus.
	// Default 0.2 (20%).
	BonusFraction float64
	// PenaltyKurtosis is the kurtosis above which the penalty applies.
	// Default 2.5.
	PenaltyKurtosis float64
	// PenaltyFraction is the fraction of KS score added as a penalty.
	// Default 0.2 (20%).
	PenaltyFraction float64
	// Ext extends the fitted [lo,hi] range by ext*range on each side, per
	// spec.md §4.4's "optionally extended by ext·range". Zero (the
	// default) leaves the observed range untouched; valid range [0,0.5].
	Ext float64
}

// DefaultUniformFitter returns spec.md §4.4 defaults.
func DefaultUniformFitter() UniformFitter {
	return UniformFitter{
		ExpectedRawKurtosis: 1.8,
		BonusBand:           0.5,
		BonusFraction:       0.2,
		PenaltyKurtosis:     2.5,
		PenaltyFraction:     0.2,
		Ext:                 0,
	}
}

func (f UniformFitter) Name() distshape.ModelType { return distshape.Uniform }
func (f UniformFitter) Complexity() int           { return 2 }

func (f UniformFitter) Estimate(stats moment.Stats, sorted []float64) distshape.ScalarModel {
	if len(sorted) == 0 {
		return distshape.UniformModel{Lo: 0, Hi: 1}
	}
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if f.Ext > 0 {
		span := hi - lo
		ext := f.Ext
		if ext > 0.5 {
			ext = 0.5
		}
		lo -= ext * span
		hi += ext * span
	}
	return distshape.UniformModel{Lo: lo, Hi: hi}
}

func (f UniformFitter) Fit(stats moment.Stats, sorted []float64) (Result, error) {
	if err := requireNonEmpty(sorted); err != nil {
		return Result{}, err
	}
	model := f.Estimate(stats, sorted).(distshape.UniformModel)
	score := ksStatistic(sorted, model)

	expected := f.ExpectedRawKurtosis
	if expected == 0 {
		expected = 1.8
	}
	bonusBand := f.BonusBand
	if bonusBand == 0 {
		bonusBand = 0.5
	}
	bonusFraction := f.BonusFraction
	if bonusFraction == 0 {
		bonusFraction = 0.2
	}
	penaltyKurtosis := f.PenaltyKurtosis
	if penaltyKurtosis == 0 {
		penaltyKurtosis = 2.5
	}
	penaltyFraction := f.PenaltyFraction
	if penaltyFraction == 0 {
		penaltyFraction = 0.2
	}

	kurtMismatch := stats.Kurtosis - expected
	if kurtMismatch < 0 {
		kurtMismatch = -kurtMismatch
	}
	switch {
	case kurtMismatch < bonusBand:
		score -= bonusFraction * score
	case stats.Kurtosis > penaltyKurtosis:
		score += penaltyFraction * score
	}

	return Result{Model: model, Score: clampScore(score), Tag: distshape.Uniform}, nil
}
