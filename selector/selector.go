// Package selector implements the Best-Fit Selector of spec.md §4.9: it
// runs a panel of candidate fitters over a sample and picks the
// simplest model whose score is within a relative tolerance of the
// single best score, rather than always taking the single lowest-score
// winner outright — favoring structural simplicity when multiple models
// fit comparably well.
package selector

import (
	"sort"

	"github.com/nosqlbench/vectorstat/distshape"
	"github.com/nosqlbench/vectorstat/fit"
	"github.com/nosqlbench/vectorstat/moment"
)

// Selector runs Fitters over a sample and applies the simplicity-biased
// selection rule of spec.md §4.9.
type Selector struct {
	Fitters []fit.Fitter
	// SimplicityBias (S in spec.md §4.9) is the relative score tolerance:
	// any candidate scoring no worse than (1+S) times the single best
	// score is eligible to win if it is structurally simpler. Default 0.5.
	SimplicityBias float64
	// EmpiricalPenalty is added on top of the Empirical fitter's own base
	// penalty before comparison, further discouraging the
	// always-available histogram fallback from winning by default.
	EmpiricalPenalty float64
}

// New builds a Selector over fitters with spec.md §4.9 defaults
// (SimplicityBias 0.5, EmpiricalPenalty 0.03).
func New(fitters []fit.Fitter) Selector {
	return Selector{Fitters: fitters, SimplicityBias: 0.5, EmpiricalPenalty: 0.03}
}

// Select fits every candidate and returns the simplicity-biased winner.
// Candidate fitters that error are skipped; Select errors only if every
// candidate failed (which should not happen given the Empirical
// fallback's unconditional success).
func (s Selector) Select(stats moment.Stats, sorted []float64) (fit.Result, error) {
	type scored struct {
		result        fit.Result
		complexity    int
		adjustedScore float64
	}

	var candidates []scored
	for _, f := range s.Fitters {
		result, err := f.Fit(stats, sorted)
		if err != nil {
			continue
		}
		adjusted := result.Score
		if result.Tag == distshape.Empirical {
			adjusted += s.empiricalPenalty()
		}
		candidates = append(candidates, scored{result: result, complexity: f.Complexity(), adjustedScore: adjusted})
	}
	if len(candidates) == 0 {
		return fit.Result{}, errNoCandidates
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].adjustedScore < candidates[j].adjustedScore
	})
	best := candidates[0]
	threshold := best.adjustedScore * (1 + s.simplicityBias())

	winner := best
	for _, c := range candidates {
		if c.adjustedScore > threshold {
			continue
		}
		if c.complexity < winner.complexity {
			winner = c
		}
	}
	return winner.result, nil
}

func (s Selector) simplicityBias() float64 {
	if s.SimplicityBias <= 0 {
		return 0.5
	}
	return s.SimplicityBias
}

func (s Selector) empiricalPenalty() float64 {
	if s.EmpiricalPenalty <= 0 {
		return 0.03
	}
	return s.EmpiricalPenalty
}

type selectorError string

func (e selectorError) Error() string { return string(e) }

const errNoCandidates = selectorError("selector: no fitter produced a result")
