// Package moment computes single-pass mean/variance/skewness/kurtosis
// statistics over a stream of float64 samples, plus min/max, using a
// numerically stable Welford-style update generalized to the fourth moment.
package moment

import "math"

// Stats is an immutable snapshot of the moments of a single dimension.
// Variance is always >= 0. Skewness and Kurtosis are raw (not excess)
// quantities; Kurtosis is the central fourth moment over sigma^4.
type Stats struct {
	Dim      int
	N        int64
	Min      float64
	Max      float64
	Mean     float64
	Variance float64
	Skewness float64
	Kurtosis float64
}

// Accumulator incrementally tracks the first four central moments of a
// stream of samples along with the running min/max. Values must be
// finite; Add panics otherwise, since accepting a non-finite sample is a
// programmer error (spec: "accepting a non-finite value is a programmer
// error (reject)").
type Accumulator struct {
	dim int
	n   int64
	min float64
	max float64

	mean float64
	m2   float64
	m3   float64
	m4   float64
}

// NewAccumulator returns an empty accumulator for dimension dim.
func NewAccumulator(dim int) *Accumulator {
	return &Accumulator{
		dim: dim,
		min: math.Inf(1),
		max: math.Inf(-1),
	}
}

// Add folds v into the running moments. The update order matters: M4 is
// updated from the pre-update M2/M3, then M3 from the pre-update M2, and
// only then is the mean advanced — each later term in the classical
// Welford recurrence must read the state the earlier terms have not yet
// advanced past.
func (a *Accumulator) Add(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		panic("moment: non-finite value")
	}
	n0 := float64(a.n)
	a.n++
	n1 := float64(a.n)

	delta := v - a.mean
	deltaN := delta / n1
	deltaN2 := deltaN * deltaN
	term1 := delta * deltaN * n0

	a.m4 += term1*deltaN2*(n1*n1-3*n1+3) + 6*deltaN2*a.m2 - 4*deltaN*a.m3
	a.m3 += term1*deltaN*(n1-2) - 3*deltaN*a.m2
	a.m2 += term1
	a.mean += deltaN

	if v < a.min {
		a.min = v
	}
	if v > a.max {
		a.max = v
	}
}

// N returns the number of samples folded in so far.
func (a *Accumulator) N() int64 { return a.n }

// Mean returns the running mean. Reports 0 for an empty accumulator.
func (a *Accumulator) Mean() float64 { return a.mean }

// Variance returns the running population variance (M2/n). An empty
// accumulator reports variance 0, per spec §4.1.
func (a *Accumulator) Variance() float64 {
	if a.n == 0 {
		return 0
	}
	return a.m2 / float64(a.n)
}

// Skewness returns the running raw (biased) skewness. A sample with zero
// variance reports skewness 0 as a safe default, per spec §3's invariant.
func (a *Accumulator) Skewness() float64 {
	v := a.Variance()
	if a.n == 0 || v == 0 {
		return 0
	}
	return (a.m3 / float64(a.n)) / math.Pow(v, 1.5)
}

// Kurtosis returns the running raw (not excess) kurtosis: the central
// fourth moment over sigma^4. A sample with zero variance reports
// kurtosis 1 as a safe default, per spec §3's invariant.
func (a *Accumulator) Kurtosis() float64 {
	v := a.Variance()
	if a.n == 0 || v == 0 {
		return 1
	}
	return (a.m4 / float64(a.n)) / (v * v)
}

// Min returns the running minimum. Returns +Inf for an empty accumulator.
func (a *Accumulator) Min() float64 { return a.min }

// Max returns the running maximum. Returns -Inf for an empty accumulator.
func (a *Accumulator) Max() float64 { return a.max }

// Stats snapshots the accumulator's current state as an immutable Stats
// record. Calling Stats does not reset or otherwise mutate the
// accumulator.
func (a *Accumulator) Stats() Stats {
	min, max := a.min, a.max
	if a.n == 0 {
		min, max = 0, 0
	}
	return Stats{
		Dim:      a.dim,
		N:        a.n,
		Min:      min,
		Max:      max,
		Mean:     a.Mean(),
		Variance: a.Variance(),
		Skewness: a.Skewness(),
		Kurtosis: a.Kurtosis(),
	}
}
