package moment

import "math"

// ConvergenceConfig holds the tunables for a ConvergenceDetector.
type ConvergenceConfig struct {
	// CheckpointInterval is the number of samples between convergence
	// checks. Default 1000.
	CheckpointInterval int64
	// Tolerance is epsilon in |delta| < epsilon*SE(theta). Default 0.05.
	Tolerance float64
	// MinSamples is the minimum number of samples before any convergence
	// flag is allowed, regardless of how small the observed drift is.
	// Default 5000.
	MinSamples int64
}

// DefaultConvergenceConfig returns the spec-mandated defaults.
func DefaultConvergenceConfig() ConvergenceConfig {
	return ConvergenceConfig{
		CheckpointInterval: 1000,
		Tolerance:          0.05,
		MinSamples:         5000,
	}
}

// Converged reports which of the four tracked moments have converged.
// Once a field is true it must never become false again for the same
// detector (spec: "Convergence is monotonic").
type Converged struct {
	Mean     bool
	Variance bool
	Skewness bool
	Kurtosis bool
}

// All reports whether every moment has converged.
func (c Converged) All() bool {
	return c.Mean && c.Variance && c.Skewness && c.Kurtosis
}

// ConvergenceDetector wraps an Accumulator and, at every checkpoint
// interval, compares the current moments against the values recorded at
// the prior checkpoint to decide whether each has settled within its
// asymptotic standard error.
type ConvergenceDetector struct {
	acc    *Accumulator
	cfg    ConvergenceConfig
	last   Stats
	haveCP bool
	state  Converged
}

// NewConvergenceDetector wraps acc with cfg.
func NewConvergenceDetector(acc *Accumulator, cfg ConvergenceConfig) *ConvergenceDetector {
	return &ConvergenceDetector{acc: acc, cfg: cfg}
}

// Add folds v into the wrapped accumulator and, if a checkpoint boundary
// was just crossed, re-evaluates convergence.
func (d *ConvergenceDetector) Add(v float64) {
	d.acc.Add(v)
	if d.cfg.CheckpointInterval <= 0 {
		return
	}
	if d.acc.N()%d.cfg.CheckpointInterval == 0 {
		d.checkpoint()
	}
}

func (d *ConvergenceDetector) checkpoint() {
	cur := d.acc.Stats()
	if !d.haveCP {
		d.last = cur
		d.haveCP = true
		return
	}
	if cur.N >= d.cfg.MinSamples {
		n := float64(cur.N)
		sigma := math.Sqrt(cur.Variance)
		seMean := sigma / math.Sqrt(n)
		seVar := cur.Variance * math.Sqrt(2/n)
		seSkew := math.Sqrt(6 / n)
		seKurt := math.Sqrt(24 / n)

		eps := d.cfg.Tolerance
		d.state.Mean = d.state.Mean || withinTol(cur.Mean-d.last.Mean, eps*seMean)
		d.state.Variance = d.state.Variance || withinTol(cur.Variance-d.last.Variance, eps*seVar)
		d.state.Skewness = d.state.Skewness || withinTol(cur.Skewness-d.last.Skewness, eps*seSkew)
		d.state.Kurtosis = d.state.Kurtosis || withinTol(cur.Kurtosis-d.last.Kurtosis, eps*seKurt)
	}
	d.last = cur
}

func withinTol(delta, tol float64) bool {
	if tol == 0 {
		return delta == 0
	}
	return math.Abs(delta) < tol
}

// Converged returns the current convergence state.
func (d *ConvergenceDetector) Converged() Converged { return d.state }

// Stats returns the wrapped accumulator's current snapshot.
func (d *ConvergenceDetector) Stats() Stats { return d.acc.Stats() }

// Accumulator returns the wrapped accumulator.
func (d *ConvergenceDetector) Accumulator() *Accumulator { return d.acc }
