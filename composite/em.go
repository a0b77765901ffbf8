package composite

import (
	"math"
	"sort"

	"github.com/nosqlbench/vectorstat/distshape"
)

// EMConfig tunes the Gaussian-responsibility EM alternative to
// mode-segmented composite fitting (spec.md §4.8's "alternative
// clustering" variant): instead of hard-splitting at detected valleys,
// it fits a k-component Gaussian mixture by Expectation-Maximization,
// which can recover overlapping components that gap analysis would
// merge into one segment.
type EMConfig struct {
	Components int
	MaxIters   int
	Tolerance  float64
}

// DefaultEMConfig returns reasonable defaults: 2 components, 200
// iterations, and a log-likelihood convergence tolerance of 1e-6.
func DefaultEMConfig() EMConfig {
	return EMConfig{Components: 2, MaxIters: 200, Tolerance: 1e-6}
}

type gaussianComponent struct {
	weight, mean, variance float64
}

// FitEM runs 1D Gaussian-mixture EM over sorted and returns the
// resulting CompositeModel of Normal components.
func FitEM(sorted []float64, cfg EMConfig) distshape.CompositeModel {
	k := cfg.Components
	if k <= 0 {
		k = 2
	}
	n := len(sorted)
	if n == 0 {
		return distshape.NewCompositeModel([]distshape.CompositeComponent{
			{Weight: 1, Model: distshape.NormalModel{Mu: 0, Sigma: 1}},
		})
	}
	if k > n {
		k = n
	}

	comps := initComponents(sorted, k)
	maxIters := cfg.MaxIters
	if maxIters <= 0 {
		maxIters = 200
	}
	tol := cfg.Tolerance
	if tol <= 0 {
		tol = 1e-6
	}

	resp := make([][]float64, n)
	for i := range resp {
		resp[i] = make([]float64, k)
	}

	prevLL := math.Inf(-1)
	for iter := 0; iter < maxIters; iter++ {
		ll := eStep(sorted, comps, resp)
		mStep(sorted, resp, comps)
		if math.Abs(ll-prevLL) < tol {
			break
		}
		prevLL = ll
	}

	components := make([]distshape.CompositeComponent, 0, k)
	for _, c := range comps {
		sigma := math.Sqrt(math.Max(c.variance, 1e-18))
		components = append(components, distshape.CompositeComponent{
			Weight: c.weight,
			Model:  distshape.NormalModel{Mu: c.mean, Sigma: sigma},
		})
	}
	return distshape.NewCompositeModel(components)
}

// initComponents seeds k components at evenly spaced quantiles of
// sorted, each given an equal initial weight and the sample's overall
// variance scaled down by k — a simple deterministic seeding that avoids
// pulling in a randomness dependency for initialization.
func initComponents(sorted []float64, k int) []gaussianComponent {
	n := len(sorted)
	overallVar := sampleVariance(sorted)
	comps := make([]gaussianComponent, k)
	for i := 0; i < k; i++ {
		q := (float64(i) + 0.5) / float64(k)
		idx := int(q * float64(n))
		if idx >= n {
			idx = n - 1
		}
		comps[i] = gaussianComponent{
			weight:   1.0 / float64(k),
			mean:     sorted[idx],
			variance: math.Max(overallVar/float64(k), 1e-9),
		}
	}
	return comps
}

func sampleVariance(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 1
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
		return 1
	}
	return ss / float64(n)
}

func gaussianDensity(x, mean, variance float64) float64 {
	if variance <= 0 {
		variance = 1e-9
	}
	d := x - mean
	return math.Exp(-d*d/(2*variance)) / math.Sqrt(2*math.Pi*variance)
}

// eStep fills resp with each point's posterior component membership and
// returns the current total log-likelihood.
func eStep(sorted []float64, comps []gaussianComponent, resp [][]float64) float64 {
	var totalLL float64
	for i, x := range sorted {
		var denom float64
		for k, c := range comps {
			p := c.weight * gaussianDensity(x, c.mean, c.variance)
			resp[i][k] = p
			denom += p
		}
		if denom <= 0 {
			denom = 1e-300
		}
		for k := range comps {
			resp[i][k] /= denom
		}
		totalLL += math.Log(denom)
	}
	return totalLL
}

// mStep re-estimates each component's weight/mean/variance from resp.
func mStep(sorted []float64, resp [][]float64, comps []gaussianComponent) {
	n := len(sorted)
	k := len(comps)
	totals := make([]float64, k)
	means := make([]float64, k)
	for i, x := range sorted {
		for j := 0; j < k; j++ {
			totals[j] += resp[i][j]
			means[j] += resp[i][j] * x
		}
	}
	for j := 0; j < k; j++ {
		if totals[j] > 1e-12 {
			means[j] /= totals[j]
		} else {
			means[j] = comps[j].mean
		}
	}
	variances := make([]float64, k)
	for i, x := range sorted {
		for j := 0; j < k; j++ {
			d := x - means[j]
			variances[j] += resp[i][j] * d * d
		}
	}
	for j := 0; j < k; j++ {
		if totals[j] > 1e-12 {
			variances[j] /= totals[j]
		} else {
			variances[j] = comps[j].variance
		}
		comps[j].mean = means[j]
		comps[j].variance = math.Max(variances[j], 1e-12)
		comps[j].weight = totals[j] / float64(n)
	}
}

// SortedCopy returns an ascending copy of data, for callers that need to
// hand FitEM a sorted slice without mutating their own.
func SortedCopy(data []float64) []float64 {
	out := append([]float64(nil), data...)
	sort.Float64s(out)
	return out
}
