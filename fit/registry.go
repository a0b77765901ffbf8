package fit

import "github.com/nosqlbench/vectorstat/distshape"

// AllFitters returns one instance of every concrete Fitter with default
// tuning, in no particular order. Panel construction in package selector
// picks subsets of this set.
func AllFitters() []Fitter {
	return []Fitter{
		DefaultNormalFitter(),
		DefaultUniformFitter(),
		DefaultBetaFitter(),
		DefaultGammaFitter(),
		DefaultStudentTFitter(),
		DefaultInverseGammaFitter(),
		DefaultBetaPrimeFitter(),
		DefaultEmpiricalFitter(),
	}
}

// ParametricFitters returns AllFitters minus the Empirical fallback, for
// panels that must never degrade to a histogram (spec.md §4.9).
func ParametricFitters() []Fitter {
	fitters := AllFitters()
	out := make([]Fitter, 0, len(fitters))
	for _, f := range fitters {
		if f.Name() != distshape.Empirical {
			out = append(out, f)
		}
	}
	return out
}

// FullPearsonFitters returns ParametricFitters plus the Pearson-IV
// fitter, for panels willing to pay Pearson-IV's numeric-integration cost
// (spec.md §4.9's full-Pearson panel).
func FullPearsonFitters() []Fitter {
	return append(ParametricFitters(), DefaultPearsonIVFitter())
}
