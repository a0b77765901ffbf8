// Package specfunc provides the special functions the distribution fitters
// need: the standard normal CDF/quantile, the Lanczos log-gamma
// approximation, and continued-fraction regularized incomplete gamma and
// beta integrals.
package specfunc

import "math"

// Erf is the error function, used directly by the normal CDF.
func Erf(x float64) float64 { return math.Erf(x) }

// Erfc is the complementary error function.
func Erfc(x float64) float64 { return math.Erfc(x) }

// NormalCDF returns the standard normal cumulative distribution at x.
func NormalCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}

// NormalQuantile computes the inverse of the standard normal CDF
// (the probit function). Panics if p is outside [0,1].
//
// Ported from the Wichura AS241 rational-approximation ladder used by
// gonum's distuv.zQuantile/mathext.NormalQuantile.
func NormalQuantile(p float64) float64 {
	switch {
	case p < 0 || p > 1:
		panic("specfunc: quantile out of bounds")
	case p == 0:
		return math.Inf(-1)
	case p == 1:
		return math.Inf(1)
	}
	return zQuantile(p)
}

var (
	zQuantSmallA = []float64{3.387132872796366608, 133.14166789178437745, 1971.5909503065514427, 13731.693765509461125, 45921.953931549871457, 67265.770927008700853, 33430.575583588128105, 2509.0809287301226727}
	zQuantSmallB = []float64{1.0, 42.313330701600911252, 687.1870074920579083, 5394.1960214247511077, 21213.794301586595867, 39307.89580009271061, 28729.085735721942674, 5226.495278852854561}
	zQuantInterA = []float64{1.42343711074968357734, 4.6303378461565452959, 5.7694972214606914055, 3.64784832476320460504, 1.27045825245236838258, 0.24178072517745061177, 0.0227238449892691845833, 7.7454501427834140764e-4}
	zQuantInterB = []float64{1.0, 2.05319162663775882187, 1.6763848301838038494, 0.68976733498510000455, 0.14810397642748007459, 0.0151986665636164571966, 5.475938084995344946e-4, 1.05075007164441684324e-9}
	zQuantTailA  = []float64{6.6579046435011037772, 5.4637849111641143699, 1.7848265399172913358, 0.29656057182850489123, 0.026532189526576123093, 0.0012426609473880784386, 2.71155556874348757815e-5, 2.01033439929228813265e-7}
	zQuantTailB  = []float64{1.0, 0.59983220655588793769, 0.13692988092273580531, 0.0148753612908506148525, 7.868691311456132591e-4, 1.8463183175100546818e-5, 1.4215117583164458887e-7, 2.04426310338993978564e-15}
)

func rateval(a []float64, b []float64, x float64) float64 {
	u := a[len(a)-1]
	for i := len(a) - 1; i > 0; i-- {
		u = x*u + a[i-1]
	}
	v := b[len(b)-1]
	for j := len(b) - 1; j > 0; j-- {
		v = x*v + b[j-1]
	}
	return u / v
}

func zQuantile(p float64) float64 {
	dp := p - 0.5
	if math.Abs(dp) <= 0.425 {
		r := 0.180625 - dp*dp
		return dp * rateval(zQuantSmallA, zQuantSmallB, r)
	}
	pp := p
	if p >= 0.5 {
		pp = 1.0 - p
	}
	r := math.Sqrt(-math.Log(pp))
	var x float64
	if r <= 5.0 {
		x = rateval(zQuantInterA, zQuantInterB, r-1.6)
	} else {
		x = rateval(zQuantTailA, zQuantTailB, r-5.0)
	}
	if p < 0.5 {
		return -x
	}
	return x
}
