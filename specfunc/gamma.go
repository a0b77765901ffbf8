package specfunc

import "math"

// lanczosG and lanczosCoeff are the classic Lanczos approximation
// constants (g=7, n=9), the same family of rational approximation gonum's
// mathext/internal/cephes/lanczos.go uses for log-gamma, in the common
// concise form.
const lanczosG = 7.0

var lanczosCoeff = [9]float64{
	0.99999999999980993,
	676.5203681218851,
	-1259.1392167224028,
	771.32342877765313,
	-176.61502916214059,
	12.507343278686905,
	-0.13857109526572012,
	9.9843695780195716e-6,
	1.5056327351493116e-7,
}

// LogGamma computes ln|Gamma(x)| via the Lanczos approximation, along
// with the sign of Gamma(x) (-1 or +1). For x < 0.5 the reflection
// formula Gamma(x)Gamma(1-x) = pi/sin(pi x) is used.
func LogGamma(x float64) (lgamma float64, sign int) {
	if x < 0.5 {
		// Reflection formula.
		lg, s := LogGamma(1 - x)
		sinTerm := math.Sin(math.Pi * x)
		sign = s
		if sinTerm < 0 {
			sign = -sign
		}
		return math.Log(math.Pi/math.Abs(sinTerm)) - lg, sign
	}
	x -= 1
	a := lanczosCoeff[0]
	t := x + lanczosG + 0.5
	for i := 1; i < len(lanczosCoeff); i++ {
		a += lanczosCoeff[i] / (x + float64(i))
	}
	return 0.5*math.Log(2*math.Pi) + (x+0.5)*math.Log(t) - t + math.Log(a), 1
}

// Gamma computes the gamma function via LogGamma.
func Gamma(x float64) float64 {
	lg, sign := LogGamma(x)
	return float64(sign) * math.Exp(lg)
}

// LogBeta computes ln B(a,b) = lnGamma(a)+lnGamma(b)-lnGamma(a+b).
func LogBeta(a, b float64) float64 {
	lga, _ := LogGamma(a)
	lgb, _ := LogGamma(b)
	lgab, _ := LogGamma(a + b)
	return lga + lgb - lgab
}
