package distshape

import (
	"math"

	"github.com/nosqlbench/vectorstat/specfunc"
)

// StudentTModel is the (possibly relocated/rescaled) Student's t
// distribution. Mirrors gonum's distuv.StudentsT (Nu field), extended
// with Location/Scale per spec.md §3.
type StudentTModel struct {
	Nu, Location, Scale float64
}

func (s StudentTModel) Type() ModelType { return StudentT }

// standardStudentTCDF evaluates the CDF of the standard (Location=0, Scale=1)
// Student's t distribution via the regularized incomplete beta function:
// for t >= 0, F(t) = 1 - 0.5*I_{nu/(nu+t^2)}(nu/2, 1/2).
func standardStudentTCDF(nu, t float64) float64 {
	x := nu / (nu + t*t)
	ib := specfunc.RegIncBeta(nu/2, 0.5, x)
	if t >= 0 {
		return 1 - 0.5*ib
	}
	return 0.5 * ib
}

func (s StudentTModel) CDF(x float64) float64 {
	t := (x - s.Location) / s.Scale
	return standardStudentTCDF(s.Nu, t)
}

func (s StudentTModel) InverseCDF(u float64) float64 {
	cdf := func(t float64) float64 { return standardStudentTCDF(s.Nu, t) }
	bound := 50 * math.Max(1, s.Scale)
	t := specfunc.InvertMonotonicCDF(cdf, u, -bound, bound)
	return s.Location + s.Scale*t
}

func (s StudentTModel) CharacteristicLocation() float64 { return s.Location }
