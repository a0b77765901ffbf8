package distshape

// UniformModel is the continuous uniform distribution over [Lo,Hi].
type UniformModel struct {
	Lo, Hi float64
}

func (u UniformModel) Type() ModelType { return Uniform }

func (u UniformModel) CDF(x float64) float64 {
	if x <= u.Lo {
		return 0
	}
	if x >= u.Hi {
		return 1
	}
	return (x - u.Lo) / (u.Hi - u.Lo)
}

func (u UniformModel) InverseCDF(p float64) float64 {
	return u.Lo + p*(u.Hi-u.Lo)
}

func (u UniformModel) CharacteristicLocation() float64 { return (u.Lo + u.Hi) / 2 }
