package grainvalue

import "gonum.org/v1/gonum/mat"

// localPlaneFit fits z = a + b*x + c*y in real units directly from a
// grain's already-accumulated sums, giving slope_theta/slope_phi without
// going through levelling.FitPlane's field-resolution-normalised
// coefficients (which would need unscaling back to real units to compare
// across grains of different sizes).
func localPlaneFit(g *intermediates) (a, b, c float64, ok bool) {
	n := float64(g.size)
	if n < 3 {
		return 0, 0, 0, false
	}
	ata := mat.NewSymDense(3, nil)
	atb := mat.NewVecDense(3, nil)
	ata.SetSym(0, 0, n)
	ata.SetSym(0, 1, g.sumX)
	ata.SetSym(0, 2, g.sumY)
	ata.SetSym(1, 1, g.sumX2)
	ata.SetSym(1, 2, g.sumXY)
	ata.SetSym(2, 2, g.sumY2)
	atb.SetVec(0, g.sumZ)
	atb.SetVec(1, g.sumXZ)
	atb.SetVec(2, g.sumYZ)

	var chol mat.Cholesky
	if !chol.Factorize(ata) {
		return 0, 0, 0, false
	}
	var x mat.VecDense
	if err := chol.SolveVecTo(&x, atb); err != nil {
		return 0, 0, 0, false
	}
	return x.AtVec(0), x.AtVec(1), x.AtVec(2), true
}
