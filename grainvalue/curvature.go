package grainvalue

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/gwyproc/gwyfield/field"
)

// curvatureFit least-squares fits z = a + b*u + c*v + d*u^2 + e*u*v + f*v^2
// over a grain's pixels, u,v centered on the grain's centroid for
// conditioning, then reports the quadratic's vertex and principal
// curvatures/directions. Mirrors grain-value-builtin.c's curvature
// quantities, built via normal equations rather than the original's
// internal fitter, same as levelling's plane/polynomial fits.
func curvatureFit(f *field.Field, labels []int, g *intermediates) (xc, yc, zc, k1, k2, phi1, phi2 float64, ok bool) {
	if g.size < 6 {
		return 0, 0, 0, 0, 0, 0, 0, false
	}
	cx, cy := g.sumX/float64(g.size), g.sumY/float64(g.size)
	dx, dy := f.DX(), f.DY()
	xres := f.XRes()

	const terms = 6
	ata := mat.NewSymDense(terms, nil)
	atb := mat.NewVecDense(terms, nil)
	phi := make([]float64, terms)

	for row := g.box.Row; row < g.box.Row+g.box.Height; row++ {
		for col := g.box.Col; col < g.box.Col+g.box.Width; col++ {
			if labels[row*xres+col] != g.id {
				continue
			}
			u := (float64(col)+0.5)*dx - cx
			v := (float64(row)+0.5)*dy - cy
			z := f.At(col, row)
			phi[0], phi[1], phi[2], phi[3], phi[4], phi[5] = 1, u, v, u*u, u*v, v*v
			for i := 0; i < terms; i++ {
				atb.SetVec(i, atb.AtVec(i)+phi[i]*z)
				for j := i; j < terms; j++ {
					ata.SetSym(i, j, ata.At(i, j)+phi[i]*phi[j])
				}
			}
		}
	}

	var chol mat.Cholesky
	if !chol.Factorize(ata) {
		return 0, 0, 0, 0, 0, 0, 0, false
	}
	var x mat.VecDense
	if err := chol.SolveVecTo(&x, atb); err != nil {
		return 0, 0, 0, 0, 0, 0, 0, false
	}
	a, bb, cc, d, e, ff := x.AtVec(0), x.AtVec(1), x.AtVec(2), x.AtVec(3), x.AtVec(4), x.AtVec(5)

	hess := mat.NewSymDense(2, []float64{2 * d, e, e, 2 * ff})
	var u0, v0 float64
	var hchol mat.Cholesky
	if hchol.Factorize(hess) {
		rhs := mat.NewVecDense(2, []float64{-bb, -cc})
		var sol mat.VecDense
		if err := hchol.SolveVecTo(&sol, rhs); err == nil {
			u0, v0 = sol.AtVec(0), sol.AtVec(1)
		}
	}
	zc = a + bb*u0 + cc*v0 + d*u0*u0 + e*u0*v0 + ff*v0*v0
	xc, yc = cx+u0, cy+v0

	var eig mat.EigenSym
	if eig.Factorize(hess, true) {
		values := eig.Values(nil)
		var vecs mat.Dense
		eig.VectorsTo(&vecs)
		k1, k2 = values[1], values[0]
		phi1 = math.Atan2(vecs.At(1, 1), vecs.At(0, 1))
		phi2 = math.Atan2(vecs.At(1, 0), vecs.At(0, 0))
	}
	return xc, yc, zc, k1, k2, phi1, phi2, true
}
