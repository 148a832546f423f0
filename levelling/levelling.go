// Package levelling fits and removes large-scale trends (planes, low-order
// polynomials, facet inclination and per-row offsets) from a field, mirroring
// field-level.c's levelling routines.
package levelling

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/gwyproc/gwyfield/field"
	"github.com/gwyproc/gwyfield/geom"
	"github.com/gwyproc/gwyfield/mask"
)

// planeCoord is the normalised-to-[-1,1] coordinate field-level.c's
// plane_fit callback uses: it is indexed by the position *within the
// processed part*, not by absolute field column/row, even though the
// denominator is the full field resolution. gwy_field_fit_plane carries
// this over from its pixel-based iteration; gwy_field_subtract_plane
// always processes the whole field, where the two coincide, so the
// asymmetry normally goes unnoticed unless FitPlane is given a non-full
// part with a non-zero offset.
func planeCoord(i, dim int) float64 {
	if dim <= 1 {
		return 0
	}
	return 2*float64(i)/float64(dim-1) - 1
}

// FitPlane fits a plane a + bx*x + by*y through part (or the whole field if
// part is nil), with x, y normalised to [-1,1] over the field's resolution.
// It returns ErrRankDeficient if fewer than two rows/columns of points
// participate or all participating points share the same x or y coordinate.
func FitPlane(f *field.Field, part *field.Part, mf *field.Mask, masking field.Masking) (a, bx, by float64, err error) {
	p, err := geom.Resolve(part, f.XRes(), f.YRes())
	if err != nil {
		return 0, 0, 0, err
	}
	if p.Width < 2 || p.Height < 2 {
		return 0, 0, 0, ErrRankDeficient
	}
	mcol, mrow, ok := mask.ResolveMaskOrigin(mf, p, f.XRes(), f.YRes())
	if !ok {
		return 0, 0, 0, field.ErrDimensionMismatch
	}

	ata := mat.NewSymDense(3, nil)
	atb := mat.NewVecDense(3, nil)
	var sxx, sxy, sx, syy, sy, sxz, syz, sz float64
	var n float64

	for i := 0; i < p.Height; i++ {
		row := p.Row + i
		y := planeCoord(i, f.YRes())
		for j := 0; j < p.Width; j++ {
			col := p.Col + j
			if !mask.Participates(mf, masking, col+mcol, row+mrow) {
				continue
			}
			x := planeCoord(j, f.XRes())
			z := f.At(col, row)
			sx += x
			sy += y
			sz += z
			sxx += x * x
			sxy += x * y
			syy += y * y
			sxz += x * z
			syz += y * z
			n++
		}
	}
	if n < 3 {
		return 0, 0, 0, ErrRankDeficient
	}

	ata.SetSym(0, 0, n)
	ata.SetSym(0, 1, sx)
	ata.SetSym(0, 2, sy)
	ata.SetSym(1, 1, sxx)
	ata.SetSym(1, 2, sxy)
	ata.SetSym(2, 2, syy)
	atb.SetVec(0, sz)
	atb.SetVec(1, sxz)
	atb.SetVec(2, syz)

	params, ok := solveNormalEquations(ata, atb)
	if !ok {
		return 0, 0, 0, ErrRankDeficient
	}
	return params[0], params[1], params[2], nil
}

// SubtractPlane subtracts the plane a + bx*x + by*y from field, with x, y
// normalised to [-1,1] over the whole field, and invalidates the field's
// cached summaries.
func SubtractPlane(f *field.Field, a, bx, by float64) {
	xres, yres := f.XRes(), f.YRes()
	a -= bx + by
	xscale := 0.0
	if xres > 1 {
		xscale = 2.0 / float64(xres-1)
	}
	yscale := 0.0
	if yres > 1 {
		yscale = 2.0 / float64(yres-1)
	}
	bx *= xscale
	by *= yscale
	for i := 0; i < yres; i++ {
		rowOff := a + float64(i)*by
		for j := 0; j < xres; j++ {
			f.SetAt(j, i, f.At(j, i)-rowOff-float64(j)*bx)
		}
	}
	f.Invalidate()
}

// solveNormalEquations solves A^T A x = A^T b via Cholesky, falling back to
// reporting failure (the caller treats this as rank deficiency) when the
// normal matrix is not positive definite.
func solveNormalEquations(ata *mat.SymDense, atb *mat.VecDense) ([]float64, bool) {
	var chol mat.Cholesky
	if ok := chol.Factorize(ata); !ok {
		return nil, false
	}
	var x mat.VecDense
	if err := chol.SolveVecTo(&x, atb); err != nil {
		return nil, false
	}
	out := make([]float64, x.Len())
	for i := range out {
		out[i] = x.AtVec(i)
	}
	return out, true
}

// powerTable enumerates t^k for k in [0, maxpower] at each of len positions
// starting at first, t normalised to [-1,1] over a dimension of size dim.
// Mirrors field-level.c's enumerate_powers, used by FitPolynomial for
// absolute (part-offset-aware) coordinates, unlike FitPlane.
func powerTable(first, length, dim int, maxpower int) [][]float64 {
	table := make([][]float64, length)
	for i := range table {
		var t float64
		if dim > 1 {
			t = 2*float64(i+first)/float64(dim-1) - 1
		}
		powers := make([]float64, maxpower+1)
		tp := 1.0
		for k := 0; k <= maxpower; k++ {
			powers[k] = tp
			tp *= t
		}
		table[i] = powers
	}
	return table
}

func maxInt(vs []int) int {
	m := vs[0]
	for _, v := range vs[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// FitPolynomial fits sum_k coeffs[k] * x^xpowers[k] * y^ypowers[k] through
// part, x and y normalised to [-1,1] over the whole field's resolution
// (coordinates are absolute: a sub-part keeps the same coordinate system as
// the whole field, unlike FitPlane's part-relative quirk). It returns
// ErrRankDeficient when the requested terms are not uniquely determined by
// the participating points.
func FitPolynomial(f *field.Field, part *field.Part, mf *field.Mask, masking field.Masking, xpowers, ypowers []int) ([]float64, error) {
	if len(xpowers) != len(ypowers) {
		return nil, ErrTermCountMismatch
	}
	nterms := len(xpowers)
	if nterms == 0 {
		return nil, nil
	}
	p, err := geom.Resolve(part, f.XRes(), f.YRes())
	if err != nil {
		return nil, err
	}
	mcol, mrow, ok := mask.ResolveMaskOrigin(mf, p, f.XRes(), f.YRes())
	if !ok {
		return nil, field.ErrDimensionMismatch
	}

	xp := powerTable(p.Col, p.Width, f.XRes(), maxInt(xpowers))
	yp := powerTable(p.Row, p.Height, f.YRes(), maxInt(ypowers))

	ata := mat.NewSymDense(nterms, nil)
	atb := mat.NewVecDense(nterms, nil)
	fvalues := make([]float64, nterms)
	var n int

	for i := 0; i < p.Height; i++ {
		row := p.Row + i
		yrow := yp[i]
		for j := 0; j < p.Width; j++ {
			col := p.Col + j
			if !mask.Participates(mf, masking, col+mcol, row+mrow) {
				continue
			}
			xcol := xp[j]
			for k := 0; k < nterms; k++ {
				fvalues[k] = xcol[xpowers[k]] * yrow[ypowers[k]]
			}
			z := f.At(col, row)
			for k := 0; k < nterms; k++ {
				atb.SetVec(k, atb.AtVec(k)+fvalues[k]*z)
				for l := k; l < nterms; l++ {
					ata.SetSym(k, l, ata.At(k, l)+fvalues[k]*fvalues[l])
				}
			}
			n++
		}
	}
	if n < nterms {
		return nil, ErrRankDeficient
	}

	coeffs, ok := solveNormalEquations(ata, atb)
	if !ok {
		return nil, ErrRankDeficient
	}
	return coeffs, nil
}

// SubtractPolynomial subtracts sum_k coeffs[k] * x^xpowers[k] * y^ypowers[k]
// from the whole field and invalidates its cached summaries.
func SubtractPolynomial(f *field.Field, xpowers, ypowers []int, coeffs []float64) error {
	if len(xpowers) != len(ypowers) || len(xpowers) != len(coeffs) {
		return ErrTermCountMismatch
	}
	nterms := len(xpowers)
	if nterms == 0 {
		return nil
	}
	xp := powerTable(0, f.XRes(), f.XRes(), maxInt(xpowers))
	yp := powerTable(0, f.YRes(), f.YRes(), maxInt(ypowers))
	for i := 0; i < f.YRes(); i++ {
		yrow := yp[i]
		for j := 0; j < f.XRes(); j++ {
			xcol := xp[j]
			var s float64
			for k := 0; k < nterms; k++ {
				s += coeffs[k] * xcol[xpowers[k]] * yrow[ypowers[k]]
			}
			f.SetAt(j, i, f.At(j, i)-s)
		}
	}
	f.Invalidate()
	return nil
}

// Inclination fits a plane by straightening up local facets: it averages
// the normal vectors of 2x2-pixel blocks, weighting each by a Gaussian
// function of its slope magnitude so edges and noise contribute little and
// the mean normal converges to that of the dominant flat facet. damping
// must be positive; larger values suppress large-slope contributions more
// strongly. The returned bx, by use FitPlane's coefficient convention.
// Unlike FitPlane, it is nonlinear and usually applied iteratively.
func Inclination(f *field.Field, part *field.Part, mf *field.Mask, masking field.Masking, damping float64) (bx, by float64, err error) {
	if !(damping > 0) {
		return 0, 0, ErrRankDeficient
	}
	p, err := geom.Resolve(part, f.XRes(), f.YRes())
	if err != nil {
		return 0, 0, err
	}
	if p.Width < 2 || p.Height < 2 {
		return 0, 0, ErrRankDeficient
	}
	mcol, mrow, ok := mask.ResolveMaskOrigin(mf, p, f.XRes(), f.YRes())
	if !ok {
		return 0, 0, field.ErrDimensionMismatch
	}
	dx, dy := f.DX(), f.DY()

	blockOK := func(col, row int) bool {
		return mask.Participates(mf, masking, col+mcol, row+mrow) &&
			mask.Participates(mf, masking, col+1+mcol, row+mrow) &&
			mask.Participates(mf, masking, col+mcol, row+1+mrow) &&
			mask.Participates(mf, masking, col+1+mcol, row+1+mrow)
	}
	slope := func(col, row int) (vx, vy float64) {
		d1a, d1b := f.At(col, row), f.At(col+1, row)
		d2a, d2b := f.At(col, row+1), f.At(col+1, row+1)
		vx = 0.5 * (d1b + d2b - d1a - d2a) / dx
		vy = 0.5 * (d2a + d2b - d1a - d1b) / dy
		return
	}

	var sigma2 float64
	var n int
	for i := 0; i < p.Height-1; i++ {
		row := p.Row + i
		for j := 0; j < p.Width-1; j++ {
			col := p.Col + j
			if masking != field.Ignore && !blockOK(col, row) {
				continue
			}
			vx, vy := slope(col, row)
			sigma2 += vx*vx + vy*vy
			n++
		}
	}
	if n < 4 {
		return 0, 0, ErrRankDeficient
	}
	sigma2 /= float64(n) * damping

	var sumvx, sumvy, sumvz float64
	for i := 0; i < p.Height-1; i++ {
		row := p.Row + i
		for j := 0; j < p.Width-1; j++ {
			col := p.Col + j
			if masking != field.Ignore && !blockOK(col, row) {
				continue
			}
			vx, vy := slope(col, row)
			q := math.Exp((vx*vx + vy*vy) / sigma2)
			sumvx += vx / q
			sumvy += vy / q
			sumvz += 1.0 / q
		}
	}
	return 0.5 * sumvx / sumvz * float64(f.XRes()-1) * dx, 0.5 * sumvy / sumvz * float64(f.YRes()-1) * dy, nil
}
