package field

import "math"

// quarterVisitor receives one grid-vertex quarter-block: the four pixel
// z-values surrounding the vertex in (top-left, top-right, bottom-right,
// bottom-left) order, and a 0/1 weight for each saying whether that corner
// pixel is itself part of the processed area. At least one weight is
// guaranteed nonzero.
type quarterVisitor func(z1, z2, z3, z4 float64, w1, w2, w3, w4 int)

// processQuarters walks the grid vertices of part (and, when includeBorders
// is set, the half-pixel border strip around it), invoking visit once per
// vertex that has at least one real corner. This is the shared traversal
// behind SurfaceArea, Volume and MaterialVolume: each visits the same
// quarter-blocks with a different accumulation formula.
//
// A vertex sits between pixel rows row+i-1/row+i and columns col+j-1/col+j.
// Positions that fall outside the field are mirrored to the nearest edge
// pixel when includeBorders is set; otherwise the vertex is skipped
// entirely. Positions outside part but inside the field are read as-is
// (their real neighbouring data informs the gradient) but always get
// weight 0, since they are not part of the processed area.
func (f *Field) processQuarters(part Part, mf *Mask, masking Masking, includeBorders bool, visit quarterVisitor) error {
	mcol, mrow, err := f.maskOrigin(mf, part)
	if err != nil {
		return err
	}

	clampRow := func(r int) int { return max(0, min(f.yres-1, r)) }
	clampCol := func(c int) int { return max(0, min(f.xres-1, c)) }

	inPart := func(r, c int) bool {
		return r >= part.Row && r < part.Row+part.Height && c >= part.Col && c < part.Col+part.Width
	}
	weight := func(r, c int) int {
		if !inPart(r, c) {
			return 0
		}
		if f.participates(mf, mcol, mrow, masking, c, r) {
			return 1
		}
		return 0
	}

	for i := 0; i <= part.Height; i++ {
		rowTop := part.Row + i - 1
		rowBot := part.Row + i
		topEdge := rowTop < 0
		botEdge := rowBot >= f.yres
		if (topEdge || botEdge) && !includeBorders {
			continue
		}
		for j := 0; j <= part.Width; j++ {
			colLeft := part.Col + j - 1
			colRight := part.Col + j
			leftEdge := colLeft < 0
			rightEdge := colRight >= f.xres
			if (leftEdge || rightEdge) && !includeBorders {
				continue
			}

			w1 := weight(rowTop, colLeft)
			w2 := weight(rowTop, colRight)
			w3 := weight(rowBot, colRight)
			w4 := weight(rowBot, colLeft)
			if w1 == 0 && w2 == 0 && w3 == 0 && w4 == 0 {
				continue
			}

			z1 := f.At(clampCol(colLeft), clampRow(rowTop))
			z2 := f.At(clampCol(colRight), clampRow(rowTop))
			z3 := f.At(clampCol(colRight), clampRow(rowBot))
			z4 := f.At(clampCol(colLeft), clampRow(rowBot))
			visit(z1, z2, z3, z4, w1, w2, w3, w4)
		}
	}
	return nil
}

// quarterPixelArea computes a general rectangular pixel quarter's
// contribution to the interpolated surface area, accounting for
// possibly-missing corners via w1..w4.
func quarterPixelArea(z1, z2, z3, z4 float64, w1, w2, w3, w4 int, dx, dy float64) float64 {
	d21 := (z2 - z1) / dx
	d23 := (z2 - z3) / dy
	d14 := (z1 - z4) / dy
	d34 := (z3 - z4) / dx
	d1423 := 0.75*d14 + 0.25*d23
	d2134 := 0.75*d21 + 0.25*d34
	d2314 := 0.75*d23 + 0.25*d14
	d3421 := 0.75*d34 + 0.25*d21
	D1423 := d1423 * d1423
	D2134 := d2134 * d2134
	D2314 := d2314 * d2314
	D3421 := d3421 * d3421
	D21 := 1.0 + d21*d21
	D14 := 1.0 + d14*d14
	D34 := 1.0 + d34*d34
	D23 := 1.0 + d23*d23
	Dv := 1.0 + 0.25*(d14+d23)*(d14+d23)
	Dh := 1.0 + 0.25*(d21+d34)*(d21+d34)

	s := 0.0
	if w := w1 + w2; w != 0 {
		s += float64(w) * math.Sqrt(Dv+D2134)
	}
	if w := w2 + w3; w != 0 {
		s += float64(w) * math.Sqrt(Dh+D2314)
	}
	if w := w3 + w4; w != 0 {
		s += float64(w) * math.Sqrt(Dv+D3421)
	}
	if w := w4 + w1; w != 0 {
		s += float64(w) * math.Sqrt(Dh+D1423)
	}
	if w1 != 0 {
		s += math.Sqrt(D21+D1423) + math.Sqrt(D14+D2134)
	}
	if w2 != 0 {
		s += math.Sqrt(D21+D2314) + math.Sqrt(D23+D2134)
	}
	if w3 != 0 {
		s += math.Sqrt(D34+D2314) + math.Sqrt(D23+D3421)
	}
	if w4 != 0 {
		s += math.Sqrt(D34+D1423) + math.Sqrt(D14+D3421)
	}
	return s
}

// volumeWeights holds the self/orthogonal quadrature weights for each
// VolumeMethod; the diagonal weight is always 1.
var volumeWeights = [...][2]float64{
	VolumeDefault:     {484.0, 22.0},
	VolumeGwyddion2:   {52.0, 10.0},
	VolumeTriangular:  {36.0, 6.0},
	VolumeBilinear:    {28.0, 4.0},
	VolumeBiquadratic: {484.0, 22.0},
}

// VolumeMethod selects the quadrature scheme used by Field.Volume.
type VolumeMethod int

const (
	VolumeDefault VolumeMethod = iota
	VolumeGwyddion2
	VolumeTriangular
	VolumeBilinear
	VolumeBiquadratic
)

// volumeTriprismMaterial integrates the positive part of the linear
// interpolant across the triangle (za,zb,zc), clipped to z>=0.
func volumeTriprismMaterial(za, zb, zc float64) float64 {
	min1 := math.Min(za, zc)
	minV := math.Min(min1, zb)
	if minV >= 0.0 {
		return za + zb + zc
	}
	max1 := math.Max(za, zc)
	maxV := math.Max(max1, zb)
	if maxV <= 0.0 {
		return 0.0
	}
	mid := zb
	if min1 != minV {
		mid = min1
	} else if max1 != maxV {
		mid = max1
	}
	if mid <= 0.0 {
		return maxV * maxV * maxV / (maxV - minV) / (maxV - mid)
	}
	p := mid / (mid - minV)
	q := maxV / (maxV - minV)
	return p*mid + q*maxV - p*q*minV
}

// volumeMaterialQuadrature1 integrates the material volume above z=0 across
// one quarter-block, honouring missing corners via w1..w4.
func volumeMaterialQuadrature1(z1, z2, z3, z4 float64, w1, w2, w3, w4 int) float64 {
	zc := 0.25 * (z1 + z2 + z3 + z4)
	v := 0.0
	if w1 != 0 {
		v += volumeTriprismMaterial(0.5*(z1+z2), z1, zc) + volumeTriprismMaterial(0.5*(z4+z1), zc, z1)
	}
	if w2 != 0 {
		v += volumeTriprismMaterial(0.5*(z1+z2), z2, zc) + volumeTriprismMaterial(0.5*(z2+z3), zc, z2)
	}
	if w3 != 0 {
		v += volumeTriprismMaterial(0.5*(z2+z3), zc, z3) + volumeTriprismMaterial(0.5*(z3+z4), z3, zc)
	}
	if w4 != 0 {
		v += volumeTriprismMaterial(0.5*(z4+z1), zc, z4) + volumeTriprismMaterial(0.5*(z3+z4), z4, zc)
	}
	return v
}
