package grainvalue

import (
	"math"

	"github.com/gwyproc/gwyfield/field"
	"github.com/gwyproc/gwyfield/mask"
)

// intermediates collects the raw per-grain sums and auxiliary structures
// that every Stage B derivation reads from, so each grain is scanned once
// regardless of how many tags are requested. Mirrors grain-value.c's split
// between a shared "which grains changed" pass and the per-value formulas
// in grain-value-builtin.c.
type intermediates struct {
	id   int
	size int
	box  mask.Box

	sumX, sumY             float64
	sumX2, sumXY, sumY2    float64
	sumZ, sumZ2, sumZ3     float64
	sumZ4                  float64
	sumXZ, sumYZ           float64
	sumX2Z, sumXYZ, sumY2Z float64

	min, max float64
	values   []float64 // every grain pixel's z, for the median

	boundaryMin, boundaryMax float64
	perimeter                float64 // flat_boundary_length, rectilinear pixel perimeter
	halfHeightCount          int

	hull []point2 // convex hull of the pixel-corner lattice, in pixel units

	dist   *mask.MaskField // isolated single-grain mask, 1px border
	distSq []int           // squared-distance transform of dist
}

func computeIntermediates(f *field.Field, mf *field.Mask) ([]intermediates, error) {
	if mf.XRes() != f.XRes() || mf.YRes() != f.YRes() {
		return nil, ErrDimensionMismatch
	}
	ngrains := mf.NGrains()
	if ngrains == 0 {
		return nil, ErrNoGrains
	}
	labels := mf.Labels()
	boxes := mf.BoundingBoxes()
	dx, dy := f.DX(), f.DY()
	xres := f.XRes()

	out := make([]intermediates, ngrains+1)
	for id := 1; id <= ngrains; id++ {
		out[id] = intermediates{id: id, box: boxes[id], min: math.Inf(1), max: math.Inf(-1),
			boundaryMin: math.Inf(1), boundaryMax: math.Inf(-1)}
	}

	for row := 0; row < f.YRes(); row++ {
		for col := 0; col < xres; col++ {
			id := labels[row*xres+col]
			if id == 0 {
				continue
			}
			g := &out[id]
			z := f.At(col, row)
			x := (float64(col) + 0.5) * dx
			y := (float64(row) + 0.5) * dy

			g.size++
			g.sumX += x
			g.sumY += y
			g.sumX2 += x * x
			g.sumXY += x * y
			g.sumY2 += y * y
			g.sumZ += z
			g.sumZ2 += z * z
			g.sumZ3 += z * z * z
			g.sumZ4 += z * z * z * z
			g.sumXZ += x * z
			g.sumYZ += y * z
			g.sumX2Z += x * x * z
			g.sumXYZ += x * y * z
			g.sumY2Z += y * y * z
			g.values = append(g.values, z)
			if z < g.min {
				g.min = z
			}
			if z > g.max {
				g.max = z
			}

			boundary := false
			for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
				nc, nr := col+d[0], row+d[1]
				if nc < 0 || nc >= xres || nr < 0 || nr >= f.YRes() || labels[nr*xres+nc] != id {
					boundary = true
					if d[1] == 0 {
						g.perimeter += dy
					} else {
						g.perimeter += dx
					}
				}
			}
			if boundary {
				if z < g.boundaryMin {
					g.boundaryMin = z
				}
				if z > g.boundaryMax {
					g.boundaryMax = z
				}
			}
		}
	}

	for id := 1; id <= ngrains; id++ {
		g := &out[id]
		half := 0.5 * (g.min + g.max)
		for _, z := range g.values {
			if z > half {
				g.halfHeightCount++
			}
		}
		g.hull = convexHull(labels, xres, f.YRes(), id, g.box)

		extracted, err := mf.ExtractGrain(id, 1)
		if err != nil {
			return nil, err
		}
		g.dist = extracted
		g.distSq = extracted.DistanceTransform()
	}
	return out, nil
}
