package grainvalue

import "math"

// extractOrigin mirrors mask.MaskField.ExtractGrain's border clamping so
// callers can map a pixel index inside the extracted grid back to field
// coordinates.
func extractOrigin(g *intermediates) (col, row int) {
	col = g.box.Col - 1
	if col < 0 {
		col = 0
	}
	row = g.box.Row - 1
	if row < 0 {
		row = 0
	}
	return col, row
}

// shiftDirections is grain-value-builtin--chull.c's 12-direction probe
// table, unit vectors spanning one quadrant from 0 to 11*7.5 degrees. Each
// round of improveInscribedDisc tries all four quadrant rotations of all
// twelve, 48 probes total.
var shiftDirections = [12][2]float64{
	{1.0, 0.0},
	{0.9914448613738104, 0.1305261922200516},
	{0.9659258262890683, 0.2588190451025207},
	{0.9238795325112867, 0.3826834323650898},
	{0.8660254037844387, 0.5},
	{0.7933533402912352, 0.6087614290087207},
	{0.7071067811865476, 0.7071067811865476},
	{0.6087614290087207, 0.7933533402912352},
	{0.5, 0.8660254037844387},
	{0.3826834323650898, 0.9238795325112867},
	{0.2588190451025207, 0.9659258262890683},
	{0.1305261922200517, 0.9914448613738104},
}

// point2r is a disc candidate centre or boundary sample in real (not pixel)
// coordinates.
type point2r struct{ x, y float64 }

// backgroundWalls collects, as explicit points, every background pixel of
// the isolated grain plus a line of points along each side of the field
// that the grain's bounding box actually touches. maximizeDiscRadius then
// needs only a plain nearest-point search: the true field edge behaves
// exactly like a wall of background one half-pixel-line away, and a side
// of the bounding box that doesn't touch the field edge already has real
// background pixels in g.dist's one-pixel border covering it.
func backgroundWalls(g *intermediates, f fieldDims, ocol, orow int) []point2r {
	w, h := g.dist.XRes(), g.dist.YRes()
	var pts []point2r
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			if !g.dist.Get(col, row) {
				pts = append(pts, point2r{
					x: (float64(ocol+col) + 0.5) * f.dx,
					y: (float64(orow+row) + 0.5) * f.dy,
				})
			}
		}
	}
	if g.box.Col == 0 {
		for row := 0; row < h; row++ {
			pts = append(pts, point2r{x: 0, y: (float64(orow+row) + 0.5) * f.dy})
		}
	}
	if g.box.Row == 0 {
		for col := 0; col < w; col++ {
			pts = append(pts, point2r{x: (float64(ocol+col) + 0.5) * f.dx, y: 0})
		}
	}
	if g.box.Col+g.box.Width == f.xres {
		xwall := float64(f.xres) * f.dx
		for row := 0; row < h; row++ {
			pts = append(pts, point2r{x: xwall, y: (float64(orow+row) + 0.5) * f.dy})
		}
	}
	if g.box.Row+g.box.Height == f.yres {
		ywall := float64(f.yres) * f.dy
		for col := 0; col < w; col++ {
			pts = append(pts, point2r{x: (float64(ocol+col) + 0.5) * f.dx, y: ywall})
		}
	}
	return pts
}

// maximizeDiscRadius returns the squared distance from (x,y) to the
// nearest background point, i.e. the squared radius of the largest disc
// centred at (x,y) that stays inside the grain. This is the brute-force
// point-set stand-in for maximize_disc_radius's edge-list minimisation:
// grain-value-builtin--chull.c walks the grain's traced boundary segments,
// we walk its background pixels directly, which gives the same answer
// (exact concavity handling) at coarser-than-subpixel precision.
func maximizeDiscRadius(walls []point2r, x, y float64) float64 {
	best := math.Inf(1)
	for _, p := range walls {
		dx, dy := p.x-x, p.y-y
		if d := dx*dx + dy*dy; d < best {
			best = d
		}
	}
	return best
}

// improveInscribedDisc refines a seed centre towards the locally largest
// inscribed disc by repeatedly probing 48 directions (the 12-entry
// shiftDirections table rotated into all four quadrants) at a shrinking
// step eps, exactly as improve_inscribed_disc does: the step halves after
// a probe round finds no improvement, grows by half again after more than
// two consecutive improving rounds, and the search stops once both the
// step and the last improvement are negligible.
func improveInscribedDisc(walls []point2r, cx, cy float64, r2 float64, eps float64) (x, y float64, radius2 float64) {
	x, y, radius2 = cx, cy, r2
	improved := 0
	for {
		bestX, bestY, bestR2 := x, y, radius2
		found := false
		for _, d := range shiftDirections {
			candidates := [4][2]float64{
				{d[0], d[1]},
				{-d[1], d[0]},
				{-d[0], -d[1]},
				{d[1], -d[0]},
			}
			for _, c := range candidates {
				px, py := x+eps*c[0], y+eps*c[1]
				pr2 := maximizeDiscRadius(walls, px, py)
				if pr2 > bestR2 {
					bestX, bestY, bestR2 = px, py, pr2
					found = true
				}
			}
		}

		improvement := bestR2 - radius2
		x, y, radius2 = bestX, bestY, bestR2

		if found {
			improved++
			if improved > 2 {
				eps *= 1.5
			}
		} else {
			improved = 0
			eps *= 0.5
		}

		if eps <= 1e-3 && improvement <= 1e-3 {
			break
		}
	}
	return x, y, radius2
}

// inscribedDisc finds the largest disc that fits entirely inside the
// grain, per grain-value-builtin--chull.c's inscribed_discs_and_friends.
// A grain that is exactly its own bounding rectangle gets the closed-form
// answer directly (half the shorter side, minus an epsilon so the disc
// stays strictly interior). Everything else is seeded at the distance
// transform's farthest-from-boundary pixel and refined by the 12-direction
// adaptive search against the grain's actual (possibly concave) boundary.
func inscribedDisc(g *intermediates, f fieldDims) (r, x, y float64) {
	if g.size == g.box.Width*g.box.Height {
		sdx := 0.5 * float64(g.box.Width) * f.dx
		sdy := 0.5 * float64(g.box.Height) * f.dy
		lmin := math.Min(sdx, sdy)
		xoff := float64(g.box.Col) * f.dx
		yoff := float64(g.box.Row) * f.dy
		return 0.999999 * lmin, sdx + xoff, sdy + yoff
	}

	if g.dist == nil || len(g.distSq) == 0 {
		return 0, 0, 0
	}
	ocol, orow := extractOrigin(g)
	w := g.dist.XRes()
	h := g.dist.YRes()

	best, bestIdx := -1, -1
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			d := g.distSq[row*w+col]
			if d > best {
				best = d
				bestIdx = row*w + col
			}
		}
	}
	if bestIdx < 0 || best <= 0 {
		return 0, 0, 0
	}
	bestCol, bestRow := bestIdx%w, bestIdx/w
	scale := math.Sqrt(f.dx * f.dy)
	cx := (float64(ocol+bestCol) + 0.5) * f.dx
	cy := (float64(orow+bestRow) + 0.5) * f.dy
	seedR := math.Sqrt(float64(best)) * scale

	eps := 0.5
	if seedR >= 4.0*scale {
		eps += 0.25
	}
	if seedR >= 16.0*scale {
		eps += 0.25
	}
	eps *= scale
	if maxEps := 0.5 * seedR; eps > maxEps && maxEps > 0 {
		eps = maxEps
	}

	walls := backgroundWalls(g, f, ocol, orow)
	fx, fy, r2 := improveInscribedDisc(walls, cx, cy, seedR*seedR, eps)
	return math.Sqrt(r2), fx, fy
}

// meanEdgeDistance averages sqrt(distance-transform) over the grain's own
// pixels, rescaled to near-square pixels by the geometric mean of dx,dy
// rather than the original's explicit resampling to a square grid.
func meanEdgeDistance(g *intermediates, f fieldDims) float64 {
	if g.dist == nil {
		return 0
	}
	scale := math.Sqrt(f.dx * f.dy)
	w, h := g.dist.XRes(), g.dist.YRes()
	var sum float64
	var n int
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			if !g.dist.Get(col, row) {
				continue
			}
			sum += math.Sqrt(float64(g.distSq[row*w+col])) * scale
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// fieldDims is the handful of a field's geometric properties Stage B needs
// without importing *field.Field into every helper file.
type fieldDims struct {
	xres, yres int
	dx, dy     float64
}
