package grainvalue

import (
	"math"
	"sort"

	"github.com/gwyproc/gwyfield/mask"
)

// point2 is an integer pixel-grid vertex used for hull and boundary
// calculations, in lattice-corner units ([0,xres] x [0,yres]).
type point2 struct{ X, Y int }

// convexHull computes the convex hull of a grain's pixel corners via the
// monotone chain algorithm. A grain pixel at (col,row) contributes the
// four lattice corners (col,row)..(col+1,row+1); the hull of that corner
// set equals the hull of the pixelated shape, so this reaches the same
// polygon grain-value-builtin--chull.c's directional boundary walk does,
// without needing its edge-direction bookkeeping.
func convexHull(labels []int, xres, yres int, id int, box mask.Box) []point2 {
	seen := map[point2]bool{}
	var pts []point2
	add := func(p point2) {
		if !seen[p] {
			seen[p] = true
			pts = append(pts, p)
		}
	}
	for row := box.Row; row < box.Row+box.Height; row++ {
		for col := box.Col; col < box.Col+box.Width; col++ {
			if labels[row*xres+col] != id {
				continue
			}
			add(point2{col, row})
			add(point2{col + 1, row})
			add(point2{col, row + 1})
			add(point2{col + 1, row + 1})
		}
	}
	return monotoneChain(pts)
}

func monotoneChain(pts []point2) []point2 {
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})
	cross := func(o, a, b point2) int {
		return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
	}
	n := len(pts)
	if n < 3 {
		return pts
	}
	hull := make([]point2, 0, 2*n)
	for _, p := range pts {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := n - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

// hullAreaReal returns the convex hull's area in real (x,y) units.
func hullAreaReal(hull []point2, dx, dy float64) float64 {
	if len(hull) < 3 {
		return 0
	}
	var sum float64
	n := len(hull)
	for i := 0; i < n; i++ {
		a, b := hull[i], hull[(i+1)%n]
		sum += float64(a.X)*float64(b.Y) - float64(b.X)*float64(a.Y)
	}
	return math.Abs(sum) / 2 * dx * dy
}

// hullCentroidReal returns the (unweighted) mean of the hull vertices, in
// real units, used as the Welzl-style seed for the circumcircle.
func hullCentroidReal(hull []point2, dx, dy float64) (cx, cy float64) {
	for _, p := range hull {
		cx += float64(p.X) * dx
		cy += float64(p.Y) * dy
	}
	n := float64(len(hull))
	return cx / n, cy / n
}

// circumcircle returns the center and radius of a small enclosing circle
// of the hull, found by iteratively moving a seed circle (started at the
// hull centroid) toward whichever vertex currently lies outside it. This
// converges to the minimal enclosing circle for convex point sets in
// practice, in the spirit of grain-value-builtin--chull.c's iterative
// refinement without its recursive exact-Welzl bookkeeping.
func circumcircle(hull []point2, dx, dy float64) (cx, cy, r float64) {
	if len(hull) == 0 {
		return 0, 0, 0
	}
	pts := make([][2]float64, len(hull))
	for i, p := range hull {
		pts[i] = [2]float64{float64(p.X) * dx, float64(p.Y) * dy}
	}
	cx, cy = hullCentroidReal(hull, dx, dy)
	for _, p := range pts {
		d := math.Hypot(p[0]-cx, p[1]-cy)
		if d > r {
			r = d
		}
	}
	for iter := 0; iter < 4*len(pts)+8; iter++ {
		fi, fd := -1, r
		for i, p := range pts {
			if d := math.Hypot(p[0]-cx, p[1]-cy); d > fd+1e-12 {
				fd, fi = d, i
			}
		}
		if fi < 0 {
			break
		}
		p := pts[fi]
		move := (fd - r) / 2
		dirx, diry := (p[0]-cx)/fd, (p[1]-cy)/fd
		cx += dirx * move
		cy += diry * move
		r += move
	}
	return cx, cy, r
}

// boundSizes returns the maximum pairwise hull-vertex distance (the Feret
// diameter, "max bound size") with its direction angle, and the minimum
// rotating-calipers width across the hull edges ("min bound size") with
// the angle of the edge it is measured against.
func boundSizes(hull []point2, dx, dy float64) (minSize, minAngle, maxSize, maxAngle float64) {
	n := len(hull)
	if n < 2 {
		return 0, 0, 0, 0
	}
	pts := make([][2]float64, n)
	for i, p := range hull {
		pts[i] = [2]float64{float64(p.X) * dx, float64(p.Y) * dy}
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := math.Hypot(pts[j][0]-pts[i][0], pts[j][1]-pts[i][1])
			if d > maxSize {
				maxSize = d
				maxAngle = math.Atan2(pts[j][1]-pts[i][1], pts[j][0]-pts[i][0])
			}
		}
	}
	minSize = math.Inf(1)
	for i := 0; i < n; i++ {
		a, b := pts[i], pts[(i+1)%n]
		ex, ey := b[0]-a[0], b[1]-a[1]
		elen := math.Hypot(ex, ey)
		if elen == 0 {
			continue
		}
		nx, ny := -ey/elen, ex/elen
		var width float64
		for _, p := range pts {
			w := math.Abs((p[0]-a[0])*nx + (p[1]-a[1])*ny)
			if w > width {
				width = w
			}
		}
		if width < minSize {
			minSize = width
			minAngle = math.Atan2(ey, ex)
		}
	}
	if math.IsInf(minSize, 1) {
		minSize = 0
	}
	return minSize, minAngle, maxSize, maxAngle
}

// meanRadius averages the hull vertices' distance from the grain's
// centroid, a coarse stand-in for the mean boundary-to-centre distance of
// the full pixel boundary polygon.
func meanRadius(hull []point2, cx, cy, dx, dy float64) float64 {
	if len(hull) == 0 {
		return 0
	}
	var sum float64
	for _, p := range hull {
		sum += math.Hypot(float64(p.X)*dx-cx, float64(p.Y)*dy-cy)
	}
	return sum / float64(len(hull))
}
