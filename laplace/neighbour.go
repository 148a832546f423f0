package laplace

// Direction indices for the four-way stencil around an adaptive-grid
// point, matching field-level--laplace.c's LaplaceDirection.
const (
	dirUp = iota
	dirRight
	dirDown
	dirLeft
	nDirections
)

// neighbour classifies one of a point's four stencil directions. Exactly
// one of isBoundary, isRHS, or "interior" (none of the flags set, with
// neighbour pointing at another unknown) applies, except when isVirtual
// is set: a virtual neighbour sits at twice the current point's step, one
// grid position off the direct line, because its natural partner position
// was opened into a gap by reduce. It contributes through two weighted
// unknowns (neighbour and neighbour2) instead of one, splitting the usual
// second-derivative weight to keep the stencil consistent across the
// coarse/fine seam.
type neighbour struct {
	isVirtual, isBoundary, isRHS bool

	bdist               int // distance to the field edge, for unaligned Neumann boundaries
	step                int
	neighbour, neighbour2 int // indices into the sparse unknown vector, or none

	rhs             float64
	weight, weight2 float64
}

func maxAbs(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	if a > b {
		return a
	}
	return b
}

func absInt(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

// analyseNeighbourDirection walks outward from (j,i) along (xstep,ystep)
// and classifies what it finds: a Neumann field-edge boundary, a Dirichlet
// pixel holding fixed data, an interior unknown at the primary step, or -
// when the primary and secondary positions both miss - a virtual neighbour
// synthesised from the two positions adjacent to the gap reduce opened up.
func analyseNeighbourDirection(levels []int, data []float64, width, height, xstep, ystep, j, i int, revindex []int) neighbour {
	nd := neighbour{neighbour: none, neighbour2: none}
	step := maxAbs(xstep, ystep)
	ineigh, jneigh := i+ystep, j+xstep

	// Primary neighbour: Neumann boundary (upper/left always aligned).
	if ineigh < 0 || jneigh < 0 {
		nd.isBoundary = true
		nd.step = step
		return nd
	}
	if ineigh >= height {
		nd.isBoundary = true
		nd.bdist = height - 1 - i
		nd.step = step
		return nd
	}
	if jneigh >= width {
		nd.isBoundary = true
		nd.bdist = width - 1 - j
		nd.step = step
		return nd
	}

	kk := ineigh*width + jneigh
	if levels[kk] == 0 {
		nd.isRHS = true
		nd.step = step
		nd.rhs = data[kk]
		return nd
	}
	if levels[kk] != none {
		nd.neighbour = revindex[kk]
		nd.step = step
		return nd
	}

	// Secondary neighbour, twice as far.
	ineigh, jneigh = i+2*ystep, j+2*xstep
	if ineigh < 0 || jneigh < 0 {
		nd.isBoundary = true
		nd.step = 2 * step
		return nd
	}
	if ineigh >= height {
		nd.isBoundary = true
		nd.bdist = height - 1 - i
		nd.step = 2 * step
		return nd
	}
	if jneigh >= width {
		nd.isBoundary = true
		nd.bdist = width - 1 - j
		nd.step = 2 * step
		return nd
	}

	kk = ineigh*width + jneigh
	if levels[kk] != none {
		nd.neighbour = revindex[kk]
		nd.step = 2 * step
		return nd
	}

	// Virtual neighbour: offset one grid position perpendicular to the
	// stencil direction, split across the two positions straddling the gap.
	var xortho, yortho int
	if xstep != 0 {
		yortho = absInt(xstep)
	} else {
		xortho = absInt(ystep)
	}

	ineigh, jneigh = i+2*ystep-yortho, j+2*xstep-xortho
	kk = ineigh*width + jneigh
	nd.isVirtual = true
	nd.neighbour = revindex[kk]
	nd.step = 2 * step

	ineigh, jneigh = i+2*ystep+yortho, j+2*xstep+xortho
	if ineigh < height && jneigh < width {
		kk = ineigh*width + jneigh
		nd.neighbour2 = revindex[kk]
	} else {
		nd.isBoundary = true
		if ineigh >= height {
			nd.bdist = height - 1 - i
		} else {
			nd.bdist = width - 1 - j
		}
	}
	return nd
}

// calculateWeights turns the four classified directions into second
// derivative weights. With no virtual neighbour, z_xx and z_yy decouple
// into independent one-dimensional three-point formulas. With a virtual
// neighbour, the direction opposite it must absorb part of the coupling
// (the "w" correction below), with three further cases depending on
// whether a true field-edge boundary also touches this point and, if so,
// which direction it falls in.
func calculateWeights(nd *[4]neighbour) {
	virtualDir := nDirections
	for i := 0; i < nDirections; i++ {
		if nd[i].isVirtual {
			virtualDir = i
		}
	}

	if virtualDir == nDirections {
		for i := 0; i < nDirections; i++ {
			jj := (i + 2) % nDirections
			if nd[i].isBoundary {
				continue
			}
			s := float64(nd[i].step)
			xs := float64(nd[jj].step)
			if nd[jj].isBoundary {
				xs = 2 * float64(nd[jj].bdist)
			}
			nd[i].weight = 2.0 / (s + xs) / s
		}
		return
	}

	i := virtualDir
	iright := (i + 1) % nDirections
	ii := (i + 2) % nDirections
	ileft := (i + 3) % nDirections
	boundaryDir := nDirections
	for j := 0; j < nDirections; j++ {
		if j != virtualDir && nd[j].isBoundary {
			boundaryDir = j
		}
	}

	switch boundaryDir {
	case nDirections:
		s, ss := float64(nd[i].step), float64(nd[ii].step)
		sleft, sright := float64(nd[ileft].step), float64(nd[iright].step)
		w := 1.0 - 0.25*s/(s+ss)
		nd[i].weight = 1.0 / (s + ss) / s
		nd[i].weight2 = nd[i].weight
		nd[ii].weight = 2.0 / (s + ss) / ss
		nd[ileft].weight = 2.0 * w / (sleft + sright) / sleft
		nd[iright].weight = 2.0 * w / (sleft + sright) / sright
	case ii:
		s := float64(nd[i].step)
		sleft, sright := float64(nd[ileft].step), float64(nd[iright].step)
		b := float64(nd[boundaryDir].bdist)
		w := 1.0 - 0.25*s/(s+2*b)
		nd[i].weight = 1.0 / (s + 2*b) / s
		nd[i].weight2 = nd[i].weight
		nd[ileft].weight = 2.0 * w / (sleft + sright) / sleft
		nd[iright].weight = 2.0 * w / (sleft + sright) / sright
	default:
		irem := (boundaryDir + 2) % nDirections
		s, ss := float64(nd[i].step), float64(nd[ii].step)
		srem := float64(nd[irem].step)
		b := float64(nd[boundaryDir].bdist)
		w := 1.0 - 0.25*(s+4*b)/(s+ss)
		nd[i].weight = 2.0 / (s + ss) / s
		nd[ii].weight = 2.0 / (s + ss) / ss
		nd[irem].weight = 2.0 * w / (srem + 2*b) / srem
	}
}
