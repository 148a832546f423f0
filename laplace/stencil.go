package laplace

// grid is a working copy of one grain's bounding box (enlarged by a
// one-pixel border and clamped to the field) used to set up and solve the
// discrete Laplace system. holes[i] marks pixels whose value is unknown
// and must be interpolated; all other pixels act as fixed boundary data.
type grid struct {
	width, height int
	z             []float64
	holes         []bool
}

func numHoles(holes []bool) int {
	n := 0
	for _, h := range holes {
		if h {
			n++
		}
	}
	return n
}

// laplaceSparse solves the grain on field-level--laplace.c's adaptive
// coarsening grid: build_levels groups the grain's interior into a
// hierarchy of progressively coarser blocks away from the boundary,
// buildSparseIterators turns that hierarchy into a weighted sparse
// system (with virtual-neighbour stencils at coarse/fine seams), the
// system is relaxed by conjugate gradient (falling back to damped
// simple iteration if it stalls), and reconstruct upsamples the coarse
// solution back to every pixel via six-point and four-point stencils.
//
// Grains too thin for any level-3 block to form (maxLevel < 3) skip the
// hierarchy entirely: initDataSimple's boundary-inward flood already
// gives the exact answer for a single-pixel hole and a good one for
// anything too narrow to coarsen.
func laplaceSparse(data []float64, holes []bool, width, height, nConjGrad, nSimple int) {
	levels, maxLevel := buildLevels(holes, width, height)
	if maxLevel < 3 {
		initDataSimple(data, holes, width, height)
		return
	}

	sys := buildSparseIterators(levels, data, width, height)
	relax(sys, nConjGrad, nSimple)
	for i, k := range sys.gindex {
		data[k] = sys.z[i]
	}
	reconstruct(levels, data, width, height, maxLevel)
}

// laplaceDense runs a full-resolution refinement pass over every pixel of
// the grain with the plain four-neighbour stencil, cleaning up whatever
// the adaptive hierarchy's six-point/four-point reconstruction only
// approximated. Pointless for single-pixel grains, which laplaceSparse
// already solves exactly.
func laplaceDense(data []float64, holes []bool, width, height, nConjGrad, nSimple int) {
	sys := buildDenseIterators(holes, data, width, height)
	relax(sys, nConjGrad, nSimple)
	for i, k := range sys.gindex {
		data[k] = sys.z[i]
	}
}

// solveGrid fills g's holes in place with the Laplace-equation solution,
// running the sparse adaptive phase first and then, for anything larger
// than a single pixel, the dense refinement phase — the same two-phase
// split gwy_field_laplace_solve runs per grain.
func solveGrid(g *grid, opts Options) {
	n := numHoles(g.holes)
	if n == 0 {
		return
	}
	laplaceSparse(g.z, g.holes, g.width, g.height, opts.SparseCGIterations, opts.SparseJacobiIterations)
	if n > 1 {
		laplaceDense(g.z, g.holes, g.width, g.height, opts.DenseCGIterations, opts.DenseJacobiIterations)
	}
}
