package laplace

import "sort"

// sparsePoint is one unknown's row of the discrete Laplace operator: a
// list of (neighbour, weight) pairs whose weights already sum to at most
// one, plus an optional constant contribution from fixed neighbouring
// data. The operator applied to z is z[i] - sum(weight*z[neighbour]); a
// solution has this equal rhs everywhere.
type sparsePoint struct {
	neighbors []int
	weights   []float64
	hasRHS    bool
	rhs       float64
}

// iterSystem is the sparse linear system build_sparse_iterators/
// build_dense_iterators assemble: one sparsePoint per unknown grid cell,
// addressed by gindex back into the flat width*height grid.
type iterSystem struct {
	gindex []int
	pts    []sparsePoint
	z      []float64
}

func (s *iterSystem) calculateF(f []float64) {
	for i, pt := range s.pts {
		var lhs float64
		for idx, nb := range pt.neighbors {
			lhs += s.z[nb] * pt.weights[idx]
		}
		var rhs float64
		if pt.hasRHS {
			rhs = pt.rhs
		}
		f[i] = (s.z[i] - lhs) - rhs
	}
}

func (s *iterSystem) applyA(v, out []float64) {
	for i, pt := range s.pts {
		var sum float64
		for idx, nb := range pt.neighbors {
			sum += v[nb] * pt.weights[idx]
		}
		out[i] = v[i] - sum
	}
}

func iterateSimple(z, f []float64) {
	for i := range z {
		z[i] -= 0.8 * f[i]
	}
}

// conjGradStep runs one conjugate-gradient iteration against the implicit
// operator applyA, returning true once the residual direction has
// collapsed (the system is solved to machine precision).
func (s *iterSystem) conjGradStep(f, v, t []float64) bool {
	s.applyA(v, t)

	var sv, phi float64
	for i := range v {
		sv += v[i] * t[i]
		phi += v[i] * f[i]
	}
	if sv < 1e-16 {
		return true
	}

	phiS := phi / sv
	for i := range s.z {
		s.z[i] -= phiS * v[i]
		f[i] -= phiS * t[i]
	}

	phi = 0
	for i := range f {
		phi += t[i] * f[i]
	}
	phiS = phi / sv
	for i := range v {
		v[i] = f[i] - phiS*v[i]
	}
	return false
}

func relax(s *iterSystem, nConjGrad, nSimple int) {
	if len(s.z) == 0 {
		return
	}
	f := make([]float64, len(s.z))
	s.calculateF(f)
	v := append([]float64(nil), f...)
	t := make([]float64, len(s.z))

	finished := false
	for it := 0; it < nConjGrad; it++ {
		if finished = s.conjGradStep(f, v, t); finished {
			break
		}
	}
	if !finished {
		for it := 0; it < nSimple; it++ {
			s.calculateF(f)
			iterateSimple(s.z, f)
		}
	}
}

// buildIterator collects one point's four classified directions into a
// sparsePoint, normalising weights so they sum to one, and folds any
// Dirichlet (rhs) contributions into a single constant term. Entries are
// sorted by neighbour index to keep iteration order deterministic.
func buildIterator(nd *[4]neighbour) (pt sparsePoint, nrhsContrib, rhsSum float64) {
	type entry struct {
		k int
		w float64
	}
	var entries []entry
	var ws, rs float64

	for i := 0; i < nDirections; i++ {
		if nd[i].weight == 0 {
			continue
		}
		ws += nd[i].weight
		if nd[i].isRHS {
			rs += nd[i].rhs
			nrhsContrib += nd[i].weight
			continue
		}
		entries = append(entries, entry{nd[i].neighbour, nd[i].weight})
		if nd[i].weight2 != 0 {
			entries = append(entries, entry{nd[i].neighbour2, nd[i].weight2})
		}
	}
	if rs != 0 {
		rhsSum = rs
		pt.hasRHS = true
		pt.rhs = rs / ws
	}

	sort.Slice(entries, func(a, b int) bool { return entries[a].k < entries[b].k })
	for _, e := range entries {
		pt.neighbors = append(pt.neighbors, e.k)
		pt.weights = append(pt.weights, e.w/ws)
	}
	return pt, nrhsContrib, rhsSum
}

// buildSparseIterators assembles the adaptive-grid system over every
// non-fixed, non-gap cell of levels, per field-level--laplace.c's
// build_sparse_iterators. Unknowns are seeded at the mean of the
// Dirichlet data they ultimately connect to, weighted by connection
// strength, which is a far better starting point than a flat zero for
// conjugate-gradient convergence on large grains.
func buildSparseIterators(levels []int, data []float64, width, height int) *iterSystem {
	gindex, revindex := buildGridIndex(levels)
	sys := &iterSystem{gindex: gindex, pts: make([]sparsePoint, len(gindex)), z: make([]float64, len(gindex))}

	var rhsSum, nrhsTotal float64
	for ipt, k := range gindex {
		i, j := k/width, k%width
		step := 1 << ((levels[k] - 1) / 2)

		var nd [4]neighbour
		nd[dirUp] = analyseNeighbourDirection(levels, data, width, height, 0, -step, j, i, revindex)
		nd[dirRight] = analyseNeighbourDirection(levels, data, width, height, step, 0, j, i, revindex)
		nd[dirDown] = analyseNeighbourDirection(levels, data, width, height, 0, step, j, i, revindex)
		nd[dirLeft] = analyseNeighbourDirection(levels, data, width, height, -step, 0, j, i, revindex)
		calculateWeights(&nd)

		pt, nrhsContrib, rs := buildIterator(&nd)
		sys.pts[ipt] = pt
		nrhsTotal += nrhsContrib
		rhsSum += rs
	}

	mean := 0.0
	if nrhsTotal > 0 {
		mean = rhsSum / nrhsTotal
	}
	for i := range sys.z {
		sys.z[i] = mean
	}
	return sys
}

// buildDenseIterators assembles the plain four-neighbour, unit-weight
// system used for the dense refinement pass, per build_dense_iterators.
// holes is the grain's original binary pixel mask: by the time the dense
// pass runs, the adaptive hierarchy's "levels" array has been overwritten
// with interpolated bookkeeping values, but boundary pixels are never
// touched by the hierarchy build, so testing holes directly is equivalent
// and avoids threading that mutated array through.
func buildDenseIterators(holes []bool, data []float64, width, height int) *iterSystem {
	levels := make([]int, len(holes))
	for i, h := range holes {
		if h {
			levels[i] = 1
		}
	}
	gindex, revindex := buildGridIndex(levels)
	sys := &iterSystem{gindex: gindex, pts: make([]sparsePoint, len(gindex)), z: make([]float64, len(gindex))}

	type step struct{ di, dj int }
	steps := [4]step{{-1, 0}, {0, -1}, {0, 1}, {1, 0}}

	for ipt, k := range gindex {
		i, j := k/width, k%width
		var ws, rs float64
		var pt sparsePoint
		for _, st := range steps {
			ii, jj := i+st.di, j+st.dj
			if ii < 0 || ii >= height || jj < 0 || jj >= width {
				continue
			}
			ws++
			kk := ii*width + jj
			if holes[kk] {
				pt.neighbors = append(pt.neighbors, revindex[kk])
			} else {
				rs += data[kk]
			}
		}
		if len(pt.neighbors) > 0 {
			w := 1.0 / ws
			pt.weights = make([]float64, len(pt.neighbors))
			for idx := range pt.weights {
				pt.weights[idx] = w
			}
		}
		if rs != 0 {
			pt.hasRHS = true
			pt.rhs = rs / ws
		}
		sys.pts[ipt] = pt
		sys.z[ipt] = data[k]
	}
	return sys
}
