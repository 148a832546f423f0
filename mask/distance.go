package mask

// DistanceTransform computes, for every set-bit pixel, the squared
// Euclidean distance to the nearest clear-bit pixel or field border (field
// borders act as an implicit one-pixel-wide clear frame). Clear pixels get
// distance 0. Uses the multi-wave algorithm of spec.md section 4.5.
func (m *MaskField) DistanceTransform() []int {
	n := m.xres * m.yres
	const inf = 1 << 30
	dist := make([]int, n)
	for i := range dist {
		dist[i] = inf
	}

	type point struct{ x, y int }
	var queue []point

	idx := func(x, y int) int { return y*m.xres + x }
	isClear := func(x, y int) bool {
		if x < 0 || x >= m.xres || y < 0 || y >= m.yres {
			return true
		}
		return !m.Get(x, y)
	}

	// Initialise: clear pixels get 0; set pixels with a clear 4-neighbour
	// (including the implicit border) get 1, with only an 8-neighbour
	// clear get 2.
	for y := 0; y < m.yres; y++ {
		for x := 0; x < m.xres; x++ {
			if !m.Get(x, y) {
				dist[idx(x, y)] = 0
				continue
			}
			if isClear(x-1, y) || isClear(x+1, y) || isClear(x, y-1) || isClear(x, y+1) {
				dist[idx(x, y)] = 1
				queue = append(queue, point{x, y})
			} else if isClear(x-1, y-1) || isClear(x+1, y-1) || isClear(x-1, y+1) || isClear(x+1, y+1) {
				dist[idx(x, y)] = 2
				queue = append(queue, point{x, y})
			}
		}
	}

	axial := [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	diag := [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}

	for l := 2; len(queue) > 0; l++ {
		next := make([]point, 0, len(queue))
		queued := make(map[point]bool)
		stepAxial := 2*l - 1
		stepDiag := 2 * (2*l - 1)
		for _, p := range queue {
			d := dist[idx(p.x, p.y)]
			for _, o := range axial {
				nx, ny := p.x+o[0], p.y+o[1]
				if nx < 0 || nx >= m.xres || ny < 0 || ny >= m.yres {
					continue
				}
				if !m.Get(nx, ny) {
					continue
				}
				cand := d + stepAxial
				ni := idx(nx, ny)
				if cand < dist[ni] {
					dist[ni] = cand
					if !queued[point{nx, ny}] {
						queued[point{nx, ny}] = true
						next = append(next, point{nx, ny})
					}
				}
			}
			for _, o := range diag {
				nx, ny := p.x+o[0], p.y+o[1]
				if nx < 0 || nx >= m.xres || ny < 0 || ny >= m.yres {
					continue
				}
				if !m.Get(nx, ny) {
					continue
				}
				cand := d + stepDiag
				ni := idx(nx, ny)
				if cand < dist[ni] {
					dist[ni] = cand
					if !queued[point{nx, ny}] {
						queued[point{nx, ny}] = true
						next = append(next, point{nx, ny})
					}
				}
			}
		}
		queue = next
	}

	for i, d := range dist {
		if d == inf {
			dist[i] = 0
		}
	}
	return dist
}
