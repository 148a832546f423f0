package laplace

// none marks a grid cell that currently holds no usable value: either a
// gap opened up by reduce while building the coarsening hierarchy, or (in
// the reconstruction pass) a point not yet filled in by interpolation.
const none = -1

// buildLevels classifies every cell of a width x height grain workspace
// into an adaptive coarsening hierarchy, mirroring field-level--laplace.c's
// build_levels. holes[k] marks the grain's own (unknown) pixels; every
// other cell is fixed boundary data and stays at level 0 throughout.
//
// The hierarchy alternates two passes: promote lifts each step-grid point
// whose four axial neighbours at distance step share its level to the
// next level, growing pockets of uniform-level cells; reduce
// then halves the point density of a promoted level again, opening gaps
// (marked none) at the quarter-points that will later be filled by
// six-point and four-point upsampling. remove_spikes discards isolated
// promoted points that would otherwise have to be interpolated from two
// opposite sides only. The result is a mesh that is coarse deep inside
// large grains and fine near boundaries and small features.
func buildLevels(holes []bool, width, height int) ([]int, int) {
	n := width * height
	levels := make([]int, n)
	for i, h := range holes {
		if h {
			levels[i] = 1
		}
	}
	buffer := append([]int(nil), levels...)

	step, level := 1, 0
	for {
		level++
		if !promote(levels, buffer, width, height, level, step) {
			break
		}

		// Keep a dense representation near the boundary.
		if level == 1 {
			copy(levels, buffer)
			demote(levels, buffer, width, height, level, step)
		}

		copy(levels, buffer)
		level++
		step *= 2
		if !reduce(levels, buffer, width, height, level, step) {
			break
		}

		if level > 1 {
			removeSpikes(buffer, width, height, level, step/2)
		}
		copy(levels, buffer)
	}

	return levels, level
}

func promote(levels, buffer []int, width, height, level, step int) bool {
	nx, ny := (width+step-1)/step, (height+step-1)/step
	vstep := width * step
	ok := false
	if nx < 3 || ny < 3 {
		return ok
	}

	for i := 0; i < ny; i++ {
		for j := 0; j < nx; j++ {
			k := (i*width + j) * step
			if levels[k] == level &&
				(i == 0 || levels[k-vstep] == level) &&
				(j == 0 || levels[k-step] == level) &&
				(j == nx-1 || levels[k+step] == level) &&
				(i == ny-1 || levels[k+vstep] == level) {
				buffer[k] = level + 1
				ok = true
			}
		}
	}
	return ok
}

func demote(levels, buffer []int, width, height, level, step int) {
	nx, ny := (width+step-1)/step, (height+step-1)/step
	vstep := width * step
	if nx < 3 || ny < 3 {
		return
	}

	clamp := func(idx int) {
		if buffer[idx] > level {
			buffer[idx] = level
		}
	}

	for i := 1; i < ny-1; i++ {
		for j := 1; j < nx-1; j++ {
			k := (i*width + j) * step
			if levels[k] == level &&
				(levels[k-vstep-step] == level-1 ||
					levels[k-vstep] == level-1 ||
					levels[k-vstep+step] == level-1 ||
					levels[k-step] == level-1 ||
					levels[k+step] == level-1 ||
					levels[k+vstep-step] == level-1 ||
					levels[k+vstep] == level-1 ||
					levels[k+vstep+step] == level-1) {
				clamp(k - vstep - step)
				clamp(k - vstep)
				clamp(k - vstep + step)
				clamp(k - step)
				clamp(k + step)
				clamp(k + vstep - step)
				clamp(k + vstep)
				clamp(k + vstep + step)
			}
		}
	}
}

func reduce(levels, buffer []int, width, height, level, step int) bool {
	nx, ny := (width+step-1)/step, (height+step-1)/step
	halfstep := step / 2
	vstep, vhalfstep := width*step, width*halfstep
	ok := false
	right := (nx-1)*step+halfstep < width
	down := (ny-1)*step+halfstep < height
	if nx < 3 || ny < 3 {
		return ok
	}

	for i := 0; i < ny; i++ {
		for j := 0; j < nx; j++ {
			k := (i*width + j) * step
			if levels[k] == level &&
				(i == 0 || j == 0 || levels[k-vstep-step] >= level) &&
				(i == 0 || levels[k-vstep] == level) &&
				(i == 0 || j == nx-1 || levels[k-vstep+step] >= level) &&
				(j == 0 || levels[k-step] == level) &&
				(j == nx-1 || levels[k+step] == level) &&
				(i == ny-1 || j == 0 || levels[k+vstep-step] >= level) &&
				(i == ny-1 || levels[k+vstep] == level) &&
				(i == ny-1 || j == nx-1 || levels[k+vstep+step] >= level) {
				buffer[k] = level + 1
				if i != 0 && j != 0 {
					buffer[k-vhalfstep-halfstep] = none
				}
				if i != 0 {
					buffer[k-vhalfstep] = none
				}
				if i != 0 && (right || j < nx-1) {
					buffer[k-vhalfstep+halfstep] = none
				}
				if j != 0 {
					buffer[k-halfstep] = none
				}
				if right || j < nx-1 {
					buffer[k+halfstep] = none
				}
				if (down || i < ny-1) && j != 0 {
					buffer[k+vhalfstep-halfstep] = none
				}
				if down || i < ny-1 {
					buffer[k+vhalfstep] = none
				}
				if (down || i < ny-1) && (right || j < nx-1) {
					buffer[k+vhalfstep+halfstep] = none
				}
				ok = true
			}
		}
	}
	return ok
}

// removeSpikes drops a promoted point whose four level-step neighbours
// were cleared on exactly two opposite sides: such a point would have to
// be reconstructed from two colinear directions only, which the six-point
// stencil cannot do cleanly, so it is marked none instead and later
// filled in by interpolation like the other gaps.
func removeSpikes(levels []int, width, height, level, step int) {
	nx, ny := (width+step-1)/step, (height+step-1)/step
	if nx < 3 || ny < 3 {
		return
	}

	for i := 1; i < ny-1; i++ {
		for j := 1; j < nx-1; j++ {
			k := (i*width + j) * step
			if levels[k] == level {
				su := levels[k-width*step] == none
				sd := levels[k+width*step] == none
				sl := levels[k-step] == none
				sr := levels[k+step] == none
				if (su && sd && !sl && !sr) || (!su && !sd && sl && sr) {
					levels[k] = none
				}
			}
		}
	}
}

func countGridPoints(levels []int) int {
	n := 0
	for _, l := range levels {
		if l != 0 && l != none {
			n++
		}
	}
	return n
}

func buildGridIndex(levels []int) (gindex, revindex []int) {
	revindex = make([]int, len(levels))
	for i := range revindex {
		revindex[i] = none
	}
	gindex = make([]int, 0, countGridPoints(levels))
	for k, l := range levels {
		if l != 0 && l != none {
			revindex[k] = len(gindex)
			gindex = append(gindex, k)
		}
	}
	return gindex, revindex
}
