package laplace

// reconstruct upsamples a solved adaptive grid back to the finest
// resolution, halving the grid step on each pass until every cell holds a
// value, per field-level--laplace.c's reconstruct.
func reconstruct(levels []int, data []float64, width, height, maxLevel int) {
	step := 1 << ((maxLevel - 1) / 2)
	for step > 0 {
		interpolate(levels, data, width, height, step)
		step /= 2
	}
}

// interpolate fills the gaps reduce opened at the given grid step: first
// the six-point stencil for points lying midway between two solved points
// along a row or column (using the two in-line neighbours plus the four
// diagonal next-level points for a smoother fit), then the four-point
// stencil for points diagonally between four solved corners. Points on an
// unaligned field edge fall back to boundary-distance-weighted two- and
// one-sided variants of the same formulas.
func interpolate(levels []int, data []float64, width, height, step int) {
	nx, ny := (width+step-1)/step, (height+step-1)/step
	vstep := width * step
	if nx < 3 || ny < 3 {
		return
	}

	for i := 0; i < ny; i++ {
		if i%2 == 0 {
			for j := 1; j < nx; j += 2 {
				k := (i*width + j) * step
				if levels[k] != none {
					continue
				}
				switch {
				case i >= 2 && i < ny-2 && j < nx-1:
					data[k] = 0.375*(data[k-step]+data[k+step]) +
						0.0625*(data[k-2*vstep-step]+data[k-2*vstep+step]+data[k+2*vstep-step]+data[k+2*vstep+step])
					levels[k] = (levels[k-step] + levels[k+step]) / 2
				case j < nx-1 && i < ny-2:
					data[k] = 0.375*(data[k-step]+data[k+step]) + 0.125*(data[k+2*vstep-step]+data[k+2*vstep+step])
					levels[k] = (levels[k-step] + levels[k+step]) / 2
				case j < nx-1 && i >= 2:
					bdist := height - 1 - i*step
					a, b, d := float64(4*bdist+3*step), float64(step), float64(8*(bdist+step))
					data[k] = (a*(data[k-step]+data[k+step]) + b*(data[k-2*vstep-step]+data[k-2*vstep+step])) / d
					levels[k] = (levels[k-step] + levels[k+step]) / 2
				case i >= 2 && i < ny-2:
					bdist := width - 1 - j*step
					a, b, d := float64(6*step-4*bdist), float64(2*bdist+step), float64(8*step)
					data[k] = (a*data[k-step] + b*(data[k-2*vstep-step]+data[k+2*vstep-step])) / d
					levels[k] = levels[k-step]
				case i < ny-2:
					bdist := width - 1 - j*step
					a, b, d := float64(3*step-2*bdist), float64(2*bdist+step), float64(4*step)
					data[k] = (a*data[k-step] + b*data[k-step+2*vstep]) / d
					levels[k] = levels[k-step]
				case i >= 2:
					xbdist, ybdist := width-1-j*step, height-1-i*step
					a, b := float64(3*step+4*ybdist-2*xbdist), float64(2*xbdist+step)
					data[k] = (a*data[k-step] + b*data[k-2*vstep]) / (a + b)
					levels[k] = levels[k-step]
				default:
					levels[k] = levels[k-step]
				}
			}
		} else {
			for j := 0; j < nx; j += 2 {
				k := (i*width + j) * step
				if levels[k] != none {
					continue
				}
				switch {
				case j >= 2 && j < nx-2 && i < ny-1:
					data[k] = 0.375*(data[k-vstep]+data[k+vstep]) +
						0.0625*(data[k-vstep-2*step]+data[k-vstep+2*step]+data[k+vstep-2*step]+data[k+vstep+2*step])
					levels[k] = (levels[k-vstep] + levels[k+vstep]) / 2
				case j < nx-2 && i < ny-1:
					data[k] = 0.375*(data[k-vstep]+data[k+vstep]) + 0.125*(data[k-vstep+2*step]+data[k+vstep+2*step])
					levels[k] = (levels[k-vstep] + levels[k+vstep]) / 2
				case j >= 2 && i < ny-1:
					bdist := width - 1 - j*step
					a, b, d := float64(4*bdist+3*step), float64(step), float64(8*(bdist+step))
					data[k] = (a*(data[k-vstep]+data[k+vstep]) + b*(data[k-vstep-2*step]+data[k+vstep-2*step])) / d
					levels[k] = (levels[k-vstep] + levels[k+vstep]) / 2
				case j >= 2 && j < nx-2:
					bdist := height - 1 - i*step
					a, b, d := float64(6*step-4*bdist), float64(2*bdist+step), float64(8*step)
					data[k] = (a*data[k-vstep] + b*(data[k-vstep-2*step]+data[k-vstep+2*step])) / d
					levels[k] = levels[k-vstep]
				case j < nx-2:
					bdist := height - 1 - i*step
					a, b, d := float64(3*step-2*bdist), float64(2*bdist+step), float64(4*step)
					data[k] = (a*data[k-vstep] + b*data[k+2*step-vstep]) / d
					levels[k] = levels[k-vstep]
				case j >= 2:
					xbdist, ybdist := width-1-j*step, height-1-i*step
					a, b := float64(3*step+4*xbdist-2*ybdist), float64(2*ybdist+step)
					data[k] = (a*data[k-vstep] + b*data[k-2*step]) / (a + b)
					levels[k] = levels[k-vstep]
				default:
					levels[k] = levels[k-vstep]
				}
			}
		}
	}

	for i := 1; i < ny; i += 2 {
		for j := 1; j < nx; j += 2 {
			k := (i*width + j) * step
			if levels[k] != none {
				continue
			}
			switch {
			case i < ny-1 && j < nx-1:
				data[k] = 0.25 * (data[k-vstep] + data[k+vstep] + data[k-step] + data[k+step])
				levels[k] = (levels[k-vstep] + levels[k+vstep] + levels[k-step] + levels[k+step]) / 4
			case i < ny-1:
				bdist := width - 1 - j*step
				a, b, d := float64(2*bdist+step), float64(2*step), float64(4*(bdist+step))
				data[k] = (a*(data[k-vstep]+data[k+vstep]) + b*data[k-step]) / d
				levels[k] = (levels[k-vstep] + levels[k+vstep]) / 2
			case j < nx-1:
				bdist := height - 1 - i*step
				a, b, d := float64(2*bdist+step), float64(2*step), float64(4*(bdist+step))
				data[k] = (a*(data[k-step]+data[k+step]) + b*data[k-vstep]) / d
				levels[k] = (levels[k-step] + levels[k+step]) / 2
			default:
				xbdist, ybdist := width-1-j*step, height-1-i*step
				a, b := float64(2*ybdist+step), float64(2*xbdist+step)
				data[k] = (a*data[k-step] + b*data[k-vstep]) / (a + b)
				levels[k] = (levels[k-step] + levels[k-vstep]) / 2
			}
		}
	}
}

// initDataSimple handles grains too thin for the adaptive hierarchy to
// bother with (maxLevel < 3): it floods inward from the boundary,
// repeatedly averaging each point from whichever neighbours are already
// known at the current wavefront level. For a single-pixel grain this
// already produces the exact solution on the first pass.
func initDataSimple(data []float64, holes []bool, width, height int) {
	levels := make([]int, len(holes))
	for i, h := range holes {
		if h {
			levels[i] = 1
		}
	}

	level := 1
	for {
		finished := true
		for i := 0; i < height; i++ {
			for j := 0; j < width; j++ {
				k := i*width + j
				if levels[k] != level {
					continue
				}
				var s float64
				var n int
				if i > 0 && levels[k-width] < level {
					s += data[k-width]
					n++
				}
				if j > 0 && levels[k-1] < level {
					s += data[k-1]
					n++
				}
				if j+1 < width && levels[k+1] < level {
					s += data[k+1]
					n++
				}
				if i+1 < height && levels[k+width] < level {
					s += data[k+width]
					n++
				}
				if n > 0 {
					data[k] = s / float64(n)
				} else {
					levels[k] = level + 1
					finished = false
				}
			}
		}
		if finished {
			break
		}
		level++
	}
}
