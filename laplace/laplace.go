// Package laplace fills masked-out regions of a field with the solution of
// Laplace's equation, using the surrounding valid data as boundary values.
// It mirrors field-level--laplace.c's gwy_field_laplace_solve: each grain
// is first solved on an adaptive coarsening grid (coarse deep inside large
// holes, fine near their boundary) and upsampled back to full resolution,
// then refined by a dense full-resolution pass. See DESIGN.md.
package laplace

import (
	"github.com/gwyproc/gwyfield/field"
	"github.com/gwyproc/gwyfield/mask"
)

// AllGrains, passed as Solve's grainID, requests that every grain of the
// mask be replaced by the solution of the Laplace equation in one call.
const AllGrains = -1

// Options controls the iterative solve's two phases: the adaptive
// coarse-grid solve (Sparse*) and the full-resolution refinement pass
// that follows it (Dense*). Each phase first tries conjugate-gradient
// iteration and, if that stalls before converging, falls back to damped
// simple iteration for the remaining budget.
type Options struct {
	SparseCGIterations     int
	SparseJacobiIterations int
	DenseCGIterations      int
	DenseJacobiIterations  int
}

// DefaultOptions returns field-level--laplace.c's canonical iteration
// budget: 60 conjugate-gradient steps plus up to 20 damped-simple steps
// for the sparse adaptive-grid phase, and 60 plus up to 30 for the dense
// refinement phase.
func DefaultOptions() Options {
	return Options{
		SparseCGIterations:     60,
		SparseJacobiIterations: 20,
		DenseCGIterations:      60,
		DenseJacobiIterations:  30,
	}
}

// Solve replaces masked areas of f with the solution of the Laplace
// equation. Boundary conditions on the masked area's boundary are
// Dirichlet, taken from the pixels immediately outside it; boundary
// conditions at field edges are Neumann (zero normal derivative, by
// mirroring).
//
// grainID selects which connected component of mf to replace: 0 means
// "the entire area outside mf's grains" (mf is inverted first and the
// complement is itself labelled into grains), AllGrains means every grain
// of mf, and any other value in [1, mf.NGrains()] replaces that one grain.
//
// If the selected area covers the field entirely, the problem is
// underspecified and f is cleared to zero instead of solved.
func Solve(f *field.Field, mf *field.Mask, grainID int, opts Options) error {
	if mf.XRes() != f.XRes() || mf.YRes() != f.YRes() {
		return ErrDimensionMismatch
	}

	work := mf
	if grainID == 0 {
		work = mf.Clone()
		if err := work.Logical(nil, nil, nil, mask.OpNotA); err != nil {
			return err
		}
		grainID = AllGrains
	}

	ngrains := work.NGrains()
	if grainID != AllGrains && (grainID < 1 || grainID > ngrains) {
		return ErrInvalidGrainID
	}

	sizes := work.Sizes()
	if ngrains == 1 && sizes[1] == f.XRes()*f.YRes() {
		return f.Fill(nil, nil, field.Ignore, 0)
	}

	from, to := grainID, grainID
	if grainID == AllGrains {
		from, to = 1, ngrains
	}

	labels := work.Labels()
	bboxes := work.BoundingBoxes()
	for id := from; id <= to; id++ {
		bbox := enlargeBox(bboxes[id], f.XRes(), f.YRes())
		g := extractGrid(f, labels, id, bbox)
		solveGrid(g, opts)
		insertGrid(f, g, bbox)
	}
	f.Invalidate()
	return nil
}

// enlargeBox grows a grain's bounding box by one pixel on every side,
// clamped to the field, so the boundary pixels used as Dirichlet data are
// included in the extracted grid.
func enlargeBox(b mask.Box, xres, yres int) mask.Box {
	col, row := b.Col-1, b.Row-1
	width, height := b.Width+2, b.Height+2
	if col < 0 {
		width += col
		col = 0
	}
	if row < 0 {
		height += row
		row = 0
	}
	if col+width > xres {
		width = xres - col
	}
	if row+height > yres {
		height = yres - row
	}
	return mask.Box{Col: col, Row: row, Width: width, Height: height}
}

func extractGrid(f *field.Field, labels []int, id int, bbox mask.Box) *grid {
	g := &grid{width: bbox.Width, height: bbox.Height}
	g.z = make([]float64, bbox.Width*bbox.Height)
	g.holes = make([]bool, bbox.Width*bbox.Height)
	xres := f.XRes()
	for i := 0; i < bbox.Height; i++ {
		row := bbox.Row + i
		for j := 0; j < bbox.Width; j++ {
			col := bbox.Col + j
			idx := i*bbox.Width + j
			g.z[idx] = f.At(col, row)
			g.holes[idx] = labels[row*xres+col] == id
		}
	}
	return g
}

func insertGrid(f *field.Field, g *grid, bbox mask.Box) {
	for i := 0; i < bbox.Height; i++ {
		row := bbox.Row + i
		for j := 0; j < bbox.Width; j++ {
			idx := i*bbox.Width + j
			if !g.holes[idx] {
				continue
			}
			f.SetAt(bbox.Col+j, row, g.z[idx])
		}
	}
}
