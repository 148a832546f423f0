package levelling

import (
	"sort"

	"github.com/gwyproc/gwyfield/field"
	"github.com/gwyproc/gwyfield/mask"
)

// RowShiftMethod selects how FindRowShifts estimates a row's offset, and
// whether that offset is taken absolutely or relative to the previous row.
// Mirrors field-level.c's four-way GwyRowShiftMethod switch.
type RowShiftMethod int

const (
	// RowShiftMean estimates each row's offset as its participating
	// pixels' mean, then converts neighbouring rows' means into
	// corrective differences.
	RowShiftMean RowShiftMethod = iota
	// RowShiftMedian is like RowShiftMean but uses the median.
	RowShiftMedian
	// RowShiftMeanDiff directly estimates the mean difference between
	// each row and the next, without an intermediate absolute value.
	RowShiftMeanDiff
	// RowShiftMedianDiff is like RowShiftMeanDiff but uses the median of
	// the per-column differences.
	RowShiftMedianDiff
)

// FindRowShifts estimates corrective shifts to align field rows with their
// neighbours, returning one value per row (the first row is always left at
// 0, since shifts are relative to a neighbour). minFreedom is the minimum
// number of free (unmasked) points beyond the one the method itself
// requires for a row to be considered fittable; rows without enough free
// points get a shift of 0 and do not propagate to their neighbours.
func FindRowShifts(f *field.Field, mf *field.Mask, masking field.Masking, method RowShiftMethod, minFreedom int) ([]float64, error) {
	xres, yres := f.XRes(), f.YRes()
	shifts := make([]float64, yres)
	if yres < 2 {
		return shifts, nil
	}
	mcol, mrow, ok := mask.ResolveMaskOrigin(mf, f.FullPart(), xres, yres)
	if !ok {
		return nil, field.ErrDimensionMismatch
	}

	rowValues := func(row int) []float64 {
		vals := make([]float64, 0, xres)
		for c := 0; c < xres; c++ {
			if mask.Participates(mf, masking, c+mcol, row+mrow) {
				vals = append(vals, f.At(c, row))
			}
		}
		return vals
	}

	switch method {
	case RowShiftMean:
		good := make([]bool, yres)
		for i := 0; i < yres; i++ {
			vals := rowValues(i)
			if len(vals) >= 1+minFreedom {
				shifts[i] = mean(vals)
				good[i] = true
			}
		}
		propagateGoodRowDiffs(shifts, good)
	case RowShiftMedian:
		good := make([]bool, yres)
		for i := 0; i < yres; i++ {
			vals := rowValues(i)
			if len(vals) >= 1+minFreedom {
				shifts[i] = median(vals)
				good[i] = true
			}
		}
		propagateGoodRowDiffs(shifts, good)
	case RowShiftMeanDiff:
		for i := 0; i < yres-1; i++ {
			diffs := rowPairDiffs(f, mf, masking, mcol, mrow, xres, i)
			if len(diffs) >= 1+minFreedom {
				shifts[i+1] = mean(diffs)
			}
		}
	case RowShiftMedianDiff:
		for i := 0; i < yres-1; i++ {
			diffs := rowPairDiffs(f, mf, masking, mcol, mrow, xres, i)
			if len(diffs) >= 1+minFreedom {
				shifts[i+1] = median(diffs)
			}
		}
	default:
		return shifts, nil
	}
	return shifts, nil
}

// rowPairDiffs collects d(row,c) - d(row+1,c) for columns where both rows
// participate.
func rowPairDiffs(f *field.Field, mf *field.Mask, masking field.Masking, mcol, mrow, xres, row int) []float64 {
	diffs := make([]float64, 0, xres)
	for c := 0; c < xres; c++ {
		if mask.Participates(mf, masking, c+mcol, row+mrow) && mask.Participates(mf, masking, c+mcol, row+1+mrow) {
			diffs = append(diffs, f.At(c, row)-f.At(c, row+1))
		}
	}
	return diffs
}

// propagateGoodRowDiffs turns a line of per-row absolute estimates into
// corrective differences: row i+1's shift becomes the estimate of row i
// minus that of row i+1 when both rows are good, and 0 otherwise. The top
// row always gets 0. Mirrors field-level.c's find_shifts_of_good_rows.
func propagateGoodRowDiffs(shifts []float64, good []bool) {
	n := len(shifts)
	if n < 2 {
		return
	}
	diffs := make([]float64, n)
	for i := 0; i < n-1; i++ {
		if good[i] && good[i+1] {
			diffs[i] = shifts[i] - shifts[i+1]
		}
	}
	for i := n - 2; i >= 0; i-- {
		shifts[i+1] = diffs[i]
	}
	shifts[0] = 0
}

func mean(vals []float64) float64 {
	var s float64
	for _, v := range vals {
		s += v
	}
	return s / float64(len(vals))
}

func median(vals []float64) float64 {
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return 0.5 * (sorted[n/2-1] + sorted[n/2])
}

// ShiftRows subtracts an absolute per-row shift from every value in the
// corresponding row; shifts must have one entry per field row. Relative
// (corrective) shifts from FindRowShifts must first be accumulated into
// absolute ones by the caller before use here.
func ShiftRows(f *field.Field, shifts []float64) error {
	if len(shifts) != f.YRes() {
		return ErrDimensionMismatch
	}
	for i, s := range shifts {
		if s == 0 {
			continue
		}
		for j := 0; j < f.XRes(); j++ {
			f.SetAt(j, i, f.At(j, i)-s)
		}
	}
	f.Invalidate()
	return nil
}
