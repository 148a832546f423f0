package levelling_test

import (
	"math"
	"testing"

	"github.com/gwyproc/gwyfield/field"
	"github.com/gwyproc/gwyfield/levelling"
	"github.com/gwyproc/gwyfield/mask"
)

func planeField(xres, yres int, a, bx, by float64) *field.Field {
	f := field.New(xres, yres, float64(xres), float64(yres))
	for i := 0; i < yres; i++ {
		y := 2*float64(i)/float64(yres-1) - 1
		for j := 0; j < xres; j++ {
			x := 2*float64(j)/float64(xres-1) - 1
			f.SetAt(j, i, a+bx*x+by*y)
		}
	}
	f.Invalidate()
	return f
}

func TestFitPlaneRecoversKnownCoefficients(t *testing.T) {
	f := planeField(5, 5, 2, 3, -1.5)
	a, bx, by, err := levelling.FitPlane(f, nil, nil, field.Ignore)
	if err != nil {
		t.Fatalf("FitPlane: %v", err)
	}
	if math.Abs(a-2) > 1e-9 || math.Abs(bx-3) > 1e-9 || math.Abs(by-(-1.5)) > 1e-9 {
		t.Errorf("FitPlane() = (%v,%v,%v), want (2,3,-1.5)", a, bx, by)
	}
}

func TestFitPlaneTooFewPoints(t *testing.T) {
	f := field.New(1, 5, 1, 5)
	if _, _, _, err := levelling.FitPlane(f, nil, nil, field.Ignore); err != levelling.ErrRankDeficient {
		t.Errorf("FitPlane() on a single column err = %v, want ErrRankDeficient", err)
	}
}

func TestSubtractPlaneZeroesFittedPlane(t *testing.T) {
	f := planeField(6, 4, 1, 2, 3)
	a, bx, by, err := levelling.FitPlane(f, nil, nil, field.Ignore)
	if err != nil {
		t.Fatalf("FitPlane: %v", err)
	}
	levelling.SubtractPlane(f, a, bx, by)
	for i := 0; i < f.YRes(); i++ {
		for j := 0; j < f.XRes(); j++ {
			if math.Abs(f.At(j, i)) > 1e-9 {
				t.Fatalf("residual at (%d,%d) = %v, want ~0", j, i, f.At(j, i))
			}
		}
	}
}

func TestFitPolynomialRecoversQuadratic(t *testing.T) {
	xres, yres := 7, 7
	f := field.New(xres, yres, float64(xres), float64(yres))
	for i := 0; i < yres; i++ {
		y := 2*float64(i)/float64(yres-1) - 1
		for j := 0; j < xres; j++ {
			x := 2*float64(j)/float64(xres-1) - 1
			f.SetAt(j, i, 1+2*x+0.5*x*x)
		}
	}
	f.Invalidate()
	xpowers := []int{0, 1, 2}
	ypowers := []int{0, 0, 0}
	coeffs, err := levelling.FitPolynomial(f, nil, nil, field.Ignore, xpowers, ypowers)
	if err != nil {
		t.Fatalf("FitPolynomial: %v", err)
	}
	want := []float64{1, 2, 0.5}
	for k, c := range coeffs {
		if math.Abs(c-want[k]) > 1e-8 {
			t.Errorf("coeffs[%d] = %v, want %v", k, c, want[k])
		}
	}
}

func TestFitPolynomialMismatchedLengths(t *testing.T) {
	f := field.New(3, 3, 3, 3)
	_, err := levelling.FitPolynomial(f, nil, nil, field.Ignore, []int{0, 1}, []int{0})
	if err != levelling.ErrTermCountMismatch {
		t.Errorf("FitPolynomial() err = %v, want ErrTermCountMismatch", err)
	}
}

func TestSubtractPolynomialZeroesFittedSurface(t *testing.T) {
	xres, yres := 5, 5
	f := field.New(xres, yres, float64(xres), float64(yres))
	for i := 0; i < yres; i++ {
		for j := 0; j < xres; j++ {
			x := 2*float64(j)/float64(xres-1) - 1
			y := 2*float64(i)/float64(yres-1) - 1
			f.SetAt(j, i, 0.3+1.1*x-0.7*y+0.2*x*y)
		}
	}
	f.Invalidate()
	xpowers := []int{0, 1, 0, 1}
	ypowers := []int{0, 0, 1, 1}
	coeffs, err := levelling.FitPolynomial(f, nil, nil, field.Ignore, xpowers, ypowers)
	if err != nil {
		t.Fatalf("FitPolynomial: %v", err)
	}
	if err := levelling.SubtractPolynomial(f, xpowers, ypowers, coeffs); err != nil {
		t.Fatalf("SubtractPolynomial: %v", err)
	}
	for _, v := range f.Data() {
		if math.Abs(v) > 1e-8 {
			t.Fatalf("residual = %v, want ~0", v)
		}
	}
}

func TestInclinationOnTiltedPlaneMatchesFitPlane(t *testing.T) {
	f := planeField(9, 9, 0, 4, -2)
	bx, by, err := levelling.Inclination(f, nil, nil, field.Ignore, 20)
	if err != nil {
		t.Fatalf("Inclination: %v", err)
	}
	if math.Abs(bx-4) > 1e-6 || math.Abs(by-(-2)) > 1e-6 {
		t.Errorf("Inclination() = (%v,%v), want (4,-2)", bx, by)
	}
}

func TestInclinationRejectsNonPositiveDamping(t *testing.T) {
	f := planeField(4, 4, 0, 1, 1)
	if _, _, err := levelling.Inclination(f, nil, nil, field.Ignore, 0); err != levelling.ErrRankDeficient {
		t.Errorf("Inclination(damping=0) err = %v, want ErrRankDeficient", err)
	}
}

func TestFindRowShiftsMeanDiffDetectsOffsetRow(t *testing.T) {
	f := field.New(4, 3, 4, 3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 4; j++ {
			f.SetAt(j, i, 1.0)
		}
	}
	// Row 1 is uniformly offset by +2 relative to its neighbours.
	for j := 0; j < 4; j++ {
		f.SetAt(j, 1, 3.0)
	}
	f.Invalidate()
	shifts, err := levelling.FindRowShifts(f, nil, field.Ignore, levelling.RowShiftMeanDiff, 0)
	if err != nil {
		t.Fatalf("FindRowShifts: %v", err)
	}
	if shifts[0] != 0 {
		t.Errorf("shifts[0] = %v, want 0", shifts[0])
	}
	if math.Abs(shifts[1]-(-2)) > 1e-9 {
		t.Errorf("shifts[1] = %v, want -2", shifts[1])
	}
	if math.Abs(shifts[2]-2) > 1e-9 {
		t.Errorf("shifts[2] = %v, want 2", shifts[2])
	}
}

func TestFindRowShiftsMeanAbsoluteMatchesDiff(t *testing.T) {
	f := field.New(3, 4, 3, 4)
	rowVals := []float64{1, 3, 3, 6}
	for i, v := range rowVals {
		for j := 0; j < 3; j++ {
			f.SetAt(j, i, v)
		}
	}
	f.Invalidate()
	shifts, err := levelling.FindRowShifts(f, nil, field.Ignore, levelling.RowShiftMean, 0)
	if err != nil {
		t.Fatalf("FindRowShifts: %v", err)
	}
	want := []float64{0, rowVals[0] - rowVals[1], rowVals[1] - rowVals[2], rowVals[2] - rowVals[3]}
	for i, w := range want {
		if math.Abs(shifts[i]-w) > 1e-9 {
			t.Errorf("shifts[%d] = %v, want %v", i, shifts[i], w)
		}
	}
}

func TestFindRowShiftsTooFewRows(t *testing.T) {
	f := field.New(3, 1, 3, 1)
	shifts, err := levelling.FindRowShifts(f, nil, field.Ignore, levelling.RowShiftMean, 0)
	if err != nil {
		t.Fatalf("FindRowShifts: %v", err)
	}
	if len(shifts) != 1 || shifts[0] != 0 {
		t.Errorf("FindRowShifts() on single-row field = %v, want [0]", shifts)
	}
}

func TestShiftRowsAppliesAbsoluteOffsets(t *testing.T) {
	f := field.New(2, 2, 2, 2)
	f.Fill(nil, nil, field.Ignore, 5)
	if err := levelling.ShiftRows(f, []float64{1, -1}); err != nil {
		t.Fatalf("ShiftRows: %v", err)
	}
	if f.At(0, 0) != 4 || f.At(1, 0) != 4 {
		t.Errorf("row 0 = (%v,%v), want (4,4)", f.At(0, 0), f.At(1, 0))
	}
	if f.At(0, 1) != 6 || f.At(1, 1) != 6 {
		t.Errorf("row 1 = (%v,%v), want (6,6)", f.At(0, 1), f.At(1, 1))
	}
}

func TestShiftRowsRejectsWrongLength(t *testing.T) {
	f := field.New(2, 3, 2, 3)
	if err := levelling.ShiftRows(f, []float64{0, 0}); err != levelling.ErrDimensionMismatch {
		t.Errorf("ShiftRows() err = %v, want ErrDimensionMismatch", err)
	}
}

func TestFitPlaneRespectsMask(t *testing.T) {
	f := planeField(5, 5, 0, 2, 2)
	// Corrupt a region; mask it out so the fit should still recover the
	// underlying plane.
	f.SetAt(2, 2, 1000)
	m := mask.New(5, 5)
	m.Set(2, 2, true)
	a, bx, by, err := levelling.FitPlane(f, nil, m, field.Exclude)
	if err != nil {
		t.Fatalf("FitPlane: %v", err)
	}
	if math.Abs(a) > 1e-8 || math.Abs(bx-2) > 1e-8 || math.Abs(by-2) > 1e-8 {
		t.Errorf("FitPlane(Exclude) = (%v,%v,%v), want (0,2,2)", a, bx, by)
	}
}
