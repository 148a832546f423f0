package laplace_test

import (
	"math"
	"testing"

	"github.com/gwyproc/gwyfield/field"
	"github.com/gwyproc/gwyfield/laplace"
	"github.com/gwyproc/gwyfield/mask"
)

func TestSolveFillsHoleWithHarmonicAverage(t *testing.T) {
	f := field.New(5, 5, 5, 5)
	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			f.SetAt(j, i, 1.0)
		}
	}
	f.SetAt(2, 2, 100) // single masked pixel, surrounded by value 1
	m := mask.New(5, 5)
	m.Set(2, 2, true)
	f.Invalidate()

	if err := laplace.Solve(f, m, laplace.AllGrains, laplace.DefaultOptions()); err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if math.Abs(f.At(2, 2)-1.0) > 1e-6 {
		t.Errorf("At(2,2) = %v, want ~1 (harmonic average of flat surroundings)", f.At(2, 2))
	}
}

func TestSolveRecoversLinearRamp(t *testing.T) {
	xres, yres := 9, 9
	f := field.New(xres, yres, float64(xres), float64(yres))
	for i := 0; i < yres; i++ {
		for j := 0; j < xres; j++ {
			f.SetAt(j, i, float64(j)) // linear ramp, harmonic (zero laplacian)
		}
	}
	m := mask.New(xres, yres)
	m.Fill(&mask.Part{Col: 3, Row: 3, Width: 3, Height: 3}, true)
	f.Invalidate()

	if err := laplace.Solve(f, m, laplace.AllGrains, laplace.DefaultOptions()); err != nil {
		t.Fatalf("Solve: %v", err)
	}
	for i := 3; i < 6; i++ {
		for j := 3; j < 6; j++ {
			want := float64(j)
			if got := f.At(j, i); math.Abs(got-want) > 1e-4 {
				t.Errorf("At(%d,%d) = %v, want %v", j, i, got, want)
			}
		}
	}
}

func TestSolveEntireFieldMaskedClearsToZero(t *testing.T) {
	f := field.New(3, 3, 3, 3)
	f.Fill(nil, nil, field.Ignore, 7)
	m := mask.New(3, 3)
	m.Fill(nil, true)

	if err := laplace.Solve(f, m, laplace.AllGrains, laplace.DefaultOptions()); err != nil {
		t.Fatalf("Solve: %v", err)
	}
	for _, v := range f.Data() {
		if v != 0 {
			t.Errorf("Data() value = %v, want 0 on fully masked field", v)
		}
	}
}

func TestSolveRejectsDimensionMismatch(t *testing.T) {
	f := field.New(4, 4, 4, 4)
	m := mask.New(3, 3)
	if err := laplace.Solve(f, m, laplace.AllGrains, laplace.DefaultOptions()); err != laplace.ErrDimensionMismatch {
		t.Errorf("Solve() err = %v, want ErrDimensionMismatch", err)
	}
}

func TestSolveRejectsInvalidGrainID(t *testing.T) {
	f := field.New(4, 4, 4, 4)
	m := mask.New(4, 4)
	m.Set(1, 1, true)
	if err := laplace.Solve(f, m, 5, laplace.DefaultOptions()); err != laplace.ErrInvalidGrainID {
		t.Errorf("Solve() err = %v, want ErrInvalidGrainID", err)
	}
}

func TestSolveGrainZeroFillsComplement(t *testing.T) {
	xres, yres := 6, 6
	f := field.New(xres, yres, float64(xres), float64(yres))
	f.Fill(nil, nil, field.Ignore, 3)
	m := mask.New(xres, yres)
	// A single "known sample" pixel; everything else is background to fill.
	m.Set(3, 3, true)
	f.SetAt(0, 0, 999) // background value that should get overwritten
	f.Invalidate()

	if err := laplace.Solve(f, m, 0, laplace.DefaultOptions()); err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if f.At(3, 3) != 3 {
		t.Errorf("sample pixel At(3,3) = %v, want unchanged 3", f.At(3, 3))
	}
}
