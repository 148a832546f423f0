package mask_test

import (
	"testing"

	"github.com/gwyproc/gwyfield/mask"
)

func TestNewAllClear(t *testing.T) {
	m := mask.New(40, 3)
	if m.XRes() != 40 || m.YRes() != 3 {
		t.Fatalf("dims = (%d,%d), want (40,3)", m.XRes(), m.YRes())
	}
	if m.Stride() != 2 {
		t.Errorf("Stride() = %d, want 2", m.Stride())
	}
	for r := 0; r < 3; r++ {
		for c := 0; c < 40; c++ {
			if m.Get(c, r) {
				t.Fatalf("Get(%d,%d) = true, want false on fresh mask", c, r)
			}
		}
	}
}

func TestSetGetAcrossWordBoundary(t *testing.T) {
	m := mask.New(40, 2)
	tests := []struct{ col, row int }{
		{0, 0}, {31, 0}, {32, 0}, {39, 0}, {15, 1},
	}
	for _, tt := range tests {
		m.Set(tt.col, tt.row, true)
		if !m.Get(tt.col, tt.row) {
			t.Errorf("Get(%d,%d) = false after Set(true)", tt.col, tt.row)
		}
	}
	// Bits not set must remain clear.
	if m.Get(1, 0) {
		t.Errorf("Get(1,0) = true, want false")
	}
}

func TestClone(t *testing.T) {
	m := mask.New(8, 8)
	m.Set(3, 3, true)
	c := m.Clone()
	c.Set(4, 4, true)
	if m.Get(4, 4) {
		t.Errorf("mutating clone affected original")
	}
	if !c.Get(3, 3) {
		t.Errorf("Clone() lost data")
	}
}

func TestFillAndClear(t *testing.T) {
	m := mask.New(10, 10)
	if err := m.Fill(nil, true); err != nil {
		t.Fatalf("Fill: %v", err)
	}
	for r := 0; r < 10; r++ {
		for c := 0; c < 10; c++ {
			if !m.Get(c, r) {
				t.Fatalf("Get(%d,%d) = false after Fill(true)", c, r)
			}
		}
	}
	m.Clear()
	for r := 0; r < 10; r++ {
		for c := 0; c < 10; c++ {
			if m.Get(c, r) {
				t.Fatalf("Get(%d,%d) = true after Clear()", c, r)
			}
		}
	}
}

func TestFillPart(t *testing.T) {
	m := mask.New(10, 10)
	p := mask.Part{Col: 2, Row: 2, Width: 3, Height: 3}
	if err := m.Fill(&p, true); err != nil {
		t.Fatalf("Fill: %v", err)
	}
	for r := 0; r < 10; r++ {
		for c := 0; c < 10; c++ {
			want := c >= 2 && c < 5 && r >= 2 && r < 5
			if m.Get(c, r) != want {
				t.Errorf("Get(%d,%d) = %v, want %v", c, r, m.Get(c, r), want)
			}
		}
	}
}

func TestCopyUnalignedOffsets(t *testing.T) {
	src := mask.New(16, 2)
	for c := 0; c < 16; c++ {
		src.Set(c, 0, c%2 == 0)
	}
	dest := mask.New(16, 2)
	if err := dest.Copy(src, &mask.Part{Col: 0, Row: 0, Width: 16, Height: 1}, 3, 0); err != nil {
		t.Fatalf("Copy: %v", err)
	}
	for c := 0; c < 13; c++ {
		want := c%2 == 0
		if dest.Get(c+3, 0) != want {
			t.Errorf("Get(%d,0) = %v, want %v", c+3, dest.Get(c+3, 0), want)
		}
	}
}

func TestLogicalAnd(t *testing.T) {
	a := mask.New(8, 1)
	b := mask.New(8, 1)
	a.Fill(&mask.Part{Col: 0, Row: 0, Width: 4, Height: 1}, true)
	b.Fill(&mask.Part{Col: 2, Row: 0, Width: 4, Height: 1}, true)
	if err := a.Logical(nil, b, nil, mask.OpAnd); err != nil {
		t.Fatalf("Logical: %v", err)
	}
	for c := 0; c < 8; c++ {
		want := c == 2 || c == 3
		if a.Get(c, 0) != want {
			t.Errorf("Get(%d,0) = %v, want %v", c, a.Get(c, 0), want)
		}
	}
}

func TestLogicalDegenerateOps(t *testing.T) {
	a := mask.New(4, 1)
	a.Set(0, 0, true)
	if err := a.Logical(nil, nil, nil, mask.OpZero); err != nil {
		t.Fatalf("Logical(OpZero): %v", err)
	}
	if a.Get(0, 0) {
		t.Errorf("OpZero did not clear all bits")
	}
	if err := a.Logical(nil, nil, nil, mask.OpOne); err != nil {
		t.Fatalf("Logical(OpOne): %v", err)
	}
	for c := 0; c < 4; c++ {
		if !a.Get(c, 0) {
			t.Errorf("OpOne did not set bit %d", c)
		}
	}
}

func TestShrinkFromBorders(t *testing.T) {
	m := mask.New(3, 3)
	if err := m.Fill(nil, true); err != nil {
		t.Fatalf("Fill: %v", err)
	}
	m.Shrink(true)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			want := c == 1 && r == 1
			if m.Get(c, r) != want {
				t.Errorf("Get(%d,%d) = %v, want %v", c, r, m.Get(c, r), want)
			}
		}
	}
}

func TestGrowBasic(t *testing.T) {
	m := mask.New(3, 3)
	m.Set(1, 1, true)
	m.Grow(false)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			want := (c == 1 && r == 1) || (c == 1 && (r == 0 || r == 2)) || (r == 1 && (c == 0 || c == 2))
			if m.Get(c, r) != want {
				t.Errorf("Get(%d,%d) = %v, want %v", c, r, m.Get(c, r), want)
			}
		}
	}
}

func TestCountAndCountRows(t *testing.T) {
	m := mask.New(5, 2)
	m.Fill(&mask.Part{Col: 0, Row: 0, Width: 3, Height: 1}, true)
	m.Fill(&mask.Part{Col: 0, Row: 1, Width: 1, Height: 1}, true)
	n, err := m.Count(nil, nil, mask.Ignore)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 4 {
		t.Errorf("Count() = %d, want 4", n)
	}
	rows, total, err := m.CountRows(nil)
	if err != nil {
		t.Fatalf("CountRows: %v", err)
	}
	if total != 4 {
		t.Errorf("CountRows() total = %d, want 4", total)
	}
	if rows[0] != 3 || rows[1] != 1 {
		t.Errorf("CountRows() rows = %v, want [3,1]", rows)
	}
}

func TestPartCountMasking(t *testing.T) {
	m := mask.New(4, 4)
	m.Fill(&mask.Part{Col: 0, Row: 0, Width: 2, Height: 4}, true)
	full := mask.Part{Col: 0, Row: 0, Width: 4, Height: 4}
	if got := mask.PartCountMasking(m, full, mask.Ignore); got != 16 {
		t.Errorf("PartCountMasking(Ignore) = %d, want 16", got)
	}
	if got := mask.PartCountMasking(m, full, mask.Include); got != 8 {
		t.Errorf("PartCountMasking(Include) = %d, want 8", got)
	}
	if got := mask.PartCountMasking(m, full, mask.Exclude); got != 8 {
		t.Errorf("PartCountMasking(Exclude) = %d, want 8", got)
	}
}
