package field_test

import (
	"math"
	"testing"

	"github.com/gwyproc/gwyfield/field"
	"github.com/gwyproc/gwyfield/mask"
)

func TestMinMaxEmptyArea(t *testing.T) {
	f := field.New(2, 2, 2, 2)
	m := mask.New(2, 2)
	mn, mx, err := f.MinMax(nil, m, field.Include)
	if err != nil {
		t.Fatalf("MinMax: %v", err)
	}
	if mn != math.Inf(1) || mx != math.Inf(-1) {
		t.Errorf("MinMax() on empty area = (%v,%v), want (+Inf,-Inf)", mn, mx)
	}
}

func TestMeanMedianEmptyArea(t *testing.T) {
	f := field.New(2, 2, 2, 2)
	m := mask.New(2, 2)
	mean, err := f.Mean(nil, m, field.Include)
	if err != nil {
		t.Fatalf("Mean: %v", err)
	}
	if !math.IsNaN(mean) {
		t.Errorf("Mean() on empty area = %v, want NaN", mean)
	}
	median, err := f.Median(nil, m, field.Include)
	if err != nil {
		t.Fatalf("Median: %v", err)
	}
	if !math.IsNaN(median) {
		t.Errorf("Median() on empty area = %v, want NaN", median)
	}
}

func TestRMSEmptyArea(t *testing.T) {
	f := field.New(2, 2, 2, 2)
	m := mask.New(2, 2)
	rms, err := f.RMS(nil, m, field.Include)
	if err != nil {
		t.Fatalf("RMS: %v", err)
	}
	if rms != 0 {
		t.Errorf("RMS() on empty area = %v, want 0", rms)
	}
}

func TestMeanRMSKnownValues(t *testing.T) {
	f := field.New(4, 1, 4, 1)
	vals := []float64{1, 2, 3, 4}
	for i, v := range vals {
		f.SetAt(i, 0, v)
	}
	f.Invalidate()
	mean, err := f.Mean(nil, nil, field.Ignore)
	if err != nil || mean != 2.5 {
		t.Errorf("Mean() = (%v,%v), want 2.5", mean, err)
	}
	rms, err := f.RMS(nil, nil, field.Ignore)
	if err != nil {
		t.Fatalf("RMS: %v", err)
	}
	want := math.Sqrt((1.5*1.5 + 0.5*0.5 + 0.5*0.5 + 1.5*1.5) / 4)
	if math.Abs(rms-want) > 1e-12 {
		t.Errorf("RMS() = %v, want %v", rms, want)
	}
}

func TestMedianOddEven(t *testing.T) {
	tests := []struct {
		name string
		vals []float64
		want float64
	}{
		{"odd", []float64{5, 1, 3}, 3},
		{"even", []float64{4, 1, 3, 2}, 2.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := field.New(len(tt.vals), 1, float64(len(tt.vals)), 1)
			for i, v := range tt.vals {
				f.SetAt(i, 0, v)
			}
			f.Invalidate()
			got, err := f.Median(nil, nil, field.Ignore)
			if err != nil {
				t.Fatalf("Median: %v", err)
			}
			if got != tt.want {
				t.Errorf("Median() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMeanSqDistinctFromRMS(t *testing.T) {
	f := field.New(2, 1, 2, 1)
	f.SetAt(0, 0, 1)
	f.SetAt(1, 0, 3)
	f.Invalidate()
	msq, err := f.MeanSq(nil, nil, field.Ignore)
	if err != nil {
		t.Fatalf("MeanSq: %v", err)
	}
	if msq != 5 {
		t.Errorf("MeanSq() = %v, want 5 (mean of squares, not RMS of residuals)", msq)
	}
	rms, err := f.RMS(nil, nil, field.Ignore)
	if err != nil {
		t.Fatalf("RMS: %v", err)
	}
	if rms != 1 {
		t.Errorf("RMS() = %v, want 1", rms)
	}
}

func TestStatisticsFlatFieldHasZeroMoments(t *testing.T) {
	f := flatField(3, 3, 7.0)
	st, err := f.Statistics(nil, nil, field.Ignore)
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if st.Mean != 7 {
		t.Errorf("Statistics().Mean = %v, want 7", st.Mean)
	}
	if st.Ra != 0 || st.Rq != 0 {
		t.Errorf("Statistics() Ra/Rq = (%v,%v), want (0,0)", st.Ra, st.Rq)
	}
	if !math.IsNaN(st.Skewness) || !math.IsNaN(st.Kurtosis) {
		t.Errorf("Statistics() skew/kurt on zero-variance data = (%v,%v), want NaN,NaN", st.Skewness, st.Kurtosis)
	}
}

func TestCountAboveBelowStrictVsNonStrict(t *testing.T) {
	f := field.New(3, 1, 3, 1)
	f.SetAt(0, 0, 1)
	f.SetAt(1, 0, 2)
	f.SetAt(2, 0, 3)
	f.Invalidate()

	nabove, nbelow, err := f.CountAboveBelow(nil, nil, field.Ignore, 2, 2, true)
	if err != nil {
		t.Fatalf("CountAboveBelow: %v", err)
	}
	if nabove != 1 || nbelow != 1 {
		t.Errorf("strict CountAboveBelow(2,2) = (%d,%d), want (1,1)", nabove, nbelow)
	}

	nabove, nbelow, err = f.CountAboveBelow(nil, nil, field.Ignore, 2, 2, false)
	if err != nil {
		t.Fatalf("CountAboveBelow: %v", err)
	}
	if nabove != 2 || nbelow != 2 {
		t.Errorf("non-strict CountAboveBelow(2,2) = (%d,%d), want (2,2)", nabove, nbelow)
	}
}

func TestEntropySingleValuedIsInfinite(t *testing.T) {
	f := flatField(4, 4, 1.0)
	s, err := f.Entropy(nil, nil, field.Ignore)
	if err != nil {
		t.Fatalf("Entropy: %v", err)
	}
	if !math.IsInf(s, 1) {
		t.Errorf("Entropy() of flat field = %v, want +Inf", s)
	}
}

func TestEntropyEmptyIsNaN(t *testing.T) {
	f := field.New(2, 2, 2, 2)
	m := mask.New(2, 2)
	s, err := f.Entropy(nil, m, field.Include)
	if err != nil {
		t.Fatalf("Entropy: %v", err)
	}
	if !math.IsNaN(s) {
		t.Errorf("Entropy() of empty area = %v, want NaN", s)
	}
}

func TestSurfaceAreaFlatFieldEqualsPhysicalArea(t *testing.T) {
	f := flatField(8, 8, 2.5)
	area, err := f.SurfaceArea(nil, nil, field.Ignore)
	if err != nil {
		t.Fatalf("SurfaceArea: %v", err)
	}
	want := f.XReal() * f.YReal()
	if math.Abs(area-want) > 1e-9 {
		t.Errorf("SurfaceArea() of flat field = %v, want %v (physical area)", area, want)
	}
}

func TestSurfaceAreaCachesOnFullField(t *testing.T) {
	f := flatField(4, 4, 1.0)
	a1, err := f.SurfaceArea(nil, nil, field.Ignore)
	if err != nil {
		t.Fatalf("SurfaceArea: %v", err)
	}
	a2, err := f.SurfaceArea(nil, nil, field.Ignore)
	if err != nil {
		t.Fatalf("SurfaceArea: %v", err)
	}
	if a1 != a2 {
		t.Errorf("SurfaceArea() not stable across cached calls: %v vs %v", a1, a2)
	}
}

func TestVolumeFlatFieldYieldsHeightTimesArea(t *testing.T) {
	f := flatField(6, 6, 3.0)
	for _, method := range []field.VolumeMethod{
		field.VolumeDefault, field.VolumeGwyddion2, field.VolumeTriangular, field.VolumeBilinear, field.VolumeBiquadratic,
	} {
		v, err := f.Volume(nil, nil, field.Ignore, method)
		if err != nil {
			t.Fatalf("Volume(%v): %v", method, err)
		}
		want := 3.0 * f.XReal() * f.YReal()
		if math.Abs(v-want) > 1e-6 {
			t.Errorf("Volume(method=%v) of flat field = %v, want %v", method, v, want)
		}
	}
}

func TestMaterialVolumeAboveBaseOnFlatField(t *testing.T) {
	f := flatField(4, 4, 5.0)
	v, err := f.MaterialVolume(nil, nil, field.Ignore, true, 2.0)
	if err != nil {
		t.Fatalf("MaterialVolume: %v", err)
	}
	want := (5.0 - 2.0) * f.XReal() * f.YReal()
	if math.Abs(v-want) > 1e-6 {
		t.Errorf("MaterialVolume(material=true, base=2) of flat field at z=5 = %v, want %v", v, want)
	}
}

func TestMaterialVolumeBelowBaseIsZeroWhenSurfaceAboveBase(t *testing.T) {
	f := flatField(4, 4, 5.0)
	v, err := f.MaterialVolume(nil, nil, field.Ignore, false, 2.0)
	if err != nil {
		t.Fatalf("MaterialVolume: %v", err)
	}
	if math.Abs(v) > 1e-9 {
		t.Errorf("MaterialVolume(material=false, base=2) of flat field at z=5 = %v, want 0", v)
	}
}
