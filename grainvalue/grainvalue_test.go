package grainvalue_test

import (
	"math"
	"testing"

	"github.com/gwyproc/gwyfield/field"
	"github.com/gwyproc/gwyfield/grainvalue"
	"github.com/gwyproc/gwyfield/mask"
	"github.com/gwyproc/gwyfield/unit"
)

// squareGrain builds a 10x10 field of constant height 1, with a 4x4 block
// of height 5 at (3,3), masked as a single grain.
func squareGrain(t *testing.T) (*field.Field, *mask.MaskField) {
	t.Helper()
	xres, yres := 10, 10
	f := field.New(xres, yres, float64(xres), float64(yres))
	for r := 0; r < yres; r++ {
		for c := 0; c < xres; c++ {
			f.SetAt(c, r, 1)
		}
	}
	for r := 3; r < 7; r++ {
		for c := 3; c < 7; c++ {
			f.SetAt(c, r, 5)
		}
	}
	m := mask.New(xres, yres)
	if err := m.Fill(&mask.Part{Col: 3, Row: 3, Width: 4, Height: 4}, true); err != nil {
		t.Fatalf("Fill: %v", err)
	}
	return f, m
}

func TestComputeCenterAndArea(t *testing.T) {
	f, m := squareGrain(t)
	grains, err := grainvalue.Compute(f, m, []grainvalue.Tag{
		grainvalue.CenterX, grainvalue.CenterY, grainvalue.ProjectedArea, grainvalue.EquivDiscRadius,
	})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if len(grains) != 1 {
		t.Fatalf("len(grains) = %d, want 1", len(grains))
	}
	g := grains[0]
	if got := g.Values[grainvalue.CenterX]; math.Abs(got-5) > 1e-9 {
		t.Errorf("center_x = %v, want 5", got)
	}
	if got := g.Values[grainvalue.CenterY]; math.Abs(got-5) > 1e-9 {
		t.Errorf("center_y = %v, want 5", got)
	}
	if got := g.Values[grainvalue.ProjectedArea]; math.Abs(got-16) > 1e-9 {
		t.Errorf("projected_area = %v, want 16", got)
	}
	wantR := math.Sqrt(16 / math.Pi)
	if got := g.Values[grainvalue.EquivDiscRadius]; math.Abs(got-wantR) > 1e-9 {
		t.Errorf("equiv_disc_radius = %v, want %v", got, wantR)
	}
}

func TestComputeStatistics(t *testing.T) {
	f, m := squareGrain(t)
	grains, err := grainvalue.Compute(f, m, []grainvalue.Tag{
		grainvalue.Minimum, grainvalue.Maximum, grainvalue.Mean, grainvalue.Median,
	})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	g := grains[0]
	if g.Values[grainvalue.Minimum] != 5 {
		t.Errorf("minimum = %v, want 5", g.Values[grainvalue.Minimum])
	}
	if g.Values[grainvalue.Maximum] != 5 {
		t.Errorf("maximum = %v, want 5", g.Values[grainvalue.Maximum])
	}
	if g.Values[grainvalue.Mean] != 5 {
		t.Errorf("mean = %v, want 5", g.Values[grainvalue.Mean])
	}
	if g.Values[grainvalue.Median] != 5 {
		t.Errorf("median = %v, want 5", g.Values[grainvalue.Median])
	}
}

func TestComputeConvexHullAreaMatchesRectangle(t *testing.T) {
	f, m := squareGrain(t)
	grains, err := grainvalue.Compute(f, m, []grainvalue.Tag{grainvalue.ConvexHullArea, grainvalue.MaxBoundSize})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	g := grains[0]
	if got := g.Values[grainvalue.ConvexHullArea]; math.Abs(got-16) > 1e-9 {
		t.Errorf("convex_hull_area = %v, want 16 (exact for an axis-aligned rectangle)", got)
	}
	wantDiag := math.Sqrt(2 * 4 * 4)
	if got := g.Values[grainvalue.MaxBoundSize]; math.Abs(got-wantDiag) > 1e-9 {
		t.Errorf("max_bound_size = %v, want %v (rectangle diagonal)", got, wantDiag)
	}
}

func TestComputeSemiAxesOfSquareAreCloseToEqual(t *testing.T) {
	f, m := squareGrain(t)
	grains, err := grainvalue.Compute(f, m, []grainvalue.Tag{grainvalue.SemiMajorAxis, grainvalue.SemiMinorAxis})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	g := grains[0]
	major, minor := g.Values[grainvalue.SemiMajorAxis], g.Values[grainvalue.SemiMinorAxis]
	if math.Abs(major-minor) > 1e-6 {
		t.Errorf("square grain: semimajor=%v semiminor=%v, want near-equal", major, minor)
	}
	if got, want := math.Pi*major*minor, 16.0; math.Abs(got-want) > 1e-6 {
		t.Errorf("equivalent ellipse area = %v, want %v", got, want)
	}
}

func TestComputeFlatGrainHasZeroSlopeAndCurvature(t *testing.T) {
	f, m := squareGrain(t)
	grains, err := grainvalue.Compute(f, m, []grainvalue.Tag{
		grainvalue.SlopeTheta, grainvalue.CurvatureK1, grainvalue.CurvatureK2,
	})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	g := grains[0]
	if got := g.Values[grainvalue.SlopeTheta]; math.Abs(got) > 1e-9 {
		t.Errorf("slope_theta = %v, want 0 on a flat grain", got)
	}
	if got := g.Values[grainvalue.CurvatureK1]; math.Abs(got) > 1e-9 {
		t.Errorf("curvature_k1 = %v, want 0 on a flat grain", got)
	}
	if got := g.Values[grainvalue.CurvatureK2]; math.Abs(got) > 1e-9 {
		t.Errorf("curvature_k2 = %v, want 0 on a flat grain", got)
	}
}

func TestComputeVolume0MatchesPlateau(t *testing.T) {
	// The quadrature formula mixes in neighbouring pixels at the part
	// boundary even where their mask weight is zero, so a clean check
	// against N*height needs the whole field (not just the grain) to
	// share that height: a uniform field's volume quadrature is exact
	// for any quarter-weighting pattern.
	xres, yres := 10, 10
	f := field.New(xres, yres, float64(xres), float64(yres))
	f.Fill(nil, nil, field.Ignore, 5)
	m := mask.New(xres, yres)
	if err := m.Fill(&mask.Part{Col: 3, Row: 3, Width: 4, Height: 4}, true); err != nil {
		t.Fatalf("Fill: %v", err)
	}
	grains, err := grainvalue.Compute(f, m, []grainvalue.Tag{grainvalue.Volume0})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if got, want := grains[0].Values[grainvalue.Volume0], 80.0; math.Abs(got-want) > 1e-6 {
		t.Errorf("volume_0 = %v, want %v (16 px * height 5)", got, want)
	}
}

func TestComputeRejectsUnknownTag(t *testing.T) {
	f, m := squareGrain(t)
	if _, err := grainvalue.Compute(f, m, []grainvalue.Tag{"not_a_real_tag"}); err != grainvalue.ErrUnknownTag {
		t.Errorf("Compute() err = %v, want ErrUnknownTag", err)
	}
}

func TestComputeRejectsDimensionMismatch(t *testing.T) {
	f := field.New(10, 10, 10, 10)
	m := mask.New(4, 4)
	if _, err := grainvalue.Compute(f, m, nil); err != grainvalue.ErrDimensionMismatch {
		t.Errorf("Compute() err = %v, want ErrDimensionMismatch", err)
	}
}

func TestComputeRejectsEmptyMask(t *testing.T) {
	f := field.New(4, 4, 4, 4)
	m := mask.New(4, 4)
	if _, err := grainvalue.Compute(f, m, nil); err != grainvalue.ErrNoGrains {
		t.Errorf("Compute() err = %v, want ErrNoGrains", err)
	}
}

func TestUnitDerivesPowersFromFieldAxes(t *testing.T) {
	f := field.New(4, 4, 4, 4)
	f.SetUnits(unit.New("m"), unit.New("m"), unit.New("nm"))

	areaUnit, err := grainvalue.Unit(grainvalue.ProjectedArea, f)
	if err != nil {
		t.Fatalf("Unit: %v", err)
	}
	wantArea := unit.New("m").PowerMultiply(unit.New("m"), 1, 1)
	if !areaUnit.Equal(wantArea) {
		t.Errorf("Unit(projected_area) = %v, want %v", areaUnit, wantArea)
	}

	volUnit, err := grainvalue.Unit(grainvalue.Volume0, f)
	if err != nil {
		t.Fatalf("Unit: %v", err)
	}
	wantVol := unit.New("m").PowerMultiply(unit.New("m"), 1, 1).PowerMultiply(unit.New("nm"), 1, 1)
	if !volUnit.Equal(wantVol) {
		t.Errorf("Unit(volume_0) = %v, want %v", volUnit, wantVol)
	}

	angleUnit, err := grainvalue.Unit(grainvalue.SlopeTheta, f)
	if err != nil {
		t.Fatalf("Unit: %v", err)
	}
	if angleUnit.String() != "" {
		t.Errorf("Unit(slope_theta).String() = %q, want empty (angles are dimensionless)", angleUnit.String())
	}
}

// scaleEvaluator multiplies its single input identifier by a constant
// factor, enough to exercise EvaluateUser's wiring without depending on a
// real expression-compiler implementation.
type scaleEvaluator struct{ factor float64 }

func (s scaleEvaluator) Compile(formula string, idents []string) (grainvalue.Evaluator, error) {
	return scaler{s.factor}, nil
}

type scaler struct{ factor float64 }

func (s scaler) Eval(n int, in [][]float64, out []float64) {
	for i := 0; i < n; i++ {
		out[i] = in[0][i] * s.factor
	}
}

func TestEvaluateUserAppliesFormulaAndChains(t *testing.T) {
	f, m := squareGrain(t)
	grains, err := grainvalue.Compute(f, m, []grainvalue.Tag{grainvalue.ProjectedArea})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	err = grainvalue.EvaluateUser(scaleEvaluator{factor: 2}, grains, []grainvalue.UserValue{
		{Name: "double_area", Formula: "projected_area*2", Idents: []string{"projected_area"}},
		{Name: "quad_area", Formula: "double_area*2", Idents: []string{"double_area"}},
	})
	if err != nil {
		t.Fatalf("EvaluateUser: %v", err)
	}
	if got := grains[0].Values["double_area"]; math.Abs(got-32) > 1e-9 {
		t.Errorf("double_area = %v, want 32", got)
	}
	if got := grains[0].Values["quad_area"]; math.Abs(got-64) > 1e-9 {
		t.Errorf("quad_area = %v, want 64", got)
	}
}

func TestComputeInscribedDiscOfRectangleIsClosedForm(t *testing.T) {
	f, m := squareGrain(t)
	grains, err := grainvalue.Compute(f, m, []grainvalue.Tag{
		grainvalue.InscribedDiscR, grainvalue.InscribedDiscX, grainvalue.InscribedDiscY,
	})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	g := grains[0]
	wantR := 0.999999 * 2
	if got := g.Values[grainvalue.InscribedDiscR]; math.Abs(got-wantR) > 1e-9 {
		t.Errorf("inscribed_disc_r = %v, want %v (exact for a 4x4 square)", got, wantR)
	}
	if got := g.Values[grainvalue.InscribedDiscX]; math.Abs(got-5) > 1e-9 {
		t.Errorf("inscribed_disc_x = %v, want 5", got)
	}
	if got := g.Values[grainvalue.InscribedDiscY]; math.Abs(got-5) > 1e-9 {
		t.Errorf("inscribed_disc_y = %v, want 5", got)
	}
}

// lShapedGrain builds a 6x6 field whose mask is an L: a 6x2 horizontal arm
// and a 2x6 vertical arm sharing a 2x2 corner, both arms exactly two
// pixels wide. It's concave, so its bounding box (6x6, area 36) isn't the
// grain itself (area 20), ruling out the rectangle shortcut and exercising
// the 12-direction refinement against a boundary that bends.
func lShapedGrain(t *testing.T) (*field.Field, *mask.MaskField) {
	t.Helper()
	xres, yres := 6, 6
	f := field.New(xres, yres, float64(xres), float64(yres))
	m := mask.New(xres, yres)
	if err := m.Fill(&mask.Part{Col: 0, Row: 0, Width: 6, Height: 2}, true); err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if err := m.Fill(&mask.Part{Col: 0, Row: 0, Width: 2, Height: 6}, true); err != nil {
		t.Fatalf("Fill: %v", err)
	}
	return f, m
}

func TestComputeInscribedDiscOfConcaveLShapeFitsTheArmWidth(t *testing.T) {
	f, m := lShapedGrain(t)
	grains, err := grainvalue.Compute(f, m, []grainvalue.Tag{
		grainvalue.InscribedDiscR, grainvalue.InscribedDiscX, grainvalue.InscribedDiscY,
	})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	g := grains[0]
	r := g.Values[grainvalue.InscribedDiscR]
	if r <= 0.9 || r >= 1.05 {
		t.Errorf("inscribed_disc_r = %v, want close to 1 (half the 2-pixel arm width)", r)
	}
	x, y := g.Values[grainvalue.InscribedDiscX], g.Values[grainvalue.InscribedDiscY]
	if x < 0 || x > 6 || y < 0 || y > 6 {
		t.Errorf("inscribed disc centre (%v, %v) falls outside the field", x, y)
	}
}

func TestAllTagsMatchesCatalogueCoverage(t *testing.T) {
	tags := grainvalue.AllTags()
	if len(tags) < 40 {
		t.Errorf("AllTags() returned %d tags, want >= 40", len(tags))
	}
	seen := make(map[grainvalue.Tag]bool)
	for _, tag := range tags {
		if seen[tag] {
			t.Errorf("duplicate tag %q in AllTags()", tag)
		}
		seen[tag] = true
	}
}
