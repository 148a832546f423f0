package grainvalue

import (
	"math"
	"sort"

	"github.com/gwyproc/gwyfield/field"
	"github.com/gwyproc/gwyfield/laplace"
	"github.com/gwyproc/gwyfield/mask"
	"github.com/gwyproc/gwyfield/unit"
)

// Grain is one labelled region's computed values, keyed by Tag.
type Grain struct {
	ID     int
	Values map[Tag]float64
}

// Unit derives the physical unit of a built-in grain value from the
// field's axis units, per grain-value.c's unit-power table.
func Unit(tag Tag, f *field.Field) (unit.Descriptor, error) {
	d, ok := catalogue[tag]
	if !ok {
		return nil, ErrUnknownTag
	}
	if d.isAngle {
		return unit.Dimensionless(), nil
	}
	step1 := f.XUnit().PowerMultiply(f.YUnit(), d.px, d.py)
	return step1.PowerMultiply(f.ZUnit(), 1, d.pz), nil
}

// Compute evaluates tags (or every built-in tag, if tags is empty) for
// every grain of mf against f. This scans each grain's pixels once for
// the shared sums (Stage A) and then derives every requested tag from
// them (Stage B), mirroring grain-value.c's two-stage pipeline; unlike
// the original's "need" dependency bitfield, this port simply gates the
// handful of expensive derivations (hull, curvature, semi-axes, the
// Laplace-filled volume) behind whether a dependent tag was requested.
func Compute(f *field.Field, mf *field.Mask, tags []Tag) ([]Grain, error) {
	if mf.XRes() != f.XRes() || mf.YRes() != f.YRes() {
		return nil, ErrDimensionMismatch
	}
	if mf.NGrains() == 0 {
		return nil, ErrNoGrains
	}
	if len(tags) == 0 {
		tags = AllTags()
	}
	want := make(map[Tag]bool, len(tags))
	for _, t := range tags {
		if _, ok := catalogue[t]; !ok {
			return nil, ErrUnknownTag
		}
		want[t] = true
	}

	stageA, err := computeIntermediates(f, mf)
	if err != nil {
		return nil, err
	}
	labels := mf.Labels()
	dx, dy := f.DX(), f.DY()
	dims := fieldDims{xres: f.XRes(), yres: f.YRes(), dx: dx, dy: dy}

	wantsHull := want[ConvexHullArea] || want[CircumcircleR] || want[CircumcircleX] || want[CircumcircleY] ||
		want[MinBoundSize] || want[MinBoundAngle] || want[MaxBoundSize] || want[MaxBoundAngle] || want[MeanRadius]
	wantsCurvature := want[CurvatureXC] || want[CurvatureYC] || want[CurvatureZC] ||
		want[CurvatureK1] || want[CurvatureK2] || want[CurvaturePhi1] || want[CurvaturePhi2]
	wantsAxes := want[SemiMajorAxis] || want[SemiMinorAxis] || want[SemiAxisAngle]
	wantsSlope := want[SlopeTheta] || want[SlopePhi]
	wantsInscribed := want[InscribedDiscR] || want[InscribedDiscX] || want[InscribedDiscY]
	wantsVolume := want[Volume0] || want[VolumeMin] || want[VolumeLaplace]

	out := make([]Grain, 0, len(stageA)-1)
	for id := 1; id < len(stageA); id++ {
		g := &stageA[id]
		v := make(map[Tag]float64, len(tags))
		n := float64(g.size)
		area := n * dx * dy
		cx, cy := g.sumX/n, g.sumY/n

		if want[CenterX] {
			v[CenterX] = cx + f.XOff()
		}
		if want[CenterY] {
			v[CenterY] = cy + f.YOff()
		}
		if want[ProjectedArea] {
			v[ProjectedArea] = area
		}
		if want[EquivDiscRadius] {
			v[EquivDiscRadius] = math.Sqrt(area / math.Pi)
		}
		if want[Minimum] {
			v[Minimum] = g.min
		}
		if want[Maximum] {
			v[Maximum] = g.max
		}
		if want[Mean] {
			v[Mean] = g.sumZ / n
		}
		if want[Median] {
			v[Median] = median(append([]float64(nil), g.values...))
		}
		if want[RMSIntra] || want[SkewIntra] || want[KurtosisIntra] {
			mean := g.sumZ / n
			variance := g.sumZ2/n - mean*mean
			if variance < 0 {
				variance = 0
			}
			sd := math.Sqrt(variance)
			if want[RMSIntra] {
				v[RMSIntra] = sd
			}
			if want[SkewIntra] {
				if sd > 0 {
					m3 := g.sumZ3/n - 3*mean*g.sumZ2/n + 2*mean*mean*mean
					v[SkewIntra] = m3 / (sd * sd * sd)
				}
			}
			if want[KurtosisIntra] {
				if sd > 0 {
					m4 := g.sumZ4/n - 4*mean*g.sumZ3/n + 6*mean*mean*g.sumZ2/n - 3*mean*mean*mean*mean
					v[KurtosisIntra] = m4/(variance*variance) - 3
				}
			}
		}
		if want[BoundaryMin] {
			v[BoundaryMin] = g.boundaryMin
		}
		if want[BoundaryMax] {
			v[BoundaryMax] = g.boundaryMax
		}
		if want[FlatBoundaryLength] {
			v[FlatBoundaryLength] = g.perimeter
		}
		if want[HalfHeightArea] {
			v[HalfHeightArea] = float64(g.halfHeightCount) * dx * dy
		}
		if want[SurfaceArea] {
			part := field.Part(g.box)
			extracted, _ := mf.ExtractGrain(id, 0)
			sa, err := f.SurfaceArea(&part, extracted, field.Include)
			if err == nil {
				v[SurfaceArea] = sa
			}
		}

		if wantsHull {
			area := hullAreaReal(g.hull, dx, dy)
			if want[ConvexHullArea] {
				v[ConvexHullArea] = area
			}
			if want[CircumcircleR] || want[CircumcircleX] || want[CircumcircleY] {
				ccx, ccy, r := circumcircle(g.hull, dx, dy)
				v[CircumcircleR] = r
				v[CircumcircleX] = ccx
				v[CircumcircleY] = ccy
			}
			if want[MinBoundSize] || want[MinBoundAngle] || want[MaxBoundSize] || want[MaxBoundAngle] {
				minSize, minAngle, maxSize, maxAngle := boundSizes(g.hull, dx, dy)
				v[MinBoundSize] = minSize
				v[MinBoundAngle] = minAngle
				v[MaxBoundSize] = maxSize
				v[MaxBoundAngle] = maxAngle
			}
			if want[MeanRadius] {
				v[MeanRadius] = meanRadius(g.hull, cx, cy, dx, dy)
			}
		}

		if wantsInscribed {
			r, x, y := inscribedDisc(g, dims)
			v[InscribedDiscR] = r
			v[InscribedDiscX] = x
			v[InscribedDiscY] = y
		}
		if want[MeanEdgeDistance] || want[ShapeNumber] {
			med := meanEdgeDistance(g, dims)
			if want[MeanEdgeDistance] {
				v[MeanEdgeDistance] = med
			}
			if want[ShapeNumber] && med > 0 {
				v[ShapeNumber] = area / (9 * math.Pi * med * med)
			}
		}

		if wantsVolume {
			part := field.Part(g.box)
			extracted, _ := mf.ExtractGrain(id, 0)
			vol0, err := f.Volume(&part, extracted, field.Include, field.VolumeBiquadratic)
			if err == nil {
				v[Volume0] = vol0
				if want[VolumeMin] {
					v[VolumeMin] = vol0 - n*dx*dy*g.min
				}
				if want[VolumeLaplace] {
					v[VolumeLaplace] = volumeLaplace(f, mf, labels, id, g, vol0)
				}
			}
		}

		if wantsSlope {
			if _, bx, by, ok := localPlaneFit(g); ok {
				v[SlopeTheta] = math.Atan(math.Hypot(bx, by))
				v[SlopePhi] = math.Atan2(by, -bx)
			}
		}

		if wantsCurvature {
			if xc, yc, zc, k1, k2, phi1, phi2, ok := curvatureFit(f, labels, g); ok {
				v[CurvatureXC] = xc
				v[CurvatureYC] = yc
				v[CurvatureZC] = zc
				v[CurvatureK1] = k1
				v[CurvatureK2] = k2
				v[CurvaturePhi1] = phi1
				v[CurvaturePhi2] = phi2
			}
		}

		if wantsAxes {
			major, minor, angle := semiAxes(g, area)
			v[SemiMajorAxis] = major
			v[SemiMinorAxis] = minor
			v[SemiAxisAngle] = angle
		}

		out = append(out, Grain{ID: id, Values: v})
	}
	return out, nil
}

// volumeLaplace compares a grain's actual volume to the volume it would
// have if its own interior were replaced by the Laplace-interpolated
// surface spanned by its boundary, per grain-value-builtin.c's
// "laplace background" volume estimate.
func volumeLaplace(f *field.Field, mf *field.Mask, labels []int, id int, g *intermediates, actual float64) float64 {
	scratch := mask.New(f.XRes(), f.YRes())
	for row := g.box.Row; row < g.box.Row+g.box.Height; row++ {
		for col := g.box.Col; col < g.box.Col+g.box.Width; col++ {
			if labels[row*f.XRes()+col] == id {
				scratch.Set(col, row, true)
			}
		}
	}
	clone := f.Clone()
	if err := laplace.Solve(clone, scratch, laplace.AllGrains, laplace.DefaultOptions()); err != nil {
		return 0
	}
	part := field.Part(g.box)
	extracted, _ := mf.ExtractGrain(id, 0)
	filled, err := clone.Volume(&part, extracted, field.Include, field.VolumeBiquadratic)
	if err != nil {
		return 0
	}
	return actual - filled
}

func median(vals []float64) float64 {
	sort.Float64s(vals)
	n := len(vals)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return vals[n/2]
	}
	return (vals[n/2-1] + vals[n/2]) / 2
}
