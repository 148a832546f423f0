package field

import (
	"math"

	"github.com/gwyproc/gwyfield/geom"
)

// forEachMasked resolves part/mask and calls fn for every participating
// pixel's buffer index, in row-major order.
func (f *Field) forEachMasked(part *Part, mf *Mask, masking Masking, fn func(col, row, idx int)) error {
	p, err := f.resolvePart(part)
	if err != nil {
		return err
	}
	mcol, mrow, err := f.maskOrigin(mf, p)
	if err != nil {
		return err
	}
	for r := 0; r < p.Height; r++ {
		row := p.Row + r
		base := row * f.xres
		for c := 0; c < p.Width; c++ {
			col := p.Col + c
			if !f.participates(mf, mcol, mrow, masking, col, row) {
				continue
			}
			fn(col, row, base+col)
		}
	}
	return nil
}

// isFullUnmasked reports whether part covers the whole field and no
// masking restricts the operation, i.e. the cache update shortcuts apply.
func (f *Field) isFullUnmasked(part *Part, masking Masking) bool {
	if masking != Ignore {
		return false
	}
	if part == nil {
		return true
	}
	p, err := f.resolvePart(part)
	if err != nil {
		return false
	}
	return p.Col == 0 && p.Row == 0 && p.Width == f.xres && p.Height == f.yres
}

// Clear sets every participating pixel of part to zero.
func (f *Field) Clear(part *Part, mf *Mask, masking Masking) error {
	return f.Fill(part, mf, masking, 0)
}

// Fill writes a constant to every participating pixel of part.
func (f *Field) Fill(part *Part, mf *Mask, masking Masking, v float64) error {
	full := f.isFullUnmasked(part, masking)
	err := f.forEachMasked(part, mf, masking, func(_, _, idx int) {
		f.data[idx] = v
	})
	if err != nil {
		return err
	}
	if full {
		f.installFullCache(v)
	} else {
		f.cache.invalidateAll()
	}
	return nil
}

// Add adds a constant to every participating pixel of part, maintaining
// the cache per spec.md section 3.1's uniform-add rule when applied to the
// whole, unmasked field.
func (f *Field) Add(part *Part, mf *Mask, masking Masking, v float64) error {
	full := f.isFullUnmasked(part, masking)
	err := f.forEachMasked(part, mf, masking, func(_, _, idx int) {
		f.data[idx] += v
	})
	if err != nil {
		return err
	}
	if full {
		if mn, ok := f.cache.get(cacheMin); ok {
			f.cache.set(cacheMin, mn+v)
		}
		if mx, ok := f.cache.get(cacheMax); ok {
			f.cache.set(cacheMax, mx+v)
		}
		if mean, ok := f.cache.get(cacheMean); ok {
			f.cache.set(cacheMean, mean+v)
		}
		if med, ok := f.cache.get(cacheMedian); ok {
			f.cache.set(cacheMedian, med+v)
		}
		// rms is computed on residuals and is unaffected by a uniform
		// shift; meansq is the mean of the squared values and is not.
		f.cache.invalidate(cacheMeanSq)
		f.cache.invalidate(cacheSurfaceArea)
	} else {
		f.cache.invalidateAll()
	}
	return nil
}

// Multiply scales every participating pixel of part by v.
func (f *Field) Multiply(part *Part, mf *Mask, masking Masking, v float64) error {
	full := f.isFullUnmasked(part, masking)
	err := f.forEachMasked(part, mf, masking, func(_, _, idx int) {
		f.data[idx] *= v
	})
	if err != nil {
		return err
	}
	if full {
		if mn, ok := f.cache.get(cacheMin); ok {
			mx, _ := f.cache.get(cacheMax)
			nmn, nmx := mn*v, mx*v
			if v < 0 {
				nmn, nmx = nmx, nmn
			}
			f.cache.set(cacheMin, nmn)
			f.cache.set(cacheMax, nmx)
		}
		if mean, ok := f.cache.get(cacheMean); ok {
			f.cache.set(cacheMean, mean*v)
		}
		if med, ok := f.cache.get(cacheMedian); ok {
			f.cache.set(cacheMedian, med*v)
		}
		if rms, ok := f.cache.get(cacheRMS); ok {
			f.cache.set(cacheRMS, rms*math.Abs(v))
		}
		if msq, ok := f.cache.get(cacheMeanSq); ok {
			f.cache.set(cacheMeanSq, msq*v*v)
		}
		f.cache.invalidate(cacheSurfaceArea)
	} else {
		f.cache.invalidateAll()
	}
	return nil
}

// Sqrt replaces every participating pixel with its square root.
func (f *Field) Sqrt(part *Part, mf *Mask, masking Masking) error {
	err := f.forEachMasked(part, mf, masking, func(_, _, idx int) {
		f.data[idx] = math.Sqrt(f.data[idx])
	})
	if err != nil {
		return err
	}
	f.cache.invalidateAll()
	return nil
}

// ApplyFunc replaces every participating pixel with fn(value).
func (f *Field) ApplyFunc(part *Part, mf *Mask, masking Masking, fn func(float64) float64) error {
	err := f.forEachMasked(part, mf, masking, func(_, _, idx int) {
		f.data[idx] = fn(f.data[idx])
	})
	if err != nil {
		return err
	}
	f.cache.invalidateAll()
	return nil
}

// Clamp restricts every participating pixel to [lo, hi] and returns the
// number of pixels changed. Requires lo <= hi.
func (f *Field) Clamp(part *Part, mf *Mask, masking Masking, lo, hi float64) (int, error) {
	if lo > hi {
		return 0, ErrInvalidRange
	}
	full := f.isFullUnmasked(part, masking)
	changed := 0
	err := f.forEachMasked(part, mf, masking, func(_, _, idx int) {
		v := f.data[idx]
		nv := v
		if nv < lo {
			nv = lo
		}
		if nv > hi {
			nv = hi
		}
		if nv != v {
			f.data[idx] = nv
			changed++
		}
	})
	if err != nil {
		return 0, err
	}
	if full {
		clampVal := func(v float64) float64 {
			if v < lo {
				return lo
			}
			if v > hi {
				return hi
			}
			return v
		}
		if mn, ok := f.cache.get(cacheMin); ok {
			f.cache.set(cacheMin, clampVal(mn))
		}
		if mx, ok := f.cache.get(cacheMax); ok {
			f.cache.set(cacheMax, clampVal(mx))
		}
		if med, ok := f.cache.get(cacheMedian); ok {
			if med < lo || med > hi {
				f.cache.invalidate(cacheMedian)
			}
		}
		f.cache.invalidate(cacheRMS)
		f.cache.invalidate(cacheMeanSq)
		f.cache.invalidate(cacheMean)
		f.cache.invalidate(cacheSurfaceArea)
	} else {
		f.cache.invalidateAll()
	}
	return changed, nil
}

// NormalizeFlags selects which of Normalize's two transforms to apply.
type NormalizeFlags int

const (
	NormalizeMean NormalizeFlags = 1 << iota
	NormalizeRMS
	// NormalizeWholeField applies the computed transform to the entire
	// field rather than just the measurement area.
	NormalizeWholeField
)

// Normalize computes the current mean and rms of the (possibly masked)
// area, then scales by rms/currentRMS and shifts by
// mean - scale*currentMean, applying only the transforms flags selects.
// If only NormalizeRMS is set, NormalizeMean is implicitly added so the
// area's mean is preserved. Fails if the area is empty, or if a non-zero
// target rms is requested from zero-rms data.
func (f *Field) Normalize(part *Part, mf *Mask, masking Masking, mean, rms float64, flags NormalizeFlags) error {
	if flags&NormalizeRMS != 0 {
		flags |= NormalizeMean
	}
	p, err := f.resolvePart(part)
	if err != nil {
		return err
	}
	curMean, err := f.Mean(&p, mf, masking)
	if err != nil {
		return err
	}
	if math.IsNaN(curMean) {
		return ErrEmptyArea
	}
	curRMS, err := f.RMS(&p, mf, masking)
	if err != nil {
		return err
	}
	if flags&NormalizeRMS != 0 && curRMS == 0 && rms != 0 {
		return ErrZeroRMS
	}
	scale := 1.0
	if flags&NormalizeRMS != 0 && curRMS != 0 {
		scale = rms / curRMS
	}
	shift := 0.0
	if flags&NormalizeMean != 0 {
		shift = mean - scale*curMean
	}
	targetPart := &p
	if flags&NormalizeWholeField != 0 {
		targetPart = nil
	}
	if err := f.forEachMasked(targetPart, mf, masking, func(_, _, idx int) {
		f.data[idx] = f.data[idx]*scale + shift
	}); err != nil {
		return err
	}
	f.cache.invalidateAll()
	return nil
}

// AddField adds factor*src (restricted to srcPart) into dest at
// (dcol,drow), over the intersection with dest's bounds. factor=-1
// subtracts.
func (dest *Field) AddField(src *Field, srcPart *Part, dcol, drow int, factor float64) error {
	sp, err := src.resolvePart(srcPart)
	if err != nil {
		return err
	}
	dp, ok := geom.Intersect(Part{dcol, drow, sp.Width, sp.Height}, dest.FullPart())
	if !ok {
		return nil
	}
	for r := 0; r < dp.Height; r++ {
		srow, drow2 := sp.Row+dp.Row-drow+r, dp.Row+r
		for c := 0; c < dp.Width; c++ {
			scol, dcol2 := sp.Col+dp.Col-dcol+c, dp.Col+c
			dest.data[dest.index(dcol2, drow2)] += factor * src.At(scol, srow)
		}
	}
	dest.cache.invalidateAll()
	return nil
}

// HypotField sets every pixel of dest to sqrt(op1^2 + op2^2). op1 and op2
// must have dest's dimensions.
func (dest *Field) HypotField(op1, op2 *Field) error {
	if op1.xres != dest.xres || op1.yres != dest.yres || op2.xres != dest.xres || op2.yres != dest.yres {
		return ErrDimensionMismatch
	}
	for i := range dest.data {
		dest.data[i] = math.Hypot(op1.data[i], op2.data[i])
	}
	dest.cache.invalidateAll()
	return nil
}

// SculptMethod selects whether Sculpt embosses upward or downward.
type SculptMethod int

const (
	SculptUp SculptMethod = iota
	SculptDown
)

// Sculpt locally deforms dest to emboss the shape encoded by src, per
// spec.md section 4.1. In periodic mode, the overlap and the extremum m
// are computed toroidally over destination-space wrap-around.
func (dest *Field) Sculpt(src *Field, srcPart *Part, dcol, drow int, method SculptMethod, periodic bool) error {
	sp, err := src.resolvePart(srcPart)
	if err != nil {
		return err
	}
	sign := 1.0
	if method == SculptDown {
		sign = -1.0
	}
	// blocks enumerates the (destination-space) pixel pairs (dest col/row,
	// src col/row) the overlap covers, expanding toroidal wrap in
	// periodic mode into repeated blocks.
	type pair struct{ dx, dy, sx, sy int }
	var pairs []pair
	addBlock := func(dcolBase, drowBase int) {
		for r := 0; r < sp.Height; r++ {
			dy := drowBase + r
			if dy < 0 || dy >= dest.yres {
				continue
			}
			for c := 0; c < sp.Width; c++ {
				dx := dcolBase + c
				if dx < 0 || dx >= dest.xres {
					continue
				}
				pairs = append(pairs, pair{dx, dy, sp.Col + c, sp.Row + r})
			}
		}
	}
	if !periodic {
		addBlock(dcol, drow)
	} else {
		for oy := -1; oy <= 1; oy++ {
			for ox := -1; ox <= 1; ox++ {
				addBlock(dcol+ox*dest.xres, drow+oy*dest.yres)
			}
		}
	}

	extreme := math.Inf(-1)
	if method == SculptUp {
		extreme = math.Inf(1)
	}
	found := false
	for _, pr := range pairs {
		sv := src.At(pr.sx, pr.sy)
		if sign*sv <= 0 {
			continue
		}
		dv := dest.At(pr.dx, pr.dy)
		if method == SculptUp {
			if dv < extreme {
				extreme = dv
			}
		} else {
			if dv > extreme {
				extreme = dv
			}
		}
		found = true
	}
	if !found {
		return nil
	}
	for _, pr := range pairs {
		sv := src.At(pr.sx, pr.sy)
		if sign*sv <= 0 {
			continue
		}
		target := extreme + sv
		idx := dest.index(pr.dx, pr.dy)
		if method == SculptUp {
			if target > dest.data[idx] {
				dest.data[idx] = target
			}
		} else {
			if target < dest.data[idx] {
				dest.data[idx] = target
			}
		}
	}
	dest.cache.invalidateAll()
	return nil
}

// CompatFlags names the field properties a compatibility check may report
// as disagreeing, mirroring the original's GwyDataCompatibilityFlags.
type CompatFlags int

const (
	CompatXRes CompatFlags = 1 << iota
	CompatYRes
	CompatXReal
	CompatYReal
	CompatDX
	CompatDY
	CompatXUnit
	CompatYUnit
	CompatZUnit
)

const logScaleEps = 1e-6

func realMismatch(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	if a == b {
		return false
	}
	if a <= 0 || b <= 0 {
		return a != b
	}
	return math.Abs(math.Log(a/b)) > logScaleEps
}

// Compatible reports which of the properties selected by want disagree
// between f and g.
func (f *Field) Compatible(g *Field, want CompatFlags) CompatFlags {
	var bad CompatFlags
	if want&CompatXRes != 0 && f.xres != g.xres {
		bad |= CompatXRes
	}
	if want&CompatYRes != 0 && f.yres != g.yres {
		bad |= CompatYRes
	}
	if want&CompatXReal != 0 && realMismatch(f.xreal, g.xreal) {
		bad |= CompatXReal
	}
	if want&CompatYReal != 0 && realMismatch(f.yreal, g.yreal) {
		bad |= CompatYReal
	}
	if want&CompatDX != 0 && realMismatch(f.DX(), g.DX()) {
		bad |= CompatDX
	}
	if want&CompatDY != 0 && realMismatch(f.DY(), g.DY()) {
		bad |= CompatDY
	}
	if want&CompatXUnit != 0 && !f.xunit.Equal(g.xunit) {
		bad |= CompatXUnit
	}
	if want&CompatYUnit != 0 && !f.yunit.Equal(g.yunit) {
		bad |= CompatYUnit
	}
	if want&CompatZUnit != 0 && !f.zunit.Equal(g.zunit) {
		bad |= CompatZUnit
	}
	return bad
}
