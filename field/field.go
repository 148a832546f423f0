// Package field implements a dense 2-D scalar field: a row-major array of
// float64 samples with lateral scale, origin offsets, unit descriptors and
// a validity-tracked cache of scalar summaries (min, max, mean, rms, meansq,
// median, surface area).
package field

import (
	"github.com/gwyproc/gwyfield/unit"
)

// cacheItem names a cacheable scalar summary.
type cacheItem int

const (
	cacheMin cacheItem = iota
	cacheMax
	cacheMean
	cacheRMS
	cacheMeanSq
	cacheMedian
	cacheSurfaceArea
	cacheItemCount
)

// cache holds at most one value per cacheItem, each with an independent
// validity bit. It must only be mutated through the helper methods so that
// every write site is forced to reason about which slots it invalidates.
type cache struct {
	valid  [cacheItemCount]bool
	values [cacheItemCount]float64
}

func (c *cache) get(item cacheItem) (float64, bool) {
	return c.values[item], c.valid[item]
}

func (c *cache) set(item cacheItem, v float64) {
	c.values[item] = v
	c.valid[item] = true
}

func (c *cache) invalidate(item cacheItem) {
	c.valid[item] = false
}

func (c *cache) invalidateAll() {
	c.valid = [cacheItemCount]bool{}
}

// Field is a dense xres*yres array of float64 samples in row-major order.
type Field struct {
	xres, yres   int
	xreal, yreal float64
	xoff, yoff   float64
	xunit, yunit, zunit unit.Descriptor
	data         []float64
	cache        cache
}

// New creates a zero-filled field of the given pixel resolution and
// physical size. Panics (argument error, programmer bug) if xres, yres,
// xreal or yreal are not positive.
func New(xres, yres int, xreal, yreal float64) *Field {
	if xres < 1 || yres < 1 {
		panic("field: xres and yres must be >= 1")
	}
	if xreal <= 0 || yreal <= 0 {
		panic("field: xreal and yreal must be > 0")
	}
	f := &Field{
		xres: xres, yres: yres,
		xreal: xreal, yreal: yreal,
		xunit: unit.Dimensionless(), yunit: unit.Dimensionless(), zunit: unit.Dimensionless(),
		data: make([]float64, xres*yres),
	}
	// A freshly allocated all-zero field has a known statistical summary.
	f.installFullCache(0)
	return f
}

// NewFromData wraps an existing row-major buffer of length xres*yres. The
// slice is taken by reference; subsequent mutation through Field methods
// keeps the cache coherent, but mutation of the slice behind Field's back
// is the caller's responsibility to invalidate (see Invalidate).
func NewFromData(xres, yres int, xreal, yreal float64, data []float64) *Field {
	if xres < 1 || yres < 1 {
		panic("field: xres and yres must be >= 1")
	}
	if len(data) != xres*yres {
		panic("field: data length does not match xres*yres")
	}
	return &Field{
		xres: xres, yres: yres,
		xreal: xreal, yreal: yreal,
		xunit: unit.Dimensionless(), yunit: unit.Dimensionless(), zunit: unit.Dimensionless(),
		data: data,
	}
}

// Clone returns a deep copy, including cache state.
func (f *Field) Clone() *Field {
	data := make([]float64, len(f.data))
	copy(data, f.data)
	g := &Field{
		xres: f.xres, yres: f.yres,
		xreal: f.xreal, yreal: f.yreal,
		xoff: f.xoff, yoff: f.yoff,
		xunit: f.xunit, yunit: f.yunit, zunit: f.zunit,
		data: data,
	}
	g.cache = f.cache
	return g
}

// XRes and YRes return the pixel resolution.
func (f *Field) XRes() int { return f.xres }
func (f *Field) YRes() int { return f.yres }

// XReal and YReal return the physical size of the field.
func (f *Field) XReal() float64 { return f.xreal }
func (f *Field) YReal() float64 { return f.yreal }

// DX and DY return the derived per-pixel lateral scale.
func (f *Field) DX() float64 { return f.xreal / float64(f.xres) }
func (f *Field) DY() float64 { return f.yreal / float64(f.yres) }

// XOff and YOff return the origin offsets.
func (f *Field) XOff() float64 { return f.xoff }
func (f *Field) YOff() float64 { return f.yoff }

// SetOffsets sets the origin offsets (default 0,0).
func (f *Field) SetOffsets(xoff, yoff float64) {
	f.xoff, f.yoff = xoff, yoff
}

// XUnit, YUnit, ZUnit return the field's unit descriptors.
func (f *Field) XUnit() unit.Descriptor { return f.xunit }
func (f *Field) YUnit() unit.Descriptor { return f.yunit }
func (f *Field) ZUnit() unit.Descriptor { return f.zunit }

// SetUnits installs unit descriptors (any may be nil to leave unchanged).
func (f *Field) SetUnits(xu, yu, zu unit.Descriptor) {
	if xu != nil {
		f.xunit = xu
	}
	if yu != nil {
		f.yunit = yu
	}
	if zu != nil {
		f.zunit = zu
	}
}

// Data returns the backing row-major buffer. Callers that mutate it
// directly must call Invalidate afterwards.
func (f *Field) Data() []float64 { return f.data }

// At returns the value at (col, row).
func (f *Field) At(col, row int) float64 {
	return f.data[row*f.xres+col]
}

// SetAt writes a single value and invalidates the cache. For bulk writes
// prefer the arithmetic.go operations, which maintain the cache precisely.
func (f *Field) SetAt(col, row int, v float64) {
	f.data[row*f.xres+col] = v
	f.cache.invalidateAll()
}

// Invalidate clears every cached summary. Call this after mutating Data()
// directly.
func (f *Field) Invalidate() {
	f.cache.invalidateAll()
}

func (f *Field) installFullCache(c float64) {
	f.cache.set(cacheMin, c)
	f.cache.set(cacheMax, c)
	f.cache.set(cacheMean, c)
	f.cache.set(cacheMedian, c)
	f.cache.set(cacheRMS, 0)
	f.cache.set(cacheMeanSq, c*c)
	f.cache.invalidate(cacheSurfaceArea)
}

// index returns the row-major offset of (col, row).
func (f *Field) index(col, row int) int { return row*f.xres + col }
