// Package mask implements a row-padded, bit-packed 2-D bitmap (MaskField):
// arbitrary-offset bulk logical operations, morphological shrink/grow,
// grain labelling and a squared-Euclidean distance transform.
//
// Bit order is little-endian within a 32-bit word: column c of row r is bit
// (c mod 32) of word stride*r + c/32. Padding bits beyond xres in the last
// word of a row are undefined; all operations here mask them off on read
// and leave them unspecified on write, per spec.md section 3.2/9.
package mask

import "github.com/gwyproc/gwyfield/geom"

// Masking re-exports geom.Masking so callers of this package don't need to
// import geom directly for the common case.
type Masking = geom.Masking

const (
	Ignore  = geom.Ignore
	Include = geom.Include
	Exclude = geom.Exclude
)

// Part re-exports geom.Part.
type Part = geom.Part

// MaskField is a bit-packed xres x yres bitmap with stride = ceil(xres/32)
// 32-bit words per row.
type MaskField struct {
	xres, yres int
	stride     int
	data       []uint32

	grains grainCache
}

// Stride returns the number of 32-bit words needed per row of width xres.
func Stride(xres int) int {
	return (xres + 31) / 32
}

// New creates an all-clear mask field of the given pixel resolution.
func New(xres, yres int) *MaskField {
	if xres < 1 || yres < 1 {
		panic("mask: xres and yres must be >= 1")
	}
	stride := Stride(xres)
	return &MaskField{
		xres: xres, yres: yres, stride: stride,
		data: make([]uint32, stride*yres),
	}
}

// XRes and YRes return the pixel resolution.
func (m *MaskField) XRes() int { return m.xres }
func (m *MaskField) YRes() int { return m.yres }

// Stride returns this field's words-per-row.
func (m *MaskField) Stride() int { return m.stride }

// Data returns the backing word buffer (row-major, Stride() words per row).
// Padding bits in the last word of each row are undefined. Callers who
// mutate this directly must call InvalidateGrains afterwards.
func (m *MaskField) Data() []uint32 { return m.data }

// Clone returns a deep copy without cached grain data.
func (m *MaskField) Clone() *MaskField {
	data := make([]uint32, len(m.data))
	copy(data, m.data)
	return &MaskField{xres: m.xres, yres: m.yres, stride: m.stride, data: data}
}

// Get reports whether the bit at (col, row) is set.
func (m *MaskField) Get(col, row int) bool {
	w := row*m.stride + col/32
	bit := uint(col % 32)
	return m.data[w]&(1<<bit) != 0
}

// Set assigns the bit at (col, row).
func (m *MaskField) Set(col, row int, v bool) {
	w := row*m.stride + col/32
	bit := uint(col % 32)
	if v {
		m.data[w] |= 1 << bit
	} else {
		m.data[w] &^= 1 << bit
	}
	m.InvalidateGrains()
}

// rowLastWordMask returns a mask selecting only the valid (non-padding)
// bits of the last word in a row of width xres.
func rowLastWordMask(xres, stride int) uint32 {
	bits := xres - (stride-1)*32
	if bits >= 32 || bits <= 0 {
		return 0xFFFFFFFF
	}
	return (uint32(1) << uint(bits)) - 1
}

// maskPadding clears the undefined padding bits of the last word of
// every row, so e.g. population counts are exact.
func (m *MaskField) maskPadding() {
	last := rowLastWordMask(m.xres, m.stride)
	if last == 0xFFFFFFFF {
		return
	}
	for r := 0; r < m.yres; r++ {
		idx := r*m.stride + m.stride - 1
		m.data[idx] &= last
	}
}

// InvalidateGrains clears all cached derived structures (grain labels,
// sizes, bounding boxes, positions, distance transform). Every mutating
// operation in this package calls this.
func (m *MaskField) InvalidateGrains() {
	m.grains = grainCache{}
}

// Participates reports whether the pixel at (col,row) contributes under the
// given masking discipline. mf may be nil only when masking == Ignore.
func Participates(mf *MaskField, masking Masking, col, row int) bool {
	switch masking {
	case Ignore:
		return true
	case Include:
		return mf != nil && mf.Get(col, row)
	case Exclude:
		return mf == nil || !mf.Get(col, row)
	default:
		return true
	}
}

// ResolveMaskOrigin implements the section 6 "mask <-> field compatibility"
// collaborator: callers pass masks either in field-origin layout (mask
// dimensions match the field) or part-origin layout (mask dimensions match
// the processed part). It returns the effective mask-space (col, row) to
// add to a field pixel coordinate, or false if the mask is compatible
// with neither layout.
func ResolveMaskOrigin(mf *MaskField, part Part, fieldXRes, fieldYRes int) (col, row int, ok bool) {
	if mf == nil {
		return 0, 0, true
	}
	if mf.xres == fieldXRes && mf.yres == fieldYRes {
		return 0, 0, true
	}
	if mf.xres == part.Width && mf.yres == part.Height {
		return -part.Col, -part.Row, true
	}
	return 0, 0, false
}
