package mask

import (
	"math"

	"github.com/gwyproc/gwyfield/geom"
)

// getBits reads width (<=32) bits starting at absolute column col of row
// row, low-aligned in the returned word (bit 0 = column col). Used as the
// general-purpose primitive for arbitrary-offset access; see spec.md
// section 9 on WordRun / word arithmetic.
func (m *MaskField) getBits(row, col, width int) uint32 {
	if width <= 0 {
		return 0
	}
	wIdx := row*m.stride + col/32
	bitOff := uint(col % 32)
	lo := m.data[wIdx] >> bitOff
	if uint(width)+bitOff <= 32 {
		return lo & bitMaskRange(0, width)
	}
	hi := m.data[wIdx+1] << (32 - bitOff)
	return (lo | hi) & bitMaskRange(0, width)
}

// setBits writes the low width (<=32) bits of value into row row starting
// at absolute column col.
func (m *MaskField) setBits(row, col, width int, value uint32) {
	if width <= 0 {
		return
	}
	value &= bitMaskRange(0, width)
	wIdx := row*m.stride + col/32
	bitOff := uint(col % 32)
	if uint(width)+bitOff <= 32 {
		mask := bitMaskRange(int(bitOff), int(bitOff)+width)
		m.data[wIdx] = (m.data[wIdx] &^ mask) | (value << bitOff)
		return
	}
	m.data[wIdx] = (m.data[wIdx] &^ bitMaskRange(int(bitOff), 32)) | (value << bitOff)
	rem := width - (32 - int(bitOff))
	m.data[wIdx+1] = (m.data[wIdx+1] &^ bitMaskRange(0, rem)) | (value >> (32 - bitOff))
}

// forEachRowChunk calls fn(col, width) for successive <=32-bit chunks
// covering [startCol, startCol+totalWidth).
func forEachRowChunk(startCol, totalWidth int, fn func(col, width int)) {
	col := startCol
	remaining := totalWidth
	for remaining > 0 {
		// Align chunks to 32-bit boundaries so getBits/setBits never need
		// more than one carry word, and so aligned copies hit whole words.
		chunk := 32 - col%32
		if chunk > remaining {
			chunk = remaining
		}
		fn(col, chunk)
		col += chunk
		remaining -= chunk
	}
}

// Copy copies srcPart of src into dest starting at (dcol, drow). Only the
// intersection with dest's bounds is written; if it is empty, Copy returns
// ErrInvalidPart. The word offsets of source and destination may differ; a
// word-aligned fast path is used when they are congruent mod 32.
func (dest *MaskField) Copy(src *MaskField, srcPart *Part, dcol, drow int) error {
	sp, err := geom.Resolve(srcPart, src.xres, src.yres)
	if err != nil {
		return ErrInvalidPart
	}
	dp, ok := geom.Intersect(Part{dcol, drow, sp.Width, sp.Height}, geom.Full(dest.xres, dest.yres))
	if !ok {
		return ErrInvalidPart
	}
	sp = Part{sp.Col + dp.Col - dcol, sp.Row + dp.Row - drow, dp.Width, dp.Height}
	dcol, drow = dp.Col, dp.Row
	aligned := sp.Col%32 == dcol%32
	for r := 0; r < sp.Height; r++ {
		srow, drow2 := sp.Row+r, drow+r
		if aligned && src != dest {
			// Word-aligned fast path: copy whole words directly.
			run := NewWordRun(sp.Col, sp.Width)
			dcolWordBase := dcol - sp.Col // constant offset between word indices
			for w := run.StartWord; w < run.EndWord; w++ {
				srcIdx := srow*src.stride + w
				dstIdx := drow2*dest.stride + w + dcolWordBase/32
				mask := run.Mask(w)
				dest.data[dstIdx] = (dest.data[dstIdx] &^ mask) | (src.data[srcIdx] & mask)
			}
			continue
		}
		forEachRowChunk(sp.Col, sp.Width, func(col, width int) {
			bits := src.getBits(srow, col, width)
			dest.setBits(drow2, dcol+(col-sp.Col), width, bits)
		})
	}
	dest.InvalidateGrains()
	return nil
}

// Fill sets every bit of part to value.
func (m *MaskField) Fill(part *Part, value bool) error {
	p, err := geom.Resolve(part, m.xres, m.yres)
	if err != nil {
		return ErrInvalidPart
	}
	var fillWord uint32
	if value {
		fillWord = 0xFFFFFFFF
	}
	run := NewWordRun(p.Col, p.Width)
	for r := 0; r < p.Height; r++ {
		row := p.Row + r
		for w := run.StartWord; w < run.EndWord; w++ {
			idx := row*m.stride + w
			mask := run.Mask(w)
			m.data[idx] = (m.data[idx] &^ mask) | (fillWord & mask)
		}
	}
	m.InvalidateGrains()
	return nil
}

// Clear clears every bit of the whole field.
func (m *MaskField) Clear() {
	for i := range m.data {
		m.data[i] = 0
	}
	m.InvalidateGrains()
}

// FillEllipse fills an ellipse inscribed in rect (a rectangle given in the
// field's own coordinates) with value, restricted to part if non-nil.
// Row-interior half-widths use floor(rx*(1-sqrt(eta*(2-eta)))+0.5) with
// eta=(i+0.5)/ry, per spec.md section 4.3.
func (m *MaskField) FillEllipse(part *Part, rect Part, value bool) error {
	p, err := geom.Resolve(part, m.xres, m.yres)
	if err != nil {
		return ErrInvalidPart
	}
	if rect.Width < 1 || rect.Height < 1 {
		return ErrInvalidPart
	}
	rx := float64(rect.Width) / 2
	ry := float64(rect.Height) / 2
	for i := 0; i < rect.Height; i++ {
		eta := (float64(i) + 0.5) / ry
		v := eta * (2 - eta)
		if v < 0 {
			v = 0
		}
		halfWidth := rx * (1 - math.Sqrt(v))
		start := int(math.Floor(halfWidth+0.5)) + rect.Col
		end := rect.Col + rect.Width - (start - rect.Col)
		row := rect.Row + i
		if row < 0 || row >= m.yres {
			continue
		}
		rowPart := Part{start, row, end - start, 1}
		inter, ok := geom.Intersect(rowPart, p)
		if !ok {
			continue
		}
		if err := m.Fill(&inter, value); err != nil {
			return err
		}
	}
	return nil
}

// LogicalOp is a two-input boolean operator encoded as a 4-bit truth table:
// bit index (abit<<1)|bbit selects the output for that (a,b) input pair.
type LogicalOp uint8

const (
	OpZero      LogicalOp = 0b0000 // always 0
	OpAnd       LogicalOp = 0b1000 // a & b
	OpANotB     LogicalOp = 0b0100 // a & ~b  (NIMPL)
	OpA         LogicalOp = 0b1100 // a
	OpNotAAndB  LogicalOp = 0b0010 // ~a & b
	OpB         LogicalOp = 0b1010 // b
	OpXor       LogicalOp = 0b0110 // a ^ b
	OpOr        LogicalOp = 0b1110 // a | b
	OpNor       LogicalOp = 0b0001 // ~(a|b)
	OpXnor      LogicalOp = 0b1001 // ~(a^b)
	OpNotB      LogicalOp = 0b0101 // ~b
	OpAImpliesB LogicalOp = 0b1011 // ~a | b
	OpNotA      LogicalOp = 0b0011 // ~a
	OpBImpliesA LogicalOp = 0b1101 // a | ~b
	OpNand      LogicalOp = 0b0111 // ~(a&b)
	OpOne       LogicalOp = 0b1111 // always 1
)

// applyOp evaluates op bitwise across an entire word: lane i of the result
// is op.truthtable(bit i of a, bit i of b).
func applyOp(op LogicalOp, a, b uint32) uint32 {
	var result uint32
	for i := 0; i < 4; i++ {
		if op&(1<<uint(i)) == 0 {
			continue
		}
		abit, bbit := i>>1, i&1
		am, bm := a, b
		if abit == 0 {
			am = ^a
		}
		if bbit == 0 {
			bm = ^b
		}
		result |= am & bm
	}
	return result
}

// Logical combines dest (as "a") with operand (as "b") over part using op,
// optionally gated by a third bitwise write mask: only bits set in
// writeMask are updated, others retain dest's prior value. operand and
// writeMask, if non-nil, must have the same dimensions as dest.
func (dest *MaskField) Logical(part *Part, operand *MaskField, writeMask *MaskField, op LogicalOp) error {
	p, err := geom.Resolve(part, dest.xres, dest.yres)
	if err != nil {
		return ErrInvalidPart
	}
	switch op {
	case OpZero:
		return dest.Fill(&p, false)
	case OpOne:
		return dest.Fill(&p, true)
	case OpA:
		return nil
	case OpB:
		if operand == nil {
			return ErrDimensionMismatch
		}
		return dest.Copy(operand, &p, p.Col, p.Row)
	}
	if operand != nil && (operand.xres != dest.xres || operand.yres != dest.yres) {
		return ErrDimensionMismatch
	}
	if writeMask != nil && (writeMask.xres != dest.xres || writeMask.yres != dest.yres) {
		return ErrDimensionMismatch
	}
	run := NewWordRun(p.Col, p.Width)
	for r := 0; r < p.Height; r++ {
		row := p.Row + r
		for w := run.StartWord; w < run.EndWord; w++ {
			idx := row*dest.stride + w
			rm := run.Mask(w)
			a := dest.data[idx]
			var b uint32
			if operand != nil {
				b = operand.data[idx]
			}
			result := applyOp(op, a, b)
			if writeMask != nil {
				wm := writeMask.data[idx] & rm
				result = (result & wm) | (a &^ wm)
			}
			dest.data[idx] = (dest.data[idx] &^ rm) | (result & rm)
		}
	}
	dest.InvalidateGrains()
	return nil
}

// neighborBit reads the mask bit at (col,row), treating out-of-bounds
// coordinates as clear (0). Used by Shrink/Grow for field-edge neighbours.
func (m *MaskField) neighborBit(col, row int) uint32 {
	if col < 0 || col >= m.xres || row < 0 || row >= m.yres {
		return 0
	}
	if m.Get(col, row) {
		return 1
	}
	return 0
}

// Shrink performs one step of 4-neighbour erosion: a pixel's new value is
// the AND of itself and its four 4-neighbours. When fromBorders is true,
// the field edges contribute 0 (clear); otherwise a pixel at the edge
// compares only against the neighbours it has, with the missing neighbour
// taken as the pixel's own edge replicated (i.e. it doesn't constrain it).
func (m *MaskField) Shrink(fromBorders bool) {
	out := New(m.xres, m.yres)
	for row := 0; row < m.yres; row++ {
		for col := 0; col < m.xres; col++ {
			self := m.neighborBit(col, row)
			if self == 0 {
				continue
			}
			v := self
			v &= m.edgeAwareBit(col-1, row, fromBorders)
			v &= m.edgeAwareBit(col+1, row, fromBorders)
			v &= m.edgeAwareBit(col, row-1, fromBorders)
			v &= m.edgeAwareBit(col, row+1, fromBorders)
			if v != 0 {
				out.Set(col, row, true)
			}
		}
	}
	m.data = out.data
	m.InvalidateGrains()
}

// edgeAwareBit reads a neighbour bit; out-of-bounds positions contribute 0
// when fromBorders, else contribute 1 (i.e. don't constrain the erosion),
// matching spec.md section 4.3's "otherwise the edge's own value".
func (m *MaskField) edgeAwareBit(col, row int, fromBorders bool) uint32 {
	if col < 0 || col >= m.xres || row < 0 || row >= m.yres {
		if fromBorders {
			return 0
		}
		return 1
	}
	return m.neighborBit(col, row)
}

// Grow performs one step of 4-neighbour dilation: OR of self and four
// 4-neighbours. When separateGrains is true, grain labelling is computed
// first and pixels newly enabled whose 4-neighbours belong to two or more
// different labels are re-cleared, so growing never merges two grains.
func (m *MaskField) Grow(separateGrains bool) {
	var labels []int
	if separateGrains {
		m.ensureGrains()
		labels = m.grains.labels
	}
	out := m.Clone()
	for row := 0; row < m.yres; row++ {
		for col := 0; col < m.xres; col++ {
			if m.Get(col, row) {
				continue
			}
			v := m.neighborBit(col-1, row) | m.neighborBit(col+1, row) |
				m.neighborBit(col, row-1) | m.neighborBit(col, row+1)
			if v == 0 {
				continue
			}
			if separateGrains {
				seen := map[int]bool{}
				for _, n := range [][2]int{{col - 1, row}, {col + 1, row}, {col, row - 1}, {col, row + 1}} {
					nc, nr := n[0], n[1]
					if nc < 0 || nc >= m.xres || nr < 0 || nr >= m.yres {
						continue
					}
					if lbl := labels[nr*m.xres+nc]; lbl > 0 {
						seen[lbl] = true
					}
				}
				if len(seen) >= 2 {
					continue
				}
			}
			out.Set(col, row, true)
		}
	}
	m.data = out.data
	m.InvalidateGrains()
}

// Count returns the population count of set bits within part, restricted
// by an optional mask under masking.
func (m *MaskField) Count(part *Part, mf *MaskField, masking Masking) (int, error) {
	p, err := geom.Resolve(part, m.xres, m.yres)
	if err != nil {
		return 0, ErrInvalidPart
	}
	n := 0
	for r := 0; r < p.Height; r++ {
		row := p.Row + r
		for c := 0; c < p.Width; c++ {
			col := p.Col + c
			if !m.Get(col, row) {
				continue
			}
			if !Participates(mf, masking, col, row) {
				continue
			}
			n++
		}
	}
	return n, nil
}

// CountRows returns both the total population count of part and the
// per-row population counts within it.
func (m *MaskField) CountRows(part *Part) ([]int, int, error) {
	p, err := geom.Resolve(part, m.xres, m.yres)
	if err != nil {
		return nil, 0, ErrInvalidPart
	}
	rows := make([]int, p.Height)
	total := 0
	for r := 0; r < p.Height; r++ {
		row := p.Row + r
		cnt := 0
		for c := 0; c < p.Width; c++ {
			if m.Get(p.Col+c, row) {
				cnt++
			}
		}
		rows[r] = cnt
		total += cnt
	}
	return rows, total, nil
}

// PartCountMasking returns the number of pixels of part that a consumer
// would process under masking (i.e. how many pixels participate,
// regardless of their bit value): the part's area for Ignore, popcount(mask) for
// Include, (area - popcount(mask)) for Exclude.
func PartCountMasking(mf *MaskField, part Part, masking Masking) int {
	area := part.Width * part.Height
	switch masking {
	case Ignore:
		return area
	case Include:
		if mf == nil {
			return 0
		}
		n, _ := mf.Count(&part, nil, Ignore)
		return n
	case Exclude:
		if mf == nil {
			return area
		}
		n, _ := mf.Count(&part, nil, Ignore)
		return area - n
	default:
		return area
	}
}
