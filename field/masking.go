package field

import "github.com/gwyproc/gwyfield/mask"

// Masking selects which pixels participate in a mask-aware field operation.
type Masking = mask.Masking

const (
	Ignore  = mask.Ignore
	Include = mask.Include
	Exclude = mask.Exclude
)

// Mask is the bit-packed selector type accepted by field operations.
type Mask = mask.MaskField

// maskOrigin resolves mf's origin against part per the section 6
// mask<->field compatibility collaborator: mf may be sized to match either
// the whole field or just the processed part.
func (f *Field) maskOrigin(mf *Mask, part Part) (col, row int, err error) {
	c, r, ok := mask.ResolveMaskOrigin(mf, part, f.xres, f.yres)
	if !ok {
		return 0, 0, ErrDimensionMismatch
	}
	return c, r, nil
}

// participates reports whether pixel (col,row) of the field contributes
// under the given masking discipline.
func (f *Field) participates(mf *Mask, mcol, mrow int, masking Masking, col, row int) bool {
	return mask.Participates(mf, masking, col+mcol, row+mrow)
}
