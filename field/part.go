package field

import "github.com/gwyproc/gwyfield/geom"

// Part is a rectangular (col, row, width, height) subregion specifier in
// pixel units. See geom.Part.
type Part = geom.Part

// FullPart returns the part covering the entire field.
func (f *Field) FullPart() Part {
	return geom.Full(f.xres, f.yres)
}

// resolvePart validates an optional *Part, defaulting nil/zero to the
// whole field.
func (f *Field) resolvePart(p *Part) (Part, error) {
	rp, err := geom.Resolve(p, f.xres, f.yres)
	if err != nil {
		return Part{}, ErrInvalidPart
	}
	return rp, nil
}
