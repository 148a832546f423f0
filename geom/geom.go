// Package geom holds the small shared data-model types spec.md lists
// independently of both Field and MaskField: the rectangular Part
// specifier and the three-way Masking discipline. Both field and mask
// import this package so that neither has to import the other just to
// share these two value types.
package geom

import "errors"

// ErrInvalidPart indicates an out-of-range or degenerate Part.
var ErrInvalidPart = errors.New("geom: invalid part")

// Part is a rectangular (col, row, width, height) subregion specifier in
// pixel units. Upper bounds are exclusive: col+width <= xres,
// row+height <= yres.
type Part struct {
	Col, Row, Width, Height int
}

// Full returns the part covering an entire xres*yres plane.
func Full(xres, yres int) Part {
	return Part{0, 0, xres, yres}
}

// IsZero reports whether p is the Go zero value, used as shorthand for
// "the whole field" by operations that accept an optional *Part.
func (p Part) IsZero() bool {
	return p.Col == 0 && p.Row == 0 && p.Width == 0 && p.Height == 0
}

// Validate checks p against plane dimensions (xres, yres).
func (p Part) Validate(xres, yres int) error {
	if p.Width < 1 || p.Height < 1 {
		return ErrInvalidPart
	}
	if p.Col < 0 || p.Row < 0 || p.Col+p.Width > xres || p.Row+p.Height > yres {
		return ErrInvalidPart
	}
	return nil
}

// Resolve returns the effective part for an optional *Part argument: nil or
// a zero-valued Part means "the whole plane".
func Resolve(p *Part, xres, yres int) (Part, error) {
	if p == nil || p.IsZero() {
		return Full(xres, yres), nil
	}
	if err := p.Validate(xres, yres); err != nil {
		return Part{}, err
	}
	return *p, nil
}

// Intersect returns the intersection of two parts, and false if it is empty.
func Intersect(a, b Part) (Part, bool) {
	col := max(a.Col, b.Col)
	row := max(a.Row, b.Row)
	right := min(a.Col+a.Width, b.Col+b.Width)
	bottom := min(a.Row+a.Height, b.Row+b.Height)
	if right <= col || bottom <= row {
		return Part{}, false
	}
	return Part{col, row, right - col, bottom - row}, true
}

// Masking selects which pixels participate in a mask-aware operation.
type Masking int

const (
	// Ignore means every pixel participates; a mask argument is unused.
	Ignore Masking = iota
	// Include means a pixel participates iff the mask bit is set.
	Include
	// Exclude means a pixel participates iff the mask bit is clear.
	Exclude
)

func (m Masking) String() string {
	switch m {
	case Ignore:
		return "ignore"
	case Include:
		return "include"
	case Exclude:
		return "exclude"
	default:
		return "unknown"
	}
}
