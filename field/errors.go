// Package field errors, grouped as sentinel values per the teacher's
// codec/errors.go convention.
package field

import "errors"

var (
	// ErrInvalidPart indicates an out-of-range or degenerate Part.
	ErrInvalidPart = errors.New("field: invalid part")

	// ErrInvalidRange indicates lower > upper where that is forbidden.
	ErrInvalidRange = errors.New("field: lower bound exceeds upper bound")

	// ErrDimensionMismatch indicates two fields/masks used together have
	// incompatible pixel dimensions.
	ErrDimensionMismatch = errors.New("field: dimension mismatch")

	// ErrEmptyArea indicates a masked/part-restricted area selects zero
	// pixels.
	ErrEmptyArea = errors.New("field: empty area")

	// ErrZeroRMS indicates normalize was asked to scale to a non-zero rms
	// but the source area has zero variance.
	ErrZeroRMS = errors.New("field: cannot scale zero-rms data to non-zero rms")

	// ErrRankDeficient indicates a least-squares fit could not be solved.
	ErrRankDeficient = errors.New("field: rank-deficient fit")

	// ErrNilMask indicates Include/Exclude masking was requested without a
	// mask argument.
	ErrNilMask = errors.New("field: masking mode requires a non-nil mask")
)
