package mask

import "errors"

var (
	// ErrInvalidPart indicates an out-of-range or degenerate Part.
	ErrInvalidPart = errors.New("mask: invalid part")

	// ErrDimensionMismatch indicates two mask fields used together have
	// incompatible pixel dimensions.
	ErrDimensionMismatch = errors.New("mask: dimension mismatch")

	// ErrIncompatibleMask indicates ResolveMaskOrigin could not match the
	// mask's dimensions to either the field or the processed part.
	ErrIncompatibleMask = errors.New("mask: mask dimensions match neither field nor part")

	// ErrUnknownOperator indicates an out-of-range logical operator value.
	ErrUnknownOperator = errors.New("mask: unknown logical operator")

	// ErrInvalidGrainID indicates a grain id outside 1..ngrains (or, where
	// 0 is meaningful, outside 0..ngrains).
	ErrInvalidGrainID = errors.New("mask: invalid grain id")
)
