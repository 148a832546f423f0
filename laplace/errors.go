// Package laplace errors, grouped as sentinel values per the teacher's
// codec/errors.go convention.
package laplace

import "errors"

var (
	// ErrDimensionMismatch indicates the mask and field passed to Solve
	// do not share pixel dimensions.
	ErrDimensionMismatch = errors.New("laplace: mask dimensions must match field")

	// ErrInvalidGrainID indicates a grain id outside [1, NGrains()] was
	// passed without requesting AllGrains.
	ErrInvalidGrainID = errors.New("laplace: invalid grain id")
)
