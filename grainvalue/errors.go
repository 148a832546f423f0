// Package grainvalue errors, grouped as sentinel values per the teacher's
// codec/errors.go convention.
package grainvalue

import "errors"

var (
	// ErrDimensionMismatch indicates the mask and field passed to Compute
	// do not share pixel dimensions.
	ErrDimensionMismatch = errors.New("grainvalue: mask dimensions must match field")

	// ErrUnknownTag indicates a requested built-in identifier is not in
	// the catalogue.
	ErrUnknownTag = errors.New("grainvalue: unknown built-in grain value")

	// ErrNoGrains indicates the mask has no grains to evaluate.
	ErrNoGrains = errors.New("grainvalue: mask has no grains")
)
