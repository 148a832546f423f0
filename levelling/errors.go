// Package levelling errors, grouped as sentinel values per the teacher's
// codec/errors.go convention.
package levelling

import "errors"

var (
	// ErrRankDeficient indicates a plane/polynomial fit had too few
	// independent points to determine the requested terms.
	ErrRankDeficient = errors.New("levelling: rank-deficient fit")

	// ErrDimensionMismatch indicates a shifts line does not match the
	// field's row count.
	ErrDimensionMismatch = errors.New("levelling: dimension mismatch")

	// ErrTermCountMismatch indicates xpowers/ypowers/coeffs have
	// different lengths.
	ErrTermCountMismatch = errors.New("levelling: xpowers, ypowers and coeffs must have equal length")
)
