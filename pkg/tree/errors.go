package tree

import "errors"

var (
	// ErrInvalidParameter is returned for non-finite, out of range, or degenerate inputs.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInvalidTopology is returned when a split would produce no branches.
	ErrInvalidTopology = errors.New("invalid topology")

	// ErrResourceLimit is returned when a tree would be larger than allowed.
	ErrResourceLimit = errors.New("resource limit exceeded")
)
