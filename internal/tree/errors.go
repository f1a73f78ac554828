package tree

import "errors"

var (
	// ErrInvalidOperation is returned when an operation targets a missing
	// node, the root where the root is not allowed, or a parent outside the tree.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrBrokenTree is returned by Validate when the structural invariants do not hold.
	ErrBrokenTree = errors.New("tree invariant violated")
)
