package inventory

import "errors"

// Contract violations indicate a caller bug. The boolean-form operations
// panic with these values; asserting accessors return them as errors.
var (
	// ErrInvalidDimension reports a non-positive grid width or height.
	ErrInvalidDimension = errors.New("inventory: grid dimensions must be positive")
	// ErrInvalidSize reports an item whose size is non-positive in either dimension.
	ErrInvalidSize = errors.New("inventory: item size must be positive")
	// ErrNilItem reports a nil item passed where one is required.
	ErrNilItem = errors.New("inventory: nil item")
	// ErrDimensionMismatch reports a destination matrix whose shape differs from the grid.
	ErrDimensionMismatch = errors.New("inventory: destination dimensions do not match grid")
)

// Expected negative outcomes, returned only by the asserting accessors.
// The try variants report the same conditions through their boolean result.
var (
	// ErrNotFound reports an item that is not currently placed.
	ErrNotFound = errors.New("inventory: item not placed")
	// ErrOutOfBounds reports a coordinate outside the grid.
	ErrOutOfBounds = errors.New("inventory: position out of bounds")
	// ErrEmptyCell reports a lookup at a cell no footprint covers.
	ErrEmptyCell = errors.New("inventory: no item at position")
)
