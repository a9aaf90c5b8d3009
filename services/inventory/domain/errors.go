package domain

import "errors"

// Sentinel errors for the inventory domain. Use errors.Is() to check these.
// Callers add detail with fmt.Errorf("%w: ...", ErrX) so the identity survives wrapping.
var (
	// ErrNotFound indicates an unknown item, batch or reservation id.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientStock indicates the requested quantity exceeds available or sellable stock.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrIncompatibleUnits indicates a conversion between units of different groups.
	ErrIncompatibleUnits = errors.New("incompatible units")

	// ErrInvalidState indicates an operation attempted on a record not in the required state.
	ErrInvalidState = errors.New("invalid state")

	// ErrValidation indicates malformed input: non-positive quantities, bad dates, negative counts.
	ErrValidation = errors.New("validation failed")
)
