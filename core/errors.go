package core

import "errors"

var (
	// ErrInvalidInterval is returned when an interval violates the
	// Start < End invariant.
	ErrInvalidInterval = errors.New("invalid interval")

	// ErrConflict is returned by a ledger Reserve call that lost the race for
	// an overlapping interval. The negotiation engine retries on it.
	ErrConflict = errors.New("reservation conflict")

	// ErrNotFound is returned when a reservation for the given resource / id
	// pair does not exist in the underlying ledger.
	ErrNotFound = errors.New("reservation not found")
)
