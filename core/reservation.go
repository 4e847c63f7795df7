package core

import "time"

// Reservation is an immutable booking of a shared resource. Reservations are
// created only through a successful ledger Reserve call and never mutated
// afterwards; cancellation tombstones the record via CancelledAt rather than
// editing it in place, preserving history.
type Reservation struct {
	ID          string       `json:"id"`
	ResourceID  string       `json:"resource_id"`
	Interval    TimeInterval `json:"interval"`
	Reference   string       `json:"reference"`
	BookedAt    time.Time    `json:"booked_at"`
	CancelledAt *time.Time   `json:"cancelled_at,omitempty"`
}

// Active reports whether the reservation still occupies its interval.
func (r Reservation) Active() bool { return r.CancelledAt == nil }

// Ledger is the authority over reservations for shared bookable resources.
//
// Contract:
//   - No two live reservations for the same resource may overlap.
//   - Reserve checks and writes in one indivisible step; a plain
//     IsFree-then-Reserve sequence is not safe under concurrency.
//   - Implementations must serialize Reserve calls per resource.
type Ledger interface {
	// IsFree reports whether no live reservation for the resource overlaps
	// the interval.
	IsFree(resourceID string, interval TimeInterval) bool

	// Reserve atomically checks the interval and creates a reservation.
	// It fails with ErrConflict if a live reservation overlaps.
	Reserve(resourceID string, interval TimeInterval, reference string) (Reservation, error)

	// Cancel tombstones an existing reservation, freeing its interval.
	// It fails with ErrNotFound for unknown ids.
	Cancel(resourceID, reservationID string) error
}
