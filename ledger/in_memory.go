// Package ledger implements the reservation authority for shared bookable
// resources. The in-memory implementation is the single source of truth
// preventing double-booking within a process run; state does not survive a
// restart.
package ledger

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/courtmesh/core"
)

// MaintenanceReference marks reservations that block a resource for upkeep
// rather than a booking. Seed them via Block.
const MaintenanceReference = "maintenance"

// InMemoryLedger is a volatile core.Ledger implementation storing reservations
// in process-local per-resource calendars. Reserve calls for the same resource
// are serialized by a per-resource lock, so the check-and-write is one
// indivisible step; reads may run concurrently with each other. Each returned
// reservation is a copy, so callers can never mutate ledger state.
type InMemoryLedger struct {
	mu        sync.Mutex
	resources map[string]*resourceCalendar
}

// resourceCalendar owns the reservations of one resource. Lock ordering:
// a calendar lock is only ever taken after the ledger map lock is released.
type resourceCalendar struct {
	mu           sync.RWMutex
	reservations []core.Reservation
}

// NewInMemoryLedger constructs an empty in-memory ledger.
func NewInMemoryLedger() *InMemoryLedger {
	return &InMemoryLedger{resources: make(map[string]*resourceCalendar)}
}

var _ core.Ledger = (*InMemoryLedger)(nil)

// calendar returns the calendar for a resource, creating it lazily.
func (l *InMemoryLedger) calendar(resourceID string) *resourceCalendar {
	l.mu.Lock()
	defer l.mu.Unlock()
	cal, ok := l.resources[resourceID]
	if !ok {
		cal = &resourceCalendar{}
		l.resources[resourceID] = cal
	}
	return cal
}

// IsFree reports whether no live reservation for the resource overlaps the
// interval. The answer is advisory: only Reserve decides authoritatively.
func (l *InMemoryLedger) IsFree(resourceID string, interval core.TimeInterval) bool {
	cal := l.calendar(resourceID)
	cal.mu.RLock()
	defer cal.mu.RUnlock()
	return cal.conflictLocked(interval) == nil
}

// Reserve atomically checks the interval against all live reservations and
// creates a new one. It returns core.ErrConflict (wrapped with the blocking
// reservation's reference) when the interval is taken.
func (l *InMemoryLedger) Reserve(resourceID string, interval core.TimeInterval, reference string) (core.Reservation, error) {
	if !interval.Start.Before(interval.End) {
		return core.Reservation{}, fmt.Errorf("%w: %s", core.ErrInvalidInterval, interval)
	}

	cal := l.calendar(resourceID)
	cal.mu.Lock()
	defer cal.mu.Unlock()

	if blocking := cal.conflictLocked(interval); blocking != nil {
		return core.Reservation{}, fmt.Errorf("%w: %s overlaps %s held by %q", core.ErrConflict, interval, blocking.Interval, blocking.Reference)
	}

	res := core.Reservation{
		ID:         uuid.NewString(),
		ResourceID: resourceID,
		Interval:   interval,
		Reference:  reference,
		BookedAt:   time.Now().UTC(),
	}
	cal.reservations = append(cal.reservations, res)
	return res, nil
}

// Cancel tombstones a reservation, freeing its interval for future bookings.
// The record itself is retained for history.
func (l *InMemoryLedger) Cancel(resourceID, reservationID string) error {
	cal := l.calendar(resourceID)
	cal.mu.Lock()
	defer cal.mu.Unlock()

	for i := range cal.reservations {
		if cal.reservations[i].ID != reservationID {
			continue
		}
		if cal.reservations[i].CancelledAt != nil {
			return nil
		}
		now := time.Now().UTC()
		cal.reservations[i].CancelledAt = &now
		return nil
	}
	return fmt.Errorf("%w: %s/%s", core.ErrNotFound, resourceID, reservationID)
}

// Block reserves an interval for maintenance, making it unavailable to
// negotiations without representing a booking.
func (l *InMemoryLedger) Block(resourceID string, interval core.TimeInterval) (core.Reservation, error) {
	return l.Reserve(resourceID, interval, MaintenanceReference)
}

// Reservations returns a snapshot copy of all reservations for a resource,
// tombstones included.
func (l *InMemoryLedger) Reservations(resourceID string) []core.Reservation {
	cal := l.calendar(resourceID)
	cal.mu.RLock()
	defer cal.mu.RUnlock()
	out := make([]core.Reservation, len(cal.reservations))
	copy(out, cal.reservations)
	return out
}

// conflictLocked returns the first live reservation overlapping the interval.
// Caller must hold at least a read lock.
func (c *resourceCalendar) conflictLocked(interval core.TimeInterval) *core.Reservation {
	for i := range c.reservations {
		if c.reservations[i].Active() && c.reservations[i].Interval.Overlaps(interval) {
			return &c.reservations[i]
		}
	}
	return nil
}
