package core

import "time"

// Infeasibility reasons surfaced on Outcome.Reason. Callers render them
// verbatim; the core performs no formatting beyond these strings.
const (
	ReasonNoReachableParticipants = "no reachable participants"
	ReasonNoCommonAvailability    = "no common availability"
	ReasonResourceContention      = "resource contention"
)

// NegotiationRequest is the structured input to one negotiation, produced by
// an upstream orchestration layer (CourtMesh does not care which).
type NegotiationRequest struct {
	// Participants whose availability must all be reconciled.
	Participants []Participant

	// DateRange bounds the search for a common slot.
	DateRange TimeInterval

	// ResourceID names the shared resource to book.
	ResourceID string

	// SlotDuration is the exact length of the slot to reserve.
	SlotDuration time.Duration

	// Reference is attached to the reservation. Defaults to "courtmesh"
	// when empty.
	Reference string
}

// CandidateSlot is a time interval provisionally qualifying as a common
// availability window before resource booking. Transient: produced during
// intersection, discarded after a decision.
type CandidateSlot struct {
	Interval   TimeInterval `json:"interval"`
	Supporting []string     `json:"supporting"`
}

// OutcomeStatus discriminates the terminal states of a negotiation.
type OutcomeStatus int

const (
	// OutcomeBooked means every participant was reachable, a common slot was
	// found and the resource was reserved.
	OutcomeBooked OutcomeStatus = iota
	// OutcomeInfeasible means no bookable slot exists; Reason explains why.
	OutcomeInfeasible
	// OutcomePartialFailure means some participants were unreachable; the
	// best-effort result over the reachable subset is attached, but nothing
	// was booked. Callers decide whether a partial agreement is acceptable.
	OutcomePartialFailure
)

// String returns the string representation of the outcome status.
func (s OutcomeStatus) String() string {
	switch s {
	case OutcomeBooked:
		return "booked"
	case OutcomeInfeasible:
		return "infeasible"
	case OutcomePartialFailure:
		return "partial_failure"
	default:
		return "unknown"
	}
}

// Outcome is the terminal value returned to the caller of one negotiation.
// The engine always returns an Outcome for well-formed requests, never a
// crash: participant-level failures are absorbed and degraded into it.
//
// Field population by Status:
//
//   - OutcomeBooked: Reservation set
//   - OutcomeInfeasible: Reason set
//   - OutcomePartialFailure: Unreachable set; Candidate set when the reachable
//     subset still shares a qualifying slot, Reason set otherwise
//
// Malformed lists participants whose payloads were rejected and degraded to
// "no availability"; it may accompany any status.
type Outcome struct {
	Status      OutcomeStatus  `json:"status"`
	Reservation *Reservation   `json:"reservation,omitempty"`
	Candidate   *CandidateSlot `json:"candidate,omitempty"`
	Reason      string         `json:"reason,omitempty"`
	Unreachable []string       `json:"unreachable,omitempty"`
	Malformed   []string       `json:"malformed,omitempty"`
}
