package core

import (
	"context"
	"time"
)

// Participant identifies one remote party whose availability is queried
// during a negotiation.
type Participant struct {
	// ID is the stable participant identifier used to key query results.
	ID string `json:"id"`

	// Endpoint is the base URL of the participant's availability provider.
	Endpoint string `json:"endpoint"`
}

// AvailabilityWindow is one participant's free intervals for a queried date
// range. Intervals are normalized (sorted by start, non-overlapping). A window
// lives for a single negotiation round and is never persisted.
type AvailabilityWindow struct {
	ParticipantID string         `json:"participant_id"`
	Intervals     []TimeInterval `json:"intervals"`
	AsOf          time.Time      `json:"as_of"`
}

// QueryStatus discriminates the possible outcomes of one participant query.
type QueryStatus int

const (
	// QueryOk means the participant answered with a well-formed availability payload.
	QueryOk QueryStatus = iota
	// QueryTimeout means no response arrived inside the per-call timeout.
	QueryTimeout
	// QueryUnreachable means the endpoint refused the connection or cannot serve.
	QueryUnreachable
	// QueryMalformed means the participant answered but the payload could not
	// be parsed into well-formed intervals.
	QueryMalformed
)

// String returns the string representation of the query status.
func (s QueryStatus) String() string {
	switch s {
	case QueryOk:
		return "ok"
	case QueryTimeout:
		return "timeout"
	case QueryUnreachable:
		return "unreachable"
	case QueryMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// QueryResult is the discriminated union produced by the participant client
// and consumed only by the negotiation engine. Exactly one of the payload
// fields is meaningful for a given Status:
//
//   - QueryOk: Window holds the normalized availability
//   - QueryMalformed: RawPayload holds the rejected response body
//   - QueryTimeout / QueryUnreachable: Err optionally carries the transport error
type QueryResult struct {
	ParticipantID string
	Status        QueryStatus
	Window        AvailabilityWindow
	RawPayload    []byte
	Err           error
}

// AvailabilityQuerier issues a single availability request to one participant.
// Implementations must be safe for concurrent use, send exactly one request
// per call and never retry internally; the retry policy belongs to the
// negotiation engine so it controls the total latency budget. The call is
// bounded by the context deadline supplied by the caller.
type AvailabilityQuerier interface {
	QueryAvailability(ctx context.Context, participant Participant, dateRange TimeInterval) QueryResult
}
