package engine

import "time"

// Config defines tuning parameters for the engine's negotiation behavior.
//
// The two timeout values are independent: QueryTimeout bounds one participant
// call, Deadline bounds the whole fan-out. Deadline should exceed QueryTimeout
// times (1 + TimeoutRetries) so the retry policy can complete before the
// overall deadline fires. Retry counts are deliberately configuration, not
// constants.
type Config struct {
	// QueryTimeout (T) bounds a single participant availability call.
	QueryTimeout time.Duration

	// Deadline (D) bounds the whole fan-out including retries. Outstanding
	// calls are cancelled once it elapses and counted as timeouts.
	Deadline time.Duration

	// TimeoutRetries is how many times a timed-out participant call is
	// retried. Unreachable participants are never retried.
	TimeoutRetries int

	// BookingRetries (R) is how many additional reservation attempts are made
	// after a ledger conflict before giving up with resource contention.
	BookingRetries int

	// MaxConcurrentQueries limits how many participant calls run at once
	// during fan-out. Set to 0 for unlimited.
	MaxConcurrentQueries int
}

// DefaultConfig provides defaults sized for LAN-local participants: one retry
// round fits comfortably inside the deadline.
var DefaultConfig = Config{
	QueryTimeout:         10 * time.Second,
	Deadline:             25 * time.Second,
	TimeoutRetries:       1,
	BookingRetries:       3,
	MaxConcurrentQueries: 10,
}
