// Package engine implements the coordinator core: concurrent availability
// fan-out to all participants, reconciliation of their windows into a common
// slot and the conflict-free booking transaction against the resource ledger.
//
// Negotiate is total for well-formed requests: participant misbehavior of any
// kind degrades into the returned outcome, it never propagates as a crash.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/courtmesh/core"
	"github.com/hupe1980/courtmesh/logging"
)

// DefaultReference is attached to reservations when the request names none.
const DefaultReference = "courtmesh"

// Options configures an Engine instance using the functional options pattern.
type Options struct {
	// Config contains timeout and retry parameters. Defaults to DefaultConfig.
	Config Config

	// Logger provides structured logging. Defaults to NoOp so the engine has
	// no logging dependencies in tests.
	Logger logging.Logger
}

// Engine coordinates one negotiation at a time per call; instances are
// stateless between calls and safe for concurrent use. All mutable shared
// state lives in the ledger.
type Engine struct {
	config  Config
	querier core.AvailabilityQuerier
	ledger  core.Ledger
	logger  logging.Logger
}

// New creates a negotiation engine on top of a participant querier and a
// resource ledger.
func New(querier core.AvailabilityQuerier, ledger core.Ledger, optFns ...func(o *Options)) *Engine {
	opts := Options{
		Config: DefaultConfig,
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Engine{config: opts.Config, querier: querier, ledger: ledger, logger: opts.Logger}
}

// Negotiate runs one end-to-end negotiation: fan-out, interval intersection,
// candidate selection and booking. The returned error is reserved for
// malformed requests and ledger faults other than conflicts; every
// participant-side failure mode is absorbed into the Outcome.
//
// Semantics:
//   - Timed-out participants are retried per Config, unreachable ones are not.
//   - Malformed payloads degrade to "no availability" and are flagged.
//   - If nobody is reachable the outcome is infeasible; if some but not all
//     are, a partial-failure outcome carries the best-effort candidate and
//     nothing is booked.
//   - Among qualifying candidates the earliest-starting slot of exactly
//     SlotDuration wins. Ledger conflicts exclude the lost candidate and
//     re-select, at most Config.BookingRetries more times.
func (e *Engine) Negotiate(ctx context.Context, req core.NegotiationRequest) (core.Outcome, error) {
	if err := validate(req); err != nil {
		return core.Outcome{}, err
	}
	reference := req.Reference
	if reference == "" {
		reference = DefaultReference
	}

	logger := e.logger
	if cml, ok := logger.(*logging.CourtMeshLogger); ok {
		logger = cml.WithNegotiation(uuid.NewString())
	}
	started := time.Now()

	results := e.fanOut(ctx, req.Participants, req.DateRange)

	var windows []core.AvailabilityWindow
	var supporting, unreachable, malformed []string
	for _, res := range results {
		switch res.Status {
		case core.QueryOk:
			windows = append(windows, res.Window)
			supporting = append(supporting, res.ParticipantID)
		case core.QueryMalformed:
			// Reachable but useless: counts as "reported no availability".
			windows = append(windows, core.AvailabilityWindow{ParticipantID: res.ParticipantID})
			supporting = append(supporting, res.ParticipantID)
			malformed = append(malformed, res.ParticipantID)
		default:
			unreachable = append(unreachable, res.ParticipantID)
		}
	}
	sort.Strings(supporting)
	sort.Strings(unreachable)
	sort.Strings(malformed)

	if len(windows) == 0 {
		logger.Warn("negotiation infeasible", "reason", core.ReasonNoReachableParticipants, "unreachable", unreachable)
		return core.Outcome{Status: core.OutcomeInfeasible, Reason: core.ReasonNoReachableParticipants, Unreachable: unreachable, Malformed: malformed}, nil
	}

	common := intersect(windows)

	if len(unreachable) > 0 {
		outcome := core.Outcome{Status: core.OutcomePartialFailure, Unreachable: unreachable, Malformed: malformed}
		if slot, ok := selectSlot(common, req.SlotDuration); ok {
			outcome.Candidate = &core.CandidateSlot{Interval: slot, Supporting: supporting}
		} else {
			outcome.Reason = core.ReasonNoCommonAvailability
		}
		logger.Info("negotiation partial", "unreachable", unreachable, "duration", time.Since(started))
		return outcome, nil
	}

	outcome, err := e.book(common, req, reference, logger)
	if err != nil {
		return core.Outcome{}, err
	}
	outcome.Malformed = malformed
	logger.Info("negotiation finished", "status", outcome.Status.String(), "duration", time.Since(started))
	return outcome, nil
}

func validate(req core.NegotiationRequest) error {
	if len(req.Participants) == 0 {
		return errors.New("negotiate: at least one participant is required")
	}
	if !req.DateRange.Start.Before(req.DateRange.End) {
		return fmt.Errorf("negotiate: %w: %s", core.ErrInvalidInterval, req.DateRange)
	}
	if req.SlotDuration <= 0 {
		return fmt.Errorf("negotiate: slot duration must be positive, got %s", req.SlotDuration)
	}
	if req.ResourceID == "" {
		return errors.New("negotiate: resource id is required")
	}
	return nil
}

// fanOut queries all participants concurrently, each bounded by QueryTimeout
// and all bounded by Deadline. In-flight calls are capped by
// MaxConcurrentQueries (0 = unlimited). Results are keyed by participant id,
// never by arrival order, so network timing cannot change the outcome.
func (e *Engine) fanOut(ctx context.Context, participants []core.Participant, dateRange core.TimeInterval) map[string]core.QueryResult {
	fanCtx, cancel := context.WithTimeout(ctx, e.config.Deadline)
	defer cancel()

	var sem chan struct{}
	if e.config.MaxConcurrentQueries > 0 {
		sem = make(chan struct{}, e.config.MaxConcurrentQueries)
	}

	var wg sync.WaitGroup
	resultCh := make(chan core.QueryResult, len(participants))

	for _, p := range participants {
		wg.Add(1)
		go func(p core.Participant) {
			defer wg.Done()
			if sem != nil {
				sem <- struct{}{}
				defer func() { <-sem }()
			}
			resultCh <- e.queryWithRetry(fanCtx, p, dateRange)
		}(p)
	}

	wg.Wait()
	close(resultCh)

	results := make(map[string]core.QueryResult, len(participants))
	for res := range resultCh {
		results[res.ParticipantID] = res
	}
	return results
}

// queryWithRetry issues one availability call plus up to TimeoutRetries
// retries. Only timeouts are retried: an unreachable endpoint is assumed
// down, not slow. A fan-out deadline that fires mid-call surfaces as a
// timeout for the affected participant.
func (e *Engine) queryWithRetry(ctx context.Context, p core.Participant, dateRange core.TimeInterval) core.QueryResult {
	var last core.QueryResult
	for attempt := 0; attempt <= e.config.TimeoutRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return core.QueryResult{ParticipantID: p.ID, Status: core.QueryTimeout, Err: err}
		}

		callCtx, cancel := context.WithTimeout(ctx, e.config.QueryTimeout)
		last = e.querier.QueryAvailability(callCtx, p, dateRange)
		cancel()

		if last.Status != core.QueryTimeout {
			return last
		}
		if attempt < e.config.TimeoutRetries {
			e.logger.Debug("retrying timed out participant", "participant", p.ID, "attempt", attempt+1)
		}
	}
	return last
}

// intersect folds all windows into the set of intervals free for everyone.
// Windows are re-normalized defensively; custom queriers may hand over raw
// interval lists.
func intersect(windows []core.AvailabilityWindow) []core.TimeInterval {
	common := core.Normalize(windows[0].Intervals)
	for _, w := range windows[1:] {
		common = core.IntersectSets(common, core.Normalize(w.Intervals))
		if len(common) == 0 {
			return nil
		}
	}
	return common
}

// selectSlot picks the earliest-starting candidate of exactly slotDuration,
// trimmed from the start of the earliest qualifying window. Identical starts
// are impossible: equal-start intervals collapse during normalization.
func selectSlot(common []core.TimeInterval, slotDuration time.Duration) (core.TimeInterval, bool) {
	for _, iv := range common {
		if iv.Duration() >= slotDuration {
			return core.TimeInterval{Start: iv.Start, End: iv.Start.Add(slotDuration)}, true
		}
	}
	return core.TimeInterval{}, false
}

// book runs the select-and-reserve loop. A conflict means another negotiation
// won the race for the slot; the lost candidate is carved out of the common
// set and selection reruns, bounded by BookingRetries.
func (e *Engine) book(common []core.TimeInterval, req core.NegotiationRequest, reference string, logger logging.Logger) (core.Outcome, error) {
	conflicted := false
	for attempt := 0; attempt <= e.config.BookingRetries; attempt++ {
		slot, ok := selectSlot(common, req.SlotDuration)
		if !ok {
			reason := core.ReasonNoCommonAvailability
			if conflicted {
				reason = core.ReasonResourceContention
			}
			return core.Outcome{Status: core.OutcomeInfeasible, Reason: reason}, nil
		}

		reservation, err := e.ledger.Reserve(req.ResourceID, slot, reference)
		if err == nil {
			return core.Outcome{Status: core.OutcomeBooked, Reservation: &reservation}, nil
		}
		if !errors.Is(err, core.ErrConflict) {
			return core.Outcome{}, fmt.Errorf("negotiate: reserving %s: %w", slot, err)
		}

		logger.Warn("reservation conflict, re-selecting", "resource_id", req.ResourceID, "slot", slot.String(), "attempt", attempt+1)
		conflicted = true
		common = core.Subtract(common, slot)
	}
	return core.Outcome{Status: core.OutcomeInfeasible, Reason: core.ReasonResourceContention}, nil
}
