// Package courtmesh provides a high-level façade over the negotiation engine
// and its collaborators (participant client, resource ledger & logging)
// enabling rapid construction of multi-party scheduling coordinators. Most
// applications interact with this package by:
//  1. Creating a CourtMesh via New() (optionally overriding the in-memory ledger or the HTTP client)
//  2. Calling Negotiate with the participants, date range, resource and slot duration
//  3. Acting on the returned outcome (booked, infeasible or partial failure)
//
// The façade delegates orchestration to engine.Engine while keeping setup and
// usage ergonomics concise. All defaults are safe for local development and
// testing; production deployments typically supply a tuned engine.Config and
// a structured logger.
package courtmesh

import (
	"context"

	"github.com/hupe1980/courtmesh/core"
	"github.com/hupe1980/courtmesh/engine"
	"github.com/hupe1980/courtmesh/ledger"
	"github.com/hupe1980/courtmesh/logging"
	"github.com/hupe1980/courtmesh/participant"
)

// Options configures the CourtMesh instance.
type Options struct {
	// EngineConfig holds the negotiation timeouts and retry budgets
	// (per-call timeout T, fan-out deadline D, booking retries R).
	EngineConfig engine.Config

	// Querier issues availability queries. Defaults to the HTTP participant
	// client with circuit breakers enabled.
	Querier core.AvailabilityQuerier

	// Ledger is the reservation authority. Defaults to the in-memory ledger.
	Ledger core.Ledger

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// CourtMesh is the high-level façade aggregating the underlying engine and services.
type CourtMesh struct {
	opts   Options
	engine *engine.Engine
}

// New creates a new CourtMesh instance with optional overrides. Any unset
// service is initialized with an in-memory or default implementation.
func New(optFns ...func(o *Options)) *CourtMesh {
	opts := Options{
		EngineConfig: engine.DefaultConfig,
		Ledger:       ledger.NewInMemoryLedger(),
		Logger:       logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Querier == nil {
		opts.Querier = participant.NewClient(func(o *participant.Options) {
			o.Logger = opts.Logger
		})
	}

	e := engine.New(opts.Querier, opts.Ledger, func(o *engine.Options) {
		o.Config = opts.EngineConfig
		o.Logger = opts.Logger
	})

	return &CourtMesh{opts: opts, engine: e}
}

// Negotiate runs one end-to-end negotiation and returns its outcome. See
// engine.Engine.Negotiate for the full semantics.
func (m *CourtMesh) Negotiate(ctx context.Context, req core.NegotiationRequest) (core.Outcome, error) {
	return m.engine.Negotiate(ctx, req)
}

// Ledger exposes the reservation authority, e.g. to seed maintenance blocks
// or inspect bookings.
func (m *CourtMesh) Ledger() core.Ledger {
	return m.opts.Ledger
}
