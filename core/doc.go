// Package core provides the foundational domain types and interval algebra
// used by CourtMesh. It defines the core abstractions for:
//
//   - TimeInterval (half-open [start, end) windows with overlap/intersection)
//   - AvailabilityWindow (one participant's free intervals for a date range)
//   - QueryResult (discriminated outcome of one participant query)
//   - Reservation (an immutable booking held by a resource ledger)
//   - Outcome (the terminal result of one negotiation)
//
// The package intentionally keeps implementation concerns (transport, engine
// orchestration, concrete ledgers) out of scope, exposing small interfaces to
// enable custom backends and extensions. All exported identifiers include
// concise documentation to aid discoverability and external consumption.
package core
