// Package emit provides event emission and observability for dependency-graph
// propagation.
package emit

import "context"

// Emitter receives observability events from the listener and drain domains:
// vertex/edge events as they arrive, and drain_start/drain_end around each
// Tracker.Drain call.
//
// Implementations should be non-blocking (buffer or send asynchronously
// rather than stall the caller), safe to call from either domain (though
// never concurrently, per the two-domain contract), and resilient to
// backend failures — an Emitter must never panic or otherwise take down the
// tracker it is attached to.
type Emitter interface {
	// Emit sends a single event to the configured backend. Must not block or
	// panic; a slow or unavailable backend should buffer, drop, or log
	// rather than stall the listener or drain domain.
	Emit(event Event)

	// EmitBatch sends events in a single operation, preserving order.
	// Returns an error only for catastrophic failures (e.g. misconfigured
	// backend); individual event failures should be logged, not returned.
	EmitBatch(ctx context.Context, events []Event) error

	// Flush blocks until all buffered events are sent or ctx is done. Safe
	// to call more than once. Call it before shutdown so a buffering
	// emitter (e.g. OTelEmitter) doesn't lose its tail.
	Flush(ctx context.Context) error
}
