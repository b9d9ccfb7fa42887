package emit

// Event represents an observability event emitted during dependency-graph
// propagation.
//
// The tracker emits four kinds of event (the Msg value):
//   - "vertex_event" and "edge_event": raw notifications reaching the listener
//   - "drain_start" and "drain_end": around each drain, with the change-list
//     size and duration on drain_end
//
// Events are emitted to an Emitter which can:
//   - Log to stdout/stderr
//   - Send to OpenTelemetry
//   - Store in time-series databases
//   - Trigger alerts
type Event struct {
	// RunID identifies the drain (batch) that emitted this event. Despite
	// the name, this is a propagation batch id, not a workflow run id; the
	// field is kept so the rest of this package's backends (log, buffered,
	// otel) need no changes to consume it. The tracker sets it on
	// drain_start and drain_end only; it is empty for vertex_event and
	// edge_event.
	RunID string

	// Step is the drain sequence number (monotonically increasing across
	// drains for a given tracker). Zero for events that are not tied to a
	// specific drain (vertex_event, edge_event).
	Step int

	// NodeID identifies the vertex (as "type:name") this event concerns.
	// For edge_event it holds the edge label instead. Empty string for
	// batch-level events (drain_start, drain_end).
	NodeID string

	// Msg is a human-readable description of the event.
	Msg string

	// Meta contains additional structured data specific to this event.
	// Keys the tracker sets:
	//   - "duration_ms": drain duration in milliseconds (drain_end)
	//   - "changelist_size": number of entries appended during a drain
	//     (drain_end)
	//   - "deleted": whether the vertex is marked deleted (vertex_event)
	// Keys OTelEmitter also recognizes when a host emits them itself:
	//   - "error": error details; marks the span as failed
	//   - "trigger": a trigger label, recorded as depgraph.trigger
	Meta map[string]interface{}
}
