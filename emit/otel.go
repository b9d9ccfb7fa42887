package emit

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// OTelEmitter implements Emitter by creating an OpenTelemetry span per event.
//
//   - Span name: event.Msg ("vertex_event", "edge_event", "drain_start",
//     "drain_end").
//   - Attributes: RunID, Step, NodeID, and event.Meta (duration_ms,
//     changelist_size, deleted, trigger).
//   - Status: error if event.Meta["error"] is set.
//
// Each span covers a single instant rather than a duration: it is started
// and ended immediately in Emit.
//
// Usage:
//
//	tracer := otel.Tracer("depgraph-go")
//	emitter := emit.NewOTelEmitter(tracer)
//	tr := depgraph.NewTracker(store, emitCallback, build, depgraph.WithEmitter(emitter))
type OTelEmitter struct {
	tracer trace.Tracer
}

// NewOTelEmitter creates an OTelEmitter that records spans on tracer (e.g.
// otel.Tracer("depgraph-go")).
func NewOTelEmitter(tracer trace.Tracer) *OTelEmitter {
	return &OTelEmitter{tracer: tracer}
}

// Emit creates and immediately ends a span for event.
func (o *OTelEmitter) Emit(event Event) {
	ctx := context.Background()
	_, span := o.tracer.Start(ctx, event.Msg)
	defer span.End()

	o.addStandardAttributes(span, event)
	o.addMetadataAttributes(span, event.Meta)

	if err, ok := event.Meta["error"].(string); ok {
		span.SetStatus(codes.Error, err)
		span.RecordError(fmt.Errorf("%s", err))
	}
}

// EmitBatch creates one span per event, in order. The batch span processor
// handles export batching; this method does not add its own buffering.
func (o *OTelEmitter) EmitBatch(ctx context.Context, events []Event) error {
	for _, event := range events {
		_, span := o.tracer.Start(ctx, event.Msg)

		o.addStandardAttributes(span, event)
		o.addMetadataAttributes(span, event.Meta)

		if err, ok := event.Meta["error"].(string); ok {
			span.SetStatus(codes.Error, err)
			span.RecordError(fmt.Errorf("%s", err))
		}

		span.End()
	}
	return nil
}

// Flush calls ForceFlush on the global tracer provider, if it supports it.
// A noop provider (no exporter configured) returns nil without doing
// anything.
func (o *OTelEmitter) Flush(ctx context.Context) error {
	tp := otel.GetTracerProvider()

	type flusher interface {
		ForceFlush(context.Context) error
	}

	if f, ok := tp.(flusher); ok {
		return f.ForceFlush(ctx)
	}
	return nil
}

// addStandardAttributes adds the core event fields as span attributes.
func (o *OTelEmitter) addStandardAttributes(span trace.Span, event Event) {
	span.SetAttributes(
		attribute.String("depgraph.run_id", event.RunID),
		attribute.Int("depgraph.step", event.Step),
		attribute.String("depgraph.node_id", event.NodeID),
	)
}

// addMetadataAttributes converts event.Meta entries to span attributes,
// namespacing duration_ms, changelist_size, trigger and deleted under
// depgraph.*. Other keys (including error) pass through under their own
// name, so metadata on events a host emits itself still reaches the trace.
func (o *OTelEmitter) addMetadataAttributes(span trace.Span, meta map[string]interface{}) {
	if meta == nil {
		return
	}

	for key, value := range meta {
		attrKey := key
		switch key {
		case "duration_ms":
			attrKey = "depgraph.duration_ms"
		case "changelist_size":
			attrKey = "depgraph.changelist_size"
		case "trigger":
			attrKey = "depgraph.trigger"
		case "deleted":
			attrKey = "depgraph.deleted"
		}

		switch v := value.(type) {
		case string:
			span.SetAttributes(attribute.String(attrKey, v))
		case int:
			span.SetAttributes(attribute.Int(attrKey, v))
		case int64:
			span.SetAttributes(attribute.Int64(attrKey, v))
		case float64:
			span.SetAttributes(attribute.Float64(attrKey, v))
		case bool:
			span.SetAttributes(attribute.Bool(attrKey, v))
		case time.Duration:
			span.SetAttributes(attribute.Int64(attrKey, int64(v/time.Millisecond)))
		default:
			span.SetAttributes(attribute.String(attrKey, fmt.Sprintf("%v", v)))
		}
	}
}
