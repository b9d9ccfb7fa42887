package emit

import "context"

// NullEmitter implements Emitter by discarding all events. Use it to disable
// event emission without threading a nil check through tracker and listener
// construction.
type NullEmitter struct{}

// NewNullEmitter creates a NullEmitter. Safe for concurrent use; has zero
// overhead.
func NewNullEmitter() *NullEmitter {
	return &NullEmitter{}
}

// Emit discards event.
func (n *NullEmitter) Emit(event Event) {}

// EmitBatch discards events.
func (n *NullEmitter) EmitBatch(_ context.Context, events []Event) error {
	return nil
}

// Flush is a no-op.
func (n *NullEmitter) Flush(_ context.Context) error {
	return nil
}
