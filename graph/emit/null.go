package emit

import "context"

// NullEmitter implements Emitter by discarding every event.
//
// It is the graph facade's default when no Emitter is configured, and is
// useful in tests that don't care about observability output.
type NullEmitter struct{}

// NewNullEmitter returns a NullEmitter.
func NewNullEmitter() *NullEmitter {
	return &NullEmitter{}
}

// Emit discards event.
func (n *NullEmitter) Emit(Event) {}

// EmitBatch discards events and always returns nil.
func (n *NullEmitter) EmitBatch(context.Context, []Event) error { return nil }

// Flush is a no-op.
func (n *NullEmitter) Flush(context.Context) error { return nil }
