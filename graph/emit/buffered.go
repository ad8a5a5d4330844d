package emit

import (
	"context"
	"sync"
)

// BufferedEmitter implements Emitter by storing every event in memory,
// in emission order. Useful for tests asserting on event sequences and
// for tools that want to inspect the trace/prune history after the fact.
//
// Safe for concurrent use.
type BufferedEmitter struct {
	mu     sync.RWMutex
	events []Event
}

// NewBufferedEmitter returns an empty BufferedEmitter.
func NewBufferedEmitter() *BufferedEmitter {
	return &BufferedEmitter{}
}

// Emit appends event to the buffer.
func (b *BufferedEmitter) Emit(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

// EmitBatch appends events to the buffer in order.
func (b *BufferedEmitter) EmitBatch(_ context.Context, events []Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, events...)
	return nil
}

// Flush is a no-op: BufferedEmitter never defers writes.
func (b *BufferedEmitter) Flush(_ context.Context) error { return nil }

// All returns a copy of every event recorded so far, in emission order.
func (b *BufferedEmitter) All() []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	result := make([]Event, len(b.events))
	copy(result, b.events)
	return result
}

// ByKind returns a copy of the recorded events matching kind, in
// emission order.
func (b *BufferedEmitter) ByKind(kind Kind) []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var result []Event
	for _, e := range b.events {
		if e.Kind == kind {
			result = append(result, e)
		}
	}
	return result
}

// Clear discards every recorded event.
func (b *BufferedEmitter) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = nil
}
