package blob

import (
	"context"

	"reviewflow/internal/adapters/events"
)

// Evented decorates a Store so every successful Put publishes a
// creation event on the bus, this is what triggers pipeline stages
type Evented struct {
	inner Store
	bus   events.Bus
}

// NewEvented wraps inner so writes notify bus
func NewEvented(inner Store, bus events.Bus) *Evented {
	return &Evented{inner: inner, bus: bus}
}

// Put writes then publishes, a failed write publishes nothing
func (e *Evented) Put(ctx context.Context, container, key string, data []byte) error {
	if err := e.inner.Put(ctx, container, key, data); err != nil {
		return err
	}
	return e.bus.Publish(ctx, events.Event{Container: container, Key: key})
}

// Get delegates to the wrapped store
func (e *Evented) Get(ctx context.Context, container, key string) ([]byte, error) {
	return e.inner.Get(ctx, container, key)
}

// List delegates to the wrapped store
func (e *Evented) List(ctx context.Context, container, prefix string) ([]string, error) {
	return e.inner.List(ctx, container, prefix)
}
