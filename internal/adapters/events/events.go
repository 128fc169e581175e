// Package events defines the object creation event model and bus seam
package events

import "context"

// Event notifies that an object was created in a container
// Key is the object name within the container
type Event struct {
	Container string
	Key       string
}

// Handler processes one event
// returning an error requests redelivery, the bus decides how
type Handler func(ctx context.Context, evt Event) error

// Bus routes creation events to subscribed handlers
type Bus interface {
	// Publish emits an event for fan out to all handlers on the container
	Publish(ctx context.Context, evt Event) error

	// Subscribe registers a named handler for a container
	// re-registering the same (container, name) pair replaces the handler
	Subscribe(container, name string, h Handler) error
}

// Waiter is implemented by buses that can drain in flight deliveries
type Waiter interface {
	// Quiesce blocks until all published events have settled or ctx expires
	Quiesce(ctx context.Context) error
}
