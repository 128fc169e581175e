// Package pipeline owns the event router: the declarative table binding
// source containers to stage workers, and the batch runner that drives a
// whole run through the in-process bus
package pipeline

import (
	"context"

	"reviewflow/internal/adapters/events"
	perr "reviewflow/internal/platform/errors"
)

// Containers names the stage containers
type Containers struct {
	Raw       string
	Split     string
	Processed string
	Clean     string
	Flagged   string
	Final     string
}

// DefaultContainers returns the conventional stage names
func DefaultContainers() Containers {
	return Containers{
		Raw:       "raw",
		Split:     "split",
		Processed: "processed",
		Clean:     "clean",
		Flagged:   "flagged",
		Final:     "final",
	}
}

// Worker is one stage handler bound to a source container
type Worker interface {
	Name() string
	HandleCreated(ctx context.Context, ev events.Event) error
}

// Binding is one arc of the state machine
type Binding struct {
	Source string
	Worker Worker
}

// Bindings builds the routing table
// {raw→split, split→preprocess, processed→moderate, clean→analyze,
// flagged→analyze}, the two sentiment arcs are the fan-in
func Bindings(c Containers, splitter, pre, mod, an Worker) []Binding {
	return []Binding{
		{Source: c.Raw, Worker: splitter},
		{Source: c.Split, Worker: pre},
		{Source: c.Processed, Worker: mod},
		{Source: c.Clean, Worker: an},
		{Source: c.Flagged, Worker: an},
	}
}

// Install subscribes every binding on the bus
// installation is idempotent, the bus keys subscriptions by
// (container, worker name) so installing twice replaces rather than
// duplicates
func Install(bus events.Bus, bindings []Binding, obs *Observer) error {
	for _, b := range bindings {
		h := b.Worker.HandleCreated
		if obs != nil {
			h = obs.Wrap(b.Worker.Name(), h)
		}
		if err := bus.Subscribe(b.Source, b.Worker.Name(), h); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeUnavailable, "pipeline: bind %s -> %s", b.Source, b.Worker.Name())
		}
	}
	return nil
}

// Handler folds the routing table into a single dispatch function, for
// substrates that deliver all containers through one stream (SQS)
func Handler(bindings []Binding, obs *Observer) events.Handler {
	byContainer := make(map[string][]events.Handler, len(bindings))
	for _, b := range bindings {
		h := b.Worker.HandleCreated
		if obs != nil {
			h = obs.Wrap(b.Worker.Name(), h)
		}
		byContainer[b.Source] = append(byContainer[b.Source], h)
	}
	return func(ctx context.Context, ev events.Event) error {
		hs, ok := byContainer[ev.Container]
		if !ok {
			// not a pipeline container, drop silently
			return nil
		}
		for _, h := range hs {
			if err := h(ctx, ev); err != nil {
				return err
			}
		}
		return nil
	}
}
