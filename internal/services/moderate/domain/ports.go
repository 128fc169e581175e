package domain

import "context"

// CounterPort is the durable per-reviewer violation counter
// Increment must be atomic on the underlying store, callers never
// read-then-write around it
type CounterPort interface {
	// Increment adds delta and returns the resulting count in one atomic op
	Increment(ctx context.Context, reviewerID string, delta int64) (int64, error)
	// Ban marks the reviewer banned, idempotent, never unbans
	Ban(ctx context.Context, reviewerID string) error
	// Get returns current state, zero Counts for an unseen reviewer
	Get(ctx context.Context, reviewerID string) (Counts, error)
}

// DetectFunc is the injected profanity classification capability
type DetectFunc func(text, summary string) (score float64, flagged bool)

// QueryPort exposes read-only moderation state to the API
type QueryPort interface {
	Get(ctx context.Context, reviewerID string) (Counts, error)
}
