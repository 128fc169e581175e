// Package counter tracks per reviewer violation tallies and ban state
package counter

import "context"

// Counts is the moderation ledger entry for one reviewer
type Counts struct {
	Violations int64
	Banned     bool
}

// Store is the counter seam used by moderation
// implementations must make Increment atomic so concurrent stages
// never lose a violation
type Store interface {
	// Increment adds delta to the reviewer's violation count and
	// returns the new total
	Increment(ctx context.Context, reviewer string, delta int64) (int64, error)

	// Ban marks the reviewer banned, idempotent, never unbans
	Ban(ctx context.Context, reviewer string) error

	// Get returns the current counts, zero value for unseen reviewers
	Get(ctx context.Context, reviewer string) (Counts, error)
}
