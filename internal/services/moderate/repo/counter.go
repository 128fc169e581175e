package repo

import (
	"context"

	"reviewflow/internal/modkit/repokit"
	"reviewflow/internal/services/moderate/domain"
)

// Counter adapts the Postgres storage to domain.CounterPort
// each op runs in its own transaction through the platform TxRunner
type Counter struct {
	db repokit.TxRunner
	b  repokit.Binder[Storage]
}

// NewCounter constructs a Postgres-backed counter port
func NewCounter(db repokit.TxRunner) *Counter {
	return &Counter{db: db, b: NewPG()}
}

// Increment implements domain.CounterPort
func (c *Counter) Increment(ctx context.Context, reviewerID string, delta int64) (int64, error) {
	var n int64
	err := repokit.WithTx(ctx, c.db, func(q repokit.Queryer) error {
		var err error
		n, err = c.b.Bind(q).Increment(ctx, reviewerID, delta)
		return err
	})
	return n, err
}

// Ban implements domain.CounterPort
func (c *Counter) Ban(ctx context.Context, reviewerID string) error {
	return repokit.WithTx(ctx, c.db, func(q repokit.Queryer) error {
		return c.b.Bind(q).Ban(ctx, reviewerID)
	})
}

// Get implements domain.CounterPort
func (c *Counter) Get(ctx context.Context, reviewerID string) (domain.Counts, error) {
	var out domain.Counts
	err := repokit.WithTx(ctx, c.db, func(q repokit.Queryer) error {
		var err error
		out, err = c.b.Bind(q).Get(ctx, reviewerID)
		return err
	})
	return out, err
}
