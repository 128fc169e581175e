package module

import (
	"context"

	"reviewflow/internal/adapters/counter"
	"reviewflow/internal/services/moderate/domain"
)

// Adapt wraps a generic counter store (memory, DynamoDB) as the domain port
func Adapt(st counter.Store) domain.CounterPort { return storeAdapter{inner: st} }

type storeAdapter struct{ inner counter.Store }

func (a storeAdapter) Increment(ctx context.Context, reviewerID string, delta int64) (int64, error) {
	return a.inner.Increment(ctx, reviewerID, delta)
}

func (a storeAdapter) Ban(ctx context.Context, reviewerID string) error {
	return a.inner.Ban(ctx, reviewerID)
}

func (a storeAdapter) Get(ctx context.Context, reviewerID string) (domain.Counts, error) {
	c, err := a.inner.Get(ctx, reviewerID)
	if err != nil {
		return domain.Counts{}, err
	}
	return domain.Counts{Violations: c.Violations, Banned: c.Banned}, nil
}
