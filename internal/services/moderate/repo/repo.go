// Package repo provides the Postgres moderation counter repository
package repo

import (
	"context"
	"errors"

	"reviewflow/internal/modkit/repokit"
	perr "reviewflow/internal/platform/errors"
	"reviewflow/internal/platform/store"
	"reviewflow/internal/services/moderate/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the counter repository
type Storage interface {
	Increment(ctx context.Context, reviewerID string, delta int64) (int64, error)
	Ban(ctx context.Context, reviewerID string) error
	Get(ctx context.Context, reviewerID string) (domain.Counts, error)
}

// Increment implements Storage
// the upsert makes first-violation creation and subsequent increments one
// atomic round trip, concurrent increments for the same reviewer serialize
// on the row
func (s *pg) Increment(ctx context.Context, reviewerID string, delta int64) (int64, error) {
	return store.Scalar[int64](ctx, s.q, `
		INSERT INTO reviewer_counters (reviewer_id, violation_count)
		VALUES ($1, $2)
		ON CONFLICT (reviewer_id) DO UPDATE
			SET violation_count = reviewer_counters.violation_count + EXCLUDED.violation_count
		RETURNING violation_count
	`, reviewerID, delta)
}

// Ban implements Storage
// monotonic, a banned row never flips back
func (s *pg) Ban(ctx context.Context, reviewerID string) error {
	_, err := store.Exec(ctx, s.q, `
		INSERT INTO reviewer_counters (reviewer_id, violation_count, banned)
		VALUES ($1, 0, TRUE)
		ON CONFLICT (reviewer_id) DO UPDATE SET banned = TRUE
	`, reviewerID)
	return err
}

// Get implements Storage, zero Counts for an unseen reviewer
func (s *pg) Get(ctx context.Context, reviewerID string) (domain.Counts, error) {
	c, err := store.One(ctx, s.q, func(r store.Row) (domain.Counts, error) {
		var out domain.Counts
		err := r.Scan(&out.Violations, &out.Banned)
		return out, err
	}, `
		SELECT violation_count, banned
		FROM reviewer_counters
		WHERE reviewer_id = $1
	`, reviewerID)
	if errors.Is(err, perr.ErrNotFound) {
		return domain.Counts{}, nil
	}
	return c, err
}
