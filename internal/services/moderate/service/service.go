// Package service implements the profanity check and moderation stage
package service

import (
	"context"

	"reviewflow/internal/adapters/blob"
	"reviewflow/internal/adapters/events"
	perr "reviewflow/internal/platform/errors"
	"reviewflow/internal/platform/logger"
	"reviewflow/internal/services/moderate/domain"
	"reviewflow/internal/services/reviews"
)

// Config for the moderation service
type Config struct {
	// Threshold is T, a reviewer whose count strictly exceeds it is banned
	Threshold int64
	// Clean and Flagged are the two destination containers
	Clean   string
	Flagged string
}

// Service implements the moderation stage
//
// under at-least-once delivery a duplicate invocation of a flagged record
// over-counts one violation, that is the accepted, bounded weakness of a
// best-effort moderation tally, the ban decision itself stays monotonic
type Service struct {
	store   blob.Store
	counter domain.CounterPort
	detect  domain.DetectFunc
	cfg     Config
}

// New constructs the moderation service, a nil capability gets the
// built-in lexicon detector
func New(store blob.Store, counter domain.CounterPort, detect domain.DetectFunc, cfg Config) *Service {
	if cfg.Threshold <= 0 {
		cfg.Threshold = 3
	}
	if detect == nil {
		detect = DefaultDetector()
	}
	return &Service{store: store, counter: counter, detect: detect, cfg: cfg}
}

// Name identifies this worker on the event bus
func (s *Service) Name() string { return "moderate" }

// Threshold reports the configured ban threshold T
func (s *Service) Threshold() int64 { return s.cfg.Threshold }

// HandleCreated moderates one processed record
// order is fixed: classify, then count, then route, classification or
// counter failure aborts before anything is written so redelivery starts
// clean
func (s *Service) HandleCreated(ctx context.Context, ev events.Event) error {
	payload, err := s.store.Get(ctx, ev.Container, ev.Key)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "moderate: read %s/%s", ev.Container, ev.Key)
	}

	rec, err := reviews.Decode(payload)
	if err != nil {
		logger.C(ctx).Warn().Err(err).Str("key", ev.Key).Msg("moderate: malformed record skipped")
		return nil
	}

	score, flagged := s.detect(rec.ReviewText, rec.Summary)
	rec.IsFlagged = reviews.Bool(flagged)
	rec.ProfanityScore = reviews.Float64(score)

	dest := s.cfg.Clean
	if flagged {
		dest = s.cfg.Flagged
		counts, err := s.punish(ctx, rec.ReviewerID)
		if err != nil {
			// counter-store trouble is retryable, never swallowed
			return err
		}
		rec.ViolationCount = reviews.Int64(counts.Violations)
		rec.ReviewerBanned = reviews.Bool(counts.Banned)

		logger.C(ctx).Info().
			Str("reviewer", rec.ReviewerID).
			Str("key", ev.Key).
			Int64("violations", counts.Violations).
			Bool("banned", counts.Banned).
			Msg("moderate: review flagged")
	}

	body, err := reviews.Encode(rec)
	if err != nil {
		return err
	}
	if err := s.store.Put(ctx, dest, ev.Key, body); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "moderate: write %s/%s", dest, ev.Key)
	}
	return nil
}

// punish records one violation and applies the ban rule
// increment-then-compare rides on the counter store's atomic increment,
// there is no read-modify-write here
func (s *Service) punish(ctx context.Context, reviewerID string) (domain.Counts, error) {
	n, err := s.counter.Increment(ctx, reviewerID, 1)
	if err != nil {
		return domain.Counts{}, perr.Wrapf(err, perr.ErrorCodeUnavailable, "moderate: increment %s", reviewerID)
	}

	if n > s.cfg.Threshold {
		if err := s.counter.Ban(ctx, reviewerID); err != nil {
			return domain.Counts{}, perr.Wrapf(err, perr.ErrorCodeUnavailable, "moderate: ban %s", reviewerID)
		}
		return domain.Counts{Violations: n, Banned: true}, nil
	}

	// below threshold, echo whatever ban state an earlier run left behind
	cur, err := s.counter.Get(ctx, reviewerID)
	if err != nil {
		return domain.Counts{}, perr.Wrapf(err, perr.ErrorCodeUnavailable, "moderate: get %s", reviewerID)
	}
	return domain.Counts{Violations: n, Banned: cur.Banned}, nil
}
