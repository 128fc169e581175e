// Package analyze is the terminal sentiment stage
// it fans in from both the clean and flagged containers and writes every
// record, same key, to the final container
package analyze

import (
	"context"

	"reviewflow/internal/adapters/blob"
	"reviewflow/internal/adapters/events"
	"reviewflow/internal/core/sentiment"
	"reviewflow/internal/core/textnorm"
	perr "reviewflow/internal/platform/errors"
	"reviewflow/internal/platform/logger"
	"reviewflow/internal/services/reviews"
)

// ClassifyFunc is the injected sentiment capability
// the label must always be one of positive, neutral, negative
type ClassifyFunc func(text string) (label string, score float64)

// Default builds the capability on the built-in valence lexicon
func Default() ClassifyFunc {
	a := sentiment.New()
	norm := textnorm.New()
	return func(text string) (string, float64) {
		res := a.Score(norm.Tokens(text))
		return string(res.Label), res.Compound
	}
}

// Config for the sentiment worker
type Config struct {
	// Dest is the terminal container
	Dest string
}

// Service implements the sentiment stage
type Service struct {
	store    blob.Store
	classify ClassifyFunc
	dest     string
}

// New constructs the worker, a nil capability gets the default lexicon
func New(store blob.Store, classify ClassifyFunc, cfg Config) *Service {
	if classify == nil {
		classify = Default()
	}
	return &Service{store: store, classify: classify, dest: cfg.Dest}
}

// Name identifies this worker on the event bus
func (s *Service) Name() string { return "analyze" }

// HandleCreated scores one record from either branch
func (s *Service) HandleCreated(ctx context.Context, ev events.Event) error {
	payload, err := s.store.Get(ctx, ev.Container, ev.Key)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "analyze: read %s/%s", ev.Container, ev.Key)
	}

	rec, err := reviews.Decode(payload)
	if err != nil {
		logger.C(ctx).Warn().Err(err).Str("key", ev.Key).Msg("analyze: malformed record skipped")
		return nil
	}

	label, score := s.classify(rec.ReviewText)
	if !validLabel(label) {
		return perr.Newf(perr.ErrorCodeInvalidArgument, "analyze: capability returned label %q", label)
	}
	rec.SentimentLabel = label
	rec.SentimentScore = reviews.Float64(score)

	body, err := reviews.Encode(rec)
	if err != nil {
		return err
	}
	if err := s.store.Put(ctx, s.dest, ev.Key, body); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "analyze: write %s/%s", s.dest, ev.Key)
	}
	return nil
}

func validLabel(l string) bool {
	switch sentiment.Label(l) {
	case sentiment.Positive, sentiment.Neutral, sentiment.Negative:
		return true
	}
	return false
}
