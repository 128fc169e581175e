// Package preprocess extends a review with its normalized token and lemma
// sequences, same key, processed container
package preprocess

import (
	"context"

	"reviewflow/internal/adapters/blob"
	"reviewflow/internal/adapters/events"
	"reviewflow/internal/core/textnorm"
	perr "reviewflow/internal/platform/errors"
	"reviewflow/internal/platform/logger"
	"reviewflow/internal/services/reviews"
)

// NormalizeFunc is the injected normalization capability
// it must be deterministic and total over Unicode text, empty input yields
// empty sequences, never an error
type NormalizeFunc func(text string) (tokens, lemmas []string)

// Default builds the normalization capability on the built-in chain
func Default() NormalizeFunc {
	norm := textnorm.New()
	return func(text string) ([]string, []string) {
		words := textnorm.Tokenize(norm.Normalize(text))
		tokens := make([]string, 0, len(words))
		for _, w := range words {
			if textnorm.IsStopword(w) {
				continue
			}
			tokens = append(tokens, w)
		}
		lemmas := make([]string, len(tokens))
		for i, w := range tokens {
			lemmas[i] = textnorm.Lemma(w)
		}
		return tokens, lemmas
	}
}

// Config for the preprocessing worker
type Config struct {
	// Dest is the container extended records are written to
	Dest string
}

// Service implements the preprocessing stage
type Service struct {
	store     blob.Store
	normalize NormalizeFunc
	dest      string
}

// New constructs the worker, a nil capability gets the default chain
func New(store blob.Store, normalize NormalizeFunc, cfg Config) *Service {
	if normalize == nil {
		normalize = Default()
	}
	return &Service{store: store, normalize: normalize, dest: cfg.Dest}
}

// Name identifies this worker on the event bus
func (s *Service) Name() string { return "preprocess" }

// HandleCreated processes one single-review creation event
// capability panics are not caught here, and nothing is written unless the
// full extended record is ready, so a failed invocation leaves no partial
// object behind
func (s *Service) HandleCreated(ctx context.Context, ev events.Event) error {
	payload, err := s.store.Get(ctx, ev.Container, ev.Key)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "preprocess: read %s/%s", ev.Container, ev.Key)
	}

	rec, err := reviews.Decode(payload)
	if err != nil {
		// split already validated, anything unreadable here is junk
		logger.C(ctx).Warn().Err(err).Str("key", ev.Key).Msg("preprocess: malformed record skipped")
		return nil
	}

	rec.Tokens, rec.Lemmas = s.normalize(rec.ReviewText)

	body, err := reviews.Encode(rec)
	if err != nil {
		return err
	}
	if err := s.store.Put(ctx, s.dest, ev.Key, body); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "preprocess: write %s/%s", s.dest, ev.Key)
	}
	return nil
}
