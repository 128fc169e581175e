// Package split fans a batch upload out into one object per review
//
// a batch landing in the raw container triggers HandleCreated once, each
// record it writes then fires its own creation event downstream
package split

import (
	"context"
	"sync/atomic"

	"reviewflow/internal/adapters/blob"
	"reviewflow/internal/adapters/events"
	perr "reviewflow/internal/platform/errors"
	"reviewflow/internal/platform/logger"
	"reviewflow/internal/services/reviews"
)

// Config for the splitter
type Config struct {
	// Dest is the container single-review objects are written to
	Dest string
}

// Service implements the stage-0 fan-out
type Service struct {
	store blob.Store
	dest  string

	skipped atomic.Int64
}

// New constructs the splitter
func New(store blob.Store, cfg Config) *Service {
	return &Service{store: store, dest: cfg.Dest}
}

// Name identifies this worker on the event bus
func (s *Service) Name() string { return "split" }

// Skipped reports how many malformed records were soft-skipped so far
func (s *Service) Skipped() int64 { return s.skipped.Load() }

// HandleCreated processes one batch creation event
// a malformed record is logged and counted, it never aborts the siblings,
// storage failures are returned so the substrate redelivers
func (s *Service) HandleCreated(ctx context.Context, ev events.Event) error {
	log := logger.C(ctx)

	payload, err := s.store.Get(ctx, ev.Container, ev.Key)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "split: read %s/%s", ev.Container, ev.Key)
	}

	msgs, err := reviews.DecodeBatch(payload)
	if err != nil {
		// whole batch unreadable, malformed input is locally recovered
		s.skipped.Add(1)
		log.Warn().Err(err).Str("key", ev.Key).Msg("split: unreadable batch skipped")
		return nil
	}

	var wrote int
	for i, raw := range msgs {
		rec, err := reviews.Decode(raw)
		if err != nil {
			s.skipped.Add(1)
			log.Warn().Err(err).Str("key", ev.Key).Int("index", i).Msg("split: malformed record skipped")
			continue
		}

		body, err := reviews.Encode(rec)
		if err != nil {
			s.skipped.Add(1)
			log.Warn().Err(err).Str("key", ev.Key).Int("index", i).Msg("split: record encode skipped")
			continue
		}

		key := reviews.SplitKey(ev.Key, i, rec)
		if err := s.store.Put(ctx, s.dest, key, body); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeUnavailable, "split: write %s/%s", s.dest, key)
		}
		wrote++
	}

	log.Debug().
		Str("key", ev.Key).
		Int("records", len(msgs)).
		Int("written", wrote).
		Msg("split: batch fanned out")
	return nil
}
