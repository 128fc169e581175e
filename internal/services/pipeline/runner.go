package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"reviewflow/internal/adapters/blob"
	"reviewflow/internal/adapters/events"
	perr "reviewflow/internal/platform/errors"
	"reviewflow/internal/platform/logger"
)

// Report summarizes one batch run
type Report struct {
	RunID       string                `json:"run_id"`
	BatchKey    string                `json:"batch_key"`
	SoftSkips   int64                 `json:"soft_skips"`
	Delivered   int64                 `json:"delivered"`
	Redelivered int64                 `json:"redelivered"`
	DeadLetters int                   `json:"dead_letters"`
	Stages      map[string]StageStats `json:"stages,omitempty"`
	Elapsed     time.Duration         `json:"elapsed"`
}

// Runner drives a whole batch through the in-process bus and waits for the
// cascade to drain
type Runner struct {
	// Store must be the event-publishing decorator, a plain store would
	// never trigger stage one
	Store blob.Store
	Bus   *events.Memory
	Raw   string

	// Skips reports the splitter's soft-skip tally, optional
	Skips func() int64
	// Observer supplies per-stage stats for the report, optional
	Observer *Observer
}

// RunBatch uploads one batch payload and blocks until every chained
// delivery has settled, then returns the run report
// a single bad record never fails the batch, terminal stage failures
// surface as dead-letter counts on the report
func (r *Runner) RunBatch(ctx context.Context, key string, payload []byte) (Report, error) {
	runID := uuid.NewString()
	ctx = logger.WithRun(ctx, runID)
	log := logger.C(ctx)

	if r.Observer != nil {
		r.Observer.SetRun(runID)
	}

	var skipsBefore int64
	if r.Skips != nil {
		skipsBefore = r.Skips()
	}
	before := r.Bus.Stats()
	start := time.Now()

	if err := r.Store.Put(ctx, r.Raw, key, payload); err != nil {
		return Report{}, perr.Wrapf(err, perr.ErrorCodeUnavailable, "pipeline: upload %s/%s", r.Raw, key)
	}
	if err := r.Bus.Quiesce(ctx); err != nil {
		return Report{}, perr.Wrapf(err, perr.ErrorCodeUnavailable, "pipeline: drain run %s", runID)
	}

	after := r.Bus.Stats()
	rep := Report{
		RunID:       runID,
		BatchKey:    key,
		Delivered:   after.Delivered - before.Delivered,
		Redelivered: after.Redelivered - before.Redelivered,
		DeadLetters: int(after.DeadLettered - before.DeadLettered),
		Elapsed:     time.Since(start),
	}
	if r.Skips != nil {
		rep.SoftSkips = r.Skips() - skipsBefore
	}
	if r.Observer != nil {
		rep.Stages = r.Observer.Stats()
	}

	log.Info().
		Str("batch", key).
		Int64("delivered", rep.Delivered).
		Int64("redelivered", rep.Redelivered).
		Int("dead_letters", rep.DeadLetters).
		Int64("soft_skips", rep.SoftSkips).
		Dur("elapsed", rep.Elapsed).
		Msg("pipeline: batch run complete")
	return rep, nil
}
