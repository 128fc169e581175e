package pipeline

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"reviewflow/internal/adapters/events"
	"reviewflow/internal/platform/logger"
	"reviewflow/internal/platform/store"
)

// StageStats counts outcomes for one stage
type StageStats struct {
	Handled int64
	Failed  int64
}

// Observer instruments stage handlers with per-stage counters and an
// optional ClickHouse outcome sink
type Observer struct {
	mu    sync.Mutex
	stats map[string]*StageStats

	sink  store.Clickhouse
	table string
	runID atomic.Value // string
}

// NewObserver constructs an observer
// sink may be nil, then only in-memory counters are kept
func NewObserver(sink store.Clickhouse, table string) *Observer {
	o := &Observer{stats: map[string]*StageStats{}, sink: sink, table: table}
	o.runID.Store("")
	return o
}

// SetRun tags subsequent sink rows with the run id
func (o *Observer) SetRun(runID string) { o.runID.Store(runID) }

// Stats returns a copy of the per-stage counters
func (o *Observer) Stats() map[string]StageStats {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make(map[string]StageStats, len(o.stats))
	for k, v := range o.stats {
		out[k] = *v
	}
	return out
}

// Wrap decorates one stage handler
func (o *Observer) Wrap(stage string, h events.Handler) events.Handler {
	return func(ctx context.Context, ev events.Event) error {
		start := time.Now()
		err := h(ctx, ev)
		elapsed := time.Since(start)

		o.mu.Lock()
		st, ok := o.stats[stage]
		if !ok {
			st = &StageStats{}
			o.stats[stage] = st
		}
		st.Handled++
		if err != nil {
			st.Failed++
		}
		o.mu.Unlock()

		o.record(ctx, stage, ev, err, elapsed)
		return err
	}
}

// record ships one outcome row to the analytics sink
// sink failure is logged and dropped, analytics never fail the pipeline
func (o *Observer) record(ctx context.Context, stage string, ev events.Event, handlerErr error, elapsed time.Duration) {
	if o.sink == nil {
		return
	}
	status := "ok"
	if handlerErr != nil {
		status = "error"
	}
	row := []any{
		o.runID.Load().(string),
		stage,
		ev.Container,
		ev.Key,
		status,
		elapsed.Milliseconds(),
		time.Now().UTC(),
	}
	if err := o.sink.Insert(ctx, o.table, [][]any{row}); err != nil {
		logger.C(ctx).Warn().Err(err).Str("stage", stage).Msg("pipeline: analytics insert dropped")
	}
}
