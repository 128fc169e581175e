package pipeline

import (
	"context"
	"sync"
	"testing"

	"reviewflow/internal/adapters/events"
	perr "reviewflow/internal/platform/errors"
	"reviewflow/internal/platform/store"
)

// fakeSink captures analytics rows
type fakeSink struct {
	mu    sync.Mutex
	table string
	rows  [][]any
	fail  error
}

func (f *fakeSink) Insert(_ context.Context, table string, data any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.table = table
	f.rows = append(f.rows, data.([][]any)...)
	return nil
}

func (f *fakeSink) Query(context.Context, string, ...any) (store.Rows, error) { return nil, nil }
func (f *fakeSink) Close() error                                              { return nil }

func TestObserver_CountsAndShipsRows(t *testing.T) {
	t.Parallel()

	sink := &fakeSink{}
	obs := NewObserver(sink, "stage_events")
	obs.SetRun("run-1")

	ok := obs.Wrap("moderate", func(context.Context, events.Event) error { return nil })
	bad := obs.Wrap("moderate", func(context.Context, events.Event) error {
		return perr.Unavailablef("down")
	})

	ctx := context.Background()
	ev := events.Event{Container: "processed", Key: "k.json"}
	if err := ok(ctx, ev); err != nil {
		t.Fatalf("ok handler: %v", err)
	}
	if err := bad(ctx, ev); err == nil {
		t.Fatal("wrap must pass the handler error through")
	}

	st := obs.Stats()["moderate"]
	if st.Handled != 2 || st.Failed != 1 {
		t.Fatalf("stats: %+v", st)
	}

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if sink.table != "stage_events" || len(sink.rows) != 2 {
		t.Fatalf("sink: table=%q rows=%d", sink.table, len(sink.rows))
	}
	if sink.rows[0][0] != "run-1" || sink.rows[0][4] != "ok" || sink.rows[1][4] != "error" {
		t.Fatalf("rows: %v", sink.rows)
	}
}

func TestObserver_SinkFailureDoesNotFailStage(t *testing.T) {
	t.Parallel()

	sink := &fakeSink{fail: perr.Unavailablef("ch down")}
	obs := NewObserver(sink, "stage_events")

	h := obs.Wrap("split", func(context.Context, events.Event) error { return nil })
	if err := h(context.Background(), events.Event{Container: "raw", Key: "b"}); err != nil {
		t.Fatalf("sink failure leaked into the stage: %v", err)
	}
}

func TestObserver_NilSink(t *testing.T) {
	t.Parallel()

	obs := NewObserver(nil, "")
	h := obs.Wrap("split", func(context.Context, events.Event) error { return nil })
	if err := h(context.Background(), events.Event{Container: "raw", Key: "b"}); err != nil {
		t.Fatalf("nil sink: %v", err)
	}
	if obs.Stats()["split"].Handled != 1 {
		t.Fatalf("stats: %+v", obs.Stats())
	}
}
