package events

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func quiesce(t *testing.T, m *Memory) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.Quiesce(ctx); err != nil {
		t.Fatalf("quiesce: %v", err)
	}
}

func TestMemory_DeliversToAllSubscribers(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	var a, b atomic.Int64
	_ = m.Subscribe("raw", "first", func(_ context.Context, _ Event) error {
		a.Add(1)
		return nil
	})
	_ = m.Subscribe("raw", "second", func(_ context.Context, _ Event) error {
		b.Add(1)
		return nil
	})

	_ = m.Publish(context.Background(), Event{Container: "raw", Key: "batch.json"})
	quiesce(t, m)

	if a.Load() != 1 || b.Load() != 1 {
		t.Fatalf("deliveries = %d/%d, want 1/1", a.Load(), b.Load())
	}
	if s := m.Stats(); s.Delivered != 2 {
		t.Fatalf("Delivered = %d, want 2", s.Delivered)
	}
}

func TestMemory_ContainerIsolation(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	var hits atomic.Int64
	_ = m.Subscribe("split", "only-split", func(_ context.Context, _ Event) error {
		hits.Add(1)
		return nil
	})

	_ = m.Publish(context.Background(), Event{Container: "raw", Key: "k"})
	quiesce(t, m)

	if hits.Load() != 0 {
		t.Fatalf("handler on another container fired %d times", hits.Load())
	}
}

func TestMemory_RetriesThenSucceeds(t *testing.T) {
	t.Parallel()

	m := NewMemory(MemoryOptions{MaxAttempts: 3, RetryInterval: time.Millisecond})
	var calls atomic.Int64
	_ = m.Subscribe("raw", "flaky", func(_ context.Context, _ Event) error {
		if calls.Add(1) < 3 {
			return errors.New("transient")
		}
		return nil
	})

	_ = m.Publish(context.Background(), Event{Container: "raw", Key: "k"})
	quiesce(t, m)

	if calls.Load() != 3 {
		t.Fatalf("calls = %d, want 3", calls.Load())
	}
	s := m.Stats()
	if s.Delivered != 1 || s.Redelivered != 2 || s.DeadLettered != 0 {
		t.Fatalf("stats = %+v", s)
	}
}

func TestMemory_DeadLettersAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	m := NewMemory(MemoryOptions{MaxAttempts: 2, RetryInterval: time.Millisecond})
	var calls atomic.Int64
	_ = m.Subscribe("raw", "broken", func(_ context.Context, _ Event) error {
		calls.Add(1)
		return errors.New("permanent")
	})

	_ = m.Publish(context.Background(), Event{Container: "raw", Key: "bad.json"})
	quiesce(t, m)

	if calls.Load() != 2 {
		t.Fatalf("calls = %d, want 2", calls.Load())
	}
	s := m.Stats()
	if s.DeadLettered != 1 || s.Delivered != 0 {
		t.Fatalf("stats = %+v", s)
	}
	dead := m.DeadLetters()
	if len(dead) != 1 || dead[0].Key != "bad.json" {
		t.Fatalf("dead letters = %+v", dead)
	}
}

func TestMemory_ResubscribeReplacesHandler(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	var older, newer atomic.Int64
	_ = m.Subscribe("raw", "stage", func(_ context.Context, _ Event) error {
		older.Add(1)
		return nil
	})
	_ = m.Subscribe("raw", "stage", func(_ context.Context, _ Event) error {
		newer.Add(1)
		return nil
	})

	_ = m.Publish(context.Background(), Event{Container: "raw", Key: "k"})
	quiesce(t, m)

	if older.Load() != 0 || newer.Load() != 1 {
		t.Fatalf("older=%d newer=%d, want 0/1", older.Load(), newer.Load())
	}
}

func TestMemory_ChainedPublishIsCoveredByQuiesce(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	var mu sync.Mutex
	var order []string

	_ = m.Subscribe("stage-two", "sink", func(_ context.Context, evt Event) error {
		mu.Lock()
		order = append(order, "two:"+evt.Key)
		mu.Unlock()
		return nil
	})
	_ = m.Subscribe("stage-one", "relay", func(ctx context.Context, evt Event) error {
		mu.Lock()
		order = append(order, "one:"+evt.Key)
		mu.Unlock()
		return m.Publish(ctx, Event{Container: "stage-two", Key: evt.Key})
	})

	_ = m.Publish(context.Background(), Event{Container: "stage-one", Key: "k"})
	quiesce(t, m)

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 2 || order[0] != "one:k" || order[1] != "two:k" {
		t.Fatalf("order = %v", order)
	}
}
