package events

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"

	"reviewflow/internal/platform/logger"
)

// MemoryOptions tunes redelivery behavior for the in process bus
type MemoryOptions struct {
	// MaxAttempts is the total delivery attempts per handler, default 3
	MaxAttempts int
	// RetryInterval is the initial redelivery delay, default 10ms
	RetryInterval time.Duration
}

// MemoryStats is a point in time snapshot of bus counters
type MemoryStats struct {
	Delivered    int64
	Redelivered  int64
	DeadLettered int64
}

type subscription struct {
	name    string
	handler Handler
}

// Memory is an in process Bus with at-least-once delivery
// each handler runs on its own goroutine per event, failures are
// retried with backoff and then parked on the dead letter list
type Memory struct {
	mu   sync.RWMutex
	subs map[string][]subscription

	wg sync.WaitGroup

	delivered    atomic.Int64
	redelivered  atomic.Int64
	deadLettered atomic.Int64

	deadMu sync.Mutex
	dead   []Event

	maxAttempts int
	retryEvery  time.Duration
}

// NewMemory builds a Memory bus with defaults applied
func NewMemory(opts ...MemoryOptions) *Memory {
	o := MemoryOptions{}
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	if o.RetryInterval <= 0 {
		o.RetryInterval = 10 * time.Millisecond
	}
	return &Memory{
		subs:        map[string][]subscription{},
		maxAttempts: o.MaxAttempts,
		retryEvery:  o.RetryInterval,
	}
}

// Subscribe registers h for container under name
// the same (container, name) pair replaces its previous handler so
// installing a binding twice does not double-deliver
func (m *Memory) Subscribe(container, name string, h Handler) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.subs[container]
	for i := range list {
		if list[i].name == name {
			list[i].handler = h
			return nil
		}
	}
	m.subs[container] = append(list, subscription{name: name, handler: h})
	return nil
}

// Publish fans evt out to every handler on the container
// delivery is concurrent, Publish itself never blocks on handlers
func (m *Memory) Publish(ctx context.Context, evt Event) error {
	m.mu.RLock()
	list := append([]subscription(nil), m.subs[evt.Container]...)
	m.mu.RUnlock()

	for _, sub := range list {
		m.wg.Add(1)
		go m.deliver(ctx, sub, evt)
	}
	return nil
}

func (m *Memory) deliver(ctx context.Context, sub subscription, evt Event) {
	defer m.wg.Done()

	attempt := 0
	operation := func() error {
		attempt++
		err := sub.handler(ctx, evt)
		if err != nil && attempt >= m.maxAttempts {
			return backoff.Permanent(err)
		}
		if err != nil {
			m.redelivered.Add(1)
		}
		return err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = m.retryEvery
	bo.MaxElapsedTime = 0

	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		m.deadLettered.Add(1)
		m.deadMu.Lock()
		m.dead = append(m.dead, evt)
		m.deadMu.Unlock()
		logger.C(ctx).Error().
			Err(err).
			Str("container", evt.Container).
			Str("key", evt.Key).
			Str("handler", sub.name).
			Int("attempts", attempt).
			Msg("event dead lettered")
		return
	}
	m.delivered.Add(1)
}

// Quiesce blocks until all in flight deliveries settle or ctx expires
// handlers that publish follow-on events are covered, the waitgroup
// grows before the parent delivery completes
func (m *Memory) Quiesce(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns a snapshot of delivery counters
func (m *Memory) Stats() MemoryStats {
	return MemoryStats{
		Delivered:    m.delivered.Load(),
		Redelivered:  m.redelivered.Load(),
		DeadLettered: m.deadLettered.Load(),
	}
}

// DeadLetters returns a copy of events that exhausted redelivery
func (m *Memory) DeadLetters() []Event {
	m.deadMu.Lock()
	defer m.deadMu.Unlock()
	return append([]Event(nil), m.dead...)
}
