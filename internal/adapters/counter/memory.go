package counter

import (
	"context"
	"sync"
)

// Memory is an in process Store for tests and single node runs
type Memory struct {
	mu      sync.Mutex
	entries map[string]*Counts
}

// NewMemory returns an empty counter store
func NewMemory() *Memory {
	return &Memory{entries: map[string]*Counts{}}
}

func (m *Memory) entry(reviewer string) *Counts {
	e, ok := m.entries[reviewer]
	if !ok {
		e = &Counts{}
		m.entries[reviewer] = e
	}
	return e
}

// Increment adds delta under the lock and returns the new total
func (m *Memory) Increment(_ context.Context, reviewer string, delta int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.entry(reviewer)
	e.Violations += delta
	return e.Violations, nil
}

// Ban flips the banned flag, it never clears
func (m *Memory) Ban(_ context.Context, reviewer string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entry(reviewer).Banned = true
	return nil
}

// Get returns a copy of the reviewer's counts
func (m *Memory) Get(_ context.Context, reviewer string) (Counts, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[reviewer]; ok {
		return *e, nil
	}
	return Counts{}, nil
}
