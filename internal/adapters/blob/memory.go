package blob

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Memory is an in process Store for tests and single node runs
type Memory struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte // container -> key -> bytes
}

// NewMemory returns an empty in memory store
func NewMemory() *Memory {
	return &Memory{data: map[string]map[string][]byte{}}
}

// Put stores a copy of data so callers can reuse their buffers
func (m *Memory) Put(_ context.Context, container, key string, data []byte) error {
	cp := append([]byte(nil), data...)
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.data[container]
	if !ok {
		c = map[string][]byte{}
		m.data[container] = c
	}
	c[key] = cp
	return nil
}

// Get returns a copy of the stored bytes or ErrNotFound
func (m *Memory) Get(_ context.Context, container, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.data[container]
	if !ok {
		return nil, ErrNotFound
	}
	b, ok := c[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), b...), nil
}

// List returns sorted keys under prefix, a missing container lists empty
func (m *Memory) List(_ context.Context, container, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c := m.data[container]
	var out []string
	for k := range c {
		if prefix == "" || strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out, nil
}
