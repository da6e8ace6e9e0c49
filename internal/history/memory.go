package history

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"
)

// Memory is a Log kept in process memory. It is used when no database path
// is configured.
type Memory struct {
	mu         sync.Mutex
	entries    []Entry // newest first
	maxEntries int
}

// NewMemory creates an empty in-memory log.
func NewMemory(maxEntries int) *Memory {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Memory{maxEntries: maxEntries}
}

func (m *Memory) Append(_ context.Context, e Entry) (Entry, error) {
	e = prepare(e, time.Now())
	e.Voxels = slices.Clone(e.Voxels)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append([]Entry{e}, m.entries...)
	if len(m.entries) > m.maxEntries {
		m.entries = m.entries[:m.maxEntries]
	}
	return e, nil
}

func (m *Memory) List(context.Context) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.entries), nil
}

func (m *Memory) Get(_ context.Context, id string) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

func (m *Memory) Remove(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.IndexFunc(m.entries, func(e Entry) bool { return e.ID == id })
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	m.entries = slices.Delete(m.entries, i, i+1)
	return nil
}

func (m *Memory) Clear(context.Context) error {
	m.mu.Lock()
	m.entries = nil
	m.mu.Unlock()
	return nil
}

func (m *Memory) Close() error { return nil }
