package store

import (
	"context"
	"sync"
)

// Memory is a slice-backed store.
type Memory struct {
	mu      sync.RWMutex
	entries map[string][]Entry // session -> oldest first
}

// NewMemory creates a new in-memory store.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string][]Entry),
	}
}

// Append records an entry.
func (m *Memory) Append(ctx context.Context, e Entry) (Entry, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, err
	}
	e = prepare(e)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[e.Session] = append(m.entries[e.Session], e)
	return e, nil
}

// History returns a session's entries newest first.
func (m *Memory) History(ctx context.Context, session string, limit int) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.entries[session]
	if len(all) == 0 {
		return nil, nil
	}
	n := len(all)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Entry, 0, n)
	for i := len(all) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, all[i])
	}
	return out, nil
}

// Trim keeps only the newest keep entries of a session.
func (m *Memory) Trim(ctx context.Context, session string, keep int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.entries[session]
	if keep < 0 {
		keep = 0
	}
	if len(all) > keep {
		m.entries[session] = append([]Entry(nil), all[len(all)-keep:]...)
	}
	return nil
}

// Clear removes every entry of a session.
func (m *Memory) Clear(ctx context.Context, session string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, session)
	return nil
}

// Close is a no-op for memory store.
func (m *Memory) Close() error {
	return nil
}
