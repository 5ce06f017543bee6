package store

import (
	"sync"
	"time"
)

// Memory is an in-memory store for testing and history-less sessions.
type Memory struct {
	mu       sync.RWMutex
	entries  []Entry
	metadata map[string]string
}

// NewMemory creates a new in-memory store.
func NewMemory() *Memory {
	return &Memory{metadata: make(map[string]string)}
}

// Append records an evaluated line.
func (m *Memory) Append(source, result string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, Entry{
		Seq:    int64(len(m.entries) + 1),
		Source: source,
		Result: result,
		Ts:     time.Now().UTC().Format(time.RFC3339),
	})
	return nil
}

// Recent returns up to limit entries, newest first.
func (m *Memory) Recent(limit int) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := len(m.entries)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Entry, n)
	for i := 0; i < n; i++ {
		out[i] = m.entries[len(m.entries)-1-i]
	}
	return out, nil
}

// GetMetadata retrieves a metadata value by key.
func (m *Memory) GetMetadata(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.metadata[key], nil
}

// SetMetadata stores a metadata value by key.
func (m *Memory) SetMetadata(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metadata[key] = value
	return nil
}

// Close is a no-op for memory store.
func (m *Memory) Close() error {
	return nil
}
