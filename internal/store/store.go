// Package store provides persistence for ua session history.
package store

// Entry is one evaluated line of a session: the formatted source and
// what it left on the stack.
type Entry struct {
	Seq    int64
	Source string
	Result string
	Ts     string
}

// Store is the interface for session history persistence.
type Store interface {
	// Append records an evaluated line and its result.
	Append(source, result string) error
	// Recent returns up to limit entries, newest first.
	Recent(limit int) ([]Entry, error)
	// GetMetadata retrieves a metadata value by key. Returns "" if
	// not set.
	GetMetadata(key string) (string, error)
	// SetMetadata stores a metadata value by key.
	SetMetadata(key, value string) error
	// Close releases resources.
	Close() error
}
