// Package ua provides the public API for the ua interpreter: format
// source text, run code against a session stack, import files, and
// read back results.
package ua

import (
	"io"

	"github.com/tliron/commonlog"

	"nickandperla.net/ua/internal/store"
)

// Option configures a Runtime.
type Option func(*Runtime)

// WithMode selects which lines run: normal, test, or all.
func WithMode(m Mode) Option {
	return func(r *Runtime) {
		r.mode = m
	}
}

// WithOutput redirects print output.
func WithOutput(w io.Writer) Option {
	return func(r *Runtime) {
		r.out = w
	}
}

// WithDir sets the directory imports and file writes resolve against.
// The formatter configuration (ua.toml) is also read from here.
func WithDir(dir string) Option {
	return func(r *Runtime) {
		r.dir = dir
	}
}

// WithRandSeed makes rand deterministic (for testing).
func WithRandSeed(seed int64) Option {
	return func(r *Runtime) {
		r.seed = &seed
	}
}

// WithSQLiteHistory persists session history to SQLite at the given
// path.
func WithSQLiteHistory(path string) Option {
	return func(r *Runtime) {
		s, err := store.NewSQLite(path)
		if err == nil {
			r.history = s
		}
	}
}

// WithMemoryHistory keeps session history in memory (for testing).
func WithMemoryHistory() Option {
	return func(r *Runtime) {
		r.history = store.NewMemory()
	}
}

// WithLogger replaces the runtime's logger.
func WithLogger(log commonlog.Logger) Option {
	return func(r *Runtime) {
		r.log = log
	}
}
