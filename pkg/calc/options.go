// Package calc provides the public API of the pocketcalc engine.
package calc

import (
	"log/slog"

	"nickandperla.net/pocketcalc/internal/config"
	"nickandperla.net/pocketcalc/internal/store"
)

// Option configures a Session.
type Option func(*Session)

// WithConfig applies length, precision and history settings from cfg.
// Logging is configured separately with WithLogger.
func WithConfig(cfg *config.Config) Option {
	return func(s *Session) {
		if cfg == nil {
			return
		}
		s.maxLength = cfg.MaxLength
		s.precision = cfg.Precision
		s.historyLimit = cfg.History.Limit
		switch cfg.History.Backend {
		case config.BackendSQLite:
			s.openStore = openSQLite
		default:
			s.openStore = openMemory
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithNotifier sets where user-facing notices go.
func WithNotifier(n Notifier) Option {
	return func(s *Session) {
		s.notifier = n
	}
}

// WithMemoryStore keeps the calculation tape in a Go slice (default).
func WithMemoryStore() Option {
	return func(s *Session) {
		s.openStore = openMemory
	}
}

// WithSQLiteStore keeps the calculation tape in an in-memory SQLite database.
func WithSQLiteStore() Option {
	return func(s *Session) {
		s.openStore = openSQLite
	}
}

// WithStore shares an existing tape between sessions. The session does not
// close a shared store.
func WithStore(st store.Store) Option {
	return func(s *Session) {
		s.openStore = func() (store.Store, error) { return st, nil }
		s.sharedStore = true
	}
}

// WithMaxLength sets the buffer's non-whitespace character cap.
func WithMaxLength(n int) Option {
	return func(s *Session) {
		s.maxLength = n
	}
}

// WithPrecision sets how many decimal places non-integral results keep.
func WithPrecision(n int) Option {
	return func(s *Session) {
		s.precision = n
	}
}

// WithHistoryLimit sets how many tape entries are kept; 0 keeps all.
func WithHistoryLimit(n int) Option {
	return func(s *Session) {
		s.historyLimit = n
	}
}

// WithSessionID overrides the generated session id.
func WithSessionID(id string) Option {
	return func(s *Session) {
		if id != "" {
			s.id = id
		}
	}
}

func openMemory() (store.Store, error) { return store.NewMemory(), nil }
func openSQLite() (store.Store, error) { return store.NewSQLite() }
