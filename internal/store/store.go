// Package store keeps the calculation tape of a session: every expression
// that evaluated successfully together with its result.
//
// Nothing is written outside the process. Both backends live in memory.
package store

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

// Entry is one line of the calculation tape.
type Entry struct {
	ID         string // ULID, sorts in creation order
	Session    string
	Expression string // Buffer text that was evaluated
	Result     string // Point-separated result text
	CreatedAt  time.Time
}

// Store is the interface for the calculation tape.
type Store interface {
	// Append records an entry. Empty ID and zero CreatedAt are filled in.
	Append(ctx context.Context, e Entry) (Entry, error)
	// History returns a session's entries newest first. limit <= 0 means all.
	History(ctx context.Context, session string, limit int) ([]Entry, error)
	// Trim keeps only the newest keep entries of a session.
	Trim(ctx context.Context, session string, keep int) error
	// Clear removes every entry of a session.
	Clear(ctx context.Context, session string) error
	// Close releases resources.
	Close() error
}

// prepare fills in the generated fields of an entry.
func prepare(e Entry) Entry {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if e.ID == "" {
		e.ID = ulid.MustNew(ulid.Timestamp(e.CreatedAt), ulid.DefaultEntropy()).String()
	}
	return e
}
