package actionlog

import "context"

// Repository is the port for persisting action log entries. The registry
// session depends on this abstraction, not on SQLite directly, so tests can
// plug in an in-memory implementation.
type Repository interface {
	// Save appends a new entry. The log is append-only; entries are never
	// updated or deleted.
	Save(ctx context.Context, entry *Entry) error
}
