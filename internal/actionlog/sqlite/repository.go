// Package sqlite provides a SQLite-backed implementation of
// actionlog.Repository.
//
// WAL mode is enabled on Open so that readers never block writers: the
// dashboard writes entries while an inspection query may be reading.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/team6/oms-dashboard/internal/actionlog"

	// Register the pure-Go SQLite driver.
	// modernc.org/sqlite instead of mattn/go-sqlite3 keeps the build free of
	// CGO, so the dashboard cross-compiles without a C toolchain.
	_ "modernc.org/sqlite"
)

// schema is the DDL executed once on startup.
// The table is append-only: each row is an immutable record of one registry
// operation and its outcome.
const schema = `
CREATE TABLE IF NOT EXISTS action_logs (
    -- Surrogate primary key, auto-incremented by SQLite.
    id              INTEGER PRIMARY KEY AUTOINCREMENT,

    -- Backend order ID the operation concerned. Empty for list refreshes.
    order_id        TEXT        NOT NULL DEFAULT '',

    -- REFRESH, SUBMIT or CANCEL.
    operation       TEXT        NOT NULL,

    -- OK, REJECTED (gated locally, no request issued) or ERROR.
    outcome         TEXT        NOT NULL,

    -- Failure text for REJECTED/ERROR rows.
    message         TEXT        NOT NULL DEFAULT '',

    -- JSON request body, stored for SUBMIT rows. NULL otherwise.
    payload         TEXT,

    -- W3C trace_id (32 hex chars) from the active OTel span.
    trace_id        TEXT        NOT NULL DEFAULT '',

    -- W3C span_id (16 hex chars), pinpoints the exact call within the trace.
    span_id         TEXT        NOT NULL DEFAULT '',

    -- Wall-clock timestamp (RFC3339 stored as TEXT, SQLite idiom).
    at              TEXT        NOT NULL
);

-- Index for the most common query: "what happened to order X, in order".
CREATE INDEX IF NOT EXISTS idx_action_logs_order_id ON action_logs(order_id, at);

-- Index for the observability query: "find the operation for trace Y".
CREATE INDEX IF NOT EXISTS idx_action_logs_trace_id ON action_logs(trace_id);
`

// Repository is the SQLite implementation of actionlog.Repository.
type Repository struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at the given path and applies
// the schema.
//
//	repo, err := sqlite.Open("./data/actions.db")
func Open(path string) (*Repository, error) {
	// The pure-Go driver takes _pragma query parameters for connection
	// state. WAL enables concurrent readers; busy_timeout waits for locks
	// instead of failing immediately.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	// Use "sqlite", not "sqlite3", for the modernc driver.
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection.
	db.SetMaxOpenConns(1)

	if err := applySchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repository{db: db}, nil
}

// Close releases the database connection. Call it with defer in main().
func (r *Repository) Close() error {
	return r.db.Close()
}

// Save inserts a new entry. Safe to call concurrently.
func (r *Repository) Save(ctx context.Context, entry *actionlog.Entry) error {
	const q = `
		INSERT INTO action_logs
			(order_id, operation, outcome, message, payload, trace_id, span_id, at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		entry.OrderID,
		string(entry.Operation),
		string(entry.Outcome),
		entry.Message,
		nullableString(entry.Payload),
		entry.TraceID,
		entry.SpanID,
		entry.At.UTC().Format("2006-01-02T15:04:05.999999999Z"),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save action log for %q: %w", entry.OrderID, err)
	}
	return nil
}

// GetLatest returns the most recent entry for an order ID. Useful when
// tracing back what last touched an order.
func (r *Repository) GetLatest(ctx context.Context, orderID string) (*actionlog.Entry, error) {
	const q = `
		SELECT order_id, operation, outcome, message, COALESCE(payload,''),
		       trace_id, span_id, at
		FROM   action_logs
		WHERE  order_id = ?
		ORDER  BY at DESC, id DESC
		LIMIT  1`

	row := r.db.QueryRowContext(ctx, q, orderID)

	var entry actionlog.Entry
	var at string
	err := row.Scan(
		&entry.OrderID,
		&entry.Operation,
		&entry.Outcome,
		&entry.Message,
		&entry.Payload,
		&entry.TraceID,
		&entry.SpanID,
		&at,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("sqlite: no entries for order %q", orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get latest for %q: %w", orderID, err)
	}

	entry.At, err = parseRFC3339(at)
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// applySchema runs the DDL statements once. Idempotent due to IF NOT EXISTS.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return nil
}

// nullableString returns nil for empty strings so SQLite stores NULL instead
// of an empty TEXT, keeping the payload column clean on non-SUBMIT rows.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
