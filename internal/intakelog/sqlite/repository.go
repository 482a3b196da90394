// Package sqlite provides a SQLite-backed implementation of
// intakelog.Repository.
//
// WAL mode is enabled on Open so that readers never block writers and vice
// versa; the HTTP handlers may read recent events while a session goroutine
// is writing.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/studiofoto/intake/internal/intakelog"

	// Register the pure-Go SQLite driver. modernc.org/sqlite avoids CGO,
	// which keeps the Docker build on Alpine simple.
	_ "modernc.org/sqlite"
)

// schema is the DDL executed once on startup. The table is append-only: each
// row is an immutable event in an order's intake history.
const schema = `
CREATE TABLE IF NOT EXISTS intake_events (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,

    -- Remote order the mutation targeted. Empty for session-level events.
    order_id     TEXT NOT NULL DEFAULT '',

    -- Mutation kind, e.g. "ITEMS_REPLACED".
    event        TEXT NOT NULL,

    -- Operator who performed the mutation.
    operator_id  TEXT NOT NULL DEFAULT '',

    -- Short free-form note (payment amount, item count, ...).
    detail       TEXT NOT NULL DEFAULT '',

    -- W3C trace_id / span_id from the active OTel span, for joining a log
    -- row with its distributed trace.
    trace_id     TEXT NOT NULL DEFAULT '',
    span_id      TEXT NOT NULL DEFAULT '',

    -- Wall-clock timestamp (RFC3339 stored as TEXT, SQLite idiom).
    at           TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_intake_events_order_id ON intake_events(order_id, at);
CREATE INDEX IF NOT EXISTS idx_intake_events_trace_id ON intake_events(trace_id);
`

// Repository is the SQLite implementation of intakelog.Repository.
type Repository struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at the given path and applies
// the schema.
//
//	repo, err := sqlite.Open("./data/intake.db")
func Open(path string) (*Repository, error) {
	// WAL enables concurrent readers; busy_timeout waits for locks instead
	// of failing immediately.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	return &Repository{db: db}, nil
}

// Close releases the database connection. Call it with defer in main().
func (r *Repository) Close() error {
	return r.db.Close()
}

// Save inserts a new intake event. Safe to call concurrently.
func (r *Repository) Save(ctx context.Context, entry *intakelog.Entry) error {
	const q = `
		INSERT INTO intake_events
			(order_id, event, operator_id, detail, trace_id, span_id, at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		entry.OrderID,
		string(entry.Event),
		entry.OperatorID,
		entry.Detail,
		entry.TraceID,
		entry.SpanID,
		entry.At.UTC().Format("2006-01-02T15:04:05.999999999Z"),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save intake event for %q: %w", entry.OrderID, err)
	}
	return nil
}

// History returns the events recorded for an order, oldest first.
func (r *Repository) History(ctx context.Context, orderID string) ([]intakelog.Entry, error) {
	const q = `
		SELECT order_id, event, operator_id, detail, trace_id, span_id, at
		FROM   intake_events
		WHERE  order_id = ?
		ORDER  BY at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: history for %q: %w", orderID, err)
	}
	defer rows.Close()

	var out []intakelog.Entry
	for rows.Next() {
		var e intakelog.Entry
		var at string
		if err := rows.Scan(&e.OrderID, &e.Event, &e.OperatorID, &e.Detail, &e.TraceID, &e.SpanID, &at); err != nil {
			return nil, fmt.Errorf("sqlite: scan intake event: %w", err)
		}
		e.At, err = parseRFC3339(at)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
