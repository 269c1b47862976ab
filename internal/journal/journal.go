// Package journal records the outcome of every dispatch to the feed
// endpoint in a local SQLite database. Message text is never stored and
// nothing is read back into a conversation.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Outcome of one dispatch
type Outcome string

const (
	OutcomeOK       Outcome = "ok"
	OutcomeRejected Outcome = "rejected"
	OutcomeNetwork  Outcome = "network_error"
)

// Entry is one journal row
type Entry struct {
	SessionID string
	Fn        string
	Outcome   Outcome
	Duration  time.Duration
	CreatedAt time.Time
}

// Journal is a SQLite-backed dispatch log
type Journal struct {
	db *sql.DB
}

// Open opens (and migrates) the journal at dsn. ":memory:" keeps it in RAM
// for the life of the process.
func Open(dsn string) (*Journal, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Each connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	createDispatchesTable := `
	CREATE TABLE IF NOT EXISTS dispatches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		fn TEXT NOT NULL,
		outcome TEXT NOT NULL,
		duration_ms INTEGER NOT NULL,
		created_at DATETIME NOT NULL
	);`

	if _, err := db.Exec(createDispatchesTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create dispatches table: %w", err)
	}

	return &Journal{db: db}, nil
}

// Record appends an entry.
func (j *Journal) Record(ctx context.Context, e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := j.db.ExecContext(ctx,
		"INSERT INTO dispatches (session_id, fn, outcome, duration_ms, created_at) VALUES (?, ?, ?, ?, ?)",
		e.SessionID, e.Fn, string(e.Outcome), e.Duration.Milliseconds(), e.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record dispatch: %w", err)
	}
	return nil
}

// Recent returns up to limit entries for sessionID, newest first.
func (j *Journal) Recent(ctx context.Context, sessionID string, limit int) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx,
		"SELECT session_id, fn, outcome, duration_ms, created_at FROM dispatches WHERE session_id = ? ORDER BY id DESC LIMIT ?",
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query dispatches: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var outcome string
		var ms int64
		if err := rows.Scan(&e.SessionID, &e.Fn, &outcome, &ms, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan dispatch: %w", err)
		}
		e.Outcome = Outcome(outcome)
		e.Duration = time.Duration(ms) * time.Millisecond
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}
