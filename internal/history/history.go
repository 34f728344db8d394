// Package history persists fetched usage windows to a local SQLite database
// so trends survive across runs. Recording is best-effort: a history failure
// must never break a usage fetch.
package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration

	"github.com/aipdev/aip/internal/tool"
	"github.com/aipdev/aip/internal/usage"
)

// Snapshot is one recorded usage window.
type Snapshot struct {
	Tool      tool.Tool
	Label     string
	UsedFrac  float64 // always normalized to the used convention
	ResetsAt  *time.Time
	FetchedAt time.Time
}

// Store is a SQLite-backed usage history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS snapshots (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			tool       TEXT NOT NULL,
			label      TEXT NOT NULL,
			used_frac  REAL NOT NULL,
			resets_at  TEXT,
			fetched_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_snapshots_tool_time ON snapshots(tool, fetched_at);
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores the given windows with the current time.
func (s *Store) Record(windows []usage.Window) error {
	return s.record(windows, time.Now().UTC())
}

func (s *Store) record(windows []usage.Window, fetchedAt time.Time) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning history tx: %w", err)
	}
	defer tx.Rollback()

	for _, w := range windows {
		var resetsAt any
		if w.ResetsAt != nil {
			resetsAt = w.ResetsAt.UTC().Format(time.RFC3339)
		}
		if _, err := tx.Exec(`
			INSERT INTO snapshots (tool, label, used_frac, resets_at, fetched_at)
			VALUES (?, ?, ?, ?, ?)
		`, w.Tool.Key(), w.Label, w.UsedFraction(), resetsAt,
			fetchedAt.Format(time.RFC3339)); err != nil {
			return fmt.Errorf("inserting snapshot: %w", err)
		}
	}

	return tx.Commit()
}

// Recent returns up to limit snapshots for a tool, newest first.
func (s *Store) Recent(t tool.Tool, limit int) ([]Snapshot, error) {
	rows, err := s.db.Query(`
		SELECT tool, label, used_frac, resets_at, fetched_at
		FROM snapshots WHERE tool = ?
		ORDER BY id DESC LIMIT ?
	`, t.Key(), limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var (
			toolKey, label, fetchedAt string
			resetsAt                  sql.NullString
			usedFrac                  float64
		)
		if err := rows.Scan(&toolKey, &label, &usedFrac, &resetsAt, &fetchedAt); err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}

		parsedTool, err := tool.Parse(toolKey)
		if err != nil {
			continue
		}
		snap := Snapshot{Tool: parsedTool, Label: label, UsedFrac: usedFrac}
		if ts, err := time.Parse(time.RFC3339, fetchedAt); err == nil {
			snap.FetchedAt = ts
		}
		if resetsAt.Valid {
			if ts, err := time.Parse(time.RFC3339, resetsAt.String); err == nil {
				snap.ResetsAt = &ts
			}
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}
