// Package journal keeps a local append-only trace of graded reviews in
// SQLite. Remote persistence is at-least-effort and degrades silently, so
// the journal is the one place a review is never lost; it also feeds the
// recent-activity figures on the stats dashboard.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS reviews (
    id TEXT PRIMARY KEY,
    session_id TEXT,
    flashcard_id TEXT NOT NULL,
    grade INTEGER NOT NULL,
    correct INTEGER NOT NULL,
    reviewed_at DATETIME NOT NULL,
    synced INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_reviews_reviewed_at ON reviews(reviewed_at);
`

// Entry is one journaled review.
type Entry struct {
	ID          string
	SessionID   string
	FlashcardID string
	Grade       int
	Correct     bool
	ReviewedAt  time.Time
	Synced      bool
}

// Journal wraps the SQLite connection.
type Journal struct {
	db *sql.DB
}

// Open connects to the journal database at dsn, applying pragmas and
// creating the schema if needed.
func Open(dsn string) (*Journal, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply journal schema: %w", err)
	}
	return &Journal{db: db}, nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Append records one review. The id is generated when empty.
func (j *Journal) Append(ctx context.Context, e Entry) (string, error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO reviews (id, session_id, flashcard_id, grade, correct, reviewed_at, synced)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.SessionID, e.FlashcardID, e.Grade, boolInt(e.Correct), e.ReviewedAt.UTC(), boolInt(e.Synced),
	)
	if err != nil {
		return "", fmt.Errorf("append review %s: %w", e.FlashcardID, err)
	}
	return e.ID, nil
}

// MarkSynced flags an entry once its remote writes settled successfully.
func (j *Journal) MarkSynced(ctx context.Context, id string) error {
	_, err := j.db.ExecContext(ctx, `UPDATE reviews SET synced = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark synced %s: %w", id, err)
	}
	return nil
}

// CountSince returns total and correct review counts since t.
func (j *Journal) CountSince(ctx context.Context, t time.Time) (total, correct int, err error) {
	row := j.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(correct), 0) FROM reviews WHERE reviewed_at >= ?`, t.UTC())
	if err := row.Scan(&total, &correct); err != nil {
		return 0, 0, fmt.Errorf("count reviews: %w", err)
	}
	return total, correct, nil
}

// UnsyncedCount returns the number of entries whose remote writes never
// settled successfully.
func (j *Journal) UnsyncedCount(ctx context.Context) (int, error) {
	var n int
	row := j.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reviews WHERE synced = 0`)
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("count unsynced: %w", err)
	}
	return n, nil
}

// Recent returns the most recent entries, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, session_id, flashcard_id, grade, correct, reviewed_at, synced
		FROM reviews ORDER BY reviewed_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent reviews: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e                 Entry
			correct, syncedCol int
		)
		if err := rows.Scan(&e.ID, &e.SessionID, &e.FlashcardID, &e.Grade, &correct, &e.ReviewedAt, &syncedCol); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		e.Correct = correct != 0
		e.Synced = syncedCol != 0
		out = append(out, e)
	}
	return out, rows.Err()
}

// DefaultPath resolves the journal file path: $REVISE_DB, then
// $XDG_DATA_HOME/revise/revise.db, then ~/.local/share/revise/revise.db.
func DefaultPath() (string, error) {
	if p := os.Getenv("REVISE_DB"); p != "" {
		return p, ensureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "revise", "revise.db")
	return p, ensureDir(p)
}

func ensureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
