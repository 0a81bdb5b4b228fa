// internal/output/sqlite.go
package output

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/oby500/bizinfo-automation-sub001/internal/pipeline"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS announcements (
	id          TEXT PRIMARY KEY,
	source      TEXT NOT NULL DEFAULT '',
	title       TEXT NOT NULL DEFAULT '',
	detail_url  TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL DEFAULT 'pending',
	attachments TEXT NOT NULL DEFAULT '[]',
	updated_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_announcements_status ON announcements (status);
`

// SQLiteStore persists announcements in a local SQLite file. Suited for
// single-host runs and tests.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and creates) the database file.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("SQLite database path is required")
	}
	if !strings.Contains(path, "?") {
		path += "?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on"
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	// SQLite works best with a single writer.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = memory",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) ListPending(ctx context.Context, source string, limit int) ([]pipeline.Announcement, error) {
	query := `
		SELECT id, source, title, detail_url, status, attachments
		FROM announcements
		WHERE status IN ('pending', 'failed')
		  AND (? = '' OR source = ?)
		ORDER BY id`
	args := []interface{}{source, source}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing pending announcements: %w", err)
	}
	defer rows.Close()

	return scanAnnouncements(rows)
}

// ListCompleted returns processed records for reporting.
func (s *SQLiteStore) ListCompleted(ctx context.Context, source string, limit int) ([]pipeline.Announcement, error) {
	query := `
		SELECT id, source, title, detail_url, status, attachments
		FROM announcements
		WHERE status = 'completed'
		  AND (? = '' OR source = ?)
		ORDER BY id`
	args := []interface{}{source, source}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing completed announcements: %w", err)
	}
	defer rows.Close()

	return scanAnnouncements(rows)
}

func (s *SQLiteStore) ReplaceAttachments(ctx context.Context, id string, attachments []pipeline.Attachment) (bool, error) {
	encoded, err := marshalAttachments(attachments)
	if err != nil {
		return false, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	var prior string
	err = tx.QueryRowContext(ctx,
		`SELECT attachments FROM announcements WHERE id = ?`, id).Scan(&prior)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("reading prior attachments: %w", err)
	}
	created := errors.Is(err, sql.ErrNoRows) || !hasAttachments(prior)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO announcements (id, status, attachments, updated_at)
		VALUES (?, 'completed', ?, CURRENT_TIMESTAMP)
		ON CONFLICT (id) DO UPDATE
		SET status = 'completed', attachments = excluded.attachments, updated_at = CURRENT_TIMESTAMP`,
		id, encoded)
	if err != nil {
		return false, fmt.Errorf("replacing attachments for %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing: %w", err)
	}
	return created, nil
}

func (s *SQLiteStore) SetStatus(ctx context.Context, id string, status pipeline.Status) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO announcements (id, status, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (id) DO UPDATE SET status = excluded.status, updated_at = CURRENT_TIMESTAMP`,
		id, string(status))
	if err != nil {
		return fmt.Errorf("setting status of %s: %w", id, err)
	}
	return nil
}

// Seed inserts or refreshes a record without touching its attachments; the
// collector side of the system calls this before a pipeline run.
func (s *SQLiteStore) Seed(ctx context.Context, record pipeline.Announcement) error {
	status := record.Status
	if status == "" {
		status = pipeline.StatusPending
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO announcements (id, source, title, detail_url, status)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE
		SET source = excluded.source, title = excluded.title, detail_url = excluded.detail_url`,
		record.ID, record.Source, record.Title, record.DetailURL, string(status))
	if err != nil {
		return fmt.Errorf("seeding %s: %w", record.ID, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
