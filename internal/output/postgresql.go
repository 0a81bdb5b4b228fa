// internal/output/postgresql.go
package output

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/oby500/bizinfo-automation-sub001/internal/pipeline"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS announcements (
	id          TEXT PRIMARY KEY,
	source      TEXT NOT NULL DEFAULT '',
	title       TEXT NOT NULL DEFAULT '',
	detail_url  TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL DEFAULT 'pending',
	attachments JSONB NOT NULL DEFAULT '[]',
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_announcements_status ON announcements (status);
`

// PostgresStore persists announcements in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects and ensures the schema exists.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("PostgreSQL connection string is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if _, err := db.Exec(postgresSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) ListPending(ctx context.Context, source string, limit int) ([]pipeline.Announcement, error) {
	query := `
		SELECT id, source, title, detail_url, status, attachments::text
		FROM announcements
		WHERE status IN ('pending', 'failed')
		  AND ($1 = '' OR source = $1)
		ORDER BY id`
	args := []interface{}{source}
	if limit > 0 {
		query += " LIMIT $2"
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
func (s *PostgresStore) ListCompleted(ctx context.Context, source string, limit int) ([]pipeline.Announcement, error) {
	query := `
		SELECT id, source, title, detail_url, status, attachments::text
		FROM announcements
		WHERE status = 'completed'
		  AND ($1 = '' OR source = $1)
		ORDER BY id`
	args := []interface{}{source}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing completed announcements: %w", err)
	}
	defer rows.Close()

	return scanAnnouncements(rows)
}

func (s *PostgresStore) ReplaceAttachments(ctx context.Context, id string, attachments []pipeline.Attachment) (bool, error) {
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
		`SELECT attachments::text FROM announcements WHERE id = $1`, id).Scan(&prior)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("reading prior attachments: %w", err)
	}
	created := errors.Is(err, sql.ErrNoRows) || !hasAttachments(prior)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO announcements (id, status, attachments, updated_at)
		VALUES ($1, 'completed', $2::jsonb, now())
		ON CONFLICT (id) DO UPDATE
		SET status = 'completed', attachments = EXCLUDED.attachments, updated_at = now()`,
		id, encoded)
	if err != nil {
		return false, fmt.Errorf("replacing attachments for %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing: %w", err)
	}
	return created, nil
}

func (s *PostgresStore) SetStatus(ctx context.Context, id string, status pipeline.Status) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO announcements (id, status, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status, updated_at = now()`,
		id, string(status))
	if err != nil {
		return fmt.Errorf("setting status of %s: %w", id, err)
	}
	return nil
}

// Seed inserts or refreshes a record without touching its attachments; the
// collector side of the system calls this before a pipeline run.
func (s *PostgresStore) Seed(ctx context.Context, record pipeline.Announcement) error {
	status := record.Status
	if status == "" {
		status = pipeline.StatusPending
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO announcements (id, source, title, detail_url, status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET source = EXCLUDED.source, title = EXCLUDED.title, detail_url = EXCLUDED.detail_url`,
		record.ID, record.Source, record.Title, record.DetailURL, string(status))
	if err != nil {
		return fmt.Errorf("seeding %s: %w", record.ID, err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// scanAnnouncements reads the shared relational row shape.
func scanAnnouncements(rows *sql.Rows) ([]pipeline.Announcement, error) {
	var out []pipeline.Announcement
	for rows.Next() {
		var a pipeline.Announcement
		var status, attachments string
		if err := rows.Scan(&a.ID, &a.Source, &a.Title, &a.DetailURL, &status, &attachments); err != nil {
			return nil, fmt.Errorf("scanning announcement: %w", err)
		}
		a.Status = pipeline.Status(status)
		decoded, err := unmarshalAttachments(attachments)
		if err != nil {
			return nil, err
		}
		a.Attachments = decoded
		out = append(out, a)
	}
	return out, rows.Err()
}
