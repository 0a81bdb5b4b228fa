// internal/output/mysql.go
package output

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver

	"github.com/oby500/bizinfo-automation-sub001/internal/pipeline"
)

const mysqlSchema = `
CREATE TABLE IF NOT EXISTS announcements (
	id          VARCHAR(64) PRIMARY KEY,
	source      VARCHAR(32) NOT NULL DEFAULT '',
	title       TEXT,
	detail_url  TEXT,
	status      VARCHAR(16) NOT NULL DEFAULT 'pending',
	attachments JSON,
	updated_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	INDEX idx_announcements_status (status)
)`

// MySQLStore persists announcements in MySQL.
type MySQLStore struct {
	db *sql.DB
}

// NewMySQLStore connects and ensures the schema exists.
func NewMySQLStore(dsn string) (*MySQLStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("MySQL DSN is required")
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if _, err := db.Exec(mysqlSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return &MySQLStore{db: db}, nil
}

func (s *MySQLStore) ListPending(ctx context.Context, source string, limit int) ([]pipeline.Announcement, error) {
	query := `
		SELECT id, source, COALESCE(title, ''), COALESCE(detail_url, ''), status, COALESCE(attachments, '[]')
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
func (s *MySQLStore) ListCompleted(ctx context.Context, source string, limit int) ([]pipeline.Announcement, error) {
	query := `
		SELECT id, source, COALESCE(title, ''), COALESCE(detail_url, ''), status, COALESCE(attachments, '[]')
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

func (s *MySQLStore) ReplaceAttachments(ctx context.Context, id string, attachments []pipeline.Attachment) (bool, error) {
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
		`SELECT COALESCE(attachments, '') FROM announcements WHERE id = ?`, id).Scan(&prior)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("reading prior attachments: %w", err)
	}
	created := errors.Is(err, sql.ErrNoRows) || !hasAttachments(prior)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO announcements (id, status, attachments)
		VALUES (?, 'completed', ?)
		ON DUPLICATE KEY UPDATE status = 'completed', attachments = VALUES(attachments)`,
		id, encoded)
	if err != nil {
		return false, fmt.Errorf("replacing attachments for %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing: %w", err)
	}
	return created, nil
}

func (s *MySQLStore) SetStatus(ctx context.Context, id string, status pipeline.Status) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO announcements (id, status)
		VALUES (?, ?)
		ON DUPLICATE KEY UPDATE status = VALUES(status)`,
		id, string(status))
	if err != nil {
		return fmt.Errorf("setting status of %s: %w", id, err)
	}
	return nil
}

// Seed inserts or refreshes a record without touching its attachments.
func (s *MySQLStore) Seed(ctx context.Context, record pipeline.Announcement) error {
	status := record.Status
	if status == "" {
		status = pipeline.StatusPending
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO announcements (id, source, title, detail_url, status)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE source = VALUES(source), title = VALUES(title), detail_url = VALUES(detail_url)`,
		record.ID, record.Source, record.Title, record.DetailURL, string(status))
	if err != nil {
		return fmt.Errorf("seeding %s: %w", record.ID, err)
	}
	return nil
}

func (s *MySQLStore) Close() error {
	return s.db.Close()
}
