// internal/output/store.go

// Package output implements the pipeline's Store interface over PostgreSQL,
// MySQL, SQLite, and MongoDB, plus an Excel inventory report. Relational
// backends keep the attachment list as a JSON column; re-running the pipeline
// replaces it wholesale, never row by row.
package output

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/oby500/bizinfo-automation-sub001/internal/pipeline"
)

// Seeder is implemented by stores that can register a record ahead of a
// pipeline run, the way the collector does.
type Seeder interface {
	Seed(ctx context.Context, record pipeline.Announcement) error
}

// Lister is implemented by stores that can enumerate processed records for
// the inventory report.
type Lister interface {
	ListCompleted(ctx context.Context, source string, limit int) ([]pipeline.Announcement, error)
}

// Open builds a store for the configured backend.
func Open(backend, dsn string) (pipeline.Store, error) {
	switch backend {
	case "postgres", "postgresql":
		return NewPostgresStore(dsn)
	case "mysql":
		return NewMySQLStore(dsn)
	case "sqlite", "sqlite3":
		return NewSQLiteStore(dsn)
	case "mongodb", "mongo":
		return NewMongoStore(dsn)
	}
	return nil, fmt.Errorf("unknown store backend %q", backend)
}

func marshalAttachments(attachments []pipeline.Attachment) (string, error) {
	if attachments == nil {
		attachments = []pipeline.Attachment{}
	}
	raw, err := json.Marshal(attachments)
	if err != nil {
		return "", fmt.Errorf("encoding attachments: %w", err)
	}
	return string(raw), nil
}

func unmarshalAttachments(raw string) ([]pipeline.Attachment, error) {
	if raw == "" {
		return nil, nil
	}
	var attachments []pipeline.Attachment
	if err := json.Unmarshal([]byte(raw), &attachments); err != nil {
		return nil, fmt.Errorf("decoding attachments: %w", err)
	}
	return attachments, nil
}

// hasAttachments reports whether a stored JSON list is non-empty; used to
// decide the created flag of ReplaceAttachments.
func hasAttachments(raw string) bool {
	return raw != "" && raw != "[]" && raw != "null"
}
