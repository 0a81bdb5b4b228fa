// internal/pipeline/types.go

// Package pipeline turns detail pages into normalized attachment lists:
// extraction via the source adapters, deduplication and URL canonicalization,
// filename recovery, type classification, and idempotent persistence through
// the Store interface.
package pipeline

import (
	"context"

	"github.com/oby500/bizinfo-automation-sub001/internal/filetype"
)

// Status is the per-record processing state. It is always a scalar.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Attachment is one normalized downloadable file of an announcement.
type Attachment struct {
	SourceURL        string        `json:"source_url" bson:"source_url"`
	CanonicalURL     string        `json:"canonical_url" bson:"canonical_url"`
	DeclaredType     string        `json:"declared_type,omitempty" bson:"declared_type,omitempty"`
	DetectedType     filetype.Type `json:"detected_type" bson:"detected_type"`
	MIMEType         string        `json:"mime_type,omitempty" bson:"mime_type,omitempty"`
	DetectedBy       string        `json:"detected_by,omitempty" bson:"detected_by,omitempty"`
	DisplayFilename  string        `json:"display_filename" bson:"display_filename"`
	OriginalFilename string        `json:"original_filename" bson:"original_filename"`
	SafeFilename     string        `json:"safe_filename" bson:"safe_filename"`
	Size             int64         `json:"size,omitempty" bson:"size,omitempty"`
}

// Announcement is one grant/announcement record as stored by the collector.
// The pipeline owns only Attachments and Status.
type Announcement struct {
	ID          string       `json:"id" bson:"_id"`
	Source      string       `json:"source" bson:"source"`
	Title       string       `json:"title,omitempty" bson:"title,omitempty"`
	DetailURL   string       `json:"detail_url" bson:"detail_url"`
	Status      Status       `json:"status" bson:"status"`
	Attachments []Attachment `json:"attachments" bson:"attachments"`
}

// Store persists pipeline results. Implementations live in internal/output.
// ReplaceAttachments swaps the record's whole attachment list and sets the
// status to completed in one idempotent upsert; created reports whether the
// record had no attachment list before this call.
type Store interface {
	ListPending(ctx context.Context, source string, limit int) ([]Announcement, error)
	ReplaceAttachments(ctx context.Context, id string, attachments []Attachment) (created bool, err error)
	SetStatus(ctx context.Context, id string, status Status) error
	Close() error
}

// Summary is the outcome of one batch run.
type Summary struct {
	New     int `json:"new"`
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}
