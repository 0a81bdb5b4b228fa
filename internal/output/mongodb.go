// internal/output/mongodb.go
package output

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oby500/bizinfo-automation-sub001/internal/pipeline"
)

const mongoDefaultDatabase = "harvester"

// MongoStore persists announcements as documents, attachments as an
// embedded array.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to the URI; the database name comes from the URI
// path, falling back to "harvester".
func NewMongoStore(uri string) (*MongoStore, error) {
	if uri == "" {
		return nil, fmt.Errorf("MongoDB URI is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(databaseFromURI(uri)).Collection("announcements"),
	}, nil
}

func databaseFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return mongoDefaultDatabase
	}
	if name := strings.TrimPrefix(u.Path, "/"); name != "" {
		return name
	}
	return mongoDefaultDatabase
}

func (s *MongoStore) ListPending(ctx context.Context, source string, limit int) ([]pipeline.Announcement, error) {
	filter := bson.M{"status": bson.M{"$in": []string{
		string(pipeline.StatusPending), string(pipeline.StatusFailed),
	}}}
	if source != "" {
		filter["source"] = source
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("listing pending announcements: %w", err)
	}
	defer cursor.Close(ctx)

	var out []pipeline.Announcement
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decoding announcements: %w", err)
	}
	return out, nil
}

// ListCompleted returns processed records for reporting.
func (s *MongoStore) ListCompleted(ctx context.Context, source string, limit int) ([]pipeline.Announcement, error) {
	filter := bson.M{"status": string(pipeline.StatusCompleted)}
	if source != "" {
		filter["source"] = source
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("listing completed announcements: %w", err)
	}
	defer cursor.Close(ctx)

	var out []pipeline.Announcement
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decoding announcements: %w", err)
	}
	return out, nil
}

func (s *MongoStore) ReplaceAttachments(ctx context.Context, id string, attachments []pipeline.Attachment) (bool, error) {
	if attachments == nil {
		attachments = []pipeline.Attachment{}
	}

	var prior pipeline.Announcement
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&prior)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return false, fmt.Errorf("reading prior attachments: %w", err)
	}
	created := errors.Is(err, mongo.ErrNoDocuments) || len(prior.Attachments) == 0

	_, err = s.coll.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"status":      string(pipeline.StatusCompleted),
		"attachments": attachments,
		"updated_at":  time.Now().UTC(),
	}}, options.Update().SetUpsert(true))
	if err != nil {
		return false, fmt.Errorf("replacing attachments for %s: %w", id, err)
	}
	return created, nil
}

func (s *MongoStore) SetStatus(ctx context.Context, id string, status pipeline.Status) error {
	_, err := s.coll.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"status":     string(status),
		"updated_at": time.Now().UTC(),
	}}, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("setting status of %s: %w", id, err)
	}
	return nil
}

// Seed inserts or refreshes a record without touching its attachments.
func (s *MongoStore) Seed(ctx context.Context, record pipeline.Announcement) error {
	status := record.Status
	if status == "" {
		status = pipeline.StatusPending
	}
	_, err := s.coll.UpdateByID(ctx, record.ID, bson.M{
		"$set": bson.M{
			"source":     record.Source,
			"title":      record.Title,
			"detail_url": record.DetailURL,
		},
		"$setOnInsert": bson.M{
			"status": string(status),
		},
	}, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("seeding %s: %w", record.ID, err)
	}
	return nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
