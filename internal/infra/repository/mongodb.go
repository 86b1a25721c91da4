package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NewsFeed/internal/infra/httpcache"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// cachedResponse is the stored form of an httpcache.Entry.
type cachedResponse struct {
	Key        string              `bson:"_id"`
	StatusCode int                 `bson:"status_code"`
	Header     map[string][]string `bson:"header"`
	Body       []byte              `bson:"body"`
	StoredAt   time.Time           `bson:"stored_at"`
	ExpiresAt  time.Time           `bson:"expires_at"`
}

// MongoResponseStore keeps upstream responses shared across instances.
// A TTL index reaps expired documents; lookups also filter on expiry since
// the reaper runs only about once a minute.
type MongoResponseStore struct {
	collection *mongo.Collection
	now        func() time.Time
}

var _ httpcache.Store = (*MongoResponseStore)(nil)

func NewMongoResponseStore(client *mongo.Client, dbName, collectionName string) (*MongoResponseStore, error) {
	store := &MongoResponseStore{
		collection: client.Database(dbName).Collection(collectionName),
		now:        time.Now,
	}

	if err := store.createIndexes(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}

	return store, nil
}

func (s *MongoResponseStore) createIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetName("expires_at_ttl_idx").SetExpireAfterSeconds(0),
		},
	}

	opts := options.CreateIndexes().SetMaxTime(10 * time.Second)
	_, err := s.collection.Indexes().CreateMany(ctx, models, opts)
	return err
}

func (s *MongoResponseStore) Get(ctx context.Context, key string) (httpcache.Entry, bool, error) {
	filter := bson.M{
		"_id":        key,
		"expires_at": bson.M{"$gt": s.now()},
	}

	var doc cachedResponse
	err := s.collection.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return httpcache.Entry{}, false, nil
	}
	if err != nil {
		return httpcache.Entry{}, false, fmt.Errorf("failed to read cached response: %w", err)
	}

	return httpcache.Entry{
		StatusCode: doc.StatusCode,
		Header:     doc.Header,
		Body:       doc.Body,
		StoredAt:   doc.StoredAt,
	}, true, nil
}

func (s *MongoResponseStore) Set(ctx context.Context, key string, entry httpcache.Entry, ttl time.Duration) error {
	doc := cachedResponse{
		Key:        key,
		StatusCode: entry.StatusCode,
		Header:     entry.Header,
		Body:       entry.Body,
		StoredAt:   entry.StoredAt,
		ExpiresAt:  s.now().Add(ttl),
	}

	filter := bson.M{"_id": key}
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)

	if _, err := s.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert cached response: %w", err)
	}
	return nil
}
