// Package factory provides dependency injection constructors for infrastructure components.
package factory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NewsFeed/internal/domain"
	"github.com/NewsFeed/internal/infra/httpcache"
	"github.com/NewsFeed/internal/infra/queue"
	"github.com/NewsFeed/internal/infra/repository"
	"github.com/NewsFeed/pkg/config"
	"github.com/NewsFeed/pkg/logging"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
)

// NewMongoClient creates a MongoDB client when the mongo cache backend is selected.
// Otherwise it returns a nil client.
func NewMongoClient(lc fx.Lifecycle, cfg *config.Config) (*mongo.Client, error) {
	if cfg.CacheBackend != config.CacheBackendMongo {
		return nil, nil
	}
	if cfg.MongoURI == "" {
		return nil, errors.New("mongo URI not configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Disconnect(ctx)
		},
	})

	return client, nil
}

// NewResponseStore selects the reuse-window cache backend.
// A nil store disables caching in the transport.
func NewResponseStore(cfg *config.Config, client *mongo.Client) (httpcache.Store, error) {
	switch cfg.CacheBackend {
	case config.CacheBackendMemory:
		return httpcache.NewMemoryStore(cfg.CacheMaxEntries, cfg.ReuseWindow), nil
	case config.CacheBackendNone:
		return nil, nil
	case config.CacheBackendMongo:
		if client == nil {
			return nil, errors.New("mongo client is nil")
		}
		if cfg.MongoDBName == "" {
			return nil, errors.New("mongo database name not configured")
		}
		if cfg.MongoColl == "" {
			return nil, errors.New("mongo collection name not configured")
		}
		return repository.NewMongoResponseStore(client, cfg.MongoDBName, cfg.MongoColl)
	default:
		return nil, fmt.Errorf("unknown cache backend: %q", cfg.CacheBackend)
	}
}

// NewErrorSampler creates the sampler for Kafka publish warnings.
func NewErrorSampler(cfg *config.Config) *logging.ErrorSampler {
	return logging.NewErrorSampler(cfg.LogSampleInterval)
}

// NewEventPublisher creates the Kafka feed event publisher, or a no-op one without brokers.
func NewEventPublisher(cfg *config.Config, sampler *logging.ErrorSampler, lc fx.Lifecycle) (domain.EventPublisher, error) {
	if len(cfg.KafkaBrokers) == 0 {
		return queue.NoopPublisher{}, nil
	}
	if cfg.KafkaTopic == "" {
		return nil, errors.New("kafka topic not configured")
	}

	publisher := queue.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, sampler)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return publisher.Close()
		},
	})
	return publisher, nil
}
