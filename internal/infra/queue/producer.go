package queue

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/NewsFeed/internal/domain"
	"github.com/NewsFeed/internal/infra/metrics"
	"github.com/NewsFeed/pkg/logging"
	"github.com/segmentio/kafka-go"
)

// KafkaPublisher writes feed events asynchronously; Publish never waits on the broker.
// Delivery failures are reported through the completion callback.
type KafkaPublisher struct {
	writer *kafka.Writer
}

var _ domain.EventPublisher = (*KafkaPublisher)(nil)

func NewKafkaPublisher(brokers []string, topic string, sampler *logging.ErrorSampler) *KafkaPublisher {
	if sampler == nil {
		sampler = logging.NewErrorSampler(0)
	}
	w := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.Hash{},
		Async:    true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				metrics.FeedEventsPublished.WithLabelValues("error").Add(float64(len(messages)))
				sampler.Log(context.Background(), slog.Default(), slog.LevelWarn, "kafka_write",
					"Failed to write feed events", "count", len(messages), "error", err)
				return
			}
			metrics.FeedEventsPublished.WithLabelValues("success").Add(float64(len(messages)))
		},
	}
	slog.Info("Kafka Publisher initialized", "brokers", brokers, "topic", topic)
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event domain.FeedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	// Keyed by mode so headline and search events keep their own ordering.
	msg := kafka.Message{
		Key:   []byte(event.Mode),
		Value: payload,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		slog.Error("Failed to write to kafka", "error", err)
		return err
	}

	slog.Debug("Queued feed event", "id", event.ID, "mode", event.Mode)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher drops events. It is used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, domain.FeedEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }
