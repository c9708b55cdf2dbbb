package event

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"

	eventv1 "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/event/v1"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/config"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/errors"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/logger"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher publishes pipeline events to a Kafka topic keyed by event type and version.
type Publisher struct {
	kafkaWriter messageWriter
	logger      logger.Interface
}

// NewPublisher creates a Kafka publisher for pipeline events.
func NewPublisher(cfg config.EventKafkaConfig, log logger.Interface) *Publisher {
	kafkaWriter := kafka.NewWriter(kafka.WriterConfig{
		Brokers:      cfg.Brokers,
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
	})

	return &Publisher{
		kafkaWriter: kafkaWriter,
		logger:      log,
	}
}

// Ensure Publisher implements Publisher interface
var _ eventv1.Publisher = (*Publisher)(nil)

// Publish writes event to the topic.
func (p *Publisher) Publish(ctx context.Context, event eventv1.Event) error {
	value, err := event.ToBytes()
	if err != nil {
		return errors.NewTracer("failed to encode pipeline event").Wrap(err)
	}

	msg := kafka.Message{
		Key:   event.Key(),
		Value: value,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Type)},
		},
	}

	if err := p.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		p.logger.ErrorContext(ctx, err,
			logger.NewField("event_type", event.Type),
			logger.NewField("version", event.Version),
		)
		return errors.NewTracer("failed to publish pipeline event").Wrap(err)
	}

	p.logger.InfoContext(ctx, "pipeline event published",
		logger.NewField("event_type", event.Type),
		logger.NewField("version", event.Version),
	)
	return nil
}

// Close flushes pending messages and closes the writer.
func (p *Publisher) Close() error {
	return p.kafkaWriter.Close()
}

// NopPublisher drops every event. It stands in when event publishing is disabled.
type NopPublisher struct{}

// Ensure NopPublisher implements Publisher interface
var _ eventv1.Publisher = NopPublisher{}

// Publish does nothing.
func (NopPublisher) Publish(context.Context, eventv1.Event) error { return nil }

// Close does nothing.
func (NopPublisher) Close() error { return nil }
