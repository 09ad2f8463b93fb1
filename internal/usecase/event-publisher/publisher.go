package eventpublisher

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	eventpublisherv1 "github.com/muhammadchandra19/matching-engine/internal/domain/event-publisher/v1"
	orderbookv1 "github.com/muhammadchandra19/matching-engine/internal/domain/orderbook/v1"
	"github.com/muhammadchandra19/matching-engine/pkg/config"
	"github.com/muhammadchandra19/matching-engine/pkg/errors"
	"github.com/muhammadchandra19/matching-engine/pkg/logger"
)

var _ eventpublisherv1.EventPublisher = (*Publisher)(nil)

// kafkaWriter is the part of *kafka.Writer the publisher uses.
type kafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher represents a Kafka Publisher for book events.
// Every event of a pair is keyed by the pair so they land on one partition in order.
type Publisher struct {
	kafkaWriter kafkaWriter
	logger      *logger.Logger
}

// NewPublisher creates a new Kafka publisher for book events.
func NewPublisher(cfg config.EventPublisherConfig, log *logger.Logger) *Publisher {
	kafkaWriter := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: cfg.BatchTimeout,
		RequiredAcks: kafka.RequireAll,
	}

	return &Publisher{
		kafkaWriter: kafkaWriter,
		logger:      log,
	}
}

// Publish writes logs as one batch, preserving their order.
func (p *Publisher) Publish(ctx context.Context, logs []orderbookv1.Log) error {
	if len(logs) == 0 {
		return nil
	}

	msgs, err := EncodeMessages(logs)
	if err != nil {
		p.logger.ErrorContext(ctx, err, logger.Field{Key: "first_sequence", Value: logs[0].Sequence})
		return errors.NewTracer(errors.PublishEventError).Wrap(err)
	}

	if err := p.kafkaWriter.WriteMessages(ctx, msgs...); err != nil {
		p.logger.ErrorContext(ctx, err,
			logger.Field{Key: "error", Value: err.Error()},
			logger.Field{Key: "first_sequence", Value: logs[0].Sequence},
			logger.Field{Key: "count", Value: len(logs)},
		)
		return errors.NewTracer(errors.PublishEventError).Wrap(err)
	}
	return nil
}

// Close flushes pending messages and closes the writer.
func (p *Publisher) Close() error {
	return p.kafkaWriter.Close()
}

// EncodeMessages turns logs into Kafka messages carrying JSON envelopes.
func EncodeMessages(logs []orderbookv1.Log) ([]kafka.Message, error) {
	msgs := make([]kafka.Message, 0, len(logs))
	for _, l := range logs {
		envelope, err := eventpublisherv1.NewEnvelope(l)
		if err != nil {
			return nil, err
		}

		value, err := json.Marshal(envelope)
		if err != nil {
			return nil, err
		}

		msgs = append(msgs, kafka.Message{
			Key:   []byte(l.Pair),
			Value: value,
			Headers: []kafka.Header{
				{Key: "type", Value: []byte(l.Type)},
			},
		})
	}
	return msgs, nil
}
