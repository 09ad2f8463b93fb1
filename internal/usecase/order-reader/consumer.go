package orderreader

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	orderreaderv1 "github.com/muhammadchandra19/matching-engine/internal/domain/order-reader/v1"
	"github.com/muhammadchandra19/matching-engine/pkg/config"
	"github.com/muhammadchandra19/matching-engine/pkg/errors"
	"github.com/muhammadchandra19/matching-engine/pkg/logger"
)

var _ orderreaderv1.OrderReader = (*Reader)(nil)

// kafkaReader is the part of *kafka.Reader the consumer uses.
type kafkaReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	SetOffset(offset int64) error
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Reader represents a Kafka Reader for consuming messages from the order topic.
//
// Without a group id the reader is pinned to partition 0 and the engine owns the
// offset through its snapshots. With a group id, offsets are committed to Kafka
// and SetOffset is ignored.
type Reader struct {
	kafkaReader kafkaReader
	grouped     bool
	logger      *logger.Logger
}

// NewReader creates a new Kafka reader for consuming messages from the order topic.
func NewReader(cfg config.KafkaConfig, log *logger.Logger) *Reader {
	readerConfig := kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		MinBytes: 1,
		MaxBytes: 10e6,
	}
	if cfg.GroupID != "" {
		readerConfig.GroupID = cfg.GroupID
	} else {
		readerConfig.Partition = 0
		readerConfig.StartOffset = kafka.FirstOffset
	}

	return &Reader{
		kafkaReader: kafka.NewReader(readerConfig),
		grouped:     cfg.GroupID != "",
		logger:      log,
	}
}

// logError is a helper method to log errors consistently
func (r *Reader) logError(ctx context.Context, err error, operation string) {
	r.logger.ErrorContext(ctx, err,
		logger.Field{Key: "error", Value: err.Error()},
		logger.Field{Key: "operation", Value: operation},
	)
}

// SetOffset sets the offset for the Kafka reader.
func (r *Reader) SetOffset(offset int64) error {
	if r.grouped {
		r.logger.Warn("SetOffset ignored for consumer group", logger.Field{Key: "offset", Value: offset})
		return nil
	}

	if err := r.kafkaReader.SetOffset(offset); err != nil {
		r.logError(context.Background(), err, "SetOffset")
		return errors.NewTracer(errors.ReadOrderError).Wrap(err)
	}
	return nil
}

// ReadMessage reads a message from the Kafka topic and parses it as a command.
func (r *Reader) ReadMessage(ctx context.Context) (kafka.Message, *orderreaderv1.PlaceOrderRequest, error) {
	msg, err := r.kafkaReader.ReadMessage(ctx)
	if err != nil {
		if ctx.Err() == nil {
			r.logError(ctx, err, "ReadMessage")
		}
		return kafka.Message{}, nil, err
	}

	req, err := DecodeRequest(msg)
	if err != nil {
		r.logError(ctx, err, "UnmarshalOrder")
		return msg, nil, errors.NewTracer(errors.ReadOrderError).Wrap(err)
	}

	r.logger.DebugContext(ctx, "ReadMessage",
		logger.Field{Key: "orderID", Value: req.OrderID},
		logger.Field{Key: "type", Value: req.Type},
		logger.Field{Key: "side", Value: req.Side},
		logger.Field{Key: "size", Value: req.Size.String()},
		logger.Field{Key: "price", Value: req.Price.String()},
		logger.Field{Key: "offset", Value: req.Offset},
	)

	return msg, req, nil
}

// DecodeRequest parses a message value and stamps it with the message offset and time.
func DecodeRequest(msg kafka.Message) (*orderreaderv1.PlaceOrderRequest, error) {
	var req orderreaderv1.PlaceOrderRequest
	if err := json.Unmarshal(msg.Value, &req); err != nil {
		return nil, err
	}
	req.Offset = msg.Offset
	req.ReceivedAt = msg.Time
	return &req, nil
}

// Close properly closes the Kafka reader.
func (r *Reader) Close() error {
	if err := r.kafkaReader.Close(); err != nil {
		r.logError(context.Background(), err, "Close")
		return err
	}
	return nil
}

// CommitMessages commits the messages to Kafka after processing.
// It is a no-op without a consumer group.
func (r *Reader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	if !r.grouped || len(msgs) == 0 {
		return nil
	}

	if err := r.kafkaReader.CommitMessages(ctx, msgs...); err != nil {
		r.logError(ctx, err, "CommitMessages")
		return errors.NewTracer(errors.ReadOrderError).Wrap(err)
	}
	return nil
}
