package eventpublisher

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	eventpublisherv1 "github.com/muhammadchandra19/matching-engine/internal/domain/event-publisher/v1"
	orderbookv1 "github.com/muhammadchandra19/matching-engine/internal/domain/orderbook/v1"
	"github.com/muhammadchandra19/matching-engine/pkg/errors"
	"github.com/muhammadchandra19/matching-engine/pkg/logger"
)

type fakeKafkaWriter struct {
	written []kafka.Message
	err     error
	closed  bool
}

func (f *fakeKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.written = append(f.written, msgs...)
	return nil
}

func (f *fakeKafkaWriter) Close() error {
	f.closed = true
	return nil
}

var eventTime = time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)

func sampleLogs() []orderbookv1.Log {
	return []orderbookv1.Log{
		{
			Type: orderbookv1.LogTypeMatch, Sequence: 7, Pair: "BTC-USD", Time: eventTime,
			Match: &orderbookv1.MatchLog{
				TakerOrderID: "M1", MakerOrderID: "A1",
				Price: decimal.RequireFromString("100"), Size: decimal.RequireFromString("0.5"),
			},
		},
		{
			Type: orderbookv1.LogTypeDone, Sequence: 8, Pair: "BTC-USD", Time: eventTime,
			Done: &orderbookv1.DoneLog{
				OrderID: "A1", Side: orderbookv1.SideAsk, Reason: orderbookv1.DoneReasonFilled,
				Price: decimal.RequireFromString("100"), RemainingSize: decimal.Zero,
			},
		},
	}
}

func TestEncodeMessages(t *testing.T) {
	msgs, err := EncodeMessages(sampleLogs())
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	assert.Equal(t, []byte("BTC-USD"), msgs[0].Key)
	assert.Equal(t, "match", string(msgs[0].Headers[0].Value))

	var envelope eventpublisherv1.Envelope
	require.NoError(t, json.Unmarshal(msgs[0].Value, &envelope))
	assert.Equal(t, orderbookv1.LogTypeMatch, envelope.Type)
	assert.Equal(t, int64(7), envelope.Sequence)
	assert.Equal(t, eventTime.UnixNano(), envelope.Time)

	var match orderbookv1.MatchLog
	require.NoError(t, json.Unmarshal(envelope.Payload, &match))
	assert.Equal(t, "M1", match.TakerOrderID)
	assert.Equal(t, "0.5", match.Size.String())

	var done orderbookv1.DoneLog
	require.NoError(t, json.Unmarshal(msgs[1].Value, &envelope))
	require.NoError(t, json.Unmarshal(envelope.Payload, &done))
	assert.Equal(t, orderbookv1.DoneReasonFilled, done.Reason)
}

func TestEncodeMessages_InvalidLog(t *testing.T) {
	_, err := EncodeMessages([]orderbookv1.Log{{Type: orderbookv1.LogTypeOpen, Sequence: 1}})
	assert.Error(t, err)
}

func TestPublisher_Publish(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name     string
		writer   *fakeKafkaWriter
		logs     []orderbookv1.Log
		assertFn func(t *testing.T, w *fakeKafkaWriter, err error)
	}{
		{
			name:   "writes one message per event in order",
			writer: &fakeKafkaWriter{},
			logs:   sampleLogs(),
			assertFn: func(t *testing.T, w *fakeKafkaWriter, err error) {
				require.NoError(t, err)
				require.Len(t, w.written, 2)
				assert.Equal(t, "done", string(w.written[1].Headers[0].Value))
			},
		},
		{
			name:   "nothing to publish",
			writer: &fakeKafkaWriter{},
			logs:   nil,
			assertFn: func(t *testing.T, w *fakeKafkaWriter, err error) {
				assert.NoError(t, err)
				assert.Empty(t, w.written)
			},
		},
		{
			name:   "writer failure",
			writer: &fakeKafkaWriter{err: stderrors.New("leader not available")},
			logs:   sampleLogs(),
			assertFn: func(t *testing.T, w *fakeKafkaWriter, err error) {
				assert.ErrorIs(t, err, errors.NewTracer(errors.PublishEventError))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := &Publisher{kafkaWriter: tc.writer, logger: logger.NewNopLogger()}
			err := p.Publish(ctx, tc.logs)
			tc.assertFn(t, tc.writer, err)
		})
	}
}
