package snapshot

import (
	"context"
	"encoding/json"
	"fmt"

	snapshotv1 "github.com/muhammadchandra19/matching-engine/internal/domain/snapshot/v1"
	"github.com/muhammadchandra19/matching-engine/pkg/errors"
	"github.com/muhammadchandra19/matching-engine/pkg/logger"
	"github.com/muhammadchandra19/matching-engine/pkg/redis"
)

var _ snapshotv1.Store = (*Store)(nil)

// Store keeps the latest snapshot of one pair's order book in Redis.
type Store struct {
	pair        string
	logger      *logger.Logger
	redisclient redis.Client
}

// NewSnapshotStore creates a new Snapshot instance with the given Redis client and pair.
func NewSnapshotStore(redisclient redis.Client, pair string, logger *logger.Logger) *Store {
	return &Store{
		pair:        pair,
		redisclient: redisclient,
		logger:      logger,
	}
}

// Key returns the Redis key the snapshot lives under, before the client prefix.
func (s *Store) Key() string {
	return fmt.Sprintf("snapshot:%s", s.pair)
}

// Store stores the snapshot in Redis.
// A failed write is retried once after reconnecting.
func (s *Store) Store(ctx context.Context, snapshot *snapshotv1.Snapshot) error {
	fields := []logger.Field{
		{Key: "pair", Value: s.pair},
		{Key: "action", Value: "store snapshot"},
	}

	if err := snapshot.Validate(); err != nil {
		s.logger.ErrorContext(ctx, err, fields...)
		return errors.NewTracer(errors.MalformedSnapshotError).Wrap(err)
	}

	buf, err := json.Marshal(snapshot)
	if err != nil {
		s.logger.ErrorContext(ctx, err, fields...)
		return errors.NewTracer(errors.SnapshotMarshalError).Wrap(err)
	}

	err = s.redisclient.Set(ctx, s.Key(), buf, 0)
	if err != nil && s.redisclient.Reconnect(ctx) {
		s.logger.WarnContext(ctx, "Retrying snapshot write after reconnect", fields...)
		err = s.redisclient.Set(ctx, s.Key(), buf, 0)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, err, fields...)
		return errors.NewTracer(errors.SnapshotStoreError).Wrap(err)
	}

	s.logger.InfoContext(ctx, fmt.Sprintf("Snapshot stored for pair %s", s.pair), append(fields,
		logger.Field{Key: "order_offset", Value: snapshot.OrderOffset},
		logger.Field{Key: "orders", Value: len(snapshot.OrderBookSnapshot.Orders)},
		logger.Field{Key: "log_sequence", Value: snapshot.OrderBookSnapshot.LogSequence},
	)...)
	return nil
}

// LoadStore loads the snapshot from Redis. It returns nil, nil when none was stored.
func (s *Store) LoadStore(ctx context.Context) (*snapshotv1.Snapshot, error) {
	fields := []logger.Field{
		{Key: "pair", Value: s.pair},
		{Key: "action", Value: "load snapshot"},
	}
	s.logger.InfoContext(ctx, fmt.Sprintf("Loading snapshot for pair %s", s.pair), fields...)

	data, err := s.redisclient.Get(ctx, s.Key())
	if err != nil {
		s.logger.ErrorContext(ctx, err, fields...)
		return nil, errors.NewTracer(errors.SnapshotLoadError).Wrap(err)
	}

	if data == "" {
		s.logger.WarnContext(ctx, fmt.Sprintf("No snapshot found for pair %s", s.pair), fields...)
		return nil, nil
	}

	var snapshot snapshotv1.Snapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		s.logger.ErrorContext(ctx, err, fields...)
		return nil, errors.NewTracer(errors.SnapshotUnmarshalError).Wrap(err)
	}

	if err := snapshot.Validate(); err != nil {
		s.logger.ErrorContext(ctx, err, fields...)
		return nil, errors.NewTracer(errors.MalformedSnapshotError).Wrap(err)
	}

	return &snapshot, nil
}
