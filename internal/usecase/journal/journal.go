package journal

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/pebble"

	journalv1 "github.com/muhammadchandra19/matching-engine/internal/domain/journal/v1"
	orderbookv1 "github.com/muhammadchandra19/matching-engine/internal/domain/orderbook/v1"
	"github.com/muhammadchandra19/matching-engine/pkg/errors"
	"github.com/muhammadchandra19/matching-engine/pkg/logger"
)

var _ journalv1.Journal = (*Journal)(nil)

// Journal stores the event stream of one pair in a local pebble database.
// Keys are log/<pair>/<zero padded sequence> so iteration order is sequence order.
type Journal struct {
	db     *pebble.DB
	pair   string
	logger *logger.Logger
}

// Open opens or creates the journal under dir.
func Open(dir, pair string, log *logger.Logger) (*Journal, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		log.Error(err, logger.Field{Key: "dir", Value: dir}, logger.Field{Key: "pair", Value: pair})
		return nil, errors.NewTracer(errors.JournalOpenError).Wrap(err)
	}

	return &Journal{
		db:     db,
		pair:   pair,
		logger: log,
	}, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Append writes logs in one synced batch.
func (j *Journal) Append(ctx context.Context, logs []orderbookv1.Log) error {
	if len(logs) == 0 {
		return nil
	}

	batch := j.db.NewBatch()
	defer batch.Close()

	for _, l := range logs {
		if l.Pair != j.pair {
			err := fmt.Errorf("event %d belongs to %s, journal is for %s", l.Sequence, l.Pair, j.pair)
			j.logger.ErrorContext(ctx, err)
			return errors.NewTracer(errors.JournalAppendError).Wrap(err)
		}

		buf, err := json.Marshal(l)
		if err != nil {
			j.logger.ErrorContext(ctx, err, logger.Field{Key: "sequence", Value: l.Sequence})
			return errors.NewTracer(errors.JournalAppendError).Wrap(err)
		}
		if err := batch.Set(j.keyFor(l.Sequence), buf, nil); err != nil {
			j.logger.ErrorContext(ctx, err, logger.Field{Key: "sequence", Value: l.Sequence})
			return errors.NewTracer(errors.JournalAppendError).Wrap(err)
		}
	}

	if err := batch.Commit(pebble.Sync); err != nil {
		j.logger.ErrorContext(ctx, err,
			logger.Field{Key: "first_sequence", Value: logs[0].Sequence},
			logger.Field{Key: "count", Value: len(logs)},
		)
		return errors.NewTracer(errors.JournalAppendError).Wrap(err)
	}
	return nil
}

// LastSequence returns the highest stored sequence, 0 when the journal is empty.
func (j *Journal) LastSequence(ctx context.Context) (int64, error) {
	iter, err := j.db.NewIter(j.bounds(0))
	if err != nil {
		return 0, errors.NewTracer(errors.JournalReadError).Wrap(err)
	}
	defer iter.Close()

	if !iter.Last() {
		if err := iter.Error(); err != nil {
			return 0, errors.NewTracer(errors.JournalReadError).Wrap(err)
		}
		return 0, nil
	}

	seq, err := j.parseKey(iter.Key())
	if err != nil {
		j.logger.ErrorContext(ctx, err)
		return 0, errors.NewTracer(errors.JournalReadError).Wrap(err)
	}
	return seq, nil
}

// ReadFrom calls fn for each event with sequence >= from, in ascending order.
// It stops at the first error returned by fn or when ctx is done.
func (j *Journal) ReadFrom(ctx context.Context, from int64, fn func(orderbookv1.Log) error) error {
	iter, err := j.db.NewIter(j.bounds(from))
	if err != nil {
		return errors.NewTracer(errors.JournalReadError).Wrap(err)
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}

		var l orderbookv1.Log
		if err := json.Unmarshal(iter.Value(), &l); err != nil {
			j.logger.ErrorContext(ctx, err, logger.Field{Key: "key", Value: string(iter.Key())})
			return errors.NewTracer(errors.JournalReadError).Wrap(err)
		}
		if err := fn(l); err != nil {
			return err
		}
	}

	if err := iter.Error(); err != nil {
		return errors.NewTracer(errors.JournalReadError).Wrap(err)
	}
	return nil
}

func (j *Journal) prefix() string {
	return fmt.Sprintf("log/%s/", j.pair)
}

func (j *Journal) keyFor(seq int64) []byte {
	return []byte(fmt.Sprintf("%s%020d", j.prefix(), seq))
}

func (j *Journal) bounds(from int64) *pebble.IterOptions {
	if from < 0 {
		from = 0
	}
	return &pebble.IterOptions{
		LowerBound: j.keyFor(from),
		UpperBound: []byte(j.prefix() + "~"),
	}
}

func (j *Journal) parseKey(key []byte) (int64, error) {
	var seq int64
	_, err := fmt.Sscanf(string(key[len(j.prefix()):]), "%d", &seq)
	return seq, err
}
