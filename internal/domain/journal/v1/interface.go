package journalv1

import (
	"context"

	orderbookv1 "github.com/muhammadchandra19/matching-engine/internal/domain/orderbook/v1"
)

// Journal is the durable, append-only record of every event a book emitted.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=journalv1_mock
type Journal interface {
	// Append persists logs atomically. Appending an already stored sequence overwrites it.
	Append(ctx context.Context, logs []orderbookv1.Log) error
	// LastSequence returns the highest stored sequence, or 0 for an empty journal.
	LastSequence(ctx context.Context) (int64, error)
	// ReadFrom calls fn for every event with sequence >= from, in ascending order.
	ReadFrom(ctx context.Context, from int64, fn func(orderbookv1.Log) error) error
	Close() error
}
