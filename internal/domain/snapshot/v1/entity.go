package snapshotv1

import (
	"fmt"

	orderbookv1 "github.com/muhammadchandra19/matching-engine/internal/domain/orderbook/v1"
)

// Snapshot is a point-in-time copy of the book together with the command offset it reflects.
type Snapshot struct {
	// OrderOffset is the offset of the last command applied before the snapshot was taken.
	OrderOffset       int64                    `json:"orderOffset"`
	OrderBookSnapshot orderbookv1.SnapshotData `json:"orderBookSnapshot"`
}

// Validate checks the offset and the embedded book state.
func (s *Snapshot) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: snapshot is nil", orderbookv1.ErrMalformedSnapshot)
	}
	if s.OrderOffset < -1 {
		return fmt.Errorf("%w: order offset %d", orderbookv1.ErrMalformedSnapshot, s.OrderOffset)
	}
	return s.OrderBookSnapshot.Validate()
}
