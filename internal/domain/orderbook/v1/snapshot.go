package orderbookv1

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SnapshotData is the serializable state of one order book.
// Orders are listed level by level, best price first, in time priority within a level.
type SnapshotData struct {
	Pair          string      `json:"pair"`
	Orders        []BookOrder `json:"orders"`
	LogSequence   int64       `json:"logSequence"`
	TradeSequence int64       `json:"tradeSequence"`
}

// BookOrder is a resting order as stored in a snapshot.
type BookOrder struct {
	OrderID   string          `json:"orderID"`
	Side      Side            `json:"side"`
	Price     decimal.Decimal `json:"price"`
	Size      decimal.Decimal `json:"size"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Validate reports ErrMalformedSnapshot when the data could not come from a consistent book.
func (s *SnapshotData) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: snapshot is nil", ErrMalformedSnapshot)
	}
	if s.LogSequence < 0 || s.TradeSequence < 0 {
		return fmt.Errorf("%w: negative sequence (log %d, trade %d)", ErrMalformedSnapshot, s.LogSequence, s.TradeSequence)
	}

	seen := make(map[string]struct{}, len(s.Orders))
	for i, o := range s.Orders {
		switch {
		case o.OrderID == "":
			return fmt.Errorf("%w: order %d has no id", ErrMalformedSnapshot, i)
		case !o.Side.Valid():
			return fmt.Errorf("%w: order %s has unknown side %q", ErrMalformedSnapshot, o.OrderID, o.Side)
		case !o.Price.IsPositive():
			return fmt.Errorf("%w: order %s has price %s", ErrMalformedSnapshot, o.OrderID, o.Price)
		case !o.Size.IsPositive():
			return fmt.Errorf("%w: order %s has size %s", ErrMalformedSnapshot, o.OrderID, o.Size)
		}
		if _, dup := seen[o.OrderID]; dup {
			return fmt.Errorf("%w: duplicate order id %s", ErrMalformedSnapshot, o.OrderID)
		}
		seen[o.OrderID] = struct{}{}
	}
	return nil
}
