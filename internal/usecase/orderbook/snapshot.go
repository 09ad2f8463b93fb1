package orderbook

import (
	"fmt"

	orderbookv1 "github.com/muhammadchandra19/matching-engine/internal/domain/orderbook/v1"
)

// Snapshot captures every resting order and both counters.
// Asks come first, best price first, then bids; each level keeps time priority.
func (ob *Orderbook) Snapshot() *orderbookv1.SnapshotData {
	bookOrders := make([]orderbookv1.BookOrder, 0, len(ob.orders))
	appendLevel := func(limit *orderbookv1.Limit) bool {
		for _, view := range limit.Orders() {
			bookOrders = append(bookOrders, orderbookv1.BookOrder{
				OrderID:   view.ID,
				Side:      view.Side,
				Price:     limit.Price(),
				Size:      view.Size,
				CreatedAt: view.CreatedAt,
			})
		}
		return true
	}
	ob.asks.Scan(appendLevel)
	ob.bids.Reverse(appendLevel)

	return &orderbookv1.SnapshotData{
		Pair:          ob.Pair(),
		Orders:        bookOrders,
		LogSequence:   ob.seq.LastLog(),
		TradeSequence: ob.seq.LastTrade(),
	}
}

// Restore replaces the book content with data. Orders are re-added in the
// listed sequence, which becomes their time priority. No events are emitted
// and the counters continue from the snapshot values.
//
// A crossed book is restored as it was captured; only structural damage
// (duplicates, bad sizes or prices, another pair) is malformed.
// On error the book is left exactly as it was.
func (ob *Orderbook) Restore(data *orderbookv1.SnapshotData) error {
	if err := data.Validate(); err != nil {
		return err
	}
	if data.Pair != "" && data.Pair != ob.Pair() {
		return fmt.Errorf("%w: snapshot for %s restored into %s", orderbookv1.ErrMalformedSnapshot, data.Pair, ob.Pair())
	}

	fresh := &Orderbook{
		seq:    orderbookv1.NewSequence(ob.Pair(), ob.clock),
		clock:  ob.clock,
		asks:   newLadder(),
		bids:   newLadder(),
		orders: make(map[string]orderRef, len(data.Orders)),
	}

	for _, bookOrder := range data.Orders {
		order, err := orderbookv1.NewOrderAt(bookOrder.OrderID, bookOrder.Side, bookOrder.Price, bookOrder.Size, bookOrder.CreatedAt)
		if err != nil {
			return fmt.Errorf("%w: order %s: %v", orderbookv1.ErrMalformedSnapshot, bookOrder.OrderID, err)
		}
		if _, err := fresh.AddLimitOrder(bookOrder.Price, order); err != nil {
			return fmt.Errorf("%w: failed to restore order %s: %v", orderbookv1.ErrMalformedSnapshot, bookOrder.OrderID, err)
		}
	}

	if err := fresh.Validate(); err != nil {
		return fmt.Errorf("%w: %v", orderbookv1.ErrMalformedSnapshot, err)
	}

	ob.asks = fresh.asks
	ob.bids = fresh.bids
	ob.orders = fresh.orders
	ob.seq.Seed(data.LogSequence, data.TradeSequence)
	return nil
}

// RestoreOrderbook builds a new book from data.
func RestoreOrderbook(data *orderbookv1.SnapshotData, opts ...Option) (*Orderbook, error) {
	if data == nil {
		return nil, fmt.Errorf("%w: snapshot is nil", orderbookv1.ErrMalformedSnapshot)
	}

	ob := NewOrderbook(data.Pair, opts...)
	if err := ob.Restore(data); err != nil {
		return nil, err
	}
	return ob, nil
}
