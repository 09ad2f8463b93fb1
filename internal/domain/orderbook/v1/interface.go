package orderbookv1

import "github.com/shopspring/decimal"

// Orderbook is the single-instrument book the engine drives.
// Implementations are not safe for concurrent use; one goroutine owns a book.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=orderbookv1_mock
type Orderbook interface {
	// Receive stamps an intake acknowledgement without touching the book.
	Receive(order *Order) Log
	// AddLimitOrder rests order at price without crossing.
	AddLimitOrder(price decimal.Decimal, order *Order) (Log, error)
	// PlaceLimitOrder fills order against marketable levels and rests the remainder.
	PlaceLimitOrder(order *Order) ([]Log, error)
	// FillMarketOrder fills order against the opposite side; any remainder is dropped.
	FillMarketOrder(order *Order) ([]Log, error)
	// CancelOrder removes the resting order with the given id.
	CancelOrder(id string) (Log, error)

	Snapshot() *SnapshotData
	Restore(data *SnapshotData) error
	// IsCrossed reports whether the best bid is at or above the best ask.
	IsCrossed() bool

	Pair() string
	LogSequence() int64
	TradeSequence() int64
}
