package orderreaderv1

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	orderbookv1 "github.com/muhammadchandra19/matching-engine/internal/domain/orderbook/v1"
)

// OrderType is the kind of command carried by a PlaceOrderRequest.
type OrderType string

const (
	OrderTypeLimit  OrderType = "limit"
	OrderTypeMarket OrderType = "market"
	OrderTypeCancel OrderType = "cancel"
)

// PlaceOrderRequest is one command read from the order topic.
type PlaceOrderRequest struct {
	OrderID string           `json:"orderID"`
	Type    OrderType        `json:"type"`
	Side    orderbookv1.Side `json:"side"`
	Size    decimal.Decimal  `json:"size"`
	Price   decimal.Decimal  `json:"price"`

	// Offset and ReceivedAt are filled from the message, not from the payload.
	Offset     int64     `json:"-"`
	ReceivedAt time.Time `json:"-"`
}

// Validate checks the fields each command type needs.
func (r *PlaceOrderRequest) Validate() error {
	switch r.Type {
	case OrderTypeCancel:
		if r.OrderID == "" {
			return fmt.Errorf("%w: cancel requires an order id", orderbookv1.ErrInvalidOrder)
		}
		return nil
	case OrderTypeLimit:
		if r.OrderID == "" {
			return fmt.Errorf("%w: limit order requires an id", orderbookv1.ErrInvalidOrder)
		}
		if !r.Price.IsPositive() {
			return fmt.Errorf("%w: limit price must be positive, got %s", orderbookv1.ErrInvalidOrder, r.Price)
		}
	case OrderTypeMarket:
	default:
		return fmt.Errorf("%w: unknown order type %q", orderbookv1.ErrInvalidOrder, r.Type)
	}

	if !r.Side.Valid() {
		return fmt.Errorf("%w: unknown side %q", orderbookv1.ErrInvalidOrder, r.Side)
	}
	if !r.Size.IsPositive() {
		return fmt.Errorf("%w: size must be positive, got %s", orderbookv1.ErrInvalidOrder, r.Size)
	}
	return nil
}
