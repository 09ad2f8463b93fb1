package orderbookv1

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNilOrder          = errors.New("order cannot be nil")
	ErrInvalidOrder      = errors.New("invalid order")
	ErrOrderNotFound     = errors.New("order not found")
	ErrMalformedSnapshot = errors.New("malformed snapshot")
	ErrPriceMismatch     = errors.New("order price does not match the limit price")
)

// Side is the direction of an order.
type Side string

const (
	// SideBid is a buy order.
	SideBid Side = "bid"
	// SideAsk is a sell order.
	SideAsk Side = "ask"
)

// Valid reports whether s is one of the two known sides.
func (s Side) Valid() bool {
	return s == SideBid || s == SideAsk
}

// Opposite returns the side an order of side s matches against.
func (s Side) Opposite() Side {
	if s == SideBid {
		return SideAsk
	}
	return SideBid
}

// Order represents a single order in the order book.
//
// Size is only changed by Limit while matching; callers observe it through Size().
type Order struct {
	id        string
	side      Side
	price     decimal.Decimal
	size      decimal.Decimal
	createdAt time.Time
}

// OrderView is an immutable copy of an order's state at one point in time.
type OrderView struct {
	ID    string          `json:"id"`
	Side  Side            `json:"side"`
	Price decimal.Decimal `json:"price"`
	Size  decimal.Decimal `json:"size"`

	CreatedAt time.Time `json:"createdAt"`
}

// NewOrder creates a limit order. Price and size must be positive.
func NewOrder(id string, side Side, price, size decimal.Decimal) (*Order, error) {
	return NewOrderAt(id, side, price, size, time.Now())
}

// NewOrderAt is NewOrder with an explicit creation time, used when rebuilding a book.
func NewOrderAt(id string, side Side, price, size decimal.Decimal, createdAt time.Time) (*Order, error) {
	if !price.IsPositive() {
		return nil, fmt.Errorf("%w: price must be positive, got %s", ErrInvalidOrder, price)
	}

	order, err := newOrder(id, side, size, createdAt)
	if err != nil {
		return nil, err
	}
	order.price = price
	return order, nil
}

// NewMarketOrder creates an order without a price limit.
func NewMarketOrder(id string, side Side, size decimal.Decimal) (*Order, error) {
	return newOrder(id, side, size, time.Now())
}

func newOrder(id string, side Side, size decimal.Decimal, createdAt time.Time) (*Order, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id cannot be empty", ErrInvalidOrder)
	}
	if !side.Valid() {
		return nil, fmt.Errorf("%w: unknown side %q", ErrInvalidOrder, side)
	}
	if !size.IsPositive() {
		return nil, fmt.Errorf("%w: size must be positive, got %s", ErrInvalidOrder, size)
	}

	return &Order{
		id:        id,
		side:      side,
		size:      size,
		createdAt: createdAt,
	}, nil
}

// ID returns the caller-supplied order id.
func (o *Order) ID() string { return o.id }

// Side returns the order side.
func (o *Order) Side() Side { return o.side }

// Price returns the limit price. It is zero for market orders.
func (o *Order) Price() decimal.Decimal { return o.price }

// Size returns the remaining size.
func (o *Order) Size() decimal.Decimal { return o.size }

// CreatedAt returns when the order was created. Diagnostics only.
func (o *Order) CreatedAt() time.Time { return o.createdAt }

// IsBid checks if the order is a bid (buy) order.
func (o *Order) IsBid() bool {
	return o.side == SideBid
}

// IsAsk checks if the order is an ask (sell) order.
func (o *Order) IsAsk() bool {
	return o.side == SideAsk
}

// IsMarket reports whether the order carries no price limit.
func (o *Order) IsMarket() bool {
	return o.price.IsZero()
}

// IsFilled checks if the order is filled (size is zero).
func (o *Order) IsFilled() bool {
	return o.size.IsZero()
}

// View returns a snapshot of the order's current state.
func (o *Order) View() OrderView {
	return OrderView{
		ID:    o.id,
		Side:  o.side,
		Price: o.price,
		Size:  o.size,

		CreatedAt: o.createdAt,
	}
}

// Crosses reports whether a resting level at price is marketable for this order.
// Market orders cross every level.
func (o *Order) Crosses(price decimal.Decimal) bool {
	if o.IsMarket() {
		return true
	}
	if o.IsBid() {
		return price.LessThanOrEqual(o.price)
	}
	return price.GreaterThanOrEqual(o.price)
}
