package orderbookv1

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Limit represents a price level in the order book with associated orders.
// Orders are kept in arrival order, which is their time priority.
type Limit struct {
	price       decimal.Decimal
	orders      []*Order
	totalVolume decimal.Decimal
}

// NewLimit creates a new Limit with the specified price.
func NewLimit(price decimal.Decimal) *Limit {
	return &Limit{
		price:       price,
		orders:      make([]*Order, 0),
		totalVolume: decimal.Zero,
	}
}

// Price returns the price of this limit.
func (l *Limit) Price() decimal.Decimal {
	return l.price
}

// AddOrder appends the order to the back of the queue and returns its Open event.
func (l *Limit) AddOrder(order *Order, seq *Sequence) (Log, error) {
	if order == nil {
		return Log{}, ErrNilOrder
	}
	if !order.size.IsPositive() {
		return Log{}, fmt.Errorf("%w: size must be positive, got %s", ErrInvalidOrder, order.size)
	}
	if !order.price.Equal(l.price) {
		return Log{}, fmt.Errorf("%w: order %s at %s, limit at %s", ErrPriceMismatch, order.id, order.price, l.price)
	}
	if l.indexOf(order.id) >= 0 {
		return Log{}, fmt.Errorf("%w: order %s already rests at %s", ErrInvalidOrder, order.id, l.price)
	}

	l.orders = append(l.orders, order)
	l.totalVolume = l.totalVolume.Add(order.size)

	return seq.open(order), nil
}

// CancelOrder removes the order with the given id and returns its Done event.
func (l *Limit) CancelOrder(id string, seq *Sequence) (Log, error) {
	i := l.indexOf(id)
	if i < 0 {
		return Log{}, fmt.Errorf("%w: %s at %s", ErrOrderNotFound, id, l.price)
	}

	order := l.orders[i]
	l.orders = append(l.orders[:i], l.orders[i+1:]...)
	l.totalVolume = l.totalVolume.Sub(order.size)

	return seq.done(order, DoneReasonDeleted), nil
}

// Fill matches the incoming order against this level and returns the events in emission order.
func (l *Limit) Fill(incoming *Order, seq *Sequence) []Log {
	logs, _ := l.fill(incoming, seq, false)
	return logs
}

// FillWithMatches is Fill that also returns one MatchResult per Match event.
func (l *Limit) FillWithMatches(incoming *Order, seq *Sequence) ([]Log, []MatchResult) {
	return l.fill(incoming, seq, true)
}

func (l *Limit) fill(incoming *Order, seq *Sequence, withMatches bool) ([]Log, []MatchResult) {
	if incoming == nil {
		return nil, nil
	}

	var (
		logs    []Log
		matches []MatchResult
		filled  []int
	)

	for i, resting := range l.orders {
		if !incoming.size.IsPositive() {
			break
		}

		matched := decimal.Min(incoming.size, resting.size)
		incoming.size = incoming.size.Sub(matched)
		resting.size = resting.size.Sub(matched)
		l.totalVolume = l.totalVolume.Sub(matched)

		logs = append(logs, seq.match(incoming, resting, l.price, matched))
		if withMatches {
			matches = append(matches, MatchResult{
				Maker:      resting.View(),
				Taker:      incoming.View(),
				Price:      l.price,
				SizeFilled: matched,
			})
		}

		if resting.IsFilled() {
			filled = append(filled, i)
			logs = append(logs, seq.done(resting, DoneReasonFilled))
		}
	}

	l.removeIndices(filled)
	return logs, matches
}

// removeIndices drops the orders at the given ascending indices in one pass.
func (l *Limit) removeIndices(indices []int) {
	if len(indices) == 0 {
		return
	}

	kept := l.orders[:0]
	next := 0
	for i, order := range l.orders {
		if next < len(indices) && indices[next] == i {
			next++
			continue
		}
		kept = append(kept, order)
	}
	for i := len(kept); i < len(l.orders); i++ {
		l.orders[i] = nil
	}
	l.orders = kept
}

func (l *Limit) indexOf(id string) int {
	for i, order := range l.orders {
		if order.id == id {
			return i
		}
	}
	return -1
}

// Contains reports whether an order with the given id rests at this level.
func (l *Limit) Contains(id string) bool {
	return l.indexOf(id) >= 0
}

// IsEmpty checks if the limit has no orders
func (l *Limit) IsEmpty() bool {
	return len(l.orders) == 0
}

// OrderCount returns the number of orders at this limit
func (l *Limit) OrderCount() int {
	return len(l.orders)
}

// TotalVolume returns the total resting size at this limit
func (l *Limit) TotalVolume() decimal.Decimal {
	return l.totalVolume
}

// Orders returns views of the resting orders in time priority.
func (l *Limit) Orders() []OrderView {
	views := make([]OrderView, len(l.orders))
	for i, order := range l.orders {
		views[i] = order.View()
	}
	return views
}

// Validate performs basic validation of the limit's state
func (l *Limit) Validate() error {
	if !l.price.IsPositive() {
		return fmt.Errorf("%w: limit price %s", ErrInvalidOrder, l.price)
	}

	calculated := decimal.Zero
	seen := make(map[string]struct{}, len(l.orders))
	for _, order := range l.orders {
		if order == nil {
			return fmt.Errorf("nil order found in limit %s", l.price)
		}
		if !order.size.IsPositive() {
			return fmt.Errorf("%w: order %s has size %s", ErrInvalidOrder, order.id, order.size)
		}
		if !order.price.Equal(l.price) {
			return fmt.Errorf("%w: order %s at %s, limit at %s", ErrPriceMismatch, order.id, order.price, l.price)
		}
		if _, dup := seen[order.id]; dup {
			return fmt.Errorf("%w: order %s appears twice at %s", ErrInvalidOrder, order.id, l.price)
		}
		seen[order.id] = struct{}{}
		calculated = calculated.Add(order.size)
	}

	if !calculated.Equal(l.totalVolume) {
		return fmt.Errorf("volume mismatch: calculated %s, stored %s", calculated, l.totalVolume)
	}

	return nil
}
