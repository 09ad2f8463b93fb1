package orderbook

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tidwall/btree"

	orderbookv1 "github.com/muhammadchandra19/matching-engine/internal/domain/orderbook/v1"
)

var _ orderbookv1.Orderbook = (*Orderbook)(nil)

// ladder holds the price levels of one side ordered by ascending price.
type ladder = btree.BTreeG[*orderbookv1.Limit]

type orderRef struct {
	side  orderbookv1.Side
	price decimal.Decimal
}

// Orderbook is a price-time priority book for a single instrument.
//
// It is not safe for concurrent use. The engine owns one book per instrument
// and applies commands to it from a single goroutine.
type Orderbook struct {
	seq    *orderbookv1.Sequence
	clock  func() time.Time
	asks   *ladder
	bids   *ladder
	orders map[string]orderRef // orderID -> level
}

// Option configures an Orderbook.
type Option func(*Orderbook)

// WithClock sets the clock used to stamp events.
func WithClock(now func() time.Time) Option {
	return func(ob *Orderbook) {
		ob.clock = now
	}
}

// NewOrderbook creates an empty orderbook for pair
func NewOrderbook(pair string, opts ...Option) *Orderbook {
	ob := &Orderbook{clock: time.Now}
	for _, opt := range opts {
		opt(ob)
	}

	ob.seq = orderbookv1.NewSequence(pair, ob.clock)
	ob.asks = newLadder()
	ob.bids = newLadder()
	ob.orders = make(map[string]orderRef)
	return ob
}

func newLadder() *ladder {
	return btree.NewBTreeGOptions(func(a, b *orderbookv1.Limit) bool {
		return a.Price().LessThan(b.Price())
	}, btree.Options{NoLocks: true})
}

func (ob *Orderbook) ladder(side orderbookv1.Side) *ladder {
	if side == orderbookv1.SideBid {
		return ob.bids
	}
	return ob.asks
}

// Pair returns the instrument this book trades.
func (ob *Orderbook) Pair() string {
	return ob.seq.Pair()
}

// LogSequence returns the sequence of the last emitted event.
func (ob *Orderbook) LogSequence() int64 {
	return ob.seq.LastLog()
}

// TradeSequence returns the number of matches the book produced.
func (ob *Orderbook) TradeSequence() int64 {
	return ob.seq.LastTrade()
}

// Receive emits a Received acknowledgement for order. The book is not changed.
func (ob *Orderbook) Receive(order *orderbookv1.Order) orderbookv1.Log {
	return ob.seq.Received(order)
}

// AddLimitOrder rests order at price without attempting to match it.
func (ob *Orderbook) AddLimitOrder(price decimal.Decimal, order *orderbookv1.Order) (orderbookv1.Log, error) {
	if err := ob.checkLimitOrder(price, order); err != nil {
		return orderbookv1.Log{}, err
	}
	return ob.rest(order), nil
}

// PlaceLimitOrder matches order against every marketable level on the
// opposite side, then rests whatever is left at the order's price.
func (ob *Orderbook) PlaceLimitOrder(order *orderbookv1.Order) ([]orderbookv1.Log, error) {
	if order == nil {
		return nil, orderbookv1.ErrNilOrder
	}
	if err := ob.checkLimitOrder(order.Price(), order); err != nil {
		return nil, err
	}

	logs, _ := ob.fill(order, false)
	if !order.IsFilled() {
		logs = append(logs, ob.rest(order))
	}
	return logs, nil
}

// FillMarketOrder matches order against the opposite side until it is filled
// or the side is exhausted. An unfilled remainder is discarded.
func (ob *Orderbook) FillMarketOrder(order *orderbookv1.Order) ([]orderbookv1.Log, error) {
	logs, _, err := ob.FillMarketOrderWithMatches(order)
	return logs, err
}

// FillMarketOrderWithMatches is FillMarketOrder that also reports one MatchResult per Match event.
func (ob *Orderbook) FillMarketOrderWithMatches(order *orderbookv1.Order) ([]orderbookv1.Log, []orderbookv1.MatchResult, error) {
	if order == nil {
		return nil, nil, orderbookv1.ErrNilOrder
	}
	if !order.IsMarket() {
		return nil, nil, fmt.Errorf("%w: market order %s carries price %s", orderbookv1.ErrInvalidOrder, order.ID(), order.Price())
	}
	if !order.Size().IsPositive() {
		return nil, nil, fmt.Errorf("%w: size must be positive, got %s", orderbookv1.ErrInvalidOrder, order.Size())
	}

	logs, matches := ob.fill(order, true)
	return logs, matches, nil
}

// CancelOrder removes the resting order with the given id.
func (ob *Orderbook) CancelOrder(id string) (orderbookv1.Log, error) {
	ref, ok := ob.orders[id]
	if !ok {
		return orderbookv1.Log{}, fmt.Errorf("%w: %s", orderbookv1.ErrOrderNotFound, id)
	}

	levels := ob.ladder(ref.side)
	limit, ok := levels.Get(orderbookv1.NewLimit(ref.price))
	if !ok {
		panic(fmt.Sprintf("orderbook %s: order %s indexed at %s %s but the level does not exist", ob.Pair(), id, ref.side, ref.price))
	}

	log, err := limit.CancelOrder(id, ob.seq)
	if err != nil {
		panic(fmt.Sprintf("orderbook %s: order %s indexed at %s %s: %v", ob.Pair(), id, ref.side, ref.price, err))
	}

	delete(ob.orders, id)
	if limit.IsEmpty() {
		levels.Delete(limit)
	}
	return log, nil
}

func (ob *Orderbook) checkLimitOrder(price decimal.Decimal, order *orderbookv1.Order) error {
	if order == nil {
		return orderbookv1.ErrNilOrder
	}
	if !price.IsPositive() {
		return fmt.Errorf("%w: price must be positive, got %s", orderbookv1.ErrInvalidOrder, price)
	}
	if !order.Price().Equal(price) {
		return fmt.Errorf("%w: order %s at %s, requested %s", orderbookv1.ErrPriceMismatch, order.ID(), order.Price(), price)
	}
	if !order.Size().IsPositive() {
		return fmt.Errorf("%w: size must be positive, got %s", orderbookv1.ErrInvalidOrder, order.Size())
	}
	if _, exists := ob.orders[order.ID()]; exists {
		return fmt.Errorf("%w: order with ID %s already exists", orderbookv1.ErrInvalidOrder, order.ID())
	}
	return nil
}

// rest appends a checked order to its level, creating the level if needed.
func (ob *Orderbook) rest(order *orderbookv1.Order) orderbookv1.Log {
	levels := ob.ladder(order.Side())
	limit, ok := levels.Get(orderbookv1.NewLimit(order.Price()))
	if !ok {
		limit = orderbookv1.NewLimit(order.Price())
		levels.Set(limit)
	}

	log, err := limit.AddOrder(order, ob.seq)
	if err != nil {
		panic(fmt.Sprintf("orderbook %s: adding checked order %s: %v", ob.Pair(), order.ID(), err))
	}

	ob.orders[order.ID()] = orderRef{side: order.Side(), price: limit.Price()}
	return log
}

// fill walks the opposite side best price first while the order crosses.
func (ob *Orderbook) fill(order *orderbookv1.Order, withMatches bool) ([]orderbookv1.Log, []orderbookv1.MatchResult) {
	levels := ob.ladder(order.Side().Opposite())

	// Collect the marketable levels up front so draining one never disturbs the walk.
	var crossing []*orderbookv1.Limit
	collect := func(limit *orderbookv1.Limit) bool {
		if !order.Crosses(limit.Price()) {
			return false
		}
		crossing = append(crossing, limit)
		return true
	}
	if order.IsBid() {
		levels.Scan(collect)
	} else {
		levels.Reverse(collect)
	}

	var (
		logs    []orderbookv1.Log
		matches []orderbookv1.MatchResult
	)
	for _, limit := range crossing {
		if order.IsFilled() {
			break
		}

		var levelLogs []orderbookv1.Log
		if withMatches {
			var levelMatches []orderbookv1.MatchResult
			levelLogs, levelMatches = limit.FillWithMatches(order, ob.seq)
			matches = append(matches, levelMatches...)
		} else {
			levelLogs = limit.Fill(order, ob.seq)
		}

		for _, l := range levelLogs {
			if l.Type == orderbookv1.LogTypeDone {
				delete(ob.orders, l.Done.OrderID)
			}
		}
		logs = append(logs, levelLogs...)

		if limit.IsEmpty() {
			levels.Delete(limit)
		}
	}

	return logs, matches
}

// Order returns the current state of a resting order.
func (ob *Orderbook) Order(id string) (orderbookv1.OrderView, bool) {
	ref, ok := ob.orders[id]
	if !ok {
		return orderbookv1.OrderView{}, false
	}

	limit, ok := ob.ladder(ref.side).Get(orderbookv1.NewLimit(ref.price))
	if !ok {
		return orderbookv1.OrderView{}, false
	}
	for _, view := range limit.Orders() {
		if view.ID == id {
			return view, true
		}
	}
	return orderbookv1.OrderView{}, false
}

// Asks returns ask limits sorted by price (ascending)
func (ob *Orderbook) Asks() orderbookv1.Limits {
	limits := make(orderbookv1.Limits, 0, ob.asks.Len())
	ob.asks.Scan(func(limit *orderbookv1.Limit) bool {
		limits = append(limits, limit)
		return true
	})
	return limits
}

// Bids returns bid limits sorted by price (descending)
func (ob *Orderbook) Bids() orderbookv1.Limits {
	limits := make(orderbookv1.Limits, 0, ob.bids.Len())
	ob.bids.Reverse(func(limit *orderbookv1.Limit) bool {
		limits = append(limits, limit)
		return true
	})
	return limits
}

// BestAsk returns the lowest ask price.
func (ob *Orderbook) BestAsk() (decimal.Decimal, bool) {
	limit, ok := ob.asks.Min()
	if !ok {
		return decimal.Zero, false
	}
	return limit.Price(), true
}

// BestBid returns the highest bid price.
func (ob *Orderbook) BestBid() (decimal.Decimal, bool) {
	limit, ok := ob.bids.Max()
	if !ok {
		return decimal.Zero, false
	}
	return limit.Price(), true
}

// AskTotalVolume returns total ask volume
func (ob *Orderbook) AskTotalVolume() decimal.Decimal {
	return totalVolume(ob.asks)
}

// BidTotalVolume returns total bid volume
func (ob *Orderbook) BidTotalVolume() decimal.Decimal {
	return totalVolume(ob.bids)
}

func totalVolume(levels *ladder) decimal.Decimal {
	total := decimal.Zero
	levels.Scan(func(limit *orderbookv1.Limit) bool {
		total = total.Add(limit.TotalVolume())
		return true
	})
	return total
}

// Len returns the number of resting orders.
func (ob *Orderbook) Len() int {
	return len(ob.orders)
}

// Validate checks the structural invariants of the whole book.
func (ob *Orderbook) Validate() error {
	count := 0
	for _, side := range []orderbookv1.Side{orderbookv1.SideAsk, orderbookv1.SideBid} {
		var err error
		ob.ladder(side).Scan(func(limit *orderbookv1.Limit) bool {
			if limit.IsEmpty() {
				err = fmt.Errorf("empty %s level at %s", side, limit.Price())
				return false
			}
			if err = limit.Validate(); err != nil {
				return false
			}
			for _, view := range limit.Orders() {
				ref, ok := ob.orders[view.ID]
				if !ok || ref.side != side || !ref.price.Equal(limit.Price()) || view.Side != side {
					err = fmt.Errorf("order %s at %s %s is not indexed there", view.ID, side, limit.Price())
					return false
				}
				count++
			}
			return true
		})
		if err != nil {
			return err
		}
	}

	if count != len(ob.orders) {
		return fmt.Errorf("index holds %d orders, levels hold %d", len(ob.orders), count)
	}

	if asks := ob.Asks(); !sort.IsSorted(orderbookv1.ByBestAsk{Limits: asks}) {
		return fmt.Errorf("ask levels out of order: %v", asks.Prices())
	}
	if bids := ob.Bids(); !sort.IsSorted(orderbookv1.ByBestBid{Limits: bids}) {
		return fmt.Errorf("bid levels out of order: %v", bids.Prices())
	}
	return nil
}

// IsCrossed reports whether the best bid is at or above the best ask.
// Matching never leaves the book crossed; AddLimitOrder and Restore can.
func (ob *Orderbook) IsCrossed() bool {
	bestBid, hasBid := ob.BestBid()
	bestAsk, hasAsk := ob.BestAsk()
	return hasBid && hasAsk && bestBid.GreaterThanOrEqual(bestAsk)
}
