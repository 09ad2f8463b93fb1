package orderbookv1

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// LogType represents the kind of a book event.
type LogType string

const (
	// LogTypeReceived acknowledges an accepted command before it touches the book.
	LogTypeReceived LogType = "received"
	// LogTypeOpen means a limit order became resting.
	LogTypeOpen LogType = "open"
	// LogTypeMatch is one fill step between a taker and a maker.
	LogTypeMatch LogType = "match"
	// LogTypeDone means a resting order left the book.
	LogTypeDone LogType = "done"
)

// DoneReason tells why a resting order left the book.
type DoneReason string

const (
	// DoneReasonFilled is used when matching drained the order to zero.
	DoneReasonFilled DoneReason = "FILLED"
	// DoneReasonDeleted is used when the order was cancelled.
	DoneReasonDeleted DoneReason = "DELETED"
)

// Log is one immutable, sequenced record of a book state transition.
// Exactly one payload is set and it always matches Type.
type Log struct {
	Type     LogType   `json:"type"`
	Sequence int64     `json:"sequence"`
	Pair     string    `json:"pair"`
	Time     time.Time `json:"time"`

	Received *ReceivedLog `json:"received,omitempty"`
	Open     *OpenLog     `json:"open,omitempty"`
	Match    *MatchLog    `json:"match,omitempty"`
	Done     *DoneLog     `json:"done,omitempty"`
}

// ReceivedLog is the payload of a received event.
type ReceivedLog struct {
	OrderID string          `json:"orderID"`
	Side    Side            `json:"side"`
	Size    decimal.Decimal `json:"size"`
	Price   decimal.Decimal `json:"price"`
}

// OpenLog is the payload of an open event.
type OpenLog struct {
	OrderID string          `json:"orderID"`
	Size    decimal.Decimal `json:"size"`
	Price   decimal.Decimal `json:"price"`
	Side    Side            `json:"side"`
}

// MatchLog is the payload of a match event.
type MatchLog struct {
	TakerOrderID string          `json:"takerOrderID"`
	MakerOrderID string          `json:"makerOrderID"`
	Price        decimal.Decimal `json:"price"`
	Size         decimal.Decimal `json:"size"`
}

// DoneLog is the payload of a done event.
type DoneLog struct {
	OrderID       string          `json:"orderID"`
	Price         decimal.Decimal `json:"price"`
	RemainingSize decimal.Decimal `json:"remainingSize"`
	Reason        DoneReason      `json:"reason"`
	Side          Side            `json:"side"`
}

// Validate checks that the payload present matches the declared type.
func (l Log) Validate() error {
	set := 0
	for _, present := range []bool{l.Received != nil, l.Open != nil, l.Match != nil, l.Done != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("log %d: expected exactly one payload, got %d", l.Sequence, set)
	}

	var ok bool
	switch l.Type {
	case LogTypeReceived:
		ok = l.Received != nil
	case LogTypeOpen:
		ok = l.Open != nil
	case LogTypeMatch:
		ok = l.Match != nil
	case LogTypeDone:
		ok = l.Done != nil
	default:
		return fmt.Errorf("log %d: unknown type %q", l.Sequence, l.Type)
	}
	if !ok {
		return fmt.Errorf("log %d: payload does not match type %q", l.Sequence, l.Type)
	}
	return nil
}

// OrderID returns the id of the order the event is about. For matches it is the maker.
func (l Log) OrderID() string {
	switch l.Type {
	case LogTypeReceived:
		return l.Received.OrderID
	case LogTypeOpen:
		return l.Open.OrderID
	case LogTypeMatch:
		return l.Match.MakerOrderID
	case LogTypeDone:
		return l.Done.OrderID
	}
	return ""
}

// Sequence hands out the book-wide event and trade sequence numbers.
// One order book owns one Sequence; every event it emits is stamped from it.
type Sequence struct {
	pair  string
	log   int64
	trade int64
	now   func() time.Time
}

// NewSequence creates a counter for pair starting at zero. A nil clock means time.Now.
func NewSequence(pair string, now func() time.Time) *Sequence {
	if now == nil {
		now = time.Now
	}
	return &Sequence{pair: pair, now: now}
}

// Pair returns the instrument identifier stamped on every event.
func (s *Sequence) Pair() string { return s.pair }

// LastLog returns the last issued event sequence number.
func (s *Sequence) LastLog() int64 { return s.log }

// LastTrade returns the last issued trade sequence number.
func (s *Sequence) LastTrade() int64 { return s.trade }

// Seed moves both counters to the given values. Only restore uses it.
func (s *Sequence) Seed(log, trade int64) {
	s.log = log
	s.trade = trade
}

func (s *Sequence) header(t LogType) Log {
	s.log++
	return Log{
		Type:     t,
		Sequence: s.log,
		Pair:     s.pair,
		Time:     s.now(),
	}
}

// Received stamps an intake acknowledgement for order.
func (s *Sequence) Received(order *Order) Log {
	l := s.header(LogTypeReceived)
	l.Received = &ReceivedLog{
		OrderID: order.id,
		Side:    order.side,
		Size:    order.size,
		Price:   order.price,
	}
	return l
}

func (s *Sequence) open(order *Order) Log {
	l := s.header(LogTypeOpen)
	l.Open = &OpenLog{
		OrderID: order.id,
		Size:    order.size,
		Price:   order.price,
		Side:    order.side,
	}
	return l
}

func (s *Sequence) match(taker, maker *Order, price, size decimal.Decimal) Log {
	s.trade++
	l := s.header(LogTypeMatch)
	l.Match = &MatchLog{
		TakerOrderID: taker.id,
		MakerOrderID: maker.id,
		Price:        price,
		Size:         size,
	}
	return l
}

func (s *Sequence) done(order *Order, reason DoneReason) Log {
	l := s.header(LogTypeDone)
	l.Done = &DoneLog{
		OrderID:       order.id,
		Price:         order.price,
		RemainingSize: order.size,
		Reason:        reason,
		Side:          order.side,
	}
	return l
}
