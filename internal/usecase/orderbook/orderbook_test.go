package orderbook

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/btree"

	orderbookv1 "github.com/muhammadchandra19/matching-engine/internal/domain/orderbook/v1"
)

const testPair = "BTC-USD"

var fixedTime = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestOrderbook() *Orderbook {
	return NewOrderbook(testPair, WithClock(func() time.Time { return fixedTime }))
}

// Helper function to create a limit order
func limitOrder(t *testing.T, id string, side orderbookv1.Side, price, size string) *orderbookv1.Order {
	t.Helper()
	order, err := orderbookv1.NewOrder(id, side, dec(price), dec(size))
	require.NoError(t, err)
	return order
}

// Helper function to create a market order
func marketOrder(t *testing.T, id string, side orderbookv1.Side, size string) *orderbookv1.Order {
	t.Helper()
	order, err := orderbookv1.NewMarketOrder(id, side, dec(size))
	require.NoError(t, err)
	return order
}

// Helper function to rest an order without crossing
func addLimit(t *testing.T, ob *Orderbook, id string, side orderbookv1.Side, price, size string) {
	t.Helper()
	_, err := ob.AddLimitOrder(dec(price), limitOrder(t, id, side, price, size))
	require.NoError(t, err)
}

func logTypes(logs []orderbookv1.Log) []orderbookv1.LogType {
	types := make([]orderbookv1.LogType, len(logs))
	for i, l := range logs {
		types[i] = l.Type
	}
	return types
}

func matchedTotal(logs []orderbookv1.Log) decimal.Decimal {
	total := decimal.Zero
	for _, l := range logs {
		if l.Type == orderbookv1.LogTypeMatch {
			total = total.Add(l.Match.Size)
		}
	}
	return total
}

func assertMatch(t *testing.T, l orderbookv1.Log, taker, maker, price, size string) {
	t.Helper()
	require.Equal(t, orderbookv1.LogTypeMatch, l.Type)
	assert.Equal(t, taker, l.Match.TakerOrderID)
	assert.Equal(t, maker, l.Match.MakerOrderID)
	assert.Equal(t, price, l.Match.Price.String())
	assert.Equal(t, size, l.Match.Size.String())
}

func assertDone(t *testing.T, l orderbookv1.Log, id string, reason orderbookv1.DoneReason, remaining string) {
	t.Helper()
	require.Equal(t, orderbookv1.LogTypeDone, l.Type)
	assert.Equal(t, id, l.Done.OrderID)
	assert.Equal(t, reason, l.Done.Reason)
	assert.Equal(t, remaining, l.Done.RemainingSize.String())
}

func assertResting(t *testing.T, ob *Orderbook, id, size string) {
	t.Helper()
	view, ok := ob.Order(id)
	require.True(t, ok, "order %s should rest", id)
	assert.Equal(t, size, view.Size.String())
}

func TestNewOrderbook(t *testing.T) {
	ob := newTestOrderbook()

	assert.Equal(t, testPair, ob.Pair())
	assert.Equal(t, 0, ob.Len())
	assert.Empty(t, ob.Asks())
	assert.Empty(t, ob.Bids())
	assert.Equal(t, int64(0), ob.LogSequence())
	assert.Equal(t, int64(0), ob.TradeSequence())
	assert.NoError(t, ob.Validate())
}

func TestOrderbook_AddLimitOrder(t *testing.T) {
	t.Run("creates the level and returns an open event", func(t *testing.T) {
		ob := newTestOrderbook()

		log, err := ob.AddLimitOrder(dec("10000"), limitOrder(t, "A1", orderbookv1.SideAsk, "10000", "10"))

		require.NoError(t, err)
		assert.Equal(t, orderbookv1.LogTypeOpen, log.Type)
		assert.Equal(t, int64(1), log.Sequence)
		assert.Equal(t, testPair, log.Pair)
		assert.Equal(t, fixedTime, log.Time)
		assert.Equal(t, "A1", log.Open.OrderID)

		asks := ob.Asks()
		require.Len(t, asks, 1)
		assert.Equal(t, "10000", asks[0].Price().String())
		assert.Equal(t, 1, asks[0].OrderCount())
		assert.Empty(t, ob.Bids())
	})

	t.Run("same price shares one level", func(t *testing.T) {
		ob := newTestOrderbook()
		addLimit(t, ob, "A1", orderbookv1.SideAsk, "100", "10")
		addLimit(t, ob, "A2", orderbookv1.SideAsk, "100.0", "5")

		asks := ob.Asks()
		require.Len(t, asks, 1)
		assert.Equal(t, 2, asks[0].OrderCount())
		assert.Equal(t, "15", ob.AskTotalVolume().String())
	})

	t.Run("sequence is global across levels and sides", func(t *testing.T) {
		ob := newTestOrderbook()
		var seqs []int64
		for _, o := range []struct {
			id    string
			side  orderbookv1.Side
			price string
		}{
			{"A1", orderbookv1.SideAsk, "101"},
			{"B1", orderbookv1.SideBid, "99"},
			{"A2", orderbookv1.SideAsk, "102"},
		} {
			log, err := ob.AddLimitOrder(dec(o.price), limitOrder(t, o.id, o.side, o.price, "1"))
			require.NoError(t, err)
			seqs = append(seqs, log.Sequence)
		}
		assert.Equal(t, []int64{1, 2, 3}, seqs)
	})

	t.Run("rejections leave the book untouched", func(t *testing.T) {
		ob := newTestOrderbook()
		addLimit(t, ob, "A1", orderbookv1.SideAsk, "100", "1")

		_, err := ob.AddLimitOrder(dec("100"), nil)
		assert.ErrorIs(t, err, orderbookv1.ErrNilOrder)

		_, err = ob.AddLimitOrder(dec("0"), limitOrder(t, "A2", orderbookv1.SideAsk, "100", "1"))
		assert.ErrorIs(t, err, orderbookv1.ErrInvalidOrder)

		_, err = ob.AddLimitOrder(dec("101"), limitOrder(t, "A2", orderbookv1.SideAsk, "100", "1"))
		assert.ErrorIs(t, err, orderbookv1.ErrPriceMismatch)

		_, err = ob.AddLimitOrder(dec("100"), limitOrder(t, "A1", orderbookv1.SideAsk, "100", "1"))
		assert.ErrorIs(t, err, orderbookv1.ErrInvalidOrder)

		assert.Equal(t, int64(1), ob.LogSequence())
		assert.Equal(t, 1, ob.Len())
		assert.NoError(t, ob.Validate())
	})
}

// Scenario: market buy walks one level in time priority.
func TestOrderbook_FillMarketOrder_TimePriority(t *testing.T) {
	ob := newTestOrderbook()
	addLimit(t, ob, "A1", orderbookv1.SideAsk, "100", "10")
	addLimit(t, ob, "A2", orderbookv1.SideAsk, "100", "5")

	m1 := marketOrder(t, "M1", orderbookv1.SideBid, "12")
	logs, err := ob.FillMarketOrder(m1)

	require.NoError(t, err)
	require.Len(t, logs, 3)
	assertMatch(t, logs[0], "M1", "A1", "100", "10")
	assertDone(t, logs[1], "A1", orderbookv1.DoneReasonFilled, "0")
	assertMatch(t, logs[2], "M1", "A2", "100", "2")

	assertResting(t, ob, "A2", "3")
	_, ok := ob.Order("A1")
	assert.False(t, ok)
	assert.True(t, m1.IsFilled())
	assert.Equal(t, int64(2), ob.TradeSequence())
	assert.Equal(t, int64(5), ob.LogSequence())
	assert.NoError(t, ob.Validate())
}

// Scenario: market sell partially fills a resting bid without a done event.
func TestOrderbook_FillMarketOrder_PartialBid(t *testing.T) {
	ob := newTestOrderbook()
	addLimit(t, ob, "B1", orderbookv1.SideBid, "150", "20")

	logs, err := ob.FillMarketOrder(marketOrder(t, "M2", orderbookv1.SideAsk, "15"))

	require.NoError(t, err)
	require.Len(t, logs, 1)
	assertMatch(t, logs[0], "M2", "B1", "150", "15")
	assertResting(t, ob, "B1", "5")
	assert.Equal(t, "5", ob.BidTotalVolume().String())
}

// Scenario: price priority overrides insertion order across levels.
func TestOrderbook_FillMarketOrder_PricePriority(t *testing.T) {
	t.Run("buy consumes the lowest ask first", func(t *testing.T) {
		ob := newTestOrderbook()
		addLimit(t, ob, "A3", orderbookv1.SideAsk, "110", "10")
		addLimit(t, ob, "A4", orderbookv1.SideAsk, "105", "10")

		logs, err := ob.FillMarketOrder(marketOrder(t, "M3", orderbookv1.SideBid, "15"))

		require.NoError(t, err)
		assert.Equal(t, []orderbookv1.LogType{
			orderbookv1.LogTypeMatch, orderbookv1.LogTypeDone, orderbookv1.LogTypeMatch,
		}, logTypes(logs))
		assertMatch(t, logs[0], "M3", "A4", "105", "10")
		assertDone(t, logs[1], "A4", orderbookv1.DoneReasonFilled, "0")
		assertMatch(t, logs[2], "M3", "A3", "110", "5")

		asks := ob.Asks()
		require.Len(t, asks, 1)
		assert.Equal(t, "110", asks[0].Price().String())
	})

	t.Run("sell consumes the highest bid first", func(t *testing.T) {
		ob := newTestOrderbook()
		addLimit(t, ob, "B1", orderbookv1.SideBid, "90", "1")
		addLimit(t, ob, "B2", orderbookv1.SideBid, "95", "1")
		addLimit(t, ob, "B3", orderbookv1.SideBid, "92.5", "1")

		logs, err := ob.FillMarketOrder(marketOrder(t, "M4", orderbookv1.SideAsk, "3"))

		require.NoError(t, err)
		require.Len(t, logs, 6)
		assertMatch(t, logs[0], "M4", "B2", "95", "1")
		assertMatch(t, logs[2], "M4", "B3", "92.5", "1")
		assertMatch(t, logs[4], "M4", "B1", "90", "1")
		assert.Empty(t, ob.Bids())
		assert.Equal(t, 0, ob.Len())
	})
}

// Scenario: market order against an empty side.
func TestOrderbook_FillMarketOrder_EmptySide(t *testing.T) {
	ob := newTestOrderbook()
	addLimit(t, ob, "B1", orderbookv1.SideBid, "100", "1")

	order := marketOrder(t, "M5", orderbookv1.SideBid, "100")
	logs, err := ob.FillMarketOrder(order)

	require.NoError(t, err)
	assert.Empty(t, logs)
	assert.Equal(t, "100", order.Size().String())
	_, ok := ob.Order("M5")
	assert.False(t, ok, "market remainder must not rest")
	assert.Equal(t, int64(1), ob.LogSequence())
}

func TestOrderbook_FillMarketOrder_Conservation(t *testing.T) {
	testCases := []struct {
		name          string
		size          string
		wantMatched   string
		wantRemaining string
	}{
		{name: "smaller than liquidity", size: "4.5", wantMatched: "4.5", wantRemaining: "0"},
		{name: "equal to liquidity", size: "7.25", wantMatched: "7.25", wantRemaining: "0"},
		{name: "larger than liquidity", size: "10", wantMatched: "7.25", wantRemaining: "2.75"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ob := newTestOrderbook()
			addLimit(t, ob, "A1", orderbookv1.SideAsk, "100", "1.25")
			addLimit(t, ob, "A2", orderbookv1.SideAsk, "101", "2")
			addLimit(t, ob, "A3", orderbookv1.SideAsk, "100", "4")

			order := marketOrder(t, "M", orderbookv1.SideBid, tc.size)
			logs, matches, err := ob.FillMarketOrderWithMatches(order)

			require.NoError(t, err)
			assert.Equal(t, tc.wantMatched, matchedTotal(logs).String())
			assert.Equal(t, tc.wantRemaining, order.Size().String())

			filled := decimal.Zero
			for _, m := range matches {
				filled = filled.Add(m.SizeFilled)
			}
			assert.True(t, filled.Equal(matchedTotal(logs)))

			available := dec("7.25")
			assert.Equal(t, available.Sub(matchedTotal(logs)).String(), ob.AskTotalVolume().String())
			assert.NoError(t, ob.Validate())
		})
	}
}

func TestOrderbook_FillMarketOrder_Rejects(t *testing.T) {
	ob := newTestOrderbook()

	_, err := ob.FillMarketOrder(nil)
	assert.ErrorIs(t, err, orderbookv1.ErrNilOrder)

	_, err = ob.FillMarketOrder(limitOrder(t, "L", orderbookv1.SideBid, "100", "1"))
	assert.ErrorIs(t, err, orderbookv1.ErrInvalidOrder)
}

func TestOrderbook_PlaceLimitOrder(t *testing.T) {
	t.Run("non-crossing order rests", func(t *testing.T) {
		ob := newTestOrderbook()
		addLimit(t, ob, "A1", orderbookv1.SideAsk, "101", "1")

		logs, err := ob.PlaceLimitOrder(limitOrder(t, "B1", orderbookv1.SideBid, "100", "2"))

		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, orderbookv1.LogTypeOpen, logs[0].Type)
		assertResting(t, ob, "B1", "2")
		assertResting(t, ob, "A1", "1")
	})

	t.Run("crossing order fills then rests the remainder", func(t *testing.T) {
		ob := newTestOrderbook()
		addLimit(t, ob, "A1", orderbookv1.SideAsk, "100", "1")
		addLimit(t, ob, "A2", orderbookv1.SideAsk, "101", "1")
		addLimit(t, ob, "A3", orderbookv1.SideAsk, "103", "1")

		logs, err := ob.PlaceLimitOrder(limitOrder(t, "B1", orderbookv1.SideBid, "102", "5"))

		require.NoError(t, err)
		assert.Equal(t, []orderbookv1.LogType{
			orderbookv1.LogTypeMatch, orderbookv1.LogTypeDone,
			orderbookv1.LogTypeMatch, orderbookv1.LogTypeDone,
			orderbookv1.LogTypeOpen,
		}, logTypes(logs))
		assertMatch(t, logs[0], "B1", "A1", "100", "1")
		assertMatch(t, logs[2], "B1", "A2", "101", "1")
		assert.Equal(t, "3", logs[4].Open.Size.String())
		assert.Equal(t, "102", logs[4].Open.Price.String())

		assertResting(t, ob, "B1", "3")
		assertResting(t, ob, "A3", "1")
		assert.NoError(t, ob.Validate())
	})

	t.Run("fully filled order does not rest", func(t *testing.T) {
		ob := newTestOrderbook()
		addLimit(t, ob, "B1", orderbookv1.SideBid, "100", "5")

		logs, err := ob.PlaceLimitOrder(limitOrder(t, "A1", orderbookv1.SideAsk, "99", "2"))

		require.NoError(t, err)
		require.Len(t, logs, 1)
		assertMatch(t, logs[0], "A1", "B1", "100", "2")
		_, ok := ob.Order("A1")
		assert.False(t, ok)
		assertResting(t, ob, "B1", "3")
	})

	t.Run("duplicate id is rejected before matching", func(t *testing.T) {
		ob := newTestOrderbook()
		addLimit(t, ob, "X", orderbookv1.SideBid, "90", "1")
		addLimit(t, ob, "A1", orderbookv1.SideAsk, "100", "1")

		_, err := ob.PlaceLimitOrder(limitOrder(t, "X", orderbookv1.SideBid, "100", "1"))

		assert.ErrorIs(t, err, orderbookv1.ErrInvalidOrder)
		assertResting(t, ob, "A1", "1")
		assert.Equal(t, int64(0), ob.TradeSequence())
	})
}

// Scenario: cancelling an unknown id.
func TestOrderbook_CancelOrder(t *testing.T) {
	t.Run("unknown id", func(t *testing.T) {
		ob := newTestOrderbook()
		addLimit(t, ob, "A1", orderbookv1.SideAsk, "100", "1")
		before := ob.Snapshot()

		_, err := ob.CancelOrder("ghost")

		assert.ErrorIs(t, err, orderbookv1.ErrOrderNotFound)
		assert.Equal(t, before, ob.Snapshot())
	})

	t.Run("removes the order and the empty level", func(t *testing.T) {
		ob := newTestOrderbook()
		addLimit(t, ob, "B1", orderbookv1.SideBid, "100", "4")
		addLimit(t, ob, "B2", orderbookv1.SideBid, "99", "1")

		log, err := ob.CancelOrder("B1")

		require.NoError(t, err)
		assertDone(t, log, "B1", orderbookv1.DoneReasonDeleted, "4")
		assert.Equal(t, int64(3), log.Sequence)

		bids := ob.Bids()
		require.Len(t, bids, 1)
		assert.Equal(t, "99", bids[0].Price().String())
		assert.NoError(t, ob.Validate())
	})

	t.Run("partially filled order reports its remaining size", func(t *testing.T) {
		ob := newTestOrderbook()
		addLimit(t, ob, "A1", orderbookv1.SideAsk, "100", "10")
		_, err := ob.FillMarketOrder(marketOrder(t, "M", orderbookv1.SideBid, "4"))
		require.NoError(t, err)

		log, err := ob.CancelOrder("A1")

		require.NoError(t, err)
		assertDone(t, log, "A1", orderbookv1.DoneReasonDeleted, "6")
		assert.Empty(t, ob.Asks())
	})

	t.Run("filled order is gone", func(t *testing.T) {
		ob := newTestOrderbook()
		addLimit(t, ob, "A1", orderbookv1.SideAsk, "100", "1")
		_, err := ob.FillMarketOrder(marketOrder(t, "M", orderbookv1.SideBid, "1"))
		require.NoError(t, err)

		_, err = ob.CancelOrder("A1")
		assert.ErrorIs(t, err, orderbookv1.ErrOrderNotFound)
	})
}

func TestOrderbook_PartialFillKeepsQueuePosition(t *testing.T) {
	ob := newTestOrderbook()
	addLimit(t, ob, "A1", orderbookv1.SideAsk, "100", "5")
	addLimit(t, ob, "A2", orderbookv1.SideAsk, "100", "5")

	_, err := ob.FillMarketOrder(marketOrder(t, "M1", orderbookv1.SideBid, "2"))
	require.NoError(t, err)

	logs, err := ob.FillMarketOrder(marketOrder(t, "M2", orderbookv1.SideBid, "4"))
	require.NoError(t, err)

	assertMatch(t, logs[0], "M2", "A1", "100", "3")
	assertMatch(t, logs[2], "M2", "A2", "100", "1")
}

func TestOrderbook_Receive(t *testing.T) {
	ob := newTestOrderbook()
	log := ob.Receive(limitOrder(t, "B1", orderbookv1.SideBid, "100", "1"))

	assert.Equal(t, orderbookv1.LogTypeReceived, log.Type)
	assert.Equal(t, int64(1), log.Sequence)
	assert.Equal(t, 0, ob.Len())

	open, err := ob.AddLimitOrder(dec("100"), limitOrder(t, "B1", orderbookv1.SideBid, "100", "1"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), open.Sequence)
}

func TestOrderbook_BestPrices(t *testing.T) {
	ob := newTestOrderbook()
	_, ok := ob.BestAsk()
	assert.False(t, ok)

	addLimit(t, ob, "A1", orderbookv1.SideAsk, "105", "1")
	addLimit(t, ob, "A2", orderbookv1.SideAsk, "103", "1")
	addLimit(t, ob, "B1", orderbookv1.SideBid, "99", "1")
	addLimit(t, ob, "B2", orderbookv1.SideBid, "101", "1")

	ask, ok := ob.BestAsk()
	require.True(t, ok)
	assert.Equal(t, "103", ask.String())
	bid, ok := ob.BestBid()
	require.True(t, ok)
	assert.Equal(t, "101", bid.String())

	bids := ob.Bids()
	require.Len(t, bids, 2)
	assert.Equal(t, "101", bids[0].Price().String())
	assert.Equal(t, "99", bids[1].Price().String())
}

func TestOrderbook_IsCrossed(t *testing.T) {
	testCases := []struct {
		name     string
		setup    func(t *testing.T, ob *Orderbook)
		expected bool
	}{
		{name: "empty book", setup: func(t *testing.T, ob *Orderbook) {}},
		{
			name: "one side only",
			setup: func(t *testing.T, ob *Orderbook) {
				addLimit(t, ob, "A1", orderbookv1.SideAsk, "100", "1")
			},
		},
		{
			name: "spread",
			setup: func(t *testing.T, ob *Orderbook) {
				addLimit(t, ob, "A1", orderbookv1.SideAsk, "100", "1")
				addLimit(t, ob, "B1", orderbookv1.SideBid, "99", "1")
			},
		},
		{
			name: "locked",
			setup: func(t *testing.T, ob *Orderbook) {
				addLimit(t, ob, "A1", orderbookv1.SideAsk, "100", "1")
				addLimit(t, ob, "B1", orderbookv1.SideBid, "100", "1")
			},
			expected: true,
		},
		{
			name: "crossed through add",
			setup: func(t *testing.T, ob *Orderbook) {
				addLimit(t, ob, "A1", orderbookv1.SideAsk, "100", "1")
				addLimit(t, ob, "B1", orderbookv1.SideBid, "110", "1")
			},
			expected: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ob := newTestOrderbook()
			tc.setup(t, ob)

			assert.Equal(t, tc.expected, ob.IsCrossed())
			assert.NoError(t, ob.Validate())
		})
	}
}

func TestOrderbook_Validate_LevelOrder(t *testing.T) {
	ob := newTestOrderbook()
	addLimit(t, ob, "A1", orderbookv1.SideAsk, "100", "1")
	addLimit(t, ob, "A2", orderbookv1.SideAsk, "101", "1")

	// rebuild the ask ladder with the comparison flipped
	flipped := btree.NewBTreeGOptions(func(a, b *orderbookv1.Limit) bool {
		return a.Price().GreaterThan(b.Price())
	}, btree.Options{NoLocks: true})
	ob.asks.Scan(func(limit *orderbookv1.Limit) bool {
		flipped.Set(limit)
		return true
	})
	ob.asks = flipped

	err := ob.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ask levels out of order")
}
