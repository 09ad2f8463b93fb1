package orderbookv1

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNewOrder(t *testing.T) {
	testCases := []struct {
		name    string
		id      string
		side    Side
		price   string
		size    string
		wantErr error
	}{
		{name: "valid bid", id: "B1", side: SideBid, price: "100", size: "5"},
		{name: "valid ask with fractional size", id: "A1", side: SideAsk, price: "101.25", size: "0.001"},
		{name: "empty id", id: "", side: SideBid, price: "100", size: "5", wantErr: ErrInvalidOrder},
		{name: "unknown side", id: "X", side: Side("buy"), price: "100", size: "5", wantErr: ErrInvalidOrder},
		{name: "zero price", id: "X", side: SideBid, price: "0", size: "5", wantErr: ErrInvalidOrder},
		{name: "negative price", id: "X", side: SideBid, price: "-1", size: "5", wantErr: ErrInvalidOrder},
		{name: "zero size", id: "X", side: SideAsk, price: "100", size: "0", wantErr: ErrInvalidOrder},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			order, err := NewOrder(tc.id, tc.side, dec(tc.price), dec(tc.size))
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, order)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.id, order.ID())
			assert.Equal(t, tc.side, order.Side())
			assert.True(t, order.Price().Equal(dec(tc.price)))
			assert.True(t, order.Size().Equal(dec(tc.size)))
			assert.False(t, order.IsMarket())
			assert.False(t, order.IsFilled())
		})
	}
}

func TestNewMarketOrder(t *testing.T) {
	order, err := NewMarketOrder("M1", SideBid, dec("3"))
	require.NoError(t, err)
	assert.True(t, order.IsMarket())
	assert.True(t, order.IsBid())
	assert.True(t, order.Price().IsZero())

	_, err = NewMarketOrder("M2", SideAsk, dec("-3"))
	assert.ErrorIs(t, err, ErrInvalidOrder)
}

func TestOrder_Crosses(t *testing.T) {
	bid, err := NewOrder("B", SideBid, dec("100"), dec("1"))
	require.NoError(t, err)
	ask, err := NewOrder("A", SideAsk, dec("100"), dec("1"))
	require.NoError(t, err)
	market, err := NewMarketOrder("M", SideBid, dec("1"))
	require.NoError(t, err)

	assert.True(t, bid.Crosses(dec("99")))
	assert.True(t, bid.Crosses(dec("100")))
	assert.False(t, bid.Crosses(dec("100.01")))

	assert.True(t, ask.Crosses(dec("101")))
	assert.True(t, ask.Crosses(dec("100")))
	assert.False(t, ask.Crosses(dec("99.99")))

	assert.True(t, market.Crosses(dec("1000000")))
}

func TestSide(t *testing.T) {
	assert.Equal(t, SideAsk, SideBid.Opposite())
	assert.Equal(t, SideBid, SideAsk.Opposite())
	assert.False(t, Side("").Valid())
}
