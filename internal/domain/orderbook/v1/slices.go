package orderbookv1

import "github.com/shopspring/decimal"

// Limits is an ordered view over price levels.
type Limits []*Limit

func (ls Limits) Len() int      { return len(ls) }
func (ls Limits) Swap(i, j int) { ls[i], ls[j] = ls[j], ls[i] }

// Prices lists the level prices in slice order.
func (ls Limits) Prices() []decimal.Decimal {
	prices := make([]decimal.Decimal, len(ls))
	for i, l := range ls {
		prices[i] = l.price
	}
	return prices
}

// ByBestAsk orders levels lowest price first.
type ByBestAsk struct{ Limits }

func (a ByBestAsk) Less(i, j int) bool { return a.Limits[i].price.Cmp(a.Limits[j].price) < 0 }

// ByBestBid orders levels highest price first.
type ByBestBid struct{ Limits }

func (b ByBestBid) Less(i, j int) bool { return b.Limits[i].price.Cmp(b.Limits[j].price) > 0 }
