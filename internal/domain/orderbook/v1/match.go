package orderbookv1

import "github.com/shopspring/decimal"

// MatchResult describes one fill step between a resting maker and an incoming taker.
// Maker and Taker hold the sizes remaining right after the step.
type MatchResult struct {
	Maker      OrderView       `json:"maker"`
	Taker      OrderView       `json:"taker"`
	Price      decimal.Decimal `json:"price"`
	SizeFilled decimal.Decimal `json:"sizeFilled"`
}

// MakerIsFilled checks if the maker order is filled.
func (m *MatchResult) MakerIsFilled() bool {
	return !m.Maker.Size.IsPositive()
}

// TakerIsFilled checks if the taker order is filled
func (m *MatchResult) TakerIsFilled() bool {
	return !m.Taker.Size.IsPositive()
}
