package main

import (
	"math/rand/v2"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	orderreaderv1 "github.com/muhammadchandra19/matching-engine/internal/domain/order-reader/v1"
	orderbookv1 "github.com/muhammadchandra19/matching-engine/internal/domain/orderbook/v1"
)

// generatorConfig shapes the random command stream.
type generatorConfig struct {
	Count       int
	BasePrice   decimal.Decimal
	PriceSpread decimal.Decimal
	MarketRatio float64
	CancelRatio float64
}

// generateCommands creates a realistic mix of limit, market and cancel commands.
// Cancels only target limit orders generated earlier in the same stream.
func generateCommands(cfg generatorConfig, rng *rand.Rand) []orderreaderv1.PlaceOrderRequest {
	commands := make([]orderreaderv1.PlaceOrderRequest, 0, cfg.Count)
	var restingIDs []string

	for i := 0; i < cfg.Count; i++ {
		roll := rng.Float64()

		if roll < cfg.CancelRatio && len(restingIDs) > 0 {
			idx := rng.IntN(len(restingIDs))
			commands = append(commands, orderreaderv1.PlaceOrderRequest{
				OrderID: restingIDs[idx],
				Type:    orderreaderv1.OrderTypeCancel,
			})
			restingIDs = append(restingIDs[:idx], restingIDs[idx+1:]...)
			continue
		}

		side := orderbookv1.SideAsk
		if rng.Float64() < 0.5 {
			side = orderbookv1.SideBid
		}

		// size between 0.001 and 10, three decimals
		size := decimal.NewFromInt(int64(rng.IntN(10000) + 1)).Shift(-3)

		if roll < cfg.CancelRatio+cfg.MarketRatio {
			commands = append(commands, orderreaderv1.PlaceOrderRequest{
				OrderID: ulid.Make().String(),
				Type:    orderreaderv1.OrderTypeMarket,
				Side:    side,
				Size:    size,
			})
			continue
		}

		id := ulid.Make().String()
		commands = append(commands, orderreaderv1.PlaceOrderRequest{
			OrderID: id,
			Type:    orderreaderv1.OrderTypeLimit,
			Side:    side,
			Size:    size,
			Price:   limitPrice(cfg, side, rng),
		})
		restingIDs = append(restingIDs, id)
	}

	return commands
}

// limitPrice places bids below and asks above the base price, one decimal.
func limitPrice(cfg generatorConfig, side orderbookv1.Side, rng *rand.Rand) decimal.Decimal {
	offset := cfg.PriceSpread.Mul(decimal.NewFromFloat(rng.Float64() * 0.8))
	price := cfg.BasePrice.Add(offset)
	if side == orderbookv1.SideBid {
		price = cfg.BasePrice.Sub(offset)
	}

	price = price.Truncate(1)
	if !price.IsPositive() {
		return cfg.BasePrice
	}
	return price
}
