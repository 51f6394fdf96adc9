package market

import (
	"github.com/shopspring/decimal"

	"github.com/uhyunpark/hypercross/pkg/app/core/auction"
)

// MarketParams is a helper struct for creating markets with all parameters
// This separates config from the runtime Market struct
type MarketParams struct {
	TickSize     int64
	LotSize      int64
	MinOrderSize int64
	MaxOrderSize int64
	Collar       auction.CollarBand
}

// DefaultHYPLUSDC returns default parameters for the HYPL-USDC opening cross
var DefaultHYPLUSDC = MarketParams{
	// TickSize: 1 = $0.001
	TickSize: 1,

	// LotSize: 1 lot = 0.01 HYPL
	LotSize: 1,

	// Min: 1 lot, Max: 1,000,000 lots per order
	MinOrderSize: 1,
	MaxOrderSize: 1000000,

	// 10% collar around the reference price, never narrower than one tick
	Collar: auction.CollarBand{
		Percent:  decimal.RequireFromString("0.10"),
		MinTicks: 1,
	},
}

// NewMarketWithDefaults creates a market using default HYPL-USDC parameters
func NewMarketWithDefaults(symbol, baseAsset, quoteAsset string) (*Market, error) {
	return NewMarket(symbol, baseAsset, quoteAsset, DefaultHYPLUSDC)
}

// CustomCross returns a market template with a percentage collar
func CustomCross(tickSize, lotSize int64, collarPct decimal.Decimal, minTicks int64) MarketParams {
	return MarketParams{
		TickSize:     tickSize,
		LotSize:      lotSize,
		MinOrderSize: lotSize,
		MaxOrderSize: 1000000 * lotSize,
		Collar: auction.CollarBand{
			Percent:  collarPct,
			MinTicks: minTicks,
		},
	}
}
