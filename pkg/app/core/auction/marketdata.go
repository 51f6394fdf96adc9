package auction

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CollarBand describes how far from the reference price an auction may clear.
// The percentage band and the absolute widths combine by taking the wider of
// the two on each side; MinTicks is a floor for both.
type CollarBand struct {
	Percent    decimal.Decimal // e.g. 0.10 for a 10% collar
	LowerTicks int64
	UpperTicks int64
	MinTicks   int64
}

// PercentBand returns a symmetric percentage collar of at least one tick.
func PercentBand(pct decimal.Decimal) CollarBand {
	return CollarBand{Percent: pct, MinTicks: 1}
}

// TickBand returns an absolute, possibly asymmetric, collar.
func TickBand(lower, upper int64) CollarBand {
	return CollarBand{LowerTicks: lower, UpperTicks: upper, MinTicks: 1}
}

// MarketData is the read-only market reference supplied once per auction run.
// BestBid and BestAsk are zero when the corresponding quote is absent.
// Clearing prices are multiples of TickSize; zero or one means every integer
// price is on the grid.
type MarketData struct {
	ReferencePrice int64
	BestBid        int64
	BestAsk        int64
	TickSize       int64
	Band           CollarBand
}

func (md MarketData) tick() int64 {
	if md.TickSize > 1 {
		return md.TickSize
	}
	return 1
}

// HasQuotes reports whether both sides are quoted and the quote is not crossed.
func (md MarketData) HasQuotes() bool {
	return md.BestBid > 0 && md.BestAsk > 0 && md.BestBid <= md.BestAsk
}

// Validate checks the preconditions every core function assumes.
func (md MarketData) Validate() error {
	if md.ReferencePrice <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidReference, md.ReferencePrice)
	}
	if md.Band.Percent.IsNegative() || md.Band.LowerTicks < 0 || md.Band.UpperTicks < 0 || md.Band.MinTicks < 0 {
		return fmt.Errorf("%w: negative band width", ErrInvalidCollar)
	}
	if md.TickSize < 0 {
		return fmt.Errorf("%w: negative tick size %d", ErrInvalidCollar, md.TickSize)
	}
	lower, upper := CollarLower(md), CollarUpper(md)
	if lower >= upper {
		return fmt.Errorf("%w: [%d, %d]", ErrInvalidCollar, lower, upper)
	}
	return nil
}
