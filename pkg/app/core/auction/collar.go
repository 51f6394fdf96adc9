package auction

import "github.com/shopspring/decimal"

// percentWidth is the number of whole ticks inside ref*pct.
func percentWidth(ref int64, pct decimal.Decimal) int64 {
	if pct.IsZero() {
		return 0
	}
	return decimal.NewFromInt(ref).Mul(pct).Floor().IntPart()
}

func maxInt64(vals ...int64) int64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// floorTick rounds a non-negative p down to a multiple of tick.
func floorTick(p, tick int64) int64 {
	return p - p%tick
}

// ceilTick rounds p up to a multiple of tick. Negative p only occurs for
// market orders and is left for the caller to clamp.
func ceilTick(p, tick int64) int64 {
	if r := p % tick; r > 0 {
		return p - r + tick
	}
	return p
}

// CollarLower is the lowest permissible clearing price, rounded up onto the
// tick grid. Prices never go below one tick.
func CollarLower(md MarketData) int64 {
	t := md.tick()
	w := maxInt64(percentWidth(md.ReferencePrice, md.Band.Percent), md.Band.LowerTicks, md.Band.MinTicks)
	lower := md.ReferencePrice - w
	if lower < t {
		return t
	}
	return ceilTick(lower, t)
}

// CollarUpper is the highest permissible clearing price, rounded down onto
// the tick grid.
func CollarUpper(md MarketData) int64 {
	w := maxInt64(percentWidth(md.ReferencePrice, md.Band.Percent), md.Band.UpperTicks, md.Band.MinTicks)
	return floorTick(md.ReferencePrice+w, md.tick())
}

// Midpoint is the NBBO midpoint when both quotes are present and uncrossed,
// otherwise the midpoint of the collar. Both round down onto the tick grid.
func Midpoint(md MarketData) int64 {
	t := md.tick()
	if md.HasQuotes() {
		return max(t, floorTick(md.BestBid+(md.BestAsk-md.BestBid)/2, t))
	}
	lower, upper := CollarLower(md), CollarUpper(md)
	return floorTick(lower+(upper-lower)/2, t)
}
