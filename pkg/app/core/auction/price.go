package auction

import (
	"fmt"
	"math"
)

// PriorityEffectivePrice is the price an order ranks and trades at. It is a
// function of the order's Type only; cp is the candidate clearing price and is
// consulted only by pegs that have nothing else to follow.
func PriorityEffectivePrice(side Side, o Order, md MarketData, cp int64) int64 {
	switch p := o.Type.Pricing.(type) {
	case Limit:
		return p.Price
	case Market:
		if side == Buy {
			return math.MaxInt64
		}
		return math.MinInt64
	case MidpointPeg:
		return Midpoint(md)
	case PrimaryPeg:
		if side == Buy {
			if md.BestBid > 0 {
				return md.BestBid - p.Offset
			}
			return cp
		}
		if md.BestAsk > 0 {
			return md.BestAsk + p.Offset
		}
		return cp
	default:
		panic(fmt.Sprintf("auction: unhandled pricing %T", o.Type.Pricing))
	}
}

// PriceGEQ reports whether o1's effective price is at least as aggressive as o2's.
func PriceGEQ(side Side, o1, o2 Order, md MarketData, cp int64) bool {
	return IsAsAggressiveAs(side,
		PriorityEffectivePrice(side, o1, md, cp),
		PriorityEffectivePrice(side, o2, md, cp))
}

// CanTradeAt reports whether o is marketable at price. If o can trade at p1
// and p1 is at least as aggressive as p2, o can trade at p2.
func CanTradeAt(side Side, o Order, price int64, md MarketData) bool {
	return IsAsAggressiveAs(side, PriorityEffectivePrice(side, o, md, price), price)
}
