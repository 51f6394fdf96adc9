package auction

import (
	"cmp"
	"slices"
)

// Criterion compares two same-side orders. A negative result means a ranks
// ahead of b, zero means the criterion does not discriminate.
type Criterion func(a, b Order) int

// Lexicographic applies criteria in order and returns the first non-zero
// result. Each criterion must be a total preorder; the composition then is one
// too, and its strict part is irreflexive, asymmetric and transitive.
func Lexicographic(criteria ...Criterion) Criterion {
	return func(a, b Order) int {
		for _, c := range criteria {
			if r := c(a, b); r != 0 {
				return r
			}
		}
		return 0
	}
}

// ByPrice ranks the more aggressive effective price first.
func ByPrice(side Side, md MarketData, cp int64) Criterion {
	return func(a, b Order) int {
		ab := PriceGEQ(side, a, b, md, cp)
		ba := PriceGEQ(side, b, a, md, cp)
		switch {
		case ab && !ba:
			return -1
		case ba && !ab:
			return 1
		default:
			return 0
		}
	}
}

// ByDisplay ranks displayed interest ahead of hidden interest.
func ByDisplay(a, b Order) int {
	switch {
	case a.Displayed() == b.Displayed():
		return 0
	case a.Displayed():
		return -1
	default:
		return 1
	}
}

// ByTime ranks the earlier arrival first.
func ByTime(a, b Order) int {
	return cmp.Compare(a.Timestamp, b.Timestamp)
}

// Comparator returns the full price/display/time priority for side.
func Comparator(side Side, md MarketData, cp int64) Criterion {
	return Lexicographic(ByPrice(side, md, cp), ByDisplay, ByTime)
}

// Compare returns -1 if o1 has priority over o2, +1 if o2 has priority over
// o1, and 0 if they are priority-equivalent.
func Compare(side Side, o1, o2 Order, md MarketData, cp int64) int {
	return Comparator(side, md, cp)(o1, o2)
}

// HasPriority reports whether o1 strictly outranks o2.
func HasPriority(side Side, o1, o2 Order, md MarketData, cp int64) bool {
	return Compare(side, o1, o2, md, cp) < 0
}

// SortByPriority returns a copy of orders, highest priority first. Equivalent
// orders keep their input (arrival) order.
func SortByPriority(side Side, orders []Order, md MarketData, cp int64) []Order {
	out := slices.Clone(orders)
	slices.SortStableFunc(out, Comparator(side, md, cp))
	return out
}
