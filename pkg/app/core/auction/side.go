package auction

// Side is the direction of an order. Values match the book's sign convention
// so that Buy*price is monotone in aggressiveness.
type Side int8

const (
	Buy  Side = 1
	Sell Side = -1
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return "unknown"
	}
}

// Opposite returns the contra side.
func (s Side) Opposite() Side {
	return -s
}

// IsAsAggressiveAs reports whether p1 is at least as aggressive as p2 for side:
// p1 >= p2 for buys, p1 <= p2 for sells.
func IsAsAggressiveAs(side Side, p1, p2 int64) bool {
	if side == Buy {
		return p1 >= p2
	}
	return p1 <= p2
}

// IsMoreAggressive is the strict form of IsAsAggressiveAs.
func IsMoreAggressive(side Side, p1, p2 int64) bool {
	return IsAsAggressiveAs(side, p1, p2) && !IsAsAggressiveAs(side, p2, p1)
}
