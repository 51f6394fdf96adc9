package auction

import "fmt"

// Pricing is the price-bearing part of an order type. The set of variants is
// closed: Limit, Market, MidpointPeg and PrimaryPeg.
type Pricing interface {
	pricing()
	String() string
}

// Limit carries an explicit limit price in ticks.
type Limit struct {
	Price int64
}

// Market trades at any price.
type Market struct{}

// MidpointPeg is pegged to the market-data midpoint.
type MidpointPeg struct{}

// PrimaryPeg is pegged to the same-side best quote, Offset ticks less aggressive.
// Without a same-side quote it follows the candidate clearing price.
type PrimaryPeg struct {
	Offset int64
}

func (Limit) pricing()       {}
func (Market) pricing()      {}
func (MidpointPeg) pricing() {}
func (PrimaryPeg) pricing()  {}

func (l Limit) String() string      { return fmt.Sprintf("limit(%d)", l.Price) }
func (Market) String() string       { return "market" }
func (MidpointPeg) String() string  { return "midpoint_peg" }
func (p PrimaryPeg) String() string { return fmt.Sprintf("primary_peg(%d)", p.Offset) }

// OrderType is the immutable pricing and display instruction of an order.
// It is comparable with ==, which is what priority invariance is stated over.
type OrderType struct {
	Pricing Pricing
	Hidden  bool
}

// LimitType returns a displayed limit order type.
func LimitType(price int64) OrderType {
	return OrderType{Pricing: Limit{Price: price}}
}

// HiddenLimitType returns a non-displayed limit order type.
func HiddenLimitType(price int64) OrderType {
	return OrderType{Pricing: Limit{Price: price}, Hidden: true}
}

// MarketType returns a market order type.
func MarketType() OrderType {
	return OrderType{Pricing: Market{}}
}

// MidpointPegType returns a midpoint peg. Midpoint pegs never display.
func MidpointPegType() OrderType {
	return OrderType{Pricing: MidpointPeg{}, Hidden: true}
}

// PrimaryPegType returns a displayed primary peg with the given offset.
func PrimaryPegType(offset int64) OrderType {
	return OrderType{Pricing: PrimaryPeg{Offset: offset}}
}

// LimitPrice returns the carried limit price, if any.
func (t OrderType) LimitPrice() (int64, bool) {
	if l, ok := t.Pricing.(Limit); ok {
		return l.Price, true
	}
	return 0, false
}

func (t OrderType) String() string {
	if t.Pricing == nil {
		return "invalid"
	}
	if t.Hidden {
		return t.Pricing.String() + "/hidden"
	}
	return t.Pricing.String()
}
