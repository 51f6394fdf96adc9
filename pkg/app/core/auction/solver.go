package auction

import (
	"fmt"
	"slices"
	"strings"
)

// TieBreakPolicy picks the clearing price when more than one price maximises
// executed volume.
type TieBreakPolicy int8

const (
	// ImbalanceBound starts at the midpoint clamped to the maximal-volume range,
	// then moves toward the most aggressive unexecuted order on the side with
	// excess, never leaving the range.
	ImbalanceBound TieBreakPolicy = iota
	// MidpointOnly clamps the midpoint to the range and ignores imbalance.
	MidpointOnly
	// HighestPrice always takes the top of the range.
	HighestPrice
	// LowestPrice always takes the bottom of the range.
	LowestPrice
)

func (p TieBreakPolicy) String() string {
	switch p {
	case ImbalanceBound:
		return "imbalance"
	case MidpointOnly:
		return "midpoint"
	case HighestPrice:
		return "highest"
	case LowestPrice:
		return "lowest"
	default:
		return "unknown"
	}
}

// ParseTieBreak parses the String form of a policy.
func ParseTieBreak(s string) (TieBreakPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "imbalance":
		return ImbalanceBound, nil
	case "midpoint":
		return MidpointOnly, nil
	case "highest":
		return HighestPrice, nil
	case "lowest":
		return LowestPrice, nil
	default:
		return ImbalanceBound, fmt.Errorf("unknown tie-break policy %q", s)
	}
}

// Result is the outcome of one auction computation. When Crossed is false the
// price fields other than the collar are zero.
type Result struct {
	Crossed      bool  `json:"crossed"`
	Price        int64 `json:"price"`
	Volume       int64 `json:"volume"`
	LowestPrice  int64 `json:"lowestPrice"`  // lowest price achieving Volume
	HighestPrice int64 `json:"highestPrice"` // highest price achieving Volume
	BuyExcess    int64 `json:"buyExcess"`
	SellExcess   int64 `json:"sellExcess"`
	Imbalance    int64 `json:"imbalance"` // BuyExcess minus SellExcess
	CollarLower  int64 `json:"collarLower"`
	CollarUpper  int64 `json:"collarUpper"`
	Midpoint     int64 `json:"midpoint"`
}

// Solver finds clearing prices. The zero value uses ImbalanceBound.
type Solver struct {
	TieBreak TieBreakPolicy
}

// NewSolver returns a solver using policy.
func NewSolver(policy TieBreakPolicy) *Solver {
	return &Solver{TieBreak: policy}
}

// volumeCurve memoises VolumeTraded for one computation only.
type volumeCurve struct {
	buys, sells []Order
	md          MarketData
	traded      map[int64]int64
}

func newVolumeCurve(buys, sells []Order, md MarketData) *volumeCurve {
	return &volumeCurve{buys: buys, sells: sells, md: md, traded: make(map[int64]int64)}
}

func (c *volumeCurve) at(p int64) int64 {
	if v, ok := c.traded[p]; ok {
		return v
	}
	v := VolumeTraded(p, c.buys, c.sells, c.md)
	c.traded[p] = v
	return v
}

// candidatePrices returns the sorted distinct grid prices in [lower, upper]
// at which the volume curve can change: the bounds and every effective price
// rounded both ways onto the tick grid. The highest maximiser is always a
// bound or a buy price rounded down, the lowest always a bound or a sell price
// rounded up, so scanning these is exact. lower and upper must be on the grid.
func candidatePrices(lower, upper int64, buys, sells []Order, md MarketData) []int64 {
	t := md.tick()
	prices := make([]int64, 0, 2*(len(buys)+len(sells))+2)
	prices = append(prices, lower, upper)
	add := func(side Side, orders []Order) {
		for i := range orders {
			p := PriorityEffectivePrice(side, orders[i], md, lower)
			if p > lower && p < upper {
				prices = append(prices, floorTick(p, t), ceilTick(p, t))
			}
		}
	}
	add(Buy, buys)
	add(Sell, sells)
	slices.Sort(prices)
	return slices.Compact(prices)
}

// maxVolumeRange scans the candidates once and returns the lowest and highest
// prices achieving the maximum traded volume, and that volume.
func maxVolumeRange(c *volumeCurve, lower, upper int64) (lo, hi, vol int64) {
	if lower > upper {
		return lower, lower, 0
	}
	lo, hi, vol = lower, lower, -1
	for _, p := range candidatePrices(lower, upper, c.buys, c.sells, c.md) {
		v := c.at(p)
		switch {
		case v > vol:
			lo, hi, vol = p, p, v
		case v == vol:
			hi = p
		}
	}
	return lo, hi, vol
}

// MaxVolumeHighestPrice is the highest price in [lower, upper] achieving the
// maximum VolumeTraded over that range.
func MaxVolumeHighestPrice(lower, upper int64, buys, sells []Order, md MarketData) int64 {
	_, hi, _ := maxVolumeRange(newVolumeCurve(buys, sells, md), lower, upper)
	return hi
}

// MaxVolumeLowestPrice is the lowest price in [lower, upper] achieving the
// maximum VolumeTraded over that range.
func MaxVolumeLowestPrice(lower, upper int64, buys, sells []Order, md MarketData) int64 {
	lo, _, _ := maxVolumeRange(newVolumeCurve(buys, sells, md), lower, upper)
	return lo
}

// mostAggressiveUnexecuted fills the orders marketable at price in priority
// order up to traded and returns the effective price of the first order left
// with unexecuted quantity.
func mostAggressiveUnexecuted(side Side, price, traded int64, orders []Order, md MarketData) (int64, bool) {
	var cum int64
	for _, o := range SortByPriority(side, orders, md, price) {
		if !CanTradeAt(side, o, price, md) {
			continue
		}
		cum += o.Quantity
		if cum > traded {
			return PriorityEffectivePrice(side, o, md, price), true
		}
	}
	return 0, false
}

func clamp(p, lo, hi int64) int64 {
	return max(lo, min(p, hi))
}

// Solve computes the clearing price for one auction. Malformed input is
// rejected with an error; an auction that does not cross is a normal result
// with Crossed set to false.
func (s *Solver) Solve(buys, sells []Order, md MarketData) (Result, error) {
	if err := md.Validate(); err != nil {
		return Result{}, err
	}
	if err := validateSide(Buy, buys); err != nil {
		return Result{}, err
	}
	if err := validateSide(Sell, sells); err != nil {
		return Result{}, err
	}

	lower, upper := CollarLower(md), CollarUpper(md)
	res := Result{CollarLower: lower, CollarUpper: upper, Midpoint: Midpoint(md)}
	if len(buys) == 0 || len(sells) == 0 {
		return res, nil
	}

	curve := newVolumeCurve(buys, sells, md)
	lo, hi, vol := maxVolumeRange(curve, lower, upper)
	if vol <= 0 {
		return res, nil
	}

	price := s.pick(lo, hi, vol, res.Midpoint, buys, sells, md)
	if price < lower || price > upper || price%md.tick() != 0 {
		return Result{}, fmt.Errorf("%w: %d not on the %d grid in [%d, %d]", ErrOutsideCollar, price, md.tick(), lower, upper)
	}

	res.Crossed = true
	res.Price = price
	res.Volume = curve.at(price)
	res.LowestPrice = lo
	res.HighestPrice = hi
	res.BuyExcess = VolumeAtPrice(Buy, price, buys, md) - res.Volume
	res.SellExcess = VolumeAtPrice(Sell, price, sells, md) - res.Volume
	res.Imbalance = Imbalance(price, buys, sells, md)
	return res, nil
}

func (s *Solver) pick(lo, hi, vol, mid int64, buys, sells []Order, md MarketData) int64 {
	if lo == hi {
		return lo
	}
	switch s.TieBreak {
	case HighestPrice:
		return hi
	case LowestPrice:
		return lo
	case MidpointOnly:
		return clamp(mid, lo, hi)
	}

	// lo, hi and mid are on the grid; e is rounded toward p so it stays there.
	t := md.tick()
	p := clamp(mid, lo, hi)
	if VolumeAtPrice(Buy, p, buys, md) > vol {
		if e, ok := mostAggressiveUnexecuted(Buy, p, vol, buys, md); ok && e > p {
			p = min(hi, floorTick(e, t))
		}
	} else if VolumeAtPrice(Sell, p, sells, md) > vol {
		if e, ok := mostAggressiveUnexecuted(Sell, p, vol, sells, md); ok && e < p {
			p = max(lo, ceilTick(e, t))
		}
	}
	return clamp(p, lo, hi)
}

var defaultSolver = &Solver{}

// CalcClearingPrice runs the default solver and reports the price, or false
// when the auction does not cross.
func CalcClearingPrice(buys, sells []Order, md MarketData) (int64, bool, error) {
	res, err := defaultSolver.Solve(buys, sells, md)
	if err != nil {
		return 0, false, err
	}
	return res.Price, res.Crossed, nil
}
