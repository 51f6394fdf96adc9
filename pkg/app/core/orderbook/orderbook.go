package orderbook

import (
	"fmt"
	"slices"
	"sort"

	"github.com/uhyunpark/hypercross/pkg/app/core/auction"
	"github.com/uhyunpark/hypercross/pkg/app/core/market"
)

type PriceLevel struct {
	Price  int64
	Qty    int64 // total qty at this price level
	Orders int
}

// Snapshot is the immutable set of orders entering one auction for one
// instrument. Nothing in it changes after NewSnapshot returns.
type Snapshot struct {
	Symbol string

	// arrival order within each side
	buys  []auction.Order
	sells []auction.Order

	// best displayed limit prices
	bidHeap *priceHeap
	askHeap *priceHeap
}

// NewSnapshot validates orders against mkt and partitions them by side.
// Order IDs must be unique.
func NewSnapshot(mkt *market.Market, orders []auction.Order) (*Snapshot, error) {
	seen := make(map[string]struct{}, len(orders))
	s := &Snapshot{Symbol: mkt.Symbol}

	var bidPx, askPx []int64
	for _, o := range orders {
		if err := mkt.ValidateOrder(o); err != nil {
			return nil, err
		}
		if _, dup := seen[o.ID]; dup {
			return nil, fmt.Errorf("duplicate order id %s", o.ID)
		}
		seen[o.ID] = struct{}{}

		price, isLimit := o.Type.LimitPrice()
		if o.Side == auction.Buy {
			s.buys = append(s.buys, o)
			if isLimit && o.Displayed() {
				bidPx = append(bidPx, price)
			}
		} else {
			s.sells = append(s.sells, o)
			if isLimit && o.Displayed() {
				askPx = append(askPx, price)
			}
		}
	}

	slices.SortStableFunc(s.buys, auction.ByTime)
	slices.SortStableFunc(s.sells, auction.ByTime)

	s.bidHeap = newPriceHeap(auction.Buy, bidPx)
	s.askHeap = newPriceHeap(auction.Sell, askPx)
	return s, nil
}

// Buys returns a copy of the buy orders in arrival order.
func (s *Snapshot) Buys() []auction.Order { return slices.Clone(s.buys) }

// Sells returns a copy of the sell orders in arrival order.
func (s *Snapshot) Sells() []auction.Order { return slices.Clone(s.sells) }

// Side returns a copy of one side of the snapshot.
func (s *Snapshot) Side(side auction.Side) []auction.Order {
	if side == auction.Buy {
		return s.Buys()
	}
	return s.Sells()
}

// Len is the total number of orders.
func (s *Snapshot) Len() int { return len(s.buys) + len(s.sells) }

// Ranked returns one side sorted by auction priority.
func (s *Snapshot) Ranked(side auction.Side, md auction.MarketData, cp int64) []auction.Order {
	if side == auction.Buy {
		return auction.SortByPriority(side, s.buys, md, cp)
	}
	return auction.SortByPriority(side, s.sells, md, cp)
}

// Solve runs solver over the snapshot.
func (s *Snapshot) Solve(solver *auction.Solver, md auction.MarketData) (auction.Result, error) {
	return solver.Solve(s.buys, s.sells, md)
}

// levels aggregates limit interest, displayed or not, by price.
func levels(orders []auction.Order) []PriceLevel {
	byPrice := make(map[int64]*PriceLevel)
	for _, o := range orders {
		price, ok := o.Type.LimitPrice()
		if !ok {
			continue
		}
		lvl, exists := byPrice[price]
		if !exists {
			lvl = &PriceLevel{Price: price}
			byPrice[price] = lvl
		}
		lvl.Qty += o.Quantity
		lvl.Orders++
	}

	out := make([]PriceLevel, 0, len(byPrice))
	for _, lvl := range byPrice {
		out = append(out, *lvl)
	}
	return out
}

// BidLevels returns all bid price levels sorted high to low (best bid first).
func (s *Snapshot) BidLevels() []PriceLevel {
	lv := levels(s.buys)
	sort.Slice(lv, func(i, j int) bool { return lv[i].Price > lv[j].Price })
	return lv
}

// AskLevels returns all ask price levels sorted low to high (best ask first).
func (s *Snapshot) AskLevels() []PriceLevel {
	lv := levels(s.sells)
	sort.Slice(lv, func(i, j int) bool { return lv[i].Price < lv[j].Price })
	return lv
}

// BestBid returns the highest displayed bid price
// Returns 0 if no bids
func (s *Snapshot) BestBid() int64 {
	p, _ := s.bidHeap.Peek()
	return p
}

// BestAsk returns the lowest displayed ask price
// Returns 0 if no asks
func (s *Snapshot) BestAsk() int64 {
	p, _ := s.askHeap.Peek()
	return p
}

// GetMidPrice returns the average of the displayed best bid and best ask
// Returns 0 if the book is one-sided
func (s *Snapshot) GetMidPrice() int64 {
	bid, okBid := s.bidHeap.Peek()
	ask, okAsk := s.askHeap.Peek()
	if !okBid || !okAsk {
		return 0
	}
	return (bid + ask) / 2
}
