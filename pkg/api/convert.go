package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/uhyunpark/hypercross/pkg/app/core/auction"
	"github.com/uhyunpark/hypercross/pkg/app/core/market"
	"github.com/uhyunpark/hypercross/pkg/app/core/orderbook"
	"github.com/uhyunpark/hypercross/pkg/app/cross"
)

var ErrDisplayedMidpointPeg = errors.New("midpoint peg orders cannot be displayed")

func parseSide(s string) (auction.Side, error) {
	switch strings.ToLower(s) {
	case "buy":
		return auction.Buy, nil
	case "sell":
		return auction.Sell, nil
	default:
		return 0, fmt.Errorf("invalid side %q", s)
	}
}

// ToOrder converts the wire form into a core order. def is used when Side is
// empty.
func (r OrderRequest) ToOrder(def auction.Side) (auction.Order, error) {
	side := def
	if r.Side != "" {
		s, err := parseSide(r.Side)
		if err != nil {
			return auction.Order{}, fmt.Errorf("order %s: %w", r.ID, err)
		}
		side = s
	}
	if side == 0 {
		return auction.Order{}, fmt.Errorf("order %s: missing side", r.ID)
	}

	hidden := r.Hidden != nil && *r.Hidden
	var typ auction.OrderType
	switch strings.ToLower(r.Type) {
	case "limit", "":
		typ = auction.OrderType{Pricing: auction.Limit{Price: r.Price}, Hidden: hidden}
	case "market":
		typ = auction.OrderType{Pricing: auction.Market{}, Hidden: hidden}
	case "midpoint_peg":
		if r.Hidden != nil && !*r.Hidden {
			return auction.Order{}, fmt.Errorf("order %s: %w", r.ID, ErrDisplayedMidpointPeg)
		}
		typ = auction.MidpointPegType()
	case "primary_peg":
		typ = auction.OrderType{Pricing: auction.PrimaryPeg{Offset: r.Offset}, Hidden: hidden}
	default:
		return auction.Order{}, fmt.Errorf("order %s: %w: %q", r.ID, auction.ErrUnknownOrderType, r.Type)
	}

	remaining := r.Quantity
	if r.Remaining != nil {
		remaining = *r.Remaining
	}

	return auction.Order{
		ID:        r.ID,
		Side:      side,
		Type:      typ,
		Timestamp: r.Timestamp,
		Quantity:  r.Quantity,
		Remaining: remaining,
	}, nil
}

// ToOrders converts a list, using def for orders without a side.
func ToOrders(reqs []OrderRequest, def auction.Side) ([]auction.Order, error) {
	out := make([]auction.Order, 0, len(reqs))
	for _, r := range reqs {
		o, err := r.ToOrder(def)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

// Band converts the wire collar.
func (c CollarRequest) Band() (auction.CollarBand, error) {
	band := auction.CollarBand{
		LowerTicks: c.LowerTicks,
		UpperTicks: c.UpperTicks,
		MinTicks:   c.MinTicks,
	}
	if c.Percent != "" {
		pct, err := decimal.NewFromString(c.Percent)
		if err != nil {
			return auction.CollarBand{}, fmt.Errorf("%w: percent %q", auction.ErrInvalidCollar, c.Percent)
		}
		band.Percent = pct
	}
	return band, nil
}

// MarketData assembles and validates the explicit market data of a clear
// request.
func (r ClearRequest) MarketData() (auction.MarketData, error) {
	band, err := r.Collar.Band()
	if err != nil {
		return auction.MarketData{}, err
	}
	md := auction.MarketData{
		ReferencePrice: r.ReferencePrice,
		BestBid:        r.BestBid,
		BestAsk:        r.BestAsk,
		TickSize:       r.TickSize,
		Band:           band,
	}
	if err := md.Validate(); err != nil {
		return auction.MarketData{}, err
	}
	return md, nil
}

func priceLevels(levels []orderbook.PriceLevel) []PriceLevel {
	out := make([]PriceLevel, len(levels))
	for i, l := range levels {
		out[i] = PriceLevel{Price: l.Price, Qty: l.Qty, Orders: l.Orders}
	}
	return out
}

func rankedInfo(orders []auction.Order, md auction.MarketData, cp int64) []RankedOrderInfo {
	out := make([]RankedOrderInfo, len(orders))
	for i, o := range orders {
		out[i] = RankedOrderInfo{
			ID:             o.ID,
			Type:           o.Type.String(),
			EffectivePrice: auction.PriorityEffectivePrice(o.Side, o, md, cp),
			Displayed:      o.Displayed(),
			Timestamp:      o.Timestamp,
			Quantity:       o.Quantity,
		}
	}
	return out
}

func auctionResponse(out cross.Outcome) AuctionResponse {
	cp := out.RankPrice()
	return AuctionResponse{
		Record:    out.Record,
		Bids:      priceLevels(out.Snapshot.BidLevels()),
		Asks:      priceLevels(out.Snapshot.AskLevels()),
		RankPrice: cp,
		Buys:      rankedInfo(out.Ranked(auction.Buy), out.MarketData, cp),
		Sells:     rankedInfo(out.Ranked(auction.Sell), out.MarketData, cp),
	}
}

func marketInfo(m *market.Market) MarketInfo {
	return MarketInfo{
		Symbol:           m.Symbol,
		BaseAsset:        m.BaseAsset,
		QuoteAsset:       m.QuoteAsset,
		Status:           m.Status.String(),
		TickSize:         m.TickSize,
		LotSize:          m.LotSize,
		MinOrderSize:     m.MinOrderSize,
		MaxOrderSize:     m.MaxOrderSize,
		CollarPercent:    m.Collar.Percent.String(),
		CollarLowerTicks: m.Collar.LowerTicks,
		CollarUpperTicks: m.Collar.UpperTicks,
		CollarMinTicks:   m.Collar.MinTicks,
	}
}
