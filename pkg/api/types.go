package api

import (
	"github.com/uhyunpark/hypercross/pkg/app/core/auction"
	"github.com/uhyunpark/hypercross/pkg/app/cross"
)

// API request and response types for REST endpoints and WebSocket messages

// ==============================
// REST Response Types
// ==============================

// MarketInfo represents a market's static configuration
type MarketInfo struct {
	Symbol           string `json:"symbol"`     // e.g., "HYPL-USDC"
	BaseAsset        string `json:"baseAsset"`  // e.g., "HYPL"
	QuoteAsset       string `json:"quoteAsset"` // e.g., "USDC"
	Status           string `json:"status"`     // "Active", "Halted", "Closed"
	TickSize         int64  `json:"tickSize"`
	LotSize          int64  `json:"lotSize"`
	MinOrderSize     int64  `json:"minOrderSize"`
	MaxOrderSize     int64  `json:"maxOrderSize"`
	CollarPercent    string `json:"collarPercent"` // decimal string, "0.1" = 10%
	CollarLowerTicks int64  `json:"collarLowerTicks"`
	CollarUpperTicks int64  `json:"collarUpperTicks"`
	CollarMinTicks   int64  `json:"collarMinTicks"`
}

// ClearResponse is returned by POST /api/v1/auctions/clear
type ClearResponse struct {
	TieBreak string         `json:"tieBreak"`
	Result   auction.Result `json:"result"`
}

// AuctionResponse is returned by POST /api/v1/markets/{symbol}/auction: the
// journaled record plus the book it was computed from.
type AuctionResponse struct {
	Record    cross.Record      `json:"record"`
	Bids      []PriceLevel      `json:"bids"` // best bid first
	Asks      []PriceLevel      `json:"asks"` // best ask first
	RankPrice int64             `json:"rankPrice"`
	Buys      []RankedOrderInfo `json:"buys"` // priority order at rankPrice
	Sells     []RankedOrderInfo `json:"sells"`
}

// PriceLevel aggregates limit interest, displayed or not, at one price.
type PriceLevel struct {
	Price  int64 `json:"price"`
	Qty    int64 `json:"qty"`
	Orders int   `json:"orders"`
}

// RankedOrderInfo is one order of a ranked side.
type RankedOrderInfo struct {
	ID             string `json:"id"`
	Type           string `json:"type"`
	EffectivePrice int64  `json:"effectivePrice"`
	Displayed      bool   `json:"displayed"`
	Timestamp      int64  `json:"timestamp"`
	Quantity       int64  `json:"quantity"`
}

// ErrorResponse is returned for all errors
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ==============================
// REST Request Types
// ==============================

// OrderRequest is the wire form of one resting order in a snapshot.
//
// Hidden defaults to false (displayed). Midpoint pegs are always hidden: an
// omitted or true hidden flag is accepted for them, an explicit false is
// rejected with ErrDisplayedMidpointPeg.
type OrderRequest struct {
	ID        string `json:"id"`
	Side      string `json:"side"` // "buy" or "sell"; may be omitted inside buys/sells lists
	Type      string `json:"type"` // "limit", "market", "midpoint_peg", "primary_peg"
	Price     int64  `json:"price,omitempty"`
	Offset    int64  `json:"offset,omitempty"` // primary_peg only
	Hidden    *bool  `json:"hidden,omitempty"`
	Timestamp int64  `json:"timestamp"`
	Quantity  int64  `json:"quantity"`
	Remaining *int64 `json:"remaining,omitempty"` // defaults to quantity
}

// AuctionRequest is the payload for POST /api/v1/markets/{symbol}/auction.
// Omitted quotes are derived from the displayed orders; an omitted reference
// price falls back to their mid price.
type AuctionRequest struct {
	Orders         []OrderRequest `json:"orders"`
	ReferencePrice int64          `json:"referencePrice"`
	BestBid        int64          `json:"bestBid"`
	BestAsk        int64          `json:"bestAsk"`
}

// CollarRequest describes a collar band on the wire.
type CollarRequest struct {
	Percent    string `json:"percent,omitempty"` // decimal string
	LowerTicks int64  `json:"lowerTicks,omitempty"`
	UpperTicks int64  `json:"upperTicks,omitempty"`
	MinTicks   int64  `json:"minTicks,omitempty"`
}

// ClearRequest is the payload for POST /api/v1/auctions/clear: both sides
// and complete market data, computed without a registered market.
type ClearRequest struct {
	Buys           []OrderRequest `json:"buys"`
	Sells          []OrderRequest `json:"sells"`
	ReferencePrice int64          `json:"referencePrice"`
	BestBid        int64          `json:"bestBid"`
	BestAsk        int64          `json:"bestAsk"`
	TickSize       int64          `json:"tickSize,omitempty"` // price grid; omitted means every integer
	Collar         CollarRequest  `json:"collar"`
}

// ==============================
// WebSocket Message Types
// ==============================

// WSSubscribeRequest is sent by client to subscribe to channels
type WSSubscribeRequest struct {
	Op       string   `json:"op"`       // "subscribe" or "unsubscribe"
	Channels []string `json:"channels"` // e.g., ["auction:HYPL-USDC"]
}

// AuctionUpdate is broadcast on auction:<symbol> after every run
type AuctionUpdate struct {
	Type   string       `json:"type"` // "auction"
	Record cross.Record `json:"record"`
}

// AuctionChannel names the subscription channel for a symbol.
func AuctionChannel(symbol string) string { return "auction:" + symbol }
