package market

import (
	"fmt"
	"strings"

	"github.com/uhyunpark/hypercross/pkg/app/core/auction"
)

// MarketStatus defines whether an instrument may run auctions
type MarketStatus int8

const (
	Active MarketStatus = iota // Auctions enabled
	Halted                     // Auctions suspended (regulatory halt)
	Closed                     // Instrument delisted
)

func (ms MarketStatus) String() string {
	switch ms {
	case Active:
		return "Active"
	case Halted:
		return "Halted"
	case Closed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// Market defines the static parameters of one auctioned instrument
type Market struct {
	// Identity
	Symbol     string       // "HYPL-USDC"
	BaseAsset  string       // "HYPL"
	QuoteAsset string       // "USDC"
	Status     MarketStatus // Active, Halted, Closed

	// TickSize: Minimum price increment. All prices are integer ticks and
	// limit prices must be a multiple of TickSize.
	TickSize int64

	// LotSize: Minimum size increment. Quantities must be a multiple of LotSize.
	LotSize int64

	// Order limits in lots
	MinOrderSize int64
	MaxOrderSize int64

	// Collar applied around the reference price of every auction
	Collar auction.CollarBand
}

// NewMarket creates a new market with validation
func NewMarket(symbol, baseAsset, quoteAsset string, params MarketParams) (*Market, error) {
	m := &Market{
		Symbol:       symbol,
		BaseAsset:    baseAsset,
		QuoteAsset:   quoteAsset,
		Status:       Active,
		TickSize:     params.TickSize,
		LotSize:      params.LotSize,
		MinOrderSize: params.MinOrderSize,
		MaxOrderSize: params.MaxOrderSize,
		Collar:       params.Collar,
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid market params: %w", err)
	}

	return m, nil
}

// Validate checks market parameter sanity
func (m *Market) Validate() error {
	if m.Symbol == "" {
		return fmt.Errorf("symbol cannot be empty")
	}
	// ':' separates the symbol from the sequence in journal index keys
	if strings.Contains(m.Symbol, ":") {
		return fmt.Errorf("symbol %q cannot contain ':'", m.Symbol)
	}
	if m.BaseAsset == "" || m.QuoteAsset == "" {
		return fmt.Errorf("base and quote assets must be specified")
	}
	if m.TickSize <= 0 {
		return fmt.Errorf("tick size must be positive")
	}
	if m.LotSize <= 0 {
		return fmt.Errorf("lot size must be positive")
	}
	if m.MinOrderSize < 0 {
		return fmt.Errorf("min order size cannot be negative")
	}
	if m.MaxOrderSize <= 0 {
		return fmt.Errorf("max order size must be positive")
	}
	if m.MinOrderSize > m.MaxOrderSize {
		return fmt.Errorf("min order size cannot exceed max order size")
	}
	if m.Collar.Percent.IsNegative() || m.Collar.LowerTicks < 0 || m.Collar.UpperTicks < 0 {
		return fmt.Errorf("collar widths cannot be negative")
	}
	if m.Collar.MinTicks < 1 {
		return fmt.Errorf("collar must be at least one tick wide")
	}
	return nil
}

// ValidateOrder checks an order snapshot against the instrument rules.
// Zero-quantity orders are accepted: they are fully filled resting records.
func (m *Market) ValidateOrder(o auction.Order) error {
	if m.Status != Active {
		return fmt.Errorf("market %s is not active (status: %s)", m.Symbol, m.Status)
	}
	if o.Side != auction.Buy && o.Side != auction.Sell {
		return fmt.Errorf("order %s: invalid side %d", o.ID, o.Side)
	}
	if o.Type.Pricing == nil {
		return fmt.Errorf("order %s: %w", o.ID, auction.ErrUnknownOrderType)
	}
	if price, ok := o.Type.LimitPrice(); ok {
		if price <= 0 {
			return fmt.Errorf("order %s: price must be positive", o.ID)
		}
		if price%m.TickSize != 0 {
			return fmt.Errorf("order %s: price %d not a multiple of tick size %d", o.ID, price, m.TickSize)
		}
	}
	if o.Quantity < 0 {
		return fmt.Errorf("order %s: %w", o.ID, auction.ErrNegativeQuantity)
	}
	if o.Quantity == 0 {
		return nil
	}
	if o.Quantity%m.LotSize != 0 {
		return fmt.Errorf("order %s: quantity %d not a multiple of lot size %d", o.ID, o.Quantity, m.LotSize)
	}
	if o.Quantity < m.MinOrderSize {
		return fmt.Errorf("order %s: size %d below minimum %d", o.ID, o.Quantity, m.MinOrderSize)
	}
	if o.Quantity > m.MaxOrderSize {
		return fmt.Errorf("order %s: size %d exceeds maximum %d", o.ID, o.Quantity, m.MaxOrderSize)
	}
	return nil
}

// MarketData assembles the per-auction market reference for this instrument.
// bid and ask are zero when absent. The collar is snapped onto the tick grid.
func (m *Market) MarketData(reference, bid, ask int64) (auction.MarketData, error) {
	md := auction.MarketData{
		ReferencePrice: reference,
		BestBid:        bid,
		BestAsk:        ask,
		TickSize:       m.TickSize,
		Band:           m.Collar,
	}
	if err := md.Validate(); err != nil {
		return auction.MarketData{}, fmt.Errorf("market %s: %w", m.Symbol, err)
	}
	return md, nil
}
