package cross

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/uhyunpark/hypercross/pkg/app/core/auction"
	"github.com/uhyunpark/hypercross/pkg/app/core/market"
)

// OrderGenerator creates random auction snapshots for demos and load tests.
type OrderGenerator struct {
	accounts  []string // simulated trader names, used as ID prefixes
	symbol    string
	tickSize  int64
	lotSize   int64
	reference int64
	orderID   int
	clock     int64 // logical arrival timestamp
	rng       *rand.Rand
}

// NewOrderGenerator creates a generator for mkt centred on reference. A zero
// seed uses the current time.
func NewOrderGenerator(mkt *market.Market, numAccounts int, reference int64, seed int64) *OrderGenerator {
	if numAccounts < 1 {
		numAccounts = 1
	}
	accounts := make([]string, numAccounts)
	for i := 0; i < numAccounts; i++ {
		accounts[i] = fmt.Sprintf("trader_%d", i+1)
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &OrderGenerator{
		accounts:  accounts,
		symbol:    mkt.Symbol,
		tickSize:  mkt.TickSize,
		lotSize:   mkt.LotSize,
		reference: reference,
		orderID:   1,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

func (g *OrderGenerator) Reference() int64 { return g.reference }

// SetReference moves the price the generator quotes around, typically to the
// last clearing price.
func (g *OrderGenerator) SetReference(p int64) {
	if p > 0 {
		g.reference = p
	}
}

// GenerateOrder creates a random order.
func (g *OrderGenerator) GenerateOrder() auction.Order {
	account := g.accounts[g.rng.Intn(len(g.accounts))]

	side := auction.Buy
	if g.rng.Intn(2) == 1 {
		side = auction.Sell
	}

	// Limit prices within ±5% of reference, tick aligned
	spread := g.reference / 20
	if spread < 1 {
		spread = 1
	}
	price := g.reference + g.rng.Int63n(2*spread+1) - spread
	price -= price % g.tickSize
	if price < g.tickSize {
		price = g.tickSize
	}

	// 70% limit, 10% hidden limit, 10% market, 5% midpoint peg, 5% primary peg
	var typ auction.OrderType
	r := g.rng.Intn(100)
	switch {
	case r < 70:
		typ = auction.LimitType(price)
	case r < 80:
		typ = auction.HiddenLimitType(price)
	case r < 90:
		typ = auction.MarketType()
	case r < 95:
		typ = auction.MidpointPegType()
	default:
		typ = auction.PrimaryPegType(g.rng.Int63n(3) * g.tickSize)
	}

	qty := (g.rng.Int63n(100) + 1) * g.lotSize

	id := fmt.Sprintf("%s_o%d", account, g.orderID)
	g.orderID++
	g.clock++

	return auction.Order{
		ID:        id,
		Side:      side,
		Type:      typ,
		Timestamp: g.clock,
		Quantity:  qty,
		Remaining: qty,
	}
}

// GenerateBatch creates count random orders with increasing timestamps.
func (g *OrderGenerator) GenerateBatch(count int) []auction.Order {
	batch := make([]auction.Order, count)
	for i := 0; i < count; i++ {
		batch[i] = g.GenerateOrder()
	}
	return batch
}

// GenerateRequest wraps a fresh batch into an auction request at the current
// reference price.
func (g *OrderGenerator) GenerateRequest(count int) Request {
	return Request{
		Symbol:         g.symbol,
		Orders:         g.GenerateBatch(count),
		ReferencePrice: g.reference,
	}
}

// Generated returns how many orders have been produced.
func (g *OrderGenerator) Generated() int { return g.orderID - 1 }
