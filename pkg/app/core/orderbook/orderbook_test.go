package orderbook

import (
	"fmt"
	"testing"

	"github.com/uhyunpark/hypercross/pkg/app/core/auction"
	"github.com/uhyunpark/hypercross/pkg/app/core/market"
)

func testMarket(t *testing.T) *market.Market {
	t.Helper()
	m, err := market.NewMarket("TEST-USD", "TEST", "USD", market.MarketParams{
		TickSize:     1,
		LotSize:      1,
		MinOrderSize: 1,
		MaxOrderSize: 1000000,
		Collar:       auction.TickBand(5, 5),
	})
	if err != nil {
		t.Fatalf("NewMarket: %v", err)
	}
	return m
}

func ord(id string, side auction.Side, typ auction.OrderType, qty, ts int64) auction.Order {
	return auction.Order{ID: id, Side: side, Type: typ, Timestamp: ts, Quantity: qty, Remaining: qty}
}

func TestNewSnapshot(t *testing.T) {
	m := testMarket(t)
	snap, err := NewSnapshot(m, []auction.Order{
		ord("b2", auction.Buy, auction.LimitType(100), 50, 2),
		ord("s1", auction.Sell, auction.LimitType(99), 80, 1),
		ord("b1", auction.Buy, auction.LimitType(101), 100, 1),
		ord("s2", auction.Sell, auction.LimitType(102), 100, 3),
		ord("h1", auction.Buy, auction.HiddenLimitType(103), 10, 4),
		ord("m1", auction.Sell, auction.MarketType(), 5, 5),
	})
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}

	if snap.Len() != 6 {
		t.Fatalf("expected 6 orders, got %d", snap.Len())
	}

	buys := snap.Buys()
	if buys[0].ID != "b1" || buys[1].ID != "b2" || buys[2].ID != "h1" {
		t.Errorf("buys not in arrival order: %v", buys)
	}

	// hidden 103 is not a displayed quote
	if snap.BestBid() != 101 {
		t.Errorf("BestBid = %d, want 101", snap.BestBid())
	}
	if snap.BestAsk() != 99 {
		t.Errorf("BestAsk = %d, want 99", snap.BestAsk())
	}
	if snap.GetMidPrice() != 100 {
		t.Errorf("GetMidPrice = %d, want 100", snap.GetMidPrice())
	}

	bids := snap.BidLevels()
	if len(bids) != 3 || bids[0].Price != 103 || bids[2].Price != 100 {
		t.Errorf("unexpected bid levels %+v", bids)
	}
	asks := snap.AskLevels()
	if len(asks) != 2 || asks[0].Price != 99 || asks[0].Qty != 80 {
		t.Errorf("unexpected ask levels %+v", asks)
	}

	// mutating a returned slice must not leak into the snapshot
	buys[0].Quantity = 0
	if snap.Buys()[0].Quantity != 100 {
		t.Errorf("snapshot was mutated through Buys()")
	}
}

func TestNewSnapshotRejects(t *testing.T) {
	m := testMarket(t)

	tests := []struct {
		name   string
		orders []auction.Order
	}{
		{
			name: "duplicate id",
			orders: []auction.Order{
				ord("x", auction.Buy, auction.LimitType(100), 1, 1),
				ord("x", auction.Sell, auction.LimitType(100), 1, 2),
			},
		},
		{
			name:   "negative quantity",
			orders: []auction.Order{ord("x", auction.Buy, auction.LimitType(100), -1, 1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSnapshot(m, tt.orders); err == nil {
				t.Errorf("expected error")
			}
		})
	}
}

func TestSnapshotRankedAndSolve(t *testing.T) {
	m := testMarket(t)
	snap, err := NewSnapshot(m, []auction.Order{
		ord("b1", auction.Buy, auction.LimitType(101), 100, 1),
		ord("b2", auction.Buy, auction.LimitType(100), 50, 2),
		ord("b3", auction.Buy, auction.HiddenLimitType(101), 30, 0),
		ord("s1", auction.Sell, auction.LimitType(99), 80, 1),
		ord("s2", auction.Sell, auction.LimitType(102), 100, 3),
	})
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}

	md, err := m.MarketData(100, 0, 0)
	if err != nil {
		t.Fatalf("MarketData: %v", err)
	}

	ranked := snap.Ranked(auction.Buy, md, 100)
	got := fmt.Sprintf("%s %s %s", ranked[0].ID, ranked[1].ID, ranked[2].ID)
	if got != "b1 b3 b2" {
		t.Errorf("ranking = %s, want b1 b3 b2", got)
	}

	res, err := snap.Solve(&auction.Solver{}, md)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !res.Crossed || res.Price != 101 || res.Volume != 80 {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestEmptySnapshot(t *testing.T) {
	snap, err := NewSnapshot(testMarket(t), nil)
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	if snap.BestBid() != 0 || snap.BestAsk() != 0 || snap.GetMidPrice() != 0 {
		t.Errorf("empty snapshot should have no quotes")
	}
	if len(snap.BidLevels()) != 0 {
		t.Errorf("empty snapshot should have no levels")
	}
}
