package orderbook

import (
	"fmt"
	"testing"

	"github.com/uhyunpark/hypercross/pkg/app/core/auction"
	"github.com/uhyunpark/hypercross/pkg/app/core/market"
)

// deepBook builds 100 price levels a side with a 50-tick overlap
func deepBook(b *testing.B) (*market.Market, []auction.Order) {
	mkt, err := market.NewMarketWithDefaults("HYPL-USDC", "HYPL", "USDC")
	if err != nil {
		b.Fatal(err)
	}

	var orders []auction.Order
	ts := int64(0)
	for i := 0; i < 100; i++ {
		ts++
		orders = append(orders, auction.Order{
			ID:        fmt.Sprintf("bid-%d", i),
			Side:      auction.Buy,
			Type:      auction.LimitType(int64(1050 - i)),
			Timestamp: ts,
			Quantity:  100,
			Remaining: 100,
		})
		ts++
		orders = append(orders, auction.Order{
			ID:        fmt.Sprintf("ask-%d", i),
			Side:      auction.Sell,
			Type:      auction.LimitType(int64(1000 + i)),
			Timestamp: ts,
			Quantity:  100,
			Remaining: 100,
		})
	}
	return mkt, orders
}

// BenchmarkSnapshotBuild measures validation and partitioning of 200 orders
func BenchmarkSnapshotBuild(b *testing.B) {
	mkt, orders := deepBook(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := NewSnapshot(mkt, orders); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkSnapshotSolve measures a full clearing computation over the snapshot
func BenchmarkSnapshotSolve(b *testing.B) {
	mkt, orders := deepBook(b)
	snap, err := NewSnapshot(mkt, orders)
	if err != nil {
		b.Fatal(err)
	}
	md, err := mkt.MarketData(1025, 0, 0)
	if err != nil {
		b.Fatal(err)
	}
	solver := auction.NewSolver(auction.ImbalanceBound)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := snap.Solve(solver, md); err != nil {
			b.Fatal(err)
		}
	}
}
