package auction

import (
	"fmt"
	"math/rand"
	"testing"
)

func limitOrder(id string, side Side, price, qty, ts int64) Order {
	return Order{ID: id, Side: side, Type: LimitType(price), Timestamp: ts, Quantity: qty, Remaining: qty}
}

func hiddenOrder(id string, side Side, price, qty, ts int64) Order {
	return Order{ID: id, Side: side, Type: HiddenLimitType(price), Timestamp: ts, Quantity: qty, Remaining: qty}
}

// collarMD builds market data whose collar is exactly [lower, upper] and whose
// reference sits at the lower side of the middle.
func collarMD(lower, upper int64) MarketData {
	ref := lower + (upper-lower)/2
	return MarketData{ReferencePrice: ref, Band: TickBand(ref-lower, upper-ref)}
}

func randomType(r *rand.Rand) OrderType {
	switch r.Intn(8) {
	case 0:
		return MarketType()
	case 1:
		return MidpointPegType()
	case 2:
		return PrimaryPegType(int64(r.Intn(3)))
	case 3:
		return HiddenLimitType(90 + int64(r.Intn(21)))
	default:
		return LimitType(90 + int64(r.Intn(21)))
	}
}

func randomOrder(r *rand.Rand, side Side, ts int64) Order {
	qty := int64(r.Intn(200))
	return Order{
		ID:        fmt.Sprintf("%s-%d", side, ts),
		Side:      side,
		Type:      randomType(r),
		Timestamp: ts,
		Quantity:  qty,
		Remaining: qty,
	}
}

func randomOrders(r *rand.Rand, side Side, n int) []Order {
	orders := make([]Order, n)
	for i := range orders {
		// small timestamp range so ties actually happen
		orders[i] = randomOrder(r, side, int64(r.Intn(n+1)))
	}
	return orders
}

func randomMD(r *rand.Rand) MarketData {
	md := MarketData{
		ReferencePrice: 95 + int64(r.Intn(11)),
		Band:           TickBand(1+int64(r.Intn(10)), 1+int64(r.Intn(10))),
	}
	if r.Intn(3) > 0 {
		md.BestBid = md.ReferencePrice - int64(r.Intn(4))
		md.BestAsk = md.ReferencePrice + int64(r.Intn(4))
	}
	return md
}

func newRand(t testing.TB) *rand.Rand {
	t.Helper()
	return rand.New(rand.NewSource(20240611))
}
