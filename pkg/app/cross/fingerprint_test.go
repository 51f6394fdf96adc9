package cross

import (
	"testing"

	"github.com/uhyunpark/hypercross/pkg/app/core/auction"
)

func TestFingerprint(t *testing.T) {
	md := auction.MarketData{ReferencePrice: 100, Band: auction.TickBand(5, 5)}
	buys := []auction.Order{{ID: "b1", Side: auction.Buy, Type: auction.LimitType(101), Timestamp: 1, Quantity: 100}}
	sells := []auction.Order{{ID: "s1", Side: auction.Sell, Type: auction.LimitType(99), Timestamp: 1, Quantity: 80}}

	base := Fingerprint("X", md, auction.ImbalanceBound, buys, sells)
	if base != Fingerprint("X", md, auction.ImbalanceBound, buys, sells) {
		t.Fatal("fingerprint not deterministic")
	}

	tests := []struct {
		name string
		fp   func() [32]byte
	}{
		{"symbol", func() [32]byte { return Fingerprint("Y", md, auction.ImbalanceBound, buys, sells) }},
		{"policy", func() [32]byte { return Fingerprint("X", md, auction.LowestPrice, buys, sells) }},
		{"reference", func() [32]byte {
			md2 := md
			md2.ReferencePrice = 101
			return Fingerprint("X", md2, auction.ImbalanceBound, buys, sells)
		}},
		{"tick size", func() [32]byte {
			md2 := md
			md2.TickSize = 5
			return Fingerprint("X", md2, auction.ImbalanceBound, buys, sells)
		}},
		{"hidden", func() [32]byte {
			b := []auction.Order{buys[0]}
			b[0].Type = auction.HiddenLimitType(101)
			return Fingerprint("X", md, auction.ImbalanceBound, b, sells)
		}},
		{"sides swapped", func() [32]byte { return Fingerprint("X", md, auction.ImbalanceBound, nil, append(buys, sells...)) }},
	}
	for _, tt := range tests {
		if tt.fp() == [32]byte(base) {
			t.Errorf("%s: fingerprint did not change", tt.name)
		}
	}
}
