package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/uhyunpark/hypercross/pkg/api"
	"github.com/uhyunpark/hypercross/pkg/app/core/auction"
	"github.com/uhyunpark/hypercross/pkg/app/core/market"
	"github.com/uhyunpark/hypercross/pkg/app/cross"
)

// Offline clearing price calculator.
//
//	cross -tiebreak midpoint snapshot.json
//	cat snapshot.json | cross
//	cross -gen 50 -ref 10000
//
// The snapshot uses the body format of POST /api/v1/auctions/clear.
func main() {
	tiebreak := flag.String("tiebreak", "imbalance", "tie-break policy: imbalance, midpoint, highest, lowest")
	gen := flag.Int("gen", 0, "generate a random snapshot of N orders instead of reading one")
	ref := flag.Int64("ref", 10_000, "reference price for -gen")
	seed := flag.Int64("seed", 1, "random seed for -gen")
	ranked := flag.Bool("ranked", false, "print each side in priority order at the clearing price")
	flag.Parse()

	policy, err := auction.ParseTieBreak(*tiebreak)
	if err != nil {
		fail(err)
	}

	var req api.ClearRequest
	if *gen > 0 {
		req, err = generated(*gen, *ref, *seed)
	} else {
		req, err = readRequest(flag.Arg(0))
	}
	if err != nil {
		fail(err)
	}

	buys, err := api.ToOrders(req.Buys, auction.Buy)
	if err != nil {
		fail(err)
	}
	sells, err := api.ToOrders(req.Sells, auction.Sell)
	if err != nil {
		fail(err)
	}
	md, err := req.MarketData()
	if err != nil {
		fail(err)
	}

	res, err := auction.NewSolver(policy).Solve(buys, sells, md)
	if err != nil {
		fail(err)
	}

	fmt.Printf("Collar:   [%d, %d]  midpoint %d\n", res.CollarLower, res.CollarUpper, res.Midpoint)
	fmt.Printf("Orders:   %d buys, %d sells\n", len(buys), len(sells))
	if !res.Crossed {
		fmt.Println("Result:   no clearing price")
	} else {
		fmt.Printf("Result:   price %d  volume %d  (%s)\n", res.Price, res.Volume, policy)
		fmt.Printf("Range:    [%d, %d] at max volume\n", res.LowestPrice, res.HighestPrice)
		fmt.Printf("Excess:   buy %d  sell %d  imbalance %d\n", res.BuyExcess, res.SellExcess, res.Imbalance)
	}

	if *ranked {
		cp := res.Price
		if !res.Crossed {
			cp = res.Midpoint
		}
		printRanked("Buys", auction.SortByPriority(auction.Buy, buys, md, cp), md, cp)
		printRanked("Sells", auction.SortByPriority(auction.Sell, sells, md, cp), md, cp)
	}

	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		fail(err)
	}
	fmt.Println()
	fmt.Println(string(out))
}

func readRequest(path string) (api.ClearRequest, error) {
	var r io.Reader = os.Stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return api.ClearRequest{}, err
		}
		defer f.Close()
		r = f
	}

	var req api.ClearRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return api.ClearRequest{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return req, nil
}

// generated builds a random snapshot on the default HYPL-USDC market
func generated(n int, ref, seed int64) (api.ClearRequest, error) {
	mkt, err := market.NewMarketWithDefaults("HYPL-USDC", "HYPL", "USDC")
	if err != nil {
		return api.ClearRequest{}, err
	}
	g := cross.NewOrderGenerator(mkt, 10, ref, seed)

	req := api.ClearRequest{
		ReferencePrice: ref,
		TickSize:       mkt.TickSize,
		Collar: api.CollarRequest{
			Percent:  mkt.Collar.Percent.String(),
			MinTicks: mkt.Collar.MinTicks,
		},
	}
	for _, o := range g.GenerateBatch(n) {
		w := wireOrder(o)
		if o.Side == auction.Buy {
			req.Buys = append(req.Buys, w)
		} else {
			req.Sells = append(req.Sells, w)
		}
	}
	return req, nil
}

func wireOrder(o auction.Order) api.OrderRequest {
	w := api.OrderRequest{
		ID:        o.ID,
		Side:      o.Side.String(),
		Timestamp: o.Timestamp,
		Quantity:  o.Quantity,
	}
	if o.Type.Hidden {
		hidden := true
		w.Hidden = &hidden
	}
	switch p := o.Type.Pricing.(type) {
	case auction.Limit:
		w.Type, w.Price = "limit", p.Price
	case auction.Market:
		w.Type = "market"
	case auction.MidpointPeg:
		w.Type = "midpoint_peg"
	case auction.PrimaryPeg:
		w.Type, w.Offset = "primary_peg", p.Offset
	}
	return w
}

func printRanked(title string, orders []auction.Order, md auction.MarketData, cp int64) {
	fmt.Printf("\n%s (priority order at %d):\n", title, cp)
	for i, o := range orders {
		fmt.Printf("  %3d. %-16s %-20s eff=%d qty=%d t=%d\n",
			i+1, o.ID, o.Type, auction.PriorityEffectivePrice(o.Side, o, md, cp), o.Quantity, o.Timestamp)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
