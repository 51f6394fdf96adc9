package orderbook

import (
	"container/heap"

	"github.com/uhyunpark/hypercross/pkg/app/core/auction"
)

// priceHeap keeps the most aggressive price for its side on top:
// highest for bids, lowest for asks.
// Use container/heap package to manipulate this heap (Init, Push, Pop)
type priceHeap struct {
	side   auction.Side
	prices []int64
}

func newPriceHeap(side auction.Side, prices []int64) *priceHeap {
	h := &priceHeap{side: side, prices: prices}
	heap.Init(h)
	return h
}

func (h priceHeap) Len() int { return len(h.prices) }
func (h priceHeap) Less(i, j int) bool {
	return auction.IsMoreAggressive(h.side, h.prices[i], h.prices[j])
}
func (h priceHeap) Swap(i, j int) { h.prices[i], h.prices[j] = h.prices[j], h.prices[i] }

func (h *priceHeap) Push(x interface{}) {
	h.prices = append(h.prices, x.(int64))
}

func (h *priceHeap) Pop() interface{} {
	old := h.prices
	n := len(old)
	x := old[n-1]
	h.prices = old[0 : n-1]
	return x
}

// Peek returns the top element without removing it
func (h priceHeap) Peek() (int64, bool) {
	if len(h.prices) == 0 {
		return 0, false
	}
	return h.prices[0], true
}
