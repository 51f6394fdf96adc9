package cross

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/uhyunpark/hypercross/pkg/app/core/auction"
)

// Record is the journaled outcome of one auction run.
type Record struct {
	ID          string         `json:"id"`
	Symbol      string         `json:"symbol"`
	Timestamp   int64          `json:"timestamp"` // Unix milliseconds
	Fingerprint common.Hash    `json:"fingerprint"`
	TieBreak    string         `json:"tieBreak"`
	Reference   int64          `json:"reference"`
	BestBid     int64          `json:"bestBid"`
	BestAsk     int64          `json:"bestAsk"`
	BuyOrders   int            `json:"buyOrders"`
	SellOrders  int            `json:"sellOrders"`
	Result      auction.Result `json:"result"`
}

// Journal keeps an audit trail of auction results. It is never read back to
// resume an auction.
type Journal interface {
	Save(rec Record) error
	Get(id string) (Record, bool, error)
	Recent(symbol string, limit int) ([]Record, error)
	Close() error
}
