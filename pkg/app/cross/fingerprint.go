package cross

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"

	"github.com/uhyunpark/hypercross/pkg/app/core/auction"
)

// Fingerprint computes a deterministic keccak256 digest of everything that
// determines an auction's outcome, so two journal entries with the same
// fingerprint must carry the same result.
//
// Components hashed (in order):
//  1. Symbol
//  2. Reference price, best bid, best ask, tick size, collar bounds (8 bytes each, big-endian)
//  3. Tie-break policy
//  4. Each buy then each sell in arrival order: id, type, timestamp, quantity
func Fingerprint(symbol string, md auction.MarketData, policy auction.TieBreakPolicy, buys, sells []auction.Order) common.Hash {
	h := sha3.NewLegacyKeccak256()
	var buf [8]byte
	putInt := func(v int64) {
		binary.BigEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	}
	putString := func(s string) {
		putInt(int64(len(s)))
		h.Write([]byte(s))
	}

	putString(symbol)
	putInt(md.ReferencePrice)
	putInt(md.BestBid)
	putInt(md.BestAsk)
	putInt(md.TickSize)
	putInt(auction.CollarLower(md))
	putInt(auction.CollarUpper(md))
	putString(policy.String())

	for _, side := range [][]auction.Order{buys, sells} {
		putInt(int64(len(side)))
		for _, o := range side {
			putString(o.ID)
			putInt(int64(o.Side))
			putString(o.Type.String())
			putInt(o.Timestamp)
			putInt(o.Quantity)
		}
	}

	return common.BytesToHash(h.Sum(nil))
}
