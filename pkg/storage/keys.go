package storage

import (
	"fmt"
)

// Journal key schema for Pebble storage
//
//   res:<id>                        → Record (JSON)
//   idx:<symbol>:<timestamp>:<id>   → record id
//
// Timestamp is zero-padded (20 digits) so a prefix scan over idx:<symbol>:
// visits runs in time order.

const (
	prefixRecord = "res:"
	prefixIndex  = "idx:"
)

// recordKey returns the key for a record
// Format: "res:{id}"
func recordKey(id string) []byte {
	return []byte(prefixRecord + id)
}

// indexKey returns the time index key for a record
// Format: "idx:{symbol}:{timestamp}:{id}"
func indexKey(symbol string, timestamp int64, id string) []byte {
	return []byte(fmt.Sprintf("%s%s:%020d:%s", prefixIndex, symbol, timestamp, id))
}

// indexPrefix returns the prefix for all index entries of a symbol
// Format: "idx:{symbol}:"
// Market symbols cannot contain ':', so no symbol's prefix covers another's.
func indexPrefix(symbol string) []byte {
	return []byte(fmt.Sprintf("%s%s:", prefixIndex, symbol))
}

// keyUpperBound returns the exclusive upper bound for a prefix scan
func keyUpperBound(prefix []byte) []byte {
	bound := make([]byte, len(prefix))
	copy(bound, prefix)
	bound[len(bound)-1]++
	return bound
}
