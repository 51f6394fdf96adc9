package storage

import (
	"fmt"
	"sync"

	"github.com/uhyunpark/hypercross/pkg/app/cross"
)

// MemoryJournal keeps auction records in process memory. Used in tests and
// when JOURNAL=memory.
type MemoryJournal struct {
	mu       sync.Mutex
	byID     map[string]cross.Record
	bySymbol map[string][]string // ids in save order
}

func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{
		byID:     make(map[string]cross.Record),
		bySymbol: make(map[string][]string),
	}
}

func (j *MemoryJournal) Save(rec cross.Record) error {
	if rec.ID == "" {
		return fmt.Errorf("record has no id")
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if _, exists := j.byID[rec.ID]; !exists {
		j.bySymbol[rec.Symbol] = append(j.bySymbol[rec.Symbol], rec.ID)
	}
	j.byID[rec.ID] = rec
	return nil
}

func (j *MemoryJournal) Get(id string) (cross.Record, bool, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	rec, ok := j.byID[id]
	return rec, ok, nil
}

// Recent returns up to limit records for symbol, newest first.
func (j *MemoryJournal) Recent(symbol string, limit int) ([]cross.Record, error) {
	if limit <= 0 {
		return nil, nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	ids := j.bySymbol[symbol]
	out := make([]cross.Record, 0, min(limit, len(ids)))
	for i := len(ids) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, j.byID[ids[i]])
	}
	return out, nil
}

func (j *MemoryJournal) Close() error { return nil }

var _ cross.Journal = (*MemoryJournal)(nil)
