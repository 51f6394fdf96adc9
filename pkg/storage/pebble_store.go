package storage

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"

	"github.com/uhyunpark/hypercross/pkg/app/cross"
)

// PebbleJournal persists auction records to a Pebble database. Records are
// an audit trail only; nothing is resumed from them.
type PebbleJournal struct {
	db *pebble.DB
}

func NewPebbleJournal(path string) (*PebbleJournal, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open pebble at %s: %w", path, err)
	}
	return &PebbleJournal{db: db}, nil
}

func (s *PebbleJournal) Close() error { return s.db.Close() }

// Save writes the record and its time index entry in one batch.
func (s *PebbleJournal) Save(rec cross.Record) error {
	if rec.ID == "" {
		return fmt.Errorf("record has no id")
	}
	val, err := encodeRecord(rec)
	if err != nil {
		return err
	}

	b := s.db.NewBatch()
	defer b.Close()
	if err := b.Set(recordKey(rec.ID), val, nil); err != nil {
		return fmt.Errorf("failed to stage record: %w", err)
	}
	if err := b.Set(indexKey(rec.Symbol, rec.Timestamp, rec.ID), []byte(rec.ID), nil); err != nil {
		return fmt.Errorf("failed to stage index: %w", err)
	}
	if err := b.Commit(pebble.Sync); err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}
	return nil
}

func (s *PebbleJournal) Get(id string) (cross.Record, bool, error) {
	val, closer, err := s.db.Get(recordKey(id))
	if errors.Is(err, pebble.ErrNotFound) {
		return cross.Record{}, false, nil
	}
	if err != nil {
		return cross.Record{}, false, fmt.Errorf("failed to get record: %w", err)
	}
	defer closer.Close()

	rec, err := decodeRecord(val)
	if err != nil {
		return cross.Record{}, false, err
	}
	return rec, true, nil
}

// Recent loads the most recent limit records for a symbol, newest first.
func (s *PebbleJournal) Recent(symbol string, limit int) ([]cross.Record, error) {
	if limit <= 0 {
		return nil, nil
	}
	prefix := indexPrefix(symbol)
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: keyUpperBound(prefix),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open index iterator: %w", err)
	}
	defer iter.Close()

	var out []cross.Record
	for iter.Last(); iter.Valid() && len(out) < limit; iter.Prev() {
		rec, ok, err := s.Get(string(iter.Value()))
		if err != nil {
			return nil, err
		}
		if !ok {
			continue // index without record
		}
		out = append(out, rec)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("index scan: %w", err)
	}
	return out, nil
}

var _ cross.Journal = (*PebbleJournal)(nil)
