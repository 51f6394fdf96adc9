package storage

import (
	"encoding/json"
	"fmt"

	"github.com/uhyunpark/hypercross/pkg/app/cross"
)

func encodeRecord(rec cross.Record) ([]byte, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode record %s: %w", rec.ID, err)
	}
	return b, nil
}

func decodeRecord(b []byte) (cross.Record, error) {
	var rec cross.Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return cross.Record{}, fmt.Errorf("decode record: %w", err)
	}
	return rec, nil
}
