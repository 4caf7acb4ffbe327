package store

import (
	"fmt"

	"github.com/roach88/tsvselect/internal/table"
)

// marshalRow encodes a row as a BLOB of length-prefixed fields (Row.Key).
// Field bytes are stored unchanged, so rows that are not valid UTF-8
// read back exactly as they were written.
func marshalRow(row table.Row) []byte {
	return []byte(row.Key())
}

// unmarshalRow decodes a BLOB written by marshalRow.
func unmarshalRow(data []byte) (table.Row, error) {
	row, err := table.ParseKey(string(data))
	if err != nil {
		return nil, fmt.Errorf("unmarshal row: %w", err)
	}
	return row, nil
}
