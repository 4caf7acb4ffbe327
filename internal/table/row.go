package table

import (
	"fmt"
	"strconv"
	"strings"
)

// Row is an ordered sequence of string fields.
type Row []string

// Table is an ordered sequence of rows.
type Table []Row

// Field returns the n-th field (1-based). ok is false when the row has
// fewer than n fields or n < 1.
func (r Row) Field(n int) (string, bool) {
	if n < 1 || n > len(r) {
		return "", false
	}
	return r[n-1], true
}

// Equal reports element-wise equality of all fields in order.
func (r Row) Equal(other Row) bool {
	if len(r) != len(other) {
		return false
	}
	for i := range r {
		if r[i] != other[i] {
			return false
		}
	}
	return true
}

// Key returns an exact map key for the row's contents.
// Each field is length-prefixed, so two rows share a key iff they are Equal.
func (r Row) Key() string {
	var b strings.Builder
	for _, f := range r {
		b.WriteString(strconv.Itoa(len(f)))
		b.WriteByte(':')
		b.WriteString(f)
	}
	return b.String()
}

// ParseKey decodes a Key back into the row it was built from.
// The decoding is byte-exact, including fields that are not valid UTF-8.
func ParseKey(key string) (Row, error) {
	row := Row{}
	for i := 0; i < len(key); {
		sep := strings.IndexByte(key[i:], ':')
		if sep < 0 {
			return nil, fmt.Errorf("parse row key: missing length separator at offset %d", i)
		}
		n, err := strconv.Atoi(key[i : i+sep])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("parse row key: bad field length %q at offset %d", key[i:i+sep], i)
		}
		start := i + sep + 1
		if n > len(key)-start {
			return nil, fmt.Errorf("parse row key: field of %d bytes overruns key at offset %d", n, i)
		}
		row = append(row, key[start:start+n])
		i = start + n
	}
	return row, nil
}

// String renders the row as a tab-separated line without the newline.
func (r Row) String() string {
	return strings.Join(r, "\t")
}

// Selection is the ordered subset of a table chosen by one rule.
type Selection []Row
