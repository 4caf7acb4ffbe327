// Package intersect combines rule selections into the rows common to all.
package intersect

import (
	"github.com/roach88/tsvselect/internal/table"
)

// Intersect returns the rows of selections[0] that are present, by full row
// equality, in every other selection. The result keeps the order of
// selections[0], duplicates included. With no selections it returns nil.
//
// Each non-base selection is indexed once by row key, so every membership
// test is a map lookup.
func Intersect(selections ...table.Selection) []table.Row {
	if len(selections) == 0 {
		return nil
	}
	base := selections[0]

	indexes := make([]map[string]struct{}, 0, len(selections)-1)
	for _, sel := range selections[1:] {
		indexes = append(indexes, index(sel))
	}

	out := make([]table.Row, 0, len(base))
	for _, row := range base {
		if inAll(row.Key(), indexes) {
			out = append(out, row)
		}
	}
	return out
}

func index(sel table.Selection) map[string]struct{} {
	idx := make(map[string]struct{}, len(sel))
	for _, row := range sel {
		idx[row.Key()] = struct{}{}
	}
	return idx
}

func inAll(key string, indexes []map[string]struct{}) bool {
	for _, idx := range indexes {
		if _, ok := idx[key]; !ok {
			return false
		}
	}
	return true
}
