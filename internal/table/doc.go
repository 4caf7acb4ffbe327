// Package table holds the in-memory representation of a tab-separated table.
//
// A Table is an ordered sequence of Rows exactly as loaded: no sorting and no
// duplicate elimination. Rows are treated as immutable once loaded, so a
// Table may be shared across goroutines without locking.
//
// Column references elsewhere in the module are 1-based; Row.Field follows
// that convention.
package table
