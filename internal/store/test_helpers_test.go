package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/tsvselect/internal/table"
)

// createTestStore creates a new store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a run with two rules and the given rows.
func createTestRun(id string, rows ...table.Row) Run {
	return Run{
		ID:        id,
		Input:     "data.tsv",
		TableRows: 10,
		Rules: []RunRule{
			{Ordinal: 1, Spec: "max;5;#2", Selected: 5},
			{Ordinal: 2, Spec: "min;;#3", Selected: 10},
		},
		Rows: rows,
	}
}
