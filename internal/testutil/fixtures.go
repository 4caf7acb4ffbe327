// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/tsvselect/internal/table"
)

// StocksTSV is a five-row table: name, price, volume, score.
//
// Scores 9 tie on bbb and ddd so ordering tests can observe stability.
const StocksTSV = "aaa\t10\t500\t7\n" +
	"bbb\t25\t100\t9\n" +
	"ccc\t5\t900\t2\n" +
	"ddd\t40\t300\t9\n" +
	"eee\t15\t700\t5\n"

// Stocks returns a fresh copy of the StocksTSV rows.
func Stocks() table.Table {
	return table.Table{
		{"aaa", "10", "500", "7"},
		{"bbb", "25", "100", "9"},
		{"ccc", "5", "900", "2"},
		{"ddd", "40", "300", "9"},
		{"eee", "15", "700", "5"},
	}
}

// WriteFile writes content to name inside a fresh temporary directory and
// returns the full path. The directory is removed when the test ends.
func WriteFile(t testing.TB, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
