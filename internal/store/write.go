package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/tsvselect/internal/table"
)

// ErrDuplicateRun is returned when a run with the same ID already exists.
var ErrDuplicateRun = errors.New("run already recorded")

// Run is one recorded tsvselect invocation.
type Run struct {
	ID string

	// Seq is assigned by WriteRun.
	Seq int64

	// Input is the path of the table file.
	Input string

	TableRows int

	Rules []RunRule

	// Rows is the intersected result in output order.
	Rows []table.Row
}

// RunRule records one rule of a run.
type RunRule struct {
	// Ordinal is the 1-based position of the rule.
	Ordinal  int
	Spec     string
	Selected int
}

// WriteRun records a run with its rules and result rows in one transaction
// and returns the assigned seq.
func (s *Store) WriteRun(ctx context.Context, run Run) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("write run: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE id = ?`, run.ID).Scan(&exists); err != nil {
		return 0, fmt.Errorf("write run: %w", err)
	}
	if exists > 0 {
		return 0, fmt.Errorf("write run %s: %w", run.ID, ErrDuplicateRun)
	}

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("write run: next seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, seq, input, table_rows, result_rows)
		VALUES (?, ?, ?, ?, ?)
	`, run.ID, seq, run.Input, run.TableRows, len(run.Rows))
	if err != nil {
		return 0, fmt.Errorf("write run: %w", err)
	}

	for _, r := range run.Rules {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO run_rules (run_id, ordinal, spec, selected)
			VALUES (?, ?, ?, ?)
		`, run.ID, r.Ordinal, r.Spec, r.Selected)
		if err != nil {
			return 0, fmt.Errorf("write run rule %d: %w", r.Ordinal, err)
		}
	}

	for i, row := range run.Rows {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO run_rows (run_id, position, fields)
			VALUES (?, ?, ?)
		`, run.ID, i, marshalRow(row))
		if err != nil {
			return 0, fmt.Errorf("write run row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("write run: commit: %w", err)
	}
	return seq, nil
}
