package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/tsvselect/internal/table"
)

// ErrRunNotFound is returned when no run has the requested ID.
var ErrRunNotFound = errors.New("run not found")

// RunSummary is a run without its rules and rows.
type RunSummary struct {
	ID         string `json:"id"`
	Seq        int64  `json:"seq"`
	Input      string `json:"input"`
	TableRows  int    `json:"table_rows"`
	ResultRows int    `json:"result_rows"`
	RuleCount  int    `json:"rule_count"`
}

// ListRuns returns all runs ordered by seq.
// Returns an empty slice (not nil) if nothing has been recorded.
func (s *Store) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.seq, r.input, r.table_rows, r.result_rows,
		       (SELECT COUNT(*) FROM run_rules rr WHERE rr.run_id = r.id)
		FROM runs r
		ORDER BY r.seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []RunSummary{}
	for rows.Next() {
		var rs RunSummary
		if err := rows.Scan(&rs.ID, &rs.Seq, &rs.Input, &rs.TableRows, &rs.ResultRows, &rs.RuleCount); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, rs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadRun returns a run with its rules and result rows.
// Returns ErrRunNotFound if id is unknown.
func (s *Store) ReadRun(ctx context.Context, id string) (*Run, error) {
	run := &Run{ID: id}
	err := s.db.QueryRowContext(ctx, `
		SELECT seq, input, table_rows FROM runs WHERE id = ?
	`, id).Scan(&run.Seq, &run.Input, &run.TableRows)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("read run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read run %s: %w", id, err)
	}

	if run.Rules, err = s.readRunRules(ctx, id); err != nil {
		return nil, err
	}
	if run.Rows, err = s.readRunRows(ctx, id); err != nil {
		return nil, err
	}
	return run, nil
}

func (s *Store) readRunRules(ctx context.Context, id string) ([]RunRule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ordinal, spec, selected FROM run_rules
		WHERE run_id = ?
		ORDER BY ordinal ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query run rules: %w", err)
	}
	defer rows.Close()

	rules := []RunRule{}
	for rows.Next() {
		var r RunRule
		if err := rows.Scan(&r.Ordinal, &r.Spec, &r.Selected); err != nil {
			return nil, fmt.Errorf("scan run rule: %w", err)
		}
		rules = append(rules, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rules: %w", err)
	}
	return rules, nil
}

func (s *Store) readRunRows(ctx context.Context, id string) ([]table.Row, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT fields FROM run_rows
		WHERE run_id = ?
		ORDER BY position ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query run rows: %w", err)
	}
	defer rows.Close()

	out := []table.Row{}
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		row, err := unmarshalRow(data)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}
	return out, nil
}
