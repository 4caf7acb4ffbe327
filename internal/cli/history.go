package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/tsvselect/internal/store"
	"github.com/roach88/tsvselect/internal/table"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	RunID    string
}

// RunDetail is the JSON payload for a single recorded run.
type RunDetail struct {
	ID        string        `json:"id"`
	Seq       int64         `json:"seq"`
	Input     string        `json:"input"`
	TableRows int           `json:"table_rows"`
	Rules     []RuleSummary `json:"rules"`
	Rows      [][]string    `json:"rows"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List or show runs recorded with --db",
		Long: `List the runs recorded in a run history database, or print the
selected rows of one run.

Without --run, one line per run is printed in recording order.
With --run, the run's rows are printed as TSV exactly as the original
selection wrote them.

Examples:
  tsvselect history --db ./runs.db
  tsvselect history --db ./runs.db --run 0190c5a2-...
  tsvselect history --db ./runs.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "show the rows of this run")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return commandError(formatter, ErrCodeStore, "opening database", err)
	}
	defer st.Close()

	if opts.RunID != "" {
		return showRun(ctx, st, opts.RunID, formatter)
	}

	runs, err := st.ListRuns(ctx)
	if err != nil {
		return commandError(formatter, ErrCodeStore, "listing runs", err)
	}
	if formatter.Format == "json" {
		return formatter.Success(runs)
	}
	outputRunList(formatter.Writer, runs)
	return nil
}

func showRun(ctx context.Context, st *store.Store, id string, formatter *OutputFormatter) error {
	run, err := st.ReadRun(ctx, id)
	if errors.Is(err, store.ErrRunNotFound) {
		return commandError(formatter, ErrCodeNotFound, fmt.Sprintf("no run %q", id), nil)
	}
	if err != nil {
		return commandError(formatter, ErrCodeStore, "reading run", err)
	}

	if formatter.Format == "json" {
		detail := RunDetail{
			ID:        run.ID,
			Seq:       run.Seq,
			Input:     run.Input,
			TableRows: run.TableRows,
			Rules:     make([]RuleSummary, len(run.Rules)),
			Rows:      make([][]string, len(run.Rows)),
		}
		for i, r := range run.Rules {
			detail.Rules[i] = RuleSummary{Ordinal: r.Ordinal, Spec: r.Spec, Selected: r.Selected}
		}
		for i, row := range run.Rows {
			detail.Rows[i] = []string(row)
		}
		return formatter.Success(detail)
	}

	for _, r := range run.Rules {
		formatter.VerboseLog("rule #%d %s: %d of %d row(s)", r.Ordinal, r.Spec, r.Selected, run.TableRows)
	}
	if err := table.Write(formatter.Writer, run.Rows); err != nil {
		return commandError(formatter, ErrCodeWrite, "writing rows", err)
	}
	return nil
}

// outputRunList prints one line per run.
func outputRunList(w io.Writer, runs []store.RunSummary) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded")
		return
	}
	for _, r := range runs {
		fmt.Fprintf(w, "[%d] %s %s rules=%d rows=%d/%d\n",
			r.Seq, r.ID, r.Input, r.RuleCount, r.ResultRows, r.TableRows)
	}
}
