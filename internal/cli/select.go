package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tsvselect/internal/engine"
	"github.com/roach88/tsvselect/internal/expr"
	"github.com/roach88/tsvselect/internal/rule"
	"github.com/roach88/tsvselect/internal/rulefile"
	"github.com/roach88/tsvselect/internal/store"
	"github.com/roach88/tsvselect/internal/table"
)

// SelectOptions holds flags for the selection (root) command.
type SelectOptions struct {
	*RootOptions
	RulesFiles []string
	Parallel   bool
	Database   string
}

// SelectResult is the JSON payload of a successful selection.
type SelectResult struct {
	RunID     string        `json:"run_id"`
	TableRows int           `json:"table_rows"`
	Rules     []RuleSummary `json:"rules"`
	Rows      [][]string    `json:"rows"`
}

// RuleSummary describes one applied rule.
type RuleSummary struct {
	Ordinal  int    `json:"ordinal"`
	Spec     string `json:"spec"`
	Selected int    `json:"selected"`
}

// RuleFailure is the JSON error detail of a failed rule.
type RuleFailure struct {
	Ordinal int    `json:"ordinal"`
	Spec    string `json:"spec"`
	Stage   string `json:"stage"`
}

func runSelect(opts *SelectOptions, input string, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose)

	specs, err := collectSpecs(args, opts.RulesFiles)
	if err != nil {
		return commandError(formatter, ErrCodeRuleFile, "loading rule file", err)
	}
	if len(specs) == 0 {
		return commandError(formatter, ErrCodeNoRules, "at least one rule is required", nil)
	}

	t, err := table.LoadFile(input)
	if err != nil {
		return commandError(formatter, ErrCodeInput, "loading table", err)
	}
	formatter.VerboseLog("Loaded %d row(s) from %s, %d rule(s)", len(t), input, len(specs))

	engineOpts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithParallel(opts.Parallel),
	}
	if opts.RunIDs != nil {
		engineOpts = append(engineOpts, engine.WithRunIDGenerator(opts.RunIDs))
	}
	eng := engine.New(engineOpts...)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	res, err := eng.Run(ctx, t, specs)
	if err != nil {
		return outputRuleError(formatter, err)
	}

	if opts.Database != "" {
		if err := recordRun(ctx, opts.Database, input, res); err != nil {
			return commandError(formatter, ErrCodeStore, "recording run", err)
		}
		logger.Info("run recorded", "run_id", res.RunID, "db", opts.Database)
	}

	if err := outputSelection(formatter, res); err != nil {
		return commandError(formatter, ErrCodeWrite, "writing rows", err)
	}
	return nil
}

// collectSpecs returns positional rules followed by rules from files, in order.
func collectSpecs(args, files []string) ([]string, error) {
	specs := append([]string(nil), args...)
	fromFiles, err := rulefile.LoadAll(files)
	if err != nil {
		return nil, err
	}
	return append(specs, fromFiles...), nil
}

func recordRun(ctx context.Context, path, input string, res *engine.Result) error {
	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer st.Close()

	run := store.Run{
		ID:        res.RunID,
		Input:     input,
		TableRows: res.TableSize,
		Rows:      res.Rows,
	}
	for _, r := range res.Rules {
		run.Rules = append(run.Rules, store.RunRule{
			Ordinal:  r.Ordinal,
			Spec:     r.Spec,
			Selected: len(r.Selection),
		})
	}
	_, err = st.WriteRun(ctx, run)
	return err
}

func outputSelection(formatter *OutputFormatter, res *engine.Result) error {
	if formatter.Format != "json" {
		return table.Write(formatter.Writer, res.Rows)
	}

	out := SelectResult{
		RunID:     res.RunID,
		TableRows: res.TableSize,
		Rows:      make([][]string, len(res.Rows)),
	}
	for i, row := range res.Rows {
		out.Rows[i] = []string(row)
	}
	for _, r := range res.Rules {
		out.Rules = append(out.Rules, RuleSummary{
			Ordinal:  r.Ordinal,
			Spec:     r.Spec,
			Selected: len(r.Selection),
		})
	}
	return formatter.Success(out)
}

// outputRuleError reports an engine failure. Rule failures are printed as
//
//	On rule #N:
//	<cause>
//
// in text mode and exit with ExitFailure.
func outputRuleError(formatter *OutputFormatter, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return commandError(formatter, ErrCodeCancelled, "run cancelled", err)
	}
	if errors.Is(err, engine.ErrNoRules) {
		return commandError(formatter, ErrCodeNoRules, "at least one rule is required", nil)
	}

	var re *engine.RuleError
	if !errors.As(err, &re) {
		return commandError(formatter, ErrCodeGeneric, "selection failed", err)
	}

	code := ruleErrorCode(re.Err)
	if formatter.Format == "json" {
		_ = formatter.Error(code, re.Err.Error(), RuleFailure{
			Ordinal: re.Ordinal,
			Spec:    re.Spec,
			Stage:   string(re.Stage),
		})
	} else {
		w := formatter.GetErrWriter()
		fmt.Fprintf(w, "On rule #%d:\n", re.Ordinal)
		fmt.Fprintf(w, "%v\n", re.Err)
	}
	return WrapExitError(ExitFailure, fmt.Sprintf("%s: rule #%d", code, re.Ordinal), err)
}

func ruleErrorCode(err error) string {
	switch {
	case rule.IsSyntaxError(err):
		return ErrCodeSyntax
	case expr.IsCompareError(err):
		return ErrCodeCompare
	case rule.IsEvalError(err):
		return ErrCodeEval
	default:
		return ErrCodeGeneric
	}
}
