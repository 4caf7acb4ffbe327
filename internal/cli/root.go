package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/tsvselect/internal/engine"
)

// Config carries the program identity and help text into the command tree.
type Config struct {
	Name    string
	Short   string
	Help    string
	Version string
}

// DefaultConfig returns the configuration of the tsvselect binary.
func DefaultConfig() Config {
	return Config{
		Name:    "tsvselect",
		Short:   "Select TSV rows that satisfy every ranking rule",
		Version: "0.1.0",
		Help: `Usage: tsvselect data.tsv rule1 rule2 ... > intersect.tsv
Rule format:
    [min,max];#_wanted;rpn,math,rule
Example rule:
    max;50;#5,#6,/

Each rule ranks every row by its postfix expression, keeps the first
#_wanted rows (all rows when empty), and only rows kept by every rule are
printed, in the order of the first rule.

Expression tokens are separated by commas:
    #N                 value of column N (1-based); past the row end: missing
    + - * / ^          arithmetic
    = > >= < <=        comparison (1 or 0)
    & and | or         logical and/or
    ?                  1 if the operand is non-zero/non-empty, else 0
    anything else      number literal, or text when not a number`,
	}
}

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	// RunIDs allows overriding the run id generator (for testing).
	// If nil, defaults to engine.UUIDv7Generator.
	RunIDs engine.RunIDGenerator
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command. Run with a table and rules it
// performs the selection; subcommands cover rule validation and run history.
func NewRootCommand(cfg Config) *cobra.Command {
	return newRootCommand(cfg, &RootOptions{})
}

func newRootCommand(cfg Config, opts *RootOptions) *cobra.Command {
	sel := &SelectOptions{RootOptions: opts}

	cmd := &cobra.Command{
		Use:     cfg.Name + " <data.tsv> [rule...]",
		Short:   cfg.Short,
		Long:    cfg.Help,
		Version: cfg.Version,
		Args:    cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				// Nothing to do: print the help text to stderr.
				fmt.Fprintln(cmd.ErrOrStderr(), cfg.Help)
				return nil
			}
			return runSelect(sel, args[0], args[1:], cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	// Selection flags
	cmd.Flags().StringArrayVarP(&sel.RulesFiles, "rules-file", "f", nil, "YAML or CUE file with additional rules (repeatable)")
	cmd.Flags().BoolVar(&sel.Parallel, "parallel", false, "evaluate rules concurrently")
	cmd.Flags().StringVar(&sel.Database, "db", "", "record the run in this SQLite database")

	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// newLogger builds the diagnostic logger: Warn by default, Debug when verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
