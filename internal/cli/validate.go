package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tsvselect/internal/rule"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid bool        `json:"valid"`
	Rules []RuleCheck `json:"rules"`
}

// RuleCheck is the validation outcome of one rule.
type RuleCheck struct {
	Ordinal   int    `json:"ordinal"`
	Spec      string `json:"spec"`
	Canonical string `json:"canonical,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	RulesFiles []string
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate [rule...]",
		Short: "Check rules without reading a table",
		Long: `Check rule specifications without reading a table.

Each rule is parsed and its expression is checked for unknown tokens and
for operators that would run out of operands. Rules are numbered in the
same order the selection command would apply them.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args, cmd)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.RulesFiles, "rules-file", "f", nil, "YAML or CUE file with additional rules (repeatable)")

	return cmd
}

func runValidate(opts *ValidateOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	specs, err := collectSpecs(args, opts.RulesFiles)
	if err != nil {
		return commandError(formatter, ErrCodeRuleFile, "loading rule file", err)
	}
	if len(specs) == 0 {
		return commandError(formatter, ErrCodeNoRules, "at least one rule is required", nil)
	}

	result := ValidationResult{Valid: true, Rules: make([]RuleCheck, len(specs))}
	for i, spec := range specs {
		check := checkRule(i+1, spec)
		if check.Error != "" {
			result.Valid = false
		}
		result.Rules[i] = check
		formatter.VerboseLog("Checked rule #%d: %s", check.Ordinal, spec)
	}

	if formatter.Format == "json" {
		if result.Valid {
			_ = formatter.Success(result)
			return nil
		}
		_ = formatter.Error(ErrCodeSyntax, "invalid rules", result)
		return NewExitError(ExitFailure, "validation failed")
	}

	w := formatter.Writer
	for _, c := range result.Rules {
		if c.Error != "" {
			fmt.Fprintf(w, "✗ rule #%d: %s\n", c.Ordinal, c.Error)
			continue
		}
		fmt.Fprintf(w, "✓ rule #%d: %s\n", c.Ordinal, c.Canonical)
	}
	if !result.Valid {
		return NewExitError(ExitFailure, "validation failed")
	}
	return nil
}

// checkRule parses spec and statically checks its expression.
func checkRule(ordinal int, spec string) RuleCheck {
	c := RuleCheck{Ordinal: ordinal, Spec: spec}
	r, err := rule.Parse(spec)
	if err != nil {
		c.Error = err.Error()
		return c
	}
	if err := r.Expr.Validate(); err != nil {
		c.Error = err.Error()
		return c
	}
	c.Canonical = r.String()
	return c
}
