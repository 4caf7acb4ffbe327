package engine

import (
	"errors"
	"fmt"
)

// ErrNoRules is returned by Run when no rule specification is supplied.
var ErrNoRules = errors.New("at least one rule is required")

// Stage identifies where a rule failed.
type Stage string

const (
	// StageParse indicates the rule specification could not be parsed.
	StageParse Stage = "parse"

	// StageApply indicates evaluating or ordering the rows failed.
	StageApply Stage = "apply"
)

// RuleError attributes a failure to one rule.
type RuleError struct {
	// Ordinal is the 1-based position of the rule among all supplied rules.
	Ordinal int

	// Spec is the rule specification as supplied.
	Spec string

	Stage Stage

	Err error
}

// Error implements the error interface.
func (e *RuleError) Error() string {
	return fmt.Sprintf("rule #%d (%s): %v", e.Ordinal, e.Spec, e.Err)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}

// Ordinal returns the ordinal of the failing rule, or 0 if err does not
// wrap a RuleError. Uses errors.As to handle wrapped errors.
func Ordinal(err error) int {
	var re *RuleError
	if errors.As(err, &re) {
		return re.Ordinal
	}
	return 0
}
