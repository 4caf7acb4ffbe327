package rule

import (
	"errors"
	"fmt"

	"github.com/roach88/tsvselect/internal/expr"
)

// SyntaxError is returned when a rule specification cannot be parsed.
// It is raised before any row is touched.
type SyntaxError struct {
	// Field names the offending part: "spec", "direction" or "limit".
	Field string

	// Value is the offending text.
	Value string

	Message string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Message)
}

// RowError wraps an evaluation failure with the 1-based position of the row
// in the input table.
type RowError struct {
	Row int
	Err error
}

// Error implements the error interface.
func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// IsSyntaxError reports whether err is, or wraps, a SyntaxError.
func IsSyntaxError(err error) bool {
	var se *SyntaxError
	return errors.As(err, &se)
}

// IsEvalError reports whether err is, or wraps, an expression evaluation error.
func IsEvalError(err error) bool {
	var ee *expr.EvalError
	return errors.As(err, &ee)
}
