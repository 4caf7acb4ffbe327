package expr

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes evaluation failures.
type ErrorCode string

const (
	// CodeUnknownToken indicates a token that is neither operator, column nor literal.
	CodeUnknownToken ErrorCode = "UNKNOWN_TOKEN"

	// CodeTypeMismatch indicates an operator applied to operands of the wrong kind.
	CodeTypeMismatch ErrorCode = "TYPE_MISMATCH"

	// CodeDivisionByZero indicates a '/' with a zero right operand.
	CodeDivisionByZero ErrorCode = "DIVISION_BY_ZERO"

	// CodeStackUnderflow indicates an operator popped from an empty stack.
	CodeStackUnderflow ErrorCode = "STACK_UNDERFLOW"

	// CodeStackDepth indicates evaluation finished with other than one value.
	CodeStackDepth ErrorCode = "STACK_DEPTH"

	// CodeNotANumber indicates a referenced field that does not parse as a number.
	CodeNotANumber ErrorCode = "NOT_A_NUMBER"
)

// EvalError is returned when an expression cannot be evaluated against a row.
type EvalError struct {
	// Code identifies the failure category.
	Code ErrorCode

	// Token is the raw token being processed, empty for end-of-expression checks.
	Token string

	// Position is the 1-based index of Token in the expression, 0 if not applicable.
	Position int

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *EvalError) Error() string {
	if e.Position > 0 {
		return fmt.Sprintf("%s: %s (token %d %q)", e.Code, e.Message, e.Position, e.Token)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// CompareError is returned when two values have no defined order.
type CompareError struct {
	Left  Value
	Right Value
}

// Error implements the error interface.
func (e *CompareError) Error() string {
	return fmt.Sprintf("cannot compare %s %q with %s %q",
		e.Left.Kind(), e.Left.String(), e.Right.Kind(), e.Right.String())
}

// IsEvalError reports whether err is an EvalError with the given code.
// Uses errors.As to handle wrapped errors.
func IsEvalError(err error, code ErrorCode) bool {
	var ee *EvalError
	if errors.As(err, &ee) {
		return ee.Code == code
	}
	return false
}

// IsCompareError reports whether err is, or wraps, a CompareError.
func IsCompareError(err error) bool {
	var ce *CompareError
	return errors.As(err, &ce)
}
