package expr

import (
	"fmt"
	"strings"

	"github.com/roach88/tsvselect/internal/table"
)

// Separator splits an expression string into tokens.
const Separator = ","

// Expression is a compiled postfix token sequence.
// Immutable after Compile; safe for concurrent Eval calls.
type Expression struct {
	source string
	tokens []Token
}

// Compile splits src on Separator and classifies each token once.
//
// Compile does not fail: malformed tokens are kept and reported by Eval
// with CodeUnknownToken. Use Validate to surface them ahead of time.
func Compile(src string) *Expression {
	raw := strings.Split(src, Separator)
	tokens := make([]Token, len(raw))
	for i, r := range raw {
		tokens[i] = classify(r)
	}
	return &Expression{source: src, tokens: tokens}
}

// String returns the source the expression was compiled from.
func (e *Expression) String() string {
	return e.source
}

// Tokens returns a copy of the compiled tokens.
func (e *Expression) Tokens() []Token {
	out := make([]Token, len(e.tokens))
	copy(out, e.tokens)
	return out
}

// Validate reports the first malformed token, or a stack shape that can
// never leave exactly one value. It does not touch any row, so failures
// that depend on field contents (types, division by zero) are not found.
func (e *Expression) Validate() error {
	depth := 0
	for i, tok := range e.tokens {
		pos := i + 1
		switch tok.Kind {
		case TokenInvalid:
			return unknownToken(tok, pos)
		case TokenBinary:
			if depth < 2 {
				return underflow(tok, pos, depth)
			}
			depth--
		case TokenUnary:
			if depth < 1 {
				return underflow(tok, pos, depth)
			}
		default:
			depth++
		}
	}
	if depth != 1 {
		return finalDepth(depth)
	}
	return nil
}

// Eval runs the expression against row and returns the single result.
func (e *Expression) Eval(row table.Row) (Value, error) {
	stack := make([]Value, 0, len(e.tokens))

	for i, tok := range e.tokens {
		pos := i + 1
		switch tok.Kind {
		case TokenBinary:
			if len(stack) < 2 {
				return nil, underflow(tok, pos, len(stack))
			}
			right := stack[len(stack)-1]
			left := stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			res, err := tok.binary(left, right)
			if err != nil {
				return nil, at(err, tok, pos)
			}
			stack = append(stack, res)

		case TokenUnary:
			if len(stack) < 1 {
				return nil, underflow(tok, pos, 0)
			}
			res, err := tok.unary(stack[len(stack)-1])
			if err != nil {
				return nil, at(err, tok, pos)
			}
			stack[len(stack)-1] = res

		case TokenColumn:
			field, ok := row.Field(tok.Column)
			if !ok {
				stack = append(stack, Missing{})
				continue
			}
			f, ok := parseNumber(field)
			if !ok {
				return nil, &EvalError{
					Code:     CodeNotANumber,
					Token:    tok.Raw,
					Position: pos,
					Message:  fmt.Sprintf("field %d is not a number: %q", tok.Column, field),
				}
			}
			stack = append(stack, Number(f))

		case TokenNumber, TokenText:
			stack = append(stack, tok.Literal)

		default:
			return nil, unknownToken(tok, pos)
		}
	}

	if len(stack) != 1 {
		return nil, finalDepth(len(stack))
	}
	return stack[0], nil
}

func at(err *EvalError, tok Token, pos int) *EvalError {
	err.Token = tok.Raw
	err.Position = pos
	return err
}

func unknownToken(tok Token, pos int) *EvalError {
	return &EvalError{
		Code:     CodeUnknownToken,
		Token:    tok.Raw,
		Position: pos,
		Message:  tok.reason,
	}
}

func underflow(tok Token, pos, depth int) *EvalError {
	return &EvalError{
		Code:     CodeStackUnderflow,
		Token:    tok.Raw,
		Position: pos,
		Message:  fmt.Sprintf("operator needs more operands than the %d on the stack", depth),
	}
}

func finalDepth(depth int) *EvalError {
	return &EvalError{
		Code:    CodeStackDepth,
		Message: fmt.Sprintf("expression left %d values on the stack, want 1", depth),
	}
}
