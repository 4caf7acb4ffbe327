package expr

import (
	"strconv"
)

// TokenKind discriminates compiled tokens.
type TokenKind uint8

const (
	TokenInvalid TokenKind = iota
	TokenBinary
	TokenUnary
	TokenColumn
	TokenNumber
	TokenText
)

func (k TokenKind) String() string {
	switch k {
	case TokenBinary:
		return "binary"
	case TokenUnary:
		return "unary"
	case TokenColumn:
		return "column"
	case TokenNumber:
		return "number"
	case TokenText:
		return "text"
	default:
		return "invalid"
	}
}

// Token is one classified postfix unit.
// Only the fields relevant to Kind are set.
type Token struct {
	Kind TokenKind
	Raw  string

	// Column is the 1-based column index for TokenColumn.
	Column int

	// Literal holds the pushed value for TokenNumber and TokenText.
	Literal Value

	binary binaryFunc
	unary  unaryFunc

	// reason explains why a TokenInvalid token is malformed.
	reason string
}

// classify turns a raw token into a Token. It never fails; malformed
// tokens become TokenInvalid and are reported when evaluated.
func classify(raw string) Token {
	if fn, ok := binaryOps[raw]; ok {
		return Token{Kind: TokenBinary, Raw: raw, binary: fn}
	}
	if fn, ok := unaryOps[raw]; ok {
		return Token{Kind: TokenUnary, Raw: raw, unary: fn}
	}
	if raw == "" {
		return Token{Kind: TokenInvalid, Raw: raw, reason: "empty token"}
	}
	if raw[0] == '#' {
		n, ok := parseColumn(raw[1:])
		if !ok {
			return Token{Kind: TokenInvalid, Raw: raw, reason: "column reference must be '#' followed by a positive integer"}
		}
		return Token{Kind: TokenColumn, Raw: raw, Column: n}
	}
	if f, ok := parseNumber(raw); ok {
		return Token{Kind: TokenNumber, Raw: raw, Literal: Number(f)}
	}
	return Token{Kind: TokenText, Raw: raw, Literal: Text(raw)}
}

func parseColumn(digits string) (int, bool) {
	if digits == "" {
		return 0, false
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
