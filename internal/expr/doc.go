// Package expr compiles and evaluates postfix (RPN) scoring expressions.
//
// An expression is a comma-separated token sequence such as "#5,#6,/".
// Compile classifies every token once into a closed set of variants
// (binary operator, unary operator, column reference, number literal, text
// literal). Eval then runs a stack machine over those tokens for one row.
//
// Compiled expressions are immutable; Eval allocates its own stack so a
// single Expression may be evaluated from many goroutines at once.
//
// Tokens that look like neither an operator, a column reference nor a
// literal (for example "#0" or an empty token) are not rejected by Compile.
// They fail at evaluation time with CodeUnknownToken, so a rule over an
// empty table never reports them.
//
// Value ordering:
//   - Missing sorts before every Number and every Text
//   - Numbers compare numerically (NaN lowest)
//   - Texts compare byte-wise after NFC normalization
//   - Number vs Text cannot be ordered and yields a CompareError
package expr
