package expr

import (
	"fmt"
	"math"
)

type binaryFunc func(left, right Value) (Value, *EvalError)

type unaryFunc func(v Value) (Value, *EvalError)

// binaryOps maps operator symbols to implementations.
var binaryOps = map[string]binaryFunc{
	"+":   arith(func(l, r float64) (float64, *EvalError) { return l + r, nil }),
	"-":   arith(func(l, r float64) (float64, *EvalError) { return l - r, nil }),
	"*":   arith(func(l, r float64) (float64, *EvalError) { return l * r, nil }),
	"/":   arith(divide),
	"^":   arith(func(l, r float64) (float64, *EvalError) { return math.Pow(l, r), nil }),
	"=":   equals,
	">":   order(func(l, r float64) bool { return l > r }),
	">=":  order(func(l, r float64) bool { return l >= r }),
	"<":   order(func(l, r float64) bool { return l < r }),
	"<=":  order(func(l, r float64) bool { return l <= r }),
	"&":   and,
	"and": and,
	"|":   or,
	"or":  or,
}

// unaryOps maps unary operator symbols to implementations.
var unaryOps = map[string]unaryFunc{
	"?": exists,
}

func numbers(left, right Value) (float64, float64, *EvalError) {
	l, lok := left.(Number)
	r, rok := right.(Number)
	if !lok || !rok {
		return 0, 0, &EvalError{
			Code:    CodeTypeMismatch,
			Message: fmt.Sprintf("numeric operands required, got %s and %s", left.Kind(), right.Kind()),
		}
	}
	return float64(l), float64(r), nil
}

func arith(fn func(l, r float64) (float64, *EvalError)) binaryFunc {
	return func(left, right Value) (Value, *EvalError) {
		l, r, err := numbers(left, right)
		if err != nil {
			return nil, err
		}
		res, err := fn(l, r)
		if err != nil {
			return nil, err
		}
		return Number(res), nil
	}
}

func divide(l, r float64) (float64, *EvalError) {
	if r == 0 {
		return 0, &EvalError{Code: CodeDivisionByZero, Message: "division by zero"}
	}
	return l / r, nil
}

func order(fn func(l, r float64) bool) binaryFunc {
	return func(left, right Value) (Value, *EvalError) {
		l, r, err := numbers(left, right)
		if err != nil {
			return nil, err
		}
		return boolNumber(fn(l, r)), nil
	}
}

func equals(left, right Value) (Value, *EvalError) {
	return boolNumber(Equal(left, right)), nil
}

// and returns left when it is falsy, otherwise right.
func and(left, right Value) (Value, *EvalError) {
	if !Truthy(left) {
		return left, nil
	}
	return right, nil
}

// or returns left when it is truthy, otherwise right.
func or(left, right Value) (Value, *EvalError) {
	if Truthy(left) {
		return left, nil
	}
	return right, nil
}

func exists(v Value) (Value, *EvalError) {
	return boolNumber(Truthy(v)), nil
}

func boolNumber(b bool) Number {
	if b {
		return 1
	}
	return 0
}
