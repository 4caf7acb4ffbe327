package expr

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Value is a sealed interface for evaluator data.
// Only Number, Text and Missing implement it.
type Value interface {
	Kind() Kind
	String() string
	value() // Sealed
}

// Kind discriminates Value variants.
type Kind uint8

const (
	KindMissing Kind = iota
	KindNumber
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Number is a floating point value.
type Number float64

func (Number) value() {}

// Kind implements Value.
func (Number) Kind() Kind { return KindNumber }

func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'g', -1, 64)
}

// Text is a raw string value, produced by literals that do not parse as numbers.
type Text string

func (Text) value() {}

// Kind implements Value.
func (Text) Kind() Kind { return KindText }

func (t Text) String() string { return string(t) }

// Missing marks a column reference past the end of a row.
type Missing struct{}

func (Missing) value() {}

// Kind implements Value.
func (Missing) Kind() Kind { return KindMissing }

func (Missing) String() string { return "<missing>" }

// Truthy reports the truth value used by the logical operators.
// Numbers are true when non-zero and not NaN, texts when non-empty,
// and Missing is always false.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case Number:
		f := float64(val)
		return f != 0 && !math.IsNaN(f)
	case Text:
		return val != ""
	default:
		return false
	}
}

// Compare orders two values. It returns a negative number when a sorts
// before b, zero when they are equal and a positive number otherwise.
// Comparing a Number with a Text returns a *CompareError.
func Compare(a, b Value) (int, error) {
	ak, bk := a.Kind(), b.Kind()

	if ak == KindMissing || bk == KindMissing {
		// Missing sorts first, ties with itself.
		return cmp.Compare(rank(ak), rank(bk)), nil
	}

	switch {
	case ak == KindNumber && bk == KindNumber:
		return cmp.Compare(float64(a.(Number)), float64(b.(Number))), nil
	case ak == KindText && bk == KindText:
		return strings.Compare(normalize(a.(Text)), normalize(b.(Text))), nil
	default:
		return 0, &CompareError{Left: a, Right: b}
	}
}

// Comparable reports whether values of the two kinds can be ordered.
func Comparable(a, b Kind) bool {
	return !(a == KindNumber && b == KindText || a == KindText && b == KindNumber)
}

// Equal reports whether a and b are the same kind and compare equal.
func Equal(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	c, err := Compare(a, b)
	return err == nil && c == 0
}

func rank(k Kind) int {
	if k == KindMissing {
		return 0
	}
	return 1
}

func normalize(t Text) string {
	return norm.NFC.String(string(t))
}

// parseNumber parses s as a float. Surrounding spaces are ignored and
// out-of-range magnitudes become infinities.
func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return f, true
		}
		return 0, false
	}
	return f, true
}
