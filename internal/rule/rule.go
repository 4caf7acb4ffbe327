package rule

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/roach88/tsvselect/internal/expr"
	"github.com/roach88/tsvselect/internal/table"
)

// Separator splits a rule specification into its three parts.
const Separator = ";"

// Unbounded is the Limit of a rule that keeps every row.
const Unbounded = -1

// Direction is the ranking order of a rule.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "max"
	}
	return "min"
}

// Rule is a parsed (direction, limit, expression) triple.
// Immutable after Parse.
type Rule struct {
	Direction Direction

	// Limit is the maximum number of rows kept, or Unbounded.
	Limit int

	Expr *expr.Expression
}

// Parse parses a rule specification such as "max;50;#5,#6,/".
func Parse(spec string) (*Rule, error) {
	parts := strings.Split(spec, Separator)
	if len(parts) != 3 {
		return nil, &SyntaxError{
			Field:   "spec",
			Value:   spec,
			Message: fmt.Sprintf("want 3 %q-separated parts, got %d", Separator, len(parts)),
		}
	}

	r := &Rule{}

	// "min" wins when both appear.
	switch {
	case strings.Contains(parts[0], "min"):
		r.Direction = Ascending
	case strings.Contains(parts[0], "max"):
		r.Direction = Descending
	default:
		return nil, &SyntaxError{
			Field:   "direction",
			Value:   parts[0],
			Message: `must contain "min" or "max"`,
		}
	}

	limit, err := parseLimit(parts[1])
	if err != nil {
		return nil, err
	}
	r.Limit = limit

	r.Expr = expr.Compile(parts[2])
	return r, nil
}

func parseLimit(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Unbounded, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &SyntaxError{Field: "limit", Value: s, Message: "not an integer"}
	}
	if n < 0 {
		return 0, &SyntaxError{Field: "limit", Value: s, Message: "must not be negative"}
	}
	return n, nil
}

// String renders the rule in specification form.
func (r *Rule) String() string {
	limit := ""
	if r.Limit != Unbounded {
		limit = strconv.Itoa(r.Limit)
	}
	return strings.Join([]string{r.Direction.String(), limit, r.Expr.String()}, Separator)
}

// Apply scores every row of t, sorts stably in the rule's direction and
// returns the first Limit rows. Rows with equal scores keep their table order.
func (r *Rule) Apply(t table.Table) (table.Selection, error) {
	keys, err := r.Scores(t)
	if err != nil {
		return nil, err
	}
	if err := checkComparable(keys); err != nil {
		return nil, err
	}

	order := make([]int, len(t))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		// checkComparable guarantees no error here.
		c, _ := expr.Compare(keys[a], keys[b])
		if r.Direction == Descending {
			return -c
		}
		return c
	})

	n := len(order)
	if r.Limit != Unbounded && r.Limit < n {
		n = r.Limit
	}

	sel := make(table.Selection, n)
	for i := 0; i < n; i++ {
		sel[i] = t[order[i]]
	}
	return sel, nil
}

// Scores evaluates the rule's expression for every row, in table order.
func (r *Rule) Scores(t table.Table) ([]expr.Value, error) {
	keys := make([]expr.Value, len(t))
	for i, row := range t {
		v, err := r.Expr.Eval(row)
		if err != nil {
			return nil, &RowError{Row: i + 1, Err: err}
		}
		keys[i] = v
	}
	return keys, nil
}

// checkComparable fails when the scores mix numbers and texts.
func checkComparable(keys []expr.Value) error {
	var first expr.Value
	for _, k := range keys {
		if k.Kind() == expr.KindMissing {
			continue
		}
		if first == nil {
			first = k
			continue
		}
		if !expr.Comparable(first.Kind(), k.Kind()) {
			return &expr.CompareError{Left: first, Right: k}
		}
	}
	return nil
}
