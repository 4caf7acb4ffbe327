package engine

import (
	"context"
	"log/slog"
	"sync"

	"github.com/roach88/tsvselect/internal/intersect"
	"github.com/roach88/tsvselect/internal/rule"
	"github.com/roach88/tsvselect/internal/table"
)

// Engine applies rules to a table and intersects the selections.
// An Engine holds no per-run state and may be reused.
type Engine struct {
	logger   *slog.Logger
	parallel bool
	ids      RunIDGenerator
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithParallel evaluates rules concurrently when enabled.
func WithParallel(enabled bool) Option {
	return func(e *Engine) {
		e.parallel = enabled
	}
}

// WithRunIDGenerator overrides the run id generator. Defaults to UUIDv7Generator.
func WithRunIDGenerator(g RunIDGenerator) Option {
	return func(e *Engine) {
		e.ids = g
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		logger: slog.Default(),
		ids:    UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RuleResult is the outcome of one rule.
type RuleResult struct {
	// Ordinal is the 1-based position of the rule.
	Ordinal int

	Spec      string
	Rule      *rule.Rule
	Selection table.Selection
}

// Result is the outcome of a run.
type Result struct {
	RunID string

	// TableSize is the number of input rows.
	TableSize int

	// Rules holds one entry per rule in declaration order.
	Rules []RuleResult

	// Rows is the intersection of all selections, in the first rule's order.
	Rows []table.Row
}

// Run applies each rule to t in ordinal order and intersects the
// selections. A rule is parsed just before it is applied, so the first
// failing rule (by ordinal) aborts the run whether it fails to parse or to
// evaluate; no partial result is returned.
func (e *Engine) Run(ctx context.Context, t table.Table, specs []string) (*Result, error) {
	if len(specs) == 0 {
		return nil, ErrNoRules
	}

	results := make([]RuleResult, len(specs))
	for i, spec := range specs {
		results[i] = RuleResult{Ordinal: i + 1, Spec: spec}
	}

	var err error
	if e.parallel {
		err = e.applyParallel(ctx, t, results)
	} else {
		err = e.applySequential(ctx, t, results)
	}
	if err != nil {
		return nil, err
	}

	selections := make([]table.Selection, len(results))
	for i, res := range results {
		selections[i] = res.Selection
	}

	out := &Result{
		RunID:     e.ids.Generate(),
		TableSize: len(t),
		Rules:     results,
		Rows:      intersect.Intersect(selections...),
	}
	e.logger.Info("run complete",
		"run_id", out.RunID,
		"rows", len(t),
		"rules", len(results),
		"selected", len(out.Rows),
		"parallel", e.parallel,
	)
	return out, nil
}

func (e *Engine) applySequential(ctx context.Context, t table.Table, results []RuleResult) error {
	for i := range results {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.apply(t, &results[i]); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) applyParallel(ctx context.Context, t table.Table, results []RuleResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	errs := make([]error, len(results))
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = e.apply(t, &results[i])
		}(i)
	}
	wg.Wait()

	// Lowest ordinal wins.
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return ctx.Err()
}

func (e *Engine) apply(t table.Table, res *RuleResult) error {
	r, err := rule.Parse(res.Spec)
	if err != nil {
		e.logger.Debug("rule rejected", "rule", res.Ordinal, "spec", res.Spec, "error", err)
		return &RuleError{Ordinal: res.Ordinal, Spec: res.Spec, Stage: StageParse, Err: err}
	}
	res.Rule = r

	sel, err := r.Apply(t)
	if err != nil {
		e.logger.Debug("rule failed", "rule", res.Ordinal, "spec", res.Spec, "error", err)
		return &RuleError{Ordinal: res.Ordinal, Spec: res.Spec, Stage: StageApply, Err: err}
	}
	res.Selection = sel
	e.logger.Debug("rule applied",
		"rule", res.Ordinal,
		"direction", r.Direction.String(),
		"limit", r.Limit,
		"selected", len(sel),
	)
	return nil
}
