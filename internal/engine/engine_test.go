package engine

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tsvselect/internal/expr"
	"github.com/roach88/tsvselect/internal/rule"
	"github.com/roach88/tsvselect/internal/table"
	"github.com/roach88/tsvselect/internal/testutil"
)

var stocks = testutil.Stocks()

func newTestEngine(opts ...Option) *Engine {
	base := []Option{
		WithLogger(testutil.DiscardLogger()),
		WithRunIDGenerator(NewFixedGenerator("run-1", "run-2", "run-3")),
	}
	return New(append(base, opts...)...)
}

func TestRun_SingleRule(t *testing.T) {
	eng := newTestEngine()

	res, err := eng.Run(context.Background(), stocks, []string{"max;2;#4"})
	require.NoError(t, err)

	assert.Equal(t, "run-1", res.RunID)
	assert.Equal(t, 5, res.TableSize)
	require.Len(t, res.Rules, 1)
	assert.Equal(t, 1, res.Rules[0].Ordinal)
	// Ties on score 9 keep table order.
	assert.Equal(t, []table.Row{stocks[1], stocks[3]}, res.Rows)
}

func TestRun_Intersection(t *testing.T) {
	eng := newTestEngine()

	res, err := eng.Run(context.Background(), stocks, []string{
		"max;3;#3",     // ccc, eee, aaa
		"min;4;#2",     // ccc, aaa, eee, bbb
		"max;4;#4,4,>", // aaa, bbb, ddd, eee
	})
	require.NoError(t, err)

	require.Len(t, res.Rules, 3)
	assert.Equal(t, table.Selection{stocks[2], stocks[4], stocks[0]}, res.Rules[0].Selection)
	assert.Equal(t, []table.Row{stocks[4], stocks[0]}, res.Rows)
}

func TestRun_OrderFollowsFirstRule(t *testing.T) {
	eng := newTestEngine()

	res, err := eng.Run(context.Background(), stocks, []string{"min;;#2", "max;;#2"})
	require.NoError(t, err)

	assert.Equal(t, []table.Row{stocks[2], stocks[0], stocks[4], stocks[1], stocks[3]}, res.Rows)
}

func TestRun_NoRules(t *testing.T) {
	_, err := newTestEngine().Run(context.Background(), stocks, nil)
	require.ErrorIs(t, err, ErrNoRules)
}

func TestRun_ParseErrorOrdinal(t *testing.T) {
	_, err := newTestEngine().Run(context.Background(), stocks, []string{
		"max;;#2",
		"avg;;#1",
	})
	require.Error(t, err)

	var re *RuleError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, 2, re.Ordinal)
	assert.Equal(t, StageParse, re.Stage)
	assert.True(t, rule.IsSyntaxError(err))
	assert.Equal(t, 2, Ordinal(err))
}

func TestRun_EvalErrorBeforeLaterSyntaxError(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		eng := newTestEngine(WithParallel(parallel))

		// Rule 1 fails on evaluation; rule 2 would fail to parse.
		_, err := eng.Run(context.Background(), table.Table{{"10", "0"}}, []string{
			"min;;#1,#2,/",
			"avg;;#1",
		})
		require.Error(t, err)

		var re *RuleError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, 1, re.Ordinal, "parallel=%v", parallel)
		assert.Equal(t, StageApply, re.Stage)
		assert.True(t, expr.IsEvalError(err, expr.CodeDivisionByZero))
	}
}

func TestRun_SyntaxErrorBeforeLaterEvalError(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		eng := newTestEngine(WithParallel(parallel))

		_, err := eng.Run(context.Background(), stocks, []string{
			"min;;#2",
			"min;x;#2",
			"max;;#2,0,/",
		})
		require.Error(t, err)
		assert.Equal(t, 2, Ordinal(err), "parallel=%v", parallel)
		assert.True(t, rule.IsSyntaxError(err))
	}
}

func TestRun_ApplyErrorOrdinal(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		eng := newTestEngine(WithParallel(parallel))

		_, err := eng.Run(context.Background(), stocks, []string{
			"min;;#2",
			"max;;#2,0,/",
			"max;;#1",
		})
		require.Error(t, err)

		var re *RuleError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, 2, re.Ordinal, "parallel=%v", parallel)
		assert.Equal(t, StageApply, re.Stage)
		assert.True(t, expr.IsEvalError(err, expr.CodeDivisionByZero))
		assert.Contains(t, err.Error(), "rule #2")
	}
}

func TestRun_ParallelMatchesSequential(t *testing.T) {
	specs := []string{"max;4;#3", "min;;#2,#3,*", "max;;#4"}

	seq, err := newTestEngine().Run(context.Background(), stocks, specs)
	require.NoError(t, err)

	par, err := newTestEngine(WithParallel(true)).Run(context.Background(), stocks, specs)
	require.NoError(t, err)

	assert.Equal(t, seq.Rows, par.Rows)
	for i := range seq.Rules {
		assert.Equal(t, seq.Rules[i].Selection, par.Rules[i].Selection)
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestEngine().Run(ctx, stocks, []string{"max;;#2"})
	require.ErrorIs(t, err, context.Canceled)

	_, err = newTestEngine(WithParallel(true)).Run(ctx, stocks, []string{"max;;#2"})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRun_EmptyTable(t *testing.T) {
	res, err := newTestEngine().Run(context.Background(), nil, []string{"max;3;#1,#0,+"})
	require.NoError(t, err)
	assert.Empty(t, res.Rows)
}

func TestRun_Logs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	eng := New(WithLogger(logger), WithRunIDGenerator(NewFixedGenerator("run-x")))

	_, err := eng.Run(context.Background(), stocks, []string{"max;1;#2"})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "rule applied")
	assert.Contains(t, out, "run complete")
	assert.Contains(t, out, "run_id=run-x")
}

func TestRuleError_Error(t *testing.T) {
	err := &RuleError{Ordinal: 4, Spec: "avg;;#1", Stage: StageParse, Err: assert.AnError}
	assert.Equal(t, "rule #4 (avg;;#1): "+assert.AnError.Error(), err.Error())
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 0, Ordinal(assert.AnError))
}
