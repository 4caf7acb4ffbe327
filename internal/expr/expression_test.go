package expr

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tsvselect/internal/table"
)

func TestEval(t *testing.T) {
	tests := []struct {
		name string
		expr string
		row  table.Row
		want Value
	}{
		{"add columns", "#1,#2,+", table.Row{"3", "4"}, Number(7)},
		{"subtract order", "#1,#2,-", table.Row{"10", "4"}, Number(6)},
		{"divide order", "#1,#2,/", table.Row{"10", "4"}, Number(2.5)},
		{"power", "2,10,^", nil, Number(1024)},
		{"multiply literal", "#1,1.5,*", table.Row{"4"}, Number(6)},
		{"negative literal", "-3,#1,+", table.Row{"5"}, Number(2)},
		{"field with spaces", "#1", table.Row{" 42 "}, Number(42)},
		{"missing column", "#5", table.Row{"1", "2", "3"}, Missing{}},
		{"text literal", "abc", nil, Text("abc")},
		{"equal numbers", "#1,3,=", table.Row{"3.0"}, Number(1)},
		{"equal texts", "abc,abc,=", nil, Number(1)},
		{"equal mixed kinds", "1,abc,=", nil, Number(0)},
		{"missing equals missing", "#9,#8,=", table.Row{"1"}, Number(1)},
		{"greater", "#1,#2,>", table.Row{"5", "3"}, Number(1)},
		{"greater equal", "#1,#2,>=", table.Row{"3", "3"}, Number(1)},
		{"less", "#1,#2,<", table.Row{"5", "3"}, Number(0)},
		{"less equal", "#1,#2,<=", table.Row{"3", "3"}, Number(1)},
		{"and truthy returns right", "2,3,&", nil, Number(3)},
		{"and falsy returns left", "0,3,and", nil, Number(0)},
		{"or truthy returns left", "2,3,|", nil, Number(2)},
		{"or falsy returns right", "0,x,or", nil, Text("x")},
		{"exists number", "#1,?", table.Row{"7"}, Number(1)},
		{"exists zero", "#1,?", table.Row{"0"}, Number(0)},
		{"exists missing", "#4,?", table.Row{"7"}, Number(0)},
		{"exists text", "x,?", nil, Number(1)},
		{"sparse column fallback", "#3,?,#3,0,|,*", table.Row{"1"}, Number(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compile(tt.expr).Eval(tt.row)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvalErrors(t *testing.T) {
	tests := []struct {
		name string
		expr string
		row  table.Row
		code ErrorCode
	}{
		{"division by zero", "#1,#2,/", table.Row{"10", "0"}, CodeDivisionByZero},
		{"text operand", "abc,1,+", nil, CodeTypeMismatch},
		{"missing operand", "#4,1,+", table.Row{"1"}, CodeTypeMismatch},
		{"ordering text", "a,b,<", nil, CodeTypeMismatch},
		{"field not numeric", "#1", table.Row{"abc"}, CodeNotANumber},
		{"underflow binary", "1,+", nil, CodeStackUnderflow},
		{"underflow unary", "?", nil, CodeStackUnderflow},
		{"leftover values", "1,2", nil, CodeStackDepth},
		{"column zero", "#0", table.Row{"1"}, CodeUnknownToken},
		{"column not integer", "#x", table.Row{"1"}, CodeUnknownToken},
		{"bare hash", "#", table.Row{"1"}, CodeUnknownToken},
		{"empty token", "1,,+", nil, CodeUnknownToken},
		{"empty expression", "", nil, CodeUnknownToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.expr).Eval(tt.row)
			require.Error(t, err)
			assert.True(t, IsEvalError(err, tt.code), "got %v, want %s", err, tt.code)
		})
	}
}

func TestEvalErrorPosition(t *testing.T) {
	_, err := Compile("#1,#2,/").Eval(table.Row{"1", "0"})
	require.Error(t, err)

	var ee *EvalError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "/", ee.Token)
	assert.Equal(t, 3, ee.Position)
	assert.Contains(t, err.Error(), "DIVISION_BY_ZERO")
}

func TestCompileClassifiesOnce(t *testing.T) {
	e := Compile("#2,3.5,name,+,?")
	toks := e.Tokens()
	require.Len(t, toks, 5)

	assert.Equal(t, TokenColumn, toks[0].Kind)
	assert.Equal(t, 2, toks[0].Column)
	assert.Equal(t, TokenNumber, toks[1].Kind)
	assert.Equal(t, Number(3.5), toks[1].Literal)
	assert.Equal(t, TokenText, toks[2].Kind)
	assert.Equal(t, TokenBinary, toks[3].Kind)
	assert.Equal(t, TokenUnary, toks[4].Kind)
	assert.Equal(t, "#2,3.5,name,+,?", e.String())
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Compile("#1,#2,+").Validate())
	assert.NoError(t, Compile("#1,?").Validate())

	assert.True(t, IsEvalError(Compile("#1,#0,+").Validate(), CodeUnknownToken))
	assert.True(t, IsEvalError(Compile("+").Validate(), CodeStackUnderflow))
	assert.True(t, IsEvalError(Compile("1,2").Validate(), CodeStackDepth))

	// Depends on field contents, so only Eval can tell.
	assert.NoError(t, Compile("#1,0,/").Validate())
}

func TestEvalConcurrent(t *testing.T) {
	e := Compile("#1,#2,*")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				v, err := e.Eval(table.Row{"6", "7"})
				assert.NoError(t, err)
				assert.Equal(t, Number(42), v)
			}
		}()
	}
	wg.Wait()
}

func TestEvalInfinityLiteral(t *testing.T) {
	v, err := Compile("1e999").Eval(nil)
	require.NoError(t, err)
	assert.True(t, math.IsInf(float64(v.(Number)), 1))
}
