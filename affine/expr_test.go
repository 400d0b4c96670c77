package affine

import (
	"bytes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"log/slog"
	"testing"
)

var (
	d0 = DimExpr(0)
	d1 = DimExpr(1)
	s0 = SymbolExpr(0)
)

func TestBuildersFold(t *testing.T) {
	testCases := []struct {
		name     string
		built    Expr
		expected Expr
	}{
		{"constants add", Add(Const(2), Const(3)), Const(5)},
		{"zero on the left", Add(Const(0), d0), d0},
		{"zero on the right", Add(d0, Const(0)), d0},
		{"sum is kept in order", Add(d1, d0), Sum{LHS: d1, RHS: d0}},
		{"scale by one", Scale(1, d0), d0},
		{"scale by zero", Scale(0, d0), Const(0)},
		{"scale a constant", Scale(-3, Const(4)), Const(-12)},
		{"nested scales merge", Scale(2, Scale(4, d0)), Scaled{Coeff: 8, Operand: d0}},
		{"mul with constant on the left", Mul(Const(8), d0), Scaled{Coeff: 8, Operand: d0}},
		{"mul of two variables", Mul(s0, d0), Product{LHS: s0, RHS: d0}},
		{"floordiv by one", FloorDivBy(d0, 1), d0},
		{"floordiv of a multiple", FloorDivBy(Scale(8, d0), 8), d0},
		{"floordiv of a larger multiple", FloorDivBy(Scale(16, d0), 8), Scaled{Coeff: 2, Operand: d0}},
		{"floordiv of a negative constant", FloorDivBy(Const(-7), 2), Const(-4)},
		{"floordiv kept", FloorDivBy(Scale(6, d0), 4), FloorDiv{Num: Scaled{Coeff: 6, Operand: d0}, Den: Const(4)}},
		{"mod by one", ModBy(d0, 1), Const(0)},
		{"mod of a negative constant", ModBy(Const(-1), 8), Const(7)},
		{"mod of a multiple", ModBy(Add(Scale(8, d0), Scale(16, d1)), 8), Const(0)},
		{"mod kept", ModBy(Scale(2, d0), 8), Mod{Num: Scaled{Coeff: 2, Operand: d0}, Den: Const(8)}},
		{"non-constant divisor", FloorDivExpr(d0, s0), FloorDiv{Num: d0, Den: s0}},
		{"sub", Sub(d0, d1), Sum{LHS: d0, RHS: Scaled{Coeff: -1, Operand: d1}}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.built)
		})
	}
}

func TestEqualAndHash(t *testing.T) {
	a := Add(Scale(8, d0), Scale(2, d1))
	b := Add(Scale(8, d0), Scale(2, d1))
	c := Add(Scale(2, d1), Scale(8, d0))

	assert.True(t, Equal(a, b))
	assert.Equal(t, a.Hash(), b.Hash())
	assert.False(t, Equal(a, c))
	assert.NotEqual(t, a.Hash(), c.Hash())
	assert.NotEqual(t, d0.Hash(), s0.Hash())
}

func TestLargestKnownDivisor(t *testing.T) {
	assert.Equal(t, int64(1), LargestKnownDivisor(d0))
	assert.Equal(t, int64(6), LargestKnownDivisor(Scale(-6, d0)))
	assert.Equal(t, int64(2), LargestKnownDivisor(Add(Scale(8, d0), Scale(6, d1))))
	assert.Equal(t, int64(12), LargestKnownDivisor(Const(-12)))
	assert.Equal(t, int64(1), LargestKnownDivisor(FloorDivBy(Scale(6, d0), 4)))
}

func TestEvaluate(t *testing.T) {
	e := Add(FloorDivBy(Add(Scale(8, d0), Scale(2, d1)), 8), ModBy(Sub(d1, s0), 4))

	v, err := Evaluate(e, []int64{5, 3}, []int64{6})
	require.NoError(t, err)
	// floor((40 + 6) / 8) + ((3 - 6) mod 4) = 5 + 1
	assert.Equal(t, int64(6), v)

	_, err = Evaluate(e, []int64{5}, []int64{6})
	assert.Error(t, err)

	_, err = Evaluate(FloorDivExpr(d0, s0), []int64{5}, []int64{0})
	assert.ErrorContains(t, err, "non-positive")

	_, err = Evaluate(Scale(1<<62, d0), []int64{4}, nil)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestSubexprsAndUsedVariables(t *testing.T) {
	e := Add(FloorDivBy(Add(Scale(8, d0), s0), 8), Product{LHS: d1, RHS: s0})

	assert.Equal(t, 10, Size(e))
	assert.ElementsMatch(t, []int{0, 1}, UsedDims(e).Slice())
	assert.ElementsMatch(t, []int{0}, UsedSymbols(e).Slice())
	assert.Equal(t, 0, UsedDims(Const(3)).Size())
}

func TestLogHandlerRendersExpressions(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(LogHandler(slog.NewTextHandler(buf, nil)))

	logger.With("map", Map{NumDims: 1, Results: []Expr{d0}}).Info("rewrite", "expr", Scale(8, d0))

	assert.Contains(t, buf.String(), `expr.str="d0 * 8"`)
	assert.Contains(t, buf.String(), "expr.kind=scale")
	assert.Contains(t, buf.String(), `map="(d0) -> (d0)"`)
}
