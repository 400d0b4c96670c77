package rangeval

import (
	"github.com/cottand/affinesimp/affine"
	"github.com/stretchr/testify/assert"
	"math"
	"testing"
)

func TestRangeArithmetic(t *testing.T) {
	testCases := []struct {
		name     string
		got      Range
		expected Range
	}{
		{"add", Span(0, 5).Add(Span(-2, 3)), Span(-2, 8)},
		{"scale positive", Span(0, 3).Scale(2), Span(0, 6)},
		{"scale negative", Span(0, 3).Scale(-5), Span(-15, 0)},
		{"mul crossing zero", Span(-2, 3).Mul(Span(-4, 1)), Span(-12, 8)},
		{"floordiv", Span(-3, 17).FloorDiv(4), Span(-1, 4)},
		{"mod within one period", Span(9, 11).Mod(8), Span(1, 3)},
		{"mod across periods", Span(6, 9).Mod(8), Span(0, 7)},
		{"mod of negatives", Span(-3, -1).Mod(8), Span(5, 7)},
		{"union", Span(0, 2).Union(Span(5, 6)), Span(0, 6)},
		{"add overflow", Span(0, math.MaxInt64).Add(Exact(1)), Unknown()},
		{"mul overflow", Span(0, math.MaxInt64).Scale(2), Unknown()},
		{"floordiv by zero", Span(0, 4).FloorDiv(0), Unknown()},
		{"unknown propagates", Unknown().Add(Exact(1)), Unknown()},
		{"empty span", Span(3, 2), Unknown()},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.got)
		})
	}
}

func TestRangeAccessors(t *testing.T) {
	lo, hi, ok := Span(-1, 4).Bounds()
	assert.True(t, ok)
	assert.Equal(t, int64(-1), lo)
	assert.Equal(t, int64(4), hi)

	_, _, ok = Unknown().Bounds()
	assert.False(t, ok)

	assert.True(t, Span(0, 6).Contains(6))
	assert.False(t, Span(0, 6).Contains(7))
	assert.False(t, Unknown().Contains(0))

	assert.Equal(t, "[0, 6]", Span(0, 6).String())
	assert.Equal(t, "[?, ?]", Unknown().String())
}

func TestLessThan(t *testing.T) {
	testCases := []struct {
		name     string
		a, b     Range
		expected Tribool
	}{
		{"strictly below", Span(0, 6), Exact(8), DefinitelyTrue},
		{"touching is not below", Span(0, 8), Exact(8), Indeterminate},
		{"overlapping", Span(0, 15), Exact(8), Indeterminate},
		{"entirely above", Span(8, 15), Exact(8), DefinitelyFalse},
		{"negative values are signed", Span(-5, -1), Exact(0), DefinitelyTrue},
		{"unknown lhs", Unknown(), Exact(8), Indeterminate},
		{"unknown rhs", Span(0, 1), Unknown(), Indeterminate},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, LessThan(tc.a, tc.b))
		})
	}

	assert.Equal(t, DefinitelyTrue, GreaterOrEqual(Span(0, 3), Exact(0)))
	assert.Equal(t, Indeterminate, GreaterOrEqual(Span(-1, 3), Exact(0)))
	assert.Equal(t, "unknown", Indeterminate.String())
}

func TestAnalysisIsPersistent(t *testing.T) {
	outer := NewAnalysis().With("i", Span(0, 5))
	inner := outer.With("j", Span(0, 3))

	assert.True(t, inner.HasRange("i"))
	assert.True(t, inner.HasRange("j"))
	assert.False(t, outer.HasRange("j"))
	assert.Equal(t, Unknown(), outer.GetRange("j"))
	assert.Equal(t, Span(0, 3), inner.GetRange("j"))
	assert.Equal(t, []affine.Value{"i", "j"}, inner.Values())
	assert.Equal(t, 1, outer.Len())
}

func TestBindingsRangeOf(t *testing.T) {
	oracle := NewAnalysis().With("i", Span(0, 5)).With("j", Span(0, 3)).With("n", Exact(4))
	access := affine.AccessMap{
		Map:      affine.Map{NumDims: 3, NumSymbols: 1},
		Operands: []affine.Value{"i", "j", "missing", "n"},
	}
	b := Bind(oracle, access)

	assert.Equal(t, []Range{Span(0, 5), Span(0, 3), Unknown()}, b.Dims)
	assert.Equal(t, []Range{Exact(4)}, b.Symbols)

	i, j, k, n := affine.DimExpr(0), affine.DimExpr(1), affine.DimExpr(2), affine.SymbolExpr(0)
	testCases := []struct {
		e        affine.Expr
		expected Range
	}{
		{affine.Scale(2, j), Span(0, 6)},
		{affine.Add(affine.Scale(8, i), affine.Scale(2, j)), Span(0, 46)},
		{affine.FloorDivBy(affine.Add(affine.Scale(8, i), j), 8), Span(0, 5)},
		{affine.ModBy(affine.Scale(5, j), 8), Span(0, 7)},
		{affine.Mul(i, n), Span(0, 20)},
		{affine.FloorDivExpr(i, n), Span(0, 1)},
		{affine.ModExpr(i, j), Unknown()},
		{affine.Add(i, k), Unknown()},
		{affine.DimExpr(7), Unknown()},
	}
	for _, tc := range testCases {
		t.Run(affine.ExprString(tc.e), func(t *testing.T) {
			assert.Equal(t, tc.expected, b.RangeOf(tc.e))
		})
	}
}
