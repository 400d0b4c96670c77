package hostir

import (
	"github.com/cottand/affinesimp/affine"
	"github.com/cottand/affinesimp/rangeval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math"
	"strings"
	"testing"
)

func TestLoopRange(t *testing.T) {
	testCases := []struct {
		loop     Loop
		expected rangeval.Range
		trips    int64
	}{
		{Loop{IV: "i", Lower: 0, Upper: 6, Step: 1}, rangeval.Span(0, 5), 6},
		{Loop{IV: "i", Lower: 0, Upper: 16, Step: 4}, rangeval.Span(0, 12), 4},
		{Loop{IV: "i", Lower: 0, Upper: 15, Step: 4}, rangeval.Span(0, 12), 4},
		{Loop{IV: "i", Lower: 3, Upper: 4, Step: 8}, rangeval.Exact(3), 1},
		{Loop{IV: "i", Lower: -4, Upper: 2, Step: 3}, rangeval.Span(-4, -1), 2},
		{Loop{IV: "i", Lower: 4, Upper: 4, Step: 1}, rangeval.Unknown(), 0},
		{Loop{IV: "i", Lower: 5, Upper: 0, Step: 1}, rangeval.Unknown(), 0},
	}
	for _, tc := range testCases {
		t.Run(tc.expected.String(), func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.loop.Range())
			trips, ok := tc.loop.TripCount()
			assert.True(t, ok)
			assert.Equal(t, tc.trips, trips)
		})
	}
}

func TestLoopTripCountOverflow(t *testing.T) {
	testCases := []struct {
		loop     Loop
		expected rangeval.Range
	}{
		{Loop{IV: "i", Lower: -10, Upper: math.MaxInt64, Step: 1}, rangeval.Unknown()},
		{Loop{IV: "i", Lower: math.MinInt64, Upper: math.MaxInt64, Step: math.MaxInt64}, rangeval.Unknown()},
		{Loop{IV: "i", Lower: -1, Upper: math.MaxInt64, Step: 1}, rangeval.Unknown()},
		{Loop{IV: "i", Lower: 0, Upper: math.MaxInt64, Step: math.MaxInt64 / 2}, rangeval.Span(0, math.MaxInt64-1)},
	}
	for _, tc := range testCases {
		t.Run(tc.expected.String(), func(t *testing.T) {
			_, ok := tc.loop.TripCount()
			assert.Equal(t, tc.expected.Known(), ok)
			assert.Equal(t, tc.expected, tc.loop.Range())
		})
	}
}

func TestRangeAnalysis(t *testing.T) {
	f := &Func{
		Name:   "f",
		Params: []Param{{Name: "n", Min: 1, Max: 8}},
		Loops:  []Loop{{IV: "i", Lower: 0, Upper: 10, Step: 2}},
	}

	analysis := f.RangeAnalysis()

	assert.Equal(t, 2, analysis.Len())
	assert.Equal(t, rangeval.Span(1, 8), analysis.GetRange("n"))
	assert.Equal(t, rangeval.Span(0, 8), analysis.GetRange("i"))
	assert.False(t, analysis.HasRange("j"))
}

const loadableProgram = `
funcs:
  - name: f
    params:
      - {name: n, min: 0, max: 3}
    loops:
      - {iv: i, lower: 0, upper: 4}
    ops:
      - kind: store
        memref: A
        map: "(i)[n] -> (i * 4 + n)"
        operands: [i, n]
`

func TestLoadProgram(t *testing.T) {
	p, err := LoadProgram(strings.NewReader(loadableProgram))
	require.NoError(t, err)
	require.Len(t, p.Funcs, 1)

	f, ok := p.Func("f")
	require.True(t, ok)
	assert.Equal(t, []Param{{Name: "n", Min: 0, Max: 3}}, f.Params)
	assert.Equal(t, []Loop{{IV: "i", Lower: 0, Upper: 4, Step: 1}}, f.Loops, "step defaults to 1")
	require.Len(t, f.Ops, 1)
	assert.Equal(t, Store, f.Ops[0].Kind)
	assert.Equal(t, "A", f.Ops[0].Memref)
	assert.Equal(t, "(d0)[s0] -> (d0 * 4 + s0)(i, n)", f.Ops[0].Access.String())

	_, ok = p.Func("g")
	assert.False(t, ok)
}

func TestLoadProgramErrors(t *testing.T) {
	testCases := []struct {
		name     string
		src      string
		expected string
	}{
		{
			name:     "unknown field",
			src:      "funcs:\n  - name: f\n    bogus: 1\n",
			expected: "bogus",
		},
		{
			name:     "undefined operand",
			src:      "funcs:\n  - name: f\n    ops:\n      - {kind: load, memref: A, map: \"(i) -> (i)\", operands: [x]}\n",
			expected: "function f: op 0 uses undefined value x",
		},
		{
			name:     "operand count",
			src:      "funcs:\n  - name: f\n    loops: [{iv: i, lower: 0, upper: 2}]\n    ops:\n      - {kind: load, memref: A, map: \"(i, j) -> (i)\", operands: [i]}\n",
			expected: "expects 2 operands but got 1",
		},
		{
			name:     "unknown kind",
			src:      "funcs:\n  - name: f\n    loops: [{iv: i, lower: 0, upper: 2}]\n    ops:\n      - {kind: copy, memref: A, map: \"(i) -> (i)\", operands: [i]}\n",
			expected: `op 0 has unknown kind "copy"`,
		},
		{
			name:     "duplicate value",
			src:      "funcs:\n  - name: f\n    params: [{name: i, min: 0, max: 1}]\n    loops: [{iv: i, lower: 0, upper: 2}]\n    ops: []\n",
			expected: "i is defined twice",
		},
		{
			name:     "duplicate function",
			src:      "funcs:\n  - {name: f, ops: []}\n  - {name: f, ops: []}\n",
			expected: "function f is defined twice",
		},
		{
			name:     "negative step",
			src:      "funcs:\n  - name: f\n    loops: [{iv: i, lower: 0, upper: 2, step: -1}]\n    ops: []\n",
			expected: "loop i has a non-positive step -1",
		},
		{
			name:     "empty parameter range",
			src:      "funcs:\n  - name: f\n    params: [{name: n, min: 2, max: 1}]\n    ops: []\n",
			expected: "parameter n has an empty range [2, 1]",
		},
		{
			name:     "empty input",
			src:      "",
			expected: "failed to parse YAML",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadProgram(strings.NewReader(tc.src))
			assert.ErrorContains(t, err, tc.expected)
		})
	}
}

func TestLoadProgramSyntaxErrorHasLine(t *testing.T) {
	src := `funcs:
  - name: f
    loops:
      - {iv: i, lower: 0, upper: 4}
    ops:
      - kind: load
        memref: A
        map: "(i) -> (i +)"
        operands: [i]
`
	_, err := LoadProgram(strings.NewReader(src))
	require.Error(t, err)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, 6, loadErr.Line)

	var syntaxErr *affine.SyntaxError
	assert.ErrorAs(t, err, &syntaxErr)
}

func TestWriteProgramRoundTrip(t *testing.T) {
	p, err := LoadProgram(strings.NewReader(loadableProgram))
	require.NoError(t, err)

	sb := &strings.Builder{}
	require.NoError(t, WriteProgram(sb, p))

	reloaded, err := LoadProgram(strings.NewReader(sb.String()))
	require.NoError(t, err)
	require.Len(t, reloaded.Funcs, 1)
	assert.Equal(t, p.Funcs[0].Params, reloaded.Funcs[0].Params)
	assert.Equal(t, p.Funcs[0].Loops, reloaded.Funcs[0].Loops)
	assert.True(t, p.Funcs[0].Ops[0].Access.Map.Equal(reloaded.Funcs[0].Ops[0].Access.Map))
	assert.Equal(t, p.Funcs[0].Ops[0].Access.Operands, reloaded.Funcs[0].Ops[0].Access.Operands)
}

func TestClone(t *testing.T) {
	p, err := LoadProgram(strings.NewReader(loadableProgram))
	require.NoError(t, err)

	clone := p.Clone()
	m, err := affine.ParseMap("(i)[n] -> (n)")
	require.NoError(t, err)
	clone.Funcs[0].Ops[0].SetAccessMap(clone.Funcs[0].Ops[0].Access.WithMap(m))

	assert.Equal(t, "(d0)[s0] -> (d0 * 4 + s0)", p.Funcs[0].Ops[0].Access.Map.String())
	assert.Equal(t, "(d0)[s0] -> (s0)", clone.Funcs[0].Ops[0].Access.Map.String())
}
