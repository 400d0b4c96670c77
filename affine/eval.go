package affine

import (
	"errors"
	"fmt"
	"github.com/cottand/affinesimp/util"
)

var ErrOverflow = errors.New("integer overflow")

// Evaluate computes e for concrete dimension and symbol values.
// FloorDiv rounds towards negative infinity and Mod has the sign of the divisor
func Evaluate(e Expr, dims, syms []int64) (int64, error) {
	switch e := e.(type) {
	case Constant:
		return e.Value, nil
	case Dim:
		if e.Pos >= len(dims) {
			return 0, fmt.Errorf("d%d is out of bounds for %d dimensions", e.Pos, len(dims))
		}
		return dims[e.Pos], nil
	case Symbol:
		if e.Pos >= len(syms) {
			return 0, fmt.Errorf("s%d is out of bounds for %d symbols", e.Pos, len(syms))
		}
		return syms[e.Pos], nil
	case Sum:
		return evalBinary(e.LHS, e.RHS, dims, syms, func(l, r int64) (int64, error) {
			sum, ok := util.CheckedAdd(l, r)
			if !ok {
				return 0, ErrOverflow
			}
			return sum, nil
		})
	case Scaled:
		v, err := Evaluate(e.Operand, dims, syms)
		if err != nil {
			return 0, err
		}
		product, ok := util.CheckedMul(e.Coeff, v)
		if !ok {
			return 0, ErrOverflow
		}
		return product, nil
	case Product:
		return evalBinary(e.LHS, e.RHS, dims, syms, func(l, r int64) (int64, error) {
			product, ok := util.CheckedMul(l, r)
			if !ok {
				return 0, ErrOverflow
			}
			return product, nil
		})
	case FloorDiv:
		return evalBinary(e.Num, e.Den, dims, syms, func(l, r int64) (int64, error) {
			if r <= 0 {
				return 0, fmt.Errorf("floordiv by non-positive value %d", r)
			}
			return util.FloorDiv(l, r), nil
		})
	case Mod:
		return evalBinary(e.Num, e.Den, dims, syms, func(l, r int64) (int64, error) {
			if r <= 0 {
				return 0, fmt.Errorf("mod by non-positive value %d", r)
			}
			return util.FloorMod(l, r), nil
		})
	default:
		panic(fmt.Sprintf("unexpected affine expression %T", e))
	}
}

func evalBinary(lhs, rhs Expr, dims, syms []int64, f func(l, r int64) (int64, error)) (int64, error) {
	l, err := Evaluate(lhs, dims, syms)
	if err != nil {
		return 0, err
	}
	r, err := Evaluate(rhs, dims, syms)
	if err != nil {
		return 0, err
	}
	return f(l, r)
}

// EvaluateMap computes every result of m
func EvaluateMap(m Map, dims, syms []int64) ([]int64, error) {
	if len(dims) != m.NumDims || len(syms) != m.NumSymbols {
		return nil, fmt.Errorf("map %v expects %d dimensions and %d symbols, got %d and %d", m, m.NumDims, m.NumSymbols, len(dims), len(syms))
	}
	results := make([]int64, len(m.Results))
	for i, r := range m.Results {
		v, err := Evaluate(r, dims, syms)
		if err != nil {
			return nil, fmt.Errorf("result %d: %w", i, err)
		}
		results[i] = v
	}
	return results, nil
}
