package rangeval

import (
	"fmt"
	"github.com/cottand/affinesimp/affine"
)

// Bindings holds the ranges of the dimensions and symbols of one affine map,
// by position
type Bindings struct {
	Dims    []Range
	Symbols []Range
}

// Bind looks up the ranges of the operands of access in o. Operands o knows
// nothing about are Unknown
func Bind(o Oracle, access affine.AccessMap) Bindings {
	b := Bindings{
		Dims:    make([]Range, 0, access.NumDims),
		Symbols: make([]Range, 0, access.NumSymbols),
	}
	for _, v := range access.DimOperands() {
		b.Dims = append(b.Dims, lookup(o, v))
	}
	for _, v := range access.SymbolOperands() {
		b.Symbols = append(b.Symbols, lookup(o, v))
	}
	return b
}

func lookup(o Oracle, v affine.Value) Range {
	if !o.HasRange(v) {
		return Unknown()
	}
	return o.GetRange(v)
}

// RangeOf evaluates the range of e symbolically, without materialising it
func (b Bindings) RangeOf(e affine.Expr) Range {
	switch e := e.(type) {
	case affine.Constant:
		return Exact(e.Value)
	case affine.Dim:
		if e.Pos >= len(b.Dims) {
			return Unknown()
		}
		return b.Dims[e.Pos]
	case affine.Symbol:
		if e.Pos >= len(b.Symbols) {
			return Unknown()
		}
		return b.Symbols[e.Pos]
	case affine.Sum:
		return b.RangeOf(e.LHS).Add(b.RangeOf(e.RHS))
	case affine.Scaled:
		return b.RangeOf(e.Operand).Scale(e.Coeff)
	case affine.Product:
		return b.RangeOf(e.LHS).Mul(b.RangeOf(e.RHS))
	case affine.FloorDiv:
		d, ok := b.RangeOf(e.Den).exactPositive()
		if !ok {
			return Unknown()
		}
		return b.RangeOf(e.Num).FloorDiv(d)
	case affine.Mod:
		d, ok := b.RangeOf(e.Den).exactPositive()
		if !ok {
			return Unknown()
		}
		return b.RangeOf(e.Num).Mod(d)
	default:
		panic(fmt.Sprintf("unexpected affine expression %T", e))
	}
}
