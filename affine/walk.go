package affine

import (
	"fmt"
	"github.com/cottand/affinesimp/util"
	"github.com/hashicorp/go-set/v3"
	"iter"
)

// Subexprs yields e and every expression nested in it, parents before children
func Subexprs(e Expr) iter.Seq[Expr] {
	return func(yield func(Expr) bool) {
		walk(e, yield)
	}
}

func walk(e Expr, yield func(Expr) bool) bool {
	if !yield(e) {
		return false
	}
	switch e := e.(type) {
	case Constant, Dim, Symbol:
		return true
	case Sum:
		return walk(e.LHS, yield) && walk(e.RHS, yield)
	case Scaled:
		return walk(e.Operand, yield)
	case Product:
		return walk(e.LHS, yield) && walk(e.RHS, yield)
	case FloorDiv:
		return walk(e.Num, yield) && walk(e.Den, yield)
	case Mod:
		return walk(e.Num, yield) && walk(e.Den, yield)
	default:
		panic(fmt.Sprintf("unexpected affine expression %T", e))
	}
}

// UsedDims is the set of dimension positions e refers to
func UsedDims(e Expr) *set.Set[int] {
	return util.SetFromSeq(util.FilterMapIter(Subexprs(e), func(e Expr) (int, bool) {
		d, ok := e.(Dim)
		return d.Pos, ok
	}), 0)
}

// UsedSymbols is the set of symbol positions e refers to
func UsedSymbols(e Expr) *set.Set[int] {
	return util.SetFromSeq(util.FilterMapIter(Subexprs(e), func(e Expr) (int, bool) {
		s, ok := e.(Symbol)
		return s.Pos, ok
	}), 0)
}

// Size is the number of nodes in e
func Size(e Expr) int {
	n := 0
	for range Subexprs(e) {
		n++
	}
	return n
}
