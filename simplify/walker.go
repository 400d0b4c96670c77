package simplify

import (
	"fmt"
	"github.com/cottand/affinesimp/affine"
)

// RewriteExpr simplifies every node of e of the given kind (affine.KindFloorDiv
// or affine.KindMod), children first, so that each node is simplified after
// its own operands have been. The bool reports whether any term was removed
func RewriteExpr(ctx Context, e affine.Expr, kind affine.Kind) (affine.Expr, bool) {
	switch e := e.(type) {
	case affine.Constant, affine.Dim, affine.Symbol:
		return e, false
	case affine.Sum:
		lhs, rhs, changed := rewriteBoth(ctx, e.LHS, e.RHS, kind)
		return affine.Add(lhs, rhs), changed
	case affine.Scaled:
		operand, changed := RewriteExpr(ctx, e.Operand, kind)
		return affine.Scale(e.Coeff, operand), changed
	case affine.Product:
		lhs, rhs, changed := rewriteBoth(ctx, e.LHS, e.RHS, kind)
		return affine.Mul(lhs, rhs), changed
	case affine.FloorDiv:
		num, den, changed := rewriteBoth(ctx, e.Num, e.Den, kind)
		rebuilt := affine.FloorDivExpr(num, den)
		if fd, ok := rebuilt.(affine.FloorDiv); ok && kind == affine.KindFloorDiv {
			simplified, simplifiedThis := SimplifyFloorDiv(ctx, fd.Num, fd.Den)
			return simplified, changed || simplifiedThis
		}
		return rebuilt, changed
	case affine.Mod:
		num, den, changed := rewriteBoth(ctx, e.Num, e.Den, kind)
		rebuilt := affine.ModExpr(num, den)
		if m, ok := rebuilt.(affine.Mod); ok && kind == affine.KindMod {
			simplified, simplifiedThis := SimplifyMod(ctx, m.Num, m.Den)
			return simplified, changed || simplifiedThis
		}
		return rebuilt, changed
	default:
		panic(fmt.Sprintf("unexpected affine expression %T", e))
	}
}

func rewriteBoth(ctx Context, lhs, rhs affine.Expr, kind affine.Kind) (affine.Expr, affine.Expr, bool) {
	newLhs, lhsChanged := RewriteExpr(ctx, lhs, kind)
	newRhs, rhsChanged := RewriteExpr(ctx, rhs, kind)
	return newLhs, newRhs, lhsChanged || rhsChanged
}

// RewriteMap applies RewriteExpr to every result of m. When nothing was
// removed it returns m itself and false, so that callers leave their map alone
func RewriteMap(ctx Context, m affine.Map, kind affine.Kind) (affine.Map, bool) {
	results := make([]affine.Expr, len(m.Results))
	changed := false
	for i, r := range m.Results {
		newResult, resultChanged := RewriteExpr(ctx, r, kind)
		results[i] = newResult
		changed = changed || resultChanged
	}
	if !changed {
		return m, false
	}
	return m.WithResults(results), true
}
