package affine

import "github.com/cottand/affinesimp/util"

// The builders below fold trivial cases locally. They never reorder the
// operands of a Sum: callers rely on the shape they assemble being preserved.

func Const(v int64) Expr { return Constant{Value: v} }

func DimExpr(pos int) Expr { return Dim{Pos: pos} }

func SymbolExpr(pos int) Expr { return Symbol{Pos: pos} }

func Add(lhs, rhs Expr) Expr {
	lConst, lIsConst := lhs.(Constant)
	rConst, rIsConst := rhs.(Constant)
	switch {
	case lIsConst && rIsConst:
		if sum, ok := util.CheckedAdd(lConst.Value, rConst.Value); ok {
			return Const(sum)
		}
	case lIsConst && lConst.Value == 0:
		return rhs
	case rIsConst && rConst.Value == 0:
		return lhs
	}
	return Sum{LHS: lhs, RHS: rhs}
}

func Sub(lhs, rhs Expr) Expr {
	return Add(lhs, Scale(-1, rhs))
}

// Scale multiplies e by the constant c
func Scale(c int64, e Expr) Expr {
	if c == 0 {
		return Const(0)
	}
	if c == 1 {
		return e
	}
	switch e := e.(type) {
	case Constant:
		if product, ok := util.CheckedMul(c, e.Value); ok {
			return Const(product)
		}
	case Scaled:
		if product, ok := util.CheckedMul(c, e.Coeff); ok {
			return Scale(product, e.Operand)
		}
	}
	return Scaled{Coeff: c, Operand: e}
}

// Mul produces a Scaled when either side is a constant, and a semi-affine Product otherwise
func Mul(lhs, rhs Expr) Expr {
	if c, ok := rhs.(Constant); ok {
		return Scale(c.Value, lhs)
	}
	if c, ok := lhs.(Constant); ok {
		return Scale(c.Value, rhs)
	}
	return Product{LHS: lhs, RHS: rhs}
}

// FloorDivBy divides num by the constant d. Non-positive divisors are kept
// as written, as they are not valid affine expressions to begin with
func FloorDivBy(num Expr, d int64) Expr {
	if d <= 0 {
		return FloorDiv{Num: num, Den: Const(d)}
	}
	if d == 1 {
		return num
	}
	switch num := num.(type) {
	case Constant:
		return Const(util.FloorDiv(num.Value, d))
	case Scaled:
		if num.Coeff%d == 0 {
			return Scale(num.Coeff/d, num.Operand)
		}
	}
	return FloorDiv{Num: num, Den: Const(d)}
}

// ModBy takes num modulo the constant d. Non-positive divisors are kept
// as written, as they are not valid affine expressions to begin with
func ModBy(num Expr, d int64) Expr {
	if d <= 0 {
		return Mod{Num: num, Den: Const(d)}
	}
	if d == 1 {
		return Const(0)
	}
	if c, ok := num.(Constant); ok {
		return Const(util.FloorMod(c.Value, d))
	}
	if LargestKnownDivisor(num)%d == 0 {
		return Const(0)
	}
	return Mod{Num: num, Den: Const(d)}
}

// FloorDivExpr folds through FloorDivBy when den is a constant
func FloorDivExpr(num, den Expr) Expr {
	if c, ok := den.(Constant); ok {
		return FloorDivBy(num, c.Value)
	}
	return FloorDiv{Num: num, Den: den}
}

// ModExpr folds through ModBy when den is a constant
func ModExpr(num, den Expr) Expr {
	if c, ok := den.(Constant); ok {
		return ModBy(num, c.Value)
	}
	return Mod{Num: num, Den: den}
}
