package affine

// when adding shapes here, you should add them to the switch cases in:
// - affine:show.go/showExprWalker
// - affine:eval.go/Evaluate
// - affine:hash.go
// - rangeval:bindings.go/RangeOf
// - simplify:walker.go/RewriteExpr
// - lower:lower.go/lowerExpr

import (
	"fmt"
	"github.com/cottand/affinesimp/util"
)

// Expr is an immutable integer expression over dimension and symbol variables.
//
// Every shape is a comparable value type, so two expressions are structurally
// equal if and only if they are == (see Equal).
type Expr interface {
	Kind() Kind
	Hash() uint64
	exprNode()
}

type Kind uint8

const (
	_ Kind = iota
	KindConstant
	KindDim
	KindSymbol
	KindSum
	KindScaled
	KindProduct
	KindFloorDiv
	KindMod
)

func (k Kind) String() string {
	switch k {
	case KindConstant:
		return "constant"
	case KindDim:
		return "dim"
	case KindSymbol:
		return "symbol"
	case KindSum:
		return "add"
	case KindScaled:
		return "scale"
	case KindProduct:
		return "mul"
	case KindFloorDiv:
		return "floordiv"
	case KindMod:
		return "mod"
	default:
		return fmt.Sprintf("invalid(%d)", uint8(k))
	}
}

var (
	_ Expr = Constant{}
	_ Expr = Dim{}
	_ Expr = Symbol{}
	_ Expr = Sum{}
	_ Expr = Scaled{}
	_ Expr = Product{}
	_ Expr = FloorDiv{}
	_ Expr = Mod{}
)

type Constant struct {
	Value int64
}

// Dim is a loop-bound variable, identified by its position in the dimension operands
type Dim struct {
	Pos int
}

// Symbol is a loop-invariant parameter, identified by its position in the symbol operands
type Symbol struct {
	Pos int
}

type Sum struct {
	LHS, RHS Expr
}

// Scaled is Operand multiplied by a non-zero compile-time constant
type Scaled struct {
	Coeff   int64
	Operand Expr
}

// Product is the multiplication of two non-constant expressions.
// It only appears in semi-affine maps and is never linear
type Product struct {
	LHS, RHS Expr
}

// FloorDiv rounds towards negative infinity
type FloorDiv struct {
	Num, Den Expr
}

// Mod is the remainder of FloorDiv, so it is never negative for a positive Den
type Mod struct {
	Num, Den Expr
}

func (Constant) exprNode() {}
func (Dim) exprNode()      {}
func (Symbol) exprNode()   {}
func (Sum) exprNode()      {}
func (Scaled) exprNode()   {}
func (Product) exprNode()  {}
func (FloorDiv) exprNode() {}
func (Mod) exprNode()      {}

func (Constant) Kind() Kind { return KindConstant }
func (Dim) Kind() Kind      { return KindDim }
func (Symbol) Kind() Kind   { return KindSymbol }
func (Sum) Kind() Kind      { return KindSum }
func (Scaled) Kind() Kind   { return KindScaled }
func (Product) Kind() Kind  { return KindProduct }
func (FloorDiv) Kind() Kind { return KindFloorDiv }
func (Mod) Kind() Kind      { return KindMod }

func (e Constant) String() string { return ExprString(e) }
func (e Dim) String() string      { return ExprString(e) }
func (e Symbol) String() string   { return ExprString(e) }
func (e Sum) String() string      { return ExprString(e) }
func (e Scaled) String() string   { return ExprString(e) }
func (e Product) String() string  { return ExprString(e) }
func (e FloorDiv) String() string { return ExprString(e) }
func (e Mod) String() string      { return ExprString(e) }

// Equal reports whether a and b are structurally identical
func Equal(a, b Expr) bool {
	return a == b
}

// IsBinary is true for every shape that combines two operands, including
// Scaled, whose constant coefficient counts as its second operand
func IsBinary(e Expr) bool {
	switch e.(type) {
	case Sum, Scaled, Product, FloorDiv, Mod:
		return true
	default:
		return false
	}
}

// LargestKnownDivisor is the largest constant that always divides e
func LargestKnownDivisor(e Expr) int64 {
	switch e := e.(type) {
	case Constant:
		return util.Abs(e.Value)
	case Scaled:
		c := util.Abs(e.Coeff)
		inner := LargestKnownDivisor(e.Operand)
		if product, ok := util.CheckedMul(c, inner); ok {
			return product
		}
		return c
	case Sum:
		return util.GCD(LargestKnownDivisor(e.LHS), LargestKnownDivisor(e.RHS))
	default:
		return 1
	}
}
