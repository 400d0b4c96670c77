package affine

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ExprString renders e in the same syntax ParseExpr accepts
func ExprString(expr Expr) string {
	ctx := newShowContext()
	ctx.showExprWalker(expr, 0)
	return ctx.String()
}

type showContext struct {
	*strings.Builder
}

func newShowContext() *showContext {
	return &showContext{
		Builder: &strings.Builder{},
	}
}

// precedences are as follows:
// 0: can be shown on its own
// 10: + and -
// 20: *, floordiv and mod
// 30: atoms
//
// all binary operators are left-associative, so right operands are shown
// one level tighter than their parent
const (
	precSum = 10
	precMul = 20
)

func (ctx *showContext) showExprWalker(expr Expr, outerPrecedence int) {
	if expr == nil {
		ctx.WriteString("nil")
		return
	}
	switch expr := expr.(type) {
	case Constant:
		ctx.WriteString(strconv.FormatInt(expr.Value, 10))
	case Dim:
		ctx.WriteString("d" + strconv.Itoa(expr.Pos))
	case Symbol:
		ctx.WriteString("s" + strconv.Itoa(expr.Pos))
	case Sum:
		ctx.binary(outerPrecedence, precSum, func() {
			ctx.showExprWalker(expr.LHS, precSum)
			if negated, ok := negatedForShow(expr.RHS); ok {
				ctx.WriteString(" - ")
				ctx.showExprWalker(negated, precSum+1)
				return
			}
			ctx.WriteString(" + ")
			ctx.showExprWalker(expr.RHS, precSum+1)
		})
	case Scaled:
		ctx.binary(outerPrecedence, precMul, func() {
			ctx.showExprWalker(expr.Operand, precMul)
			ctx.WriteString(" * ")
			ctx.WriteString(strconv.FormatInt(expr.Coeff, 10))
		})
	case Product:
		ctx.binaryOp(outerPrecedence, precMul, expr.LHS, " * ", expr.RHS)
	case FloorDiv:
		ctx.binaryOp(outerPrecedence, precMul, expr.Num, " floordiv ", expr.Den)
	case Mod:
		ctx.binaryOp(outerPrecedence, precMul, expr.Num, " mod ", expr.Den)
	default:
		panic(fmt.Sprintf("unexpected affine expression %T", expr))
	}
}

func (ctx *showContext) binary(outerPrecedence, precedence int, body func()) {
	if outerPrecedence > precedence {
		ctx.WriteString("(")
		defer ctx.WriteString(")")
	}
	body()
}

func (ctx *showContext) binaryOp(outerPrecedence, precedence int, lhs Expr, op string, rhs Expr) {
	ctx.binary(outerPrecedence, precedence, func() {
		ctx.showExprWalker(lhs, precedence)
		ctx.WriteString(op)
		ctx.showExprWalker(rhs, precedence+1)
	})
}

// negatedForShow lets `a + b * -2` be shown as `a - b * 2`, which parses back
// into the same tree
func negatedForShow(e Expr) (Expr, bool) {
	switch e := e.(type) {
	case Constant:
		if e.Value < 0 && e.Value != math.MinInt64 {
			return Constant{Value: -e.Value}, true
		}
	case Scaled:
		if e.Coeff == -1 {
			return e.Operand, true
		}
		if e.Coeff < 0 && e.Coeff != math.MinInt64 {
			return Scaled{Coeff: -e.Coeff, Operand: e.Operand}, true
		}
	}
	return nil, false
}
