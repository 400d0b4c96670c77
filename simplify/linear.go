package simplify

import (
	"fmt"
	"github.com/cottand/affinesimp/affine"
	"strconv"
)

// Term is one summand Coeff * Operand of a linear expression.
// Coeff is never zero and Operand is never a Sum
type Term struct {
	Coeff   int64
	Operand affine.Expr
}

// Expr rebuilds the summand as an expression
func (t Term) Expr() affine.Expr {
	return affine.Scale(t.Coeff, t.Operand)
}

func (t Term) String() string {
	return strconv.FormatInt(t.Coeff, 10) + "*(" + affine.ExprString(t.Operand) + ")"
}

// IsLinear reports whether e is a sum of constants, variables, and variables
// scaled by a constant
func IsLinear(e affine.Expr) bool {
	switch e := e.(type) {
	case affine.Constant, affine.Dim, affine.Symbol:
		return true
	case affine.Scaled:
		return !affine.IsBinary(e.Operand)
	case affine.Sum:
		return IsLinear(e.LHS) && IsLinear(e.RHS)
	default:
		return false
	}
}

// ExtractTerms flattens a linear expression into its summands, left to right.
// It fails when e is not linear or has no non-zero summand
func ExtractTerms(e affine.Expr) ([]Term, bool) {
	if !IsLinear(e) {
		return nil, false
	}
	terms := appendTerms(nil, e)
	if len(terms) == 0 {
		return nil, false
	}
	return terms, true
}

func appendTerms(terms []Term, e affine.Expr) []Term {
	switch e := e.(type) {
	case affine.Sum:
		return appendTerms(appendTerms(terms, e.LHS), e.RHS)
	case affine.Scaled:
		return append(terms, Term{Coeff: e.Coeff, Operand: e.Operand})
	case affine.Constant:
		if e.Value == 0 {
			return terms
		}
		return append(terms, Term{Coeff: 1, Operand: e})
	case affine.Dim, affine.Symbol:
		return append(terms, Term{Coeff: 1, Operand: e})
	default:
		panic(fmt.Sprintf("linear expression contains %v (%T)", e, e))
	}
}
