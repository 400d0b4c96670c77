package simplify

import (
	"fmt"
	"github.com/cottand/affinesimp/affine"
	"github.com/cottand/affinesimp/internal/log"
	"github.com/cottand/affinesimp/rangeval"
)

var (
	floorDivLogger = log.Section("simplify.floordiv")
	modLogger      = log.Section("simplify.mod")
)

// Context carries everything the engine needs to know about the map an
// expression belongs to
type Context struct {
	NumDims    int
	NumSymbols int
	Ranges     rangeval.Bindings
}

// NewContext binds the operands of access to their ranges in oracle
func NewContext(access affine.AccessMap, oracle rangeval.Oracle) Context {
	return Context{
		NumDims:    access.NumDims,
		NumSymbols: access.NumSymbols,
		Ranges:     rangeval.Bind(oracle, access),
	}
}

// candidate is a numerator that the engine may try to shrink
type candidate struct {
	d         int64
	ordered   []Term
	reordered affine.Expr
}

// inScope reports whether every dimension and symbol of e is one of the
// NumDims dimensions and NumSymbols symbols of ctx
func (ctx Context) inScope(e affine.Expr) bool {
	for d := range affine.UsedDims(e).Items() {
		if d >= ctx.NumDims {
			return false
		}
	}
	for s := range affine.UsedSymbols(e).Items() {
		if s >= ctx.NumSymbols {
			return false
		}
	}
	return true
}

// match checks the preconditions shared by both variants: a positive
// constant denominator and a linear numerator of at least two terms, all
// of them in the scope of ctx
func (ctx Context) match(num, den affine.Expr) (candidate, bool) {
	c, ok := den.(affine.Constant)
	if !ok || c.Value <= 0 {
		return candidate{}, false
	}
	if !ctx.inScope(num) {
		floorDivLogger.Warn("numerator refers to variables outside of its map", "numerator", num, "dims", ctx.NumDims, "symbols", ctx.NumSymbols)
		return candidate{}, false
	}
	terms, ok := ExtractTerms(num)
	if !ok || len(terms) < 2 {
		return candidate{}, false
	}
	ordered, reordered := Canonicalize(terms)
	return candidate{d: c.Value, ordered: ordered, reordered: reordered}, true
}

// negligible reports whether a term in termRange provably cannot carry
// a sum of multiples of threshold across a multiple of threshold
func negligible(termRange rangeval.Range, threshold int64) bool {
	return rangeval.LessThan(termRange, rangeval.Exact(threshold)) == rangeval.DefinitelyTrue &&
		rangeval.GreaterOrEqual(termRange, rangeval.Exact(0)) == rangeval.DefinitelyTrue
}

// peel repeatedly removes the smallest term of the numerator while it is
// negligible, calling onDrop with each removed term and the numerator left
// behind. It returns the remaining numerator and how many terms were removed.
// At least one term is always kept
func (ctx Context) peel(c candidate, onDrop func(dropped, remaining affine.Expr)) (affine.Expr, int) {
	thresholds := GCDThresholds(c.ordered, c.d)
	current := c.reordered
	n := len(c.ordered)
	for n >= 2 {
		last := c.ordered[n-1]
		termRange := ctx.Ranges.RangeOf(last.Expr())
		// gcd of d and every coefficient except the last one
		threshold := thresholds[n-1]
		if !negligible(termRange, threshold) {
			break
		}
		sum, ok := current.(affine.Sum)
		if !ok {
			panic(fmt.Sprintf("reordered numerator %v should be a sum of %d terms", current, n))
		}
		current = sum.LHS
		n--
		onDrop(sum.RHS, current)
	}
	return current, len(c.ordered) - n
}

// SimplifyFloorDiv removes the terms of num that cannot change
// num floordiv den. It returns num floordiv den itself and false when
// nothing could be removed
func SimplifyFloorDiv(ctx Context, num, den affine.Expr) (affine.Expr, bool) {
	input := affine.FloorDiv{Num: num, Den: den}
	c, ok := ctx.match(num, den)
	if !ok {
		return input, false
	}
	remaining, dropped := ctx.peel(c, func(dropped, remaining affine.Expr) {
		floorDivLogger.Debug("dropped term", "term", dropped, "numerator", remaining)
	})
	if dropped == 0 {
		return input, false
	}
	result := affine.FloorDivBy(remaining, c.d)
	floorDivLogger.Debug("simplified", "from", input, "to", result, "dropped", dropped)
	return result, true
}

// ModStep is the state of the mod variant after removing one term:
// Extracted + (Reduced mod d) equals the original expression
type ModStep struct {
	Extracted affine.Expr
	Reduced   affine.Expr
}

// ModSteps runs the mod variant and records the state after every removed
// term. It returns no steps when nothing could be removed
func ModSteps(ctx Context, num, den affine.Expr) []ModStep {
	c, ok := ctx.match(num, den)
	if !ok {
		return nil
	}
	var steps []ModStep
	extracted := affine.Const(0)
	ctx.peel(c, func(dropped, remaining affine.Expr) {
		extracted = affine.Add(extracted, dropped)
		steps = append(steps, ModStep{Extracted: extracted, Reduced: remaining})
		modLogger.Debug("dropped term", "term", dropped, "extracted", extracted, "numerator", remaining)
	})
	return steps
}

// SimplifyMod moves the terms of num that cannot wrap around den out of the
// mod: (x + t) mod d becomes t + (x mod d). It returns num mod den itself and
// false when nothing could be moved
func SimplifyMod(ctx Context, num, den affine.Expr) (affine.Expr, bool) {
	input := affine.Mod{Num: num, Den: den}
	steps := ModSteps(ctx, num, den)
	if len(steps) == 0 {
		return input, false
	}
	last := steps[len(steps)-1]
	d := den.(affine.Constant).Value
	result := affine.Add(last.Extracted, affine.ModBy(last.Reduced, d))
	modLogger.Debug("simplified", "from", input, "to", result, "dropped", len(steps))
	return result, true
}
