package simplify

import (
	"cmp"
	"github.com/cottand/affinesimp/affine"
	"github.com/cottand/affinesimp/util"
	"slices"
)

// Canonicalize orders terms from the largest coefficient magnitude to the
// smallest, keeping the original order between equal magnitudes, and
// rebuilds their sum so that the smallest term is the right operand of the
// outermost Sum:
//
//	        +
//	      /   \
//	     +     smallest
//	   /   \
//	  ...   second smallest
//
// Removing the smallest term is then a matter of taking the LHS of the root.
// terms must not be empty
func Canonicalize(terms []Term) ([]Term, affine.Expr) {
	if len(terms) == 0 {
		panic("cannot canonicalize an empty list of terms")
	}
	ordered := slices.Clone(terms)
	slices.SortStableFunc(ordered, func(a, b Term) int {
		return cmp.Compare(util.Abs(b.Coeff), util.Abs(a.Coeff))
	})

	// Sum is built directly rather than through affine.Add so that no
	// folding can change the shape
	reordered := ordered[0].Expr()
	for _, t := range ordered[1:] {
		reordered = affine.Sum{LHS: reordered, RHS: t.Expr()}
	}
	return ordered, reordered
}

// GCDThresholds folds gcd across the coefficients of ordered, seeded with the
// divisor d. The result has len(ordered)+1 entries: result[0] is d and
// result[k] is the gcd of d and the first k coefficients. It never increases
// and every entry divides d
func GCDThresholds(ordered []Term, d int64) []int64 {
	thresholds := make([]int64, 0, len(ordered)+1)
	current := d
	thresholds = append(thresholds, current)
	for _, t := range ordered {
		current = util.GCD(current, t.Coeff)
		thresholds = append(thresholds, current)
	}
	return thresholds
}
