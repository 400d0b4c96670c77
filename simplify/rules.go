package simplify

import (
	"github.com/cottand/affinesimp/affine"
	"github.com/cottand/affinesimp/rangeval"
)

// MapOp is a host operation that addresses memory through an access map
type MapOp interface {
	OpKind() string
	AccessMap() affine.AccessMap
	// SetAccessMap replaces the whole access map of the operation at once
	SetAccessMap(affine.AccessMap)
}

// Rule is a match-and-rewrite step a fixpoint driver applies to operations
// until no rule reports a change
type Rule interface {
	Name() string
	// MatchAndRewrite rewrites op in place and reports whether it changed
	MatchAndRewrite(op MapOp, oracle rangeval.Oracle) bool
}

var (
	_ Rule = FloorDivRule{}
	_ Rule = ModRule{}
)

// FloorDivRule removes numerator terms that cannot change a floordiv
type FloorDivRule struct{}

// ModRule moves numerator terms that cannot wrap around out of a mod
type ModRule struct{}

func (FloorDivRule) Name() string { return "small-numerator-term-floordiv" }
func (ModRule) Name() string      { return "small-numerator-term-mod" }

func (FloorDivRule) MatchAndRewrite(op MapOp, oracle rangeval.Oracle) bool {
	return rewriteOp(op, oracle, affine.KindFloorDiv)
}

func (ModRule) MatchAndRewrite(op MapOp, oracle rangeval.Oracle) bool {
	return rewriteOp(op, oracle, affine.KindMod)
}

func rewriteOp(op MapOp, oracle rangeval.Oracle, kind affine.Kind) bool {
	access := op.AccessMap()
	ctx := NewContext(access, oracle)
	newMap, changed := RewriteMap(ctx, access.Map, kind)
	if !changed {
		return false
	}
	op.SetAccessMap(access.WithMap(newMap))
	return true
}

// RuleSet holds the rules registered for each kind of operation
type RuleSet struct {
	byKind map[string][]Rule
}

func NewRuleSet() *RuleSet {
	return &RuleSet{byKind: make(map[string][]Rule)}
}

func (rs *RuleSet) Add(opKind string, rules ...Rule) {
	rs.byKind[opKind] = append(rs.byKind[opKind], rules...)
}

// For lists the rules registered for opKind, in registration order
func (rs *RuleSet) For(opKind string) []Rule {
	return rs.byKind[opKind]
}

// PopulateAffineSimplifications registers both the floordiv and the mod rule
// for each of the given operation kinds
func PopulateAffineSimplifications(rs *RuleSet, opKinds ...string) {
	for _, kind := range opKinds {
		rs.Add(kind, FloorDivRule{}, ModRule{})
	}
}
