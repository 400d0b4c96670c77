package hostir

import (
	"github.com/cottand/affinesimp/affine"
	"github.com/cottand/affinesimp/internal/log"
	"github.com/cottand/affinesimp/simplify"
	"github.com/pkg/errors"
	"maps"
	"slices"
)

var driverLogger = log.Section("hostir.driver")

// ErrNoConvergence is returned when rules still rewrite operations after
// DriverConfig.MaxIterations sweeps. The rewrites performed so far are kept
var ErrNoConvergence = errors.New("rewriting did not converge")

type DriverConfig struct {
	// MaxIterations bounds the number of sweeps over the operations of a function
	MaxIterations int
	// OnRewrite, if set, is called after each successful rule application
	OnRewrite func(fn *Func, op *Op, rule string, before affine.AccessMap)
}

func DefaultDriverConfig() DriverConfig {
	return DriverConfig{MaxIterations: 10}
}

type DriverStats struct {
	// Iterations is the number of sweeps performed, including the last one
	// which found nothing left to rewrite
	Iterations int
	// Rewrites counts successful applications by rule name
	Rewrites map[string]int
}

func (s DriverStats) TotalRewrites() int {
	total := 0
	for _, n := range s.Rewrites {
		total += n
	}
	return total
}

func (s *DriverStats) merge(other DriverStats) {
	s.Iterations += other.Iterations
	if s.Rewrites == nil {
		s.Rewrites = make(map[string]int)
	}
	for rule, n := range other.Rewrites {
		s.Rewrites[rule] += n
	}
}

// RuleNames lists the rules that rewrote something, sorted
func (s DriverStats) RuleNames() []string {
	return slices.Sorted(maps.Keys(s.Rewrites))
}

// ApplyPatternsGreedily sweeps over the operations of fn, applying every
// rule registered for their kind, until a sweep changes nothing.
// Ranges are computed once for the whole function, as rewriting access maps
// cannot change the range of a parameter or an induction variable
func ApplyPatternsGreedily(fn *Func, rules *simplify.RuleSet, cfg DriverConfig) (DriverStats, error) {
	oracle := fn.RangeAnalysis()
	stats := DriverStats{Rewrites: make(map[string]int)}
	logger := driverLogger.With("func", fn.Name)
	for _, v := range oracle.Values() {
		logger.Debug("operand range", "value", v, "range", oracle.GetRange(v))
	}

	changed := true
	for changed && stats.Iterations < cfg.MaxIterations {
		changed = false
		stats.Iterations++
		for _, op := range fn.Ops {
			for _, rule := range rules.For(op.OpKind()) {
				before := op.Access
				if !rule.MatchAndRewrite(op, oracle) {
					continue
				}
				changed = true
				stats.Rewrites[rule.Name()]++
				logger.Debug("rewrote op", "rule", rule.Name(), "memref", op.Memref, "from", before.Map, "to", op.Access.Map)
				if cfg.OnRewrite != nil {
					cfg.OnRewrite(fn, op, rule.Name(), before)
				}
			}
		}
	}
	if changed {
		logger.Warn("giving up on rewriting", "iterations", stats.Iterations)
		return stats, errors.Wrapf(ErrNoConvergence, "function %s after %d iterations", fn.Name, stats.Iterations)
	}
	return stats, nil
}

// ApplyToProgram runs ApplyPatternsGreedily on every function of p. Functions
// after one that did not converge are still rewritten, and the first error is
// returned
func ApplyToProgram(p *Program, rules *simplify.RuleSet, cfg DriverConfig) (DriverStats, error) {
	var total DriverStats
	var firstErr error
	for _, fn := range p.Funcs {
		stats, err := ApplyPatternsGreedily(fn, rules, cfg)
		total.merge(stats)
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return total, firstErr
}

// DefaultRules registers both term-elimination rules for loads and stores
func DefaultRules() *simplify.RuleSet {
	rs := simplify.NewRuleSet()
	for _, kind := range OpKinds {
		simplify.PopulateAffineSimplifications(rs, string(kind))
	}
	return rs
}
