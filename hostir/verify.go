package hostir

import (
	"fmt"
	"github.com/cottand/affinesimp/affine"
	"github.com/cottand/affinesimp/util"
	"github.com/pkg/errors"
	"slices"
	"strings"
)

var ErrTooManyPoints = errors.New("too many points to enumerate")

// Mismatch is an operation whose rewritten access map addresses a different
// element than the original one does
type Mismatch struct {
	Func   string
	Op     int
	Point  string
	Before []int64
	After  []int64
}

func (m *Mismatch) Error() string {
	return fmt.Sprintf("%s: op %d addresses %v instead of %v at %s", m.Func, m.Op, m.After, m.Before, m.Point)
}

// variable takes the values lo, lo+step, ... (count values in total)
type variable struct {
	name  string
	lo    int64
	step  int64
	count int64
}

// countOrInvalid marks counts that do not fit in an int64 as -1
func countOrInvalid(count int64, ok bool) int64 {
	if !ok {
		return -1
	}
	return count
}

func (f *Func) variables() []variable {
	vars := make([]variable, 0, len(f.Params)+len(f.Loops))
	for _, p := range f.Params {
		count, ok := util.CheckedSub(p.Max, p.Min)
		if ok {
			count, ok = util.CheckedAdd(count, 1)
		}
		vars = append(vars, variable{name: p.Name, lo: p.Min, step: 1, count: countOrInvalid(count, ok)})
	}
	for _, l := range f.Loops {
		count, ok := l.TripCount()
		vars = append(vars, variable{name: l.IV, lo: l.Lower, step: l.Step, count: countOrInvalid(count, ok)})
	}
	return vars
}

// Verify checks that after addresses the same elements as before, for every
// value of the parameters and induction variables of before. At most maxPoints
// combinations of values are enumerated; larger functions are rejected with
// ErrTooManyPoints
func Verify(before, after *Func, maxPoints int) error {
	if len(before.Ops) != len(after.Ops) {
		return errors.Errorf("%s: %d ops became %d", before.Name, len(before.Ops), len(after.Ops))
	}
	for i := range before.Ops {
		if !slices.Equal(before.Ops[i].Access.Operands, after.Ops[i].Access.Operands) {
			return errors.Errorf("%s: operands of op %d changed", before.Name, i)
		}
	}

	vars := before.variables()
	points := int64(1)
	for _, v := range vars {
		// negative when the count does not fit in an int64
		if v.count < 0 || v.count > int64(maxPoints) {
			return errors.Wrapf(ErrTooManyPoints, "%s has more than %d", before.Name, maxPoints)
		}
		points *= v.count
		if points > int64(maxPoints) {
			return errors.Wrapf(ErrTooManyPoints, "%s has more than %d", before.Name, maxPoints)
		}
	}

	env := make(map[affine.Value]int64, len(vars))
	var enumerate func(i int) error
	enumerate = func(i int) error {
		if i < len(vars) {
			v := vars[i]
			for k := range v.count {
				env[affine.Value(v.name)] = v.lo + k*v.step
				if err := enumerate(i + 1); err != nil {
					return err
				}
			}
			return nil
		}
		for opIndex := range before.Ops {
			if err := comparePoint(before, after, opIndex, env, vars); err != nil {
				return err
			}
		}
		return nil
	}
	return enumerate(0)
}

func comparePoint(before, after *Func, opIndex int, env map[affine.Value]int64, vars []variable) error {
	access := before.Ops[opIndex].Access
	values := make([]int64, len(access.Operands))
	for i, o := range access.Operands {
		values[i] = env[o]
	}
	dims, syms := values[:access.NumDims], values[access.NumDims:]

	want, err := affine.EvaluateMap(access.Map, dims, syms)
	if err != nil {
		return errors.Wrapf(err, "%s: op %d at %s", before.Name, opIndex, describePoint(env, vars))
	}
	got, err := affine.EvaluateMap(after.Ops[opIndex].Access.Map, dims, syms)
	if err != nil {
		return errors.Wrapf(err, "%s: rewritten op %d at %s", before.Name, opIndex, describePoint(env, vars))
	}
	if !slices.Equal(want, got) {
		return &Mismatch{
			Func:   before.Name,
			Op:     opIndex,
			Point:  describePoint(env, vars),
			Before: want,
			After:  got,
		}
	}
	return nil
}

func describePoint(env map[affine.Value]int64, vars []variable) string {
	parts := make([]string, len(vars))
	for i, v := range vars {
		parts[i] = fmt.Sprintf("%s=%d", v.name, env[affine.Value(v.name)])
	}
	return strings.Join(parts, ", ")
}

// VerifyProgram runs Verify on every function of before against the function
// with the same name in after
func VerifyProgram(before, after *Program, maxPoints int) error {
	for _, f := range before.Funcs {
		rewritten, ok := after.Func(f.Name)
		if !ok {
			return errors.Errorf("function %s is missing after rewriting", f.Name)
		}
		if err := Verify(f, rewritten, maxPoints); err != nil {
			return err
		}
	}
	return nil
}
