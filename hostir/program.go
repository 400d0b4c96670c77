// Package hostir is a small host program representation: functions made of
// parameters, loops and memory operations whose indices are affine access maps.
// It provides what the rewrite rules in package simplify need from a host:
// operands with known ranges, and a driver applying the rules to a fixpoint.
package hostir

import (
	"github.com/cottand/affinesimp/affine"
	"github.com/cottand/affinesimp/rangeval"
	"github.com/cottand/affinesimp/simplify"
	"github.com/cottand/affinesimp/util"
	"gopkg.in/yaml.v3"
)

type Program struct {
	Funcs []*Func `yaml:"funcs"`
}

type Func struct {
	Name   string  `yaml:"name"`
	Params []Param `yaml:"params,omitempty"`
	Loops  []Loop  `yaml:"loops,omitempty"`
	Ops    []*Op   `yaml:"ops"`
}

// Param is a value that does not change within the function, such as a
// problem size, known to lie within [Min, Max]
type Param struct {
	Name string `yaml:"name"`
	Min  int64  `yaml:"min"`
	Max  int64  `yaml:"max"`
}

// Loop is `for IV := Lower; IV < Upper; IV += Step`
type Loop struct {
	IV    string `yaml:"iv"`
	Lower int64  `yaml:"lower"`
	Upper int64  `yaml:"upper"`
	Step  int64  `yaml:"step"`
}

type OpKind string

const (
	Load  OpKind = "load"
	Store OpKind = "store"
)

// OpKinds lists every kind of operation carrying an access map
var OpKinds = []OpKind{Load, Store}

var _ simplify.MapOp = &Op{}

// Op reads from or writes to Memref at the position given by Access
type Op struct {
	Kind   OpKind
	Memref string
	Access affine.AccessMap
}

func (op *Op) OpKind() string                       { return string(op.Kind) }
func (op *Op) AccessMap() affine.AccessMap          { return op.Access }
func (op *Op) SetAccessMap(access affine.AccessMap) { op.Access = access }

func (p Param) Range() rangeval.Range {
	return rangeval.Span(p.Min, p.Max)
}

// Range is the smallest interval containing every value the induction
// variable takes. It is Unknown when the loop never runs or runs more than
// math.MaxInt64 times
func (l Loop) Range() rangeval.Range {
	trips, ok := l.TripCount()
	if !ok || trips == 0 {
		return rangeval.Unknown()
	}
	last := l.Lower + (trips-1)*l.Step
	return rangeval.Exact(l.Lower).Union(rangeval.Exact(last))
}

// TripCount is the number of iterations of the loop. ok is false when the
// count does not fit in an int64
func (l Loop) TripCount() (trips int64, ok bool) {
	if l.Upper <= l.Lower || l.Step <= 0 {
		return 0, true
	}
	span, ok := util.CheckedSub(l.Upper-1, l.Lower)
	if !ok {
		return 0, false
	}
	return util.CheckedAdd(span/l.Step, 1)
}

// RangeAnalysis records the range of every parameter and induction variable
// of f. Operations are not values, so they have no range
func (f *Func) RangeAnalysis() *rangeval.Analysis {
	analysis := rangeval.NewAnalysis()
	for _, p := range f.Params {
		analysis = analysis.With(affine.Value(p.Name), p.Range())
	}
	for _, l := range f.Loops {
		analysis = analysis.With(affine.Value(l.IV), l.Range())
	}
	return analysis
}

// Clone copies f deeply enough that rewriting the clone's operations
// leaves f untouched
func (f *Func) Clone() *Func {
	clone := &Func{
		Name:   f.Name,
		Params: append([]Param(nil), f.Params...),
		Loops:  append([]Loop(nil), f.Loops...),
		Ops:    make([]*Op, len(f.Ops)),
	}
	for i, op := range f.Ops {
		clone.Ops[i] = &Op{Kind: op.Kind, Memref: op.Memref, Access: op.Access.WithMap(op.Access.Map)}
	}
	return clone
}

func (p *Program) Clone() *Program {
	return &Program{Funcs: util.Map(p.Funcs, (*Func).Clone)}
}

// Func looks a function up by name
func (p *Program) Func(name string) (*Func, bool) {
	for _, f := range p.Funcs {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// opYAML is how an Op is written down: the map is kept in its textual form
type opYAML struct {
	Kind     OpKind   `yaml:"kind"`
	Memref   string   `yaml:"memref"`
	Map      string   `yaml:"map"`
	Operands []string `yaml:"operands,flow"`
}

func (op *Op) MarshalYAML() (interface{}, error) {
	operands := make([]string, len(op.Access.Operands))
	for i, o := range op.Access.Operands {
		operands[i] = string(o)
	}
	return opYAML{
		Kind:     op.Kind,
		Memref:   op.Memref,
		Map:      op.Access.Map.String(),
		Operands: operands,
	}, nil
}

func (op *Op) UnmarshalYAML(node *yaml.Node) error {
	var raw opYAML
	if err := node.Decode(&raw); err != nil {
		return err
	}
	m, err := affine.ParseMap(raw.Map)
	if err != nil {
		return &LoadError{Line: node.Line, Err: err}
	}
	operands := make([]affine.Value, len(raw.Operands))
	for i, o := range raw.Operands {
		operands[i] = affine.Value(o)
	}
	*op = Op{
		Kind:   raw.Kind,
		Memref: raw.Memref,
		Access: affine.AccessMap{Map: m, Operands: operands},
	}
	return nil
}
