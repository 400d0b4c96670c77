package rangeval

import (
	"github.com/benbjohnson/immutable"
	"github.com/cottand/affinesimp/affine"
	"hash/fnv"
	"slices"
)

// Oracle knows the ranges of some host values
type Oracle interface {
	HasRange(v affine.Value) bool
	GetRange(v affine.Value) Range
}

var _ Oracle = (*Analysis)(nil)

// Analysis is a persistent table of value ranges. Adding a range produces a
// new Analysis and leaves the receiver untouched, so nested scopes can share
// the ranges of their parents cheaply
type Analysis struct {
	ranges *immutable.Map[affine.Value, Range]
}

type valueHasher struct{}

func (valueHasher) Hash(key affine.Value) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return h.Sum32()
}

func (valueHasher) Equal(a, b affine.Value) bool { return a == b }

func NewAnalysis() *Analysis {
	return &Analysis{ranges: immutable.NewMap[affine.Value, Range](valueHasher{})}
}

// With returns a copy of a where v has range r
func (a *Analysis) With(v affine.Value, r Range) *Analysis {
	return &Analysis{ranges: a.ranges.Set(v, r)}
}

func (a *Analysis) HasRange(v affine.Value) bool {
	_, ok := a.ranges.Get(v)
	return ok
}

// GetRange is Unknown for values a has no range for
func (a *Analysis) GetRange(v affine.Value) Range {
	r, ok := a.ranges.Get(v)
	if !ok {
		return Unknown()
	}
	return r
}

func (a *Analysis) Len() int { return a.ranges.Len() }

// Values lists the values a has ranges for, sorted
func (a *Analysis) Values() []affine.Value {
	values := make([]affine.Value, 0, a.ranges.Len())
	itr := a.ranges.Iterator()
	for !itr.Done() {
		k, _, _ := itr.Next()
		values = append(values, k)
	}
	slices.Sort(values)
	return values
}
