// Package rangeval answers which integer interval a variable or an expression can take.
//
// Ranges are closed intervals over int64. Whenever a bound cannot be computed
// exactly (including on overflow) the result is Unknown, so that anything
// derived from a Range stays sound.
package rangeval

import (
	"fmt"
	"github.com/cottand/affinesimp/util"
)

type Range struct {
	lo, hi int64
	known  bool
}

func Unknown() Range { return Range{} }

func Exact(v int64) Range { return Range{lo: v, hi: v, known: true} }

// Span is [lo, hi], or Unknown if the interval would be empty
func Span(lo, hi int64) Range {
	if lo > hi {
		return Unknown()
	}
	return Range{lo: lo, hi: hi, known: true}
}

func (r Range) Known() bool { return r.known }

// Bounds returns the interval's bounds, ok is false when r is Unknown
func (r Range) Bounds() (lo, hi int64, ok bool) {
	return r.lo, r.hi, r.known
}

func (r Range) Contains(v int64) bool {
	return r.known && r.lo <= v && v <= r.hi
}

func (r Range) String() string {
	if !r.known {
		return "[?, ?]"
	}
	return fmt.Sprintf("[%d, %d]", r.lo, r.hi)
}

func (r Range) Add(o Range) Range {
	if !r.known || !o.known {
		return Unknown()
	}
	lo, okLo := util.CheckedAdd(r.lo, o.lo)
	hi, okHi := util.CheckedAdd(r.hi, o.hi)
	if !okLo || !okHi {
		return Unknown()
	}
	return Span(lo, hi)
}

func (r Range) Scale(c int64) Range {
	return r.Mul(Exact(c))
}

// Mul is the product of any value in r and any value in o
func (r Range) Mul(o Range) Range {
	if !r.known || !o.known {
		return Unknown()
	}
	corners := [4][2]int64{{r.lo, o.lo}, {r.lo, o.hi}, {r.hi, o.lo}, {r.hi, o.hi}}
	var lo, hi int64
	for i, c := range corners {
		p, ok := util.CheckedMul(c[0], c[1])
		if !ok {
			return Unknown()
		}
		if i == 0 || p < lo {
			lo = p
		}
		if i == 0 || p > hi {
			hi = p
		}
	}
	return Span(lo, hi)
}

// FloorDiv divides by a positive constant
func (r Range) FloorDiv(d int64) Range {
	if !r.known || d <= 0 {
		return Unknown()
	}
	return Span(util.FloorDiv(r.lo, d), util.FloorDiv(r.hi, d))
}

// Mod takes the remainder of a positive constant. When r does not cross a
// multiple of d the result keeps its exact bounds, otherwise it is [0, d-1]
func (r Range) Mod(d int64) Range {
	if !r.known || d <= 0 {
		return Unknown()
	}
	if util.FloorDiv(r.lo, d) == util.FloorDiv(r.hi, d) {
		return Span(util.FloorMod(r.lo, d), util.FloorMod(r.hi, d))
	}
	return Span(0, d-1)
}

// Union is the smallest range containing both r and o
func (r Range) Union(o Range) Range {
	if !r.known || !o.known {
		return Unknown()
	}
	return Span(min(r.lo, o.lo), max(r.hi, o.hi))
}

// exactPositive is the value of r when r is a single positive value
func (r Range) exactPositive() (int64, bool) {
	if r.known && r.lo == r.hi && r.lo > 0 {
		return r.lo, true
	}
	return 0, false
}
