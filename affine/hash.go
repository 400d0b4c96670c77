package affine

import (
	"encoding/binary"
	"hash/fnv"
)

func hashOf(name string, values ...uint64) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	arr := make([]byte, 0, 8*len(values))
	for _, v := range values {
		arr = binary.LittleEndian.AppendUint64(arr, v)
	}
	_, _ = h.Write(arr)
	return h.Sum64()
}

func (e Constant) Hash() uint64 { return hashOf("Constant", uint64(e.Value)) }
func (e Dim) Hash() uint64      { return hashOf("Dim", uint64(e.Pos)) }
func (e Symbol) Hash() uint64   { return hashOf("Symbol", uint64(e.Pos)) }
func (e Sum) Hash() uint64      { return hashOf("Sum", e.LHS.Hash(), e.RHS.Hash()) }
func (e Scaled) Hash() uint64   { return hashOf("Scaled", uint64(e.Coeff), e.Operand.Hash()) }
func (e Product) Hash() uint64  { return hashOf("Product", e.LHS.Hash(), e.RHS.Hash()) }
func (e FloorDiv) Hash() uint64 { return hashOf("FloorDiv", e.Num.Hash(), e.Den.Hash()) }
func (e Mod) Hash() uint64      { return hashOf("Mod", e.Num.Hash(), e.Den.Hash()) }
