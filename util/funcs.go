package util

import (
	"github.com/hashicorp/go-set/v3"
	"iter"
)

func Map[A, B any](slice []A, f func(A) B) []B {
	mapped := make([]B, len(slice))
	for i, v := range slice {
		mapped[i] = f(v)
	}
	return mapped
}

// FilterMapIter yields f(v) for every v where f reports true
func FilterMapIter[A, B any](iter iter.Seq[A], f func(A) (B, bool)) iter.Seq[B] {
	return func(yield func(B) bool) {
		for v := range iter {
			mapped, ok := f(v)
			if !ok {
				continue
			}
			if !yield(mapped) {
				return
			}
		}
	}
}

func SetFromSeq[V comparable](s iter.Seq[V], size int) *set.Set[V] {
	newSet := set.New[V](size)
	for item := range s {
		newSet.Insert(item)
	}
	return newSet
}
