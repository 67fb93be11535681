package util

import (
	"sort"

	"golang.org/x/exp/constraints"
)

func GetKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := make([]A, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	})
	return keys
}

func Max[A constraints.Ordered](a A, b A) A {
	if a < b {
		return b
	}
	return a
}

// MaxOf returns the largest value produced by fn over items, or zero for an
// empty slice.
func MaxOf[T any, A constraints.Ordered](items []T, fn func(T) A) A {
	var res A
	for i, v := range items {
		x := fn(v)
		if i == 0 || x > res {
			res = x
		}
	}
	return res
}
