// Package internal holds helpers shared by the simulator packages.
package internal

import (
	"cmp"
	"iter"
	"maps"
	"slices"
)

// Concat2 joins several key/value sequences into one, in argument order.
func Concat2[K any, V any](seqs ...iter.Seq2[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, seq := range seqs {
			for k, v := range seq {
				if !yield(k, v) {
					return
				}
			}
		}
	}
}

// Sorted2 yields the pairs of a map ordered by key.
func Sorted2[K cmp.Ordered, V any](m map[K]V) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, k := range slices.Sorted(maps.Keys(m)) {
			if !yield(k, m[k]) {
				return
			}
		}
	}
}
