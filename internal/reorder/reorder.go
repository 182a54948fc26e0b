// Package reorder holds the ordering math for flat sequences whose elements carry a group key.
package reorder

import (
	"errors"
	"slices"
)

// ErrIndexOutOfRange reports a move index outside the sequence bounds.
var ErrIndexOutOfRange = errors.New("index out of range")

// MoveElement returns a copy of seq with the element at from removed and reinserted at to.
// Elements between the two positions shift by one; all other relative orderings are kept.
// The input sequence is never modified.
func MoveElement[S ~[]E, E any](seq S, from, to int) (S, error) {
	if from < 0 || from >= len(seq) || to < 0 || to >= len(seq) {
		return slices.Clone(seq), ErrIndexOutOfRange
	}
	out := slices.Clone(seq)
	if from == to {
		return out, nil
	}
	moved := out[from]
	out = slices.Delete(out, from, from+1)
	out = slices.Insert(out, to, moved)
	return out, nil
}

// ReassignGroup returns a copy of elem with its group key set through assign.
func ReassignGroup[E any, K comparable](elem E, key K, assign func(*E, K)) E {
	out := elem
	if assign != nil {
		assign(&out, key)
	}
	return out
}

// FilterGroup returns, in sequence order, the elements whose group key equals key.
func FilterGroup[S ~[]E, E any, K comparable](seq S, key K, groupOf func(E) K) S {
	out := make(S, 0)
	for _, elem := range seq {
		if groupOf(elem) == key {
			out = append(out, elem)
		}
	}
	return out
}

// RemoveGroup returns a copy of seq without the elements whose group key equals key.
func RemoveGroup[S ~[]E, E any, K comparable](seq S, key K, groupOf func(E) K) (S, int) {
	out := make(S, 0, len(seq))
	removed := 0
	for _, elem := range seq {
		if groupOf(elem) == key {
			removed++
			continue
		}
		out = append(out, elem)
	}
	return out, removed
}

// IndexOf returns the position of the first element matching key, or -1.
func IndexOf[S ~[]E, E any, K comparable](seq S, key K, keyOf func(E) K) int {
	return slices.IndexFunc(seq, func(elem E) bool {
		return keyOf(elem) == key
	})
}
