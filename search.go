package songdoc

import (
	"cmp"
	"sort"
)

// The timeline lists (tempo, time signature, structure) are kept ascending
// by tick, so every "event active at X" and "insertion point for X" query is
// one of three binary searches over a caller-supplied key projection. The
// slices are assumed sorted by key; the search never re-sorts.

// findFloor returns the index of the rightmost element whose key is less
// than or equal to probe, or -1 if the slice is empty or every key exceeds
// probe.
func findFloor[T any, K cmp.Ordered](events []T, probe K, key func(T) K) int {
	return sort.Search(len(events), func(i int) bool { return key(events[i]) > probe }) - 1
}

// findStrictFloor returns the index of the rightmost element whose key is
// strictly less than probe, or -1. Used when the event exactly at probe
// should not count, e.g. the base segment of a tick-to-seconds conversion.
func findStrictFloor[T any, K cmp.Ordered](events []T, probe K, key func(T) K) int {
	return sort.Search(len(events), func(i int) bool { return key(events[i]) >= probe }) - 1
}

// findCeiling returns the index of the leftmost element whose key is greater
// than or equal to probe, or -1 if every key is smaller (append at the end).
func findCeiling[T any, K cmp.Ordered](events []T, probe K, key func(T) K) int {
	i := sort.Search(len(events), func(i int) bool { return key(events[i]) >= probe })
	if i == len(events) {
		return -1
	}
	return i
}
