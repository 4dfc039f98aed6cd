// Package bsearch looks values up in sorted slices.
package bsearch

import "cmp"

// Find returns the index of an element equal to target in the ascending
// slice sorted. With duplicates any of their indexes may be returned, so it's
// only suitable for membership tests and lookups.
func Find[T cmp.Ordered](sorted []T, target T) (int, bool) {
	lo, hi := 0, len(sorted)-1
	for lo <= hi {
		mid := lo + (hi-lo)/2
		switch v := sorted[mid]; {
		case v == target:
			return mid, true
		case v < target:
			lo = mid + 1
		default:
			hi = mid - 1
		}
	}
	return -1, false
}

// Contains reports whether target is in the ascending slice sorted.
func Contains[T cmp.Ordered](sorted []T, target T) bool {
	_, ok := Find(sorted, target)
	return ok
}
