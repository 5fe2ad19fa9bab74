package sortutil

import (
	"cmp"
	"sort"
)

// SortedKeys returns the keys of m in ascending order. Map iteration order is
// unspecified; the duplicate-resolution pass sorts destination paths through
// this helper so diagnostics and output ordering stay reproducible.
func SortedKeys[M ~map[K]V, K cmp.Ordered, V any](m M) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
