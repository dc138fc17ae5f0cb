// Package sliceutil provides generic slice helpers.
package sliceutil

// Deduplicate keeps the first item for each key, preserving order.
//
//	sliceutil.Deduplicate([]string{"cuánto", "Cuanto", "precio"}, stringutil.Fold)
//	// ["cuánto", "precio"]
func Deduplicate[T any, K comparable](items []T, key func(T) K) []T {
	if len(items) == 0 {
		return items
	}

	seen := make(map[K]struct{}, len(items))
	result := make([]T, 0, len(items))
	for _, item := range items {
		k := key(item)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		result = append(result, item)
	}
	return result
}
