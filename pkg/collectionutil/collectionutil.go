package collectionutil

import "sort"

func Contains[E comparable](slice []E, elem E) bool {
	for _, e := range slice {
		if e == elem {
			return true
		}
	}
	return false
}

func Keys[K comparable, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

// SortedKeys returns the map's keys in ascending order, for deterministic
// iteration over unordered maps.
func SortedKeys[V any](m map[string]V) []string {
	keys := Keys(m)
	sort.Strings(keys)
	return keys
}
