package util

// FilterSlice generic function for filtering a slice. Keeps elements where keepFn returns true.
func FilterSlice[T any](src []T, keepFn func(T) bool) []T {
	var res []T
	for _, e := range src {
		if keepFn(e) {
			res = append(res, e)
		}
	}
	return res
}
