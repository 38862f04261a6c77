// Package bounded provides FIFO-bounded slices.
package bounded

// Append adds item to the end of items and drops the oldest entries so that at most
// capacity remain. A non-positive capacity keeps everything.
func Append[T any](items []T, item T, capacity int) []T {
	items = append(items, item)
	if capacity > 0 && len(items) > capacity {
		trimmed := make([]T, capacity)
		copy(trimmed, items[len(items)-capacity:])
		return trimmed
	}
	return items
}
