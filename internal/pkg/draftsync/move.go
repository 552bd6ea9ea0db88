package draftsync

import "slices"

// Direction selects which neighbour a move swaps with.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Move swaps items[i] with its neighbour in the given direction on a
// copy of the slice. When the target index falls outside [0, len) the
// input slice is returned unchanged. This is the single reordering
// primitive every list editor uses; list order is positional, so a
// swap is a minimal-diff reorder.
func Move[T any](items []T, i int, dir Direction) []T {
	j := i - 1
	if dir == Down {
		j = i + 1
	}
	if i < 0 || i >= len(items) || j < 0 || j >= len(items) {
		return items
	}
	out := slices.Clone(items)
	out[i], out[j] = out[j], out[i]
	return out
}
