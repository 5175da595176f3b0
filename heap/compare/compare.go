// Package compare defines the ordering capability shared by every heap
// variant in this module. A comparator is a small value the heap owns,
// not a bare function pointer threaded through every call as in the
// reference C implementation (see Design Notes, "Comparator as capability").
package compare

import "golang.org/x/exp/constraints"

// Func orders two nodes the way a min-heap wants its root ordered:
// Func(a, b) < 0 means a sorts before b, 0 means equal priority, and
// Func(a, b) > 0 means b sorts before a.
//
// Implementations must be a strict weak ordering. A comparator that is not
// transitive is a contract violation: behavior of the owning heap is
// undefined (it may panic, loop, or silently corrupt its structure).
type Func[T any] func(a, b T) int

// Natural returns a Func using T's natural less-than ordering, ascending.
func Natural[T constraints.Ordered]() Func[T] {
	return func(a, b T) int {
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	}
}

// Reverse returns a Func that orders the opposite way to f. Used by
// heap/binary.Sort, which builds a max-heap over the caller's comparator
// and repeatedly extracts the max to the tail of the buffer.
func Reverse[T any](f Func[T]) Func[T] {
	return func(a, b T) int { return f(b, a) }
}
