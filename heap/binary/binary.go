// Package binary implements an array-backed binary min-heap: insert,
// extract-min, and a Floyd O(n) build, plus an in-place heapsort entry
// point built on the same sift-down. Ported from the reference library's
// array-heap component (spec §4.2), using internal/array for bounds-
// checked slot access and internal/perf for the optional comparison/swap
// counters.
package binary

import (
	"errors"

	"github.com/eth2030/mrheap/heap/compare"
	"github.com/eth2030/mrheap/internal/array"
	"github.com/eth2030/mrheap/internal/perf"
)

// ErrEmpty is returned by Peek and Extract when the heap holds no
// elements.
var ErrEmpty = errors.New("binary: heap is empty")

// Heap is an array-backed binary min-heap over T, ordered by a
// compare.Func. The zero value is not usable; construct with New.
type Heap[T any] struct {
	slots   *array.Array[T]
	cmp     compare.Func[T]
	counter *perf.Counters
}

// New returns an empty Heap with room for up to capacity elements. The
// capacity is fixed: inserting into a full heap panics.
func New[T any](capacity int, cmp compare.Func[T]) *Heap[T] {
	a := array.New[T](capacity)
	a.Shrink(0)
	return &Heap[T]{slots: a, cmp: cmp}
}

// SetCounters attaches a perf.Counters that Insert/Extract/Build will
// increment (Sort takes its own counters argument). Pass nil (the default) to disable counting.
func (h *Heap[T]) SetCounters(c *perf.Counters) { h.counter = c }

// Len returns the number of elements currently in the heap.
func (h *Heap[T]) Len() int { return h.slots.Len() }

func (h *Heap[T]) less(i, j int) bool {
	h.counter.Compare()
	return h.cmp(h.slots.At(i), h.slots.At(j)) < 0
}

func (h *Heap[T]) swap(i, j int) {
	h.counter.Swap()
	h.slots.Swap(i, j)
}

// Peek returns the minimum element without removing it.
func (h *Heap[T]) Peek() (T, error) {
	var zero T
	if h.Len() == 0 {
		return zero, ErrEmpty
	}
	return h.slots.At(0), nil
}

// Insert adds x to the heap and restores heap order by sifting it up.
// Panics if the backing array has no spare capacity; callers that need to
// grow should allocate a Heap with sufficient capacity up front.
func (h *Heap[T]) Insert(x T) {
	n := h.slots.Len()
	h.slots.Grow(n + 1)
	h.slots.Set(n, x)
	h.siftUp(n)
}

func (h *Heap[T]) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !h.less(i, parent) {
			return
		}
		h.swap(i, parent)
		i = parent
	}
}

// Extract removes and returns the minimum element.
func (h *Heap[T]) Extract() (T, error) {
	var zero T
	n := h.slots.Len()
	if n == 0 {
		return zero, ErrEmpty
	}

	min := h.slots.At(0)
	last := n - 1
	h.slots.Set(0, h.slots.At(last))
	h.slots.Shrink(last)
	if last > 0 {
		h.siftDown(0, last)
	}
	return min, nil
}

// siftDown restores heap order at i within the live region [0, bound),
// choosing the left child on a comparison tie (stable behavior required
// by the reference test suite).
func (h *Heap[T]) siftDown(i, bound int) {
	for {
		left := 2*i + 1
		if left >= bound {
			return
		}
		smallest := left
		right := left + 1
		if right < bound {
			h.counter.Compare()
			if h.cmp(h.slots.At(right), h.slots.At(left)) < 0 {
				smallest = right
			}
		}
		if !h.less(smallest, i) {
			return
		}
		h.swap(smallest, i)
		i = smallest
	}
}

// Build turns the first n slots of the heap's backing array (already
// populated by the caller via Raw) into a valid heap in O(n) using
// Floyd's method.
func (h *Heap[T]) Build(n int) {
	h.slots.Grow(n)
	for i := n/2 - 1; i >= 0; i-- {
		h.siftDown(i, n)
	}
}

// Raw exposes the backing slice for bulk population before calling Build.
func (h *Heap[T]) Raw() []T { return h.slots.Raw() }

// Sort orders buf ascending per cmp, in place, via heapsort: build a
// max-heap using the reverse comparator, then repeatedly swap the root
// (current max) to the shrinking tail and sift down.
func Sort[T any](buf []T, cmp compare.Func[T], counters *perf.Counters) {
	if len(buf) < 2 {
		return
	}

	h := &Heap[T]{slots: array.Wrap(buf), cmp: compare.Reverse(cmp), counter: counters}
	h.Build(len(buf))

	for last := len(buf) - 1; last > 0; last-- {
		h.swap(0, last)
		h.siftDown(0, last)
	}
}
