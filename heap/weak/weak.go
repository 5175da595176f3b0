// Package weak implements an array- and bitmap-backed weak heap: the
// "reverse bit" per index selects which physical child is treated as the
// logical left child, replacing the subtree rotations a binary heap
// would otherwise need. Ported from the reference library's fwk_heap
// (fixed-length-array weak heap).
package weak

import (
	"errors"
	"math/bits"

	"github.com/eth2030/mrheap/heap/compare"
	"github.com/eth2030/mrheap/internal/array"
	"github.com/eth2030/mrheap/internal/bitmap"
	"github.com/eth2030/mrheap/internal/perf"
)

// ErrEmpty is returned by Peek and Extract when the heap holds no
// elements.
var ErrEmpty = errors.New("weak: heap is empty")

// Heap is an array-backed weak heap over T, ordered by a compare.Func.
// The zero value is not usable; construct with New.
type Heap[T any] struct {
	slots   *array.Array[T]
	rbits   *bitmap.Bitmap
	cmp     compare.Func[T]
	counter *perf.Counters
}

// New returns an empty Heap with room to grow up to capacity elements.
func New[T any](capacity int, cmp compare.Func[T]) *Heap[T] {
	a := array.New[T](capacity)
	a.Shrink(0)
	return &Heap[T]{slots: a, rbits: bitmap.New(capacity), cmp: cmp}
}

// SetCounters attaches a perf.Counters that Insert/Extract/Build will
// increment (Sort takes its own counters argument). Pass nil (the default) to disable counting.
func (h *Heap[T]) SetCounters(c *perf.Counters) { h.counter = c }

// Len returns the number of elements currently in the heap.
func (h *Heap[T]) Len() int { return h.slots.Len() }

// Empty reports whether the heap holds no elements.
func (h *Heap[T]) Empty() bool { return h.slots.Len() == 0 }

func parentIndex(index int) int { return index / 2 }

func leftIndex(rbits *bitmap.Bitmap, index int) int {
	bit := 0
	if rbits.Test(index) {
		bit = 1
	}
	return 2*index + bit
}

func rightIndex(rbits *bitmap.Bitmap, index int) int {
	bit := 0
	if rbits.Test(index) {
		bit = 1
	}
	return 2*index + 1 - bit
}

func isLeftChild(rbits *bitmap.Bitmap, index int) bool {
	return (index&1 != 0) == rbits.Test(parentIndex(index))
}

func singleLeaf(index int) bool { return index&1 == 0 }

// dancestorIndex returns the distinguished ancestor of index: the parent
// of index if index is a right child, or the distinguished ancestor of
// index's parent if index is a left child.
func dancestorIndex(rbits *bitmap.Bitmap, index int) int {
	for isLeftChild(rbits, index) {
		index = parentIndex(index)
	}
	return parentIndex(index)
}

// fastDancestorIndex computes the distinguished ancestor in O(1) from the
// array index alone; valid only while every reverse bit is still zero, as
// is the case during a bottom-up build.
func fastDancestorIndex(index int) int {
	return index >> (bits.TrailingZeros(uint(index)) + 1)
}

// join merges the weak sub-heaps rooted at node and its distinguished
// ancestor dancestor into one rooted at dancestor: if the regular-order
// comparison is violated, the two slots' values are swapped and node's
// reverse bit is flipped. Returns true when no swap was needed (heap
// order already held), false when it swapped.
func join[T any](slots *array.Array[T], rbits *bitmap.Bitmap, dancestor, node int, cmp compare.Func[T], regular bool, counter *perf.Counters) bool {
	counter.Compare()
	if (cmp(slots.At(node), slots.At(dancestor)) < 0) == regular {
		counter.Swap()
		slots.Swap(node, dancestor)
		rbits.Toggle(node)
		return false
	}
	return true
}

// Peek returns the minimum element without removing it.
func (h *Heap[T]) Peek() (T, error) {
	var zero T
	if h.Empty() {
		return zero, ErrEmpty
	}
	return h.slots.At(0), nil
}

// Insert adds x to the heap and restores weak-heap ordering by repeated
// join with the distinguished ancestor on the way up to the root.
func (h *Heap[T]) Insert(x T) {
	idx := h.slots.Len()
	h.slots.Grow(idx + 1)
	h.slots.Set(idx, x)
	h.rbits.Clear(idx)

	if idx == 0 {
		return
	}
	if singleLeaf(idx) {
		h.rbits.Clear(parentIndex(idx))
	}

	for {
		didx := dancestorIndex(h.rbits, idx)
		if join(h.slots, h.rbits, didx, idx, h.cmp, true, h.counter) {
			return
		}
		idx = didx
		if idx == 0 {
			return
		}
	}
}

// DecreaseKey re-establishes weak-heap order after the value at index has
// been lowered in place, by the same sift-up join chain Insert uses.
func (h *Heap[T]) DecreaseKey(index int) {
	idx := index
	for idx != 0 {
		didx := dancestorIndex(h.rbits, idx)
		if join(h.slots, h.rbits, didx, idx, h.cmp, true, h.counter) {
			return
		}
		idx = didx
	}
}

// siftDown restores weak-heap order between the root and every node in
// its right subtree, within the live region [0, count): walk to the
// deepest left-spine descendant of the root's right child, then join
// each node on the way back up against the root.
func siftDown[T any](slots *array.Array[T], rbits *bitmap.Bitmap, count int, cmp compare.Func[T], regular bool, counter *perf.Counters) {
	idx := rightIndex(rbits, 0)
	for {
		cidx := leftIndex(rbits, idx)
		if cidx >= count {
			break
		}
		idx = cidx
	}
	for idx != 0 {
		join(slots, rbits, 0, idx, cmp, regular, counter)
		idx = parentIndex(idx)
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
	cnt := n - 1
	h.slots.Set(0, h.slots.At(cnt))
	h.slots.Shrink(cnt)
	if cnt > 1 {
		siftDown(h.slots, h.rbits, cnt, h.cmp, true, h.counter)
	}
	return min, nil
}

// rebuild restores weak-heap order over the live region [0, n) from
// scratch, used both by Build and by Delete (which otherwise has no way
// to cheaply patch the structure after an arbitrary slot is excised,
// since join moves values across slots rather than moving a stable
// handle).
func (h *Heap[T]) rebuild(n int) {
	h.rbits.ClearAll()
	for i := n - 1; i >= 1; i-- {
		join(h.slots, h.rbits, fastDancestorIndex(i), i, h.cmp, true, h.counter)
	}
}

// Build turns the first n slots of the heap's backing array (already
// populated by the caller via Raw) into a valid weak heap in O(n).
func (h *Heap[T]) Build(n int) {
	h.slots.Grow(n)
	h.rebuild(n)
}

// Raw exposes the backing slice for bulk population before calling Build.
func (h *Heap[T]) Raw() []T { return h.slots.Raw() }

// Delete removes and returns the value at index. Unlike Extract, this is
// not O(log n): weak-heap joins swap values across slots rather than
// carrying a stable per-element handle, so there is no cheap way to patch
// just the affected path after excising an arbitrary slot. This rebuilds
// the whole heap in O(n), trading asymptotic optimality (unsupported by
// the reference design) for an implementation that is obviously correct.
func (h *Heap[T]) Delete(index int) T {
	v := h.slots.At(index)
	n := h.slots.Len()
	last := n - 1
	if index != last {
		h.slots.Set(index, h.slots.At(last))
	}
	h.slots.Shrink(last)
	if last > 0 {
		h.rebuild(last)
	}
	return v
}

// Merge absorbs every element of other into h by draining and
// reinserting; the reference implementation defines no direct weak-heap
// merge, unlike the binomial and pairing variants.
func (h *Heap[T]) Merge(other *Heap[T]) {
	for !other.Empty() {
		v, _ := other.Extract()
		h.Insert(v)
	}
}

// Sort orders buf ascending per cmp, in place: build a weak-max-heap over
// the whole slice, then repeatedly swap the root (current max) to the
// shrinking tail and sift down, same as the reference fwk_heap_sort.
func Sort[T any](buf []T, cmp compare.Func[T], counters *perf.Counters) {
	n := len(buf)
	if n < 2 {
		return
	}

	slots := array.Wrap(buf)
	rbits := bitmap.New(n)

	for i := n - 1; i >= 1; i-- {
		join(slots, rbits, fastDancestorIndex(i), i, cmp, false, counters)
	}

	for k := n; k > 1; k-- {
		counters.Swap()
		slots.Swap(0, k-1)
		if k-1 > 1 {
			siftDown(slots, rbits, k-1, cmp, false, counters)
		}
	}
}
