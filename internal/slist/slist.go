// Package slist implements an intrusive singly linked list with a
// head-sentinel and tail pointer, giving O(1) append, dequeue, and splice.
// It is the backing structure for the map-reduce token lists, and it
// carries five sort algorithms
// ported from the reference library: insertion, counted insertion,
// selection, bubble, and a hybrid run-length/merge sort.
package slist

// Node is a single link in a List. The zero Node is a detached, unlinked
// node ready to be appended.
type Node[T any] struct {
	next  *Node[T]
	Value T
}

// Next returns the node following n, or nil if n is the list's last node.
func (n *Node[T]) Next() *Node[T] { return n.next }

// List is a singly linked list with a sentinel head node, so Append/Remove
// at any known predecessor is O(1), and a tail pointer, so Enqueue is also
// O(1) without walking the list.
type List[T any] struct {
	head Node[T]
	tail *Node[T]
}

// New returns an empty List.
func New[T any]() *List[T] {
	l := &List[T]{}
	l.tail = &l.head
	return l
}

// Init resets l to the empty state. Useful for stack-allocated Lists (e.g.
// merge sort's run buffer) that are reused across iterations.
func (l *List[T]) Init() {
	l.head.next = nil
	l.tail = &l.head
}

// Empty reports whether l has no nodes.
func (l *List[T]) Empty() bool {
	return l.head.next == nil
}

// Head returns the sentinel node preceding the first real node. It is
// always non-nil, even for an empty list, and is the correct "previous"
// argument to Append when inserting at the front.
func (l *List[T]) Head() *Node[T] {
	return &l.head
}

// First returns the first real node. Panics if l is empty.
func (l *List[T]) First() *Node[T] {
	if l.Empty() {
		panic("slist: First of empty list")
	}
	return l.head.next
}

// Last returns the last real node. Panics if l is empty.
func (l *List[T]) Last() *Node[T] {
	if l.Empty() {
		panic("slist: Last of empty list")
	}
	return l.tail
}

// Append links node immediately after previous, which must already belong
// to l (or be l.Head()).
func (l *List[T]) Append(previous, node *Node[T]) {
	if previous.next == nil {
		l.tail = node
	}
	node.next = previous.next
	previous.next = node
}

// Remove unlinks node, which must follow previous in l.
func (l *List[T]) Remove(previous, node *Node[T]) {
	if node.next == nil {
		l.tail = previous
	}
	previous.next = node.next
	node.next = nil
}

// Move relocates node (currently following previous) to follow at.
func (l *List[T]) Move(at, previous, node *Node[T]) {
	l.Remove(previous, node)
	l.Append(at, node)
}

// Enqueue appends node at the tail in O(1).
func (l *List[T]) Enqueue(node *Node[T]) {
	node.next = nil
	l.tail.next = node
	l.tail = node
}

// Dequeue removes and returns the first node. Panics if l is empty.
func (l *List[T]) Dequeue() *Node[T] {
	if l.Empty() {
		panic("slist: Dequeue of empty list")
	}
	node := l.head.next
	l.head.next = node.next
	if node.next == nil {
		l.tail = &l.head
	}
	node.next = nil
	return node
}

// Withdraw detaches the run of nodes strictly after first up to and
// including last, re-linking first directly to last's successor.
func (l *List[T]) Withdraw(first, last *Node[T]) {
	first.next = last.next
	if last.next == nil {
		l.tail = first
	}
}

// Embed inserts the run [first, last] (already linked to each other)
// immediately after at.
func (l *List[T]) Embed(at, first, last *Node[T]) {
	last.next = at.next
	if last.next == nil {
		l.tail = last
	}
	at.next = first
}

// Splice moves the run of nodes strictly after srcFirst up to and
// including srcLast out of source and into result immediately after at.
func Splice[T any](result *List[T], at *Node[T], source *List[T], srcFirst, srcLast *Node[T]) {
	first := srcFirst.next
	source.Withdraw(srcFirst, srcLast)
	result.Embed(at, first, srcLast)
}

// Each calls fn for every node in order.
func (l *List[T]) Each(fn func(*Node[T])) {
	for n := l.head.next; n != nil; n = n.next {
		fn(n)
	}
}

// Values collects every node's Value in order.
func (l *List[T]) Values() []T {
	var out []T
	l.Each(func(n *Node[T]) { out = append(out, n.Value) })
	return out
}
