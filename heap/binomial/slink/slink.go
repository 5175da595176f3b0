// Package slink implements a binomial heap whose per-node sibling list is
// singly linked, ported from the reference library's sbnm_heap (singly
// linked list based binomial heap). Every public operation that relocates
// a node within the forest does so by swapping the two nodes' link
// fields (parent/eldest/sibling/order) rather than their values, so a
// *Node[T] returned from Insert stays a valid handle for the node's
// lifetime regardless of how many times it moves.
package slink

import (
	"errors"

	"github.com/eth2030/mrheap/heap/compare"
)

// ErrEmpty is returned by Peek and Extract on an empty heap.
var ErrEmpty = errors.New("slink: heap is empty")

// Node is one binomial tree node. The zero Node is not attached to any
// heap; Insert returns a ready Node.
type Node[T any] struct {
	parent  *Node[T]
	eldest  *Node[T]
	sibling *Node[T]
	order   int
	Value   T
}

// Parent returns the node's parent, or nil at a tree root.
func (n *Node[T]) Parent() *Node[T] { return n.parent }

// Eldest returns the node's eldest (most recently joined) child, or nil.
func (n *Node[T]) Eldest() *Node[T] { return n.eldest }

// Sibling returns the next node in the same sibling list (children of a
// common parent, or roots of the forest), or nil.
func (n *Node[T]) Sibling() *Node[T] { return n.sibling }

// Heap is a binomial heap over T, ordered by a compare.Func. The zero
// value is not usable; construct with New.
type Heap[T any] struct {
	trees *Node[T]
	count int
	cmp   compare.Func[T]
}

// New returns an empty Heap ordered by cmp.
func New[T any](cmp compare.Func[T]) *Heap[T] {
	return &Heap[T]{cmp: cmp}
}

// Len returns the number of elements in the heap.
func (h *Heap[T]) Len() int { return h.count }

// Empty reports whether the heap holds no elements.
func (h *Heap[T]) Empty() bool { return h.count == 0 }

// joinTrees merges two equal-order trees into one of order+1, the smaller
// root winning and the loser becoming its new eldest child.
func joinTrees[T any](first, second *Node[T], cmp compare.Func[T]) *Node[T] {
	root, child := first, second
	if cmp(first.Value, second.Value) > 0 {
		root, child = second, first
	}

	child.parent = root
	child.sibling = root.eldest
	root.eldest = child
	root.order++

	return root
}

// minChild scans a sibling list (rooted at eldest) for its minimum.
func minChild[T any](eldest *Node[T], cmp compare.Func[T]) *Node[T] {
	inorder := eldest
	for s := eldest.sibling; s != nil; s = s.sibling {
		if cmp(s.Value, inorder.Value) < 0 {
			inorder = s
		}
	}
	return inorder
}

// previousSibling walks a sibling list from eldest to find the node
// immediately preceding sibling.
func previousSibling[T any](eldest, sibling *Node[T]) *Node[T] {
	for eldest.sibling != sibling {
		eldest = eldest.sibling
	}
	return eldest
}

// Insert adds v as a new order-0 tree and carries it into the root list,
// joining with existing roots of equal order left to right.
func (h *Heap[T]) Insert(v T) *Node[T] {
	node := &Node[T]{Value: v}
	key := node
	cur := h.trees

	for cur != nil && key.order == cur.order {
		nxt := cur.sibling
		key = joinTrees(key, cur, h.cmp)
		cur = nxt
	}

	key.sibling = cur
	h.trees = key
	h.count++
	return node
}

// Peek returns the minimum-valued node without removing it.
func (h *Heap[T]) Peek() (*Node[T], error) {
	if h.trees == nil {
		return nil, ErrEmpty
	}
	return minChild(h.trees, h.cmp), nil
}

func mergeRoots[T any](first, second **Node[T], cmp compare.Func[T]) *Node[T] {
	fst, snd := *first, *second
	switch {
	case fst.order == snd.order:
		*first = fst.sibling
		*second = snd.sibling
		return joinTrees(fst, snd, cmp)
	case fst.order < snd.order:
		*first = fst.sibling
		return fst
	default:
		*second = snd.sibling
		return snd
	}
}

// mergeTrees pairwise-merges two root lists (sorted by ascending order,
// as every binomial root list invariantly is) into one, carrying equal
// orders forward exactly like ripple-carry binary addition.
func mergeTrees[T any](first, second *Node[T], cmp compare.Func[T]) *Node[T] {
	head := mergeRoots(&first, &second, cmp)
	prevSlot := &head
	tail := head

	for first != nil && second != nil {
		next := mergeRoots(&first, &second, cmp)
		if tail.order == next.order {
			*prevSlot = joinTrees(tail, next, cmp)
			tail = *prevSlot
		} else {
			tail.sibling = next
			prevSlot = &tail.sibling
			tail = next
		}
	}

	if first == nil {
		first = second
	}
	for first != nil && tail.order == first.order {
		next := first.sibling
		*prevSlot = joinTrees(tail, first, cmp)
		tail = *prevSlot
		first = next
	}

	tail.sibling = first
	return head
}

// Merge absorbs every element of other into h. other is left empty.
func (h *Heap[T]) Merge(other *Heap[T]) {
	if other.trees == nil {
		return
	}
	if h.trees == nil {
		h.trees = other.trees
	} else {
		h.trees = mergeTrees(h.trees, other.trees, h.cmp)
	}
	h.count += other.count
	other.trees, other.count = nil, 0
}

// reparentChain walks an entire sibling chain, pointing every member's
// parent field at newParent. A plain sbnm-style swap only fixes the
// chain head, which leaves every other sibling's parent pointer stale
// (pointing at the node it used to hang off of rather than the one it
// now does); since any sibling can later become the direct target of
// Update or Remove, all of them need a correct parent pointer, not just
// the head.
func reparentChain[T any](head, newParent *Node[T]) {
	for c := head; c != nil; c = c.sibling {
		c.parent = newParent
	}
}

// swap exchanges the tree-structural fields (parent/eldest/sibling/order)
// of parent and node, where node is currently a child of parent. Neither
// node's Value moves, so external *Node[T] references stay valid across
// any number of swaps.
func (h *Heap[T]) swap(parent, node *Node[T]) {
	ancestor := parent.parent
	if ancestor != nil {
		if ancestor.eldest == parent {
			ancestor.eldest = node
		} else {
			previousSibling(ancestor.eldest, parent).sibling = node
		}
	}
	node.parent = ancestor

	if parent.eldest == node {
		grandchild := node.eldest
		reparentChain(grandchild, parent)
		node.eldest = parent
		parent.parent = node
		parent.eldest = grandchild
	} else {
		firstChild := parent.eldest
		previousSibling(firstChild, node).sibling = parent
		parent.parent = node
		parent.eldest = node.eldest
		reparentChain(parent.eldest, parent)
		node.eldest = firstChild
	}

	tmp := node.sibling
	node.sibling = parent.sibling
	parent.sibling = tmp
	reparentChain(node.eldest, node)

	node.order, parent.order = parent.order, node.order
}

// siftDown restores heap order at key by repeatedly swapping it with its
// smallest child until it is no larger than every remaining child.
func (h *Heap[T]) siftDown(key *Node[T]) {
	if key.eldest == nil {
		return
	}
	child := minChild(key.eldest, h.cmp)
	if h.cmp(key.Value, child.Value) < 0 {
		return
	}

	if key.parent == nil {
		h.reseatRootList(key, child)
	}

	for {
		h.swap(key, child)
		if key.eldest == nil {
			return
		}
		child = minChild(key.eldest, h.cmp)
		if h.cmp(key.Value, child.Value) <= 0 {
			return
		}
	}
}

// reseatRootList points whichever root-list slot currently holds old at
// repl instead, used just before a root starts bubbling down (so the
// list stays consistent once the swap relocates old out of root
// position).
func (h *Heap[T]) reseatRootList(old, repl *Node[T]) {
	if h.trees == old {
		h.trees = repl
		return
	}
	var prev *Node[T]
	for root := h.trees; ; root = root.sibling {
		if root == old {
			prev.sibling = repl
			return
		}
		prev = root
	}
}

// Update restores heap order after key's Value has changed in place:
// bubbles key up if it now violates order with its parent, otherwise
// sifts it down if it violates order with a child. Exactly one of the
// two can apply after a single key mutation.
func (h *Heap[T]) Update(key *Node[T]) {
	if key.parent != nil && h.cmp(key.parent.Value, key.Value) > 0 {
		var oldRoot *Node[T]
		for {
			oldRoot = key.parent
			h.swap(key.parent, key)
			if key.parent == nil || h.cmp(key.parent.Value, key.Value) <= 0 {
				break
			}
		}
		if key.parent != nil {
			return
		}
		h.reseatRootList(oldRoot, key)
		return
	}

	h.siftDown(key)
}

// DecreaseKey is Update under the name spec callers expect when they know
// the mutation only ever lowers the key.
func (h *Heap[T]) DecreaseKey(key *Node[T]) { h.Update(key) }

// removeRoot unlinks key (already a root) from the root list, reverses
// and reparents its children into their own orphan chain, and folds that
// chain back into the remaining roots.
func (h *Heap[T]) removeRoot(key *Node[T]) *Node[T] {
	if h.trees == key {
		h.trees = key.sibling
	} else {
		prev := h.trees
		for prev.sibling != key {
			prev = prev.sibling
		}
		prev.sibling = key.sibling
	}

	var orphans *Node[T]
	for child := key.eldest; child != nil; {
		next := child.sibling
		child.parent = nil
		child.sibling = orphans
		orphans = child
		child = next
	}

	if orphans != nil {
		if h.trees != nil {
			h.trees = mergeTrees(h.trees, orphans, h.cmp)
		} else {
			h.trees = orphans
		}
	}

	h.count--
	key.parent, key.eldest, key.sibling, key.order = nil, nil, nil, 0
	return key
}

// Extract removes and returns the minimum-valued node.
func (h *Heap[T]) Extract() (*Node[T], error) {
	if h.trees == nil {
		return nil, ErrEmpty
	}

	key := h.trees
	for root := key.sibling; root != nil; root = root.sibling {
		if h.cmp(root.Value, key.Value) < 0 {
			key = root
		}
	}

	return h.removeRoot(key), nil
}

// Remove detaches key from the heap regardless of its value, by forcing
// it to the root via repeated parent swaps and then unlinking it exactly
// like Extract would.
func (h *Heap[T]) Remove(key *Node[T]) {
	if key.parent != nil {
		var oldRoot *Node[T]
		for key.parent != nil {
			oldRoot = key.parent
			h.swap(key.parent, key)
		}
		h.reseatRootList(oldRoot, key)
	}
	h.removeRoot(key)
}

// Delete is Remove under the name spec callers expect.
func (h *Heap[T]) Delete(key *Node[T]) { h.Remove(key) }
