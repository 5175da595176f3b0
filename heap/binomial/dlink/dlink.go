// Package dlink implements a binomial heap whose per-node sibling list is
// doubly linked, ported from the reference library's dbnm_heap (doubly
// linked list based binomial heap). The doubly linked sibling list is
// what distinguishes this variant from heap/binomial/slink: relinking a
// node's predecessor during a swap or removal is an O(1) pointer
// dereference here instead of a linear scan back from the parent's
// eldest child.
package dlink

import (
	"errors"

	"github.com/eth2030/mrheap/heap/compare"
)

// ErrEmpty is returned by Peek and Extract on an empty heap.
var ErrEmpty = errors.New("dlink: heap is empty")

// Node is one binomial tree node. Insert returns a ready Node that stays
// a valid handle across any number of swaps, since swaps exchange link
// fields rather than values.
type Node[T any] struct {
	parent  *Node[T]
	eldest  *Node[T]
	sibling *Node[T]
	prev    *Node[T] // predecessor within the same sibling list, nil at its head
	order   int
	Value   T
}

// Parent returns the node's parent, or nil at a tree root.
func (n *Node[T]) Parent() *Node[T] { return n.parent }

// Eldest returns the node's eldest child, or nil.
func (n *Node[T]) Eldest() *Node[T] { return n.eldest }

// Sibling returns the next node in the same sibling list, or nil.
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
	child.prev = nil
	child.sibling = root.eldest
	if root.eldest != nil {
		root.eldest.prev = child
	}
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

// reparentChain walks an entire sibling chain, pointing every member's
// parent field at newParent.
func reparentChain[T any](head, newParent *Node[T]) {
	for c := head; c != nil; c = c.sibling {
		c.parent = newParent
	}
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

	key.prev = nil
	key.sibling = cur
	if cur != nil {
		cur.prev = key
	}
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

// mergeTrees pairwise-merges two root lists (sorted by ascending order)
// into one, carrying equal orders forward like ripple-carry binary
// addition. Assembled purely through .sibling, like slink's version; the
// caller fixes up .prev over the result afterward via fixPrev.
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

// fixPrev walks a .sibling chain from head, rebuilding every member's
// .prev pointer (and clearing head's).
func fixPrev[T any](head *Node[T]) {
	if head == nil {
		return
	}
	head.prev = nil
	prev := head
	for n := head.sibling; n != nil; n = n.sibling {
		n.prev = prev
		prev = n
	}
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
		fixPrev(h.trees)
	}
	h.count += other.count
	other.trees, other.count = nil, 0
}

// swap exchanges the tree-structural fields (parent/eldest/sibling/prev/
// order) of parent and node, where node is currently a child of parent.
// Relinking parent's predecessor is an O(1) field read here (h.prev)
// rather than the O(n) previousSibling walk slink needs.
func (h *Heap[T]) swap(parent, node *Node[T]) {
	ancestor := parent.parent
	parentPrev := parent.prev
	nodePrev := node.prev // node's predecessor within parent's child list

	if ancestor != nil && ancestor.eldest == parent {
		ancestor.eldest = node
	}
	if parentPrev != nil {
		parentPrev.sibling = node
	}
	node.parent = ancestor
	node.prev = parentPrev

	if parent.eldest == node {
		grandchild := node.eldest
		reparentChain(grandchild, parent)
		node.eldest = parent
		parent.parent = node
		parent.prev = nil
		parent.eldest = grandchild
	} else {
		firstChild := parent.eldest
		nodePrev.sibling = parent
		parent.parent = node
		parent.prev = nodePrev
		parent.eldest = node.eldest
		reparentChain(parent.eldest, parent)
		node.eldest = firstChild
		firstChild.prev = nil
	}

	tmp := node.sibling
	node.sibling = parent.sibling
	if parent.sibling != nil {
		parent.sibling.prev = node
	}
	parent.sibling = tmp
	if tmp != nil {
		tmp.prev = parent
	}
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

// reseatRootList points the heap's root-list head at repl when old is the
// head, used just before a root starts bubbling down. When old has a
// root-list predecessor, swap relinks that predecessor itself through
// old's prev pointer.
func (h *Heap[T]) reseatRootList(old, repl *Node[T]) {
	if h.trees == old {
		h.trees = repl
	}
}

// Update restores heap order after key's Value has changed in place:
// bubbles key up if it now violates order with its parent, otherwise
// sifts it down if it violates order with a child.
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

// removeRoot unlinks key (already a root) from the root list in O(1) via
// its prev pointer, reverses and reparents its children into their own
// orphan chain, and folds that chain back into the remaining roots.
func (h *Heap[T]) removeRoot(key *Node[T]) *Node[T] {
	if h.trees == key {
		h.trees = key.sibling
		if h.trees != nil {
			h.trees.prev = nil
		}
	} else {
		key.prev.sibling = key.sibling
		if key.sibling != nil {
			key.sibling.prev = key.prev
		}
	}

	var orphans *Node[T]
	for child := key.eldest; child != nil; {
		next := child.sibling
		child.parent = nil
		child.sibling = orphans
		if orphans != nil {
			orphans.prev = child
		}
		child.prev = nil
		orphans = child
		child = next
	}

	if orphans != nil {
		if h.trees != nil {
			h.trees = mergeTrees(h.trees, orphans, h.cmp)
			fixPrev(h.trees)
		} else {
			h.trees = orphans
		}
	}

	h.count--
	key.parent, key.eldest, key.sibling, key.prev, key.order = nil, nil, nil, nil, 0
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
