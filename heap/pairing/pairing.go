// Package pairing implements a lazy pairing heap: insert links a new tree
// as a root sibling in O(1) with no combining, and all the combining work
// happens at extract time via a two-pass pairing sweep over the detached
// root's children. Ported from the reference library's pbnm_heap for its
// handle-stability guarantee, though pbnm_heap itself is structurally an
// eager rank-carry forest (the same family as the binomial heaps) rather
// than a lazy pairing heap — see DESIGN.md for why insert/extract here
// follow the spec's literal lazy two-pass-combine contract instead.
//
// Decrease-key and remove still use pbnm_heap_swap's idea of exchanging
// whole nodes rather than values, same as heap/binomial/slink: a *Node[T]
// returned from Insert is a stable handle for as long as the node lives
// in the heap, regardless of how many times it moves.
package pairing

import (
	"errors"

	"github.com/eth2030/mrheap/heap/compare"
)

// ErrEmpty is returned by Peek and Extract on an empty heap.
var ErrEmpty = errors.New("pairing: heap is empty")

// Node is one pairing-tree node. Insert returns a ready Node.
type Node[T any] struct {
	parent  *Node[T]
	child   *Node[T]
	sibling *Node[T]
	Value   T
}

// Parent returns the node's parent, or nil at a tree root.
func (n *Node[T]) Parent() *Node[T] { return n.parent }

// Child returns the node's first child, or nil.
func (n *Node[T]) Child() *Node[T] { return n.child }

// Sibling returns the next node in the same child or root list, or nil.
func (n *Node[T]) Sibling() *Node[T] { return n.sibling }

// Handle is the stable external reference spec callers expect from a
// pairing heap; here it is simply the node pointer itself, which (like
// heap/binomial/slink) stays valid across swaps because swaps exchange
// link fields, never Value.
type Handle[T any] = *Node[T]

// Heap is a pairing heap over T, ordered by a compare.Func. The zero
// value is not usable; construct with New.
type Heap[T any] struct {
	roots *Node[T]
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

// Insert adds v as a new one-node tree, linked as a root sibling in O(1).
// No combining happens until the next Extract.
func (h *Heap[T]) Insert(v T) Handle[T] {
	node := &Node[T]{Value: v}
	node.sibling = h.roots
	h.roots = node
	h.count++
	return node
}

// Peek returns the minimum-valued node without removing it.
func (h *Heap[T]) Peek() (Handle[T], error) {
	if h.roots == nil {
		return nil, ErrEmpty
	}
	key := h.roots
	for r := key.sibling; r != nil; r = r.sibling {
		if h.cmp(r.Value, key.Value) < 0 {
			key = r
		}
	}
	return key, nil
}

// joinTrees makes the larger-valued root a new child of the smaller,
// prepending it to the child list.
func joinTrees[T any](first, second *Node[T], cmp compare.Func[T]) *Node[T] {
	root, child := first, second
	if cmp(first.Value, second.Value) > 0 {
		root, child = second, first
	}
	child.parent = root
	child.sibling = root.child
	root.child = child
	return root
}

// twoPassCombine reduces a sibling list of former children into one tree:
// left-to-right pairing two at a time, then right-to-left folding all the
// paired trees into one.
func twoPassCombine[T any](children *Node[T], cmp compare.Func[T]) *Node[T] {
	if children == nil {
		return nil
	}

	var paired []*Node[T]
	for cur := children; cur != nil; {
		first := cur
		second := first.sibling
		if second == nil {
			first.sibling = nil
			paired = append(paired, first)
			break
		}
		next := second.sibling
		first.sibling, second.sibling = nil, nil
		paired = append(paired, joinTrees(first, second, cmp))
		cur = next
	}

	result := paired[len(paired)-1]
	for i := len(paired) - 2; i >= 0; i-- {
		result = joinTrees(paired[i], result, cmp)
	}
	return result
}

// unlinkRoot detaches node (already a root) from the root list, combines
// its former children into a single tree via twoPassCombine, and prepends
// that combined tree back as a new root.
func (h *Heap[T]) unlinkRoot(node *Node[T]) {
	if h.roots == node {
		h.roots = node.sibling
	} else {
		prev := h.roots
		for prev.sibling != node {
			prev = prev.sibling
		}
		prev.sibling = node.sibling
	}

	combined := twoPassCombine(node.child, h.cmp)
	node.child, node.sibling, node.parent = nil, nil, nil

	if combined != nil {
		combined.sibling = h.roots
		h.roots = combined
	}
	h.count--
}

// Extract removes and returns the minimum-valued node.
func (h *Heap[T]) Extract() (Handle[T], error) {
	if h.roots == nil {
		return nil, ErrEmpty
	}

	key := h.roots
	for r := key.sibling; r != nil; r = r.sibling {
		if h.cmp(r.Value, key.Value) < 0 {
			key = r
		}
	}

	h.unlinkRoot(key)
	return key, nil
}

// previousSibling walks a sibling list from eldest to find the node
// immediately preceding sibling.
func previousSibling[T any](eldest, sibling *Node[T]) *Node[T] {
	for eldest.sibling != sibling {
		eldest = eldest.sibling
	}
	return eldest
}

// reparentChain walks an entire sibling chain, pointing every member's
// parent field at newParent (see heap/binomial/slink's reparentChain for
// why this must walk the whole chain, not just its head).
func reparentChain[T any](head, newParent *Node[T]) {
	for c := head; c != nil; c = c.sibling {
		c.parent = newParent
	}
}

// swap exchanges the tree-structural fields (parent/child/sibling) of
// parent and node, where node is currently a child of parent. Value never
// moves, so a Handle stays valid across any number of swaps.
func (h *Heap[T]) swap(parent, node *Node[T]) {
	ancestor := parent.parent
	if ancestor != nil {
		if ancestor.child == parent {
			ancestor.child = node
		} else {
			previousSibling(ancestor.child, parent).sibling = node
		}
	}
	node.parent = ancestor

	if parent.child == node {
		grandchild := node.child
		reparentChain(grandchild, parent)
		node.child = parent
		parent.parent = node
		parent.child = grandchild
	} else {
		firstChild := parent.child
		previousSibling(firstChild, node).sibling = parent
		parent.parent = node
		parent.child = node.child
		reparentChain(parent.child, parent)
		node.child = firstChild
		reparentChain(firstChild, node)
	}

	tmp := node.sibling
	node.sibling = parent.sibling
	parent.sibling = tmp
}

// reseatRootList points whichever root-list slot currently holds old at
// repl instead.
func (h *Heap[T]) reseatRootList(old, repl *Node[T]) {
	if h.roots == old {
		h.roots = repl
		return
	}
	prev := h.roots
	for prev.sibling != old {
		prev = prev.sibling
	}
	prev.sibling = repl
}

// Promote restores heap order after node's Value has been lowered, by
// walking it toward the root, swapping with its parent as long as order
// is violated (spec's decrease-key via handle swap).
func (h *Heap[T]) Promote(node *Node[T]) {
	if node.parent == nil || h.cmp(node.parent.Value, node.Value) <= 0 {
		return
	}

	var oldRoot *Node[T]
	for {
		oldRoot = node.parent
		h.swap(node.parent, node)
		if node.parent == nil || h.cmp(node.parent.Value, node.Value) <= 0 {
			break
		}
	}
	if node.parent != nil {
		return
	}
	h.reseatRootList(oldRoot, node)
}

// DecreaseKey is Promote under the name spec callers expect.
func (h *Heap[T]) DecreaseKey(node *Node[T]) { h.Promote(node) }

// forceToRoot walks node to the root regardless of key order, by
// unconditional swaps with each ancestor in turn.
func (h *Heap[T]) forceToRoot(node *Node[T]) {
	if node.parent == nil {
		return
	}
	var oldRoot *Node[T]
	for {
		oldRoot = node.parent
		h.swap(node.parent, node)
		if node.parent == nil {
			break
		}
	}
	h.reseatRootList(oldRoot, node)
}

// Remove detaches node from the heap regardless of its value: promote it
// to the root via forced swaps, then unlink and combine exactly as
// Extract would for whichever node ends up at the root.
func (h *Heap[T]) Remove(node *Node[T]) {
	h.forceToRoot(node)
	h.unlinkRoot(node)
}

// Delete is Remove under the name spec callers expect.
func (h *Heap[T]) Delete(node *Node[T]) { h.Remove(node) }

// Demote restores heap order after node's Value has been raised, by
// removing it and reinserting it as a fresh leaf root (spec's
// increase-key contract: there is no cheaper sift-down in a pairing
// forest, since a node's former children may now violate order against
// its new, larger key).
func (h *Heap[T]) Demote(node *Node[T]) {
	h.forceToRoot(node)
	h.unlinkRoot(node)
	node.sibling = h.roots
	h.roots = node
	h.count++
}

// IncreaseKey is Demote under the name spec callers expect.
func (h *Heap[T]) IncreaseKey(node *Node[T]) { h.Demote(node) }

// Merge absorbs every element of other into h by splicing its root list
// onto h's. other is left empty.
func (h *Heap[T]) Merge(other *Heap[T]) {
	if other.roots == nil {
		return
	}
	if h.roots == nil {
		h.roots = other.roots
	} else {
		tail := other.roots
		for tail.sibling != nil {
			tail = tail.sibling
		}
		tail.sibling = h.roots
		h.roots = other.roots
	}
	h.count += other.count
	other.roots, other.count = nil, 0
}
