package slist

import "github.com/eth2030/mrheap/heap/compare"

// insertInorder walks from list's sentinel head and splices node into its
// sorted position. Used by both InsertionSort and CountedInsertionSort.
func insertInorder[T any](list *List[T], node *Node[T], cmp compare.Func[T]) {
	prev := list.Head()
	cur := prev.next

	for {
		if cmp(node.Value, cur.Value) < 0 {
			break
		}
		prev = cur
		cur = cur.next
	}

	list.Append(prev, node)
}

// InsertionSort sorts list in place by repeatedly extending a sorted
// prefix. Stable: ties never change relative order, since a node is only
// relocated when it sorts strictly before its current predecessor.
func InsertionSort[T any](list *List[T], cmp compare.Func[T]) {
	if list.Empty() {
		return
	}

	prev := list.First()
	cur := prev.next

	for cur != nil {
		if cmp(cur.Value, prev.Value) < 0 {
			list.Remove(prev, cur)
			insertInorder(list, cur, cmp)
			cur = prev.next
			continue
		}
		prev = cur
		cur = cur.next
	}
}

// CountedInsertionSort insertion-sorts at most count nodes out of source,
// moving the sorted run into result (which must start empty).
func CountedInsertionSort[T any](result, source *List[T], count int, cmp compare.Func[T]) {
	prev := source.First()
	cur := prev.next

	for {
		count--
		if count == 0 || cur == nil {
			break
		}
		if cmp(cur.Value, prev.Value) < 0 {
			source.Remove(prev, cur)
			insertInorder(source, cur, cmp)
			cur = prev.next
			continue
		}
		prev = cur
		cur = cur.next
	}

	Splice(result, result.Head(), source, source.Head(), prev)
}

// SelectionSort sorts list in place by repeatedly moving the minimum of
// the unsorted remainder to the end of the sorted prefix. Stable: the
// minimum is always moved forward, never backward, past equal elements.
func SelectionSort[T any](list *List[T], cmp compare.Func[T]) {
	if list.Empty() {
		return
	}

	tail := list.Head()

	for {
		prev := tail.next
		if prev == list.Last() {
			break
		}
		cur := prev.next
		prevMin, curMin := tail, prev

		for cur != nil {
			if cmp(cur.Value, curMin.Value) < 0 {
				prevMin, curMin = prev, cur
			}
			prev, cur = cur, cur.next
		}

		if curMin != tail.next {
			list.Move(tail, prevMin, curMin)
		}
		tail = curMin
	}
}

// BubbleSort sorts list in place, repeatedly walking the unsorted tail and
// relocating the first out-of-order element to its in-order position.
// Each pass shrinks the unsorted region from the end (the node bubblePass
// returns marks its new boundary); the outer loop stops once a pass
// performs no relocation.
// Stable.
func BubbleSort[T any](list *List[T], cmp compare.Func[T]) {
	if list.Empty() {
		return
	}

	var boundary *Node[T]
	for {
		next, swapped := bubblePass(list, boundary, cmp)
		boundary = next
		if !swapped {
			return
		}
	}
}

// bubblePass performs one left-to-right scan, relocating each element that
// compares greater than its successor to just before the first element it
// no longer exceeds. boundary marks the start of the already-settled tail from
// a previous pass (nil on the first pass).
func bubblePass[T any](list *List[T], boundary *Node[T], cmp compare.Func[T]) (*Node[T], bool) {
	cur := list.Head()
	var swap *Node[T]

	for {
		var prev, nxt *Node[T]
		for {
			prev = cur
			cur = cur.next
			nxt = cur.next
			if nxt == boundary {
				nxt = nil
			}
			if nxt == nil {
				break
			}
			if cmp(cur.Value, nxt.Value) > 0 {
				break
			}
		}

		if nxt == nil {
			return cur, swap != nil
		}

		list.Remove(prev, cur)
		swap = cur
		cur = nxt

		for {
			prev = cur
			cur = cur.next
			if cur == boundary {
				cur = nil
			}
			if cur == nil {
				break
			}
			if cmp(swap.Value, cur.Value) <= 0 {
				break
			}
		}

		list.Append(prev, swap)

		if cur == nil {
			return swap, true
		}
		cur = swap
	}
}
