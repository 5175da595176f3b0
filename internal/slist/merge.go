package slist

import (
	"math/bits"

	"github.com/eth2030/mrheap/heap/compare"
)

// mergeSortedSubs merges source (entirely presorted) into result starting
// the search for insertion points at "at", and returns the last node moved
// from source. It exploits two fast paths: source sorting entirely after
// result (no scan needed), and source fitting entirely before the first
// result node found to exceed it (no per-node scan of source).
func mergeSortedSubs[T any](result *List[T], at *Node[T], source *List[T], cmp compare.Func[T]) *Node[T] {
	ref := source.First()

	if cmp(ref.Value, result.Last().Value) >= 0 {
		resCur := result.Last()
		srcCur := source.Last()
		Splice(result, resCur, source, source.Head(), srcCur)
		return srcCur
	}

	resCur := at
	resNxt := at
	for {
		resNxt = resNxt.next
		if resNxt == nil {
			break
		}
		if cmp(resNxt.Value, ref.Value) > 0 {
			break
		}
		resCur = resNxt
	}

	srcCur := source.Last()

	if resNxt != nil && cmp(resNxt.Value, srcCur.Value) <= 0 {
		srcCur = source.Head()
		srcNxt := srcCur
		for {
			srcNxt = srcNxt.next
			if srcNxt == nil {
				break
			}
			if cmp(srcNxt.Value, resNxt.Value) >= 0 {
				break
			}
			srcCur = srcNxt
		}
	}

	Splice(result, resCur, source, source.Head(), srcCur)
	return srcCur
}

// mergePresort merges two already-sorted lists, moving every node of
// source into result in order. source is drained.
func mergePresort[T any](result, source *List[T], cmp compare.Func[T]) {
	at := result.Head()
	for {
		at = mergeSortedSubs(result, at, source, cmp)
		if source.Empty() {
			return
		}
	}
}

// splitMergeSort repeatedly insertion-sorts a run of runLen nodes off the
// front of list and folds it into a small bounded set of carry lists using
// a binary-counter merge pattern, then merges the carry lists down into
// one sorted list. maxRuns bounds the carry array and must be large enough
// for ceil(log2(nodesNr/runLen)) + 2 slots.
func splitMergeSort[T any](list *List[T], runLen, maxRuns int, cmp compare.Func[T]) {
	subs := make([]List[T], maxRuns)
	for i := range subs {
		subs[i].Init()
	}

	highWater := 0
	for {
		CountedInsertionSort(&subs[0], list, runLen, cmp)

		cnt := 1
		for !subs[cnt].Empty() {
			mergePresort(&subs[cnt], &subs[cnt-1], cmp)
			cnt++
		}
		subs[cnt] = subs[cnt-1]
		subs[cnt-1].Init()

		if cnt > highWater {
			highWater = cnt
		}

		if list.Empty() {
			break
		}
	}

	*list = subs[highWater]
	for highWater > 0 {
		highWater--
		if !subs[highWater].Empty() {
			mergePresort(list, &subs[highWater], cmp)
		}
	}
}

// HybridMergeSort sorts list using insertion sort for runs of runLen nodes
// and merge sort to combine them. nodesNr is the total number of nodes
// linked into list. Stable; uses only O(log n) auxiliary list headers.
func HybridMergeSort[T any](list *List[T], runLen, nodesNr int, cmp compare.Func[T]) {
	maxRuns := bits.TrailingZeros(upperPow2(uint(maxInt(nodesNr/runLen, 2)))) + 2
	splitMergeSort(list, runLen, maxRuns, cmp)
}

// MergeSort sorts list, picking a run length from nodesNr via the same
// heuristic table as the reference library, falling back to plain
// InsertionSort for four nodes or fewer.
func MergeSort[T any](list *List[T], nodesNr int, cmp compare.Func[T]) {
	if nodesNr <= 4 {
		InsertionSort(list, cmp)
		return
	}

	var runLen int
	switch {
	case nodesNr <= 16:
		runLen = 4
	case nodesNr <= 128:
		runLen = 8
	case nodesNr <= 1024:
		runLen = 16
	case nodesNr <= 8*1024:
		runLen = 32
	case nodesNr <= 64*1024:
		runLen = 64
	default:
		runLen = 128
	}

	HybridMergeSort(list, runLen, nodesNr, cmp)
}

func upperPow2(v uint) uint {
	if v <= 1 {
		return 1
	}
	return 1 << bits.Len(v-1)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
