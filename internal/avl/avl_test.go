package avl

import (
	"math/rand"
	"testing"

	"github.com/eth2030/mrheap/heap/compare"
)

func intTree() *Tree[int] {
	return New[int](compare.Natural[int]())
}

func checkBalanced[T any](t *testing.T, n *Node[T]) int {
	t.Helper()
	if n == nil {
		return 0
	}
	lh := checkBalanced[T](t, n.children[left])
	rh := checkBalanced[T](t, n.children[right])
	diff := rh - lh
	if diff < -1 || diff > 1 {
		t.Fatalf("node %v unbalanced: left height %d, right height %d", n.Value, lh, rh)
	}
	if int(n.balance) != diff {
		t.Fatalf("node %v balance factor %d, want %d", n.Value, n.balance, diff)
	}
	if lh > rh {
		return lh + 1
	}
	return rh + 1
}

func checkParents[T any](t *testing.T, n *Node[T]) {
	t.Helper()
	if n == nil {
		return
	}
	for _, c := range n.children {
		if c != nil && c.parent != n {
			t.Fatalf("child %v parent mismatch", c.Value)
		}
	}
	checkParents(t, n.children[left])
	checkParents(t, n.children[right])
}

func TestInsertAscendingStaysBalanced(t *testing.T) {
	tree := intTree()
	for i := 0; i < 200; i++ {
		tree.Insert(i)
	}
	checkBalanced[int](t, tree.Root())
	checkParents[int](t, tree.Root())
	if tree.Len() != 200 {
		t.Fatalf("Len = %d, want 200", tree.Len())
	}
}

func TestInsertRandomStaysBalanced(t *testing.T) {
	tree := intTree()
	r := rand.New(rand.NewSource(1))
	seen := map[int]bool{}
	for i := 0; i < 500; i++ {
		v := r.Intn(10000)
		tree.Insert(v)
		seen[v] = true
	}
	checkBalanced[int](t, tree.Root())
	checkParents[int](t, tree.Root())
	if tree.Len() != len(seen) {
		t.Fatalf("Len = %d, want %d", tree.Len(), len(seen))
	}
}

func TestInsertDuplicateReturnsExisting(t *testing.T) {
	tree := intTree()
	n1, inserted1 := tree.Insert(5)
	n2, inserted2 := tree.Insert(5)
	if !inserted1 || inserted2 {
		t.Fatal("expected first insert new, second a duplicate")
	}
	if n1 != n2 {
		t.Fatal("expected duplicate insert to return the same node")
	}
	if tree.Len() != 1 {
		t.Fatalf("Len = %d, want 1", tree.Len())
	}
}

func TestFind(t *testing.T) {
	tree := intTree()
	for _, v := range []int{5, 3, 8, 1, 4, 7, 9} {
		tree.Insert(v)
	}
	if n := tree.Find(7); n == nil || n.Value != 7 {
		t.Fatal("expected to find 7")
	}
	if n := tree.Find(100); n != nil {
		t.Fatal("expected not to find 100")
	}
}

func TestInOrderYieldsSorted(t *testing.T) {
	tree := intTree()
	vals := []int{5, 3, 8, 1, 4, 7, 9, 2, 6, 0}
	for _, v := range vals {
		tree.Insert(v)
	}
	got := tree.Values()
	for i := 1; i < len(got); i++ {
		if got[i-1] >= got[i] {
			t.Fatalf("not strictly ascending: %v", got)
		}
	}
	if len(got) != len(vals) {
		t.Fatalf("len = %d, want %d", len(got), len(vals))
	}
}

func TestLoadBalancedAndSorted(t *testing.T) {
	sorted := make([]int, 100)
	for i := range sorted {
		sorted[i] = i
	}
	tree := Load(sorted, compare.Natural[int]())
	checkBalanced[int](t, tree.Root())
	checkParents[int](t, tree.Root())
	got := tree.Values()
	if len(got) != len(sorted) {
		t.Fatalf("len = %d, want %d", len(got), len(sorted))
	}
	for i := range got {
		if got[i] != sorted[i] {
			t.Fatalf("Load produced wrong order at %d: %v", i, got)
		}
	}
}

func TestClone(t *testing.T) {
	tree := intTree()
	for _, v := range []int{5, 3, 8, 1, 4} {
		tree.Insert(v)
	}
	clone := tree.Clone()
	if clone.Len() != tree.Len() {
		t.Fatalf("clone Len = %d, want %d", clone.Len(), tree.Len())
	}

	tree.Insert(100)
	if clone.Find(100) != nil {
		t.Fatal("clone should be independent of later inserts into original")
	}
	if got, want := clone.Values(), []int{1, 3, 4, 5, 8}; !equalInts(got, want) {
		t.Fatalf("clone Values = %v, want %v", got, want)
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
