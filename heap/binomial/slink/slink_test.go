package slink

import (
	"math/rand"
	"testing"

	"github.com/eth2030/mrheap/heap/compare"
)

func TestInsertExtractOrdering(t *testing.T) {
	h := New[int](compare.Natural[int]())
	vals := []int{5, 3, 8, 1, 9, 2, 7, 6, 4, 0}
	for _, v := range vals {
		h.Insert(v)
	}
	if h.Len() != len(vals) {
		t.Fatalf("Len = %d, want %d", h.Len(), len(vals))
	}

	var got []int
	for !h.Empty() {
		n, err := h.Extract()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got = append(got, n.Value)
	}
	for i := 1; i < len(got); i++ {
		if got[i-1] > got[i] {
			t.Fatalf("not ascending: %v", got)
		}
	}
	if h.Len() != 0 {
		t.Fatalf("Len after draining = %d, want 0", h.Len())
	}
}

func TestPeekDoesNotRemove(t *testing.T) {
	h := New[int](compare.Natural[int]())
	h.Insert(3)
	h.Insert(1)
	n, err := h.Peek()
	if err != nil || n.Value != 1 {
		t.Fatalf("Peek = %v, %v, want 1, nil", n, err)
	}
	if h.Len() != 2 {
		t.Fatalf("Len after Peek = %d, want 2", h.Len())
	}
}

func TestExtractEmptyErrors(t *testing.T) {
	h := New[int](compare.Natural[int]())
	if _, err := h.Extract(); err != ErrEmpty {
		t.Fatalf("Extract on empty = %v, want ErrEmpty", err)
	}
	if _, err := h.Peek(); err != ErrEmpty {
		t.Fatalf("Peek on empty = %v, want ErrEmpty", err)
	}
}

func TestMergeCombinesBothHeaps(t *testing.T) {
	a := New[int](compare.Natural[int]())
	b := New[int](compare.Natural[int]())
	for _, v := range []int{5, 3, 9} {
		a.Insert(v)
	}
	for _, v := range []int{2, 8, 1} {
		b.Insert(v)
	}

	a.Merge(b)
	if a.Len() != 6 {
		t.Fatalf("Len after merge = %d, want 6", a.Len())
	}
	if b.Len() != 0 || !b.Empty() {
		t.Fatal("other heap should be emptied by Merge")
	}

	var got []int
	for !a.Empty() {
		n, _ := a.Extract()
		got = append(got, n.Value)
	}
	for i := 1; i < len(got); i++ {
		if got[i-1] > got[i] {
			t.Fatalf("not ascending after merge: %v", got)
		}
	}
}

func TestDecreaseKeyBubblesToRoot(t *testing.T) {
	h := New[int](compare.Natural[int]())
	var handles []*Node[int]
	for _, v := range []int{10, 20, 30, 40, 50, 60, 70, 80} {
		handles = append(handles, h.Insert(v))
	}

	target := handles[len(handles)-1] // value 80
	target.Value = -1
	h.DecreaseKey(target)

	min, err := h.Peek()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if min != target {
		t.Fatalf("Peek returned different node than the decreased one")
	}
	if min.Value != -1 {
		t.Fatalf("Peek().Value = %d, want -1", min.Value)
	}

	var got []int
	for !h.Empty() {
		n, _ := h.Extract()
		got = append(got, n.Value)
	}
	for i := 1; i < len(got); i++ {
		if got[i-1] > got[i] {
			t.Fatalf("not ascending after decrease-key: %v", got)
		}
	}
	if got[0] != -1 {
		t.Fatalf("first extracted = %d, want -1", got[0])
	}
}

func TestUpdateIncreaseSiftsDown(t *testing.T) {
	h := New[int](compare.Natural[int]())
	var handles []*Node[int]
	for _, v := range []int{1, 2, 3, 4, 5, 6, 7, 8} {
		handles = append(handles, h.Insert(v))
	}

	target := handles[0] // value 1, currently the minimum
	target.Value = 100
	h.Update(target)

	var got []int
	for !h.Empty() {
		n, _ := h.Extract()
		got = append(got, n.Value)
	}
	for i := 1; i < len(got); i++ {
		if got[i-1] > got[i] {
			t.Fatalf("not ascending after increase-key: %v", got)
		}
	}
	if got[len(got)-1] != 100 {
		t.Fatalf("last extracted = %d, want 100", got[len(got)-1])
	}
}

func TestRemoveArbitraryNode(t *testing.T) {
	h := New[int](compare.Natural[int]())
	var handles []*Node[int]
	for _, v := range []int{9, 3, 7, 1, 8, 2, 6, 4, 5} {
		handles = append(handles, h.Insert(v))
	}

	var target *Node[int]
	for _, n := range handles {
		if n.Value == 7 {
			target = n
		}
	}
	h.Remove(target)
	if h.Len() != len(handles)-1 {
		t.Fatalf("Len after Remove = %d, want %d", h.Len(), len(handles)-1)
	}

	var got []int
	for !h.Empty() {
		n, _ := h.Extract()
		got = append(got, n.Value)
	}
	for _, v := range got {
		if v == 7 {
			t.Fatal("removed value 7 still present")
		}
	}
	for i := 1; i < len(got); i++ {
		if got[i-1] > got[i] {
			t.Fatalf("not ascending after remove: %v", got)
		}
	}
}

func TestRandomInsertExtractStaysSorted(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	h := New[int](compare.Natural[int]())
	n := 300
	for i := 0; i < n; i++ {
		h.Insert(r.Intn(10000))
	}
	if h.Len() != n {
		t.Fatalf("Len = %d, want %d", h.Len(), n)
	}

	prev := -1
	for !h.Empty() {
		node, err := h.Extract()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if node.Value < prev {
			t.Fatalf("not ascending: %d after %d", node.Value, prev)
		}
		prev = node.Value
	}
}

// rootOrders returns the order of every tree in the root list, in list
// order.
func rootOrders[T any](h *Heap[T]) []int {
	var orders []int
	for r := h.trees; r != nil; r = r.sibling {
		orders = append(orders, r.order)
	}
	return orders
}

// TestInsertSequenceRootOrdersMatchBitsOf17 inserts 0..16 (17 values) and
// checks the root list holds exactly one tree per set bit of 17 (binary
// 10001: bits 0 and 4), then drains in ascending order.
func TestInsertSequenceRootOrdersMatchBitsOf17(t *testing.T) {
	h := New[int](compare.Natural[int]())
	for v := 0; v <= 16; v++ {
		h.Insert(v)
	}
	if h.Len() != 17 {
		t.Fatalf("Len = %d, want 17", h.Len())
	}

	orders := rootOrders(h)
	want := map[int]bool{0: true, 4: true}
	if len(orders) != len(want) {
		t.Fatalf("root orders = %v, want exactly orders %v", orders, want)
	}
	for _, o := range orders {
		if !want[o] {
			t.Fatalf("unexpected root order %d in %v", o, orders)
		}
		delete(want, o)
	}
	if len(want) != 0 {
		t.Fatalf("missing root orders: %v", want)
	}

	var got []int
	for !h.Empty() {
		n, err := h.Extract()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got = append(got, n.Value)
	}
	for i := 0; i <= 16; i++ {
		if got[i] != i {
			t.Fatalf("extract order[%d] = %d, want %d", i, got[i], i)
		}
	}
}

// TestDecreaseKeyExtractOrder builds from [3,23,15,21,6,18,9,12], decreases
// the second-inserted key (23) to 0, and checks the full extract order.
func TestDecreaseKeyExtractOrder(t *testing.T) {
	h := New[int](compare.Natural[int]())
	vals := []int{3, 23, 15, 21, 6, 18, 9, 12}
	var handles []*Node[int]
	for _, v := range vals {
		handles = append(handles, h.Insert(v))
	}

	handles[1].Value = 0
	h.DecreaseKey(handles[1])

	var got []int
	for !h.Empty() {
		n, err := h.Extract()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got = append(got, n.Value)
	}
	want := []int{0, 3, 6, 9, 12, 15, 18, 21}
	if len(got) != len(want) {
		t.Fatalf("extract order = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("extract order = %v, want %v", got, want)
		}
	}
}

func TestDeleteIsRemoveAlias(t *testing.T) {
	h := New[int](compare.Natural[int]())
	a := h.Insert(1)
	h.Insert(2)
	h.Delete(a)
	if h.Len() != 1 {
		t.Fatalf("Len after Delete = %d, want 1", h.Len())
	}
	n, _ := h.Peek()
	if n.Value != 2 {
		t.Fatalf("Peek = %d, want 2", n.Value)
	}
}
