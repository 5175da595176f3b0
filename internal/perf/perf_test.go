package perf

import "testing"

func TestCountersIncrement(t *testing.T) {
	c := New()
	c.Compare()
	c.Compare()
	c.Swap()

	snap := c.Snapshot()
	if snap.Compares != 2 || snap.Swaps != 1 {
		t.Fatalf("snapshot = %+v, want {Compares:2 Swaps:1}", snap)
	}
}

func TestCountersClear(t *testing.T) {
	c := New()
	c.Compare()
	c.Swap()
	c.Clear()

	snap := c.Snapshot()
	if snap.Compares != 0 || snap.Swaps != 0 {
		t.Fatalf("snapshot after clear = %+v, want zero", snap)
	}
}

func TestNilCountersAreNoop(t *testing.T) {
	var c *Counters
	c.Compare()
	c.Swap()
	c.Clear()

	if snap := c.Snapshot(); snap != (Counters{}) {
		t.Fatalf("nil snapshot = %+v, want zero", snap)
	}
}
