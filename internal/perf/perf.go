// Package perf provides an optional performance-counter hook for the sort
// and heap-build entry points. Counters are owned per call site rather than
// held in process-global state, so concurrent callers never interfere with
// each other's counts.
package perf

// Counters tracks comparisons and swaps performed by a single sort or build
// call. A nil *Counters is valid everywhere a *Counters is accepted: Compare
// and Swap become no-ops, matching a build with the hook compiled out.
type Counters struct {
	Compares uint64
	Swaps    uint64
}

// New returns a zeroed Counters.
func New() *Counters {
	return &Counters{}
}

// Compare increments the comparison counter. Safe to call on a nil receiver.
func (c *Counters) Compare() {
	if c == nil {
		return
	}
	c.Compares++
}

// Swap increments the swap counter. Safe to call on a nil receiver.
func (c *Counters) Swap() {
	if c == nil {
		return
	}
	c.Swaps++
}

// Snapshot returns a value copy of the current counts.
func (c *Counters) Snapshot() Counters {
	if c == nil {
		return Counters{}
	}
	return *c
}

// Clear resets both counters to zero.
func (c *Counters) Clear() {
	if c == nil {
		return
	}
	*c = Counters{}
}
