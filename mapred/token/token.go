// Package token implements the tokenizer and token store used by the
// map-reduce word count pipeline: splitting a byte buffer into delimited
// words, registering each occurrence with a counted dedup index, and
// merging two already-flattened token stores into one, grounded on the
// reference library's mapred_tokenize/mapred_token_store family.
//
// The reference keeps one struct wearing two hats per token: an rbtree node
// for O(log n) dedup during tokenize, and an slist node for the sorted
// output the merge phase walks. This package follows that shape with
// internal/avl standing in for the rbtree and internal/slist for the
// output list: Store indexes by token text during the map phase, and
// Flatten walks the AVL tree in order to produce the sorted Result the
// reduce phase merges.
package token

import (
	"bytes"
	"fmt"
	"io"
	"unicode"

	"github.com/eth2030/mrheap/internal/avl"
	"github.com/eth2030/mrheap/internal/perf"
	"github.com/eth2030/mrheap/internal/slist"
)

// Token is one distinct word and how many times it was seen. Data aliases
// into the tokenizer's input buffer; callers must not mutate it.
type Token struct {
	Data  []byte
	Count int
}

// compareTokens orders tokens the way mapred_compare_strings does: a
// memcmp over the shared prefix, ties broken by length. Its sign always
// matches bytes.Compare on the full slices; only the magnitude of a
// length tie-break differs. This ordering decides the output order Dump
// and Merge must agree on.
func compareTokens(a, b Token) int {
	n := len(a.Data)
	if len(b.Data) < n {
		n = len(b.Data)
	}
	if c := bytes.Compare(a.Data[:n], b.Data[:n]); c != 0 {
		return c
	}
	return len(a.Data) - len(b.Data)
}

// isDelim reports whether b separates tokens: whitespace, punctuation, or
// a symbol, mirroring the reference's isspace(c) || ispunct(c) over the
// wider classes unicode.IsPunct/unicode.IsSymbol split out of C's single
// ispunct bucket.
func isDelim(b byte) bool {
	r := rune(b)
	return unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r)
}

// IsDelim reports whether b is a delimiter byte. Exported for the
// scheduler's chunk-boundary adjustment, which needs to check the last
// byte of a candidate chunk before deciding whether to trim it back.
func IsDelim(b byte) bool { return isDelim(b) }

// forwardDelimLen returns how many leading bytes of data are delimiters. A
// NUL byte stops the scan, mirroring mapred_forward_delim_len's
// if (!*ptr) break.
func forwardDelimLen(data []byte) int {
	i := 0
	for i < len(data) && data[i] != 0 && isDelim(data[i]) {
		i++
	}
	return i
}

// forwardTokenLen returns how many leading bytes of data belong to a single
// token, stopping at the first delimiter or NUL byte.
func forwardTokenLen(data []byte) int {
	i := 0
	for i < len(data) && data[i] != 0 && !isDelim(data[i]) {
		i++
	}
	return i
}

// BackwardTokenLen returns how many trailing bytes of data belong to a
// single token, scanning from the end. Used by the scheduler to avoid
// splitting a token across a chunk boundary.
func BackwardTokenLen(data []byte) int {
	n := len(data)
	for n > 0 {
		c := data[n-1]
		if c == 0 || isDelim(c) {
			break
		}
		n--
	}
	return len(data) - n
}

// Store indexes tokens by text during the map phase, for O(log n) dedup
// registration. The zero Store is not usable; construct with New.
type Store struct {
	index *avl.Tree[Token]
	count int // number of distinct tokens registered
}

// New returns an empty Store.
func New() *Store {
	return NewWithCounters(nil)
}

// NewWithCounters returns an empty Store whose registration comparisons
// are recorded on counters. A nil counters is accepted and is a no-op,
// matching internal/perf's usual nil-safe hook contract.
func NewWithCounters(counters *perf.Counters) *Store {
	cmp := func(a, b Token) int {
		counters.Compare()
		return compareTokens(a, b)
	}
	return &Store{index: avl.New[Token](cmp)}
}

// register records one occurrence of a token (the bytes data, which must
// alias into the caller's input and outlive the Store), incrementing its
// count if already present.
func (s *Store) register(data []byte) {
	node, isNew := s.index.Insert(Token{Data: data, Count: 1})
	if isNew {
		s.count++
		return
	}
	node.Value.Count++
}

// Tokenize splits data into delimited tokens and registers each one in s.
// A NUL byte terminates scanning for the remainder of data, matching the
// reference's forward-scan termination rule.
func Tokenize(s *Store, data []byte) {
	for len(data) > 0 {
		data = data[forwardDelimLen(data):]
		if len(data) == 0 {
			break
		}
		n := forwardTokenLen(data)
		if n == 0 {
			// The lead byte is neither a delimiter nor part of a token: a
			// NUL byte. Stop, rather than spin with no progress.
			break
		}
		s.register(data[:n])
		data = data[n:]
	}
}

// Result is a flattened, sorted token list ready for Dump or Merge. Count
// is the number of distinct tokens it holds.
type Result struct {
	List  *slist.List[Token]
	Count int
}

// Flatten walks s's index in ascending order, producing the sorted Result
// the reduce phase works with. s is left usable but is not consulted
// again by this pipeline once flattened.
func (s *Store) Flatten() *Result {
	list := slist.New[Token]()
	s.index.InOrder(func(n *avl.Node[Token]) {
		list.Enqueue(&slist.Node[Token]{Value: n.Value})
	})
	return &Result{List: list, Count: s.count}
}

// leadingRun walks source from its head, counting and returning the last
// node of the leading run of tokens that compare less than boundary's
// value (or the entire remaining list, if boundary is nil).
func leadingRun(source *slist.List[Token], boundary *slist.Node[Token]) (last *slist.Node[Token], count int) {
	cur := source.Head()
	for {
		next := cur.Next()
		if next == nil {
			break
		}
		if boundary != nil && compareTokens(next.Value, boundary.Value) >= 0 {
			break
		}
		count++
		cur = next
	}
	return cur, count
}

// mergeOnce folds source's first token into result, starting the scan for
// its insertion point at "at" (a node already known to belong in result
// before the merge point). It returns the node to resume scanning from on
// the next call, so repeated calls sweep both lists forward monotonically
// instead of rescanning result from its head every time.
//
// Ported from mapred_merge_token_list: scan result forward from at until a
// token no smaller than source's first token is found. If it is equal,
// fold the counts together and drop the one source token. Otherwise,
// splice the whole leading run of source tokens smaller than that
// boundary into result in one O(1) move.
func mergeOnce(result *Result, at *slist.Node[Token], source *Result) *slist.Node[Token] {
	ref := source.List.First().Value

	cur := at
	for {
		next := cur.Next()
		if next == nil {
			break
		}
		if compareTokens(next.Value, ref) >= 0 {
			break
		}
		cur = next
	}
	next := cur.Next()

	if next != nil && compareTokens(next.Value, ref) == 0 {
		next.Value.Count += ref.Count
		source.List.Dequeue()
		source.Count--
		return next
	}

	last, n := leadingRun(source.List, next)
	slist.Splice(result.List, cur, source.List, source.List.Head(), last)
	result.Count += n
	source.Count -= n
	return last
}

// Merge absorbs every token of source into result, in place. source is
// left with an empty List and a zero Count.
func Merge(result, source *Result) {
	at := result.List.Head()
	for !source.List.Empty() {
		at = mergeOnce(result, at, source)
	}
}

// Dump writes one "<token>: <count>\n" line per distinct token in r, in
// order, followed by a summary line, matching mapred_dump_token_store's
// output format exactly. It returns the distinct and total token counts.
func Dump(w io.Writer, r *Result) (unique, total int) {
	r.List.Each(func(n *slist.Node[Token]) {
		unique++
		total += n.Value.Count
		fmt.Fprintf(w, "%s: %d\n", n.Value.Data, n.Value.Count)
	})
	fmt.Fprintf(w, "Total number of tokens: %d unique out of %d\n", unique, total)
	return unique, total
}
