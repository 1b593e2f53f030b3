package anno

import (
	"fmt"
	"sort"
	"unicode"

	"golang.org/x/text/unicode/rangetable"

	"github.com/dekarrin/weir/internal/weir/fsa"
	"github.com/dekarrin/weir/internal/weir/label"
	"github.com/dekarrin/weir/internal/weir/syntax"
)

// tagged is a convenience for building a fully-tagged Assoc slice for a leaf
// gadget: {(expr, start)} at 0, {(expr, final)} at nStates-1, {(expr, inner)}
// everywhere in between, matching spec.md §4.2's unconditional leaf rule —
// unlike AddAssoc, leaf gadgets are never skipped by the optimization, since
// they are the base case every other annotation is built from. A two-state
// gadget has no interior states, and a one-state gadget (Epsilon) is both
// start and final at once; label.TagFor already encodes both of those rules
// cleanly, so it is reused here rather than re-deriving them.
func tagged(id syntax.ExprID, nStates int) []Assoc {
	a := make([]Assoc, nStates)
	for u := 0; u < nStates; u++ {
		t := label.TagFor(u == 0, u == nStates-1)
		a[u] = Assoc{{Expr: id, Tag: t}}
	}
	return a
}

// Literal builds the chain gadget for a literal string: len+1 states, one
// byte-labeled edge per character.
func Literal(arena *syntax.Arena, id syntax.ExprID) FsaAnno {
	n := arena.Node(id)
	lit := []byte(n.Literal)
	nStates := len(lit) + 1
	f := fsa.NewEmpty(nStates)
	for i, b := range lit {
		f.Adj[i] = append(f.Adj[i], fsa.Edge{Lo: int64(b), Hi: int64(b) + 1, To: i + 1})
	}
	f.Finals = []int{nStates - 1}
	return FsaAnno{Fsa: f, Assoc: tagged(id, nStates), Deterministic: true}
}

// Dot builds the two-state gadget matching any single ordinary symbol in
// [0, ab).
func Dot(arena *syntax.Arena, id syntax.ExprID, ab int64) FsaAnno {
	f := fsa.NewEmpty(2)
	f.Adj[0] = append(f.Adj[0], fsa.Edge{Lo: 0, Hi: ab, To: 1})
	f.Finals = []int{1}
	return FsaAnno{Fsa: f, Assoc: tagged(id, 2), Deterministic: true}
}

// Bracket builds the two-state gadget matching any symbol whose membership
// bit is set in the node's Charset, coalescing runs of set bits into
// intervals.
func Bracket(arena *syntax.Arena, id syntax.ExprID) FsaAnno {
	n := arena.Node(id)
	f := fsa.NewEmpty(2)
	cs := n.Charset
	i := 0
	for i < len(cs) {
		if !cs[i] {
			i++
			continue
		}
		j := i
		for j < len(cs) && cs[j] {
			j++
		}
		f.Adj[0] = append(f.Adj[0], fsa.Edge{Lo: int64(i), Hi: int64(j), To: 1})
		i = j
	}
	f.Finals = []int{1}
	return FsaAnno{Fsa: f, Assoc: tagged(id, 2), Deterministic: true}
}

// Epsilon builds the single-state gadget accepting only the empty string.
func Epsilon(arena *syntax.Arena, id syntax.ExprID) FsaAnno {
	f := fsa.NewEmpty(1)
	f.Finals = []int{0}
	return FsaAnno{Fsa: f, Assoc: tagged(id, 1), Deterministic: true}
}

// Collapse builds the two-state placeholder gadget whose single edge bears
// a freshly allocated collapse label, to be replaced by epsilon wiring into
// the referenced definition's automaton by internal/weir/linker.
func Collapse(arena *syntax.Arena, id syntax.ExprID, space *label.Space) FsaAnno {
	lbl := space.NewCollapseLabel()
	f := fsa.NewEmpty(2)
	f.Adj[0] = append(f.Adj[0], fsa.Edge{Lo: lbl, Hi: lbl + 1, To: 1})
	f.Finals = []int{1}
	return FsaAnno{Fsa: f, Assoc: tagged(id, 2), Deterministic: true}
}

// UnicodeRange builds the automaton matching the UTF-8 encoding of every
// code point in [node.LoRune, node.HiRune], sharing tail states between
// sequences whose trailing byte ranges coincide (design note
// "Reference-counted Unicode trie in UnicodeRange"). The trie is built
// bottom-up from a single shared final state so that sharing falls out of
// an ordinary memoization cache keyed by the remaining byte-range
// sequence; the whole trie is released at once when the returned FsaAnno
// is discarded, since no node is reachable from outside it.
func UnicodeRange(arena *syntax.Arena, id syntax.ExprID) FsaAnno {
	n := arena.Node(id)
	return unicodeTrie(id, utf8Sequences(n.LoRune, n.HiRune))
}

// UnicodeCategory builds the automaton matching the UTF-8 encoding of any
// code point belonging to one of the named stdlib Unicode tables (general
// categories such as "L" or "Nd", or script names such as "Greek"),
// merged via golang.org/x/text/unicode/rangetable the way a bracket
// expression like `\p{L}` would. It errors if any name is not a known
// category or script.
func UnicodeCategory(arena *syntax.Arena, id syntax.ExprID, names []string) (FsaAnno, error) {
	tables := make([]*unicode.RangeTable, 0, len(names))
	for _, name := range names {
		tbl, ok := unicode.Categories[name]
		if !ok {
			tbl, ok = unicode.Scripts[name]
		}
		if !ok {
			return FsaAnno{}, fmt.Errorf("anno: unknown unicode category or script %q", name)
		}
		tables = append(tables, tbl)
	}
	merged := rangetable.Merge(tables...)

	var seqs []byteSeq
	for _, r16 := range merged.R16 {
		if r16.Stride == 1 {
			seqs = append(seqs, utf8Sequences(rune(r16.Lo), rune(r16.Hi))...)
			continue
		}
		for r := rune(r16.Lo); r <= rune(r16.Hi); r += rune(r16.Stride) {
			seqs = append(seqs, utf8Sequences(r, r)...)
		}
	}
	for _, r32 := range merged.R32 {
		if r32.Stride == 1 {
			seqs = append(seqs, utf8Sequences(rune(r32.Lo), rune(r32.Hi))...)
			continue
		}
		for r := rune(r32.Lo); r <= rune(r32.Hi); r += rune(r32.Stride) {
			seqs = append(seqs, utf8Sequences(r, r)...)
		}
	}
	return unicodeTrie(id, seqs), nil
}

// unicodeTrie builds the shared-tail byte trie common to UnicodeRange and
// UnicodeCategory from an already-decomposed set of byteSeqs.
func unicodeTrie(id syntax.ExprID, seqs []byteSeq) FsaAnno {
	f := fsa.NewEmpty(1) // state 0 reserved for the shared final/accept state
	final := 0
	f.Finals = []int{final}

	tailCache := map[string]int{}
	keyOf := func(seq byteSeq) string {
		b := make([]byte, 0, len(seq)*2)
		for _, r := range seq {
			b = append(b, r.lo, r.hi)
		}
		return string(b)
	}

	var startEdgeList []fsa.Edge

	for _, seq := range seqs {
		if len(seq) == 0 {
			continue
		}
		next := final
		for i := len(seq) - 1; i >= 1; i-- {
			tail := seq[i:]
			k := keyOf(tail)
			if st, ok := tailCache[k]; ok {
				next = st
				continue
			}
			st := f.N()
			f.Adj = append(f.Adj, []fsa.Edge{{Lo: int64(tail[0].lo), Hi: int64(tail[0].hi) + 1, To: next}})
			tailCache[k] = st
			next = st
		}
		first := seq[0]
		startEdgeList = append(startEdgeList, fsa.Edge{Lo: int64(first.lo), Hi: int64(first.hi) + 1, To: next})
	}

	start := f.N()
	f.Adj = append(f.Adj, nil)
	f.Start = start

	sort.Slice(startEdgeList, func(i, j int) bool { return startEdgeList[i].Lo < startEdgeList[j].Lo })
	merged := startEdgeList[:0]
	for _, e := range startEdgeList {
		if n := len(merged); n > 0 && merged[n-1].To == e.To && merged[n-1].Hi == e.Lo {
			merged[n-1].Hi = e.Hi
			continue
		}
		merged = append(merged, e)
	}
	f.Adj[start] = merged

	assoc := make([]Assoc, f.N())
	for u := 0; u < f.N(); u++ {
		t := label.TagFor(u == f.Start, u == final)
		assoc[u] = Assoc{{Expr: id, Tag: t}}
	}
	// Two byteSeqs may share a lead-byte range while needing different
	// tails, so the start state can hold overlapping edges.
	return FsaAnno{Fsa: f, Assoc: assoc, Deterministic: false}
}
