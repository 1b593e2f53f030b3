// Package anno implements the annotated FSA (spec.md §4.2): an fsa.Fsa
// paired with a per-state multimap from expression node to tag. Every
// structural operation on fsa.Fsa is wrapped here with the bookkeeping rule
// that carries the annotation through correctly.
package anno

import (
	"sort"

	"github.com/dekarrin/weir/internal/weir/fsa"
	"github.com/dekarrin/weir/internal/weir/label"
	"github.com/dekarrin/weir/internal/weir/syntax"
)

// AssocEntry pairs an expression with the tag it carries at some state.
type AssocEntry struct {
	Expr syntax.ExprID
	Tag  label.Tag
}

// Assoc is the per-state sorted, deduplicated sequence of (expression, tag)
// pairs. It is deliberately a sorted slice rather than a hash map (design
// note "assoc as a multimap"): order matters for stable codegen output, and
// union/tag-union are mergesort-style linear passes over it.
type Assoc []AssocEntry

// normalize sorts by expression id and merges duplicate expression entries
// by unioning their tags, the bookkeeping every structural operation needs
// after combining assoc lists from multiple source states.
func normalize(a Assoc) Assoc {
	sort.Slice(a, func(i, j int) bool { return a[i].Expr < a[j].Expr })
	out := a[:0]
	for _, e := range a {
		if n := len(out); n > 0 && out[n-1].Expr == e.Expr {
			out[n-1].Tag = out[n-1].Tag.Union(e.Tag)
			continue
		}
		out = append(out, e)
	}
	return out
}

// unionAll concatenates and normalizes every assoc list in lists.
func unionAll(lists ...Assoc) Assoc {
	var total int
	for _, l := range lists {
		total += len(l)
	}
	merged := make(Assoc, 0, total)
	for _, l := range lists {
		merged = append(merged, l...)
	}
	return normalize(merged)
}

// FsaAnno is an automaton paired with its per-state assoc multimap and the
// flag tracking whether its current shape is deterministic (spec.md §3:
// "After any structural operation that invalidates determinism,
// deterministic is cleared").
type FsaAnno struct {
	Fsa           fsa.Fsa
	Assoc         []Assoc
	Deterministic bool
}

// checkInvariant panics if |Assoc| != N(), an InvariantBroken condition per
// spec.md §7: this is a programming error, not a user-facing one.
func (f *FsaAnno) checkInvariant() {
	if len(f.Assoc) != f.Fsa.N() {
		panic("anno: invariant broken: len(assoc) != fsa.N()")
	}
}
