package actions

import (
	"sort"

	"github.com/dekarrin/weir/internal/weir/anno"
	"github.com/dekarrin/weir/internal/weir/label"
	"github.com/dekarrin/weir/internal/weir/syntax"
)

// Body is the deduplicated, ordered set of actions a single transition
// fires, split by the four firing categories of spec.md §4.5.
type Body struct {
	Leaving, Entering, Transiting, Finishing []syntax.Action
}

// Case is one outgoing dispatch entry: the half-open label interval
// [Lo, Hi), the destination state, and the actions that fire.
type Case struct {
	Lo, Hi int64
	To     int
	Body   Body
}

// Table is the emitted per-state dispatch for one linked, minimized,
// action-stripped automaton.
type Table struct {
	Start  int
	Finals []int
	Cases  [][]Case // indexed by state id
}

// IsFinal reports whether u is accepting.
func (t *Table) IsFinal(u int) bool {
	i := sort.SearchInts(t.Finals, u)
	return i < len(t.Finals) && t.Finals[i] == u
}

// Compile computes the dispatch table for f, which must already be
// deterministic, minimized, and stripped of action/collapse labels (the
// output of internal/weir/linker.Link).
func Compile(arena *syntax.Arena, f *anno.FsaAnno) *Table {
	t := &Table{Start: f.Fsa.Start, Finals: append([]int(nil), f.Fsa.Finals...), Cases: make([][]Case, f.Fsa.N())}
	sort.Ints(t.Finals)

	withinCache := make([][]Entry, f.Fsa.N())
	withinOf := func(u int) []Entry {
		if withinCache[u] == nil {
			withinCache[u] = Within(arena, f.Assoc[u])
			if withinCache[u] == nil {
				withinCache[u] = []Entry{}
			}
		}
		return withinCache[u]
	}

	for u := 0; u < f.Fsa.N(); u++ {
		wu := withinOf(u)
		var cases []Case
		for _, e := range f.Fsa.Adj[u] {
			wv := withinOf(e.To)
			cases = append(cases, Case{Lo: e.Lo, Hi: e.Hi, To: e.To, Body: computeBody(arena, wu, wv)})
		}
		t.Cases[u] = coalesceCases(cases)
	}
	return t
}

// computeBody implements spec.md §4.5's four set definitions directly off
// two already-sorted (by preorder) within() results.
func computeBody(arena *syntax.Arena, wu, wv []Entry) Body {
	var b Body
	for _, eu := range wu {
		if _, ok := has(wv, eu.Expr); !ok {
			b.Leaving = append(b.Leaving, arena.Node(eu.Expr).Leaving...)
		}
	}
	for _, ev := range wv {
		if _, ok := has(wu, ev.Expr); !ok {
			b.Entering = append(b.Entering, arena.Node(ev.Expr).Entering...)
			continue
		}
		b.Transiting = append(b.Transiting, arena.Node(ev.Expr).Transiting...)
		if ev.Tag.Has(label.Final) {
			b.Finishing = append(b.Finishing, arena.Node(ev.Expr).Finishing...)
		}
	}
	b.Leaving = dedupActions(b.Leaving)
	b.Entering = dedupActions(b.Entering)
	b.Transiting = dedupActions(b.Transiting)
	b.Finishing = dedupActions(b.Finishing)
	return b
}

// dedupActions removes repeated actions by ID, preserving first-seen order
// (entries already arrive ordered by expression preorder, so first-seen
// order is the ordering spec.md §4.5 requires).
func dedupActions(as []syntax.Action) []syntax.Action {
	if len(as) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(as))
	out := as[:0]
	for _, a := range as {
		if seen[a.ID] {
			continue
		}
		seen[a.ID] = true
		out = append(out, a)
	}
	return out
}

func sameBody(a, b Body) bool {
	return sameActions(a.Leaving, b.Leaving) &&
		sameActions(a.Entering, b.Entering) &&
		sameActions(a.Transiting, b.Transiting) &&
		sameActions(a.Finishing, b.Finishing)
}

func sameActions(a, b []syntax.Action) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}

// coalesceCases merges adjacent cases sharing both destination and body
// into a single interval, per spec.md §4.5's final coalescing rule. Input
// cases are assumed sorted by Lo, as produced by a well-formed Fsa
// adjacency list.
func coalesceCases(cases []Case) []Case {
	if len(cases) == 0 {
		return nil
	}
	out := cases[:1]
	for _, c := range cases[1:] {
		last := &out[len(out)-1]
		if last.To == c.To && last.Hi == c.Lo && sameBody(last.Body, c.Body) {
			last.Hi = c.Hi
			continue
		}
		out = append(out, c)
	}
	return out
}
