package linker

import (
	"github.com/dekarrin/weir/internal/weir/anno"
	"github.com/dekarrin/weir/internal/weir/fsa"
	"github.com/dekarrin/weir/internal/weir/label"
	"github.com/dekarrin/weir/internal/weir/syntax"
)

// notStrictlyInterior reports whether none of u's associated expressions
// carries the inner tag while belonging to an intact definition — the
// §4.2 "permitted" predicate.
func notStrictlyInterior(composite *anno.FsaAnno, arena *syntax.Arena, u int) bool {
	for _, ae := range composite.Assoc[u] {
		if ae.Tag.Has(label.Inner) && arena.Node(ae.Expr).Intact() {
			return false
		}
	}
	return true
}

// rewriteSubstring applies the substring-grammar transform of spec.md §4.2:
// a fresh source with epsilon edges to every permitted substring-start
// state, and a fresh sink with epsilon back-edges from every permitted
// substring-end state. Per the asymmetric design note ("Open question —
// substring-grammar epsilon to/from inner-tagged states"), the start rule
// and the sink rule differ in which always-permitted state they fold in:
// start-epsilons are permitted to the original start or any
// not-strictly-interior state; sink-epsilons are permitted from an
// original final or any not-strictly-interior state.
func rewriteSubstring(composite *anno.FsaAnno, root *syntax.Definition, arena *syntax.Arena) {
	n := composite.Fsa.N()
	origStart := composite.Fsa.Start
	isOrigFinal := make([]bool, n)
	for _, f := range composite.Fsa.Finals {
		isOrigFinal[f] = true
	}

	src, sink := composite.Fsa.N(), composite.Fsa.N()+1
	composite.Fsa.Adj = append(composite.Fsa.Adj, nil, nil)
	composite.Assoc = append(composite.Assoc, nil, nil)

	for u := 0; u < n; u++ {
		if u == origStart || notStrictlyInterior(composite, arena, u) {
			composite.Fsa.Adj[src] = append(composite.Fsa.Adj[src], fsa.Edge{Lo: label.Epsilon, To: u})
		}
		if isOrigFinal[u] || notStrictlyInterior(composite, arena, u) {
			composite.Fsa.Adj[u] = append(composite.Fsa.Adj[u], fsa.Edge{Lo: label.Epsilon, To: sink})
		}
	}

	composite.Fsa.Start = src
	composite.Fsa.Finals = []int{sink}
}
