package anno

import (
	"sort"

	"github.com/dekarrin/weir/internal/weir/fsa"
	"github.com/dekarrin/weir/internal/weir/label"
	"github.com/dekarrin/weir/internal/weir/syntax"
)

// AddAssoc implements the add_assoc(expr) policy of spec.md §4.2: after a
// top-level operation, expr is attached to every state of the current
// automaton, tagged start/final/inner by that state's role. It is skipped
// — an optimization that shrinks assoc without changing observable
// behavior — for nodes that carry no actions, belong to a non-intact
// definition, and are not a Collapse.
func AddAssoc(f *FsaAnno, arena *syntax.Arena, id syntax.ExprID) {
	n := arena.Node(id)
	if !n.HasActions() && !n.Intact() && n.Kind != syntax.KindCollapse {
		return
	}
	isFinal := make(map[int]bool, len(f.Fsa.Finals))
	for _, x := range f.Fsa.Finals {
		isFinal[x] = true
	}
	for u := 0; u < f.Fsa.N(); u++ {
		tag := label.TagFor(u == f.Fsa.Start, isFinal[u])
		f.Assoc[u] = normalize(append(f.Assoc[u], AssocEntry{Expr: id, Tag: tag}))
	}
	f.checkInvariant()
}

// Concat destructively turns f into f∘rhs: an epsilon edge is added from
// every final of f to rhs's start, rhs's states are relabeled by +|f|, and
// the combined finals/assoc are taken from rhs.
func (f *FsaAnno) Concat(rhs *FsaAnno) {
	ln := f.Fsa.N()
	for _, fin := range f.Fsa.Finals {
		f.Fsa.Adj[fin] = prependEpsilon(f.Fsa.Adj[fin], ln+rhs.Fsa.Start)
	}
	for _, es := range rhs.Fsa.Adj {
		shifted := make([]fsa.Edge, len(es))
		for i, e := range es {
			shifted[i] = e
			shifted[i].To += ln
		}
		f.Fsa.Adj = append(f.Fsa.Adj, shifted)
	}
	f.Fsa.Finals = make([]int, len(rhs.Fsa.Finals))
	for i, fin := range rhs.Fsa.Finals {
		f.Fsa.Finals[i] = fin + ln
	}
	f.Assoc = append(f.Assoc, rhs.Assoc...)
	f.Deterministic = false
	f.checkInvariant()
}

func prependEpsilon(adj []fsa.Edge, to int) []fsa.Edge {
	out := make([]fsa.Edge, 0, len(adj)+1)
	out = append(out, fsa.Edge{Lo: label.Epsilon, To: to})
	out = append(out, adj...)
	return out
}

// Union destructively turns f into f∪rhs, adding a fresh source state with
// epsilon edges to both starts, and (if id is valid) annotates the result
// with the Union expression node per the add_assoc policy.
func (f *FsaAnno) Union(rhs *FsaAnno, arena *syntax.Arena, id syntax.ExprID) {
	ln := f.Fsa.N()
	oldLStart := f.Fsa.Start
	for _, es := range rhs.Fsa.Adj {
		shifted := make([]fsa.Edge, len(es))
		for i, e := range es {
			shifted[i] = e
			shifted[i].To += ln
		}
		f.Fsa.Adj = append(f.Fsa.Adj, shifted)
	}
	for _, fin := range rhs.Fsa.Finals {
		f.Fsa.Finals = append(f.Fsa.Finals, fin+ln)
	}
	sort.Ints(f.Fsa.Finals)

	src := f.Fsa.N()
	f.Fsa.Adj = append(f.Fsa.Adj, []fsa.Edge{
		{Lo: label.Epsilon, To: oldLStart},
		{Lo: label.Epsilon, To: ln + rhs.Fsa.Start},
	})
	f.Fsa.Start = src

	f.Assoc = append(f.Assoc, rhs.Assoc...)
	f.Assoc = append(f.Assoc, nil)
	f.Deterministic = false
	if id >= 0 {
		AddAssoc(f, arena, id)
	}
	f.checkInvariant()
}

// Star destructively turns f into f* (Kleene star): a fresh source and
// fresh sink are added, epsilon from source to old start and to sink,
// epsilon from every old final back to old start and to sink.
func (f *FsaAnno) Star(arena *syntax.Arena, id syntax.ExprID) {
	src, sink := f.Fsa.N(), f.Fsa.N()+1
	oldStart := f.Fsa.Start
	oldFinals := f.Fsa.Finals

	f.Fsa.Adj = append(f.Fsa.Adj, nil, nil)
	f.Fsa.Adj[src] = []fsa.Edge{{Lo: label.Epsilon, To: oldStart}, {Lo: label.Epsilon, To: sink}}
	for _, fin := range oldFinals {
		f.Fsa.Adj[fin] = append(f.Fsa.Adj[fin],
			fsa.Edge{Lo: label.Epsilon, To: oldStart},
			fsa.Edge{Lo: label.Epsilon, To: sink},
		)
	}
	f.Fsa.Start = src
	f.Fsa.Finals = []int{sink}

	f.Assoc = append(f.Assoc, nil, nil)
	f.Deterministic = false
	if id >= 0 {
		AddAssoc(f, arena, id)
	}
	f.checkInvariant()
}

// Plus destructively turns f into f+ (one-or-more): epsilon edges are added
// from every final back to the start; no new states.
func (f *FsaAnno) Plus(arena *syntax.Arena, id syntax.ExprID) {
	for _, fin := range f.Fsa.Finals {
		f.Fsa.Adj[fin] = append(f.Fsa.Adj[fin], fsa.Edge{Lo: label.Epsilon, To: f.Fsa.Start})
	}
	f.Deterministic = false
	if id >= 0 {
		AddAssoc(f, arena, id)
	}
	f.checkInvariant()
}

// Question destructively turns f into f? (zero-or-one): a fresh source and
// fresh sink are added, epsilon from source to old start and to sink,
// epsilon from every old final to sink.
func (f *FsaAnno) Question(arena *syntax.Arena, id syntax.ExprID) {
	src, sink := f.Fsa.N(), f.Fsa.N()+1
	oldStart := f.Fsa.Start

	f.Fsa.Adj = append(f.Fsa.Adj, nil, nil)
	f.Fsa.Adj[src] = []fsa.Edge{{Lo: label.Epsilon, To: oldStart}, {Lo: label.Epsilon, To: sink}}
	for _, fin := range f.Fsa.Finals {
		f.Fsa.Adj[fin] = append(f.Fsa.Adj[fin], fsa.Edge{Lo: label.Epsilon, To: sink})
	}
	f.Fsa.Start = src
	f.Fsa.Finals = []int{sink}

	f.Assoc = append(f.Assoc, nil, nil)
	f.Deterministic = false
	if id >= 0 {
		AddAssoc(f, arena, id)
	}
	f.checkInvariant()
}
