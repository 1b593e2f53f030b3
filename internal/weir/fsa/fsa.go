// Package fsa implements the bare automaton primitives of the compiler: the
// graph representation, epsilon-closure, product construction, complement,
// subset construction (determinize), and Moore-style partition refinement
// (minimize/distinguish), which re-splits every block until a fixed point
// rather than running Hopcroft's worklist algorithm. None of it knows about expressions or annotations;
// internal/weir/anno wraps every operation here with the bookkeeping needed
// to carry an annotation multimap through it.
//
// These primitives are total: well-formed input never fails them. A
// violated invariant (unsorted edges, an out-of-range state id) is a
// programming error and panics rather than returning an error, matching the
// teacher automaton package's habit of panicking on invariant violations
// (automaton.DFA.AddTransition) rather than threading an error return
// through every call.
package fsa

import (
	"fmt"
	"sort"

	"github.com/dekarrin/weir/internal/weir/label"
)

// Edge is a single outgoing transition: the half-open label interval
// [Lo, Hi) and the destination state. Epsilon edges use Lo == label.Epsilon
// and Hi is unused (left 0) for them.
type Edge struct {
	Lo, Hi int64
	To     int
}

func (e Edge) isEpsilon() bool { return e.Lo == label.Epsilon }

func (e Edge) String() string {
	if e.isEpsilon() {
		return fmt.Sprintf("=(ε)=> %d", e.To)
	}
	return fmt.Sprintf("=([%d,%d))=> %d", e.Lo, e.Hi, e.To)
}

// Fsa is an automaton graph: a start state, a sorted set of accepting
// states, and a per-state sorted adjacency list. State ids are dense in
// [0, N()).
//
// In a deterministic Fsa (tracked externally by anno.FsaAnno.Deterministic,
// not by this type), every adjacency list holds pairwise-disjoint intervals
// and no epsilon edges. Fsa itself does not enforce this; it is a property
// of how a given instance was constructed.
type Fsa struct {
	Start  int
	Finals []int // sorted, unique
	Adj    [][]Edge
}

// N returns the number of states.
func (f *Fsa) N() int { return len(f.Adj) }

// IsFinal reports whether state u is accepting.
func (f *Fsa) IsFinal(u int) bool {
	i := sort.SearchInts(f.Finals, u)
	return i < len(f.Finals) && f.Finals[i] == u
}

// NewEmpty allocates an Fsa with n fresh states, all non-accepting, start 0.
func NewEmpty(n int) Fsa {
	return Fsa{Start: 0, Adj: make([][]Edge, n)}
}

// Clone returns a deep copy of f, safe to mutate independently.
func (f *Fsa) Clone() Fsa {
	r := Fsa{Start: f.Start, Finals: append([]int(nil), f.Finals...), Adj: make([][]Edge, len(f.Adj))}
	for u, es := range f.Adj {
		r.Adj[u] = append([]Edge(nil), es...)
	}
	return r
}

// addEdge appends an edge to u's adjacency list without re-sorting; callers
// that build gadgets in label order may use this directly, everyone else
// should go through sortAdj afterward.
func (f *Fsa) addEdge(u int, e Edge) {
	f.Adj[u] = append(f.Adj[u], e)
}

// sortAdj restores the sortedness invariant on every adjacency list. Epsilon
// edges (Lo == label.Epsilon) sort first since Epsilon is negative.
func (f *Fsa) sortAdj() {
	for u := range f.Adj {
		sort.Slice(f.Adj[u], func(i, j int) bool {
			if f.Adj[u][i].Lo != f.Adj[u][j].Lo {
				return f.Adj[u][i].Lo < f.Adj[u][j].Lo
			}
			return f.Adj[u][i].To < f.Adj[u][j].To
		})
	}
}

func checkState(n, u int, what string) {
	if u < 0 || u >= n {
		panic(fmt.Sprintf("fsa: %s: state %d out of range [0,%d)", what, u, n))
	}
}

// EpsilonClosure expands a sorted set of state ids by all epsilon-reachable
// successors and returns the sorted result. It is idempotent: closing an
// already-closed set returns an equal set.
func (f *Fsa) EpsilonClosure(src []int) []int {
	vis := make(map[int]bool, len(src))
	out := make([]int, 0, len(src))
	queue := make([]int, 0, len(src))
	for _, u := range src {
		checkState(f.N(), u, "epsilon_closure")
		if !vis[u] {
			vis[u] = true
			out = append(out, u)
			queue = append(queue, u)
		}
	}
	for i := 0; i < len(queue); i++ {
		u := queue[i]
		for _, e := range f.Adj[u] {
			if !e.isEpsilon() {
				continue // epsilon edges may follow ordinary ones
			}
			if !vis[e.To] {
				vis[e.To] = true
				out = append(out, e.To)
				queue = append(queue, e.To)
			}
		}
	}
	sort.Ints(out)
	return out
}

// Totalize returns a copy of f with a synthetic sink state added and every
// missing ordinary-alphabet interval [0, ab) routed to it, so that every
// state has an outgoing transition for every ordinary symbol. f must
// already be deterministic (disjoint, epsilon-free adjacency lists); this
// is a precondition checked by the caller (anno.Complement), not here.
func (f *Fsa) Totalize(ab int64) Fsa {
	sink := f.N()
	r := Fsa{Start: f.Start, Finals: append([]int(nil), f.Finals...), Adj: make([][]Edge, sink+1)}
	for u := 0; u < f.N(); u++ {
		last := int64(0)
		for _, e := range f.Adj[u] {
			if last < e.Lo {
				r.Adj[u] = append(r.Adj[u], Edge{Lo: last, Hi: e.Lo, To: sink})
			}
			r.Adj[u] = append(r.Adj[u], e)
			last = e.Hi
		}
		if last < ab {
			r.Adj[u] = append(r.Adj[u], Edge{Lo: last, Hi: ab, To: sink})
		}
	}
	r.Adj[sink] = []Edge{{Lo: 0, Hi: ab, To: sink}}
	return r
}

// Complement returns the complement of f with respect to the ordinary
// alphabet [0, ab). f must be total deterministic over that alphabet;
// Totalize should be called first if it is not (anno.Complement does this).
func (f *Fsa) Complement(ab int64) Fsa {
	r := Fsa{Start: f.Start, Adj: make([][]Edge, f.N())}
	for u := range f.Adj {
		r.Adj[u] = append([]Edge(nil), f.Adj[u]...)
	}
	isFinal := make([]bool, f.N())
	for _, x := range f.Finals {
		isFinal[x] = true
	}
	for u := 0; u < f.N(); u++ {
		if !isFinal[u] {
			r.Finals = append(r.Finals, u)
		}
	}
	return r
}
