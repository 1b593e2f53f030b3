package fsa

// Product constructs the product automaton of two deterministic, epsilon-free
// automata by worklist over state pairs, sweeping the two sorted adjacency
// lists in tandem and emitting a product transition for every overlapping
// label slice. relate, if non-nil, is invoked once per newly discovered
// product state in the order it is discovered, with the pair of source
// states it was built from — this is how anno rebuilds assoc during
// intersect/difference.
//
// Difference is obtained by first totalizing rhs (Fsa.Totalize) so that
// every interval rhs has no edge for routes to its synthetic sink, then
// calling Product and accepting iff the left state is final and the right
// (possibly-sink) state is not.
func Product(left, right *Fsa, relate func(id, u, v int)) (nodes [][2]int, adj [][]Edge) {
	type pair struct{ u, v int }
	seen := map[pair]int{}
	start := pair{left.Start, right.Start}
	nodes = append(nodes, [2]int{start.u, start.v})
	seen[start] = 0
	if relate != nil {
		relate(0, start.u, start.v)
	}

	for i := 0; i < len(nodes); i++ {
		u, v := nodes[i][0], nodes[i][1]
		var out []Edge

		au, bv := left.Adj[u], right.Adj[v]
		ia, ib := 0, 0
		for ia < len(au) && ib < len(bv) {
			a, b := au[ia], bv[ib]
			lo := a.Lo
			if b.Lo > lo {
				lo = b.Lo
			}
			hi := a.Hi
			if b.Hi < hi {
				hi = b.Hi
			}
			if lo < hi {
				p := pair{a.To, b.To}
				id, ok := seen[p]
				if !ok {
					id = len(nodes)
					seen[p] = id
					nodes = append(nodes, [2]int{p.u, p.v})
					if relate != nil {
						relate(id, p.u, p.v)
					}
				}
				out = append(out, Edge{Lo: lo, Hi: hi, To: id})
			}
			if a.Hi <= b.Hi {
				ia++
			} else {
				ib++
			}
		}
		adj = append(adj, out)
	}
	return nodes, adj
}

// Intersect returns the deterministic automaton accepting L(left) ∩
// L(right). Both must already be deterministic and epsilon-free.
func Intersect(left, right *Fsa, relate func(id, u, v int)) Fsa {
	nodes, adj := Product(left, right, relate)
	r := Fsa{Start: 0, Adj: adj}
	for i, p := range nodes {
		if left.IsFinal(p[0]) && right.IsFinal(p[1]) {
			r.Finals = append(r.Finals, i)
		}
	}
	return r
}

// Difference returns the deterministic automaton accepting L(left) \
// L(right). right must already be totalized over the alphabet the caller
// cares about (Fsa.Totalize); this is the "implicit totalization" of
// spec.md §4.1.
func Difference(left, right *Fsa, relate func(id, u, v int)) Fsa {
	nodes, adj := Product(left, right, relate)
	r := Fsa{Start: 0, Adj: adj}
	for i, p := range nodes {
		if left.IsFinal(p[0]) && !right.IsFinal(p[1]) {
			r.Finals = append(r.Finals, i)
		}
	}
	return r
}
