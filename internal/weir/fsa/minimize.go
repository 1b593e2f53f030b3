package fsa

import "sort"

// elementaryIntervals returns the globally sorted, deduplicated set of edge
// endpoints across every adjacency list, partitioning the alphabet into the
// maximal runs over which no state's transition behavior can change. Using
// these as the "symbols" for partition refinement is equivalent to
// iterating the union of interval endpoints in the reverse adjacency
// (spec.md §4.1): both approaches refuse to split a block across a point
// where no transition actually changes target.
func (f *Fsa) elementaryIntervals() []int64 {
	var pts []int64
	for u := range f.Adj {
		for _, e := range f.Adj[u] {
			if e.isEpsilon() {
				continue
			}
			pts = append(pts, e.Lo, e.Hi)
		}
	}
	sort.Slice(pts, func(i, j int) bool { return pts[i] < pts[j] })
	out := pts[:0]
	for i, p := range pts {
		if i == 0 || p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	return out
}

// Distinguish computes the minimal deterministic automaton equivalent to f
// via partition refinement: blocks are repeatedly split by the block their
// members' successors land in, for each elementary interval, until a fixed
// point is reached (the Moore-style formulation of Hopcroft distinguishing;
// it yields the same unique minimal result). relate, if non-nil, is invoked
// once per surviving block, in an order determined by the block's smallest
// member id, with the block's member list.
//
// f must be deterministic and epsilon-free.
func (f *Fsa) Distinguish(relate func(members []int)) Fsa {
	n := f.N()
	pts := f.elementaryIntervals()

	nk := len(pts) - 1
	if nk < 0 {
		nk = 0 // no labelled edges at all
	}

	// succ[u][k] = target of state u on elementary interval k, or -1.
	succ := make([][]int, n)
	for u := 0; u < n; u++ {
		succ[u] = make([]int, nk)
		for k := range succ[u] {
			succ[u][k] = -1
		}
		for _, e := range f.Adj[u] {
			if e.isEpsilon() {
				continue
			}
			lo := sort.Search(len(pts), func(i int) bool { return pts[i] >= e.Lo })
			hi := sort.Search(len(pts), func(i int) bool { return pts[i] >= e.Hi })
			for k := lo; k < hi && k < len(succ[u]); k++ {
				succ[u][k] = e.To
			}
		}
	}

	isFinal := make([]bool, n)
	for _, x := range f.Finals {
		isFinal[x] = true
	}

	var partition [][]int
	var fin, nonfin []int
	for u := 0; u < n; u++ {
		if isFinal[u] {
			fin = append(fin, u)
		} else {
			nonfin = append(nonfin, u)
		}
	}
	if len(fin) > 0 {
		partition = append(partition, fin)
	}
	if len(nonfin) > 0 {
		partition = append(partition, nonfin)
	}

	blockOf := make([]int, n)
	for changed := true; changed; {
		changed = false
		for bi, b := range partition {
			for _, u := range b {
				blockOf[u] = bi
			}
		}

		var next [][]int
		for _, b := range partition {
			if len(b) == 1 {
				next = append(next, b)
				continue
			}
			groups := map[string][]int{}
			var order []string
			for _, u := range b {
				sig := make([]byte, 0, len(succ[u])*4)
				for _, s := range succ[u] {
					bi := -1
					if s >= 0 {
						bi = blockOf[s]
					}
					sig = appendVarint(sig, int64(bi+1))
				}
				key := string(sig)
				if _, ok := groups[key]; !ok {
					order = append(order, key)
				}
				groups[key] = append(groups[key], u)
			}
			if len(groups) > 1 {
				changed = true
			}
			for _, k := range order {
				next = append(next, groups[k])
			}
		}
		partition = next
	}

	sort.Slice(partition, func(i, j int) bool {
		return minOf(partition[i]) < minOf(partition[j])
	})
	for bi, b := range partition {
		sort.Ints(b)
		for _, u := range b {
			blockOf[u] = bi
		}
	}

	r := Fsa{Start: blockOf[f.Start]}
	for bi, b := range partition {
		if relate != nil {
			relate(b)
		}
		rep := b[0]
		var out []Edge
		for k, s := range succ[rep] {
			if s < 0 {
				continue
			}
			out = append(out, Edge{Lo: pts[k], Hi: pts[k+1], To: blockOf[s]})
		}
		out = coalesce(out)
		r.Adj = append(r.Adj, out)
		if isFinal[rep] {
			r.Finals = append(r.Finals, bi)
		}
	}
	return r
}

func minOf(xs []int) int {
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}
