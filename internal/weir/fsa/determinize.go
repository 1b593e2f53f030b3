package fsa

import "sort"

// sweepPoints returns the sorted, deduplicated set of every interval
// endpoint appearing across edges, excluding epsilon edges.
func sweepPoints(edges []Edge) []int64 {
	pts := make([]int64, 0, 2*len(edges))
	for _, e := range edges {
		if e.isEpsilon() {
			continue
		}
		pts = append(pts, e.Lo, e.Hi)
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

// Determinize performs subset construction: states are sorted sets of NFA
// states after epsilon closure, assigned an integer id on first encounter.
// Transitions out of a subset are computed by a sweep over the union of all
// member states' interval endpoints, taking the epsilon-closure of the
// union of successors on each resulting slice. Ties for which endpoint to
// sweep to next always resolve to the numerically smallest, since the
// endpoints are produced from a sorted merge.
//
// relate, if non-nil, is invoked once per new subset state, in the order
// discovered, with the sorted member list.
func (f *Fsa) Determinize(relate func(id int, members []int)) Fsa {
	type key = string
	toKey := func(xs []int) key {
		b := make([]byte, 0, 8*len(xs))
		for _, x := range xs {
			b = appendVarint(b, int64(x))
		}
		return string(b)
	}

	seen := map[key]int{}
	var subsets [][]int
	start := f.EpsilonClosure([]int{f.Start})
	subsets = append(subsets, start)
	seen[toKey(start)] = 0
	if relate != nil {
		relate(0, start)
	}

	r := Fsa{Start: 0}
	for i := 0; i < len(subsets); i++ {
		members := subsets[i]
		var allEdges []Edge
		for _, m := range members {
			allEdges = append(allEdges, f.Adj[m]...)
		}
		pts := sweepPoints(allEdges)

		var out []Edge
		for j := 0; j+1 < len(pts); j++ {
			lo, hi := pts[j], pts[j+1]
			var succ []int
			for _, e := range allEdges {
				if e.isEpsilon() {
					continue
				}
				if e.Lo <= lo && hi <= e.Hi {
					succ = append(succ, e.To)
				}
			}
			if len(succ) == 0 {
				continue
			}
			sort.Ints(succ)
			succ = dedupInts(succ)
			closure := f.EpsilonClosure(succ)
			k := toKey(closure)
			id, ok := seen[k]
			if !ok {
				id = len(subsets)
				seen[k] = id
				subsets = append(subsets, closure)
				if relate != nil {
					relate(id, closure)
				}
			}
			out = append(out, Edge{Lo: lo, Hi: hi, To: id})
		}
		out = coalesce(out)
		r.Adj = append(r.Adj, out)
	}

	isFinal := make([]bool, f.N())
	for _, x := range f.Finals {
		isFinal[x] = true
	}
	for i, members := range subsets {
		for _, m := range members {
			if isFinal[m] {
				r.Finals = append(r.Finals, i)
				break
			}
		}
	}
	return r
}

// coalesce merges adjacent edges in a sorted, gap-having list that share a
// destination and abut, so that a run of endpoint-sliced intervals that
// ultimately agree collapses back into one interval. The input must already
// be sorted by Lo.
func coalesce(edges []Edge) []Edge {
	if len(edges) == 0 {
		return edges
	}
	out := edges[:1]
	for _, e := range edges[1:] {
		last := &out[len(out)-1]
		if last.To == e.To && last.Hi == e.Lo {
			last.Hi = e.Hi
			continue
		}
		out = append(out, e)
	}
	return out
}

func dedupInts(xs []int) []int {
	if len(xs) == 0 {
		return xs
	}
	out := xs[:1]
	for _, x := range xs[1:] {
		if x != out[len(out)-1] {
			out = append(out, x)
		}
	}
	return out
}

// appendVarint appends a base-128 varint encoding of the non-negative value
// v, used only to build map keys out of sorted state-id lists.
func appendVarint(b []byte, v int64) []byte {
	u := uint64(v)
	for u >= 0x80 {
		b = append(b, byte(u)|0x80)
		u >>= 7
	}
	return append(b, byte(u))
}
