package fsa

import "sort"

// Accessible restricts f to states reachable forward from Start, renumbering
// survivors to [0, n'). relate, if non-nil, is invoked in increasing new-id
// order with each survivor's old id.
func (f *Fsa) Accessible(relate func(oldID int)) Fsa {
	n := f.N()
	reached := make([]bool, n)
	order := []int{f.Start}
	reached[f.Start] = true
	for i := 0; i < len(order); i++ {
		u := order[i]
		for _, e := range f.Adj[u] {
			if !reached[e.To] {
				reached[e.To] = true
				order = append(order, e.To)
			}
		}
	}
	return f.renumber(order, relate)
}

// CoAccessible restricts f to states that can reach some final, renumbering
// survivors to [0, n'). relate, if non-nil, is invoked in increasing new-id
// order with each survivor's old id.
func (f *Fsa) CoAccessible(relate func(oldID int)) Fsa {
	n := f.N()
	radj := make([][]int, n)
	for u := 0; u < n; u++ {
		for _, e := range f.Adj[u] {
			radj[e.To] = append(radj[e.To], u)
		}
	}
	reached := make([]bool, n)
	var order []int
	for _, fin := range f.Finals {
		if !reached[fin] {
			reached[fin] = true
			order = append(order, fin)
		}
	}
	for i := 0; i < len(order); i++ {
		u := order[i]
		for _, p := range radj[u] {
			if !reached[p] {
				reached[p] = true
				order = append(order, p)
			}
		}
	}
	// Preserve ascending old-id order among survivors rather than the
	// backward-BFS discovery order, so Start (id 0 in any freshly built
	// automaton) sorts first whenever it survives.
	var ascending []int
	for u := 0; u < n; u++ {
		if reached[u] {
			ascending = append(ascending, u)
		}
	}
	return f.renumber(ascending, relate)
}

// renumber builds the sub-automaton induced by the given old-id order
// (which becomes the new numbering 0..len(order)-1), dropping edges to
// states not present in order.
func (f *Fsa) renumber(order []int, relate func(oldID int)) Fsa {
	newID := make(map[int]int, len(order))
	for i, u := range order {
		newID[u] = i
	}
	r := Fsa{Adj: make([][]Edge, len(order))}
	if nu, ok := newID[f.Start]; ok {
		r.Start = nu
	}
	for i, u := range order {
		if relate != nil {
			relate(u)
		}
		for _, e := range f.Adj[u] {
			if to, ok := newID[e.To]; ok {
				r.Adj[i] = append(r.Adj[i], Edge{Lo: e.Lo, Hi: e.Hi, To: to})
			}
		}
	}
	for _, fin := range f.Finals {
		if nu, ok := newID[fin]; ok {
			r.Finals = append(r.Finals, nu)
		}
	}
	sort.Ints(r.Finals)
	return r
}
