// Package actions implements the action compiler (C5): for every
// deterministic transition of a linked, minimized automaton it computes
// which expressions are left, entered, transited, and finished, and emits
// a deduplicated, case-coalesced dispatch table.
package actions

import (
	"sort"

	"github.com/dekarrin/weir/internal/weir/anno"
	"github.com/dekarrin/weir/internal/weir/label"
	"github.com/dekarrin/weir/internal/weir/syntax"
)

// Entry pairs an expression with the tag it carries in a within() set.
type Entry struct {
	Expr syntax.ExprID
	Tag  label.Tag
}

// Within computes the expression-closure for a state given its assoc list
// (spec.md §4.5): assoc is sorted by expression preorder, then for each
// adjacent pair the ancestor chain of the later expression is walked
// upward to (excluding) its LCA with the previous expression, adding each
// intermediate ancestor with the later expression's tag. The first
// expression in preorder has its full ancestor chain walked up to the
// root, since there is no previous entry to bound the walk. The same
// applies whenever adjacent entries turn out to belong to disjoint trees
// (one tags a Collapse-spliced definition, the other the definition doing
// the collapsing): with no common ancestor to bound the climb, the later
// expression's chain is walked in full too.
//
// The result reconstructs exactly the chain of syntactic contexts state u
// occupies, even when assoc[u] only carries leaves — every ancestor of
// every leaf in assoc[u] is "within" u too.
func Within(arena *syntax.Arena, assocU anno.Assoc) []Entry {
	if len(assocU) == 0 {
		return nil
	}
	entries := append(anno.Assoc(nil), assocU...)
	sort.Slice(entries, func(i, j int) bool {
		return arena.Node(entries[i].Expr).Pre < arena.Node(entries[j].Expr).Pre
	})

	result := map[syntax.ExprID]label.Tag{}
	merge := func(id syntax.ExprID, t label.Tag) {
		result[id] = result[id].Union(t)
	}

	var prev syntax.ExprID
	havePrev := false
	for _, e := range entries {
		merge(e.Expr, e.Tag)

		var stop syntax.ExprID
		hasStop := false
		if havePrev {
			stop, hasStop = arena.CommonAncestor(prev, e.Expr)
		}

		cur := e.Expr
		for {
			n := arena.Node(cur)
			if len(n.Anc) == 0 {
				break
			}
			parent := n.Anc[0]
			if hasStop && parent == stop {
				break
			}
			merge(parent, e.Tag)
			cur = parent
			if hasStop && cur == stop {
				break
			}
		}

		prev = e.Expr
		havePrev = true
	}

	out := make([]Entry, 0, len(result))
	for id, tag := range result {
		out = append(out, Entry{Expr: id, Tag: tag})
	}
	sort.Slice(out, func(i, j int) bool {
		return arena.Node(out[i].Expr).Pre < arena.Node(out[j].Expr).Pre
	})
	return out
}

// has reports whether set contains expr, for the set-difference/
// intersection helpers in dispatch.go.
func has(set []Entry, expr syntax.ExprID) (Entry, bool) {
	// set is sorted by preorder, not by expr id, so a linear scan is used;
	// within() sets are small (bounded by expression-tree depth) so this
	// does not need a binary search or a map.
	for _, e := range set {
		if e.Expr == expr {
			return e, true
		}
	}
	return Entry{}, false
}
