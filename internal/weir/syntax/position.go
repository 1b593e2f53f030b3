package syntax

// maxLift bounds the binary-lifting table depth; 32 levels covers trees up
// to 2^32 deep, far beyond anything a real grammar's expression tree
// reaches.
const maxLift = 32

// children returns id's direct children in left-to-right source order
// (lhs before rhs, inner alone), the order a parser would have produced
// them in. This is deliberately independent of the order
// internal/weir/thompson visits children to build Thompson gadgets (it
// visits the right child first to leave it stashed on a construction
// stack); position numbering always reflects source order.
func (a *Arena) children(id ExprID) []ExprID {
	n := a.Node(id)
	var out []ExprID
	if n.HasLhs {
		out = append(out, n.Lhs)
	}
	if n.HasRhs {
		out = append(out, n.Rhs)
	}
	if n.HasInner {
		out = append(out, n.Inner)
	}
	return out
}

// AssignPositions walks the subtree rooted at root in standard left-to-right
// preorder, filling Pre, Post, Depth, and the binary-lifted Anc table on
// every node reached. When hasParent is true, parent is recorded as root's
// parent (its Anc[0]); when it is false (a top-level definition's root),
// parent is ignored and root gets depth 0 and no ancestors. preCounter and
// postCounter are shared across an entire compile session so that ticks
// are globally unique and comparable across definitions — required for
// Embed, which inlines one definition's tree beneath another's node.
func (a *Arena) AssignPositions(root ExprID, parent ExprID, hasParent bool, preCounter, postCounter *int) {
	n := a.Node(root)
	n.Pre = *preCounter
	*preCounter++

	if hasParent {
		n.Depth = a.Node(parent).Depth + 1
	} else {
		n.Depth = 0
	}

	n.Anc = make([]ExprID, 0, maxLift)
	if hasParent {
		n.Anc = append(n.Anc, parent)
		for k := 1; k < maxLift; k++ {
			prev := n.Anc[k-1]
			prevAnc := a.Node(prev).Anc
			if k-1 >= len(prevAnc) {
				break
			}
			n.Anc = append(n.Anc, prevAnc[k-1])
		}
	}

	for _, c := range a.children(root) {
		a.AssignPositions(c, root, true, preCounter, postCounter)
	}

	n.Post = *postCounter
	*postCounter++
}

// IsAncestor reports whether anc is id itself or an ancestor of id (a
// reflexive test; use IsStrictAncestor for the exclusive form).
func (a *Arena) IsAncestor(anc, id ExprID) bool {
	na, ni := a.Node(anc), a.Node(id)
	return na.Pre <= ni.Pre && ni.Post <= na.Post
}

// IsStrictAncestor reports whether anc is a proper ancestor of id.
func (a *Arena) IsStrictAncestor(anc, id ExprID) bool {
	return anc != id && a.IsAncestor(anc, id)
}

// ancestorAtDepth returns the ancestor of id at the given depth (<=
// id's own depth), using binary lifting: O(log depth).
func (a *Arena) ancestorAtDepth(id ExprID, depth int) ExprID {
	n := a.Node(id)
	diff := n.Depth - depth
	cur := id
	for k := 0; diff > 0; k++ {
		if diff&1 == 1 {
			cur = a.Node(cur).Anc[k]
		}
		diff >>= 1
	}
	return cur
}

// LCA returns the lowest common ancestor of x and y in O(log depth) time
// using the binary-lifted ancestor tables built by AssignPositions. It
// panics if x and y have no common ancestor; callers that may see
// expressions from unrelated definitions (anything touching a Collapse or
// Embed boundary) must use CommonAncestor instead.
func (a *Arena) LCA(x, y ExprID) ExprID {
	anc, ok := a.CommonAncestor(x, y)
	if !ok {
		panic("syntax: LCA called on expressions with no common ancestor")
	}
	return anc
}

// CommonAncestor returns the lowest common ancestor of x and y and true, or
// false if x and y belong to disjoint trees. Disjoint trees arise
// routinely here: a Collapse placeholder's referenced definition is never
// tree-linked to the referencing definition (collapse is resolved by
// epsilon-splicing at link time, not by reparenting expressions, since
// Collapse may participate in mutual recursion and eagerly linking its
// tree the way Embed does would recurse forever on a cycle). When
// determinize/minimize later merges a state from the spliced definition
// with a state from the referencing one, the two expressions tagging that
// merged state simply have no syntactic relationship to report.
func (a *Arena) CommonAncestor(x, y ExprID) (ExprID, bool) {
	if x == y {
		return x, true
	}
	nx, ny := a.Node(x), a.Node(y)
	if nx.Depth < ny.Depth {
		y = a.ancestorAtDepth(y, nx.Depth)
	} else if ny.Depth < nx.Depth {
		x = a.ancestorAtDepth(x, ny.Depth)
	}
	if x == y {
		return x, true
	}
	if len(a.Node(x).Anc) == 0 {
		return 0, false
	}
	for k := len(a.Node(x).Anc) - 1; k >= 0; k-- {
		ax, ay := a.Node(x), a.Node(y)
		if k < len(ax.Anc) && k < len(ay.Anc) && ax.Anc[k] != ay.Anc[k] {
			x = ax.Anc[k]
			y = ay.Anc[k]
		}
	}
	return a.Node(x).Anc[0], true
}
