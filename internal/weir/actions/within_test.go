package actions

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/weir/internal/weir/anno"
	"github.com/dekarrin/weir/internal/weir/label"
	"github.com/dekarrin/weir/internal/weir/syntax"
)

// tree builds: concat(union(lit_a, lit_b), lit_c) with positions assigned,
// returning the ids for use by the within() tests below.
func tree(t *testing.T) (a *syntax.Arena, root, un, la, lb, lc syntax.ExprID) {
	t.Helper()
	a = &syntax.Arena{}
	la = a.New(syntax.KindLiteral)
	lb = a.New(syntax.KindLiteral)
	un = a.New(syntax.KindUnion)
	a.Node(un).Lhs, a.Node(un).HasLhs = la, true
	a.Node(un).Rhs, a.Node(un).HasRhs = lb, true

	lc = a.New(syntax.KindLiteral)
	root = a.New(syntax.KindConcat)
	a.Node(root).Lhs, a.Node(root).HasLhs = un, true
	a.Node(root).Rhs, a.Node(root).HasRhs = lc, true

	var pre, post int
	a.AssignPositions(root, 0, false, &pre, &post)
	return
}

func hasExpr(entries []Entry, id syntax.ExprID) bool {
	for _, e := range entries {
		if e.Expr == id {
			return true
		}
	}
	return false
}

func Test_Within_Empty(t *testing.T) {
	assert := assert.New(t)
	assert.Nil(Within(&syntax.Arena{}, nil))
}

func Test_Within_SingleLeaf_IncludesEveryAncestor(t *testing.T) {
	assert := assert.New(t)
	a, root, un, la, _, _ := tree(t)

	w := Within(a, anno.Assoc{{Expr: la, Tag: label.Start}})
	assert.True(hasExpr(w, la))
	assert.True(hasExpr(w, un), "la's parent must be within() too")
	assert.True(hasExpr(w, root), "la's grandparent must be within() too")
}

func Test_Within_TwoLeaves_StopsAtLCA(t *testing.T) {
	assert := assert.New(t)
	a, root, un, la, lb, _ := tree(t)

	// la and lb are siblings under un: their LCA is un itself, so the walk
	// from each leaf must not re-walk past un.
	w := Within(a, anno.Assoc{
		{Expr: la, Tag: label.Final},
		{Expr: lb, Tag: label.Start},
	})
	assert.True(hasExpr(w, la))
	assert.True(hasExpr(w, lb))
	assert.True(hasExpr(w, un))
	assert.True(hasExpr(w, root), "un's own ancestor chain is still walked once")
}

func Test_Within_LeafAndCousin_IncludesPathToRoot(t *testing.T) {
	assert := assert.New(t)
	a, root, un, la, _, lc := tree(t)

	w := Within(a, anno.Assoc{
		{Expr: la, Tag: label.Start},
		{Expr: lc, Tag: label.Final},
	})
	assert.True(hasExpr(w, la))
	assert.True(hasExpr(w, lc))
	assert.True(hasExpr(w, un))
	assert.True(hasExpr(w, root))
}

// Expression-closure consistency (spec.md §8 property 4): x is within(u)
// iff some descendant of x appears directly in assoc[u].
func Test_Within_ConsistencyProperty(t *testing.T) {
	assert := assert.New(t)
	a, root, un, la, lb, lc := tree(t)

	assocU := anno.Assoc{{Expr: la, Tag: label.Final}}
	w := Within(a, assocU)

	for _, candidate := range []syntax.ExprID{root, un, la, lb, lc} {
		isAncestorOfSomeAssoc := false
		for _, e := range assocU {
			if a.IsAncestor(candidate, e.Expr) {
				isAncestorOfSomeAssoc = true
				break
			}
		}
		assert.Equal(isAncestorOfSomeAssoc, hasExpr(w, candidate), "mismatch for expr %d", candidate)
	}
}

func Test_Within_TagPreserved(t *testing.T) {
	assert := assert.New(t)
	a, _, _, la, _, _ := tree(t)

	w := Within(a, anno.Assoc{{Expr: la, Tag: label.Start.Union(label.Final)}})
	for _, e := range w {
		if e.Expr == la {
			assert.True(e.Tag.Has(label.Start))
			assert.True(e.Tag.Has(label.Final))
		}
	}
}
