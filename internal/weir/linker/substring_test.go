package linker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/weir/internal/weir/anno"
	"github.com/dekarrin/weir/internal/weir/fsa"
	"github.com/dekarrin/weir/internal/weir/label"
	"github.com/dekarrin/weir/internal/weir/syntax"
)

// Test_notStrictlyInterior exercises the §4.2 "permitted" predicate in
// isolation, per the Open Question decision recorded in DESIGN.md: a state
// is forbidden only when one of its associated expressions carries the
// Inner tag while belonging to an Intact definition.
func Test_notStrictlyInterior(t *testing.T) {
	assert := assert.New(t)
	a := &syntax.Arena{}

	intactDef := &syntax.Definition{Name: "inner", Intact: true}
	intactExpr := a.New(syntax.KindLiteral)
	a.Node(intactExpr).Stmt = intactDef

	looseDef := &syntax.Definition{Name: "outer", Intact: false}
	looseExpr := a.New(syntax.KindLiteral)
	a.Node(looseExpr).Stmt = looseDef

	composite := &anno.FsaAnno{
		Assoc: []anno.Assoc{
			{{Expr: intactExpr, Tag: label.Inner}},                 // strictly interior to an intact def: forbidden
			{{Expr: intactExpr, Tag: label.Start}},                 // boundary of an intact def: permitted
			{{Expr: intactExpr, Tag: label.Final}},                 // boundary of an intact def: permitted
			{{Expr: looseExpr, Tag: label.Inner}},                  // interior, but not intact: permitted
			{{Expr: intactExpr, Tag: label.Inner.Union(label.Start)}}, // both roles at once: the Inner bit still forbids
		},
	}

	assert.False(notStrictlyInterior(composite, a, 0))
	assert.True(notStrictlyInterior(composite, a, 1))
	assert.True(notStrictlyInterior(composite, a, 2))
	assert.True(notStrictlyInterior(composite, a, 3))
	assert.False(notStrictlyInterior(composite, a, 4))
}

// Test_rewriteSubstring_AsymmetricEpsilonRule confirms the asymmetric rule:
// a state tagged strictly-interior-to-an-intact-definition is, by the plain
// notStrictlyInterior predicate, forbidden both as a substring-start and a
// substring-end point — *except* that the original start is always
// permitted as a substring-start regardless of its tags, and the original
// final is always permitted as a substring-end regardless of its tags. Each
// override only ever applies to its own side, which is the asymmetry the
// open question in spec.md §9 asks to verify. Built by hand (rather than
// through a real intact sub-definition) so each override can be isolated.
func Test_rewriteSubstring_AsymmetricEpsilonRule(t *testing.T) {
	assert := assert.New(t)
	a := &syntax.Arena{}

	intactDef := &syntax.Definition{Name: "inner", Intact: true}
	intactExpr := a.New(syntax.KindLiteral)
	a.Node(intactExpr).Stmt = intactDef

	// 3-state chain, every state tagged strictly-interior-to-intactDef so
	// notStrictlyInterior is false everywhere; only the original
	// start/final overrides can make a state permitted.
	f := fsa.NewEmpty(3)
	f.Start = 0
	f.Finals = []int{2}
	composite := &anno.FsaAnno{
		Fsa: f,
		Assoc: []anno.Assoc{
			{{Expr: intactExpr, Tag: label.Inner}}, // orig start, interior-tagged
			{{Expr: intactExpr, Tag: label.Inner}}, // neither start nor final
			{{Expr: intactExpr, Tag: label.Inner}}, // orig final, interior-tagged
		},
	}
	for u := 0; u < 3; u++ {
		assert.False(notStrictlyInterior(composite, a, u), "every state in this fixture is strictly interior to the intact def")
	}

	root := &syntax.Definition{Name: "root", Intact: false}
	rewriteSubstring(composite, root, a)

	src, sink := 3, 4
	assert.Equal(src, composite.Fsa.Start)
	assert.Equal([]int{sink}, composite.Fsa.Finals)

	srcTargets := map[int]bool{}
	for _, e := range composite.Fsa.Adj[src] {
		srcTargets[e.To] = true
	}
	assert.True(srcTargets[0], "the original start is permitted as a substring-start point even though strictly interior to an intact def")
	assert.False(srcTargets[1], "a non-start, strictly-interior state is never a substring-start point")
	assert.False(srcTargets[2], "the original final gets no substring-start override; it is still strictly interior")

	sinksFrom := map[int]bool{}
	for u := 0; u < 3; u++ {
		for _, e := range composite.Fsa.Adj[u] {
			if e.To == sink {
				sinksFrom[u] = true
			}
		}
	}
	assert.False(sinksFrom[0], "the original start gets no substring-end override; it is still strictly interior")
	assert.False(sinksFrom[1], "a non-final, strictly-interior state is never a substring-end point")
	assert.True(sinksFrom[2], "the original final is permitted as a substring-end point even though strictly interior to an intact def")
}
