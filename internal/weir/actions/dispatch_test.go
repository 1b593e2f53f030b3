package actions

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/weir/internal/weir/anno"
	"github.com/dekarrin/weir/internal/weir/fsa"
	"github.com/dekarrin/weir/internal/weir/label"
	"github.com/dekarrin/weir/internal/weir/syntax"
)

// Action-set correctness (spec.md §8 property 5), exercised directly against
// computeBody rather than through a full compile, so each category can be
// checked in isolation.
func Test_computeBody_Categories(t *testing.T) {
	assert := assert.New(t)
	a := &syntax.Arena{}

	leftOnly := a.New(syntax.KindLiteral)
	a.Node(leftOnly).Leaving = []syntax.Action{{ID: "leaveX"}}

	rightOnly := a.New(syntax.KindLiteral)
	a.Node(rightOnly).Entering = []syntax.Action{{ID: "enterY"}}

	both := a.New(syntax.KindLiteral)
	a.Node(both).Transiting = []syntax.Action{{ID: "transZ"}}
	a.Node(both).Finishing = []syntax.Action{{ID: "finishZ"}}

	wu := []Entry{
		{Expr: leftOnly, Tag: label.Inner},
		{Expr: both, Tag: label.Inner},
	}
	wv := []Entry{
		{Expr: both, Tag: label.Final},
		{Expr: rightOnly, Tag: label.Start},
	}

	b := computeBody(a, wu, wv)
	assert.Equal([]syntax.Action{{ID: "leaveX"}}, b.Leaving)
	assert.Equal([]syntax.Action{{ID: "enterY"}}, b.Entering)
	assert.Equal([]syntax.Action{{ID: "transZ"}}, b.Transiting)
	assert.Equal([]syntax.Action{{ID: "finishZ"}}, b.Finishing, "finishing fires because both carries Final in wv")
}

func Test_computeBody_TransitingWithoutFinalTagDoesNotFinish(t *testing.T) {
	assert := assert.New(t)
	a := &syntax.Arena{}

	mid := a.New(syntax.KindLiteral)
	a.Node(mid).Transiting = []syntax.Action{{ID: "t"}}
	a.Node(mid).Finishing = []syntax.Action{{ID: "f"}}

	wu := []Entry{{Expr: mid, Tag: label.Inner}}
	wv := []Entry{{Expr: mid, Tag: label.Inner}} // still interior, not final

	b := computeBody(a, wu, wv)
	assert.Equal([]syntax.Action{{ID: "t"}}, b.Transiting)
	assert.Empty(b.Finishing, "finishing requires the Final tag in wv, not merely being in the intersection")
}

func Test_dedupActions_PreservesFirstSeenOrder(t *testing.T) {
	assert := assert.New(t)
	in := []syntax.Action{{ID: "a"}, {ID: "b"}, {ID: "a"}, {ID: "c"}, {ID: "b"}}
	out := dedupActions(in)
	assert.Equal([]syntax.Action{{ID: "a"}, {ID: "b"}, {ID: "c"}}, out)
}

func Test_coalesceCases_MergesAdjacentSameDestinationAndBody(t *testing.T) {
	assert := assert.New(t)
	body := Body{Entering: []syntax.Action{{ID: "e"}}}
	cases := []Case{
		{Lo: 0, Hi: 10, To: 1, Body: body},
		{Lo: 10, Hi: 20, To: 1, Body: body},
		{Lo: 20, Hi: 30, To: 2, Body: body}, // different destination: not merged
	}
	out := coalesceCases(cases)
	assert.Len(out, 2)
	assert.Equal(Case{Lo: 0, Hi: 20, To: 1, Body: body}, out[0])
	assert.Equal(int64(20), out[1].Lo)
	assert.Equal(2, out[1].To)
}

func Test_coalesceCases_DoesNotMergeDifferentBodies(t *testing.T) {
	assert := assert.New(t)
	cases := []Case{
		{Lo: 0, Hi: 10, To: 1, Body: Body{Entering: []syntax.Action{{ID: "a"}}}},
		{Lo: 10, Hi: 20, To: 1, Body: Body{Entering: []syntax.Action{{ID: "b"}}}},
	}
	out := coalesceCases(cases)
	assert.Len(out, 2, "same destination but different fired actions must stay separate cases")
}

func Test_coalesceCases_DoesNotMergeNonAdjacentIntervals(t *testing.T) {
	assert := assert.New(t)
	cases := []Case{
		{Lo: 0, Hi: 10, To: 1},
		{Lo: 20, Hi: 30, To: 1}, // gap between 10 and 20
	}
	out := coalesceCases(cases)
	assert.Len(out, 2)
}

// Compile, IsFinal, and case disjointness over a tiny hand-built
// deterministic automaton: state 0 --['a','b')--> 1 (final), with an
// entering action on the literal.
func Test_Compile_SmallAutomaton(t *testing.T) {
	assert := assert.New(t)
	a := &syntax.Arena{}
	lit := a.New(syntax.KindLiteral)
	a.Node(lit).Literal = "a"
	a.Node(lit).Entering = []syntax.Action{{ID: "go"}}
	a.Node(lit).Finishing = []syntax.Action{{ID: "done"}}

	var pre, post int
	a.AssignPositions(lit, 0, false, &pre, &post)

	f := fsa.NewEmpty(2)
	f.Adj[0] = []fsa.Edge{{Lo: 'a', Hi: 'a' + 1, To: 1}}
	f.Finals = []int{1}
	fa := anno.FsaAnno{
		Fsa: f,
		Assoc: []anno.Assoc{
			{{Expr: lit, Tag: label.Start}},
			{{Expr: lit, Tag: label.Final}},
		},
		Deterministic: true,
	}

	table := Compile(a, &fa)
	assert.Equal(0, table.Start)
	assert.True(table.IsFinal(1))
	assert.False(table.IsFinal(0))
	assert.Len(table.Cases[0], 1)
	c := table.Cases[0][0]
	assert.Equal(1, c.To)
	assert.Equal([]syntax.Action{{ID: "go"}}, c.Body.Entering)
	assert.Equal([]syntax.Action{{ID: "done"}}, c.Body.Finishing)
}
