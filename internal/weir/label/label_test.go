package label

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_NewSpace_ClampsToMinOrdinary(t *testing.T) {
	assert := assert.New(t)

	s := NewSpace(10) // a grammar only using a handful of ordinary symbols
	assert.Equal(int64(MinOrdinary), s.AB(), "AB never drops below byte-input size")
	assert.Equal(s.AB(), s.ActionBase())
	assert.True(s.CollapseBase() > s.ActionBase())
}

func Test_NewSpace_GrowsForLargerAlphabet(t *testing.T) {
	assert := assert.New(t)

	s := NewSpace(70000) // a UnicodeRange grammar needing codepoints past a byte
	assert.Equal(int64(70001), s.AB())
}

func Test_Zones_AreDisjointAndOrdered(t *testing.T) {
	assert := assert.New(t)
	s := NewSpace(255)

	assert.True(s.IsOrdinary(0))
	assert.True(s.IsOrdinary(255))
	assert.False(s.IsOrdinary(256))
	assert.False(s.IsOrdinary(-1))

	act1 := s.NewActionLabel()
	act2 := s.NewActionLabel()
	assert.NotEqual(act1, act2, "action labels are never reused")
	assert.True(s.IsAction(act1))
	assert.False(s.IsOrdinary(act1))
	assert.False(s.IsCollapse(act1))

	col1 := s.NewCollapseLabel()
	col2 := s.NewCollapseLabel()
	assert.NotEqual(col1, col2)
	assert.True(s.IsCollapse(col1))
	assert.False(s.IsAction(col1))
	assert.False(s.IsOrdinary(col1))

	assert.True(act1 < s.CollapseBase())
	assert.True(col1 >= s.CollapseBase())
}

func Test_NewActionLabel_PanicsWhenReserveExhausted(t *testing.T) {
	assert := assert.New(t)
	s := &Space{ab: 256, collapseBase: 258, nextAction: 256, nextCollapse: 258}

	assert.NotPanics(func() { s.NewActionLabel() })
	assert.NotPanics(func() { s.NewActionLabel() })
	assert.Panics(func() { s.NewActionLabel() }, "once nextAction reaches collapseBase, further allocation is an InvariantBroken condition")
}

func Test_Tag_Union(t *testing.T) {
	assert := assert.New(t)

	t1 := TagFor(true, false)  // Start
	t2 := TagFor(false, true)  // Final
	u := t1.Union(t2)

	assert.True(u.Has(Start))
	assert.True(u.Has(Final))
	assert.False(u.Has(Inner))
}

func Test_TagFor_NeitherStartNorFinalIsInner(t *testing.T) {
	assert := assert.New(t)
	tag := TagFor(false, false)
	assert.Equal(Inner, tag)
}

func Test_TagFor_StartAndFinalTogether(t *testing.T) {
	assert := assert.New(t)
	tag := TagFor(true, true)
	assert.True(tag.Has(Start))
	assert.True(tag.Has(Final))
	assert.False(tag.Has(Inner))
}

func Test_Tag_String(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("none", Tag(0).String())
	assert.Equal("S", Start.String())
	assert.Equal("SF", Start.Union(Final).String())
}
