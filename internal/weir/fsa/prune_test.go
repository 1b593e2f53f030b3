package fsa

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Accessible_DropsUnreachableStates(t *testing.T) {
	assert := assert.New(t)

	f := NewEmpty(4)
	f.Adj[0] = []Edge{{Lo: 0, Hi: 1, To: 1}}
	f.Adj[1] = []Edge{}
	// state 2 and 3 are unreachable from start.
	f.Adj[2] = []Edge{{Lo: 0, Hi: 1, To: 3}}
	f.Finals = []int{1, 3}

	var visited []int
	result := f.Accessible(func(oldID int) { visited = append(visited, oldID) })

	assert.Equal(2, result.N())
	assert.Equal([]int{0, 1}, visited)
	assert.Equal([]int{1}, result.Finals)
}

func Test_CoAccessible_DropsDeadEnds(t *testing.T) {
	assert := assert.New(t)

	// state 0 -> 1 (final), state 0 -> 2 (dead end, no path to any final).
	f := NewEmpty(3)
	f.Adj[0] = []Edge{{Lo: 0, Hi: 1, To: 1}, {Lo: 1, Hi: 2, To: 2}}
	f.Adj[1] = []Edge{}
	f.Adj[2] = []Edge{}
	f.Finals = []int{1}

	result := f.CoAccessible(nil)

	assert.Equal(2, result.N(), "state 2 cannot reach any final and should be dropped")
	assert.Equal(0, result.Start)
	for _, e := range result.Adj[result.Start] {
		assert.NotEqual(int64(1), e.Lo, "the edge to the dropped dead-end state must not survive")
	}
}

func Test_AccessibleThenCoAccessible_Composes(t *testing.T) {
	assert := assert.New(t)

	f := NewEmpty(5)
	f.Adj[0] = []Edge{{Lo: 0, Hi: 1, To: 1}}
	f.Adj[1] = []Edge{{Lo: 0, Hi: 1, To: 2}}
	f.Adj[2] = []Edge{}
	// 3 and 4 are unreachable from start, and 4 cannot reach a final either way.
	f.Adj[3] = []Edge{{Lo: 0, Hi: 1, To: 4}}
	f.Adj[4] = []Edge{}
	f.Finals = []int{2, 3}

	pruned := f.Accessible(nil).CoAccessible(nil)
	assert.Equal(3, pruned.N())
}
