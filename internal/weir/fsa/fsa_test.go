package fsa

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/weir/internal/weir/label"
)

func Test_EpsilonClosure(t *testing.T) {
	testCases := []struct {
		name   string
		build  func() Fsa
		src    []int
		expect []int
	}{
		{
			name: "no epsilon edges",
			build: func() Fsa {
				f := NewEmpty(2)
				f.Adj[0] = []Edge{{Lo: 0, Hi: 1, To: 1}}
				return f
			},
			src:    []int{0},
			expect: []int{0},
		},
		{
			name: "chain of epsilons",
			build: func() Fsa {
				f := NewEmpty(3)
				f.Adj[0] = []Edge{{Lo: label.Epsilon, To: 1}}
				f.Adj[1] = []Edge{{Lo: label.Epsilon, To: 2}}
				return f
			},
			src:    []int{0},
			expect: []int{0, 1, 2},
		},
		{
			name: "epsilon edges after ordinary edges still found",
			build: func() Fsa {
				f := NewEmpty(3)
				f.Adj[0] = []Edge{{Lo: 0, Hi: 1, To: 2}, {Lo: label.Epsilon, To: 1}}
				return f
			},
			src:    []int{0},
			expect: []int{0, 1},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			f := tc.build()
			actual := f.EpsilonClosure(tc.src)
			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_EpsilonClosure_Idempotent(t *testing.T) {
	assert := assert.New(t)
	f := NewEmpty(4)
	f.Adj[0] = []Edge{{Lo: label.Epsilon, To: 1}}
	f.Adj[1] = []Edge{{Lo: label.Epsilon, To: 2}, {Lo: label.Epsilon, To: 3}}

	once := f.EpsilonClosure([]int{0})
	twice := f.EpsilonClosure(once)
	assert.Equal(once, twice)
}

func Test_Totalize(t *testing.T) {
	assert := assert.New(t)

	f := NewEmpty(2)
	f.Adj[0] = []Edge{{Lo: 0, Hi: 1, To: 1}}
	f.Finals = []int{1}

	tot := f.Totalize(2)

	assert.Equal(3, tot.N())
	sink := 2
	// state 0 keeps its edge to 1 for symbol 0, and gets routed to sink for symbol 1.
	assert.Len(tot.Adj[0], 2)
	assert.Equal(Edge{Lo: 0, Hi: 1, To: 1}, tot.Adj[0][0])
	assert.Equal(Edge{Lo: 1, Hi: 2, To: sink}, tot.Adj[0][1])
	// state 1 had no edges at all, so it gets one big sink edge.
	assert.Equal([]Edge{{Lo: 0, Hi: 2, To: sink}}, tot.Adj[1])
	// sink self-loops on everything.
	assert.Equal([]Edge{{Lo: 0, Hi: 2, To: sink}}, tot.Adj[sink])
}

func Test_Complement(t *testing.T) {
	assert := assert.New(t)

	f := NewEmpty(2)
	f.Adj[0] = []Edge{{Lo: 0, Hi: 2, To: 1}}
	f.Adj[1] = []Edge{{Lo: 0, Hi: 2, To: 1}}
	f.Finals = []int{1}

	comp := f.Complement(2)

	assert.Equal([]int{0}, comp.Finals)
	assert.Equal(f.Adj[0], comp.Adj[0])
	assert.Equal(f.Adj[1], comp.Adj[1])
}

func Test_Clone_IsIndependent(t *testing.T) {
	assert := assert.New(t)

	f := NewEmpty(2)
	f.Adj[0] = []Edge{{Lo: 0, Hi: 1, To: 1}}
	f.Finals = []int{1}

	cp := f.Clone()
	cp.Adj[0][0].To = 0
	cp.Finals[0] = 0

	assert.Equal(1, f.Adj[0][0].To)
	assert.Equal(1, f.Finals[0])
}

func Test_IsFinal(t *testing.T) {
	assert := assert.New(t)
	f := NewEmpty(3)
	f.Finals = []int{0, 2}
	assert.True(f.IsFinal(0))
	assert.False(f.IsFinal(1))
	assert.True(f.IsFinal(2))
}
