package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/weir/internal/weir/actions"
	"github.com/dekarrin/weir/internal/weir/demo"
)

// runTable is a test-only reimplementation of cmd/weirc's data-driven
// transit helper: walk s through t from its start state, returning the
// final state, whether every rune had a transition, and every action ID
// fired along the way in order.
func runTable(t *actions.Table, s string) (final int, ok bool, fired []string) {
	u := t.Start
	for _, c := range s {
		v, body, found := step(t, u, int64(c))
		if !found {
			return u, false, fired
		}
		for _, a := range body.Leaving {
			fired = append(fired, "leaving:"+a.ID)
		}
		for _, a := range body.Entering {
			fired = append(fired, "entering:"+a.ID)
		}
		for _, a := range body.Transiting {
			fired = append(fired, "transiting:"+a.ID)
		}
		for _, a := range body.Finishing {
			fired = append(fired, "finishing:"+a.ID)
		}
		u = v
	}
	return u, true, fired
}

func step(t *actions.Table, u int, c int64) (int, actions.Body, bool) {
	if u < 0 || u >= len(t.Cases) {
		return -1, actions.Body{}, false
	}
	for _, cs := range t.Cases[u] {
		if c >= cs.Lo && c < cs.Hi {
			return cs.To, cs.Body, true
		}
	}
	return -1, actions.Body{}, false
}

// buildAndLink runs a demo scenario all the way through CompileAll,
// CompileExport and CompileActions, the same path cmd/weirc drives.
func buildAndLink(t *testing.T, scenarioName string) (*Session, *actions.Table) {
	t.Helper()
	sc, err := demo.Build(scenarioName)
	require.NoError(t, err)

	sess := New(sc.Arena, 255)
	for _, def := range sc.Defs {
		sess.Register(def)
	}
	require.NoError(t, sess.CompileAll())

	composite, err := sess.CompileExport(sc.Root, sc.Substring)
	require.NoError(t, err)

	table := sess.CompileActions(composite)
	return sess, table
}

// S1: export main = "ab". Entering fires on the first transition, finishing
// on the last.
func Test_S1(t *testing.T) {
	assert := assert.New(t)
	_, table := buildAndLink(t, "s1")

	final, ok, fired := runTable(table, "ab")
	assert.True(ok)
	assert.True(table.IsFinal(final))
	assert.Equal([]string{"entering:enterMain", "finishing:finishMain"}, fired)
}

func Test_S1_WrongInput(t *testing.T) {
	assert := assert.New(t)
	_, table := buildAndLink(t, "s1")

	final, ok, _ := runTable(table, "ac")
	if ok {
		assert.False(table.IsFinal(final))
	}
}

// S2: main = "a"; export top = main "b", with main embedded into top.
// main's finishing actions fire before "b" is consumed, top's after.
func Test_S2(t *testing.T) {
	assert := assert.New(t)
	_, table := buildAndLink(t, "s2")

	final, ok, fired := runTable(table, "ab")
	assert.True(ok)
	assert.True(table.IsFinal(final))
	assert.Equal([]string{"entering:enterMain", "finishing:finishMain", "finishing:finishTop"}, fired)
}

// S3: a = "x"; export b = a|a. Minimization merges the two collapse
// branches into one path, so only one copy of a's actions fires.
func Test_S3(t *testing.T) {
	assert := assert.New(t)
	_, table := buildAndLink(t, "s3")

	final, ok, fired := runTable(table, "x")
	assert.True(ok)
	assert.True(table.IsFinal(final))
	assert.Equal([]string{"entering:enterA", "finishing:finishA"}, fired)

	final, ok, _ = runTable(table, "xx")
	if ok {
		assert.False(table.IsFinal(final), "b accepts exactly L(a), not L(a)+ — \"xx\" must not finish")
	}
}

// S4: export = [0-9]+ - "00". The difference removes "00" specifically.
func Test_S4(t *testing.T) {
	assert := assert.New(t)
	_, table := buildAndLink(t, "s4")

	final, ok, _ := runTable(table, "00")
	assert.True(ok, "00 should have a transition path (it's a prefix of longer digit runs)")
	assert.False(table.IsFinal(final), "00 itself must not be accepted")

	final, ok, _ = runTable(table, "123")
	assert.True(ok)
	assert.True(table.IsFinal(final))

	final, ok, _ = runTable(table, "0")
	assert.True(ok)
	assert.True(table.IsFinal(final), "single 0 is not excluded, only exactly \"00\"")
}

// S5: export hasA = "a" run as a substring grammar. Any string containing
// "a" should accept, with the literal's own actions firing exactly once.
func Test_S5(t *testing.T) {
	assert := assert.New(t)
	_, table := buildAndLink(t, "s5")

	final, ok, fired := runTable(table, "bab")
	assert.True(ok)
	assert.True(table.IsFinal(final))
	assert.Equal([]string{"entering:enterA", "finishing:finishA"}, fired)
}

func Test_S5_NoA(t *testing.T) {
	assert := assert.New(t)
	_, table := buildAndLink(t, "s5")

	final, ok, _ := runTable(table, "bbb")
	if ok {
		assert.False(table.IsFinal(final))
	}
}

// S6: export x = x, a direct Embed cycle. CompileAll must fail with a
// diagnostic naming the cycle rather than recursing forever.
func Test_S6_CycleRejected(t *testing.T) {
	assert := assert.New(t)
	sc, err := demo.Build("s6")
	assert.NoError(err)

	sess := New(sc.Arena, 255)
	for _, def := range sc.Defs {
		sess.Register(def)
	}
	err = sess.CompileAll()
	assert.Error(err)
	assert.Contains(err.Error(), "circular embedding")
}

// Determinism of the emitted automaton (spec.md §8 property 1): transit is
// a function of (u, c).
func Test_Determinism(t *testing.T) {
	assert := assert.New(t)
	for _, name := range []string{"s1", "s2", "s3", "s4", "s5"} {
		_, table := buildAndLink(t, name)
		for u, cases := range table.Cases {
			for i := range cases {
				for j := range cases {
					if i == j {
						continue
					}
					overlap := cases[i].Lo < cases[j].Hi && cases[j].Lo < cases[i].Hi
					assert.False(overlap, "scenario %s: state %d has overlapping cases %v and %v", name, u, cases[i], cases[j])
				}
			}
		}
	}
}
