// Package dotgen renders a compiled definition's dispatch table as
// Graphviz DOT, for visual inspection of the final linked automaton.
package dotgen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/weir/internal/weir/actions"
)

// Generate renders t as a DOT digraph named name.
func Generate(name string, t *actions.Table) string {
	var b strings.Builder
	fmt.Fprintf(&b, "digraph %s {\n", quoteID(name))
	fmt.Fprintf(&b, "\trankdir=LR;\n")
	fmt.Fprintf(&b, "\t__start__ [shape=point];\n")
	fmt.Fprintf(&b, "\t__start__ -> %d;\n", t.Start)

	finals := make(map[int]bool, len(t.Finals))
	for _, f := range t.Finals {
		finals[f] = true
	}

	var states []int
	for u := range t.Cases {
		states = append(states, u)
	}
	sort.Ints(states)
	for _, u := range states {
		shape := "circle"
		if finals[u] {
			shape = "doublecircle"
		}
		fmt.Fprintf(&b, "\t%d [shape=%s];\n", u, shape)
	}

	for _, u := range states {
		for _, c := range t.Cases[u] {
			label := fmt.Sprintf("[%d,%d)", c.Lo, c.Hi)
			if n := actionCount(c.Body); n > 0 {
				label = fmt.Sprintf("%s /%d", label, n)
			}
			fmt.Fprintf(&b, "\t%d -> %d [label=%q];\n", u, c.To, label)
		}
	}

	b.WriteString("}\n")
	return b.String()
}

func actionCount(body actions.Body) int {
	return len(body.Leaving) + len(body.Entering) + len(body.Transiting) + len(body.Finishing)
}

func quoteID(s string) string {
	if s == "" {
		return `"_"`
	}
	for _, r := range s {
		if !(r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			return fmt.Sprintf("%q", s)
		}
	}
	return s
}
