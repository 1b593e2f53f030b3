// Package codegen emits Go source implementing the dispatch contract of
// spec.md §6 (start/is_final/transit) for a compiled definition's action
// table.
package codegen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/rosed"

	"github.com/dekarrin/weir/internal/weir/actions"
	"github.com/dekarrin/weir/internal/weir/syntax"
)

// Options controls the shape of the emitted Go source.
type Options struct {
	Package    string
	FuncPrefix string // prefixes Start/IsFinal/Transit, e.g. "Main" -> MainStart
	Params     string // opaque pass-through appended to Transit's signature
}

// Generate renders t as a standalone Go source file.
func Generate(name string, t *actions.Table, opts Options) string {
	var b strings.Builder

	header := fmt.Sprintf(
		"Package %s was generated by weir for the %q grammar definition. "+
			"Do not edit it directly; regenerate it from source instead.",
		opts.Package, name,
	)
	wrapped := rosed.Edit(header).Wrap(76).String()
	for _, line := range strings.Split(wrapped, "\n") {
		b.WriteString("// ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "package %s\n\n", opts.Package)

	prefix := opts.FuncPrefix
	if prefix == "" {
		prefix = "Weir"
	}

	fmt.Fprintf(&b, "// %sStart returns the initial state for %s.\n", prefix, name)
	fmt.Fprintf(&b, "func %sStart() int { return %d }\n\n", prefix, t.Start)

	fmt.Fprintf(&b, "// %sIsFinal reports whether u is an accepting state for %s.\n", prefix, name)
	fmt.Fprintf(&b, "func %sIsFinal(u int) bool {\n", prefix)
	fmt.Fprintf(&b, "\tswitch u {\n\tcase %s:\n\t\treturn true\n\tdefault:\n\t\treturn false\n\t}\n}\n\n", joinInts(t.Finals))

	params := opts.Params
	if params != "" && !strings.HasPrefix(strings.TrimSpace(params), ",") {
		params = ", " + params
	}
	fmt.Fprintf(&b, "// %sTransit executes the actions that fire leaving u on symbol c and\n", prefix)
	fmt.Fprintf(&b, "// returns the next state, or -1 if there is no such transition.\n")
	fmt.Fprintf(&b, "func %sTransit(u int, c rune%s) int {\n", prefix, params)
	fmt.Fprintf(&b, "\tswitch u {\n")
	for u, cases := range t.Cases {
		if len(cases) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\tcase %d:\n", u)
		fmt.Fprintf(&b, "\t\tswitch {\n")
		for _, c := range cases {
			fmt.Fprintf(&b, "\t\tcase c >= %d && c < %d:\n", c.Lo, c.Hi)
			emitBody(&b, c.Body, "\t\t\t")
			fmt.Fprintf(&b, "\t\t\treturn %d\n", c.To)
		}
		fmt.Fprintf(&b, "\t\t}\n")
	}
	fmt.Fprintf(&b, "\t}\n\treturn -1\n}\n")

	return b.String()
}

// emitBody writes one call per fired action, in the order C5 settled on,
// each commented with which of the four categories fired it.
func emitBody(b *strings.Builder, body actions.Body, indent string) {
	emit := func(label string, as []syntax.Action) {
		for _, a := range as {
			fmt.Fprintf(b, "%s%s() // %s\n", indent, a.ID, label)
		}
	}
	emit("leaving", body.Leaving)
	emit("entering", body.Entering)
	emit("transiting", body.Transiting)
	emit("finishing", body.Finishing)
}

func joinInts(xs []int) string {
	sorted := append([]int(nil), xs...)
	sort.Ints(sorted)
	strs := make([]string, len(sorted))
	for i, x := range sorted {
		strs[i] = fmt.Sprintf("%d", x)
	}
	return strings.Join(strs, ", ")
}
