/*
Weirc drives the weir compiler pipeline — Thompson build, cross-definition
linking, and action-table compilation — over one of the built-in
demonstration scenarios (the surface-syntax grammar parser is out of scope;
see internal/weir/demo) and either emits the resulting dispatch table as Go
or Graphviz source, or drops into an interactive loop that feeds typed lines
through the compiled table one rune at a time.

Usage:

	weirc [flags]

The flags are:

	-v, --version
		Print the current version of weir and exit.

	-s, --scenario NAME
		Which built-in demo scenario to compile. Defaults to "s1". Use
		--list to see every scenario name and its grammar.

	-l, --list
		List every demo scenario name and description, then exit.

	-e, --export NAME
		Export and link the named definition instead of the scenario's
		default root.

	-b, --backend go|dot
		Which back-end emits the compiled table. Defaults to "go".

	-o, --out FILE
		Write emitted source to FILE instead of stdout.

	-p, --package NAME
		Package name for the "go" backend. Defaults to "weirout".

	-r, --repl
		Skip code generation and instead read lines from stdin, feeding
		each rune through the compiled table and reporting the state
		trajectory and fired actions.

	-d, --direct
		In --repl mode, force reading directly from stdin instead of
		through GNU readline.

Exit codes are 0 on success, 1 if the scenario fails to compile or the
--out file cannot be written, and 2 if the command-line arguments
themselves are invalid.
*/
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/dekarrin/weir/internal/version"
	"github.com/dekarrin/weir/internal/weir/actions"
	"github.com/dekarrin/weir/internal/weir/codegen"
	"github.com/dekarrin/weir/internal/weir/demo"
	"github.com/dekarrin/weir/internal/weir/dotgen"
	"github.com/dekarrin/weir/internal/weir/input"
	"github.com/dekarrin/weir/internal/weir/session"
)

// lineReader is the subset of input.DirectLineReader/InteractiveLineReader
// that runRepl needs.
type lineReader interface {
	ReadLine() (string, error)
	Close() error
}

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitCompileError indicates the chosen scenario failed to compile.
	ExitCompileError

	// ExitUsageError indicates invalid command-line arguments.
	ExitUsageError
)

var (
	returnCode int = ExitSuccess

	flagVersion *bool   = pflag.BoolP("version", "v", false, "Print the current version of weir and exit")
	flagList    *bool   = pflag.BoolP("list", "l", false, "List every demo scenario and exit")
	flagScene   *string = pflag.StringP("scenario", "s", "s1", "Which built-in demo scenario to compile")
	flagExport  *string = pflag.StringP("export", "e", "", "Export and link this definition instead of the scenario's default root")
	flagBackend *string = pflag.StringP("backend", "b", "go", "Emitting back-end: go or dot")
	flagOut     *string = pflag.StringP("out", "o", "", "Write emitted source to this file instead of stdout")
	flagPackage *string = pflag.StringP("package", "p", "weirout", "Package name for the go backend")
	flagRepl    *bool   = pflag.BoolP("repl", "r", false, "Read lines from stdin and feed them through the compiled table")
	flagDirect  *bool   = pflag.BoolP("direct", "d", false, "In --repl mode, force reading directly from stdin instead of readline")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	if *flagList {
		for _, name := range demo.Names() {
			sc, err := demo.Build(name)
			if err != nil {
				fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
				returnCode = ExitCompileError
				return
			}
			fmt.Printf("%s: %s\n", sc.Name, sc.Description)
		}
		return
	}

	sc, err := demo.Build(*flagScene)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		returnCode = ExitUsageError
		return
	}

	exportName := sc.Root
	if *flagExport != "" {
		exportName = *flagExport
	}

	sess := session.New(sc.Arena, 255)
	for _, def := range sc.Defs {
		sess.Register(def)
	}
	if err := sess.CompileAll(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		returnCode = ExitCompileError
		return
	}

	composite, err := sess.CompileExport(exportName, sc.Substring)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		returnCode = ExitCompileError
		return
	}
	table := sess.CompileActions(composite)

	if *flagRepl {
		runRepl(table, *flagDirect)
		return
	}

	out, err := render(exportName, table)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		returnCode = ExitUsageError
		return
	}

	if *flagOut == "" {
		fmt.Print(out)
		return
	}
	if err := os.WriteFile(*flagOut, []byte(out), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		returnCode = ExitCompileError
	}
}

func render(name string, t *actions.Table) (string, error) {
	switch strings.ToLower(*flagBackend) {
	case "go":
		return codegen.Generate(name, t, codegen.Options{Package: *flagPackage, FuncPrefix: titleCase(name)}), nil
	case "dot":
		return dotgen.Generate(name, t), nil
	default:
		return "", fmt.Errorf("unknown backend %q (want \"go\" or \"dot\")", *flagBackend)
	}
}

// runRepl reads lines from stdin (directly, or via readline unless
// direct is true) and for each one walks the compiled table rune by rune,
// printing the state trajectory and every action that fires.
func runRepl(t *actions.Table, direct bool) {
	var r lineReader
	if direct {
		r = input.NewDirectReader(os.Stdin)
	} else {
		ir, err := input.NewInteractiveReader("weir> ")
		if err != nil {
			r = input.NewDirectReader(os.Stdin)
		} else {
			r = ir
		}
	}
	defer r.Close()

	fmt.Printf("start=%d finals=%v; type a line to run it through the table, end of input to quit\n", t.Start, t.Finals)
	for {
		line, err := r.ReadLine()
		if err != nil {
			return
		}
		runLine(t, line)
	}
}

func runLine(t *actions.Table, line string) {
	u := t.Start
	fmt.Printf("s%d", u)
	ok := true
	for _, c := range line {
		v, body := transit(t, u, int64(c))
		if v < 0 {
			fmt.Printf(" -x %q-> (no transition)\n", c)
			ok = false
			break
		}
		fmt.Printf(" -%q-> s%d", c, v)
		printFired(body)
		u = v
	}
	if !ok {
		return
	}
	if t.IsFinal(u) {
		fmt.Printf(" [accept]\n")
	} else {
		fmt.Printf(" [reject]\n")
	}
}

// transit is a direct data-driven reimplementation of the switch codegen
// emits, used so the repl can execute a table without generating and
// compiling Go source for it.
func transit(t *actions.Table, u int, c int64) (int, actions.Body) {
	if u < 0 || u >= len(t.Cases) {
		return -1, actions.Body{}
	}
	for _, cs := range t.Cases[u] {
		if c >= cs.Lo && c < cs.Hi {
			return cs.To, cs.Body
		}
	}
	return -1, actions.Body{}
}

func printFired(b actions.Body) {
	for _, a := range b.Leaving {
		fmt.Printf(" [leaving %s]", a.ID)
	}
	for _, a := range b.Entering {
		fmt.Printf(" [entering %s]", a.ID)
	}
	for _, a := range b.Transiting {
		fmt.Printf(" [transiting %s]", a.ID)
	}
	for _, a := range b.Finishing {
		fmt.Printf(" [finishing %s]", a.ID)
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	if r[0] >= 'a' && r[0] <= 'z' {
		r[0] -= 'a' - 'A'
	}
	return string(r)
}
