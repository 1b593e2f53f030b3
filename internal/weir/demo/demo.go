// Package demo builds a handful of hand-rolled expression trees directly
// through the syntax.Arena API, standing in for the surface-syntax parser
// that is explicitly out of scope (spec.md §1's Non-goals). cmd/weirc uses
// these to drive the rest of the pipeline end to end without needing a real
// grammar source file on disk.
package demo

import (
	"fmt"

	"github.com/dekarrin/weir/internal/weir/syntax"
)

// Scenario is one named, fully-built expression tree ready to hand to a
// session: an arena, every definition it declares, which one is the root to
// export, and whether that export should go through the substring-grammar
// rewrite.
type Scenario struct {
	Name        string
	Description string
	Arena       *syntax.Arena
	Defs        []*syntax.Definition
	Root        string
	Substring   bool
}

// Names lists every scenario Build accepts, in a stable order for listing
// in --list output.
func Names() []string {
	return []string{"s1", "s2", "s3", "s4", "s5", "s6"}
}

// Build constructs the named scenario, mirroring one row of spec.md §8's
// end-to-end scenario table.
func Build(name string) (*Scenario, error) {
	switch name {
	case "s1":
		return buildS1(), nil
	case "s2":
		return buildS2(), nil
	case "s3":
		return buildS3(), nil
	case "s4":
		return buildS4(), nil
	case "s5":
		return buildS5(), nil
	case "s6":
		return buildS6(), nil
	default:
		return nil, fmt.Errorf("demo: unknown scenario %q (want one of %v)", name, Names())
	}
}

func newDef(name string, export, intact bool) *syntax.Definition {
	return &syntax.Definition{Name: name, Export: export, Intact: intact}
}

func literal(a *syntax.Arena, def *syntax.Definition, s string) syntax.ExprID {
	id := a.New(syntax.KindLiteral)
	n := a.Node(id)
	n.Literal = s
	n.Stmt = def
	return id
}

func bracketDigits(a *syntax.Arena, def *syntax.Definition) syntax.ExprID {
	id := a.New(syntax.KindBracket)
	n := a.Node(id)
	cs := make([]bool, 256)
	for c := '0'; c <= '9'; c++ {
		cs[c] = true
	}
	n.Charset = cs
	n.Stmt = def
	return id
}

func embed(a *syntax.Arena, def *syntax.Definition, target string) syntax.ExprID {
	id := a.New(syntax.KindEmbed)
	n := a.Node(id)
	n.Ident = target
	n.Stmt = def
	return id
}

func collapse(a *syntax.Arena, def *syntax.Definition, target string) syntax.ExprID {
	id := a.New(syntax.KindCollapse)
	n := a.Node(id)
	n.Ident = target
	n.Stmt = def
	return id
}

func concat(a *syntax.Arena, def *syntax.Definition, lhs, rhs syntax.ExprID) syntax.ExprID {
	id := a.New(syntax.KindConcat)
	n := a.Node(id)
	n.Lhs, n.HasLhs = lhs, true
	n.Rhs, n.HasRhs = rhs, true
	n.Stmt = def
	return id
}

func union(a *syntax.Arena, def *syntax.Definition, lhs, rhs syntax.ExprID) syntax.ExprID {
	id := a.New(syntax.KindUnion)
	n := a.Node(id)
	n.Lhs, n.HasLhs = lhs, true
	n.Rhs, n.HasRhs = rhs, true
	n.Stmt = def
	return id
}

func difference(a *syntax.Arena, def *syntax.Definition, lhs, rhs syntax.ExprID) syntax.ExprID {
	id := a.New(syntax.KindDifference)
	n := a.Node(id)
	n.Lhs, n.HasLhs = lhs, true
	n.Rhs, n.HasRhs = rhs, true
	n.Stmt = def
	return id
}

func plus(a *syntax.Arena, def *syntax.Definition, inner syntax.ExprID) syntax.ExprID {
	id := a.New(syntax.KindPlus)
	n := a.Node(id)
	n.Inner, n.HasInner = inner, true
	n.Stmt = def
	return id
}

// buildS1 is spec.md §8's S1: `export main = "ab"`, with entering/finishing
// markers attached to the literal itself so the compiled table has
// something observable to print.
func buildS1() *Scenario {
	a := &syntax.Arena{}
	def := newDef("main", true, false)
	lit := literal(a, def, "ab")
	n := a.Node(lit)
	n.Entering = []syntax.Action{{ID: "enterMain"}}
	n.Finishing = []syntax.Action{{ID: "finishMain"}}
	def.Root = lit
	return &Scenario{
		Name:        "s1",
		Description: `export main = "ab"`,
		Arena:       a,
		Defs:        []*syntax.Definition{def},
		Root:        "main",
	}
}

// buildS2 is S2: main = "a"; export top = main "b", with main embedded
// (compile-time inlined) into top.
func buildS2() *Scenario {
	a := &syntax.Arena{}
	mainDef := newDef("main", false, false)
	mainLit := literal(a, mainDef, "a")
	mn := a.Node(mainLit)
	mn.Entering = []syntax.Action{{ID: "enterMain"}}
	mn.Finishing = []syntax.Action{{ID: "finishMain"}}
	mainDef.Root = mainLit

	topDef := newDef("top", true, false)
	emb := embed(a, topDef, "main")
	b := literal(a, topDef, "b")
	cat := concat(a, topDef, emb, b)
	a.Node(cat).Finishing = []syntax.Action{{ID: "finishTop"}}
	topDef.Root = cat

	return &Scenario{
		Name:        "s2",
		Description: `main = "a"; export top = main "b" (main embedded)`,
		Arena:       a,
		Defs:        []*syntax.Definition{mainDef, topDef},
		Root:        "top",
	}
}

// buildS3 is S3: a = "x"; export b = a|a, two collapse references to the
// same definition. internal/weir/linker splices each distinct target name
// once, so the union is already a single copy of a's states before
// minimize ever runs.
func buildS3() *Scenario {
	a := &syntax.Arena{}
	aDef := newDef("a", false, false)
	aLit := literal(a, aDef, "x")
	an := a.Node(aLit)
	an.Entering = []syntax.Action{{ID: "enterA"}}
	an.Finishing = []syntax.Action{{ID: "finishA"}}
	aDef.Root = aLit

	bDef := newDef("b", true, false)
	c1 := collapse(a, bDef, "a")
	c2 := collapse(a, bDef, "a")
	u := union(a, bDef, c1, c2)
	bDef.Root = u

	return &Scenario{
		Name:        "s3",
		Description: `a = "x"; export b = a|a (union of two collapse references)`,
		Arena:       a,
		Defs:        []*syntax.Definition{aDef, bDef},
		Root:        "b",
	}
}

// buildS4 is S4: export = [0-9]+ - "00".
func buildS4() *Scenario {
	a := &syntax.Arena{}
	def := newDef("digits", true, false)
	d := bracketDigits(a, def)
	p := plus(a, def, d)
	lit := literal(a, def, "00")
	diff := difference(a, def, p, lit)
	def.Root = diff

	return &Scenario{
		Name:        "s4",
		Description: `export digits = [0-9]+ - "00"`,
		Arena:       a,
		Defs:        []*syntax.Definition{def},
		Root:        "digits",
	}
}

// buildS5 is S5: export = "a", non-intact, linked with the substring-grammar
// rewrite so any string containing "a" anywhere is accepted through the
// substring wrappers rather than requiring the whole input to be "a".
func buildS5() *Scenario {
	a := &syntax.Arena{}
	def := newDef("hasA", true, false)
	lit := literal(a, def, "a")
	n := a.Node(lit)
	n.Entering = []syntax.Action{{ID: "enterA"}}
	n.Finishing = []syntax.Action{{ID: "finishA"}}
	def.Root = lit

	return &Scenario{
		Name:        "s5",
		Description: `export hasA = "a" (run as a substring grammar)`,
		Arena:       a,
		Defs:        []*syntax.Definition{def},
		Root:        "hasA",
		Substring:   true,
	}
}

// buildS6 is S6: export x = x, a direct Embed cycle. session.CompileAll
// must reject this at topological-sort time.
func buildS6() *Scenario {
	a := &syntax.Arena{}
	def := newDef("x", true, false)
	e := embed(a, def, "x")
	def.Root = e

	return &Scenario{
		Name:        "s6",
		Description: `export x = x (direct embed cycle, expected to fail to compile)`,
		Arena:       a,
		Defs:        []*syntax.Definition{def},
		Root:        "x",
	}
}
