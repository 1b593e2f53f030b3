// Package session implements the compiled-cache interface the driver sees
// (spec.md §6): compile, compile_export, compile_actions, scoped to one
// compilation session, with topological ordering of the Embed dependency
// relation and cycle detection ahead of C3.
package session

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dekarrin/weir/internal/weir/actions"
	"github.com/dekarrin/weir/internal/weir/anno"
	"github.com/dekarrin/weir/internal/weir/label"
	"github.com/dekarrin/weir/internal/weir/linker"
	"github.com/dekarrin/weir/internal/weir/syntax"
	"github.com/dekarrin/weir/internal/weir/thompson"
)

// Session owns everything scoped to one compile invocation: the expression
// arena, the label space, the registry of definitions by name, and the
// per-definition compiled-automaton cache. It is not safe for concurrent
// use (spec.md §5: the compiler is single-threaded).
type Session struct {
	ID uuid.UUID

	Arena *syntax.Arena
	Space *label.Space

	defs    map[string]*syntax.Definition
	order   []string // registration order, used to make diagnostics stable
	builder *thompson.Builder
	cache   *thompson.Cache

	Diagnostics Diagnostics
}

// New starts a fresh compile session. maxOrdinary bounds the ordinary
// alphabet (see label.NewSpace).
func New(arena *syntax.Arena, maxOrdinary int64) *Session {
	space := label.NewSpace(maxOrdinary)
	cache := thompson.NewCache()
	return &Session{
		ID:      uuid.New(),
		Arena:   arena,
		Space:   space,
		defs:    map[string]*syntax.Definition{},
		builder: thompson.NewBuilder(arena, space, cache),
		cache:   cache,
	}
}

// Register adds a definition to the session's name registry. It must be
// called for every definition, including ones never directly exported,
// before CompileAll/Compile is called on anything that Embeds or Collapses
// into it.
func (s *Session) Register(def *syntax.Definition) {
	if _, ok := s.defs[def.Name]; !ok {
		s.order = append(s.order, def.Name)
	}
	s.defs[def.Name] = def
}

// embedTargets returns the names every Embed node reachable from root's
// expression tree refers to, without descending into Collapse (which does
// not induce a compile-time dependency per spec.md §5).
func (s *Session) embedTargets(id syntax.ExprID, out map[string]bool) {
	n := s.Arena.Node(id)
	switch n.Kind {
	case syntax.KindEmbed:
		out[n.Ident] = true
	case syntax.KindCollapse:
		return
	}
	if n.HasLhs {
		s.embedTargets(n.Lhs, out)
	}
	if n.HasRhs {
		s.embedTargets(n.Rhs, out)
	}
	if n.HasInner {
		s.embedTargets(n.Inner, out)
	}
}

// topoOrder returns every registered definition's name in an order where
// every Embed target precedes its referrer, or an error naming the full
// cycle path if the Embed relation is not a DAG (spec.md §5).
func (s *Session) topoOrder() ([]string, error) {
	const (
		white = iota
		gray
		black
	)
	color := make(map[string]int, len(s.defs))
	var order []string
	var path []string

	var visit func(name string) error
	visit = func(name string) error {
		switch color[name] {
		case black:
			return nil
		case gray:
			cycleStart := 0
			for i, p := range path {
				if p == name {
					cycleStart = i
					break
				}
			}
			cycle := append(append([]string(nil), path[cycleStart:]...), name)
			return fmt.Errorf("weir: circular embedding: %s", strings.Join(cycle, " -> "))
		}
		def, ok := s.defs[name]
		if !ok {
			return fmt.Errorf("weir: embed references undefined definition %q", name)
		}
		color[name] = gray
		path = append(path, name)

		targets := map[string]bool{}
		s.embedTargets(def.Root, targets)
		var sorted []string
		for t := range targets {
			sorted = append(sorted, t)
		}
		sortStrings(sorted)
		for _, t := range sorted {
			if err := visit(t); err != nil {
				return err
			}
		}

		path = path[:len(path)-1]
		color[name] = black
		order = append(order, name)
		return nil
	}

	for _, name := range s.order {
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	return order, nil
}

func sortStrings(ss []string) {
	for i := 1; i < len(ss); i++ {
		for j := i; j > 0 && ss[j-1] > ss[j]; j-- {
			ss[j-1], ss[j] = ss[j], ss[j-1]
		}
	}
}

// CompileAll runs compile(definition) (C3) for every registered definition
// in Embed-topological order, populating the compiled-NFA cache so that
// CompileExport can later run C4 for any of them.
func (s *Session) CompileAll() error {
	order, err := s.topoOrder()
	if err != nil {
		s.Diagnostics.Errorf(nil, "%s", err)
		return err
	}
	for _, name := range order {
		if _, err := s.builder.BuildDefinition(s.defs[name]); err != nil {
			s.Diagnostics.Errorf(nil, "%s", err)
			return err
		}
	}
	return nil
}

// Compile runs compile(definition) for a single definition and everything
// it Embeds, idempotently (repeated calls are no-ops for already-cached
// definitions).
func (s *Session) Compile(name string) (*anno.FsaAnno, error) {
	if f, ok := s.cache.Get(name); ok {
		return f, nil
	}
	def, ok := s.defs[name]
	if !ok {
		return nil, fmt.Errorf("weir: compile: undefined definition %q", name)
	}
	targets := map[string]bool{}
	s.embedTargets(def.Root, targets)
	var sorted []string
	for t := range targets {
		sorted = append(sorted, t)
	}
	sortStrings(sorted)
	for _, t := range sorted {
		if _, err := s.Compile(t); err != nil {
			return nil, err
		}
	}
	f, err := s.builder.BuildDefinition(def)
	if err != nil {
		s.Diagnostics.Errorf(nil, "%s", err)
		return nil, err
	}
	return &f, nil
}

// CompileExport runs compile_export(definition): C4, resolving every
// Collapse reference reachable from name into the composite automaton.
// Every definition Collapse can reach must already be present via Compile
// (directly or transitively through CompileAll).
func (s *Session) CompileExport(name string, substring bool) (*anno.FsaAnno, error) {
	def, ok := s.defs[name]
	if !ok {
		return nil, fmt.Errorf("weir: compile_export: undefined definition %q", name)
	}
	f, err := linker.Link(def, s.Arena, s.Space, s.cache, substring)
	if err != nil {
		s.Diagnostics.Errorf(nil, "%s", err)
		return nil, err
	}
	return &f, nil
}

// CompileActions runs compile_actions(definition): consumes a composite
// produced by CompileExport and emits the dispatch table (C5).
func (s *Session) CompileActions(composite *anno.FsaAnno) *actions.Table {
	return actions.Compile(s.Arena, composite)
}
