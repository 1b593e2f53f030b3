// Package thompson implements the recursive-descent Thompson builder (C3):
// it walks a syntax.Arena expression tree and produces an annotated NFA,
// one anno.FsaAnno per top-level definition, determinizing and minimizing
// each definition's result before handing it to internal/weir/linker.
package thompson

import (
	"fmt"
	"strings"

	"github.com/dekarrin/weir/internal/weir/anno"
	"github.com/dekarrin/weir/internal/weir/label"
	"github.com/dekarrin/weir/internal/weir/syntax"
)

// Cache holds the already-compiled per-definition automata a Builder may
// copy in for Embed. It is the "global registry of compiled definitions"
// design note, scoped to one compile session rather than a process-wide
// global — in practice internal/weir/session owns the instance and drives
// Builder.BuildDefinition for each definition in Embed-topological order.
type Cache struct {
	byName map[string]*anno.FsaAnno
}

// NewCache returns an empty compiled-definition cache.
func NewCache() *Cache {
	return &Cache{byName: map[string]*anno.FsaAnno{}}
}

// Get returns the compiled automaton for name, and whether it was found.
func (c *Cache) Get(name string) (*anno.FsaAnno, bool) {
	f, ok := c.byName[name]
	return f, ok
}

// Put stores the compiled automaton for name, overwriting any prior entry
// (compile is idempotent per definition per spec.md §6).
func (c *Cache) Put(name string, f *anno.FsaAnno) {
	c.byName[name] = f
}

// Builder constructs annotated NFAs from a syntax.Arena. Pre/post tick
// counters are shared across the whole session (required by Embed, which
// inlines one definition's already-ticked tree beneath another's position
// space) so a Builder is constructed once per session, not once per
// definition.
type Builder struct {
	Arena *syntax.Arena
	Space *label.Space
	Cache *Cache

	pre, post int
}

// NewBuilder returns a Builder sharing arena, space and cache with the rest
// of the compile session.
func NewBuilder(arena *syntax.Arena, space *label.Space, cache *Cache) *Builder {
	return &Builder{Arena: arena, Space: space, Cache: cache}
}

// BuildDefinition compiles def's root expression into a determinized,
// minimized annotated NFA, assigning tree positions over def.Root first,
// then stores the result in the builder's cache under def.Name. Every
// Embed target reachable from def must already be present in the cache —
// callers (internal/weir/session) are responsible for topological
// ordering; BuildDefinition itself does not detect cycles.
func (b *Builder) BuildDefinition(def *syntax.Definition) (anno.FsaAnno, error) {
	b.Arena.AssignPositions(def.Root, 0, false, &b.pre, &b.post)

	f, err := b.build(def.Root)
	if err != nil {
		return anno.FsaAnno{}, fmt.Errorf("weir: compiling %q: %w", def.Name, err)
	}

	anno.AttachActionGuards(&f, b.Arena, b.Space)
	f.Determinize()
	f.Minimize()

	b.Cache.Put(def.Name, &f)
	return f, nil
}

// build dispatches on n's kind, producing its annotated NFA gadget. Binary
// operators compile their right child first, then their left, per the
// construction-order note in spec.md §4.3: this only affects the order
// intermediate FsaAnno values are realized in, never the tree position
// numbers, which AssignPositions already fixed in left-to-right source
// order before build ever runs.
func (b *Builder) build(id syntax.ExprID) (anno.FsaAnno, error) {
	n := b.Arena.Node(id)
	switch n.Kind {
	case syntax.KindLiteral:
		return anno.Literal(b.Arena, id), nil
	case syntax.KindDot:
		return anno.Dot(b.Arena, id, b.Space.AB()), nil
	case syntax.KindBracket:
		return anno.Bracket(b.Arena, id), nil
	case syntax.KindEpsilon:
		return anno.Epsilon(b.Arena, id), nil
	case syntax.KindUnicodeRange:
		if n.Ident != "" {
			return anno.UnicodeCategory(b.Arena, id, strings.Split(n.Ident, ","))
		}
		return anno.UnicodeRange(b.Arena, id), nil
	case syntax.KindCollapse:
		return anno.Collapse(b.Arena, id, b.Space), nil
	case syntax.KindEmbed:
		return b.buildEmbed(id)
	case syntax.KindConcat:
		rhs, err := b.build(n.Rhs)
		if err != nil {
			return anno.FsaAnno{}, err
		}
		lhs, err := b.build(n.Lhs)
		if err != nil {
			return anno.FsaAnno{}, err
		}
		lhs.Concat(&rhs)
		anno.AddAssoc(&lhs, b.Arena, id)
		return lhs, nil
	case syntax.KindUnion:
		rhs, err := b.build(n.Rhs)
		if err != nil {
			return anno.FsaAnno{}, err
		}
		lhs, err := b.build(n.Lhs)
		if err != nil {
			return anno.FsaAnno{}, err
		}
		lhs.Union(&rhs, b.Arena, id)
		return lhs, nil
	case syntax.KindStar:
		inner, err := b.build(n.Inner)
		if err != nil {
			return anno.FsaAnno{}, err
		}
		inner.Star(b.Arena, id)
		return inner, nil
	case syntax.KindPlus:
		inner, err := b.build(n.Inner)
		if err != nil {
			return anno.FsaAnno{}, err
		}
		inner.Plus(b.Arena, id)
		return inner, nil
	case syntax.KindQuestion:
		inner, err := b.build(n.Inner)
		if err != nil {
			return anno.FsaAnno{}, err
		}
		inner.Question(b.Arena, id)
		return inner, nil
	case syntax.KindRepeat:
		return b.buildRepeat(id)
	case syntax.KindComplement:
		inner, err := b.build(n.Inner)
		if err != nil {
			return anno.FsaAnno{}, err
		}
		inner.Complement(b.Space.AB())
		return inner, nil
	case syntax.KindDifference:
		rhs, err := b.build(n.Rhs)
		if err != nil {
			return anno.FsaAnno{}, err
		}
		lhs, err := b.build(n.Lhs)
		if err != nil {
			return anno.FsaAnno{}, err
		}
		lhs.Difference(&rhs, b.Space.AB())
		anno.AddAssoc(&lhs, b.Arena, id)
		return lhs, nil
	case syntax.KindIntersect:
		rhs, err := b.build(n.Rhs)
		if err != nil {
			return anno.FsaAnno{}, err
		}
		lhs, err := b.build(n.Lhs)
		if err != nil {
			return anno.FsaAnno{}, err
		}
		lhs.Intersect(&rhs)
		anno.AddAssoc(&lhs, b.Arena, id)
		return lhs, nil
	default:
		return anno.FsaAnno{}, fmt.Errorf("weir: unhandled expression kind %s", n.Kind)
	}
}

// buildEmbed copies the already-compiled automaton for n.Ident, offsetting
// its state ids into a fresh FsaAnno so the copy can be mutated (by a
// surrounding Concat/Union/etc.) without disturbing the cached original.
func (b *Builder) buildEmbed(id syntax.ExprID) (anno.FsaAnno, error) {
	n := b.Arena.Node(id)
	src, ok := b.Cache.Get(n.Ident)
	if !ok {
		return anno.FsaAnno{}, fmt.Errorf("weir: embed of %q before it was compiled (topological order violation)", n.Ident)
	}

	cp := anno.FsaAnno{
		Fsa:           src.Fsa.Clone(),
		Assoc:         make([]anno.Assoc, len(src.Assoc)),
		Deterministic: src.Deterministic,
	}
	for i, a := range src.Assoc {
		cp.Assoc[i] = append(anno.Assoc(nil), a...)
	}

	anno.AddAssoc(&cp, b.Arena, id)
	return cp, nil
}

// buildRepeat implements the Repeat unfolding of spec.md §4.2: low
// concatenated copies of the inner expression, then (high-low) copies of
// inner? with high finite, or one copy of inner* appended when high is
// unbounded. Each copy is rebuilt from scratch via b.build rather than
// cloned from a single compiled instance, so that every copy's expression
// closure is computed independently even though every copy tags its states
// with the very same inner ExprID (there is only one syntax node for the
// repeated subexpression, however many times it is unrolled).
func (b *Builder) buildRepeat(id syntax.ExprID) (anno.FsaAnno, error) {
	n := b.Arena.Node(id)
	if n.High >= 0 && n.Low > n.High {
		return anno.FsaAnno{}, fmt.Errorf("weir: InvalidRepeat: low(%d) > high(%d)", n.Low, n.High)
	}

	var result *anno.FsaAnno
	appendCopy := func(f anno.FsaAnno) {
		if result == nil {
			result = &f
			return
		}
		result.Concat(&f)
	}

	for i := 0; i < n.Low; i++ {
		f, err := b.build(n.Inner)
		if err != nil {
			return anno.FsaAnno{}, err
		}
		appendCopy(f)
	}

	if n.High < 0 {
		f, err := b.build(n.Inner)
		if err != nil {
			return anno.FsaAnno{}, err
		}
		f.Star(b.Arena, -1)
		appendCopy(f)
	} else {
		for i := n.Low; i < n.High; i++ {
			f, err := b.build(n.Inner)
			if err != nil {
				return anno.FsaAnno{}, err
			}
			f.Question(b.Arena, -1)
			appendCopy(f)
		}
	}

	if result == nil {
		eps := anno.Epsilon(b.Arena, id)
		result = &eps
	}
	anno.AddAssoc(result, b.Arena, id)
	return *result, nil
}
