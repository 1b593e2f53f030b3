// Package linker implements the cross-definition linker (C4): given a root
// definition and a cache of already-built per-definition automata, it
// resolves every Collapse placeholder by epsilon-splicing the referenced
// definition's automaton in, optionally applies the substring-grammar
// rewrite, and hands the result through determinize/minimize/prune/strip.
package linker

import (
	"fmt"

	"github.com/dekarrin/weir/internal/weir/anno"
	"github.com/dekarrin/weir/internal/weir/fsa"
	"github.com/dekarrin/weir/internal/weir/label"
	"github.com/dekarrin/weir/internal/weir/syntax"
	"github.com/dekarrin/weir/internal/weir/thompson"
)

// Link builds the composite automaton for root, resolving every collapse
// reference reachable from it, per spec.md §4.4. substring requests the
// substring-grammar rewrite (§4.2); it is only meaningful for a
// non-intact root definition.
func Link(root *syntax.Definition, arena *syntax.Arena, space *label.Space, cache *thompson.Cache, substring bool) (anno.FsaAnno, error) {
	rootCompiled, ok := cache.Get(root.Name)
	if !ok {
		return anno.FsaAnno{}, fmt.Errorf("weir: link: %q was never compiled", root.Name)
	}

	composite := anno.FsaAnno{
		Fsa:           rootCompiled.Fsa.Clone(),
		Assoc:         cloneAssoc(rootCompiled.Assoc),
		Deterministic: false,
	}

	splicedAt := map[string]int{root.Name: 0}

	ensureSpliced := func(name string) (int, error) {
		if off, ok := splicedAt[name]; ok {
			return off, nil
		}
		src, ok := cache.Get(name)
		if !ok {
			return 0, fmt.Errorf("weir: link: collapse references %q, which was never compiled", name)
		}
		offset := composite.Fsa.N()
		appendSpliced(&composite, src, offset)
		splicedAt[name] = offset
		return offset, nil
	}

	addEpsilon := func(from, to int) {
		composite.Fsa.Adj[from] = append(composite.Fsa.Adj[from], fsa.Edge{Lo: label.Epsilon, To: to})
	}

	for u := 0; u < composite.Fsa.N(); u++ {
		original := append([]fsa.Edge(nil), composite.Fsa.Adj[u]...)
		for _, e := range original {
			if !space.IsCollapse(e.Lo) {
				continue
			}
			v := e.To
			for _, ae := range composite.Assoc[v] {
				node := arena.Node(ae.Expr)
				if node.Kind != syntax.KindCollapse {
					continue
				}
				offset, err := ensureSpliced(node.Ident)
				if err != nil {
					return anno.FsaAnno{}, err
				}
				targetFsa := mustCached(cache, node.Ident)
				addEpsilon(u, offset+targetFsa.Fsa.Start)
				for _, fin := range targetFsa.Fsa.Finals {
					addEpsilon(offset+fin, v)
				}
			}
		}

		kept := composite.Fsa.Adj[u][:0]
		for _, e := range composite.Fsa.Adj[u] {
			if space.IsCollapse(e.Lo) {
				continue
			}
			kept = append(kept, e)
		}
		composite.Fsa.Adj[u] = kept
	}

	if substring {
		rewriteSubstring(&composite, root, arena)
	}

	composite.Determinize()
	composite.Minimize()
	composite.Prune()
	composite.StripActionLabels(space.IsAction)

	return composite, nil
}

func mustCached(cache *thompson.Cache, name string) *anno.FsaAnno {
	f, _ := cache.Get(name)
	return f
}

func cloneAssoc(a []anno.Assoc) []anno.Assoc {
	out := make([]anno.Assoc, len(a))
	for i, e := range a {
		out[i] = append(anno.Assoc(nil), e...)
	}
	return out
}

// appendSpliced appends a deep copy of src's states onto composite,
// shifting every edge target by offset. src's own start/finals are not
// merged into composite's start/finals — they only serve as the enter/exit
// anchor points the collapse wiring in Link reads back out via offset
// arithmetic.
func appendSpliced(composite *anno.FsaAnno, src *anno.FsaAnno, offset int) {
	for _, es := range src.Fsa.Adj {
		shifted := make([]fsa.Edge, len(es))
		for i, e := range es {
			shifted[i] = e
			shifted[i].To += offset
		}
		composite.Fsa.Adj = append(composite.Fsa.Adj, shifted)
	}
	for _, a := range src.Assoc {
		composite.Assoc = append(composite.Assoc, append(anno.Assoc(nil), a...))
	}
}
