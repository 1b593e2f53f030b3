package anno

import (
	"github.com/dekarrin/weir/internal/weir/fsa"
	"github.com/dekarrin/weir/internal/weir/label"
	"github.com/dekarrin/weir/internal/weir/syntax"
)

// AttachActionGuards implements the action-label "anti-merge" edges design
// note (spec.md §9): Hopcroft distinguishing only looks at transition
// structure, never at assoc, so two states that happen to have identical
// outgoing ordinary transitions but carry different action-bearing
// expressions in assoc would otherwise be merged, silently dropping one
// side's actions. For every expression that carries any action list, a
// single fresh action label is allocated and a self-loop bearing it is
// added to every state associated with that expression; no real input
// string can ever contain an action label, so these edges change no
// observable language, but they do change the automaton's transition
// signature enough to keep such states apart until internal/weir/linker
// strips them in its final pass.
//
// Must run before the per-definition determinize+minimize that
// internal/weir/thompson performs; running it after minimization would be
// too late to protect against the very merge it exists to prevent.
func AttachActionGuards(f *FsaAnno, arena *syntax.Arena, space *label.Space) {
	guardOf := map[syntax.ExprID]int64{}
	for u := range f.Assoc {
		for _, e := range f.Assoc[u] {
			if !arena.Node(e.Expr).HasActions() {
				continue
			}
			lbl, ok := guardOf[e.Expr]
			if !ok {
				lbl = space.NewActionLabel()
				guardOf[e.Expr] = lbl
			}
			f.Fsa.Adj[u] = append(f.Fsa.Adj[u], fsa.Edge{Lo: lbl, Hi: lbl + 1, To: u})
		}
	}
}
