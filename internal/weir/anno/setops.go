package anno

import (
	"github.com/dekarrin/weir/internal/weir/fsa"
)

// Determinize wraps fsa.Fsa.Determinize, rebuilding assoc for each new
// subset state as the tag-union over its members. A no-op if f is already
// marked deterministic.
func (f *FsaAnno) Determinize() {
	if f.Deterministic {
		return
	}
	var newAssoc []Assoc
	relate := func(_ int, members []int) {
		lists := make([]Assoc, len(members))
		for i, m := range members {
			lists[i] = f.Assoc[m]
		}
		newAssoc = append(newAssoc, unionAll(lists...))
	}
	f.Fsa = f.Fsa.Determinize(relate)
	f.Assoc = newAssoc
	f.Deterministic = true
	f.checkInvariant()
}

// Minimize wraps fsa.Fsa.Distinguish, rebuilding assoc for each surviving
// block as the tag-union over its members. f must already be deterministic.
func (f *FsaAnno) Minimize() {
	if !f.Deterministic {
		panic("anno: Minimize called on a non-deterministic FsaAnno")
	}
	var newAssoc []Assoc
	relate := func(members []int) {
		lists := make([]Assoc, len(members))
		for i, m := range members {
			lists[i] = f.Assoc[m]
		}
		newAssoc = append(newAssoc, unionAll(lists...))
	}
	f.Fsa = f.Fsa.Distinguish(relate)
	f.Assoc = newAssoc
	f.checkInvariant()
}

// Complement destructively complements f with respect to the ordinary
// alphabet [0, ab): determinizes and totalizes first, then flips finals.
// assoc is reset to empty, since a complemented state corresponds to no
// position in the original expression (spec.md §4.2).
func (f *FsaAnno) Complement(ab int64) {
	f.Determinize()
	totalized := f.Fsa.Totalize(ab)
	r := totalized.Complement(ab)
	f.Fsa = r
	f.Assoc = make([]Assoc, f.Fsa.N())
	f.Deterministic = true
	f.checkInvariant()
}

// Difference destructively turns f into f \ rhs. Both sides are
// determinized first (chaining relate so pre-determinization assoc stays
// recoverable), rhs is totalized over ab, then product-constructed; assoc
// for product state (u, v) is the sort-uniqued union of the
// pre-determinization assoc sets, tag-unioned per expression.
func (f *FsaAnno) Difference(rhs *FsaAnno, ab int64) {
	leftPre := f.determinizeTracked()
	rightPre := rhs.determinizeTracked()
	rightTotal := rhs.Fsa.Totalize(ab)

	var newAssoc []Assoc
	relate := func(id, u, v int) {
		var lists []Assoc
		if leftPre != nil {
			for _, x := range leftPre[u] {
				lists = append(lists, f.Assoc[x])
			}
		} else {
			lists = append(lists, f.Assoc[u])
		}
		if v < rhs.Fsa.N() { // real rhs state, not the totalize sink
			if rightPre != nil {
				for _, y := range rightPre[v] {
					lists = append(lists, rhs.Assoc[y])
				}
			} else {
				lists = append(lists, rhs.Assoc[v])
			}
		}
		for len(newAssoc) <= id {
			newAssoc = append(newAssoc, nil)
		}
		newAssoc[id] = unionAll(lists...)
	}

	r := fsa.Difference(&f.Fsa, &rightTotal, relate)
	f.Fsa = r
	f.Assoc = newAssoc
	f.Deterministic = true
	f.dropDead()
	f.checkInvariant()
}

// Intersect destructively turns f into f ∩ rhs, with the same
// pre-determinization tracking as Difference, then removes
// inaccessible/dead states.
func (f *FsaAnno) Intersect(rhs *FsaAnno) {
	leftPre := f.determinizeTracked()
	rightPre := rhs.determinizeTracked()

	var newAssoc []Assoc
	relate := func(id, u, v int) {
		var lists []Assoc
		if leftPre != nil {
			for _, x := range leftPre[u] {
				lists = append(lists, f.Assoc[x])
			}
		} else {
			lists = append(lists, f.Assoc[u])
		}
		if rightPre != nil {
			for _, y := range rightPre[v] {
				lists = append(lists, rhs.Assoc[y])
			}
		} else {
			lists = append(lists, rhs.Assoc[v])
		}
		for len(newAssoc) <= id {
			newAssoc = append(newAssoc, nil)
		}
		newAssoc[id] = unionAll(lists...)
	}

	r := fsa.Intersect(&f.Fsa, &rhs.Fsa, relate)
	f.Fsa = r
	f.Assoc = newAssoc
	f.Deterministic = true
	f.dropDead()
	f.checkInvariant()
}

// determinizeTracked determinizes f in place if it isn't already, returning
// a map from new state id to the list of old state ids it subsumes so a
// caller (Difference/Intersect) can recover the pre-determinization assoc.
// Returns nil if f was already deterministic, signaling "no remapping, use
// f.Assoc[x] directly".
func (f *FsaAnno) determinizeTracked() [][]int {
	if f.Deterministic {
		return nil
	}
	var rel [][]int
	relate := func(_ int, members []int) {
		rel = append(rel, append([]int(nil), members...))
	}
	f.Fsa = f.Fsa.Determinize(relate)
	f.Deterministic = true
	// assoc is stale now (still indexed by pre-determinization state ids);
	// the caller reads through rel before anything re-derives f.Assoc, so
	// leave it as-is until the caller finishes using rel.
	return rel
}

// dropDead removes states unreachable from start or unable to reach a
// final, renumbering assoc alongside.
func (f *FsaAnno) dropDead() {
	var newAssoc []Assoc
	f.Fsa = f.Fsa.Accessible(func(old int) {
		newAssoc = append(newAssoc, f.Assoc[old])
	})
	f.Assoc = newAssoc

	newAssoc = nil
	f.Fsa = f.Fsa.CoAccessible(func(old int) {
		newAssoc = append(newAssoc, f.Assoc[old])
	})
	f.Assoc = newAssoc
}

// Prune removes inaccessible and dead states (forward then backward
// reachability), as the final step of cross-definition linking (spec.md
// §4.4 step 3).
func (f *FsaAnno) Prune() {
	f.dropDead()
	f.checkInvariant()
}

// StripActionLabels removes every edge whose label lies in the action zone
// [action_base, collapse_base): those labels exist only to keep
// otherwise-indistinguishable states apart during minimization (design note
// "action-label anti-merge edges") and are not part of the observable
// alphabet once minimization has run.
func (f *FsaAnno) StripActionLabels(isAction func(lbl int64) bool) {
	for u := range f.Fsa.Adj {
		kept := f.Fsa.Adj[u][:0]
		for _, e := range f.Fsa.Adj[u] {
			if e.Lo != -1 && isAction(e.Lo) {
				continue
			}
			kept = append(kept, e)
		}
		f.Fsa.Adj[u] = kept
	}
}
