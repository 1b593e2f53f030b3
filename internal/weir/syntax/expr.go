// Package syntax defines the minimal concrete shape of the AST the compiler
// core consumes (spec.md §6 "AST interface consumed"). It is not a parser:
// nodes here are built directly by whatever produces them (a surface-syntax
// parser, a test, or a hand-rolled grammar description) and handed to
// internal/weir/thompson.
//
// Every expression node lives in an Arena, addressed by a stable ExprID
// rather than a pointer, so that position bookkeeping (pre/post/depth/anc)
// and the annotation multimap in internal/weir/anno can use it as an
// ordinary map/slice key. This follows the design note "Expression ancestor
// pointers": an indexed arena in place of mutable nodes with ancestor
// pointers baked in.
package syntax

import "fmt"

// ExprID addresses a single expression node within an Arena. It is stable
// for the lifetime of a compile session.
type ExprID int

// Action is an opaque user-supplied semantic action attached to an
// expression position. Weir does not interpret actions; it only computes
// when they fire. ID is whatever the emitting back-end needs to recognize
// the action (typically an identifier naming a handler function).
type Action struct {
	ID string
}

// Kind discriminates the variant of an expression node, used for the
// type-switch dispatch described in design note "Visitor-pattern dispatch
// over the expression AST": a tagged variant with a dispatch function per
// result type, rather than a virtual-call hierarchy.
type Kind int

const (
	KindLiteral Kind = iota
	KindDot
	KindBracket
	KindCollapse
	KindEmbed
	KindConcat
	KindUnion
	KindStar
	KindPlus
	KindQuestion
	KindRepeat
	KindComplement
	KindDifference
	KindIntersect
	KindEpsilon
	KindUnicodeRange
)

func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "Literal"
	case KindDot:
		return "Dot"
	case KindBracket:
		return "Bracket"
	case KindCollapse:
		return "Collapse"
	case KindEmbed:
		return "Embed"
	case KindConcat:
		return "Concat"
	case KindUnion:
		return "Union"
	case KindStar:
		return "Star"
	case KindPlus:
		return "Plus"
	case KindQuestion:
		return "Question"
	case KindRepeat:
		return "Repeat"
	case KindComplement:
		return "Complement"
	case KindDifference:
		return "Difference"
	case KindIntersect:
		return "Intersect"
	case KindEpsilon:
		return "Epsilon"
	case KindUnicodeRange:
		return "UnicodeRange"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Node is a single expression in the tree. Only the fields relevant to the
// node's Kind are meaningful; e.g. Lhs/Rhs are set for Concat/Union/
// Difference/Intersect, Inner for Star/Plus/Question/Repeat/Complement.
//
// Loc is opaque to the core: it is carried through for the driver's
// diagnostics and never interpreted here.
type Node struct {
	ID   ExprID
	Kind Kind

	// Binary / unary children.
	Lhs, Rhs, Inner ExprID
	HasLhs, HasRhs, HasInner bool

	// Literal.
	Literal string
	// Bracket: a 256-entry (or AB-entry, for grammars extended by
	// UnicodeRange) membership set, true meaning the byte/codepoint is in
	// the class.
	Charset []bool
	// Collapse / Embed: the referenced definition's name. Resolved to a
	// *Definition by the session/linker, not by this package.
	//
	// UnicodeRange: if non-empty, a comma-separated list of stdlib Unicode
	// general-category or script names (e.g. "L,Nd") to union instead of
	// using LoRune/HiRune.
	Ident string
	// Repeat.
	Low, High int // High < 0 means unbounded ("∞").
	// UnicodeRange: inclusive code point bounds, used when Ident is empty.
	LoRune, HiRune rune

	// Loc is the opaque source range supplied by whatever built this node.
	Loc any

	// Stmt is the enclosing top-level definition; Stmt.Intact governs
	// whether substring-grammar rewriting may open this node up.
	Stmt *Definition

	Entering, Leaving, Transiting, Finishing []Action

	// Position bookkeeping, filled by AssignPositions.
	Pre, Post, Depth int
	Anc              []ExprID // binary-lifted ancestors; Anc[0] is the parent.
}

// Definition is a top-level named expression (spec.md §6: "Definitions
// expose lhs (name), rhs (root expression), export (bool), intact (bool),
// export_params").
type Definition struct {
	Name         string
	Root         ExprID
	Export       bool
	Intact       bool
	ExportParams string
}

// Arena owns every expression node for a compile session, addressed by
// ExprID. The zero value is ready to use.
type Arena struct {
	nodes []Node
}

// New allocates a fresh node of the given kind and returns its id. Callers
// fill in the kind-specific fields through Node(id); that pointer is valid
// only until the next call to New, which may reallocate the backing slice.
func (a *Arena) New(kind Kind) ExprID {
	id := ExprID(len(a.nodes))
	a.nodes = append(a.nodes, Node{ID: id, Kind: kind})
	return id
}

// Node returns a pointer to the node with the given id. The pointer is
// invalidated by subsequent calls to New.
func (a *Arena) Node(id ExprID) *Node {
	return &a.nodes[id]
}

// Len returns the number of nodes allocated so far.
func (a *Arena) Len() int { return len(a.nodes) }

// HasActions reports whether the node carries any user-supplied semantic
// action in any of its four lists.
func (n *Node) HasActions() bool {
	return len(n.Entering) > 0 || len(n.Leaving) > 0 || len(n.Transiting) > 0 || len(n.Finishing) > 0
}

// Intact reports whether the node's owning definition forbids
// substring-grammar rewriting from cutting into it.
func (n *Node) Intact() bool {
	return n.Stmt != nil && n.Stmt.Intact
}
