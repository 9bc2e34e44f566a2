package core

import (
	"quill/internal/syntax"
)

// Tree is the explicit-hole form of a partial core term: the same
// constructors as Shape, but with children inline and with Hole marking a
// sub-term that is not yet known.
type Tree struct {
	Hole     bool
	Kind     ShapeKind
	Params   []LocalID     // Lam
	Local    LocalID       // Ref
	Sig      uint64        // Sig
	Bool     bool          // Bool
	Str      string        // Str
	Stx      syntax.Syntax // Quote
	Children []Tree        // Lam (body), App (operator + operands)
}

// HoleTree returns the unknown sub-term marker.
func HoleTree() Tree { return Tree{Hole: true} }

// LamTree builds a lambda tree over the given body.
func LamTree(params []LocalID, body Tree) Tree {
	return Tree{Kind: ShapeLam, Params: params, Children: []Tree{body}}
}

// AppTree builds an application tree; args[0] is the operator.
func AppTree(args ...Tree) Tree {
	return Tree{Kind: ShapeApp, Children: args}
}

// RefTree builds a local reference tree.
func RefTree(local LocalID) Tree { return Tree{Kind: ShapeRef, Local: local} }

// SigTree builds a signal literal tree.
func SigTree(v uint64) Tree { return Tree{Kind: ShapeSig, Sig: v} }

// BoolTree builds a boolean literal tree.
func BoolTree(v bool) Tree { return Tree{Kind: ShapeBool, Bool: v} }

// StrTree builds a string literal tree.
func StrTree(v string) Tree { return Tree{Kind: ShapeStr, Str: v} }

// QuoteTree builds a quoted-syntax tree.
func QuoteTree(stx syntax.Syntax) Tree { return Tree{Kind: ShapeQuote, Stx: stx} }

// ModuleTree builds a module tree over the given declarations.
func ModuleTree(decls ...Tree) Tree {
	return Tree{Kind: ShapeModule, Children: decls}
}

// Equal reports structural equality of two trees. Holes are only equal to
// holes. Quoted syntax is compared by payload and scope sets, not spans.
func (t Tree) Equal(other Tree) bool {
	if t.Hole || other.Hole {
		return t.Hole == other.Hole
	}
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case ShapeLam:
		if len(t.Params) != len(other.Params) {
			return false
		}
		for i := range t.Params {
			if t.Params[i] != other.Params[i] {
				return false
			}
		}
	case ShapeRef:
		if t.Local != other.Local {
			return false
		}
	case ShapeSig:
		if t.Sig != other.Sig {
			return false
		}
	case ShapeBool:
		if t.Bool != other.Bool {
			return false
		}
	case ShapeStr:
		if t.Str != other.Str {
			return false
		}
	case ShapeQuote:
		if !syntaxEqual(t.Stx, other.Stx) {
			return false
		}
	}
	if len(t.Children) != len(other.Children) {
		return false
	}
	for i := range t.Children {
		if !t.Children[i].Equal(other.Children[i]) {
			return false
		}
	}
	return true
}

func syntaxEqual(a, b syntax.Syntax) bool {
	if a.Kind != b.Kind || !a.Scopes.Equal(b.Scopes) {
		return false
	}
	if a.Text != b.Text || a.Sig != b.Sig || a.Bool != b.Bool || a.Str != b.Str {
		return false
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !syntaxEqual(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}
