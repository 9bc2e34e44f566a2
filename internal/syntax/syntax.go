package syntax

import (
	"fmt"
	"strings"

	"quill/internal/source"
)

// Kind enumerates syntax payload kinds.
type Kind uint8

const (
	// KindId is an identifier occurrence.
	KindId Kind = iota
	// KindSig is a natural-number signal literal.
	KindSig
	// KindBool is a boolean literal.
	KindBool
	// KindStr is a string literal.
	KindStr
	// KindList is a parenthesized sequence.
	KindList
	// KindVec is a bracketed sequence.
	KindVec
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindId:
		return "Id"
	case KindSig:
		return "Sig"
	case KindBool:
		return "Bool"
	case KindStr:
		return "Str"
	case KindList:
		return "List"
	case KindVec:
		return "Vec"
	default:
		return "Unknown"
	}
}

// Syntax is one node of the reader's output tree: a payload plus the scope
// set and source span of the occurrence. Nodes are treated as immutable —
// every transformation returns a new node and may share unchanged children.
type Syntax struct {
	Kind     Kind
	Scopes   ScopeSet
	Span     source.Span
	Text     source.StringID // KindId
	Sig      uint64          // KindSig
	Bool     bool            // KindBool
	Str      string          // KindStr
	Children []Syntax        // KindList, KindVec
}

// NewIdent builds an identifier node with an empty scope set.
func NewIdent(text source.StringID, span source.Span) Syntax {
	return Syntax{Kind: KindId, Text: text, Span: span}
}

// NewSig builds a signal literal node.
func NewSig(n uint64, span source.Span) Syntax {
	return Syntax{Kind: KindSig, Sig: n, Span: span}
}

// NewBool builds a boolean literal node.
func NewBool(b bool, span source.Span) Syntax {
	return Syntax{Kind: KindBool, Bool: b, Span: span}
}

// NewStr builds a string literal node.
func NewStr(s string, span source.Span) Syntax {
	return Syntax{Kind: KindStr, Str: s, Span: span}
}

// NewList builds a list node.
func NewList(children []Syntax, span source.Span) Syntax {
	return Syntax{Kind: KindList, Children: children, Span: span}
}

// NewVec builds a vector node.
func NewVec(children []Syntax, span source.Span) Syntax {
	return Syntax{Kind: KindVec, Children: children, Span: span}
}

// IsIdent reports whether the node is an identifier.
func (s Syntax) IsIdent() bool { return s.Kind == KindId }

// AdjustScopes applies fn to the scope set of every node in the tree and
// returns the new tree.
func (s Syntax) AdjustScopes(fn func(ScopeSet) ScopeSet) Syntax {
	out := s
	out.Scopes = fn(s.Scopes)
	if len(s.Children) > 0 {
		kids := make([]Syntax, len(s.Children))
		for i, c := range s.Children {
			kids[i] = c.AdjustScopes(fn)
		}
		out.Children = kids
	}
	return out
}

// FlipScope toggles sc on every node.
func (s Syntax) FlipScope(sc Scope) Syntax {
	return s.AdjustScopes(func(ss ScopeSet) ScopeSet { return ss.Flip(sc) })
}

// AddScope inserts sc on every node.
func (s Syntax) AddScope(sc Scope) Syntax {
	return s.AdjustScopes(func(ss ScopeSet) ScopeSet { return ss.Insert(sc) })
}

// RemoveScope removes sc from every node.
func (s Syntax) RemoveScope(sc Scope) Syntax {
	return s.AdjustScopes(func(ss ScopeSet) ScopeSet { return ss.Remove(sc) })
}

// ShiftPhase propagates a phase shift over the tree. Syntax payloads carry
// no phases, so the shift is structurally the identity; the operation
// exists so phased values and syntax shift through one interface. Shifts
// compose additively: shifting by i and then j equals shifting by i+j.
func (s Syntax) ShiftPhase(int32) Syntax {
	return s
}

// Dump renders the tree for debugging and CLI output. Identifier text is
// resolved through the provided interner.
func (s Syntax) Dump(in *source.Interner) string {
	var b strings.Builder
	s.dump(&b, in)
	return b.String()
}

func (s Syntax) dump(b *strings.Builder, in *source.Interner) {
	switch s.Kind {
	case KindId:
		if in != nil {
			b.WriteString(in.MustLookup(s.Text))
		} else {
			fmt.Fprintf(b, "id#%d", s.Text)
		}
	case KindSig:
		fmt.Fprintf(b, "%d", s.Sig)
	case KindBool:
		if s.Bool {
			b.WriteString("#t")
		} else {
			b.WriteString("#f")
		}
	case KindStr:
		fmt.Fprintf(b, "%q", s.Str)
	case KindList, KindVec:
		open, closeCh := "(", ")"
		if s.Kind == KindVec {
			open, closeCh = "[", "]"
		}
		b.WriteString(open)
		for i, c := range s.Children {
			if i > 0 {
				b.WriteByte(' ')
			}
			c.dump(b, in)
		}
		b.WriteString(closeCh)
	}
}
