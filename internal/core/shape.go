package core

import (
	"quill/internal/syntax"
)

// ShapeKind enumerates core-language constructors.
type ShapeKind uint8

const (
	// ShapeLam is a lambda abstraction.
	ShapeLam ShapeKind = iota + 1
	// ShapeApp is an application.
	ShapeApp
	// ShapeRef is a reference to a bound local.
	ShapeRef
	// ShapeSig is a signal literal.
	ShapeSig
	// ShapeBool is a boolean literal.
	ShapeBool
	// ShapeStr is a string literal.
	ShapeStr
	// ShapeQuote is quoted syntax carried into the core as a value.
	ShapeQuote
	// ShapeModule is a sequence of expanded top-level declarations.
	ShapeModule
)

// String returns a human-readable name for the shape kind.
func (k ShapeKind) String() string {
	switch k {
	case ShapeLam:
		return "Lam"
	case ShapeApp:
		return "App"
	case ShapeRef:
		return "Ref"
	case ShapeSig:
		return "Sig"
	case ShapeBool:
		return "Bool"
	case ShapeStr:
		return "Str"
	case ShapeQuote:
		return "Quote"
	case ShapeModule:
		return "Module"
	default:
		return "Unknown"
	}
}

// Shape is one core constructor parameterized over child node identities.
// A child identity that has no entry in the graph yet is a pending position.
type Shape struct {
	Kind ShapeKind
	Data ShapeData
}

// ShapeData is the interface for constructor-specific payloads.
type ShapeData interface {
	shapeData()
}

// LamData holds data for ShapeLam.
type LamData struct {
	Params []LocalID
	Body   NodeID
}

func (LamData) shapeData() {}

// AppData holds data for ShapeApp. Args[0] is the operator.
type AppData struct {
	Args []NodeID
}

func (AppData) shapeData() {}

// RefData holds data for ShapeRef.
type RefData struct {
	Local LocalID
}

func (RefData) shapeData() {}

// SigData holds data for ShapeSig.
type SigData struct {
	Value uint64
}

func (SigData) shapeData() {}

// BoolData holds data for ShapeBool.
type BoolData struct {
	Value bool
}

func (BoolData) shapeData() {}

// StrData holds data for ShapeStr.
type StrData struct {
	Value string
}

func (StrData) shapeData() {}

// QuoteData holds data for ShapeQuote.
type QuoteData struct {
	Stx syntax.Syntax
}

func (QuoteData) shapeData() {}

// ModuleData holds data for ShapeModule.
type ModuleData struct {
	Decls []NodeID
}

func (ModuleData) shapeData() {}

// ChildIDs returns the child node identities of the shape in positional
// order. The slice is freshly allocated.
func (s Shape) ChildIDs() []NodeID {
	switch d := s.Data.(type) {
	case LamData:
		return []NodeID{d.Body}
	case AppData:
		out := make([]NodeID, len(d.Args))
		copy(out, d.Args)
		return out
	case ModuleData:
		out := make([]NodeID, len(d.Decls))
		copy(out, d.Decls)
		return out
	default:
		return nil
	}
}
