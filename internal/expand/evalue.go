package expand

import (
	"quill/internal/core"
	"quill/internal/syntax"
)

// EValue describes what a binding means to the expander.
type EValue interface {
	evalue()
}

// PrimFn runs a built-in special form over the whole input form. It fills
// the task's target (possibly with holes that become child tasks) or
// reschedules the task with new syntax.
type PrimFn func(st *State, t *Task, stx syntax.Syntax) error

// PrimMacro is a built-in special form.
type PrimMacro struct {
	Name string
	Fn   PrimFn
}

func (PrimMacro) evalue() {}

// VarMacro marks a binding as a bound variable; Ref is its ready reference
// fragment.
type VarMacro struct {
	Ref core.Tree
}

func (VarMacro) evalue() {}

// UserMacro is a user-defined macro: a first-class macro function in the
// core-language evaluator, restricted to one syntactic category.
type UserMacro struct {
	Category Category
	Value    MacroValue
}

func (UserMacro) evalue() {}

// MacroValue is the engine-opaque handle for a macro function. The external
// evaluator is the only producer and consumer.
type MacroValue interface {
	MacroValue()
}
