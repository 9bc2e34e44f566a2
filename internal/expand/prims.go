package expand

import (
	"quill/internal/core"
	"quill/internal/syntax"
)

// installPrelude binds the built-in special forms under empty scope sets at
// phase 0, so they are visible to any occurrence and can still be shadowed
// by any scoped binding.
func (st *State) installPrelude() {
	prims := []struct {
		name string
		fn   PrimFn
	}{
		{"lambda", primLambda},
		{"λ", primLambda},
		{"quote", primQuote},
		{"let-syntax", primLetSyntax},
		{"#%app", primApp},
		{"#%module", primModule},
	}
	for _, p := range prims {
		b := st.AddBinding(st.strings.Intern(p.name), syntax.EmptySet())
		st.env.Extend(0, b, PrimMacro{Name: p.name, Fn: p.fn})
	}
}

// primLambda expands (lambda [params ...] body): a fresh scope is inserted
// on every parameter and on the body, each parameter is bound to a fresh
// core local, and the body becomes a child task under a Lam node.
func primLambda(st *State, t *Task, stx syntax.Syntax) error {
	_, tail, err := MustBeCons(stx)
	if err != nil {
		return err
	}
	if len(tail) != 2 {
		return &Err{Kind: ErrNotRightLength, Want: 3, Span: stx.Span}
	}
	paramsStx := tail[0]
	params, err := MustBeVec(paramsStx, len(paramsStx.Children))
	if err != nil {
		return err
	}

	s := st.FreshScope()
	locals := make([]core.LocalID, len(params))
	for i, p := range params {
		id, err := MustBeIdent(p)
		if err != nil {
			return err
		}
		local := st.FreshLocal()
		locals[i] = local
		b := st.AddBinding(id.Text, id.Scopes.Insert(s))
		st.env.Extend(t.Phase, b, VarMacro{Ref: core.RefTree(local)})
	}

	body := tail[1].AddScope(s)
	holes := core.FillTree(core.LamTree(locals, core.HoleTree()), st.graph, t.Target)
	st.spawn(body, holes[0], CategoryExpression, t.Phase)
	return nil
}

// primQuote expands (quote form): the form is carried into the core as a
// value, unexpanded.
func primQuote(st *State, t *Task, stx syntax.Syntax) error {
	_, tail, err := MustBeCons(stx)
	if err != nil {
		return err
	}
	if len(tail) != 1 {
		return &Err{Kind: ErrNotRightLength, Want: 2, Span: stx.Span}
	}
	core.FillTree(core.QuoteTree(tail[0]), st.graph, t.Target)
	return nil
}

// primLetSyntax expands (let-syntax [name transformer] body): the
// transformer is evaluated to a macro value, name is bound to it as an
// expression macro under a fresh scope, and the task continues with the
// body carrying that scope.
func primLetSyntax(st *State, t *Task, stx syntax.Syntax) error {
	_, tail, err := MustBeCons(stx)
	if err != nil {
		return err
	}
	if len(tail) != 2 {
		return &Err{Kind: ErrNotRightLength, Want: 3, Span: stx.Span}
	}
	bind, err := MustBeVec(tail[0], 2)
	if err != nil {
		return err
	}
	name, err := MustBeIdent(bind[0])
	if err != nil {
		return err
	}

	value, err := st.eval.Transformer(bind[1])
	if err != nil {
		return &Err{Kind: ErrEval, Cause: err, Span: bind[1].Span}
	}

	s := st.FreshScope()
	b := st.AddBinding(name.Text, name.Scopes.Insert(s))
	st.env.Extend(t.Phase, b, UserMacro{Category: CategoryExpression, Value: value})

	t.Stx = tail[1].AddScope(s)
	st.requeue(t)
	return nil
}

// primApp expands an explicit application (#%app fn arg ...): every
// element becomes a child expression task under an App node.
func primApp(st *State, t *Task, stx syntax.Syntax) error {
	_, tail, err := MustBeCons(stx)
	if err != nil {
		return err
	}
	if len(tail) == 0 {
		return &Err{Kind: ErrNotCons, Span: stx.Span}
	}
	return st.fillApp(t, tail)
}

// primModule expands (#%module decl ...): each declaration becomes a child
// module-level task under a Module node.
func primModule(st *State, t *Task, stx syntax.Syntax) error {
	_, tail, err := MustBeCons(stx)
	if err != nil {
		return err
	}
	children := make([]core.Tree, len(tail))
	for i := range tail {
		children[i] = core.HoleTree()
	}
	holes := core.FillTree(core.ModuleTree(children...), st.graph, t.Target)
	for i, d := range tail {
		st.spawn(d, holes[i], CategoryModule, t.Phase)
	}
	return nil
}

// fillApp fills the task's target with an App node over one hole per
// element and spawns the child tasks.
func (st *State) fillApp(t *Task, elems []syntax.Syntax) error {
	children := make([]core.Tree, len(elems))
	for i := range elems {
		children[i] = core.HoleTree()
	}
	holes := core.FillTree(core.AppTree(children...), st.graph, t.Target)
	for i, e := range elems {
		st.spawn(e, holes[i], CategoryExpression, t.Phase)
	}
	return nil
}
