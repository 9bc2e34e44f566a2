package expand

import (
	"fmt"

	"quill/internal/core"
	"quill/internal/syntax"
)

// Status is the quiescent state of a driven expansion.
type Status uint8

const (
	// StatusDone: every task completed and the root is fully wired.
	StatusDone Status = iota + 1
	// StatusBlocked: no ready tasks remain, at least one waits on a signal.
	// The host may deliver signals with SendSignal and call Resume.
	StatusBlocked
)

func (s Status) String() string {
	switch s {
	case StatusDone:
		return "done"
	case StatusBlocked:
		return "blocked"
	default:
		return "invalid"
	}
}

// Result is the outcome of driving one expansion unit to quiescence.
type Result struct {
	Root   core.NodeID
	Graph  *core.Graph
	Status Status
}

// Tree zonks the graph from the root into its explicit-hole view. On a
// blocked result the tree has a hole at every position owned by a
// suspended task.
func (r *Result) Tree() core.Tree { return core.Zonk(r.Root, r.Graph) }

// ExpandExpression drives the translation of one expression.
func (st *State) ExpandExpression(stx syntax.Syntax) (*Result, error) {
	root := st.graph.Alloc()
	st.graph.SetRoot(root)
	st.spawn(stx, root, CategoryExpression, 0)
	return st.drive()
}

// ExpandDeclaration drives the translation of one declaration.
func (st *State) ExpandDeclaration(stx syntax.Syntax) (*Result, error) {
	root := st.graph.Alloc()
	st.graph.SetRoot(root)
	st.spawn(stx, root, CategoryDeclaration, 0)
	return st.drive()
}

// ExpandModuleBody drives the translation of a module body: every form
// becomes a module-level declaration under one Module root.
func (st *State) ExpandModuleBody(stxs []syntax.Syntax) (*Result, error) {
	root := st.graph.Alloc()
	st.graph.SetRoot(root)

	children := make([]core.Tree, len(stxs))
	for i := range stxs {
		children[i] = core.HoleTree()
	}
	holes := core.FillTree(core.ModuleTree(children...), st.graph, root)
	for i, stx := range stxs {
		st.spawn(stx, holes[i], CategoryModule, 0)
	}
	return st.drive()
}

// Resume continues a blocked expansion after the host delivered signals.
func (st *State) Resume() (*Result, error) {
	return st.drive()
}

func (st *State) drive() (*Result, error) {
	status, err := st.run()
	if err != nil {
		return nil, err
	}
	return &Result{Root: st.graph.Root(), Graph: st.graph, Status: status}, nil
}

// run executes ready tasks FIFO until none remain. It returns StatusBlocked
// when only blocked tasks are left; deciding that no further signals can
// arrive is the caller's business (see StuckErr).
func (st *State) run() (Status, error) {
	for len(st.ready) > 0 {
		t := st.ready[0]
		st.ready = st.ready[1:]
		st.tracePoint("task.step", fmt.Sprintf("task=%d", t.ID))
		if err := st.step(t); err != nil {
			return 0, err
		}
	}
	if st.blockedCount() > 0 {
		return StatusBlocked, nil
	}
	return StatusDone, nil
}

func (st *State) blockedCount() int {
	n := 0
	for _, ts := range st.blocked {
		n += len(ts)
	}
	return n
}

// StuckErr packages the blocked state as the fatal StuckExpansion error,
// naming one representative blocked task. Call it when no pending external
// events can deliver further signals.
func (st *State) StuckErr() *Err {
	var rep *Task
	for _, ts := range st.blocked {
		for _, t := range ts {
			if rep == nil || t.ID < rep.ID {
				rep = t
			}
		}
	}
	if rep == nil {
		return nil
	}
	return &Err{Kind: ErrStuck, Task: rep.ID, Span: rep.Stx.Span}
}

// step runs one scheduler step for a ready task.
func (st *State) step(t *Task) error {
	// возобновление приостановленного макроса
	if t.resume != nil {
		k := t.resume
		t.resume = nil
		return st.handleOutcome(t, k(t.sig))
	}

	stx := t.Stx
	switch stx.Kind {
	case syntax.KindSig:
		core.FillTree(core.SigTree(stx.Sig), st.graph, t.Target)
		return nil
	case syntax.KindBool:
		core.FillTree(core.BoolTree(stx.Bool), st.graph, t.Target)
		return nil
	case syntax.KindStr:
		core.FillTree(core.StrTree(stx.Str), st.graph, t.Target)
		return nil

	case syntax.KindId:
		ev, err := st.lookupHead(t, stx)
		if err != nil {
			return err
		}
		switch ev := ev.(type) {
		case VarMacro:
			core.FillTree(ev.Ref, st.graph, t.Target)
			return nil
		case PrimMacro:
			return ev.Fn(st, t, stx)
		case UserMacro:
			return st.invokeUser(t, ev, stx)
		}
		return &Err{Kind: ErrUnknown, Span: stx.Span}

	case syntax.KindList, syntax.KindVec:
		if len(stx.Children) == 0 {
			return &Err{Kind: ErrNotCons, Span: stx.Span}
		}
		head := stx.Children[0]

		if !head.IsIdent() {
			// голова не идентификатор: неявная аппликация
			if stx.Kind == syntax.KindVec {
				return &Err{Kind: ErrNotCons, Span: stx.Span}
			}
			return st.fillApp(t, stx.Children)
		}

		ev, err := st.lookupHead(t, head)
		if err != nil {
			return err
		}
		switch ev := ev.(type) {
		case VarMacro:
			// переменная во главе списка: неявная аппликация
			if stx.Kind == syntax.KindVec {
				return &Err{Kind: ErrNotCons, Span: stx.Span}
			}
			return st.fillApp(t, stx.Children)
		case PrimMacro:
			return ev.Fn(st, t, stx)
		case UserMacro:
			return st.invokeUser(t, ev, stx)
		}
		return &Err{Kind: ErrUnknown, Span: stx.Span}
	}
	return &Err{Kind: ErrNotCons, Span: stx.Span}
}

// lookupHead resolves an identifier and finds its expander value in the
// task's phase.
func (st *State) lookupHead(t *Task, id syntax.Syntax) (EValue, error) {
	b, err := st.Resolve(id)
	if err != nil {
		return nil, fromResolve(err)
	}
	ev, ok := st.env.Lookup(t.Phase, b)
	if !ok {
		// биндинг без значения в этой фазе — для резолвера он невидим
		return nil, &Err{
			Kind:   ErrUnknown,
			Text:   st.strings.MustLookup(id.Text),
			Scopes: id.Scopes,
			Span:   id.Span,
		}
	}
	return ev, nil
}

// invokeUser runs a user macro under the hygienic introduction rule: a
// fresh scope is flipped over the input, and flipped again over whatever
// the macro eventually returns.
func (st *State) invokeUser(t *Task, um UserMacro, stx syntax.Syntax) error {
	if um.Category != t.Cat {
		return &Err{
			Kind:     ErrWrongCategory,
			Expected: um.Category,
			Got:      t.Cat,
			Span:     stx.Span,
		}
	}

	s := st.FreshScope()
	t.flip = s
	flipped := stx.FlipScope(s)
	return st.handleOutcome(t, st.eval.Invoke(um.Value, flipped))
}

// handleOutcome applies the evaluator's answer to the task.
func (st *State) handleOutcome(t *Task, o Outcome) error {
	switch o := o.(type) {
	case Done:
		result := o.Stx
		if t.flip.IsValid() {
			result = result.FlipScope(t.flip)
			t.flip = syntax.NoScope
		}
		t.Stx = result
		t.Status = TaskReady
		st.requeue(t)
		return nil
	case Blocked:
		st.block(t, o.Sig, o.K)
		return nil
	case Failed:
		return &Err{Kind: ErrEval, Cause: o.Err, Span: t.Stx.Span}
	default:
		return &Err{Kind: ErrEval, Cause: fmt.Errorf("evaluator returned no outcome"), Span: t.Stx.Span}
	}
}

// requeue puts a ready task at the back of the queue.
func (st *State) requeue(t *Task) {
	t.Status = TaskReady
	st.ready = append(st.ready, t)
}
