package expand

import (
	"fmt"

	"quill/internal/binding"
	"quill/internal/core"
	"quill/internal/source"
	"quill/internal/syntax"
	"quill/internal/trace"
)

// State is the single mutable cell of one expansion unit: signal set,
// environments, counters, the binding table, the task queue and the graph
// under construction. One expansion unit owns its state exclusively from
// start to finish; no locking happens inside the engine.
type State struct {
	strings  *source.Interner
	table    *binding.Table
	env      PhaseMap
	graph    *core.Graph
	eval     Evaluator
	tracer   trace.Tracer
	received map[Signal]bool

	ready   []*Task            // FIFO среди готовых задач
	blocked map[Signal][]*Task // задача зарегистрирована ровно под одним сигналом

	nextScope uint32
	nextLocal uint32
	nextTask  uint32
}

// Options configures a fresh expander state.
type Options struct {
	Strings   *source.Interner
	Evaluator Evaluator
	Tracer    trace.Tracer
}

// NewState creates the initial expander state: empty signal set, empty
// environments, fresh counters, and the prelude of built-in special forms.
func NewState(opts Options) *State {
	strings := opts.Strings
	if strings == nil {
		strings = source.NewInterner()
	}
	st := &State{
		strings:  strings,
		table:    binding.NewTable(strings),
		env:      NewPhaseMap(),
		graph:    core.NewGraph(0),
		eval:     opts.Evaluator,
		tracer:   opts.Tracer,
		received: make(map[Signal]bool),
		blocked:  make(map[Signal][]*Task),
	}
	st.installPrelude()
	return st
}

// Strings exposes the interner shared with the reader.
func (st *State) Strings() *source.Interner { return st.strings }

// Table exposes the binding table.
func (st *State) Table() *binding.Table { return st.table }

// Graph exposes the partial core graph under construction.
func (st *State) Graph() *core.Graph { return st.graph }

// Env exposes the phase-indexed expansion environment.
func (st *State) Env() PhaseMap { return st.env }

// FreshScope allocates a scope never equal to any other scope of this
// expansion.
func (st *State) FreshScope() syntax.Scope {
	st.nextScope++
	if st.nextScope == 0 {
		panic(fmt.Errorf("scope counter overflow"))
	}
	return syntax.Scope(st.nextScope)
}

// FreshLocal allocates a core-language local.
func (st *State) FreshLocal() core.LocalID {
	st.nextLocal++
	if st.nextLocal == 0 {
		panic(fmt.Errorf("local counter overflow"))
	}
	return core.LocalID(st.nextLocal)
}

func (st *State) freshTaskID() TaskID {
	st.nextTask++
	if st.nextTask == 0 {
		panic(fmt.Errorf("task counter overflow"))
	}
	return TaskID(st.nextTask)
}

// AddBinding records (text, scopes) -> fresh binding in the table and
// returns the binding.
func (st *State) AddBinding(text source.StringID, scopes syntax.ScopeSet) binding.Binding {
	b := st.table.Fresh()
	st.table.Add(text, scopes, b)
	return b
}

// Resolve resolves an identifier occurrence through the binding table.
func (st *State) Resolve(stx syntax.Syntax) (binding.Binding, error) {
	return st.table.Resolve(stx)
}

// AllMatching returns every table entry for text whose scope set is a
// subset of scopes. Primitives use it to probe shadowing.
func (st *State) AllMatching(text source.StringID, scopes syntax.ScopeSet) []binding.Entry {
	return st.table.AllMatching(text, scopes)
}

// SendSignal marks sig as received and wakes every task blocked on it.
// Woken tasks go to the back of the ready queue; delivery is observable at
// the next scheduler step.
func (st *State) SendSignal(sig Signal) {
	st.received[sig] = true
	woken := st.blocked[sig]
	if len(woken) == 0 {
		return
	}
	delete(st.blocked, sig)
	for _, t := range woken {
		t.Status = TaskReady
		st.ready = append(st.ready, t)
		st.tracePoint("task.woken", fmt.Sprintf("task=%d signal=%d", t.ID, sig))
	}
}

// Received reports whether sig has been delivered.
func (st *State) Received(sig Signal) bool { return st.received[sig] }

// BlockedSignals returns the signals with at least one waiting task.
func (st *State) BlockedSignals() []Signal {
	out := make([]Signal, 0, len(st.blocked))
	for sig := range st.blocked {
		out = append(out, sig)
	}
	return out
}

// spawn enqueues a fresh ready task at the back of the queue.
func (st *State) spawn(stx syntax.Syntax, target core.NodeID, cat Category, phase binding.Phase) *Task {
	t := &Task{
		ID:     st.freshTaskID(),
		Status: TaskReady,
		Stx:    stx,
		Target: target,
		Cat:    cat,
		Phase:  phase,
	}
	st.ready = append(st.ready, t)
	st.tracePoint("task.spawned", fmt.Sprintf("task=%d target=%d", t.ID, target))
	return t
}

// block registers a task under exactly one signal.
func (st *State) block(t *Task, sig Signal, k Cont) {
	t.Status = TaskBlocked
	t.sig = sig
	t.resume = k
	st.blocked[sig] = append(st.blocked[sig], t)
	st.tracePoint("task.blocked", fmt.Sprintf("task=%d signal=%d", t.ID, sig))
}

func (st *State) tracePoint(name, detail string) {
	if st.tracer == nil || !st.tracer.Enabled() {
		return
	}
	st.tracer.Point(trace.ScopeTask, name, detail)
}
