package expand

import (
	"quill/internal/binding"
)

// Env maps bindings to their expander values for one phase.
type Env map[binding.Binding]EValue

// PhaseMap is the phase-indexed expansion environment. A missing phase is
// equivalent to an empty environment.
type PhaseMap struct {
	phases map[binding.Phase]Env
}

// NewPhaseMap returns an empty phase-indexed environment.
func NewPhaseMap() PhaseMap {
	return PhaseMap{phases: make(map[binding.Phase]Env)}
}

// Lookup returns the expander value of b at the given phase.
func (pm PhaseMap) Lookup(phase binding.Phase, b binding.Binding) (EValue, bool) {
	env, ok := pm.phases[phase]
	if !ok {
		return nil, false
	}
	ev, ok := env[b]
	return ev, ok
}

// Extend records the expander value of b at the given phase.
func (pm PhaseMap) Extend(phase binding.Phase, b binding.Binding, ev EValue) {
	env, ok := pm.phases[phase]
	if !ok {
		env = make(Env)
		pm.phases[phase] = env
	}
	env[b] = ev
}

// Shift returns a new PhaseMap with every phase p renamed to p+i.
// Environments are shared, not copied.
func (pm PhaseMap) Shift(i binding.Phase) PhaseMap {
	out := NewPhaseMap()
	for p, env := range pm.phases {
		out.phases[p+i] = env
	}
	return out
}

// Phases reports the number of populated phases.
func (pm PhaseMap) Phases() int { return len(pm.phases) }
