package binding

import (
	"fmt"

	"quill/internal/source"
	"quill/internal/syntax"
)

// Entry pairs the scope set of a binding site with the allocated binding.
type Entry struct {
	Scopes  syntax.ScopeSet
	Binding Binding
}

// Table maps identifier text to the bindings recorded for it, newest first.
// The table only ever grows during one expansion.
type Table struct {
	entries map[source.StringID][]Entry
	strings *source.Interner
	next    uint32 // следующий Binding; 0 зарезервирован под NoBinding
}

// NewTable builds an empty table. If strings is nil, a fresh interner is
// allocated.
func NewTable(strings *source.Interner) *Table {
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Table{
		entries: make(map[source.StringID][]Entry),
		strings: strings,
		next:    1,
	}
}

// Strings exposes the interner shared with the reader.
func (t *Table) Strings() *source.Interner { return t.strings }

// Fresh allocates a new unique binding token.
func (t *Table) Fresh() Binding {
	b := Binding(t.next)
	if t.next == ^uint32(0) {
		panic(fmt.Errorf("binding counter overflow"))
	}
	t.next++
	return b
}

// Add records (scopes, b) for the identifier text, prepending so newer
// bindings are found first by AllMatching.
func (t *Table) Add(text source.StringID, scopes syntax.ScopeSet, b Binding) {
	entry := Entry{Scopes: scopes, Binding: b}
	t.entries[text] = append([]Entry{entry}, t.entries[text]...)
}

// AllMatching returns every entry for text whose scope set is a subset of
// scopes, newest first.
func (t *Table) AllMatching(text source.StringID, scopes syntax.ScopeSet) []Entry {
	var out []Entry
	for _, e := range t.entries[text] {
		if e.Scopes.IsSubsetOf(scopes) {
			out = append(out, e)
		}
	}
	return out
}

// Resolve finds the binding of an identifier occurrence: among entries whose
// scope set is a subset of the identifier's, the unique one of maximum
// cardinality wins. Ties at the maximum are ambiguous by construction.
func (t *Table) Resolve(stx syntax.Syntax) (Binding, error) {
	if !stx.IsIdent() {
		return NoBinding, &ResolveError{Kind: ResolveNotIdentifier, Span: stx.Span}
	}

	candidates := t.AllMatching(stx.Text, stx.Scopes)
	if len(candidates) == 0 {
		return NoBinding, &ResolveError{
			Kind:   ResolveUnknown,
			Text:   t.strings.MustLookup(stx.Text),
			Scopes: stx.Scopes,
			Span:   stx.Span,
		}
	}

	best := candidates[0]
	ties := 1
	for _, c := range candidates[1:] {
		switch {
		case c.Scopes.Size() > best.Scopes.Size():
			best = c
			ties = 1
		case c.Scopes.Size() == best.Scopes.Size():
			ties++
		}
	}
	if ties > 1 {
		return NoBinding, &ResolveError{
			Kind: ResolveAmbiguous,
			Text: t.strings.MustLookup(stx.Text),
			Span: stx.Span,
		}
	}
	return best.Binding, nil
}

// Len reports the number of recorded entries across all identifiers.
func (t *Table) Len() int {
	n := 0
	for _, es := range t.entries {
		n += len(es)
	}
	return n
}

// Validate checks internal invariants: no two distinct bindings recorded
// under the same (text, scope set) key. A violation is a bug in the
// expander, never a user error.
func (t *Table) Validate() error {
	for text, es := range t.entries {
		for i := range es {
			for j := i + 1; j < len(es); j++ {
				if es[i].Scopes.Equal(es[j].Scopes) && es[i].Binding != es[j].Binding {
					return fmt.Errorf("duplicate binding for %q with scopes %s",
						t.strings.MustLookup(text), es[i].Scopes)
				}
			}
		}
	}
	return nil
}
