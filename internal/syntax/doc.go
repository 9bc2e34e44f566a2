// Package syntax defines the immutable syntax objects produced by the reader
// and consumed by the expander, together with the scope-set algebra that
// governs hygienic binding resolution.
//
// A Syntax node is a payload (identifier, signal, boolean, string, list or
// vector) plus a ScopeSet and a source span. Identifier equality in the
// binding sense is never textual: the resolver in internal/binding compares
// scope sets by subset and cardinality.
//
// Invariants:
//   - Every Scope in any ScopeSet was produced by the owning expansion's
//     allocator; the zero Scope never appears.
//   - ScopeSet operations are pure; a set is never mutated in place.
//   - AdjustScopes visits every node of the tree exactly once.
package syntax
