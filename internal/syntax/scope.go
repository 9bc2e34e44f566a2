package syntax

// Scope is an opaque token attached (as part of a set) to identifier
// occurrences. Scopes only support equality and ordering; they are allocated
// from a monotonically increasing counter owned by the expander state.
type Scope uint32

const (
	// NoScope marks the absence of a scope reference. Allocators never
	// produce it.
	NoScope Scope = 0
)

// IsValid reports whether the scope was produced by an allocator.
func (s Scope) IsValid() bool { return s != NoScope }
