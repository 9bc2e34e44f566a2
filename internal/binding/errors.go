package binding

import (
	"fmt"

	"quill/internal/source"
	"quill/internal/syntax"
)

// ResolveErrKind enumerates resolver failure modes.
type ResolveErrKind uint8

const (
	// ResolveNotIdentifier: the syntax object is not an identifier.
	ResolveNotIdentifier ResolveErrKind = iota + 1
	// ResolveUnknown: no candidate binding matches the identifier.
	ResolveUnknown
	// ResolveAmbiguous: several candidates tie at maximum scope-set size.
	ResolveAmbiguous
)

func (k ResolveErrKind) String() string {
	switch k {
	case ResolveNotIdentifier:
		return "NotIdentifier"
	case ResolveUnknown:
		return "Unknown"
	case ResolveAmbiguous:
		return "Ambiguous"
	default:
		return "unknown"
	}
}

// ResolveError is the structured failure of Table.Resolve.
type ResolveError struct {
	Kind   ResolveErrKind
	Text   string
	Scopes syntax.ScopeSet
	Span   source.Span
}

func (e *ResolveError) Error() string {
	switch e.Kind {
	case ResolveNotIdentifier:
		return "not an identifier"
	case ResolveUnknown:
		return fmt.Sprintf("unknown identifier %q with scopes %s", e.Text, e.Scopes)
	case ResolveAmbiguous:
		return fmt.Sprintf("ambiguous identifier %q", e.Text)
	default:
		return "resolve error"
	}
}
