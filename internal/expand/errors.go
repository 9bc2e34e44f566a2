package expand

import (
	"errors"
	"fmt"

	"quill/internal/binding"
	"quill/internal/diag"
	"quill/internal/source"
	"quill/internal/syntax"
)

// ErrKind enumerates expansion failure modes.
type ErrKind uint8

const (
	// ErrAmbiguous: the resolver found more than one maximum-size candidate.
	ErrAmbiguous ErrKind = iota + 1
	// ErrUnknown: the resolver found no candidate.
	ErrUnknown
	// ErrNotIdentifier: a shape check expected an identifier.
	ErrNotIdentifier
	// ErrNotEmpty: expected an empty list.
	ErrNotEmpty
	// ErrNotCons: expected a non-empty list.
	ErrNotCons
	// ErrNotRightLength: expected a vector of a specific length.
	ErrNotRightLength
	// ErrWrongCategory: a user macro disagrees with its usage context.
	ErrWrongCategory
	// ErrStuck: all tasks blocked, no progress possible.
	ErrStuck
	// ErrEval: the evaluator failed while running a macro.
	ErrEval
)

func (k ErrKind) String() string {
	switch k {
	case ErrAmbiguous:
		return "Ambiguous"
	case ErrUnknown:
		return "Unknown"
	case ErrNotIdentifier:
		return "NotIdentifier"
	case ErrNotEmpty:
		return "NotEmpty"
	case ErrNotCons:
		return "NotCons"
	case ErrNotRightLength:
		return "NotRightLength"
	case ErrWrongCategory:
		return "WrongCategory"
	case ErrStuck:
		return "StuckExpansion"
	case ErrEval:
		return "EvalFailure"
	default:
		return "unknown"
	}
}

// Err is the structured failure of one expansion unit. Every failure is
// fatal to the unit; partially built graphs are discarded by the caller.
type Err struct {
	Kind     ErrKind
	Text     string          // Ambiguous, Unknown
	Scopes   syntax.ScopeSet // Unknown
	Want     int             // NotRightLength
	Expected Category        // WrongCategory
	Got      Category        // WrongCategory
	Task     TaskID          // StuckExpansion: representative blocked task
	Span     source.Span
	Cause    error // EvalFailure
}

func (e *Err) Error() string {
	switch e.Kind {
	case ErrAmbiguous:
		return fmt.Sprintf("ambiguous identifier %q", e.Text)
	case ErrUnknown:
		return fmt.Sprintf("unknown identifier %q with scopes %s", e.Text, e.Scopes)
	case ErrNotIdentifier:
		return "identifier expected"
	case ErrNotEmpty:
		return "empty list expected"
	case ErrNotCons:
		return "non-empty list expected"
	case ErrNotRightLength:
		return fmt.Sprintf("vector of length %d expected", e.Want)
	case ErrWrongCategory:
		return fmt.Sprintf("%s macro used in %s context", e.Expected, e.Got)
	case ErrStuck:
		return fmt.Sprintf("stuck expansion: task %d blocked with no signal in sight", e.Task)
	case ErrEval:
		return fmt.Sprintf("macro evaluation failed: %v", e.Cause)
	default:
		return "expansion error"
	}
}

func (e *Err) Unwrap() error { return e.Cause }

// Code maps the error to its diagnostic code.
func (e *Err) Code() diag.Code {
	switch e.Kind {
	case ErrAmbiguous:
		return diag.ExpandAmbiguous
	case ErrUnknown:
		return diag.ExpandUnknown
	case ErrNotIdentifier:
		return diag.ExpandNotIdentifier
	case ErrNotEmpty:
		return diag.ExpandNotEmpty
	case ErrNotCons:
		return diag.ExpandNotCons
	case ErrNotRightLength:
		return diag.ExpandNotRightLength
	case ErrWrongCategory:
		return diag.ExpandWrongCategory
	case ErrStuck:
		return diag.ExpandStuck
	case ErrEval:
		return diag.ExpandEvalFailure
	default:
		return diag.UnknownCode
	}
}

// Report emits the error as a diagnostic.
func (e *Err) Report(r diag.Reporter) {
	if r == nil {
		return
	}
	diag.ReportError(r, e.Code(), e.Span, e.Error()).Emit()
}

// fromResolve converts a resolver failure into an expansion error.
func fromResolve(err error) *Err {
	var re *binding.ResolveError
	if !errors.As(err, &re) {
		return &Err{Kind: ErrEval, Cause: err}
	}
	switch re.Kind {
	case binding.ResolveNotIdentifier:
		return &Err{Kind: ErrNotIdentifier, Span: re.Span}
	case binding.ResolveUnknown:
		return &Err{Kind: ErrUnknown, Text: re.Text, Scopes: re.Scopes, Span: re.Span}
	case binding.ResolveAmbiguous:
		return &Err{Kind: ErrAmbiguous, Text: re.Text, Span: re.Span}
	default:
		return &Err{Kind: ErrEval, Cause: err}
	}
}
