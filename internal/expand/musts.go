package expand

import (
	"quill/internal/syntax"
)

// Shape checks are the only destructors macros and primitives may use to
// take syntax apart; any other decomposition is a program error.

// MustBeIdent returns the identifier or fails with NotIdentifier.
func MustBeIdent(stx syntax.Syntax) (syntax.Syntax, error) {
	if !stx.IsIdent() {
		return syntax.Syntax{}, &Err{Kind: ErrNotIdentifier, Span: stx.Span}
	}
	return stx, nil
}

// MustBeEmpty checks for an empty list and fails with NotEmpty otherwise.
func MustBeEmpty(stx syntax.Syntax) error {
	if stx.Kind != syntax.KindList || len(stx.Children) != 0 {
		return &Err{Kind: ErrNotEmpty, Span: stx.Span}
	}
	return nil
}

// MustBeCons destructures a non-empty list into head and tail or fails
// with NotCons.
func MustBeCons(stx syntax.Syntax) (head syntax.Syntax, tail []syntax.Syntax, err error) {
	if stx.Kind != syntax.KindList || len(stx.Children) == 0 {
		return syntax.Syntax{}, nil, &Err{Kind: ErrNotCons, Span: stx.Span}
	}
	return stx.Children[0], stx.Children[1:], nil
}

// MustBeVec destructures a vector of exactly n elements or fails with
// NotRightLength.
func MustBeVec(stx syntax.Syntax, n int) ([]syntax.Syntax, error) {
	if stx.Kind != syntax.KindVec || len(stx.Children) != n {
		return nil, &Err{Kind: ErrNotRightLength, Want: n, Span: stx.Span}
	}
	return stx.Children, nil
}
