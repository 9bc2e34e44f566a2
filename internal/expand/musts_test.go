package expand

import (
	"errors"
	"testing"

	"quill/internal/source"
	"quill/internal/syntax"
)

func kindOf(t *testing.T, err error) ErrKind {
	t.Helper()
	var ee *Err
	if !errors.As(err, &ee) {
		t.Fatalf("expected *Err, got %v", err)
	}
	return ee.Kind
}

func TestMustBeIdent(t *testing.T) {
	in := source.NewInterner()
	id := syntax.NewIdent(in.Intern("x"), source.Span{})

	got, err := MustBeIdent(id)
	if err != nil {
		t.Fatalf("ident: %v", err)
	}
	if got.Text != id.Text {
		t.Fatalf("ident text mismatch")
	}

	_, err = MustBeIdent(syntax.NewSig(1, source.Span{}))
	if kindOf(t, err) != ErrNotIdentifier {
		t.Fatalf("expected NotIdentifier")
	}
}

func TestMustBeEmpty(t *testing.T) {
	empty := syntax.NewList(nil, source.Span{})
	if err := MustBeEmpty(empty); err != nil {
		t.Fatalf("empty: %v", err)
	}

	nonEmpty := syntax.NewList([]syntax.Syntax{syntax.NewSig(1, source.Span{})}, source.Span{})
	if kindOf(t, MustBeEmpty(nonEmpty)) != ErrNotEmpty {
		t.Fatalf("expected NotEmpty")
	}
	if kindOf(t, MustBeEmpty(syntax.NewVec(nil, source.Span{}))) != ErrNotEmpty {
		t.Fatalf("vector is not an empty list")
	}
}

func TestMustBeCons(t *testing.T) {
	in := source.NewInterner()
	list := syntax.NewList([]syntax.Syntax{
		syntax.NewIdent(in.Intern("f"), source.Span{}),
		syntax.NewSig(1, source.Span{}),
		syntax.NewSig(2, source.Span{}),
	}, source.Span{})

	head, tail, err := MustBeCons(list)
	if err != nil {
		t.Fatalf("cons: %v", err)
	}
	if !head.IsIdent() || len(tail) != 2 {
		t.Fatalf("destructure: head=%v tail=%d", head.Kind, len(tail))
	}

	_, _, err = MustBeCons(syntax.NewList(nil, source.Span{}))
	if kindOf(t, err) != ErrNotCons {
		t.Fatalf("expected NotCons for empty list")
	}
	_, _, err = MustBeCons(syntax.NewSig(3, source.Span{}))
	if kindOf(t, err) != ErrNotCons {
		t.Fatalf("expected NotCons for atom")
	}
}

func TestMustBeVec(t *testing.T) {
	vec := syntax.NewVec([]syntax.Syntax{
		syntax.NewSig(1, source.Span{}),
		syntax.NewSig(2, source.Span{}),
	}, source.Span{})

	elems, err := MustBeVec(vec, 2)
	if err != nil {
		t.Fatalf("vec: %v", err)
	}
	if len(elems) != 2 {
		t.Fatalf("elem count %d", len(elems))
	}

	_, err = MustBeVec(vec, 3)
	var ee *Err
	if !errors.As(err, &ee) || ee.Kind != ErrNotRightLength || ee.Want != 3 {
		t.Fatalf("expected NotRightLength(3), got %v", err)
	}

	_, err = MustBeVec(syntax.NewList(nil, source.Span{}), 0)
	if kindOf(t, err) != ErrNotRightLength {
		t.Fatalf("list is not a vector")
	}
}
