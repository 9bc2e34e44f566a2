package reader_test

import (
	"testing"

	"quill/internal/diag"
	"quill/internal/reader"
	"quill/internal/source"
	"quill/internal/syntax"
	"quill/internal/testkit"
)

func read(t *testing.T, src string) (reader.Result, *source.Interner, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	in := source.NewInterner()
	bag := diag.NewBag(16)
	_, res := reader.ReadString(fs, "test.ql", src, reader.Options{
		Strings:  in,
		Reporter: diag.BagReporter{Bag: bag},
	})
	return res, in, bag
}

func TestReadLambdaForm(t *testing.T) {
	res, in, bag := read(t, "(lambda [x] x)")
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %v", bag.Items())
	}
	if len(res.Body) != 1 {
		t.Fatalf("body count %d", len(res.Body))
	}

	form := res.Body[0]
	if form.Kind != syntax.KindList || len(form.Children) != 3 {
		t.Fatalf("unexpected form: %s", form.Dump(in))
	}
	if form.Children[1].Kind != syntax.KindVec {
		t.Fatalf("params must read as a vector")
	}
	if got := form.Dump(in); got != "(lambda [x] x)" {
		t.Fatalf("round trip: %q", got)
	}
}

func TestReadLangHeader(t *testing.T) {
	res, in, bag := read(t, "#lang quill\n(f 1)")
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %v", bag.Items())
	}
	if res.Lang == source.NoStringID {
		t.Fatalf("missing #lang")
	}
	if in.MustLookup(res.Lang) != "quill" {
		t.Fatalf("lang name: %q", in.MustLookup(res.Lang))
	}
	if len(res.Body) != 1 {
		t.Fatalf("body count %d", len(res.Body))
	}
}

func TestReadLiterals(t *testing.T) {
	res, _, bag := read(t, `42 #t #false "a\nb"`)
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %v", bag.Items())
	}
	if len(res.Body) != 4 {
		t.Fatalf("body count %d", len(res.Body))
	}
	if res.Body[0].Kind != syntax.KindSig || res.Body[0].Sig != 42 {
		t.Fatalf("signal: %+v", res.Body[0])
	}
	if res.Body[1].Kind != syntax.KindBool || !res.Body[1].Bool {
		t.Fatalf("bool #t: %+v", res.Body[1])
	}
	if res.Body[2].Kind != syntax.KindBool || res.Body[2].Bool {
		t.Fatalf("bool #false: %+v", res.Body[2])
	}
	if res.Body[3].Kind != syntax.KindStr || res.Body[3].Str != "a\nb" {
		t.Fatalf("string: %+v", res.Body[3])
	}
}

func TestReadScopesStartEmpty(t *testing.T) {
	res, _, _ := read(t, "(f x)")
	var check func(s syntax.Syntax)
	check = func(s syntax.Syntax) {
		if s.Scopes.Size() != 0 {
			t.Fatalf("reader must produce empty scope sets")
		}
		for _, c := range s.Children {
			check(c)
		}
	}
	check(res.Body[0])
}

func TestReadUnclosedList(t *testing.T) {
	_, _, bag := read(t, "(f x")
	if !bag.HasErrors() {
		t.Fatalf("expected a diagnostic")
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.ReadUnclosedParen {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected ReadUnclosedParen, got %v", bag.Items())
	}
}

func TestReadUnmatchedCloser(t *testing.T) {
	_, _, bag := read(t, ") x")
	if !bag.HasErrors() {
		t.Fatalf("expected a diagnostic")
	}
	if bag.Items()[0].Code != diag.ReadUnmatchedCloser {
		t.Fatalf("got %v", bag.Items()[0].Code)
	}
}

func TestReadLangInBody(t *testing.T) {
	_, _, bag := read(t, "(f)\n#lang quill")
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.ReadBadLangHeader {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected ReadBadLangHeader, got %v", bag.Items())
	}
}

func TestReadSpanInvariants(t *testing.T) {
	fs := source.NewFileSet()
	in := source.NewInterner()
	bag := diag.NewBag(16)
	id, res := reader.ReadString(fs, "test.ql", "(let-syntax [m (lambda [stx] stx)] (m [x] 42))", reader.Options{
		Strings:  in,
		Reporter: diag.BagReporter{Bag: bag},
	})
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %v", bag.Items())
	}
	for _, form := range res.Body {
		if err := testkit.CheckSyntaxSpanInvariants(form, fs.Get(id)); err != nil {
			t.Fatalf("span invariants: %v", err)
		}
	}
}

func TestReadNestedMixedDelimiters(t *testing.T) {
	res, in, bag := read(t, "(let-syntax [m (lambda [stx] stx)] (m [x] x))")
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %v", bag.Items())
	}
	if got := res.Body[0].Dump(in); got != "(let-syntax [m (lambda [stx] stx)] (m [x] x))" {
		t.Fatalf("round trip: %q", got)
	}
}
