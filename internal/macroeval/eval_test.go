package macroeval

import (
	"testing"

	"quill/internal/diag"
	"quill/internal/expand"
	"quill/internal/reader"
	"quill/internal/source"
	"quill/internal/syntax"
)

func parse(t *testing.T, in *source.Interner, src string) syntax.Syntax {
	t.Helper()
	fs := source.NewFileSet()
	bag := diag.NewBag(8)
	_, res := reader.ReadString(fs, "eval_test.ql", src, reader.Options{
		Strings:  in,
		Reporter: diag.BagReporter{Bag: bag},
	})
	if bag.HasErrors() {
		t.Fatalf("read %q: %v", src, bag.Items())
	}
	if len(res.Body) != 1 {
		t.Fatalf("read %q: %d forms", src, len(res.Body))
	}
	return res.Body[0]
}

func TestTransformerShape(t *testing.T) {
	in := source.NewInterner()
	ev := New(in)

	if _, err := ev.Transformer(parse(t, in, "(lambda [stx] stx)")); err != nil {
		t.Fatalf("transformer: %v", err)
	}
	if _, err := ev.Transformer(parse(t, in, "(lambda [a b] a)")); err == nil {
		t.Fatalf("two parameters must be rejected")
	}
	if _, err := ev.Transformer(parse(t, in, "(cons 1 2)")); err == nil {
		t.Fatalf("non-lambda transformer must be rejected")
	}
}

func invoke(t *testing.T, ev *Eval, in *source.Interner, transformer, input string) expand.Outcome {
	t.Helper()
	m, err := ev.Transformer(parse(t, in, transformer))
	if err != nil {
		t.Fatalf("transformer: %v", err)
	}
	return ev.Invoke(m, parse(t, in, input))
}

func TestInvokeIdentity(t *testing.T) {
	in := source.NewInterner()
	ev := New(in)

	out := invoke(t, ev, in, "(lambda [stx] stx)", "(m 1 2)")
	done, ok := out.(expand.Done)
	if !ok {
		t.Fatalf("expected Done, got %T", out)
	}
	if done.Stx.Dump(in) != "(m 1 2)" {
		t.Fatalf("identity result: %s", done.Stx.Dump(in))
	}
}

func TestInvokeConsQuoteCdr(t *testing.T) {
	in := source.NewInterner()
	ev := New(in)

	// классический rewrite: голова заменяется на λ
	out := invoke(t, ev, in, "(lambda [stx] (cons (quote λ) (cdr stx)))", "(m [x] x)")
	done, ok := out.(expand.Done)
	if !ok {
		t.Fatalf("expected Done, got %T", out)
	}
	if done.Stx.Dump(in) != "(λ [x] x)" {
		t.Fatalf("rewrite result: %s", done.Stx.Dump(in))
	}
}

func TestInvokeListAndCar(t *testing.T) {
	in := source.NewInterner()
	ev := New(in)

	out := invoke(t, ev, in, "(lambda [stx] (list (car (cdr stx)) 9))", "(m 7)")
	done, ok := out.(expand.Done)
	if !ok {
		t.Fatalf("expected Done, got %T", out)
	}
	if done.Stx.Dump(in) != "(7 9)" {
		t.Fatalf("result: %s", done.Stx.Dump(in))
	}
}

func TestInvokeWaitSignalBlocks(t *testing.T) {
	in := source.NewInterner()
	ev := New(in)

	out := invoke(t, ev, in, "(lambda [stx] (cons (wait-signal 7) (cdr stx)))", "(m 1)")
	blocked, ok := out.(expand.Blocked)
	if !ok {
		t.Fatalf("expected Blocked, got %T", out)
	}
	if blocked.Sig != 7 {
		t.Fatalf("signal: %d", blocked.Sig)
	}

	resumed := blocked.K(7)
	done, ok := resumed.(expand.Done)
	if !ok {
		t.Fatalf("expected Done after resume, got %T", resumed)
	}
	if done.Stx.Dump(in) != "(7 1)" {
		t.Fatalf("resumed result: %s", done.Stx.Dump(in))
	}
}

func TestInvokeCarOfAtomFails(t *testing.T) {
	in := source.NewInterner()
	ev := New(in)

	out := invoke(t, ev, in, "(lambda [stx] (car (car (cdr stx))))", "(m 5)")
	if _, ok := out.(expand.Failed); !ok {
		t.Fatalf("expected Failed, got %T", out)
	}
}

func TestInvokeUnboundNameFails(t *testing.T) {
	in := source.NewInterner()
	ev := New(in)

	out := invoke(t, ev, in, "(lambda [stx] nope)", "(m)")
	if _, ok := out.(expand.Failed); !ok {
		t.Fatalf("expected Failed, got %T", out)
	}
}

func TestEvaluatorIsReentrant(t *testing.T) {
	in := source.NewInterner()
	ev := New(in)

	m, err := ev.Transformer(parse(t, in, "(lambda [stx] (wait-signal 3))"))
	if err != nil {
		t.Fatalf("transformer: %v", err)
	}

	// две приостановки живут одновременно, возобновляются в любом порядке
	first := ev.Invoke(m, parse(t, in, "(m)")).(expand.Blocked)
	second := ev.Invoke(m, parse(t, in, "(m)")).(expand.Blocked)

	d2 := second.K(3).(expand.Done)
	d1 := first.K(3).(expand.Done)
	if d1.Stx.Sig != 3 || d2.Stx.Sig != 3 {
		t.Fatalf("resumed values: %v %v", d1.Stx.Sig, d2.Stx.Sig)
	}
}
