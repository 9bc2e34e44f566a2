package expand_test

import (
	"errors"
	"testing"

	"quill/internal/core"
	"quill/internal/diag"
	"quill/internal/expand"
	"quill/internal/macroeval"
	"quill/internal/reader"
	"quill/internal/source"
	"quill/internal/syntax"
	"quill/internal/testkit"
)

func newState(in *source.Interner) *expand.State {
	return expand.NewState(expand.Options{
		Strings:   in,
		Evaluator: macroeval.New(in),
	})
}

func parse(t *testing.T, in *source.Interner, src string) syntax.Syntax {
	t.Helper()
	fs := source.NewFileSet()
	bag := diag.NewBag(8)
	_, res := reader.ReadString(fs, "expand_test.ql", src, reader.Options{
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

func expandExpr(t *testing.T, src string) (*expand.Result, *source.Interner) {
	t.Helper()
	in := source.NewInterner()
	st := newState(in)
	res, err := st.ExpandExpression(parse(t, in, src))
	if err != nil {
		t.Fatalf("expand %q: %v", src, err)
	}
	return res, in
}

func mustDone(t *testing.T, res *expand.Result) core.Tree {
	t.Helper()
	if res.Status != expand.StatusDone {
		t.Fatalf("status %v, want done", res.Status)
	}
	if res.Graph.Pending() != 0 {
		t.Fatalf("%d pending nodes in a done expansion", res.Graph.Pending())
	}
	if err := res.Graph.Validate(); err != nil {
		t.Fatalf("graph validate: %v", err)
	}
	return res.Tree()
}

// Сценарий 1: литерал.
func TestExpandLiteral(t *testing.T) {
	res, _ := expandExpr(t, "42")
	tree := mustDone(t, res)
	if !tree.Equal(core.SigTree(42)) {
		t.Fatalf("tree: %s", core.Print(tree, nil))
	}
}

func TestExpandBoolAndString(t *testing.T) {
	res, _ := expandExpr(t, "#t")
	if !mustDone(t, res).Equal(core.BoolTree(true)) {
		t.Fatalf("bool tree mismatch")
	}

	res, _ = expandExpr(t, `"hi"`)
	if !mustDone(t, res).Equal(core.StrTree("hi")) {
		t.Fatalf("string tree mismatch")
	}
}

// Сценарий 2: примитив lambda связывает параметр.
func TestExpandLambda(t *testing.T) {
	res, _ := expandExpr(t, "(lambda [x] x)")
	tree := mustDone(t, res)
	want := core.LamTree([]core.LocalID{1}, core.RefTree(1))
	if !tree.Equal(want) {
		t.Fatalf("tree: %s, want %s", core.Print(tree, nil), core.Print(want, nil))
	}
}

func TestExpandLambdaTwoParams(t *testing.T) {
	res, _ := expandExpr(t, "(lambda [x y] y)")
	tree := mustDone(t, res)
	want := core.LamTree([]core.LocalID{1, 2}, core.RefTree(2))
	if !tree.Equal(want) {
		t.Fatalf("tree: %s", core.Print(tree, nil))
	}
}

func TestExpandShadowing(t *testing.T) {
	// внутренний x побеждает по мощности множества скоупов
	res, _ := expandExpr(t, "(lambda [x] (lambda [x] x))")
	tree := mustDone(t, res)
	want := core.LamTree([]core.LocalID{1},
		core.LamTree([]core.LocalID{2}, core.RefTree(2)))
	if !tree.Equal(want) {
		t.Fatalf("tree: %s", core.Print(tree, nil))
	}
}

func TestExpandApplication(t *testing.T) {
	res, _ := expandExpr(t, "((lambda [x] x) 5)")
	tree := mustDone(t, res)
	want := core.AppTree(
		core.LamTree([]core.LocalID{1}, core.RefTree(1)),
		core.SigTree(5),
	)
	if !tree.Equal(want) {
		t.Fatalf("tree: %s", core.Print(tree, nil))
	}
}

func TestExpandExplicitApp(t *testing.T) {
	res, _ := expandExpr(t, "(lambda [f] (#%app f 1))")
	tree := mustDone(t, res)
	want := core.LamTree([]core.LocalID{1},
		core.AppTree(core.RefTree(1), core.SigTree(1)))
	if !tree.Equal(want) {
		t.Fatalf("tree: %s", core.Print(tree, nil))
	}
}

func TestExpandQuote(t *testing.T) {
	res, in := expandExpr(t, "(quote (f x))")
	tree := mustDone(t, res)
	if tree.Kind != core.ShapeQuote {
		t.Fatalf("tree: %s", core.Print(tree, in))
	}
	if tree.Stx.Dump(in) != "(f x)" {
		t.Fatalf("quoted syntax: %s", tree.Stx.Dump(in))
	}
}

// Сценарий 3: пользовательский макрос переписывает форму в lambda;
// лишний скоуп вокруг вывода макроса не затеняет x.
func TestExpandLetSyntaxRewrite(t *testing.T) {
	src := "(let-syntax [m (lambda [stx] (cons (quote λ) (cdr stx)))] (m [x] x))"
	res, _ := expandExpr(t, src)
	tree := mustDone(t, res)

	want := core.LamTree([]core.LocalID{1}, core.RefTree(1))
	if !tree.Equal(want) {
		t.Fatalf("hygiene broken: %s, want %s", core.Print(tree, nil), core.Print(want, nil))
	}
}

// Гигиена: макрос, возвращающий кусок своего входа без изменений,
// эквивалентен раскрытию без макроса — флип свежего скоупа сокращается.
func TestExpandHygieneCancellation(t *testing.T) {
	src := "(let-syntax [m (lambda [stx] (car (cdr stx)))] (m (lambda [x] x)))"
	res, _ := expandExpr(t, src)
	through := mustDone(t, res)

	direct, _ := expandExpr(t, "(lambda [x] x)")
	if !through.Equal(mustDone(t, direct)) {
		t.Fatalf("macro round trip differs: %s", core.Print(through, nil))
	}
}

// Сценарий 4: макрос блокируется на сигнале 7; после SendSignal(7)
// раскрытие завершается тем, что вернул макрос.
func TestExpandBlockedOnSignal(t *testing.T) {
	in := source.NewInterner()
	st := newState(in)
	src := "(let-syntax [m (lambda [stx] (cons (wait-signal 7) (cdr stx)))] (m 1))"

	res, err := st.ExpandExpression(parse(t, in, src))
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if res.Status != expand.StatusBlocked {
		t.Fatalf("status %v, want blocked", res.Status)
	}
	sigs := st.BlockedSignals()
	if len(sigs) != 1 || sigs[0] != 7 {
		t.Fatalf("blocked signals: %v", sigs)
	}

	// сигнал не тот — задача спит дальше
	st.SendSignal(3)
	if !st.Received(3) || st.Received(7) {
		t.Fatalf("received set out of sync")
	}
	res, err = st.Resume()
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if res.Status != expand.StatusBlocked {
		t.Fatalf("status after wrong signal: %v", res.Status)
	}

	st.SendSignal(7)
	res, err = st.Resume()
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	tree := mustDone(t, res)
	want := core.AppTree(core.SigTree(7), core.SigTree(1))
	if !tree.Equal(want) {
		t.Fatalf("tree: %s", core.Print(tree, nil))
	}
}

func TestStuckErrNamesRepresentative(t *testing.T) {
	in := source.NewInterner()
	st := newState(in)
	src := "(let-syntax [m (lambda [stx] (wait-signal 9))] (m))"

	res, err := st.ExpandExpression(parse(t, in, src))
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if res.Status != expand.StatusBlocked {
		t.Fatalf("status: %v", res.Status)
	}

	stuck := st.StuckErr()
	if stuck == nil || stuck.Kind != expand.ErrStuck {
		t.Fatalf("stuck err: %v", stuck)
	}
	if !stuck.Task.IsValid() {
		t.Fatalf("stuck err must name a representative task")
	}
}

// Сценарий 5: несвязанная голова.
func TestExpandUnknownHead(t *testing.T) {
	in := source.NewInterner()
	st := newState(in)
	_, err := st.ExpandExpression(parse(t, in, "(foo)"))
	var ee *expand.Err
	if !errors.As(err, &ee) || ee.Kind != expand.ErrUnknown {
		t.Fatalf("expected Unknown, got %v", err)
	}
	if ee.Text != "foo" {
		t.Fatalf("error text: %q", ee.Text)
	}
}

// Сценарий 6: два биндинга x в {s1} и {s2}, вхождение в {s1, s2}.
func TestExpandAmbiguousReference(t *testing.T) {
	in := source.NewInterner()
	st := newState(in)

	s1 := st.FreshScope()
	s2 := st.FreshScope()
	x := in.Intern("x")

	b1 := st.AddBinding(x, syntax.NewSet(s1))
	st.Env().Extend(0, b1, expand.VarMacro{Ref: core.RefTree(st.FreshLocal())})
	b2 := st.AddBinding(x, syntax.NewSet(s2))
	st.Env().Extend(0, b2, expand.VarMacro{Ref: core.RefTree(st.FreshLocal())})

	occ := syntax.NewIdent(x, source.Span{})
	occ.Scopes = syntax.NewSet(s1, s2)
	if err := testkit.CheckScopeFreshness(occ, s2); err != nil {
		t.Fatalf("scope freshness: %v", err)
	}

	_, err := st.ExpandExpression(occ)
	var ee *expand.Err
	if !errors.As(err, &ee) || ee.Kind != expand.ErrAmbiguous {
		t.Fatalf("expected Ambiguous, got %v", err)
	}
	if ee.Text != "x" {
		t.Fatalf("error text: %q", ee.Text)
	}
}

func TestExpandWrongCategory(t *testing.T) {
	in := source.NewInterner()
	st := newState(in)
	ev := macroeval.New(in)

	value, err := ev.Transformer(parse(t, in, "(lambda [stx] stx)"))
	if err != nil {
		t.Fatalf("transformer: %v", err)
	}

	m := in.Intern("decl-only")
	b := st.AddBinding(m, syntax.EmptySet())
	st.Env().Extend(0, b, expand.UserMacro{Category: expand.CategoryDeclaration, Value: value})

	_, err = st.ExpandExpression(parse(t, in, "(decl-only 1)"))
	var ee *expand.Err
	if !errors.As(err, &ee) || ee.Kind != expand.ErrWrongCategory {
		t.Fatalf("expected WrongCategory, got %v", err)
	}
	if ee.Expected != expand.CategoryDeclaration || ee.Got != expand.CategoryExpression {
		t.Fatalf("categories: expected=%v got=%v", ee.Expected, ee.Got)
	}
}

func TestExpandEvalFailure(t *testing.T) {
	in := source.NewInterner()
	st := newState(in)
	src := "(let-syntax [m (lambda [stx] (car 5))] (m))"
	_, err := st.ExpandExpression(parse(t, in, src))
	var ee *expand.Err
	if !errors.As(err, &ee) || ee.Kind != expand.ErrEval {
		t.Fatalf("expected EvalFailure, got %v", err)
	}
}

// Детерминизм: два раскрытия одного входа дают одинаковые деревья
// с точностью до выделения идентичностей.
func TestExpandDeterminism(t *testing.T) {
	src := "(let-syntax [m (lambda [stx] (cons (quote λ) (cdr stx)))] ((m [x] x) (quote y)))"
	first, _ := expandExpr(t, src)
	second, _ := expandExpr(t, src)
	if !mustDone(t, first).Equal(mustDone(t, second)) {
		t.Fatalf("two runs differ:\n  %s\n  %s",
			core.Print(first.Tree(), nil), core.Print(second.Tree(), nil))
	}
}

func TestExpandModuleBody(t *testing.T) {
	in := source.NewInterner()
	st := newState(in)

	forms := []syntax.Syntax{
		parse(t, in, "1"),
		parse(t, in, "(lambda [x] x)"),
	}
	res, err := st.ExpandModuleBody(forms)
	if err != nil {
		t.Fatalf("expand module: %v", err)
	}
	tree := mustDone(t, res)
	want := core.ModuleTree(
		core.SigTree(1),
		core.LamTree([]core.LocalID{1}, core.RefTree(1)),
	)
	if !tree.Equal(want) {
		t.Fatalf("tree: %s", core.Print(tree, nil))
	}
}

func TestExpandDeclaration(t *testing.T) {
	in := source.NewInterner()
	st := newState(in)
	res, err := st.ExpandDeclaration(parse(t, in, "(quote d)"))
	if err != nil {
		t.Fatalf("expand declaration: %v", err)
	}
	if mustDone(t, res).Kind != core.ShapeQuote {
		t.Fatalf("declaration tree kind")
	}
}

func TestExpandEmptyListFails(t *testing.T) {
	in := source.NewInterner()
	st := newState(in)
	_, err := st.ExpandExpression(parse(t, in, "()"))
	var ee *expand.Err
	if !errors.As(err, &ee) || ee.Kind != expand.ErrNotCons {
		t.Fatalf("expected NotCons, got %v", err)
	}
}
