package macroeval

import (
	"fmt"

	"quill/internal/expand"
	"quill/internal/source"
	"quill/internal/syntax"
)

// Eval is the built-in reference evaluator for user macros: a tiny
// syntax-function language with quote, cons, car, cdr, list and
// wait-signal. Hosts with a richer core language substitute their own
// expand.Evaluator; the engine never looks inside macro values.
type Eval struct {
	strings *source.Interner

	idLambda source.StringID
	idLamGk  source.StringID
	idQuote  source.StringID
	idCons   source.StringID
	idCar    source.StringID
	idCdr    source.StringID
	idList   source.StringID
	idWait   source.StringID
}

// New builds an evaluator over the interner shared with the reader and the
// expander.
func New(strings *source.Interner) *Eval {
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Eval{
		strings:  strings,
		idLambda: strings.Intern("lambda"),
		idLamGk:  strings.Intern("λ"),
		idQuote:  strings.Intern("quote"),
		idCons:   strings.Intern("cons"),
		idCar:    strings.Intern("car"),
		idCdr:    strings.Intern("cdr"),
		idList:   strings.Intern("list"),
		idWait:   strings.Intern("wait-signal"),
	}
}

// closure is a compiled transformer: one parameter over one body.
type closure struct {
	param source.StringID
	body  syntax.Syntax
}

func (*closure) MacroValue() {}

// Transformer compiles (lambda [stx] body) into a macro value.
func (ev *Eval) Transformer(stx syntax.Syntax) (expand.MacroValue, error) {
	if stx.Kind != syntax.KindList || len(stx.Children) != 3 {
		return nil, fmt.Errorf("transformer must be (lambda [param] body)")
	}
	head := stx.Children[0]
	if !head.IsIdent() || (head.Text != ev.idLambda && head.Text != ev.idLamGk) {
		return nil, fmt.Errorf("transformer must start with lambda")
	}
	params := stx.Children[1]
	if params.Kind != syntax.KindVec || len(params.Children) != 1 {
		return nil, fmt.Errorf("transformer takes exactly one parameter")
	}
	param := params.Children[0]
	if !param.IsIdent() {
		return nil, fmt.Errorf("transformer parameter must be an identifier")
	}
	return &closure{param: param.Text, body: stx.Children[2]}, nil
}

// Invoke runs the macro function over the input syntax.
func (ev *Eval) Invoke(m expand.MacroValue, stx syntax.Syntax) expand.Outcome {
	c, ok := m.(*closure)
	if !ok {
		return expand.Failed{Err: fmt.Errorf("foreign macro value %T", m)}
	}
	env := map[source.StringID]syntax.Syntax{c.param: stx}
	return toOutcome(ev.evalExpr(env, c.body))
}

// result is the internal evaluation outcome: a value, a failure, or a
// suspension waiting for a signal.
type result struct {
	blocked bool
	sig     expand.Signal
	k       func(expand.Signal) result
	val     syntax.Syntax
	err     error
}

func value(v syntax.Syntax) result { return result{val: v} }

func failure(format string, args ...any) result {
	return result{err: fmt.Errorf(format, args...)}
}

// bind sequences evaluation through a possible suspension.
func bind(r result, f func(syntax.Syntax) result) result {
	if r.err != nil {
		return r
	}
	if !r.blocked {
		return f(r.val)
	}
	return result{
		blocked: true,
		sig:     r.sig,
		k: func(s expand.Signal) result {
			return bind(r.k(s), f)
		},
	}
}

func toOutcome(r result) expand.Outcome {
	if r.err != nil {
		return expand.Failed{Err: r.err}
	}
	if r.blocked {
		k := r.k
		return expand.Blocked{
			Sig: r.sig,
			K: func(s expand.Signal) expand.Outcome {
				return toOutcome(k(s))
			},
		}
	}
	return expand.Done{Stx: r.val}
}

func (ev *Eval) evalExpr(env map[source.StringID]syntax.Syntax, e syntax.Syntax) result {
	switch e.Kind {
	case syntax.KindId:
		if v, ok := env[e.Text]; ok {
			return value(v)
		}
		return failure("unbound name %q in macro body", ev.strings.MustLookup(e.Text))

	case syntax.KindSig, syntax.KindBool, syntax.KindStr:
		return value(e)

	case syntax.KindVec:
		// векторный шаблон: вычислить детей, собрать вектор
		return ev.evalSeq(env, e.Children, nil, func(vals []syntax.Syntax) result {
			return value(syntax.NewVec(vals, e.Span))
		})

	case syntax.KindList:
		if len(e.Children) == 0 {
			return value(e)
		}
		head := e.Children[0]
		if head.IsIdent() {
			switch head.Text {
			case ev.idQuote:
				if len(e.Children) != 2 {
					return failure("quote takes one argument")
				}
				return value(e.Children[1])

			case ev.idCons:
				if len(e.Children) != 3 {
					return failure("cons takes two arguments")
				}
				return bind(ev.evalExpr(env, e.Children[1]), func(a syntax.Syntax) result {
					return bind(ev.evalExpr(env, e.Children[2]), func(b syntax.Syntax) result {
						if b.Kind != syntax.KindList && b.Kind != syntax.KindVec {
							return failure("cons onto a non-sequence")
						}
						kids := make([]syntax.Syntax, 0, len(b.Children)+1)
						kids = append(kids, a)
						kids = append(kids, b.Children...)
						out := b
						out.Children = kids
						return value(out)
					})
				})

			case ev.idCar:
				if len(e.Children) != 2 {
					return failure("car takes one argument")
				}
				return bind(ev.evalExpr(env, e.Children[1]), func(v syntax.Syntax) result {
					if (v.Kind != syntax.KindList && v.Kind != syntax.KindVec) || len(v.Children) == 0 {
						return failure("car of a non-sequence")
					}
					return value(v.Children[0])
				})

			case ev.idCdr:
				if len(e.Children) != 2 {
					return failure("cdr takes one argument")
				}
				return bind(ev.evalExpr(env, e.Children[1]), func(v syntax.Syntax) result {
					if (v.Kind != syntax.KindList && v.Kind != syntax.KindVec) || len(v.Children) == 0 {
						return failure("cdr of a non-sequence")
					}
					out := v
					out.Children = v.Children[1:]
					return value(out)
				})

			case ev.idList:
				return ev.evalSeq(env, e.Children[1:], nil, func(vals []syntax.Syntax) result {
					return value(syntax.NewList(vals, e.Span))
				})

			case ev.idWait:
				if len(e.Children) != 2 {
					return failure("wait-signal takes one argument")
				}
				return bind(ev.evalExpr(env, e.Children[1]), func(v syntax.Syntax) result {
					if v.Kind != syntax.KindSig {
						return failure("wait-signal needs a signal literal")
					}
					span := e.Span
					return result{
						blocked: true,
						sig:     expand.Signal(v.Sig),
						k: func(s expand.Signal) result {
							// доставленный сигнал становится значением формы
							return value(syntax.NewSig(uint64(s), span))
						},
					}
				})
			}
		}
		return failure("unknown operation in macro body")
	}
	return failure("unexpected syntax in macro body")
}

// evalSeq evaluates elems left to right, then continues with the values.
func (ev *Eval) evalSeq(env map[source.StringID]syntax.Syntax, elems []syntax.Syntax, acc []syntax.Syntax, k func([]syntax.Syntax) result) result {
	if len(elems) == 0 {
		return k(acc)
	}
	return bind(ev.evalExpr(env, elems[0]), func(v syntax.Syntax) result {
		return ev.evalSeq(env, elems[1:], append(acc, v), k)
	})
}
