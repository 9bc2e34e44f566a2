package reader

import (
	"strconv"

	"quill/internal/diag"
	"quill/internal/lexer"
	"quill/internal/source"
	"quill/internal/syntax"
	"quill/internal/token"
)

// Result captures the outcome of reading one file: the optional #lang
// header and the body forms in order.
type Result struct {
	Lang     source.StringID // NoStringID, если заголовка нет
	LangSpan source.Span
	Body     []syntax.Syntax
}

// Options configures a read pass.
type Options struct {
	Strings  *source.Interner
	Reporter diag.Reporter
}

type reader struct {
	lx       *lexer.Lexer
	strings  *source.Interner
	reporter diag.Reporter
}

// lexReporter адаптирует diag.Reporter под узкий интерфейс лексера.
type lexReporter struct{ r diag.Reporter }

func (a lexReporter) Report(code diag.Code, span source.Span, msg string) {
	if a.r != nil {
		diag.ReportError(a.r, code, span, msg).Emit()
	}
}

// ReadFile reads every form in the file. Reader output carries empty scope
// sets; the expander owns all scope bookkeeping.
func ReadFile(f *source.File, opts Options) Result {
	strings := opts.Strings
	if strings == nil {
		strings = source.NewInterner()
	}
	rd := &reader{
		lx:       lexer.New(f, lexer.Options{Reporter: lexReporter{opts.Reporter}}),
		strings:  strings,
		reporter: opts.Reporter,
	}
	return rd.readAll()
}

// ReadString is a convenience for tests and the REPL: the source is added
// to the FileSet as a virtual file.
func ReadString(fs *source.FileSet, name, src string, opts Options) (source.FileID, Result) {
	id := fs.AddVirtual(name, []byte(src))
	return id, ReadFile(fs.Get(id), opts)
}

func (rd *reader) errRead(code diag.Code, sp source.Span, msg string) {
	if rd.reporter != nil {
		diag.ReportError(rd.reporter, code, sp, msg).Emit()
	}
}

func (rd *reader) readAll() Result {
	var res Result

	// необязательный заголовок '#lang IDENT' до тела
	if t := rd.lx.Peek(); t.Kind == token.HashLang {
		langTok := rd.lx.Next()
		name := rd.lx.Next()
		if name.Kind != token.Ident {
			rd.errRead(diag.ReadBadLangHeader, langTok.Span.Cover(name.Span), "#lang must be followed by an identifier")
		} else {
			res.Lang = rd.strings.Intern(name.Text)
			res.LangSpan = langTok.Span.Cover(name.Span)
		}
	}

	for {
		t := rd.lx.Peek()
		if t.Kind == token.EOF {
			return res
		}
		if t.Kind == token.RParen || t.Kind == token.RBracket {
			rd.lx.Next()
			rd.errRead(diag.ReadUnmatchedCloser, t.Span, "unmatched closing delimiter")
			continue
		}
		stx, ok := rd.readForm()
		if ok {
			res.Body = append(res.Body, stx)
		}
	}
}

// readForm разбирает одну форму. Возвращает ok=false, если токен
// не образует формы (ошибочный токен уже зарепорчен лексером).
func (rd *reader) readForm() (syntax.Syntax, bool) {
	t := rd.lx.Next()
	switch t.Kind {
	case token.Ident:
		return syntax.NewIdent(rd.strings.Intern(t.Text), t.Span), true

	case token.SigLit:
		n, err := strconv.ParseUint(t.Text, 10, 64)
		if err != nil {
			rd.errRead(diag.ReadUnexpectedToken, t.Span, "signal literal out of range")
			return syntax.Syntax{}, false
		}
		return syntax.NewSig(n, t.Span), true

	case token.BoolLit:
		b := t.Text == "#t" || t.Text == "#true"
		return syntax.NewBool(b, t.Span), true

	case token.StringLit:
		s, ok := decodeString(t.Text)
		if !ok {
			rd.errRead(diag.ReadUnexpectedToken, t.Span, "malformed string literal")
			return syntax.Syntax{}, false
		}
		return syntax.NewStr(s, t.Span), true

	case token.LParen:
		return rd.readSequence(t, token.RParen)

	case token.LBracket:
		return rd.readSequence(t, token.RBracket)

	case token.HashLang:
		rd.errRead(diag.ReadBadLangHeader, t.Span, "#lang is only allowed before the body")
		return syntax.Syntax{}, false

	case token.Invalid:
		// лексер уже зарепортил
		return syntax.Syntax{}, false

	default:
		rd.errRead(diag.ReadUnexpectedToken, t.Span, "unexpected token "+t.Kind.String())
		return syntax.Syntax{}, false
	}
}

func (rd *reader) readSequence(open token.Token, closer token.Kind) (syntax.Syntax, bool) {
	var children []syntax.Syntax
	for {
		t := rd.lx.Peek()
		if t.Kind == closer {
			end := rd.lx.Next()
			span := open.Span.Cover(end.Span)
			if closer == token.RParen {
				return syntax.NewList(children, span), true
			}
			return syntax.NewVec(children, span), true
		}
		if t.Kind == token.EOF {
			code := diag.ReadUnclosedParen
			msg := "unclosed '('"
			if closer == token.RBracket {
				code = diag.ReadUnclosedBracket
				msg = "unclosed '['"
			}
			rd.errRead(code, open.Span, msg)
			span := open.Span.Cover(t.Span)
			if closer == token.RParen {
				return syntax.NewList(children, span), true
			}
			return syntax.NewVec(children, span), true
		}
		if t.Kind == token.RParen || t.Kind == token.RBracket {
			// закрывашка не того вида
			rd.lx.Next()
			rd.errRead(diag.ReadUnmatchedCloser, t.Span, "mismatched closing delimiter")
			continue
		}
		stx, ok := rd.readForm()
		if ok {
			children = append(children, stx)
		}
	}
}

// decodeString снимает кавычки и раскрывает escape-последовательности.
func decodeString(raw string) (string, bool) {
	if len(raw) < 2 || raw[0] != '"' {
		return "", false
	}
	body := raw[1:]
	if body[len(body)-1] == '"' {
		body = body[:len(body)-1]
	}

	out := make([]byte, 0, len(body))
	for i := 0; i < len(body); i++ {
		b := body[i]
		if b != '\\' {
			out = append(out, b)
			continue
		}
		i++
		if i >= len(body) {
			return "", false
		}
		switch body[i] {
		case '"':
			out = append(out, '"')
		case '\\':
			out = append(out, '\\')
		case 'n':
			out = append(out, '\n')
		case 't':
			out = append(out, '\t')
		case 'r':
			out = append(out, '\r')
		case 'x':
			j := i + 1
			for j < len(body) && j <= i+2 && isHexByte(body[j]) {
				j++
			}
			if j == i+1 {
				return "", false
			}
			v, err := strconv.ParseUint(body[i+1:j], 16, 8)
			if err != nil {
				return "", false
			}
			out = append(out, byte(v))
			i = j - 1
		default:
			return "", false
		}
	}
	return string(out), true
}

func isHexByte(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
