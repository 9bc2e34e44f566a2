package lexer

import (
	"quill/internal/diag"
	"quill/internal/token"
)

// scanHashForm разбирает все формы, начинающиеся с '#':
//   - #t / #true / #f / #false  -> BoolLit
//   - #lang                     -> HashLang
//   - #%app / #%module          -> Ident (особое написание)
//
// всё остальное — ошибка LexBadHashForm.
func (lx *Lexer) scanHashForm() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '#'

	// '#%' — идентификатор с особым префиксом
	if lx.cursor.Peek() == '%' {
		lx.cursor.Bump()
		lx.consumeIdentContinue()
		sp := lx.cursor.SpanFrom(start)
		text := string(lx.file.Content[sp.Start:sp.End])
		if text != "#%app" && text != "#%module" {
			lx.errLex(diag.LexBadHashForm, sp, "unknown #% identifier")
			return token.Token{Kind: token.Invalid, Span: sp, Text: text}
		}
		return token.Token{Kind: token.Ident, Span: sp, Text: text}
	}

	// слово после '#'
	for {
		b := lx.cursor.Peek()
		if b >= utf8RuneSelf || !isIdentContinueByte(b) {
			break
		}
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	text := string(lx.file.Content[sp.Start:sp.End])

	switch text {
	case "#t", "#true", "#f", "#false":
		return token.Token{Kind: token.BoolLit, Span: sp, Text: text}
	case "#lang":
		return token.Token{Kind: token.HashLang, Span: sp, Text: text}
	default:
		lx.errLex(diag.LexBadHashForm, sp, "unknown # form")
		return token.Token{Kind: token.Invalid, Span: sp, Text: text}
	}
}
