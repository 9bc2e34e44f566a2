package lexer

import (
	"quill/internal/diag"
	"quill/internal/token"
)

// scanIdent сканирует обычный идентификатор: initial constituent,
// дальше continue-символы. Token.Text — ровно исходный срез.
func (lx *Lexer) scanIdent() token.Token {
	start := lx.cursor.Mark()

	// Первый символ: ASCII fast-path или Unicode
	r, sz := lx.peekRune()
	if sz == 0 {
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: token.Invalid, Span: sp, Text: ""}
	}
	if r < utf8RuneSelf {
		if !isIdentStartByte(byte(r)) {
			lx.cursor.Bump()
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexUnknownChar, sp, "unexpected character")
			return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		}
		lx.cursor.Bump()
		lx.consumeIdentContinue()
	} else {
		if !isIdentStartRune(r) {
			lx.bumpRune()
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexUnknownChar, sp, "unexpected character")
			return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		}
		lx.bumpRune()
		lx.consumeIdentContinue()
	}

	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.Ident, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

func (lx *Lexer) consumeIdentContinue() {
	for {
		b := lx.cursor.Peek()
		if b < utf8RuneSelf {
			if !isIdentContinueByte(b) {
				return
			}
			lx.cursor.Bump()
			continue
		}
		r2, sz2 := lx.peekRune()
		if sz2 == 0 || !isIdentContinueRune(r2) {
			return
		}
		lx.bumpRune()
	}
}

// scanPeculiarIdent разбирает '+', '-' и '...', которые являются
// идентификаторами только целиком: сразу за ними должен идти
// разделитель или EOF.
func (lx *Lexer) scanPeculiarIdent() token.Token {
	start := lx.cursor.Mark()
	b := lx.cursor.Bump()

	if b == '.' {
		// допустимо только '...'
		if lx.cursor.Eat('.') && lx.cursor.Eat('.') {
			if lx.cursor.EOF() || isDelimiterByte(lx.cursor.Peek()) {
				sp := lx.cursor.SpanFrom(start)
				return token.Token{Kind: token.Ident, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
			}
		}
		// потребить хвост до разделителя, чтобы не зациклиться
		for !lx.cursor.EOF() && !isDelimiterByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexUnknownChar, sp, "expected '...'")
		return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
	}

	// '+' или '-'
	if lx.cursor.EOF() || isDelimiterByte(lx.cursor.Peek()) {
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: token.Ident, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
	}

	for !lx.cursor.EOF() && !isDelimiterByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnknownChar, sp, "'+' and '-' are only identifiers on their own")
	return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
