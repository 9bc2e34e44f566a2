package lexer

import (
	"quill/internal/diag"
	"quill/internal/token"
)

// scanString сканирует "..." с escape-последовательностями
// \" \\ \n \t \r \xHH. Token.Text — исходный срез с кавычками;
// декодирование выполняет ридер.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // открывающая '"'
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '"' {
			lx.cursor.Bump()
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.StringLit, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		}
		if b == '\\' {
			escStart := lx.cursor.Mark()
			lx.cursor.Bump()
			if lx.cursor.EOF() {
				break
			}
			switch e := lx.cursor.Bump(); e {
			case '"', '\\', 'n', 't', 'r':
				// ок
			case 'x':
				if !isHex(lx.cursor.Peek()) {
					lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(escStart), "\\x needs hex digits")
					continue
				}
				lx.cursor.Bump()
				if isHex(lx.cursor.Peek()) {
					lx.cursor.Bump()
				}
			default:
				lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(escStart), "unknown escape")
			}
			continue
		}
		if b == '\n' {
			// перевод строки внутри строкового литерала — ошибка
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexUnterminatedString, sp, "newline in string literal")
			return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		}
		lx.cursor.Bump()
	}
	// EOF без закрывающей кавычки
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
