package lexer

import (
	"quill/internal/diag"
	"quill/internal/token"
)

// scanSignal сканирует десятичный сигнальный литерал (натуральное число).
// Сразу за цифрами должен идти разделитель или EOF: '12x' — ошибка.
func (lx *Lexer) scanSignal() token.Token {
	start := lx.cursor.Mark()

	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}

	if !lx.cursor.EOF() && !isDelimiterByte(lx.cursor.Peek()) {
		// потребить хвост, чтобы репортить один токен, а не лавину
		for !lx.cursor.EOF() && !isDelimiterByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexBadSignal, sp, "signal literal must be decimal digits only")
		return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
	}

	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.SigLit, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
