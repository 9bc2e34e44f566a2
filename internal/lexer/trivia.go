package lexer

import (
	"quill/internal/token"
)

// collectLeadingTrivia собирает подряд идущие trivia перед значимым токеном.
// - ' ' и '\t' коалесцируются в один TriviaSpace
// - последовательные '\n' коалесцируются в один TriviaNewline
// - ';' до конца строки -> TriviaLineComment
func (lx *Lexer) collectLeadingTrivia() {
	lx.hold = lx.hold[:0]
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		b := lx.cursor.Peek()

		// space/tabs
		if b == ' ' || b == '\t' || b == '\r' {
			for {
				b2 := lx.cursor.Peek()
				if b2 != ' ' && b2 != '\t' && b2 != '\r' {
					break
				}
				lx.cursor.Bump()
			}
			sp := lx.cursor.SpanFrom(start)
			lx.hold = append(lx.hold, token.Trivia{
				Kind: token.TriviaSpace,
				Span: sp,
				Text: string(lx.file.Content[sp.Start:sp.End]),
			})
			continue
		}

		// newlines (коалесцируем подряд)
		if b == '\n' {
			for lx.cursor.Peek() == '\n' {
				lx.cursor.Bump()
			}
			sp := lx.cursor.SpanFrom(start)
			lx.hold = append(lx.hold, token.Trivia{
				Kind: token.TriviaNewline,
				Span: sp,
				Text: string(lx.file.Content[sp.Start:sp.End]),
			})
			continue
		}

		// ';' — комментарий до конца строки
		if b == ';' {
			for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
			sp := lx.cursor.SpanFrom(start)
			lx.hold = append(lx.hold, token.Trivia{
				Kind: token.TriviaLineComment,
				Span: sp,
				Text: string(lx.file.Content[sp.Start:sp.End]),
			})
			continue
		}

		// нет больше trivia
		break
	}
}
