package lexer

import (
	"quill/internal/diag"
	"quill/internal/source"
)

// Reporter — тонкий интерфейс, чтобы не тянуть сюда весь diag.
// Лексер только вызывает его; форматирует внешний слой.
type Reporter interface {
	Report(code diag.Code, span source.Span, msg string)
}

type Options struct {
	Reporter Reporter // может быть nil — тогда ошибки игнорируем (но продолжаем лексить)
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, sp, msg)
	}
}
