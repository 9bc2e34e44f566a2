package lexer

import (
	"quill/internal/diag"
	"quill/internal/source"
	"quill/internal/token"
)

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token   // 1-элементный буфер для Peek
	hold   []token.Trivia // накопленные leading trivia
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
		look:   nil,
		hold:   nil,
	}
}

// Next возвращает следующий **значимый** токен с уже собранным Leading.
// После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	// 1) Если есть look — вернуть его и очистить
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	// 2) Набить lx.hold
	lx.collectLeadingTrivia()

	// 3) EOF → вернуть EOF (Leading к EOF не приклеиваем)
	if lx.cursor.EOF() {
		return token.Token{
			Kind: token.EOF,
			Span: lx.emptySpan(),
			Text: "",
		}
	}

	// 4) Выбрать сканер по текущему байту
	ch := lx.cursor.Peek()
	var tok token.Token

	switch {
	case ch == '(' || ch == ')' || ch == '[' || ch == ']':
		tok = lx.scanDelimiter()

	case ch == '"':
		tok = lx.scanString()

	case ch == '#':
		tok = lx.scanHashForm()

	case isDec(ch):
		tok = lx.scanSignal()

	case ch == '+' || ch == '-' || ch == '.':
		// peculiar identifiers: '+', '-', '...'
		tok = lx.scanPeculiarIdent()

	case isIdentStartByte(ch) || ch >= utf8RuneSelf:
		tok = lx.scanIdent()

	default:
		sp := source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off + 1}
		lx.cursor.Bump()
		lx.errLex(diag.LexUnknownChar, sp, "unknown character")
		tok = token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
	}

	// 5) Приклеить Leading, обнулить hold
	tok.Leading = lx.hold
	lx.hold = nil

	return tok
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) scanDelimiter() token.Token {
	start := lx.cursor.Mark()
	b := lx.cursor.Bump()
	sp := lx.cursor.SpanFrom(start)

	var kind token.Kind
	switch b {
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	case '[':
		kind = token.LBracket
	case ']':
		kind = token.RBracket
	}
	return token.Token{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
