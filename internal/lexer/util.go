package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"fortio.org/safecast"
)

const utf8RuneSelf = 0x80

// ===== Работа с рунами поверх Cursor =====

// peekRune читает текущую позицию как руну
func (lx *Lexer) peekRune() (r rune, size int) {
	if lx.cursor.EOF() {
		return utf8.RuneError, 0
	}
	b := lx.cursor.Peek()
	if b < utf8.RuneSelf { // fast-path ASCII
		return rune(b), 1
	}
	r, sz := utf8.DecodeRune(lx.file.Content[lx.cursor.Off:])
	return r, sz
}

// bumpRune перемещает курсор на размер текущей руны
func (lx *Lexer) bumpRune() {
	_, sz := lx.peekRune()
	if sz == 0 {
		return
	}
	usz, err := safecast.Conv[uint32](sz)
	if err != nil {
		panic(fmt.Errorf("bumpRune overflow: %w", err))
	}
	lx.cursor.Off += usz
}

// ===== Классификаторы =====

// Идентификаторы в духе R6RS: initial — буква или special-initial,
// continue добавляет цифры и '+', '-', '.', '@'.
func isSpecialInitial(b byte) bool {
	switch b {
	case '!', '$', '%', '&', '*', '/', ':', '<', '=', '>', '?', '^', '_', '~':
		return true
	}
	return false
}

func isIdentStartByte(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || isSpecialInitial(b)
}

func isIdentContinueByte(b byte) bool {
	return isIdentStartByte(b) || isDec(b) || b == '+' || b == '-' || b == '.' || b == '@'
}

func isIdentStartRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.In(r, unicode.Sm, unicode.Sc, unicode.Sk, unicode.So)
}

func isIdentContinueRune(r rune) bool {
	return isIdentStartRune(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }

func isHex(b byte) bool {
	return (b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'f') ||
		(b >= 'A' && b <= 'F')
}

// isDelimiterByte: байт, на котором заканчивается peculiar identifier
// ('+', '-', '...') и любой атом.
func isDelimiterByte(b byte) bool {
	switch b {
	case '(', ')', '[', ']', '"', ';', ' ', '\t', '\n', '\r':
		return true
	}
	return false
}
