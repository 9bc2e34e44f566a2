package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка — на первое время
	UnknownCode Code = 0

	// Лексические
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexBadEscape          Code = 1003
	LexBadSignal          Code = 1004
	LexBadHashForm        Code = 1005

	// Ридер
	ReadInfo               Code = 2000
	ReadUnexpectedToken    Code = 2001
	ReadUnclosedParen      Code = 2002
	ReadUnclosedBracket    Code = 2003
	ReadUnmatchedCloser    Code = 2004
	ReadBadLangHeader      Code = 2005
	ReadEmptyInput         Code = 2006

	// Экспандер
	ExpandInfo           Code = 4000
	ExpandAmbiguous      Code = 4001
	ExpandUnknown        Code = 4002
	ExpandNotIdentifier  Code = 4003
	ExpandNotEmpty       Code = 4004
	ExpandNotCons        Code = 4005
	ExpandNotRightLength Code = 4006
	ExpandWrongCategory  Code = 4007
	ExpandStuck          Code = 4008
	ExpandEvalFailure    Code = 4009
)

// ID returns the stable textual identifier of the code (e.g. "QX4001").
func (c Code) ID() string {
	return fmt.Sprintf("QX%04d", uint16(c))
}

// Title returns a short human-readable name for the code.
func (c Code) Title() string {
	switch c {
	case LexUnknownChar:
		return "unknown character"
	case LexUnterminatedString:
		return "unterminated string"
	case LexBadEscape:
		return "bad escape"
	case LexBadSignal:
		return "bad signal literal"
	case LexBadHashForm:
		return "bad hash form"
	case ReadUnexpectedToken:
		return "unexpected token"
	case ReadUnclosedParen:
		return "unclosed parenthesis"
	case ReadUnclosedBracket:
		return "unclosed bracket"
	case ReadUnmatchedCloser:
		return "unmatched closing delimiter"
	case ReadBadLangHeader:
		return "bad #lang header"
	case ReadEmptyInput:
		return "empty input"
	case ExpandAmbiguous:
		return "ambiguous identifier"
	case ExpandUnknown:
		return "unknown identifier"
	case ExpandNotIdentifier:
		return "identifier expected"
	case ExpandNotEmpty:
		return "empty list expected"
	case ExpandNotCons:
		return "non-empty list expected"
	case ExpandNotRightLength:
		return "wrong vector length"
	case ExpandWrongCategory:
		return "macro used in wrong context"
	case ExpandStuck:
		return "stuck expansion"
	case ExpandEvalFailure:
		return "macro evaluation failed"
	default:
		return "unknown"
	}
}

func (c Code) String() string {
	return fmt.Sprintf("%s (%s)", c.ID(), c.Title())
}
