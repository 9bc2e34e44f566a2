package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"quill/internal/source"
	"quill/internal/token"
)

type TokenOutput struct {
	Kind    string      `json:"kind"`
	Text    string      `json:"text,omitempty"`
	Span    source.Span `json:"span"`
	Leading []string    `json:"leading,omitempty"`
}

// FormatTokensPretty выводит токены в человекочитаемом формате
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range tokens {
		startPos, endPos := fs.Resolve(tok.Span)

		var leading []string
		for _, trivia := range tok.Leading {
			leading = append(leading, triviaName(trivia.Kind))
		}

		fmt.Fprintf(w, "%3d: %-10s", i+1, tok.Kind.String())

		if tok.Text != "" {
			fmt.Fprintf(w, " %q", tok.Text)
		}

		fmt.Fprintf(w, " at %d:%d-%d:%d",
			startPos.Line, startPos.Col,
			endPos.Line, endPos.Col)

		if len(leading) > 0 {
			fmt.Fprintf(w, " (leading: %s)", strings.Join(leading, ", "))
		}

		fmt.Fprintln(w)

		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		var leading []string
		for _, trivia := range tok.Leading {
			leading = append(leading, triviaName(trivia.Kind))
		}
		output = append(output, TokenOutput{
			Kind:    tok.Kind.String(),
			Text:    tok.Text,
			Span:    tok.Span,
			Leading: leading,
		})
		if tok.Kind == token.EOF {
			break
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

func triviaName(k token.TriviaKind) string {
	switch k {
	case token.TriviaSpace:
		return "Space"
	case token.TriviaNewline:
		return "Newline"
	case token.TriviaLineComment:
		return "LineComment"
	default:
		return "Unknown"
	}
}
