package diagfmt

import (
	"encoding/json"
	"io"

	"quill/internal/diag"
	"quill/internal/source"
)

// LocationJSON представляет местоположение в файле для JSON
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// NoteJSON представляет дополнительную заметку для JSON
type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
}

// DiagnosticsOutput представляет корневую структуру JSON вывода
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Truncated   bool             `json:"truncated,omitempty"`
}

func location(sp source.Span, fs *source.FileSet, positions bool) LocationJSON {
	f := fs.Get(sp.File)
	out := LocationJSON{
		File:      f.Path,
		StartByte: sp.Start,
		EndByte:   sp.End,
	}
	if positions {
		start, end := fs.Resolve(sp)
		out.StartLine = start.Line
		out.StartCol = start.Col
		out.EndLine = end.Line
		out.EndCol = end.Col
	}
	return out
}

// JSON сериализует диагностики из Bag.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	items := bag.Items()
	out := DiagnosticsOutput{
		Diagnostics: make([]DiagnosticJSON, 0, len(items)),
	}
	for i, d := range items {
		if opts.Max > 0 && i >= opts.Max {
			out.Truncated = true
			break
		}
		dj := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Message:  d.Message,
			Location: location(d.Primary, fs, opts.IncludePositions),
		}
		for _, n := range d.Notes {
			dj.Notes = append(dj.Notes, NoteJSON{
				Message:  n.Msg,
				Location: location(n.Span, fs, opts.IncludePositions),
			})
		}
		out.Diagnostics = append(out.Diagnostics, dj)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
