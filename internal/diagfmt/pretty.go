package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"quill/internal/diag"
	"quill/internal/source"
)

var (
	errColor  = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow, color.Bold)
	infoColor = color.New(color.FgCyan, color.Bold)
	lineColor = color.New(color.FgHiBlack)
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//
// затем контекст строки с подчёркиванием по Span, затем Notes аналогично.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		printHeader(w, d.Severity, d.Code, d.Message, d.Primary, fs, opts)
		printContext(w, d.Primary, fs, opts)
		for _, n := range d.Notes {
			start, _ := fs.Resolve(n.Span)
			f := fs.Get(n.Span.File)
			fmt.Fprintf(w, "  %s:%d:%d: note: %s\n", f.Path, start.Line, start.Col, n.Msg)
		}
	}
}

func printHeader(w io.Writer, sev diag.Severity, code diag.Code, msg string, sp source.Span, fs *source.FileSet, opts PrettyOpts) {
	start, _ := fs.Resolve(sp)
	f := fs.Get(sp.File)

	sevText := sev.String()
	if opts.Color {
		switch sev {
		case diag.SevError:
			sevText = errColor.Sprint(sevText)
		case diag.SevWarning:
			sevText = warnColor.Sprint(sevText)
		default:
			sevText = infoColor.Sprint(sevText)
		}
	}

	if opts.Width > 0 {
		msg = runewidth.Truncate(msg, int(opts.Width), "...")
	}
	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n", f.Path, start.Line, start.Col, sevText, code.ID(), msg)
}

func printContext(w io.Writer, sp source.Span, fs *source.FileSet, opts PrettyOpts) {
	if opts.Context <= 0 {
		return
	}
	start, end := fs.Resolve(sp)
	f := fs.Get(sp.File)

	first := int64(start.Line) - int64(opts.Context)
	if first < 1 {
		first = 1
	}
	for line := uint32(first); line <= start.Line; line++ {
		text := f.GetLine(line)
		prefix := fmt.Sprintf("%5d | ", line)
		if opts.Color {
			prefix = lineColor.Sprint(prefix)
		}
		fmt.Fprintf(w, "%s%s\n", prefix, text)
	}

	// подчёркивание основной строки
	text := f.GetLine(start.Line)
	pad := int(start.Col) - 1
	if pad < 0 || pad > len(text) {
		return
	}
	width := 1
	if end.Line == start.Line && end.Col > start.Col {
		width = int(end.Col - start.Col)
	}
	marker := strings.Repeat(" ", runewidth.StringWidth(text[:pad])) + strings.Repeat("^", width)
	if opts.Color {
		marker = errColor.Sprint(marker)
	}
	fmt.Fprintf(w, "      | %s\n", marker)
}
