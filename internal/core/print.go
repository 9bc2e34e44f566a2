package core

import (
	"fmt"
	"strings"

	"quill/internal/source"
)

// Print renders an explicit-hole tree as a compact S-expression-like
// string. Quoted syntax is resolved through the interner when provided.
func Print(t Tree, in *source.Interner) string {
	var b strings.Builder
	printTree(&b, t, in)
	return b.String()
}

func printTree(b *strings.Builder, t Tree, in *source.Interner) {
	if t.Hole {
		b.WriteString("_")
		return
	}
	switch t.Kind {
	case ShapeLam:
		b.WriteString("(lam (")
		for i, p := range t.Params {
			if i > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(b, "local-%d", uint32(p)-1)
		}
		b.WriteString(") ")
		printTree(b, t.Children[0], in)
		b.WriteString(")")
	case ShapeApp:
		b.WriteString("(app")
		for _, c := range t.Children {
			b.WriteByte(' ')
			printTree(b, c, in)
		}
		b.WriteString(")")
	case ShapeRef:
		fmt.Fprintf(b, "local-%d", uint32(t.Local)-1)
	case ShapeSig:
		fmt.Fprintf(b, "%d", t.Sig)
	case ShapeBool:
		if t.Bool {
			b.WriteString("#t")
		} else {
			b.WriteString("#f")
		}
	case ShapeStr:
		fmt.Fprintf(b, "%q", t.Str)
	case ShapeQuote:
		b.WriteString("(quote ")
		b.WriteString(t.Stx.Dump(in))
		b.WriteString(")")
	case ShapeModule:
		b.WriteString("(module")
		for _, c := range t.Children {
			b.WriteByte(' ')
			printTree(b, c, in)
		}
		b.WriteString(")")
	}
}
