package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"quill/internal/core"
	"quill/internal/source"
)

// CoreNodeJSON is the JSON view of one explicit-hole core node.
type CoreNodeJSON struct {
	Kind     string         `json:"kind"`
	Hole     bool           `json:"hole,omitempty"`
	Params   []uint32       `json:"params,omitempty"`
	Local    uint32         `json:"local,omitempty"`
	Sig      uint64         `json:"sig,omitempty"`
	Bool     bool           `json:"bool,omitempty"`
	Str      string         `json:"str,omitempty"`
	Quoted   string         `json:"quoted,omitempty"`
	Children []CoreNodeJSON `json:"children,omitempty"`
}

// FormatCorePretty выводит дерево ядра одной строкой.
func FormatCorePretty(w io.Writer, t core.Tree, in *source.Interner) error {
	_, err := fmt.Fprintln(w, core.Print(t, in))
	return err
}

// FormatCoreJSON сериализует дерево ядра.
func FormatCoreJSON(w io.Writer, t core.Tree, in *source.Interner) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(coreNode(t, in))
}

func coreNode(t core.Tree, in *source.Interner) CoreNodeJSON {
	if t.Hole {
		return CoreNodeJSON{Kind: "Hole", Hole: true}
	}
	out := CoreNodeJSON{Kind: t.Kind.String()}
	switch t.Kind {
	case core.ShapeLam:
		for _, p := range t.Params {
			out.Params = append(out.Params, uint32(p))
		}
	case core.ShapeRef:
		out.Local = uint32(t.Local)
	case core.ShapeSig:
		out.Sig = t.Sig
	case core.ShapeBool:
		out.Bool = t.Bool
	case core.ShapeStr:
		out.Str = t.Str
	case core.ShapeQuote:
		out.Quoted = t.Stx.Dump(in)
	}
	for _, c := range t.Children {
		out.Children = append(out.Children, coreNode(c, in))
	}
	return out
}
