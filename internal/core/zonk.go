package core

// Unzonk converts an explicit-hole tree into (root, graph): every known
// node gets a fresh identity with an entry, every hole gets a fresh
// identity with no entry. The inverse of Zonk up to identity allocation.
func Unzonk(t Tree) (NodeID, *Graph) {
	g := NewGraph(0)
	root := g.Alloc()
	FillTree(t, g, root)
	g.SetRoot(root)
	return root, g
}

// FillTree places the tree into the graph at an already-allocated target
// identity and returns the identities of its holes in pre-order. A hole at
// the root leaves target itself pending.
func FillTree(t Tree, g *Graph, target NodeID) []NodeID {
	var holes []NodeID
	fillTree(t, g, target, &holes)
	return holes
}

func fillTree(t Tree, g *Graph, target NodeID, holes *[]NodeID) {
	if t.Hole {
		// дырка: идентичность есть, записи нет
		*holes = append(*holes, target)
		return
	}

	place := func(c Tree) NodeID {
		id := g.Alloc()
		fillTree(c, g, id, holes)
		return id
	}

	switch t.Kind {
	case ShapeLam:
		body := place(t.Children[0])
		g.Fill(target, Shape{Kind: ShapeLam, Data: LamData{Params: t.Params, Body: body}})
	case ShapeApp:
		args := make([]NodeID, len(t.Children))
		for i, c := range t.Children {
			args[i] = place(c)
		}
		g.Fill(target, Shape{Kind: ShapeApp, Data: AppData{Args: args}})
	case ShapeModule:
		decls := make([]NodeID, len(t.Children))
		for i, c := range t.Children {
			decls[i] = place(c)
		}
		g.Fill(target, Shape{Kind: ShapeModule, Data: ModuleData{Decls: decls}})
	case ShapeRef:
		g.Fill(target, Shape{Kind: ShapeRef, Data: RefData{Local: t.Local}})
	case ShapeSig:
		g.Fill(target, Shape{Kind: ShapeSig, Data: SigData{Value: t.Sig}})
	case ShapeBool:
		g.Fill(target, Shape{Kind: ShapeBool, Data: BoolData{Value: t.Bool}})
	case ShapeStr:
		g.Fill(target, Shape{Kind: ShapeStr, Data: StrData{Value: t.Str}})
	case ShapeQuote:
		g.Fill(target, Shape{Kind: ShapeQuote, Data: QuoteData{Stx: t.Stx}})
	}
}

// Zonk walks the graph from root and rebuilds the explicit-hole tree.
// Total: any identity missing from the graph becomes a hole.
func Zonk(root NodeID, g *Graph) Tree {
	s, ok := g.Get(root)
	if !ok {
		return HoleTree()
	}

	switch d := s.Data.(type) {
	case LamData:
		return LamTree(d.Params, Zonk(d.Body, g))
	case AppData:
		args := make([]Tree, len(d.Args))
		for i, a := range d.Args {
			args[i] = Zonk(a, g)
		}
		return AppTree(args...)
	case ModuleData:
		decls := make([]Tree, len(d.Decls))
		for i, dd := range d.Decls {
			decls[i] = Zonk(dd, g)
		}
		return ModuleTree(decls...)
	case RefData:
		return RefTree(d.Local)
	case SigData:
		return SigTree(d.Value)
	case BoolData:
		return BoolTree(d.Value)
	case StrData:
		return StrTree(d.Value)
	case QuoteData:
		return QuoteTree(d.Stx)
	default:
		return HoleTree()
	}
}
