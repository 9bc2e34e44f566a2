package expand

import (
	"fmt"
	"testing"

	"quill/internal/binding"
	"quill/internal/core"
)

func TestPhaseMapLookupExtend(t *testing.T) {
	pm := NewPhaseMap()
	b := binding.Binding(1)

	if _, ok := pm.Lookup(0, b); ok {
		t.Fatalf("lookup in empty map")
	}

	pm.Extend(0, b, VarMacro{Ref: core.RefTree(1)})
	ev, ok := pm.Lookup(0, b)
	if !ok {
		t.Fatalf("lookup after extend")
	}
	if _, isVar := ev.(VarMacro); !isVar {
		t.Fatalf("wrong evalue %T", ev)
	}

	// отсутствующая фаза эквивалентна пустой
	if _, ok := pm.Lookup(1, b); ok {
		t.Fatalf("binding leaked into phase 1")
	}
}

func TestPhaseMapShiftAdditivity(t *testing.T) {
	pm := NewPhaseMap()
	b := binding.Binding(7)
	pm.Extend(0, b, VarMacro{Ref: core.RefTree(1)})
	pm.Extend(2, b, PrimMacro{Name: "p"})

	// shift i (shift j x) = shift (i+j) x
	lhs := pm.Shift(3).Shift(4)
	rhs := pm.Shift(7)

	for _, phase := range []binding.Phase{7, 9} {
		le, lok := lhs.Lookup(phase, b)
		re, rok := rhs.Lookup(phase, b)
		if lok != rok {
			t.Fatalf("phase %d: presence differs", phase)
		}
		if !lok {
			t.Fatalf("phase %d: binding missing after shift", phase)
		}
		if fmt.Sprintf("%T", le) != fmt.Sprintf("%T", re) {
			t.Fatalf("phase %d: values differ: %T vs %T", phase, le, re)
		}
	}

	// исходные фазы в сдвинутых картах пусты
	if _, ok := lhs.Lookup(0, b); ok {
		t.Fatalf("phase 0 survived the shift")
	}
}

func TestPhaseMapNegativeShift(t *testing.T) {
	pm := NewPhaseMap()
	b := binding.Binding(2)
	pm.Extend(1, b, PrimMacro{Name: "p"})

	down := pm.Shift(-1)
	if _, ok := down.Lookup(0, b); !ok {
		t.Fatalf("negative shift lost the binding")
	}
}
