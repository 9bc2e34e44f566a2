package core

import (
	"fmt"

	"fortio.org/safecast"
)

// Graph stores core nodes in a compact slice-based arena. A node identity
// may be allocated but pending: it has no shape yet and a task is expected
// to fill it later. The graph is a tree under parent-of; validation checks
// that no identity is referenced from two parent positions.
type Graph struct {
	data   []Shape
	filled []bool
	root   NodeID
}

// NewGraph creates an arena with optional capacity hint.
func NewGraph(capacity uint32) *Graph {
	if capacity == 0 {
		capacity = 32
	}
	return &Graph{
		data:   make([]Shape, 1, capacity+1), // index 0 reserved for NoNodeID
		filled: make([]bool, 1, capacity+1),
	}
}

// Alloc reserves a fresh pending node identity.
func (g *Graph) Alloc() NodeID {
	value, err := safecast.Conv[uint32](len(g.data))
	if err != nil {
		panic(fmt.Errorf("core graph arena overflow: %w", err))
	}
	id := NodeID(value)
	g.data = append(g.data, Shape{})
	g.filled = append(g.filled, false)
	return id
}

// Fill sets the shape for a pending node. Filling twice or filling an
// unallocated identity is a bug in the expander, not a user error.
func (g *Graph) Fill(id NodeID, s Shape) {
	if !id.IsValid() || int(id) >= len(g.data) {
		panic(fmt.Errorf("fill of unallocated node %d", id))
	}
	if g.filled[id] {
		panic(fmt.Errorf("node %d filled twice", id))
	}
	g.data[id] = s
	g.filled[id] = true
}

// Get returns the shape of id, with ok=false for pending or invalid IDs.
func (g *Graph) Get(id NodeID) (Shape, bool) {
	if !id.IsValid() || int(id) >= len(g.data) || !g.filled[id] {
		return Shape{}, false
	}
	return g.data[id], true
}

// SetRoot records the distinguished root identity.
func (g *Graph) SetRoot(id NodeID) { g.root = id }

// Root returns the distinguished root identity.
func (g *Graph) Root() NodeID { return g.root }

// Len reports the number of allocated identities, excluding the sentinel.
func (g *Graph) Len() int { return len(g.data) - 1 }

// Pending reports the number of allocated but unfilled identities.
func (g *Graph) Pending() int {
	n := 0
	for i := 1; i < len(g.filled); i++ {
		if !g.filled[i] {
			n++
		}
	}
	return n
}

// Complete reports whether every allocated identity has a shape.
func (g *Graph) Complete() bool { return g.Pending() == 0 }

// Validate checks that every child reference points at an allocated
// identity and that no identity appears in two parent positions.
func (g *Graph) Validate() error {
	parent := make(map[NodeID]NodeID)
	for i := 1; i < len(g.data); i++ {
		if !g.filled[i] {
			continue
		}
		id := NodeID(i)
		for _, child := range g.data[i].ChildIDs() {
			if !child.IsValid() || int(child) >= len(g.data) {
				return fmt.Errorf("node %d references unallocated child %d", id, child)
			}
			if prev, ok := parent[child]; ok {
				return fmt.Errorf("node %d appears under parents %d and %d", child, prev, id)
			}
			parent[child] = id
		}
	}
	return nil
}
