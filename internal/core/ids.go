package core

// NodeID identifies a node in the partial core graph. IDs are only ever
// compared for equality; allocation order carries no meaning.
type NodeID uint32

// LocalID identifies a core-language local variable within one expansion.
type LocalID uint32

// Invalid ID constants (zero is sentinel).
const (
	NoNodeID  NodeID  = 0
	NoLocalID LocalID = 0
)

// IsValid returns true if the ID is valid (non-zero).
func (id NodeID) IsValid() bool  { return id != NoNodeID }
func (id LocalID) IsValid() bool { return id != NoLocalID }
