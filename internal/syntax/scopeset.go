package syntax

import (
	"fmt"
	"slices"
	"strings"
)

// ScopeSet is an immutable set of scopes, stored as a sorted slice.
// All operations are pure: receivers are never mutated, results may share
// the backing array only when the value is unchanged.
type ScopeSet struct {
	scopes []Scope // отсортированы по возрастанию, без дублей
}

// EmptySet returns the empty scope set.
func EmptySet() ScopeSet { return ScopeSet{} }

// NewSet builds a scope set from the given scopes.
func NewSet(scopes ...Scope) ScopeSet {
	out := ScopeSet{}
	for _, s := range scopes {
		out = out.Insert(s)
	}
	return out
}

// Size returns the cardinality of the set.
func (ss ScopeSet) Size() int { return len(ss.scopes) }

// Contains reports whether s is a member.
func (ss ScopeSet) Contains(s Scope) bool {
	_, ok := slices.BinarySearch(ss.scopes, s)
	return ok
}

// Insert returns a set with s added.
func (ss ScopeSet) Insert(s Scope) ScopeSet {
	idx, ok := slices.BinarySearch(ss.scopes, s)
	if ok {
		return ss
	}
	out := make([]Scope, 0, len(ss.scopes)+1)
	out = append(out, ss.scopes[:idx]...)
	out = append(out, s)
	out = append(out, ss.scopes[idx:]...)
	return ScopeSet{scopes: out}
}

// Remove returns a set with s removed.
func (ss ScopeSet) Remove(s Scope) ScopeSet {
	idx, ok := slices.BinarySearch(ss.scopes, s)
	if !ok {
		return ss
	}
	out := make([]Scope, 0, len(ss.scopes)-1)
	out = append(out, ss.scopes[:idx]...)
	out = append(out, ss.scopes[idx+1:]...)
	return ScopeSet{scopes: out}
}

// Flip toggles membership of s.
func (ss ScopeSet) Flip(s Scope) ScopeSet {
	if ss.Contains(s) {
		return ss.Remove(s)
	}
	return ss.Insert(s)
}

// Union returns the set union.
func (ss ScopeSet) Union(other ScopeSet) ScopeSet {
	out := ss
	for _, s := range other.scopes {
		out = out.Insert(s)
	}
	return out
}

// Intersect returns the set intersection.
func (ss ScopeSet) Intersect(other ScopeSet) ScopeSet {
	out := make([]Scope, 0, min(len(ss.scopes), len(other.scopes)))
	for _, s := range ss.scopes {
		if other.Contains(s) {
			out = append(out, s)
		}
	}
	return ScopeSet{scopes: out}
}

// IsSubsetOf reports whether every scope in ss is in other.
func (ss ScopeSet) IsSubsetOf(other ScopeSet) bool {
	if len(ss.scopes) > len(other.scopes) {
		return false
	}
	for _, s := range ss.scopes {
		if !other.Contains(s) {
			return false
		}
	}
	return true
}

// Equal reports structural equality.
func (ss ScopeSet) Equal(other ScopeSet) bool {
	return slices.Equal(ss.scopes, other.scopes)
}

// Scopes returns the members in ascending order.
// ВАЖНО: не модифицируйте возвращаемый срез.
func (ss ScopeSet) Scopes() []Scope { return ss.scopes }

func (ss ScopeSet) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, s := range ss.scopes {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d", uint32(s))
	}
	b.WriteByte('}')
	return b.String()
}
