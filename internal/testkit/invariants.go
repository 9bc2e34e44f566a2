package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"quill/internal/source"
	"quill/internal/syntax"
)

// CheckSyntaxSpanInvariants runs a minimal set of span invariants on a
// syntax tree produced by the reader:
// 1) every span points at the given file and stays within content bounds
// 2) every child span is fully contained in its parent's span
func CheckSyntaxSpanInvariants(stx syntax.Syntax, sf *source.File) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	return checkNode(stx, sf.ID, lenContent)
}

func checkNode(stx syntax.Syntax, file source.FileID, limit uint32) error {
	sp := stx.Span
	if sp.File != file {
		return fmt.Errorf("span points at file %d, want %d", sp.File, file)
	}
	if sp.End < sp.Start {
		return fmt.Errorf("inverted span %v", sp)
	}
	if sp.End > limit {
		return fmt.Errorf("span end beyond content: %d > %d", sp.End, limit)
	}

	for _, c := range stx.Children {
		if c.Span.Start < sp.Start || c.Span.End > sp.End {
			return fmt.Errorf("child span %v outside parent %v", c.Span, sp)
		}
		if err := checkNode(c, file, limit); err != nil {
			return err
		}
	}
	return nil
}

// CheckScopeFreshness verifies that every scope in the tree comes from the
// given allocation bound: every scope lies in 1..maxAllocated inclusive.
func CheckScopeFreshness(stx syntax.Syntax, maxAllocated syntax.Scope) error {
	for _, s := range stx.Scopes.Scopes() {
		if !s.IsValid() || s > maxAllocated {
			return fmt.Errorf("scope %d was never allocated (max %d)", s, maxAllocated)
		}
	}
	for _, c := range stx.Children {
		if err := CheckScopeFreshness(c, maxAllocated); err != nil {
			return err
		}
	}
	return nil
}
