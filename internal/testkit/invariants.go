package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"nafi/internal/lexer"
	"nafi/internal/source"
	"nafi/internal/syntax"
)

// CheckTokens runs the tokenization invariants on a driver result:
// 1) every token is non-empty and points into sf
// 2) tokens are contiguous: each starts where the previous ended, the first at 0
// 3) the last token ends at the end of the content (total tokenization)
// 4) Text matches the source slice and depth never goes negative
func CheckTokens(sf *source.File, toks []lexer.Lexed) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	var at uint32
	for i, tok := range toks {
		sp := tok.Span
		if sp.File != sf.ID {
			return fmt.Errorf("token %d: span file mismatch: got=%d want=%d", i, sp.File, sf.ID)
		}
		if sp.Start != at {
			return fmt.Errorf("token %d (%s): starts at %d, previous ended at %d", i, tok.Kind, sp.Start, at)
		}
		if sp.End <= sp.Start {
			return fmt.Errorf("token %d (%s): empty span %v", i, tok.Kind, sp)
		}
		if sp.End > lenContent {
			return fmt.Errorf("token %d (%s): span end beyond content: %d > %d", i, tok.Kind, sp.End, lenContent)
		}
		if got := string(sf.Content[sp.Start:sp.End]); tok.Text != got {
			return fmt.Errorf("token %d (%s): text %q, source %q", i, tok.Kind, tok.Text, got)
		}
		if !tok.Kind.Valid() {
			return fmt.Errorf("token %d: invalid kind %d", i, tok.Kind)
		}
		if tok.Depth < 0 {
			return fmt.Errorf("token %d (%s): negative depth %d", i, tok.Kind, tok.Depth)
		}
		at = sp.End
	}
	if at != lenContent {
		return fmt.Errorf("tokens cover %d of %d bytes", at, lenContent)
	}
	return nil
}

// CheckTree runs the structural checks of Tree.Validate and additionally
// requires the leaves to spell src exactly, with no gaps or overlaps.
func CheckTree(src string, tree *syntax.Tree) error {
	if tree == nil {
		return fmt.Errorf("nil tree")
	}
	if err := tree.Validate(); err != nil {
		return err
	}
	if tree.Source() != src {
		return fmt.Errorf("tree source differs from input (%d vs %d bytes)", len(tree.Source()), len(src))
	}
	var at uint32
	for leaf := range tree.Root().Leaves() {
		r := leaf.Range()
		if r.Start != at {
			return fmt.Errorf("leaf %s at %s, previous leaf ended at %d", leaf.Kind(), r, at)
		}
		if !leaf.Kind().IsTerminal() {
			if !r.Empty() {
				return fmt.Errorf("childless nonterminal %s covers %s", leaf.Kind(), r)
			}
			continue
		}
		if r.Empty() {
			return fmt.Errorf("empty terminal %s at %s", leaf.Kind(), r)
		}
		at = r.End
	}
	if int(at) != len(src) {
		return fmt.Errorf("leaves cover %d of %d bytes", at, len(src))
	}
	return nil
}
