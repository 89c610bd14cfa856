package syntax

import (
	"errors"
	"fmt"
)

// ErrMalformed wraps every Validate failure.
var ErrMalformed = errors.New("malformed syntax tree")

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
}

// Validate checks the structural invariants: the root in slot 1, consistent parent/child/sibling
// links, every node reachable exactly once from the root, children ranges
// contiguous and exactly covering their parent, terminal kinds childless,
// ranges on UTF-8 boundaries, and the root covering the whole source.
func (t *Tree) Validate() error {
	n := t.nodes.Len()
	if t.root != 1 || n == 0 {
		return malformed("root must be node 1, got %d (len %d)", t.root, n)
	}
	src := t.source
	slen := uint32(len(src))
	boundary := func(off uint32) bool {
		return off >= slen || !splitsRune(src, int(off))
	}
	inRange := func(id NodeID) bool { return id == NoNode || uint32(id) <= n }

	for i, node := range t.nodes.Slice() {
		id := NodeID(i + 1)
		if !node.Kind.Valid() {
			return malformed("node %d: unknown kind %d", id, node.Kind)
		}
		if !inRange(node.Parent) || !inRange(node.Child) || !inRange(node.Prev) || !inRange(node.Next) {
			return malformed("node %d: link out of range", id)
		}
		r := node.Range
		if r.Start > r.End || r.End > slen {
			return malformed("node %d: range %s outside source (len %d)", id, r, slen)
		}
		if !boundary(r.Start) || !boundary(r.End) {
			return malformed("node %d: range %s splits a UTF-8 sequence", id, r)
		}
		if node.Kind.IsTerminal() && node.Child != NoNode {
			return malformed("node %d: terminal %s has children", id, node.Kind)
		}
	}

	root := t.nodes.Get(uint32(t.root))
	if root.Parent != NoNode || root.Prev != NoNode || root.Next != NoNode {
		return malformed("root %d has parent or siblings", t.root)
	}
	if root.Range != (Range{Start: 0, End: slen}) {
		return malformed("root range %s does not cover source (len %d)", root.Range, slen)
	}

	// обход только по Child/Next: ссылки Parent ещё не проверены
	seen := make([]bool, n+1)
	seen[t.root] = true
	visited := uint32(1)
	stack := []NodeID{t.root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := t.nodes.Get(uint32(id))
		if node.Child == NoNode {
			continue
		}
		pos := node.Range.Start
		prev := NoNode
		for c := node.Child; c != NoNode; {
			if seen[c] {
				return malformed("node %d reached twice", c)
			}
			seen[c] = true
			visited++
			child := t.nodes.Get(uint32(c))
			if child.Parent != id {
				return malformed("node %d: parent %d, reached from %d", c, child.Parent, id)
			}
			if child.Prev != prev {
				return malformed("node %d: prev %d, want %d", c, child.Prev, prev)
			}
			if child.Range.Start != pos {
				return malformed("node %d: starts at %d, previous sibling ends at %d", c, child.Range.Start, pos)
			}
			stack = append(stack, c)
			pos = child.Range.End
			prev = c
			c = child.Next
		}
		if pos != node.Range.End {
			return malformed("node %d: children end at %d, node ends at %d", id, pos, node.Range.End)
		}
	}
	if visited != n {
		return malformed("%d of %d nodes unreachable from root", n-visited, n)
	}
	return nil
}
