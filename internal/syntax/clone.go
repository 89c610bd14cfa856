package syntax

import "fmt"

// Clone returns an independent copy of t.
func (t *Tree) Clone() *Tree {
	return &Tree{source: t.source, nodes: t.nodes.Clone(), root: t.root}
}

// WithKind returns a copy of t in which node id has the given kind.
func (t *Tree) WithKind(id NodeID, kind NodeKind) *Tree {
	if id == NoNode || uint32(id) > t.nodes.Len() {
		panic(fmt.Errorf("syntax: WithKind on node %d out of range", id))
	}
	c := t.Clone()
	c.nodes.Get(uint32(id)).Kind = kind
	return c
}

// Compose builds a tree whose root of the given kind has the subtrees as
// children, in order. The new source is the subtrees' sources concatenated.
func Compose(kind NodeKind, subtrees ...*Tree) *Tree {
	b := NewBuilder("")
	b.Start(kind)
	for _, sub := range subtrees {
		b.Graft(sub)
	}
	b.Finish()
	return b.Build()
}

// Leaf builds a single-node tree.
func Leaf(kind NodeKind, text string) *Tree {
	b := NewBuilder("")
	b.Append(kind, text)
	return b.Build()
}
