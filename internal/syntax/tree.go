package syntax

import (
	"fmt"
	"iter"
	"strings"
)

// Tree is an immutable syntax tree that owns its source text.
// It is safe for concurrent readers.
type Tree struct {
	source string
	nodes  *Arena[Node]
	root   NodeID
}

// Source returns the full text the tree covers.
func (t *Tree) Source() string { return t.source }

// Len returns the number of nodes.
func (t *Tree) Len() int { return int(t.nodes.Len()) }

// Nodes exposes the arena slots in allocation order. Read-only.
func (t *Tree) Nodes() []Node { return t.nodes.Slice() }

func (t *Tree) Root() NodeRef { return NodeRef{tree: t, id: t.root} }

// Get returns a reference to id. An out-of-range id is a contract violation.
func (t *Tree) Get(id NodeID) NodeRef {
	if uint32(id) > t.nodes.Len() {
		panic(fmt.Errorf("syntax: node %d out of range (len %d)", id, t.nodes.Len()))
	}
	return NodeRef{tree: t, id: id}
}

// Text concatenates the source of all leaves in tree order. For a
// well-formed tree it equals Source.
func (t *Tree) Text() string {
	var sb strings.Builder
	sb.Grow(len(t.source))
	for leaf := range t.Root().Leaves() {
		sb.WriteString(leaf.Source())
	}
	return sb.String()
}

// Equal reports structural equality of the two roots, comparing ranges.
func (t *Tree) Equal(other *Tree) bool {
	return Equal(t.Root(), other.Root(), CompareRange)
}

// NodeRef is a node together with the tree it lives in. The zero value
// refers to no node.
type NodeRef struct {
	tree *Tree
	id   NodeID
}

func (n NodeRef) Valid() bool { return n.tree != nil && n.id != NoNode }

func (n NodeRef) ID() NodeID { return n.id }

func (n NodeRef) Tree() *Tree { return n.tree }

func (n NodeRef) node() *Node { return n.tree.nodes.Get(uint32(n.id)) }

func (n NodeRef) at(id NodeID) NodeRef {
	if id == NoNode {
		return NodeRef{}
	}
	return NodeRef{tree: n.tree, id: id}
}

func (n NodeRef) Kind() NodeKind { return n.node().Kind }

func (n NodeRef) Range() Range { return n.node().Range }

// Source is the slice of the owning tree's text this node covers.
func (n NodeRef) Source() string {
	r := n.node().Range
	return n.tree.source[r.Start:r.End]
}

func (n NodeRef) Parent() NodeRef { return n.at(n.node().Parent) }
func (n NodeRef) Child() NodeRef  { return n.at(n.node().Child) }
func (n NodeRef) Next() NodeRef   { return n.at(n.node().Next) }
func (n NodeRef) Prev() NodeRef   { return n.at(n.node().Prev) }

// HasChildren reports whether the node has at least one child.
func (n NodeRef) HasChildren() bool { return n.node().Child != NoNode }

// Children iterates the sibling chain starting at Child. Each call restarts
// from the first child.
func (n NodeRef) Children() iter.Seq[NodeRef] {
	return func(yield func(NodeRef) bool) {
		for c := n.node().Child; c != NoNode; {
			if !yield(n.at(c)) {
				return
			}
			c = n.tree.nodes.Get(uint32(c)).Next
		}
	}
}

// NumChildren counts the sibling chain.
func (n NodeRef) NumChildren() int {
	cnt := 0
	for range n.Children() {
		cnt++
	}
	return cnt
}

// Preorder walks the subtree rooted at n, n first. It follows the stored
// links and uses constant extra memory.
func (n NodeRef) Preorder() iter.Seq[NodeRef] {
	return func(yield func(NodeRef) bool) {
		if !n.Valid() {
			return
		}
		nodes := n.tree.nodes
		cur := n.id
		for {
			if !yield(n.at(cur)) {
				return
			}
			if c := nodes.Get(uint32(cur)).Child; c != NoNode {
				cur = c
				continue
			}
			// подняться до ближайшего предка с правым соседом
			for cur != n.id && nodes.Get(uint32(cur)).Next == NoNode {
				cur = nodes.Get(uint32(cur)).Parent
			}
			if cur == n.id {
				return
			}
			cur = nodes.Get(uint32(cur)).Next
		}
	}
}

// Leaves yields the nodes without children in tree order.
func (n NodeRef) Leaves() iter.Seq[NodeRef] {
	return func(yield func(NodeRef) bool) {
		for x := range n.Preorder() {
			if !x.HasChildren() && !yield(x) {
				return
			}
		}
	}
}

func (n NodeRef) String() string {
	if !n.Valid() {
		return "<none>"
	}
	return fmt.Sprintf("%s@%s", n.Kind(), n.Range())
}
