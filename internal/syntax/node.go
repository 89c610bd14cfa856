package syntax

import "fmt"

// NodeID addresses a node in its tree's arena. NoNode is the absent link.
type NodeID uint32

const NoNode NodeID = 0

func (id NodeID) IsValid() bool { return id != NoNode }

// Range is a half-open byte range into the owning tree's source.
type Range struct {
	Start uint32
	End   uint32
}

func (r Range) Len() uint32 { return r.End - r.Start }

func (r Range) Empty() bool { return r.Start == r.End }

// Shift moves the range right by n bytes.
func (r Range) Shift(n uint32) Range { return Range{Start: r.Start + n, End: r.End + n} }

func (r Range) String() string { return fmt.Sprintf("%d..%d", r.Start, r.End) }

// Node is one arena slot.
type Node struct {
	Kind   NodeKind
	Range  Range
	Parent NodeID
	Child  NodeID // first child
	Prev   NodeID
	Next   NodeID
}

// rebase shifts every link by idx and the range by off.
func (n Node) rebase(idx NodeID, off uint32) Node {
	shift := func(id NodeID) NodeID {
		if id == NoNode {
			return NoNode
		}
		return id + idx
	}
	n.Parent = shift(n.Parent)
	n.Child = shift(n.Child)
	n.Prev = shift(n.Prev)
	n.Next = shift(n.Next)
	n.Range = n.Range.Shift(off)
	return n
}
