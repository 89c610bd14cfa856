package syntax

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"
)

// Builder assembles a Tree push by push. Each push allocates the next arena
// slot and links it after the previous sibling (or as the first child of the
// innermost open node), so no node is ever relocated.
//
// A Builder works over a fixed source (NewBuilder(src) then Token) or grows
// its source as it goes (NewBuilder("") then Append / Graft).
type Builder struct {
	src   []byte
	pos   uint32
	nodes *Arena[Node]
	open  []NodeID
	prev  NodeID // последний закрытый узел на текущем уровне
	root  NodeID // первый узел верхнего уровня
	tops  int
	built bool
}

// Checkpoint remembers a position among the current node's children so that
// the siblings pushed after it can later be wrapped with StartAt.
type Checkpoint struct {
	parent NodeID
	prev   NodeID
	pos    uint32
	depth  int
	tops   int
}

func NewBuilder(src string) *Builder {
	return &Builder{
		src:   []byte(src),
		nodes: NewArena[Node](len(src)/2 + 1),
	}
}

// Pos is the byte offset of the next push.
func (b *Builder) Pos() uint32 { return b.pos }

// Depth is the number of open nodes.
func (b *Builder) Depth() int { return len(b.open) }

// Current returns the innermost open node, or NoNode at top level.
func (b *Builder) Current() NodeID {
	if len(b.open) == 0 {
		return NoNode
	}
	return b.open[len(b.open)-1]
}

// Kind returns the kind of an already pushed node.
func (b *Builder) Kind(id NodeID) NodeKind { return b.nodes.Get(uint32(id)).Kind }

// Range returns the range of an already pushed node; open nodes end at their start.
func (b *Builder) Range(id NodeID) Range { return b.nodes.Get(uint32(id)).Range }

func (b *Builder) checkLive() {
	if b.built {
		panic("syntax: builder reused after Build")
	}
}

func (b *Builder) link(id NodeID) {
	parent := b.Current()
	n := b.nodes.Get(uint32(id))
	n.Parent = parent
	n.Prev = b.prev
	switch {
	case b.prev != NoNode:
		b.nodes.Get(uint32(b.prev)).Next = id
	case parent != NoNode:
		b.nodes.Get(uint32(parent)).Child = id
	}
	if parent == NoNode {
		b.tops++
		if b.root == NoNode {
			b.root = id
		}
	}
}

func (b *Builder) alloc(kind NodeKind, r Range) NodeID {
	return NodeID(b.nodes.Allocate(Node{Kind: kind, Range: r}))
}

// Token pushes a leaf covering the next n bytes of the source.
func (b *Builder) Token(kind NodeKind, n int) NodeID {
	b.checkLive()
	un, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("syntax: token length: %w", err))
	}
	end := b.pos + un
	if end > uint32(len(b.src)) || end < b.pos {
		panic(fmt.Errorf("syntax: %s token %d..%d past end of source (len %d)", kind, b.pos, end, len(b.src)))
	}
	if end < uint32(len(b.src)) && !utf8.RuneStart(b.src[end]) && b.splitsRune(end) {
		panic(fmt.Errorf("syntax: %s token ends inside a UTF-8 sequence at %d", kind, end))
	}
	id := b.alloc(kind, Range{Start: b.pos, End: end})
	b.link(id)
	b.prev = id
	b.pos = end
	return id
}

func (b *Builder) splitsRune(off uint32) bool {
	lo := max(int(off)-utf8.UTFMax, 0)
	hi := min(int(off)+utf8.UTFMax, len(b.src))
	return splitsRune(string(b.src[lo:hi]), int(off)-lo)
}

// Append extends the source with text and pushes a leaf over it.
// Only valid once every byte of the existing source has been pushed.
func (b *Builder) Append(kind NodeKind, text string) NodeID {
	b.checkLive()
	if int(b.pos) != len(b.src) {
		panic(fmt.Errorf("syntax: append at %d with %d unconsumed bytes", b.pos, len(b.src)-int(b.pos)))
	}
	b.src = append(b.src, text...)
	return b.Token(kind, len(text))
}

// Start opens a nonterminal at the current position.
func (b *Builder) Start(kind NodeKind) NodeID {
	b.checkLive()
	id := b.alloc(kind, Range{Start: b.pos, End: b.pos})
	b.link(id)
	b.open = append(b.open, id)
	b.prev = NoNode
	return id
}

// Finish closes the innermost open node; its range ends at the current position.
func (b *Builder) Finish() NodeID {
	b.checkLive()
	if len(b.open) == 0 {
		panic("syntax: Finish without open node")
	}
	id := b.open[len(b.open)-1]
	b.open = b.open[:len(b.open)-1]
	b.nodes.Get(uint32(id)).Range.End = b.pos
	b.prev = id
	return id
}

func (b *Builder) Checkpoint() Checkpoint {
	return Checkpoint{
		parent: b.Current(),
		prev:   b.prev,
		pos:    b.pos,
		depth:  len(b.open),
		tops:   b.tops,
	}
}

// StartAt opens a nonterminal that adopts every sibling pushed since cp.
// The builder must be back at the nesting level cp was taken at.
func (b *Builder) StartAt(cp Checkpoint, kind NodeKind) NodeID {
	b.checkLive()
	if len(b.open) != cp.depth || b.Current() != cp.parent {
		panic(fmt.Errorf("syntax: StartAt(%s) at depth %d, checkpoint depth %d", kind, len(b.open), cp.depth))
	}

	var first NodeID
	switch {
	case cp.prev != NoNode:
		first = b.nodes.Get(uint32(cp.prev)).Next
	case cp.parent != NoNode:
		first = b.nodes.Get(uint32(cp.parent)).Child
	default:
		first = b.root
	}

	id := b.alloc(kind, Range{Start: cp.pos, End: cp.pos})
	n := b.nodes.Get(uint32(id))
	n.Parent = cp.parent
	n.Prev = cp.prev
	n.Child = first
	switch {
	case cp.prev != NoNode:
		b.nodes.Get(uint32(cp.prev)).Next = id
	case cp.parent != NoNode:
		b.nodes.Get(uint32(cp.parent)).Child = id
	default:
		b.root = id
	}
	if cp.parent == NoNode {
		b.tops = cp.tops + 1
	}
	for c := first; c != NoNode; c = b.nodes.Get(uint32(c)).Next {
		b.nodes.Get(uint32(c)).Parent = id
	}
	if first != NoNode {
		b.nodes.Get(uint32(first)).Prev = NoNode
	}

	b.open = append(b.open, id)
	if first == NoNode {
		b.prev = NoNode
	}
	// иначе b.prev уже указывает на последний обёрнутый узел
	return id
}

// Graft splices a copy of sub at the current position: every link is rebased
// by the number of nodes already allocated and every range by the current
// byte offset; sub's source is appended to the builder's.
func (b *Builder) Graft(sub *Tree) NodeID {
	b.checkLive()
	if int(b.pos) != len(b.src) {
		panic(fmt.Errorf("syntax: graft at %d with %d unconsumed bytes", b.pos, len(b.src)-int(b.pos)))
	}
	idxOff := NodeID(b.nodes.Len())
	if _, err := safecast.Conv[uint32](len(b.src) + len(sub.source)); err != nil {
		panic(fmt.Errorf("syntax: grafted source too large: %w", err))
	}
	for _, n := range sub.nodes.Slice() {
		b.nodes.Allocate(n.rebase(idxOff, b.pos))
	}
	root := sub.root + idxOff
	b.link(root)
	b.prev = root
	b.src = append(b.src, sub.source...)
	b.pos = uint32(len(b.src))
	return root
}

// Build finishes construction. The builder must be balanced, have exactly one
// top-level node and have pushed every source byte.
func (b *Builder) Build() *Tree {
	b.checkLive()
	switch {
	case len(b.open) != 0:
		panic(fmt.Errorf("syntax: Build with %d open nodes", len(b.open)))
	case b.tops != 1:
		panic(fmt.Errorf("syntax: Build with %d top-level nodes, want 1", b.tops))
	case int(b.pos) != len(b.src):
		panic(fmt.Errorf("syntax: Build with %d unconsumed bytes", len(b.src)-int(b.pos)))
	}
	b.built = true
	nodes := b.nodes
	if b.root != 1 {
		nodes = renumber(b.nodes, b.root)
	}
	return &Tree{source: string(b.src), nodes: nodes, root: 1}
}

// renumber lays the nodes out again in preorder so that the root is slot 1.
// Needed only after StartAt wrapped the top-level nodes: the wrapper is
// allocated after the nodes it adopts.
func renumber(old *Arena[Node], root NodeID) *Arena[Node] {
	remap := make([]NodeID, old.Len()+1)
	order := make([]NodeID, 0, old.Len())
	for id := root; id != NoNode; {
		remap[id] = NodeID(len(order) + 1)
		order = append(order, id)
		n := old.Get(uint32(id))
		if n.Child != NoNode {
			id = n.Child
			continue
		}
		// подняться до ближайшего предка с правым соседом
		for id != root && old.Get(uint32(id)).Next == NoNode {
			id = old.Get(uint32(id)).Parent
		}
		if id == root {
			break
		}
		id = old.Get(uint32(id)).Next
	}

	out := NewArena[Node](len(order))
	for _, id := range order {
		n := *old.Get(uint32(id))
		n.Parent = remap[n.Parent]
		n.Child = remap[n.Child]
		n.Prev = remap[n.Prev]
		n.Next = remap[n.Next]
		out.Allocate(n)
	}
	return out
}
