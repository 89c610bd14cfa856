package syntax

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// treeFormatVersion bumps whenever the encoded layout changes.
const treeFormatVersion = 1

var (
	_ msgpack.CustomEncoder = (*Tree)(nil)
	_ msgpack.CustomDecoder = (*Tree)(nil)
)

// EncodeMsgpack writes [version, source, root, [[kind, start, end, parent, child, prev, next]...]].
func (t *Tree) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeArrayLen(4); err != nil {
		return err
	}
	if err := enc.EncodeUint(treeFormatVersion); err != nil {
		return err
	}
	if err := enc.EncodeString(t.source); err != nil {
		return err
	}
	if err := enc.EncodeUint(uint64(t.root)); err != nil {
		return err
	}
	nodes := t.nodes.Slice()
	if err := enc.EncodeArrayLen(len(nodes)); err != nil {
		return err
	}
	for _, n := range nodes {
		if err := enc.EncodeArrayLen(7); err != nil {
			return err
		}
		for _, v := range [7]uint64{
			uint64(n.Kind), uint64(n.Range.Start), uint64(n.Range.End),
			uint64(n.Parent), uint64(n.Child), uint64(n.Prev), uint64(n.Next),
		} {
			if err := enc.EncodeUint(v); err != nil {
				return err
			}
		}
	}
	return nil
}

// DecodeMsgpack reads the layout written by EncodeMsgpack and validates the
// result; a structurally broken payload is an error, never a broken Tree.
func (t *Tree) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	if n != 4 {
		return fmt.Errorf("syntax tree: expected 4 fields, got %d", n)
	}
	version, err := dec.DecodeUint()
	if err != nil {
		return err
	}
	if version != treeFormatVersion {
		return fmt.Errorf("syntax tree: unsupported format version %d", version)
	}
	src, err := dec.DecodeString()
	if err != nil {
		return err
	}
	root, err := dec.DecodeUint32()
	if err != nil {
		return err
	}
	count, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	if count < 0 {
		return fmt.Errorf("syntax tree: nil node list")
	}

	// count берётся из заголовка и ему нельзя верить: ёмкость ограничена
	// исходником, дальше арена растёт по мере чтения узлов
	arena := NewArena[Node](min(count, 2*len(src)+2))
	for i := range count {
		fields, err := dec.DecodeArrayLen()
		if err != nil {
			return err
		}
		if fields != 7 {
			return fmt.Errorf("syntax tree: node %d: expected 7 fields, got %d", i+1, fields)
		}
		var v [7]uint32
		for j := range v {
			if v[j], err = dec.DecodeUint32(); err != nil {
				return fmt.Errorf("syntax tree: node %d: %w", i+1, err)
			}
		}
		if v[0] > 0xff {
			return fmt.Errorf("syntax tree: node %d: kind %d out of range", i+1, v[0])
		}
		arena.Allocate(Node{
			Kind:   NodeKind(v[0]),
			Range:  Range{Start: v[1], End: v[2]},
			Parent: NodeID(v[3]),
			Child:  NodeID(v[4]),
			Prev:   NodeID(v[5]),
			Next:   NodeID(v[6]),
		})
	}

	decoded := Tree{source: src, nodes: arena, root: NodeID(root)}
	if err := decoded.Validate(); err != nil {
		return err
	}
	*t = decoded
	return nil
}

// EncodeTree encodes t with msgpack.
func EncodeTree(t *Tree) ([]byte, error) {
	return msgpack.Marshal(t)
}

// DecodeTree decodes a tree written by EncodeTree.
func DecodeTree(data []byte) (*Tree, error) {
	var t Tree
	if err := msgpack.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode syntax tree: %w", err)
	}
	return &t, nil
}
