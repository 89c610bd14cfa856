package syntax

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// String renders the tree in compact notation.
func (t *Tree) String() string {
	var sb strings.Builder
	_ = WriteNotation(&sb, t.Root(), false)
	return sb.String()
}

// WriteNotation writes the subtree at n. With pretty set every node goes on
// its own line, indented two spaces per level, lists keep a trailing comma.
func WriteNotation(w io.Writer, n NodeRef, pretty bool) error {
	if !n.Valid() {
		return nil
	}
	bw := bufio.NewWriter(w)
	depth := 0
	indent := func() {
		if pretty {
			bw.WriteByte('\n')
			for range depth {
				bw.WriteString("  ")
			}
		}
	}

	cur := n
	for {
		bw.WriteString(cur.Kind().String())
		if cur.HasChildren() {
			bw.WriteString("([")
			depth++
			indent()
			cur = cur.Child()
			continue
		}
		bw.WriteByte('(')
		bw.WriteString(strconv.Quote(cur.Source()))
		bw.WriteByte(')')

		// закрыть все списки, у которых кончились дети
		for cur.ID() != n.ID() && !cur.Next().Valid() {
			cur = cur.Parent()
			depth--
			if pretty {
				bw.WriteByte(',')
			}
			indent()
			bw.WriteString("])")
		}
		if cur.ID() == n.ID() {
			break
		}
		bw.WriteByte(',')
		if !pretty {
			bw.WriteByte(' ')
		}
		indent()
		cur = cur.Next()
	}
	if pretty {
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// NotationError reports a malformed notation input.
type NotationError struct {
	Offset int
	Msg    string
}

func (e *NotationError) Error() string {
	return fmt.Sprintf("notation: offset %d: %s", e.Offset, e.Msg)
}

type notationReader struct {
	s   string
	off int
}

func (r *notationReader) errf(format string, args ...any) error {
	return &NotationError{Offset: r.off, Msg: fmt.Sprintf(format, args...)}
}

func (r *notationReader) skipSpace() {
	for r.off < len(r.s) {
		switch r.s[r.off] {
		case ' ', '\t', '\n', '\r':
			r.off++
		default:
			return
		}
	}
}

func (r *notationReader) peek() byte {
	r.skipSpace()
	if r.off >= len(r.s) {
		return 0
	}
	return r.s[r.off]
}

func (r *notationReader) expect(b byte) error {
	if r.peek() != b {
		if r.off >= len(r.s) {
			return r.errf("expected %q, got end of input", b)
		}
		return r.errf("expected %q, got %q", b, r.s[r.off])
	}
	r.off++
	return nil
}

func isKindByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func (r *notationReader) kind() (NodeKind, error) {
	r.skipSpace()
	start := r.off
	for r.off < len(r.s) && isKindByte(r.s[r.off]) {
		r.off++
	}
	name := r.s[start:r.off]
	if name == "" {
		return 0, r.errf("expected node kind")
	}
	k, ok := ParseNodeKind(name)
	if !ok {
		r.off = start
		return 0, r.errf("unknown node kind %q", name)
	}
	return k, nil
}

// quoted reads a Go-style double-quoted string.
func (r *notationReader) quoted() (string, error) {
	r.skipSpace()
	start := r.off
	if r.off >= len(r.s) || r.s[r.off] != '"' {
		return "", r.errf("expected string")
	}
	r.off++
	for r.off < len(r.s) {
		switch r.s[r.off] {
		case '\\':
			r.off += 2
			continue
		case '"':
			r.off++
			text, err := strconv.Unquote(r.s[start:r.off])
			if err != nil {
				r.off = start
				return "", r.errf("bad string literal: %v", err)
			}
			return text, nil
		}
		r.off++
	}
	r.off = start
	return "", r.errf("unterminated string literal")
}

// ParseNotation reads the textual form produced by WriteNotation (compact or
// pretty) back into a Tree. Parsing uses an explicit stack of open lists.
func ParseNotation(s string) (*Tree, error) {
	r := &notationReader{s: s}
	b := NewBuilder("")
	open := 0

	for {
		// один узел
		kind, err := r.kind()
		if err != nil {
			return nil, err
		}
		if err := r.expect('('); err != nil {
			return nil, err
		}
		switch r.peek() {
		case '"':
			text, err := r.quoted()
			if err != nil {
				return nil, err
			}
			if !kind.IsTerminal() && text != "" {
				return nil, r.errf("nonterminal %s needs a child list", kind)
			}
			if err := r.expect(')'); err != nil {
				return nil, err
			}
			b.Append(kind, text)
		case '[':
			if kind.IsTerminal() {
				return nil, r.errf("terminal %s cannot have children", kind)
			}
			r.off++
			b.Start(kind)
			open++
			if r.peek() != ']' {
				continue
			}
		default:
			return nil, r.errf("expected '\"' or '['")
		}

		// закрыть списки / перейти к следующему соседу
		// после ребёнка нужен ',' или ']'; висячая запятая перед ']' допустима
		for open > 0 {
			comma := r.peek() == ','
			if comma {
				r.off++
			}
			if r.peek() != ']' {
				if !comma {
					return nil, r.errf("expected ',' or ']'")
				}
				break
			}
			r.off++
			if err := r.expect(')'); err != nil {
				return nil, err
			}
			b.Finish()
			open--
		}
		if open == 0 {
			break
		}
	}

	if r.peek() != 0 {
		return nil, r.errf("trailing input")
	}
	return b.Build(), nil
}
