package diagfmt

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"nafi/internal/source"
	"nafi/internal/syntax"
)

// FormatTreeNotation пишет дерево в теговой нотации Kind("src") / Kind([...]).
func FormatTreeNotation(w io.Writer, tree *syntax.Tree, pretty bool) error {
	if err := syntax.WriteNotation(w, tree.Root(), pretty); err != nil {
		return err
	}
	if !pretty {
		_, err := io.WriteString(w, "\n")
		return err
	}
	return nil
}

// FormatTreeOutline prints one node per line, indented two spaces per level:
//
//	Kind line:col-line:col            for nonterminals
//	Kind "escaped source" line:col    for leaves
//
// The walk follows sibling links and keeps no stack.
func FormatTreeOutline(w io.Writer, tree *syntax.Tree, file *source.File, useColor bool) error {
	bw := bufio.NewWriter(w)
	kindStyle := color.New(color.FgCyan)
	errStyle := color.New(color.FgRed, color.Bold)
	textStyle := color.New(color.FgGreen)
	for _, c := range []*color.Color{kindStyle, errStyle, textStyle} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	root := tree.Root()
	cur, depth := root, 0
	for {
		n := cur
		bw.WriteString(strings.Repeat("  ", depth))
		style := kindStyle
		if n.Kind() == syntax.Error {
			style = errStyle
		}
		bw.WriteString(style.Sprint(n.Kind().String()))
		r := n.Range()
		start := file.Position(r.Start)
		if n.HasChildren() {
			end := file.Position(r.End)
			fmt.Fprintf(bw, " %d:%d-%d:%d\n", start.Line, start.Col, end.Line, end.Col)
			cur, depth = n.Child(), depth+1
			continue
		}
		fmt.Fprintf(bw, " %s %d:%d\n", textStyle.Sprint(`"`+Escape(n.Source())+`"`), start.Line, start.Col)

		for cur.ID() != root.ID() && !cur.Next().Valid() {
			cur, depth = cur.Parent(), depth-1
		}
		if cur.ID() == root.ID() {
			break
		}
		cur = cur.Next()
	}
	return bw.Flush()
}

type NodeJSON struct {
	ID     syntax.NodeID `json:"id"`
	Kind   string        `json:"kind"`
	Start  uint32        `json:"start"`
	End    uint32        `json:"end"`
	Parent syntax.NodeID `json:"parent,omitempty"`
	Child  syntax.NodeID `json:"child,omitempty"`
	Prev   syntax.NodeID `json:"prev,omitempty"`
	Next   syntax.NodeID `json:"next,omitempty"`
}

type TreeOutput struct {
	Path   string        `json:"path,omitempty"`
	Source string        `json:"source"`
	Root   syntax.NodeID `json:"root"`
	Nodes  []NodeJSON    `json:"nodes"`
}

// BuildTreeOutput flattens the arena: ids are 1-based and 0 means "none".
func BuildTreeOutput(tree *syntax.Tree, path string) TreeOutput {
	nodes := tree.Nodes()
	out := TreeOutput{
		Path:   path,
		Source: tree.Source(),
		Root:   tree.Root().ID(),
		Nodes:  make([]NodeJSON, len(nodes)),
	}
	for i, n := range nodes {
		out.Nodes[i] = NodeJSON{
			ID:     syntax.NodeID(i + 1),
			Kind:   n.Kind.String(),
			Start:  n.Range.Start,
			End:    n.Range.End,
			Parent: n.Parent,
			Child:  n.Child,
			Prev:   n.Prev,
			Next:   n.Next,
		}
	}
	return out
}

// FormatTreeJSON выводит арену дерева в JSON формате
func FormatTreeJSON(w io.Writer, tree *syntax.Tree, path string) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildTreeOutput(tree, path))
}
