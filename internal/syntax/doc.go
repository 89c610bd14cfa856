// Package syntax holds the lossless, arena-indexed syntax tree.
//
// A Tree owns its source text and a flat arena of Nodes. Nodes reference each
// other by NodeID (1-based; NoNode is the absent link) through parent, first
// child and previous/next sibling links, never by pointer. Every byte of the
// source belongs to exactly one terminal node, so concatenating the terminals
// in tree order reproduces the source verbatim.
//
// Trees are built once by a Builder (push-style, with checkpoints for
// wrapping already pushed siblings and Graft for splicing whole subtrees) and
// are immutable afterwards. Whole-tree walks, equality and the notation
// writer/reader are iterative, so tree depth never grows the Go call stack.
//
// Textual form ("notation"):
//
//	SideEffect([FunctionCall([Identifier("f"), Symbol("("), Symbol(")")]), Symbol(";")])
//
// A node without children is written with its quoted source text, a node with
// children with the bracketed list of them.
package syntax
