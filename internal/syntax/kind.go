package syntax

import "nafi/internal/token"

// NodeKind classifies a node. Terminal kinds share their numbering with
// token.Kind; nonterminal kinds follow them.
type NodeKind uint8

// Terminals.
const (
	Invalid               = NodeKind(token.Invalid)
	Identifier            = NodeKind(token.Identifier)
	Symbol                = NodeKind(token.Symbol)
	DecimalInteger        = NodeKind(token.DecimalInteger)
	Whitespace            = NodeKind(token.Whitespace)
	LineComment           = NodeKind(token.LineComment)
	LineDocComment        = NodeKind(token.LineDocComment)
	BlockComment          = NodeKind(token.BlockComment)
	BlockDocComment       = NodeKind(token.BlockDocComment)
	StringStart           = NodeKind(token.StringStart)
	Text                  = NodeKind(token.Text)
	EscapedCarriageReturn = NodeKind(token.EscapedCarriageReturn)
	EscapedNewLine        = NodeKind(token.EscapedNewLine)
	EscapedTab            = NodeKind(token.EscapedTab)
	EscapedBackslash      = NodeKind(token.EscapedBackslash)
	EscapedQuote          = NodeKind(token.EscapedQuote)
	EscapedUnicode        = NodeKind(token.EscapedUnicode)
	InvalidEscape         = NodeKind(token.InvalidEscape)
	InterpolationStart    = NodeKind(token.InterpolationStart)
	StringEnd             = NodeKind(token.StringEnd)
)

const firstNonterminal = StringEnd + 1

// Nonterminals.
const (
	BinaryOperation NodeKind = firstNonterminal + iota
	PrefixOperation
	SuffixOperation
	Parenthesized
	StringLiteral
	FunctionCall
	FunctionCallArgument
	Closure
	ClosureArgument
	Declaration
	Assignment
	SideEffect
	// Error marks a region no production matched. Printed as "ERROR".
	Error
	// SourceFile is the root of a parsed file.
	SourceFile

	numNodeKinds
)

var nonterminalNames = [numNodeKinds - firstNonterminal]string{
	BinaryOperation - firstNonterminal:      "BinaryOperation",
	PrefixOperation - firstNonterminal:      "PrefixOperation",
	SuffixOperation - firstNonterminal:      "SuffixOperation",
	Parenthesized - firstNonterminal:        "Parenthesized",
	StringLiteral - firstNonterminal:        "StringLiteral",
	FunctionCall - firstNonterminal:         "FunctionCall",
	FunctionCallArgument - firstNonterminal: "FunctionCallArgument",
	Closure - firstNonterminal:              "Closure",
	ClosureArgument - firstNonterminal:      "ClosureArgument",
	Declaration - firstNonterminal:          "Declaration",
	Assignment - firstNonterminal:           "Assignment",
	SideEffect - firstNonterminal:           "SideEffect",
	Error - firstNonterminal:                "ERROR",
	SourceFile - firstNonterminal:           "SourceFile",
}

// FromToken returns the terminal kind for a token kind.
func FromToken(k token.Kind) NodeKind { return NodeKind(k) }

// Token returns the token kind of a terminal; ok is false for nonterminals.
func (k NodeKind) Token() (token.Kind, bool) {
	if k.IsTerminal() {
		return token.Kind(k), true
	}
	return token.Invalid, false
}

func (k NodeKind) IsTerminal() bool { return k < firstNonterminal }

func (k NodeKind) Valid() bool { return k < numNodeKinds }

func (k NodeKind) String() string {
	switch {
	case k.IsTerminal():
		return token.Kind(k).String()
	case k.Valid():
		return nonterminalNames[k-firstNonterminal]
	}
	return "NodeKind(?)"
}

// ParseNodeKind resolves a kind by its printed name.
func ParseNodeKind(name string) (NodeKind, bool) {
	if k, ok := token.ParseKind(name); ok {
		return FromToken(k), true
	}
	for i, n := range nonterminalNames {
		if n == name {
			return firstNonterminal + NodeKind(i), true
		}
	}
	return Invalid, false
}
