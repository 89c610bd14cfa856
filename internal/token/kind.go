package token

import (
	"fmt"
	"strings"
)

// Mode selects which rule set the lexer applies.
type Mode uint8

const (
	// ModeCode lexes ordinary program text.
	ModeCode Mode = iota
	// ModeString lexes the body of a string literal.
	ModeString
)

func (m Mode) String() string {
	switch m {
	case ModeCode:
		return "Code"
	case ModeString:
		return "String"
	default:
		return "Mode(?)"
	}
}

// ParseMode accepts "code" or "string" in any case.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "code", "":
		return ModeCode, nil
	case "string":
		return ModeString, nil
	}
	return ModeCode, fmt.Errorf("invalid mode %q (expected code|string)", s)
}

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid is a single character no code rule matched.
	Invalid Kind = iota
	// Identifier is XID_Start XID_Continue*.
	Identifier
	// Symbol is a single Punctuation or Symbol character.
	Symbol
	// DecimalInteger is [0-9][0-9_]* with an optional 0d prefix.
	DecimalInteger
	// Whitespace is a run of White_Space characters.
	Whitespace
	LineComment     // //...
	LineDocComment  // ///...
	BlockComment    // /* ... */
	BlockDocComment // /** ... */
	// StringStart is the opening quote; it switches the driver to ModeString.
	StringStart

	// Text is a run of string content without '"' or '\'.
	Text
	EscapedCarriageReturn // \r
	EscapedNewLine        // \n
	EscapedTab            // \t
	EscapedBackslash      // \\
	EscapedQuote          // \"
	EscapedUnicode        // \u{XXXX}
	// InvalidEscape is any malformed escape sequence.
	InvalidEscape
	// InterpolationStart is \{ ; it switches the driver to ModeCode.
	InterpolationStart
	// StringEnd is the closing quote.
	StringEnd

	numKinds
)

var kindNames = [numKinds]string{
	Invalid:               "Invalid",
	Identifier:            "Identifier",
	Symbol:                "Symbol",
	DecimalInteger:        "DecimalInteger",
	Whitespace:            "Whitespace",
	LineComment:           "LineComment",
	LineDocComment:        "LineDocComment",
	BlockComment:          "BlockComment",
	BlockDocComment:       "BlockDocComment",
	StringStart:           "StringStart",
	Text:                  "Text",
	EscapedCarriageReturn: "EscapedCarriageReturn",
	EscapedNewLine:        "EscapedNewLine",
	EscapedTab:            "EscapedTab",
	EscapedBackslash:      "EscapedBackslash",
	EscapedQuote:          "EscapedQuote",
	EscapedUnicode:        "EscapedUnicode",
	InvalidEscape:         "InvalidEscape",
	InterpolationStart:    "InterpolationStart",
	StringEnd:             "StringEnd",
}

func (k Kind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return "Kind(?)"
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool { return k < numKinds }

// Mode returns the lexer mode that produces k.
func (k Kind) Mode() Mode {
	if k >= Text {
		return ModeString
	}
	return ModeCode
}

// IsTrivia reports whether k carries no syntactic meaning (whitespace, comments).
func (k Kind) IsTrivia() bool {
	switch k {
	case Whitespace, LineComment, LineDocComment, BlockComment, BlockDocComment:
		return true
	default:
		return false
	}
}

// IsComment reports whether k is any comment kind.
func (k Kind) IsComment() bool {
	return k.IsTrivia() && k != Whitespace
}

// IsEscape reports whether k is a valid escape sequence.
func (k Kind) IsEscape() bool {
	return k >= EscapedCarriageReturn && k <= EscapedUnicode
}

// IsDegraded reports whether k marks input that matched no real rule.
func (k Kind) IsDegraded() bool {
	return k == Invalid || k == InvalidEscape
}

// ParseKind resolves a kind by its name, as printed by String.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return Invalid, false
}

// Kinds returns all kinds in declaration order.
func Kinds() []Kind {
	out := make([]Kind, numKinds)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}
