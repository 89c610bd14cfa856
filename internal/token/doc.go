// Package token defines lexical tokens for both lexer modes.
// Invariants:
//   - Kind is one closed enumeration; every Kind belongs to exactly one Mode.
//   - Token.Text is the exact source slice covered by Token.Span.
//   - Whitespace and comments are ordinary tokens: concatenating Text of all
//     tokens of a file reproduces the file byte for byte.
//   - Keywords are identifiers here. Keyword lookup (LookupKeyword) is used by
//     the parser, never by the lexer.
package token
