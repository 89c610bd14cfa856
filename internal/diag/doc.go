// Package diag defines the diagnostic model shared by the lexer, the parser
// and the driver.
//
// Diagnostics are a side channel. The lexer and parser never fail: malformed
// input becomes data (Invalid / InvalidEscape tokens, ERROR nodes) and, when a
// Reporter is configured, a Diagnostic describing the same region is emitted as
// well. Dropping every diagnostic must never change a token stream or a tree.
//
// Diagnostic carries a Severity, a stable numeric Code (see codes.go), a short
// Message, the Primary span and optional Notes. Producers emit through a
// Reporter; BagReporter collects into a Bag that supports sorting and
// deduplication. Rendering lives in internal/diagfmt.
package diag
