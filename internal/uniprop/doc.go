// Package uniprop answers the Unicode property questions the lexer asks:
// XID_Start, XID_Continue, White_Space, and the Punctuation/Symbol general
// categories. Tables come from the standard library's unicode data; the
// XID closure under NFKC is checked with golang.org/x/text/unicode/norm.
package uniprop
