// Package token defines the diagram language's token alphabet and the
// Token produced by the lexer: every token carries the Span
// of source text it was scanned from.
package token
