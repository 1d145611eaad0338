// Package lexer tokenizes diagram source text into a stream of
// token.Token values with exact byte spans. It never aborts on a bad
// character or a broken string: it emits a diagnostic, advances past
// the offending input, and keeps scanning, so a single source file can
// surface every lexical error at once instead of only the first.
package lexer
