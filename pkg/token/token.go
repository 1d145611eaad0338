package token

import (
	"fmt"

	"github.com/dshills/diagc/pkg/diag"
)

// Kind identifies a lexical token category.
type Kind int

const (
	Illegal Kind = iota
	EOF

	Ident
	Float
	String

	// Keywords.
	KwDiagram
	KwComponent
	KwSequence
	KwType
	KwEmbed
	KwAs
	KwActivate
	KwDeactivate
	KwFragment
	KwSection
	KwAlt
	KwElse
	KwOpt
	KwLoop
	KwPar
	KwBreak
	KwCritical
	KwNote

	// Multi-char operators.
	ArrowBi    // <->
	ArrowRight // ->
	ArrowLeft  // <-
	DoubleColon

	// Single-char tokens.
	Dash
	Equal
	Colon
	At
	LBrace
	RBrace
	LBracket
	RBracket
	Semicolon
	Comma

	LineComment
	Whitespace
	Newline
)

// keywords maps the reserved words to their Kind. Identifiers are
// checked against this table with a word-boundary rule: an identifier
// only becomes a keyword token if it matches one of these entries
// exactly.
var keywords = map[string]Kind{
	"diagram":    KwDiagram,
	"component":  KwComponent,
	"sequence":   KwSequence,
	"type":       KwType,
	"embed":      KwEmbed,
	"as":         KwAs,
	"activate":   KwActivate,
	"deactivate": KwDeactivate,
	"fragment":   KwFragment,
	"section":    KwSection,
	"alt":        KwAlt,
	"else":       KwElse,
	"opt":        KwOpt,
	"loop":       KwLoop,
	"par":        KwPar,
	"break":      KwBreak,
	"critical":   KwCritical,
	"note":       KwNote,
}

// LookupIdent returns the keyword Kind for name, or (Ident, false) if
// name is not a reserved word.
func LookupIdent(name string) (Kind, bool) {
	k, ok := keywords[name]
	return k, ok
}

// String renders a human-readable token kind name, used in diagnostic
// messages (e.g. "expected ';', found '{'").
func (k Kind) String() string {
	switch k {
	case Illegal:
		return "illegal"
	case EOF:
		return "end of input"
	case Ident:
		return "identifier"
	case Float:
		return "number"
	case String:
		return "string"
	case ArrowBi:
		return "'<->'"
	case ArrowRight:
		return "'->'"
	case ArrowLeft:
		return "'<-'"
	case DoubleColon:
		return "'::'"
	case Dash:
		return "'-'"
	case Equal:
		return "'='"
	case Colon:
		return "':'"
	case At:
		return "'@'"
	case LBrace:
		return "'{'"
	case RBrace:
		return "'}'"
	case LBracket:
		return "'['"
	case RBracket:
		return "']'"
	case Semicolon:
		return "';'"
	case Comma:
		return "','"
	case LineComment:
		return "comment"
	case Whitespace:
		return "whitespace"
	case Newline:
		return "newline"
	default:
		for word, kw := range keywords {
			if kw == k {
				return fmt.Sprintf("%q", word)
			}
		}
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Token is a single lexical token: its Kind, the literal text it was
// scanned from (post-escape-processing for strings), and the Span of
// source it covers.
type Token struct {
	Kind    Kind
	Literal string
	Span    diag.Span
}

// IsTrivia reports whether the token is whitespace, a newline, or a
// line comment — the parser skips these.
func (t Token) IsTrivia() bool {
	switch t.Kind {
	case Whitespace, Newline, LineComment:
		return true
	default:
		return false
	}
}
