package lexer

import (
	"strconv"
	"strings"

	"github.com/dshills/diagc/pkg/diag"
	"github.com/dshills/diagc/pkg/token"
)

// Lexer scans diagram source text into tokens, one call to next() at a
// time. It never blocks and never panics on malformed input: every
// error becomes a diagnostic and scanning continues.
type Lexer struct {
	src  string
	pos  int
	errs *diag.Collector
}

// Lex tokenizes source in full. It always returns every token it could
// recover (best-effort), plus the collected diagnostics ordered by span
// start, plus ok which is false if any diagnostic was error severity.
func Lex(source string) (toks []token.Token, diagnostics []*diag.Diagnostic, ok bool) {
	l := &Lexer{src: source, errs: diag.NewCollector()}
	for {
		tok := l.next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	diagnostics, ok = l.errs.Finish()
	return toks, diagnostics, ok
}

func (l *Lexer) eof() bool { return l.pos >= len(l.src) }

func (l *Lexer) byteAt(i int) byte {
	if i < 0 || i >= len(l.src) {
		return 0
	}
	return l.src[i]
}

func (l *Lexer) cur() byte  { return l.byteAt(l.pos) }
func (l *Lexer) peek() byte { return l.byteAt(l.pos + 1) }

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
func isAlnum(b byte) bool { return isAlpha(b) || isDigit(b) }
func isHorizontalSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r'
}
func isWhitespaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

// next scans and returns exactly one token, advancing l.pos past it.
func (l *Lexer) next() token.Token {
	if l.eof() {
		return token.Token{Kind: token.EOF, Span: diag.Span{Start: l.pos, End: l.pos}}
	}

	start := l.pos
	c := l.cur()

	switch {
	case isHorizontalSpace(c):
		for !l.eof() && isHorizontalSpace(l.cur()) {
			l.pos++
		}
		return l.tok(token.Whitespace, start)
	case c == '\n':
		for !l.eof() && l.cur() == '\n' {
			l.pos++
		}
		return l.tok(token.Newline, start)
	case c == '/' && l.peek() == '/':
		for !l.eof() && l.cur() != '\n' {
			l.pos++
		}
		return l.tok(token.LineComment, start)
	case c == '"':
		return l.scanString(start)
	case c == '-' && isDigit(l.peek()):
		return l.scanNumber(start)
	case c == '+' && isDigit(l.peek()):
		return l.scanNumber(start)
	case isDigit(c):
		return l.scanNumber(start)
	case isAlpha(c):
		return l.scanIdentOrInfinity(start)
	case c == '<' && l.peek() == '-' && l.byteAt(l.pos+2) == '>':
		l.pos += 3
		return l.tok(token.ArrowBi, start)
	case c == '-' && l.peek() == '>':
		l.pos += 2
		return l.tok(token.ArrowRight, start)
	case c == '<' && l.peek() == '-':
		l.pos += 2
		return l.tok(token.ArrowLeft, start)
	case c == ':' && l.peek() == ':':
		l.pos += 2
		return l.tok(token.DoubleColon, start)
	}

	if k, ok := singleCharKind(c); ok {
		l.pos++
		return l.tok(k, start)
	}

	// E002 unexpected character: recover by advancing one byte and still
	// emitting a token so every byte of source is covered by exactly one
	// token.
	l.errs.Error(diag.ECodeUnexpectedChar, diag.Span{Start: start, End: start + 1},
		"unexpected character '"+string(c)+"'")
	l.pos++
	return l.tok(token.Illegal, start)
}

func singleCharKind(c byte) (token.Kind, bool) {
	switch c {
	case '-':
		return token.Dash, true
	case '=':
		return token.Equal, true
	case ':':
		return token.Colon, true
	case '@':
		return token.At, true
	case '{':
		return token.LBrace, true
	case '}':
		return token.RBrace, true
	case '[':
		return token.LBracket, true
	case ']':
		return token.RBracket, true
	case ';':
		return token.Semicolon, true
	case ',':
		return token.Comma, true
	}
	return 0, false
}

func (l *Lexer) tok(k token.Kind, start int) token.Token {
	return token.Token{Kind: k, Literal: l.src[start:l.pos], Span: diag.Span{Start: start, End: l.pos}}
}

// scanIdentOrInfinity scans an identifier, keyword, or the special
// "inf"/"infinity" float literals. inf/infinity are only recognized as
// numbers when followed by a non-identifier character; otherwise they
// (and every other word) are plain identifiers or keywords.
func (l *Lexer) scanIdentOrInfinity(start int) token.Token {
	for !l.eof() && isAlnum(l.cur()) {
		l.pos++
	}
	word := l.src[start:l.pos]
	// The loop above already ran to the next non-identifier character, so
	// reaching exactly "inf"/"infinity" here means the word boundary
	// check already passed: a longer word like "infinity2" or "infabc"
	// would have been consumed whole by the loop instead.
	if word == "inf" || word == "infinity" {
		return l.tok(token.Float, start)
	}
	if kw, ok := token.LookupIdent(word); ok {
		return l.tok(kw, start)
	}
	return l.tok(token.Ident, start)
}

// scanNumber scans a float literal: optional sign, integer part,
// optional fractional part, optional exponent.
func (l *Lexer) scanNumber(start int) token.Token {
	if l.cur() == '-' || l.cur() == '+' {
		l.pos++
	}
	for !l.eof() && isDigit(l.cur()) {
		l.pos++
	}
	if !l.eof() && l.cur() == '.' && isDigit(l.peek()) {
		l.pos++
		for !l.eof() && isDigit(l.cur()) {
			l.pos++
		}
	}
	if !l.eof() && (l.cur() == 'e' || l.cur() == 'E') {
		save := l.pos
		l.pos++
		if !l.eof() && (l.cur() == '+' || l.cur() == '-') {
			l.pos++
		}
		if !l.eof() && isDigit(l.cur()) {
			for !l.eof() && isDigit(l.cur()) {
				l.pos++
			}
		} else {
			l.pos = save
		}
	}
	return l.tok(token.Float, start)
}

// scanString scans a double-quoted string literal, processing escape
// sequences into Literal. It commits to a single String token spanning
// from the opening quote to wherever scanning stops: the closing quote,
// or end of input / unescaped newline, in which case E001 is reported.
// Escape errors are reported and scanning continues inside the string.
func (l *Lexer) scanString(start int) token.Token {
	l.pos++ // consume opening quote
	var out strings.Builder
	for {
		if l.eof() || l.cur() == '\n' {
			l.errs.Error(diag.ECodeUnterminatedString, diag.Span{Start: start, End: l.pos},
				"unterminated string literal")
			return token.Token{Kind: token.String, Literal: out.String(), Span: diag.Span{Start: start, End: l.pos}}
		}
		if l.cur() == '"' {
			l.pos++
			return token.Token{Kind: token.String, Literal: out.String(), Span: diag.Span{Start: start, End: l.pos}}
		}
		if l.cur() == '\\' {
			l.scanEscape(&out)
			continue
		}
		out.WriteByte(l.cur())
		l.pos++
	}
}

var simpleEscapes = map[byte]byte{
	'n': '\n', 'r': '\r', 't': '\t', 'b': '\b', 'f': '\f',
	'\\': '\\', '/': '/', '\'': '\'', '"': '"', '0': 0,
}

// scanEscape processes one backslash escape sequence starting at
// l.cur() == '\\', appending its decoded form to out and advancing
// l.pos past it. On error it emits a diagnostic and advances one byte
// past the backslash, per the lexer's single-character recovery rule.
func (l *Lexer) scanEscape(out *strings.Builder) {
	escStart := l.pos
	l.pos++ // consume backslash
	if l.eof() {
		l.errs.Error(diag.ECodeInvalidEscape, diag.Span{Start: escStart, End: l.pos}, "invalid escape sequence")
		return
	}
	c := l.cur()

	if isWhitespaceByte(c) {
		for !l.eof() && isWhitespaceByte(l.cur()) {
			l.pos++
		}
		return
	}

	if c == 'u' {
		l.scanUnicodeEscape(out, escStart)
		return
	}

	if decoded, ok := simpleEscapes[c]; ok {
		out.WriteByte(decoded)
		l.pos++
		return
	}

	l.errs.Error(diag.ECodeInvalidEscape, diag.Span{Start: escStart, End: l.pos + 1},
		"invalid escape sequence '\\"+string(c)+"'")
	l.pos++
}

// scanUnicodeEscape processes \u{hex...}, 1-6 hex digits.
func (l *Lexer) scanUnicodeEscape(out *strings.Builder, escStart int) {
	l.pos++ // consume 'u'
	if l.eof() || l.cur() != '{' {
		l.errs.Error(diag.ECodeInvalidUnicodeEscape, diag.Span{Start: escStart, End: l.pos},
			`invalid unicode escape: expected '{' after \u`)
		return
	}
	l.pos++ // consume '{'
	hexStart := l.pos
	for !l.eof() && isHexDigit(l.cur()) {
		l.pos++
	}
	hex := l.src[hexStart:l.pos]
	if l.eof() || l.cur() != '}' {
		l.errs.Error(diag.ECodeInvalidUnicodeEscape, diag.Span{Start: escStart, End: l.pos},
			"invalid unicode escape: missing closing '}'")
		return
	}
	closeEnd := l.pos + 1

	if hex == "" {
		l.errs.Error(diag.ECodeEmptyUnicodeEscape, diag.Span{Start: escStart, End: closeEnd}, "empty unicode escape")
		l.pos = closeEnd
		return
	}
	if len(hex) > 6 {
		l.errs.Error(diag.ECodeInvalidUnicodeEscape, diag.Span{Start: escStart, End: closeEnd},
			"unicode escape must have between 1 and 6 hex digits")
		l.pos = closeEnd
		return
	}

	value, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		l.errs.Error(diag.ECodeInvalidUnicodeEscape, diag.Span{Start: escStart, End: closeEnd},
			"invalid unicode escape")
		l.pos = closeEnd
		return
	}
	if (value >= 0xD800 && value <= 0xDFFF) || value > 0x10FFFF {
		l.errs.Error(diag.ECodeInvalidUnicodeCodepoint, diag.Span{Start: escStart, End: closeEnd},
			"invalid unicode codepoint")
		l.pos = closeEnd
		return
	}

	out.WriteRune(rune(value))
	l.pos = closeEnd
}

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
