package lexer

import (
	"testing"

	"github.com/dshills/diagc/pkg/diag"
	"github.com/dshills/diagc/pkg/token"
)

// assertSpansCoverSource checks the lexer's two structural invariants:
// every token's span text is its source text (its literal, or for a
// string token, source that re-lexes to the same decoded literal), and
// spans are contiguous and cover [0, len(source)) without gaps.
func assertSpansCoverSource(t *testing.T, source string, toks []token.Token) {
	t.Helper()
	if len(toks) == 0 {
		t.Fatalf("expected at least an EOF token")
	}
	want := 0
	for _, tok := range toks {
		if tok.Kind == token.EOF {
			continue
		}
		if tok.Span.Start != want {
			t.Fatalf("gap or overlap before token %v: expected start %d, got %d", tok, want, tok.Span.Start)
		}
		got := tok.Span.Text(source)
		if tok.Kind == token.String {
			sub, _, _ := Lex(got)
			if sub[0].Kind != token.String || sub[0].Literal != tok.Literal || sub[0].Span.End != len(got) {
				t.Fatalf("token %v: source slice %q does not re-lex to string literal %q", tok, got, tok.Literal)
			}
		} else if got != tok.Literal {
			t.Fatalf("token %v: source slice %q != literal %q", tok, got, tok.Literal)
		}
		want = tok.Span.End
	}
	if want != len(source) {
		t.Fatalf("tokens do not cover full source: covered up to %d, source is %d bytes", want, len(source))
	}
}

func TestLexMinimalComponentDiagram(t *testing.T) {
	source := "diagram component;\na: Rectangle;\n"
	toks, diags, ok := Lex(source)
	if !ok {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	assertSpansCoverSource(t, source, toks)

	var kinds []token.Kind
	for _, tok := range toks {
		if tok.IsTrivia() || tok.Kind == token.EOF {
			continue
		}
		kinds = append(kinds, tok.Kind)
	}
	want := []token.Kind{
		token.KwDiagram, token.KwComponent, token.Semicolon,
		token.Ident, token.Colon, token.Ident, token.Semicolon,
	}
	if len(kinds) != len(want) {
		t.Fatalf("got %d significant tokens, want %d: %v", len(kinds), len(want), kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, kinds[i], want[i])
		}
	}
}

func TestLexOperators(t *testing.T) {
	source := `a::b -> c <- d <-> e;`
	toks, diags, ok := Lex(source)
	if !ok {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	assertSpansCoverSource(t, source, toks)

	var kinds []token.Kind
	for _, tok := range toks {
		if tok.IsTrivia() || tok.Kind == token.EOF {
			continue
		}
		kinds = append(kinds, tok.Kind)
	}
	want := []token.Kind{
		token.Ident, token.DoubleColon, token.Ident,
		token.ArrowRight, token.Ident,
		token.ArrowLeft, token.Ident,
		token.ArrowBi, token.Ident,
		token.Semicolon,
	}
	for i := range want {
		if i >= len(kinds) || kinds[i] != want[i] {
			t.Fatalf("token %d: got %v, want %v (all: %v)", i, safeKind(kinds, i), want[i], kinds)
		}
	}
}

func safeKind(kinds []token.Kind, i int) token.Kind {
	if i < len(kinds) {
		return kinds[i]
	}
	return token.Illegal
}

func TestLexBareDashIsPlainArrowNotNumber(t *testing.T) {
	source := "a - b;"
	toks, _, ok := Lex(source)
	if !ok {
		t.Fatalf("expected success")
	}
	assertSpansCoverSource(t, source, toks)
	if toks[2].Kind != token.Dash {
		t.Fatalf("expected a bare '-' between identifiers to lex as Dash, got %v", toks[2].Kind)
	}
}

func TestLexFloatLiterals(t *testing.T) {
	cases := []string{"10", "-10", "+3.5", "1.5e10", "1e-3", "0.25"}
	for _, c := range cases {
		toks, diags, ok := Lex(c)
		if !ok {
			t.Fatalf("%q: unexpected diagnostics: %v", c, diags)
		}
		if toks[0].Kind != token.Float || toks[0].Literal != c {
			t.Errorf("%q: got kind %v literal %q", c, toks[0].Kind, toks[0].Literal)
		}
	}
}

func TestLexInfinityWordBoundary(t *testing.T) {
	toks, _, ok := Lex("inf infinity infabc infinity2")
	if !ok {
		t.Fatalf("expected success")
	}
	var significant []token.Token
	for _, tok := range toks {
		if !tok.IsTrivia() && tok.Kind != token.EOF {
			significant = append(significant, tok)
		}
	}
	if significant[0].Kind != token.Float || significant[0].Literal != "inf" {
		t.Errorf("expected bare 'inf' to lex as Float, got %v %q", significant[0].Kind, significant[0].Literal)
	}
	if significant[1].Kind != token.Float || significant[1].Literal != "infinity" {
		t.Errorf("expected bare 'infinity' to lex as Float, got %v %q", significant[1].Kind, significant[1].Literal)
	}
	if significant[2].Kind != token.Ident || significant[2].Literal != "infabc" {
		t.Errorf("expected 'infabc' to lex as Ident (word boundary), got %v %q", significant[2].Kind, significant[2].Literal)
	}
	if significant[3].Kind != token.Ident || significant[3].Literal != "infinity2" {
		t.Errorf("expected 'infinity2' to lex as Ident (word boundary), got %v %q", significant[3].Kind, significant[3].Literal)
	}
}

func TestLexStringEscapes(t *testing.T) {
	source := `"a\nb\tc\u{41}\u{1F600}"`
	toks, diags, ok := Lex(source)
	if !ok {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	want := "a\nb\tcA\U0001F600"
	if toks[0].Literal != want {
		t.Errorf("got literal %q, want %q", toks[0].Literal, want)
	}
}

func TestLexUnterminatedString(t *testing.T) {
	source := `"abc`
	toks, diags, ok := Lex(source)
	if ok {
		t.Fatalf("expected failure")
	}
	assertSpansCoverSource(t, source, toks)
	if len(diags) != 1 || *diags[0].Code != diag.ECodeUnterminatedString {
		t.Fatalf("expected a single E001, got %v", diags)
	}
}

func TestLexInvalidEscapeCascadesToUnterminated(t *testing.T) {
	// The invalid escape consumes only the backslash and 'x'; with no
	// closing quote before end of input this cascades into a second,
	// documented E001 diagnostic.
	source := `"bad\x`
	_, diags, ok := Lex(source)
	if ok {
		t.Fatalf("expected failure")
	}
	if len(diags) != 2 {
		t.Fatalf("expected the documented E003 -> E001 cascade, got %v", diags)
	}
	codes := map[diag.Code]bool{*diags[0].Code: true, *diags[1].Code: true}
	if !codes[diag.ECodeInvalidEscape] || !codes[diag.ECodeUnterminatedString] {
		t.Fatalf("expected both E003 and E001 among diagnostics, got %v", diags)
	}
}

func TestLexEmptyUnicodeEscape(t *testing.T) {
	source := `"\u{}"`
	_, diags, ok := Lex(source)
	if ok {
		t.Fatalf("expected failure")
	}
	if len(diags) != 1 || *diags[0].Code != diag.ECodeEmptyUnicodeEscape {
		t.Fatalf("expected E006, got %v", diags)
	}
}

func TestLexInvalidCodepointSurrogate(t *testing.T) {
	source := `"\u{D800}"`
	_, diags, ok := Lex(source)
	if ok {
		t.Fatalf("expected failure")
	}
	if len(diags) != 1 || *diags[0].Code != diag.ECodeInvalidUnicodeCodepoint {
		t.Fatalf("expected E005, got %v", diags)
	}
}

func TestLexUnicodeEscapeMissingBraceReportsInvalidUnicodeEscape(t *testing.T) {
	source := `"\u41"`
	_, diags, ok := Lex(source)
	if ok {
		t.Fatalf("expected failure")
	}
	if len(diags) != 1 || *diags[0].Code != diag.ECodeInvalidUnicodeEscape {
		t.Fatalf("expected E004, got %v", diags)
	}
}

func TestLexUnexpectedCharacterRecovers(t *testing.T) {
	source := "a ~ b;"
	toks, diags, ok := Lex(source)
	if ok {
		t.Fatalf("expected failure")
	}
	assertSpansCoverSource(t, source, toks)
	if len(diags) != 1 || *diags[0].Code != diag.ECodeUnexpectedChar {
		t.Fatalf("expected a single E002, got %v", diags)
	}
	// Scanning continued past the bad character: the trailing ';' still
	// shows up as its own token.
	if toks[len(toks)-2].Kind != token.Semicolon {
		t.Fatalf("expected scanning to recover past the bad char, tokens: %v", toks)
	}
}

func TestLexLineComment(t *testing.T) {
	source := "// hello\na;"
	toks, _, ok := Lex(source)
	if !ok {
		t.Fatalf("expected success")
	}
	assertSpansCoverSource(t, source, toks)
	if toks[0].Kind != token.LineComment {
		t.Fatalf("expected leading line comment token, got %v", toks[0].Kind)
	}
}
