package past

import (
	"fmt"
	"strconv"

	"github.com/dshills/diagc/pkg/diag"
	"github.com/dshills/diagc/pkg/token"
)

// Parser turns a lexer token stream into a Diagram parse tree. It skips
// whitespace, newline, and line-comment tokens, and recovers from a
// syntax error by scanning forward to the next statement boundary (a
// top-level ';' or the matching closing brace) so a single source file
// can surface more than one parse error per run.
type Parser struct {
	toks []token.Token
	pos  int
	errs *diag.Collector
}

var sugarKeywords = map[token.Kind]string{
	token.KwAlt:      "alt",
	token.KwOpt:      "opt",
	token.KwLoop:     "loop",
	token.KwPar:      "par",
	token.KwBreak:    "break",
	token.KwCritical: "critical",
}

// Parse parses tokens (as produced by package lexer) into a Diagram.
// It always returns the best-effort tree it recovered, the collected
// diagnostics ordered by span start, and ok which is false if any
// diagnostic was error severity.
func Parse(tokens []token.Token) (*Diagram, []*diag.Diagnostic, bool) {
	p := &Parser{errs: diag.NewCollector()}
	for _, t := range tokens {
		if t.IsTrivia() {
			continue
		}
		p.toks = append(p.toks, t)
	}
	d := p.parseDiagram()
	diagnostics, ok := p.errs.Finish()
	return d, diagnostics, ok
}

func (p *Parser) cur() token.Token { return p.at(p.pos) }

func (p *Parser) at(i int) token.Token {
	if i >= len(p.toks) {
		if len(p.toks) == 0 {
			return token.Token{Kind: token.EOF}
		}
		last := p.toks[len(p.toks)-1]
		return token.Token{Kind: token.EOF, Span: diag.Span{Start: last.Span.End, End: last.Span.End}}
	}
	return p.toks[i]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if t.Kind != token.EOF {
		p.pos++
	}
	return t
}

// expect consumes the current token if it matches kind, else emits a
// diagnostic pointing at the offending (or missing) token and returns
// ok=false without advancing past EOF.
func (p *Parser) expect(kind token.Kind) (token.Token, bool) {
	if p.cur().Kind == kind {
		return p.advance(), true
	}
	got := p.cur()
	p.errs.Error(diag.ECodeInvalidElement, got.Span,
		fmt.Sprintf("expected %s, found %s", kind, got.Kind)).
		WithHelp(fmt.Sprintf("insert %s here", kind))
	return got, false
}

// syncToStatementBoundary recovers from a parse error by advancing past
// tokens until a ';' at the current nesting depth is consumed, or a '}'
// at the current nesting depth is reached (left unconsumed, so the
// caller's loop notices the scope is closing), or input is exhausted.
func (p *Parser) syncToStatementBoundary() {
	depth := 0
	for {
		switch p.cur().Kind {
		case token.EOF:
			return
		case token.LBrace, token.LBracket:
			depth++
			p.advance()
		case token.RBrace:
			if depth == 0 {
				return
			}
			depth--
			p.advance()
		case token.RBracket:
			if depth > 0 {
				depth--
			}
			p.advance()
		case token.Semicolon:
			p.advance()
			if depth == 0 {
				return
			}
		default:
			p.advance()
		}
	}
}

func (p *Parser) parseDiagram() *Diagram {
	start := p.cur().Span
	p.expect(token.KwDiagram)

	d := &Diagram{Kind: Component}
	switch p.cur().Kind {
	case token.KwComponent:
		d.Kind = Component
		p.advance()
	case token.KwSequence:
		d.Kind = Sequence
		p.advance()
	default:
		got := p.cur()
		p.errs.Error(diag.ECodeInvalidElement, got.Span, "expected \"component\" or \"sequence\"").
			WithHelp(`diagrams begin with "diagram component;" or "diagram sequence;"`)
	}

	if p.startsTypeSpec() {
		d.TypeSpec = p.parseTypeSpec()
	}
	p.expect(token.Semicolon)

	for p.cur().Kind != token.EOF {
		if p.cur().Kind == token.KwType {
			d.TypeDefs = append(d.TypeDefs, p.parseTypeDef())
			continue
		}
		elems, ok := p.parseStatement()
		if !ok {
			p.syncToStatementBoundary()
			continue
		}
		d.Elements = append(d.Elements, elems...)
	}

	end := start
	if len(p.toks) > 0 {
		end = p.toks[len(p.toks)-1].Span
	}
	d.Span = start.Union(end)
	return d
}

// startsTypeSpec reports whether the current token could begin a
// type-spec (Ident? ("[" ... "]")?) in a position where one is optional.
func (p *Parser) startsTypeSpec() bool {
	k := p.cur().Kind
	return k == token.Ident || k == token.LBracket
}

func (p *Parser) parseTypeDef() TypeDef {
	start := p.cur().Span
	p.expect(token.KwType)
	name, _ := p.expectIdent()
	p.expect(token.Equal)
	spec := p.parseTypeSpec()
	end, _ := p.expect(token.Semicolon)
	return TypeDef{Name: name, Spec: *spec, Span: start.Union(end.Span)}
}

func (p *Parser) expectIdent() (Ident, bool) {
	t, ok := p.expect(token.Ident)
	return Ident{Name: t.Literal, Span: t.Span}, ok
}

// parseTypeSpec parses Ident? ("[" attr ("," attr)* "]")?. Callers only
// invoke this when startsTypeSpec() (or an equivalent lookahead) has
// already confirmed a type-spec is present; an empty "[]" is a valid,
// attribute-less anonymous spec.
func (p *Parser) parseTypeSpec() *TypeSpec {
	start := p.cur().Span
	spec := &TypeSpec{Span: start}
	if p.cur().Kind == token.Ident {
		name, _ := p.expectIdent()
		spec.Name = &name
	}
	if p.cur().Kind == token.LBracket {
		p.advance()
		for p.cur().Kind != token.RBracket && p.cur().Kind != token.EOF {
			spec.Attrs = append(spec.Attrs, p.parseAttr())
			if p.cur().Kind == token.Comma {
				p.advance()
				continue
			}
			break
		}
		end, _ := p.expect(token.RBracket)
		spec.Span = start.Union(end.Span)
	} else if spec.Name != nil {
		spec.Span = spec.Name.Span
	}
	return spec
}

func (p *Parser) parseAttr() Attr {
	name, _ := p.expectIdent()
	p.expect(token.Equal)
	value := p.parseAttrValue()
	return Attr{Name: name, Value: value, Span: name.Span.Union(value.Span)}
}

// parseAttrValue parses attr-value ::= string | float | type-spec |
// "[" Ident ("," Ident)* "]". A leading '[' is ambiguous between an
// anonymous type-spec's attribute list and a bare identifier list; this
// is resolved with one token of lookahead: "[" Ident "=" is a type-spec,
// anything else inside the brackets is an identifier list.
func (p *Parser) parseAttrValue() AttrValue {
	switch p.cur().Kind {
	case token.String:
		t := p.advance()
		return AttrValue{Kind: AttrString, Str: t.Literal, Span: t.Span}
	case token.Float:
		t := p.advance()
		return AttrValue{Kind: AttrFloat, Float: parseFloatLiteral(t.Literal), Span: t.Span}
	case token.Ident:
		spec := p.parseTypeSpec()
		return AttrValue{Kind: AttrTypeSpec, TypeSpec: spec, Span: spec.Span}
	case token.LBracket:
		if p.looksLikeIdentList() {
			return p.parseIdentListValue()
		}
		spec := p.parseTypeSpec()
		return AttrValue{Kind: AttrTypeSpec, TypeSpec: spec, Span: spec.Span}
	default:
		got := p.cur()
		p.errs.Error(diag.ECodeInvalidAttributeValue, got.Span, "invalid attribute value").
			WithHelp("expected a string, number, type spec, or identifier list")
		return AttrValue{Kind: AttrString, Span: got.Span}
	}
}

// looksLikeIdentList reports whether the bracket starting at p.cur()
// opens a bare "[Ident, Ident, ...]" list rather than a "[name=value]"
// attribute list: true when the first token inside is an identifier NOT
// followed by '='.
func (p *Parser) looksLikeIdentList() bool {
	if p.at(p.pos+1).Kind == token.RBracket {
		return true // "[]" — no attrs to apply, harmless either reading
	}
	return p.at(p.pos+1).Kind == token.Ident && p.at(p.pos+2).Kind != token.Equal
}

func (p *Parser) parseIdentListValue() AttrValue {
	start := p.cur().Span
	p.advance() // '['
	var idents []Ident
	for p.cur().Kind == token.Ident {
		id, _ := p.expectIdent()
		idents = append(idents, id)
		if p.cur().Kind == token.Comma {
			p.advance()
			continue
		}
		break
	}
	end, _ := p.expect(token.RBracket)
	return AttrValue{Kind: AttrIdentList, Idents: idents, Span: start.Union(end.Span)}
}

// parseStatement parses one element-producing statement. Most
// statements produce exactly one Element; block-form "activate" and
// the sugar-block forms (which desugar to Activate+body+Deactivate, or
// to a single Fragment) may produce more than one.
func (p *Parser) parseStatement() ([]Element, bool) {
	switch p.cur().Kind {
	case token.Ident:
		return p.parseComponentOrRelation()
	case token.KwActivate:
		return p.parseActivate()
	case token.KwDeactivate:
		e := p.parseDeactivate()
		return []Element{e}, true
	case token.KwFragment:
		e, ok := p.parseFragment()
		return []Element{e}, ok
	case token.KwNote:
		e, ok := p.parseNote()
		return []Element{e}, ok
	case token.KwAlt, token.KwOpt, token.KwLoop, token.KwPar, token.KwBreak, token.KwCritical:
		e, ok := p.parseSugarBlock()
		return []Element{e}, ok
	default:
		got := p.cur()
		p.errs.Error(diag.ECodeInvalidElement, got.Span,
			fmt.Sprintf("unexpected %s, expected a component, relation, activate, deactivate, fragment, or note", got.Kind))
		return nil, false
	}
}

func (p *Parser) parsePath() Path {
	start := p.cur().Span
	var segs []Ident
	id, _ := p.expectIdent()
	segs = append(segs, id)
	for p.cur().Kind == token.DoubleColon {
		p.advance()
		id, _ := p.expectIdent()
		segs = append(segs, id)
	}
	end := start
	if len(segs) > 0 {
		end = segs[len(segs)-1].Span
	}
	return Path{Segments: segs, Span: start.Union(end)}
}

func isArrowToken(k token.Kind) bool {
	switch k {
	case token.ArrowRight, token.ArrowLeft, token.ArrowBi, token.Dash:
		return true
	default:
		return false
	}
}

func arrowKindOf(k token.Kind) ArrowKind {
	switch k {
	case token.ArrowRight:
		return ArrowForward
	case token.ArrowLeft:
		return ArrowBackward
	case token.ArrowBi:
		return ArrowBidirectional
	default:
		return ArrowPlain
	}
}

// parseComponentOrRelation disambiguates "component" from "relation":
// both start with a path, but a component's is always a single bare
// identifier immediately followed by ':' or "as", while a relation's
// path (of any length) is followed by an arrow token.
func (p *Parser) parseComponentOrRelation() ([]Element, bool) {
	start := p.cur().Span
	path := p.parsePath()

	switch {
	case len(path.Segments) == 1 && (p.cur().Kind == token.KwAs || p.cur().Kind == token.Colon):
		return p.parseComponentTail(path.Segments[0], start)
	case isArrowToken(p.cur().Kind):
		return p.parseRelationTail(path, start)
	case p.cur().Kind == token.KwAs || p.cur().Kind == token.Colon:
		got := p.cur()
		p.errs.Error(diag.ECodeInvalidElement, path.Span, "a component name must be a single identifier, not a dotted path").
			WithLabel(got.Span, "unexpected here")
		return nil, false
	default:
		got := p.cur()
		p.errs.Error(diag.ECodeInvalidElement, got.Span,
			fmt.Sprintf("expected ':' (component) or an arrow (relation), found %s", got.Kind))
		return nil, false
	}
}

func (p *Parser) parseComponentTail(name Ident, start diag.Span) ([]Element, bool) {
	c := &ComponentDecl{Name: name}
	if p.cur().Kind == token.KwAs {
		p.advance()
		t, ok := p.expect(token.String)
		if ok {
			s := t.Literal
			c.DisplayName = &s
		}
	}
	p.expect(token.Colon)
	c.TypeSpec = *p.parseTypeSpec()
	if p.cur().Kind == token.LBrace {
		c.HasBlock = true
		p.advance()
		c.Body = p.parseElements()
		p.expect(token.RBrace)
	}
	end, ok := p.expect(token.Semicolon)
	c.Span = start.Union(end.Span)
	return []Element{c}, ok
}

func (p *Parser) parseRelationTail(source Path, start diag.Span) ([]Element, bool) {
	r := &Relation{Source: source}
	arrowTok := p.advance()
	r.Arrow = arrowKindOf(arrowTok.Kind)

	var atName *Ident
	if p.cur().Kind == token.At {
		p.advance()
		id, ok := p.expectIdent()
		if ok {
			atName = &id
		}
	}
	// Only a bracketed attribute list may follow the arrow here: a bare
	// identifier is the target path, and a named style comes via "@".
	var inline *TypeSpec
	if p.cur().Kind == token.LBracket {
		inline = p.parseTypeSpec()
	}
	r.Style = mergeArrowStyle(atName, inline)

	// The label may come before the target path or after it.
	if p.cur().Kind == token.Colon {
		p.advance()
		t, ok := p.expect(token.String)
		if ok {
			s := t.Literal
			r.Label = &s
		}
	}
	r.Target = p.parsePath()
	if r.Label == nil && p.cur().Kind == token.Colon {
		p.advance()
		t, ok := p.expect(token.String)
		if ok {
			s := t.Literal
			r.Label = &s
		}
	}
	end, ok := p.expect(token.Semicolon)
	r.Span = start.Union(end.Span)
	return []Element{r}, ok
}

func mergeArrowStyle(atName *Ident, inline *TypeSpec) *TypeSpec {
	switch {
	case atName == nil:
		return inline
	case inline == nil:
		return &TypeSpec{Name: atName, Span: atName.Span}
	default:
		if inline.Name == nil {
			inline.Name = atName
		}
		return inline
	}
}

// parseElements parses element* up to (but not including) the closing
// '}' the caller will consume, recovering from any internal error by
// syncing to the next statement boundary at this nesting level.
func (p *Parser) parseElements() []Element {
	var out []Element
	for p.cur().Kind != token.RBrace && p.cur().Kind != token.EOF {
		elems, ok := p.parseStatement()
		if !ok {
			p.syncToStatementBoundary()
			continue
		}
		out = append(out, elems...)
	}
	return out
}

func (p *Parser) parseActivate() ([]Element, bool) {
	start := p.cur().Span
	p.expect(token.KwActivate)
	target, ok := p.expectIdent()
	var spec *TypeSpec
	if p.startsTypeSpec() {
		spec = p.parseTypeSpec()
	}

	if p.cur().Kind == token.LBrace {
		p.advance()
		body := p.parseElements()
		end, closeOk := p.expect(token.RBrace)
		semi, _ := p.expect(token.Semicolon)
		full := start.Union(semi.Span)
		act := &Activate{Target: target, TypeSpec: spec, Span: start.Union(end.Span)}
		deact := &Deactivate{Target: target, Span: full}
		out := make([]Element, 0, len(body)+2)
		out = append(out, act)
		out = append(out, body...)
		out = append(out, deact)
		return out, ok && closeOk
	}

	end, semiOk := p.expect(token.Semicolon)
	act := &Activate{Target: target, TypeSpec: spec, Span: start.Union(end.Span)}
	return []Element{act}, ok && semiOk
}

func (p *Parser) parseDeactivate() *Deactivate {
	start := p.cur().Span
	p.expect(token.KwDeactivate)
	target, _ := p.expectIdent()
	end, _ := p.expect(token.Semicolon)
	return &Deactivate{Target: target, Span: start.Union(end.Span)}
}

func (p *Parser) parseFragment() (*FragmentDecl, bool) {
	start := p.cur().Span
	p.expect(token.KwFragment)
	op, _ := p.expect(token.String)
	var spec *TypeSpec
	if p.startsTypeSpec() {
		spec = p.parseTypeSpec()
	}
	p.expect(token.LBrace)
	sections := p.parseSections()
	end, ok := p.expect(token.RBrace)
	semi, semiOk := p.expect(token.Semicolon)
	if len(sections) == 0 {
		p.errs.Error(diag.ECodeInvalidElement, start.Union(end.Span), "fragment must have at least one section").
			WithHelp(`add a "section { ... };" block`)
		ok = false
	}
	return &FragmentDecl{Operation: op.Literal, TypeSpec: spec, Sections: sections, Span: start.Union(semi.Span)}, ok && semiOk
}

func (p *Parser) parseSugarBlock() (*FragmentDecl, bool) {
	start := p.cur().Span
	opName := sugarKeywords[p.cur().Kind]
	p.advance()
	var spec *TypeSpec
	if p.startsTypeSpec() {
		spec = p.parseTypeSpec()
	}
	p.expect(token.LBrace)
	sections := p.parseSections()
	end, ok := p.expect(token.RBrace)
	semi, semiOk := p.expect(token.Semicolon)
	if len(sections) == 0 {
		p.errs.Error(diag.ECodeInvalidElement, start.Union(end.Span),
			fmt.Sprintf("%q block must have at least one section", opName)).
			WithHelp(`add a "section { ... };" block`)
		ok = false
	}
	return &FragmentDecl{Operation: opName, TypeSpec: spec, Sections: sections, Span: start.Union(semi.Span)}, ok && semiOk
}

func (p *Parser) parseSections() []Section {
	var out []Section
	for p.cur().Kind == token.KwSection {
		out = append(out, p.parseSection())
	}
	return out
}

func (p *Parser) parseSection() Section {
	start := p.cur().Span
	p.expect(token.KwSection)
	var title *string
	if p.cur().Kind == token.String {
		t := p.advance()
		s := t.Literal
		title = &s
	}
	p.expect(token.LBrace)
	body := p.parseElements()
	p.expect(token.RBrace)
	semi, _ := p.expect(token.Semicolon)
	return Section{Title: title, Body: body, Span: start.Union(semi.Span)}
}

func (p *Parser) parseNote() (*NoteDecl, bool) {
	start := p.cur().Span
	p.expect(token.KwNote)
	var spec *TypeSpec
	if p.startsTypeSpec() {
		spec = p.parseTypeSpec()
	}
	p.expect(token.Colon)
	content, ok := p.expect(token.String)
	end, semiOk := p.expect(token.Semicolon)
	return &NoteDecl{TypeSpec: spec, Content: content.Literal, Span: start.Union(end.Span)}, ok && semiOk
}

// parseFloatLiteral converts a scanned float token's literal text into
// a float64. The lexer emits "inf"/"infinity" as bare Float tokens with
// no sign; strconv.ParseFloat already understands both spellings.
func parseFloatLiteral(lit string) float64 {
	v, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return 0
	}
	return v
}
