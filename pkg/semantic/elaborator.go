package semantic

import (
	"fmt"
	"strings"

	"github.com/dshills/diagc/pkg/config"
	"github.com/dshills/diagc/pkg/diag"
	"github.com/dshills/diagc/pkg/ident"
	"github.com/dshills/diagc/pkg/past"
	"github.com/dshills/diagc/pkg/style"
)

// Default base prototypes per element kind, used when a type-spec
// carries attributes but no name (§4.3's "defaultName" parameter —
// see DESIGN.md's Open Question resolution for pkg/style).
const (
	defaultShapeName         = ident.Id("Rectangle")
	defaultArrowName         = ident.Id("Arrow")
	defaultActivationBoxName = ident.Id("Activate")
	defaultFragmentName      = ident.Id("Fragment")
	defaultNoteName          = ident.Id("Note")
	defaultLifelineName      = ident.Id("Lifeline")
)

// Elaborator walks a parse tree and produces a semantic Diagram,
// resolving every type-spec against a shared style.Resolver along the
// way. It is fail-fast (§4.4, §7): the first error aborts the pass.
type Elaborator struct {
	resolver *style.Resolver
	errs     *diag.Collector
	kind     DiagramKind
}

// Elaborate runs the elaborator over tree with no named palettes.
// Following the lexer/parser convention, errors are reported through a
// Collector's Finish() contract even though fail-fast elaboration only
// ever accumulates at most one diagnostic.
func Elaborate(tree *past.Diagram) (*Diagram, []*diag.Diagnostic, bool) {
	return ElaborateWithConfig(tree, nil)
}

// ElaborateWithConfig is Elaborate plus an optional loaded config
// whose Palettes table the resolver consults for `palette="..."`
// attributes (§4.3.1's supplemented feature). A nil cfg behaves like
// Elaborate.
func ElaborateWithConfig(tree *past.Diagram, cfg *config.Config) (*Diagram, []*diag.Diagnostic, bool) {
	errs := diag.NewCollector()
	var palettes map[string]config.Palette
	if cfg != nil {
		palettes = cfg.Palettes
	}
	e := &Elaborator{resolver: style.NewResolverWithPalettes(errs, palettes), errs: errs}
	d, ok := e.elaborateDiagram(tree)
	diags, finishOk := errs.Finish()
	if !ok || !finishOk {
		return nil, diags, false
	}
	return d, diags, true
}

func (e *Elaborator) elaborateDiagram(tree *past.Diagram) (*Diagram, bool) {
	if tree.Kind == past.Sequence {
		e.kind = SequenceDiagram
	} else {
		e.kind = ComponentDiagram
	}

	for _, td := range tree.TypeDefs {
		if td.Spec.Name == nil {
			e.errs.Error(diag.ECodeUndefinedType, td.Spec.Span, "a type declaration's base type-spec must name a type")
			return nil, false
		}
		if !e.resolver.DeclareType(td.Name, &td.Spec, "") {
			return nil, false
		}
	}

	scope, ok := e.elaborateScope(tree.Elements)
	if !ok {
		return nil, false
	}

	layoutEngine, bg, lifeline, ok := e.elaborateDiagramAttrs(tree.TypeSpec)
	if !ok {
		return nil, false
	}

	return &Diagram{
		Kind:            e.kind,
		Scope:           scope,
		LayoutEngine:    layoutEngine,
		BackgroundColor: bg,
		LifelineProto:   lifeline,
		DiagramSpan:     tree.Span,
	}, true
}

// elaborateDiagramAttrs extracts the diagram-level "layout_engine",
// "background_color", and "lifeline" attributes (§4.4 step 4). These
// are plain diagram settings, not a prototype family of their own, so
// they are read directly rather than through the resolver's
// per-family attribute tables.
func (e *Elaborator) elaborateDiagramAttrs(spec *past.TypeSpec) (LayoutEngine, *string, *style.LifelineDef, bool) {
	engine := LayoutBasic
	var bg *string
	var lifeline *style.LifelineDef
	if spec == nil {
		return engine, bg, lifeline, true
	}
	for _, attr := range spec.Attrs {
		switch attr.Name.Name {
		case "layout_engine":
			tag, ok := attrTag(attr.Value)
			if !ok {
				e.errs.Error(diag.ECodeInvalidAttributeValue, attr.Value.Span, `invalid value for "layout_engine": expected "basic" or "sugiyama"`)
				return engine, bg, lifeline, false
			}
			switch strings.ToLower(tag) {
			case "basic":
				engine = LayoutBasic
			case "sugiyama":
				engine = LayoutSugiyama
			default:
				e.errs.Error(diag.ECodeInvalidAttributeValue, attr.Value.Span, `invalid value for "layout_engine": expected "basic" or "sugiyama"`)
				return engine, bg, lifeline, false
			}
		case "background_color":
			if attr.Value.Kind != past.AttrString {
				e.errs.Error(diag.ECodeInvalidAttributeValue, attr.Value.Span, `invalid value for "background_color": expected a string`)
				return engine, bg, lifeline, false
			}
			s := attr.Value.Str
			bg = &s
		case "lifeline":
			if e.kind != SequenceDiagram {
				e.errs.Error(diag.ECodeUnsupportedInContext, attr.Span, `"lifeline" is only valid on a sequence diagram`)
				return engine, bg, lifeline, false
			}
			if attr.Value.Kind != past.AttrTypeSpec {
				e.errs.Error(diag.ECodeInvalidAttributeValue, attr.Value.Span, `invalid value for "lifeline": expected a type spec`)
				return engine, bg, lifeline, false
			}
			def, ok := e.resolver.Resolve(attr.Value.TypeSpec, defaultLifelineName)
			if !ok {
				return engine, bg, lifeline, false
			}
			lifeline = def.(*style.LifelineDef)
		default:
			e.errs.Error(diag.ECodeUnknownAttribute, attr.Name.Span, fmt.Sprintf("%q is not a valid diagram attribute", attr.Name.Name))
			return engine, bg, lifeline, false
		}
	}
	return engine, bg, lifeline, true
}

// attrTag extracts an enum tag written as either a string literal or a
// bare, attribute-less identifier — the same ambiguity style.tagText
// resolves for prototype attributes (§4.3's attr-value grammar allows
// both shapes).
func attrTag(v past.AttrValue) (string, bool) {
	switch v.Kind {
	case past.AttrString:
		return v.Str, true
	case past.AttrTypeSpec:
		if v.TypeSpec.Name != nil && len(v.TypeSpec.Attrs) == 0 {
			return v.TypeSpec.Name.Name, true
		}
	}
	return "", false
}

func (e *Elaborator) elaborateScope(elements []past.Element) (*Scope, bool) {
	if len(elements) > 1 {
		for _, el := range elements {
			if _, isDiagram := el.(*past.Diagram); isDiagram {
				e.errs.Error(diag.ECodeDiagramCannotShareScope, el.ElementSpan(), "a nested diagram must be the only element in its scope")
				return nil, false
			}
		}
	}

	out := make([]Element, 0, len(elements))
	for _, el := range elements {
		se, ok := e.elaborateElement(el)
		if !ok {
			return nil, false
		}
		out = append(out, se)
	}
	return &Scope{Elements: out}, true
}

func (e *Elaborator) elaborateElement(el past.Element) (Element, bool) {
	switch v := el.(type) {
	case *past.ComponentDecl:
		return e.elaborateNode(v)
	case *past.Relation:
		return e.elaborateRelation(v)
	case *past.Activate:
		return e.elaborateActivate(v)
	case *past.Deactivate:
		return e.elaborateDeactivate(v)
	case *past.FragmentDecl:
		return e.elaborateFragment(v)
	case *past.NoteDecl:
		return e.elaborateNote(v)
	default:
		// A bare nested Diagram can never reach here: elaborateScope
		// rejects it above when it shares a scope with siblings, and
		// when it is the sole element there is currently no grammar
		// production that produces one (§4.2 has no nested "diagram").
		panic(fmt.Sprintf("semantic: un-desugared or unreachable element kind %T", el))
	}
}

func (e *Elaborator) elaborateNode(c *past.ComponentDecl) (Element, bool) {
	spec := c.TypeSpec
	def, ok := e.resolver.Resolve(&spec, defaultShapeName)
	if !ok {
		return nil, false
	}
	shape, ok := def.(*style.ShapeDef)
	if !ok {
		e.errs.Error(diag.ECodeWrongFamily, spec.Span, "a component's type must resolve to a Shape prototype")
		return nil, false
	}

	var block Block
	if c.HasBlock {
		if !shape.SupportsContent && len(c.Body) > 0 {
			e.errs.Error(diag.ECodeContentNotSupported, c.Span, fmt.Sprintf("%v does not support nested content", shape.Kind))
			return nil, false
		}
		inner, ok := e.elaborateScope(c.Body)
		if !ok {
			return nil, false
		}
		block = Block{Kind: BlockScope, Scope: inner}
	}

	return &Node{
		Id:          ident.Id(c.Name.Name),
		Name:        c.Name.Name,
		DisplayName: c.DisplayName,
		Block:       block,
		ShapeProto:  shape,
		NodeSpan:    c.Span,
	}, true
}

func pathToRef(p past.Path) Ref {
	segs := make([]ident.Id, len(p.Segments))
	for i, s := range p.Segments {
		segs[i] = ident.Id(s.Name)
	}
	return Ref{Segments: segs, Span: p.Span}
}

func (e *Elaborator) elaborateRelation(r *past.Relation) (Element, bool) {
	var dir Direction
	switch r.Arrow {
	case past.ArrowForward:
		dir = DirForward
	case past.ArrowBackward:
		dir = DirBackward
	case past.ArrowBidirectional:
		dir = DirBidirectional
	default:
		dir = DirPlain
	}

	spec := past.TypeSpec{}
	if r.Style != nil {
		spec = *r.Style
	}
	def, ok := e.resolver.Resolve(&spec, defaultArrowName)
	if !ok {
		return nil, false
	}
	arrow, ok := def.(*style.ArrowDef)
	if !ok {
		e.errs.Error(diag.ECodeWrongFamily, spec.Span, "a relation's style must resolve to an Arrow prototype")
		return nil, false
	}

	return &Relation{
		Source:       pathToRef(r.Source),
		Target:       pathToRef(r.Target),
		Direction:    dir,
		Label:        r.Label,
		ArrowProto:   arrow,
		RelationSpan: r.Span,
	}, true
}

func (e *Elaborator) elaborateActivate(a *past.Activate) (Element, bool) {
	if e.kind != SequenceDiagram {
		e.errs.Error(diag.ECodeUnsupportedInContext, a.Span, "activate is only valid in a sequence diagram")
		return nil, false
	}
	spec := past.TypeSpec{}
	if a.TypeSpec != nil {
		spec = *a.TypeSpec
	}
	def, ok := e.resolver.Resolve(&spec, defaultActivationBoxName)
	if !ok {
		return nil, false
	}
	box, ok := def.(*style.ActivationBoxDef)
	if !ok {
		e.errs.Error(diag.ECodeWrongFamily, spec.Span, "activate's type must resolve to an ActivationBox prototype")
		return nil, false
	}
	return &Activate{
		Component:       ident.Id(a.Target.Name),
		ActivationProto: box,
		ActivateSpan:    a.Span,
	}, true
}

func (e *Elaborator) elaborateDeactivate(d *past.Deactivate) (Element, bool) {
	if e.kind != SequenceDiagram {
		e.errs.Error(diag.ECodeUnsupportedInContext, d.Span, "deactivate is only valid in a sequence diagram")
		return nil, false
	}
	return &Deactivate{
		Component:      ident.Id(d.Target.Name),
		DeactivateSpan: d.Span,
	}, true
}

func (e *Elaborator) elaborateFragment(f *past.FragmentDecl) (Element, bool) {
	if e.kind != SequenceDiagram {
		e.errs.Error(diag.ECodeUnsupportedInContext, f.Span, "fragments are only valid in a sequence diagram")
		return nil, false
	}
	if len(f.Sections) == 0 {
		panic("semantic: un-desugared fragment with zero sections reached the elaborator")
	}

	spec := past.TypeSpec{}
	if f.TypeSpec != nil {
		spec = *f.TypeSpec
	}
	def, ok := e.resolver.Resolve(&spec, defaultFragmentName)
	if !ok {
		return nil, false
	}
	proto, ok := def.(*style.FragmentDef)
	if !ok {
		e.errs.Error(diag.ECodeWrongFamily, spec.Span, "a fragment's type must resolve to a Fragment prototype")
		return nil, false
	}

	sections := make([]FragmentSection, 0, len(f.Sections))
	for _, s := range f.Sections {
		inner, ok := e.elaborateScope(s.Body)
		if !ok {
			return nil, false
		}
		sections = append(sections, FragmentSection{Title: s.Title, Elements: inner.Elements})
	}

	return &Fragment{
		Operation:     f.Operation,
		Sections:      sections,
		FragmentProto: proto,
		FragmentSpan:  f.Span,
	}, true
}

func (e *Elaborator) elaborateNote(n *past.NoteDecl) (Element, bool) {
	var on []Ref
	align := defaultAlignment(e.kind)
	haveOn := false

	remaining := past.TypeSpec{}
	if n.TypeSpec != nil {
		remaining = *n.TypeSpec
		filtered := remaining.Attrs[:0:0]
		for _, attr := range remaining.Attrs {
			switch attr.Name.Name {
			case "on":
				if attr.Value.Kind != past.AttrIdentList {
					e.errs.Error(diag.ECodeInvalidAttributeValue, attr.Value.Span, `invalid value for "on": expected an identifier list`)
					return nil, false
				}
				haveOn = true
				on = make([]Ref, len(attr.Value.Idents))
				for i, id := range attr.Value.Idents {
					on[i] = Ref{Segments: []ident.Id{ident.Id(id.Name)}, Span: id.Span}
				}
			case "align":
				tag, ok := attrTag(attr.Value)
				if !ok {
					e.errs.Error(diag.ECodeInvalidAttributeValue, attr.Value.Span, `invalid value for "align": expected an alignment tag`)
					return nil, false
				}
				a, ok := parseAlignment(tag)
				if !ok {
					e.errs.Error(diag.ECodeInvalidAttributeValue, attr.Value.Span, `invalid value for "align": expected "over", "top", "bottom", "left", or "right"`)
					return nil, false
				}
				align = a
			default:
				filtered = append(filtered, attr)
			}
		}
		remaining.Attrs = filtered
	}
	if !haveOn {
		on = nil // no "on" attribute at all still means a margin note
	}

	def, ok := e.resolver.Resolve(&remaining, defaultNoteName)
	if !ok {
		return nil, false
	}
	proto, ok := def.(*style.NoteDef)
	if !ok {
		e.errs.Error(diag.ECodeWrongFamily, remaining.Span, "a note's type must resolve to a Note prototype")
		return nil, false
	}

	return &Note{
		On:        on,
		Alignment: align,
		Content:   n.Content,
		NoteProto: proto,
		NoteSpanV: n.Span,
	}, true
}

func defaultAlignment(kind DiagramKind) Alignment {
	if kind == SequenceDiagram {
		return AlignOver
	}
	return AlignBottom
}

func parseAlignment(tag string) (Alignment, bool) {
	switch strings.ToLower(tag) {
	case "over":
		return AlignOver, true
	case "top":
		return AlignTop, true
	case "bottom":
		return AlignBottom, true
	case "left":
		return AlignLeft, true
	case "right":
		return AlignRight, true
	default:
		return 0, false
	}
}
