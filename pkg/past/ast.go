package past

import "github.com/dshills/diagc/pkg/diag"

// DiagramKind distinguishes the two diagram families the grammar's
// leading "component"/"sequence" keyword selects.
type DiagramKind int

const (
	Component DiagramKind = iota
	Sequence
)

func (k DiagramKind) String() string {
	if k == Sequence {
		return "sequence"
	}
	return "component"
}

// Ident is a bare identifier occurrence with its source span.
type Ident struct {
	Name string
	Span diag.Span
}

// Path is a (possibly dotted) chain of identifiers, e.g. "a::b::c".
type Path struct {
	Segments []Ident
	Span     diag.Span
}

// String renders the path using the source "::" separator.
func (p Path) String() string {
	out := ""
	for i, seg := range p.Segments {
		if i > 0 {
			out += "::"
		}
		out += seg.Name
	}
	return out
}

// AttrValueKind discriminates the union of value shapes an attr-value
// grammar production can take.
type AttrValueKind int

const (
	AttrString AttrValueKind = iota
	AttrFloat
	AttrTypeSpec
	AttrIdentList
)

// AttrValue is the tagged union for attr-value ::= string | float |
// type-spec | "[" Ident ("," Ident)* "]".
type AttrValue struct {
	Kind     AttrValueKind
	Str      string
	Float    float64
	TypeSpec *TypeSpec // set when Kind == AttrTypeSpec
	Idents   []Ident   // set when Kind == AttrIdentList
	Span     diag.Span
}

// Attr is one "name=value" entry inside a type-spec's bracket list.
type Attr struct {
	Name  Ident
	Value AttrValue
	Span  diag.Span
}

// TypeSpec is type-spec ::= Ident? ("[" attr ("," attr)* "]")?. Name is
// nil for a purely anonymous spec (bracket list with no base type).
type TypeSpec struct {
	Name  *Ident
	Attrs []Attr
	Span  diag.Span
}

// ArrowKind is the direction parsed from a relation's arrow token.
type ArrowKind int

const (
	ArrowForward ArrowKind = iota
	ArrowBackward
	ArrowBidirectional
	ArrowPlain
)

// Element is any statement that can appear inside a scope: a
// component, relation, activate/deactivate, fragment, or note. Sugar
// blocks (alt/opt/loop/par/break/critical) and block-form activate are
// desugared away during parsing and never appear as Elements.
type Element interface {
	elementNode()
	ElementSpan() diag.Span
}

// ComponentDecl is "Ident (\"as\" string)? \":\" type-spec (\"{\" element* \"}\")? \";\"".
type ComponentDecl struct {
	Name        Ident
	DisplayName *string
	TypeSpec    TypeSpec
	HasBlock    bool
	Body        []Element
	Span        diag.Span
}

func (*ComponentDecl) elementNode()               {}
func (c *ComponentDecl) ElementSpan() diag.Span { return c.Span }

// Relation is "path arrow (\"@\" Ident)? type-spec? (\":\" string)? path \";\"",
// where the type-spec after the arrow is a bracketed attribute list only
// and the label may instead follow the target path
// ("path arrow ... path \":\" string \";\"").
type Relation struct {
	Source Path
	Arrow  ArrowKind
	Style  *TypeSpec // from an optional "@Ident" name and/or "[...]" attrs
	Label  *string
	Target Path
	Span   diag.Span
}

func (*Relation) elementNode()               {}
func (r *Relation) ElementSpan() diag.Span { return r.Span }

// Activate is "activate" Ident type-spec? ";" (after block-form
// desugaring, every Activate in the tree has exactly this shape).
type Activate struct {
	Target   Ident
	TypeSpec *TypeSpec
	Span     diag.Span
}

func (*Activate) elementNode()               {}
func (a *Activate) ElementSpan() diag.Span { return a.Span }

// Deactivate is "deactivate" Ident ";".
type Deactivate struct {
	Target Ident
	Span   diag.Span
}

func (*Deactivate) elementNode()               {}
func (d *Deactivate) ElementSpan() diag.Span { return d.Span }

// Section is "section" string? "{" element* "}" ";".
type Section struct {
	Title *string
	Body  []Element
	Span  diag.Span
}

// FragmentDecl is "fragment" string type-spec? "{" section+ "}" ";",
// or the desugared form of an alt/opt/loop/par/break/critical sugar
// block (Operation set to the keyword, string operand absent).
type FragmentDecl struct {
	Operation string
	TypeSpec  *TypeSpec
	Sections  []Section
	Span      diag.Span
}

func (*FragmentDecl) elementNode()               {}
func (f *FragmentDecl) ElementSpan() diag.Span { return f.Span }

// NoteDecl is "note" type-spec? ":" string ";". The "on"/"align"
// attributes, if present, live in TypeSpec.Attrs like any other
// attribute; the elaborator is responsible for pulling them out.
type NoteDecl struct {
	TypeSpec *TypeSpec
	Content  string
	Span     diag.Span
}

func (*NoteDecl) elementNode()               {}
func (n *NoteDecl) ElementSpan() diag.Span { return n.Span }

// TypeDef is "type" Ident "=" type-spec ";".
type TypeDef struct {
	Name Ident
	Spec TypeSpec
	Span diag.Span
}

// Diagram is the parse tree's root: "diagram" ("component"|"sequence")
// type-spec? ";" (type-def | element)*.
type Diagram struct {
	Kind     DiagramKind
	TypeSpec *TypeSpec
	TypeDefs []TypeDef
	Elements []Element
	Span     diag.Span
}

func (*Diagram) elementNode()               {}
func (d *Diagram) ElementSpan() diag.Span { return d.Span }
