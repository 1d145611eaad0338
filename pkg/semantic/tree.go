package semantic

import (
	"github.com/dshills/diagc/pkg/diag"
	"github.com/dshills/diagc/pkg/ident"
	"github.com/dshills/diagc/pkg/style"
)

// DiagramKind mirrors past.DiagramKind but belongs to the semantic
// layer: once elaborated, a diagram's kind is a property of the typed
// tree, not of the parser's token stream.
type DiagramKind int

const (
	ComponentDiagram DiagramKind = iota
	SequenceDiagram
)

func (k DiagramKind) String() string {
	if k == SequenceDiagram {
		return "sequence"
	}
	return "component"
}

// LayoutEngine selects the component layout algorithm (§4.7).
type LayoutEngine int

const (
	LayoutBasic LayoutEngine = iota
	LayoutSugiyama
)

// Direction is a relation/message's arrow direction.
type Direction int

const (
	DirForward Direction = iota
	DirBackward
	DirBidirectional
	DirPlain
)

// Alignment is a note's placement tag (§4.4, §4.8). Over places the
// note across the referenced participants/components; the margin
// variants pin it to a diagram edge when the note has no "on" targets.
type Alignment int

const (
	AlignOver Alignment = iota
	AlignTop
	AlignBottom
	AlignLeft
	AlignRight
)

// Ref is a resolved (but not yet looked-up) reference to a component,
// possibly via a dotted path into a nested scope (§3.6: "relation
// endpoints may use dotted-path notation to refer into a nested
// scope"). Resolution against the actual scope tree happens in
// pkg/component/pkg/sequence, which have the full picture of nested
// containment that the elaborator builds one scope at a time.
type Ref struct {
	Segments []ident.Id
	Span     diag.Span
}

func (r Ref) String() string {
	out := ""
	for i, seg := range r.Segments {
		if i > 0 {
			out += "::"
		}
		out += seg.String()
	}
	return out
}

// BlockKind discriminates Block's tagged union (§3.6).
type BlockKind int

const (
	BlockNone BlockKind = iota
	BlockScope
	BlockDiagram
)

// Block is a node's nested content: either absent (a leaf), a scope of
// sibling elements (a component's "{ ... }" body), or an embedded
// sub-diagram. The grammar in §4.2 never produces a nested Diagram
// element directly; BlockDiagram exists for the compile driver to
// attach a pre-elaborated child diagram when wiring embedded diagrams
// together (§4.7's "map child_node_id -> Layout supplied by the
// driver"), and is left BlockNone/BlockScope by the elaborator itself.
type Block struct {
	Kind    BlockKind
	Scope   *Scope
	Diagram *Diagram
}

// Scope is an ordered sequence of Elements, preserving source order.
type Scope struct {
	Elements []Element
}

// Element is any semantic tree node that can live in a Scope.
type Element interface {
	elementNode()
	Span() diag.Span
}

// Node is a component/participant declaration.
type Node struct {
	Id          ident.Id
	Name        string
	DisplayName *string
	Block       Block
	ShapeProto  *style.ShapeDef
	NodeSpan    diag.Span
}

func (*Node) elementNode()      {}
func (n *Node) Span() diag.Span { return n.NodeSpan }

// Relation is a directed edge between two components (component
// diagrams) or a message between two participants (sequence
// diagrams) — the same grammar production serves both diagram kinds.
type Relation struct {
	Source       Ref
	Target       Ref
	Direction    Direction
	Label        *string
	ArrowProto   *style.ArrowDef
	RelationSpan diag.Span
}

func (*Relation) elementNode()  {}
func (r *Relation) Span() diag.Span { return r.RelationSpan }

// Activate marks the start of a component's activation box (sequence
// diagrams only).
type Activate struct {
	Component        ident.Id
	ActivationProto  *style.ActivationBoxDef
	ActivateSpan     diag.Span
}

func (*Activate) elementNode()  {}
func (a *Activate) Span() diag.Span { return a.ActivateSpan }

// Deactivate closes the innermost open activation on Component
// (sequence diagrams only).
type Deactivate struct {
	Component      ident.Id
	DeactivateSpan diag.Span
}

func (*Deactivate) elementNode()  {}
func (d *Deactivate) Span() diag.Span { return d.DeactivateSpan }

// FragmentSection is one labeled compartment of a Fragment (e.g. an
// "alt"'s "else" branch).
type FragmentSection struct {
	Title    *string
	Elements []Element
}

// Fragment is a bracketed region spanning one or more sections
// (sequence diagrams only); alt/opt/loop/par/break/critical sugar
// blocks desugar into this during parsing.
type Fragment struct {
	Operation     string
	Sections      []FragmentSection
	FragmentProto *style.FragmentDef
	FragmentSpan  diag.Span
}

func (*Fragment) elementNode()  {}
func (f *Fragment) Span() diag.Span { return f.FragmentSpan }

// Note is a free-text annotation, optionally attached to one or more
// components/participants via On.
type Note struct {
	On        []Ref
	Alignment Alignment
	Content   string
	NoteProto *style.NoteDef
	NoteSpanV diag.Span
}

func (*Note) elementNode()  {}
func (n *Note) Span() diag.Span { return n.NoteSpanV }

// Diagram is the root of the semantic tree (§3.6).
type Diagram struct {
	Kind            DiagramKind
	Scope           *Scope
	LayoutEngine    LayoutEngine
	BackgroundColor *string
	LifelineProto   *style.LifelineDef // only meaningful when Kind == SequenceDiagram
	DiagramSpan     diag.Span
}
