package sequence

import (
	"github.com/dshills/diagc/pkg/diag"
	"github.com/dshills/diagc/pkg/ident"
	"github.com/dshills/diagc/pkg/semantic"
	"github.com/dshills/diagc/pkg/style"
)

// Event is one entry in the flat, time-ordered stream §4.6 describes.
// Every concrete type below implements it.
type Event interface {
	eventNode()
	Span() diag.Span
}

// ParticipantDecl introduces a lifeline. Order among ParticipantDecls
// is the row order the layout engine places them in.
type ParticipantDecl struct {
	Id          ident.Id
	Name        string
	DisplayName *string
	ShapeProto  *style.ShapeDef
	DeclSpan    diag.Span
}

// Activate opens a new activation box on Participant's lifeline.
type Activate struct {
	Participant     ident.Id
	ActivationProto *style.ActivationBoxDef
	ActivateSpan    diag.Span
}

// Deactivate closes the innermost open activation box on Participant's
// lifeline.
type Deactivate struct {
	Participant    ident.Id
	DeactivateSpan diag.Span
}

// Message is a directed arrow from Source to Target.
type Message struct {
	Source      ident.Id
	Target      ident.Id
	ArrowProto  *style.ArrowDef
	Direction   semantic.Direction
	Label       *string
	MessageSpan diag.Span
}

// FragmentEnter opens a combined fragment (alt/opt/loop/par/…).
type FragmentEnter struct {
	Operation    string
	FragmentProto *style.FragmentDef
	EnterSpan    diag.Span
}

// SectionEnter opens one section of the innermost open fragment.
type SectionEnter struct {
	Title     *string
	EnterSpan diag.Span
}

// SectionExit closes the currently open fragment section.
type SectionExit struct {
	ExitSpan diag.Span
}

// FragmentExit closes the innermost open fragment.
type FragmentExit struct {
	ExitSpan diag.Span
}

// Note places a note, anchored to zero or more participants.
type Note struct {
	On        []ident.Id
	Alignment semantic.Alignment
	Content   string
	NoteProto *style.NoteDef
	NoteSpanV diag.Span
}

func (e *ParticipantDecl) eventNode() {}
func (e *Activate) eventNode()        {}
func (e *Deactivate) eventNode()      {}
func (e *Message) eventNode()         {}
func (e *FragmentEnter) eventNode()   {}
func (e *SectionEnter) eventNode()    {}
func (e *SectionExit) eventNode()     {}
func (e *FragmentExit) eventNode()    {}
func (e *Note) eventNode()            {}

func (e *ParticipantDecl) Span() diag.Span { return e.DeclSpan }
func (e *Activate) Span() diag.Span        { return e.ActivateSpan }
func (e *Deactivate) Span() diag.Span      { return e.DeactivateSpan }
func (e *Message) Span() diag.Span         { return e.MessageSpan }
func (e *FragmentEnter) Span() diag.Span   { return e.EnterSpan }
func (e *SectionEnter) Span() diag.Span    { return e.EnterSpan }
func (e *SectionExit) Span() diag.Span     { return e.ExitSpan }
func (e *FragmentExit) Span() diag.Span    { return e.ExitSpan }
func (e *Note) Span() diag.Span            { return e.NoteSpanV }
