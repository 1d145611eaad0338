package style

import "github.com/dshills/diagc/pkg/geom"

// Family identifies which of the eight prototype families a Definition
// belongs to.
type Family int

const (
	FamilyShape Family = iota
	FamilyArrow
	FamilyStroke
	FamilyText
	FamilyLifeline
	FamilyActivationBox
	FamilyFragment
	FamilyNote
)

func (f Family) String() string {
	switch f {
	case FamilyShape:
		return "Shape"
	case FamilyArrow:
		return "Arrow"
	case FamilyStroke:
		return "Stroke"
	case FamilyText:
		return "Text"
	case FamilyLifeline:
		return "Lifeline"
	case FamilyActivationBox:
		return "ActivationBox"
	case FamilyFragment:
		return "Fragment"
	case FamilyNote:
		return "Note"
	default:
		return "unknown"
	}
}

// ShapeKind tags which outline a Shape prototype draws.
type ShapeKind int

const (
	ShapeRectangle ShapeKind = iota
	ShapeOval
	ShapeComponent
	ShapeBoundary
	ShapeActor
	ShapeEntity
	ShapeControl
	ShapeInterface
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeRectangle:
		return "Rectangle"
	case ShapeOval:
		return "Oval"
	case ShapeComponent:
		return "Component"
	case ShapeBoundary:
		return "Boundary"
	case ShapeActor:
		return "Actor"
	case ShapeEntity:
		return "Entity"
	case ShapeControl:
		return "Control"
	case ShapeInterface:
		return "Interface"
	default:
		return "unknown"
	}
}

// supportsContentByKind mirrors §4.9: Rectangle/Oval/Component/Boundary/
// Entity can host nested content; Actor/Control/Interface cannot.
func supportsContentByKind(k ShapeKind) bool {
	switch k {
	case ShapeActor, ShapeControl, ShapeInterface:
		return false
	default:
		return true
	}
}

// ArrowStyleTag is an Arrow prototype's routing style.
type ArrowStyleTag int

const (
	ArrowStraight ArrowStyleTag = iota
	ArrowCurved
	ArrowOrthogonal
)

// StrokeStyleTag is a Stroke prototype's dash pattern tag.
type StrokeStyleTag int

const (
	StrokeSolid StrokeStyleTag = iota
	StrokeDashed
	StrokeDotted
	StrokeDashDot
	StrokeDashDotDot
	StrokeCustom // Pattern holds the raw CSV dasharray
)

// Cap is a Stroke prototype's line-cap style.
type Cap int

const (
	CapButt Cap = iota
	CapRound
	CapSquare
)

// Join is a Stroke prototype's line-join style.
type Join int

const (
	JoinMiter Join = iota
	JoinRound
	JoinBevel
)

// Definition is any of the eight prototype family value types. Each is
// held and passed around as a pointer, but prototypes are never mutated
// in place once shared: resolve() always clones before writing to a
// derived definition (copy-on-write, §3.5/§9).
type Definition interface {
	Family() Family
	clone() Definition
}

// ShapeDef is the Shape prototype family (§3.5).
type ShapeDef struct {
	Kind            ShapeKind
	FillColor       *string
	Stroke          *StrokeDef
	Rounded         int
	Text            *TextDef
	SupportsContent bool
}

func (d *ShapeDef) Family() Family { return FamilyShape }
func (d *ShapeDef) clone() Definition {
	c := *d
	return &c
}

// ArrowDef is the Arrow prototype family.
type ArrowDef struct {
	Stroke *StrokeDef
	Style  ArrowStyleTag
	Text   *TextDef
}

func (d *ArrowDef) Family() Family { return FamilyArrow }
func (d *ArrowDef) clone() Definition {
	c := *d
	return &c
}

// StrokeDef is the Stroke prototype family.
type StrokeDef struct {
	Color   string
	Width   float64
	Style   StrokeStyleTag
	Pattern string // raw CSV dasharray, only meaningful when Style == StrokeCustom
	Cap     Cap
	Join    Join
}

func (d *StrokeDef) Family() Family { return FamilyStroke }
func (d *StrokeDef) clone() Definition {
	c := *d
	return &c
}

// TextDef is the Text prototype family.
type TextDef struct {
	FontFamily      string
	FontSize        int
	Color           *string
	BackgroundColor *string
	Padding         geom.Insets
}

func (d *TextDef) Family() Family { return FamilyText }
func (d *TextDef) clone() Definition {
	c := *d
	return &c
}

// LifelineDef is the Lifeline prototype family.
type LifelineDef struct {
	Stroke *StrokeDef
}

func (d *LifelineDef) Family() Family { return FamilyLifeline }
func (d *LifelineDef) clone() Definition {
	c := *d
	return &c
}

// ActivationBoxDef is the ActivationBox prototype family. Its built-in
// name is "Activate" (§4.3's built-in seed list), matching the keyword
// that declares one in source.
type ActivationBoxDef struct {
	FillColor     string
	Stroke        *StrokeDef
	Width         float64
	NestingOffset float64
}

func (d *ActivationBoxDef) Family() Family { return FamilyActivationBox }
func (d *ActivationBoxDef) clone() Definition {
	c := *d
	return &c
}

// FragmentDef is the Fragment prototype family.
type FragmentDef struct {
	BorderStroke       *StrokeDef
	SeparatorStroke    *StrokeDef
	BackgroundColor    *string
	ContentPadding     geom.Insets
	OperationLabelText *TextDef
	SectionTitleText   *TextDef
}

func (d *FragmentDef) Family() Family { return FamilyFragment }
func (d *FragmentDef) clone() Definition {
	c := *d
	return &c
}

// NoteDef is the Note prototype family. "on" and "align" are valid
// attribute names on a note's type-spec but are consumed by the
// elaborator for positioning rather than stored here (§4.3.1).
type NoteDef struct {
	BackgroundColor *string
	Stroke          *StrokeDef
	Text            *TextDef
}

func (d *NoteDef) Family() Family { return FamilyNote }
func (d *NoteDef) clone() Definition {
	c := *d
	return &c
}
