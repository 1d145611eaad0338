package layout

import (
	"fmt"
	"math"

	"github.com/dshills/diagc/pkg/config"
	"github.com/dshills/diagc/pkg/diag"
	"github.com/dshills/diagc/pkg/drawable"
	"github.com/dshills/diagc/pkg/geom"
	"github.com/dshills/diagc/pkg/ident"
	"github.com/dshills/diagc/pkg/semantic"
	"github.com/dshills/diagc/pkg/sequence"
	"github.com/dshills/diagc/pkg/style"
)

// MinBuffer is the minimum activation-box height §4.8 guarantees even
// when a deactivate immediately follows its activate at the same y,
// absent a config override (see config.LayoutDefaults.MinBuffer).
const MinBuffer = 15.0

const (
	participantSpacing = 80.0
	messageSpacing     = 40.0
	fragmentTopPad     = 24.0
	fragmentBottomPad  = 12.0
	fragmentSidePad    = 12.0
	lifelineMargin     = 30.0
)

// Participant is a positioned lifeline.
type Participant struct {
	Id        ident.Id
	CenterX   float64
	Composite drawable.ShapeWithText
	Lifeline  drawable.Lifeline
}

// PositionedMessage is a resolved Message event, ready to render.
type PositionedMessage struct {
	Y         float64
	Composite drawable.ArrowWithText
}

// PositionedActivation is a closed activation box, ready to render.
type PositionedActivation struct {
	Participant ident.Id
	CenterX     float64
	CenterY     float64
	Composite   drawable.ActivationBox
}

// PositionedFragment is a closed combined fragment, ready to render.
type PositionedFragment struct {
	Origin    geom.Point
	Composite drawable.Fragment
}

// PositionedNote is a resolved Note event, ready to render.
type PositionedNote struct {
	CenterX, CenterY float64
	Composite        drawable.Note
}

// SequenceLayout is the full positioned output of the sequence layout
// engine (§4.8).
type SequenceLayout struct {
	Participants []*Participant
	Messages     []PositionedMessage
	Activations  []PositionedActivation
	Fragments    []PositionedFragment
	Notes        []PositionedNote
}

type activationTiming struct {
	startY       float64
	nestingLevel int
	proto        *style.ActivationBoxDef
}

type fragmentTiming struct {
	startY             float64
	minX, maxX         float64
	operation          string
	proto              *style.FragmentDef
	activeSectionStart *float64
	activeSectionTitle *string
	sections           []drawable.FragmentSection
}

type sequenceBuilder struct {
	errs         *diag.Collector
	measurer     drawable.TextMeasurer
	cfg          *config.LayoutDefaults
	y            float64
	active       map[ident.Id][]activationTiming
	fragments    []fragmentTiming
	participants []*Participant
	byId         map[ident.Id]*Participant
	layout       *SequenceLayout
}

// BuildSequenceLayout walks events (§4.8), maintaining a monotonic
// y-cursor, per-participant activation stacks, and an open-fragment
// stack, producing positioned drawables for the render stage. A nil
// cfg falls back to config.DefaultLayoutDefaults.
func BuildSequenceLayout(events []sequence.Event, measurer drawable.TextMeasurer, cfg *config.LayoutDefaults) (*SequenceLayout, []*diag.Diagnostic, error) {
	if cfg == nil {
		d := config.DefaultLayoutDefaults()
		cfg = &d
	}
	b := &sequenceBuilder{
		errs:     diag.NewCollector(),
		measurer: measurer,
		cfg:      cfg,
		active:   make(map[ident.Id][]activationTiming),
		byId:     make(map[ident.Id]*Participant),
		layout:   &SequenceLayout{},
	}
	for _, ev := range events {
		if err := b.handle(ev); err != nil {
			return nil, nil, err
		}
	}
	if len(b.fragments) > 0 {
		return nil, nil, fmt.Errorf("sequence layout: %d fragment(s) still open at end of event stream", len(b.fragments))
	}
	b.closeUnbalancedActivations(events)
	b.finalizeLifelines()
	return b.layout, b.errs.Diagnostics(), nil
}

func (b *sequenceBuilder) handle(ev sequence.Event) error {
	switch e := ev.(type) {
	case *sequence.ParticipantDecl:
		b.handleParticipant(e)
	case *sequence.Activate:
		b.handleActivate(e)
	case *sequence.Deactivate:
		return b.handleDeactivate(e)
	case *sequence.Message:
		b.handleMessage(e)
	case *sequence.FragmentEnter:
		b.handleFragmentEnter(e)
	case *sequence.SectionEnter:
		b.handleSectionEnter(e)
	case *sequence.SectionExit:
		b.handleSectionExit()
	case *sequence.FragmentExit:
		b.handleFragmentExit()
	case *sequence.Note:
		b.handleNote(e)
	default:
		panic(fmt.Sprintf("layout: unexpected sequence event kind %T", ev))
	}
	return nil
}

func (b *sequenceBuilder) handleParticipant(e *sequence.ParticipantDecl) {
	x := 0.0
	if n := len(b.participants); n > 0 {
		prevSize := b.participants[n-1].Composite.Shape.Geometry.OuterSize()
		x = b.participants[n-1].CenterX + participantSpacing + prevSize.W/2
	}
	displayName := e.Name
	if e.DisplayName != nil {
		displayName = *e.DisplayName
	}
	var headerHeight float64
	if displayName != "" {
		headerHeight = b.measurer.Measure(displayName, b.cfg.HeaderFontSize, b.cfg.HeaderFontFamily).H
	}
	geometry := drawable.NewShapeGeometry(e.ShapeProto, geom.Size{}, headerHeight, geom.Uniform(b.cfg.ContainerPadding))
	var header *drawable.Text
	if displayName != "" {
		header = &drawable.Text{Content: displayName, Proto: e.ShapeProto.Text}
	}
	p := &Participant{
		Id:      e.Id,
		CenterX: x,
		Composite: drawable.ShapeWithText{
			Shape:  drawable.Shape{Geometry: geometry, Proto: e.ShapeProto},
			Header: header,
		},
	}
	b.participants = append(b.participants, p)
	b.byId[e.Id] = p
	b.layout.Participants = append(b.layout.Participants, p)
}

func (b *sequenceBuilder) handleActivate(e *sequence.Activate) {
	b.active[e.Participant] = append(b.active[e.Participant], activationTiming{
		startY:       b.y,
		nestingLevel: len(b.active[e.Participant]),
		proto:        e.ActivationProto,
	})
}

func (b *sequenceBuilder) handleDeactivate(e *sequence.Deactivate) error {
	stack := b.active[e.Participant]
	if len(stack) == 0 {
		return fmt.Errorf("sequence layout: deactivate on %q with no open activation", e.Participant)
	}
	top := stack[len(stack)-1]
	b.active[e.Participant] = stack[:len(stack)-1]

	endY := b.y
	if endY <= top.startY {
		endY = top.startY + b.cfg.MinBuffer
	}
	b.layout.Activations = append(b.layout.Activations, PositionedActivation{
		Participant: e.Participant,
		CenterX:     b.byId[e.Participant].CenterX + nestingCenterOffset(top, b.cfg),
		CenterY:     (top.startY + endY) / 2,
		Composite:   drawable.ActivationBox{Height: endY - top.startY, Proto: top.proto},
	})
	return nil
}

// activeBox returns the innermost currently open activation on
// participant, if any. Querying the live stack directly (rather than
// a y-range lookup over already-closed boxes, per §4.8.1) is
// equivalent here because messages are always processed with y equal
// to "now" — the top of an open stack always covers [start_y, now].
func (b *sequenceBuilder) activeBox(participant ident.Id) (activationTiming, bool) {
	stack := b.active[participant]
	if len(stack) == 0 {
		return activationTiming{}, false
	}
	return stack[len(stack)-1], true
}

// nestingCenterOffset returns how far a nested activation box's center
// shifts right of its participant's own lifeline, per box's nesting
// level and its prototype's configured NestingOffset (falling back to
// cfg.NestingOffset when the prototype's is unset).
func nestingCenterOffset(box activationTiming, cfg *config.LayoutDefaults) float64 {
	offset := cfg.NestingOffset
	if box.proto != nil && box.proto.NestingOffset != 0 {
		offset = box.proto.NestingOffset
	}
	return offset * float64(box.nestingLevel)
}

func boxWidth(box activationTiming) float64 {
	if box.proto != nil {
		return box.proto.Width
	}
	return 10.0
}

func endpointX(p *Participant, box activationTiming, hasBox bool, rightward bool, cfg *config.LayoutDefaults) float64 {
	if !hasBox {
		return p.CenterX
	}
	offset := nestingCenterOffset(box, cfg)
	width := boxWidth(box)
	if rightward {
		return p.CenterX + offset + width/2
	}
	return p.CenterX - offset - width/2
}

func (b *sequenceBuilder) handleMessage(e *sequence.Message) {
	b.y += messageSpacing
	src := b.byId[e.Source]
	tgt := b.byId[e.Target]
	rightward := src.CenterX <= tgt.CenterX
	srcBox, srcOk := b.activeBox(e.Source)
	tgtBox, tgtOk := b.activeBox(e.Target)
	sourceX := endpointX(src, srcBox, srcOk, rightward, b.cfg)
	targetX := endpointX(tgt, tgtBox, tgtOk, !rightward, b.cfg)

	arrow := drawable.Arrow{
		Source:    geom.Point{X: sourceX, Y: b.y},
		Target:    geom.Point{X: targetX, Y: b.y},
		Proto:     e.ArrowProto,
		Direction: e.Direction,
	}
	var label *drawable.Text
	if e.Label != nil {
		label = &drawable.Text{Content: *e.Label, Proto: e.ArrowProto.Text, Anchor: "middle"}
	}
	b.layout.Messages = append(b.layout.Messages, PositionedMessage{
		Y:         b.y,
		Composite: drawable.ArrowWithText{Arrow: arrow, Label: label},
	})

	for i := range b.fragments {
		f := &b.fragments[i]
		f.minX = math.Min(f.minX, math.Min(sourceX, targetX))
		f.maxX = math.Max(f.maxX, math.Max(sourceX, targetX))
	}
}

func (b *sequenceBuilder) handleFragmentEnter(e *sequence.FragmentEnter) {
	b.y += fragmentTopPad
	b.fragments = append(b.fragments, fragmentTiming{
		startY:    b.y,
		minX:      math.Inf(1),
		maxX:      math.Inf(-1),
		operation: e.Operation,
		proto:     e.FragmentProto,
	})
}

func (b *sequenceBuilder) currentFragment() *fragmentTiming {
	if len(b.fragments) == 0 {
		return nil
	}
	return &b.fragments[len(b.fragments)-1]
}

func (b *sequenceBuilder) handleSectionEnter(e *sequence.SectionEnter) {
	f := b.currentFragment()
	if f == nil {
		return
	}
	start := b.y - f.startY
	f.activeSectionStart = &start
	f.activeSectionTitle = e.Title
}

func (b *sequenceBuilder) handleSectionExit() {
	f := b.currentFragment()
	if f == nil || f.activeSectionStart == nil {
		return
	}
	f.sections = append(f.sections, drawable.FragmentSection{
		Title: f.activeSectionTitle,
		TopY:  *f.activeSectionStart,
	})
	f.activeSectionStart = nil
	f.activeSectionTitle = nil
}

func (b *sequenceBuilder) handleFragmentExit() {
	b.y += fragmentBottomPad
	n := len(b.fragments)
	f := b.fragments[n-1]
	b.fragments = b.fragments[:n-1]

	if math.IsInf(f.minX, 1) {
		f.minX, f.maxX = 0, 0
	}
	width := f.maxX - f.minX + 2*fragmentSidePad
	height := b.y - f.startY

	b.layout.Fragments = append(b.layout.Fragments, PositionedFragment{
		Origin:    geom.Point{X: f.minX - fragmentSidePad, Y: f.startY},
		Composite: drawable.Fragment{Size: geom.Size{W: width, H: height}, Operation: f.operation, Sections: f.sections, Proto: f.proto},
	})

	if parent := b.currentFragment(); parent != nil {
		parent.minX = math.Min(parent.minX, f.minX-fragmentSidePad)
		parent.maxX = math.Max(parent.maxX, f.maxX+fragmentSidePad)
	}
}

func (b *sequenceBuilder) handleNote(e *sequence.Note) {
	content := e.Content
	size := b.measurer.Measure(content, b.cfg.HeaderFontSize, b.cfg.HeaderFontFamily)
	size.W += 20
	size.H += 16

	var centerX float64
	if len(e.On) == 0 {
		centerX = b.marginNoteX(e.Alignment, size)
	} else {
		sum := 0.0
		for _, id := range e.On {
			sum += b.byId[id].CenterX
		}
		avg := sum / float64(len(e.On))
		switch e.Alignment {
		case semantic.AlignLeft:
			centerX = avg - size.W/2 - 10
		case semantic.AlignRight:
			centerX = avg + size.W/2 + 10
		default:
			centerX = avg
		}
	}

	b.layout.Notes = append(b.layout.Notes, PositionedNote{
		CenterX: centerX, CenterY: b.y,
		Composite: drawable.Note{Size: size, Content: content, Proto: e.NoteProto},
	})
}

func (b *sequenceBuilder) marginNoteX(align semantic.Alignment, size geom.Size) float64 {
	if len(b.participants) == 0 {
		return 0
	}
	first := b.participants[0]
	last := b.participants[len(b.participants)-1]
	switch align {
	case semantic.AlignRight:
		lastSize := last.Composite.Shape.Geometry.OuterSize()
		return last.CenterX + lastSize.W/2 + size.W/2 + lifelineMargin
	default:
		firstSize := first.Composite.Shape.Geometry.OuterSize()
		return first.CenterX - firstSize.W/2 - size.W/2 - lifelineMargin
	}
}

// closeUnbalancedActivations closes any activation left open at the
// end of the event stream (§4.8 "Final step"), reporting a warning
// (E210) rather than dropping it silently.
func (b *sequenceBuilder) closeUnbalancedActivations(events []sequence.Event) {
	for _, p := range b.participants {
		id := p.Id
		stack := b.active[id]
		for _, top := range stack {
			endY := b.y
			if endY <= top.startY {
				endY = top.startY + b.cfg.MinBuffer
			}
			b.layout.Activations = append(b.layout.Activations, PositionedActivation{
				Participant: id,
				CenterX:     b.byId[id].CenterX + nestingCenterOffset(top, b.cfg),
				CenterY:     (top.startY + endY) / 2,
				Composite:   drawable.ActivationBox{Height: endY - top.startY, Proto: top.proto},
			})
			b.errs.Warn(diag.ECodeUnbalancedActivate, spanOfFirst(events), fmt.Sprintf("unbalanced activate on %q closed at final y", id))
		}
	}
	b.active = nil
}

func spanOfFirst(events []sequence.Event) diag.Span {
	if len(events) == 0 {
		return diag.Span{}
	}
	return events[0].Span()
}

func (b *sequenceBuilder) finalizeLifelines() {
	finalY := b.y + lifelineMargin
	for _, p := range b.participants {
		top := p.Composite.Shape.Geometry.OuterSize().H / 2
		p.Lifeline = drawable.Lifeline{Top: top, Bottom: finalY}
	}
}
