package sequence

import (
	"fmt"

	"github.com/dshills/diagc/pkg/diag"
	"github.com/dshills/diagc/pkg/ident"
	"github.com/dshills/diagc/pkg/semantic"
)

type builder struct {
	errs         *diag.Collector
	participants map[ident.Id]bool
	events       []Event
}

// Build flattens a sequence diagram's elaborated semantic tree into the
// event stream of §4.6. Build panics if d was not elaborated as a
// sequence diagram, the same invariant pkg/component's Build enforces
// for component diagrams.
func Build(d *semantic.Diagram) ([]Event, []*diag.Diagnostic, bool) {
	if d.Kind != semantic.SequenceDiagram {
		panic("sequence: Build called with a non-sequence diagram")
	}
	b := &builder{
		errs:         diag.NewCollector(),
		participants: collectParticipants(d.Scope),
	}
	b.walkScope(d.Scope)
	diags, ok := b.errs.Finish()
	if !ok {
		return nil, diags, false
	}
	return b.events, diags, true
}

// collectParticipants gathers every participant Id declared directly
// in scope, so references are resolved against the whole diagram
// regardless of whether the reference appears before or after the
// declaration in source order.
func collectParticipants(scope *semantic.Scope) map[ident.Id]bool {
	ids := make(map[ident.Id]bool)
	for _, el := range scope.Elements {
		if n, ok := el.(*semantic.Node); ok {
			ids[n.Id] = true
		}
	}
	return ids
}

func (b *builder) resolveId(ref semantic.Ref) (ident.Id, bool) {
	if len(ref.Segments) != 1 {
		b.errs.Error(diag.ECodeUnsupportedInContext, ref.Span,
			fmt.Sprintf("dotted-path reference %q is not supported in a sequence diagram", ref))
		return "", false
	}
	id := ref.Segments[0]
	if !b.participants[id] {
		b.errs.Error(diag.ECodeUndefinedReference, ref.Span, fmt.Sprintf("undefined participant %q", id))
		return "", false
	}
	return id, true
}

func (b *builder) walkScope(scope *semantic.Scope) {
	for _, el := range scope.Elements {
		switch v := el.(type) {
		case *semantic.Node:
			if v.Block.Kind == semantic.BlockScope {
				b.errs.Error(diag.ECodeUnsupportedInContext, v.NodeSpan,
					"a sequence participant cannot have a nested scope")
				continue
			}
			b.events = append(b.events, &ParticipantDecl{
				Id:          v.Id,
				Name:        v.Name,
				DisplayName: v.DisplayName,
				ShapeProto:  v.ShapeProto,
				DeclSpan:    v.NodeSpan,
			})
		case *semantic.Relation:
			src, ok := b.resolveId(v.Source)
			if !ok {
				continue
			}
			tgt, ok := b.resolveId(v.Target)
			if !ok {
				continue
			}
			b.events = append(b.events, &Message{
				Source:      src,
				Target:      tgt,
				ArrowProto:  v.ArrowProto,
				Direction:   v.Direction,
				Label:       v.Label,
				MessageSpan: v.RelationSpan,
			})
		case *semantic.Activate:
			b.events = append(b.events, &Activate{
				Participant:     v.Component,
				ActivationProto: v.ActivationProto,
				ActivateSpan:    v.ActivateSpan,
			})
		case *semantic.Deactivate:
			b.events = append(b.events, &Deactivate{
				Participant:    v.Component,
				DeactivateSpan: v.DeactivateSpan,
			})
		case *semantic.Fragment:
			b.events = append(b.events, &FragmentEnter{
				Operation:     v.Operation,
				FragmentProto: v.FragmentProto,
				EnterSpan:     v.FragmentSpan,
			})
			for _, section := range v.Sections {
				b.events = append(b.events, &SectionEnter{Title: section.Title, EnterSpan: v.FragmentSpan})
				b.walkScope(&semantic.Scope{Elements: section.Elements})
				b.events = append(b.events, &SectionExit{ExitSpan: v.FragmentSpan})
			}
			b.events = append(b.events, &FragmentExit{ExitSpan: v.FragmentSpan})
		case *semantic.Note:
			on := make([]ident.Id, 0, len(v.On))
			failed := false
			for _, ref := range v.On {
				id, ok := b.resolveId(ref)
				if !ok {
					failed = true
					break
				}
				on = append(on, id)
			}
			if failed {
				continue
			}
			b.events = append(b.events, &Note{
				On:        on,
				Alignment: v.Alignment,
				Content:   v.Content,
				NoteProto: v.NoteProto,
				NoteSpanV: v.NoteSpanV,
			})
		default:
			panic(fmt.Sprintf("sequence: unexpected element kind %T in a sequence diagram", el))
		}
	}
}
