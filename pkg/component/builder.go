package component

import (
	"fmt"

	"github.com/dshills/diagc/pkg/diag"
	"github.com/dshills/diagc/pkg/ident"
	"github.com/dshills/diagc/pkg/semantic"
)

type pendingRelation struct {
	rel      *semantic.Relation
	scopeKey ident.Id
}

type pendingNote struct {
	note     *semantic.Note
	scopeKey ident.Id
}

type builder struct {
	errs             *diag.Collector
	g                *Graph
	pendingRelations []pendingRelation
	pendingNotes     []pendingNote
}

// Build constructs the containment graph for a component diagram's
// elaborated semantic tree (§4.5). Build panics if d was not
// elaborated as a component diagram: callers must check d.Kind, the
// same invariant-the-type-system-should-have-prevented class as an
// un-desugared sugar block reaching the elaborator (§7).
func Build(d *semantic.Diagram) (*Graph, []*diag.Diagnostic, bool) {
	if d.Kind != semantic.ComponentDiagram {
		panic("component: Build called with a non-component diagram")
	}
	errs := diag.NewCollector()
	b := &builder{
		errs: errs,
		g: &Graph{
			nodes:  make(map[ident.Id]*Node),
			scopes: make(map[ident.Id]*Scope),
			edges:  make(map[ident.Id][]*Edge),
			notes:  make(map[ident.Id][]*NoteRef),
		},
	}
	b.buildScope(d.Scope, rootScopeKey, nil)

	for _, pr := range b.pendingRelations {
		if b.errs.HasErrors() {
			break
		}
		b.resolveRelation(pr)
	}
	for _, pn := range b.pendingNotes {
		if b.errs.HasErrors() {
			break
		}
		b.resolveNote(pn)
	}

	diags, ok := errs.Finish()
	if !ok {
		return nil, diags, false
	}
	return b.g, diags, true
}

func qualify(parent, local ident.Id) ident.Id {
	if parent == rootScopeKey {
		return local
	}
	return ident.Id(parent.String() + "::" + local.String())
}

// buildScope recursively registers scope's nodes, deferring relation
// and note resolution to a second pass (so a relation may reference a
// node declared later in source order, or inside a scope nested
// deeper than the one it's written in). Scopes are appended to the
// traversal order after all of their nested scopes, producing the
// post-order §4.5 requires.
func (b *builder) buildScope(scope *semantic.Scope, key ident.Id, container *Node) {
	b.g.scopes[key] = &Scope{Container: container}
	for _, el := range scope.Elements {
		switch v := el.(type) {
		case *semantic.Node:
			childKey := qualify(key, v.Id)
			n := &Node{
				Key:         childKey,
				LocalId:     v.Id,
				Name:        v.Name,
				DisplayName: v.DisplayName,
				ShapeProto:  v.ShapeProto,
				ScopeKey:    key,
			}
			b.g.nodes[childKey] = n
			b.g.scopes[key].Nodes = append(b.g.scopes[key].Nodes, n)
			if v.Block.Kind == semantic.BlockScope {
				n.ChildScopeKey = &childKey
				b.buildScope(v.Block.Scope, childKey, n)
			}
		case *semantic.Relation:
			b.pendingRelations = append(b.pendingRelations, pendingRelation{rel: v, scopeKey: key})
		case *semantic.Note:
			b.pendingNotes = append(b.pendingNotes, pendingNote{note: v, scopeKey: key})
		default:
			// Activate/Deactivate/Fragment can never appear here: the
			// elaborator already rejects them on a component diagram
			// (E304) before the structure builder ever sees the tree.
			panic(fmt.Sprintf("component: unexpected element kind %T in a component diagram", el))
		}
	}
	b.g.order = append(b.g.order, key)
}

// findAncestorMatch walks from startScopeKey up through enclosing
// scopes, returning the first node named name it finds (§3.6: "may
// name any Id visible in the current or an ancestor scope").
func (b *builder) findAncestorMatch(startScopeKey ident.Id, name ident.Id) (*Node, bool) {
	key := startScopeKey
	for {
		scope := b.g.scopes[key]
		for _, n := range scope.Nodes {
			if n.LocalId == name {
				return n, true
			}
		}
		if scope.Container == nil {
			return nil, false
		}
		key = scope.Container.ScopeKey
	}
}

func (b *builder) resolveRef(originScopeKey ident.Id, ref semantic.Ref) (*Node, bool) {
	if len(ref.Segments) == 0 {
		return nil, false
	}
	anchor, ok := b.findAncestorMatch(originScopeKey, ref.Segments[0])
	if !ok {
		b.errs.Error(diag.ECodeUndefinedReference, ref.Span, fmt.Sprintf("undefined reference %q", ref))
		return nil, false
	}
	current := anchor
	for _, seg := range ref.Segments[1:] {
		if current.ChildScopeKey == nil {
			b.errs.Error(diag.ECodeUndefinedReference, ref.Span, fmt.Sprintf("undefined reference %q", ref))
			return nil, false
		}
		childScope := b.g.scopes[*current.ChildScopeKey]
		found := false
		for _, n := range childScope.Nodes {
			if n.LocalId == seg {
				current = n
				found = true
				break
			}
		}
		if !found {
			b.errs.Error(diag.ECodeUndefinedReference, ref.Span, fmt.Sprintf("undefined reference %q", ref))
			return nil, false
		}
	}
	return current, true
}

// commonAncestorScope returns the nearest scope enclosing both a and
// b, per §4.5's "cross-scope relations are attached to the
// common-ancestor scope."
func (b *builder) commonAncestorScope(a, bKey ident.Id) ident.Id {
	ancestorsOfA := make(map[ident.Id]bool)
	key := a
	for {
		ancestorsOfA[key] = true
		scope := b.g.scopes[key]
		if scope.Container == nil {
			break
		}
		key = scope.Container.ScopeKey
	}
	key = bKey
	for {
		if ancestorsOfA[key] {
			return key
		}
		scope := b.g.scopes[key]
		if scope.Container == nil {
			break
		}
		key = scope.Container.ScopeKey
	}
	return rootScopeKey
}

func (b *builder) resolveRelation(pr pendingRelation) {
	src, ok := b.resolveRef(pr.scopeKey, pr.rel.Source)
	if !ok {
		return
	}
	tgt, ok := b.resolveRef(pr.scopeKey, pr.rel.Target)
	if !ok {
		return
	}
	scopeKey := b.commonAncestorScope(src.ScopeKey, tgt.ScopeKey)
	edge := &Edge{
		Source:     src,
		Target:     tgt,
		Direction:  pr.rel.Direction,
		Label:      pr.rel.Label,
		ArrowProto: pr.rel.ArrowProto,
		ScopeKey:   scopeKey,
	}
	b.g.edges[scopeKey] = append(b.g.edges[scopeKey], edge)
}

func (b *builder) resolveNote(pn pendingNote) {
	note := &NoteRef{
		Alignment: pn.note.Alignment,
		Content:   pn.note.Content,
		NoteProto: pn.note.NoteProto,
		ScopeKey:  pn.scopeKey,
	}
	for _, ref := range pn.note.On {
		n, ok := b.resolveRef(pn.scopeKey, ref)
		if !ok {
			return
		}
		note.On = append(note.On, n)
	}
	b.g.notes[pn.scopeKey] = append(b.g.notes[pn.scopeKey], note)
}
