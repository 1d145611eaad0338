package integration

import (
	"testing"

	"github.com/dshills/diagc/pkg/component"
	"github.com/dshills/diagc/pkg/diag"
	"github.com/dshills/diagc/pkg/drawable"
	"github.com/dshills/diagc/pkg/layout"
	"github.com/dshills/diagc/pkg/lexer"
	"github.com/dshills/diagc/pkg/past"
	"github.com/dshills/diagc/pkg/semantic"
	"github.com/dshills/diagc/pkg/sequence"
)

func compileToDiagram(t *testing.T, source string) (*semantic.Diagram, []*diag.Diagnostic, bool) {
	t.Helper()
	toks, lexDiags, ok := lexer.Lex(source)
	if !ok {
		return nil, lexDiags, false
	}
	tree, parseDiags, ok := past.Parse(toks)
	if !ok {
		return nil, parseDiags, false
	}
	return semantic.Elaborate(tree)
}

// TestIntegration_MinimalComponentDiagram covers scenario 1: one scope
// with two nodes and one forward relation between them.
func TestIntegration_MinimalComponentDiagram(t *testing.T) {
	d, diags, ok := compileToDiagram(t, "diagram component;\na: Rectangle;\nb: Rectangle;\na -> b;\n")
	if !ok {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	g, buildDiags, ok := component.Build(d)
	if !ok {
		t.Fatalf("unexpected build diagnostics: %v", buildDiags)
	}
	root := g.ScopeNodes(component.RootScopeKey())
	if len(root) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(root))
	}
	edges := g.ScopeRelations(component.RootScopeKey())
	if len(edges) != 1 {
		t.Fatalf("expected 1 relation, got %d", len(edges))
	}
	edge := edges[0]
	if edge.Source.LocalId != "a" || edge.Target.LocalId != "b" {
		t.Errorf("expected a->b, got %s->%s", edge.Source.LocalId, edge.Target.LocalId)
	}
	if edge.Direction != semantic.DirForward {
		t.Errorf("expected a forward direction, got %v", edge.Direction)
	}
	if edge.ArrowProto == nil {
		t.Error("expected a default arrow prototype, not nil")
	}
}

// TestIntegration_TypeOverride covers scenario 2: a declared type alias
// overrides fill color and rounding without mutating the builtin.
func TestIntegration_TypeOverride(t *testing.T) {
	src := `diagram component;
type Db = Rectangle[fill_color="lightblue", rounded=10];
d: Db;
plain: Rectangle;
`
	d, diags, ok := compileToDiagram(t, src)
	if !ok {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	var dbNode, plainNode *semantic.Node
	for _, el := range d.Scope.Elements {
		if n, ok := el.(*semantic.Node); ok {
			switch n.Id {
			case "d":
				dbNode = n
			case "plain":
				plainNode = n
			}
		}
	}
	if dbNode == nil || plainNode == nil {
		t.Fatalf("expected both nodes to elaborate, got %+v", d.Scope.Elements)
	}
	if dbNode.ShapeProto.FillColor == nil || *dbNode.ShapeProto.FillColor != "lightblue" {
		t.Errorf("expected fill_color lightblue, got %v", dbNode.ShapeProto.FillColor)
	}
	if dbNode.ShapeProto.Rounded != 10 {
		t.Errorf("expected rounded 10, got %d", dbNode.ShapeProto.Rounded)
	}
	if plainNode.ShapeProto.FillColor != nil {
		t.Errorf("expected the builtin Rectangle's fill_color to remain unset, got %v", plainNode.ShapeProto.FillColor)
	}
	if plainNode.ShapeProto.Rounded != 0 {
		t.Errorf("expected the builtin Rectangle's rounding to remain 0, got %d", plainNode.ShapeProto.Rounded)
	}
}

// TestIntegration_UndefinedType covers scenario 3: referencing an
// undeclared type reports E300 with a span covering the type name.
func TestIntegration_UndefinedType(t *testing.T) {
	src := "diagram component;\nx: Nonesuch;\n"
	_, diags, ok := compileToDiagram(t, src)
	if ok {
		t.Fatal("expected failure for an undefined type")
	}
	if len(diags) != 1 {
		t.Fatalf("expected exactly one diagnostic, got %v", diags)
	}
	if diags[0].Code == nil || *diags[0].Code != diag.ECodeUndefinedType {
		t.Fatalf("expected E300, got %v", diags[0].Code)
	}
	span := diags[0].PrimarySpan()
	if got := src[span.Start:span.End]; got != "Nonesuch" {
		t.Errorf(`expected the span to cover "Nonesuch", got %q`, got)
	}
}

// TestIntegration_ContentOnContentFreeShape covers scenario 4: a nested
// block under a shape that doesn't support content reports E308.
func TestIntegration_ContentOnContentFreeShape(t *testing.T) {
	src := "diagram component;\na: Actor {\n  b: Rectangle;\n};\n"
	_, diags, ok := compileToDiagram(t, src)
	if ok {
		t.Fatal("expected failure for content on a content-free shape")
	}
	if len(diags) != 1 || diags[0].Code == nil || *diags[0].Code != diag.ECodeContentNotSupported {
		t.Fatalf("expected a single E308, got %v", diags)
	}
}

// TestIntegration_SequenceActiveBoxEndpoint covers scenario 5: a
// message leaving an active box starts at the box's edge, not the bare
// participant center.
func TestIntegration_SequenceActiveBoxEndpoint(t *testing.T) {
	src := `diagram sequence;
u: Rectangle;
s: Rectangle;
activate u;
u -> s: "req";
deactivate u;
`
	d, diags, ok := compileToDiagram(t, src)
	if !ok {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	events, buildDiags, ok := sequence.Build(d)
	if !ok {
		t.Fatalf("unexpected build diagnostics: %v", buildDiags)
	}
	sl, layoutDiags, err := layout.BuildSequenceLayout(events, drawable.NewMonospaceMeasurer(), nil)
	if err != nil {
		t.Fatalf("unexpected layout error: %v", err)
	}
	if len(layoutDiags) != 0 {
		t.Fatalf("unexpected layout diagnostics: %v", layoutDiags)
	}
	if len(sl.Activations) != 1 {
		t.Fatalf("expected 1 activation box for u, got %d", len(sl.Activations))
	}
	if len(sl.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(sl.Messages))
	}
	u := sl.Participants[0]
	msg := sl.Messages[0].Composite.Arrow
	if msg.Source.X <= u.CenterX {
		t.Errorf("expected a rightward message to leave from the active box's right edge (> center %v), got %v", u.CenterX, msg.Source.X)
	}
}

// TestIntegration_FragmentWithTwoSections covers scenario 6: a
// fragment's bounds enclose both sections' messages, with two titled
// sections in order.
func TestIntegration_FragmentWithTwoSections(t *testing.T) {
	src := `diagram sequence;
a: Rectangle; b: Rectangle;
fragment "alt" {
  section "ok"   { a -> b; };
  section "fail" { b -> a; };
};
`
	d, diags, ok := compileToDiagram(t, src)
	if !ok {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	events, buildDiags, ok := sequence.Build(d)
	if !ok {
		t.Fatalf("unexpected build diagnostics: %v", buildDiags)
	}
	sl, _, err := layout.BuildSequenceLayout(events, drawable.NewMonospaceMeasurer(), nil)
	if err != nil {
		t.Fatalf("unexpected layout error: %v", err)
	}
	if len(sl.Fragments) != 1 {
		t.Fatalf("expected 1 fragment, got %d", len(sl.Fragments))
	}
	frag := sl.Fragments[0]
	if len(frag.Composite.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(frag.Composite.Sections))
	}
	if frag.Composite.Sections[0].Title == nil || *frag.Composite.Sections[0].Title != "ok" {
		t.Errorf("expected the first section titled \"ok\", got %v", frag.Composite.Sections[0].Title)
	}
	if frag.Composite.Sections[1].Title == nil || *frag.Composite.Sections[1].Title != "fail" {
		t.Errorf("expected the second section titled \"fail\", got %v", frag.Composite.Sections[1].Title)
	}
	if frag.Composite.Size.W <= 0 || frag.Composite.Size.H <= 0 {
		t.Errorf("expected a positive fragment size, got %v", frag.Composite.Size)
	}
}

// TestIntegration_IdentifierResolutionOrderIndependent covers the §8
// invariant that swapping two Node declarations doesn't change any
// relation's resolved endpoints.
func TestIntegration_IdentifierResolutionOrderIndependent(t *testing.T) {
	forward := "diagram component;\na: Rectangle;\nb: Rectangle;\na -> b;\n"
	swapped := "diagram component;\nb: Rectangle;\na: Rectangle;\na -> b;\n"

	d1, diags, ok := compileToDiagram(t, forward)
	if !ok {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	d2, diags, ok := compileToDiagram(t, swapped)
	if !ok {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	g1, buildDiags, ok := component.Build(d1)
	if !ok {
		t.Fatalf("unexpected build diagnostics: %v", buildDiags)
	}
	g2, buildDiags, ok := component.Build(d2)
	if !ok {
		t.Fatalf("unexpected build diagnostics: %v", buildDiags)
	}
	e1 := g1.ScopeRelations(component.RootScopeKey())[0]
	e2 := g2.ScopeRelations(component.RootScopeKey())[0]
	if e1.Source.LocalId != e2.Source.LocalId || e1.Target.LocalId != e2.Target.LocalId {
		t.Errorf("expected the same resolved endpoints regardless of declaration order, got %s->%s vs %s->%s",
			e1.Source.LocalId, e1.Target.LocalId, e2.Source.LocalId, e2.Target.LocalId)
	}
}

// TestIntegration_ImmediateDeactivateUsesMinBuffer covers the §8
// boundary behavior: an Activate with immediate Deactivate produces a
// box of height MIN_BUFFER.
func TestIntegration_ImmediateDeactivateUsesMinBuffer(t *testing.T) {
	d, diags, ok := compileToDiagram(t, "diagram sequence;\na: Rectangle;\nactivate a;\ndeactivate a;\n")
	if !ok {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	events, buildDiags, ok := sequence.Build(d)
	if !ok {
		t.Fatalf("unexpected build diagnostics: %v", buildDiags)
	}
	sl, _, err := layout.BuildSequenceLayout(events, drawable.NewMonospaceMeasurer(), nil)
	if err != nil {
		t.Fatalf("unexpected layout error: %v", err)
	}
	if len(sl.Activations) != 1 {
		t.Fatalf("expected 1 activation, got %d", len(sl.Activations))
	}
	if got := sl.Activations[0].Composite.Height; got != layout.MinBuffer {
		t.Errorf("expected height == MinBuffer (%v), got %v", layout.MinBuffer, got)
	}
}

// TestIntegration_EmptyDiagramBodyProducesEmptyScope covers the §8
// boundary behavior: an empty diagram body elaborates to an empty
// scope rather than failing.
func TestIntegration_EmptyDiagramBodyProducesEmptyScope(t *testing.T) {
	d, diags, ok := compileToDiagram(t, "diagram component;\n")
	if !ok {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(d.Scope.Elements) != 0 {
		t.Errorf("expected an empty scope, got %d elements", len(d.Scope.Elements))
	}
}
