package component

import (
	"testing"

	"github.com/dshills/diagc/pkg/lexer"
	"github.com/dshills/diagc/pkg/past"
	"github.com/dshills/diagc/pkg/semantic"
)

func mustElaborate(t *testing.T, source string) *semantic.Diagram {
	t.Helper()
	toks, lexDiags, ok := lexer.Lex(source)
	if !ok {
		t.Fatalf("unexpected lex diagnostics: %v", lexDiags)
	}
	tree, parseDiags, ok := past.Parse(toks)
	if !ok {
		t.Fatalf("unexpected parse diagnostics: %v", parseDiags)
	}
	d, elabDiags, ok := semantic.Elaborate(tree)
	if !ok {
		t.Fatalf("unexpected elaboration diagnostics: %v", elabDiags)
	}
	return d
}

func TestBuildFlatGraphWithOneRelation(t *testing.T) {
	d := mustElaborate(t, "diagram component;\na: Rectangle;\nb: Rectangle;\na -> b;\n")
	g, diags, ok := Build(d)
	if !ok {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	scopes := g.ContainmentScopes()
	if len(scopes) != 1 {
		t.Fatalf("expected one scope, got %d", len(scopes))
	}
	nodes := g.ScopeNodes(RootScopeKey())
	if len(nodes) != 2 {
		t.Fatalf("expected two nodes, got %d", len(nodes))
	}
	edges := g.ScopeRelations(RootScopeKey())
	if len(edges) != 1 {
		t.Fatalf("expected one edge, got %d", len(edges))
	}
	if edges[0].Source.LocalId != "a" || edges[0].Target.LocalId != "b" {
		t.Fatalf("got edge %q -> %q", edges[0].Source.LocalId, edges[0].Target.LocalId)
	}
}

func TestBuildNestedScopePostOrder(t *testing.T) {
	src := "diagram component;\nouter: Boundary {\n  inner: Rectangle;\n};\n"
	d := mustElaborate(t, src)
	g, diags, ok := Build(d)
	if !ok {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	scopes := g.ContainmentScopes()
	if len(scopes) != 2 {
		t.Fatalf("expected two scopes (nested + root), got %d", len(scopes))
	}
	// post-order: the nested scope must appear before the root scope.
	if scopes[0].Container == nil {
		t.Fatalf("expected the first scope in post-order to be the nested one, got the root")
	}
	if scopes[0].Container.LocalId != "outer" {
		t.Errorf("got container %q", scopes[0].Container.LocalId)
	}
	if scopes[1].Container != nil {
		t.Errorf("expected the second scope to be the root")
	}

	outer, ok := g.Node("outer")
	if !ok {
		t.Fatalf("expected to find node \"outer\"")
	}
	inner, ok := g.Node("outer::inner")
	if !ok {
		t.Fatalf("expected to find node \"outer::inner\" by its qualified key")
	}
	if inner.ScopeKey != outer.Key {
		t.Errorf("expected inner's scope key to equal outer's key, got %q vs %q", inner.ScopeKey, outer.Key)
	}
}

func TestBuildDottedPathRelationIntoNestedScope(t *testing.T) {
	src := "diagram component;\nouter: Boundary {\n  inner: Rectangle;\n};\nx: Rectangle;\nx -> outer::inner;\n"
	d := mustElaborate(t, src)
	g, diags, ok := Build(d)
	if !ok {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	// x lives in the root scope, outer::inner lives in outer's nested
	// scope; their common ancestor is the root scope.
	edges := g.ScopeRelations(RootScopeKey())
	if len(edges) != 1 {
		t.Fatalf("expected one edge attached to the root scope, got %d", len(edges))
	}
	if edges[0].Target.Key != "outer::inner" {
		t.Errorf("got target key %q", edges[0].Target.Key)
	}
}

func TestBuildUndefinedReferenceReportsE200(t *testing.T) {
	d := mustElaborate(t, "diagram component;\na: Rectangle;\na -> ghost;\n")
	_, diags, ok := Build(d)
	if ok {
		t.Fatalf("expected failure")
	}
	if len(diags) != 1 || *diags[0].Code != 200 {
		t.Fatalf("expected a single E200, got %v", diags)
	}
}

func TestBuildSiblingRelationsAttachToTheirSharedContainer(t *testing.T) {
	src := "diagram component;\nouter: Boundary {\n  a: Rectangle;\n  b: Rectangle;\n  a -> b;\n};\n"
	d := mustElaborate(t, src)
	g, diags, ok := Build(d)
	if !ok {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	outer, _ := g.Node("outer")
	edges := g.ScopeRelations(outer.Key)
	if len(edges) != 1 {
		t.Fatalf("expected the sibling relation attached to outer's scope, got %d elsewhere", len(edges))
	}
	if len(g.ScopeRelations(RootScopeKey())) != 0 {
		t.Errorf("expected no relations attached to the root scope")
	}
}
