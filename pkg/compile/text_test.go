package compile_test

import (
	"strings"
	"testing"

	"github.com/dshills/diagc/pkg/compile"
)

func TestDescribeComponentDiagramCountsStructure(t *testing.T) {
	src := `diagram component;
a: Rectangle;
b: Rectangle;
a -> b;
inner: Rectangle {
  c: Rectangle;
};
`
	out, diags, err := compile.Describe(src, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if !strings.Contains(out, "component diagram") {
		t.Errorf("expected a component diagram header, got %q", out)
	}
	if !strings.Contains(out, "components: 4") {
		t.Errorf("expected 4 components (a, b, inner, c), got %q", out)
	}
	if !strings.Contains(out, "relations: 1") {
		t.Errorf("expected 1 relation, got %q", out)
	}
	if !strings.Contains(out, "max containment depth: 2") {
		t.Errorf("expected a max containment depth of 2 (root + inner), got %q", out)
	}
}

func TestDescribeSequenceDiagramCountsEvents(t *testing.T) {
	src := "diagram sequence;\na: Actor;\nb: Actor;\nactivate a;\na -> b;\ndeactivate a;\n"
	out, _, err := compile.Describe(src, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "sequence diagram") {
		t.Errorf("expected a sequence diagram header, got %q", out)
	}
	if !strings.Contains(out, "participants: 2") {
		t.Errorf("expected 2 participants, got %q", out)
	}
	if !strings.Contains(out, "messages: 1") {
		t.Errorf("expected 1 message, got %q", out)
	}
	if !strings.Contains(out, "activations: 1") {
		t.Errorf("expected 1 activation, got %q", out)
	}
}

func TestDescribeStopsAtElaborationDiagnostics(t *testing.T) {
	_, diags, err := compile.Describe("diagram component;\na: Nonesuch;\n", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(diags) != 1 {
		t.Fatalf("expected exactly one diagnostic, got %v", diags)
	}
}
