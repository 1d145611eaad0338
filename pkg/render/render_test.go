package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dshills/diagc/pkg/component"
	"github.com/dshills/diagc/pkg/drawable"
	"github.com/dshills/diagc/pkg/layout"
	"github.com/dshills/diagc/pkg/lexer"
	"github.com/dshills/diagc/pkg/past"
	"github.com/dshills/diagc/pkg/semantic"
	"github.com/dshills/diagc/pkg/sequence"
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

func TestComposeComponentAndRenderProducesWellFormedSVG(t *testing.T) {
	d := mustElaborate(t, "diagram component;\na: Rectangle;\nb: Rectangle;\na -> b;\n")
	g, buildDiags, ok := component.Build(d)
	if !ok {
		t.Fatalf("unexpected build diagnostics: %v", buildDiags)
	}
	cl, err := layout.BuildComponentLayout(g, semantic.LayoutBasic, drawable.NewMonospaceMeasurer(), nil)
	if err != nil {
		t.Fatalf("unexpected layout error: %v", err)
	}

	drawer := drawable.NewArrowDrawer()
	output := ComposeComponent(cl, drawer)

	var buf bytes.Buffer
	if err := RenderSVG(&buf, output, drawer, d.BackgroundColor, 20); err != nil {
		t.Fatalf("unexpected render error: %v", err)
	}
	got := buf.String()
	if !strings.Contains(got, "<svg") || !strings.Contains(got, "</svg>") {
		t.Fatalf("expected a well-formed svg document, got %q", got)
	}
	if !strings.Contains(got, "<marker") {
		t.Errorf("expected an arrowhead marker definition for the a->b relation, got %q", got)
	}
	if strings.Count(got, "<rect") < 2 {
		t.Errorf("expected at least the background plus two component rects, got %q", got)
	}
}

func TestComposeSequenceAndRenderProducesWellFormedSVG(t *testing.T) {
	d := mustElaborate(t, "diagram sequence;\na: Actor;\nb: Actor;\nactivate a;\na -> b;\ndeactivate a;\n")
	events, buildDiags, ok := sequence.Build(d)
	if !ok {
		t.Fatalf("unexpected build diagnostics: %v", buildDiags)
	}
	sl, diags, err := layout.BuildSequenceLayout(events, drawable.NewMonospaceMeasurer(), nil)
	if err != nil {
		t.Fatalf("unexpected layout error: %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("unexpected layout diagnostics: %v", diags)
	}

	drawer := drawable.NewArrowDrawer()
	output := ComposeSequence(sl, drawer)

	var buf bytes.Buffer
	if err := RenderSVG(&buf, output, drawer, d.BackgroundColor, 20); err != nil {
		t.Fatalf("unexpected render error: %v", err)
	}
	got := buf.String()
	if !strings.Contains(got, "<svg") || !strings.Contains(got, "</svg>") {
		t.Fatalf("expected a well-formed svg document, got %q", got)
	}
	if !strings.Contains(got, "<line") && !strings.Contains(got, "<polyline") {
		t.Errorf("expected lifeline/arrow polylines in the output, got %q", got)
	}
}

func TestRenderSVGEmptyOutputFallsBackToMarginCanvas(t *testing.T) {
	var output drawable.LayeredOutput
	drawer := drawable.NewArrowDrawer()
	var buf bytes.Buffer
	if err := RenderSVG(&buf, output, drawer, nil, 20); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := buf.String()
	if !strings.Contains(got, `width="40"`) || !strings.Contains(got, `height="40"`) {
		t.Errorf("expected a 2*margin fallback canvas, got %q", got)
	}
}
