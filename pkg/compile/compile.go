package compile

import (
	"bytes"
	"context"
	"fmt"

	"github.com/dshills/diagc/pkg/component"
	"github.com/dshills/diagc/pkg/config"
	"github.com/dshills/diagc/pkg/diag"
	"github.com/dshills/diagc/pkg/drawable"
	"github.com/dshills/diagc/pkg/layout"
	"github.com/dshills/diagc/pkg/lexer"
	"github.com/dshills/diagc/pkg/past"
	"github.com/dshills/diagc/pkg/render"
	"github.com/dshills/diagc/pkg/semantic"
	"github.com/dshills/diagc/pkg/sequence"
)

// DefaultMargin is the canvas margin RenderSVG applies around a
// diagram's content bounds.
const DefaultMargin = 20

// Result is everything a successful Compile produces.
type Result struct {
	Diagram *semantic.Diagram
	SVG     []byte
}

// Compile runs source through the full pipeline: lex, parse,
// elaborate, build the containment/event structure, lay it out, and
// render the result to SVG. cfg may be nil, in which case elaboration
// and layout fall back to their own built-in defaults.
//
// A pipeline stage that reports diagnostics (as opposed to an
// unrecoverable internal error) always returns them, whether or not
// that stage ultimately succeeded; err is reserved for failures
// outside the diagnostics contract, such as a still-open fragment at
// end of stream.
func Compile(ctx context.Context, source string, cfg *config.Config) (*Result, []*diag.Diagnostic, error) {
	toks, diags, ok := lexer.Lex(source)
	if !ok {
		return nil, diags, nil
	}

	tree, diags, ok := past.Parse(toks)
	if !ok {
		return nil, diags, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	d, diags, ok := semantic.ElaborateWithConfig(tree, cfg)
	if !ok {
		return nil, diags, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	var layoutCfg *config.LayoutDefaults
	if cfg != nil {
		layoutCfg = &cfg.Layout
	}

	output, diags2, err := buildAndLayout(d, layoutCfg)
	diags = append(diags, diags2...)
	if err != nil {
		return nil, diags, err
	}
	if output == nil {
		return nil, diags, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	var buf bytes.Buffer
	if err := render.RenderSVG(&buf, output.LayeredOutput, output.drawer, d.BackgroundColor, DefaultMargin); err != nil {
		return nil, diags, fmt.Errorf("render: %w", err)
	}

	return &Result{Diagram: d, SVG: buf.Bytes()}, diags, nil
}

// composed bundles a LayeredOutput with the ArrowDrawer that produced
// it, since RenderSVG needs both to resolve each arrow's marker id.
type composed struct {
	drawable.LayeredOutput
	drawer *drawable.ArrowDrawer
}

// buildAndLayout runs the structure builder and layout engine matching
// d.Kind and composes the result into renderable layers. A nil
// *composed with a nil error means a builder reported diagnostics-only
// failure (already folded into the returned slice).
func buildAndLayout(d *semantic.Diagram, layoutCfg *config.LayoutDefaults) (*composed, []*diag.Diagnostic, error) {
	drawer := drawable.NewArrowDrawer()

	if d.Kind == semantic.SequenceDiagram {
		events, diags, ok := sequence.Build(d)
		if !ok {
			return nil, diags, nil
		}
		sl, layoutDiags, err := layout.BuildSequenceLayout(events, drawable.NewMonospaceMeasurer(), layoutCfg)
		diags = append(diags, layoutDiags...)
		if err != nil {
			return nil, diags, fmt.Errorf("sequence layout: %w", err)
		}
		return &composed{LayeredOutput: render.ComposeSequence(sl, drawer), drawer: drawer}, diags, nil
	}

	g, diags, ok := component.Build(d)
	if !ok {
		return nil, diags, nil
	}
	cl, err := layout.BuildComponentLayout(g, d.LayoutEngine, drawable.NewMonospaceMeasurer(), layoutCfg)
	if err != nil {
		return nil, diags, fmt.Errorf("component layout: %w", err)
	}
	return &composed{LayeredOutput: render.ComposeComponent(cl, drawer), drawer: drawer}, diags, nil
}
