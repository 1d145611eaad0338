package drawable

import (
	"github.com/dshills/diagc/pkg/geom"
	"github.com/dshills/diagc/pkg/style"
)

// FragmentSection is one section divider/title inside a drawn
// Fragment, at a y-offset relative to the fragment's own top.
type FragmentSection struct {
	Title  *string
	TopY   float64 // y-offset from the fragment's top, 0 for the first section
}

// Fragment is a positioned combined-fragment box (alt/opt/loop/par/…).
// Size is the fragment's full outer bounds; origin is its top-left
// corner (fragments, unlike most drawables, are positioned by corner
// rather than center, matching how their bounds are accumulated from
// message endpoints in §4.8).
type Fragment struct {
	Size      geom.Size
	Operation string
	Sections  []FragmentSection
	Proto     *style.FragmentDef
}

// RenderToLayers draws Fragment's border, operation label, and section
// dividers onto the Fragment layer (border/dividers) and Text layer
// (labels).
func (f Fragment) RenderToLayers(origin geom.Point) LayeredOutput {
	var out LayeredOutput
	var bg *string
	var border *style.StrokeDef
	var sep *style.StrokeDef
	var opText, sectionText *style.TextDef
	if f.Proto != nil {
		bg = f.Proto.BackgroundColor
		border = f.Proto.BorderStroke
		sep = f.Proto.SeparatorStroke
		opText = f.Proto.OperationLabelText
		sectionText = f.Proto.SectionTitleText
	}
	out.Add(FragmentLayer, SvgNode{
		Kind: NodeRect, X: origin.X, Y: origin.Y, W: f.Size.W, H: f.Size.H,
		Style: shapeStyle(bg, border),
	})
	if f.Operation != "" {
		label := Text{Content: f.Operation, Proto: opText, Anchor: "start"}
		out = out.Merge(label.RenderToLayers(geom.Point{X: origin.X + 8, Y: origin.Y + 14}))
	}
	for i, s := range f.Sections {
		if i > 0 {
			out.Add(FragmentLayer, SvgNode{
				Kind: NodePolyline,
				Points: []geom.Point{
					{X: origin.X, Y: origin.Y + s.TopY},
					{X: origin.X + f.Size.W, Y: origin.Y + s.TopY},
				},
				Style: strokeStyle(sep) + ";fill:none",
			})
		}
		if s.Title != nil {
			label := Text{Content: *s.Title, Proto: sectionText, Anchor: "start"}
			out = out.Merge(label.RenderToLayers(geom.Point{X: origin.X + 8, Y: origin.Y + s.TopY + 14}))
		}
	}
	return out
}
