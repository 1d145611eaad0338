package drawable

import (
	"github.com/dshills/diagc/pkg/geom"
	"github.com/dshills/diagc/pkg/style"
)

// Note is a positioned annotation box (§3.6/§4.8). Size is the box's
// outer bounds; origin is its center, matching every other
// center-positioned drawable.
type Note struct {
	Size    geom.Size
	Content string
	Proto   *style.NoteDef
}

// RenderToLayers draws Note's box and content onto the Note layer.
func (n Note) RenderToLayers(origin geom.Point) LayeredOutput {
	var out LayeredOutput
	var bg *string
	var stroke *style.StrokeDef
	var text *style.TextDef
	if n.Proto != nil {
		bg = n.Proto.BackgroundColor
		stroke = n.Proto.Stroke
		text = n.Proto.Text
	}
	out.Add(NoteLayer, SvgNode{
		Kind: NodeRect,
		X:    origin.X - n.Size.W/2, Y: origin.Y - n.Size.H/2,
		W: n.Size.W, H: n.Size.H,
		Style: shapeStyle(bg, stroke),
	})
	label := Text{Content: n.Content, Proto: text}
	return out.Merge(label.RenderToLayers(origin))
}
