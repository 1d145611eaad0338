package drawable

import (
	"github.com/dshills/diagc/pkg/geom"
	"github.com/dshills/diagc/pkg/style"
)

// ActivationBox is a positioned activation rectangle on a participant's
// lifeline (§4.8). NestingLevel only affects layout (the sequence
// layout engine offsets nested boxes horizontally by
// proto.NestingOffset before handing this to RenderToLayers); by the
// time it's a drawable, the offset is already folded into origin.X.
type ActivationBox struct {
	Height float64
	Proto  *style.ActivationBoxDef
}

// RenderToLayers draws ActivationBox centered at origin onto the
// ActivationBox layer.
func (a ActivationBox) RenderToLayers(origin geom.Point) LayeredOutput {
	var out LayeredOutput
	width := 10.0
	var fill *string
	var stroke *style.StrokeDef
	if a.Proto != nil {
		width = a.Proto.Width
		stroke = a.Proto.Stroke
		fill = &a.Proto.FillColor
	}
	out.Add(ActivationBoxLayer, SvgNode{
		Kind: NodeRect,
		X:    origin.X - width/2, Y: origin.Y - a.Height/2,
		W: width, H: a.Height,
		Style: shapeStyle(fill, stroke),
	})
	return out
}
