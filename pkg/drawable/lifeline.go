package drawable

import (
	"github.com/dshills/diagc/pkg/geom"
	"github.com/dshills/diagc/pkg/style"
)

// Lifeline is the vertical line extending down from a sequence
// participant's shape. Top and Bottom are absolute y-coordinates;
// origin.X is the participant's center x.
type Lifeline struct {
	Top, Bottom float64
	Proto       *style.LifelineDef
}

// RenderToLayers draws Lifeline onto the Lifeline layer.
func (l Lifeline) RenderToLayers(origin geom.Point) LayeredOutput {
	var out LayeredOutput
	var stroke *style.StrokeDef
	if l.Proto != nil {
		stroke = l.Proto.Stroke
	}
	out.Add(LifelineLayer, SvgNode{
		Kind: NodePolyline,
		Points: []geom.Point{
			{X: origin.X, Y: l.Top},
			{X: origin.X, Y: l.Bottom},
		},
		Style: strokeStyle(stroke) + ";fill:none",
	})
	return out
}
