package drawable

import (
	"github.com/dshills/diagc/pkg/geom"
)

// ShapeWithText wraps a Shape plus an optional header/caption Text
// (§4.9). Header placement follows the shape's TextPositioningStrategy:
// InContent reserves vertical space inside the shape (already folded
// into Geometry.HeaderHeight by the time this is built); BelowShape
// draws the header entirely outside the shape's own outline.
type ShapeWithText struct {
	Shape  Shape
	Header *Text
}

// ContentBounds exposes the area available to nested content/embedded
// diagrams, relative to origin (§4.9).
func (s ShapeWithText) ContentBounds(origin geom.Point) geom.Bounds {
	return s.Shape.Geometry.ContentBounds(origin)
}

// RenderToLayers draws the shape outline and, if present, its header.
func (s ShapeWithText) RenderToLayers(origin geom.Point) LayeredOutput {
	out := s.Shape.RenderToLayers(origin)
	if s.Header == nil {
		return out
	}
	size := s.Shape.Geometry.OuterSize()
	var headerOrigin geom.Point
	switch s.Shape.Geometry.TextStrategy {
	case BelowShape:
		headerOrigin = geom.Point{X: origin.X, Y: origin.Y + size.H/2 + s.Shape.Geometry.HeaderHeight}
	default: // InContent
		headerOrigin = geom.Point{
			X: origin.X,
			Y: origin.Y - size.H/2 + s.Shape.Geometry.Padding.Top + s.Shape.Geometry.HeaderHeight/2,
		}
	}
	return out.Merge(s.Header.RenderToLayers(headerOrigin))
}

// ArrowWithText wraps an Arrow plus an optional label rendered at the
// midpoint between its source and target.
type ArrowWithText struct {
	Arrow Arrow
	Label *Text
}

func midpoint(a, b geom.Point) geom.Point {
	return geom.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// RenderToLayers draws the arrow and, if present, its midpoint label.
func (a ArrowWithText) RenderToLayers(origin geom.Point) LayeredOutput {
	out := a.Arrow.RenderToLayers(origin)
	if a.Label == nil {
		return out
	}
	mid := midpoint(a.Arrow.Source, a.Arrow.Target)
	return out.Merge(a.Label.RenderToLayers(mid))
}
