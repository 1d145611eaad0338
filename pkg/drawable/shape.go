package drawable

import (
	"math"

	"github.com/dshills/diagc/pkg/geom"
	"github.com/dshills/diagc/pkg/style"
)

// TextPositioningStrategy controls whether a shape's header text lives
// inside its content area or below the shape's own outline (§4.9).
type TextPositioningStrategy int

const (
	InContent TextPositioningStrategy = iota
	BelowShape
)

// textStrategyFor decides a shape kind's header placement. The
// "icon" shapes — Actor, Control, Interface — are small, symbolic
// outlines with no room for an inline header, so their label is drawn
// below the icon instead; the "box" shapes — Rectangle, Oval,
// Component, Boundary, Entity — have room, so their header goes inside
// (and, per §4.9, reserves content-area space for it).
func textStrategyFor(k style.ShapeKind) TextPositioningStrategy {
	switch k {
	case style.ShapeActor, style.ShapeControl, style.ShapeInterface:
		return BelowShape
	default:
		return InContent
	}
}

// ShapeGeometry is a shape kind's sizing and outline behavior (§4.9),
// independent of any particular instance's style — the layout engine
// consults it while sizing nodes, before any drawable is built.
type ShapeGeometry struct {
	Kind            style.ShapeKind
	Padding         geom.Insets
	SupportsContent bool
	TextStrategy    TextPositioningStrategy

	// HeaderHeight is the vertical space InContent reserves for a
	// header line; BelowShape ignores it (the header sits outside the
	// shape's own bounds entirely).
	HeaderHeight float64

	// ContentSize is the size available for nested content/inner text
	// once padding (and, for InContent, the header) are subtracted.
	// OuterSize is HeaderHeight (if InContent) + padding + ContentSize.
	ContentSize geom.Size
}

// NewShapeGeometry builds the geometry for a shape prototype sized to
// hold content of contentSize (zero for a leaf shape with no nested
// elements or embedded diagram). padding is the caller's configured
// container padding (§4.9's "container padding" default, overridable
// per diagram via config.LayoutDefaults.ContainerPadding).
func NewShapeGeometry(proto *style.ShapeDef, contentSize geom.Size, headerHeight float64, padding geom.Insets) ShapeGeometry {
	strategy := textStrategyFor(proto.Kind)
	g := ShapeGeometry{
		Kind:            proto.Kind,
		Padding:         padding,
		SupportsContent: proto.SupportsContent,
		TextStrategy:    strategy,
		ContentSize:     contentSize,
	}
	if strategy == InContent && headerHeight > 0 {
		g.HeaderHeight = headerHeight
	}
	return g
}

// InnerSize is the content area plus the header reservation, before
// padding is added back.
func (g ShapeGeometry) InnerSize() geom.Size {
	return geom.Size{
		W: g.ContentSize.W,
		H: g.ContentSize.H + g.HeaderHeight,
	}
}

// OuterSize is the shape's full external bounds.
func (g ShapeGeometry) OuterSize() geom.Size {
	inner := g.InnerSize()
	return geom.Size{
		W: inner.W + g.Padding.HorizontalSum(),
		H: inner.H + g.Padding.VerticalSum(),
	}
}

// ContentBounds is the area nested content/embedded diagrams are
// placed into, relative to the shape's own center-origin coordinate
// frame.
func (g ShapeGeometry) ContentBounds(center geom.Point) geom.Bounds {
	outer := g.OuterSize()
	top := center.Y - outer.H/2 + g.Padding.Top + g.HeaderHeight
	left := center.X - outer.W/2 + g.Padding.Left
	return geom.FromTopLeftSize(geom.Point{X: left, Y: top}, g.ContentSize)
}

// FindIntersection returns the point where the ray from externalPoint
// through center crosses the shape's outline, sized to totalSize.
// Rectangle-like kinds intersect a rectangle's border; Oval/Actor
// (round outlines) intersect an ellipse.
func FindIntersection(kind style.ShapeKind, center geom.Point, externalPoint geom.Point, totalSize geom.Size) geom.Point {
	dx := externalPoint.X - center.X
	dy := externalPoint.Y - center.Y
	if dx == 0 && dy == 0 {
		return center
	}
	switch kind {
	case style.ShapeOval, style.ShapeActor:
		return ellipseIntersection(center, dx, dy, totalSize)
	default:
		return rectIntersection(center, dx, dy, totalSize)
	}
}

func rectIntersection(center geom.Point, dx, dy float64, size geom.Size) geom.Point {
	halfW, halfH := size.W/2, size.H/2
	if halfW == 0 || halfH == 0 {
		return center
	}
	scaleX := math.Inf(1)
	if dx != 0 {
		scaleX = halfW / math.Abs(dx)
	}
	scaleY := math.Inf(1)
	if dy != 0 {
		scaleY = halfH / math.Abs(dy)
	}
	scale := math.Min(scaleX, scaleY)
	return geom.Point{X: center.X + dx*scale, Y: center.Y + dy*scale}
}

func ellipseIntersection(center geom.Point, dx, dy float64, size geom.Size) geom.Point {
	a, b := size.W/2, size.H/2
	if a == 0 || b == 0 {
		return center
	}
	denom := math.Sqrt((dx*dx)/(a*a) + (dy*dy)/(b*b))
	if denom == 0 {
		return center
	}
	scale := 1 / denom
	return geom.Point{X: center.X + dx*scale, Y: center.Y + dy*scale}
}

// Shape is the outline drawable for one component/participant node.
type Shape struct {
	Geometry ShapeGeometry
	Proto    *style.ShapeDef
}

// RenderToLayers draws Shape's outline, centered at origin, onto the
// Shape layer.
func (s Shape) RenderToLayers(origin geom.Point) LayeredOutput {
	var out LayeredOutput
	size := s.Geometry.OuterSize()
	sty := shapeStyle(s.Proto.FillColor, s.Proto.Stroke)
	switch s.Proto.Kind {
	case style.ShapeOval, style.ShapeActor:
		out.Add(ShapeLayer, SvgNode{
			Kind: NodeEllipse, X: origin.X, Y: origin.Y, W: size.W, H: size.H, Style: sty,
		})
	default:
		out.Add(ShapeLayer, SvgNode{
			Kind: NodeRect,
			X:    origin.X - size.W/2, Y: origin.Y - size.H/2,
			W: size.W, H: size.H, Rounded: s.Proto.Rounded,
			Style: sty,
		})
	}
	return out
}
