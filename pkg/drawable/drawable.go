package drawable

import "github.com/dshills/diagc/pkg/geom"

// Drawable is anything that can render itself into layered SVG nodes
// once placed at a position. Shape, ShapeWithText, Arrow,
// ArrowWithText, Text, Lifeline, ActivationBox, Fragment, and Note all
// implement it.
type Drawable interface {
	RenderToLayers(origin geom.Point) LayeredOutput
}

// Positioned pairs a Drawable with where to render it — the
// PositionedDrawable<D> of §4.9, generalized over Go's single Drawable
// interface instead of a type parameter, since nothing here needs
// Drawable-specific fields back out once placed.
type Positioned struct {
	Pos      geom.Point
	Drawable Drawable
}

// RenderToLayers delegates to the wrapped Drawable at its stored
// position.
func (p Positioned) RenderToLayers() LayeredOutput {
	return p.Drawable.RenderToLayers(p.Pos)
}
