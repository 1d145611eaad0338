// Package drawable holds the renderable primitives §4.9 describes:
// shape/arrow/text/lifeline/activation-box/fragment/note drawables that
// each emit into one or more fixed z-order layers, plus the composites
// (ShapeWithText, ArrowWithText) the layout engines build them into.
// Everything here is a pure value — no drawable talks to an SVG
// library directly; pkg/render walks the LayeredOutput a drawable
// produces and serializes it.
package drawable
