// Package render turns a layout engine's positioned output into an SVG
// document (§4.9). Composing a LayeredOutput from a ComponentLayout or
// SequenceLayout is purely a matter of walking its positioned drawables
// and calling RenderToLayers at the position the layout engine already
// computed; serializing that LayeredOutput to markup is the only part
// that touches github.com/ajstarks/svgo directly.
package render
