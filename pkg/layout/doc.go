// Package layout assigns coordinates: the component layout engine
// (§4.7, basic row or Sugiyama-style layered placement) turns a
// pkg/component Graph into positioned drawables, and the sequence
// layout engine (§4.8) walks a pkg/sequence event stream maintaining a
// y-cursor and per-participant activation stacks. Both engines are the
// last stage before pkg/render: their output is already in absolute
// coordinates.
package layout
