package drawable

import (
	"fmt"
	"sort"

	"github.com/dshills/diagc/pkg/geom"
	"github.com/dshills/diagc/pkg/semantic"
	"github.com/dshills/diagc/pkg/style"
)

// Arrow draws a line between two already-resolved endpoints, with an
// arrowhead at whichever end(s) Direction calls for.
type Arrow struct {
	Source    geom.Point
	Target    geom.Point
	Proto     *style.ArrowDef
	Direction semantic.Direction
}

// arrowColor returns the stroke color an ArrowDrawer keys its marker
// registry on; arrows with no stroke fall back to black, matching
// strokeStyle's nil-stroke rendering.
func arrowColor(proto *style.ArrowDef) string {
	if proto == nil || proto.Stroke == nil {
		return "#000000"
	}
	return proto.Stroke.Color
}

func headAtTarget(dir semantic.Direction) bool {
	return dir == semantic.DirForward || dir == semantic.DirBidirectional
}

func headAtSource(dir semantic.Direction) bool {
	return dir == semantic.DirBackward || dir == semantic.DirBidirectional
}

// RenderToLayers draws Arrow's line onto the Arrow layer. origin is
// ignored: both endpoints are already resolved to absolute
// coordinates by the layout engine (unlike other drawables, an arrow
// has no single natural "position").
func (a Arrow) RenderToLayers(_ geom.Point) LayeredOutput {
	var out LayeredOutput
	stroke := a.Proto.Stroke
	line := SvgNode{
		Kind:   NodePolyline,
		Points: []geom.Point{a.Source, a.Target},
		Style:  strokeStyle(stroke) + ";fill:none",
	}
	if headAtTarget(a.Direction) {
		line.MarkerEndID = markerID(arrowColor(a.Proto), "forward")
	}
	out.Add(ArrowLayer, line)
	if headAtSource(a.Direction) {
		reversed := SvgNode{
			Kind:        NodePolyline,
			Points:      []geom.Point{a.Target, a.Source},
			Style:       "stroke:none;fill:none",
			MarkerEndID: markerID(arrowColor(a.Proto), "backward"),
		}
		out.Add(ArrowLayer, reversed)
	}
	return out
}

func markerID(color, direction string) string {
	return fmt.Sprintf("arrowhead-%s-%s", sanitizeColor(color), direction)
}

func sanitizeColor(color string) string {
	out := make([]rune, 0, len(color))
	for _, r := range color {
		if r == '#' {
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

// ArrowDrawer collects the unique (color, direction) pairs it sees
// across every Arrow in a diagram and emits one reusable SVG marker
// definition per pair (§4.9), rather than a fresh marker per arrow.
type ArrowDrawer struct {
	seen map[string]SvgNode
}

// NewArrowDrawer returns an empty ArrowDrawer.
func NewArrowDrawer() *ArrowDrawer {
	return &ArrowDrawer{seen: make(map[string]SvgNode)}
}

// Observe registers a's arrowhead marker(s), if not already seen.
func (d *ArrowDrawer) Observe(a Arrow) {
	color := arrowColor(a.Proto)
	if headAtTarget(a.Direction) {
		d.register(color, "forward")
	}
	if headAtSource(a.Direction) {
		d.register(color, "backward")
	}
}

func (d *ArrowDrawer) register(color, direction string) {
	id := markerID(color, direction)
	if _, ok := d.seen[id]; ok {
		return
	}
	d.seen[id] = SvgNode{Kind: NodeMarkerDef, Id: id, MarkerColor: color}
}

// MarkerDefs returns every distinct marker definition observed so far,
// sorted by Id for deterministic output, to be emitted once into the
// SVG document's defs section.
func (d *ArrowDrawer) MarkerDefs() []SvgNode {
	ids := make([]string, 0, len(d.seen))
	for id := range d.seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]SvgNode, 0, len(ids))
	for _, id := range ids {
		out = append(out, d.seen[id])
	}
	return out
}
