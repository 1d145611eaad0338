package render

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/dshills/diagc/pkg/drawable"
	"github.com/dshills/diagc/pkg/geom"
)

// allLayers lists every Layer in canonical back-to-front paint order
// (§4.9). drawable.Layer's own iota values already encode this order;
// this slice just names them for range loops outside the package.
var allLayers = []drawable.Layer{
	drawable.Background,
	drawable.FragmentLayer,
	drawable.LifelineLayer,
	drawable.ShapeLayer,
	drawable.ActivationBoxLayer,
	drawable.ArrowLayer,
	drawable.TextLayer,
	drawable.NoteLayer,
}

const defaultMargin = 20

// RenderSVG serializes output (plus drawer's observed arrowhead
// markers) into an SVG document written to w, sized to output's own
// content bounds plus margin on every side. backgroundColor is the
// diagram's resolved `background_color` attribute, or nil for plain
// white — matching the teacher's export package filling the canvas
// before drawing anything onto it.
func RenderSVG(w io.Writer, output drawable.LayeredOutput, drawer *drawable.ArrowDrawer, backgroundColor *string, margin int) error {
	if margin < 0 {
		margin = defaultMargin
	}
	bounds, hasContent := contentBounds(output)

	width, height := 2*margin, 2*margin
	dx, dy := float64(margin), float64(margin)
	if hasContent {
		width += int(math.Ceil(bounds.Width()))
		height += int(math.Ceil(bounds.Height()))
		dx -= bounds.MinX
		dy -= bounds.MinY
	}
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}

	canvas := svg.New(w)
	canvas.Start(width, height)

	bg := "#ffffff"
	if backgroundColor != nil {
		bg = *backgroundColor
	}
	canvas.Rect(0, 0, width, height, fmt.Sprintf("fill:%s", bg))

	writeMarkerDefs(canvas, drawer.MarkerDefs())

	for _, layer := range allLayers {
		for _, n := range output.Nodes(layer) {
			drawNode(canvas, n, dx, dy)
		}
	}

	canvas.End()
	return nil
}

// writeMarkerDefs emits one reusable triangular arrowhead <marker> per
// distinct (color, direction) pair ArrowDrawer observed. svgo has no
// dedicated helper for a marker's inner path, so the definition is
// written directly to the canvas's own Writer between Def/DefEnd,
// the same raw-XML-between-group-calls idiom svgo's own Gstyle/Gend
// pair is built on.
func writeMarkerDefs(canvas *svg.SVG, markers []drawable.SvgNode) {
	if len(markers) == 0 {
		return
	}
	canvas.Def()
	for _, m := range markers {
		fmt.Fprintf(canvas.Writer,
			"<marker id=\"%s\" markerWidth=\"8\" markerHeight=\"8\" refX=\"7\" refY=\"4\" orient=\"auto\" markerUnits=\"userSpaceOnUse\"><path d=\"M0,0 L8,4 L0,8 Z\" fill=\"%s\"/></marker>\n",
			m.Id, m.MarkerColor)
	}
	canvas.DefEnd()
}

func drawNode(canvas *svg.SVG, n drawable.SvgNode, dx, dy float64) {
	switch n.Kind {
	case drawable.NodeRect:
		x, y := round(n.X+dx), round(n.Y+dy)
		w, h := round(n.W), round(n.H)
		if n.Rounded > 0 {
			canvas.Roundrect(x, y, w, h, n.Rounded, n.Rounded, n.Style)
		} else {
			canvas.Rect(x, y, w, h, n.Style)
		}
	case drawable.NodeEllipse:
		canvas.Ellipse(round(n.X+dx), round(n.Y+dy), round(n.W/2), round(n.H/2), n.Style)
	case drawable.NodePolyline:
		xs, ys := pointsToInts(n.Points, dx, dy)
		canvas.Polyline(xs, ys, withMarkerEnd(n.Style, n.MarkerEndID))
	case drawable.NodePolygon:
		xs, ys := pointsToInts(n.Points, dx, dy)
		canvas.Polygon(xs, ys, n.Style)
	case drawable.NodePath:
		canvas.Path(n.Path, n.Style)
	case drawable.NodeText:
		anchor := n.Anchor
		if anchor == "" {
			anchor = "middle"
		}
		style := fmt.Sprintf("text-anchor:%s;font-size:%dpx;font-family:%s;%s", anchor, n.FontSize, n.FontFamily, n.Style)
		canvas.Text(round(n.X+dx), round(n.Y+dy), n.Text, style)
	case drawable.NodeGroup:
		for _, c := range n.Children {
			drawNode(canvas, c, dx, dy)
		}
	case drawable.NodeMarkerDef:
		// Emitted once up front by writeMarkerDefs, not per occurrence.
	}
}

func withMarkerEnd(style, markerID string) string {
	if markerID == "" {
		return style
	}
	return fmt.Sprintf("%s;marker-end:url(#%s)", style, markerID)
}

func round(v float64) int {
	return int(math.Round(v))
}

func pointsToInts(points []geom.Point, dx, dy float64) ([]int, []int) {
	xs := make([]int, len(points))
	ys := make([]int, len(points))
	for i, p := range points {
		xs[i] = round(p.X + dx)
		ys[i] = round(p.Y + dy)
	}
	return xs, ys
}

// contentBounds computes the smallest Bounds covering every
// geometry-bearing SvgNode in output (Rect/Ellipse/Polyline/Polygon;
// text and raw paths are skipped, as their containing shape already
// covers the area that matters). Returns ok=false when output carries
// no such node, for an empty diagram's canvas to fall back to just
// its margin.
func contentBounds(output drawable.LayeredOutput) (geom.Bounds, bool) {
	var bounds geom.Bounds
	found := false
	for _, layer := range allLayers {
		for _, n := range output.Nodes(layer) {
			extendBounds(&bounds, &found, n)
		}
	}
	return bounds, found
}

func extendBounds(bounds *geom.Bounds, found *bool, n drawable.SvgNode) {
	switch n.Kind {
	case drawable.NodeRect:
		mergeCorner(bounds, found, n.X, n.Y)
		mergeCorner(bounds, found, n.X+n.W, n.Y+n.H)
	case drawable.NodeEllipse:
		mergeCorner(bounds, found, n.X-n.W/2, n.Y-n.H/2)
		mergeCorner(bounds, found, n.X+n.W/2, n.Y+n.H/2)
	case drawable.NodePolyline, drawable.NodePolygon:
		for _, p := range n.Points {
			mergeCorner(bounds, found, p.X, p.Y)
		}
	case drawable.NodeGroup:
		for _, c := range n.Children {
			extendBounds(bounds, found, c)
		}
	}
}

func mergeCorner(bounds *geom.Bounds, found *bool, x, y float64) {
	if !*found {
		*bounds = geom.Bounds{MinX: x, MinY: y, MaxX: x, MaxY: y}
		*found = true
		return
	}
	*bounds = bounds.Merge(geom.Bounds{MinX: x, MinY: y, MaxX: x, MaxY: y})
}
