package drawable

import "github.com/dshills/diagc/pkg/geom"

// NodeKind tags which concrete SVG primitive an SvgNode represents.
type NodeKind int

const (
	NodeRect NodeKind = iota
	NodeEllipse
	NodePolyline
	NodePolygon
	NodePath
	NodeText
	NodeGroup
	NodeMarkerDef
)

// SvgNode is a declarative, library-agnostic description of one SVG
// primitive (or a group of them). pkg/render is the only package that
// translates an SvgNode tree into actual SVG markup.
type SvgNode struct {
	Kind NodeKind

	// Rect/Ellipse: X,Y is the top-left corner (Rect) or center
	// (Ellipse); W,H are width/height (Rect) or the full horizontal
	// and vertical diameters (Ellipse). Rounded is Rect's corner
	// radius.
	X, Y, W, H float64
	Rounded    int

	// Polyline/Polygon/Path.
	Points []geom.Point
	Path   string // raw "M…L…" path data, used for curved/orthogonal arrows

	// Text.
	Text       string
	FontFamily string
	FontSize   int
	Anchor     string // "start" | "middle" | "end"
	Baseline   string // "auto" | "middle" | "hanging"

	// Style is a raw CSS-style declaration string (e.g.
	// "fill:#fff;stroke:#000;stroke-width:1"), matching the inline
	// style idiom svgo's drawing calls take directly.
	Style string

	// MarkerEndID references a NodeMarkerDef's Id, drawing an
	// arrowhead at the node's terminal point.
	MarkerEndID string

	// MarkerDef fields (Kind == NodeMarkerDef): a reusable <marker>
	// definition, emitted once per unique (color, direction) pair by
	// ArrowDrawer.
	Id          string
	MarkerColor string

	// Group.
	Children []SvgNode
}

// Group wraps children as a single SvgNode, for drawables composed of
// multiple primitives (a shape's outline plus its header text, say).
func Group(children ...SvgNode) SvgNode {
	return SvgNode{Kind: NodeGroup, Children: children}
}
