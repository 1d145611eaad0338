package layout

import (
	"fmt"
	"math"

	"github.com/dshills/diagc/pkg/component"
	"github.com/dshills/diagc/pkg/config"
	"github.com/dshills/diagc/pkg/drawable"
	"github.com/dshills/diagc/pkg/geom"
	"github.com/dshills/diagc/pkg/ident"
	"github.com/dshills/diagc/pkg/semantic"
)

// PositionedComponent is one node placed within its scope's local
// coordinate frame (origin at the scope's own top-left corner, before
// the final container-positioning pass translates it into world
// coordinates).
type PositionedComponent struct {
	Node      *component.Node
	Center    geom.Point
	Composite drawable.ShapeWithText
}

// PositionedRelation is a resolved edge, already indexed into its
// scope's Components slice (§4.7: "each LayoutRelation stores
// source/target component indices for the render step").
type PositionedRelation struct {
	SourceIndex, TargetIndex int
	Composite                drawable.ArrowWithText
}

// ScopeLayout is one containment scope's positioned content, in its
// own local coordinate frame.
type ScopeLayout struct {
	Components []PositionedComponent
	Relations  []PositionedRelation
	Notes      []PositionedNote
	Size       geom.Size
}

// ComponentLayout is every scope's layout, translated into one shared
// world coordinate frame by the final container-positioning pass
// (§4.7 step 5).
type ComponentLayout struct {
	Scopes map[ident.Id]*ScopeLayout
	Root   ident.Id
}

// BuildComponentLayout runs the component layout engine (§4.7) over g,
// producing positioned drawables for every containment scope. A nil
// cfg falls back to config.DefaultLayoutDefaults.
func BuildComponentLayout(g *component.Graph, engine semantic.LayoutEngine, measurer drawable.TextMeasurer, cfg *config.LayoutDefaults) (*ComponentLayout, error) {
	if cfg == nil {
		d := config.DefaultLayoutDefaults()
		cfg = &d
	}
	scopes := g.ContainmentScopes()
	sizes := make(map[ident.Id]geom.Size)     // child-scope Size, keyed by the scope's own key
	layouts := make(map[ident.Id]*ScopeLayout) // keyed the same way

	for _, scope := range scopes {
		key := scopeKey(scope)
		sl, err := buildScopeLayout(g, key, scope, sizes, engine, measurer, cfg)
		if err != nil {
			return nil, fmt.Errorf("component layout: scope %q: %w", key, err)
		}
		layouts[key] = sl
		sizes[key] = sl.Size
	}

	out := &ComponentLayout{Scopes: layouts, Root: component.RootScopeKey()}
	positionContainers(g, out)
	return out, nil
}

func scopeKey(scope *component.Scope) ident.Id {
	if scope.Container == nil {
		return component.RootScopeKey()
	}
	return scope.Container.Key
}

func buildScopeLayout(
	g *component.Graph,
	key ident.Id,
	scope *component.Scope,
	sizes map[ident.Id]geom.Size,
	engine semantic.LayoutEngine,
	measurer drawable.TextMeasurer,
	cfg *config.LayoutDefaults,
) (*ScopeLayout, error) {
	nodes := g.ScopeNodes(key)
	components := make([]PositionedComponent, 0, len(nodes))
	indexOf := make(map[ident.Id]int, len(nodes))

	for _, n := range nodes {
		displayName := n.Name
		if n.DisplayName != nil {
			displayName = *n.DisplayName
		}
		var contentSize geom.Size
		if n.ChildScopeKey != nil {
			contentSize = sizes[*n.ChildScopeKey]
		}
		var headerHeight float64
		if displayName != "" {
			headerHeight = measurer.Measure(displayName, cfg.HeaderFontSize, cfg.HeaderFontFamily).H
		}
		geometry := drawable.NewShapeGeometry(n.ShapeProto, contentSize, headerHeight, geom.Uniform(cfg.ContainerPadding))
		var header *drawable.Text
		if displayName != "" {
			header = &drawable.Text{Content: displayName, Proto: n.ShapeProto.Text}
		}
		composite := drawable.ShapeWithText{
			Shape:  drawable.Shape{Geometry: geometry, Proto: n.ShapeProto},
			Header: header,
		}
		indexOf[n.Key] = len(components)
		components = append(components, PositionedComponent{Node: n, Composite: composite})
	}

	var err error
	switch {
	case len(components) == 0:
		// nothing to place.
	case len(g.ScopeRelations(key)) == 0 || engine == semantic.LayoutBasic:
		placeRow(components, cfg)
	default:
		err = placeSugiyama(components, localEdges(g, key, components, indexOf), cfg)
	}
	if err != nil {
		return nil, err
	}

	relations := make([]PositionedRelation, 0, len(g.ScopeRelations(key)))
	for _, e := range g.ScopeRelations(key) {
		srcNode := ancestorInScope(g, e.Source, key)
		tgtNode := ancestorInScope(g, e.Target, key)
		si, sok := indexOf[srcNode.Key]
		ti, tok := indexOf[tgtNode.Key]
		if !sok || !tok {
			continue
		}
		relations = append(relations, PositionedRelation{
			SourceIndex: si,
			TargetIndex: ti,
			Composite:   buildRelationDrawable(components[si], components[ti], e),
		})
	}

	centerAtOrigin(components)
	notes := placeScopeNotes(g, key, components, indexOf, measurer, cfg)
	return &ScopeLayout{Components: components, Relations: relations, Notes: notes, Size: boundingSize(components)}, nil
}

// placeScopeNotes positions the notes attached directly to scope key
// (§3.6/§4.7): a note naming participants in `on` centers over the
// average of their (already-placed) centers, offset per its
// alignment; a margin note (on=[]) sits outside the scope's whole
// bounding box on the edge its alignment names.
func placeScopeNotes(g *component.Graph, key ident.Id, components []PositionedComponent, indexOf map[ident.Id]int, measurer drawable.TextMeasurer, cfg *config.LayoutDefaults) []PositionedNote {
	var out []PositionedNote
	for _, nr := range g.ScopeNotes(key) {
		size := measurer.Measure(nr.Content, cfg.HeaderFontSize, cfg.HeaderFontFamily)
		size.W += 20
		size.H += 16
		composite := drawable.Note{Size: size, Content: nr.Content, Proto: nr.NoteProto}

		if len(nr.On) == 0 {
			cx, cy := marginNotePosition(components, nr.Alignment, size, cfg)
			out = append(out, PositionedNote{CenterX: cx, CenterY: cy, Composite: composite})
			continue
		}

		sumX, minY, maxY, count := 0.0, math.Inf(1), math.Inf(-1), 0
		for _, n := range nr.On {
			anchor := ancestorInScope(g, n, key)
			idx, ok := indexOf[anchor.Key]
			if !ok {
				continue
			}
			c := components[idx]
			sz := c.Composite.Shape.Geometry.OuterSize()
			sumX += c.Center.X
			minY = math.Min(minY, c.Center.Y-sz.H/2)
			maxY = math.Max(maxY, c.Center.Y+sz.H/2)
			count++
		}
		if count == 0 {
			continue
		}
		cx := sumX / float64(count)
		cy := maxY + cfg.ContainerPadding + size.H/2
		if nr.Alignment == semantic.AlignTop {
			cy = minY - cfg.ContainerPadding - size.H/2
		}
		out = append(out, PositionedNote{CenterX: cx, CenterY: cy, Composite: composite})
	}
	return out
}

// marginNotePosition places a margin note (no `on` targets) just
// outside the whole scope's bounding box, on the edge its alignment
// names — Bottom (component diagrams' default) and Over both sit
// below, since a 2-D containment scope has no single natural "over"
// position the way a sequence diagram's y-cursor does.
func marginNotePosition(components []PositionedComponent, align semantic.Alignment, size geom.Size, cfg *config.LayoutDefaults) (float64, float64) {
	if len(components) == 0 {
		return 0, 0
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range components {
		sz := c.Composite.Shape.Geometry.OuterSize()
		minX = math.Min(minX, c.Center.X-sz.W/2)
		maxX = math.Max(maxX, c.Center.X+sz.W/2)
		minY = math.Min(minY, c.Center.Y-sz.H/2)
		maxY = math.Max(maxY, c.Center.Y+sz.H/2)
	}
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	switch align {
	case semantic.AlignTop:
		cy = minY - cfg.ContainerPadding - size.H/2
	case semantic.AlignLeft:
		cx = minX - cfg.ContainerPadding - size.W/2
	case semantic.AlignRight:
		cx = maxX + cfg.ContainerPadding + size.W/2
	default: // Bottom, Over
		cy = maxY + cfg.ContainerPadding + size.H/2
	}
	return cx, cy
}

// ancestorInScope climbs from n up through enclosing scopes until it
// reaches the node that is a direct member of the scope identified by
// key — the shape a cross-scope relation (attached to the
// common-ancestor scope per §4.5) actually connects to, since the
// real endpoint may be hidden inside a nested container.
func ancestorInScope(g *component.Graph, n *component.Node, key ident.Id) *component.Node {
	cur := n
	for cur.ScopeKey != key {
		container := g.ScopeContainer(cur.ScopeKey)
		if container == nil {
			return cur
		}
		cur = container
	}
	return cur
}

type localEdge struct {
	From, To int
}

func localEdges(g *component.Graph, key ident.Id, components []PositionedComponent, indexOf map[ident.Id]int) []localEdge {
	var out []localEdge
	for _, e := range g.ScopeRelations(key) {
		src := ancestorInScope(g, e.Source, key)
		tgt := ancestorInScope(g, e.Target, key)
		if src.Key == tgt.Key {
			continue // self-loop at this scope's granularity: drop per §4.7.
		}
		si, sok := indexOf[src.Key]
		ti, tok := indexOf[tgt.Key]
		if sok && tok {
			out = append(out, localEdge{From: si, To: ti})
		}
	}
	return out
}

func buildRelationDrawable(src, tgt PositionedComponent, e *component.Edge) drawable.ArrowWithText {
	sp := drawable.FindIntersection(src.Node.ShapeProto.Kind, src.Center, tgt.Center, src.Composite.Shape.Geometry.OuterSize())
	tp := drawable.FindIntersection(tgt.Node.ShapeProto.Kind, tgt.Center, src.Center, tgt.Composite.Shape.Geometry.OuterSize())
	arrow := drawable.Arrow{Source: sp, Target: tp, Proto: e.ArrowProto, Direction: e.Direction}
	var label *drawable.Text
	if e.Label != nil {
		label = &drawable.Text{Content: *e.Label, Proto: e.ArrowProto.Text}
	}
	return drawable.ArrowWithText{Arrow: arrow, Label: label}
}

// placeRow lays components out on a single row (§4.7's Basic engine,
// and the no-edges fallback for Sugiyama), respecting
// horizontal_spacing + max_width*0.5 between centers.
func placeRow(components []PositionedComponent, cfg *config.LayoutDefaults) {
	x := 0.0
	y := 0.8 * cfg.VerticalSpacing
	for i := range components {
		size := components[i].Composite.Shape.Geometry.OuterSize()
		if i == 0 {
			x = size.W / 2
		} else {
			prevSize := components[i-1].Composite.Shape.Geometry.OuterSize()
			x += cfg.HorizontalSpacing + math.Max(prevSize.W, size.W)*0.5
		}
		components[i].Center = geom.Point{X: x, Y: y}
	}
}

func centerAtOrigin(components []PositionedComponent) {
	if len(components) == 0 {
		return
	}
	minX, minY := math.Inf(1), math.Inf(1)
	for _, c := range components {
		size := c.Composite.Shape.Geometry.OuterSize()
		minX = math.Min(minX, c.Center.X-size.W/2)
		minY = math.Min(minY, c.Center.Y-size.H/2)
	}
	dx, dy := -math.Min(minX, 0), -math.Min(minY, 0)
	if dx == 0 && dy == 0 {
		return
	}
	for i := range components {
		components[i].Center = components[i].Center.Add(dx, dy)
	}
}

func boundingSize(components []PositionedComponent) geom.Size {
	if len(components) == 0 {
		return geom.Size{}
	}
	maxX, maxY := 0.0, 0.0
	for _, c := range components {
		size := c.Composite.Shape.Geometry.OuterSize()
		maxX = math.Max(maxX, c.Center.X+size.W/2)
		maxY = math.Max(maxY, c.Center.Y+size.H/2)
	}
	return geom.Size{W: maxX, H: maxY}
}

// positionContainers performs the top-down pass of §4.7 step 5: each
// scope's contents are translated so they sit inside their container
// node's content rectangle in the container's own (already-translated)
// frame.
func positionContainers(g *component.Graph, out *ComponentLayout) {
	var walk func(key ident.Id, offset geom.Point)
	walk = func(key ident.Id, offset geom.Point) {
		sl, ok := out.Scopes[key]
		if !ok {
			return
		}
		for i := range sl.Components {
			c := &sl.Components[i]
			c.Center = c.Center.Add(offset.X, offset.Y)
			if c.Node.ChildScopeKey != nil {
				bounds := c.Composite.ContentBounds(c.Center)
				walk(*c.Node.ChildScopeKey, bounds.TopLeft())
			}
		}
		for i := range sl.Relations {
			r := &sl.Relations[i]
			r.Composite.Arrow.Source = r.Composite.Arrow.Source.Add(offset.X, offset.Y)
			r.Composite.Arrow.Target = r.Composite.Arrow.Target.Add(offset.X, offset.Y)
		}
		for i := range sl.Notes {
			n := &sl.Notes[i]
			n.CenterX += offset.X
			n.CenterY += offset.Y
		}
	}
	walk(out.Root, geom.Point{})
}
