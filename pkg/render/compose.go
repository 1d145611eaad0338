package render

import (
	"sort"

	"github.com/dshills/diagc/pkg/drawable"
	"github.com/dshills/diagc/pkg/geom"
	"github.com/dshills/diagc/pkg/ident"
	"github.com/dshills/diagc/pkg/layout"
)

// ComposeComponent flattens every containment scope of a component
// layout into one world-space LayeredOutput, observing every relation
// arrow's marker on drawer along the way. Scopes are visited in sorted
// key order for deterministic output; paint order within a layer only
// matters where two drawables actually overlap, which §4.7's
// non-overlapping placement already avoids.
func ComposeComponent(l *layout.ComponentLayout, drawer *drawable.ArrowDrawer) drawable.LayeredOutput {
	var out drawable.LayeredOutput
	for _, key := range sortedScopeKeys(l.Scopes) {
		sl := l.Scopes[key]
		for _, c := range sl.Components {
			out = out.Merge(c.Composite.RenderToLayers(c.Center))
		}
		for _, r := range sl.Relations {
			drawer.Observe(r.Composite.Arrow)
			out = out.Merge(r.Composite.RenderToLayers(geom.Point{}))
		}
		for _, n := range sl.Notes {
			out = out.Merge(n.Composite.RenderToLayers(geom.Point{X: n.CenterX, Y: n.CenterY}))
		}
	}
	return out
}

func sortedScopeKeys(scopes map[ident.Id]*layout.ScopeLayout) []ident.Id {
	keys := make([]ident.Id, 0, len(scopes))
	for k := range scopes {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// ComposeSequence flattens a sequence layout into one LayeredOutput:
// every participant's shape and lifeline, every fragment, activation,
// message, and note, each rendered at the position the sequence layout
// engine already computed (§4.8). Participants' shapes are drawn
// centered at y=0 in the layout engine's own coordinate frame, with
// their lifelines extending down from there.
func ComposeSequence(l *layout.SequenceLayout, drawer *drawable.ArrowDrawer) drawable.LayeredOutput {
	var out drawable.LayeredOutput
	for _, p := range l.Participants {
		out = out.Merge(p.Composite.RenderToLayers(geom.Point{X: p.CenterX, Y: 0}))
		out = out.Merge(p.Lifeline.RenderToLayers(geom.Point{X: p.CenterX}))
	}
	for _, f := range l.Fragments {
		out = out.Merge(f.Composite.RenderToLayers(f.Origin))
	}
	for _, a := range l.Activations {
		out = out.Merge(a.Composite.RenderToLayers(geom.Point{X: a.CenterX, Y: a.CenterY}))
	}
	for _, m := range l.Messages {
		drawer.Observe(m.Composite.Arrow)
		out = out.Merge(m.Composite.RenderToLayers(geom.Point{}))
	}
	for _, n := range l.Notes {
		out = out.Merge(n.Composite.RenderToLayers(geom.Point{X: n.CenterX, Y: n.CenterY}))
	}
	return out
}
