package layout

import (
	"fmt"
	"math"
	"sort"

	"github.com/dshills/diagc/pkg/config"
	"github.com/dshills/diagc/pkg/geom"
)

// placeSugiyama runs a layered directed-graph layout over components'
// indices and edges (§4.7): nodes are assigned to layers by
// longest-path distance from a source, ordered within each layer by a
// barycenter heuristic to reduce crossings, then converted to real
// coordinates. There is no external layered-layout crate in this
// module's dependency stack, so the algorithm is a self-contained
// implementation rather than a call into one; see DESIGN.md.
func placeSugiyama(components []PositionedComponent, edges []localEdge, cfg *config.LayoutDefaults) error {
	n := len(components)
	if n == 0 {
		return nil
	}

	layer := assignLayers(n, edges)
	order := orderWithinLayers(n, edges, layer)

	avg := averageSize(components)
	vertexSpacing := clamp(avg/60, 2, 5)

	maxW, maxH := maxDimensions(components)
	effH := cfg.HorizontalSpacing*vertexSpacing + maxW*0.5
	effV := cfg.VerticalSpacing*vertexSpacing + maxH*0.5

	for i := range components {
		l := layer[i]
		pos := order[i]
		components[i].Center = geom.Point{
			X: float64(pos) * effH,
			Y: float64(l) * effV,
		}
	}

	if len(components) > 0 && allZero(components) {
		return fmt.Errorf("layered layout produced no usable positions for %d nodes", n)
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func averageSize(components []PositionedComponent) float64 {
	if len(components) == 0 {
		return 0
	}
	total := 0.0
	for _, c := range components {
		size := c.Composite.Shape.Geometry.OuterSize()
		total += (size.W + size.H) / 2
	}
	return total / float64(len(components))
}

func maxDimensions(components []PositionedComponent) (maxW, maxH float64) {
	for _, c := range components {
		size := c.Composite.Shape.Geometry.OuterSize()
		maxW = math.Max(maxW, size.W)
		maxH = math.Max(maxH, size.H)
	}
	return
}

func allZero(components []PositionedComponent) bool {
	for _, c := range components {
		if c.Center.X != 0 || c.Center.Y != 0 {
			return false
		}
	}
	return len(components) > 1 // a lone node legitimately sits at the origin
}

// assignLayers computes each node's layer via longest-path distance
// from a source (a node with no incoming local edge). Cycles are
// broken implicitly by capping relaxation at n rounds instead of
// iterating to a fixed point, so a cyclic scope still lays out instead
// of looping forever.
func assignLayers(n int, edges []localEdge) []int {
	layer := make([]int, n)
	for round := 0; round < n; round++ {
		changed := false
		for _, e := range edges {
			if layer[e.To] < layer[e.From]+1 {
				layer[e.To] = layer[e.From] + 1
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return layer
}

// orderWithinLayers assigns each node a dense position among its
// layer-mates, refined by a few barycenter sweeps against its
// neighbors' current positions to reduce edge crossings.
func orderWithinLayers(n int, edges []localEdge, layer []int) []int {
	byLayer := make(map[int][]int)
	for i := 0; i < n; i++ {
		byLayer[layer[i]] = append(byLayer[layer[i]], i)
	}

	position := make([]int, n)
	for _, nodes := range byLayer {
		for i, idx := range nodes {
			position[idx] = i
		}
	}

	preds := make([][]int, n)
	succs := make([][]int, n)
	for _, e := range edges {
		succs[e.From] = append(succs[e.From], e.To)
		preds[e.To] = append(preds[e.To], e.From)
	}

	const sweeps = 4
	for s := 0; s < sweeps; s++ {
		for _, nodes := range byLayer {
			sort.SliceStable(nodes, func(i, j int) bool {
				return barycenter(nodes[i], preds, succs, position) < barycenter(nodes[j], preds, succs, position)
			})
			for i, idx := range nodes {
				position[idx] = i
			}
		}
	}
	return position
}

func barycenter(node int, preds, succs [][]int, position []int) float64 {
	neighbors := append(append([]int{}, preds[node]...), succs[node]...)
	if len(neighbors) == 0 {
		return float64(position[node])
	}
	total := 0
	for _, nb := range neighbors {
		total += position[nb]
	}
	return float64(total) / float64(len(neighbors))
}
