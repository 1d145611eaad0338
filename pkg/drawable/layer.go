package drawable

// Layer is one of the fixed z-order bands §4.9 mandates. Declaration
// order is paint order: a Background node is composed before every
// Fragment node, which is composed before every Lifeline node, and so
// on through Note, the topmost layer.
type Layer int

const (
	Background Layer = iota
	FragmentLayer
	LifelineLayer
	ShapeLayer
	ActivationBoxLayer
	ArrowLayer
	TextLayer
	NoteLayer

	layerCount
)

func (l Layer) String() string {
	switch l {
	case Background:
		return "Background"
	case FragmentLayer:
		return "Fragment"
	case LifelineLayer:
		return "Lifeline"
	case ShapeLayer:
		return "Shape"
	case ActivationBoxLayer:
		return "ActivationBox"
	case ArrowLayer:
		return "Arrow"
	case TextLayer:
		return "Text"
	case NoteLayer:
		return "Note"
	default:
		return "unknown"
	}
}

// LayeredOutput maps each Layer to the ordered SvgNodes drawn on it.
type LayeredOutput struct {
	layers [layerCount][]SvgNode
}

// Add appends node to layer.
func (o *LayeredOutput) Add(layer Layer, node SvgNode) {
	o.layers[layer] = append(o.layers[layer], node)
}

// Nodes returns the nodes on layer, in insertion order.
func (o *LayeredOutput) Nodes(layer Layer) []SvgNode {
	return o.layers[layer]
}

// Merge concatenates o with other, per layer, in source-then-other
// order, and returns the result. Merge does not mutate either operand.
func (o LayeredOutput) Merge(other LayeredOutput) LayeredOutput {
	var out LayeredOutput
	for l := Layer(0); l < layerCount; l++ {
		out.layers[l] = append(out.layers[l], o.layers[l]...)
		out.layers[l] = append(out.layers[l], other.layers[l]...)
	}
	return out
}

// MergeAll folds Merge over a slice of LayeredOutputs in order.
func MergeAll(outputs []LayeredOutput) LayeredOutput {
	var out LayeredOutput
	for _, o := range outputs {
		out = out.Merge(o)
	}
	return out
}
