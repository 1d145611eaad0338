package drawable

import "testing"

func TestLayerZOrderMatchesDeclarationOrder(t *testing.T) {
	order := []Layer{Background, FragmentLayer, LifelineLayer, ShapeLayer, ActivationBoxLayer, ArrowLayer, TextLayer, NoteLayer}
	for i, l := range order {
		if int(l) != i {
			t.Errorf("expected %v at position %d, got %d", l, i, int(l))
		}
	}
}

func TestLayeredOutputMergeConcatenatesPerLayer(t *testing.T) {
	var a, b LayeredOutput
	a.Add(ShapeLayer, SvgNode{Kind: NodeRect})
	b.Add(ShapeLayer, SvgNode{Kind: NodeEllipse})
	b.Add(TextLayer, SvgNode{Kind: NodeText})

	merged := a.Merge(b)
	shapes := merged.Nodes(ShapeLayer)
	if len(shapes) != 2 {
		t.Fatalf("expected 2 shape nodes, got %d", len(shapes))
	}
	if shapes[0].Kind != NodeRect || shapes[1].Kind != NodeEllipse {
		t.Errorf("expected a's node before b's node, got %v then %v", shapes[0].Kind, shapes[1].Kind)
	}
	if len(merged.Nodes(TextLayer)) != 1 {
		t.Errorf("expected 1 text node, got %d", len(merged.Nodes(TextLayer)))
	}
}

func TestMergeAllFoldsInOrder(t *testing.T) {
	var a, b, c LayeredOutput
	a.Add(Background, SvgNode{Id: "a"})
	b.Add(Background, SvgNode{Id: "b"})
	c.Add(Background, SvgNode{Id: "c"})

	merged := MergeAll([]LayeredOutput{a, b, c})
	nodes := merged.Nodes(Background)
	if len(nodes) != 3 || nodes[0].Id != "a" || nodes[1].Id != "b" || nodes[2].Id != "c" {
		t.Fatalf("expected a,b,c in order, got %v", nodes)
	}
}
