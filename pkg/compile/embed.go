package compile

import (
	"github.com/dshills/diagc/pkg/diag"
	"github.com/dshills/diagc/pkg/ident"
	"github.com/dshills/diagc/pkg/semantic"
)

// EmbedChildDiagram attaches an already-elaborated child diagram to the
// node identified by nodeId in parent's scope tree, turning its Block
// into BlockDiagram. The elaborator itself never produces BlockDiagram
// (the grammar has no syntax for it); composing multiple source files
// into one embedded layout is this package's job, one embed call per
// child, before the parent is laid out.
//
// A node can carry at most one embedded diagram, and only a leaf node
// (Block.Kind == BlockNone) is eligible: a node whose source already
// gave it scope content has nowhere to put a second, unrelated content
// tree.
func EmbedChildDiagram(parent *semantic.Diagram, nodeId ident.Id, child *semantic.Diagram) ([]*diag.Diagnostic, bool) {
	node := findNode(parent.Scope, nodeId)
	if node == nil {
		errs := diag.NewCollector()
		errs.Error(diag.ECodeUndefinedReference, parent.DiagramSpan, "no such node to embed a child diagram into")
		diags, _ := errs.Finish()
		return diags, false
	}

	if node.Block.Kind != semantic.BlockNone {
		errs := diag.NewCollector()
		errs.Error(diag.ECodeNestedDiagramNotAllowed, node.NodeSpan,
			"a node that already has scope content cannot also embed a child diagram")
		diags, _ := errs.Finish()
		return diags, false
	}

	node.Block = semantic.Block{Kind: semantic.BlockDiagram, Diagram: child}
	return nil, true
}

// findNode searches scope and its nested scopes, depth-first, for the
// Node with the given id.
func findNode(scope *semantic.Scope, id ident.Id) *semantic.Node {
	if scope == nil {
		return nil
	}
	for _, el := range scope.Elements {
		n, ok := el.(*semantic.Node)
		if !ok {
			continue
		}
		if n.Id == id {
			return n
		}
		if n.Block.Kind == semantic.BlockScope {
			if found := findNode(n.Block.Scope, id); found != nil {
				return found
			}
		}
	}
	return nil
}
