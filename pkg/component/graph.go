package component

import (
	"github.com/dshills/diagc/pkg/ident"
	"github.com/dshills/diagc/pkg/semantic"
	"github.com/dshills/diagc/pkg/style"
)

// rootScopeKey identifies the top-level scope. User identifiers can
// never be empty (the lexer's identifier grammar requires at least one
// character), so the empty Id is a safe sentinel distinct from any
// node's qualified key.
const rootScopeKey = ident.Id("")

// Node is a component element placed in the containment graph. Key is
// its fully qualified dotted path from the root (e.g. "outer::inner"),
// matching the "::"-joined notation relation endpoints use to reach
// into nested scopes; LocalId is its bare declared name.
type Node struct {
	Key           ident.Id
	LocalId       ident.Id
	Name          string
	DisplayName   *string
	ShapeProto    *style.ShapeDef
	ScopeKey      ident.Id  // the scope this node lives directly in
	ChildScopeKey *ident.Id // non-nil when the node has a nested scope
}

// Edge is a resolved relation between two nodes, attached to the
// containment scope common to both endpoints (§4.5).
type Edge struct {
	Source     *Node
	Target     *Node
	Direction  semantic.Direction
	Label      *string
	ArrowProto *style.ArrowDef
	ScopeKey   ident.Id
}

// NoteRef is a resolved note attached to zero or more nodes (§3.6); a
// component diagram's notes aren't consumed by the Sugiyama layout
// algorithm in §4.7, but the render stage needs their resolved
// targets, so the graph carries them alongside nodes and edges.
type NoteRef struct {
	On        []*Node
	Alignment semantic.Alignment
	Content   string
	NoteProto *style.NoteDef
	ScopeKey  ident.Id
}

// Scope is one containment scope: a container node (nil for the root)
// and the ordered list of nodes declared directly inside it.
type Scope struct {
	Container *Node
	Nodes     []*Node
}

// Graph is the built containment graph for one component diagram.
type Graph struct {
	nodes     map[ident.Id]*Node
	scopes    map[ident.Id]*Scope
	order     []ident.Id // post-order scope key traversal
	edges     map[ident.Id][]*Edge
	notes     map[ident.Id][]*NoteRef
}

// ContainmentScopes returns every scope in post-order: innermost
// scopes before their containers (§4.5).
func (g *Graph) ContainmentScopes() []*Scope {
	out := make([]*Scope, 0, len(g.order))
	for _, key := range g.order {
		out = append(out, g.scopes[key])
	}
	return out
}

// ScopeNodes returns the nodes declared directly in the scope
// identified by key.
func (g *Graph) ScopeNodes(key ident.Id) []*Node {
	if s, ok := g.scopes[key]; ok {
		return s.Nodes
	}
	return nil
}

// ScopeRelations returns the edges attached to the scope identified by
// key — i.e. those whose source and target share key as their nearest
// common ancestor scope.
func (g *Graph) ScopeRelations(key ident.Id) []*Edge {
	return g.edges[key]
}

// ScopeNotes returns the notes attached to the scope identified by
// key.
func (g *Graph) ScopeNotes(key ident.Id) []*NoteRef {
	return g.notes[key]
}

// Node looks up a node by its fully qualified key.
func (g *Graph) Node(key ident.Id) (*Node, bool) {
	n, ok := g.nodes[key]
	return n, ok
}

// ScopeContainer returns the node that owns the scope identified by
// key (nil for the root scope). Layout uses this to walk a deeply
// nested node back up to the ancestor that is a direct member of some
// containing scope, for relations the common-ancestor rule (§4.5)
// attaches above the endpoint's own scope.
func (g *Graph) ScopeContainer(key ident.Id) *Node {
	if s, ok := g.scopes[key]; ok {
		return s.Container
	}
	return nil
}

// RootScopeKey returns the key identifying the diagram's outermost
// scope.
func RootScopeKey() ident.Id { return rootScopeKey }
