// Package component builds the containment graph (§4.5) from a
// component diagram's elaborated semantic tree: a directed graph whose
// nodes are component elements and whose edges are relations, with
// explicit containment scopes that the layout engine walks in
// post-order so a container's intrinsic size can incorporate its
// children's computed size.
package component
