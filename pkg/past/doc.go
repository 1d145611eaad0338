// Package past ("parse AST") defines the untyped parse tree produced
// by the parser: the direct shape of the source grammar, before the
// elaborator resolves type specs into semantic prototypes. Every node
// carries a diag.Span; composite nodes derive their span from the union
// of their children.
package past
