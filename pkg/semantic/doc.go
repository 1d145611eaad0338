// Package semantic elaborates a parse tree (pkg/past) into the typed
// semantic model: a read-only tree of Diagram/Scope/Block/Element
// values with every type-spec resolved to a concrete styling
// prototype (pkg/style). Elaboration is fail-fast (§7): the first
// error aborts the whole pass, unlike the lexer's and parser's
// multi-error recovery.
package semantic
