// Package diag defines the diagnostic model shared by every compiler
// stage: source spans, severities, stable error codes, labeled spans,
// and an append-only collector. Lexing and parsing accumulate
// diagnostics and keep going; later stages (elaboration, structure
// building, layout, composition) fail fast on the first Diagnostic they
// produce. See Collector for the accumulate-vs-fail-fast boundary.
package diag
