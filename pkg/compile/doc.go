// Package compile is the top-level entry point: it wires the lexer,
// parser, elaborator, structure builders, layout engines, and renderer
// into the single Compile call a caller actually wants, plus a
// Describe call that stops short of rendering and reports on the
// compiled structure instead.
package compile
