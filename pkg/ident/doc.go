// Package ident provides Id, an interned symbolic name with stable
// equality and hashing, plus support for compiler-generated anonymous
// names (used for inline type specs that never named themselves).
package ident
