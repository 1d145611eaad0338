// Package geom provides the pure geometric value types shared by every
// later compiler stage: points, sizes, axis-aligned bounds, and inset
// paddings. Nothing in this package allocates beyond the structs
// themselves and nothing here depends on any other diagc package.
package geom
