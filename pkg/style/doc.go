// Package style resolves type-specs from the parse tree into styling
// prototypes ("type definitions"): named, shared style objects for the
// eight prototype families (Shape, Arrow, Stroke, Text, Lifeline,
// ActivationBox, Fragment, Note). Resolution is copy-on-write: applying
// an empty attribute list returns the existing shared definition
// unchanged; applying a non-empty list derives a new, anonymous
// definition by cloning the base and overriding the named attributes.
package style
