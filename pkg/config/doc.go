// Package config loads the optional YAML configuration file that
// supplies diagram-level layout defaults (container padding, spacing
// constants, default font) and the named-palette table referenced by
// a type-spec's `palette` attribute. Both are collaborators the
// elaborator and layout engines consult; neither is itself part of
// the source language.
package config
