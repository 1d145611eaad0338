package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LayoutDefaults holds the constants the component and sequence layout
// engines fall back to when a diagram doesn't override them: the
// padding around a containment scope's contents, the font used for
// headers and notes, and the horizontal nesting offset between stacked
// activation boxes (§4.7, §4.8).
type LayoutDefaults struct {
	ContainerPadding  float64 `yaml:"container_padding"`
	HorizontalSpacing float64 `yaml:"horizontal_spacing"`
	VerticalSpacing   float64 `yaml:"vertical_spacing"`
	HeaderFontSize    int     `yaml:"header_font_size"`
	HeaderFontFamily  string  `yaml:"header_font_family"`
	NestingOffset     float64 `yaml:"nesting_offset"`
	MinBuffer         float64 `yaml:"min_buffer"`
}

// DefaultLayoutDefaults returns the built-in constants used when no
// configuration file overrides them.
func DefaultLayoutDefaults() LayoutDefaults {
	return LayoutDefaults{
		ContainerPadding:  20.0,
		HorizontalSpacing: 50.0,
		VerticalSpacing:   80.0,
		HeaderFontSize:    14,
		HeaderFontFamily:  "sans-serif",
		NestingOffset:     6.0,
		MinBuffer:         15.0,
	}
}

// Validate checks that every field is in its usable range.
func (l *LayoutDefaults) Validate() error {
	if l.ContainerPadding < 0 {
		return errors.New("container_padding must be non-negative")
	}
	if l.HorizontalSpacing < 0 {
		return errors.New("horizontal_spacing must be non-negative")
	}
	if l.VerticalSpacing < 0 {
		return errors.New("vertical_spacing must be non-negative")
	}
	if l.HeaderFontSize <= 0 {
		return errors.New("header_font_size must be positive")
	}
	if l.HeaderFontFamily == "" {
		return errors.New("header_font_family must not be empty")
	}
	if l.NestingOffset < 0 {
		return errors.New("nesting_offset must be non-negative")
	}
	if l.MinBuffer < 0 {
		return errors.New("min_buffer must be non-negative")
	}
	return nil
}

// Palette is a named bundle of style attributes a Shape, Arrow, or
// Note type-spec can pull in with `palette="name"` (§4.3.1's supplemented
// attribute). At least one of FillColor/Stroke must be set.
type Palette struct {
	FillColor *string `yaml:"fill_color,omitempty"`
	Stroke    *string `yaml:"stroke,omitempty"`
}

// Validate checks that the palette carries at least one attribute.
func (p *Palette) Validate() error {
	if p.FillColor == nil && p.Stroke == nil {
		return errors.New("palette must set at least one of fill_color or stroke")
	}
	return nil
}

// Config is the optional YAML document loaded before elaboration: layout
// defaults plus the named-palette table. Either section may be omitted,
// in which case DefaultConfig's values are kept.
type Config struct {
	Layout   LayoutDefaults     `yaml:"layout"`
	Palettes map[string]Palette `yaml:"palettes"`
}

// DefaultConfig returns a Config seeded with DefaultLayoutDefaults and
// no palettes.
func DefaultConfig() *Config {
	return &Config{Layout: DefaultLayoutDefaults()}
}

// LoadConfig reads and validates a YAML configuration file at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return LoadConfigFromBytes(data)
}

// LoadConfigFromBytes parses a YAML configuration document from data,
// merging it over DefaultConfig so a file that only sets one section
// still gets sensible defaults for the rest.
func LoadConfigFromBytes(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks the layout defaults and every named palette.
func (c *Config) Validate() error {
	if err := c.Layout.Validate(); err != nil {
		return fmt.Errorf("layout: %w", err)
	}
	for name, p := range c.Palettes {
		if name == "" {
			return errors.New("palette name must not be empty")
		}
		if err := p.Validate(); err != nil {
			return fmt.Errorf("palette %q: %w", name, err)
		}
	}
	return nil
}
