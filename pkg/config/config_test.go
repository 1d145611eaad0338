package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigFromBytesValidConfig(t *testing.T) {
	data := `
layout:
  container_padding: 30
  header_font_size: 16
  header_font_family: monospace
  nesting_offset: 8
  min_buffer: 20
palettes:
  ocean:
    fill_color: "#d6ecf5"
    stroke: "#1f6f8b"
  alert:
    fill_color: "#ffe0e0"
`
	cfg, err := LoadConfigFromBytes([]byte(data))
	if err != nil {
		t.Fatalf("LoadConfigFromBytes() failed: %v", err)
	}
	if cfg.Layout.ContainerPadding != 30 {
		t.Errorf("ContainerPadding = %v, want 30", cfg.Layout.ContainerPadding)
	}
	if cfg.Layout.HeaderFontFamily != "monospace" {
		t.Errorf("HeaderFontFamily = %q, want monospace", cfg.Layout.HeaderFontFamily)
	}
	ocean, ok := cfg.Palettes["ocean"]
	if !ok {
		t.Fatalf("expected an %q palette", "ocean")
	}
	if ocean.FillColor == nil || *ocean.FillColor != "#d6ecf5" {
		t.Errorf("ocean.FillColor = %v, want #d6ecf5", ocean.FillColor)
	}
	if ocean.Stroke == nil || *ocean.Stroke != "#1f6f8b" {
		t.Errorf("ocean.Stroke = %v, want #1f6f8b", ocean.Stroke)
	}
}

func TestLoadConfigFromBytesEmptyKeepsDefaults(t *testing.T) {
	cfg, err := LoadConfigFromBytes([]byte(""))
	if err != nil {
		t.Fatalf("LoadConfigFromBytes() failed: %v", err)
	}
	want := DefaultLayoutDefaults()
	if cfg.Layout != want {
		t.Errorf("Layout = %+v, want defaults %+v", cfg.Layout, want)
	}
	if len(cfg.Palettes) != 0 {
		t.Errorf("expected no palettes, got %v", cfg.Palettes)
	}
}

func TestLoadConfigFromBytesRejectsInvalidLayout(t *testing.T) {
	_, err := LoadConfigFromBytes([]byte("layout:\n  header_font_size: 0\n"))
	if err == nil {
		t.Fatal("expected an error for a zero header_font_size")
	}
}

func TestLoadConfigFromBytesRejectsEmptyPalette(t *testing.T) {
	_, err := LoadConfigFromBytes([]byte("palettes:\n  bare: {}\n"))
	if err == nil {
		t.Fatal("expected an error for a palette with no attributes")
	}
}

func TestLoadConfigReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "diagc.yml")
	if err := os.WriteFile(path, []byte("layout:\n  container_padding: 5\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if cfg.Layout.ContainerPadding != 5 {
		t.Errorf("ContainerPadding = %v, want 5", cfg.Layout.ContainerPadding)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}
