package drawable

import (
	"github.com/dshills/diagc/pkg/geom"
	"github.com/dshills/diagc/pkg/style"
)

// TextMeasurer sizes a run of text (§4.9: "delegated to an external
// measure_text primitive"). Results must only depend on (content,
// font_size, font_family); layout engines call this ahead of
// positioning so header/label/note sizes feed sizing decisions before
// any drawable exists.
type TextMeasurer interface {
	Measure(content string, fontSize int, fontFamily string) geom.Size
}

// MonospaceMeasurer approximates glyph metrics without loading real
// font data — a stand-in implementers may substitute in tests, per
// §4.9.
type MonospaceMeasurer struct {
	// AdvanceRatio is the glyph width as a fraction of font size;
	// 0.6 approximates common monospace fonts (e.g. Courier).
	AdvanceRatio float64
	// LineHeightRatio is the line height as a multiple of font size.
	LineHeightRatio float64
}

// NewMonospaceMeasurer returns a MonospaceMeasurer with standard
// ratios.
func NewMonospaceMeasurer() MonospaceMeasurer {
	return MonospaceMeasurer{AdvanceRatio: 0.6, LineHeightRatio: 1.2}
}

func (m MonospaceMeasurer) Measure(content string, fontSize int, _ string) geom.Size {
	if content == "" {
		return geom.Size{}
	}
	width := float64(len([]rune(content))) * float64(fontSize) * m.AdvanceRatio
	return geom.Size{W: width, H: float64(fontSize) * m.LineHeightRatio}
}

// Text is a single styled text run, anchored at its position.
type Text struct {
	Content string
	Proto   *style.TextDef
	Anchor  string // "start" | "middle" | "end"
}

// RenderToLayers draws Text horizontally anchored at origin.X per Anchor
// (centered when Anchor is empty) with its baseline at origin.Y, onto
// the Text layer.
func (t Text) RenderToLayers(origin geom.Point) LayeredOutput {
	var out LayeredOutput
	if t.Content == "" {
		return out
	}
	anchor := t.Anchor
	if anchor == "" {
		anchor = "middle"
	}
	fontFamily, fontSize := "monospace", 12
	if t.Proto != nil {
		if t.Proto.FontFamily != "" {
			fontFamily = t.Proto.FontFamily
		}
		if t.Proto.FontSize != 0 {
			fontSize = t.Proto.FontSize
		}
	}
	out.Add(TextLayer, SvgNode{
		Kind: NodeText, X: origin.X, Y: origin.Y,
		Text: t.Content, FontFamily: fontFamily, FontSize: fontSize,
		Anchor: anchor, Style: textStyle(t.Proto),
	})
	return out
}
