package drawable

import (
	"fmt"
	"strings"

	"github.com/dshills/diagc/pkg/style"
)

// dashArray returns the SVG stroke-dasharray value for a stroke style
// tag, or "" for a solid line.
func dashArray(s *style.StrokeDef) string {
	if s == nil {
		return ""
	}
	switch s.Style {
	case style.StrokeSolid:
		return ""
	case style.StrokeDashed:
		return "8,4"
	case style.StrokeDotted:
		return "2,2"
	case style.StrokeDashDot:
		return "8,4,2,4"
	case style.StrokeDashDotDot:
		return "8,4,2,4,2,4"
	case style.StrokeCustom:
		return s.Pattern
	default:
		return ""
	}
}

func capValue(c style.Cap) string {
	switch c {
	case style.CapRound:
		return "round"
	case style.CapSquare:
		return "square"
	default:
		return "butt"
	}
}

func joinValue(j style.Join) string {
	switch j {
	case style.JoinRound:
		return "round"
	case style.JoinBevel:
		return "bevel"
	default:
		return "miter"
	}
}

// strokeStyle renders a StrokeDef as the stroke-related segment of an
// inline CSS style string. A nil stroke renders "stroke:none".
func strokeStyle(s *style.StrokeDef) string {
	if s == nil {
		return "stroke:none"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "stroke:%s;stroke-width:%g;stroke-linecap:%s;stroke-linejoin:%s",
		s.Color, s.Width, capValue(s.Cap), joinValue(s.Join))
	if da := dashArray(s); da != "" {
		fmt.Fprintf(&b, ";stroke-dasharray:%s", da)
	}
	return b.String()
}

// fillStyle renders an optional fill color as the fill segment of an
// inline CSS style string. A nil color renders "fill:none".
func fillStyle(color *string) string {
	if color == nil {
		return "fill:none"
	}
	return fmt.Sprintf("fill:%s", *color)
}

// shapeStyle combines fill and stroke into one inline style string, the
// same "key:value;key:value" idiom the teacher's export package builds
// by hand with fmt.Sprintf for every drawn primitive.
func shapeStyle(fill *string, stroke *style.StrokeDef) string {
	return fillStyle(fill) + ";" + strokeStyle(stroke)
}

// textStyle renders a TextDef's font attributes as an inline style
// string fragment (color only; font-family/size are set via SvgNode's
// own FontFamily/FontSize fields, matching how svgo's Text call takes
// them as separate parameters).
func textStyle(t *style.TextDef) string {
	if t == nil || t.Color == nil {
		return "fill:#000000"
	}
	return fmt.Sprintf("fill:%s", *t.Color)
}
