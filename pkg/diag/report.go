package diag

import (
	"fmt"
	"sort"
	"strings"
)

// Report renders every diagnostic in diagnostics, ordered by span start, with a
// source excerpt and a caret underline beneath the primary label. This
// is the human-readable rendering mandated by the diagnostics contract:
// severity, code, message, source snippet with labeled spans, and an
// optional help line.
func Report(source string, diagnostics []*Diagnostic) string {
	sorted := append([]*Diagnostic(nil), diagnostics...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PrimarySpan().Start < sorted[j].PrimarySpan().Start
	})
	var b strings.Builder
	for i, d := range sorted {
		if i > 0 {
			b.WriteString("\n")
		}
		writeDiagnostic(&b, source, d)
	}
	return b.String()
}

func writeDiagnostic(b *strings.Builder, source string, d *Diagnostic) {
	if d.Code != nil {
		fmt.Fprintf(b, "%s[%s]: %s\n", strings.ToUpper(d.Severity.String()), d.Code.label(), d.Message)
	} else {
		fmt.Fprintf(b, "%s: %s\n", strings.ToUpper(d.Severity.String()), d.Message)
	}

	for _, l := range d.Labels {
		line, col, lineText := locate(source, l.Span.Start)
		fmt.Fprintf(b, "  --> line %d, column %d\n", line, col)
		fmt.Fprintf(b, "   | %s\n", lineText)
		fmt.Fprintf(b, "   | %s%s %s\n", strings.Repeat(" ", col-1), caretFor(l.Span, lineText, col), l.Message)
	}

	if d.Help != "" {
		fmt.Fprintf(b, "  help: %s\n", d.Help)
	}
}

// caretFor returns a run of '^' covering the portion of the span that
// lies on the reported line.
func caretFor(span Span, lineText string, col int) string {
	n := span.Len()
	if n < 1 {
		n = 1
	}
	if col-1+n > len(lineText) {
		n = len(lineText) - (col - 1)
		if n < 1 {
			n = 1
		}
	}
	return strings.Repeat("^", n)
}

// locate converts a byte offset into 1-based line/column numbers plus
// the text of that line (without its trailing newline).
func locate(source string, offset int) (line, col int, lineText string) {
	line = 1
	lineStart := 0
	for i := 0; i < offset && i < len(source); i++ {
		if source[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	lineEnd := len(source)
	if idx := strings.IndexByte(source[lineStart:], '\n'); idx >= 0 {
		lineEnd = lineStart + idx
	}
	col = offset - lineStart + 1
	return line, col, source[lineStart:lineEnd]
}
