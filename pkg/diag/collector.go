package diag

import "sort"

// Collector is an append-only list of diagnostics. It is the backbone
// of the lexer's and parser's multi-error recovery: a pass keeps
// scanning after an error, appends a Diagnostic, and only reports
// failure once Finish is called.
type Collector struct {
	diagnostics []*Diagnostic
	hasErrors   bool
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Add appends a diagnostic, flipping HasErrors if it is error severity.
func (c *Collector) Add(d *Diagnostic) {
	c.diagnostics = append(c.diagnostics, d)
	if d.Severity == Error {
		c.hasErrors = true
	}
}

// Error builds and appends an error-severity Diagnostic in one call.
func (c *Collector) Error(code Code, span Span, message string) *Diagnostic {
	d := NewError(code).WithMessage(message).WithLabel(span, message)
	c.Add(d)
	return d
}

// Warn builds and appends a warning-severity Diagnostic in one call.
func (c *Collector) Warn(code Code, span Span, message string) *Diagnostic {
	d := NewWarning(code).WithMessage(message).WithLabel(span, message)
	c.Add(d)
	return d
}

// HasErrors reports whether any error-severity diagnostic has been
// added. Warnings alone never set this.
func (c *Collector) HasErrors() bool {
	return c.hasErrors
}

// Diagnostics returns all collected diagnostics, ordered by the start
// of their primary span (diagnostics with no labels sort first).
func (c *Collector) Diagnostics() []*Diagnostic {
	sorted := make([]*Diagnostic, len(c.diagnostics))
	copy(sorted, c.diagnostics)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PrimarySpan().Start < sorted[j].PrimarySpan().Start
	})
	return sorted
}

// Finish returns (nil, true) if no error was collected, or the sorted
// diagnostic list and false otherwise. Warnings alone still yield
// success; callers that want to surface warnings on a successful run
// should inspect Diagnostics() directly.
func (c *Collector) Finish() ([]*Diagnostic, bool) {
	if !c.hasErrors {
		return nil, true
	}
	return c.Diagnostics(), false
}
