package diag

// Label attaches a message to a specific Span within a Diagnostic,
// e.g. pointing at the offending token.
type Label struct {
	Span    Span
	Message string
}

// Diagnostic is a single error or warning produced by a compiler stage.
// A Diagnostic carries zero or more Labels; Code is optional (some
// diagnostics, like an internal invariant failure, have none).
type Diagnostic struct {
	Severity Severity
	Message  string
	Code     *Code
	Labels   []Label
	Help     string
}

// NewError builds an error-severity Diagnostic for the given code,
// using the code's default description as the message.
func NewError(code Code) *Diagnostic {
	return &Diagnostic{Severity: Error, Message: code.description(), Code: &code}
}

// NewWarning builds a warning-severity Diagnostic for the given code.
func NewWarning(code Code) *Diagnostic {
	return &Diagnostic{Severity: Warning, Message: code.description(), Code: &code}
}

// WithMessage overrides the default message and returns the receiver
// for chaining.
func (d *Diagnostic) WithMessage(msg string) *Diagnostic {
	d.Message = msg
	return d
}

// WithLabel appends a labeled span and returns the receiver for
// chaining.
func (d *Diagnostic) WithLabel(span Span, message string) *Diagnostic {
	d.Labels = append(d.Labels, Label{Span: span, Message: message})
	return d
}

// WithHelp sets the help line and returns the receiver for chaining.
func (d *Diagnostic) WithHelp(help string) *Diagnostic {
	d.Help = help
	return d
}

// PrimarySpan returns the span of the first label, or the zero Span if
// the diagnostic carries no labels.
func (d *Diagnostic) PrimarySpan() Span {
	if len(d.Labels) == 0 {
		return Span{}
	}
	return d.Labels[0].Span
}
