package diag

import "fmt"

// Severity classifies a Diagnostic. Warnings never fail the pipeline;
// the presence of any Error does.
type Severity int

const (
	Warning Severity = iota
	Error
)

// String implements fmt.Stringer.
func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Code is a stable numeric diagnostic tag. Values and their default
// one-line descriptions must not be renumbered: test suites assert on
// them directly.
type Code int

const (
	// Lexical errors (E001-E006).
	ECodeUnterminatedString Code = 1 + iota
	ECodeUnexpectedChar
	ECodeInvalidEscape
	ECodeInvalidUnicodeEscape
	ECodeInvalidUnicodeCodepoint
	ECodeEmptyUnicodeEscape
)

const (
	// Reference errors.
	ECodeUndefinedReference Code = 200 + iota
)

const (
	// ECodeUnbalancedActivate is a warning-only, additive code: an
	// activate with no matching deactivate is closed at the final y and
	// reported rather than silently dropped. It is not a renumbering of
	// any code in the stable E0xx/E2xx/E3xx list.
	ECodeUnbalancedActivate Code = 210
)

const (
	// Elaboration errors (E300-E309).
	ECodeUndefinedType Code = 300 + iota
	ECodeDuplicateType
	ECodeInvalidAttributeValue
	ECodeUnknownAttribute
	ECodeUnsupportedInContext
	ECodeNestedDiagramNotAllowed
	ECodeInvalidElement
	ECodeWrongFamily
	ECodeContentNotSupported
	ECodeDiagramCannotShareScope
)

// description returns the static one-line description for a Code, used
// as the default label when a Diagnostic doesn't override it.
func (c Code) description() string {
	switch c {
	case ECodeUnterminatedString:
		return "unterminated string"
	case ECodeUnexpectedChar:
		return "unexpected character"
	case ECodeInvalidEscape:
		return "invalid escape sequence"
	case ECodeInvalidUnicodeEscape:
		return "invalid unicode escape"
	case ECodeInvalidUnicodeCodepoint:
		return "invalid unicode codepoint"
	case ECodeEmptyUnicodeEscape:
		return "empty unicode escape"
	case ECodeUndefinedReference:
		return "undefined reference"
	case ECodeUnbalancedActivate:
		return "unbalanced activate"
	case ECodeUndefinedType:
		return "undefined type"
	case ECodeDuplicateType:
		return "duplicate type"
	case ECodeInvalidAttributeValue:
		return "invalid attribute value"
	case ECodeUnknownAttribute:
		return "unknown attribute"
	case ECodeUnsupportedInContext:
		return "unsupported attribute in context"
	case ECodeNestedDiagramNotAllowed:
		return "nested diagram not allowed"
	case ECodeInvalidElement:
		return "invalid element"
	case ECodeWrongFamily:
		return "wrong family"
	case ECodeContentNotSupported:
		return "content not supported"
	case ECodeDiagramCannotShareScope:
		return "diagram cannot share scope"
	default:
		return "unknown diagnostic"
	}
}

// String renders the code in "Exxx description" form.
func (c Code) String() string {
	return c.label() + " " + c.description()
}

// label renders the Exxx tag, e.g. "E001" or "E307".
func (c Code) label() string {
	return fmt.Sprintf("E%03d", int(c))
}
