package diag

import (
	"strings"
	"testing"
)

func TestCollectorFinishSuccessOnNoErrors(t *testing.T) {
	c := NewCollector()
	c.Warn(ECodeUnbalancedActivate, Span{Start: 0, End: 1}, "u never deactivated")

	got, ok := c.Finish()
	if !ok {
		t.Fatalf("expected Finish to report success when only warnings were collected")
	}
	if got != nil {
		t.Fatalf("expected nil diagnostics on success, got %v", got)
	}
	if c.HasErrors() {
		t.Fatalf("warnings alone must not set HasErrors")
	}
}

func TestCollectorFinishFailsOnFirstError(t *testing.T) {
	c := NewCollector()
	c.Warn(ECodeUnbalancedActivate, Span{Start: 5, End: 6}, "warn")
	c.Error(ECodeUndefinedType, Span{Start: 0, End: 3}, "undefined type Nonesuch")

	got, ok := c.Finish()
	if ok {
		t.Fatalf("expected Finish to fail when an error was collected")
	}
	if len(got) != 2 {
		t.Fatalf("expected both diagnostics returned, got %d", len(got))
	}
	if got[0].PrimarySpan().Start != 0 {
		t.Fatalf("expected diagnostics ordered by span start, got first span %v", got[0].PrimarySpan())
	}
}

func TestCodeLabel(t *testing.T) {
	if got := ECodeUndefinedType.label(); got != "E300" {
		t.Errorf("label: got %q, want E300", got)
	}
	if got := ECodeUnterminatedString.label(); got != "E001" {
		t.Errorf("label: got %q, want E001", got)
	}
}

func TestReportIncludesSnippetAndHelp(t *testing.T) {
	source := "diagram component;\nx: Nonesuch;\n"
	d := NewError(ECodeUndefinedType).
		WithMessage(`undefined type "Nonesuch"`).
		WithLabel(Span{Start: 22, End: 30}, "used here").
		WithHelp("define it with a `type` declaration first")

	report := Report(source, []*Diagnostic{d})
	if report == "" {
		t.Fatalf("expected non-empty report")
	}
	if !strings.Contains(report, "E300") || !strings.Contains(report, "Nonesuch") || !strings.Contains(report, "help:") {
		t.Errorf("report missing expected content:\n%s", report)
	}
}
