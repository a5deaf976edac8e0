package diagnostic

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDiagnostic_String(t *testing.T) {
	d := Diagnostic{
		Severity: SeverityWarning,
		Message:  "something looks off",
		Location: &Location{File: "openapi.yaml", Line: 12},
		Context:  map[string]string{"foundIn": "#/components/schemas/Pet", "feature": "not"},
	}
	s := d.String()
	if !strings.HasPrefix(s, "openapi.yaml:12: warning: something looks off") {
		t.Errorf("unexpected prefix, got %q", s)
	}
	// Context keys are sorted.
	if !strings.HasSuffix(s, "[context: feature=not, foundIn=#/components/schemas/Pet]") {
		t.Errorf("unexpected context, got %q", s)
	}
}

func TestDiagnostic_StringNoLocation(t *testing.T) {
	d := Diagnostic{Severity: SeverityError, Message: "boom"}
	if got := d.String(); got != "error: boom" {
		t.Errorf("got %q, want %q", got, "error: boom")
	}
}

func TestUnsupportedWarning(t *testing.T) {
	rec := &Recording{}
	if err := UnsupportedWarning(rec, "Schema type 'not'", "#/components/schemas/X", nil); err != nil {
		t.Fatal(err)
	}
	if len(rec.Received) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(rec.Received))
	}
	d := rec.Received[0]
	if d.Severity != SeverityWarning {
		t.Errorf("expected warning severity, got %v", d.Severity)
	}
	if d.Message != `Feature "Schema type 'not'" is not supported, skipping` {
		t.Errorf("unexpected message %q", d.Message)
	}
	if d.Context["foundIn"] != "#/components/schemas/X" {
		t.Errorf("unexpected foundIn %q", d.Context["foundIn"])
	}
}

func TestStream_Emit(t *testing.T) {
	var buf bytes.Buffer
	s := NewStream(&buf)
	if err := s.Emit(Diagnostic{Severity: SeverityNote, Message: "hello"}); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "note: hello\n" {
		t.Errorf("got %q", got)
	}
}

func TestErrorThrowing_HaltsOnError(t *testing.T) {
	rec := &Recording{}
	sink := NewErrorThrowing(rec)

	if err := sink.Emit(Diagnostic{Severity: SeverityWarning, Message: "fine"}); err != nil {
		t.Errorf("warning should not halt, got %v", err)
	}
	err := sink.Emit(Diagnostic{Severity: SeverityError, Message: "fatal"})
	if err == nil {
		t.Fatal("expected error-severity diagnostic to halt")
	}
	failure, ok := err.(*Failure)
	if !ok {
		t.Fatalf("expected *Failure, got %T", err)
	}
	if failure.Diagnostic.Message != "fatal" {
		t.Errorf("unexpected failure diagnostic %q", failure.Diagnostic.Message)
	}
	// Both diagnostics still reached the upstream sink.
	if len(rec.Received) != 2 {
		t.Errorf("expected 2 forwarded diagnostics, got %d", len(rec.Received))
	}
}

func TestFile_FinalizeSortsAndDedupes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diagnostics.yaml")
	f := NewFile(path)
	for _, msg := range []string{"zeta", "alpha", "zeta"} {
		if err := f.Emit(Diagnostic{Severity: SeverityWarning, Message: msg}); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.Finalize(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if !strings.Contains(content, "uniqueMessages:") || !strings.Contains(content, "diagnostics:") {
		t.Fatalf("missing top-level keys:\n%s", content)
	}
	if strings.Index(content, "alpha") > strings.Index(content, "zeta") {
		t.Errorf("uniqueMessages not sorted:\n%s", content)
	}
	if strings.Count(content[:strings.Index(content, "diagnostics:")], "zeta") != 1 {
		t.Errorf("uniqueMessages not deduplicated:\n%s", content)
	}
}

func TestFile_FinalizeIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diagnostics.yaml")
	f := NewFile(path)
	if err := f.Emit(Diagnostic{Severity: SeverityNote, Message: "only one"}); err != nil {
		t.Fatal(err)
	}
	if err := f.Finalize(); err != nil {
		t.Fatal(err)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Finalize(); err != nil {
		t.Fatal(err)
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Error("finalize with no intervening emits produced different files")
	}
}
