package diag_test

import (
	"strings"
	"testing"

	"github.com/ruchy-lang/ruchy/internal/diag"
)

func render(t *testing.T, sources map[string]string, ds ...diag.Diagnostic) string {
	t.Helper()
	var sb strings.Builder
	f := diag.NewFormatter(&sb, diag.WithColor(false))
	for name, src := range sources {
		f.AddSource(name, src)
	}
	f.FormatAll(ds)
	return sb.String()
}

func TestFormatSingleSpan(t *testing.T) {
	src := "let x = 1\nlet y = (2 +)\n"
	d := diag.Diagnostic{
		Severity: diag.SeverityError,
		Code:     diag.CodeParseUnexpectedToken,
		Message:  "unexpected token `)`",
		Span:     diag.Span{Filename: "demo.ruchy", Line: 2, Column: 13, Start: 22, End: 23},
	}.WithHelp("remove the trailing operator")

	got := render(t, map[string]string{"demo.ruchy": src}, d)

	want := strings.Join([]string{
		"error[PARSE_UNEXPECTED_TOKEN]: unexpected token `)`",
		"  --> demo.ruchy:2:13",
		"   |",
		" 2 | let y = (2 +)",
		"   |             ^",
		"   |",
		"help: remove the trailing operator",
		"",
	}, "\n")
	if got != want {
		t.Errorf("rendered output mismatch.\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatPrimaryAndSecondaryLabels(t *testing.T) {
	src := "let a = b\n"
	d := diag.Diagnostic{
		Severity: diag.SeverityWarning,
		Message:  "binding shadows parameter",
	}.
		WithPrimarySpan(diag.Span{Line: 1, Column: 5, Start: 4, End: 5}, "declared here").
		WithSecondarySpan(diag.Span{Line: 1, Column: 9, Start: 8, End: 9}, "used here")

	got := render(t, map[string]string{"": src}, d)

	want := strings.Join([]string{
		"warning: binding shadows parameter",
		"  --> <input>:1:5",
		"   |",
		" 1 | let a = b",
		"   |     ^   ~ declared here",
		"   |",
		"",
	}, "\n")
	if got != want {
		t.Errorf("rendered output mismatch.\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatSkipsBetweenDistantLines(t *testing.T) {
	src := "fun a() {\nx\ny\nfun b() {\n"
	d := diag.Diagnostic{
		Severity: diag.SeverityError,
		Message:  "duplicate function",
	}.
		WithPrimarySpan(diag.Span{Filename: "demo.ruchy", Line: 1, Column: 1, Start: 0, End: 3}, "first definition").
		WithSecondarySpan(diag.Span{Filename: "demo.ruchy", Line: 4, Column: 1, Start: 14, End: 17}, "redefined here")

	got := render(t, map[string]string{"demo.ruchy": src}, d)

	want := strings.Join([]string{
		"error: duplicate function",
		"  --> demo.ruchy:1:1",
		"   |",
		" 1 | fun a() {",
		"   | ^^^ first definition",
		"...",
		" 4 | fun b() {",
		"   | ~~~ redefined here",
		"   |",
		"",
	}, "\n")
	if got != want {
		t.Errorf("rendered output mismatch.\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatWithoutRegisteredSource(t *testing.T) {
	d := diag.Diagnostic{
		Severity: diag.SeverityError,
		Message:  "unterminated string literal",
		Span:     diag.Span{Filename: "gone.ruchy", Line: 3, Column: 7},
	}

	got := render(t, nil, d)

	want := "error: unterminated string literal\n  --> gone.ruchy:3:7\n"
	if got != want {
		t.Errorf("rendered output mismatch.\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatAllSeparatesWithBlankLine(t *testing.T) {
	got := render(t, nil,
		diag.Diagnostic{Severity: diag.SeverityError, Message: "first"},
		diag.Diagnostic{Severity: diag.SeverityWarning, Message: "second"},
	)

	if got != "error: first\n\nwarning: second\n" {
		t.Errorf("rendered output mismatch:\n%q", got)
	}
}

func TestFormatNotes(t *testing.T) {
	d := diag.Diagnostic{
		Severity: diag.SeverityWarning,
		Message:  "clone inserted",
	}.WithNote("the value is used again after this call")

	got := render(t, nil, d)

	want := "warning: clone inserted\n  = note: the value is used again after this call\n"
	if got != want {
		t.Errorf("rendered output mismatch.\ngot:\n%s\nwant:\n%s", got, want)
	}
}
