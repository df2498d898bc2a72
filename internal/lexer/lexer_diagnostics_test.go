package lexer

import (
	"testing"

	"github.com/ruchy-lang/ruchy/internal/diag"
)

func TestLexerError_ToDiagnostic(t *testing.T) {
	err := LexerError{
		Kind:    ErrIllegalRune,
		Message: `illegal character "@"`,
		Span: Span{
			Filename: "main.ruchy",
			Line:     2,
			Column:   5,
			Start:    4,
			End:      5,
		},
	}

	d := err.ToDiagnostic()

	if d.Stage != diag.StageLex {
		t.Fatalf("expected stage %q, got %q", diag.StageLex, d.Stage)
	}
	if d.Severity != diag.SeverityError {
		t.Fatalf("expected severity %q, got %q", diag.SeverityError, d.Severity)
	}
	if d.Code != diag.CodeLexIllegalRune {
		t.Fatalf("expected code %q, got %q", diag.CodeLexIllegalRune, d.Code)
	}
	if d.Message != err.Message {
		t.Fatalf("expected message %q, got %q", err.Message, d.Message)
	}

	wantSpan := diag.Span{
		Filename: "main.ruchy",
		Line:     2,
		Column:   5,
		Start:    4,
		End:      5,
	}
	if d.Span != wantSpan {
		t.Fatalf("expected span %+v, got %+v", wantSpan, d.Span)
	}
}

func TestLexerError_CodeMapping(t *testing.T) {
	tests := []struct {
		kind LexerErrorKind
		code diag.Code
	}{
		{ErrUnterminatedString, diag.CodeLexUnterminatedString},
		{ErrUnterminatedChar, diag.CodeLexUnterminatedChar},
		{ErrUnterminatedBlockComment, diag.CodeLexUnterminatedBlockComment},
		{ErrUnterminatedInterp, diag.CodeLexUnterminatedInterp},
		{ErrBadInterp, diag.CodeLexBadInterp},
		{ErrMalformedNumber, diag.CodeLexMalformedNumber},
		{ErrMalformedChar, diag.CodeLexUnterminatedChar},
		{ErrBadEscape, diag.CodeLexBadEscape},
		{ErrIllegalRune, diag.CodeLexIllegalRune},
	}

	for _, tt := range tests {
		d := LexerError{Kind: tt.kind}.ToDiagnostic()
		if d.Code != tt.code {
			t.Fatalf("kind %v - expected code %q, got %q", tt.kind, tt.code, d.Code)
		}
	}
}
