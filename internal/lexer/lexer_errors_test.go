package lexer

import (
	"testing"
)

func TestLexerErrors_UnterminatedString(t *testing.T) {
	input := `"hello`
	l := New(input)

	tok := l.NextToken()
	if tok.Type != ILLEGAL {
		t.Fatalf("expected ILLEGAL token, got %q", tok.Type)
	}
	if tok.Raw != `"hello` {
		t.Fatalf("expected raw token %q, got %q", `"hello`, tok.Raw)
	}

	if len(l.Errors) != 1 {
		t.Fatalf("expected 1 lexer error, got %d", len(l.Errors))
	}

	err := l.Errors[0]
	if err.Kind != ErrUnterminatedString {
		t.Fatalf("expected ErrUnterminatedString, got %v", err.Kind)
	}
	if err.Span.Line != 1 || err.Span.Column != 1 {
		t.Fatalf("expected span line=1 column=1, got line=%d column=%d", err.Span.Line, err.Span.Column)
	}
}

func TestLexerErrors_NewlineInString(t *testing.T) {
	l := New("\"ab\ncd\"")
	tok := l.NextToken()
	if tok.Type != ILLEGAL {
		t.Fatalf("expected ILLEGAL token, got %q", tok.Type)
	}
	if len(l.Errors) == 0 || l.Errors[0].Kind != ErrUnterminatedString {
		t.Fatalf("expected ErrUnterminatedString, got %v", l.Errors)
	}
}

func TestLexerErrors_UnterminatedBlockComment(t *testing.T) {
	l := New("/* never closed")
	tok := l.NextToken()
	if tok.Type != EOF {
		t.Fatalf("expected EOF after skipping comment, got %q", tok.Type)
	}
	if len(l.Errors) != 1 || l.Errors[0].Kind != ErrUnterminatedBlockComment {
		t.Fatalf("expected ErrUnterminatedBlockComment, got %v", l.Errors)
	}
}

func TestLexerErrors_MalformedNumbers(t *testing.T) {
	tests := []struct {
		input string
		kind  LexerErrorKind
	}{
		{"0x", ErrMalformedNumber},
		{"0b", ErrMalformedNumber},
		{"42xyz", ErrMalformedNumber},
		{"3.14i32", ErrMalformedNumber},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l := New(tt.input)
			l.NextToken()
			found := false
			for _, err := range l.Errors {
				if err.Kind == tt.kind {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected %v among errors, got %v", tt.kind, l.Errors)
			}
		})
	}
}

func TestLexerErrors_BadEscape(t *testing.T) {
	l := New(`"bad\q"`)
	tok := l.NextToken()
	if tok.Type != STRING {
		t.Fatalf("expected STRING (lexing continues), got %q", tok.Type)
	}
	if len(l.Errors) != 1 || l.Errors[0].Kind != ErrBadEscape {
		t.Fatalf("expected ErrBadEscape, got %v", l.Errors)
	}
}

func TestLexerErrors_CharLiterals(t *testing.T) {
	tests := []struct {
		input string
		kind  LexerErrorKind
	}{
		{"'a", ErrUnterminatedChar},
		{"'ab'", ErrMalformedChar},
		{"'", ErrUnterminatedChar},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l := New(tt.input)
			tok := l.NextToken()
			if tok.Type != ILLEGAL {
				t.Fatalf("expected ILLEGAL token, got %q", tok.Type)
			}
			if len(l.Errors) == 0 || l.Errors[len(l.Errors)-1].Kind != tt.kind {
				t.Fatalf("expected %v, got %v", tt.kind, l.Errors)
			}
		})
	}
}

func TestLexerErrors_IllegalRune(t *testing.T) {
	l := New("let $ = 1;")
	var illegals int
	for {
		tok := l.NextToken()
		if tok.Type == EOF {
			break
		}
		if tok.Type == ILLEGAL {
			illegals++
		}
	}
	if illegals != 1 {
		t.Fatalf("expected exactly one ILLEGAL token, got %d", illegals)
	}
	if len(l.Errors) != 1 || l.Errors[0].Kind != ErrIllegalRune {
		t.Fatalf("expected ErrIllegalRune, got %v", l.Errors)
	}
}

func TestLexerErrors_Recovery(t *testing.T) {
	// After an unterminated-string error on line 1, lexing resumes and the
	// rest of the input still tokenizes.
	l := New("\"oops\nlet x = 1;")
	sawLet := false
	for {
		tok := l.NextToken()
		if tok.Type == EOF {
			break
		}
		if tok.Type == LET {
			sawLet = true
		}
	}
	if !sawLet {
		t.Fatal("expected lexing to continue past the malformed string")
	}
}
