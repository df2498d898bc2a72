package diag_test

import (
	"testing"

	"github.com/ruchy-lang/ruchy/internal/diag"
)

func TestSuggestKeywordTypos(t *testing.T) {
	keywords := []string{"fun", "let", "guard", "match", "struct", "trait"}

	cases := []struct {
		input, want string
	}{
		{"gurd", "guard"},
		{"struc", "struct"},
		{"mach", "match"},
	}
	for _, tc := range cases {
		if got := diag.Suggest(tc.input, keywords); got != tc.want {
			t.Errorf("Suggest(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestSuggestRejectsNoise(t *testing.T) {
	if got := diag.Suggest("x", []string{"match"}); got != "" {
		t.Errorf("single-character input should not suggest, got %q", got)
	}
	if got := diag.Suggest("zz", []string{"guard", "let"}); got != "" {
		t.Errorf("unmatched input should not suggest, got %q", got)
	}
	// Two scattered characters inside a long word are coincidence.
	if got := diag.Suggest("up", []string{"unrecognized_placeholder"}); got != "" {
		t.Errorf("thin match should not suggest, got %q", got)
	}
}
