package lexer

import (
	"testing"
)

// FuzzTokenize checks the lexer never panics and always terminates with EOF,
// whatever bytes it is fed.
func FuzzTokenize(f *testing.F) {
	// Seed corpus with representative inputs
	f.Add("let x = 10;")
	f.Add(`fun square(n: i32) -> i32 { n * n }`)
	f.Add(`f"x={x} y={y:.2}"`)
	f.Add("0xFF 0b1010 0o755 1_000 2.5e-3 42i32")
	f.Add(`"escaped\"quote" '\n' '\u{1F600}'`)
	f.Add("/* nested /* comment */ */")
	f.Add("a |> b ?. c ..= d")
	f.Add(`"unterminated`)
	f.Add("'x")
	f.Add("0x")
	f.Add("#[derive(Debug)]")
	f.Add("\xff\xfe")
	f.Add("{{}}{}")

	f.Fuzz(func(t *testing.T, input string) {
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("lexer panicked on input %q: %v", input, r)
			}
		}()

		toks, _ := Tokenize(input)
		if len(toks) == 0 {
			t.Errorf("no tokens for input %q", input)
			return
		}
		if toks[len(toks)-1].Type != EOF {
			t.Errorf("token stream for %q does not end with EOF", input)
		}
		for i, tok := range toks {
			if tok.Span.End < tok.Span.Start {
				t.Errorf("token %d has inverted span %d..%d", i, tok.Span.Start, tok.Span.End)
			}
		}
	})
}

// FuzzSplitInterp checks f-string segmentation never panics on arbitrary
// bodies.
func FuzzSplitInterp(f *testing.F) {
	f.Add("x={x}")
	f.Add("{{literal}}")
	f.Add("{a:{b}}")
	f.Add("{")
	f.Add("}")
	f.Add(`{join(xs, ": ")}`)
	f.Add(`tail\`)

	f.Fuzz(func(t *testing.T, body string) {
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("SplitInterp panicked on %q: %v", body, r)
			}
		}()
		segs, _ := SplitInterp(body)
		for i, seg := range segs {
			if seg.Kind == SegmentExpr && seg.Text == "" {
				t.Errorf("segment %d is an empty expression", i)
			}
		}
	})
}
