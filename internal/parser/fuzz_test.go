package parser

import (
	"testing"
)

// FuzzParseFile checks the parser never panics and always terminates,
// whatever source it is fed. Diagnostics are exercised too since span
// merging is where malformed input tends to bite.
func FuzzParseFile(f *testing.F) {
	seeds := []string{
		"fun square(n: Int) -> Int { n * n }",
		"let mut total = 0\ntotal += 5\nprintln(total)",
		"struct Point { x: Int, y: Int }",
		"enum Shape { Circle(Float), Rect(Float, Float) }",
		"trait Greet { fun hello(&self) -> String; }",
		"impl Greet for Point { fun hello(&self) -> String { \"hi\" } }",
		"match n { 0 => \"zero\", x if x > 0 => \"pos\", _ => \"neg\" }",
		`f"val={1 + 2:.2}"`,
		"xs |> sum |> println",
		"[x * x for x in items if x > 0]",
		"max<Int>(5, 3) + id<DynArray<Int>>(xs)[0]",
		"actor Counter { count: Int }",
		"#[derive(Debug)]\npub struct S { v: Int }",
		"fun broken( {",
		"{ let = 5",
		"impl for {}",
		"use a::b::",
		"f\"{x\"",
		"((((((((((",
		"1 ..= ..",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("parser panicked on input %q: %v", input, r)
			}
		}()

		p := New(input)
		prog := p.ParseFile()

		// Recovery always yields a (possibly empty) program.
		if prog == nil {
			t.Errorf("nil program for %q", input)
			return
		}

		for _, d := range p.Diagnostics() {
			if d.Message == "" {
				t.Errorf("empty diagnostic message for %q", input)
			}
		}
	})
}
