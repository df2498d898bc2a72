package parser

import (
	"testing"

	"github.com/ruchy-lang/ruchy/internal/ast"
)

func parsePatternString(t *testing.T, src string) ast.Pattern {
	t.Helper()

	p := New(src)
	pat := p.parsePattern()
	if len(p.Errors()) > 0 {
		t.Fatalf("unexpected parse errors for %q: %v", src, p.Errors())
	}
	if pat == nil {
		t.Fatalf("parsePattern returned nil for %q", src)
	}
	return pat
}

func TestWildcardPattern(t *testing.T) {
	if _, ok := parsePatternString(t, "_").(*ast.PatternWild); !ok {
		t.Fatalf("expected wildcard pattern")
	}
}

func TestBindingPatterns(t *testing.T) {
	plain, ok := parsePatternString(t, "x").(*ast.PatternIdent)
	if !ok || plain.Name.Name != "x" || plain.Mutable {
		t.Fatalf("unexpected binding: %#v", plain)
	}

	mut, ok := parsePatternString(t, "mut acc").(*ast.PatternIdent)
	if !ok || !mut.Mutable {
		t.Fatalf("expected mutable binding, got %#v", mut)
	}
}

func TestVariantPatterns(t *testing.T) {
	bare, ok := parsePatternString(t, "Red").(*ast.PatternPath)
	if !ok || len(bare.Segments) != 1 {
		t.Fatalf("unexpected bare variant: %#v", bare)
	}

	qualified, ok := parsePatternString(t, "Color::Red").(*ast.PatternPath)
	if !ok || len(qualified.Segments) != 2 {
		t.Fatalf("unexpected qualified variant: %#v", qualified)
	}
}

func TestTupleStructPatterns(t *testing.T) {
	some, ok := parsePatternString(t, "Some(x)").(*ast.PatternTupleStruct)
	if !ok || len(some.Elements) != 1 {
		t.Fatalf("unexpected pattern: %#v", some)
	}
	if _, ok := some.Elements[0].(*ast.PatternIdent); !ok {
		t.Fatalf("expected binding element, got %T", some.Elements[0])
	}

	nested, ok := parsePatternString(t, "Shape::Circle(Point(x, y), r)").(*ast.PatternTupleStruct)
	if !ok || len(nested.Elements) != 2 {
		t.Fatalf("unexpected nested pattern: %#v", nested)
	}
	if _, ok := nested.Elements[0].(*ast.PatternTupleStruct); !ok {
		t.Fatalf("expected nested tuple struct, got %T", nested.Elements[0])
	}
}

func TestTuplePatterns(t *testing.T) {
	tup, ok := parsePatternString(t, "(a, b)").(*ast.PatternTuple)
	if !ok || len(tup.Elements) != 2 {
		t.Fatalf("unexpected tuple pattern: %#v", tup)
	}
}

func TestLiteralPatterns(t *testing.T) {
	lit, ok := parsePatternString(t, "0").(*ast.PatternLiteral)
	if !ok {
		t.Fatalf("expected literal pattern")
	}
	if _, ok := lit.Expr.(*ast.IntegerLit); !ok {
		t.Fatalf("expected integer literal, got %T", lit.Expr)
	}

	neg, ok := parsePatternString(t, "-5").(*ast.PatternLiteral)
	if !ok {
		t.Fatalf("expected negative literal pattern")
	}
	if _, ok := neg.Expr.(*ast.PrefixExpr); !ok {
		t.Fatalf("expected negated literal, got %T", neg.Expr)
	}

	str, ok := parsePatternString(t, `"yes"`).(*ast.PatternLiteral)
	if !ok {
		t.Fatalf("expected string literal pattern")
	}
	if s := str.Expr.(*ast.StringLit); s.Value != "yes" {
		t.Fatalf("unexpected string value: %q", s.Value)
	}

	if _, ok := parsePatternString(t, "true").(*ast.PatternLiteral); !ok {
		t.Fatalf("expected bool literal pattern")
	}
}

func TestRangePatterns(t *testing.T) {
	incl, ok := parsePatternString(t, "1..=9").(*ast.PatternRange)
	if !ok || !incl.Inclusive {
		t.Fatalf("unexpected inclusive range: %#v", incl)
	}

	excl, ok := parsePatternString(t, "0..10").(*ast.PatternRange)
	if !ok || excl.Inclusive {
		t.Fatalf("unexpected exclusive range: %#v", excl)
	}

	chars, ok := parsePatternString(t, "'a'..='z'").(*ast.PatternRange)
	if !ok {
		t.Fatalf("expected char range pattern")
	}
	if c := chars.Start.(*ast.CharLit); c.Value != 'a' {
		t.Fatalf("unexpected range start: %#v", chars.Start)
	}

	negs, ok := parsePatternString(t, "-9..=-1").(*ast.PatternRange)
	if !ok {
		t.Fatalf("expected negative range pattern")
	}
	if _, ok := negs.Start.(*ast.PrefixExpr); !ok {
		t.Fatalf("expected negated start, got %T", negs.Start)
	}
}

func TestOrPatterns(t *testing.T) {
	or, ok := parsePatternString(t, "1 | 2 | 3").(*ast.PatternOr)
	if !ok || len(or.Patterns) != 3 {
		t.Fatalf("unexpected or pattern: %#v", or)
	}

	mixed, ok := parsePatternString(t, "Color::Red | Color::Blue").(*ast.PatternOr)
	if !ok || len(mixed.Patterns) != 2 {
		t.Fatalf("unexpected variant alternatives: %#v", mixed)
	}
	if _, ok := mixed.Patterns[0].(*ast.PatternPath); !ok {
		t.Fatalf("expected path alternative, got %T", mixed.Patterns[0])
	}
}
