package ast

import "github.com/ruchy-lang/ruchy/internal/lexer"

// PatternWild represents the `_` wildcard.
type PatternWild struct {
	span lexer.Span
}

// NewPatternWild constructs a wildcard pattern.
func NewPatternWild(span lexer.Span) *PatternWild {
	return &PatternWild{span: span}
}

// Span returns the wildcard span.
func (p *PatternWild) Span() lexer.Span { return p.span }

// SetSpan updates the wildcard span.
func (p *PatternWild) SetSpan(span lexer.Span) { p.span = span }

func (*PatternWild) patternNode() {}

// PatternIdent represents an identifier binding (`foo`, `mut foo`).
type PatternIdent struct {
	Name    *Ident
	Mutable bool
	span    lexer.Span
}

// NewPatternIdent constructs an identifier pattern.
func NewPatternIdent(name *Ident, mutable bool, span lexer.Span) *PatternIdent {
	return &PatternIdent{
		Name:    name,
		Mutable: mutable,
		span:    span,
	}
}

// Span returns the identifier span.
func (p *PatternIdent) Span() lexer.Span { return p.span }

// SetSpan updates the identifier span.
func (p *PatternIdent) SetSpan(span lexer.Span) { p.span = span }

func (*PatternIdent) patternNode() {}

// PatternPath represents a constant or unit-variant path (`None`, `Color::Red`).
type PatternPath struct {
	Segments []*Ident
	span     lexer.Span
}

// NewPatternPath constructs a path pattern.
func NewPatternPath(segments []*Ident, span lexer.Span) *PatternPath {
	return &PatternPath{
		Segments: segments,
		span:     span,
	}
}

// Span returns the path span.
func (p *PatternPath) Span() lexer.Span { return p.span }

// SetSpan updates the path span.
func (p *PatternPath) SetSpan(span lexer.Span) { p.span = span }

// String joins the path segments with "::".
func (p *PatternPath) String() string {
	out := ""
	for i, seg := range p.Segments {
		if i > 0 {
			out += "::"
		}
		out += seg.Name
	}
	return out
}

func (*PatternPath) patternNode() {}

// PatternLiteral represents literal patterns (numbers, strings, bools, chars).
type PatternLiteral struct {
	Expr Expr
	span lexer.Span
}

// NewPatternLiteral constructs a literal pattern wrapping an expression literal.
func NewPatternLiteral(expr Expr, span lexer.Span) *PatternLiteral {
	return &PatternLiteral{
		Expr: expr,
		span: span,
	}
}

// Span returns the literal pattern span.
func (p *PatternLiteral) Span() lexer.Span { return p.span }

// SetSpan updates the literal pattern span.
func (p *PatternLiteral) SetSpan(span lexer.Span) { p.span = span }

func (*PatternLiteral) patternNode() {}

// PatternRange represents range patterns (`a..b`, `a..=b`).
type PatternRange struct {
	Start     Expr
	End       Expr
	Inclusive bool
	span      lexer.Span
}

// NewPatternRange constructs a range pattern.
func NewPatternRange(start Expr, end Expr, inclusive bool, span lexer.Span) *PatternRange {
	return &PatternRange{
		Start:     start,
		End:       end,
		Inclusive: inclusive,
		span:      span,
	}
}

// Span returns the range span.
func (p *PatternRange) Span() lexer.Span { return p.span }

// SetSpan updates the range span.
func (p *PatternRange) SetSpan(span lexer.Span) { p.span = span }

func (*PatternRange) patternNode() {}

// PatternTuple represents tuple destructuring (`(a, b)`).
type PatternTuple struct {
	Elements []Pattern
	span     lexer.Span
}

// NewPatternTuple constructs a tuple pattern.
func NewPatternTuple(elements []Pattern, span lexer.Span) *PatternTuple {
	return &PatternTuple{
		Elements: elements,
		span:     span,
	}
}

// Span returns the tuple span.
func (p *PatternTuple) Span() lexer.Span { return p.span }

// SetSpan updates the tuple span.
func (p *PatternTuple) SetSpan(span lexer.Span) { p.span = span }

func (*PatternTuple) patternNode() {}

// PatternTupleStruct represents tuple-variant patterns (`Some(x)`, `Point(x, y)`).
type PatternTupleStruct struct {
	Path     *PatternPath
	Elements []Pattern
	span     lexer.Span
}

// NewPatternTupleStruct constructs a tuple-struct pattern.
func NewPatternTupleStruct(path *PatternPath, elements []Pattern, span lexer.Span) *PatternTupleStruct {
	return &PatternTupleStruct{
		Path:     path,
		Elements: elements,
		span:     span,
	}
}

// Span returns the tuple-struct span.
func (p *PatternTupleStruct) Span() lexer.Span { return p.span }

// SetSpan updates the tuple-struct span.
func (p *PatternTupleStruct) SetSpan(span lexer.Span) { p.span = span }

func (*PatternTupleStruct) patternNode() {}

// PatternOr represents alternation (`p1 | p2`).
type PatternOr struct {
	Patterns []Pattern
	span     lexer.Span
}

// NewPatternOr constructs an alternation pattern.
func NewPatternOr(patterns []Pattern, span lexer.Span) *PatternOr {
	return &PatternOr{
		Patterns: patterns,
		span:     span,
	}
}

// Span returns the alternation span.
func (p *PatternOr) Span() lexer.Span { return p.span }

// SetSpan updates the alternation span.
func (p *PatternOr) SetSpan(span lexer.Span) { p.span = span }

func (*PatternOr) patternNode() {}
