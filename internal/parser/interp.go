package parser

import (
	"github.com/ruchy-lang/ruchy/internal/ast"
	"github.com/ruchy-lang/ruchy/internal/diag"
	"github.com/ruchy-lang/ruchy/internal/lexer"
)

// parseFStringExpr splits an f-string body into text and interpolation
// segments, then re-lexes and re-parses each interpolated expression.
// Spans inside the body are rebased onto the enclosing token so
// diagnostics point into the original source.
func (p *Parser) parseFStringExpr() ast.Expr {
	tok := p.curTok

	segs, errs := lexer.SplitInterp(tok.Value)

	for _, le := range errs {
		le.Span = p.rebaseInterpSpan(tok, 0, le.Span)
		p.lexErrors = append(p.lexErrors, le)
	}
	if len(errs) > 0 {
		return nil
	}

	parts := make([]ast.FStringPart, 0, len(segs))

	for _, seg := range segs {
		switch seg.Kind {
		case lexer.SegmentText:
			parts = append(parts, ast.FStringPart{Text: seg.Text})
		case lexer.SegmentExpr:
			expr := p.parseInterpExpr(tok, seg)
			if expr == nil {
				return nil
			}
			parts = append(parts, ast.FStringPart{Expr: expr, Format: seg.Format})
		}
	}

	return ast.NewFStringExpr(parts, p.spanWithFilename(tok.Span))
}

// parseInterpExpr parses one `{expr}` segment with a fresh parser over the
// segment's tokens. Its diagnostics are merged into the enclosing parse.
func (p *Parser) parseInterpExpr(tok lexer.Token, seg lexer.Segment) ast.Expr {
	sub := lexer.New(seg.Text)

	var toks []lexer.Token
	for {
		t := sub.NextToken()
		t.Span = p.rebaseInterpSpan(tok, seg.Offset, t.Span)
		toks = append(toks, t)
		if t.Type == lexer.EOF {
			break
		}
	}

	for _, le := range sub.Errors {
		le.Span = p.rebaseInterpSpan(tok, seg.Offset, le.Span)
		p.lexErrors = append(p.lexErrors, le)
	}
	if len(sub.Errors) > 0 {
		return nil
	}

	inner := newParser(toks, p.filename)

	expr := inner.parseExpr()
	p.errors = append(p.errors, inner.errors...)

	if expr == nil {
		return nil
	}

	if inner.peekTok.Type != lexer.EOF {
		p.reportErrorCode(diag.CodeParseBadInterpExpr, "unexpected trailing tokens in f-string expression", inner.peekTok.Span)
		return nil
	}

	return expr
}

// rebaseInterpSpan maps a span measured in rune offsets within an f-string
// body onto file coordinates. The body starts two runes into the token,
// after `f"`. F-string bodies cannot span lines, so only the column moves.
func (p *Parser) rebaseInterpSpan(tok lexer.Token, offset int, s lexer.Span) lexer.Span {
	base := tok.Span.Start + 2 + offset
	return lexer.Span{
		Filename: p.filename,
		Line:     tok.Span.Line,
		Column:   tok.Span.Column + 2 + offset + s.Start,
		Start:    base + s.Start,
		End:      base + s.End,
	}
}
