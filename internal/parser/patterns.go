package parser

import (
	"unicode"
	"unicode/utf8"

	"github.com/ruchy-lang/ruchy/internal/ast"
	"github.com/ruchy-lang/ruchy/internal/diag"
	"github.com/ruchy-lang/ruchy/internal/lexer"
)

// parsePattern parses a match pattern, including 'a | b' alternatives.
func (p *Parser) parsePattern() ast.Pattern {
	first := p.parsePrimaryPattern()
	if first == nil {
		return nil
	}

	if p.peekTok.Type != lexer.PIPE {
		return first
	}

	patterns := []ast.Pattern{first}

	for p.peekTok.Type == lexer.PIPE {
		p.nextToken() // move to '|'
		p.nextToken() // move to next alternative

		next := p.parsePrimaryPattern()
		if next == nil {
			return nil
		}
		patterns = append(patterns, next)
	}

	span := mergeSpan(patterns[0].Span(), patterns[len(patterns)-1].Span())
	return ast.NewPatternOr(patterns, p.spanWithFilename(span))
}

func (p *Parser) parsePrimaryPattern() ast.Pattern {
	switch p.curTok.Type {
	case lexer.IDENT:
		return p.parseNamePattern()

	case lexer.MUT:
		start := p.curTok.Span
		if !p.expect(lexer.IDENT) {
			return nil
		}
		name := ast.NewIdent(p.curTok.Value, p.curTok.Span)
		return ast.NewPatternIdent(name, true, p.spanWithFilename(mergeSpan(start, p.curTok.Span)))

	case lexer.LPAREN:
		return p.parseTuplePattern()

	case lexer.INT, lexer.FLOAT, lexer.STRING, lexer.CHAR, lexer.TRUE, lexer.FALSE, lexer.MINUS:
		return p.parseLiteralPattern()
	}

	p.reportErrorCode(diag.CodeParseExpectedPattern, "expected pattern, found "+describeToken(p.curTok), p.curTok.Span)
	return nil
}

// parseNamePattern resolves what an identifier means in pattern position.
// '_' is the wildcard, paths and capitalized names refer to enum variants,
// a name followed by '(' destructures a tuple variant, and anything else
// binds.
func (p *Parser) parseNamePattern() ast.Pattern {
	if p.curTok.Value == "_" {
		return ast.NewPatternWild(p.spanWithFilename(p.curTok.Span))
	}

	segments := []*ast.Ident{ast.NewIdent(p.curTok.Value, p.curTok.Span)}
	span := p.curTok.Span

	for p.peekTok.Type == lexer.DOUBLE_COLON {
		p.nextToken() // move to '::'

		if !p.expect(lexer.IDENT) {
			return nil
		}
		segments = append(segments, ast.NewIdent(p.curTok.Value, p.curTok.Span))
		span = mergeSpan(span, p.curTok.Span)
	}

	if p.peekTok.Type == lexer.LPAREN {
		path := ast.NewPatternPath(segments, p.spanWithFilename(span))
		return p.parseTupleStructPattern(path)
	}

	if len(segments) > 1 || startsUpper(segments[0].Name) {
		return ast.NewPatternPath(segments, p.spanWithFilename(span))
	}

	return ast.NewPatternIdent(segments[0], false, p.spanWithFilename(span))
}

func startsUpper(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}

func (p *Parser) parseTupleStructPattern(path *ast.PatternPath) ast.Pattern {
	p.nextToken() // move to '('

	var elems []ast.Pattern

	if p.peekTok.Type == lexer.RPAREN {
		p.nextToken() // move to ')'
	} else {
		p.nextToken() // move to first element

		res, ok := parseDelimited(p, delimitedConfig{
			Closing:             lexer.RPAREN,
			Separator:           lexer.COMMA,
			AllowTrailing:       true,
			MissingElementMsg:   "expected pattern",
			MissingSeparatorMsg: "expected ',' or ')' in pattern",
		}, func(int) (ast.Pattern, bool) {
			elem := p.parsePattern()
			if elem == nil {
				return nil, false
			}
			return elem, true
		})
		if !ok {
			return nil
		}
		elems = res
	}

	span := p.spanWithFilename(mergeSpan(path.Span(), p.curTok.Span))
	return ast.NewPatternTupleStruct(path, elems, span)
}

func (p *Parser) parseTuplePattern() ast.Pattern {
	start := p.curTok.Span

	var elems []ast.Pattern

	if p.peekTok.Type == lexer.RPAREN {
		p.nextToken() // move to ')'
	} else {
		p.nextToken() // move to first element

		res, ok := parseDelimited(p, delimitedConfig{
			Closing:             lexer.RPAREN,
			Separator:           lexer.COMMA,
			AllowTrailing:       true,
			MissingElementMsg:   "expected pattern",
			MissingSeparatorMsg: "expected ',' or ')' in pattern",
		}, func(int) (ast.Pattern, bool) {
			elem := p.parsePattern()
			if elem == nil {
				return nil, false
			}
			return elem, true
		})
		if !ok {
			return nil
		}
		elems = res
	}

	span := p.spanWithFilename(mergeSpan(start, p.curTok.Span))
	return ast.NewPatternTuple(elems, span)
}

// parseLiteralPattern parses a literal and extends it into a range pattern
// when '..' or '..=' follows, as in 1..=9 or 'a'..='z'.
func (p *Parser) parseLiteralPattern() ast.Pattern {
	operand := p.parsePatternOperand()
	if operand == nil {
		return nil
	}

	switch p.peekTok.Type {
	case lexer.RANGE, lexer.RANGE_EQ:
		inclusive := p.peekTok.Type == lexer.RANGE_EQ
		p.nextToken() // move to range operator
		p.nextToken() // move to end literal

		end := p.parsePatternOperand()
		if end == nil {
			return nil
		}

		span := p.spanWithFilename(mergeSpan(operand.Span(), end.Span()))
		return ast.NewPatternRange(operand, end, inclusive, span)
	}

	return ast.NewPatternLiteral(operand, operand.Span())
}

func (p *Parser) parsePatternOperand() ast.Expr {
	switch p.curTok.Type {
	case lexer.INT:
		return p.parseIntegerLiteral()
	case lexer.FLOAT:
		return p.parseFloatLiteral()
	case lexer.STRING:
		return p.parseStringLiteral()
	case lexer.CHAR:
		return p.parseCharLiteral()
	case lexer.TRUE, lexer.FALSE:
		return p.parseBoolLiteral()
	case lexer.MINUS:
		operatorTok := p.curTok

		switch p.peekTok.Type {
		case lexer.INT, lexer.FLOAT:
			p.nextToken()

			lit := p.parsePatternOperand()
			if lit == nil {
				return nil
			}

			span := p.spanWithFilename(mergeSpan(operatorTok.Span, lit.Span()))
			return ast.NewPrefixExpr("-", lit, span)
		}

		p.reportErrorCode(diag.CodeParseExpectedPattern, "expected numeric literal after '-' in pattern", p.peekTok.Span)
		return nil
	}

	p.reportErrorCode(diag.CodeParseExpectedPattern, "expected pattern, found "+describeToken(p.curTok), p.curTok.Span)
	return nil
}
