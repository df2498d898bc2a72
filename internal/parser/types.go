package parser

import (
	"github.com/ruchy-lang/ruchy/internal/ast"
	"github.com/ruchy-lang/ruchy/internal/diag"
	"github.com/ruchy-lang/ruchy/internal/lexer"
)

// parseTypeExpr parses a type starting at the current token. On return the
// current token is the last token of the type.
func (p *Parser) parseTypeExpr() ast.TypeExpr {
	var typ ast.TypeExpr

	switch p.curTok.Type {
	case lexer.IDENT:
		typ = p.parseNamedType()
	case lexer.LBRACKET:
		typ = p.parseListType()
	case lexer.LPAREN:
		typ = p.parseParenType()
	case lexer.AMPERSAND:
		typ = p.parseRefType()
	default:
		p.reportErrorCode(diag.CodeParseExpectedType, "expected type, found "+describeToken(p.curTok), p.curTok.Span)
		return nil
	}

	if typ == nil {
		return nil
	}

	// T? is shorthand for Optional<T>. The suffix may stack.
	for p.peekTok.Type == lexer.QUESTION {
		p.nextToken() // move to '?'

		span := p.spanWithFilename(mergeSpan(typ.Span(), p.curTok.Span))
		typ = ast.NewNamedType(
			[]*ast.Ident{ast.NewIdent("Optional", p.curTok.Span)},
			[]ast.TypeExpr{typ},
			span,
		)
	}

	return typ
}

// parseNamedType parses 'Name', 'a::b::Name' and 'Name<Args>'. A bare '_'
// leaves the type to be inferred.
func (p *Parser) parseNamedType() ast.TypeExpr {
	if p.curTok.Value == "_" {
		return ast.NewInferType(p.spanWithFilename(p.curTok.Span))
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

	var args []ast.TypeExpr
	if p.peekTok.Type == lexer.LT {
		p.nextToken() // move to '<'
		p.nextToken() // move to first type argument

		for {
			arg := p.parseTypeExpr()
			if arg == nil {
				return nil
			}
			args = append(args, arg)

			if p.peekTok.Type != lexer.COMMA {
				break
			}
			p.nextToken() // move to ','
			p.nextToken()
		}

		if !p.expectTypeArgsClose() {
			return nil
		}
		span = mergeSpan(span, p.curTok.Span)
	}

	return ast.NewNamedType(segments, args, p.spanWithFilename(span))
}

// expectTypeArgsClose consumes the '>' closing a type argument list. When
// two lists close together the lexer sees '>>', so the token is split and
// the second half left for the outer list.
func (p *Parser) expectTypeArgsClose() bool {
	switch p.peekTok.Type {
	case lexer.GT:
		p.nextToken()
		return true
	case lexer.SHR:
		p.nextToken()
		p.splitShr()
		return true
	default:
		p.reportExpectedToken(lexer.GT, p.peekTok)
		return false
	}
}

// parseListType parses '[T]'.
func (p *Parser) parseListType() ast.TypeExpr {
	start := p.curTok.Span

	p.nextToken() // move to element type

	elem := p.parseTypeExpr()
	if elem == nil {
		return nil
	}

	if !p.expect(lexer.RBRACKET) {
		return nil
	}

	return ast.NewListType(elem, p.spanWithFilename(mergeSpan(start, p.curTok.Span)))
}

// parseParenType parses the forms that open with '(': the unit type '()',
// a parenthesized type, a tuple type, and the function type
// '(A, B) -> C'.
func (p *Parser) parseParenType() ast.TypeExpr {
	start := p.curTok.Span

	var params []ast.TypeExpr

	if p.peekTok.Type == lexer.RPAREN {
		p.nextToken() // move to ')'
	} else {
		p.nextToken() // move to first type

		res, ok := parseDelimited(p, delimitedConfig{
			Closing:             lexer.RPAREN,
			Separator:           lexer.COMMA,
			AllowTrailing:       true,
			MissingElementMsg:   "expected type",
			MissingSeparatorMsg: "expected ',' or ')' in type list",
		}, func(int) (ast.TypeExpr, bool) {
			typ := p.parseTypeExpr()
			if typ == nil {
				return nil, false
			}
			return typ, true
		})
		if !ok {
			return nil
		}
		params = res
	}

	closeSpan := p.curTok.Span

	if p.peekTok.Type == lexer.ARROW {
		p.nextToken() // move to '->'
		p.nextToken()

		ret := p.parseTypeExpr()
		if ret == nil {
			return nil
		}

		return ast.NewFunType(params, ret, p.spanWithFilename(mergeSpan(start, ret.Span())))
	}

	span := p.spanWithFilename(mergeSpan(start, closeSpan))

	switch len(params) {
	case 0:
		return ast.NewUnitType(span)
	case 1:
		if setter, ok := params[0].(spanSetter); ok {
			setter.SetSpan(span)
		}
		return params[0]
	}
	return ast.NewTupleType(params, span)
}

// parseRefType parses '&T' and '&mut T'.
func (p *Parser) parseRefType() ast.TypeExpr {
	start := p.curTok.Span

	mutable := false
	if p.peekTok.Type == lexer.MUT {
		p.nextToken() // move to 'mut'
		mutable = true
	}

	p.nextToken() // move to referent

	elem := p.parseTypeExpr()
	if elem == nil {
		return nil
	}

	return ast.NewRefType(mutable, elem, p.spanWithFilename(mergeSpan(start, elem.Span())))
}
