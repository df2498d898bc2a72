package parser

import (
	"github.com/ruchy-lang/ruchy/internal/ast"
	"github.com/ruchy-lang/ruchy/internal/lexer"
)

func (p *Parser) parseInfixExpr(left ast.Expr) ast.Expr {
	operatorTok := p.curTok
	precedence := p.curPrecedence()

	p.nextToken()

	right := p.parseExprPrecedence(precedence)
	if right == nil {
		return nil
	}

	span := p.spanWithFilename(mergeSpan(left.Span(), right.Span()))
	return ast.NewInfixExpr(left, string(operatorTok.Type), right, span)
}

// parsePowerExpr parses '**' right-associatively, so 2 ** 3 ** 2 is
// 2 ** (3 ** 2).
func (p *Parser) parsePowerExpr(left ast.Expr) ast.Expr {
	operatorTok := p.curTok

	p.nextToken()

	right := p.parseExprPrecedence(precedencePower - 1)
	if right == nil {
		return nil
	}

	span := p.spanWithFilename(mergeSpan(left.Span(), right.Span()))
	return ast.NewInfixExpr(left, string(operatorTok.Type), right, span)
}

func (p *Parser) parsePipelineExpr(left ast.Expr) ast.Expr {
	p.nextToken()

	right := p.parseExprPrecedence(precedencePipeline)
	if right == nil {
		return nil
	}

	span := p.spanWithFilename(mergeSpan(left.Span(), right.Span()))
	return ast.NewPipelineExpr(left, right, span)
}

// isAssignableTarget reports whether expr may appear on the left of an
// assignment or as the operand of ++/--.
func isAssignableTarget(expr ast.Expr) bool {
	switch e := expr.(type) {
	case *ast.Ident:
		return true
	case *ast.FieldExpr:
		return isAssignableTarget(e.Receiver)
	case *ast.IndexExpr:
		return isAssignableTarget(e.Receiver)
	}
	return false
}

// parseAssignExpr parses '=' right-associatively so a = b = c assigns c
// through b to a.
func (p *Parser) parseAssignExpr(target ast.Expr) ast.Expr {
	valid := isAssignableTarget(target)
	if !valid {
		p.reportError("invalid assignment target", target.Span())
	}

	p.nextToken()

	value := p.parseExprPrecedence(precedenceAssign - 1)
	if value == nil || !valid {
		return nil
	}

	span := p.spanWithFilename(mergeSpan(target.Span(), value.Span()))
	return ast.NewAssignExpr(target, value, span)
}

func (p *Parser) parseCompoundAssignExpr(target ast.Expr) ast.Expr {
	operatorTok := p.curTok

	valid := isAssignableTarget(target)
	if !valid {
		p.reportError("invalid assignment target", target.Span())
	}

	p.nextToken()

	value := p.parseExprPrecedence(precedenceAssign - 1)
	if value == nil || !valid {
		return nil
	}

	span := p.spanWithFilename(mergeSpan(target.Span(), value.Span()))
	return ast.NewCompoundAssignExpr(target, string(operatorTok.Type), value, span)
}

// parseRangeExpr parses '..' and '..='. The end is optional so xs[1..]
// slices to the end of the receiver.
func (p *Parser) parseRangeExpr(start ast.Expr) ast.Expr {
	operatorTok := p.curTok
	inclusive := operatorTok.Type == lexer.RANGE_EQ

	var end ast.Expr
	if p.peekStartsExpr() {
		p.nextToken()

		end = p.parseExprPrecedence(precedenceRange)
		if end == nil {
			return nil
		}
	}

	span := mergeSpan(start.Span(), operatorTok.Span)
	if end != nil {
		span = mergeSpan(span, end.Span())
	}
	return ast.NewRangeExpr(start, end, inclusive, p.spanWithFilename(span))
}

// parseLessExpr disambiguates '<' after a name. It opens a generic
// argument list only when the tokens ahead form a type list closed by '>'
// and immediately followed by a call; otherwise it is the comparison
// operator.
func (p *Parser) parseLessExpr(left ast.Expr) ast.Expr {
	switch left.(type) {
	case *ast.Ident, *ast.PathExpr:
		if p.genericCallAhead() {
			return p.parseGenericCallExpr(left)
		}
	}
	return p.parseInfixExpr(left)
}

func (p *Parser) parseGenericCallExpr(callee ast.Expr) ast.Expr {
	p.nextToken() // move to first type argument

	var typeArgs []ast.TypeExpr

	for {
		arg := p.parseTypeExpr()
		if arg == nil {
			return nil
		}
		typeArgs = append(typeArgs, arg)

		if p.peekTok.Type != lexer.COMMA {
			break
		}
		p.nextToken() // move to ','
		p.nextToken()
	}

	if !p.expectTypeArgsClose() {
		return nil
	}

	if !p.expect(lexer.LPAREN) {
		return nil
	}

	callExpr := p.parseCallExpr(callee)
	if callExpr == nil {
		return nil
	}

	call := callExpr.(*ast.CallExpr)
	call.TypeArgs = typeArgs
	return call
}

func (p *Parser) parseCastExpr(left ast.Expr) ast.Expr {
	p.nextToken() // move to target type

	typ := p.parseTypeExpr()
	if typ == nil {
		return nil
	}

	span := p.spanWithFilename(mergeSpan(left.Span(), typ.Span()))
	return ast.NewCastExpr(left, typ, span)
}

func (p *Parser) parseCallExpr(callee ast.Expr) ast.Expr {
	var args []ast.Expr

	if p.peekTok.Type == lexer.RPAREN {
		p.nextToken() // move to ')'
	} else {
		p.nextToken() // move to first argument

		res, ok := parseDelimited(p, delimitedConfig{
			Closing:             lexer.RPAREN,
			Separator:           lexer.COMMA,
			AllowTrailing:       true,
			MissingElementMsg:   "expected expression",
			MissingSeparatorMsg: "expected ',' or ')' after argument",
		}, func(int) (ast.Expr, bool) {
			arg := p.parseExpr()
			if arg == nil {
				return nil, false
			}
			return arg, true
		})
		if !ok {
			return nil
		}
		args = res
	}

	span := p.spanWithFilename(mergeSpan(callee.Span(), p.curTok.Span))
	return ast.NewCallExpr(callee, args, span)
}

func (p *Parser) parseIndexExpr(receiver ast.Expr) ast.Expr {
	p.nextToken() // move past '['

	index := p.parseExpr()
	if index == nil {
		return nil
	}

	if !p.expect(lexer.RBRACKET) {
		return nil
	}

	span := p.spanWithFilename(mergeSpan(receiver.Span(), p.curTok.Span))
	return ast.NewIndexExpr(receiver, index, span)
}

// parseStructLitExpr parses the braced field list of a struct literal. The
// caller has already checked that a field initializer follows the brace.
// Fields without a value use init shorthand, as in Point { x, y: 0 }.
func (p *Parser) parseStructLitExpr(path ast.Expr) ast.Expr {
	p.nextToken() // move to first field

	var fields []*ast.FieldInit

	for p.curTok.Type != lexer.RBRACE && p.curTok.Type != lexer.EOF {
		if p.curTok.Type != lexer.IDENT {
			p.reportError("expected field name in struct literal", p.curTok.Span)
			return nil
		}

		name := ast.NewIdent(p.curTok.Value, p.curTok.Span)
		fieldSpan := p.curTok.Span

		var value ast.Expr
		if p.peekTok.Type == lexer.COLON {
			p.nextToken() // move to ':'
			p.nextToken()

			value = p.parseExpr()
			if value == nil {
				return nil
			}
			fieldSpan = mergeSpan(fieldSpan, value.Span())
		}

		fields = append(fields, ast.NewFieldInit(name, value, p.spanWithFilename(fieldSpan)))

		switch p.peekTok.Type {
		case lexer.COMMA:
			p.nextToken() // move to ','
			p.nextToken()
		case lexer.RBRACE:
			p.nextToken()
		default:
			p.reportError("expected ',' or '}' in struct literal", p.peekTok.Span)
			return nil
		}
	}

	if p.curTok.Type != lexer.RBRACE {
		p.reportUnclosed(lexer.RBRACE, "struct literal", p.curTok)
		return nil
	}

	span := p.spanWithFilename(mergeSpan(path.Span(), p.curTok.Span))
	return ast.NewStructLit(path, fields, span)
}

// parseFieldOrMethodExpr parses '.' access. A '(' after the member name
// makes it a method call; an integer member is a tuple index such as
// pair.0.
func (p *Parser) parseFieldOrMethodExpr(receiver ast.Expr) ast.Expr {
	switch p.peekTok.Type {
	case lexer.IDENT, lexer.INT:
		p.nextToken()
	default:
		p.reportExpectedToken(lexer.IDENT, p.peekTok)
		return nil
	}

	member := ast.NewIdent(p.curTok.Value, p.curTok.Span)

	if p.peekTok.Type == lexer.LPAREN {
		p.nextToken() // move to '('
		return p.finishMethodCall(receiver, member, false)
	}

	span := p.spanWithFilename(mergeSpan(receiver.Span(), member.Span()))
	return ast.NewFieldExpr(receiver, member, span)
}

func (p *Parser) parseSafeNavExpr(receiver ast.Expr) ast.Expr {
	if !p.expect(lexer.IDENT) {
		return nil
	}

	member := ast.NewIdent(p.curTok.Value, p.curTok.Span)

	if p.peekTok.Type == lexer.LPAREN {
		p.nextToken() // move to '('
		return p.finishMethodCall(receiver, member, true)
	}

	span := p.spanWithFilename(mergeSpan(receiver.Span(), member.Span()))
	return ast.NewSafeFieldExpr(receiver, member, span)
}

// finishMethodCall parses the argument list of a method call. The current
// token is the opening parenthesis.
func (p *Parser) finishMethodCall(receiver ast.Expr, method *ast.Ident, safe bool) ast.Expr {
	var args []ast.Expr

	if p.peekTok.Type == lexer.RPAREN {
		p.nextToken() // move to ')'
	} else {
		p.nextToken() // move to first argument

		res, ok := parseDelimited(p, delimitedConfig{
			Closing:             lexer.RPAREN,
			Separator:           lexer.COMMA,
			AllowTrailing:       true,
			MissingElementMsg:   "expected expression",
			MissingSeparatorMsg: "expected ',' or ')' after argument",
		}, func(int) (ast.Expr, bool) {
			arg := p.parseExpr()
			if arg == nil {
				return nil, false
			}
			return arg, true
		})
		if !ok {
			return nil
		}
		args = res
	}

	span := p.spanWithFilename(mergeSpan(receiver.Span(), p.curTok.Span))
	if safe {
		return ast.NewSafeMethodCallExpr(receiver, method, args, span)
	}
	return ast.NewMethodCallExpr(receiver, method, args, span)
}

func (p *Parser) parseTryExpr(inner ast.Expr) ast.Expr {
	span := p.spanWithFilename(mergeSpan(inner.Span(), p.curTok.Span))
	return ast.NewTryExpr(inner, span)
}

// parseSendExpr parses the actor message send actor!(msg).
func (p *Parser) parseSendExpr(actor ast.Expr) ast.Expr {
	if p.peekTok.Type != lexer.LPAREN {
		p.reportError("expected '(' after '!' to send a message", p.peekTok.Span)
		return nil
	}

	p.nextToken() // move to '('
	p.nextToken()

	message := p.parseExpr()
	if message == nil {
		return nil
	}

	if !p.expect(lexer.RPAREN) {
		return nil
	}

	span := p.spanWithFilename(mergeSpan(actor.Span(), p.curTok.Span))
	return ast.NewSendExpr(actor, message, span)
}

func (p *Parser) parsePostfixIncDec(target ast.Expr) ast.Expr {
	if !isAssignableTarget(target) {
		p.reportError("invalid increment/decrement target", target.Span())
		return nil
	}

	span := p.spanWithFilename(mergeSpan(target.Span(), p.curTok.Span))
	return ast.NewIncDecExpr(string(p.curTok.Type), false, target, span)
}
