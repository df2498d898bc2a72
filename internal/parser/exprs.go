package parser

import (
	"errors"
	"strconv"

	"github.com/ruchy-lang/ruchy/internal/ast"
	"github.com/ruchy-lang/ruchy/internal/lexer"
)

func (p *Parser) parseExpr() ast.Expr {
	return p.parseExprPrecedence(precedenceLowest)
}

// parseExprPrecedence is the core of the precedence-climbing expression
// parser. It parses a prefix expression from the current token, then folds
// infix and postfix operators onto it while their binding power exceeds
// precedence. On return the current token is the last token of the
// expression.
func (p *Parser) parseExprPrecedence(precedence int) ast.Expr {
	prefix := p.prefixFns[p.curTok.Type]
	if prefix == nil {
		p.reportExpectedExpr()
		return nil
	}

	left := prefix()
	if left == nil {
		return nil
	}

	for p.peekTok.Type != lexer.SEMICOLON && precedence < p.peekPrecedence() {
		infix := p.infixFns[p.peekTok.Type]
		if infix == nil {
			return left
		}

		// A '{' after an expression is a struct literal only when the
		// expression is a plain name and the brace is followed by a
		// field initializer. Anything else belongs to the surrounding
		// construct, such as an if condition or a loop body.
		if p.peekTok.Type == lexer.LBRACE && !p.structLiteralAhead(left) {
			return left
		}

		p.nextToken()

		left = infix(left)
		if left == nil {
			return nil
		}
	}

	return left
}

// parseIdentExpr parses an identifier, extending it into a path expression
// when '::' segments follow, as in Color::Red or std::process::exit.
func (p *Parser) parseIdentExpr() ast.Expr {
	ident := ast.NewIdent(p.curTok.Value, p.curTok.Span)

	if p.peekTok.Type != lexer.DOUBLE_COLON {
		return ident
	}

	segments := []*ast.Ident{ident}

	for p.peekTok.Type == lexer.DOUBLE_COLON {
		p.nextToken() // move to '::'

		if !p.expect(lexer.IDENT) {
			return nil
		}

		segments = append(segments, ast.NewIdent(p.curTok.Value, p.curTok.Span))
	}

	span := p.spanWithFilename(mergeSpan(ident.Span(), p.curTok.Span))
	return ast.NewPathExpr(segments, span)
}

func (p *Parser) parseIntegerLiteral() ast.Expr {
	tok := p.curTok

	value, err := parseIntegerValue(tok.Value)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			p.reportError("integer literal out of range", tok.Span)
		} else {
			p.reportError("malformed integer literal", tok.Span)
		}
		return nil
	}

	lit := ast.NewIntegerLit(tok.Raw, value, p.spanWithFilename(tok.Span))
	lit.Suffix = tok.Suffix
	return lit
}

// parseIntegerValue decodes an integer literal. Literals with a 0x, 0o or
// 0b prefix use that base; everything else is decimal, so 042 stays 42
// rather than turning octal.
func parseIntegerValue(text string) (int64, error) {
	if len(text) > 1 && text[0] == '0' {
		switch text[1] {
		case 'x', 'X', 'o', 'O', 'b', 'B':
			return strconv.ParseInt(text, 0, 64)
		}
	}
	return strconv.ParseInt(text, 10, 64)
}

func (p *Parser) parseFloatLiteral() ast.Expr {
	tok := p.curTok

	value, err := strconv.ParseFloat(tok.Value, 64)
	if err != nil {
		p.reportError("malformed float literal", tok.Span)
		return nil
	}

	lit := ast.NewFloatLit(tok.Raw, value, p.spanWithFilename(tok.Span))
	lit.Suffix = tok.Suffix
	return lit
}

func (p *Parser) parseStringLiteral() ast.Expr {
	return ast.NewStringLit(p.curTok.Value, p.spanWithFilename(p.curTok.Span))
}

func (p *Parser) parseCharLiteral() ast.Expr {
	runes := []rune(p.curTok.Value)
	if len(runes) != 1 {
		p.reportError("character literal must contain exactly one character", p.curTok.Span)
		return nil
	}
	return ast.NewCharLit(runes[0], p.spanWithFilename(p.curTok.Span))
}

func (p *Parser) parseBoolLiteral() ast.Expr {
	return ast.NewBoolLit(p.curTok.Type == lexer.TRUE, p.spanWithFilename(p.curTok.Span))
}

func (p *Parser) parsePrefixExpr() ast.Expr {
	operatorTok := p.curTok

	p.nextToken()

	right := p.parseExprPrecedence(precedencePrefix)
	if right == nil {
		return nil
	}

	span := p.spanWithFilename(mergeSpan(operatorTok.Span, right.Span()))
	return ast.NewPrefixExpr(string(operatorTok.Type), right, span)
}

// parseBorrowExpr parses '&expr' and '&mut expr'.
func (p *Parser) parseBorrowExpr() ast.Expr {
	start := p.curTok.Span
	operator := "&"

	if p.peekTok.Type == lexer.MUT {
		p.nextToken() // move to 'mut'
		operator = "&mut"
	}

	p.nextToken()

	right := p.parseExprPrecedence(precedencePrefix)
	if right == nil {
		return nil
	}

	span := p.spanWithFilename(mergeSpan(start, right.Span()))
	return ast.NewPrefixExpr(operator, right, span)
}

func (p *Parser) parsePrefixIncDec() ast.Expr {
	operatorTok := p.curTok

	p.nextToken()

	target := p.parseExprPrecedence(precedencePrefix)
	if target == nil {
		return nil
	}

	if !isAssignableTarget(target) {
		p.reportError("invalid increment/decrement target", target.Span())
		return nil
	}

	span := p.spanWithFilename(mergeSpan(operatorTok.Span, target.Span()))
	return ast.NewIncDecExpr(string(operatorTok.Type), true, target, span)
}

// parseGroupedExpr parses '(...)' starting at the opening parenthesis. It
// produces a unit literal for '()', a tuple literal when commas separate
// the elements, and otherwise returns the inner expression re-spanned to
// include the parentheses.
func (p *Parser) parseGroupedExpr() ast.Expr {
	start := p.curTok.Span

	if p.peekTok.Type == lexer.RPAREN {
		p.nextToken() // move to ')'
		return ast.NewUnitLit(p.spanWithFilename(mergeSpan(start, p.curTok.Span)))
	}

	p.nextToken()

	expr := p.parseExpr()
	if expr == nil {
		return nil
	}

	if p.peekTok.Type != lexer.COMMA {
		if !p.expect(lexer.RPAREN) {
			return nil
		}

		span := p.spanWithFilename(mergeSpan(start, p.curTok.Span))
		if setter, ok := expr.(spanSetter); ok {
			setter.SetSpan(span)
		}
		return expr
	}

	elems := []ast.Expr{expr}

	for p.peekTok.Type == lexer.COMMA {
		p.nextToken() // move to ','

		if p.peekTok.Type == lexer.RPAREN {
			break
		}

		p.nextToken()

		elem := p.parseExpr()
		if elem == nil {
			return nil
		}
		elems = append(elems, elem)
	}

	if !p.expect(lexer.RPAREN) {
		return nil
	}

	span := p.spanWithFilename(mergeSpan(start, p.curTok.Span))
	return ast.NewTupleLit(elems, span)
}

// parseArrayExpr parses '[...]' starting at the opening bracket. A 'for'
// after the first element turns the form into a list comprehension such as
// [x * x for x in items if x > 0].
func (p *Parser) parseArrayExpr() ast.Expr {
	start := p.curTok.Span

	if p.peekTok.Type == lexer.RBRACKET {
		p.nextToken() // move to ']'
		return ast.NewArrayLit(nil, p.spanWithFilename(mergeSpan(start, p.curTok.Span)))
	}

	p.nextToken()

	first := p.parseExpr()
	if first == nil {
		return nil
	}

	if p.peekTok.Type == lexer.FOR {
		return p.parseListComp(start, first)
	}

	elems := []ast.Expr{first}

	for p.peekTok.Type == lexer.COMMA {
		p.nextToken() // move to ','

		if p.peekTok.Type == lexer.RBRACKET {
			break
		}

		p.nextToken()

		elem := p.parseExpr()
		if elem == nil {
			return nil
		}
		elems = append(elems, elem)
	}

	if !p.expect(lexer.RBRACKET) {
		return nil
	}

	span := p.spanWithFilename(mergeSpan(start, p.curTok.Span))
	return ast.NewArrayLit(elems, span)
}

func (p *Parser) parseListComp(start lexer.Span, elem ast.Expr) ast.Expr {
	p.nextToken() // move to 'for'

	if !p.expect(lexer.IDENT) {
		return nil
	}

	variable := ast.NewIdent(p.curTok.Value, p.curTok.Span)

	if !p.expect(lexer.IN) {
		return nil
	}

	p.nextToken()

	iter := p.parseExpr()
	if iter == nil {
		return nil
	}

	var filter ast.Expr
	if p.peekTok.Type == lexer.IF {
		p.nextToken() // move to 'if'
		p.nextToken()

		filter = p.parseExpr()
		if filter == nil {
			return nil
		}
	}

	if !p.expect(lexer.RBRACKET) {
		return nil
	}

	span := p.spanWithFilename(mergeSpan(start, p.curTok.Span))
	return ast.NewListCompExpr(elem, variable, iter, filter, span)
}

// parseBlockLiteral parses a block in expression position, such as the
// right-hand side of let grouped = { compute(); finish() }.
func (p *Parser) parseBlockLiteral() ast.Expr {
	block := p.parseBlockExpr()
	if block == nil {
		return nil
	}
	return block
}

// parseLambdaExpr parses |params| body. The body is either a single
// expression or a block.
func (p *Parser) parseLambdaExpr() ast.Expr {
	start := p.curTok.Span

	var params []*ast.Param

	if p.peekTok.Type == lexer.PIPE {
		p.nextToken() // move to closing '|'
	} else {
		p.nextToken() // move to first parameter

		res, ok := parseDelimited(p, delimitedConfig{
			Closing:             lexer.PIPE,
			Separator:           lexer.COMMA,
			MissingElementMsg:   "expected parameter name",
			MissingSeparatorMsg: "expected ',' or '|' after lambda parameter",
		}, func(int) (*ast.Param, bool) {
			return p.parseLambdaParam()
		})
		if !ok {
			return nil
		}
		params = res
	}

	return p.parseLambdaBody(start, params)
}

// parseEmptyLambdaExpr handles '||' in prefix position, which the lexer
// tokenizes as a logical-or but which opens a lambda with no parameters.
func (p *Parser) parseEmptyLambdaExpr() ast.Expr {
	return p.parseLambdaBody(p.curTok.Span, nil)
}

func (p *Parser) parseLambdaBody(start lexer.Span, params []*ast.Param) ast.Expr {
	p.nextToken() // move to body start

	var body ast.Expr
	if p.curTok.Type == lexer.LBRACE {
		block := p.parseBlockExpr()
		if block == nil {
			return nil
		}
		body = block
	} else {
		body = p.parseExpr()
		if body == nil {
			return nil
		}
	}

	span := p.spanWithFilename(mergeSpan(start, body.Span()))
	return ast.NewLambdaExpr(params, body, span)
}

func (p *Parser) parseLambdaParam() (*ast.Param, bool) {
	if p.curTok.Type != lexer.IDENT {
		p.reportError("expected parameter name", p.curTok.Span)
		return nil, false
	}

	name := ast.NewIdent(p.curTok.Value, p.curTok.Span)
	span := p.curTok.Span

	var typ ast.TypeExpr
	if p.peekTok.Type == lexer.COLON {
		p.nextToken() // move to ':'
		p.nextToken()

		typ = p.parseTypeExpr()
		if typ == nil {
			return nil, false
		}
		span = mergeSpan(span, typ.Span())
	}

	return ast.NewParam(name, typ, p.spanWithFilename(span)), true
}

func (p *Parser) parseIfExpr() ast.Expr {
	start := p.curTok.Span

	p.nextToken()

	cond := p.parseExpr()
	if cond == nil {
		return nil
	}

	if !p.expect(lexer.LBRACE) {
		return nil
	}

	then := p.parseBlockExpr()
	if then == nil {
		return nil
	}

	span := mergeSpan(start, then.Span())

	var els ast.Expr
	if p.peekTok.Type == lexer.ELSE {
		p.nextToken() // move to 'else'

		switch p.peekTok.Type {
		case lexer.IF:
			p.nextToken()
			els = p.parseIfExpr()
			if els == nil {
				return nil
			}
		case lexer.LBRACE:
			p.nextToken()
			block := p.parseBlockExpr()
			if block == nil {
				return nil
			}
			els = block
		default:
			p.reportError("expected 'if' or '{' after 'else'", p.peekTok.Span)
			return nil
		}

		span = mergeSpan(span, els.Span())
	}

	return ast.NewIfExpr(cond, then, els, p.spanWithFilename(span))
}

func (p *Parser) parseMatchExpr() ast.Expr {
	start := p.curTok.Span

	p.nextToken()

	subject := p.parseExpr()
	if subject == nil {
		return nil
	}

	if !p.expect(lexer.LBRACE) {
		return nil
	}

	p.nextToken() // move past '{'

	var arms []*ast.MatchArm

	for p.curTok.Type != lexer.RBRACE && p.curTok.Type != lexer.EOF {
		arm := p.parseMatchArm()
		if arm == nil {
			p.recoverMatchArm()
			continue
		}

		arms = append(arms, arm)

		switch p.peekTok.Type {
		case lexer.COMMA:
			p.nextToken() // move to ','
			p.nextToken() // move to next arm or '}'
		case lexer.RBRACE:
			p.nextToken()
		default:
			// Block-bodied arms may omit the trailing comma.
			if _, blockBody := arm.Body.(*ast.BlockExpr); blockBody {
				p.nextToken()
				continue
			}
			p.reportError("expected ',' or '}' after match arm", p.peekTok.Span)
			p.nextToken()
		}
	}

	if p.curTok.Type != lexer.RBRACE {
		p.reportUnclosed(lexer.RBRACE, "match expression", p.curTok)
		return nil
	}

	span := p.spanWithFilename(mergeSpan(start, p.curTok.Span))
	return ast.NewMatchExpr(subject, arms, span)
}

func (p *Parser) parseMatchArm() *ast.MatchArm {
	start := p.curTok.Span

	pattern := p.parsePattern()
	if pattern == nil {
		return nil
	}

	var guard ast.Expr
	if p.peekTok.Type == lexer.IF {
		p.nextToken() // move to 'if'
		p.nextToken()

		guard = p.parseExpr()
		if guard == nil {
			return nil
		}
	}

	if !p.expect(lexer.FATARROW) {
		return nil
	}

	p.nextToken() // move to arm body

	var body ast.Expr
	if p.curTok.Type == lexer.LBRACE {
		block := p.parseBlockExpr()
		if block == nil {
			return nil
		}
		body = block
	} else {
		body = p.parseExpr()
		if body == nil {
			return nil
		}
	}

	span := p.spanWithFilename(mergeSpan(start, body.Span()))
	return ast.NewMatchArm(pattern, guard, body, span)
}

// recoverMatchArm skips to the next arm after a malformed one so the
// remaining arms still produce diagnostics.
func (p *Parser) recoverMatchArm() {
	for p.curTok.Type != lexer.EOF && p.curTok.Type != lexer.COMMA && p.curTok.Type != lexer.RBRACE {
		p.nextToken()
	}
	if p.curTok.Type == lexer.COMMA {
		p.nextToken()
	}
}

func (p *Parser) parseForExpr() ast.Expr {
	start := p.curTok.Span

	p.nextToken() // move to loop pattern

	pat := p.parsePrimaryPattern()
	if pat == nil {
		return nil
	}

	if !p.expect(lexer.IN) {
		return nil
	}

	p.nextToken()

	iter := p.parseExpr()
	if iter == nil {
		return nil
	}

	if !p.expect(lexer.LBRACE) {
		return nil
	}

	body := p.parseBlockExpr()
	if body == nil {
		return nil
	}

	span := p.spanWithFilename(mergeSpan(start, body.Span()))
	return ast.NewForExpr(pat, iter, body, span)
}

func (p *Parser) parseWhileExpr() ast.Expr {
	start := p.curTok.Span

	p.nextToken()

	cond := p.parseExpr()
	if cond == nil {
		return nil
	}

	if !p.expect(lexer.LBRACE) {
		return nil
	}

	body := p.parseBlockExpr()
	if body == nil {
		return nil
	}

	span := p.spanWithFilename(mergeSpan(start, body.Span()))
	return ast.NewWhileExpr(cond, body, span)
}

func (p *Parser) parseLoopExpr() ast.Expr {
	start := p.curTok.Span

	if !p.expect(lexer.LBRACE) {
		return nil
	}

	body := p.parseBlockExpr()
	if body == nil {
		return nil
	}

	span := p.spanWithFilename(mergeSpan(start, body.Span()))
	return ast.NewLoopExpr(body, span)
}

// parseBreakExpr parses 'break' with an optional value. The value must
// start on the same line; statements separate by newline alone, so a value
// on the next line belongs to the next statement.
func (p *Parser) parseBreakExpr() ast.Expr {
	tok := p.curTok

	var value ast.Expr
	if p.peekStartsExpr() && p.peekTok.Span.Line == tok.Span.Line {
		p.nextToken()

		value = p.parseExpr()
		if value == nil {
			return nil
		}
	}

	span := tok.Span
	if value != nil {
		span = mergeSpan(span, value.Span())
	}
	return ast.NewBreakExpr(value, p.spanWithFilename(span))
}

func (p *Parser) parseContinueExpr() ast.Expr {
	return ast.NewContinueExpr(p.spanWithFilename(p.curTok.Span))
}

func (p *Parser) parseReturnExpr() ast.Expr {
	tok := p.curTok

	var value ast.Expr
	if p.peekStartsExpr() && p.peekTok.Span.Line == tok.Span.Line {
		p.nextToken()

		value = p.parseExpr()
		if value == nil {
			return nil
		}
	}

	span := tok.Span
	if value != nil {
		span = mergeSpan(span, value.Span())
	}
	return ast.NewReturnExpr(value, p.spanWithFilename(span))
}
