package parser

import (
	"github.com/ruchy-lang/ruchy/internal/ast"
	"github.com/ruchy-lang/ruchy/internal/lexer"
)

func (p *Parser) parseStmt() ast.Stmt {
	switch p.curTok.Type {
	case lexer.LET:
		return p.parseLetStmt()
	case lexer.GUARD:
		return p.parseGuardStmt()
	case lexer.DEFER:
		return p.parseDeferStmt()
	}

	expr := p.parseExpr()
	if expr == nil {
		return nil
	}
	return ast.NewExprStmt(expr)
}

// parseLetStmt parses 'let [mut] name [: Type] [= value]'.
func (p *Parser) parseLetStmt() ast.Stmt {
	start := p.curTok.Span

	mutable := false
	if p.peekTok.Type == lexer.MUT {
		p.nextToken() // move to 'mut'
		mutable = true
	}

	if !p.expect(lexer.IDENT) {
		return nil
	}

	name := ast.NewIdent(p.curTok.Value, p.curTok.Span)
	span := mergeSpan(start, p.curTok.Span)

	var typ ast.TypeExpr
	if p.peekTok.Type == lexer.COLON {
		p.nextToken() // move to ':'
		p.nextToken()

		typ = p.parseTypeExpr()
		if typ == nil {
			return nil
		}
		span = mergeSpan(span, typ.Span())
	}

	var value ast.Expr
	if p.peekTok.Type == lexer.ASSIGN {
		p.nextToken() // move to '='
		p.nextToken()

		value = p.parseExpr()
		if value == nil {
			return nil
		}
		span = mergeSpan(span, value.Span())
	}

	return ast.NewLetStmt(mutable, name, typ, value, p.spanWithFilename(span))
}

// parseGuardStmt parses 'guard cond else { ... }'. The else block runs when
// the condition is false and is expected to leave the enclosing scope.
func (p *Parser) parseGuardStmt() ast.Stmt {
	start := p.curTok.Span

	p.nextToken()

	cond := p.parseExpr()
	if cond == nil {
		return nil
	}

	if !p.expect(lexer.ELSE) {
		return nil
	}

	if !p.expect(lexer.LBRACE) {
		return nil
	}

	els := p.parseBlockExpr()
	if els == nil {
		return nil
	}

	span := p.spanWithFilename(mergeSpan(start, els.Span()))
	return ast.NewGuardStmt(cond, els, span)
}

// parseDeferStmt parses 'defer { ... }'. A bare expression is also accepted
// and wrapped in a block, so 'defer cleanup()' works.
func (p *Parser) parseDeferStmt() ast.Stmt {
	start := p.curTok.Span

	var body *ast.BlockExpr
	if p.peekTok.Type == lexer.LBRACE {
		p.nextToken() // move to '{'

		body = p.parseBlockExpr()
		if body == nil {
			return nil
		}
	} else {
		p.nextToken()

		expr := p.parseExpr()
		if expr == nil {
			return nil
		}
		body = ast.NewBlockExpr(nil, expr, expr.Span())
	}

	span := p.spanWithFilename(mergeSpan(start, body.Span()))
	return ast.NewDeferStmt(body, span)
}

// parseBlockExpr parses '{ ... }' starting at the opening brace. Semicolons
// between statements are optional. A final expression without a semicolon
// becomes the block's value.
func (p *Parser) parseBlockExpr() *ast.BlockExpr {
	start := p.curTok.Span

	p.nextToken() // move past '{'

	var stmts []ast.Stmt
	var tail ast.Expr

	for p.curTok.Type != lexer.RBRACE && p.curTok.Type != lexer.EOF {
		if p.curTok.Type == lexer.SEMICOLON {
			p.nextToken()
			continue
		}

		stmtStart := p.curTok

		switch p.curTok.Type {
		case lexer.LET, lexer.GUARD, lexer.DEFER:
			stmt := p.parseStmt()
			if stmt == nil {
				p.recoverStatement(stmtStart)
				continue
			}
			stmts = append(stmts, stmt)
			p.nextToken()

		default:
			expr := p.parseExpr()
			if expr == nil {
				p.recoverStatement(stmtStart)
				continue
			}

			if p.peekTok.Type == lexer.RBRACE {
				tail = expr
				p.nextToken() // move to '}'
				continue
			}

			stmts = append(stmts, ast.NewExprStmt(expr))
			p.nextToken()
		}
	}

	if p.curTok.Type != lexer.RBRACE {
		p.reportUnclosed(lexer.RBRACE, "block", p.curTok)
		return nil
	}

	span := p.spanWithFilename(mergeSpan(start, p.curTok.Span))
	return ast.NewBlockExpr(stmts, tail, span)
}
