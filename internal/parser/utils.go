package parser

import (
	"github.com/ruchy-lang/ruchy/internal/ast"
	"github.com/ruchy-lang/ruchy/internal/lexer"
)

// mergeSpan assumes start.End <= end.End and returns a span covering both.
// The parser relies on lexer spans being half-open; callers should pass the
// earliest start span first to preserve monotonic growth for AST nodes.
func mergeSpan(start, end lexer.Span) lexer.Span {
	span := start

	if span.Filename == "" {
		span.Filename = end.Filename
	}

	if end.End > span.End {
		span.End = end.End
	}

	return span
}

func (p *Parser) spanWithFilename(span lexer.Span) lexer.Span {
	if span.Filename == "" && p.filename != "" {
		span.Filename = p.filename
	}
	return span
}

func sameTokenPosition(a, b lexer.Token) bool {
	return a.Type == b.Type && a.Span.Start == b.Span.Start && a.Span.End == b.Span.End
}

func isItemStart(tt lexer.TokenType) bool {
	switch tt {
	case lexer.FUN, lexer.STRUCT, lexer.ENUM, lexer.TRAIT, lexer.IMPL,
		lexer.USE, lexer.ACTOR, lexer.PUB, lexer.HASH:
		return true
	default:
		return false
	}
}

func isStatementStart(tt lexer.TokenType) bool {
	switch tt {
	case lexer.LET, lexer.GUARD, lexer.DEFER, lexer.RETURN, lexer.IF,
		lexer.WHILE, lexer.FOR, lexer.LOOP, lexer.MATCH:
		return true
	default:
		return false
	}
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekTok.Type]; ok {
		return prec
	}

	return precedenceLowest
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curTok.Type]; ok {
		return prec
	}

	return precedenceLowest
}

// recoverItem skips tokens after a failed item parse until a likely item
// boundary: a semicolon, a closing brace, or the start of the next item.
func (p *Parser) recoverItem(prev lexer.Token) {
	if p.curTok.Type == lexer.EOF {
		return
	}

	if sameTokenPosition(p.curTok, prev) {
		p.nextToken()
	}

	for p.curTok.Type != lexer.EOF {
		switch p.curTok.Type {
		case lexer.SEMICOLON:
			p.nextToken()
			return
		case lexer.RBRACE:
			p.nextToken()
			return
		default:
			if isItemStart(p.curTok.Type) {
				return
			}
		}

		p.nextToken()
	}
}

// recoverStatement skips tokens after a failed statement parse until the
// next statement can plausibly begin.
func (p *Parser) recoverStatement(prev lexer.Token) {
	if p.curTok.Type == lexer.EOF {
		return
	}

	if sameTokenPosition(p.curTok, prev) {
		p.nextToken()
	}

	for p.curTok.Type != lexer.EOF {
		switch p.curTok.Type {
		case lexer.SEMICOLON:
			p.nextToken()
			return
		case lexer.RBRACE:
			return
		default:
			if isItemStart(p.curTok.Type) || isStatementStart(p.curTok.Type) {
				return
			}
		}

		p.nextToken()
	}
}

// spanSetter is satisfied by nodes that expose SetSpan. parseGroupedExpr uses
// it to widen spans without wrapping the underlying node in a synthetic AST
// type.
type spanSetter interface {
	SetSpan(lexer.Span)
}

// structLiteralAhead decides whether a '{' in expression position opens a
// struct literal. It does only when the expression so far is a bare path and
// the tokens after the brace look like a field initializer (IDENT ':'), so
// `match color { Red => .. }` keeps its block and `Point { x: 1 }` does not.
// peekTok must be LBRACE.
func (p *Parser) structLiteralAhead(left ast.Expr) bool {
	switch left.(type) {
	case *ast.Ident, *ast.PathExpr:
	default:
		return false
	}

	return p.peekAt(2).Type == lexer.IDENT && p.peekAt(3).Type == lexer.COLON
}

// genericCallAhead decides whether a '<' after a call path opens generic
// type arguments. The trial scan accepts only type-looking tokens, requires
// the angle brackets to balance before a statement boundary, and demands a
// call '(' right after the closing '>'; anything else parses as comparison.
// curTok must be LT.
func (p *Parser) genericCallAhead() bool {
	depth := 0
	for i := p.pos; i < len(p.toks); i++ {
		switch p.toks[i].Type {
		case lexer.LT:
			depth++
		case lexer.GT:
			depth--
			if depth == 0 {
				return p.tokenAt(i+1).Type == lexer.LPAREN
			}
			if depth < 0 {
				return false
			}
		case lexer.SHR:
			depth -= 2
			if depth == 0 {
				return p.tokenAt(i+1).Type == lexer.LPAREN
			}
			if depth < 0 {
				return false
			}
		case lexer.IDENT, lexer.DOUBLE_COLON, lexer.COMMA, lexer.LBRACKET,
			lexer.RBRACKET, lexer.AMPERSAND, lexer.MUT, lexer.LPAREN,
			lexer.RPAREN, lexer.ARROW, lexer.QUESTION:
			// Type-looking; keep scanning.
		default:
			return false
		}
	}
	return false
}

// peekStartsExpr reports whether the peek token can begin an expression.
// Block literals are excluded so `break` followed by a loop body brace is
// not swallowed as a break value.
func (p *Parser) peekStartsExpr() bool {
	if p.peekTok.Type == lexer.LBRACE {
		return false
	}
	return p.prefixFns[p.peekTok.Type] != nil
}
