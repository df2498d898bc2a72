// Package parser turns Ruchy source text into the ast package's syntax tree.
// Parsing is batch-oriented: errors are accumulated and reported together,
// and recovery skips to the next statement or item boundary so one bad
// construct does not hide the rest of the file.
package parser

import (
	"github.com/ruchy-lang/ruchy/internal/ast"
	"github.com/ruchy-lang/ruchy/internal/diag"
	"github.com/ruchy-lang/ruchy/internal/lexer"
)

type (
	prefixParseFn func() ast.Expr
	infixParseFn  func(ast.Expr) ast.Expr
)

type Option func(*options)

type options struct {
	filename string
}

// WithFilename configures the parser to attribute all emitted spans to the provided filename.
func WithFilename(name string) Option {
	return func(o *options) {
		o.filename = name
	}
}

// Precedence levels from loosest to tightest binding. The pipeline operator
// binds loosest so `xs |> total + 1` pipes into the whole sum.
const (
	precedenceLowest = iota
	precedencePipeline
	precedenceAssign
	precedenceRange
	precedenceOr
	precedenceAnd
	precedenceEquality
	precedenceComparison
	precedenceBitOr
	precedenceBitXor
	precedenceBitAnd
	precedenceShift
	precedenceSum
	precedenceProduct
	precedencePower
	precedenceCast
	precedencePrefix
	precedencePostfix
)

var precedences = map[lexer.TokenType]int{
	lexer.PIPELINE:       precedencePipeline,
	lexer.ASSIGN:         precedenceAssign,
	lexer.PLUS_ASSIGN:    precedenceAssign,
	lexer.MINUS_ASSIGN:   precedenceAssign,
	lexer.STAR_ASSIGN:    precedenceAssign,
	lexer.SLASH_ASSIGN:   precedenceAssign,
	lexer.PERCENT_ASSIGN: precedenceAssign,
	lexer.RANGE:          precedenceRange,
	lexer.RANGE_EQ:       precedenceRange,
	lexer.OR:             precedenceOr,
	lexer.AND:            precedenceAnd,
	lexer.EQ:             precedenceEquality,
	lexer.NOT_EQ:         precedenceEquality,
	lexer.LT:             precedenceComparison,
	lexer.LE:             precedenceComparison,
	lexer.GT:             precedenceComparison,
	lexer.GE:             precedenceComparison,
	lexer.PIPE:           precedenceBitOr,
	lexer.CARET:          precedenceBitXor,
	lexer.AMPERSAND:      precedenceBitAnd,
	lexer.SHL:            precedenceShift,
	lexer.SHR:            precedenceShift,
	lexer.PLUS:           precedenceSum,
	lexer.MINUS:          precedenceSum,
	lexer.ASTERISK:       precedenceProduct,
	lexer.SLASH:          precedenceProduct,
	lexer.PERCENT:        precedenceProduct,
	lexer.POWER:          precedencePower,
	lexer.AS:             precedenceCast,
	lexer.LPAREN:         precedencePostfix,
	lexer.LBRACKET:       precedencePostfix,
	lexer.LBRACE:         precedencePostfix,
	lexer.DOT:            precedencePostfix,
	lexer.SAFE_NAV:       precedencePostfix,
	lexer.QUESTION:       precedencePostfix,
	lexer.BANG:           precedencePostfix,
	lexer.INCREMENT:      precedencePostfix,
	lexer.DECREMENT:      precedencePostfix,
}

// Parser implements a Pratt-style recursive descent parser for Ruchy.
// Invariants:
//   - Lookahead: curTok always reflects the token currently under examination;
//     peekTok mirrors the token after it. The pair is the parser's working
//     window and is only mutated via nextToken. Disambiguation scans
//     (struct literals, generic call arguments) read further ahead through
//     peekAt without consuming anything.
//   - Diagnostics: errors is an append-only accumulator of recoverable
//     diagnostics. Callers consult Errors or Diagnostics after ParseFile.
//   - Spans: AST node spans are composed via mergeSpan so that a node always
//     covers its children. Parenthesized expressions re-span the inner node
//     instead of introducing a wrapper.
type Parser struct {
	toks    []lexer.Token
	pos     int
	curTok  lexer.Token
	peekTok lexer.Token

	errors    []ParseError
	lexErrors []lexer.LexerError

	filename string

	prefixFns map[lexer.TokenType]prefixParseFn
	infixFns  map[lexer.TokenType]infixParseFn
}

// New returns a parser initialised with the provided source input.
func New(input string, opts ...Option) *Parser {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}

	lx := lexer.New(input)
	if cfg.filename != "" {
		lx.SetFilename(cfg.filename)
	}

	var toks []lexer.Token
	for {
		tok := lx.NextToken()
		toks = append(toks, tok)
		if tok.Type == lexer.EOF {
			break
		}
	}

	p := newParser(toks, cfg.filename)
	p.lexErrors = lx.Errors
	return p
}

// newParser wires up a parser over an already-lexed token stream. The slice
// must end with an EOF token. Sub-parsers for f-string interpolations reuse
// this path with rebased token spans.
func newParser(toks []lexer.Token, filename string) *Parser {
	if len(toks) == 0 {
		toks = []lexer.Token{{Type: lexer.EOF}}
	}

	p := &Parser{
		toks:      toks,
		pos:       -1,
		filename:  filename,
		prefixFns: make(map[lexer.TokenType]prefixParseFn),
		infixFns:  make(map[lexer.TokenType]infixParseFn),
	}

	p.registerPrefix(lexer.IDENT, p.parseIdentExpr)
	p.registerPrefix(lexer.INT, p.parseIntegerLiteral)
	p.registerPrefix(lexer.FLOAT, p.parseFloatLiteral)
	p.registerPrefix(lexer.STRING, p.parseStringLiteral)
	p.registerPrefix(lexer.FSTRING, p.parseFStringExpr)
	p.registerPrefix(lexer.CHAR, p.parseCharLiteral)
	p.registerPrefix(lexer.TRUE, p.parseBoolLiteral)
	p.registerPrefix(lexer.FALSE, p.parseBoolLiteral)
	p.registerPrefix(lexer.MINUS, p.parsePrefixExpr)
	p.registerPrefix(lexer.BANG, p.parsePrefixExpr)
	p.registerPrefix(lexer.AMPERSAND, p.parseBorrowExpr)
	p.registerPrefix(lexer.INCREMENT, p.parsePrefixIncDec)
	p.registerPrefix(lexer.DECREMENT, p.parsePrefixIncDec)
	p.registerPrefix(lexer.LPAREN, p.parseGroupedExpr)
	p.registerPrefix(lexer.LBRACKET, p.parseArrayExpr)
	p.registerPrefix(lexer.LBRACE, p.parseBlockLiteral)
	p.registerPrefix(lexer.PIPE, p.parseLambdaExpr)
	p.registerPrefix(lexer.OR, p.parseEmptyLambdaExpr)
	p.registerPrefix(lexer.IF, p.parseIfExpr)
	p.registerPrefix(lexer.MATCH, p.parseMatchExpr)
	p.registerPrefix(lexer.FOR, p.parseForExpr)
	p.registerPrefix(lexer.WHILE, p.parseWhileExpr)
	p.registerPrefix(lexer.LOOP, p.parseLoopExpr)
	p.registerPrefix(lexer.BREAK, p.parseBreakExpr)
	p.registerPrefix(lexer.CONTINUE, p.parseContinueExpr)
	p.registerPrefix(lexer.RETURN, p.parseReturnExpr)

	p.registerInfix(lexer.PIPELINE, p.parsePipelineExpr)
	p.registerInfix(lexer.ASSIGN, p.parseAssignExpr)
	p.registerInfix(lexer.PLUS_ASSIGN, p.parseCompoundAssignExpr)
	p.registerInfix(lexer.MINUS_ASSIGN, p.parseCompoundAssignExpr)
	p.registerInfix(lexer.STAR_ASSIGN, p.parseCompoundAssignExpr)
	p.registerInfix(lexer.SLASH_ASSIGN, p.parseCompoundAssignExpr)
	p.registerInfix(lexer.PERCENT_ASSIGN, p.parseCompoundAssignExpr)
	p.registerInfix(lexer.RANGE, p.parseRangeExpr)
	p.registerInfix(lexer.RANGE_EQ, p.parseRangeExpr)
	p.registerInfix(lexer.OR, p.parseInfixExpr)
	p.registerInfix(lexer.AND, p.parseInfixExpr)
	p.registerInfix(lexer.EQ, p.parseInfixExpr)
	p.registerInfix(lexer.NOT_EQ, p.parseInfixExpr)
	p.registerInfix(lexer.LT, p.parseLessExpr)
	p.registerInfix(lexer.LE, p.parseInfixExpr)
	p.registerInfix(lexer.GT, p.parseInfixExpr)
	p.registerInfix(lexer.GE, p.parseInfixExpr)
	p.registerInfix(lexer.PIPE, p.parseInfixExpr)
	p.registerInfix(lexer.CARET, p.parseInfixExpr)
	p.registerInfix(lexer.AMPERSAND, p.parseInfixExpr)
	p.registerInfix(lexer.SHL, p.parseInfixExpr)
	p.registerInfix(lexer.SHR, p.parseInfixExpr)
	p.registerInfix(lexer.PLUS, p.parseInfixExpr)
	p.registerInfix(lexer.MINUS, p.parseInfixExpr)
	p.registerInfix(lexer.ASTERISK, p.parseInfixExpr)
	p.registerInfix(lexer.SLASH, p.parseInfixExpr)
	p.registerInfix(lexer.PERCENT, p.parseInfixExpr)
	p.registerInfix(lexer.POWER, p.parsePowerExpr)
	p.registerInfix(lexer.AS, p.parseCastExpr)
	p.registerInfix(lexer.LPAREN, p.parseCallExpr)
	p.registerInfix(lexer.LBRACKET, p.parseIndexExpr)
	p.registerInfix(lexer.LBRACE, p.parseStructLitExpr)
	p.registerInfix(lexer.DOT, p.parseFieldOrMethodExpr)
	p.registerInfix(lexer.SAFE_NAV, p.parseSafeNavExpr)
	p.registerInfix(lexer.QUESTION, p.parseTryExpr)
	p.registerInfix(lexer.BANG, p.parseSendExpr)
	p.registerInfix(lexer.INCREMENT, p.parsePostfixIncDec)
	p.registerInfix(lexer.DECREMENT, p.parsePostfixIncDec)

	// Seed curTok/peekTok.
	p.nextToken()

	return p
}

// Errors returns all recoverable parse errors that were encountered.
func (p *Parser) Errors() []ParseError {
	return p.errors
}

// LexErrors returns the errors the lexer accumulated while tokenizing.
func (p *Parser) LexErrors() []lexer.LexerError {
	return p.lexErrors
}

// Diagnostics merges lexer and parser errors into renderable diagnostics,
// lexer errors first.
func (p *Parser) Diagnostics() []diag.Diagnostic {
	out := make([]diag.Diagnostic, 0, len(p.lexErrors)+len(p.errors))
	for _, le := range p.lexErrors {
		out = append(out, le.ToDiagnostic())
	}
	for _, pe := range p.errors {
		out = append(out, pe.ToDiagnostic())
	}
	return out
}

// ParseFile parses a full compilation unit and returns its AST. Loose
// statements at top level are legal (script mode) and wrapped as items in
// source order.
func (p *Parser) ParseFile() *ast.Program {
	program := ast.NewProgram(nil, p.curTok.Span)

	for p.curTok.Type != lexer.EOF {
		if p.curTok.Type == lexer.SEMICOLON {
			p.nextToken()
			continue
		}

		prevTok := p.curTok
		item := p.parseItem()
		if item != nil {
			program.Items = append(program.Items, item)
			program.SetSpan(mergeSpan(program.Span(), item.Span()))
			p.nextToken()
			continue
		}

		if p.curTok.Type == lexer.EOF {
			break
		}

		p.recoverItem(prevTok)
	}

	program.SetSpan(mergeSpan(program.Span(), p.curTok.Span))

	return program
}

// nextToken advances the parser's token window.
// Contract: after calling nextToken, curTok == old(peekTok). The token slice
// is only consumed from this hop so lookahead bookkeeping stays centralized.
func (p *Parser) nextToken() {
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	p.curTok = p.toks[p.pos]
	p.peekTok = p.tokenAt(p.pos + 1)
}

// peekAt returns the token n positions ahead of curTok without consuming
// anything; peekAt(1) == peekTok. Past the end it returns the EOF token.
func (p *Parser) peekAt(n int) lexer.Token {
	return p.tokenAt(p.pos + n)
}

func (p *Parser) tokenAt(i int) lexer.Token {
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[i]
}

// expect asserts that the peek token matches the provided type.
// The caller is responsible for inspecting curTok before invoking expect,
// because expect never rewinds; on success it promotes peekTok into curTok.
func (p *Parser) expect(tt lexer.TokenType) bool {
	if p.peekTok.Type == tt {
		p.nextToken()
		return true
	}

	p.reportExpectedToken(tt, p.peekTok)
	return false
}

// splitShr rewrites the current '>>' token as two '>' tokens so nested
// generic argument lists close one level at a time. curTok must be SHR.
func (p *Parser) splitShr() {
	tok := p.toks[p.pos]

	first := tok
	first.Type = lexer.GT
	first.Raw = ">"
	first.Value = ">"
	first.Span.End = first.Span.Start + 1

	second := tok
	second.Type = lexer.GT
	second.Raw = ">"
	second.Value = ">"
	second.Span.Start++
	second.Span.Column++

	p.toks[p.pos] = first
	rest := append([]lexer.Token{second}, p.toks[p.pos+1:]...)
	p.toks = append(p.toks[:p.pos+1], rest...)

	p.curTok = first
	p.peekTok = second
}

func (p *Parser) registerPrefix(tokenType lexer.TokenType, fn prefixParseFn) {
	p.prefixFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType lexer.TokenType, fn infixParseFn) {
	p.infixFns[tokenType] = fn
}
