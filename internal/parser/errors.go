package parser

import (
	"fmt"

	"github.com/ruchy-lang/ruchy/internal/diag"
	"github.com/ruchy-lang/ruchy/internal/lexer"
)

// ParseError captures a recoverable parsing error with location context.
type ParseError struct {
	Message  string
	Span     lexer.Span
	Severity diag.Severity
	Code     diag.Code
	Help     string
	Notes    []string
}

// ToDiagnostic converts the parse error into a renderable diagnostic.
func (e ParseError) ToDiagnostic() diag.Diagnostic {
	code := e.Code
	if code == "" {
		code = diag.CodeParseUnexpectedToken
	}

	d := diag.Diagnostic{
		Stage:    diag.StageParse,
		Severity: e.Severity,
		Code:     code,
		Message:  e.Message,
		Span: diag.Span{
			Filename: e.Span.Filename,
			Line:     e.Span.Line,
			Column:   e.Span.Column,
			Start:    e.Span.Start,
			End:      e.Span.End,
		},
		Help: e.Help,
	}
	d.Notes = append(d.Notes, e.Notes...)
	return d
}

// emitParseDiagnostic records a recoverable diagnostic without aborting
// parsing. All call sites must supply the best-effort span available at the
// failure site so batch output points at the right source.
func (p *Parser) emitParseDiagnostic(err ParseError) {
	if err.Span.Filename == "" && p.filename != "" {
		err.Span.Filename = p.filename
	}

	p.errors = append(p.errors, err)
}

func (p *Parser) reportError(msg string, span lexer.Span) {
	p.emitParseDiagnostic(ParseError{
		Message:  msg,
		Span:     span,
		Severity: diag.SeverityError,
		Code:     diag.CodeParseUnexpectedToken,
	})
}

func (p *Parser) reportErrorCode(code diag.Code, msg string, span lexer.Span) {
	p.emitParseDiagnostic(ParseError{
		Message:  msg,
		Span:     span,
		Severity: diag.SeverityError,
		Code:     code,
	})
}

func (p *Parser) reportErrorWithHelp(code diag.Code, msg string, span lexer.Span, help string) {
	p.emitParseDiagnostic(ParseError{
		Message:  msg,
		Span:     span,
		Severity: diag.SeverityError,
		Code:     code,
		Help:     help,
	})
}

// reportExpectedToken reports a missing-token error, flagging unclosed
// delimiters separately when the input simply ran out.
func (p *Parser) reportExpectedToken(tt lexer.TokenType, found lexer.Token) {
	msg := fmt.Sprintf("expected '%s', found %s", string(tt), describeToken(found))

	code := diag.CodeParseUnexpectedToken
	if found.Type == lexer.EOF {
		switch tt {
		case lexer.RPAREN, lexer.RBRACKET, lexer.RBRACE, lexer.GT:
			code = diag.CodeParseUnclosedDelimiter
		}
	}

	p.reportErrorCode(code, msg, found.Span)
}

// reportUnclosed reports a missing closing delimiter for the named
// construct.
func (p *Parser) reportUnclosed(tt lexer.TokenType, what string, found lexer.Token) {
	msg := fmt.Sprintf("expected '%s' to close %s, found %s", string(tt), what, describeToken(found))
	p.reportErrorCode(diag.CodeParseUnclosedDelimiter, msg, found.Span)
}

// reportExpectedExpr reports that an expression was required where none can
// start, suggesting a keyword when the stray token looks like a typo.
func (p *Parser) reportExpectedExpr() {
	tok := p.curTok
	msg := "expected expression, found " + describeToken(tok)

	help := ""
	if tok.Type == lexer.IDENT {
		if s := diag.Suggest(tok.Raw, lexer.Keywords()); s != "" {
			help = fmt.Sprintf("did you mean '%s'?", s)
		}
	}

	p.emitParseDiagnostic(ParseError{
		Message:  msg,
		Span:     tok.Span,
		Severity: diag.SeverityError,
		Code:     diag.CodeParseExpectedExpr,
		Help:     help,
	})
}

// describeToken renders a token for error messages, quoting its source
// spelling when it has one.
func describeToken(tok lexer.Token) string {
	switch tok.Type {
	case lexer.EOF:
		return "end of input"
	case lexer.STRING, lexer.FSTRING:
		return "string literal"
	case lexer.CHAR:
		return "character literal"
	}
	if tok.Raw != "" {
		return "'" + tok.Raw + "'"
	}
	return "'" + string(tok.Type) + "'"
}
