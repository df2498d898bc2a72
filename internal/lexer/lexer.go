package lexer

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/ruchy-lang/ruchy/internal/diag"
)

type LexerErrorKind int

const (
	ErrUnterminatedString LexerErrorKind = iota
	ErrUnterminatedChar
	ErrUnterminatedBlockComment
	ErrUnterminatedInterp
	ErrBadInterp
	ErrMalformedNumber
	ErrMalformedChar
	ErrBadEscape
	ErrIllegalRune
)

type LexerError struct {
	Kind    LexerErrorKind
	Message string
	Span    Span
}

func (k LexerErrorKind) diagnosticCode() diag.Code {
	switch k {
	case ErrUnterminatedString:
		return diag.CodeLexUnterminatedString
	case ErrUnterminatedChar, ErrMalformedChar:
		return diag.CodeLexUnterminatedChar
	case ErrUnterminatedBlockComment:
		return diag.CodeLexUnterminatedBlockComment
	case ErrUnterminatedInterp:
		return diag.CodeLexUnterminatedInterp
	case ErrBadInterp:
		return diag.CodeLexBadInterp
	case ErrMalformedNumber:
		return diag.CodeLexMalformedNumber
	case ErrBadEscape:
		return diag.CodeLexBadEscape
	case ErrIllegalRune:
		return diag.CodeLexIllegalRune
	default:
		return diag.Code("LEX_UNKNOWN_ERROR")
	}
}

// ToDiagnostic converts a lexer error into a shared diagnostic structure.
func (e LexerError) ToDiagnostic() diag.Diagnostic {
	return diag.Diagnostic{
		Stage:    diag.StageLex,
		Severity: diag.SeverityError,
		Code:     e.Kind.diagnosticCode(),
		Message:  e.Message,
		Span: diag.Span{
			Filename: e.Span.Filename,
			Line:     e.Span.Line,
			Column:   e.Span.Column,
			Start:    e.Span.Start,
			End:      e.Span.End,
		},
	}
}

// Lexer represents the lexer state
type Lexer struct {
	input      []rune
	filename   string
	pos        int  // index of the current rune
	ch         rune // current rune (0 = EOF)
	line       int  // current line number (1-based)
	column     int  // current column number (1-based)
	emitTrivia bool // whether to emit trivia tokens (comments, whitespace)

	Errors []LexerError
}

func (l *Lexer) addError(kind LexerErrorKind, msg string, span Span) {
	span.Filename = l.filename
	l.Errors = append(l.Errors, LexerError{
		Kind:    kind,
		Message: msg,
		Span:    span,
	})
}

// newLexer is the single internal constructor that sets up all lexer state
func newLexer(input string, emitTrivia bool) *Lexer {
	l := &Lexer{
		input:      []rune(input),
		pos:        -1, // start before first rune
		ch:         0,
		line:       1,
		column:     0, // will be 1 after first read()
		emitTrivia: emitTrivia,
	}
	l.read() // move to first character
	return l
}

// New creates a new lexer for the given input (trivia mode disabled)
func New(input string) *Lexer {
	return newLexer(input, false)
}

// NewWithTrivia creates a new lexer that emits trivia tokens
func NewWithTrivia(input string) *Lexer {
	return newLexer(input, true)
}

// SetFilename attaches a filename to every span the lexer produces.
func (l *Lexer) SetFilename(name string) {
	l.filename = name
}

// Tokenize lexes the whole input and returns the tokens followed by any
// accumulated errors. The token slice always ends with an EOF token.
func Tokenize(input string) ([]Token, []LexerError) {
	l := New(input)
	var toks []Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == EOF {
			return toks, l.Errors
		}
	}
}

// read advances the lexer to the next character. Line/column always reflect
// the position of the character at pos.
func (l *Lexer) read() {
	l.pos++
	prevPos := l.pos - 1
	inputLen := len(l.input)

	if l.pos >= inputLen {
		if prevPos >= 0 && prevPos < inputLen {
			if l.input[prevPos] == '\n' {
				l.line++
				l.column = 1
			} else {
				l.column++
			}
		} else if prevPos < 0 {
			l.column = 1
		}
		l.ch = 0 // EOF
		return
	}

	l.ch = l.input[l.pos]
	if prevPos >= 0 && l.input[prevPos] == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
}

// peek returns the next character without advancing
func (l *Lexer) peek() rune {
	if l.pos+1 >= len(l.input) {
		return 0
	}
	return l.input[l.pos+1]
}

// peek2 returns the character two ahead without advancing
func (l *Lexer) peek2() rune {
	if l.pos+2 >= len(l.input) {
		return 0
	}
	return l.input[l.pos+2]
}

// currentSpanStart captures the position of the character about to be tokenized
func (l *Lexer) currentSpanStart() (line, column, pos int) {
	return l.line, l.column, l.pos
}

// makeToken creates a token with span information
func (l *Lexer) makeToken(tokType TokenType, startLine, startColumn, startPos, endPos int, raw, value string) Token {
	return Token{
		Type:  tokType,
		Raw:   raw,
		Value: value,
		Span: Span{
			Filename: l.filename,
			Line:     startLine,
			Column:   startColumn,
			Start:    startPos,
			End:      endPos,
		},
	}
}

// opToken consumes n runes and returns them as a single operator token.
func (l *Lexer) opToken(tokType TokenType, n int) Token {
	startLine, startColumn, startPos := l.currentSpanStart()
	raw := make([]rune, 0, n)
	for i := 0; i < n && l.ch != 0; i++ {
		raw = append(raw, l.ch)
		l.read()
	}
	s := string(raw)
	return l.makeToken(tokType, startLine, startColumn, startPos, l.pos, s, s)
}

// skipWhitespace skips whitespace characters, optionally returning a trivia token
func (l *Lexer) skipWhitespace() *Token {
	if !l.emitTrivia {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
			l.read()
		}
		return nil
	}

	startLine, startColumn, startPos := l.currentSpanStart()

	if l.ch == '\n' || l.ch == '\r' {
		raw := string(l.ch)
		l.read()
		if l.ch == '\n' && raw == "\r" {
			raw = "\r\n"
			l.read()
		}
		tok := l.makeToken(NEWLINE, startLine, startColumn, startPos, l.pos, raw, raw)
		return &tok
	}

	if l.ch == ' ' || l.ch == '\t' {
		for l.ch == ' ' || l.ch == '\t' {
			l.read()
		}
		raw := string(l.input[startPos:l.pos])
		tok := l.makeToken(WHITESPACE, startLine, startColumn, startPos, l.pos, raw, raw)
		return &tok
	}

	return nil
}

// skipLineComment consumes a line comment whose "//" was already consumed.
func (l *Lexer) skipLineComment(startLine, startColumn, startPos int) *Token {
	for l.ch != '\n' && l.ch != '\r' && l.ch != 0 {
		l.read()
	}
	if !l.emitTrivia {
		return nil
	}
	raw := string(l.input[startPos:l.pos])
	tok := l.makeToken(LINE_COMMENT, startLine, startColumn, startPos, l.pos, raw, raw)
	return &tok
}

// skipBlockComment consumes a (possibly nested) block comment whose "/*" was
// already consumed.
func (l *Lexer) skipBlockComment(startLine, startColumn, startPos int) *Token {
	depth := 1
	for depth > 0 {
		if l.ch == 0 {
			l.addError(
				ErrUnterminatedBlockComment,
				"unterminated block comment",
				Span{Line: startLine, Column: startColumn, Start: startPos, End: l.pos},
			)
			break
		}
		if l.ch == '/' && l.peek() == '*' {
			l.read()
			l.read()
			depth++
		} else if l.ch == '*' && l.peek() == '/' {
			l.read()
			l.read()
			depth--
		} else {
			l.read()
		}
	}
	if !l.emitTrivia {
		return nil
	}
	raw := string(l.input[startPos:l.pos])
	tok := l.makeToken(BLOCK_COMMENT, startLine, startColumn, startPos, l.pos, raw, raw)
	return &tok
}

// readIdentifier reads an identifier or keyword
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) {
		l.read()
	}
	return string(l.input[start:l.pos])
}

var numericSuffixes = map[string]bool{
	"i8": true, "i16": true, "i32": true, "i64": true,
	"u8": true, "u16": true, "u32": true, "u64": true,
	"f32": true, "f64": true, "usize": true, "isize": true,
}

// readNumber reads a numeric literal: decimal, hex 0x, octal 0o, binary 0b,
// floats with fraction and/or exponent, `_` separators, and a trailing type
// suffix. The returned value has separators and suffix stripped but keeps the
// base prefix so strconv.ParseInt(value, 0, 64) decodes it.
func (l *Lexer) readNumber() (raw, value, suffix string, tokType TokenType) {
	startLine, startColumn, startPos := l.currentSpanStart()
	var clean []rune
	tokType = INT

	digits := func(pred func(rune) bool, kind string) {
		n := 0
		for pred(l.ch) || l.ch == '_' {
			if l.ch != '_' {
				clean = append(clean, l.ch)
				n++
			}
			l.read()
		}
		if n == 0 {
			l.addError(
				ErrMalformedNumber,
				"expected "+kind+" digits",
				Span{Line: startLine, Column: startColumn, Start: startPos, End: l.pos},
			)
		}
	}

	if l.ch == '0' && (l.peek() == 'x' || l.peek() == 'X') {
		clean = append(clean, l.ch, l.peek())
		l.read()
		l.read()
		digits(isHexDigit, "hexadecimal")
	} else if l.ch == '0' && (l.peek() == 'o' || l.peek() == 'O') {
		clean = append(clean, l.ch, l.peek())
		l.read()
		l.read()
		digits(func(ch rune) bool { return ch >= '0' && ch <= '7' }, "octal")
	} else if l.ch == '0' && (l.peek() == 'b' || l.peek() == 'B') {
		clean = append(clean, l.ch, l.peek())
		l.read()
		l.read()
		digits(func(ch rune) bool { return ch == '0' || ch == '1' }, "binary")
	} else {
		digits(isDigit, "decimal")

		// Fractional part; `1..5` stays a range, `5.len()` stays a call.
		if l.ch == '.' && isDigit(l.peek()) {
			clean = append(clean, '.')
			l.read()
			digits(isDigit, "decimal")
			tokType = FLOAT
		}

		if l.ch == 'e' || l.ch == 'E' {
			// Only an exponent when digits (or a signed digit) follow;
			// otherwise the letter run is a suffix or a malformed tail.
			next := l.peek()
			if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peek2())) {
				clean = append(clean, l.ch)
				l.read()
				if l.ch == '+' || l.ch == '-' {
					clean = append(clean, l.ch)
					l.read()
				}
				digits(isDigit, "exponent")
				tokType = FLOAT
			}
		}
	}

	// Trailing type suffix.
	if isLetter(l.ch) {
		sufStart := l.pos
		for isLetter(l.ch) || isDigit(l.ch) {
			l.read()
		}
		suffix = string(l.input[sufStart:l.pos])
		if !numericSuffixes[suffix] {
			l.addError(
				ErrMalformedNumber,
				"invalid numeric suffix "+strconv.Quote(suffix),
				Span{Line: startLine, Column: startColumn, Start: startPos, End: l.pos},
			)
			suffix = ""
		} else if suffix == "f32" || suffix == "f64" {
			tokType = FLOAT
		} else if tokType == FLOAT {
			l.addError(
				ErrMalformedNumber,
				"integer suffix "+strconv.Quote(suffix)+" on a float literal",
				Span{Line: startLine, Column: startColumn, Start: startPos, End: l.pos},
			)
			suffix = ""
		}
	}

	raw = string(l.input[startPos:l.pos])
	return raw, string(clean), suffix, tokType
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() Token {
	for {
		if triviaTok := l.skipWhitespace(); triviaTok != nil {
			return *triviaTok
		}

		switch l.ch {
		case 0:
			startLine, startColumn, startPos := l.currentSpanStart()
			if startColumn == 0 {
				startColumn = 1
			}
			return l.makeToken(EOF, startLine, startColumn, startPos, startPos, "", "")

		case '=':
			if l.peek() == '=' {
				return l.opToken(EQ, 2)
			}
			if l.peek() == '>' {
				return l.opToken(FATARROW, 2)
			}
			return l.opToken(ASSIGN, 1)

		case '+':
			if l.peek() == '=' {
				return l.opToken(PLUS_ASSIGN, 2)
			}
			if l.peek() == '+' {
				return l.opToken(INCREMENT, 2)
			}
			return l.opToken(PLUS, 1)

		case '-':
			if l.peek() == '>' {
				return l.opToken(ARROW, 2)
			}
			if l.peek() == '=' {
				return l.opToken(MINUS_ASSIGN, 2)
			}
			if l.peek() == '-' {
				return l.opToken(DECREMENT, 2)
			}
			return l.opToken(MINUS, 1)

		case '*':
			if l.peek() == '*' {
				return l.opToken(POWER, 2)
			}
			if l.peek() == '=' {
				return l.opToken(STAR_ASSIGN, 2)
			}
			return l.opToken(ASTERISK, 1)

		case '/':
			switch l.peek() {
			case '/':
				startLine, startColumn, startPos := l.currentSpanStart()
				l.read()
				l.read()
				if triviaTok := l.skipLineComment(startLine, startColumn, startPos); triviaTok != nil {
					return *triviaTok
				}
				continue
			case '*':
				startLine, startColumn, startPos := l.currentSpanStart()
				l.read()
				l.read()
				if triviaTok := l.skipBlockComment(startLine, startColumn, startPos); triviaTok != nil {
					return *triviaTok
				}
				continue
			case '=':
				return l.opToken(SLASH_ASSIGN, 2)
			default:
				return l.opToken(SLASH, 1)
			}

		case '%':
			if l.peek() == '=' {
				return l.opToken(PERCENT_ASSIGN, 2)
			}
			return l.opToken(PERCENT, 1)

		case '<':
			if l.peek() == '=' {
				return l.opToken(LE, 2)
			}
			if l.peek() == '<' {
				return l.opToken(SHL, 2)
			}
			return l.opToken(LT, 1)

		case '>':
			if l.peek() == '=' {
				return l.opToken(GE, 2)
			}
			if l.peek() == '>' {
				return l.opToken(SHR, 2)
			}
			return l.opToken(GT, 1)

		case '!':
			if l.peek() == '=' {
				return l.opToken(NOT_EQ, 2)
			}
			return l.opToken(BANG, 1)

		case '&':
			if l.peek() == '&' {
				return l.opToken(AND, 2)
			}
			return l.opToken(AMPERSAND, 1)

		case '|':
			if l.peek() == '|' {
				return l.opToken(OR, 2)
			}
			if l.peek() == '>' {
				return l.opToken(PIPELINE, 2)
			}
			return l.opToken(PIPE, 1)

		case '^':
			return l.opToken(CARET, 1)

		case '?':
			if l.peek() == '.' {
				return l.opToken(SAFE_NAV, 2)
			}
			return l.opToken(QUESTION, 1)

		case ';':
			return l.opToken(SEMICOLON, 1)

		case ',':
			return l.opToken(COMMA, 1)

		case ':':
			if l.peek() == ':' {
				return l.opToken(DOUBLE_COLON, 2)
			}
			return l.opToken(COLON, 1)

		case '.':
			if l.peek() == '.' {
				if l.peek2() == '=' {
					return l.opToken(RANGE_EQ, 3)
				}
				return l.opToken(RANGE, 2)
			}
			return l.opToken(DOT, 1)

		case '#':
			return l.opToken(HASH, 1)

		case '"':
			startLine, startColumn, startPos := l.currentSpanStart()
			raw, value, terminated := l.readString(startLine, startColumn, startPos)
			if !terminated {
				return l.makeToken(ILLEGAL, startLine, startColumn, startPos, l.pos, raw, raw)
			}
			return l.makeToken(STRING, startLine, startColumn, startPos, l.pos, raw, value)

		case '\'':
			startLine, startColumn, startPos := l.currentSpanStart()
			return l.readChar(startLine, startColumn, startPos)

		case '(':
			return l.opToken(LPAREN, 1)
		case ')':
			return l.opToken(RPAREN, 1)
		case '{':
			return l.opToken(LBRACE, 1)
		case '}':
			return l.opToken(RBRACE, 1)
		case '[':
			return l.opToken(LBRACKET, 1)
		case ']':
			return l.opToken(RBRACKET, 1)

		default:
			if l.ch == 'f' && l.peek() == '"' {
				startLine, startColumn, startPos := l.currentSpanStart()
				raw, body, terminated := l.readFString(startLine, startColumn, startPos)
				if !terminated {
					return l.makeToken(ILLEGAL, startLine, startColumn, startPos, l.pos, raw, raw)
				}
				return l.makeToken(FSTRING, startLine, startColumn, startPos, l.pos, raw, body)
			}
			if isLetter(l.ch) {
				startLine, startColumn, startPos := l.currentSpanStart()
				literal := l.readIdentifier()
				tokType := LookupIdent(literal)
				return l.makeToken(tokType, startLine, startColumn, startPos, l.pos, literal, literal)
			}
			if isDigit(l.ch) {
				startLine, startColumn, startPos := l.currentSpanStart()
				raw, value, suffix, tokType := l.readNumber()
				tok := l.makeToken(tokType, startLine, startColumn, startPos, l.pos, raw, value)
				tok.Suffix = suffix
				return tok
			}
			startLine, startColumn, startPos := l.currentSpanStart()
			raw := string(l.ch)
			l.read()
			tok := l.makeToken(ILLEGAL, startLine, startColumn, startPos, l.pos, raw, raw)
			l.addError(
				ErrIllegalRune,
				"illegal character "+strconv.Quote(raw),
				tok.Span,
			)
			return tok
		}
	}
}

func isLetter(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_'
}

func isDigit(ch rune) bool {
	// Numeric literals are restricted to ASCII digits.
	return ch >= '0' && ch <= '9'
}

// isHexDigit checks if a rune is a hexadecimal digit
func isHexDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9') ||
		(ch >= 'a' && ch <= 'f') ||
		(ch >= 'A' && ch <= 'F')
}

// decodeEscape decodes the escape sequence at l.ch (the character after the
// backslash). Returns the decoded text and whether the sequence was valid.
func (l *Lexer) decodeEscape(startLine, startColumn, startPos int) (string, bool) {
	switch l.ch {
	case 'n':
		l.read()
		return "\n", true
	case 't':
		l.read()
		return "\t", true
	case 'r':
		l.read()
		return "\r", true
	case '0':
		l.read()
		return "\x00", true
	case '\\':
		l.read()
		return "\\", true
	case '"':
		l.read()
		return "\"", true
	case '\'':
		l.read()
		return "'", true
	case 'u':
		l.read()
		if l.ch != '{' {
			l.addError(ErrBadEscape, "expected '{' after \\u",
				Span{Line: startLine, Column: startColumn, Start: startPos, End: l.pos})
			return "", false
		}
		l.read()
		var hex strings.Builder
		for isHexDigit(l.ch) {
			hex.WriteRune(l.ch)
			l.read()
		}
		if l.ch != '}' || hex.Len() == 0 || hex.Len() > 6 {
			l.addError(ErrBadEscape, "malformed \\u{...} escape",
				Span{Line: startLine, Column: startColumn, Start: startPos, End: l.pos})
			return "", false
		}
		l.read() // consume '}'
		code, err := strconv.ParseUint(hex.String(), 16, 32)
		if err != nil || code > 0x10FFFF {
			l.addError(ErrBadEscape, "\\u{...} escape out of range",
				Span{Line: startLine, Column: startColumn, Start: startPos, End: l.pos})
			return "", false
		}
		return string(rune(code)), true
	default:
		got := strconv.QuoteRune(l.ch)
		if l.ch == 0 {
			got = "end of input"
		} else {
			l.read()
		}
		l.addError(ErrBadEscape, "unknown escape sequence \\"+strings.Trim(got, "'"),
			Span{Line: startLine, Column: startColumn, Start: startPos, End: l.pos})
		return "", false
	}
}

// readString reads a string literal, decoding escape sequences. Returns the
// raw text (quotes included), the decoded value, and whether the closing
// quote was found.
func (l *Lexer) readString(startLine, startColumn, startPos int) (raw string, value string, terminated bool) {
	var decoded strings.Builder
	l.read() // skip opening quote

	for {
		switch {
		case l.ch == 0:
			l.addError(
				ErrUnterminatedString,
				"unterminated string literal",
				Span{Line: startLine, Column: startColumn, Start: startPos, End: l.pos},
			)
			return string(l.input[startPos:l.pos]), decoded.String(), false
		case l.ch == '"':
			l.read() // consume closing quote
			return string(l.input[startPos:l.pos]), decoded.String(), true
		case l.ch == '\n' || l.ch == '\r':
			l.addError(
				ErrUnterminatedString,
				"newline in string literal",
				Span{Line: startLine, Column: startColumn, Start: startPos, End: l.pos},
			)
			return string(l.input[startPos:l.pos]), decoded.String(), false
		case l.ch == '\\':
			l.read() // skip backslash
			if text, ok := l.decodeEscape(startLine, startColumn, startPos); ok {
				decoded.WriteString(text)
			}
		default:
			decoded.WriteRune(l.ch)
			l.read()
		}
	}
}

// readChar reads a character literal 'x', including escapes.
func (l *Lexer) readChar(startLine, startColumn, startPos int) Token {
	l.read() // skip opening quote
	var value string

	switch {
	case l.ch == 0 || l.ch == '\n' || l.ch == '\r':
		l.addError(ErrUnterminatedChar, "unterminated character literal",
			Span{Line: startLine, Column: startColumn, Start: startPos, End: l.pos})
		raw := string(l.input[startPos:l.pos])
		return l.makeToken(ILLEGAL, startLine, startColumn, startPos, l.pos, raw, raw)
	case l.ch == '\\':
		l.read()
		value, _ = l.decodeEscape(startLine, startColumn, startPos)
	default:
		value = string(l.ch)
		l.read()
	}

	if l.ch != '\'' {
		// Scan forward so a multi-rune literal produces one error, not a
		// cascade of illegal-character tokens.
		for l.ch != '\'' && l.ch != 0 && l.ch != '\n' {
			l.read()
		}
		kind := ErrMalformedChar
		msg := "character literal must contain exactly one character"
		if l.ch != '\'' {
			kind = ErrUnterminatedChar
			msg = "unterminated character literal"
		} else {
			l.read() // consume closing quote
		}
		l.addError(kind, msg,
			Span{Line: startLine, Column: startColumn, Start: startPos, End: l.pos})
		raw := string(l.input[startPos:l.pos])
		return l.makeToken(ILLEGAL, startLine, startColumn, startPos, l.pos, raw, raw)
	}
	l.read() // consume closing quote
	raw := string(l.input[startPos:l.pos])
	return l.makeToken(CHAR, startLine, startColumn, startPos, l.pos, raw, value)
}

// readFString reads an f-string literal. The returned body is the verbatim
// text between the quotes: escape decoding happens per-segment during
// interpolation splitting so embedded expressions survive untouched.
func (l *Lexer) readFString(startLine, startColumn, startPos int) (raw string, body string, terminated bool) {
	l.read() // skip 'f'
	l.read() // skip opening quote
	bodyStart := l.pos

	for {
		switch {
		case l.ch == 0:
			l.addError(
				ErrUnterminatedString,
				"unterminated f-string literal",
				Span{Line: startLine, Column: startColumn, Start: startPos, End: l.pos},
			)
			return string(l.input[startPos:l.pos]), string(l.input[bodyStart:l.pos]), false
		case l.ch == '"':
			body = string(l.input[bodyStart:l.pos])
			l.read() // consume closing quote
			return string(l.input[startPos:l.pos]), body, true
		case l.ch == '\n' || l.ch == '\r':
			l.addError(
				ErrUnterminatedString,
				"newline in f-string literal",
				Span{Line: startLine, Column: startColumn, Start: startPos, End: l.pos},
			)
			return string(l.input[startPos:l.pos]), string(l.input[bodyStart:l.pos]), false
		case l.ch == '\\':
			l.read()
			if l.ch != 0 {
				l.read() // keep the escape verbatim; decoded later
			}
		default:
			l.read()
		}
	}
}
