package lexer

// TokenType represents the type of a token
type TokenType string

// Span represents the source location of a token
type Span struct {
	Filename string // optional source filename for diagnostics
	Line     int    // 1-based line number
	Column   int    // 1-based column number
	Start    int    // index in []rune or original string
	End      int    // exclusive end index
}

// Token represents a lexical token
type Token struct {
	Type   TokenType
	Raw    string // exact runes from source, separators and suffix included
	Value  string // decoded value (strings unescaped, numbers without separators/suffix)
	Suffix string // numeric type suffix ("i32", "f64", ...) when present
	Span   Span   // source location information
}

// Token type constants
const (
	// Special tokens
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	// Identifiers and literals
	IDENT   TokenType = "IDENT"   // square, total, x, ...
	INT     TokenType = "INT"     // 42, 0xFF, 0o77, 0b1010, 1_000
	FLOAT   TokenType = "FLOAT"   // 3.14, 1e9, 2.5f32
	STRING  TokenType = "STRING"  // "hello"
	FSTRING TokenType = "FSTRING" // f"x={x}"
	CHAR    TokenType = "CHAR"    // 'a', '\n'

	// Operators
	ASSIGN         TokenType = "="
	PLUS           TokenType = "+"
	MINUS          TokenType = "-"
	ASTERISK       TokenType = "*"
	SLASH          TokenType = "/"
	PERCENT        TokenType = "%"
	POWER          TokenType = "**"
	BANG           TokenType = "!"
	AMPERSAND      TokenType = "&"
	PIPE           TokenType = "|"
	CARET          TokenType = "^"
	SHL            TokenType = "<<"
	SHR            TokenType = ">>"
	AND            TokenType = "&&"
	OR             TokenType = "||"
	EQ             TokenType = "=="
	NOT_EQ         TokenType = "!="
	LT             TokenType = "<"
	GT             TokenType = ">"
	LE             TokenType = "<="
	GE             TokenType = ">="
	PLUS_ASSIGN    TokenType = "+="
	MINUS_ASSIGN   TokenType = "-="
	STAR_ASSIGN    TokenType = "*="
	SLASH_ASSIGN   TokenType = "/="
	PERCENT_ASSIGN TokenType = "%="
	INCREMENT      TokenType = "++"
	DECREMENT      TokenType = "--"
	QUESTION       TokenType = "?"
	SAFE_NAV       TokenType = "?."
	PIPELINE       TokenType = "|>"

	// Delimiters
	COMMA        TokenType = ","
	SEMICOLON    TokenType = ";"
	COLON        TokenType = ":"
	DOUBLE_COLON TokenType = "::"
	DOT          TokenType = "."
	RANGE        TokenType = ".."
	RANGE_EQ     TokenType = "..="
	HASH         TokenType = "#"

	LPAREN   TokenType = "("
	RPAREN   TokenType = ")"
	LBRACE   TokenType = "{"
	RBRACE   TokenType = "}"
	LBRACKET TokenType = "["
	RBRACKET TokenType = "]"

	ARROW    TokenType = "->"
	FATARROW TokenType = "=>"

	// Trivia tokens (comments, whitespace, newlines)
	LINE_COMMENT  TokenType = "LINE_COMMENT"  // //
	BLOCK_COMMENT TokenType = "BLOCK_COMMENT" // /* */
	WHITESPACE    TokenType = "WHITESPACE"    // spaces, tabs
	NEWLINE       TokenType = "NEWLINE"       // \n, \r\n

	// Keywords
	FUN      TokenType = "FUN"
	LET      TokenType = "LET"
	MUT      TokenType = "MUT"
	IF       TokenType = "IF"
	ELSE     TokenType = "ELSE"
	MATCH    TokenType = "MATCH"
	FOR      TokenType = "FOR"
	WHILE    TokenType = "WHILE"
	LOOP     TokenType = "LOOP"
	IN       TokenType = "IN"
	BREAK    TokenType = "BREAK"
	CONTINUE TokenType = "CONTINUE"
	RETURN   TokenType = "RETURN"
	TRUE     TokenType = "TRUE"
	FALSE    TokenType = "FALSE"
	STRUCT   TokenType = "STRUCT"
	ENUM     TokenType = "ENUM"
	TRAIT    TokenType = "TRAIT"
	IMPL     TokenType = "IMPL"
	ACTOR    TokenType = "ACTOR"
	GUARD    TokenType = "GUARD"
	DEFER    TokenType = "DEFER"
	USE      TokenType = "USE"
	PUB      TokenType = "PUB"
	AS       TokenType = "AS"
)

var keywords = map[string]TokenType{
	"fun":      FUN,
	"fn":       FUN, // accepted alias
	"let":      LET,
	"mut":      MUT,
	"if":       IF,
	"else":     ELSE,
	"match":    MATCH,
	"for":      FOR,
	"while":    WHILE,
	"loop":     LOOP,
	"in":       IN,
	"break":    BREAK,
	"continue": CONTINUE,
	"return":   RETURN,
	"true":     TRUE,
	"false":    FALSE,
	"struct":   STRUCT,
	"enum":     ENUM,
	"trait":    TRAIT,
	"impl":     IMPL,
	"actor":    ACTOR,
	"guard":    GUARD,
	"defer":    DEFER,
	"use":      USE,
	"pub":      PUB,
	"as":       AS,
}

// LookupIdent checks if the identifier is a keyword
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// Keywords returns the keyword spellings, for "did you mean" suggestions.
func Keywords() []string {
	out := make([]string, 0, len(keywords))
	for kw := range keywords {
		out = append(out, kw)
	}
	return out
}

// IsKeyword reports whether t is a keyword token type.
func IsKeyword(t TokenType) bool {
	switch t {
	case FUN, LET, MUT, IF, ELSE, MATCH, FOR, WHILE, LOOP, IN, BREAK,
		CONTINUE, RETURN, TRUE, FALSE, STRUCT, ENUM, TRAIT, IMPL, ACTOR,
		GUARD, DEFER, USE, PUB, AS:
		return true
	}
	return false
}
