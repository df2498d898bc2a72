package diag

import "fmt"

// Stage identifies which pipeline phase produced the diagnostic.
type Stage string

const (
	StageLex   Stage = "lex"
	StageParse Stage = "parse"
	StageInfer Stage = "infer"
	StageGen   Stage = "gen"
)

// Severity captures how impactful the diagnostic is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityNote    Severity = "note"
)

// LabeledSpan represents a span with an optional label (like Rust's primary/secondary labels).
type LabeledSpan struct {
	Span  Span
	Label string // Optional label (e.g., "expected `;` after this expression")
	Style string // "primary" or "secondary" - primary spans are emphasized
}

// Code is a stable identifier for a diagnostic.
type Code string

const (
	// Lexer errors
	CodeLexUnterminatedString       Code = "LEX_UNTERMINATED_STRING"
	CodeLexUnterminatedChar         Code = "LEX_UNTERMINATED_CHAR"
	CodeLexUnterminatedBlockComment Code = "LEX_UNTERMINATED_BLOCK_COMMENT"
	CodeLexUnterminatedInterp       Code = "LEX_UNTERMINATED_INTERP"
	CodeLexBadInterp                Code = "LEX_BAD_INTERP"
	CodeLexMalformedNumber          Code = "LEX_MALFORMED_NUMBER"
	CodeLexBadEscape                Code = "LEX_BAD_ESCAPE"
	CodeLexIllegalRune              Code = "LEX_ILLEGAL_RUNE"

	// Parser errors
	CodeParseUnexpectedToken   Code = "PARSE_UNEXPECTED_TOKEN"
	CodeParseExpectedExpr      Code = "PARSE_EXPECTED_EXPR"
	CodeParseExpectedType      Code = "PARSE_EXPECTED_TYPE"
	CodeParseExpectedPattern   Code = "PARSE_EXPECTED_PATTERN"
	CodeParseUnclosedDelimiter Code = "PARSE_UNCLOSED_DELIMITER"
	CodeParseBadInterpExpr     Code = "PARSE_BAD_INTERP_EXPR"

	// Inference warnings (heuristic fallbacks, never fatal)
	CodeInferCloneFallback   Code = "INFER_CLONE_FALLBACK"
	CodeInferRecursiveCallee Code = "INFER_RECURSIVE_CALLEE"
	CodeInferParamHint       Code = "INFER_PARAM_HINT"

	// Generator errors
	CodeGenUnsupportedExpr    Code = "GEN_UNSUPPORTED_EXPR"
	CodeGenUnsupportedStmt    Code = "GEN_UNSUPPORTED_STMT"
	CodeGenUnsupportedItem    Code = "GEN_UNSUPPORTED_ITEM"
	CodeGenUnsupportedType    Code = "GEN_UNSUPPORTED_TYPE"
	CodeGenBadAssignTarget    Code = "GEN_BAD_ASSIGN_TARGET"
	CodeGenFormatStringError  Code = "GEN_FORMAT_STRING_ERROR"
	CodeGenInvalidEnumLiteral Code = "GEN_INVALID_ENUM_LITERAL"
)

// Span represents a location in source code.
type Span struct {
	Filename string
	Line     int
	Column   int
	Start    int
	End      int
}

// String returns a human-readable representation of the span.
func (s Span) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsValid returns true if the span has valid location information.
func (s Span) IsValid() bool {
	return s.Line > 0 && s.Column > 0
}

// Diagnostic is a compiler diagnostic surfaced to end-users.
type Diagnostic struct {
	Stage    Stage
	Severity Severity
	Code     Code
	Message  string
	Span     Span // Primary span
	// LabeledSpans allows multiple spans with labels (like Rust's error format).
	// The first span is treated as primary, others as secondary.
	LabeledSpans []LabeledSpan
	Notes        []string // Additional notes to display
	Help         string   // Help text, may include a suggested rewrite
}

// IsError reports whether the diagnostic is fatal for its compilation unit.
func (d Diagnostic) IsError() bool {
	return d.Severity == SeverityError || d.Severity == ""
}

// WithLabeledSpan adds a labeled span to the diagnostic.
func (d Diagnostic) WithLabeledSpan(span Span, label string, style string) Diagnostic {
	if style == "" {
		style = "primary"
	}
	d.LabeledSpans = append(d.LabeledSpans, LabeledSpan{
		Span:  span,
		Label: label,
		Style: style,
	})
	return d
}

// WithPrimarySpan adds a primary labeled span.
func (d Diagnostic) WithPrimarySpan(span Span, label string) Diagnostic {
	return d.WithLabeledSpan(span, label, "primary")
}

// WithSecondarySpan adds a secondary labeled span.
func (d Diagnostic) WithSecondarySpan(span Span, label string) Diagnostic {
	return d.WithLabeledSpan(span, label, "secondary")
}

// WithNote adds a note to the diagnostic.
func (d Diagnostic) WithNote(note string) Diagnostic {
	d.Notes = append(d.Notes, note)
	return d
}

// WithHelp adds help text to the diagnostic.
func (d Diagnostic) WithHelp(help string) Diagnostic {
	d.Help = help
	return d
}

// CountErrors returns how many diagnostics in ds are fatal.
func CountErrors(ds []Diagnostic) int {
	n := 0
	for _, d := range ds {
		if d.IsError() {
			n++
		}
	}
	return n
}
