package lexer

import (
	"strconv"
	"strings"
)

// SegmentKind discriminates f-string segments.
type SegmentKind int

const (
	// SegmentText is literal text between interpolations.
	SegmentText SegmentKind = iota
	// SegmentExpr is an embedded `{expr}` or `{expr:spec}` interpolation.
	SegmentExpr
)

// Segment is one piece of a split f-string body. Text segments carry decoded
// text; expression segments carry the verbatim expression source, which the
// parser re-lexes and re-parses independently.
type Segment struct {
	Kind   SegmentKind
	Text   string
	Format string // format spec after the first top-level ':' (expr segments)
	Offset int    // rune offset of the segment within the f-string body
}

// SplitInterp splits a verbatim f-string body into alternating text and
// expression segments. `{{` and `}}` are literal braces. Errors carry spans
// whose Start/End are rune offsets within the body; the caller rebases them
// onto the enclosing token.
func SplitInterp(body string) ([]Segment, []LexerError) {
	runes := []rune(body)
	var (
		segs      []Segment
		errs      []LexerError
		text      strings.Builder
		textStart int
	)

	addErr := func(kind LexerErrorKind, msg string, start, end int) {
		errs = append(errs, LexerError{
			Kind:    kind,
			Message: msg,
			Span:    Span{Start: start, End: end},
		})
	}
	flushText := func() {
		if text.Len() > 0 {
			segs = append(segs, Segment{Kind: SegmentText, Text: text.String(), Offset: textStart})
			text.Reset()
		}
	}

	i := 0
	for i < len(runes) {
		switch ch := runes[i]; ch {
		case '{':
			if i+1 < len(runes) && runes[i+1] == '{' {
				if text.Len() == 0 {
					textStart = i
				}
				text.WriteByte('{')
				i += 2
				continue
			}
			exprStart := i + 1
			exprEnd, colon, closed := scanInterpExpr(runes, exprStart)
			if !closed {
				addErr(ErrUnterminatedInterp, "unterminated '{' in f-string", i, len(runes))
				i = len(runes)
				continue
			}
			flushText()
			exprText := string(runes[exprStart:exprEnd])
			format := ""
			if colon >= 0 {
				exprText = string(runes[exprStart:colon])
				format = string(runes[colon+1 : exprEnd])
			}
			if strings.TrimSpace(exprText) == "" {
				addErr(ErrBadInterp, "empty expression in f-string interpolation", i, exprEnd+1)
			} else {
				segs = append(segs, Segment{
					Kind:   SegmentExpr,
					Text:   exprText,
					Format: format,
					Offset: exprStart,
				})
			}
			i = exprEnd + 1
			textStart = i
		case '}':
			if i+1 < len(runes) && runes[i+1] == '}' {
				if text.Len() == 0 {
					textStart = i
				}
				text.WriteByte('}')
				i += 2
				continue
			}
			addErr(ErrBadInterp, "unmatched '}' in f-string; use '}}' for a literal brace", i, i+1)
			i++
		case '\\':
			if text.Len() == 0 {
				textStart = i
			}
			decoded, next, ok, msg := decodeTextEscape(runes, i+1)
			if !ok {
				addErr(ErrBadEscape, msg, i, next)
			} else {
				text.WriteString(decoded)
			}
			i = next
		default:
			if text.Len() == 0 {
				textStart = i
			}
			text.WriteRune(ch)
			i++
		}
	}
	flushText()
	return segs, errs
}

// scanInterpExpr scans from start (just past '{') to the matching '}',
// skipping string/char literals and nested delimiters. Returns the index of
// the closing brace, the index of the first top-level ':' that is not part of
// '::' (-1 if none), and whether the brace was closed.
func scanInterpExpr(runes []rune, start int) (end, colon int, closed bool) {
	colon = -1
	parens, brackets, braces := 0, 0, 0
	j := start
	for j < len(runes) {
		switch runes[j] {
		case '"':
			j++
			for j < len(runes) && runes[j] != '"' {
				if runes[j] == '\\' {
					j++
				}
				j++
			}
		case '\'':
			j++
			for j < len(runes) && runes[j] != '\'' {
				if runes[j] == '\\' {
					j++
				}
				j++
			}
		case '(':
			parens++
		case ')':
			parens--
		case '[':
			brackets++
		case ']':
			brackets--
		case '{':
			braces++
		case '}':
			if braces > 0 {
				braces--
			} else {
				return j, colon, true
			}
		case ':':
			if j+1 < len(runes) && runes[j+1] == ':' {
				j++ // skip the path separator
			} else if parens == 0 && brackets == 0 && braces == 0 && colon == -1 {
				colon = j
			}
		}
		j++
	}
	return len(runes), colon, false
}

// decodeTextEscape decodes the escape whose backslash precedes runes[i].
// Mirrors the string-literal escape rules.
func decodeTextEscape(runes []rune, i int) (decoded string, next int, ok bool, errMsg string) {
	if i >= len(runes) {
		return "", i, false, "trailing backslash in f-string"
	}
	switch runes[i] {
	case 'n':
		return "\n", i + 1, true, ""
	case 't':
		return "\t", i + 1, true, ""
	case 'r':
		return "\r", i + 1, true, ""
	case '0':
		return "\x00", i + 1, true, ""
	case '\\':
		return "\\", i + 1, true, ""
	case '"':
		return "\"", i + 1, true, ""
	case '\'':
		return "'", i + 1, true, ""
	case 'u':
		j := i + 1
		if j >= len(runes) || runes[j] != '{' {
			return "", j, false, "expected '{' after \\u"
		}
		j++
		hexStart := j
		for j < len(runes) && isHexDigit(runes[j]) {
			j++
		}
		if j >= len(runes) || runes[j] != '}' || j == hexStart || j-hexStart > 6 {
			return "", j, false, "malformed \\u{...} escape"
		}
		code, err := strconv.ParseUint(string(runes[hexStart:j]), 16, 32)
		if err != nil || code > 0x10FFFF {
			return "", j + 1, false, "\\u{...} escape out of range"
		}
		return string(rune(code)), j + 1, true, ""
	default:
		return "", i + 1, false, "unknown escape sequence \\" + string(runes[i])
	}
}
