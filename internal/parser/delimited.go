package parser

import (
	"github.com/ruchy-lang/ruchy/internal/lexer"
)

type delimitedConfig struct {
	Closing   lexer.TokenType
	Separator lexer.TokenType

	AllowTrailing bool

	MissingElementMsg   string
	MissingSeparatorMsg string
}

// parseDelimited parses a separator-delimited sequence whose first element is
// already under curTok. parseItem is called with each element's index and
// must leave curTok on the element's final token. On success curTok rests on
// the closing token.
func parseDelimited[T any](p *Parser, cfg delimitedConfig, parseItem func(idx int) (T, bool)) ([]T, bool) {
	var items []T

	if cfg.Separator == "" {
		cfg.Separator = lexer.COMMA
	}

	for {
		item, ok := parseItem(len(items))
		if !ok {
			return items, false
		}
		items = append(items, item)

		switch p.peekTok.Type {
		case cfg.Separator:
			p.nextToken() // move to separator
			p.nextToken() // move to next potential element

			if p.curTok.Type == cfg.Closing {
				if cfg.AllowTrailing {
					return items, true
				}
				msg := cfg.MissingElementMsg
				if msg == "" {
					msg = "expected element"
				}
				p.reportError(msg, p.curTok.Span)
				return items, false
			}
			continue
		case cfg.Closing:
			p.nextToken()
			return items, true
		default:
			msg := cfg.MissingSeparatorMsg
			if msg == "" {
				msg = "expected '" + string(cfg.Separator) + "' or '" + string(cfg.Closing) + "'"
			}
			p.reportError(msg, p.peekTok.Span)
			return items, false
		}
	}
}
