package rust

import (
	"fmt"
	"strings"
)

// rustReserved holds every Rust keyword, including the ones reserved for
// future editions, since none of them can be a plain identifier.
var rustReserved = map[string]bool{
	"as": true, "async": true, "await": true, "break": true, "const": true,
	"continue": true, "crate": true, "dyn": true, "else": true, "enum": true,
	"extern": true, "false": true, "fn": true, "for": true, "if": true,
	"impl": true, "in": true, "let": true, "loop": true, "match": true,
	"mod": true, "move": true, "mut": true, "pub": true, "ref": true,
	"return": true, "self": true, "Self": true, "static": true,
	"struct": true, "super": true, "trait": true, "true": true,
	"type": true, "unsafe": true, "use": true, "where": true, "while": true,
	"abstract": true, "become": true, "box": true, "do": true, "final": true,
	"macro": true, "override": true, "priv": true, "try": true,
	"typeof": true, "unsized": true, "virtual": true, "yield": true,
}

// rawIdent passes source names through untouched unless they collide with
// a Rust keyword, which gets raw identifier syntax. The path keywords stay
// bare because r# is not valid on them.
func rawIdent(name string) string {
	if !rustReserved[name] {
		return name
	}
	switch name {
	case "self", "Self", "super", "crate":
		return name
	}
	return "r#" + name
}

func escapeString(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case 0:
			b.WriteString(`\0`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\u{%x}`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

func escapeChar(r rune) string {
	switch r {
	case '\'':
		return `\'`
	case '\\':
		return `\\`
	case '\n':
		return `\n`
	case '\r':
		return `\r`
	case '\t':
		return `\t`
	case 0:
		return `\0`
	}
	if r < 0x20 || r == 0x7f {
		return fmt.Sprintf(`\u{%x}`, r)
	}
	return string(r)
}
