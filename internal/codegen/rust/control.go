package rust

import (
	"fmt"
	"strings"

	"github.com/ruchy-lang/ruchy/internal/ast"
	"github.com/ruchy-lang/ruchy/internal/diag"
)

func (g *Generator) ifText(e *ast.IfExpr) (string, error) {
	cond, err := g.headerExpr(e.Cond)
	if err != nil {
		return "", err
	}
	then, err := g.blockTextOf(e.Then)
	if err != nil {
		return "", err
	}
	out := "if " + cond + " " + then
	switch el := e.Else.(type) {
	case nil:
		return out, nil
	case *ast.IfExpr:
		chained, err := g.ifText(el)
		if err != nil {
			return "", err
		}
		return out + " else " + chained, nil
	case *ast.BlockExpr:
		alt, err := g.blockTextOf(el)
		if err != nil {
			return "", err
		}
		return out + " else " + alt, nil
	default:
		alt, err := g.expr(e.Else)
		if err != nil {
			return "", err
		}
		return out + " else { " + alt + " }", nil
	}
}

func (g *Generator) matchText(e *ast.MatchExpr) (string, error) {
	subject, err := g.headerExpr(e.Subject)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("match " + subject + " {\n")
	g.indent++
	for _, arm := range e.Arms {
		pat, err := g.patternText(arm.Pattern)
		if err != nil {
			g.indent--
			return "", err
		}
		head := g.pad() + pat
		if arm.Guard != nil {
			guard, err := g.expr(arm.Guard)
			if err != nil {
				g.indent--
				return "", err
			}
			head += " if " + guard
		}
		body, err := g.armBody(arm.Body)
		if err != nil {
			g.indent--
			return "", err
		}
		b.WriteString(head + " => " + body + ",\n")
	}
	g.indent--
	b.WriteString(g.pad() + "}")
	return b.String(), nil
}

func (g *Generator) armBody(e ast.Expr) (string, error) {
	if b, ok := e.(*ast.BlockExpr); ok {
		return g.blockTextOf(b)
	}
	return g.expr(e)
}

func (g *Generator) forText(e *ast.ForExpr) (string, error) {
	pat, err := g.patternText(e.Pat)
	if err != nil {
		return "", err
	}
	iter, err := g.headerExpr(e.Iter)
	if err != nil {
		return "", err
	}
	body, err := g.blockTextOf(e.Body)
	if err != nil {
		return "", err
	}
	return "for " + pat + " in " + iter + " " + body, nil
}

func (g *Generator) whileText(e *ast.WhileExpr) (string, error) {
	cond, err := g.headerExpr(e.Cond)
	if err != nil {
		return "", err
	}
	body, err := g.blockTextOf(e.Body)
	if err != nil {
		return "", err
	}
	return "while " + cond + " " + body, nil
}

func (g *Generator) loopText(e *ast.LoopExpr) (string, error) {
	body, err := g.blockTextOf(e.Body)
	if err != nil {
		return "", err
	}
	return "loop " + body, nil
}

// headerExpr renders the expression between a control keyword and its block.
// Rust forbids bare struct literals there, so any literal on the operand
// spine forces grouping.
func (g *Generator) headerExpr(e ast.Expr) (string, error) {
	text, err := g.expr(e)
	if err != nil {
		return "", err
	}
	if structLitOnSpine(e) {
		return "(" + text + ")", nil
	}
	return text, nil
}

// structLitOnSpine walks the operand positions that stay outside brackets
// in the rendered text. Literals nested in call or index arguments are
// already grouped and do not count.
func structLitOnSpine(e ast.Expr) bool {
	switch e := e.(type) {
	case *ast.StructLit:
		return true
	case *ast.InfixExpr:
		return structLitOnSpine(e.Left) || structLitOnSpine(e.Right)
	case *ast.PrefixExpr:
		return structLitOnSpine(e.Right)
	case *ast.MethodCallExpr:
		return structLitOnSpine(e.Receiver)
	case *ast.FieldExpr:
		return structLitOnSpine(e.Receiver)
	case *ast.IndexExpr:
		return structLitOnSpine(e.Receiver)
	case *ast.CastExpr:
		return structLitOnSpine(e.Expr)
	case *ast.TryExpr:
		return structLitOnSpine(e.Expr)
	case *ast.RangeExpr:
		return (e.Start != nil && structLitOnSpine(e.Start)) ||
			(e.End != nil && structLitOnSpine(e.End))
	}
	return false
}

func (g *Generator) patternText(p ast.Pattern) (string, error) {
	switch p := p.(type) {
	case *ast.PatternWild:
		return "_", nil
	case *ast.PatternIdent:
		if p.Mutable {
			return "mut " + rawIdent(p.Name.Name), nil
		}
		return rawIdent(p.Name.Name), nil
	case *ast.PatternPath:
		return patternPathText(p), nil
	case *ast.PatternLiteral:
		return g.expr(p.Expr)
	case *ast.PatternRange:
		var start, end string
		var err error
		if p.Start != nil {
			start, err = g.expr(p.Start)
			if err != nil {
				return "", err
			}
		}
		if p.End != nil {
			end, err = g.expr(p.End)
			if err != nil {
				return "", err
			}
		}
		sep := ".."
		if p.Inclusive {
			sep = "..="
		}
		return start + sep + end, nil
	case *ast.PatternTuple:
		elems, err := g.patternList(p.Elements)
		if err != nil {
			return "", err
		}
		return "(" + elems + ")", nil
	case *ast.PatternTupleStruct:
		elems, err := g.patternList(p.Elements)
		if err != nil {
			return "", err
		}
		return patternPathText(p.Path) + "(" + elems + ")", nil
	case *ast.PatternOr:
		parts := make([]string, len(p.Patterns))
		for i, alt := range p.Patterns {
			text, err := g.patternText(alt)
			if err != nil {
				return "", err
			}
			parts[i] = text
		}
		return strings.Join(parts, " | "), nil
	}
	return "", &UnsupportedError{
		Message: fmt.Sprintf("unsupported pattern: %T", p),
		Span:    p.Span(),
		Code:    diag.CodeGenUnsupportedExpr,
	}
}

func (g *Generator) patternList(pats []ast.Pattern) (string, error) {
	parts := make([]string, len(pats))
	for i, p := range pats {
		text, err := g.patternText(p)
		if err != nil {
			return "", err
		}
		parts[i] = text
	}
	return strings.Join(parts, ", "), nil
}

func patternPathText(p *ast.PatternPath) string {
	parts := make([]string, len(p.Segments))
	for i, s := range p.Segments {
		parts[i] = rawIdent(s.Name)
	}
	return strings.Join(parts, "::")
}
