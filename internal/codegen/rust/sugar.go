package rust

import (
	"fmt"
	"strings"

	"github.com/ruchy-lang/ruchy/internal/ast"
	"github.com/ruchy-lang/ruchy/internal/diag"
	"github.com/ruchy-lang/ruchy/internal/infer"
)

// pipelineText desugars x |> f into f(x) by splicing the left value in as
// the first argument and rendering the result as an ordinary call, so
// borrow and clone repairs apply the same way they would on a direct call.
func (g *Generator) pipelineText(e *ast.PipelineExpr) (string, error) {
	switch r := e.Right.(type) {
	case *ast.Ident:
		call := ast.NewCallExpr(r, []ast.Expr{e.Left}, e.Span())
		return g.callExpr(call)
	case *ast.CallExpr:
		args := append([]ast.Expr{e.Left}, r.Args...)
		call := ast.NewCallExpr(r.Callee, args, e.Span())
		call.TypeArgs = r.TypeArgs
		return g.callExpr(call)
	case *ast.MethodCallExpr:
		args := append([]ast.Expr{e.Left}, r.Args...)
		return g.methodCall(ast.NewMethodCallExpr(r.Receiver, r.Method, args, e.Span()))
	}
	callee, err := g.expr(e.Right)
	if err != nil {
		return "", err
	}
	left, err := g.expr(e.Left)
	if err != nil {
		return "", err
	}
	return "(" + callee + ")(" + left + ")", nil
}

// safeChain lowers ?. access onto Option combinators. Inner links flatten
// with and_then since chaining past a field means that field is optional;
// the last link wraps its result with map.
func (g *Generator) safeChain(e ast.Expr, last bool) (string, error) {
	op := ".and_then"
	if last {
		op = ".map"
	}
	switch e := e.(type) {
	case *ast.SafeFieldExpr:
		recv, err := g.safeChain(e.Receiver, false)
		if err != nil {
			return "", err
		}
		return recv + op + "(|v| v." + rawIdent(e.Field.Name) + ")", nil
	case *ast.SafeMethodCallExpr:
		recv, err := g.safeChain(e.Receiver, false)
		if err != nil {
			return "", err
		}
		method := e.Method.Name
		if renamed, ok := methodRenames[method]; ok {
			method = renamed
		}
		args := make([]string, len(e.Args))
		for i, a := range e.Args {
			text, err := g.expr(a)
			if err != nil {
				return "", err
			}
			args[i] = text
		}
		return recv + op + "(|v| v." + method + "(" + strings.Join(args, ", ") + "))", nil
	}
	return g.receiverOperand(e)
}

func (g *Generator) fstringText(e *ast.FStringExpr) (string, error) {
	format, args, err := g.formatParts(e.Parts)
	if err != nil {
		return "", err
	}
	if len(args) == 0 {
		return `format!("` + format + `")`, nil
	}
	return `format!("` + format + `", ` + strings.Join(args, ", ") + `)`, nil
}

// formatParts flattens interpolation segments into a format string and its
// argument list. Literal text keeps its braces by doubling them.
func (g *Generator) formatParts(parts []ast.FStringPart) (string, []string, error) {
	var b strings.Builder
	var args []string
	for _, part := range parts {
		if part.Expr == nil {
			b.WriteString(escapeFmtText(escapeString(part.Text)))
			continue
		}
		text, err := g.expr(part.Expr)
		if err != nil {
			return "", nil, err
		}
		if part.Format != "" {
			b.WriteString("{:" + part.Format + "}")
		} else {
			b.WriteString("{}")
		}
		args = append(args, text)
	}
	return b.String(), args, nil
}

// listCompText lowers [elem for v in iter if pred] onto an iterator chain.
// The filter closure destructures its reference so copyable elements
// compare without an explicit deref.
func (g *Generator) listCompText(e *ast.ListCompExpr) (string, error) {
	iter, err := g.expr(e.Iter)
	if err != nil {
		return "", err
	}
	if needsParens(e.Iter) {
		iter = "(" + iter + ")"
	}
	v := rawIdent(e.Var.Name)
	out := iter + ".into_iter()"
	if e.Filter != nil {
		filter, err := g.expr(e.Filter)
		if err != nil {
			return "", err
		}
		out += ".filter(|&" + v + "| " + filter + ")"
	}
	elem, err := g.expr(e.Elem)
	if err != nil {
		return "", err
	}
	return out + ".map(|" + v + "| " + elem + ").collect::<Vec<_>>()", nil
}

// builtinCall lowers the printing and assertion builtins onto their macro
// forms. Unrecognized names report handled=false and render as plain calls.
func (g *Generator) builtinCall(e *ast.CallExpr, name string) (string, bool, error) {
	switch name {
	case "println", "print", "eprintln", "eprint", "panic", "format":
		inner, err := g.fmtMacroArgs(e)
		if err != nil {
			return "", true, err
		}
		return name + "!" + inner, true, nil
	case "dbg", "assert", "assert_eq", "assert_ne", "todo", "unreachable":
		args := make([]string, len(e.Args))
		for i, a := range e.Args {
			text, err := g.expr(a)
			if err != nil {
				return "", true, err
			}
			args[i] = text
		}
		return name + "!(" + strings.Join(args, ", ") + ")", true, nil
	}
	return "", false, nil
}

// fmtMacroArgs renders the parenthesized argument list of a format-family
// macro. A leading string literal with {} holes is treated as the format
// string; anything else falls back to space-joined {} placeholders.
func (g *Generator) fmtMacroArgs(e *ast.CallExpr) (string, error) {
	if len(e.Args) == 0 {
		return "()", nil
	}
	if fs, ok := e.Args[0].(*ast.FStringExpr); ok && len(e.Args) == 1 {
		format, args, err := g.formatParts(fs.Parts)
		if err != nil {
			return "", err
		}
		if len(args) == 0 {
			return `("` + format + `")`, nil
		}
		return `("` + format + `", ` + strings.Join(args, ", ") + `)`, nil
	}
	if lit, ok := e.Args[0].(*ast.StringLit); ok {
		holes := countHoles(lit.Value)
		rest := e.Args[1:]
		if holes > 0 {
			if holes != len(rest) {
				return "", &UnsupportedError{
					Message: fmt.Sprintf("format string has %d placeholder(s) but %d argument(s)", holes, len(rest)),
					Span:    e.Span(),
					Code:    diag.CodeGenFormatStringError,
				}
			}
			args := make([]string, len(rest))
			for i, a := range rest {
				text, err := g.expr(a)
				if err != nil {
					return "", err
				}
				args[i] = text
			}
			quoted := `"` + escapeString(lit.Value) + `"`
			if len(args) == 0 {
				return "(" + quoted + ")", nil
			}
			return "(" + quoted + ", " + strings.Join(args, ", ") + ")", nil
		}
		if len(rest) == 0 {
			return `("` + escapeFmtText(escapeString(lit.Value)) + `")`, nil
		}
	}
	holes := make([]string, len(e.Args))
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		text, err := g.expr(a)
		if err != nil {
			return "", err
		}
		args[i] = text
		if g.debugFormatted(a) {
			holes[i] = "{:?}"
		} else {
			holes[i] = "{}"
		}
	}
	return `("` + strings.Join(holes, " ") + `", ` + strings.Join(args, ", ") + `)`, nil
}

// debugFormatted picks {:?} for values with no Display impl, going by the
// little typing the side tables carry for containers and tuples.
func (g *Generator) debugFormatted(e ast.Expr) bool {
	switch e := e.(type) {
	case *ast.ArrayLit, *ast.TupleLit, *ast.ListCompExpr:
		return true
	case *ast.Ident:
		switch bind := g.info.BindingOf(e).(type) {
		case *ast.LetStmt:
			if bind.Type != nil {
				return containerType(infer.RustType(bind.Type))
			}
			if bind.Value != nil {
				switch bind.Value.(type) {
				case *ast.ArrayLit, *ast.TupleLit, *ast.ListCompExpr:
					return true
				}
			}
		case *ast.Param:
			if bind.Type != nil {
				return containerType(infer.RustType(bind.Type))
			}
			return containerType(g.info.HintFor(bind))
		}
	}
	return false
}

func containerType(t string) bool {
	return strings.HasPrefix(t, "Vec<") || strings.HasPrefix(t, "&[") ||
		strings.HasPrefix(t, "(") || strings.HasPrefix(t, "Option<")
}

// countHoles counts {} placeholders, skipping doubled braces.
func countHoles(s string) int {
	n := 0
	for i := 0; i+1 < len(s); i++ {
		switch {
		case s[i] == '{' && s[i+1] == '{':
			i++
		case s[i] == '}' && s[i+1] == '}':
			i++
		case s[i] == '{' && s[i+1] == '}':
			n++
			i++
		}
	}
	return n
}

// escapeFmtText doubles braces so literal text survives a format string.
func escapeFmtText(s string) string {
	s = strings.ReplaceAll(s, "{", "{{")
	return strings.ReplaceAll(s, "}", "}}")
}
