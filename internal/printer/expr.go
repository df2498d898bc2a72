package printer

import (
	"strings"

	"github.com/ruchy-lang/ruchy/internal/ast"
)

// Binding strengths, loosest to tightest. These mirror the grammar so the
// printer can drop parentheses the reparse would reinsert and keep the ones
// it would not.
const (
	precLowest = iota
	precPipeline
	precAssign
	precRange
	precOr
	precAnd
	precEquality
	precComparison
	precBitOr
	precBitXor
	precBitAnd
	precShift
	precSum
	precProduct
	precPower
	precCast
	precPrefix
	precPostfix
	precAtom
)

func binPrec(op string) int {
	switch op {
	case "||":
		return precOr
	case "&&":
		return precAnd
	case "==", "!=":
		return precEquality
	case "<", ">", "<=", ">=":
		return precComparison
	case "|":
		return precBitOr
	case "^":
		return precBitXor
	case "&":
		return precBitAnd
	case "<<", ">>":
		return precShift
	case "+", "-":
		return precSum
	case "*", "/", "%":
		return precProduct
	case "**":
		return precPower
	}
	return precSum
}

func exprPrec(e ast.Expr) int {
	switch n := e.(type) {
	case *ast.PipelineExpr:
		return precPipeline
	case *ast.AssignExpr, *ast.CompoundAssignExpr:
		return precAssign
	case *ast.RangeExpr:
		return precRange
	case *ast.InfixExpr:
		return binPrec(n.Op)
	case *ast.CastExpr:
		return precCast
	case *ast.PrefixExpr:
		return precPrefix
	case *ast.IncDecExpr:
		if n.Prefix {
			return precPrefix
		}
		return precPostfix
	case *ast.CallExpr, *ast.MethodCallExpr, *ast.FieldExpr, *ast.IndexExpr,
		*ast.SafeFieldExpr, *ast.SafeMethodCallExpr, *ast.TryExpr, *ast.SendExpr:
		return precPostfix
	case *ast.LambdaExpr, *ast.BreakExpr, *ast.ReturnExpr:
		// The body or value extends as far right as it can, so these must
		// be parenthesized anywhere something follows them.
		return precLowest
	}
	return precAtom
}

// printExpr renders e, parenthesizing when its binding is looser than the
// context requires.
func (p *printer) printExpr(e ast.Expr, min int) {
	if exprPrec(e) < min {
		p.write("(")
		p.printExprInner(e)
		p.write(")")
		return
	}
	p.printExprInner(e)
}

func (p *printer) printExprInner(e ast.Expr) {
	switch n := e.(type) {
	case *ast.Ident:
		p.write(n.Name)

	case *ast.PathExpr:
		p.write(n.String())

	case *ast.IntegerLit:
		p.write(n.Text)

	case *ast.FloatLit:
		p.write(n.Text)

	case *ast.StringLit:
		p.write(quoteString(n.Value))

	case *ast.CharLit:
		p.write(quoteChar(n.Value))

	case *ast.BoolLit:
		if n.Value {
			p.write("true")
		} else {
			p.write("false")
		}

	case *ast.UnitLit:
		p.write("()")

	case *ast.FStringExpr:
		p.printFString(n)

	case *ast.ArrayLit:
		p.write("[")
		for i, el := range n.Elems {
			if i > 0 {
				p.write(", ")
			}
			p.printExpr(el, precLowest)
		}
		p.write("]")

	case *ast.TupleLit:
		p.write("(")
		for i, el := range n.Elems {
			if i > 0 {
				p.write(", ")
			}
			p.printExpr(el, precLowest)
		}
		if len(n.Elems) == 1 {
			p.write(",")
		}
		p.write(")")

	case *ast.StructLit:
		p.printExpr(n.Path, precPostfix)
		p.write(" {")
		if len(n.Fields) == 0 {
			p.write("}")
			return
		}
		p.write(" ")
		for i, f := range n.Fields {
			if i > 0 {
				p.write(", ")
			}
			p.write(f.Name.Name)
			if f.Value != nil {
				p.write(": ")
				p.printExpr(f.Value, precLowest)
			}
		}
		p.write(" }")

	case *ast.ListCompExpr:
		p.write("[")
		p.printExpr(n.Elem, precLowest)
		p.write(" for ")
		p.write(n.Var.Name)
		p.write(" in ")
		p.printExpr(n.Iter, precLowest)
		if n.Filter != nil {
			p.write(" if ")
			p.printExpr(n.Filter, precLowest)
		}
		p.write("]")

	case *ast.PrefixExpr:
		p.printPrefix(n)

	case *ast.InfixExpr:
		my := binPrec(n.Op)
		if n.Op == "**" {
			// Right associative: the left operand needs parens at equal
			// strength, the right does not.
			p.printExpr(n.Left, my+1)
			p.write(" ** ")
			p.printExpr(n.Right, my)
			return
		}
		p.printExpr(n.Left, my)
		p.write(" " + n.Op + " ")
		p.printExpr(n.Right, my+1)

	case *ast.PipelineExpr:
		p.printExpr(n.Left, precPipeline)
		p.write(" |> ")
		p.printExpr(n.Right, precPipeline+1)

	case *ast.AssignExpr:
		p.printExpr(n.Target, precAssign+1)
		p.write(" = ")
		p.printExpr(n.Value, precAssign)

	case *ast.CompoundAssignExpr:
		p.printExpr(n.Target, precAssign+1)
		p.write(" " + n.Op + " ")
		p.printExpr(n.Value, precAssign)

	case *ast.RangeExpr:
		p.printExpr(n.Start, precRange+1)
		if n.Inclusive {
			p.write("..=")
		} else {
			p.write("..")
		}
		if n.End != nil {
			p.printExpr(n.End, precRange+1)
		}

	case *ast.CastExpr:
		p.printExpr(n.Expr, precCast)
		p.write(" as ")
		p.printType(n.Type)

	case *ast.IncDecExpr:
		if n.Prefix {
			p.write(n.Op)
			p.printExpr(n.Target, precPostfix)
			return
		}
		p.printExpr(n.Target, precPostfix)
		p.write(n.Op)

	case *ast.CallExpr:
		p.printExpr(n.Callee, precPostfix)
		if len(n.TypeArgs) > 0 {
			p.write("<")
			for i, ta := range n.TypeArgs {
				if i > 0 {
					p.write(", ")
				}
				p.printType(ta)
			}
			p.write(">")
		}
		p.printArgs(n.Args)

	case *ast.MethodCallExpr:
		p.printExpr(n.Receiver, precPostfix)
		p.write(".")
		p.write(n.Method.Name)
		p.printArgs(n.Args)

	case *ast.FieldExpr:
		p.printFieldAccess(n)

	case *ast.IndexExpr:
		p.printExpr(n.Receiver, precPostfix)
		p.write("[")
		p.printExpr(n.Index, precLowest)
		p.write("]")

	case *ast.SafeFieldExpr:
		p.printExpr(n.Receiver, precPostfix)
		p.write("?.")
		p.write(n.Field.Name)

	case *ast.SafeMethodCallExpr:
		p.printExpr(n.Receiver, precPostfix)
		p.write("?.")
		p.write(n.Method.Name)
		p.printArgs(n.Args)

	case *ast.TryExpr:
		p.printExpr(n.Expr, precPostfix)
		p.write("?")

	case *ast.SendExpr:
		p.printExpr(n.Actor, precPostfix)
		p.write("!(")
		p.printExpr(n.Message, precLowest)
		p.write(")")

	case *ast.LambdaExpr:
		if len(n.Params) == 0 {
			p.write("||")
		} else {
			p.write("|")
			for i, param := range n.Params {
				if i > 0 {
					p.write(", ")
				}
				p.printParam(param)
			}
			p.write("|")
		}
		p.write(" ")
		if block, ok := n.Body.(*ast.BlockExpr); ok {
			p.printBlock(block)
		} else {
			p.printExpr(n.Body, precLowest)
		}

	case *ast.BlockExpr:
		p.printBlock(n)

	case *ast.IfExpr:
		p.printIf(n)

	case *ast.MatchExpr:
		p.printMatch(n)

	case *ast.ForExpr:
		p.write("for ")
		p.printPattern(n.Pat)
		p.write(" in ")
		p.printExpr(n.Iter, precLowest)
		p.write(" ")
		p.printBlock(n.Body)

	case *ast.WhileExpr:
		p.write("while ")
		p.printExpr(n.Cond, precLowest)
		p.write(" ")
		p.printBlock(n.Body)

	case *ast.LoopExpr:
		p.write("loop ")
		p.printBlock(n.Body)

	case *ast.BreakExpr:
		p.write("break")
		if n.Value != nil {
			p.write(" ")
			p.printExpr(n.Value, precLowest)
		}

	case *ast.ContinueExpr:
		p.write("continue")

	case *ast.ReturnExpr:
		p.write("return")
		if n.Value != nil {
			p.write(" ")
			p.printExpr(n.Value, precLowest)
		}
	}
}

// printPrefix keeps '-' and '&' prefixes from fusing with a like-spelled
// operand into '--' or '&&' on relex.
func (p *printer) printPrefix(n *ast.PrefixExpr) {
	p.write(n.Op)
	if n.Op == "&mut" {
		p.write(" ")
	}

	fuses := false
	switch inner := n.Right.(type) {
	case *ast.PrefixExpr:
		fuses = (n.Op == "-" && inner.Op == "-") || (n.Op == "&" && strings.HasPrefix(inner.Op, "&"))
	case *ast.IncDecExpr:
		fuses = n.Op == "-" && inner.Prefix && inner.Op == "--"
	}
	if fuses {
		p.write("(")
		p.printExpr(n.Right, precLowest)
		p.write(")")
		return
	}
	p.printExpr(n.Right, precPrefix)
}

// printFieldAccess parenthesizes chained tuple indexes so `.0.1` does not
// relex with `0.1` as a float.
func (p *printer) printFieldAccess(n *ast.FieldExpr) {
	if isDigits(n.Field.Name) {
		if recv, ok := n.Receiver.(*ast.FieldExpr); ok && isDigits(recv.Field.Name) {
			p.write("(")
			p.printExprInner(recv)
			p.write(")")
			p.write(".")
			p.write(n.Field.Name)
			return
		}
	}
	p.printExpr(n.Receiver, precPostfix)
	p.write(".")
	p.write(n.Field.Name)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (p *printer) printArgs(args []ast.Expr) {
	p.write("(")
	for i, arg := range args {
		if i > 0 {
			p.write(", ")
		}
		p.printExpr(arg, precLowest)
	}
	p.write(")")
}

func (p *printer) printIf(n *ast.IfExpr) {
	p.write("if ")
	p.printExpr(n.Cond, precLowest)
	p.write(" ")
	p.printBlock(n.Then)
	switch els := n.Else.(type) {
	case nil:
	case *ast.IfExpr:
		p.write(" else ")
		p.printIf(els)
	case *ast.BlockExpr:
		p.write(" else ")
		p.printBlock(els)
	default:
		p.write(" else ")
		p.printExpr(els, precLowest)
	}
}

func (p *printer) printMatch(n *ast.MatchExpr) {
	p.write("match ")
	p.printExpr(n.Subject, precLowest)
	p.write(" {")
	if len(n.Arms) == 0 {
		p.write("}")
		return
	}
	p.nl()
	p.withIndent(func() {
		for _, arm := range n.Arms {
			p.pad()
			p.printPattern(arm.Pattern)
			if arm.Guard != nil {
				p.write(" if ")
				p.printExpr(arm.Guard, precLowest)
			}
			p.write(" => ")
			if block, ok := arm.Body.(*ast.BlockExpr); ok {
				p.printBlock(block)
			} else {
				p.printExpr(arm.Body, precLowest)
			}
			p.write(",")
			p.nl()
		}
	})
	p.pad()
	p.write("}")
}

func (p *printer) printFString(n *ast.FStringExpr) {
	p.write(`f"`)
	for _, part := range n.Parts {
		if part.Expr == nil {
			p.write(encodeFStringText(part.Text))
			continue
		}
		p.write("{")
		p.printExpr(part.Expr, precLowest)
		if part.Format != "" {
			p.write(":")
			p.write(part.Format)
		}
		p.write("}")
	}
	p.write(`"`)
}

// encodeFStringText re-escapes decoded text for an f-string body: braces
// double, string escapes apply.
func encodeFStringText(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '{':
			b.WriteString("{{")
		case '}':
			b.WriteString("}}")
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case 0:
			b.WriteString(`\0`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case 0:
			b.WriteString(`\0`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func quoteChar(r rune) string {
	switch r {
	case '\'':
		return `'\''`
	case '\\':
		return `'\\'`
	case '\n':
		return `'\n'`
	case '\r':
		return `'\r'`
	case '\t':
		return `'\t'`
	case 0:
		return `'\0'`
	}
	return "'" + string(r) + "'"
}
