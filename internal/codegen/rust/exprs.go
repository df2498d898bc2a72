package rust

import (
	"fmt"
	"strings"

	"github.com/ruchy-lang/ruchy/internal/ast"
	"github.com/ruchy-lang/ruchy/internal/diag"
	"github.com/ruchy-lang/ruchy/internal/infer"
)

// expr renders a single expression. Ownership and coercion annotations from
// inference are applied here: literals and identifiers marked as owned text
// gain .to_string(), array literals marked growable become vec![..], and
// call arguments pick up & or .clone() according to the passing tables.
func (g *Generator) expr(e ast.Expr) (string, error) {
	switch e := e.(type) {
	case *ast.IntegerLit:
		return e.Text + e.Suffix, nil
	case *ast.FloatLit:
		return e.Text + e.Suffix, nil
	case *ast.StringLit:
		quoted := `"` + escapeString(e.Value) + `"`
		if g.info.OwnedText(e) {
			if e.Value == "" {
				return "String::new()", nil
			}
			return quoted + ".to_string()", nil
		}
		return quoted, nil
	case *ast.CharLit:
		return "'" + escapeChar(e.Value) + "'", nil
	case *ast.BoolLit:
		if e.Value {
			return "true", nil
		}
		return "false", nil
	case *ast.UnitLit:
		return "()", nil
	case *ast.Ident:
		name := rawIdent(e.Name)
		if g.info.OwnedText(e) {
			return name + ".to_string()", nil
		}
		return name, nil
	case *ast.PathExpr:
		return pathText(e.Segments), nil
	case *ast.ArrayLit:
		elems := make([]string, len(e.Elems))
		for i, el := range e.Elems {
			text, err := g.expr(el)
			if err != nil {
				return "", err
			}
			elems[i] = text
		}
		if g.info.NeedsToVec(e) {
			return "vec![" + strings.Join(elems, ", ") + "]", nil
		}
		return "[" + strings.Join(elems, ", ") + "]", nil
	case *ast.TupleLit:
		elems := make([]string, len(e.Elems))
		for i, el := range e.Elems {
			text, err := g.expr(el)
			if err != nil {
				return "", err
			}
			elems[i] = text
		}
		if len(elems) == 1 {
			return "(" + elems[0] + ",)", nil
		}
		return "(" + strings.Join(elems, ", ") + ")", nil
	case *ast.StructLit:
		return g.structLit(e)
	case *ast.FStringExpr:
		return g.fstringText(e)
	case *ast.PrefixExpr:
		return g.prefixExpr(e)
	case *ast.InfixExpr:
		return g.infixExpr(e)
	case *ast.PipelineExpr:
		return g.pipelineText(e)
	case *ast.AssignExpr:
		target, err := g.assignTargetText(e.Target)
		if err != nil {
			return "", err
		}
		value, err := g.expr(e.Value)
		if err != nil {
			return "", err
		}
		return target + " = " + value, nil
	case *ast.CompoundAssignExpr:
		return g.compoundAssign(e)
	case *ast.IncDecExpr:
		return "", unsupportedExpr(fmt.Sprintf("`%s` in expression position", e.Op), e.Span())
	case *ast.CallExpr:
		return g.callExpr(e)
	case *ast.MethodCallExpr:
		return g.methodCall(e)
	case *ast.FieldExpr:
		recv, err := g.receiverOperand(e.Receiver)
		if err != nil {
			return "", err
		}
		return recv + "." + rawIdent(e.Field.Name), nil
	case *ast.SafeFieldExpr, *ast.SafeMethodCallExpr:
		return g.safeChain(e, true)
	case *ast.IndexExpr:
		return g.indexExpr(e)
	case *ast.TryExpr:
		inner, err := g.receiverOperand(e.Expr)
		if err != nil {
			return "", err
		}
		return inner + "?", nil
	case *ast.SendExpr:
		actor, err := g.receiverOperand(e.Actor)
		if err != nil {
			return "", err
		}
		msg, err := g.expr(e.Message)
		if err != nil {
			return "", err
		}
		return actor + ".send(" + msg + ")", nil
	case *ast.RangeExpr:
		return g.rangeText(e)
	case *ast.LambdaExpr:
		return g.lambdaText(e)
	case *ast.ListCompExpr:
		return g.listCompText(e)
	case *ast.CastExpr:
		return g.castExpr(e)
	case *ast.BlockExpr:
		return g.blockTextOf(e)
	case *ast.IfExpr:
		return g.ifText(e)
	case *ast.MatchExpr:
		return g.matchText(e)
	case *ast.ForExpr:
		return g.forText(e)
	case *ast.WhileExpr:
		return g.whileText(e)
	case *ast.LoopExpr:
		return g.loopText(e)
	case *ast.BreakExpr:
		if e.Value == nil {
			return "break", nil
		}
		value, err := g.expr(e.Value)
		if err != nil {
			return "", err
		}
		return "break " + value, nil
	case *ast.ContinueExpr:
		return "continue", nil
	case *ast.ReturnExpr:
		if e.Value == nil {
			return "return", nil
		}
		value, err := g.expr(e.Value)
		if err != nil {
			return "", err
		}
		return "return " + value, nil
	}
	return "", unsupportedExpr(fmt.Sprintf("%T", e), e.Span())
}

func pathText(segments []*ast.Ident) string {
	parts := make([]string, len(segments))
	for i, s := range segments {
		parts[i] = rawIdent(s.Name)
	}
	return strings.Join(parts, "::")
}

// structLit renders Name { field: value, .. }. Paths that name an enum are
// rejected here: variants carry tuple payloads only, so brace syntax on a
// variant cannot mean anything in the output.
func (g *Generator) structLit(e *ast.StructLit) (string, error) {
	var head string
	switch p := e.Path.(type) {
	case *ast.Ident:
		if _, ok := g.info.Enums[p.Name]; ok {
			return "", &UnsupportedError{
				Message: fmt.Sprintf("enum `%s` cannot be built with struct literal syntax", p.Name),
				Span:    e.Span(),
				Code:    diag.CodeGenInvalidEnumLiteral,
			}
		}
		head = rawIdent(p.Name)
	case *ast.PathExpr:
		if len(p.Segments) == 2 {
			if _, ok := g.info.Enums[p.Segments[0].Name]; ok {
				return "", &UnsupportedError{
					Message: fmt.Sprintf("enum `%s` has no struct variant `%s`", p.Segments[0].Name, p.Segments[1].Name),
					Span:    e.Span(),
					Code:    diag.CodeGenInvalidEnumLiteral,
				}
			}
		}
		head = pathText(p.Segments)
	default:
		text, err := g.expr(e.Path)
		if err != nil {
			return "", err
		}
		head = text
	}
	if len(e.Fields) == 0 {
		return head + " {}", nil
	}
	fields := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		if f.Value == nil {
			fields[i] = rawIdent(f.Name.Name)
			continue
		}
		value, err := g.expr(f.Value)
		if err != nil {
			return "", err
		}
		fields[i] = rawIdent(f.Name.Name) + ": " + value
	}
	return head + " { " + strings.Join(fields, ", ") + " }", nil
}

func (g *Generator) prefixExpr(e *ast.PrefixExpr) (string, error) {
	inner, err := g.expr(e.Right)
	if err != nil {
		return "", err
	}
	operand := inner
	if needsParens(e.Right) {
		operand = "(" + inner + ")"
	}
	switch e.Op {
	case "-":
		// -(-x) must not collapse into the -- token.
		if strings.HasPrefix(operand, "-") {
			operand = "(" + operand + ")"
		}
		return "-" + operand, nil
	case "!":
		return "!" + operand, nil
	case "&":
		return "&" + operand, nil
	case "&mut":
		return "&mut " + operand, nil
	}
	return "", unsupportedExpr(fmt.Sprintf("prefix operator `%s`", e.Op), e.Span())
}

// binaryPrec orders the binary operators the way the Rust grammar does, so
// parentheses are inserted only where the source nesting requires them.
func binaryPrec(op string) int {
	switch op {
	case "||":
		return 1
	case "&&":
		return 2
	case "==", "!=", "<", "<=", ">", ">=":
		return 3
	case "|":
		return 4
	case "^":
		return 5
	case "&":
		return 6
	case "<<", ">>":
		return 7
	case "+", "-":
		return 8
	case "*", "/", "%":
		return 9
	}
	return 0
}

func (g *Generator) infixExpr(e *ast.InfixExpr) (string, error) {
	if e.Op == "**" {
		return g.powerExpr(e)
	}
	prec := binaryPrec(e.Op)
	if prec == 0 {
		return "", unsupportedExpr(fmt.Sprintf("binary operator `%s`", e.Op), e.Span())
	}
	left, err := g.binaryOperand(e.Left, prec, false)
	if err != nil {
		return "", err
	}
	right, err := g.binaryOperand(e.Right, prec, true)
	if err != nil {
		return "", err
	}
	// String concatenation moves the left operand and borrows the right.
	if e.Op == "+" && g.info.StringOperand(e) && g.info.ProducesOwnedText(e.Right) {
		right = "&" + right
	}
	return left + " " + e.Op + " " + right, nil
}

func (g *Generator) binaryOperand(e ast.Expr, parent int, isRight bool) (string, error) {
	text, err := g.expr(e)
	if err != nil {
		return "", err
	}
	if child, ok := e.(*ast.InfixExpr); ok {
		if child.Op == "**" {
			// Power renders as a method call and binds tightest.
			return text, nil
		}
		cp := binaryPrec(child.Op)
		if cp < parent || (cp == parent && isRight) {
			return "(" + text + ")", nil
		}
		return text, nil
	}
	if needsParens(e) {
		return "(" + text + ")", nil
	}
	return text, nil
}

// powerExpr lowers ** onto i64::pow or f64::powf depending on the operand
// shapes. Integer literal bases get a type suffix so the method call does
// not lex as a float literal.
func (g *Generator) powerExpr(e *ast.InfixExpr) (string, error) {
	left, err := g.expr(e.Left)
	if err != nil {
		return "", err
	}
	right, err := g.expr(e.Right)
	if err != nil {
		return "", err
	}
	if g.info.FloatOperand(e.Left) || g.info.FloatOperand(e.Right) {
		base := left
		switch {
		case !g.info.FloatOperand(e.Left):
			if needsParens(e.Left) {
				base = "(" + base + ")"
			}
			base = "(" + base + " as f64)"
		case needsParens(e.Left):
			base = "(" + base + ")"
		default:
			if lit, ok := e.Left.(*ast.FloatLit); ok && strings.HasSuffix(lit.Text, ".") {
				base = "(" + base + ")"
			}
		}
		exp := right
		if !g.info.FloatOperand(e.Right) {
			if needsParens(e.Right) {
				exp = "(" + exp + ")"
			}
			exp += " as f64"
		}
		return base + ".powf(" + exp + ")", nil
	}
	base := left
	if lit, ok := e.Left.(*ast.IntegerLit); ok && lit.Suffix == "" {
		base = lit.Text + "_i64"
	} else if needsParens(e.Left) {
		base = "(" + base + ")"
	}
	exp := right
	if lit, ok := e.Right.(*ast.IntegerLit); ok && lit.Suffix == "" {
		exp = lit.Text
	} else {
		if needsParens(e.Right) {
			exp = "(" + exp + ")"
		}
		exp += " as u32"
	}
	return base + ".pow(" + exp + ")", nil
}

func (g *Generator) compoundAssign(e *ast.CompoundAssignExpr) (string, error) {
	target, err := g.assignTargetText(e.Target)
	if err != nil {
		return "", err
	}
	value, err := g.expr(e.Value)
	if err != nil {
		return "", err
	}
	if e.Op == "+=" && g.info.StringOperand(e.Target) && g.info.ProducesOwnedText(e.Value) {
		if needsParens(e.Value) {
			value = "(" + value + ")"
		}
		value = "&" + value
	}
	return target + " " + e.Op + " " + value, nil
}

func (g *Generator) callExpr(e *ast.CallExpr) (string, error) {
	if id, ok := e.Callee.(*ast.Ident); ok && g.info.BindingOf(id) == nil {
		if text, handled, err := g.builtinCall(e, id.Name); handled || err != nil {
			return text, err
		}
	}
	callee, err := g.calleeText(e.Callee)
	if err != nil {
		return "", err
	}
	turbo := ""
	if len(e.TypeArgs) > 0 {
		parts := make([]string, len(e.TypeArgs))
		for i, t := range e.TypeArgs {
			text := infer.RustType(t)
			if text == "" {
				return "", &UnsupportedError{
					Message: "unsupported type argument",
					Span:    e.Span(),
					Code:    diag.CodeGenUnsupportedType,
				}
			}
			parts[i] = text
		}
		turbo = "::<" + strings.Join(parts, ", ") + ">"
	}
	var fn *ast.FunItem
	if id, ok := e.Callee.(*ast.Ident); ok {
		if f, ok := g.info.BindingOf(id).(*ast.FunItem); ok {
			fn = f
		}
	}
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		text, err := g.argText(a, fn, i)
		if err != nil {
			return "", err
		}
		args[i] = text
	}
	out := callee + turbo + "(" + strings.Join(args, ", ") + ")"
	if g.info.OwnedText(e) {
		out += ".to_string()"
	}
	return out, nil
}

func (g *Generator) calleeText(e ast.Expr) (string, error) {
	switch c := e.(type) {
	case *ast.Ident:
		return rawIdent(c.Name), nil
	case *ast.PathExpr:
		return pathText(c.Segments), nil
	}
	text, err := g.expr(e)
	if err != nil {
		return "", err
	}
	// Closure values in callee position need grouping to call.
	return "(" + text + ")", nil
}

func (g *Generator) argText(a ast.Expr, fn *ast.FunItem, i int) (string, error) {
	text, err := g.expr(a)
	if err != nil {
		return "", err
	}
	if fn != nil && i < len(fn.Params) && g.info.PassingOf(fn.Params[i]) == infer.PassBorrow {
		text = g.borrowArg(a, text)
	}
	if g.info.ArgClones[a] {
		text += ".clone()"
	}
	return text, nil
}

// borrowArg adapts an argument for a parameter that takes a reference.
// Values that are already references pass through untouched.
func (g *Generator) borrowArg(a ast.Expr, text string) string {
	switch a := a.(type) {
	case *ast.Ident:
		if p, ok := g.info.BindingOf(a).(*ast.Param); ok && g.info.PassingOf(p) == infer.PassBorrow {
			return text
		}
	case *ast.PrefixExpr:
		if a.Op == "&" || a.Op == "&mut" {
			return text
		}
	case *ast.StringLit:
		if !g.info.OwnedText(a) {
			return text
		}
	case *ast.IndexExpr:
		if _, sliced := a.Index.(*ast.RangeExpr); sliced {
			return text
		}
	}
	if needsParens(a) {
		return "&(" + text + ")"
	}
	return "&" + text
}

// methodRenames maps convenience method spellings onto their std names.
var methodRenames = map[string]string{
	"to_s":     "to_string",
	"to_upper": "to_uppercase",
	"upper":    "to_uppercase",
	"to_lower": "to_lowercase",
	"lower":    "to_lowercase",
}

func (g *Generator) methodCall(e *ast.MethodCallExpr) (string, error) {
	recv, err := g.receiverOperand(e.Receiver)
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
	out := recv + "." + method + "(" + strings.Join(args, ", ") + ")"
	if g.info.OwnedText(e) {
		out += ".to_string()"
	}
	return out, nil
}

// receiverOperand renders an expression used as the receiver of a postfix
// form (., ?, indexing). Numeric literals need a suffix or grouping so the
// dot does not lex as a decimal point.
func (g *Generator) receiverOperand(e ast.Expr) (string, error) {
	text, err := g.expr(e)
	if err != nil {
		return "", err
	}
	switch lit := e.(type) {
	case *ast.IntegerLit:
		if lit.Suffix == "" {
			return lit.Text + "_i64", nil
		}
		return text, nil
	case *ast.FloatLit:
		if strings.HasSuffix(lit.Text, ".") {
			return "(" + text + ")", nil
		}
		return text, nil
	}
	if needsParens(e) {
		return "(" + text + ")", nil
	}
	return text, nil
}

func (g *Generator) indexExpr(e *ast.IndexExpr) (string, error) {
	recv, err := g.receiverOperand(e.Receiver)
	if err != nil {
		return "", err
	}
	if r, ok := e.Index.(*ast.RangeExpr); ok {
		bounds, err := g.sliceBounds(r)
		if err != nil {
			return "", err
		}
		// A range subscript produces an unsized slice, which only a
		// reference can carry.
		return "&" + recv + "[" + bounds + "]", nil
	}
	index, err := g.indexOperand(e.Index)
	if err != nil {
		return "", err
	}
	return recv + "[" + index + "]", nil
}

// indexOperand renders a subscript. Rust indexes with usize while the
// language's integers are i64, so anything but a bare literal gets a cast.
func (g *Generator) indexOperand(e ast.Expr) (string, error) {
	if lit, ok := e.(*ast.IntegerLit); ok && lit.Suffix == "" {
		return lit.Text, nil
	}
	text, err := g.expr(e)
	if err != nil {
		return "", err
	}
	if needsParens(e) {
		text = "(" + text + ")"
	}
	return text + " as usize", nil
}

func (g *Generator) sliceBounds(r *ast.RangeExpr) (string, error) {
	var start, end string
	var err error
	if r.Start != nil {
		start, err = g.indexOperand(r.Start)
		if err != nil {
			return "", err
		}
	}
	if r.End != nil {
		end, err = g.indexOperand(r.End)
		if err != nil {
			return "", err
		}
	}
	sep := ".."
	if r.Inclusive {
		sep = "..="
	}
	return start + sep + end, nil
}

func (g *Generator) rangeText(e *ast.RangeExpr) (string, error) {
	var start, end string
	var err error
	if e.Start != nil {
		start, err = g.expr(e.Start)
		if err != nil {
			return "", err
		}
		if needsParens(e.Start) {
			start = "(" + start + ")"
		}
	}
	if e.End != nil {
		end, err = g.expr(e.End)
		if err != nil {
			return "", err
		}
		if needsParens(e.End) {
			end = "(" + end + ")"
		}
	}
	sep := ".."
	if e.Inclusive {
		sep = "..="
	}
	return start + sep + end, nil
}

func (g *Generator) lambdaText(e *ast.LambdaExpr) (string, error) {
	params := make([]string, len(e.Params))
	for i, p := range e.Params {
		name := rawIdent(p.Name.Name)
		if p.Type != nil {
			ty := infer.RustType(p.Type)
			if ty == "" {
				return "", &UnsupportedError{
					Message: fmt.Sprintf("unsupported type for parameter `%s`", p.Name.Name),
					Span:    p.Span(),
					Code:    diag.CodeGenUnsupportedType,
				}
			}
			name += ": " + ty
		}
		params[i] = name
	}
	var body string
	var err error
	if b, ok := e.Body.(*ast.BlockExpr); ok {
		body, err = g.blockTextOf(b)
	} else {
		body, err = g.expr(e.Body)
	}
	if err != nil {
		return "", err
	}
	return "|" + strings.Join(params, ", ") + "| " + body, nil
}

func (g *Generator) castExpr(e *ast.CastExpr) (string, error) {
	inner, err := g.expr(e.Expr)
	if err != nil {
		return "", err
	}
	if needsParens(e.Expr) {
		inner = "(" + inner + ")"
	}
	ty := infer.RustType(e.Type)
	if ty == "" {
		return "", &UnsupportedError{
			Message: "unsupported cast target type",
			Span:    e.Span(),
			Code:    diag.CodeGenUnsupportedType,
		}
	}
	return inner + " as " + ty, nil
}

// needsParens reports whether an expression must be grouped when used as an
// operand of a binary operator or a postfix form.
func needsParens(e ast.Expr) bool {
	switch e := e.(type) {
	case *ast.InfixExpr, *ast.AssignExpr, *ast.CompoundAssignExpr,
		*ast.RangeExpr, *ast.CastExpr, *ast.LambdaExpr,
		*ast.IfExpr, *ast.MatchExpr:
		return true
	case *ast.IndexExpr:
		// Slices render with a leading &, which a postfix form must
		// not capture.
		_, sliced := e.Index.(*ast.RangeExpr)
		return sliced
	}
	return false
}
