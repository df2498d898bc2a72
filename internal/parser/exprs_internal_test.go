package parser

import (
	"strings"
	"testing"

	"github.com/ruchy-lang/ruchy/internal/ast"
)

func parseExprString(t *testing.T, src string) ast.Expr {
	t.Helper()

	p := New(src)
	expr := p.parseExpr()
	if len(p.Errors()) > 0 {
		t.Fatalf("unexpected parse errors for %q: %v", src, p.Errors())
	}
	if expr == nil {
		t.Fatalf("parseExpr returned nil for %q", src)
	}
	return expr
}

// exprText renders expressions with explicit grouping so precedence tests
// can compare shapes as strings.
func exprText(e ast.Expr) string {
	switch n := e.(type) {
	case *ast.Ident:
		return n.Name
	case *ast.PathExpr:
		return n.String()
	case *ast.IntegerLit:
		return n.Text
	case *ast.FloatLit:
		return n.Text
	case *ast.BoolLit:
		if n.Value {
			return "true"
		}
		return "false"
	case *ast.PrefixExpr:
		return "(" + n.Op + exprText(n.Right) + ")"
	case *ast.InfixExpr:
		return "(" + exprText(n.Left) + " " + n.Op + " " + exprText(n.Right) + ")"
	case *ast.PipelineExpr:
		return "(" + exprText(n.Left) + " |> " + exprText(n.Right) + ")"
	case *ast.AssignExpr:
		return "(" + exprText(n.Target) + " = " + exprText(n.Value) + ")"
	case *ast.CompoundAssignExpr:
		return "(" + exprText(n.Target) + " " + n.Op + " " + exprText(n.Value) + ")"
	case *ast.RangeExpr:
		op := ".."
		if n.Inclusive {
			op = "..="
		}
		end := ""
		if n.End != nil {
			end = exprText(n.End)
		}
		return "(" + exprText(n.Start) + op + end + ")"
	case *ast.CastExpr:
		name := "?"
		if named, ok := n.Type.(*ast.NamedType); ok {
			name = named.Name()
		}
		return "(" + exprText(n.Expr) + " as " + name + ")"
	case *ast.IncDecExpr:
		if n.Prefix {
			return "(" + n.Op + exprText(n.Target) + ")"
		}
		return "(" + exprText(n.Target) + n.Op + ")"
	case *ast.CallExpr:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = exprText(a)
		}
		return exprText(n.Callee) + "(" + strings.Join(args, ", ") + ")"
	case *ast.IndexExpr:
		return exprText(n.Receiver) + "[" + exprText(n.Index) + "]"
	case *ast.FieldExpr:
		return exprText(n.Receiver) + "." + n.Field.Name
	case *ast.TryExpr:
		return exprText(n.Expr) + "?"
	}
	return "<unsupported>"
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"1 * 2 + 3", "((1 * 2) + 3)"},
		{"a + b - c", "((a + b) - c)"},
		{"2 ** 3 ** 2", "(2 ** (3 ** 2))"},
		{"-a * b", "((-a) * b)"},
		{"!ready && ok", "((!ready) && ok)"},
		{"a || b && c", "(a || (b && c))"},
		{"a == b && c != d", "((a == b) && (c != d))"},
		{"a < b == c > d", "((a < b) == (c > d))"},
		{"a & b | c ^ d", "((a & b) | (c ^ d))"},
		{"a << 2 + 1", "(a << (2 + 1))"},
		{"x as Int * 2", "((x as Int) * 2)"},
		{"i++ * 2", "((i++) * 2)"},
		{"x = y = z", "(x = (y = z))"},
		{"total += n * 2", "(total += (n * 2))"},
		{"a |> f |> g", "((a |> f) |> g)"},
		{"xs |> total + 1", "(xs |> (total + 1))"},
		{"0..n", "(0..n)"},
		{"1..=len - 1", "(1..=(len - 1))"},
		{"xs[i] + xs[j]", "(xs[i] + xs[j])"},
		{"p.x * p.y", "(p.x * p.y)"},
		{"fetch()? + 1", "(fetch()? + 1)"},
	}

	for i, tc := range tests {
		expr := parseExprString(t, tc.input)
		if got := exprText(expr); got != tc.expected {
			t.Errorf("tests[%d] - expected %q, got %q", i, tc.expected, got)
		}
	}
}

func TestParenthesesRespanWithoutWrapper(t *testing.T) {
	expr := parseExprString(t, "(1 + 2) * 3")

	if got := exprText(expr); got != "((1 + 2) * 3)" {
		t.Fatalf("expected %q, got %q", "((1 + 2) * 3)", got)
	}

	mul := expr.(*ast.InfixExpr)
	inner := mul.Left.(*ast.InfixExpr)

	// The grouped expression keeps its own node but widens to cover the
	// parentheses.
	if inner.Span().Start != 0 {
		t.Fatalf("expected inner span to start at '(', got %d", inner.Span().Start)
	}
}

func TestLessThanIsComparison(t *testing.T) {
	expr := parseExprString(t, "a < b && c > d")

	and, ok := expr.(*ast.InfixExpr)
	if !ok || and.Op != "&&" {
		t.Fatalf("expected '&&' at the root, got %T", expr)
	}

	left := and.Left.(*ast.InfixExpr)
	if left.Op != "<" {
		t.Fatalf("expected '<' comparison on the left, got %q", left.Op)
	}
}

func TestGenericCall(t *testing.T) {
	expr := parseExprString(t, "max<Int>(5, 3)")

	call, ok := expr.(*ast.CallExpr)
	if !ok {
		t.Fatalf("expected *ast.CallExpr, got %T", expr)
	}

	if len(call.TypeArgs) != 1 {
		t.Fatalf("expected 1 type argument, got %d", len(call.TypeArgs))
	}

	arg, ok := call.TypeArgs[0].(*ast.NamedType)
	if !ok || arg.Name() != "Int" {
		t.Fatalf("expected Int type argument, got %#v", call.TypeArgs[0])
	}

	if len(call.Args) != 2 {
		t.Fatalf("expected 2 call arguments, got %d", len(call.Args))
	}
}

func TestGenericCallNestedArgs(t *testing.T) {
	expr := parseExprString(t, "id<DynArray<Int>>(xs)")

	call := expr.(*ast.CallExpr)
	outer := call.TypeArgs[0].(*ast.NamedType)

	if outer.Name() != "DynArray" || len(outer.Args) != 1 {
		t.Fatalf("expected DynArray<Int> type argument, got %#v", outer)
	}
}

func TestStructLiteralNeedsFieldInit(t *testing.T) {
	expr := parseExprString(t, "Point { x: 1, y: 2 }")

	lit, ok := expr.(*ast.StructLit)
	if !ok {
		t.Fatalf("expected *ast.StructLit, got %T", expr)
	}

	if len(lit.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(lit.Fields))
	}

	if lit.Fields[0].Name.Name != "x" || lit.Fields[0].Value == nil {
		t.Fatalf("unexpected first field: %#v", lit.Fields[0])
	}
}

func TestStructLiteralShorthandAfterFirstField(t *testing.T) {
	expr := parseExprString(t, "Point { x: 1, y }")

	lit := expr.(*ast.StructLit)
	if len(lit.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(lit.Fields))
	}

	if lit.Fields[1].Name.Name != "y" || lit.Fields[1].Value != nil {
		t.Fatalf("expected shorthand second field, got %#v", lit.Fields[1])
	}
}

func TestMatchKeepsItsBlock(t *testing.T) {
	expr := parseExprString(t, "match color { Red => 1, _ => 0 }")

	m, ok := expr.(*ast.MatchExpr)
	if !ok {
		t.Fatalf("expected *ast.MatchExpr, got %T", expr)
	}

	if len(m.Arms) != 2 {
		t.Fatalf("expected 2 arms, got %d", len(m.Arms))
	}

	if _, ok := m.Arms[0].Pattern.(*ast.PatternPath); !ok {
		t.Fatalf("expected variant pattern, got %T", m.Arms[0].Pattern)
	}
}

func TestMatchArmGuard(t *testing.T) {
	expr := parseExprString(t, "match n { x if x > 0 => 1, _ => 0 }")

	m := expr.(*ast.MatchExpr)
	if m.Arms[0].Guard == nil {
		t.Fatalf("expected a guard on the first arm")
	}
	if _, ok := m.Arms[0].Pattern.(*ast.PatternIdent); !ok {
		t.Fatalf("expected binding pattern, got %T", m.Arms[0].Pattern)
	}
}

func TestIfKeepsItsBlock(t *testing.T) {
	expr := parseExprString(t, "if ready { 1 } else { 2 }")

	cond := expr.(*ast.IfExpr).Cond
	if _, ok := cond.(*ast.Ident); !ok {
		t.Fatalf("expected bare condition, got %T", cond)
	}
}

func TestIfElseChain(t *testing.T) {
	expr := parseExprString(t, "if a { 1 } else if b { 2 } else { 3 }")

	outer := expr.(*ast.IfExpr)
	second, ok := outer.Else.(*ast.IfExpr)
	if !ok {
		t.Fatalf("expected chained else-if, got %T", outer.Else)
	}

	if _, ok := second.Else.(*ast.BlockExpr); !ok {
		t.Fatalf("expected final else block, got %T", second.Else)
	}
}

func TestLambdas(t *testing.T) {
	expr := parseExprString(t, "|x| x + 1")

	lam, ok := expr.(*ast.LambdaExpr)
	if !ok {
		t.Fatalf("expected *ast.LambdaExpr, got %T", expr)
	}
	if len(lam.Params) != 1 || lam.Params[0].Name.Name != "x" {
		t.Fatalf("unexpected params: %#v", lam.Params)
	}
	if _, ok := lam.Body.(*ast.InfixExpr); !ok {
		t.Fatalf("expected expression body, got %T", lam.Body)
	}

	typed := parseExprString(t, "|x: Int, y: Int| { x + y }").(*ast.LambdaExpr)
	if len(typed.Params) != 2 || typed.Params[0].Type == nil {
		t.Fatalf("expected typed params, got %#v", typed.Params)
	}
	if _, ok := typed.Body.(*ast.BlockExpr); !ok {
		t.Fatalf("expected block body, got %T", typed.Body)
	}

	empty := parseExprString(t, "|| next()").(*ast.LambdaExpr)
	if len(empty.Params) != 0 {
		t.Fatalf("expected no params, got %d", len(empty.Params))
	}
}

func TestSafeNavigation(t *testing.T) {
	field := parseExprString(t, "user?.name")
	if _, ok := field.(*ast.SafeFieldExpr); !ok {
		t.Fatalf("expected *ast.SafeFieldExpr, got %T", field)
	}

	call := parseExprString(t, "user?.load(42)")
	method, ok := call.(*ast.SafeMethodCallExpr)
	if !ok {
		t.Fatalf("expected *ast.SafeMethodCallExpr, got %T", call)
	}
	if method.Method.Name != "load" || len(method.Args) != 1 {
		t.Fatalf("unexpected safe call: %#v", method)
	}
}

func TestSendExpr(t *testing.T) {
	expr := parseExprString(t, "counter!(Inc)")

	send, ok := expr.(*ast.SendExpr)
	if !ok {
		t.Fatalf("expected *ast.SendExpr, got %T", expr)
	}
	if _, ok := send.Message.(*ast.Ident); !ok {
		t.Fatalf("expected ident message, got %T", send.Message)
	}
}

func TestTupleIndexField(t *testing.T) {
	expr := parseExprString(t, "pair.0")

	field, ok := expr.(*ast.FieldExpr)
	if !ok {
		t.Fatalf("expected *ast.FieldExpr, got %T", expr)
	}
	if field.Field.Name != "0" {
		t.Fatalf("expected tuple index 0, got %q", field.Field.Name)
	}
}

func TestOpenEndedSlice(t *testing.T) {
	expr := parseExprString(t, "xs[1..]")

	idx := expr.(*ast.IndexExpr)
	rng, ok := idx.Index.(*ast.RangeExpr)
	if !ok {
		t.Fatalf("expected range index, got %T", idx.Index)
	}
	if rng.End != nil {
		t.Fatalf("expected open end, got %#v", rng.End)
	}
}

func TestListComprehension(t *testing.T) {
	expr := parseExprString(t, "[x * x for x in items if x > 0]")

	comp, ok := expr.(*ast.ListCompExpr)
	if !ok {
		t.Fatalf("expected *ast.ListCompExpr, got %T", expr)
	}
	if comp.Var.Name != "x" || comp.Filter == nil {
		t.Fatalf("unexpected comprehension: %#v", comp)
	}

	plain := parseExprString(t, "[n for n in 0..10]").(*ast.ListCompExpr)
	if plain.Filter != nil {
		t.Fatalf("expected no filter, got %#v", plain.Filter)
	}
}

func TestBreakValueStaysOnItsLine(t *testing.T) {
	withValue := parseExprString(t, "loop { break 5 }").(*ast.LoopExpr)
	brk, ok := withValue.Body.Tail.(*ast.BreakExpr)
	if !ok {
		t.Fatalf("expected break tail, got %T", withValue.Body.Tail)
	}
	if brk.Value == nil {
		t.Fatalf("expected break value on the same line")
	}

	split := parseExprString(t, "loop {\n    break\n    done()\n}").(*ast.LoopExpr)
	if len(split.Body.Stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(split.Body.Stmts))
	}
	bare := split.Body.Stmts[0].(*ast.ExprStmt).Expr.(*ast.BreakExpr)
	if bare.Value != nil {
		t.Fatalf("expected bare break, got value %#v", bare.Value)
	}
}

func TestUnitAndTupleLiterals(t *testing.T) {
	if _, ok := parseExprString(t, "()").(*ast.UnitLit); !ok {
		t.Fatalf("expected unit literal")
	}

	tup, ok := parseExprString(t, "(1, 2.5, \"three\")").(*ast.TupleLit)
	if !ok || len(tup.Elems) != 3 {
		t.Fatalf("expected 3-element tuple, got %#v", tup)
	}

	single, ok := parseExprString(t, "(1,)").(*ast.TupleLit)
	if !ok || len(single.Elems) != 1 {
		t.Fatalf("expected single-element tuple, got %#v", single)
	}
}

func TestIntegerLiteralForms(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"42", 42},
		{"0xFF", 255},
		{"0o77", 63},
		{"0b1010", 10},
		{"1_000_000", 1000000},
		{"042", 42},
	}

	for i, tc := range tests {
		lit, ok := parseExprString(t, tc.input).(*ast.IntegerLit)
		if !ok {
			t.Fatalf("tests[%d] - expected integer literal for %q", i, tc.input)
		}
		if lit.Value != tc.expected {
			t.Errorf("tests[%d] - expected %d, got %d", i, tc.expected, lit.Value)
		}
	}
}

func TestIntegerLiteralOutOfRange(t *testing.T) {
	p := New("9223372036854775808")
	p.parseExpr()

	errs := p.Errors()
	if len(errs) == 0 {
		t.Fatalf("expected an out of range error")
	}
	if !strings.Contains(errs[0].Message, "out of range") {
		t.Fatalf("unexpected message: %q", errs[0].Message)
	}
}

func TestAssignTargetValidation(t *testing.T) {
	for _, src := range []string{"1 = 2", "f() = 3", "a + b = 4"} {
		p := New(src)
		p.parseExpr()
		if len(p.Errors()) == 0 {
			t.Errorf("expected invalid assignment target error for %q", src)
		}
	}

	for _, src := range []string{"x = 1", "p.x = 1", "xs[0] = 1", "self.count = 1"} {
		p := New(src)
		expr := p.parseExpr()
		if expr == nil || len(p.Errors()) != 0 {
			t.Errorf("expected %q to parse as assignment, errors: %v", src, p.Errors())
		}
	}
}

func TestItemKeywordSuggestion(t *testing.T) {
	p := New("pub strct Point { x: Int }")
	p.ParseFile()

	errs := p.Errors()
	if len(errs) == 0 {
		t.Fatalf("expected an error for misspelled keyword")
	}

	found := false
	for _, err := range errs {
		if strings.Contains(err.Help, "did you mean 'struct'") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a struct suggestion, got %v", errs)
	}
}
