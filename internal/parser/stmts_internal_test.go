package parser

import (
	"strings"
	"testing"

	"github.com/ruchy-lang/ruchy/internal/ast"
)

func parseBlockString(t *testing.T, src string) *ast.BlockExpr {
	t.Helper()

	p := New(src)
	block := p.parseBlockExpr()
	if len(p.Errors()) > 0 {
		t.Fatalf("unexpected parse errors for %q: %v", src, p.Errors())
	}
	if block == nil {
		t.Fatalf("parseBlockExpr returned nil for %q", src)
	}
	return block
}

func TestBlockTailExpression(t *testing.T) {
	block := parseBlockString(t, "{ a; b }")

	if len(block.Stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(block.Stmts))
	}
	tail, ok := block.Tail.(*ast.Ident)
	if !ok || tail.Name != "b" {
		t.Fatalf("expected tail 'b', got %#v", block.Tail)
	}
}

func TestBlockTrailingSemicolonDropsTail(t *testing.T) {
	block := parseBlockString(t, "{ a; b; }")

	if len(block.Stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(block.Stmts))
	}
	if block.Tail != nil {
		t.Fatalf("expected no tail, got %#v", block.Tail)
	}
}

func TestBlockNewlineSeparated(t *testing.T) {
	block := parseBlockString(t, "{\n    let x = 1\n    x + 1\n}")

	if len(block.Stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(block.Stmts))
	}
	if _, ok := block.Stmts[0].(*ast.LetStmt); !ok {
		t.Fatalf("expected let statement, got %T", block.Stmts[0])
	}
	if _, ok := block.Tail.(*ast.InfixExpr); !ok {
		t.Fatalf("expected expression tail, got %T", block.Tail)
	}
}

func TestEmptyBlock(t *testing.T) {
	block := parseBlockString(t, "{}")

	if len(block.Stmts) != 0 || block.Tail != nil {
		t.Fatalf("expected empty block, got %#v", block)
	}
}

func TestLetStatementForms(t *testing.T) {
	typed := parseBlockString(t, "{ let total: Int = 0\n total }")
	let := typed.Stmts[0].(*ast.LetStmt)
	if let.Type == nil || let.Value == nil || let.Mutable {
		t.Fatalf("unexpected let: %#v", let)
	}
	if named := let.Type.(*ast.NamedType); named.Name() != "Int" {
		t.Fatalf("unexpected annotation: %#v", let.Type)
	}

	deferred := parseBlockString(t, "{ let x\n x = 1\n x }")
	bare := deferred.Stmts[0].(*ast.LetStmt)
	if bare.Value != nil {
		t.Fatalf("expected let without initializer, got %#v", bare.Value)
	}
	if _, ok := deferred.Stmts[1].(*ast.ExprStmt).Expr.(*ast.AssignExpr); !ok {
		t.Fatalf("expected later assignment, got %T", deferred.Stmts[1])
	}
}

func TestGuardStatement(t *testing.T) {
	block := parseBlockString(t, "{ guard ok else { return 0 }\n work() }")

	guard, ok := block.Stmts[0].(*ast.GuardStmt)
	if !ok {
		t.Fatalf("expected guard statement, got %T", block.Stmts[0])
	}
	if _, ok := guard.Cond.(*ast.Ident); !ok {
		t.Fatalf("unexpected guard condition: %T", guard.Cond)
	}

	ret, ok := guard.Else.Tail.(*ast.ReturnExpr)
	if !ok || ret.Value == nil {
		t.Fatalf("expected return with value in else block, got %#v", guard.Else.Tail)
	}

	if _, ok := block.Tail.(*ast.CallExpr); !ok {
		t.Fatalf("expected call tail after guard, got %T", block.Tail)
	}
}

func TestDeferStatementForms(t *testing.T) {
	block := parseBlockString(t, "{ defer { close() }\n defer release()\n 1 }")

	if len(block.Stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(block.Stmts))
	}

	first := block.Stmts[0].(*ast.DeferStmt)
	if _, ok := first.Body.Tail.(*ast.CallExpr); !ok {
		t.Fatalf("expected call in defer block, got %#v", first.Body.Tail)
	}

	// A bare deferred expression is wrapped in a one-expression block.
	second := block.Stmts[1].(*ast.DeferStmt)
	if _, ok := second.Body.Tail.(*ast.CallExpr); !ok {
		t.Fatalf("expected wrapped call, got %#v", second.Body.Tail)
	}
}

func TestBlockRecoversAfterBadStatement(t *testing.T) {
	p := New("{ let = 5\n let y = 1\n y }")
	block := p.parseBlockExpr()

	if block == nil {
		t.Fatalf("expected block despite bad statement")
	}
	if len(p.Errors()) == 0 {
		t.Fatalf("expected an error for the malformed let")
	}

	// Recovery skips to the next statement keyword, so the second let and
	// the tail both survive.
	if len(block.Stmts) != 1 {
		t.Fatalf("expected 1 recovered statement, got %d", len(block.Stmts))
	}
	if tail, ok := block.Tail.(*ast.Ident); !ok || tail.Name != "y" {
		t.Fatalf("expected tail 'y', got %#v", block.Tail)
	}
}

func TestBlockMissingCloseBrace(t *testing.T) {
	p := New("{ work()")
	block := p.parseBlockExpr()

	if block != nil {
		t.Fatalf("expected nil block, got %#v", block)
	}

	errs := p.Errors()
	if len(errs) == 0 || !strings.Contains(errs[0].Message, "to close block") {
		t.Fatalf("expected unclosed block error, got %v", errs)
	}
}
