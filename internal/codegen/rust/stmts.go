package rust

import (
	"fmt"

	"github.com/ruchy-lang/ruchy/internal/ast"
	"github.com/ruchy-lang/ruchy/internal/diag"
	"github.com/ruchy-lang/ruchy/internal/infer"
)

// blockBody emits a block's statements followed by its tail value, which
// stays unterminated so the block keeps its value.
func (g *Generator) blockBody(b *ast.BlockExpr) error {
	for _, s := range b.Stmts {
		if err := g.stmt(s); err != nil {
			return err
		}
	}
	if b.Tail != nil {
		text, err := g.expr(b.Tail)
		if err != nil {
			return err
		}
		g.emit(text)
	}
	return nil
}

// blockTextOf renders a block for expression position: the body indents one
// level and the closing brace sits at the current indent.
func (g *Generator) blockTextOf(b *ast.BlockExpr) (string, error) {
	inner, err := g.capture(func() error {
		g.indent++
		return g.blockBody(b)
	})
	if err != nil {
		return "", err
	}
	if inner == "" {
		return "{}", nil
	}
	return "{\n" + inner + g.pad() + "}", nil
}

func (g *Generator) stmt(s ast.Stmt) error {
	switch v := s.(type) {
	case *ast.LetStmt:
		return g.letStmt(v)
	case *ast.ExprStmt:
		return g.exprStmt(v)
	case *ast.GuardStmt:
		return g.guardStmt(v)
	case *ast.DeferStmt:
		return g.deferStmt(v)
	}
	return unsupportedStmt(fmt.Sprintf("%T", s), s.Span())
}

func (g *Generator) letStmt(v *ast.LetStmt) error {
	kw := "let "
	if v.Mutable || g.info.MutabilityOf(v) != infer.MutImmutable {
		kw = "let mut "
	}
	line := kw + rawIdent(v.Name.Name)
	if v.Type != nil {
		ty := infer.RustType(v.Type)
		if ty == "" {
			return &UnsupportedError{
				Message: fmt.Sprintf("unsupported type for binding `%s`", v.Name.Name),
				Span:    v.Span(),
				Code:    diag.CodeGenUnsupportedType,
			}
		}
		line += ": " + ty
	}
	if v.Value == nil {
		g.emit(line + ";")
		return nil
	}
	text, err := g.expr(v.Value)
	if err != nil {
		return err
	}
	g.emit(line + " = " + text + ";")
	return nil
}

func (g *Generator) exprStmt(v *ast.ExprStmt) error {
	switch e := v.Expr.(type) {
	case *ast.IncDecExpr:
		target, err := g.assignTargetText(e.Target)
		if err != nil {
			return err
		}
		op := "+= 1"
		if e.Op == "--" {
			op = "-= 1"
		}
		g.emit(target + " " + op + ";")
		return nil
	case *ast.IfExpr, *ast.MatchExpr, *ast.ForExpr, *ast.WhileExpr,
		*ast.LoopExpr, *ast.BlockExpr:
		text, err := g.expr(v.Expr)
		if err != nil {
			return err
		}
		g.emit(text)
		return nil
	}
	text, err := g.expr(v.Expr)
	if err != nil {
		return err
	}
	g.emit(text + ";")
	return nil
}

func (g *Generator) guardStmt(v *ast.GuardStmt) error {
	cond, err := g.expr(v.Cond)
	if err != nil {
		return err
	}
	body, err := g.blockTextOf(v.Else)
	if err != nil {
		return err
	}
	g.emit("if !(" + cond + ") " + body)
	return nil
}

func (g *Generator) deferStmt(v *ast.DeferStmt) error {
	g.needGuard = true
	g.guardSeq++
	body, err := g.blockTextOf(v.Body)
	if err != nil {
		return err
	}
	g.emitf("let _guard_%d = ScopeGuard(|| %s);", g.guardSeq, body)
	return nil
}

func (g *Generator) assignTargetText(e ast.Expr) (string, error) {
	switch e.(type) {
	case *ast.Ident, *ast.FieldExpr, *ast.IndexExpr:
		return g.expr(e)
	}
	return "", &UnsupportedError{
		Message: "cannot assign to this expression",
		Span:    e.Span(),
		Code:    diag.CodeGenBadAssignTarget,
	}
}
