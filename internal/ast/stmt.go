package ast

import "github.com/ruchy-lang/ruchy/internal/lexer"

// LetStmt represents a let binding. Type and Value may each be nil.
type LetStmt struct {
	Mutable bool
	Name    *Ident
	Type    TypeExpr
	Value   Expr
	span    lexer.Span
}

// Span returns the statement span.
func (s *LetStmt) Span() lexer.Span { return s.span }

// NewLetStmt constructs a let statement node.
func NewLetStmt(mutable bool, name *Ident, typ TypeExpr, value Expr, span lexer.Span) *LetStmt {
	return &LetStmt{Mutable: mutable, Name: name, Type: typ, Value: value, span: span}
}

// SetSpan updates the statement span.
func (s *LetStmt) SetSpan(span lexer.Span) { s.span = span }

// stmtNode marks LetStmt as a statement.
func (*LetStmt) stmtNode() {}

// ExprStmt wraps an expression used in statement position.
type ExprStmt struct {
	Expr Expr
	span lexer.Span
}

// Span returns the statement span.
func (s *ExprStmt) Span() lexer.Span { return s.span }

// NewExprStmt constructs an expression statement node.
func NewExprStmt(expr Expr) *ExprStmt {
	return &ExprStmt{Expr: expr, span: expr.Span()}
}

// SetSpan updates the statement span.
func (s *ExprStmt) SetSpan(span lexer.Span) { s.span = span }

// stmtNode marks ExprStmt as a statement.
func (*ExprStmt) stmtNode() {}

// GuardStmt represents guard cond else { block }. The else block runs when
// the condition is false and must exit the enclosing scope.
type GuardStmt struct {
	Cond Expr
	Else *BlockExpr
	span lexer.Span
}

// Span returns the statement span.
func (s *GuardStmt) Span() lexer.Span { return s.span }

// NewGuardStmt constructs a guard statement node.
func NewGuardStmt(cond Expr, els *BlockExpr, span lexer.Span) *GuardStmt {
	return &GuardStmt{Cond: cond, Else: els, span: span}
}

// SetSpan updates the statement span.
func (s *GuardStmt) SetSpan(span lexer.Span) { s.span = span }

// stmtNode marks GuardStmt as a statement.
func (*GuardStmt) stmtNode() {}

// DeferStmt represents defer { block }, run when the enclosing scope exits.
type DeferStmt struct {
	Body *BlockExpr
	span lexer.Span
}

// Span returns the statement span.
func (s *DeferStmt) Span() lexer.Span { return s.span }

// NewDeferStmt constructs a defer statement node.
func NewDeferStmt(body *BlockExpr, span lexer.Span) *DeferStmt {
	return &DeferStmt{Body: body, span: span}
}

// SetSpan updates the statement span.
func (s *DeferStmt) SetSpan(span lexer.Span) { s.span = span }

// stmtNode marks DeferStmt as a statement.
func (*DeferStmt) stmtNode() {}
