package ast

import "github.com/ruchy-lang/ruchy/internal/lexer"

// Ident represents an identifier expression.
type Ident struct {
	Name string
	span lexer.Span
}

// Span returns the identifier span.
func (e *Ident) Span() lexer.Span { return e.span }

// NewIdent constructs an identifier node.
func NewIdent(name string, span lexer.Span) *Ident {
	return &Ident{Name: name, span: span}
}

// SetSpan updates the identifier span.
func (e *Ident) SetSpan(span lexer.Span) { e.span = span }

// exprNode marks Ident as an expression.
func (*Ident) exprNode() {}

// PathExpr represents a :: separated path such as Color::Red or std::max.
type PathExpr struct {
	Segments []*Ident
	span     lexer.Span
}

// Span returns the path span.
func (e *PathExpr) Span() lexer.Span { return e.span }

// NewPathExpr constructs a path expression node.
func NewPathExpr(segments []*Ident, span lexer.Span) *PathExpr {
	return &PathExpr{Segments: segments, span: span}
}

// SetSpan updates the path span.
func (e *PathExpr) SetSpan(span lexer.Span) { e.span = span }

// String joins the path segments with "::".
func (e *PathExpr) String() string {
	out := ""
	for i, seg := range e.Segments {
		if i > 0 {
			out += "::"
		}
		out += seg.Name
	}
	return out
}

// exprNode marks PathExpr as an expression.
func (*PathExpr) exprNode() {}

// IntegerLit represents an integer literal. Text preserves the original
// spelling, Value holds the normalized digits, and Suffix holds a width
// suffix such as i32 when one was written.
type IntegerLit struct {
	Text   string
	Value  int64
	Suffix string
	span   lexer.Span
}

// Span returns the literal span.
func (e *IntegerLit) Span() lexer.Span { return e.span }

// NewIntegerLit constructs an integer literal node.
func NewIntegerLit(text string, value int64, span lexer.Span) *IntegerLit {
	return &IntegerLit{Text: text, Value: value, span: span}
}

// SetSpan updates the literal span.
func (e *IntegerLit) SetSpan(span lexer.Span) { e.span = span }

// exprNode marks IntegerLit as an expression.
func (*IntegerLit) exprNode() {}

// FloatLit represents a floating point literal.
type FloatLit struct {
	Text   string
	Value  float64
	Suffix string
	span   lexer.Span
}

// Span returns the literal span.
func (e *FloatLit) Span() lexer.Span { return e.span }

// NewFloatLit constructs a float literal node.
func NewFloatLit(text string, value float64, span lexer.Span) *FloatLit {
	return &FloatLit{Text: text, Value: value, span: span}
}

// SetSpan updates the literal span.
func (e *FloatLit) SetSpan(span lexer.Span) { e.span = span }

// exprNode marks FloatLit as an expression.
func (*FloatLit) exprNode() {}

// StringLit represents a string literal. Value holds the decoded text.
type StringLit struct {
	Value string
	span  lexer.Span
}

// Span returns the literal span.
func (e *StringLit) Span() lexer.Span { return e.span }

// NewStringLit constructs a string literal node.
func NewStringLit(value string, span lexer.Span) *StringLit {
	return &StringLit{Value: value, span: span}
}

// SetSpan updates the literal span.
func (e *StringLit) SetSpan(span lexer.Span) { e.span = span }

// exprNode marks StringLit as an expression.
func (*StringLit) exprNode() {}

// CharLit represents a character literal.
type CharLit struct {
	Value rune
	span  lexer.Span
}

// Span returns the literal span.
func (e *CharLit) Span() lexer.Span { return e.span }

// NewCharLit constructs a character literal node.
func NewCharLit(value rune, span lexer.Span) *CharLit {
	return &CharLit{Value: value, span: span}
}

// SetSpan updates the literal span.
func (e *CharLit) SetSpan(span lexer.Span) { e.span = span }

// exprNode marks CharLit as an expression.
func (*CharLit) exprNode() {}

// BoolLit represents a boolean literal.
type BoolLit struct {
	Value bool
	span  lexer.Span
}

// Span returns the literal span.
func (e *BoolLit) Span() lexer.Span { return e.span }

// NewBoolLit constructs a boolean literal node.
func NewBoolLit(value bool, span lexer.Span) *BoolLit {
	return &BoolLit{Value: value, span: span}
}

// SetSpan updates the literal span.
func (e *BoolLit) SetSpan(span lexer.Span) { e.span = span }

// exprNode marks BoolLit as an expression.
func (*BoolLit) exprNode() {}

// UnitLit represents the unit value ().
type UnitLit struct {
	span lexer.Span
}

// Span returns the literal span.
func (e *UnitLit) Span() lexer.Span { return e.span }

// NewUnitLit constructs a unit literal node.
func NewUnitLit(span lexer.Span) *UnitLit {
	return &UnitLit{span: span}
}

// SetSpan updates the literal span.
func (e *UnitLit) SetSpan(span lexer.Span) { e.span = span }

// exprNode marks UnitLit as an expression.
func (*UnitLit) exprNode() {}

// FStringPart is one segment of an interpolated string: literal text when
// Expr is nil, otherwise an embedded expression with an optional format spec.
type FStringPart struct {
	Text   string
	Expr   Expr
	Format string
}

// FStringExpr represents an interpolated string literal such as f"x = {x}".
type FStringExpr struct {
	Parts []FStringPart
	span  lexer.Span
}

// Span returns the literal span.
func (e *FStringExpr) Span() lexer.Span { return e.span }

// NewFStringExpr constructs an interpolated string node.
func NewFStringExpr(parts []FStringPart, span lexer.Span) *FStringExpr {
	return &FStringExpr{Parts: parts, span: span}
}

// SetSpan updates the literal span.
func (e *FStringExpr) SetSpan(span lexer.Span) { e.span = span }

// exprNode marks FStringExpr as an expression.
func (*FStringExpr) exprNode() {}

// ArrayLit represents an array literal such as [1, 2, 3].
type ArrayLit struct {
	Elems []Expr
	span  lexer.Span
}

// Span returns the literal span.
func (e *ArrayLit) Span() lexer.Span { return e.span }

// NewArrayLit constructs an array literal node.
func NewArrayLit(elems []Expr, span lexer.Span) *ArrayLit {
	return &ArrayLit{Elems: elems, span: span}
}

// SetSpan updates the literal span.
func (e *ArrayLit) SetSpan(span lexer.Span) { e.span = span }

// exprNode marks ArrayLit as an expression.
func (*ArrayLit) exprNode() {}

// TupleLit represents a tuple literal such as (1, "a").
type TupleLit struct {
	Elems []Expr
	span  lexer.Span
}

// Span returns the literal span.
func (e *TupleLit) Span() lexer.Span { return e.span }

// NewTupleLit constructs a tuple literal node.
func NewTupleLit(elems []Expr, span lexer.Span) *TupleLit {
	return &TupleLit{Elems: elems, span: span}
}

// SetSpan updates the literal span.
func (e *TupleLit) SetSpan(span lexer.Span) { e.span = span }

// exprNode marks TupleLit as an expression.
func (*TupleLit) exprNode() {}

// FieldInit is one field initializer in a struct literal. Value may be nil
// for shorthand initialization from a same-named binding.
type FieldInit struct {
	Name  *Ident
	Value Expr
	span  lexer.Span
}

// Span returns the initializer span.
func (f *FieldInit) Span() lexer.Span { return f.span }

// NewFieldInit constructs a field initializer node.
func NewFieldInit(name *Ident, value Expr, span lexer.Span) *FieldInit {
	return &FieldInit{Name: name, Value: value, span: span}
}

// StructLit represents a struct literal such as Point { x: 1, y: 2 }.
type StructLit struct {
	Path   Expr
	Fields []*FieldInit
	span   lexer.Span
}

// Span returns the literal span.
func (e *StructLit) Span() lexer.Span { return e.span }

// NewStructLit constructs a struct literal node.
func NewStructLit(path Expr, fields []*FieldInit, span lexer.Span) *StructLit {
	return &StructLit{Path: path, Fields: fields, span: span}
}

// SetSpan updates the literal span.
func (e *StructLit) SetSpan(span lexer.Span) { e.span = span }

// exprNode marks StructLit as an expression.
func (*StructLit) exprNode() {}

// PrefixExpr represents a prefix operator application such as -x or !ok.
type PrefixExpr struct {
	Op    string
	Right Expr
	span  lexer.Span
}

// Span returns the expression span.
func (e *PrefixExpr) Span() lexer.Span { return e.span }

// NewPrefixExpr constructs a prefix expression node.
func NewPrefixExpr(op string, right Expr, span lexer.Span) *PrefixExpr {
	return &PrefixExpr{Op: op, Right: right, span: span}
}

// SetSpan updates the expression span.
func (e *PrefixExpr) SetSpan(span lexer.Span) { e.span = span }

// exprNode marks PrefixExpr as an expression.
func (*PrefixExpr) exprNode() {}

// InfixExpr represents a binary operator application such as a + b.
type InfixExpr struct {
	Left  Expr
	Op    string
	Right Expr
	span  lexer.Span
}

// Span returns the expression span.
func (e *InfixExpr) Span() lexer.Span { return e.span }

// NewInfixExpr constructs an infix expression node.
func NewInfixExpr(left Expr, op string, right Expr, span lexer.Span) *InfixExpr {
	return &InfixExpr{Left: left, Op: op, Right: right, span: span}
}

// SetSpan updates the expression span.
func (e *InfixExpr) SetSpan(span lexer.Span) { e.span = span }

// exprNode marks InfixExpr as an expression.
func (*InfixExpr) exprNode() {}

// PipelineExpr represents a |> b, desugared to a call with a prepended.
type PipelineExpr struct {
	Left  Expr
	Right Expr
	span  lexer.Span
}

// Span returns the expression span.
func (e *PipelineExpr) Span() lexer.Span { return e.span }

// NewPipelineExpr constructs a pipeline expression node.
func NewPipelineExpr(left, right Expr, span lexer.Span) *PipelineExpr {
	return &PipelineExpr{Left: left, Right: right, span: span}
}

// SetSpan updates the expression span.
func (e *PipelineExpr) SetSpan(span lexer.Span) { e.span = span }

// exprNode marks PipelineExpr as an expression.
func (*PipelineExpr) exprNode() {}

// AssignExpr represents an assignment such as x = 1.
type AssignExpr struct {
	Target Expr
	Value  Expr
	span   lexer.Span
}

// Span returns the expression span.
func (e *AssignExpr) Span() lexer.Span { return e.span }

// NewAssignExpr constructs an assignment node.
func NewAssignExpr(target, value Expr, span lexer.Span) *AssignExpr {
	return &AssignExpr{Target: target, Value: value, span: span}
}

// SetSpan updates the expression span.
func (e *AssignExpr) SetSpan(span lexer.Span) { e.span = span }

// exprNode marks AssignExpr as an expression.
func (*AssignExpr) exprNode() {}

// CompoundAssignExpr represents a compound assignment such as x += 1.
// Op holds the combined operator spelling.
type CompoundAssignExpr struct {
	Target Expr
	Op     string
	Value  Expr
	span   lexer.Span
}

// Span returns the expression span.
func (e *CompoundAssignExpr) Span() lexer.Span { return e.span }

// NewCompoundAssignExpr constructs a compound assignment node.
func NewCompoundAssignExpr(target Expr, op string, value Expr, span lexer.Span) *CompoundAssignExpr {
	return &CompoundAssignExpr{Target: target, Op: op, Value: value, span: span}
}

// SetSpan updates the expression span.
func (e *CompoundAssignExpr) SetSpan(span lexer.Span) { e.span = span }

// exprNode marks CompoundAssignExpr as an expression.
func (*CompoundAssignExpr) exprNode() {}

// IncDecExpr represents ++ or -- applied to a target, in either position.
type IncDecExpr struct {
	Op     string
	Prefix bool
	Target Expr
	span   lexer.Span
}

// Span returns the expression span.
func (e *IncDecExpr) Span() lexer.Span { return e.span }

// NewIncDecExpr constructs an increment or decrement node.
func NewIncDecExpr(op string, prefix bool, target Expr, span lexer.Span) *IncDecExpr {
	return &IncDecExpr{Op: op, Prefix: prefix, Target: target, span: span}
}

// SetSpan updates the expression span.
func (e *IncDecExpr) SetSpan(span lexer.Span) { e.span = span }

// exprNode marks IncDecExpr as an expression.
func (*IncDecExpr) exprNode() {}

// CallExpr represents a function call such as f(a, b). TypeArgs holds
// explicit generic arguments when the call was written as f<T>(a, b).
type CallExpr struct {
	Callee   Expr
	TypeArgs []TypeExpr
	Args     []Expr
	span     lexer.Span
}

// Span returns the expression span.
func (e *CallExpr) Span() lexer.Span { return e.span }

// NewCallExpr constructs a call expression node.
func NewCallExpr(callee Expr, args []Expr, span lexer.Span) *CallExpr {
	return &CallExpr{Callee: callee, Args: args, span: span}
}

// SetSpan updates the expression span.
func (e *CallExpr) SetSpan(span lexer.Span) { e.span = span }

// exprNode marks CallExpr as an expression.
func (*CallExpr) exprNode() {}

// MethodCallExpr represents a method call such as xs.len().
type MethodCallExpr struct {
	Receiver Expr
	Method   *Ident
	Args     []Expr
	span     lexer.Span
}

// Span returns the expression span.
func (e *MethodCallExpr) Span() lexer.Span { return e.span }

// NewMethodCallExpr constructs a method call node.
func NewMethodCallExpr(receiver Expr, method *Ident, args []Expr, span lexer.Span) *MethodCallExpr {
	return &MethodCallExpr{Receiver: receiver, Method: method, Args: args, span: span}
}

// SetSpan updates the expression span.
func (e *MethodCallExpr) SetSpan(span lexer.Span) { e.span = span }

// exprNode marks MethodCallExpr as an expression.
func (*MethodCallExpr) exprNode() {}

// FieldExpr represents field access such as p.x. Tuple indices appear as
// numeric field names.
type FieldExpr struct {
	Receiver Expr
	Field    *Ident
	span     lexer.Span
}

// Span returns the expression span.
func (e *FieldExpr) Span() lexer.Span { return e.span }

// NewFieldExpr constructs a field access node.
func NewFieldExpr(receiver Expr, field *Ident, span lexer.Span) *FieldExpr {
	return &FieldExpr{Receiver: receiver, Field: field, span: span}
}

// SetSpan updates the expression span.
func (e *FieldExpr) SetSpan(span lexer.Span) { e.span = span }

// exprNode marks FieldExpr as an expression.
func (*FieldExpr) exprNode() {}

// IndexExpr represents indexing such as xs[0].
type IndexExpr struct {
	Receiver Expr
	Index    Expr
	span     lexer.Span
}

// Span returns the expression span.
func (e *IndexExpr) Span() lexer.Span { return e.span }

// NewIndexExpr constructs an index expression node.
func NewIndexExpr(receiver, index Expr, span lexer.Span) *IndexExpr {
	return &IndexExpr{Receiver: receiver, Index: index, span: span}
}

// SetSpan updates the expression span.
func (e *IndexExpr) SetSpan(span lexer.Span) { e.span = span }

// exprNode marks IndexExpr as an expression.
func (*IndexExpr) exprNode() {}

// SafeFieldExpr represents safe navigation field access such as a?.b.
type SafeFieldExpr struct {
	Receiver Expr
	Field    *Ident
	span     lexer.Span
}

// Span returns the expression span.
func (e *SafeFieldExpr) Span() lexer.Span { return e.span }

// NewSafeFieldExpr constructs a safe field access node.
func NewSafeFieldExpr(receiver Expr, field *Ident, span lexer.Span) *SafeFieldExpr {
	return &SafeFieldExpr{Receiver: receiver, Field: field, span: span}
}

// SetSpan updates the expression span.
func (e *SafeFieldExpr) SetSpan(span lexer.Span) { e.span = span }

// exprNode marks SafeFieldExpr as an expression.
func (*SafeFieldExpr) exprNode() {}

// SafeMethodCallExpr represents safe navigation method call such as a?.b().
type SafeMethodCallExpr struct {
	Receiver Expr
	Method   *Ident
	Args     []Expr
	span     lexer.Span
}

// Span returns the expression span.
func (e *SafeMethodCallExpr) Span() lexer.Span { return e.span }

// NewSafeMethodCallExpr constructs a safe method call node.
func NewSafeMethodCallExpr(receiver Expr, method *Ident, args []Expr, span lexer.Span) *SafeMethodCallExpr {
	return &SafeMethodCallExpr{Receiver: receiver, Method: method, Args: args, span: span}
}

// SetSpan updates the expression span.
func (e *SafeMethodCallExpr) SetSpan(span lexer.Span) { e.span = span }

// exprNode marks SafeMethodCallExpr as an expression.
func (*SafeMethodCallExpr) exprNode() {}

// TryExpr represents the postfix ? operator.
type TryExpr struct {
	Expr Expr
	span lexer.Span
}

// Span returns the expression span.
func (e *TryExpr) Span() lexer.Span { return e.span }

// NewTryExpr constructs a try expression node.
func NewTryExpr(expr Expr, span lexer.Span) *TryExpr {
	return &TryExpr{Expr: expr, span: span}
}

// SetSpan updates the expression span.
func (e *TryExpr) SetSpan(span lexer.Span) { e.span = span }

// exprNode marks TryExpr as an expression.
func (*TryExpr) exprNode() {}

// SendExpr represents an actor message send such as worker ! (Job(1)).
type SendExpr struct {
	Actor   Expr
	Message Expr
	span    lexer.Span
}

// Span returns the expression span.
func (e *SendExpr) Span() lexer.Span { return e.span }

// NewSendExpr constructs an actor send node.
func NewSendExpr(actor, message Expr, span lexer.Span) *SendExpr {
	return &SendExpr{Actor: actor, Message: message, span: span}
}

// SetSpan updates the expression span.
func (e *SendExpr) SetSpan(span lexer.Span) { e.span = span }

// exprNode marks SendExpr as an expression.
func (*SendExpr) exprNode() {}

// RangeExpr represents a range such as 0..n or 1..=10. Start and End may be
// nil for open-ended ranges.
type RangeExpr struct {
	Start     Expr
	End       Expr
	Inclusive bool
	span      lexer.Span
}

// Span returns the expression span.
func (e *RangeExpr) Span() lexer.Span { return e.span }

// NewRangeExpr constructs a range expression node.
func NewRangeExpr(start, end Expr, inclusive bool, span lexer.Span) *RangeExpr {
	return &RangeExpr{Start: start, End: end, Inclusive: inclusive, span: span}
}

// SetSpan updates the expression span.
func (e *RangeExpr) SetSpan(span lexer.Span) { e.span = span }

// exprNode marks RangeExpr as an expression.
func (*RangeExpr) exprNode() {}

// LambdaExpr represents a lambda such as |x| x + 1. The body is either a
// block or a bare expression.
type LambdaExpr struct {
	Params []*Param
	Body   Expr
	span   lexer.Span
}

// Span returns the expression span.
func (e *LambdaExpr) Span() lexer.Span { return e.span }

// NewLambdaExpr constructs a lambda expression node.
func NewLambdaExpr(params []*Param, body Expr, span lexer.Span) *LambdaExpr {
	return &LambdaExpr{Params: params, Body: body, span: span}
}

// SetSpan updates the expression span.
func (e *LambdaExpr) SetSpan(span lexer.Span) { e.span = span }

// exprNode marks LambdaExpr as an expression.
func (*LambdaExpr) exprNode() {}

// BlockExpr represents a braced block. Tail is the trailing expression that
// gives the block its value, or nil when the block ends with a statement.
type BlockExpr struct {
	Stmts []Stmt
	Tail  Expr
	span  lexer.Span
}

// Span returns the block span.
func (e *BlockExpr) Span() lexer.Span { return e.span }

// NewBlockExpr constructs a block expression node.
func NewBlockExpr(stmts []Stmt, tail Expr, span lexer.Span) *BlockExpr {
	return &BlockExpr{Stmts: stmts, Tail: tail, span: span}
}

// SetSpan updates the block span.
func (e *BlockExpr) SetSpan(span lexer.Span) { e.span = span }

// exprNode marks BlockExpr as an expression.
func (*BlockExpr) exprNode() {}

// IfExpr represents an if expression. Else is nil, a BlockExpr, or another
// IfExpr for else-if chains.
type IfExpr struct {
	Cond Expr
	Then *BlockExpr
	Else Expr
	span lexer.Span
}

// Span returns the expression span.
func (e *IfExpr) Span() lexer.Span { return e.span }

// NewIfExpr constructs an if expression node.
func NewIfExpr(cond Expr, then *BlockExpr, els Expr, span lexer.Span) *IfExpr {
	return &IfExpr{Cond: cond, Then: then, Else: els, span: span}
}

// SetSpan updates the expression span.
func (e *IfExpr) SetSpan(span lexer.Span) { e.span = span }

// exprNode marks IfExpr as an expression.
func (*IfExpr) exprNode() {}

// MatchArm is one arm of a match expression.
type MatchArm struct {
	Pattern Pattern
	Guard   Expr
	Body    Expr
	span    lexer.Span
}

// Span returns the arm span.
func (a *MatchArm) Span() lexer.Span { return a.span }

// NewMatchArm constructs a match arm node.
func NewMatchArm(pattern Pattern, guard Expr, body Expr, span lexer.Span) *MatchArm {
	return &MatchArm{Pattern: pattern, Guard: guard, Body: body, span: span}
}

// MatchExpr represents a match expression.
type MatchExpr struct {
	Subject Expr
	Arms    []*MatchArm
	span    lexer.Span
}

// Span returns the expression span.
func (e *MatchExpr) Span() lexer.Span { return e.span }

// NewMatchExpr constructs a match expression node.
func NewMatchExpr(subject Expr, arms []*MatchArm, span lexer.Span) *MatchExpr {
	return &MatchExpr{Subject: subject, Arms: arms, span: span}
}

// SetSpan updates the expression span.
func (e *MatchExpr) SetSpan(span lexer.Span) { e.span = span }

// exprNode marks MatchExpr as an expression.
func (*MatchExpr) exprNode() {}

// ForExpr represents a for loop over an iterable.
type ForExpr struct {
	Pat  Pattern
	Iter Expr
	Body *BlockExpr
	span lexer.Span
}

// Span returns the expression span.
func (e *ForExpr) Span() lexer.Span { return e.span }

// NewForExpr constructs a for loop node.
func NewForExpr(pat Pattern, iter Expr, body *BlockExpr, span lexer.Span) *ForExpr {
	return &ForExpr{Pat: pat, Iter: iter, Body: body, span: span}
}

// SetSpan updates the expression span.
func (e *ForExpr) SetSpan(span lexer.Span) { e.span = span }

// exprNode marks ForExpr as an expression.
func (*ForExpr) exprNode() {}

// WhileExpr represents a while loop.
type WhileExpr struct {
	Cond Expr
	Body *BlockExpr
	span lexer.Span
}

// Span returns the expression span.
func (e *WhileExpr) Span() lexer.Span { return e.span }

// NewWhileExpr constructs a while loop node.
func NewWhileExpr(cond Expr, body *BlockExpr, span lexer.Span) *WhileExpr {
	return &WhileExpr{Cond: cond, Body: body, span: span}
}

// SetSpan updates the expression span.
func (e *WhileExpr) SetSpan(span lexer.Span) { e.span = span }

// exprNode marks WhileExpr as an expression.
func (*WhileExpr) exprNode() {}

// LoopExpr represents an unconditional loop.
type LoopExpr struct {
	Body *BlockExpr
	span lexer.Span
}

// Span returns the expression span.
func (e *LoopExpr) Span() lexer.Span { return e.span }

// NewLoopExpr constructs a loop node.
func NewLoopExpr(body *BlockExpr, span lexer.Span) *LoopExpr {
	return &LoopExpr{Body: body, span: span}
}

// SetSpan updates the expression span.
func (e *LoopExpr) SetSpan(span lexer.Span) { e.span = span }

// exprNode marks LoopExpr as an expression.
func (*LoopExpr) exprNode() {}

// BreakExpr represents break, optionally carrying a value.
type BreakExpr struct {
	Value Expr
	span  lexer.Span
}

// Span returns the expression span.
func (e *BreakExpr) Span() lexer.Span { return e.span }

// NewBreakExpr constructs a break node.
func NewBreakExpr(value Expr, span lexer.Span) *BreakExpr {
	return &BreakExpr{Value: value, span: span}
}

// SetSpan updates the expression span.
func (e *BreakExpr) SetSpan(span lexer.Span) { e.span = span }

// exprNode marks BreakExpr as an expression.
func (*BreakExpr) exprNode() {}

// ContinueExpr represents continue.
type ContinueExpr struct {
	span lexer.Span
}

// Span returns the expression span.
func (e *ContinueExpr) Span() lexer.Span { return e.span }

// NewContinueExpr constructs a continue node.
func NewContinueExpr(span lexer.Span) *ContinueExpr {
	return &ContinueExpr{span: span}
}

// SetSpan updates the expression span.
func (e *ContinueExpr) SetSpan(span lexer.Span) { e.span = span }

// exprNode marks ContinueExpr as an expression.
func (*ContinueExpr) exprNode() {}

// ReturnExpr represents return, optionally carrying a value.
type ReturnExpr struct {
	Value Expr
	span  lexer.Span
}

// Span returns the expression span.
func (e *ReturnExpr) Span() lexer.Span { return e.span }

// NewReturnExpr constructs a return node.
func NewReturnExpr(value Expr, span lexer.Span) *ReturnExpr {
	return &ReturnExpr{Value: value, span: span}
}

// SetSpan updates the expression span.
func (e *ReturnExpr) SetSpan(span lexer.Span) { e.span = span }

// exprNode marks ReturnExpr as an expression.
func (*ReturnExpr) exprNode() {}

// ListCompExpr represents a list comprehension such as
// [x * 2 for x in xs if x > 0]. Filter may be nil.
type ListCompExpr struct {
	Elem   Expr
	Var    *Ident
	Iter   Expr
	Filter Expr
	span   lexer.Span
}

// Span returns the expression span.
func (e *ListCompExpr) Span() lexer.Span { return e.span }

// NewListCompExpr constructs a list comprehension node.
func NewListCompExpr(elem Expr, v *Ident, iter, filter Expr, span lexer.Span) *ListCompExpr {
	return &ListCompExpr{Elem: elem, Var: v, Iter: iter, Filter: filter, span: span}
}

// SetSpan updates the expression span.
func (e *ListCompExpr) SetSpan(span lexer.Span) { e.span = span }

// exprNode marks ListCompExpr as an expression.
func (*ListCompExpr) exprNode() {}

// CastExpr represents a type cast such as x as f64.
type CastExpr struct {
	Expr Expr
	Type TypeExpr
	span lexer.Span
}

// Span returns the expression span.
func (e *CastExpr) Span() lexer.Span { return e.span }

// NewCastExpr constructs a cast expression node.
func NewCastExpr(expr Expr, typ TypeExpr, span lexer.Span) *CastExpr {
	return &CastExpr{Expr: expr, Type: typ, span: span}
}

// SetSpan updates the expression span.
func (e *CastExpr) SetSpan(span lexer.Span) { e.span = span }

// exprNode marks CastExpr as an expression.
func (*CastExpr) exprNode() {}
