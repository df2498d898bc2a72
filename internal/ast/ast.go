// Package ast defines the syntax tree produced by the parser. Nodes are
// immutable after parsing: later passes attach information in side tables
// keyed by node identity rather than mutating the tree.
package ast

import "github.com/ruchy-lang/ruchy/internal/lexer"

// Node represents any AST node with an associated source span.
type Node interface {
	Span() lexer.Span
}

// Expr represents an expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt represents a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Item represents a top-level item (function, type definition, import, or a
// loose script-mode statement).
type Item interface {
	Node
	itemNode()
}

// TypeExpr represents a type annotation expression.
type TypeExpr interface {
	Node
	typeNode()
}

// Pattern represents a match pattern.
type Pattern interface {
	Node
	patternNode()
}

// Program represents a parsed compilation unit: an ordered sequence of items.
type Program struct {
	Items []Item
	span  lexer.Span
}

// Span returns the span covering the entire program.
func (p *Program) Span() lexer.Span { return p.span }

// NewProgram constructs a program node with the provided span.
func NewProgram(items []Item, span lexer.Span) *Program {
	return &Program{Items: items, span: span}
}

// SetSpan updates the program span.
func (p *Program) SetSpan(span lexer.Span) { p.span = span }

// Attribute represents an item attribute such as #[derive(Debug)].
type Attribute struct {
	Name *Ident
	Args []string
	span lexer.Span
}

// Span returns the attribute span.
func (a *Attribute) Span() lexer.Span { return a.span }

// NewAttribute constructs an attribute node.
func NewAttribute(name *Ident, args []string, span lexer.Span) *Attribute {
	return &Attribute{Name: name, Args: args, span: span}
}

// FunItem represents a function definition. Inside trait items the body may
// be nil (a required method signature).
type FunItem struct {
	Attrs      []*Attribute
	Pub        bool
	Name       *Ident
	TypeParams []*Ident
	Receiver   *Receiver
	Params     []*Param
	ReturnType TypeExpr
	Body       *BlockExpr
	span       lexer.Span
}

// Span returns the item span.
func (d *FunItem) Span() lexer.Span { return d.span }

// NewFunItem constructs a function item node.
func NewFunItem(name *Ident, params []*Param, returnType TypeExpr, body *BlockExpr, span lexer.Span) *FunItem {
	return &FunItem{
		Name:       name,
		Params:     params,
		ReturnType: returnType,
		Body:       body,
		span:       span,
	}
}

// SetSpan updates the item span.
func (d *FunItem) SetSpan(span lexer.Span) { d.span = span }

// itemNode marks FunItem as an item.
func (*FunItem) itemNode() {}

// Receiver represents a method receiver (self, &self, &mut self).
type Receiver struct {
	Borrowed bool
	Mutable  bool
	span     lexer.Span
}

// Span returns the receiver span.
func (r *Receiver) Span() lexer.Span { return r.span }

// NewReceiver constructs a receiver node.
func NewReceiver(borrowed, mutable bool, span lexer.Span) *Receiver {
	return &Receiver{Borrowed: borrowed, Mutable: mutable, span: span}
}

// Param represents a function or lambda parameter. Type may be nil for
// untyped parameters; the ownership pass infers a hint for those.
type Param struct {
	Name    *Ident
	Type    TypeExpr
	Default Expr
	span    lexer.Span
}

// Span returns the parameter span.
func (p *Param) Span() lexer.Span { return p.span }

// NewParam constructs a parameter node.
func NewParam(name *Ident, typ TypeExpr, span lexer.Span) *Param {
	return &Param{Name: name, Type: typ, span: span}
}

// StructItem represents a struct definition.
type StructItem struct {
	Attrs      []*Attribute
	Pub        bool
	Name       *Ident
	TypeParams []*Ident
	Fields     []*FieldDef
	span       lexer.Span
}

// Span returns the item span.
func (d *StructItem) Span() lexer.Span { return d.span }

// NewStructItem constructs a struct item node.
func NewStructItem(name *Ident, fields []*FieldDef, span lexer.Span) *StructItem {
	return &StructItem{Name: name, Fields: fields, span: span}
}

// itemNode marks StructItem as an item.
func (*StructItem) itemNode() {}

// FieldDef represents a struct field definition.
type FieldDef struct {
	Pub  bool
	Name *Ident
	Type TypeExpr
	span lexer.Span
}

// Span returns the field span.
func (f *FieldDef) Span() lexer.Span { return f.span }

// NewFieldDef constructs a field definition node.
func NewFieldDef(name *Ident, typ TypeExpr, span lexer.Span) *FieldDef {
	return &FieldDef{Name: name, Type: typ, span: span}
}

// EnumItem represents an enum definition.
type EnumItem struct {
	Attrs      []*Attribute
	Pub        bool
	Name       *Ident
	TypeParams []*Ident
	Variants   []*VariantDef
	span       lexer.Span
}

// Span returns the item span.
func (d *EnumItem) Span() lexer.Span { return d.span }

// NewEnumItem constructs an enum item node.
func NewEnumItem(name *Ident, variants []*VariantDef, span lexer.Span) *EnumItem {
	return &EnumItem{Name: name, Variants: variants, span: span}
}

// itemNode marks EnumItem as an item.
func (*EnumItem) itemNode() {}

// VariantDef represents one enum variant, unit or tuple style.
type VariantDef struct {
	Name   *Ident
	Fields []TypeExpr
	span   lexer.Span
}

// Span returns the variant span.
func (v *VariantDef) Span() lexer.Span { return v.span }

// NewVariantDef constructs a variant definition node.
func NewVariantDef(name *Ident, fields []TypeExpr, span lexer.Span) *VariantDef {
	return &VariantDef{Name: name, Fields: fields, span: span}
}

// TraitItem represents a trait definition.
type TraitItem struct {
	Attrs   []*Attribute
	Pub     bool
	Name    *Ident
	Methods []*FunItem
	span    lexer.Span
}

// Span returns the item span.
func (d *TraitItem) Span() lexer.Span { return d.span }

// NewTraitItem constructs a trait item node.
func NewTraitItem(name *Ident, methods []*FunItem, span lexer.Span) *TraitItem {
	return &TraitItem{Name: name, Methods: methods, span: span}
}

// itemNode marks TraitItem as an item.
func (*TraitItem) itemNode() {}

// ImplItem represents an impl block, inherent (Trait == nil) or trait.
type ImplItem struct {
	Trait   TypeExpr
	For     TypeExpr
	Methods []*FunItem
	span    lexer.Span
}

// Span returns the item span.
func (d *ImplItem) Span() lexer.Span { return d.span }

// NewImplItem constructs an impl item node.
func NewImplItem(trait, forType TypeExpr, methods []*FunItem, span lexer.Span) *ImplItem {
	return &ImplItem{Trait: trait, For: forType, Methods: methods, span: span}
}

// itemNode marks ImplItem as an item.
func (*ImplItem) itemNode() {}

// UseItem represents a use/import item.
type UseItem struct {
	Path  []*Ident
	Alias *Ident
	span  lexer.Span
}

// Span returns the item span.
func (d *UseItem) Span() lexer.Span { return d.span }

// NewUseItem constructs a use item node.
func NewUseItem(path []*Ident, alias *Ident, span lexer.Span) *UseItem {
	return &UseItem{Path: path, Alias: alias, span: span}
}

// itemNode marks UseItem as an item.
func (*UseItem) itemNode() {}

// ActorItem represents an actor definition. Only its send operation is
// lowered; the definition itself is recorded for diagnostics.
type ActorItem struct {
	Name   *Ident
	Fields []*FieldDef
	span   lexer.Span
}

// Span returns the item span.
func (d *ActorItem) Span() lexer.Span { return d.span }

// NewActorItem constructs an actor item node.
func NewActorItem(name *Ident, fields []*FieldDef, span lexer.Span) *ActorItem {
	return &ActorItem{Name: name, Fields: fields, span: span}
}

// itemNode marks ActorItem as an item.
func (*ActorItem) itemNode() {}

// StmtItem wraps a loose script-mode statement appearing at top level.
type StmtItem struct {
	Stmt Stmt
	span lexer.Span
}

// Span returns the item span.
func (d *StmtItem) Span() lexer.Span { return d.span }

// NewStmtItem wraps a statement as a top-level item.
func NewStmtItem(stmt Stmt) *StmtItem {
	return &StmtItem{Stmt: stmt, span: stmt.Span()}
}

// itemNode marks StmtItem as an item.
func (*StmtItem) itemNode() {}
