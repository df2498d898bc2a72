package ast

import "github.com/ruchy-lang/ruchy/internal/lexer"

// NamedType represents a named type, optionally with generic arguments
// (Int, String, DynArray<Int>, Result<T, E>).
type NamedType struct {
	Segments []*Ident
	Args     []TypeExpr
	span     lexer.Span
}

// Span returns the named type span.
func (t *NamedType) Span() lexer.Span { return t.span }

// SetSpan updates the named type span.
func (t *NamedType) SetSpan(span lexer.Span) {
	t.span = span
}

// Name joins the path segments with "::".
func (t *NamedType) Name() string {
	out := ""
	for i, seg := range t.Segments {
		if i > 0 {
			out += "::"
		}
		out += seg.Name
	}
	return out
}

// typeNode marks NamedType as a type expression.
func (*NamedType) typeNode() {}

// NewNamedType constructs a named type node.
func NewNamedType(segments []*Ident, args []TypeExpr, span lexer.Span) *NamedType {
	return &NamedType{
		Segments: segments,
		Args:     args,
		span:     span,
	}
}

// ListType represents a bracketed list type [T].
type ListType struct {
	Elem TypeExpr
	span lexer.Span
}

// Span returns the list type span.
func (t *ListType) Span() lexer.Span { return t.span }

// SetSpan updates the list type span.
func (t *ListType) SetSpan(span lexer.Span) {
	t.span = span
}

// typeNode marks ListType as a type expression.
func (*ListType) typeNode() {}

// NewListType constructs a list type node.
func NewListType(elem TypeExpr, span lexer.Span) *ListType {
	return &ListType{
		Elem: elem,
		span: span,
	}
}

// TupleType represents a tuple type (A, B).
type TupleType struct {
	Elems []TypeExpr
	span  lexer.Span
}

// Span returns the tuple type span.
func (t *TupleType) Span() lexer.Span { return t.span }

// SetSpan updates the tuple type span.
func (t *TupleType) SetSpan(span lexer.Span) {
	t.span = span
}

// typeNode marks TupleType as a type expression.
func (*TupleType) typeNode() {}

// NewTupleType constructs a tuple type node.
func NewTupleType(elems []TypeExpr, span lexer.Span) *TupleType {
	return &TupleType{
		Elems: elems,
		span:  span,
	}
}

// RefType represents a reference type &T or &mut T.
type RefType struct {
	Mutable bool
	Elem    TypeExpr
	span    lexer.Span
}

// Span returns the reference type span.
func (t *RefType) Span() lexer.Span { return t.span }

// SetSpan updates the reference type span.
func (t *RefType) SetSpan(span lexer.Span) {
	t.span = span
}

// typeNode marks RefType as a type expression.
func (*RefType) typeNode() {}

// NewRefType constructs a reference type node.
func NewRefType(mutable bool, elem TypeExpr, span lexer.Span) *RefType {
	return &RefType{
		Mutable: mutable,
		Elem:    elem,
		span:    span,
	}
}

// FunType represents a function type fn(A, B) -> C.
type FunType struct {
	Params []TypeExpr
	Return TypeExpr
	span   lexer.Span
}

// Span returns the function type span.
func (t *FunType) Span() lexer.Span { return t.span }

// SetSpan updates the function type span.
func (t *FunType) SetSpan(span lexer.Span) {
	t.span = span
}

// typeNode marks FunType as a type expression.
func (*FunType) typeNode() {}

// NewFunType constructs a function type node.
func NewFunType(params []TypeExpr, ret TypeExpr, span lexer.Span) *FunType {
	return &FunType{
		Params: params,
		Return: ret,
		span:   span,
	}
}

// UnitType represents the unit type ().
type UnitType struct {
	span lexer.Span
}

// Span returns the unit type span.
func (t *UnitType) Span() lexer.Span { return t.span }

// SetSpan updates the unit type span.
func (t *UnitType) SetSpan(span lexer.Span) {
	t.span = span
}

// typeNode marks UnitType as a type expression.
func (*UnitType) typeNode() {}

// NewUnitType constructs a unit type node.
func NewUnitType(span lexer.Span) *UnitType {
	return &UnitType{span: span}
}

// InferType represents the inference placeholder type _.
type InferType struct {
	span lexer.Span
}

// Span returns the placeholder span.
func (t *InferType) Span() lexer.Span { return t.span }

// SetSpan updates the placeholder span.
func (t *InferType) SetSpan(span lexer.Span) {
	t.span = span
}

// typeNode marks InferType as a type expression.
func (*InferType) typeNode() {}

// NewInferType constructs an inference placeholder node.
func NewInferType(span lexer.Span) *InferType {
	return &InferType{span: span}
}
