package infer

import (
	"strings"

	"github.com/ruchy-lang/ruchy/internal/ast"
)

// scalarShapeForName buckets a source-level type name, or returns
// ShapeUnknown when the name is not a scalar.
func scalarShapeForName(name string) ShapeKind {
	switch name {
	case "Int", "int", "i8", "i16", "i32", "i64", "i128",
		"u8", "u16", "u32", "u64", "u128", "isize", "usize":
		return ShapeInt
	case "Float", "float", "f32", "f64":
		return ShapeFloat
	case "Bool", "bool":
		return ShapeBool
	case "Char", "char":
		return ShapeChar
	case "String", "string", "Text":
		return ShapeStringOwned
	case "str", "Str":
		return ShapeStringBorrowed
	}
	return ShapeUnknown
}

// growableTypeName reports whether a named type is emitted as Vec.
func growableTypeName(name string) bool {
	switch name {
	case "DynArray", "Vec", "List":
		return true
	}
	return false
}

// optionTypeName reports whether a named type is emitted as Option.
func optionTypeName(name string) bool {
	return name == "Optional" || name == "Option"
}

// typeShape classifies a declared type annotation.
func typeShape(t ast.TypeExpr) Shape {
	switch tt := t.(type) {
	case *ast.NamedType:
		if k := scalarShapeForName(tt.Name()); k != ShapeUnknown {
			return Shape{Kind: k}
		}
		return Shape{Kind: ShapeNamed, Name: RustType(t)}
	case *ast.ListType, *ast.TupleType:
		return Shape{Kind: ShapeNamed, Name: RustType(t)}
	case *ast.RefType:
		if inner, ok := tt.Elem.(*ast.NamedType); ok &&
			scalarShapeForName(inner.Name()) == ShapeStringBorrowed {
			return Shape{Kind: ShapeStringBorrowed}
		}
		return Shape{Kind: ShapeNamed, Name: RustType(t)}
	case *ast.UnitType:
		return Shape{Kind: ShapeUnit}
	}
	return Shape{Kind: ShapeUnknown}
}

// RustType renders the emitted type text for a source-level annotation.
// Unrecognized names pass through unchanged so user structs and enums keep
// their spelling. The generator shares this mapping for parameter, field,
// and return annotations.
func RustType(t ast.TypeExpr) string {
	switch tt := t.(type) {
	case *ast.NamedType:
		name := tt.Name()
		if name == "Any" {
			return "_"
		}
		switch scalarShapeForName(name) {
		case ShapeInt:
			if name == "Int" || name == "int" {
				return "i64"
			}
			return name
		case ShapeFloat:
			if name == "Float" || name == "float" {
				return "f64"
			}
			return name
		case ShapeBool:
			return "bool"
		case ShapeChar:
			return "char"
		case ShapeStringOwned:
			return "String"
		case ShapeStringBorrowed:
			return "&str"
		}
		switch {
		case growableTypeName(name):
			if len(tt.Args) == 1 {
				return "Vec<" + RustType(tt.Args[0]) + ">"
			}
			return "Vec<i64>"
		case optionTypeName(name):
			if len(tt.Args) == 1 {
				return "Option<" + RustType(tt.Args[0]) + ">"
			}
			return "Option<i64>"
		}
		if len(tt.Args) > 0 {
			parts := make([]string, len(tt.Args))
			for i, a := range tt.Args {
				parts[i] = RustType(a)
			}
			return name + "<" + strings.Join(parts, ", ") + ">"
		}
		return name
	case *ast.ListType:
		return "Vec<" + RustType(tt.Elem) + ">"
	case *ast.TupleType:
		parts := make([]string, len(tt.Elems))
		for i, el := range tt.Elems {
			parts[i] = RustType(el)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case *ast.RefType:
		if inner, ok := tt.Elem.(*ast.NamedType); ok &&
			scalarShapeForName(inner.Name()) == ShapeStringBorrowed {
			return "&str"
		}
		if tt.Mutable {
			return "&mut " + RustType(tt.Elem)
		}
		return "&" + RustType(tt.Elem)
	case *ast.UnitType:
		return "()"
	case *ast.InferType:
		return "_"
	}
	return ""
}

// typeIsOwnedString reports whether a declared type is emitted as String.
func typeIsOwnedString(t ast.TypeExpr) bool {
	nt, ok := t.(*ast.NamedType)
	return ok && scalarShapeForName(nt.Name()) == ShapeStringOwned
}

// typeIsGrowable reports whether a declared type is emitted as Vec.
func typeIsGrowable(t ast.TypeExpr) bool {
	switch tt := t.(type) {
	case *ast.NamedType:
		return growableTypeName(tt.Name())
	case *ast.ListType:
		return true
	}
	return false
}

// stringResultMethods produce owned text regardless of receiver.
var stringResultMethods = map[string]bool{
	"to_s": true, "to_string": true,
	"to_upper": true, "upper": true, "to_uppercase": true,
	"to_lower": true, "lower": true, "to_lowercase": true,
	"trim": true, "repeat": true, "replace": true, "join": true,
}

// syntacticallyString reports whether an expression is string-valued by
// local syntax alone: literals, interpolations, concatenations, known
// string-producing methods, and identifiers bound to any of those.
func syntacticallyString(e ast.Expr, info *Result) bool {
	switch v := e.(type) {
	case *ast.StringLit, *ast.FStringExpr:
		return true
	case *ast.InfixExpr:
		return v.Op == "+" &&
			(syntacticallyString(v.Left, info) || syntacticallyString(v.Right, info))
	case *ast.MethodCallExpr:
		return stringResultMethods[v.Method.Name]
	case *ast.IfExpr:
		if v.Else == nil {
			return false
		}
		return blockTailString(v.Then, info) || syntacticallyString(v.Else, info)
	case *ast.BlockExpr:
		return blockTailString(v, info)
	case *ast.MatchExpr:
		for _, arm := range v.Arms {
			if syntacticallyString(arm.Body, info) {
				return true
			}
		}
	case *ast.Ident:
		switch b := info.Uses[v].(type) {
		case *ast.LetStmt:
			if b.Type != nil {
				k := typeShape(b.Type).Kind
				return k == ShapeStringOwned || k == ShapeStringBorrowed
			}
			if b.Value != nil {
				return syntacticallyString(b.Value, info)
			}
		case *ast.Param:
			if b.Type != nil {
				k := typeShape(b.Type).Kind
				return k == ShapeStringOwned || k == ShapeStringBorrowed
			}
			return info.TypeHints[b] == "String"
		}
	}
	return false
}

func blockTailString(b *ast.BlockExpr, info *Result) bool {
	return b.Tail != nil && syntacticallyString(b.Tail, info)
}

// StringOperand reports whether an expression is string-valued by local
// syntax, for operator emission decisions.
func (r *Result) StringOperand(e ast.Expr) bool { return syntacticallyString(e, r) }

// FloatOperand reports whether an expression is float-valued by local
// syntax, for operator emission decisions.
func (r *Result) FloatOperand(e ast.Expr) bool { return syntacticallyFloat(e, r) }

// syntacticallyFloat reports whether an expression is float-valued by local
// syntax alone.
func syntacticallyFloat(e ast.Expr, info *Result) bool {
	switch v := e.(type) {
	case *ast.FloatLit:
		return true
	case *ast.IntegerLit:
		return strings.HasPrefix(v.Suffix, "f")
	case *ast.CastExpr:
		return typeShape(v.Type).Kind == ShapeFloat
	case *ast.PrefixExpr:
		return v.Op == "-" && syntacticallyFloat(v.Right, info)
	case *ast.InfixExpr:
		switch v.Op {
		case "+", "-", "*", "/", "%", "**":
			return syntacticallyFloat(v.Left, info) || syntacticallyFloat(v.Right, info)
		}
	case *ast.Ident:
		switch b := info.Uses[v].(type) {
		case *ast.LetStmt:
			if b.Type != nil {
				return typeShape(b.Type).Kind == ShapeFloat
			}
			if b.Value != nil {
				return syntacticallyFloat(b.Value, info)
			}
		case *ast.Param:
			if b.Type != nil {
				return typeShape(b.Type).Kind == ShapeFloat
			}
		}
	}
	return false
}
