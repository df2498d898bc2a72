// Package infer runs the local analyses that make generated code pass the
// borrow checker without a real type system: mutability classes, untyped
// parameter hints, ownership repair at call sites, return-shape inference,
// string ownership propagation, and container coercion. Every analysis is
// syntax-directed and scoped to one function body (or the script-mode
// statement sequence) at a time.
//
// The tree is never mutated. Results live in side tables keyed by node
// identity, the same shape go/types.Info uses, and are discarded after
// generation.
package infer

import (
	"github.com/ruchy-lang/ruchy/internal/ast"
	"github.com/ruchy-lang/ruchy/internal/config"
	"github.com/ruchy-lang/ruchy/internal/diag"
	"github.com/ruchy-lang/ruchy/internal/lexer"
)

// Mutability classifies how a binding is written after its introduction.
type Mutability int

const (
	// MutImmutable bindings are never reassigned.
	MutImmutable Mutability = iota

	// MutMutated bindings are written at least once (assignment, index or
	// field store, mutating method, &mut borrow).
	MutMutated

	// MutAccumulator bindings are reassigned to a value derived from
	// themselves (s = s + x, s += x, i++). They must own their value from
	// the first assignment.
	MutAccumulator
)

func (m Mutability) String() string {
	switch m {
	case MutMutated:
		return "mutated"
	case MutAccumulator:
		return "accumulator"
	default:
		return "immutable"
	}
}

// TextOwnership marks a string expression that must be converted to owned
// text at its site.
type TextOwnership int

const (
	TextBorrowed TextOwnership = iota
	TextOwned
)

// Coercion marks an array literal that must be converted to a growable
// container at its binding or call site.
type Coercion int

const (
	CoerceNone Coercion = iota
	CoerceToVec
)

// Passing is the emitted passing mode for a parameter of a same-unit
// function.
type Passing int

const (
	// PassByValue moves (or copies) the argument.
	PassByValue Passing = iota

	// PassBorrow reclassifies the parameter as a shared reference; every
	// call site takes the argument by &.
	PassBorrow
)

// ShapeKind is the coarse classification of an expression result used to
// write signatures for functions declared without a return type.
type ShapeKind int

const (
	ShapeUnknown ShapeKind = iota
	ShapeUnit

	// ShapeNever marks exits that diverge (return, break, panic) and
	// joins as the identity, so early-return bodies still classify.
	ShapeNever

	ShapeInt
	ShapeFloat
	ShapeBool
	ShapeChar

	// ShapeString is the syntactic class; the string pass refines it to
	// owned or borrowed.
	ShapeString
	ShapeStringOwned
	ShapeStringBorrowed

	// ShapeNamed covers struct literals, enum constructions, and uniform
	// scalar arrays; Name holds the emitted type text.
	ShapeNamed
)

// Shape is a classified result shape. Name is set for ShapeNamed only.
type Shape struct {
	Kind ShapeKind
	Name string
}

func (s Shape) String() string {
	switch s.Kind {
	case ShapeUnit:
		return "unit"
	case ShapeNever:
		return "never"
	case ShapeInt:
		return "int"
	case ShapeFloat:
		return "float"
	case ShapeBool:
		return "bool"
	case ShapeChar:
		return "char"
	case ShapeString:
		return "string"
	case ShapeStringOwned:
		return "string-owned"
	case ShapeStringBorrowed:
		return "string-borrowed"
	case ShapeNamed:
		return s.Name
	default:
		return "unknown"
	}
}

// Result carries every side table the generator consults. Maps are keyed by
// node pointer identity; absent keys mean the zero classification.
type Result struct {
	// Mutability is keyed by binding sites: *ast.LetStmt, *ast.Param,
	// *ast.PatternIdent, *ast.Receiver.
	Mutability map[ast.Node]Mutability

	// Ownership is keyed by string-valued expressions that need an owned
	// conversion appended at emission.
	Ownership map[ast.Node]TextOwnership

	// OwnedBindings is keyed by binding sites whose emitted type is owned
	// text, so identifier uses of them need no further conversion.
	OwnedBindings map[ast.Node]bool

	// Coercion is keyed by array literals that must become growable
	// containers.
	Coercion map[ast.Node]Coercion

	// Passing records reclassified parameters of same-unit functions.
	Passing map[*ast.Param]Passing

	// ArgClones is keyed by call argument expressions that must be
	// duplicated to satisfy the borrow checker.
	ArgClones map[ast.Node]bool

	// TypeHints maps every untyped parameter to an emitted type text.
	TypeHints map[*ast.Param]string

	// ReturnShapes maps functions declared without a return type to their
	// inferred result shape.
	ReturnShapes map[*ast.FunItem]Shape

	// ScriptShape classifies the final loose expression of a script-mode
	// program, which the main wrapper prints when it is not unit.
	ScriptShape Shape

	// Uses resolves identifier expressions to their binding sites.
	Uses map[*ast.Ident]ast.Node

	// Functions, Structs, and Enums index the unit's top-level items by
	// name.
	Functions map[string]*ast.FunItem
	Structs   map[string]*ast.StructItem
	Enums     map[string]*ast.EnumItem

	// Warnings are the non-fatal diagnostics the heuristics produced.
	Warnings []diag.Diagnostic
}

// MutabilityOf returns the classification for a binding site.
func (r *Result) MutabilityOf(n ast.Node) Mutability { return r.Mutability[n] }

// OwnedText reports whether an expression was marked for owned conversion.
func (r *Result) OwnedText(n ast.Node) bool { return r.Ownership[n] == TextOwned }

// NeedsToVec reports whether an array literal must become a growable
// container.
func (r *Result) NeedsToVec(n ast.Node) bool { return r.Coercion[n] == CoerceToVec }

// PassingOf returns the passing mode for a parameter.
func (r *Result) PassingOf(p *ast.Param) Passing { return r.Passing[p] }

// HintFor returns the emitted type text for an untyped parameter.
func (r *Result) HintFor(p *ast.Param) string {
	if h, ok := r.TypeHints[p]; ok {
		return h
	}
	return defaultHint
}

// ShapeOf returns the inferred shape for a function without a declared
// return type.
func (r *Result) ShapeOf(f *ast.FunItem) Shape { return r.ReturnShapes[f] }

// BindingOf resolves an identifier use to its binding site, or nil.
func (r *Result) BindingOf(id *ast.Ident) ast.Node { return r.Uses[id] }

// unit is one inference scope: a function with a body, or the script-mode
// statement sequence collected into a synthetic block.
type unit struct {
	fun  *ast.FunItem
	body *ast.BlockExpr
}

// Run executes every analysis over the program under the given policy.
// A nil policy means config.Default(). The program is never mutated.
func Run(prog *ast.Program, policy *config.Policy) *Result {
	if policy == nil {
		policy = config.Default()
	}
	info := &Result{
		Mutability:    make(map[ast.Node]Mutability),
		Ownership:     make(map[ast.Node]TextOwnership),
		OwnedBindings: make(map[ast.Node]bool),
		Coercion:      make(map[ast.Node]Coercion),
		Passing:       make(map[*ast.Param]Passing),
		ArgClones:     make(map[ast.Node]bool),
		TypeHints:     make(map[*ast.Param]string),
		ReturnShapes:  make(map[*ast.FunItem]Shape),
		Uses:          make(map[*ast.Ident]ast.Node),
		Functions:     make(map[string]*ast.FunItem),
		Structs:       make(map[string]*ast.StructItem),
		Enums:         make(map[string]*ast.EnumItem),
	}

	units := collectUnits(prog, info)
	resolveProgram(prog, units, info)

	for _, u := range units {
		inferMutability(u, info)
	}
	for _, u := range units {
		inferParamHints(u, info, policy)
	}
	inferShapes(units, info)
	inferOwnership(units, info, policy)
	for _, u := range units {
		inferStrings(u, info, policy)
	}
	for _, u := range units {
		inferContainers(u, info)
	}
	return info
}

// calleeFun resolves a call to a top-level function defined in the same
// compilation unit, or nil for builtins, methods, and locals.
func calleeFun(call *ast.CallExpr, info *Result) *ast.FunItem {
	id, ok := call.Callee.(*ast.Ident)
	if !ok {
		return nil
	}
	f, _ := info.Uses[id].(*ast.FunItem)
	return f
}

// collectUnits gathers every function body and the script-mode statements,
// and indexes the top-level items by name.
func collectUnits(prog *ast.Program, info *Result) []*unit {
	var units []*unit
	var loose []ast.Stmt
	var looseSpan lexer.Span

	addFun := func(f *ast.FunItem) {
		if f.Body != nil {
			units = append(units, &unit{fun: f, body: f.Body})
		}
	}

	for _, item := range prog.Items {
		switch it := item.(type) {
		case *ast.FunItem:
			info.Functions[it.Name.Name] = it
			addFun(it)
		case *ast.StructItem:
			info.Structs[it.Name.Name] = it
		case *ast.EnumItem:
			info.Enums[it.Name.Name] = it
		case *ast.ImplItem:
			for _, m := range it.Methods {
				addFun(m)
			}
		case *ast.TraitItem:
			for _, m := range it.Methods {
				addFun(m)
			}
		case *ast.StmtItem:
			loose = append(loose, it.Stmt)
			if len(loose) == 1 {
				looseSpan = it.Span()
			}
		}
	}

	if len(loose) > 0 {
		units = append(units, &unit{body: ast.NewBlockExpr(loose, nil, looseSpan)})
	}
	return units
}
