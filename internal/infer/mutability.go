package infer

import "github.com/ruchy-lang/ruchy/internal/ast"

// mutatingMethods are receiver methods that require a mutable binding.
var mutatingMethods = map[string]bool{
	"push": true, "pop": true, "insert": true, "remove": true,
	"clear": true, "extend": true, "append": true, "truncate": true,
	"sort": true, "sort_by": true, "reverse": true, "dedup": true,
	"retain": true, "push_str": true,
}

// inferMutability classifies every binding written in the unit. Whole-binding
// reassignment that reads the old value makes an accumulator; any other
// write, including stores through fields or indexes and mutating method
// calls, makes the binding mutated.
func inferMutability(u *unit, info *Result) {
	ast.Walk(u.body, func(n ast.Node) bool {
		switch e := n.(type) {
		case *ast.AssignExpr:
			if id, ok := e.Target.(*ast.Ident); ok {
				site := info.Uses[id]
				if site == nil {
					return true
				}
				if referencesBinding(e.Value, site, info) {
					upgrade(info, site, MutAccumulator)
				} else {
					upgrade(info, site, MutMutated)
				}
				return true
			}
			upgrade(info, rootBinding(e.Target, info), MutMutated)
		case *ast.CompoundAssignExpr:
			if id, ok := e.Target.(*ast.Ident); ok {
				upgrade(info, info.Uses[id], MutAccumulator)
				return true
			}
			upgrade(info, rootBinding(e.Target, info), MutMutated)
		case *ast.IncDecExpr:
			if id, ok := e.Target.(*ast.Ident); ok {
				upgrade(info, info.Uses[id], MutAccumulator)
				return true
			}
			upgrade(info, rootBinding(e.Target, info), MutMutated)
		case *ast.MethodCallExpr:
			if mutatingMethods[e.Method.Name] {
				upgrade(info, rootBinding(e.Receiver, info), MutMutated)
			}
		case *ast.PrefixExpr:
			if e.Op == "&mut" {
				upgrade(info, rootBinding(e.Right, info), MutMutated)
			}
		}
		return true
	})
}

// upgrade raises a binding's class; accumulator wins over mutated.
func upgrade(info *Result, site ast.Node, m Mutability) {
	if site == nil {
		return
	}
	if info.Mutability[site] < m {
		info.Mutability[site] = m
	}
}

// rootBinding drills through field and index accesses to the binding at the
// base of an lvalue, or nil when the base is not a local.
func rootBinding(e ast.Expr, info *Result) ast.Node {
	for {
		switch t := e.(type) {
		case *ast.Ident:
			return info.Uses[t]
		case *ast.FieldExpr:
			e = t.Receiver
		case *ast.IndexExpr:
			e = t.Receiver
		default:
			return nil
		}
	}
}

// referencesBinding reports whether the expression reads the given binding.
func referencesBinding(e ast.Expr, site ast.Node, info *Result) bool {
	found := false
	ast.Walk(e, func(n ast.Node) bool {
		if found {
			return false
		}
		if id, ok := n.(*ast.Ident); ok && info.Uses[id] == site {
			found = true
			return false
		}
		return true
	})
	return found
}
