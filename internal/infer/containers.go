package infer

import (
	"strings"

	"github.com/ruchy-lang/ruchy/internal/ast"
)

// containerMutators grow or shrink their receiver, which array literal
// slices cannot do.
var containerMutators = map[string]bool{
	"push": true, "pop": true, "insert": true, "remove": true,
	"clear": true, "extend": true, "append": true, "truncate": true,
	"sort": true, "sort_by": true, "reverse": true, "dedup": true,
	"retain": true,
}

// inferContainers marks array literals that must be emitted as growable
// vectors instead of fixed slices: initializers of growable bindings,
// by-value arguments to growable parameters, and growable returns. Each
// exit of a branching initializer is marked so the arms agree.
func inferContainers(u *unit, info *Result) {
	growable := make(map[ast.Node]bool)
	if u.fun != nil {
		for _, par := range u.fun.Params {
			if paramIsGrowable(par, info) {
				growable[par] = true
			}
		}
	}
	ast.Walk(u.body, func(n ast.Node) bool {
		switch e := n.(type) {
		case *ast.LetStmt:
			if e.Type != nil && typeIsGrowable(e.Type) {
				growable[e] = true
			}
		case *ast.MethodCallExpr:
			if !containerMutators[e.Method.Name] {
				break
			}
			id, ok := e.Receiver.(*ast.Ident)
			if !ok {
				break
			}
			if b, ok := info.Uses[id].(*ast.LetStmt); ok && b.Type == nil {
				if _, lit := b.Value.(*ast.ArrayLit); lit {
					growable[b] = true
				}
			}
		}
		return true
	})

	ast.Walk(u.body, func(n ast.Node) bool {
		switch e := n.(type) {
		case *ast.LetStmt:
			if growable[e] {
				markVec(e.Value, info)
			}
		case *ast.AssignExpr:
			if id, ok := e.Target.(*ast.Ident); ok && growable[info.Uses[id]] {
				markVec(e.Value, info)
			}
		case *ast.CallExpr:
			callee := calleeFun(e, info)
			if callee == nil {
				break
			}
			for i, arg := range e.Args {
				if i >= len(callee.Params) {
					break
				}
				par := callee.Params[i]
				// Borrowed growable parameters take a slice, which an
				// array literal already is.
				if paramIsGrowable(par, info) && info.Passing[par] == PassByValue {
					markVec(arg, info)
				}
			}
		}
		return true
	})

	if u.fun == nil {
		return
	}
	wantVec := false
	if u.fun.ReturnType != nil {
		wantVec = typeIsGrowable(u.fun.ReturnType)
	} else if s := info.ReturnShapes[u.fun]; s.Kind == ShapeNamed {
		wantVec = strings.HasPrefix(s.Name, "Vec<")
	}
	if wantVec {
		for _, res := range resultExprs(u.body) {
			markVec(res, info)
		}
	}
}

func paramIsGrowable(p *ast.Param, info *Result) bool {
	if p.Type != nil {
		return typeIsGrowable(p.Type)
	}
	return strings.HasPrefix(info.HintFor(p), "Vec<")
}

func markVec(e ast.Expr, info *Result) {
	switch v := e.(type) {
	case nil:
		return
	case *ast.ArrayLit:
		info.Coercion[v] = CoerceToVec
	case *ast.IfExpr:
		if v.Then.Tail != nil {
			markVec(v.Then.Tail, info)
		}
		markVec(v.Else, info)
	case *ast.BlockExpr:
		if v.Tail != nil {
			markVec(v.Tail, info)
		}
	case *ast.MatchExpr:
		for _, arm := range v.Arms {
			markVec(arm.Body, info)
		}
	}
}
