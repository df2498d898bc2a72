package infer

import (
	"fmt"
	"strings"

	"github.com/ruchy-lang/ruchy/internal/ast"
	"github.com/ruchy-lang/ruchy/internal/config"
	"github.com/ruchy-lang/ruchy/internal/diag"
)

// fmtBuiltins take their arguments by reference in the emitted macros, so
// passing a value to them is not a move.
var fmtBuiltins = map[string]bool{
	"println": true, "print": true, "eprintln": true, "eprint": true,
	"panic": true, "assert": true, "assert_eq": true,
}

// inferOwnership decides parameter passing modes for same-unit calls and
// repairs moves that would not survive the borrow checker: an argument
// passed inside a loop, or one whose binding is used again after the call.
// Under the borrow-local policy eligible callee parameters are reclassified
// to shared borrows; everything else falls back to a duplication.
func inferOwnership(units []*unit, info *Result, policy *config.Policy) {
	g := buildCallGraph(units, info)
	recursive := g.recursiveFunctions()

	borrowable := make(map[*ast.Param]bool)
	if policy.Ownership.Mode == config.OwnershipBorrowLocal {
		borrowable = borrowCandidates(units, info, policy, recursive)
	}

	for _, u := range units {
		repairCalls(u, info, policy, borrowable, recursive)
	}
	cascadeBorrows(units, info, borrowable)
}

// callGraph records which top-level functions each function calls.
type callGraph struct {
	callees map[*ast.FunItem]map[*ast.FunItem]bool
}

func buildCallGraph(units []*unit, info *Result) *callGraph {
	g := &callGraph{callees: make(map[*ast.FunItem]map[*ast.FunItem]bool)}
	for _, u := range units {
		if u.fun == nil {
			continue
		}
		set := make(map[*ast.FunItem]bool)
		ast.Walk(u.body, func(n ast.Node) bool {
			if call, ok := n.(*ast.CallExpr); ok {
				if callee := calleeFun(call, info); callee != nil {
					set[callee] = true
				}
			}
			return true
		})
		g.callees[u.fun] = set
	}
	return g
}

// recursiveFunctions returns every function that can reach itself through
// the call graph, including mutual recursion.
func (g *callGraph) recursiveFunctions() map[*ast.FunItem]bool {
	out := make(map[*ast.FunItem]bool)
	for f := range g.callees {
		if g.reaches(f, f, make(map[*ast.FunItem]bool)) {
			out[f] = true
		}
	}
	return out
}

func (g *callGraph) reaches(from, target *ast.FunItem, seen map[*ast.FunItem]bool) bool {
	for callee := range g.callees[from] {
		if callee == target {
			return true
		}
		if seen[callee] {
			continue
		}
		seen[callee] = true
		if g.reaches(callee, target, seen) {
			return true
		}
	}
	return false
}

// borrowCandidates finds parameters eligible for borrow reclassification:
// the callee is non-recursive and within the policy size cap, and the
// parameter is never written and never escapes its body. Forwarding a
// parameter to another candidate position does not count as an escape, so
// chains of read-only helpers settle by pruning to a fixpoint.
func borrowCandidates(units []*unit, info *Result, policy *config.Policy, recursive map[*ast.FunItem]bool) map[*ast.Param]bool {
	cand := make(map[*ast.Param]bool)
	for _, u := range units {
		if u.fun == nil || recursive[u.fun] {
			continue
		}
		if !withinCalleeSize(u.fun, policy.Ownership.MaxCalleeSize) {
			continue
		}
		for _, p := range u.fun.Params {
			if paramNeedsOwnership(p, info) && info.Mutability[p] == MutImmutable {
				cand[p] = true
			}
		}
	}

	for {
		changed := false
		for _, u := range units {
			if u.fun == nil {
				continue
			}
			for _, p := range u.fun.Params {
				if cand[p] && paramEscapes(u, p, info, cand) {
					delete(cand, p)
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}
	return cand
}

// withinCalleeSize enforces the policy cap on callee body size; zero means
// no cap.
func withinCalleeSize(f *ast.FunItem, max int) bool {
	if max <= 0 {
		return true
	}
	n := 0
	ast.Walk(f.Body, func(node ast.Node) bool {
		switch node.(type) {
		case *ast.LetStmt, *ast.ExprStmt, *ast.GuardStmt, *ast.DeferStmt:
			n++
		}
		return true
	})
	return n <= max
}

// paramEscapes reports whether the parameter's value leaves the body by
// move: stored, collected, returned, concatenated away, or passed to a
// position that is not itself a borrow candidate.
func paramEscapes(u *unit, p *ast.Param, info *Result, cand map[*ast.Param]bool) bool {
	isP := func(e ast.Expr) bool {
		id, ok := e.(*ast.Ident)
		return ok && info.Uses[id] == ast.Node(p)
	}

	escaped := false
	mark := func() { escaped = true }

	ast.Walk(u.body, func(n ast.Node) bool {
		if escaped {
			return false
		}
		switch e := n.(type) {
		case *ast.CallExpr:
			callee := calleeFun(e, info)
			for i, arg := range e.Args {
				if !isP(arg) {
					continue
				}
				if callee != nil && i < len(callee.Params) && cand[callee.Params[i]] {
					continue
				}
				if callee == nil && callIsFmtBuiltin(e, info) {
					continue
				}
				mark()
			}
		case *ast.MethodCallExpr:
			for _, arg := range e.Args {
				if isP(arg) {
					mark()
				}
			}
		case *ast.ArrayLit:
			for _, el := range e.Elems {
				if isP(el) {
					mark()
				}
			}
		case *ast.TupleLit:
			for _, el := range e.Elems {
				if isP(el) {
					mark()
				}
			}
		case *ast.StructLit:
			for _, f := range e.Fields {
				if f.Value != nil && isP(f.Value) {
					mark()
				}
				if f.Value == nil && info.Uses[f.Name] == ast.Node(p) {
					mark()
				}
			}
		case *ast.LetStmt:
			if e.Value != nil && isP(e.Value) {
				mark()
			}
		case *ast.AssignExpr:
			if isP(e.Value) {
				mark()
			}
		case *ast.ReturnExpr:
			if isP(e.Value) {
				mark()
			}
		case *ast.BreakExpr:
			if isP(e.Value) {
				mark()
			}
		case *ast.SendExpr:
			if isP(e.Message) {
				mark()
			}
		case *ast.MatchExpr:
			if isP(e.Subject) {
				mark()
			}
		case *ast.InfixExpr:
			// String concatenation consumes its left operand.
			if e.Op == "+" && isP(e.Left) && syntacticallyString(e.Left, info) {
				mark()
			}
		}
		return true
	})
	if escaped {
		return true
	}
	if u.body.Tail != nil && isP(u.body.Tail) {
		return true
	}
	return false
}

// callIsFmtBuiltin reports whether the call target is one of the printing
// builtins that borrow their arguments.
func callIsFmtBuiltin(call *ast.CallExpr, info *Result) bool {
	id, ok := call.Callee.(*ast.Ident)
	if !ok {
		return false
	}
	_, bound := info.Uses[id]
	return !bound && fmtBuiltins[id.Name]
}

// repairCalls walks one unit tracking loop depth and repairs every argument
// whose move would fail: borrow when the callee parameter is eligible,
// clone otherwise.
func repairCalls(u *unit, info *Result, policy *config.Policy, borrowable map[*ast.Param]bool, recursive map[*ast.FunItem]bool) {
	var scan func(root ast.Node, depth int)
	scan = func(root ast.Node, depth int) {
		ast.Walk(root, func(n ast.Node) bool {
			switch e := n.(type) {
			case *ast.ForExpr:
				scan(e.Iter, depth)
				scan(e.Body, depth+1)
				return false
			case *ast.WhileExpr:
				scan(e.Cond, depth+1)
				scan(e.Body, depth+1)
				return false
			case *ast.LoopExpr:
				scan(e.Body, depth+1)
				return false
			case *ast.CallExpr:
				repairCall(e, u, info, policy, borrowable, recursive, depth)
			}
			return true
		})
	}
	scan(u.body, 0)
}

func repairCall(call *ast.CallExpr, u *unit, info *Result, policy *config.Policy, borrowable map[*ast.Param]bool, recursive map[*ast.FunItem]bool, depth int) {
	callee := calleeFun(call, info)
	if callee == nil {
		return
	}
	for i, arg := range call.Args {
		if i >= len(callee.Params) {
			break
		}
		id, ok := arg.(*ast.Ident)
		if !ok {
			continue
		}
		site := info.Uses[id]
		if site == nil || !bindingNeedsOwnership(site, info, policy) {
			continue
		}
		if depth == 0 && !usedAfter(u, site, call, info) {
			continue
		}

		p := callee.Params[i]
		if borrowable[p] {
			info.Passing[p] = PassBorrow
			continue
		}
		info.ArgClones[arg] = true
		if policy.Ownership.Mode != config.OwnershipBorrowLocal || !policy.Warnings.Clones {
			continue
		}
		reason := "used again after the call"
		if depth > 0 {
			reason = "passed inside a loop"
		}
		d := diag.Diagnostic{
			Stage:    diag.StageInfer,
			Severity: diag.SeverityWarning,
			Code:     diag.CodeInferCloneFallback,
			Message:  fmt.Sprintf("`%s` is moved into `%s` but %s; inserting a clone", id.Name, callee.Name.Name, reason),
			Span:     toDiagSpan(arg.Span()),
		}
		if recursive[callee] {
			d.Code = diag.CodeInferRecursiveCallee
			d.Message = fmt.Sprintf("`%s` is recursive, so `%s` is always duplicated", callee.Name.Name, id.Name)
		}
		info.Warnings = append(info.Warnings, d)
	}
}

// cascadeBorrows keeps forwarded candidates consistent: when a borrowed
// parameter is passed on to another candidate position, that position must
// be borrowed too or the forwarded reference would not typecheck.
func cascadeBorrows(units []*unit, info *Result, borrowable map[*ast.Param]bool) {
	edges := make(map[*ast.Param][]*ast.Param)
	for _, u := range units {
		if u.fun == nil {
			continue
		}
		ast.Walk(u.body, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			callee := calleeFun(call, info)
			if callee == nil {
				return true
			}
			for i, arg := range call.Args {
				if i >= len(callee.Params) {
					break
				}
				id, ok := arg.(*ast.Ident)
				if !ok {
					continue
				}
				from, ok := info.Uses[id].(*ast.Param)
				if !ok || !borrowable[from] || !borrowable[callee.Params[i]] {
					continue
				}
				edges[from] = append(edges[from], callee.Params[i])
			}
			return true
		})
	}

	var queue []*ast.Param
	for p, mode := range info.Passing {
		if mode == PassBorrow {
			queue = append(queue, p)
		}
	}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, q := range edges[p] {
			if info.Passing[q] != PassBorrow {
				info.Passing[q] = PassBorrow
				queue = append(queue, q)
			}
		}
	}
}

// usedAfter reports whether the binding has a use after the call site,
// which means the call cannot consume the value.
func usedAfter(u *unit, site ast.Node, call *ast.CallExpr, info *Result) bool {
	end := call.Span().End
	found := false
	ast.Walk(u.body, func(n ast.Node) bool {
		if found {
			return false
		}
		if id, ok := n.(*ast.Ident); ok {
			if info.Uses[id] == site && id.Span().Start >= end {
				found = true
				return false
			}
		}
		return true
	})
	return found
}

// bindingNeedsOwnership reports whether a binding's emitted type moves on
// call rather than copying.
func bindingNeedsOwnership(site ast.Node, info *Result, policy *config.Policy) bool {
	switch b := site.(type) {
	case *ast.Param:
		return paramNeedsOwnership(b, info)
	case *ast.LetStmt:
		if b.Type != nil {
			return typeNeedsOwnership(b.Type, info)
		}
		if b.Value == nil {
			return false
		}
		if info.Mutability[b] == MutAccumulator && syntacticallyString(b.Value, info) {
			return true
		}
		return exprNeedsOwnership(b.Value, info, policy)
	}
	return false
}

func paramNeedsOwnership(p *ast.Param, info *Result) bool {
	if p.Type != nil {
		return typeNeedsOwnership(p.Type, info)
	}
	h := info.HintFor(p)
	return h == "String" || strings.HasPrefix(h, "Vec<")
}

func typeNeedsOwnership(t ast.TypeExpr, info *Result) bool {
	switch tt := t.(type) {
	case *ast.NamedType:
		name := tt.Name()
		switch scalarShapeForName(name) {
		case ShapeStringOwned:
			return true
		case ShapeInt, ShapeFloat, ShapeBool, ShapeChar, ShapeStringBorrowed:
			return false
		}
		if growableTypeName(name) {
			return true
		}
		if optionTypeName(name) {
			if len(tt.Args) == 1 {
				return typeNeedsOwnership(tt.Args[0], info)
			}
			return true
		}
		if _, ok := info.Structs[name]; ok {
			return true
		}
		if _, ok := info.Enums[name]; ok {
			return true
		}
		return false
	case *ast.ListType:
		return true
	case *ast.TupleType:
		for _, el := range tt.Elems {
			if typeNeedsOwnership(el, info) {
				return true
			}
		}
		return false
	}
	return false
}

// exprNeedsOwnership decides from an initializer whether the bound value is
// a moving type. Plain string literals stay borrowed unless the policy owns
// them by default.
func exprNeedsOwnership(e ast.Expr, info *Result, policy *config.Policy) bool {
	switch v := e.(type) {
	case *ast.StringLit:
		return policy.Strings.DefaultOwned
	case *ast.FStringExpr:
		return true
	case *ast.ArrayLit, *ast.StructLit:
		return true
	case *ast.InfixExpr:
		return v.Op == "+" && syntacticallyString(v, info)
	case *ast.MethodCallExpr:
		return stringResultMethods[v.Method.Name]
	case *ast.CallExpr:
		if f := calleeFun(v, info); f != nil {
			if f.ReturnType != nil {
				return typeNeedsOwnership(f.ReturnType, info)
			}
			return shapeNeedsOwnership(info.ReturnShapes[f])
		}
		return false
	case *ast.IfExpr:
		if v.Else == nil {
			return false
		}
		return (v.Then.Tail != nil && exprNeedsOwnership(v.Then.Tail, info, policy)) ||
			exprNeedsOwnership(v.Else, info, policy)
	case *ast.BlockExpr:
		return v.Tail != nil && exprNeedsOwnership(v.Tail, info, policy)
	case *ast.MatchExpr:
		for _, arm := range v.Arms {
			if exprNeedsOwnership(arm.Body, info, policy) {
				return true
			}
		}
		return false
	case *ast.Ident:
		if site := info.Uses[v]; site != nil {
			return bindingNeedsOwnership(site, info, policy)
		}
		return false
	}
	return false
}

func shapeNeedsOwnership(s Shape) bool {
	switch s.Kind {
	case ShapeString, ShapeStringOwned:
		return true
	case ShapeNamed:
		return !strings.HasPrefix(s.Name, "(")
	}
	return false
}
