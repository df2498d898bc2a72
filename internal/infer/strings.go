package infer

import (
	"github.com/ruchy-lang/ruchy/internal/ast"
	"github.com/ruchy-lang/ruchy/internal/config"
)

// borrowedResultMethods return borrowed text, so flowing into an owned sink
// needs a conversion on the call itself.
var borrowedResultMethods = map[string]bool{
	"trim": true, "trim_start": true, "trim_end": true,
}

// stringMutators require an owned receiver regardless of any annotation.
var stringMutators = map[string]bool{
	"push_str": true, "insert_str": true,
}

// inferStrings decides which string expressions must be emitted as owned
// text. Sinks are String-typed returns, bindings, and by-value parameters;
// marking descends branch arms so every exit of a conditional agrees. It
// also refines inferred string returns to owned or borrowed: a signature
// stays borrowed only when every exit chains through string literals.
func inferStrings(u *unit, info *Result, policy *config.Policy) {
	p := &stringProp{info: info}

	if u.fun != nil {
		for _, par := range u.fun.Params {
			if info.Passing[par] == PassByValue && paramIsOwnedString(par, info) {
				info.OwnedBindings[par] = true
			}
		}
	}

	// Bindings mutated through string methods own their value no matter
	// how they were introduced.
	mutated := make(map[ast.Node]bool)
	ast.Walk(u.body, func(n ast.Node) bool {
		if mc, ok := n.(*ast.MethodCallExpr); ok && stringMutators[mc.Method.Name] {
			if site := rootBinding(mc.Receiver, info); site != nil {
				mutated[site] = true
			}
		}
		return true
	})

	ast.Walk(u.body, func(n ast.Node) bool {
		switch e := n.(type) {
		case *ast.LetStmt:
			p.letSink(e, mutated[e], policy)
		case *ast.AssignExpr:
			if id, ok := e.Target.(*ast.Ident); ok && info.OwnedBindings[info.Uses[id]] {
				p.markOwned(e.Value)
			}
		case *ast.InfixExpr:
			// Concatenation always needs an owned left operand, whatever
			// the surrounding sink.
			if e.Op == "+" && syntacticallyString(e, info) {
				p.markOwned(e.Left)
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
				if info.Passing[par] == PassByValue && paramIsOwnedString(par, info) {
					p.markOwned(arg)
				}
			}
		}
		return true
	})

	if u.fun == nil {
		return
	}
	if u.fun.ReturnType != nil {
		if typeIsOwnedString(u.fun.ReturnType) {
			for _, res := range resultExprs(u.body) {
				p.markOwned(res)
			}
		}
		return
	}
	if info.ReturnShapes[u.fun].Kind != ShapeString {
		return
	}
	results := resultExprs(u.body)
	if allStaticBorrowable(results, info) {
		info.ReturnShapes[u.fun] = Shape{Kind: ShapeStringBorrowed}
		return
	}
	info.ReturnShapes[u.fun] = Shape{Kind: ShapeStringOwned}
	for _, res := range results {
		p.markOwned(res)
	}
}

type stringProp struct {
	info *Result
}

// letSink classifies a let binding as an owned-text sink: declared String,
// a string accumulator, a method-mutated string, or any string when the
// policy owns strings by default.
func (p *stringProp) letSink(e *ast.LetStmt, methodMutated bool, policy *config.Policy) {
	info := p.info
	if e.Type != nil {
		if typeIsOwnedString(e.Type) {
			info.OwnedBindings[e] = true
			p.markOwned(e.Value)
		}
		return
	}
	if !syntacticallyString(e.Value, info) {
		return
	}
	// An initializer that already produces owned text makes the binding
	// owned without any conversion.
	if exprCertainlyOwned(e.Value, info) {
		info.OwnedBindings[e] = true
		return
	}
	if info.Mutability[e] == MutAccumulator || methodMutated || policy.Strings.DefaultOwned {
		info.OwnedBindings[e] = true
		p.markOwned(e.Value)
	}
}

// ProducesOwnedText reports whether an expression evaluates to owned text
// as emitted, either by construction or through an ownership marking.
func (r *Result) ProducesOwnedText(e ast.Expr) bool {
	if r.Ownership[e] == TextOwned {
		return true
	}
	return exprCertainlyOwned(e, r)
}

// exprCertainlyOwned reports whether an expression yields owned text by
// construction, with no conversion needed.
func exprCertainlyOwned(e ast.Expr, info *Result) bool {
	switch v := e.(type) {
	case *ast.FStringExpr:
		return true
	case *ast.InfixExpr:
		return v.Op == "+"
	case *ast.MethodCallExpr:
		return stringResultMethods[v.Method.Name] && !borrowedResultMethods[v.Method.Name]
	case *ast.CallExpr:
		f := calleeFun(v, info)
		return f != nil && funReturnsOwnedString(f, info)
	case *ast.Ident:
		return info.OwnedBindings[info.Uses[v]]
	}
	return false
}

// markOwned marks an expression so emission produces owned text, descending
// branches so every arm agrees. Expressions that already produce owned text
// are left alone, as are identifiers of owned bindings.
func (p *stringProp) markOwned(e ast.Expr) {
	switch v := e.(type) {
	case nil:
		return
	case *ast.StringLit:
		p.info.Ownership[v] = TextOwned
	case *ast.Ident:
		if !p.info.OwnedBindings[p.info.Uses[v]] {
			p.info.Ownership[v] = TextOwned
		}
	case *ast.InfixExpr:
		// String + &str already yields String; only the left operand
		// carries ownership.
		if v.Op == "+" {
			p.markOwned(v.Left)
		}
	case *ast.IfExpr:
		if v.Then.Tail != nil {
			p.markOwned(v.Then.Tail)
		}
		p.markOwned(v.Else)
	case *ast.BlockExpr:
		if v.Tail != nil {
			p.markOwned(v.Tail)
		}
	case *ast.MatchExpr:
		for _, arm := range v.Arms {
			p.markOwned(arm.Body)
		}
	case *ast.MethodCallExpr:
		if borrowedResultMethods[v.Method.Name] {
			p.info.Ownership[v] = TextOwned
		}
	case *ast.CallExpr:
		if f := calleeFun(v, p.info); f != nil && !funReturnsOwnedString(f, p.info) {
			p.info.Ownership[v] = TextOwned
		}
	}
}

func paramIsOwnedString(p *ast.Param, info *Result) bool {
	if p.Type != nil {
		return typeIsOwnedString(p.Type)
	}
	return info.TypeHints[p] == "String"
}

// funReturnsOwnedString reports whether a call to f certainly yields owned
// text, either by declaration or by an already refined shape.
func funReturnsOwnedString(f *ast.FunItem, info *Result) bool {
	if f.ReturnType != nil {
		return typeIsOwnedString(f.ReturnType)
	}
	return info.ReturnShapes[f].Kind == ShapeStringOwned
}

func allStaticBorrowable(results []ast.Expr, info *Result) bool {
	if len(results) == 0 {
		return false
	}
	for _, res := range results {
		if !staticBorrowable(res, info) {
			return false
		}
	}
	return true
}

// staticBorrowable reports whether a result reaches only string literals,
// so the signature can stay &'static str.
func staticBorrowable(e ast.Expr, info *Result) bool {
	switch v := e.(type) {
	case *ast.StringLit:
		return true
	case *ast.Ident:
		b, ok := info.Uses[v].(*ast.LetStmt)
		if !ok || info.OwnedBindings[b] || info.Mutability[b] != MutImmutable {
			return false
		}
		return b.Type == nil && b.Value != nil && staticBorrowable(b.Value, info)
	case *ast.IfExpr:
		if v.Else == nil || v.Then.Tail == nil {
			return false
		}
		return staticBorrowable(v.Then.Tail, info) && staticBorrowable(v.Else, info)
	case *ast.BlockExpr:
		return v.Tail != nil && staticBorrowable(v.Tail, info)
	case *ast.MatchExpr:
		if len(v.Arms) == 0 {
			return false
		}
		for _, arm := range v.Arms {
			if !staticBorrowable(arm.Body, info) {
				return false
			}
		}
		return true
	case *ast.CallExpr:
		f := calleeFun(v, info)
		if f == nil {
			return false
		}
		if f.ReturnType != nil {
			return typeShape(f.ReturnType).Kind == ShapeStringBorrowed
		}
		return info.ReturnShapes[f].Kind == ShapeStringBorrowed
	}
	return false
}
