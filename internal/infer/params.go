package infer

import (
	"fmt"

	"github.com/ruchy-lang/ruchy/internal/ast"
	"github.com/ruchy-lang/ruchy/internal/config"
	"github.com/ruchy-lang/ruchy/internal/diag"
	"github.com/ruchy-lang/ruchy/internal/lexer"
)

const defaultHint = "i64"

// vecEvidenceMethods mark a receiver as a container.
var vecEvidenceMethods = map[string]bool{
	"push": true, "pop": true, "insert": true, "remove": true,
	"extend": true, "append": true, "truncate": true, "sort": true,
	"sort_by": true, "reverse": true, "dedup": true, "retain": true,
	"first": true, "last": true, "iter": true, "map": true,
	"filter": true, "get": true, "sum": true,
}

// strEvidenceMethods mark a receiver as text. Methods shared with
// containers (len, contains, is_empty, clear) are deliberately absent.
var strEvidenceMethods = map[string]bool{
	"to_upper": true, "upper": true, "to_uppercase": true,
	"to_lower": true, "lower": true, "to_lowercase": true,
	"trim": true, "split": true, "chars": true, "push_str": true,
	"starts_with": true, "ends_with": true, "repeat": true,
	"replace": true, "find": true,
}

// floatEvidenceMethods mark a receiver as a float.
var floatEvidenceMethods = map[string]bool{
	"sqrt": true, "powf": true, "floor": true, "ceil": true,
	"round": true,
}

// hintEvidence accumulates usage observations for one untyped parameter.
type hintEvidence struct {
	str, vec, float, boolean, numeric bool
}

// hint resolves the gathered evidence. Structural evidence outranks scalar
// evidence; a parameter with no evidence defaults to i64.
func (ev *hintEvidence) hint() string {
	switch {
	case ev.str:
		return "String"
	case ev.vec:
		return "Vec<i64>"
	case ev.float:
		return "f64"
	case ev.boolean:
		return "bool"
	default:
		return defaultHint
	}
}

func (ev *hintEvidence) any() bool {
	return ev.str || ev.vec || ev.float || ev.boolean || ev.numeric
}

// inferParamHints assigns an emitted type to every untyped parameter based
// on how the body uses it.
func inferParamHints(u *unit, info *Result, policy *config.Policy) {
	if u.fun == nil {
		return
	}
	untyped := make(map[*ast.Param]*hintEvidence)
	for _, p := range u.fun.Params {
		if p.Type == nil {
			untyped[p] = &hintEvidence{}
		}
	}
	if len(untyped) == 0 {
		return
	}

	evidenceOf := func(e ast.Expr) *hintEvidence {
		id, ok := e.(*ast.Ident)
		if !ok {
			return nil
		}
		p, ok := info.Uses[id].(*ast.Param)
		if !ok {
			return nil
		}
		return untyped[p]
	}

	ast.Walk(u.body, func(n ast.Node) bool {
		switch e := n.(type) {
		case *ast.InfixExpr:
			infixEvidence(e, evidenceOf, info)
		case *ast.PrefixExpr:
			ev := evidenceOf(e.Right)
			if ev == nil {
				break
			}
			switch e.Op {
			case "!":
				ev.boolean = true
			case "-":
				ev.numeric = true
			}
		case *ast.IndexExpr:
			if ev := evidenceOf(e.Receiver); ev != nil {
				ev.vec = true
			}
			if ev := evidenceOf(e.Index); ev != nil {
				ev.numeric = true
			}
		case *ast.ForExpr:
			if ev := evidenceOf(e.Iter); ev != nil {
				ev.vec = true
			}
		case *ast.ListCompExpr:
			if ev := evidenceOf(e.Iter); ev != nil {
				ev.vec = true
			}
		case *ast.MethodCallExpr:
			ev := evidenceOf(e.Receiver)
			if ev == nil {
				break
			}
			switch {
			case vecEvidenceMethods[e.Method.Name]:
				ev.vec = true
			case strEvidenceMethods[e.Method.Name]:
				ev.str = true
			case floatEvidenceMethods[e.Method.Name]:
				ev.float = true
			}
		case *ast.IfExpr:
			if ev := evidenceOf(e.Cond); ev != nil {
				ev.boolean = true
			}
		case *ast.WhileExpr:
			if ev := evidenceOf(e.Cond); ev != nil {
				ev.boolean = true
			}
		case *ast.GuardStmt:
			if ev := evidenceOf(e.Cond); ev != nil {
				ev.boolean = true
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
				ev := evidenceOf(arg)
				if ev == nil {
					continue
				}
				// Only declared callee types count, so the result does
				// not depend on function processing order.
				if pt := callee.Params[i].Type; pt != nil {
					applyTypeEvidence(ev, pt)
				}
			}
		}
		return true
	})

	for _, p := range u.fun.Params {
		ev, ok := untyped[p]
		if !ok {
			continue
		}
		info.TypeHints[p] = ev.hint()
		if !ev.any() && policy.Warnings.Hints {
			info.Warnings = append(info.Warnings, diag.Diagnostic{
				Stage:    diag.StageInfer,
				Severity: diag.SeverityNote,
				Code:     diag.CodeInferParamHint,
				Message:  fmt.Sprintf("no usage evidence for parameter `%s`; assuming i64", p.Name.Name),
				Span:     toDiagSpan(p.Span()),
			})
		}
	}
}

// infixEvidence classifies an operator use for untyped parameters on either
// side.
func infixEvidence(e *ast.InfixExpr, evidenceOf func(ast.Expr) *hintEvidence, info *Result) {
	l, r := evidenceOf(e.Left), evidenceOf(e.Right)
	if l == nil && r == nil {
		return
	}
	switch e.Op {
	case "&&", "||":
		markBoolean(l, r)
	case "+":
		if syntacticallyString(e.Left, info) || syntacticallyString(e.Right, info) {
			markString(l, r)
			return
		}
		markArith(e, l, r, info)
	case "-", "*", "/", "%", "**", "<", "<=", ">", ">=":
		markArith(e, l, r, info)
	case "==", "!=":
		switch {
		case syntacticallyString(e.Left, info) || syntacticallyString(e.Right, info):
			markString(l, r)
		case isBoolLit(e.Left) || isBoolLit(e.Right):
			markBoolean(l, r)
		default:
			markArith(e, l, r, info)
		}
	}
}

func markBoolean(evs ...*hintEvidence) {
	for _, ev := range evs {
		if ev != nil {
			ev.boolean = true
		}
	}
}

func markString(evs ...*hintEvidence) {
	for _, ev := range evs {
		if ev != nil {
			ev.str = true
		}
	}
}

func markArith(e *ast.InfixExpr, l, r *hintEvidence, info *Result) {
	isFloat := syntacticallyFloat(e.Left, info) || syntacticallyFloat(e.Right, info)
	for _, ev := range []*hintEvidence{l, r} {
		if ev == nil {
			continue
		}
		if isFloat {
			ev.float = true
		} else {
			ev.numeric = true
		}
	}
}

func isBoolLit(e ast.Expr) bool {
	_, ok := e.(*ast.BoolLit)
	return ok
}

// applyTypeEvidence records a declared callee parameter type as evidence
// for the argument.
func applyTypeEvidence(ev *hintEvidence, t ast.TypeExpr) {
	if typeIsGrowable(t) {
		ev.vec = true
		return
	}
	switch typeShape(t).Kind {
	case ShapeStringOwned, ShapeStringBorrowed:
		ev.str = true
	case ShapeFloat:
		ev.float = true
	case ShapeBool:
		ev.boolean = true
	case ShapeInt:
		ev.numeric = true
	}
}

// toDiagSpan converts a lexer.Span to a diag.Span.
func toDiagSpan(span lexer.Span) diag.Span {
	return diag.Span{
		Filename: span.Filename,
		Line:     span.Line,
		Column:   span.Column,
		Start:    span.Start,
		End:      span.End,
	}
}
