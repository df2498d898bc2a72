package infer

import "github.com/ruchy-lang/ruchy/internal/ast"

// resolver binds identifier uses to their introduction sites. Top-level
// items are visible program-wide; locals follow lexical block scoping with
// shadowing.
type resolver struct {
	info *Result
}

func resolveProgram(prog *ast.Program, units []*unit, info *Result) {
	r := &resolver{info: info}
	global := newScope(nil)
	for name, f := range info.Functions {
		global.insert(name, f)
	}
	for name, st := range info.Structs {
		global.insert(name, st)
	}
	for name, en := range info.Enums {
		global.insert(name, en)
	}

	for _, u := range units {
		s := newScope(global)
		if u.fun != nil {
			if u.fun.Receiver != nil {
				s.insert("self", u.fun.Receiver)
			}
			for _, p := range u.fun.Params {
				s.insert(p.Name.Name, p)
			}
		}
		r.block(u.body, s)
	}
}

// block resolves a block's statements and tail in a fresh child scope.
func (r *resolver) block(b *ast.BlockExpr, parent *scope) {
	s := newScope(parent)
	for _, stmt := range b.Stmts {
		r.stmt(stmt, s)
	}
	if b.Tail != nil {
		r.expr(b.Tail, s)
	}
}

func (r *resolver) stmt(stmt ast.Stmt, s *scope) {
	switch st := stmt.(type) {
	case *ast.LetStmt:
		// The initializer sees the outer binding, so `let x = x + 1`
		// shadows rather than self-references.
		if st.Value != nil {
			r.expr(st.Value, s)
		}
		s.insert(st.Name.Name, st)
	case *ast.ExprStmt:
		r.expr(st.Expr, s)
	case *ast.GuardStmt:
		r.expr(st.Cond, s)
		r.block(st.Else, s)
	case *ast.DeferStmt:
		r.block(st.Body, s)
	}
}

func (r *resolver) expr(e ast.Expr, s *scope) {
	switch ex := e.(type) {
	case nil:
		return
	case *ast.Ident:
		if site := s.lookup(ex.Name); site != nil {
			r.info.Uses[ex] = site
		}
	case *ast.PathExpr:
		if len(ex.Segments) > 0 {
			if site := s.lookup(ex.Segments[0].Name); site != nil {
				r.info.Uses[ex.Segments[0]] = site
			}
		}
	case *ast.FStringExpr:
		for _, part := range ex.Parts {
			if part.Expr != nil {
				r.expr(part.Expr, s)
			}
		}
	case *ast.ArrayLit:
		for _, el := range ex.Elems {
			r.expr(el, s)
		}
	case *ast.TupleLit:
		for _, el := range ex.Elems {
			r.expr(el, s)
		}
	case *ast.StructLit:
		r.expr(ex.Path, s)
		for _, f := range ex.Fields {
			if f.Value != nil {
				r.expr(f.Value, s)
				continue
			}
			// Shorthand initializer reads the binding of the same name.
			if site := s.lookup(f.Name.Name); site != nil {
				r.info.Uses[f.Name] = site
			}
		}
	case *ast.PrefixExpr:
		r.expr(ex.Right, s)
	case *ast.InfixExpr:
		r.expr(ex.Left, s)
		r.expr(ex.Right, s)
	case *ast.PipelineExpr:
		r.expr(ex.Left, s)
		r.expr(ex.Right, s)
	case *ast.AssignExpr:
		r.expr(ex.Target, s)
		r.expr(ex.Value, s)
	case *ast.CompoundAssignExpr:
		r.expr(ex.Target, s)
		r.expr(ex.Value, s)
	case *ast.IncDecExpr:
		r.expr(ex.Target, s)
	case *ast.CallExpr:
		r.expr(ex.Callee, s)
		for _, arg := range ex.Args {
			r.expr(arg, s)
		}
	case *ast.MethodCallExpr:
		r.expr(ex.Receiver, s)
		for _, arg := range ex.Args {
			r.expr(arg, s)
		}
	case *ast.FieldExpr:
		r.expr(ex.Receiver, s)
	case *ast.IndexExpr:
		r.expr(ex.Receiver, s)
		r.expr(ex.Index, s)
	case *ast.SafeFieldExpr:
		r.expr(ex.Receiver, s)
	case *ast.SafeMethodCallExpr:
		r.expr(ex.Receiver, s)
		for _, arg := range ex.Args {
			r.expr(arg, s)
		}
	case *ast.TryExpr:
		r.expr(ex.Expr, s)
	case *ast.SendExpr:
		r.expr(ex.Actor, s)
		r.expr(ex.Message, s)
	case *ast.RangeExpr:
		r.expr(ex.Start, s)
		r.expr(ex.End, s)
	case *ast.LambdaExpr:
		ls := newScope(s)
		for _, p := range ex.Params {
			ls.insert(p.Name.Name, p)
		}
		r.expr(ex.Body, ls)
	case *ast.BlockExpr:
		r.block(ex, s)
	case *ast.IfExpr:
		r.expr(ex.Cond, s)
		r.block(ex.Then, s)
		if ex.Else != nil {
			r.expr(ex.Else, s)
		}
	case *ast.MatchExpr:
		r.expr(ex.Subject, s)
		for _, arm := range ex.Arms {
			as := newScope(s)
			r.pattern(arm.Pattern, as)
			if arm.Guard != nil {
				r.expr(arm.Guard, as)
			}
			r.expr(arm.Body, as)
		}
	case *ast.ForExpr:
		r.expr(ex.Iter, s)
		fs := newScope(s)
		r.pattern(ex.Pat, fs)
		r.block(ex.Body, fs)
	case *ast.WhileExpr:
		r.expr(ex.Cond, s)
		r.block(ex.Body, s)
	case *ast.LoopExpr:
		r.block(ex.Body, s)
	case *ast.BreakExpr:
		r.expr(ex.Value, s)
	case *ast.ReturnExpr:
		r.expr(ex.Value, s)
	case *ast.ListCompExpr:
		r.expr(ex.Iter, s)
		cs := newScope(s)
		cs.insert(ex.Var.Name, ex.Var)
		r.expr(ex.Elem, cs)
		if ex.Filter != nil {
			r.expr(ex.Filter, cs)
		}
	case *ast.CastExpr:
		r.expr(ex.Expr, s)
	}
	// Plain literals bind and reference nothing.
}

func (r *resolver) pattern(p ast.Pattern, s *scope) {
	switch pt := p.(type) {
	case *ast.PatternIdent:
		s.insert(pt.Name.Name, pt)
	case *ast.PatternTuple:
		for _, el := range pt.Elements {
			r.pattern(el, s)
		}
	case *ast.PatternTupleStruct:
		for _, el := range pt.Elements {
			r.pattern(el, s)
		}
	case *ast.PatternOr:
		for _, alt := range pt.Patterns {
			r.pattern(alt, s)
		}
	}
	// Wildcards, paths, literals, and ranges bind nothing.
}
