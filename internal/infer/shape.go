package infer

import (
	"strings"

	"github.com/ruchy-lang/ruchy/internal/ast"
)

// builtinCallShapes classify calls to well-known free functions.
var builtinCallShapes = map[string]Shape{
	"println":   {Kind: ShapeUnit},
	"print":     {Kind: ShapeUnit},
	"eprintln":  {Kind: ShapeUnit},
	"eprint":    {Kind: ShapeUnit},
	"assert":    {Kind: ShapeUnit},
	"assert_eq": {Kind: ShapeUnit},
	"panic":     {Kind: ShapeNever},
	"todo":      {Kind: ShapeNever},
}

// inferShapes classifies result shapes for functions declared without a
// return type and for the final script-mode expression. Shapes are memoized
// per function so forward and mutually recursive references terminate.
func inferShapes(units []*unit, info *Result) {
	c := &shapeClassifier{
		info:       info,
		funs:       make(map[*ast.FunItem]Shape),
		inProgress: make(map[*ast.FunItem]bool),
	}
	info.ScriptShape = Shape{Kind: ShapeUnit}
	for _, u := range units {
		if u.fun == nil {
			if e := scriptTail(u.body); e != nil {
				info.ScriptShape = c.exprShape(e)
			}
			continue
		}
		if u.fun.ReturnType != nil {
			continue
		}
		info.ReturnShapes[u.fun] = c.funShape(u.fun)
	}
}

// scriptTail returns the final loose expression of a script, which the
// generated main prints when it has a printable shape.
func scriptTail(b *ast.BlockExpr) ast.Expr {
	if len(b.Stmts) == 0 {
		return nil
	}
	if es, ok := b.Stmts[len(b.Stmts)-1].(*ast.ExprStmt); ok {
		return es.Expr
	}
	return nil
}

// resultExprs returns the value-producing exits of a body: the tail
// expression plus every non-bare return value.
func resultExprs(b *ast.BlockExpr) []ast.Expr {
	var out []ast.Expr
	if b.Tail != nil {
		out = append(out, b.Tail)
	}
	for _, v := range collectReturnValues(b) {
		if v != nil {
			out = append(out, v)
		}
	}
	return out
}

// collectReturnValues gathers the value of every return in the body,
// excluding nested closures. A bare return yields nil.
func collectReturnValues(b *ast.BlockExpr) []ast.Expr {
	var out []ast.Expr
	ast.Walk(b, func(n ast.Node) bool {
		switch v := n.(type) {
		case *ast.LambdaExpr:
			return false
		case *ast.ReturnExpr:
			out = append(out, v.Value)
		}
		return true
	})
	return out
}

type shapeClassifier struct {
	info       *Result
	funs       map[*ast.FunItem]Shape
	inProgress map[*ast.FunItem]bool
}

// funShape classifies a function's result. Declared return types win;
// otherwise every exit of the body must agree.
func (c *shapeClassifier) funShape(f *ast.FunItem) Shape {
	if f.ReturnType != nil {
		return typeShape(f.ReturnType)
	}
	if s, ok := c.funs[f]; ok {
		return s
	}
	if c.inProgress[f] || f.Body == nil {
		return Shape{Kind: ShapeUnknown}
	}
	c.inProgress[f] = true
	s := c.blockShape(f.Body)
	for _, v := range collectReturnValues(f.Body) {
		s = resultJoin(s, c.exprShape(v))
	}
	delete(c.inProgress, f)
	c.funs[f] = s
	return s
}

// blockShape is the shape of a block's own value: its tail, divergence when
// the last statement never falls through, or unit.
func (c *shapeClassifier) blockShape(b *ast.BlockExpr) Shape {
	if b.Tail != nil {
		return c.exprShape(b.Tail)
	}
	if len(b.Stmts) > 0 {
		if es, ok := b.Stmts[len(b.Stmts)-1].(*ast.ExprStmt); ok {
			if c.exprShape(es.Expr).Kind == ShapeNever {
				return Shape{Kind: ShapeNever}
			}
		}
	}
	return Shape{Kind: ShapeUnit}
}

func (c *shapeClassifier) exprShape(e ast.Expr) Shape {
	switch v := e.(type) {
	case nil:
		return Shape{Kind: ShapeUnit}
	case *ast.IntegerLit:
		if strings.HasPrefix(v.Suffix, "f") {
			return Shape{Kind: ShapeFloat}
		}
		return Shape{Kind: ShapeInt}
	case *ast.FloatLit:
		return Shape{Kind: ShapeFloat}
	case *ast.StringLit, *ast.FStringExpr:
		return Shape{Kind: ShapeString}
	case *ast.CharLit:
		return Shape{Kind: ShapeChar}
	case *ast.BoolLit:
		return Shape{Kind: ShapeBool}
	case *ast.UnitLit:
		return Shape{Kind: ShapeUnit}
	case *ast.Ident:
		return c.bindingShape(c.info.Uses[v])
	case *ast.PathExpr:
		if len(v.Segments) == 2 {
			if _, ok := c.info.Enums[v.Segments[0].Name]; ok {
				return Shape{Kind: ShapeNamed, Name: v.Segments[0].Name}
			}
		}
		return Shape{Kind: ShapeUnknown}
	case *ast.InfixExpr:
		return c.infixShape(v)
	case *ast.PrefixExpr:
		switch v.Op {
		case "!":
			return Shape{Kind: ShapeBool}
		case "-":
			return c.exprShape(v.Right)
		}
		return Shape{Kind: ShapeUnknown}
	case *ast.CallExpr:
		return c.callShape(v)
	case *ast.MethodCallExpr:
		return c.methodShape(v)
	case *ast.FieldExpr:
		return c.fieldShape(v)
	case *ast.IndexExpr:
		recv := c.exprShape(v.Receiver)
		if recv.Kind == ShapeNamed && strings.HasPrefix(recv.Name, "Vec<") {
			return vecElemShape(recv.Name)
		}
		return Shape{Kind: ShapeUnknown}
	case *ast.CastExpr:
		return typeShape(v.Type)
	case *ast.IfExpr:
		if v.Else == nil {
			return Shape{Kind: ShapeUnit}
		}
		return resultJoin(c.blockShape(v.Then), c.exprShape(v.Else))
	case *ast.BlockExpr:
		return c.blockShape(v)
	case *ast.MatchExpr:
		s := Shape{Kind: ShapeNever}
		for _, arm := range v.Arms {
			s = resultJoin(s, c.exprShape(arm.Body))
		}
		if len(v.Arms) == 0 {
			return Shape{Kind: ShapeUnknown}
		}
		return s
	case *ast.ArrayLit:
		return c.arrayShape(v)
	case *ast.TupleLit:
		return c.tupleShape(v)
	case *ast.StructLit:
		return c.structLitShape(v)
	case *ast.ListCompExpr:
		if t := scalarRustText(c.exprShape(v.Elem)); t != "" {
			return Shape{Kind: ShapeNamed, Name: "Vec<" + t + ">"}
		}
		return Shape{Kind: ShapeUnknown}
	case *ast.PipelineExpr:
		switch rhs := v.Right.(type) {
		case *ast.Ident:
			if f, ok := c.info.Uses[rhs].(*ast.FunItem); ok {
				return c.funShape(f)
			}
		case *ast.CallExpr:
			if f := calleeFun(rhs, c.info); f != nil {
				return c.funShape(f)
			}
		}
		return Shape{Kind: ShapeUnknown}
	case *ast.LoopExpr:
		return c.loopShape(v)
	case *ast.ReturnExpr, *ast.BreakExpr, *ast.ContinueExpr:
		return Shape{Kind: ShapeNever}
	case *ast.AssignExpr, *ast.CompoundAssignExpr, *ast.IncDecExpr,
		*ast.WhileExpr, *ast.ForExpr, *ast.SendExpr:
		return Shape{Kind: ShapeUnit}
	}
	return Shape{Kind: ShapeUnknown}
}

func (c *shapeClassifier) infixShape(e *ast.InfixExpr) Shape {
	switch e.Op {
	case "==", "!=", "<", "<=", ">", ">=", "&&", "||":
		return Shape{Kind: ShapeBool}
	case "+":
		if syntacticallyString(e.Left, c.info) || syntacticallyString(e.Right, c.info) {
			return Shape{Kind: ShapeString}
		}
		return arithJoin(c.exprShape(e.Left), c.exprShape(e.Right))
	case "-", "*", "/", "%", "**":
		return arithJoin(c.exprShape(e.Left), c.exprShape(e.Right))
	}
	return Shape{Kind: ShapeUnknown}
}

func (c *shapeClassifier) callShape(e *ast.CallExpr) Shape {
	if f := calleeFun(e, c.info); f != nil {
		return c.funShape(f)
	}
	switch callee := e.Callee.(type) {
	case *ast.Ident:
		if _, ok := c.info.Uses[callee]; !ok {
			if s, ok := builtinCallShapes[callee.Name]; ok {
				return s
			}
		}
	case *ast.PathExpr:
		// Tuple-variant constructor such as Shape::Circle(r).
		if len(callee.Segments) == 2 {
			if _, ok := c.info.Enums[callee.Segments[0].Name]; ok {
				return Shape{Kind: ShapeNamed, Name: callee.Segments[0].Name}
			}
		}
	}
	return Shape{Kind: ShapeUnknown}
}

func (c *shapeClassifier) methodShape(e *ast.MethodCallExpr) Shape {
	name := e.Method.Name
	switch {
	case stringResultMethods[name]:
		return Shape{Kind: ShapeString}
	case name == "len" || name == "count" || name == "pow":
		return Shape{Kind: ShapeInt}
	case name == "contains" || name == "is_empty" || name == "starts_with" ||
		name == "ends_with" || name == "any" || name == "all":
		return Shape{Kind: ShapeBool}
	case floatEvidenceMethods[name]:
		return Shape{Kind: ShapeFloat}
	case name == "abs" || name == "min" || name == "max":
		return c.exprShape(e.Receiver)
	}
	return Shape{Kind: ShapeUnknown}
}

func (c *shapeClassifier) fieldShape(e *ast.FieldExpr) Shape {
	recv := c.exprShape(e.Receiver)
	if recv.Kind != ShapeNamed {
		return Shape{Kind: ShapeUnknown}
	}
	st, ok := c.info.Structs[recv.Name]
	if !ok {
		return Shape{Kind: ShapeUnknown}
	}
	for _, f := range st.Fields {
		if f.Name.Name == e.Field.Name {
			return typeShape(f.Type)
		}
	}
	return Shape{Kind: ShapeUnknown}
}

func (c *shapeClassifier) arrayShape(v *ast.ArrayLit) Shape {
	if len(v.Elems) == 0 {
		return Shape{Kind: ShapeUnknown}
	}
	elem := c.exprShape(v.Elems[0])
	for _, el := range v.Elems[1:] {
		elem = resultJoin(elem, c.exprShape(el))
	}
	if t := scalarRustText(elem); t != "" {
		return Shape{Kind: ShapeNamed, Name: "Vec<" + t + ">"}
	}
	return Shape{Kind: ShapeUnknown}
}

func (c *shapeClassifier) tupleShape(v *ast.TupleLit) Shape {
	parts := make([]string, len(v.Elems))
	for i, el := range v.Elems {
		t := scalarRustText(c.exprShape(el))
		if t == "" {
			return Shape{Kind: ShapeUnknown}
		}
		parts[i] = t
	}
	return Shape{Kind: ShapeNamed, Name: "(" + strings.Join(parts, ", ") + ")"}
}

func (c *shapeClassifier) structLitShape(e *ast.StructLit) Shape {
	switch p := e.Path.(type) {
	case *ast.Ident:
		return Shape{Kind: ShapeNamed, Name: p.Name}
	case *ast.PathExpr:
		if len(p.Segments) == 0 {
			return Shape{Kind: ShapeUnknown}
		}
		first := p.Segments[0].Name
		if _, ok := c.info.Enums[first]; ok {
			return Shape{Kind: ShapeNamed, Name: first}
		}
		names := make([]string, len(p.Segments))
		for i, seg := range p.Segments {
			names[i] = seg.Name
		}
		return Shape{Kind: ShapeNamed, Name: strings.Join(names, "::")}
	}
	return Shape{Kind: ShapeUnknown}
}

// loopShape joins the values of breaks belonging to this loop; a loop that
// never breaks diverges.
func (c *shapeClassifier) loopShape(v *ast.LoopExpr) Shape {
	s := Shape{Kind: ShapeNever}
	for _, br := range collectLoopBreaks(v.Body) {
		if br.Value == nil {
			s = resultJoin(s, Shape{Kind: ShapeUnit})
		} else {
			s = resultJoin(s, c.exprShape(br.Value))
		}
	}
	return s
}

// collectLoopBreaks gathers breaks bound to this loop, skipping nested
// loops and closures.
func collectLoopBreaks(b *ast.BlockExpr) []*ast.BreakExpr {
	var out []*ast.BreakExpr
	ast.Walk(b, func(n ast.Node) bool {
		switch v := n.(type) {
		case *ast.LambdaExpr, *ast.LoopExpr, *ast.WhileExpr, *ast.ForExpr:
			return false
		case *ast.BreakExpr:
			out = append(out, v)
		}
		return true
	})
	return out
}

// bindingShape classifies the value a binding holds.
func (c *shapeClassifier) bindingShape(site ast.Node) Shape {
	switch b := site.(type) {
	case *ast.Param:
		if b.Type != nil {
			return typeShape(b.Type)
		}
		return hintShape(c.info.HintFor(b))
	case *ast.LetStmt:
		if b.Type != nil {
			return typeShape(b.Type)
		}
		if b.Value != nil {
			return c.exprShape(b.Value)
		}
	}
	return Shape{Kind: ShapeUnknown}
}

// hintShape converts an emitted hint type back to a shape.
func hintShape(h string) Shape {
	switch h {
	case "i64":
		return Shape{Kind: ShapeInt}
	case "f64":
		return Shape{Kind: ShapeFloat}
	case "bool":
		return Shape{Kind: ShapeBool}
	case "String":
		return Shape{Kind: ShapeString}
	}
	if strings.HasPrefix(h, "Vec<") {
		return Shape{Kind: ShapeNamed, Name: h}
	}
	return Shape{Kind: ShapeUnknown}
}

// arithJoin merges operand shapes for arithmetic: floats win, a known side
// covers an unknown one.
func arithJoin(a, b Shape) Shape {
	if a.Kind == ShapeFloat || b.Kind == ShapeFloat {
		return Shape{Kind: ShapeFloat}
	}
	if a.Kind == ShapeInt || b.Kind == ShapeInt {
		return Shape{Kind: ShapeInt}
	}
	return Shape{Kind: ShapeUnknown}
}

// resultJoin merges shapes from different exits. Divergence is the identity;
// string subkinds collapse to the syntactic class for later refinement;
// everything else must agree exactly.
func resultJoin(a, b Shape) Shape {
	if a.Kind == ShapeNever {
		return b
	}
	if b.Kind == ShapeNever {
		return a
	}
	if isStringKind(a.Kind) && isStringKind(b.Kind) {
		if a.Kind == b.Kind {
			return a
		}
		return Shape{Kind: ShapeString}
	}
	if a.Kind != b.Kind {
		return Shape{Kind: ShapeUnknown}
	}
	if a.Kind == ShapeNamed && a.Name != b.Name {
		return Shape{Kind: ShapeUnknown}
	}
	return a
}

func isStringKind(k ShapeKind) bool {
	return k == ShapeString || k == ShapeStringOwned || k == ShapeStringBorrowed
}

// scalarRustText renders a scalar element shape, or "" when the element
// type cannot be spelled.
func scalarRustText(s Shape) string {
	switch s.Kind {
	case ShapeInt:
		return "i64"
	case ShapeFloat:
		return "f64"
	case ShapeBool:
		return "bool"
	case ShapeChar:
		return "char"
	default:
		return ""
	}
}

// vecElemShape recovers the element shape from an emitted Vec type name.
func vecElemShape(name string) Shape {
	inner := strings.TrimSuffix(strings.TrimPrefix(name, "Vec<"), ">")
	switch inner {
	case "i64":
		return Shape{Kind: ShapeInt}
	case "f64":
		return Shape{Kind: ShapeFloat}
	case "bool":
		return Shape{Kind: ShapeBool}
	case "char":
		return Shape{Kind: ShapeChar}
	case "String":
		return Shape{Kind: ShapeStringOwned}
	case "&str":
		return Shape{Kind: ShapeStringBorrowed}
	}
	if strings.HasPrefix(inner, "Vec<") {
		return Shape{Kind: ShapeNamed, Name: inner}
	}
	return Shape{Kind: ShapeUnknown}
}
