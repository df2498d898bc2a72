package ast

// Walk traverses the AST starting from node, calling fn for each node.
// If fn returns false, Walk stops traversing that branch.
func Walk(node Node, fn func(Node) bool) {
	if !fn(node) {
		return
	}

	switch n := node.(type) {
	case *Program:
		for _, item := range n.Items {
			Walk(item, fn)
		}

	case *FunItem:
		for _, attr := range n.Attrs {
			Walk(attr, fn)
		}
		if n.Name != nil {
			Walk(n.Name, fn)
		}
		for _, param := range n.Params {
			Walk(param, fn)
		}
		if n.ReturnType != nil {
			Walk(n.ReturnType, fn)
		}
		if n.Body != nil {
			Walk(n.Body, fn)
		}

	case *StructItem:
		for _, attr := range n.Attrs {
			Walk(attr, fn)
		}
		if n.Name != nil {
			Walk(n.Name, fn)
		}
		for _, field := range n.Fields {
			Walk(field, fn)
		}

	case *EnumItem:
		for _, attr := range n.Attrs {
			Walk(attr, fn)
		}
		if n.Name != nil {
			Walk(n.Name, fn)
		}
		for _, variant := range n.Variants {
			Walk(variant, fn)
		}

	case *TraitItem:
		if n.Name != nil {
			Walk(n.Name, fn)
		}
		for _, method := range n.Methods {
			Walk(method, fn)
		}

	case *ImplItem:
		if n.Trait != nil {
			Walk(n.Trait, fn)
		}
		if n.For != nil {
			Walk(n.For, fn)
		}
		for _, method := range n.Methods {
			Walk(method, fn)
		}

	case *UseItem:
		for _, ident := range n.Path {
			Walk(ident, fn)
		}
		if n.Alias != nil {
			Walk(n.Alias, fn)
		}

	case *ActorItem:
		if n.Name != nil {
			Walk(n.Name, fn)
		}
		for _, field := range n.Fields {
			Walk(field, fn)
		}

	case *StmtItem:
		if n.Stmt != nil {
			Walk(n.Stmt, fn)
		}

	case *Attribute:
		if n.Name != nil {
			Walk(n.Name, fn)
		}

	case *Param:
		if n.Name != nil {
			Walk(n.Name, fn)
		}
		if n.Type != nil {
			Walk(n.Type, fn)
		}
		if n.Default != nil {
			Walk(n.Default, fn)
		}

	case *FieldDef:
		if n.Name != nil {
			Walk(n.Name, fn)
		}
		if n.Type != nil {
			Walk(n.Type, fn)
		}

	case *VariantDef:
		if n.Name != nil {
			Walk(n.Name, fn)
		}
		for _, field := range n.Fields {
			Walk(field, fn)
		}

	case *LetStmt:
		if n.Name != nil {
			Walk(n.Name, fn)
		}
		if n.Type != nil {
			Walk(n.Type, fn)
		}
		if n.Value != nil {
			Walk(n.Value, fn)
		}

	case *ExprStmt:
		if n.Expr != nil {
			Walk(n.Expr, fn)
		}

	case *GuardStmt:
		if n.Cond != nil {
			Walk(n.Cond, fn)
		}
		if n.Else != nil {
			Walk(n.Else, fn)
		}

	case *DeferStmt:
		if n.Body != nil {
			Walk(n.Body, fn)
		}

	case *BlockExpr:
		for _, stmt := range n.Stmts {
			Walk(stmt, fn)
		}
		if n.Tail != nil {
			Walk(n.Tail, fn)
		}

	case *PathExpr:
		for _, seg := range n.Segments {
			Walk(seg, fn)
		}

	case *FStringExpr:
		for _, part := range n.Parts {
			if part.Expr != nil {
				Walk(part.Expr, fn)
			}
		}

	case *ArrayLit:
		for _, elem := range n.Elems {
			Walk(elem, fn)
		}

	case *TupleLit:
		for _, elem := range n.Elems {
			Walk(elem, fn)
		}

	case *StructLit:
		if n.Path != nil {
			Walk(n.Path, fn)
		}
		for _, field := range n.Fields {
			Walk(field, fn)
		}

	case *FieldInit:
		if n.Name != nil {
			Walk(n.Name, fn)
		}
		if n.Value != nil {
			Walk(n.Value, fn)
		}

	case *PrefixExpr:
		if n.Right != nil {
			Walk(n.Right, fn)
		}

	case *InfixExpr:
		if n.Left != nil {
			Walk(n.Left, fn)
		}
		if n.Right != nil {
			Walk(n.Right, fn)
		}

	case *PipelineExpr:
		if n.Left != nil {
			Walk(n.Left, fn)
		}
		if n.Right != nil {
			Walk(n.Right, fn)
		}

	case *AssignExpr:
		if n.Target != nil {
			Walk(n.Target, fn)
		}
		if n.Value != nil {
			Walk(n.Value, fn)
		}

	case *CompoundAssignExpr:
		if n.Target != nil {
			Walk(n.Target, fn)
		}
		if n.Value != nil {
			Walk(n.Value, fn)
		}

	case *IncDecExpr:
		if n.Target != nil {
			Walk(n.Target, fn)
		}

	case *CallExpr:
		if n.Callee != nil {
			Walk(n.Callee, fn)
		}
		for _, typeArg := range n.TypeArgs {
			Walk(typeArg, fn)
		}
		for _, arg := range n.Args {
			Walk(arg, fn)
		}

	case *MethodCallExpr:
		if n.Receiver != nil {
			Walk(n.Receiver, fn)
		}
		if n.Method != nil {
			Walk(n.Method, fn)
		}
		for _, arg := range n.Args {
			Walk(arg, fn)
		}

	case *FieldExpr:
		if n.Receiver != nil {
			Walk(n.Receiver, fn)
		}
		if n.Field != nil {
			Walk(n.Field, fn)
		}

	case *IndexExpr:
		if n.Receiver != nil {
			Walk(n.Receiver, fn)
		}
		if n.Index != nil {
			Walk(n.Index, fn)
		}

	case *SafeFieldExpr:
		if n.Receiver != nil {
			Walk(n.Receiver, fn)
		}
		if n.Field != nil {
			Walk(n.Field, fn)
		}

	case *SafeMethodCallExpr:
		if n.Receiver != nil {
			Walk(n.Receiver, fn)
		}
		if n.Method != nil {
			Walk(n.Method, fn)
		}
		for _, arg := range n.Args {
			Walk(arg, fn)
		}

	case *TryExpr:
		if n.Expr != nil {
			Walk(n.Expr, fn)
		}

	case *SendExpr:
		if n.Actor != nil {
			Walk(n.Actor, fn)
		}
		if n.Message != nil {
			Walk(n.Message, fn)
		}

	case *RangeExpr:
		if n.Start != nil {
			Walk(n.Start, fn)
		}
		if n.End != nil {
			Walk(n.End, fn)
		}

	case *LambdaExpr:
		for _, param := range n.Params {
			Walk(param, fn)
		}
		if n.Body != nil {
			Walk(n.Body, fn)
		}

	case *IfExpr:
		if n.Cond != nil {
			Walk(n.Cond, fn)
		}
		if n.Then != nil {
			Walk(n.Then, fn)
		}
		if n.Else != nil {
			Walk(n.Else, fn)
		}

	case *MatchExpr:
		if n.Subject != nil {
			Walk(n.Subject, fn)
		}
		for _, arm := range n.Arms {
			Walk(arm, fn)
		}

	case *MatchArm:
		if n.Pattern != nil {
			Walk(n.Pattern, fn)
		}
		if n.Guard != nil {
			Walk(n.Guard, fn)
		}
		if n.Body != nil {
			Walk(n.Body, fn)
		}

	case *ForExpr:
		if n.Pat != nil {
			Walk(n.Pat, fn)
		}
		if n.Iter != nil {
			Walk(n.Iter, fn)
		}
		if n.Body != nil {
			Walk(n.Body, fn)
		}

	case *WhileExpr:
		if n.Cond != nil {
			Walk(n.Cond, fn)
		}
		if n.Body != nil {
			Walk(n.Body, fn)
		}

	case *LoopExpr:
		if n.Body != nil {
			Walk(n.Body, fn)
		}

	case *BreakExpr:
		if n.Value != nil {
			Walk(n.Value, fn)
		}

	case *ReturnExpr:
		if n.Value != nil {
			Walk(n.Value, fn)
		}

	case *ListCompExpr:
		if n.Elem != nil {
			Walk(n.Elem, fn)
		}
		if n.Var != nil {
			Walk(n.Var, fn)
		}
		if n.Iter != nil {
			Walk(n.Iter, fn)
		}
		if n.Filter != nil {
			Walk(n.Filter, fn)
		}

	case *CastExpr:
		if n.Expr != nil {
			Walk(n.Expr, fn)
		}
		if n.Type != nil {
			Walk(n.Type, fn)
		}

	case *PatternIdent:
		if n.Name != nil {
			Walk(n.Name, fn)
		}

	case *PatternPath:
		for _, seg := range n.Segments {
			Walk(seg, fn)
		}

	case *PatternLiteral:
		if n.Expr != nil {
			Walk(n.Expr, fn)
		}

	case *PatternRange:
		if n.Start != nil {
			Walk(n.Start, fn)
		}
		if n.End != nil {
			Walk(n.End, fn)
		}

	case *PatternTuple:
		for _, elem := range n.Elements {
			Walk(elem, fn)
		}

	case *PatternTupleStruct:
		if n.Path != nil {
			Walk(n.Path, fn)
		}
		for _, elem := range n.Elements {
			Walk(elem, fn)
		}

	case *PatternOr:
		for _, pat := range n.Patterns {
			Walk(pat, fn)
		}

	case *NamedType:
		for _, seg := range n.Segments {
			Walk(seg, fn)
		}
		for _, arg := range n.Args {
			Walk(arg, fn)
		}

	case *ListType:
		if n.Elem != nil {
			Walk(n.Elem, fn)
		}

	case *TupleType:
		for _, typ := range n.Elems {
			Walk(typ, fn)
		}

	case *RefType:
		if n.Elem != nil {
			Walk(n.Elem, fn)
		}

	case *FunType:
		for _, param := range n.Params {
			Walk(param, fn)
		}
		if n.Return != nil {
			Walk(n.Return, fn)
		}

	// Leaf nodes (Ident, literals, wildcards) don't need traversal
	case *Ident, *IntegerLit, *FloatLit, *StringLit, *CharLit, *BoolLit,
		*UnitLit, *ContinueExpr, *PatternWild, *UnitType, *InferType, *Receiver:
		// No children to traverse
	}
}
