// Package printer renders a parsed program back to canonical source form:
// four-space indents, one space around binary operators, declarations
// separated by blank lines. Printing a program and reparsing the output
// yields a structurally identical tree, and printing is idempotent.
package printer

import (
	"strings"

	"github.com/ruchy-lang/ruchy/internal/ast"
)

// Print renders the program in canonical form. The result always ends with
// a newline.
func Print(prog *ast.Program) string {
	var b strings.Builder
	p := &printer{out: out{b: &b}}
	p.printProgram(prog)
	return strings.TrimRight(b.String(), "\n") + "\n"
}

type out struct {
	b     *strings.Builder
	depth int
}

func (o *out) write(s string) { o.b.WriteString(s) }
func (o *out) nl()            { o.b.WriteByte('\n') }
func (o *out) pad() {
	for i := 0; i < o.depth; i++ {
		o.b.WriteString("    ")
	}
}
func (o *out) withIndent(fn func()) { o.depth++; fn(); o.depth-- }

type printer struct {
	out
}

func (p *printer) printProgram(prog *ast.Program) {
	for i, item := range prog.Items {
		if i > 0 {
			p.nl()
			if !adjacentStmts(prog.Items[i-1], item) {
				p.nl()
			}
		}
		p.printItem(item)
	}
	p.nl()
}

// adjacentStmts reports whether two consecutive items are both loose
// statements. Script statements flow line by line; declarations get a blank
// line between them.
func adjacentStmts(a, b ast.Item) bool {
	_, aStmt := a.(*ast.StmtItem)
	_, bStmt := b.(*ast.StmtItem)
	return aStmt && bStmt
}

func (p *printer) printItem(item ast.Item) {
	switch n := item.(type) {
	case *ast.FunItem:
		p.printFun(n)
	case *ast.StructItem:
		p.printStruct(n)
	case *ast.EnumItem:
		p.printEnum(n)
	case *ast.TraitItem:
		p.printTrait(n)
	case *ast.ImplItem:
		p.printImpl(n)
	case *ast.UseItem:
		p.printUse(n)
	case *ast.ActorItem:
		p.printActor(n)
	case *ast.StmtItem:
		p.printStmt(n.Stmt)
	}
}

func (p *printer) printAttrs(attrs []*ast.Attribute) {
	for _, attr := range attrs {
		p.pad()
		p.write("#[")
		p.write(attr.Name.Name)
		if len(attr.Args) > 0 {
			p.write("(")
			for i, arg := range attr.Args {
				if i > 0 {
					p.write(", ")
				}
				if isBareAttrArg(arg) {
					p.write(arg)
				} else {
					p.write(quoteString(arg))
				}
			}
			p.write(")")
		}
		p.write("]")
		p.nl()
	}
}

// isBareAttrArg reports whether an attribute argument can be written without
// quotes and survive relexing as a single token.
func isBareAttrArg(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9':
			_ = i
		default:
			return false
		}
	}
	return true
}

func (p *printer) printFun(fn *ast.FunItem) {
	p.printAttrs(fn.Attrs)
	p.pad()
	if fn.Pub {
		p.write("pub ")
	}
	p.write("fun ")
	p.write(fn.Name.Name)

	if len(fn.TypeParams) > 0 {
		p.write("<")
		for i, tp := range fn.TypeParams {
			if i > 0 {
				p.write(", ")
			}
			p.write(tp.Name)
		}
		p.write(">")
	}

	p.write("(")
	first := true
	if fn.Receiver != nil {
		p.printReceiver(fn.Receiver)
		first = false
	}
	for _, param := range fn.Params {
		if !first {
			p.write(", ")
		}
		first = false
		p.printParam(param)
	}
	p.write(")")

	if fn.ReturnType != nil {
		p.write(" -> ")
		p.printType(fn.ReturnType)
	}

	if fn.Body == nil {
		p.write(";")
		return
	}
	p.write(" ")
	p.printBlock(fn.Body)
}

func (p *printer) printReceiver(r *ast.Receiver) {
	switch {
	case r.Borrowed && r.Mutable:
		p.write("&mut self")
	case r.Borrowed:
		p.write("&self")
	case r.Mutable:
		p.write("mut self")
	default:
		p.write("self")
	}
}

func (p *printer) printParam(param *ast.Param) {
	p.write(param.Name.Name)
	if param.Type != nil {
		p.write(": ")
		p.printType(param.Type)
	}
	if param.Default != nil {
		p.write(" = ")
		p.printExpr(param.Default, precLowest)
	}
}

func (p *printer) printStruct(s *ast.StructItem) {
	p.printAttrs(s.Attrs)
	p.pad()
	if s.Pub {
		p.write("pub ")
	}
	p.write("struct ")
	p.write(s.Name.Name)
	p.printTypeParams(s.TypeParams)
	p.printFieldDefs(s.Fields)
}

func (p *printer) printTypeParams(params []*ast.Ident) {
	if len(params) == 0 {
		return
	}
	p.write("<")
	for i, tp := range params {
		if i > 0 {
			p.write(", ")
		}
		p.write(tp.Name)
	}
	p.write(">")
}

func (p *printer) printFieldDefs(fields []*ast.FieldDef) {
	if len(fields) == 0 {
		p.write(" {}")
		return
	}
	p.write(" {")
	p.nl()
	p.withIndent(func() {
		for _, f := range fields {
			p.pad()
			if f.Pub {
				p.write("pub ")
			}
			p.write(f.Name.Name)
			p.write(": ")
			p.printType(f.Type)
			p.write(",")
			p.nl()
		}
	})
	p.pad()
	p.write("}")
}

func (p *printer) printEnum(e *ast.EnumItem) {
	p.printAttrs(e.Attrs)
	p.pad()
	if e.Pub {
		p.write("pub ")
	}
	p.write("enum ")
	p.write(e.Name.Name)
	p.printTypeParams(e.TypeParams)
	if len(e.Variants) == 0 {
		p.write(" {}")
		return
	}
	p.write(" {")
	p.nl()
	p.withIndent(func() {
		for _, v := range e.Variants {
			p.pad()
			p.write(v.Name.Name)
			if len(v.Fields) > 0 {
				p.write("(")
				for i, f := range v.Fields {
					if i > 0 {
						p.write(", ")
					}
					p.printType(f)
				}
				p.write(")")
			}
			p.write(",")
			p.nl()
		}
	})
	p.pad()
	p.write("}")
}

func (p *printer) printTrait(t *ast.TraitItem) {
	p.printAttrs(t.Attrs)
	p.pad()
	if t.Pub {
		p.write("pub ")
	}
	p.write("trait ")
	p.write(t.Name.Name)
	if len(t.Methods) == 0 {
		p.write(" {}")
		return
	}
	p.write(" {")
	p.nl()
	p.withIndent(func() {
		for i, m := range t.Methods {
			if i > 0 {
				p.nl()
			}
			p.printFun(m)
			p.nl()
		}
	})
	p.pad()
	p.write("}")
}

func (p *printer) printImpl(im *ast.ImplItem) {
	p.pad()
	p.write("impl ")
	if im.Trait != nil {
		p.printType(im.Trait)
		p.write(" for ")
	}
	p.printType(im.For)
	if len(im.Methods) == 0 {
		p.write(" {}")
		return
	}
	p.write(" {")
	p.nl()
	p.withIndent(func() {
		for i, m := range im.Methods {
			if i > 0 {
				p.nl()
			}
			p.printFun(m)
			p.nl()
		}
	})
	p.pad()
	p.write("}")
}

func (p *printer) printUse(u *ast.UseItem) {
	p.pad()
	p.write("use ")
	for i, seg := range u.Path {
		if i > 0 {
			p.write("::")
		}
		p.write(seg.Name)
	}
	if u.Alias != nil {
		p.write(" as ")
		p.write(u.Alias.Name)
	}
}

func (p *printer) printActor(a *ast.ActorItem) {
	p.pad()
	p.write("actor ")
	p.write(a.Name.Name)
	p.printFieldDefs(a.Fields)
}

func (p *printer) printStmt(stmt ast.Stmt) {
	switch n := stmt.(type) {
	case *ast.LetStmt:
		p.pad()
		p.write("let ")
		if n.Mutable {
			p.write("mut ")
		}
		p.write(n.Name.Name)
		if n.Type != nil {
			p.write(": ")
			p.printType(n.Type)
		}
		if n.Value != nil {
			p.write(" = ")
			p.printExpr(n.Value, precLowest)
		}
		p.write(";")

	case *ast.GuardStmt:
		p.pad()
		p.write("guard ")
		p.printExpr(n.Cond, precLowest)
		p.write(" else ")
		p.printBlock(n.Else)

	case *ast.DeferStmt:
		p.pad()
		p.write("defer ")
		p.printBlock(n.Body)

	case *ast.ExprStmt:
		p.pad()
		p.printExpr(n.Expr, precLowest)
		p.write(";")
	}
}

// printBlock renders '{ ... }'. Statements keep their terminators; the tail
// expression goes last without one so it reads back as the block's value.
func (p *printer) printBlock(b *ast.BlockExpr) {
	if len(b.Stmts) == 0 && b.Tail == nil {
		p.write("{}")
		return
	}
	p.write("{")
	p.nl()
	p.withIndent(func() {
		for _, s := range b.Stmts {
			p.printStmt(s)
			p.nl()
		}
		if b.Tail != nil {
			p.pad()
			p.printExpr(b.Tail, precLowest)
			p.nl()
		}
	})
	p.pad()
	p.write("}")
}

func (p *printer) printType(t ast.TypeExpr) {
	switch n := t.(type) {
	case *ast.NamedType:
		if inner, ok := optionalInner(n); ok {
			// Optional<T> prints as the suffix sugar it parsed from.
			switch inner.(type) {
			case *ast.FunType, *ast.RefType:
				p.write("(")
				p.printType(inner)
				p.write(")")
			default:
				p.printType(inner)
			}
			p.write("?")
			return
		}
		for i, seg := range n.Segments {
			if i > 0 {
				p.write("::")
			}
			p.write(seg.Name)
		}
		if len(n.Args) > 0 {
			p.write("<")
			for i, arg := range n.Args {
				if i > 0 {
					p.write(", ")
				}
				p.printType(arg)
			}
			p.write(">")
		}

	case *ast.ListType:
		p.write("[")
		p.printType(n.Elem)
		p.write("]")

	case *ast.TupleType:
		p.write("(")
		for i, el := range n.Elems {
			if i > 0 {
				p.write(", ")
			}
			p.printType(el)
		}
		p.write(")")

	case *ast.RefType:
		if n.Mutable {
			p.write("&mut ")
		} else {
			p.write("&")
		}
		p.printType(n.Elem)

	case *ast.FunType:
		p.write("(")
		for i, param := range n.Params {
			if i > 0 {
				p.write(", ")
			}
			p.printType(param)
		}
		p.write(") -> ")
		p.printType(n.Return)

	case *ast.UnitType:
		p.write("()")

	case *ast.InferType:
		p.write("_")
	}
}

// optionalInner unwraps a bare Optional<T> so it can print as T?.
func optionalInner(n *ast.NamedType) (ast.TypeExpr, bool) {
	if len(n.Segments) == 1 && n.Segments[0].Name == "Optional" && len(n.Args) == 1 {
		return n.Args[0], true
	}
	return nil, false
}

func (p *printer) printPattern(pat ast.Pattern) {
	switch n := pat.(type) {
	case *ast.PatternWild:
		p.write("_")

	case *ast.PatternIdent:
		if n.Mutable {
			p.write("mut ")
		}
		p.write(n.Name.Name)

	case *ast.PatternPath:
		for i, seg := range n.Segments {
			if i > 0 {
				p.write("::")
			}
			p.write(seg.Name)
		}

	case *ast.PatternLiteral:
		p.printExpr(n.Expr, precLowest)

	case *ast.PatternRange:
		p.printExpr(n.Start, precLowest)
		if n.Inclusive {
			p.write("..=")
		} else {
			p.write("..")
		}
		p.printExpr(n.End, precLowest)

	case *ast.PatternTuple:
		p.write("(")
		for i, el := range n.Elements {
			if i > 0 {
				p.write(", ")
			}
			p.printPattern(el)
		}
		p.write(")")

	case *ast.PatternTupleStruct:
		p.printPattern(n.Path)
		p.write("(")
		for i, el := range n.Elements {
			if i > 0 {
				p.write(", ")
			}
			p.printPattern(el)
		}
		p.write(")")

	case *ast.PatternOr:
		for i, alt := range n.Patterns {
			if i > 0 {
				p.write(" | ")
			}
			p.printPattern(alt)
		}
	}
}
