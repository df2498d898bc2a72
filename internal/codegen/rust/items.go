package rust

import (
	"fmt"
	"strings"

	"github.com/ruchy-lang/ruchy/internal/ast"
	"github.com/ruchy-lang/ruchy/internal/diag"
	"github.com/ruchy-lang/ruchy/internal/infer"
)

func (g *Generator) item(it ast.Item) error {
	switch v := it.(type) {
	case *ast.FunItem:
		return g.funItem(v)
	case *ast.StructItem:
		return g.structItem(v)
	case *ast.EnumItem:
		return g.enumItem(v)
	case *ast.TraitItem:
		return g.traitItem(v)
	case *ast.ImplItem:
		return g.implItem(v)
	case *ast.UseItem:
		return g.useItem(v)
	case *ast.ActorItem:
		return unsupportedItem("actor definition", v.Span())
	}
	return unsupportedItem(fmt.Sprintf("%T", it), it.Span())
}

func (g *Generator) funItem(f *ast.FunItem) error {
	for _, a := range f.Attrs {
		g.emit(attrText(a))
	}
	sig, err := g.signature(f)
	if err != nil {
		return err
	}
	if f.Body == nil {
		g.emit(sig + ";")
		return nil
	}
	g.emit(sig + " {")
	g.indent++
	g.guardSeq = 0
	err = g.blockBody(f.Body)
	g.indent--
	if err != nil {
		return err
	}
	g.emit("}")
	return nil
}

func (g *Generator) signature(f *ast.FunItem) (string, error) {
	var sb strings.Builder
	if f.Pub {
		sb.WriteString("pub ")
	}
	sb.WriteString("fn ")
	sb.WriteString(rawIdent(f.Name.Name))
	sb.WriteString(typeParamsText(f.TypeParams))
	sb.WriteString("(")

	var parts []string
	if f.Receiver != nil {
		parts = append(parts, g.receiverText(f.Receiver))
	}
	for _, p := range f.Params {
		text, err := g.paramText(p)
		if err != nil {
			return "", err
		}
		parts = append(parts, text)
	}
	sb.WriteString(strings.Join(parts, ", "))
	sb.WriteString(")")

	ret, err := g.returnText(f)
	if err != nil {
		return "", err
	}
	sb.WriteString(ret)
	return sb.String(), nil
}

// receiverText renders the method receiver, upgrading to &mut self when the
// body was observed mutating through it.
func (g *Generator) receiverText(r *ast.Receiver) string {
	mutated := r.Mutable || g.info.MutabilityOf(r) != infer.MutImmutable
	if r.Borrowed {
		if mutated {
			return "&mut self"
		}
		return "&self"
	}
	if mutated {
		return "mut self"
	}
	return "self"
}

func (g *Generator) paramText(p *ast.Param) (string, error) {
	if p.Default != nil {
		return "", unsupportedItem("parameter default value", p.Span())
	}
	var ty string
	if p.Type != nil {
		ty = infer.RustType(p.Type)
		if ty == "" {
			return "", &UnsupportedError{
				Message: fmt.Sprintf("unsupported type for parameter `%s`", p.Name.Name),
				Span:    p.Span(),
				Code:    diag.CodeGenUnsupportedType,
			}
		}
	} else {
		ty = g.info.HintFor(p)
	}
	if g.info.PassingOf(p) == infer.PassBorrow {
		ty = borrowType(ty)
	}
	return rawIdent(p.Name.Name) + ": " + ty, nil
}

// borrowType rewrites an owned parameter type to its borrowed spelling.
func borrowType(t string) string {
	switch {
	case t == "String":
		return "&str"
	case strings.HasPrefix(t, "Vec<") && strings.HasSuffix(t, ">"):
		return "&[" + t[len("Vec<"):len(t)-1] + "]"
	case strings.HasPrefix(t, "&"):
		return t
	}
	return "&" + t
}

func (g *Generator) returnText(f *ast.FunItem) (string, error) {
	if f.ReturnType != nil {
		if _, ok := f.ReturnType.(*ast.UnitType); ok {
			return "", nil
		}
		text := infer.RustType(f.ReturnType)
		if text == "" {
			return "", &UnsupportedError{
				Message: fmt.Sprintf("unsupported return type for `%s`", f.Name.Name),
				Span:    f.Span(),
				Code:    diag.CodeGenUnsupportedType,
			}
		}
		return " -> " + text, nil
	}
	if f.Body == nil {
		return "", nil
	}
	switch s := g.info.ShapeOf(f); s.Kind {
	case infer.ShapeUnit, infer.ShapeNever:
		return "", nil
	case infer.ShapeInt:
		return " -> i64", nil
	case infer.ShapeFloat:
		return " -> f64", nil
	case infer.ShapeBool:
		return " -> bool", nil
	case infer.ShapeChar:
		return " -> char", nil
	case infer.ShapeString, infer.ShapeStringOwned:
		return " -> String", nil
	case infer.ShapeStringBorrowed:
		return " -> &'static str", nil
	case infer.ShapeNamed:
		return " -> " + s.Name, nil
	}
	return "", &UnsupportedError{
		Message: fmt.Sprintf("cannot infer a return type for `%s`; add an annotation", f.Name.Name),
		Span:    f.Span(),
		Code:    diag.CodeGenUnsupportedType,
	}
}

func (g *Generator) structItem(s *ast.StructItem) error {
	g.derives(s.Attrs)
	head := ""
	if s.Pub {
		head = "pub "
	}
	head += "struct " + rawIdent(s.Name.Name) + typeParamsText(s.TypeParams)
	if len(s.Fields) == 0 {
		g.emit(head + ";")
		return nil
	}
	g.emit(head + " {")
	g.indent++
	for _, f := range s.Fields {
		ty := infer.RustType(f.Type)
		if ty == "" {
			return &UnsupportedError{
				Message: fmt.Sprintf("unsupported type for field `%s`", f.Name.Name),
				Span:    f.Span(),
				Code:    diag.CodeGenUnsupportedType,
			}
		}
		vis := ""
		if f.Pub {
			vis = "pub "
		}
		g.emit(vis + rawIdent(f.Name.Name) + ": " + ty + ",")
	}
	g.indent--
	g.emit("}")
	return nil
}

func (g *Generator) enumItem(e *ast.EnumItem) error {
	g.derives(e.Attrs)
	head := ""
	if e.Pub {
		head = "pub "
	}
	head += "enum " + rawIdent(e.Name.Name) + typeParamsText(e.TypeParams)
	g.emit(head + " {")
	g.indent++
	for _, v := range e.Variants {
		if len(v.Fields) == 0 {
			g.emit(v.Name.Name + ",")
			continue
		}
		parts := make([]string, len(v.Fields))
		for i, ft := range v.Fields {
			parts[i] = infer.RustType(ft)
			if parts[i] == "" {
				return &UnsupportedError{
					Message: fmt.Sprintf("unsupported type in variant `%s`", v.Name.Name),
					Span:    v.Span(),
					Code:    diag.CodeGenUnsupportedType,
				}
			}
		}
		g.emit(v.Name.Name + "(" + strings.Join(parts, ", ") + "),")
	}
	g.indent--
	g.emit("}")
	return nil
}

func (g *Generator) traitItem(t *ast.TraitItem) error {
	for _, a := range t.Attrs {
		g.emit(attrText(a))
	}
	head := ""
	if t.Pub {
		head = "pub "
	}
	g.emit(head + "trait " + rawIdent(t.Name.Name) + " {")
	g.indent++
	for _, m := range t.Methods {
		if err := g.funItem(m); err != nil {
			return err
		}
	}
	g.indent--
	g.emit("}")
	return nil
}

func (g *Generator) implItem(im *ast.ImplItem) error {
	target := infer.RustType(im.For)
	if target == "" {
		return &UnsupportedError{
			Message: "unsupported impl target type",
			Span:    im.Span(),
			Code:    diag.CodeGenUnsupportedType,
		}
	}
	head := "impl " + target
	if im.Trait != nil {
		trait := infer.RustType(im.Trait)
		if trait == "" {
			return &UnsupportedError{
				Message: "unsupported trait type in impl",
				Span:    im.Span(),
				Code:    diag.CodeGenUnsupportedType,
			}
		}
		head = "impl " + trait + " for " + target
	}
	g.emit(head + " {")
	g.indent++
	for i, m := range im.Methods {
		if i > 0 {
			g.emit("")
		}
		if err := g.funItem(m); err != nil {
			return err
		}
	}
	g.indent--
	g.emit("}")
	return nil
}

func (g *Generator) useItem(u *ast.UseItem) error {
	parts := make([]string, len(u.Path))
	for i, seg := range u.Path {
		parts[i] = seg.Name
	}
	line := "use " + strings.Join(parts, "::")
	if u.Alias != nil {
		line += " as " + rawIdent(u.Alias.Name)
	}
	g.emit(line + ";")
	return nil
}

// derives emits user attributes as written, or the default derive line when
// the item carries none.
func (g *Generator) derives(attrs []*ast.Attribute) {
	if len(attrs) == 0 {
		g.emit("#[derive(Debug, Clone)]")
		return
	}
	for _, a := range attrs {
		g.emit(attrText(a))
	}
}

func attrText(a *ast.Attribute) string {
	if len(a.Args) == 0 {
		return "#[" + a.Name.Name + "]"
	}
	return "#[" + a.Name.Name + "(" + strings.Join(a.Args, ", ") + ")]"
}

func typeParamsText(params []*ast.Ident) string {
	if len(params) == 0 {
		return ""
	}
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return "<" + strings.Join(names, ", ") + ">"
}
