package parser

import (
	"fmt"

	"github.com/ruchy-lang/ruchy/internal/ast"
	"github.com/ruchy-lang/ruchy/internal/diag"
	"github.com/ruchy-lang/ruchy/internal/lexer"
)

// parseItem parses one top-level item. Expressions and statements are
// allowed at the top level for script-style programs; they come back
// wrapped in an ast.StmtItem.
func (p *Parser) parseItem() ast.Item {
	start := p.curTok.Span

	var attrs []*ast.Attribute
	if p.curTok.Type == lexer.HASH {
		attrs = p.parseAttributes()
		if attrs == nil {
			return nil
		}
	}

	pub := false
	if p.curTok.Type == lexer.PUB {
		pub = true
		p.nextToken() // move past 'pub'
	}

	switch p.curTok.Type {
	case lexer.FUN:
		if fn := p.parseFunItem(attrs, pub, start); fn != nil {
			return fn
		}
		return nil
	case lexer.STRUCT:
		return p.parseStructItem(attrs, pub, start)
	case lexer.ENUM:
		return p.parseEnumItem(attrs, pub, start)
	case lexer.TRAIT:
		return p.parseTraitItem(attrs, pub, start)
	case lexer.IMPL:
		return p.parseImplItem(start)
	case lexer.USE:
		return p.parseUseItem(start)
	case lexer.ACTOR:
		return p.parseActorItem(start)
	}

	if pub || len(attrs) > 0 {
		msg := "expected item declaration, found " + describeToken(p.curTok)
		help := ""
		if p.curTok.Type == lexer.IDENT {
			if s := diag.Suggest(p.curTok.Raw, lexer.Keywords()); s != "" {
				help = fmt.Sprintf("did you mean '%s'?", s)
			}
		}
		p.reportErrorWithHelp(diag.CodeParseUnexpectedToken, msg, p.curTok.Span, help)
		return nil
	}

	stmt := p.parseStmt()
	if stmt == nil {
		return nil
	}
	return ast.NewStmtItem(stmt)
}

// parseAttributes parses one or more '#[name]' or '#[name(args)]' markers.
// On return the current token is the first token after the attributes.
func (p *Parser) parseAttributes() []*ast.Attribute {
	var attrs []*ast.Attribute

	for p.curTok.Type == lexer.HASH {
		start := p.curTok.Span

		if !p.expect(lexer.LBRACKET) {
			return nil
		}

		if !p.expect(lexer.IDENT) {
			return nil
		}

		name := ast.NewIdent(p.curTok.Value, p.curTok.Span)

		var args []string
		if p.peekTok.Type == lexer.LPAREN {
			p.nextToken() // move to '('

			for p.peekTok.Type != lexer.RPAREN && p.peekTok.Type != lexer.EOF {
				p.nextToken()

				switch p.curTok.Type {
				case lexer.IDENT, lexer.STRING, lexer.INT:
					args = append(args, p.curTok.Value)
				default:
					p.reportError("expected attribute argument", p.curTok.Span)
					return nil
				}

				if p.peekTok.Type == lexer.COMMA {
					p.nextToken()
				}
			}

			if !p.expect(lexer.RPAREN) {
				return nil
			}
		}

		if !p.expect(lexer.RBRACKET) {
			return nil
		}

		attrs = append(attrs, ast.NewAttribute(name, args, p.spanWithFilename(mergeSpan(start, p.curTok.Span))))

		p.nextToken() // move past ']'
	}

	return attrs
}

// parseFnSignature parses a function header from the 'fun' keyword through
// the optional return type. The body is left nil for the caller.
func (p *Parser) parseFnSignature(attrs []*ast.Attribute, pub bool, start lexer.Span) *ast.FunItem {
	if !p.expect(lexer.IDENT) {
		return nil
	}

	name := ast.NewIdent(p.curTok.Value, p.curTok.Span)

	var typeParams []*ast.Ident
	if p.peekTok.Type == lexer.LT {
		tps, ok := p.parseTypeParams()
		if !ok {
			return nil
		}
		typeParams = tps
	}

	if !p.expect(lexer.LPAREN) {
		return nil
	}

	recv, params, ok := p.parseFunParams()
	if !ok {
		return nil
	}

	span := mergeSpan(start, p.curTok.Span)

	var ret ast.TypeExpr
	if p.peekTok.Type == lexer.ARROW {
		p.nextToken() // move to '->'
		p.nextToken()

		ret = p.parseTypeExpr()
		if ret == nil {
			return nil
		}
		span = mergeSpan(span, ret.Span())
	}

	fn := ast.NewFunItem(name, params, ret, nil, p.spanWithFilename(span))
	fn.Attrs = attrs
	fn.Pub = pub
	fn.TypeParams = typeParams
	fn.Receiver = recv
	return fn
}

func (p *Parser) parseFunItem(attrs []*ast.Attribute, pub bool, start lexer.Span) *ast.FunItem {
	fn := p.parseFnSignature(attrs, pub, start)
	if fn == nil {
		return nil
	}

	if !p.expect(lexer.LBRACE) {
		return nil
	}

	body := p.parseBlockExpr()
	if body == nil {
		return nil
	}

	fn.Body = body
	fn.SetSpan(p.spanWithFilename(mergeSpan(fn.Span(), body.Span())))
	return fn
}

// parseTypeParams parses '<T, U>' after a declaration name. Type
// parameters are bare identifiers.
func (p *Parser) parseTypeParams() ([]*ast.Ident, bool) {
	p.nextToken() // move to '<'

	var params []*ast.Ident

	for {
		if !p.expect(lexer.IDENT) {
			return nil, false
		}
		params = append(params, ast.NewIdent(p.curTok.Value, p.curTok.Span))

		switch p.peekTok.Type {
		case lexer.COMMA:
			p.nextToken()
		case lexer.GT:
			p.nextToken()
			return params, true
		default:
			p.reportExpectedToken(lexer.GT, p.peekTok)
			return nil, false
		}
	}
}

// parseFunParams parses a parameter list starting at the opening
// parenthesis. A leading self, &self, &mut self or mut self becomes the
// receiver. On return the current token is ')'.
func (p *Parser) parseFunParams() (*ast.Receiver, []*ast.Param, bool) {
	if p.peekTok.Type == lexer.RPAREN {
		p.nextToken() // move to ')'
		return nil, nil, true
	}

	p.nextToken() // move to first parameter

	recv := p.tryParseReceiver()
	if recv != nil {
		switch p.peekTok.Type {
		case lexer.COMMA:
			p.nextToken() // move to ','
			p.nextToken()
		case lexer.RPAREN:
			p.nextToken()
			return recv, nil, true
		default:
			p.reportError("expected ',' or ')' after receiver", p.peekTok.Span)
			return nil, nil, false
		}
	}

	params, ok := parseDelimited(p, delimitedConfig{
		Closing:             lexer.RPAREN,
		Separator:           lexer.COMMA,
		AllowTrailing:       true,
		MissingElementMsg:   "expected parameter name",
		MissingSeparatorMsg: "expected ',' or ')' after parameter",
	}, func(int) (*ast.Param, bool) {
		return p.parseParam()
	})
	if !ok {
		return nil, nil, false
	}

	return recv, params, true
}

func (p *Parser) tryParseReceiver() *ast.Receiver {
	switch p.curTok.Type {
	case lexer.IDENT:
		if p.curTok.Value != "self" {
			return nil
		}
		return ast.NewReceiver(false, false, p.spanWithFilename(p.curTok.Span))

	case lexer.AMPERSAND:
		start := p.curTok.Span
		if p.peekTok.Type == lexer.MUT && p.peekAt(2).Type == lexer.IDENT && p.peekAt(2).Value == "self" {
			p.nextToken() // move to 'mut'
			p.nextToken() // move to 'self'
			return ast.NewReceiver(true, true, p.spanWithFilename(mergeSpan(start, p.curTok.Span)))
		}
		if p.peekTok.Type == lexer.IDENT && p.peekTok.Value == "self" {
			p.nextToken() // move to 'self'
			return ast.NewReceiver(true, false, p.spanWithFilename(mergeSpan(start, p.curTok.Span)))
		}

	case lexer.MUT:
		if p.peekTok.Type == lexer.IDENT && p.peekTok.Value == "self" {
			start := p.curTok.Span
			p.nextToken() // move to 'self'
			return ast.NewReceiver(false, true, p.spanWithFilename(mergeSpan(start, p.curTok.Span)))
		}
	}
	return nil
}

// parseParam parses 'name [: Type] [= default]'.
func (p *Parser) parseParam() (*ast.Param, bool) {
	if p.curTok.Type != lexer.IDENT {
		p.reportError("expected parameter name", p.curTok.Span)
		return nil, false
	}

	name := ast.NewIdent(p.curTok.Value, p.curTok.Span)
	span := p.curTok.Span

	var typ ast.TypeExpr
	if p.peekTok.Type == lexer.COLON {
		p.nextToken() // move to ':'
		p.nextToken()

		typ = p.parseTypeExpr()
		if typ == nil {
			return nil, false
		}
		span = mergeSpan(span, typ.Span())
	}

	var def ast.Expr
	if p.peekTok.Type == lexer.ASSIGN {
		p.nextToken() // move to '='
		p.nextToken()

		def = p.parseExpr()
		if def == nil {
			return nil, false
		}
		span = mergeSpan(span, def.Span())
	}

	param := ast.NewParam(name, typ, p.spanWithFilename(span))
	param.Default = def
	return param, true
}

func (p *Parser) parseStructItem(attrs []*ast.Attribute, pub bool, start lexer.Span) ast.Item {
	if !p.expect(lexer.IDENT) {
		return nil
	}

	name := ast.NewIdent(p.curTok.Value, p.curTok.Span)

	var typeParams []*ast.Ident
	if p.peekTok.Type == lexer.LT {
		tps, ok := p.parseTypeParams()
		if !ok {
			return nil
		}
		typeParams = tps
	}

	if !p.expect(lexer.LBRACE) {
		return nil
	}

	fields, ok := p.parseFieldDefs("struct body")
	if !ok {
		return nil
	}

	span := p.spanWithFilename(mergeSpan(start, p.curTok.Span))
	item := ast.NewStructItem(name, fields, span)
	item.Attrs = attrs
	item.Pub = pub
	item.TypeParams = typeParams
	return item
}

// parseFieldDefs parses '[pub] name: Type' fields until the closing brace.
// The current token is '{' on entry and '}' on return.
func (p *Parser) parseFieldDefs(what string) ([]*ast.FieldDef, bool) {
	p.nextToken() // move past '{'

	var fields []*ast.FieldDef

	for p.curTok.Type != lexer.RBRACE && p.curTok.Type != lexer.EOF {
		fieldStart := p.curTok.Span

		fieldPub := false
		if p.curTok.Type == lexer.PUB {
			fieldPub = true
			p.nextToken()
		}

		if p.curTok.Type != lexer.IDENT {
			p.reportError("expected field name", p.curTok.Span)
			return nil, false
		}

		fieldName := ast.NewIdent(p.curTok.Value, p.curTok.Span)

		if !p.expect(lexer.COLON) {
			return nil, false
		}

		p.nextToken() // move to field type

		fieldType := p.parseTypeExpr()
		if fieldType == nil {
			return nil, false
		}

		field := ast.NewFieldDef(fieldName, fieldType, p.spanWithFilename(mergeSpan(fieldStart, fieldType.Span())))
		field.Pub = fieldPub
		fields = append(fields, field)

		switch p.peekTok.Type {
		case lexer.COMMA:
			p.nextToken() // move to ','
			p.nextToken()
		case lexer.RBRACE:
			p.nextToken()
		default:
			p.reportError("expected ',' or '}' after field", p.peekTok.Span)
			return nil, false
		}
	}

	if p.curTok.Type != lexer.RBRACE {
		p.reportUnclosed(lexer.RBRACE, what, p.curTok)
		return nil, false
	}

	return fields, true
}

func (p *Parser) parseEnumItem(attrs []*ast.Attribute, pub bool, start lexer.Span) ast.Item {
	if !p.expect(lexer.IDENT) {
		return nil
	}

	name := ast.NewIdent(p.curTok.Value, p.curTok.Span)

	var typeParams []*ast.Ident
	if p.peekTok.Type == lexer.LT {
		tps, ok := p.parseTypeParams()
		if !ok {
			return nil
		}
		typeParams = tps
	}

	if !p.expect(lexer.LBRACE) {
		return nil
	}

	p.nextToken() // move past '{'

	var variants []*ast.VariantDef

	for p.curTok.Type != lexer.RBRACE && p.curTok.Type != lexer.EOF {
		variant, ok := p.parseVariantDef()
		if !ok {
			return nil
		}
		variants = append(variants, variant)

		switch p.peekTok.Type {
		case lexer.COMMA:
			p.nextToken() // move to ','
			p.nextToken()
		case lexer.RBRACE:
			p.nextToken()
		default:
			p.reportError("expected ',' or '}' after enum variant", p.peekTok.Span)
			return nil
		}
	}

	if p.curTok.Type != lexer.RBRACE {
		p.reportUnclosed(lexer.RBRACE, "enum body", p.curTok)
		return nil
	}

	span := p.spanWithFilename(mergeSpan(start, p.curTok.Span))
	item := ast.NewEnumItem(name, variants, span)
	item.Attrs = attrs
	item.Pub = pub
	item.TypeParams = typeParams
	return item
}

// parseVariantDef parses 'Name' or 'Name(Type, ...)'.
func (p *Parser) parseVariantDef() (*ast.VariantDef, bool) {
	if p.curTok.Type != lexer.IDENT {
		p.reportError("expected enum variant name", p.curTok.Span)
		return nil, false
	}

	name := ast.NewIdent(p.curTok.Value, p.curTok.Span)
	span := p.curTok.Span

	var fields []ast.TypeExpr
	if p.peekTok.Type == lexer.LPAREN {
		p.nextToken() // move to '('
		p.nextToken() // move to first field type

		res, ok := parseDelimited(p, delimitedConfig{
			Closing:             lexer.RPAREN,
			Separator:           lexer.COMMA,
			AllowTrailing:       true,
			MissingElementMsg:   "expected type",
			MissingSeparatorMsg: "expected ',' or ')' after variant field",
		}, func(int) (ast.TypeExpr, bool) {
			typ := p.parseTypeExpr()
			if typ == nil {
				return nil, false
			}
			return typ, true
		})
		if !ok {
			return nil, false
		}
		fields = res
		span = mergeSpan(span, p.curTok.Span)
	}

	return ast.NewVariantDef(name, fields, p.spanWithFilename(span)), true
}

func (p *Parser) parseTraitItem(attrs []*ast.Attribute, pub bool, start lexer.Span) ast.Item {
	if !p.expect(lexer.IDENT) {
		return nil
	}

	name := ast.NewIdent(p.curTok.Value, p.curTok.Span)

	if !p.expect(lexer.LBRACE) {
		return nil
	}

	p.nextToken() // move past '{'

	var methods []*ast.FunItem

	for p.curTok.Type != lexer.RBRACE && p.curTok.Type != lexer.EOF {
		if p.curTok.Type == lexer.SEMICOLON {
			p.nextToken()
			continue
		}

		method := p.parseTraitMethod()
		if method == nil {
			return nil
		}
		methods = append(methods, method)

		p.nextToken()
	}

	if p.curTok.Type != lexer.RBRACE {
		p.reportUnclosed(lexer.RBRACE, "trait body", p.curTok)
		return nil
	}

	span := p.spanWithFilename(mergeSpan(start, p.curTok.Span))
	item := ast.NewTraitItem(name, methods, span)
	item.Attrs = attrs
	item.Pub = pub
	return item
}

// parseTraitMethod parses a required signature ending in ';' or a default
// method with a body.
func (p *Parser) parseTraitMethod() *ast.FunItem {
	start := p.curTok.Span

	if p.curTok.Type != lexer.FUN {
		p.reportError("expected method declaration in trait body", p.curTok.Span)
		return nil
	}

	fn := p.parseFnSignature(nil, false, start)
	if fn == nil {
		return nil
	}

	switch p.peekTok.Type {
	case lexer.SEMICOLON:
		p.nextToken() // move to ';'
		return fn
	case lexer.LBRACE:
		p.nextToken() // move to '{'

		body := p.parseBlockExpr()
		if body == nil {
			return nil
		}
		fn.Body = body
		fn.SetSpan(p.spanWithFilename(mergeSpan(fn.Span(), body.Span())))
		return fn
	default:
		p.reportError("expected ';' or '{' after method signature", p.peekTok.Span)
		return nil
	}
}

// parseImplItem parses 'impl Type { ... }' and 'impl Trait for Type { ... }'.
func (p *Parser) parseImplItem(start lexer.Span) ast.Item {
	p.nextToken() // move to type

	first := p.parseTypeExpr()
	if first == nil {
		return nil
	}

	var trait, forType ast.TypeExpr
	if p.peekTok.Type == lexer.FOR {
		trait = first
		p.nextToken() // move to 'for'
		p.nextToken()

		forType = p.parseTypeExpr()
		if forType == nil {
			return nil
		}
	} else {
		forType = first
	}

	if !p.expect(lexer.LBRACE) {
		return nil
	}

	p.nextToken() // move past '{'

	var methods []*ast.FunItem

	for p.curTok.Type != lexer.RBRACE && p.curTok.Type != lexer.EOF {
		if p.curTok.Type == lexer.SEMICOLON {
			p.nextToken()
			continue
		}

		methodStart := p.curTok.Span

		var attrs []*ast.Attribute
		if p.curTok.Type == lexer.HASH {
			attrs = p.parseAttributes()
			if attrs == nil {
				return nil
			}
		}

		pub := false
		if p.curTok.Type == lexer.PUB {
			pub = true
			p.nextToken()
		}

		if p.curTok.Type != lexer.FUN {
			p.reportError("expected method declaration in impl block", p.curTok.Span)
			return nil
		}

		method := p.parseFunItem(attrs, pub, methodStart)
		if method == nil {
			return nil
		}
		methods = append(methods, method)

		p.nextToken()
	}

	if p.curTok.Type != lexer.RBRACE {
		p.reportUnclosed(lexer.RBRACE, "impl block", p.curTok)
		return nil
	}

	span := p.spanWithFilename(mergeSpan(start, p.curTok.Span))
	return ast.NewImplItem(trait, forType, methods, span)
}

// parseUseItem parses 'use a::b::c' with an optional 'as alias'.
func (p *Parser) parseUseItem(start lexer.Span) ast.Item {
	if !p.expect(lexer.IDENT) {
		return nil
	}

	path := []*ast.Ident{ast.NewIdent(p.curTok.Value, p.curTok.Span)}

	for p.peekTok.Type == lexer.DOUBLE_COLON {
		p.nextToken() // move to '::'

		if !p.expect(lexer.IDENT) {
			return nil
		}
		path = append(path, ast.NewIdent(p.curTok.Value, p.curTok.Span))
	}

	var alias *ast.Ident
	if p.peekTok.Type == lexer.AS {
		p.nextToken() // move to 'as'

		if !p.expect(lexer.IDENT) {
			return nil
		}
		alias = ast.NewIdent(p.curTok.Value, p.curTok.Span)
	}

	span := p.spanWithFilename(mergeSpan(start, p.curTok.Span))
	return ast.NewUseItem(path, alias, span)
}

// parseActorItem parses an actor declaration. The body uses struct field
// syntax for the actor's state.
func (p *Parser) parseActorItem(start lexer.Span) ast.Item {
	if !p.expect(lexer.IDENT) {
		return nil
	}

	name := ast.NewIdent(p.curTok.Value, p.curTok.Span)

	if !p.expect(lexer.LBRACE) {
		return nil
	}

	fields, ok := p.parseFieldDefs("actor body")
	if !ok {
		return nil
	}

	span := p.spanWithFilename(mergeSpan(start, p.curTok.Span))
	return ast.NewActorItem(name, fields, span)
}
