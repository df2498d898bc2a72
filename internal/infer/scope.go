package infer

import "github.com/ruchy-lang/ruchy/internal/ast"

// scope is one lexical level of name bindings. A binding site is the node
// that introduced the name: *ast.LetStmt, *ast.Param, *ast.PatternIdent,
// *ast.Receiver, a comprehension variable *ast.Ident, or a top-level item.
type scope struct {
	parent   *scope
	bindings map[string]ast.Node
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, bindings: make(map[string]ast.Node)}
}

// insert declares a name in this scope, shadowing any outer binding.
func (s *scope) insert(name string, site ast.Node) {
	s.bindings[name] = site
}

// lookup resolves a name against this scope and its ancestors.
func (s *scope) lookup(name string) ast.Node {
	for cur := s; cur != nil; cur = cur.parent {
		if site, ok := cur.bindings[name]; ok {
			return site
		}
	}
	return nil
}
