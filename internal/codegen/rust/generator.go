// Package rust emits Rust source text from a parsed program and its
// inference annotations.
//
// Emission is total over the syntax: every node either has a rule or
// produces an unsupported-construct diagnostic, and a diagnostic aborts the
// item it occurred in with no partial output. The inference side tables
// drive the parts Rust is strict about (let mut, ownership conversions,
// borrowed parameters, inferred signatures); the rest is a structural
// mapping with the desugarings applied inline.
package rust

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ruchy-lang/ruchy/internal/ast"
	"github.com/ruchy-lang/ruchy/internal/config"
	"github.com/ruchy-lang/ruchy/internal/diag"
	"github.com/ruchy-lang/ruchy/internal/infer"
	"github.com/ruchy-lang/ruchy/internal/lexer"
)

// ErrUnsupported reports that at least one construct had no emission rule.
// The diagnostics returned alongside carry the individual sites.
var ErrUnsupported = errors.New("program contains constructs with no Rust emission")

// UnsupportedError is the unit-aborting error raised by emission rules.
type UnsupportedError struct {
	Message string
	Span    lexer.Span
	Code    diag.Code
}

func (e *UnsupportedError) Error() string { return e.Message }

// Diagnostic converts the error into its user-facing form.
func (e *UnsupportedError) Diagnostic() diag.Diagnostic {
	return diag.Diagnostic{
		Stage:    diag.StageGen,
		Severity: diag.SeverityError,
		Code:     e.Code,
		Message:  e.Message,
		Span:     toDiagSpan(e.Span),
	}
}

func unsupportedExpr(what string, span lexer.Span) error {
	return &UnsupportedError{Message: "unsupported expression: " + what, Span: span, Code: diag.CodeGenUnsupportedExpr}
}

func unsupportedStmt(what string, span lexer.Span) error {
	return &UnsupportedError{Message: "unsupported statement: " + what, Span: span, Code: diag.CodeGenUnsupportedStmt}
}

func unsupportedItem(what string, span lexer.Span) error {
	return &UnsupportedError{Message: "unsupported item: " + what, Span: span, Code: diag.CodeGenUnsupportedItem}
}

func toDiagSpan(s lexer.Span) diag.Span {
	return diag.Span{Filename: s.Filename, Line: s.Line, Column: s.Column, Start: s.Start, End: s.End}
}

// scopeGuardPrelude backs defer blocks: the guard runs its closure when
// dropped, and Rust drops locals in reverse declaration order, which gives
// deferred bodies their last-in-first-out execution on every exit path.
const scopeGuardPrelude = `struct ScopeGuard<F: FnMut()>(F);

impl<F: FnMut()> Drop for ScopeGuard<F> {
    fn drop(&mut self) {
        (self.0)();
    }
}
`

// Generator renders one program. The zero value is not usable; construct it
// through Generate.
type Generator struct {
	buf    *strings.Builder
	indent int

	info   *infer.Result
	policy *config.Policy

	// needGuard is set when any defer was emitted, pulling in the prelude.
	needGuard bool
	// guardSeq numbers the guards of the function being emitted.
	guardSeq int

	errs []diag.Diagnostic
}

// Generate renders the program as Rust source. Items that contain an
// unsupported construct are dropped from the output and reported in the
// returned diagnostics; err is non-nil when any were dropped, and callers
// must not persist the output in that case. A nil info runs inference with
// the given policy; a nil policy means config.Default().
func Generate(program *ast.Program, info *infer.Result, policy *config.Policy) (string, []diag.Diagnostic, error) {
	if policy == nil {
		policy = config.Default()
	}
	if info == nil {
		info = infer.Run(program, policy)
	}
	g := &Generator{buf: &strings.Builder{}, info: info, policy: policy}

	var loose []ast.Stmt
	var looseSpan lexer.Span
	userMain := false
	for _, it := range program.Items {
		switch v := it.(type) {
		case *ast.StmtItem:
			if len(loose) == 0 {
				looseSpan = v.Span()
			}
			loose = append(loose, v.Stmt)
		case *ast.FunItem:
			if v.Name.Name == "main" && v.Receiver == nil {
				userMain = true
			}
		}
	}

	var blocks []string
	for _, it := range program.Items {
		if _, ok := it.(*ast.StmtItem); ok {
			continue
		}
		it := it
		text, err := g.capture(func() error { return g.item(it) })
		if err != nil {
			g.record(err)
			continue
		}
		blocks = append(blocks, text)
	}

	if len(loose) > 0 {
		if userMain {
			g.record(unsupportedStmt("top-level statement alongside an explicit `fun main`", looseSpan))
		} else {
			text, err := g.capture(func() error { return g.scriptMain(loose) })
			if err != nil {
				g.record(err)
			} else {
				blocks = append(blocks, text)
			}
		}
	}

	var out strings.Builder
	if g.needGuard {
		out.WriteString(scopeGuardPrelude)
	}
	for _, b := range blocks {
		if out.Len() > 0 {
			out.WriteString("\n")
		}
		out.WriteString(b)
	}

	var err error
	if n := countErrors(g.errs); n > 0 {
		err = fmt.Errorf("%w: %d error(s)", ErrUnsupported, n)
	}
	return out.String(), g.errs, err
}

func countErrors(diags []diag.Diagnostic) int {
	n := 0
	for _, d := range diags {
		if d.IsError() {
			n++
		}
	}
	return n
}

func (g *Generator) record(err error) {
	var ue *UnsupportedError
	if errors.As(err, &ue) {
		g.errs = append(g.errs, ue.Diagnostic())
		return
	}
	g.errs = append(g.errs, diag.Diagnostic{
		Stage:    diag.StageGen,
		Severity: diag.SeverityError,
		Code:     diag.CodeGenUnsupportedItem,
		Message:  err.Error(),
	})
}

// capture renders through fn into a fresh buffer and restores the previous
// buffer and indent afterwards, so an aborted item leaves no partial text
// and no indentation drift.
func (g *Generator) capture(fn func() error) (string, error) {
	oldBuf, oldIndent := g.buf, g.indent
	g.buf = &strings.Builder{}
	err := fn()
	text := g.buf.String()
	g.buf, g.indent = oldBuf, oldIndent
	return text, err
}

func (g *Generator) pad() string {
	return strings.Repeat("    ", g.indent)
}

// emit writes one line at the current indent. Multi-line text is written
// as-is after the first line; nested renderers pad their own continuations.
func (g *Generator) emit(line string) {
	if line == "" {
		g.buf.WriteString("\n")
		return
	}
	g.buf.WriteString(g.pad())
	g.buf.WriteString(line)
	g.buf.WriteString("\n")
}

func (g *Generator) emitf(format string, args ...any) {
	g.emit(fmt.Sprintf(format, args...))
}

// scriptMain wraps top-level loose statements in fn main. A final non-unit
// expression is bound and debug-printed, matching script-mode semantics.
func (g *Generator) scriptMain(stmts []ast.Stmt) error {
	g.emit("fn main() {")
	g.indent++
	g.guardSeq = 0
	for i, s := range stmts {
		if i == len(stmts)-1 {
			if es, ok := s.(*ast.ExprStmt); ok && printableShape(g.info.ScriptShape) {
				text, err := g.expr(es.Expr)
				if err != nil {
					return err
				}
				g.emit("let result = " + text + ";")
				g.emit(`println!("{:?}", result);`)
				break
			}
		}
		if err := g.stmt(s); err != nil {
			return err
		}
	}
	g.indent--
	g.emit("}")
	return nil
}

func printableShape(s infer.Shape) bool {
	switch s.Kind {
	case infer.ShapeUnit, infer.ShapeUnknown, infer.ShapeNever:
		return false
	}
	return true
}
