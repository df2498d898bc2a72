package infer_test

import (
	"strings"
	"testing"

	"github.com/ruchy-lang/ruchy/internal/ast"
	"github.com/ruchy-lang/ruchy/internal/config"
	"github.com/ruchy-lang/ruchy/internal/diag"
	"github.com/ruchy-lang/ruchy/internal/infer"
	"github.com/ruchy-lang/ruchy/internal/parser"
)

func runInfer(t *testing.T, src string) (*ast.Program, *infer.Result) {
	t.Helper()

	return runInferWith(t, src, nil)
}

func runInferWith(t *testing.T, src string, policy *config.Policy) (*ast.Program, *infer.Result) {
	t.Helper()

	p := parser.New(src)
	program := p.ParseFile()
	if errs := p.Errors(); len(errs) > 0 {
		for _, err := range errs {
			t.Errorf("unexpected parse error: %s", err.Message)
		}
		t.Fatalf("parser reported %d error(s)", len(errs))
	}

	return program, infer.Run(program, policy)
}

func funNamed(t *testing.T, res *infer.Result, name string) *ast.FunItem {
	t.Helper()

	f, ok := res.Functions[name]
	if !ok {
		t.Fatalf("function %q not registered", name)
	}
	return f
}

func letsNamed(program *ast.Program, name string) []*ast.LetStmt {
	var found []*ast.LetStmt
	ast.Walk(program, func(n ast.Node) bool {
		if let, ok := n.(*ast.LetStmt); ok && let.Name.Name == name {
			found = append(found, let)
		}
		return true
	})
	return found
}

func letNamed(t *testing.T, program *ast.Program, name string) *ast.LetStmt {
	t.Helper()

	lets := letsNamed(program, name)
	if len(lets) != 1 {
		t.Fatalf("expected exactly one binding of %q, got %d", name, len(lets))
	}
	return lets[0]
}

func callsTo(program *ast.Program, name string) []*ast.CallExpr {
	var found []*ast.CallExpr
	ast.Walk(program, func(n ast.Node) bool {
		if call, ok := n.(*ast.CallExpr); ok {
			if id, ok := call.Callee.(*ast.Ident); ok && id.Name == name {
				found = append(found, call)
			}
		}
		return true
	})
	return found
}

func stringLits(program *ast.Program, text string) []*ast.StringLit {
	var found []*ast.StringLit
	ast.Walk(program, func(n ast.Node) bool {
		if lit, ok := n.(*ast.StringLit); ok && lit.Value == text {
			found = append(found, lit)
		}
		return true
	})
	return found
}

func arrayLits(program *ast.Program) []*ast.ArrayLit {
	var found []*ast.ArrayLit
	ast.Walk(program, func(n ast.Node) bool {
		if lit, ok := n.(*ast.ArrayLit); ok {
			found = append(found, lit)
		}
		return true
	})
	return found
}

func TestMutabilityClasses(t *testing.T) {
	const src = `
let a = 1
let mut b = 0
b = 5
let mut s = ""
s = s + "!"
let mut xs = [1, 2]
xs.push(3)
let mut grid = [7, 8]
grid[0] = 9
`

	program, res := runInfer(t, src)

	if m := res.MutabilityOf(letNamed(t, program, "a")); m != infer.MutImmutable {
		t.Fatalf("expected a to stay immutable, got %v", m)
	}
	if m := res.MutabilityOf(letNamed(t, program, "b")); m != infer.MutMutated {
		t.Fatalf("expected plain reassignment to classify mutated, got %v", m)
	}
	if m := res.MutabilityOf(letNamed(t, program, "s")); m != infer.MutAccumulator {
		t.Fatalf("expected self-referential reassignment to classify accumulator, got %v", m)
	}
	if m := res.MutabilityOf(letNamed(t, program, "xs")); m != infer.MutMutated {
		t.Fatalf("expected push receiver to classify mutated, got %v", m)
	}
	if m := res.MutabilityOf(letNamed(t, program, "grid")); m != infer.MutMutated {
		t.Fatalf("expected index assignment to classify mutated, got %v", m)
	}
}

func TestParamHintsFromUsage(t *testing.T) {
	const src = `
fun grow(xs) {
    xs.push(1)
}

fun loud(s) {
    s.upper()
}

fun root(x) {
    x.sqrt()
}

fun gate(b) {
    if b {
        1
    } else {
        2
    }
}
`

	_, res := runInfer(t, src)

	cases := []struct {
		fun  string
		want string
	}{
		{"grow", "Vec<i64>"},
		{"loud", "String"},
		{"root", "f64"},
		{"gate", "bool"},
	}
	for _, tc := range cases {
		p := funNamed(t, res, tc.fun).Params[0]
		if got := res.HintFor(p); got != tc.want {
			t.Errorf("%s: expected hint %q, got %q", tc.fun, tc.want, got)
		}
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %d: %v", len(res.Warnings), res.Warnings)
	}
}

func TestParamHintFallbackWarns(t *testing.T) {
	const src = `
fun mystery(x) {
    x
}
`

	_, res := runInfer(t, src)

	p := funNamed(t, res, "mystery").Params[0]
	if got := res.HintFor(p); got != "i64" {
		t.Fatalf("expected fallback hint i64, got %q", got)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(res.Warnings))
	}
	w := res.Warnings[0]
	if w.Code != diag.CodeInferParamHint || w.Severity != diag.SeverityNote {
		t.Fatalf("unexpected diagnostic %s/%s", w.Code, w.Severity)
	}
	if !strings.Contains(w.Message, "`x`") {
		t.Fatalf("expected message to name the parameter, got %q", w.Message)
	}
}

func TestReturnShapeArithmetic(t *testing.T) {
	const src = `
fun square(n: Int) {
    n * n
}
`

	_, res := runInfer(t, src)

	if s := res.ShapeOf(funNamed(t, res, "square")); s.Kind != infer.ShapeInt {
		t.Fatalf("expected Int shape, got %v", s)
	}
}

func TestReturnShapeEarlyReturns(t *testing.T) {
	const src = `
fun sign(n: Int) {
    if n >= 0 {
        return 1
    } else {
        return -1
    }
}
`

	_, res := runInfer(t, src)

	if s := res.ShapeOf(funNamed(t, res, "sign")); s.Kind != infer.ShapeInt {
		t.Fatalf("expected diverging branches to leave Int shape, got %v", s)
	}
}

func TestReturnShapeRecursive(t *testing.T) {
	const src = `
fun fact(n) {
    if n <= 1 {
        1
    } else {
        n * fact(n - 1)
    }
}
`

	_, res := runInfer(t, src)

	f := funNamed(t, res, "fact")
	if got := res.HintFor(f.Params[0]); got != "i64" {
		t.Fatalf("expected arithmetic evidence to hint i64, got %q", got)
	}
	if s := res.ShapeOf(f); s.Kind != infer.ShapeInt {
		t.Fatalf("expected recursive function to classify Int, got %v", s)
	}
}

func TestScriptShape(t *testing.T) {
	const src = `
let base = 2
base * 21
`

	_, res := runInfer(t, src)

	if res.ScriptShape.Kind != infer.ShapeInt {
		t.Fatalf("expected Int script shape, got %v", res.ScriptShape)
	}
}

func TestFieldAndEnumShapes(t *testing.T) {
	const src = `
struct Point {
    x: Float,
    y: Float,
}

enum Color {
    Red,
    Green,
}

fun horizontal(p: Point) {
    p.x
}

fun favorite() {
    Color::Red
}
`

	_, res := runInfer(t, src)

	if s := res.ShapeOf(funNamed(t, res, "horizontal")); s.Kind != infer.ShapeFloat {
		t.Fatalf("expected field access to classify Float, got %v", s)
	}
	s := res.ShapeOf(funNamed(t, res, "favorite"))
	if s.Kind != infer.ShapeNamed || s.Name != "Color" {
		t.Fatalf("expected enum shape Color, got %v", s)
	}
}

func TestStringAccumulatorReturn(t *testing.T) {
	const src = `
fun build(n: Int) -> Text {
    let mut s = ""
    for i in 0..n {
        s = s + "!"
    }
    s
}
`

	program, res := runInfer(t, src)

	if !res.OwnedBindings[letNamed(t, program, "s")] {
		t.Fatal("expected accumulator binding to own its text")
	}
	empty := stringLits(program, "")
	if len(empty) != 1 || !res.OwnedText(empty[0]) {
		t.Fatal("expected empty initializer to be marked owned")
	}
	bang := stringLits(program, "!")
	if len(bang) != 1 || res.OwnedText(bang[0]) {
		t.Fatal("expected appended literal to stay borrowed")
	}
	tail, ok := funNamed(t, res, "build").Body.Tail.(*ast.Ident)
	if !ok {
		t.Fatalf("expected identifier tail, got %T", funNamed(t, res, "build").Body.Tail)
	}
	if res.OwnedText(tail) {
		t.Fatal("expected owned binding to be returned without conversion")
	}
}

func TestStaticStringReturnStaysBorrowed(t *testing.T) {
	const src = `
fun pick(flag: Bool) {
    if flag {
        "yes"
    } else {
        "no"
    }
}
`

	_, res := runInfer(t, src)

	if s := res.ShapeOf(funNamed(t, res, "pick")); s.Kind != infer.ShapeStringBorrowed {
		t.Fatalf("expected literal-only returns to stay borrowed, got %v", s)
	}
}

func TestDynamicStringReturnBecomesOwned(t *testing.T) {
	const src = `
fun shout(s: String) {
    s + "!"
}
`

	_, res := runInfer(t, src)

	f := funNamed(t, res, "shout")
	if s := res.ShapeOf(f); s.Kind != infer.ShapeStringOwned {
		t.Fatalf("expected concatenation to force an owned return, got %v", s)
	}
	if !res.OwnedBindings[f.Params[0]] {
		t.Fatal("expected by-value String parameter to count as owned")
	}
}

func TestStringConcatForcesOwnedLeft(t *testing.T) {
	const src = `
let name = "World"
let greeting = "Hello, " + name
println(greeting)
`

	program, res := runInfer(t, src)

	hello := stringLits(program, "Hello, ")
	if len(hello) != 1 || !res.OwnedText(hello[0]) {
		t.Fatal("expected left operand of concatenation to be marked owned")
	}
	if !res.OwnedBindings[letNamed(t, program, "greeting")] {
		t.Fatal("expected concatenation result binding to own its text")
	}
	if res.OwnedBindings[letNamed(t, program, "name")] {
		t.Fatal("expected literal binding to stay borrowed")
	}
}

func TestBorrowedParamAvoidsClones(t *testing.T) {
	const src = `
fun greet(name: String) {
    println(f"hi {name}")
}

let friend = "Ada".to_string()
greet(friend)
greet(friend)
`

	_, res := runInfer(t, src)

	p := funNamed(t, res, "greet").Params[0]
	if got := res.PassingOf(p); got != infer.PassBorrow {
		t.Fatalf("expected parameter to be borrowed, got %v", got)
	}
	if len(res.ArgClones) != 0 {
		t.Fatalf("expected no clones, got %d", len(res.ArgClones))
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", res.Warnings)
	}
}

func TestCloneWhenValueUsedAfterCall(t *testing.T) {
	const src = `
fun keep(s: String) -> String {
    s
}

let word = "hi".to_string()
keep(word)
println(word)
`

	program, res := runInfer(t, src)

	calls := callsTo(program, "keep")
	if len(calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(calls))
	}
	if !res.ArgClones[calls[0].Args[0]] {
		t.Fatal("expected argument to be cloned")
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(res.Warnings))
	}
	w := res.Warnings[0]
	if w.Code != diag.CodeInferCloneFallback || w.Severity != diag.SeverityWarning {
		t.Fatalf("unexpected diagnostic %s/%s", w.Code, w.Severity)
	}
	if !strings.Contains(w.Message, "used again after the call") {
		t.Fatalf("expected use-after reason, got %q", w.Message)
	}
}

func TestCloneInsideLoop(t *testing.T) {
	const src = `
fun consume(s: String) -> String {
    s
}

let token = "t".to_string()
for i in 0..3 {
    consume(token)
}
`

	program, res := runInfer(t, src)

	calls := callsTo(program, "consume")
	if len(calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(calls))
	}
	if !res.ArgClones[calls[0].Args[0]] {
		t.Fatal("expected loop argument to be cloned")
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(res.Warnings))
	}
	if !strings.Contains(res.Warnings[0].Message, "passed inside a loop") {
		t.Fatalf("expected loop reason, got %q", res.Warnings[0].Message)
	}
}

func TestRecursiveCalleeWarning(t *testing.T) {
	const src = `
fun echo(s: String, n: Int) {
    if n > 0 {
        echo(s, n - 1)
    }
}

let word = "hey".to_string()
echo(word, 3)
println(word)
`

	program, res := runInfer(t, src)

	calls := callsTo(program, "echo")
	var scriptCall *ast.CallExpr
	for _, call := range calls {
		if id, ok := call.Args[0].(*ast.Ident); ok && id.Name == "word" {
			scriptCall = call
		}
	}
	if scriptCall == nil {
		t.Fatal("script call not found")
	}
	if !res.ArgClones[scriptCall.Args[0]] {
		t.Fatal("expected argument to a recursive callee to be cloned")
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(res.Warnings))
	}
	if res.Warnings[0].Code != diag.CodeInferRecursiveCallee {
		t.Fatalf("expected recursive-callee code, got %s", res.Warnings[0].Code)
	}
}

func TestBorrowCascadesThroughForwarding(t *testing.T) {
	const src = `
fun inner(s: String) {
    println(s)
}

fun outer(s: String) {
    inner(s)
}

let msg = "m".to_string()
outer(msg)
outer(msg)
`

	_, res := runInfer(t, src)

	if got := res.PassingOf(funNamed(t, res, "outer").Params[0]); got != infer.PassBorrow {
		t.Fatalf("expected outer parameter borrowed, got %v", got)
	}
	if got := res.PassingOf(funNamed(t, res, "inner").Params[0]); got != infer.PassBorrow {
		t.Fatalf("expected forwarded parameter borrowed, got %v", got)
	}
	if len(res.ArgClones) != 0 {
		t.Fatalf("expected no clones, got %d", len(res.ArgClones))
	}
}

func TestDuplicateModeClonesWithoutWarnings(t *testing.T) {
	const src = `
fun greet(name: String) {
    println(name)
}

let friend = "Ada".to_string()
greet(friend)
greet(friend)
`

	policy := config.Default()
	policy.Ownership.Mode = config.OwnershipDuplicate

	program, res := runInferWith(t, src, policy)

	if got := res.PassingOf(funNamed(t, res, "greet").Params[0]); got != infer.PassByValue {
		t.Fatalf("expected duplicate mode to keep parameters by value, got %v", got)
	}
	calls := callsTo(program, "greet")
	if len(calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(calls))
	}
	if !res.ArgClones[calls[0].Args[0]] {
		t.Fatal("expected first call to clone its argument")
	}
	if res.ArgClones[calls[1].Args[0]] {
		t.Fatal("expected final use to move without a clone")
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("expected duplicate mode to stay quiet, got %v", res.Warnings)
	}
}

func TestArrayLiteralCoercions(t *testing.T) {
	const src = `
fun total(xs: DynArray<Int>) -> Int {
    let mut sum = 0
    for x in xs {
        sum += x
    }
    sum
}

let mut nums = [1, 2]
nums.push(3)
total([4, 5])
`

	program, res := runInfer(t, src)

	lits := arrayLits(program)
	if len(lits) != 2 {
		t.Fatalf("expected 2 array literals, got %d", len(lits))
	}
	for i, lit := range lits {
		if !res.NeedsToVec(lit) {
			t.Errorf("literal %d: expected vector coercion", i)
		}
	}
}

func TestGrowableReturnCoercion(t *testing.T) {
	const src = `
fun pair() -> DynArray<Int> {
    [1, 2]
}
`

	program, res := runInfer(t, src)

	lits := arrayLits(program)
	if len(lits) != 1 || !res.NeedsToVec(lits[0]) {
		t.Fatal("expected returned literal to be coerced to a vector")
	}
}

func TestFixedArrayStaysSlice(t *testing.T) {
	const src = `
let ys = [1, 2]
println(ys[0])
`

	program, res := runInfer(t, src)

	lits := arrayLits(program)
	if len(lits) != 1 {
		t.Fatalf("expected 1 array literal, got %d", len(lits))
	}
	if res.NeedsToVec(lits[0]) {
		t.Fatal("expected read-only literal to stay fixed")
	}
}

func TestShadowingResolution(t *testing.T) {
	const src = `
let x = 1
let x = x + 1
x
`

	program, res := runInfer(t, src)

	lets := letsNamed(program, "x")
	if len(lets) != 2 {
		t.Fatalf("expected 2 bindings, got %d", len(lets))
	}
	init, ok := lets[1].Value.(*ast.InfixExpr)
	if !ok {
		t.Fatalf("expected infix initializer, got %T", lets[1].Value)
	}
	ref, ok := init.Left.(*ast.Ident)
	if !ok {
		t.Fatalf("expected identifier operand, got %T", init.Left)
	}
	if res.BindingOf(ref) != ast.Node(lets[0]) {
		t.Fatal("expected shadowing initializer to read the outer binding")
	}
	if res.ScriptShape.Kind != infer.ShapeInt {
		t.Fatalf("expected Int script shape, got %v", res.ScriptShape)
	}
}
