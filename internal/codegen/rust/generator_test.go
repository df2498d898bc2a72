package rust_test

import (
	"strings"
	"testing"

	"github.com/ruchy-lang/ruchy/internal/codegen/rust"
	"github.com/ruchy-lang/ruchy/internal/config"
	"github.com/ruchy-lang/ruchy/internal/diag"
	"github.com/ruchy-lang/ruchy/internal/parser"
)

func run(t *testing.T, src string, policy *config.Policy) (string, []diag.Diagnostic, error) {
	t.Helper()
	p := parser.New(src, parser.WithFilename("test.ruchy"))
	program := p.ParseFile()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse error: %s", errs[0].Message)
	}
	return rust.Generate(program, nil, policy)
}

func generate(t *testing.T, src string) string {
	t.Helper()
	out, diags, err := run(t, src, nil)
	if err != nil {
		t.Fatalf("generate failed: %v\ndiagnostics: %v", err, diags)
	}
	return out
}

func failGenerate(t *testing.T, src string) []diag.Diagnostic {
	t.Helper()
	out, diags, err := run(t, src, nil)
	if err == nil {
		t.Fatalf("expected generation to fail, got:\n%s", out)
	}
	return diags
}

func wantContains(t *testing.T, out string, wants ...string) {
	t.Helper()
	for _, w := range wants {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}
}

func wantNotContains(t *testing.T, out string, rejects ...string) {
	t.Helper()
	for _, r := range rejects {
		if strings.Contains(out, r) {
			t.Errorf("output should not contain %q:\n%s", r, out)
		}
	}
}

func TestScriptWrapsTopLevelStatements(t *testing.T) {
	const src = `
let x = 2
let y = x * 3
println("{}", y)
`

	out := generate(t, src)

	wantContains(t, out,
		"fn main() {",
		"    let x = 2;",
		"    let y = x * 3;",
		`    println!("{}", y);`,
	)
}

func TestScriptPrintsTrailingExpression(t *testing.T) {
	const src = `
fun square(x) {
    x * x
}

square(5)
`

	out := generate(t, src)

	wantContains(t, out,
		"fn square(x: i64) -> i64 {",
		"    x * x\n}",
		"let result = square(5);",
		`println!("{:?}", result);`,
	)
}

func TestExplicitMainNotWrapped(t *testing.T) {
	const src = `
fun main() {
    println("hi")
}
`

	out := generate(t, src)

	wantContains(t, out, "fn main() {", `println!("hi");`)
	wantNotContains(t, out, "let result")
}

func TestMainConflictsWithTopLevelStatements(t *testing.T) {
	const src = `
fun main() {
    println("hi")
}

let leak = 1
`

	diags := failGenerate(t, src)

	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d: %v", len(diags), diags)
	}
	if !strings.Contains(diags[0].Message, "top-level statement alongside an explicit `fun main`") {
		t.Fatalf("unexpected message: %s", diags[0].Message)
	}
}

func TestBorrowedStringParameter(t *testing.T) {
	const src = `
fun greet(name: String) {
    println(f"Hello, {name}!")
}

greet("World")
`

	out := generate(t, src)

	wantContains(t, out,
		"fn greet(name: &str) {",
		`println!("Hello, {}!", name);`,
		`greet("World");`,
	)
	wantNotContains(t, out, "clone")
}

func TestStringAccumulatorFunction(t *testing.T) {
	const src = `
fun build() {
    let mut s = ""
    s += "a"
    s
}
`

	out := generate(t, src)

	wantContains(t, out,
		"fn build() -> String {",
		"let mut s = String::new();",
		`s += "a";`,
		"    s\n}",
	)
}

func TestAccumulatorOwnedMutableFromFirstUse(t *testing.T) {
	const src = `
fun f() -> Text {
    let s = "a"
    s = s + "b"
    s
}
`

	out := generate(t, src)

	wantContains(t, out,
		"fn f() -> String {",
		`let mut s = "a".to_string();`,
		`s = s + "b";`,
		"    s\n}",
	)
}

func TestAppendedFormatStringIsBorrowed(t *testing.T) {
	const src = `
fun bracket(n: i64) -> String {
    let mut out = ""
    out += f"[{n}]"
    out
}
`

	out := generate(t, src)

	wantContains(t, out,
		"let mut out = String::new();",
		`out += &format!("[{}]", n);`,
	)
}

func TestStaticStringReturnStaysBorrowed(t *testing.T) {
	const src = `
fun pick(flag: bool) {
    if flag {
        "yes"
    } else {
        "no"
    }
}
`

	out := generate(t, src)

	wantContains(t, out, "fn pick(flag: bool) -> &'static str {", `"yes"`)
	wantNotContains(t, out, "to_string")
}

func TestCloneInsertedForReusedValue(t *testing.T) {
	const src = `
fun keep(s: String) -> String {
    s
}

let word = "hi".to_string()
keep(word)
keep(word)
`

	out := generate(t, src)

	wantContains(t, out,
		"fn keep(s: String) -> String {",
		`let word = "hi".to_string();`,
		"keep(word.clone());",
		"let result = keep(word);",
	)
}

func TestDuplicatePolicyKeepsOwnedParameters(t *testing.T) {
	const src = `
fun consume(s: String) -> i64 {
    if s.is_empty() {
        0
    } else {
        1
    }
}

let w = "x".to_string()
consume(w)
consume(w)
`

	policy := config.Default()
	policy.Ownership.Mode = config.OwnershipDuplicate

	out, diags, err := run(t, src, policy)
	if err != nil {
		t.Fatalf("generate failed: %v\n%v", err, diags)
	}

	wantContains(t, out,
		"fn consume(s: String) -> i64 {",
		"consume(w.clone());",
		"let result = consume(w);",
	)
}

func TestMixedOwnedAndBorrowedParameters(t *testing.T) {
	const src = `
fun tag(prefix: String, suffix: String) -> String {
    let mut out = prefix
    out += suffix
    out
}
`

	out := generate(t, src)

	wantContains(t, out,
		"fn tag(prefix: String, suffix: &str) -> String {",
		"let mut out = prefix;",
		"out += suffix;",
	)
}

func TestConcatKeepsLiteralRightBorrowed(t *testing.T) {
	const src = `
fun shout(name: String) -> String {
    name + "!"
}
`

	out := generate(t, src)

	wantContains(t, out, "fn shout(name: String) -> String {", `    name + "!"`)
	wantNotContains(t, out, `"!".to_string()`)
}

func TestConcatBorrowsOwnedRightOperand(t *testing.T) {
	const src = `
let x = 1
let y = 2
let joined = f"a{x}" + f"b{y}"
println("{}", joined)
`

	out := generate(t, src)

	wantContains(t, out, `let joined = format!("a{}", x) + &format!("b{}", y);`)
}

func TestGrowableArrayBecomesVec(t *testing.T) {
	const src = `
let mut xs = [1, 2]
xs.push(3)
`

	out := generate(t, src)

	wantContains(t, out, "let mut xs = vec![1, 2];", "xs.push(3);")
}

func TestAnnotatedGrowableCoercesLiteral(t *testing.T) {
	const src = `
let v: DynArray<Int> = [1, 2, 3]
println("{}", v.len())
`

	out := generate(t, src)

	wantContains(t, out,
		"let v: Vec<i64> = vec![1, 2, 3];",
		`println!("{}", v.len());`,
	)
}

func TestAnyAnnotationLeavesTypeInferred(t *testing.T) {
	const src = `
let x: Any = 5
println("{}", x)
`

	out := generate(t, src)

	wantContains(t, out, "let x: _ = 5;")
}

func TestFixedArrayStaysArray(t *testing.T) {
	const src = `
let ys = [10, 20, 30]
println("{}", ys[0])
`

	out := generate(t, src)

	wantContains(t, out, "let ys = [10, 20, 30];", "ys[0]")
	wantNotContains(t, out, "vec!")
}

func TestIndexCastsToUsize(t *testing.T) {
	const src = `
let xs = [10, 20, 30]
let i = 1
println("{}", xs[i])
println("{}", xs[i + 1])
`

	out := generate(t, src)

	wantContains(t, out, "xs[i as usize]", "xs[(i + 1) as usize]")
}

func TestSliceIndexBorrows(t *testing.T) {
	const src = `
let xs = [10, 20, 30]
let part = xs[0..2]
`

	out := generate(t, src)

	wantContains(t, out, "let part = &xs[0..2];")
}

func TestMatchArmsCoerceUniformly(t *testing.T) {
	const src = `
fun describe(n: i64) -> String {
    match n {
        0 => "zero",
        1 | 2 => "small",
        _ => "big"
    }
}
`

	out := generate(t, src)

	wantContains(t, out,
		"match n {",
		`0 => "zero".to_string(),`,
		`1 | 2 => "small".to_string(),`,
		`_ => "big".to_string(),`,
	)
}

func TestPowerLowering(t *testing.T) {
	const src = `
let a = 2 ** 8
let b = 2.0 ** 0.5
let c = a ** 2
`

	out := generate(t, src)

	wantContains(t, out,
		"let a = 2_i64.pow(8);",
		"let b = 2.0.powf(0.5);",
		"let c = a.pow(2);",
	)
}

func TestDeferEmitsScopeGuard(t *testing.T) {
	const src = `
fun work() {
    defer { println("done") }
    println("start")
}
`

	out := generate(t, src)

	wantContains(t, out,
		"struct ScopeGuard<F: FnMut()>(F);",
		"impl<F: FnMut()> Drop for ScopeGuard<F> {",
		"let _guard_1 = ScopeGuard(|| {",
		`println!("done");`,
		`println!("start");`,
	)
}

func TestGuardLowersToNegatedIf(t *testing.T) {
	const src = `
fun check(n: i64) -> i64 {
    guard n > 0 else {
        return 0
    }
    n
}
`

	out := generate(t, src)

	wantContains(t, out, "if !(n > 0) {", "return 0")
}

func TestPipelineDesugarsToCalls(t *testing.T) {
	const src = `
fun double(n: i64) -> i64 {
    n * 2
}

5 |> double |> println
`

	out := generate(t, src)

	wantContains(t, out, `println!("{}", double(5));`)
}

func TestFStringBecomesFormat(t *testing.T) {
	const src = `
let name = "World"
let msg = f"Hello, {name}!"
println("{}", msg)
`

	out := generate(t, src)

	wantContains(t, out, `let msg = format!("Hello, {}!", name);`)
}

func TestPrintlnFormatForms(t *testing.T) {
	const src = `
println("{} and {}", 1, 2)
println("tag:", 3)
println("plain")
`

	out := generate(t, src)

	wantContains(t, out,
		`println!("{} and {}", 1, 2);`,
		`println!("{} {}", "tag:", 3);`,
		`println!("plain");`,
	)
}

func TestFormatArityMismatchReported(t *testing.T) {
	const src = `
println("{} {}", 1)
`

	diags := failGenerate(t, src)

	found := false
	for _, d := range diags {
		if d.Code == diag.CodeGenFormatStringError {
			found = true
			if !strings.Contains(d.Message, "2 placeholder(s) but 1 argument(s)") {
				t.Errorf("unexpected message: %s", d.Message)
			}
		}
	}
	if !found {
		t.Fatalf("expected a format string diagnostic, got %v", diags)
	}
}

func TestListComprehension(t *testing.T) {
	const src = `
let evens = [x * 2 for x in 0..5 if x % 2 == 0]
`

	out := generate(t, src)

	wantContains(t, out,
		"(0..5).into_iter().filter(|&x| x % 2 == 0).map(|x| x * 2).collect::<Vec<_>>()")
}

func TestMethodRenames(t *testing.T) {
	const src = `
let a = "one".upper()
let b = "two".to_lower()
`

	out := generate(t, src)

	wantContains(t, out, `"one".to_uppercase()`, `"two".to_lowercase()`)
}

func TestSafeNavigationChain(t *testing.T) {
	const src = `
let label = record?.owner?.name
`

	out := generate(t, src)

	wantContains(t, out, "record.and_then(|v| v.owner).map(|v| v.name)")
}

func TestStructEnumDerives(t *testing.T) {
	const src = `
struct Point {
    x: f64,
    y: f64
}

enum Shape {
    Circle(f64),
    Empty
}
`

	out := generate(t, src)

	wantContains(t, out,
		"#[derive(Debug, Clone)]\nstruct Point {",
		"    x: f64,",
		"#[derive(Debug, Clone)]\nenum Shape {",
		"    Circle(f64),",
		"    Empty,",
	)
}

func TestImplBlockMethods(t *testing.T) {
	const src = `
struct Counter {
    count: i64
}

impl Counter {
    fun new() -> Counter {
        Counter { count: 0 }
    }

    fun bump(&mut self) {
        self.count += 1
    }
}
`

	out := generate(t, src)

	wantContains(t, out,
		"impl Counter {",
		"fn new() -> Counter {",
		"Counter { count: 0 }",
		"fn bump(&mut self) {",
		"self.count += 1;",
	)
}

func TestTraitMethods(t *testing.T) {
	const src = `
trait Shape {
    fun area(&self) -> Float;
    fun describe(&self) -> String {
        "a shape"
    }
}
`

	out := generate(t, src)

	wantContains(t, out,
		"trait Shape {",
		"fn area(&self) -> f64;",
		"fn describe(&self) -> String {",
		`"a shape".to_string()`,
	)
}

func TestEnumStructLiteralRejected(t *testing.T) {
	const src = `
enum Color {
    Red
}

let c = Color::Red { value: 1 }
`

	diags := failGenerate(t, src)

	found := false
	for _, d := range diags {
		if d.Code == diag.CodeGenInvalidEnumLiteral {
			found = true
			if !strings.Contains(d.Message, "enum `Color` has no struct variant `Red`") {
				t.Errorf("unexpected message: %s", d.Message)
			}
		}
	}
	if !found {
		t.Fatalf("expected an enum literal diagnostic, got %v", diags)
	}
}

func TestActorItemReported(t *testing.T) {
	const src = `
fun ok() -> i64 {
    1
}

actor Counter {
    count: i64
}
`

	out, diags, err := run(t, src, nil)
	if err == nil {
		t.Fatal("expected generation to fail")
	}

	wantContains(t, out, "fn ok() -> i64 {")
	found := false
	for _, d := range diags {
		if strings.Contains(d.Message, "unsupported item: actor definition") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an actor diagnostic, got %v", diags)
	}
}

func TestReservedWordsEscaped(t *testing.T) {
	const src = `
let move = 5
println("{}", move)
`

	out := generate(t, src)

	wantContains(t, out, "let r#move = 5;", `println!("{}", r#move);`)
}

func TestNestedBlockIndentation(t *testing.T) {
	const src = `
fun outer() {
    if true {
        println("deep")
    }
}
`

	out := generate(t, src)

	wantContains(t, out, "    if true {\n        println!(\"deep\");\n    }\n}")
}

func TestUseItemRendered(t *testing.T) {
	const src = `
use std::collections::HashMap
`

	out := generate(t, src)

	wantContains(t, out, "use std::collections::HashMap;")
}

func TestCastGroupsCompoundOperand(t *testing.T) {
	const src = `
let x = 2
let y = (x + 1) as f64
let z = x as f64
`

	out := generate(t, src)

	wantContains(t, out, "let y = (x + 1) as f64;", "let z = x as f64;")
}

func TestPrecedenceParentheses(t *testing.T) {
	const src = `
let a = (1 + 2) * 3
let b = 1 + 2 * 3
let c = 10 - (4 - 2)
`

	out := generate(t, src)

	wantContains(t, out,
		"let a = (1 + 2) * 3;",
		"let b = 1 + 2 * 3;",
		"let c = 10 - (4 - 2);",
	)
}

func TestWhileAndIncrement(t *testing.T) {
	const src = `
let mut i = 0
while i < 3 {
    i++
}
`

	out := generate(t, src)

	wantContains(t, out, "let mut i = 0;", "while i < 3 {", "i += 1;")
}

func TestForOverRanges(t *testing.T) {
	const src = `
for i in 0..3 {
    println("{}", i)
}
for j in 1..=3 {
    println("{}", j)
}
`

	out := generate(t, src)

	wantContains(t, out, "for i in 0..3 {", "for j in 1..=3 {")
}

func TestLoopWithBreakValue(t *testing.T) {
	const src = `
let mut n = 0
let x = loop {
    n += 1
    if n > 2 {
        break n
    }
}
println("{}", x)
`

	out := generate(t, src)

	wantContains(t, out, "let mut n = 0;", "let x = loop {", "break n")
}

func TestLambdaBinding(t *testing.T) {
	const src = `
let add = |a, b| a + b
println("{}", add(1, 2))
`

	out := generate(t, src)

	wantContains(t, out, "let add = |a, b| a + b;", "add(1, 2)")
}

func TestTupleAndUnitLiterals(t *testing.T) {
	const src = `
let pair = (1, "two")
let unit = ()
`

	out := generate(t, src)

	wantContains(t, out, `let pair = (1, "two");`, "let unit = ();")
}

func TestPrintlnDebugFormatsContainers(t *testing.T) {
	const src = `
let xs = [1, 2, 3]
println(xs)
`

	out := generate(t, src)

	wantContains(t, out, `println!("{:?}", xs);`)
}
