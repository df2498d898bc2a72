package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ruchy-lang/ruchy/internal/buildcache"
	"github.com/ruchy-lang/ruchy/internal/config"
	"github.com/ruchy-lang/ruchy/internal/log"
	"github.com/ruchy-lang/ruchy/internal/parser"
)

func testApp(t *testing.T) *app {
	t.Helper()
	return &app{
		logger: log.New(io.Discard, log.Config{Level: slog.LevelError}),
		policy: config.Default(),
	}
}

func writeSource(t *testing.T, name, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// chdir switches the working directory for the test and restores it on
// cleanup, standing in for testing.T.Chdir on toolchains older than go1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}

func TestDefaultOutputPath(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"app.ruchy", "app.rs"},
		{"dir/tool.ruchy", "dir/tool.rs"},
		{"noext", "noext.rs"},
	}
	for _, tc := range cases {
		if got := defaultOutputPath(tc.in); got != tc.want {
			t.Errorf("defaultOutputPath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestHasMainEntry(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want bool
	}{
		{"pure items", "fun helper(n: i64) -> i64 {\n    n\n}\n", false},
		{"explicit main", "fun main() {\n    println(\"hi\")\n}\n", true},
		{"top-level statement", "println(\"hi\")\n", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := parser.New(tc.src, parser.WithFilename("entry.ruchy"))
			program := p.ParseFile()
			if errs := p.Errors(); len(errs) > 0 {
				t.Fatalf("parse error: %s", errs[0].Message)
			}
			if got := hasMainEntry(program); got != tc.want {
				t.Errorf("hasMainEntry = %t, want %t", got, tc.want)
			}
		})
	}
}

func TestResolvePolicy(t *testing.T) {
	t.Run("explicit file", func(t *testing.T) {
		path := writeSource(t, "policy.yaml", "ownership:\n  mode: duplicate\n")
		p, err := resolvePolicy(path)
		if err != nil {
			t.Fatal(err)
		}
		if p.Ownership.Mode != config.OwnershipDuplicate {
			t.Errorf("mode = %q, want duplicate", p.Ownership.Mode)
		}
	})

	t.Run("explicit file missing", func(t *testing.T) {
		if _, err := resolvePolicy(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
			t.Error("expected an error for a missing explicit config")
		}
	})

	t.Run("conventional file", func(t *testing.T) {
		chdir(t, t.TempDir())
		err := os.WriteFile(defaultConfigFile, []byte("warnings:\n  clones: false\n"), 0o644)
		if err != nil {
			t.Fatal(err)
		}
		p, err := resolvePolicy("")
		if err != nil {
			t.Fatal(err)
		}
		if p.Warnings.Clones {
			t.Error("expected ruchy.yaml to be picked up")
		}
	})

	t.Run("defaults", func(t *testing.T) {
		chdir(t, t.TempDir())
		p, err := resolvePolicy("")
		if err != nil {
			t.Fatal(err)
		}
		if p.Ownership.Mode != config.OwnershipBorrowLocal {
			t.Errorf("mode = %q, want borrow-local", p.Ownership.Mode)
		}
	})
}

func TestTranspileWritesOutput(t *testing.T) {
	file := writeSource(t, "hello.ruchy", "println(\"hi\")\n")

	cmd := &TranspileCmd{File: file, NoCache: true}
	if err := cmd.Run(testApp(t)); err != nil {
		t.Fatal(err)
	}

	out, err := os.ReadFile(defaultOutputPath(file))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"fn main() {", `println!("hi");`} {
		if !strings.Contains(string(out), want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTranspileRefusesOverwrite(t *testing.T) {
	file := writeSource(t, "prog.rs", "println(\"hi\")\n")

	cmd := &TranspileCmd{File: file, Output: file, NoCache: true}
	err := cmd.Run(testApp(t))
	if err == nil || !strings.Contains(err.Error(), "overwrite") {
		t.Fatalf("expected an overwrite error, got %v", err)
	}
}

func TestTranspileEmitMain(t *testing.T) {
	file := writeSource(t, "lib.ruchy", "fun helper(n: i64) -> i64 {\n    n\n}\n")

	cmd := &TranspileCmd{File: file, EmitMain: true, NoCache: true}
	if err := cmd.Run(testApp(t)); err != nil {
		t.Fatal(err)
	}

	out, err := os.ReadFile(defaultOutputPath(file))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), "fn main() {}") {
		t.Errorf("output missing the synthesized entry point:\n%s", out)
	}
}

func TestTranspileReportsParseErrors(t *testing.T) {
	file := writeSource(t, "broken.ruchy", "fun {\n")

	cmd := &TranspileCmd{File: file, NoCache: true}
	err := cmd.Run(testApp(t))
	if err == nil || !strings.Contains(err.Error(), "parse error") {
		t.Fatalf("expected a parse error, got %v", err)
	}
	if _, statErr := os.Stat(defaultOutputPath(file)); statErr == nil {
		t.Error("no output should be written for a file that fails to parse")
	}
}

func TestTranspileUsesCache(t *testing.T) {
	const src = "println(\"hi\")\n"
	file := writeSource(t, "hello.ruchy", src)
	cacheDir := t.TempDir()
	a := testApp(t)

	cmd := &TranspileCmd{File: file, CacheDir: cacheDir}

	// Seed the entry the command will look up. A hit must short-circuit
	// generation and emit the cached text verbatim.
	key := buildcache.Key(src, cmd.fingerprint(a))
	err := os.WriteFile(filepath.Join(cacheDir, key+".rs"), []byte("// cached\n"), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	if err := cmd.Run(a); err != nil {
		t.Fatal(err)
	}
	out, err := os.ReadFile(defaultOutputPath(file))
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "// cached\n" {
		t.Fatalf("expected the cached entry, got:\n%s", out)
	}

	forced := &TranspileCmd{File: file, CacheDir: cacheDir, Force: true}
	if err := forced.Run(a); err != nil {
		t.Fatal(err)
	}
	out, err = os.ReadFile(defaultOutputPath(file))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), `println!("hi");`) {
		t.Fatalf("expected regenerated output under --force, got:\n%s", out)
	}

	// The forced run refreshes the entry in place.
	entry, err := os.ReadFile(filepath.Join(cacheDir, key+".rs"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(entry), `println!("hi");`) {
		t.Fatalf("expected the cache entry to be refreshed, got:\n%s", entry)
	}
}

func TestCheckReportsFailures(t *testing.T) {
	good := writeSource(t, "good.ruchy", "println(\"hi\")\n")
	bad := writeSource(t, "bad.ruchy", "actor Counter {\n    count: i64\n}\n")

	cmd := &CheckCmd{Files: []string{good, bad}}
	err := cmd.Run(testApp(t))
	if err == nil || !strings.Contains(err.Error(), "1 of 2") {
		t.Fatalf("expected one failing file, got %v", err)
	}

	ok := &CheckCmd{Files: []string{good}}
	if err := ok.Run(testApp(t)); err != nil {
		t.Fatal(err)
	}
}

func TestFmtRewriteIsIdempotent(t *testing.T) {
	file := writeSource(t, "messy.ruchy", "fun  add( a:Int , b:Int )->Int{ a+b }\n")

	cmd := &FmtCmd{Write: true, Files: []string{file}}
	if err := cmd.Run(testApp(t)); err != nil {
		t.Fatal(err)
	}
	first, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if string(first) == "fun  add( a:Int , b:Int )->Int{ a+b }\n" {
		t.Fatal("expected the file to be rewritten")
	}

	if err := cmd.Run(testApp(t)); err != nil {
		t.Fatal(err)
	}
	second, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if string(first) != string(second) {
		t.Errorf("formatting is not idempotent:\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}
