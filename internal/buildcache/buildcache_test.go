package buildcache_test

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ruchy-lang/ruchy/internal/buildcache"
)

func TestKeyIsStable(t *testing.T) {
	a := buildcache.Key("let x = 1;", "ownership=duplicate")
	b := buildcache.Key("let x = 1;", "ownership=duplicate")
	if a != b {
		t.Errorf("same inputs produced different keys: %q vs %q", a, b)
	}
}

func TestKeySeparatesInputs(t *testing.T) {
	base := buildcache.Key("let x = 1;", "fp")
	if buildcache.Key("let x = 2;", "fp") == base {
		t.Error("source change did not change the key")
	}
	if buildcache.Key("let x = 1;", "fp2") == base {
		t.Error("fingerprint change did not change the key")
	}
	// The source/fingerprint boundary is part of the hash.
	if buildcache.Key("ab", "c") == buildcache.Key("a", "bc") {
		t.Error("keys collide across the source/fingerprint boundary")
	}
}

func TestGetMiss(t *testing.T) {
	c, err := buildcache.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := c.Get("absent"); !errors.Is(err, buildcache.ErrMiss) {
		t.Errorf("Get on empty cache = %v, want ErrMiss", err)
	}
}

func TestPutThenGet(t *testing.T) {
	c, err := buildcache.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	key := buildcache.Key("println(1)", "fp")
	const output = "fn main() {\n    println!(\"{}\", 1);\n}\n"
	if err := c.Put(key, output); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := c.Get(key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != output {
		t.Errorf("Get = %q, want %q", got, output)
	}
}

func TestPutOverwrites(t *testing.T) {
	c, err := buildcache.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := c.Put("k", "old"); err != nil {
		t.Fatal(err)
	}
	if err := c.Put("k", "new"); err != nil {
		t.Fatal(err)
	}
	got, err := c.Get("k")
	if err != nil {
		t.Fatal(err)
	}
	if got != "new" {
		t.Errorf("Get after overwrite = %q, want %q", got, "new")
	}
}

func TestRemove(t *testing.T) {
	c, err := buildcache.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := c.Put("k", "out"); err != nil {
		t.Fatal(err)
	}
	if err := c.Remove("k"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := c.Get("k"); !errors.Is(err, buildcache.ErrMiss) {
		t.Errorf("Get after Remove = %v, want ErrMiss", err)
	}
	// Removing an absent entry is not an error.
	if err := c.Remove("k"); err != nil {
		t.Errorf("Remove of absent entry: %v", err)
	}
}

func TestOpenCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cache")
	if _, err := buildcache.Open(dir); err != nil {
		t.Fatalf("Open: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Errorf("cache directory not created: %v", err)
	}
}

func TestLoggerTraces(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	c, err := buildcache.Open(t.TempDir(), buildcache.WithLogger(logger))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := c.Get("k"); !errors.Is(err, buildcache.ErrMiss) {
		t.Fatalf("Get = %v, want ErrMiss", err)
	}
	if err := c.Put("k", "out"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Get("k"); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"cache miss", "cache store", "cache hit"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}
