package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ruchy-lang/ruchy/internal/ast"
	"github.com/ruchy-lang/ruchy/internal/buildcache"
	"github.com/ruchy-lang/ruchy/internal/codegen/rust"
	"github.com/ruchy-lang/ruchy/internal/infer"
	"github.com/ruchy-lang/ruchy/internal/parser"
)

// TranspileCmd generates Rust source from one Ruchy file.
type TranspileCmd struct {
	Output   string `help:"Write generated Rust here instead of next to the input." placeholder:"FILE" short:"o" type:"path"`
	EmitMain bool   `help:"Append an empty fn main when the module defines no entry point."`
	Force    bool   `help:"Regenerate even on a build cache hit."`
	NoCache  bool   `help:"Bypass the build cache."`
	CacheDir string `help:"Build cache directory (default: the per-user cache)." type:"path"`

	File string `arg:"" help:"Ruchy source file." type:"existingfile"`
}

func (c *TranspileCmd) Run(a *app) error {
	start := time.Now()

	data, err := os.ReadFile(c.File)
	if err != nil {
		return err
	}
	src := string(data)

	outPath := c.Output
	if outPath == "" {
		outPath = defaultOutputPath(c.File)
	}
	if outPath == c.File {
		return fmt.Errorf("output %s would overwrite the input", outPath)
	}

	cache := c.openCache(a)
	var key string
	if cache != nil {
		key = buildcache.Key(src, c.fingerprint(a))
		if !c.Force {
			out, err := cache.Get(key)
			switch {
			case err == nil:
				a.logger.Info("cache hit",
					slog.String("file", c.File),
					slog.String("key", key))
				return writeOutput(outPath, out)
			case !errors.Is(err, buildcache.ErrMiss):
				return err
			}
		}
	}

	p := parser.New(src, parser.WithFilename(c.File))
	program := p.ParseFile()
	if n := report(a, c.File, src, p.Diagnostics()); n > 0 {
		return fmt.Errorf("%s: %d parse error(s)", c.File, n)
	}

	info := infer.Run(program, a.policy)
	report(a, c.File, src, info.Warnings)

	out, diags, err := rust.Generate(program, info, a.policy)
	report(a, c.File, src, diags)
	if err != nil {
		return fmt.Errorf("%s: %w", c.File, err)
	}

	if c.EmitMain && !hasMainEntry(program) {
		out += "\nfn main() {}\n"
	}

	if err := writeOutput(outPath, out); err != nil {
		return err
	}
	if cache != nil {
		if err := cache.Put(key, out); err != nil {
			a.logger.Warn("cache store failed", slog.Any("error", err))
		}
	}

	a.logger.Info("transpiled",
		slog.String("file", c.File),
		slog.String("output", outPath),
		slog.Int("bytes", len(out)),
		slog.Duration("elapsed", time.Since(start)))
	return nil
}

// defaultOutputPath places the generated file next to the input with a .rs
// extension.
func defaultOutputPath(file string) string {
	return strings.TrimSuffix(file, filepath.Ext(file)) + ".rs"
}

// fingerprint extends the policy fingerprint with the command flags that
// change the generated text.
func (c *TranspileCmd) fingerprint(a *app) string {
	fp := a.policy.Fingerprint()
	if c.EmitMain {
		fp += ";emit-main"
	}
	return fp
}

// openCache returns the cache handle, or nil when caching is off. A cache
// that cannot be opened disables caching instead of failing the build.
func (c *TranspileCmd) openCache(a *app) *buildcache.Cache {
	if c.NoCache {
		return nil
	}
	dir := c.CacheDir
	if dir == "" {
		var err error
		dir, err = buildcache.DefaultDir()
		if err != nil {
			a.logger.Warn("build cache disabled", slog.Any("error", err))
			return nil
		}
	}
	cache, err := buildcache.Open(dir, buildcache.WithLogger(a.logger))
	if err != nil {
		a.logger.Warn("build cache disabled", slog.Any("error", err))
		return nil
	}
	return cache
}

// hasMainEntry reports whether generation already produces fn main, either
// written by the user or synthesized around top-level statements.
func hasMainEntry(program *ast.Program) bool {
	for _, it := range program.Items {
		switch v := it.(type) {
		case *ast.StmtItem:
			return true
		case *ast.FunItem:
			if v.Name.Name == "main" && v.Receiver == nil {
				return true
			}
		}
	}
	return false
}

func writeOutput(path, out string) error {
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
