package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ruchy-lang/ruchy/internal/codegen/rust"
	"github.com/ruchy-lang/ruchy/internal/infer"
	"github.com/ruchy-lang/ruchy/internal/parser"
)

// CheckCmd runs the full pipeline over files and reports diagnostics without
// writing any output.
type CheckCmd struct {
	Files []string `arg:"" help:"Ruchy source files." type:"existingfile"`
}

func (c *CheckCmd) Run(a *app) error {
	failed := 0
	for _, file := range c.Files {
		if err := checkFile(a, file); err != nil {
			a.logger.Error("check failed",
				slog.String("file", file),
				slog.Any("error", err))
			failed++
			continue
		}
		a.logger.Debug("checked", slog.String("file", file))
	}
	a.logger.Info("checked",
		slog.Int("files", len(c.Files)),
		slog.Int("failed", failed))
	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed", failed, len(c.Files))
	}
	return nil
}

func checkFile(a *app, file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	src := string(data)

	p := parser.New(src, parser.WithFilename(file))
	program := p.ParseFile()
	if n := report(a, file, src, p.Diagnostics()); n > 0 {
		return fmt.Errorf("%d parse error(s)", n)
	}

	info := infer.Run(program, a.policy)
	report(a, file, src, info.Warnings)

	_, diags, err := rust.Generate(program, info, a.policy)
	report(a, file, src, diags)
	return err
}
