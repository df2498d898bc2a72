package main

import (
	"fmt"
	"os"

	"github.com/ruchy-lang/ruchy/internal/parser"
	"github.com/ruchy-lang/ruchy/internal/printer"
)

// FmtCmd prints files in canonical form.
type FmtCmd struct {
	Write bool `help:"Rewrite files in place instead of printing to stdout." short:"w"`

	Files []string `arg:"" help:"Ruchy source files." type:"existingfile"`
}

func (c *FmtCmd) Run(a *app) error {
	for _, file := range c.Files {
		if err := c.formatFile(a, file); err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
	}
	return nil
}

func (c *FmtCmd) formatFile(a *app, file string) error {
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

	out := printer.Print(program)
	if !c.Write {
		_, err := os.Stdout.WriteString(out)
		return err
	}
	if out == src {
		return nil
	}
	return os.WriteFile(file, []byte(out), 0o644)
}
