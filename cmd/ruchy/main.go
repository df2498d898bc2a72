// Command ruchy transpiles Ruchy source files to Rust.
//
// The pipeline packages under internal/ are pure; this binary owns every
// side effect around them: file I/O, the policy file, logging, diagnostics
// rendering, the build cache, and profiling.
package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/pkg/profile"

	"github.com/ruchy-lang/ruchy/internal/config"
	"github.com/ruchy-lang/ruchy/internal/diag"
	"github.com/ruchy-lang/ruchy/internal/log"
)

const version = "0.1.0"

// defaultConfigFile is picked up from the working directory when --config is
// not given.
const defaultConfigFile = "ruchy.yaml"

// CLI is the ruchy command grammar.
type CLI struct {
	LogLevel  string           `help:"Log verbosity." default:"info" enum:"debug,info,warn,error"`
	LogFormat string           `help:"Log record encoding." default:"text" enum:"text,json,pretty"`
	Config    string           `help:"Policy file (default: ruchy.yaml when present)." type:"path"`
	NoColor   bool             `help:"Disable color in diagnostics and pretty logs."`
	Profile   string           `help:"Write a profile for this invocation." default:"" enum:",cpu,mem,trace"`
	Version   kong.VersionFlag `help:"Print version and exit."`

	Transpile TranspileCmd `cmd:"" help:"Generate Rust from a Ruchy source file."`
	Check     CheckCmd     `cmd:"" help:"Run the pipeline over files and report diagnostics without writing output."`
	Fmt       FmtCmd       `cmd:"" help:"Print files in canonical form."`
}

// app carries the resolved globals every command runs against.
type app struct {
	logger *slog.Logger
	policy *config.Policy
	color  bool
}

func main() {
	var cli CLI
	ktx := kong.Parse(&cli,
		kong.Name("ruchy"),
		kong.Description("Transpiles Ruchy source files to Rust."),
		kong.UsageOnError(),
		kong.Vars{"version": "ruchy " + version},
	)

	a, err := cli.app()
	ktx.FatalIfErrorf(err)

	stop := startProfile(cli.Profile)
	err = ktx.Run(a)
	stop()
	ktx.FatalIfErrorf(err)
}

func (c *CLI) app() (*app, error) {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	format, err := log.ParseFormat(c.LogFormat)
	if err != nil {
		return nil, err
	}
	color := !c.NoColor
	logger := log.New(os.Stderr, log.Config{Level: level, Format: format, Color: color})

	policy, err := resolvePolicy(c.Config)
	if err != nil {
		return nil, err
	}
	return &app{logger: logger, policy: policy, color: color}, nil
}

// resolvePolicy loads the transpiler policy. An explicit path must load; the
// conventional ruchy.yaml is used only when it exists.
func resolvePolicy(path string) (*config.Policy, error) {
	if path != "" {
		return config.Load(path)
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return config.Load(defaultConfigFile)
	}
	return config.Default(), nil
}

// startProfile begins profiling for mode and returns the stop function. The
// empty mode is a no-op.
func startProfile(mode string) func() {
	opts := []func(*profile.Profile){profile.ProfilePath("."), profile.Quiet}
	switch mode {
	case "cpu":
		opts = append(opts, profile.CPUProfile)
	case "mem":
		opts = append(opts, profile.MemProfile)
	case "trace":
		opts = append(opts, profile.TraceProfile)
	default:
		return func() {}
	}
	p := profile.Start(opts...)
	return p.Stop
}

// report renders diagnostics against their source and returns how many were
// errors.
func report(a *app, filename, src string, ds []diag.Diagnostic) int {
	if len(ds) == 0 {
		return 0
	}
	f := diag.NewFormatter(os.Stderr, diag.WithColor(a.color))
	f.AddSource(filename, src)
	f.FormatAll(ds)
	return diag.CountErrors(ds)
}
