// Package main provides the CLI entrypoint for pdu-generator.
//
// pdu-generator compiles a YAML protocol description into message types
// with wire encoders, decoders, size and equality methods:
//   - resolves type, count and setter references with did-you-mean hints
//   - derives one marshal plan per message type and validates it
//   - renders the plans through a backend (Go by default)
//   - optionally type-checks the generated package (-check)
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/rs/zerolog"

	"pdu-generator/internal/analyze"
	"pdu-generator/internal/compiler"
	"pdu-generator/internal/config"
	"pdu-generator/internal/diagnostic"
	"pdu-generator/internal/logging"
	"pdu-generator/internal/plan"
)

const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)

	stop()
	os.Exit(code)
}

type options struct {
	configPath string
	check      bool
	dumpPlan   string
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, opts, err := parseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}

	if err != nil {
		fmt.Fprintf(stderr, "pdu-generator: %v\n", err)
		return exitUsage
	}

	log := logging.Configure(logging.ProfileRuntime, cfg.LogLevel)

	res, err := compiler.Run(ctx, cfg, log)
	if res != nil {
		printDiagnostics(stderr, res.Diagnostics)
	}

	if res != nil && res.Plans != nil && opts.dumpPlan != "" {
		if derr := dumpPlan(res.Plans, opts.dumpPlan, stdout); derr != nil {
			fmt.Fprintf(stderr, "pdu-generator: %v\n", derr)
			return exitFail
		}
	}

	if err != nil {
		fmt.Fprintf(stderr, "pdu-generator: %v\n", err)
		return exitFail
	}

	if opts.check && res.Written {
		if err := check(res, cfg, log); err != nil {
			fmt.Fprintf(stderr, "pdu-generator: check: %v\n", err)
			return exitFail
		}
	}

	return exitOK
}

// parseArgs layers the config file, when given, under the flags that were
// set explicitly.
func parseArgs(args []string, stderr io.Writer) (config.Config, options, error) {
	var opts options

	fs := flag.NewFlagSet("pdu-generator", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configPath, "config", "", "TOML config file")
	fs.BoolVar(&opts.check, "check", false, "type-check the generated package after writing it")
	fs.StringVar(&opts.dumpPlan, "dump-plan", "", "write the derived plans as YAML to this path (- for stdout)")

	def := config.Default()
	schemaPath := fs.String("schema", def.Schema, "YAML schema path")
	outputDir := fs.String("out", def.OutputDir, "output directory")
	pkg := fs.String("package", def.Package, "generated package name")
	backend := fs.String("backend", def.Backend, "code generation backend")
	workers := fs.Int("workers", def.Workers, "concurrent plan derivations (0 = unbounded)")
	noSize := fs.Bool("no-size", !def.SizeMethods, "omit size expressions and MarshalledSize")
	noComments := fs.Bool("no-comments", !def.Comments, "do not copy schema comments")
	dryRun := fs.Bool("dry-run", def.DryRun, "derive and render without writing files")
	prune := fs.Bool("prune", def.Prune, "remove stale generated files from the output directory")
	logLevel := fs.String("log-level", def.LogLevel, "trace|debug|info|warn|error|off")

	if err := fs.Parse(args); err != nil {
		return config.Config{}, opts, err
	}

	if fs.NArg() > 0 {
		return config.Config{}, opts, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	cfg := def
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return config.Config{}, opts, err
		}

		cfg = loaded
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "schema":
			cfg.Schema = *schemaPath
		case "out":
			cfg.OutputDir = *outputDir
		case "package":
			cfg.Package = *pkg
		case "backend":
			cfg.Backend = *backend
		case "workers":
			cfg.Workers = *workers
		case "no-size":
			cfg.SizeMethods = !*noSize
		case "no-comments":
			cfg.Comments = !*noComments
		case "dry-run":
			cfg.DryRun = *dryRun
		case "prune":
			cfg.Prune = *prune
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})

	if opts.check && cfg.DryRun {
		return config.Config{}, opts, errors.New("-check needs written output; drop -dry-run")
	}

	return cfg, opts, cfg.Validate()
}

func printDiagnostics(w io.Writer, d diagnostic.Diagnostics) {
	for _, group := range [][]diagnostic.Diagnostic{d.Errors, d.Warnings, d.Infos} {
		for _, diag := range group {
			fmt.Fprintf(w, "%s: %s\n", diag.Severity, diag)
		}
	}
}

func dumpPlan(set *plan.PlanSet, path string, stdout io.Writer) error {
	data, err := plan.ExportYAML(set)
	if err != nil {
		return fmt.Errorf("exporting plans: %w", err)
	}

	if path == "-" {
		_, err = stdout.Write(data)
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

func check(res *compiler.Result, cfg config.Config, log zerolog.Logger) error {
	report, err := analyze.CheckDir(cfg.OutputDir)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(res.Plans.Plans))
	for _, p := range res.Plans.Plans {
		names = append(names, p.Name)
	}

	if err := report.VerifyMessages(names, cfg.SizeMethods); err != nil {
		return err
	}

	log.Info().Str("package", report.Path).Int("types", len(names)).Msg("generated package checks out")

	return nil
}
