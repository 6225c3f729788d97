// Package config loads the generator's TOML configuration.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is one generator run.
type Config struct {
	// Schema is the YAML schema path.
	Schema string
	// OutputDir receives the generated files.
	OutputDir string
	// Package is the generated package name.
	Package string
	// Backend selects the emitter.
	Backend string
	// Workers bounds concurrent plan derivation; 0 means unbounded.
	Workers int
	// SizeMethods enables size expressions and the MarshalledSize method.
	SizeMethods bool
	// Comments copies schema comments into generated code.
	Comments bool
	// WireImport overrides the runtime import path of generated Go code.
	WireImport string
	// DryRun derives and renders but writes nothing.
	DryRun bool
	// Prune deletes stale generated files from OutputDir.
	Prune bool
	// LogLevel is a zerolog level name.
	LogLevel string
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Schema:      "schema.yaml",
		OutputDir:   "./generated",
		Package:     "pdu",
		Backend:     "go",
		Workers:     4,
		SizeMethods: true,
		Comments:    true,
		LogLevel:    "info",
	}
}

type fileConfig struct {
	Schema      string `toml:"schema"`
	OutputDir   string `toml:"output_dir"`
	Package     string `toml:"package"`
	Backend     string `toml:"backend"`
	Workers     int    `toml:"workers"`
	SizeMethods bool   `toml:"size_methods"`
	Comments    bool   `toml:"comments"`
	WireImport  string `toml:"wire_import"`
	DryRun      bool   `toml:"dry_run"`
	Prune       bool   `toml:"prune"`
	LogLevel    string `toml:"log_level"`
}

// Load reads path over Default. Only keys present in the file override
// defaults; unknown keys are an error. Relative schema and output paths are
// taken relative to the file's directory.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}

		return Config{}, fmt.Errorf("load config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}

	base := filepath.Dir(path)

	if meta.IsDefined("schema") {
		cfg.Schema = relativeTo(base, raw.Schema)
	}

	if meta.IsDefined("output_dir") {
		cfg.OutputDir = relativeTo(base, raw.OutputDir)
	}

	if meta.IsDefined("package") {
		cfg.Package = strings.TrimSpace(raw.Package)
	}

	if meta.IsDefined("backend") {
		cfg.Backend = strings.TrimSpace(raw.Backend)
	}

	if meta.IsDefined("workers") {
		cfg.Workers = raw.Workers
	}

	if meta.IsDefined("size_methods") {
		cfg.SizeMethods = raw.SizeMethods
	}

	if meta.IsDefined("comments") {
		cfg.Comments = raw.Comments
	}

	if meta.IsDefined("wire_import") {
		cfg.WireImport = strings.TrimSpace(raw.WireImport)
	}

	if meta.IsDefined("dry_run") {
		cfg.DryRun = raw.DryRun
	}

	if meta.IsDefined("prune") {
		cfg.Prune = raw.Prune
	}

	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}

	return cfg, nil
}

func relativeTo(base, p string) string {
	p = strings.TrimSpace(p)
	if p == "" || filepath.IsAbs(p) {
		return p
	}

	return filepath.Join(base, p)
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Schema) == "" {
		errs = append(errs, errors.New("schema path is empty"))
	}

	if strings.TrimSpace(c.Backend) == "" {
		errs = append(errs, errors.New("backend is empty"))
	}

	if strings.TrimSpace(c.Package) == "" {
		errs = append(errs, errors.New("package name is empty"))
	}

	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}

	if !c.DryRun && strings.TrimSpace(c.OutputDir) == "" {
		errs = append(errs, errors.New("output_dir is empty"))
	}

	return errors.Join(errs...)
}
