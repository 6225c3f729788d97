// Package compiler runs the whole pipeline: load, resolve, derive and
// validate, emit, write.
package compiler

import (
	"context"
	"errors"
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/rs/zerolog"

	"pdu-generator/internal/config"
	"pdu-generator/internal/diagnostic"
	"pdu-generator/internal/gen"
	"pdu-generator/internal/plan"
	"pdu-generator/internal/resolve"
	"pdu-generator/internal/schema"
	"pdu-generator/primitive"
)

var (
	// ErrResolution is returned when the schema has unbound names or
	// composition cycles. Nothing is derived or emitted.
	ErrResolution = errors.New("schema resolution failed")
	// ErrRejectedTypes is returned when at least one type was rejected.
	// Every accepted type is still emitted.
	ErrRejectedTypes = errors.New("message types rejected")
)

// Result is what a run produced.
type Result struct {
	Model *schema.Model
	// Plans is nil when resolution failed.
	Plans       *plan.PlanSet
	Files       []gen.GeneratedFile
	Diagnostics diagnostic.Diagnostics
	Rejected    []string
	// Written is false for dry runs and failed runs.
	Written bool
	Pruned  []string
}

// planDump prints plans at trace level without chasing parent and class
// pointers through the whole model.
var planDump = spew.ConfigState{
	Indent:                  "  ",
	MaxDepth:                4,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Run loads cfg.Schema and compiles it. See Compile.
func Run(ctx context.Context, cfg config.Config, log zerolog.Logger) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	m, err := schema.LoadFile(cfg.Schema)
	if err != nil {
		return nil, err
	}

	log.Info().Str("schema", cfg.Schema).Int("types", len(m.Classes)).Msg("schema loaded")

	return Compile(ctx, m, cfg, log)
}

// Compile resolves, derives, emits and (unless cfg.DryRun) writes m. A
// partial Result is returned alongside ErrResolution or ErrRejectedTypes so
// callers can report diagnostics.
func Compile(ctx context.Context, m *schema.Model, cfg config.Config, log zerolog.Logger) (*Result, error) {
	res := &Result{Model: m}

	resolver := resolve.NewResolver(primitive.DefaultCatalog(), resolve.Config{
		MaxSuggestions: 3,
		Logger:         log,
	})

	resolved, err := resolver.Resolve(m)
	if resolved != nil {
		res.Diagnostics.Merge(resolved.Diagnostics)
	}

	if err != nil {
		log.Error().Int("errors", len(res.Diagnostics.Errors)).Msg("schema does not resolve")
		return res, fmt.Errorf("%w: %w", ErrResolution, err)
	}

	set, err := plan.DeriveAll(ctx, m, plan.SetOptions{
		Options: plan.Options{Size: cfg.SizeMethods},
		Workers: cfg.Workers,
		Logger:  log,
	})
	if err != nil {
		return res, fmt.Errorf("deriving plans: %w", err)
	}

	res.Plans = set
	res.Rejected = set.Rejected
	res.Diagnostics.Merge(set.Diagnostics)
	res.Diagnostics.Sort()

	if log.GetLevel() <= zerolog.TraceLevel && zerolog.GlobalLevel() <= zerolog.TraceLevel {
		for _, p := range set.Plans {
			log.Trace().Str("type", p.Name).Msg(planDump.Sdump(p))
		}
	}

	emitter, err := newEmitter(cfg)
	if err != nil {
		return res, err
	}

	res.Files, err = gen.EmitAll(emitter, set.Plans)
	if err != nil {
		return res, err
	}

	log.Info().
		Str("backend", emitter.Name()).
		Int("files", len(res.Files)).
		Msg("code emitted")

	if !cfg.DryRun {
		if err := write(res, cfg, log); err != nil {
			return res, err
		}
	}

	if len(res.Rejected) > 0 {
		return res, fmt.Errorf("%w: %v", ErrRejectedTypes, res.Rejected)
	}

	return res, nil
}

func newEmitter(cfg config.Config) (gen.Emitter, error) {
	gcfg := gen.Config{
		PackageName: cfg.Package,
		OutputDir:   cfg.OutputDir,
		Comments:    cfg.Comments,
	}

	if cfg.Backend == gen.GoBackend && cfg.WireImport != "" {
		return gen.NewGoEmitter(gcfg, gen.WithWireImport(cfg.WireImport))
	}

	return gen.DefaultRegistry().New(cfg.Backend, gcfg)
}

func write(res *Result, cfg config.Config, log zerolog.Logger) error {
	if cfg.Prune {
		pruned, err := gen.Prune(res.Files, cfg.OutputDir)
		if err != nil {
			return err
		}

		res.Pruned = pruned

		for _, name := range pruned {
			log.Info().Str("file", name).Msg("removed stale file")
		}
	}

	if err := gen.WriteFiles(res.Files, cfg.OutputDir); err != nil {
		return err
	}

	res.Written = true

	log.Info().Str("dir", cfg.OutputDir).Int("files", len(res.Files)).Msg("files written")

	return nil
}
