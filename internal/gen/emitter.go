package gen

import (
	"fmt"
	"sort"
	"sync"

	"pdu-generator/internal/plan"
)

// GeneratedFile is one artifact produced by a backend.
type GeneratedFile struct {
	// Filename is relative to the output directory.
	Filename string
	// Content is the (formatted) source.
	Content []byte
	// Type is the message type the file implements, empty for support files.
	Type string
	// Backend is the name of the emitter that produced the file.
	Backend string
}

// Emitter renders one marshal plan into target source. Emitters only read
// the plan: ordering, sizes and count bindings are never recomputed.
type Emitter interface {
	Name() string
	Emit(p *plan.MarshalPlan) (*GeneratedFile, error)
}

// SupportEmitter is implemented by backends that also produce files shared
// by all types of a run.
type SupportEmitter interface {
	Emitter
	Support(plans []*plan.MarshalPlan) ([]GeneratedFile, error)
}

// Factory builds an emitter for a target package.
type Factory func(cfg Config) (Emitter, error)

// Config is the backend-independent emitter configuration.
type Config struct {
	// PackageName is the name of the generated package.
	PackageName string
	// OutputDir is only used for the debug sidecar of unformattable output.
	OutputDir string
	// Comments copies schema comments into the output.
	Comments bool
}

// DefaultConfig returns the default emitter configuration.
func DefaultConfig() Config {
	return Config{
		PackageName: "pdu",
		OutputDir:   "./generated",
		Comments:    true,
	}
}

// Registry maps backend names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a backend. Registering a name twice is an error.
func (r *Registry) Register(name string, f Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.factories[name]; ok {
		return fmt.Errorf("backend %q already registered", name)
	}

	r.factories[name] = f

	return nil
}

// New builds the named backend.
func (r *Registry) New(name string, cfg Config) (Emitter, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown backend %q (known: %v)", name, r.Names())
	}

	return f(cfg)
}

// Names returns the registered backend names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	r := NewRegistry()
	if err := r.Register(GoBackend, func(cfg Config) (Emitter, error) {
		return NewGoEmitter(cfg)
	}); err != nil {
		panic(err)
	}

	return r
})

// DefaultRegistry returns the registry holding the built-in backends.
func DefaultRegistry() *Registry {
	return defaultRegistry()
}

// EmitAll renders every plan in order, followed by the support files when
// the emitter has any. Two artifacts with the same filename are an error.
func EmitAll(e Emitter, plans []*plan.MarshalPlan) ([]GeneratedFile, error) {
	files := make([]GeneratedFile, 0, len(plans)+1)

	for _, p := range plans {
		f, err := e.Emit(p)
		if err != nil {
			return nil, fmt.Errorf("emitting %s with %s: %w", p.Name, e.Name(), err)
		}

		files = append(files, *f)
	}

	if se, ok := e.(SupportEmitter); ok {
		support, err := se.Support(plans)
		if err != nil {
			return nil, fmt.Errorf("emitting %s support files: %w", e.Name(), err)
		}

		files = append(files, support...)
	}

	seen := make(map[string]string, len(files))
	for _, f := range files {
		if other, dup := seen[f.Filename]; dup {
			return nil, fmt.Errorf("types %q and %q both map to file %s", other, f.Type, f.Filename)
		}

		seen[f.Filename] = f.Type
	}

	return files, nil
}

// Filenames lists the files in order.
func Filenames(files []GeneratedFile) []string {
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Filename)
	}

	return names
}
