package postprocessors

import (
	"fmt"
	"sort"

	"github.com/custodia-labs/fatura-cli/internal/core/domain"
	"github.com/custodia-labs/fatura-cli/internal/core/ports/driven"
)

// BuilderFunc creates a PostProcessor from generic config.
// Config is a map of step-specific settings.
type BuilderFunc func(cfg map[string]any) (driven.PostProcessor, error)

// Registry maps step names to their builders.
// It allows the step order to come from configuration.
type Registry struct {
	builders map[string]BuilderFunc
}

// NewRegistry creates a new step registry.
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[string]BuilderFunc),
	}
}

// Register adds a step builder to the registry.
// Name should be unique and match the step's Name() return value.
func (r *Registry) Register(name string, builder BuilderFunc) {
	r.builders[name] = builder
}

// Build creates a step by name with the given config.
// Returns an error wrapping domain.ErrNotFound if the name is not registered.
func (r *Registry) Build(name string, cfg map[string]any) (driven.PostProcessor, error) {
	builder, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown repair step %q: %w", name, domain.ErrNotFound)
	}
	return builder(cfg)
}

// BuildPipeline builds the named steps, in order, into a Pipeline. cfg is
// passed to every builder.
func (r *Registry) BuildPipeline(names []string, cfg map[string]any) (*Pipeline, error) {
	p := NewPipeline()
	for _, name := range names {
		step, err := r.Build(name, cfg)
		if err != nil {
			return nil, err
		}
		p.Add(step)
	}
	return p, nil
}

// Has returns true if a step with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.builders[name]
	return ok
}

// Names returns all registered step names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
