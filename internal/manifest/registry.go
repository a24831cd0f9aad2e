package manifest

import (
	"errors"
	"fmt"
	"sort"

	"txinstall/internal/workflow"
)

// ErrStepTypeNotFound is returned by Registry.Get when no constructor is
// registered for the requested step type name.
var ErrStepTypeNotFound = errors.New("manifest: step type not registered")

// Constructor builds a workflow.Step from a step's params map, as decoded
// from its manifest entry.
type Constructor func(params map[string]any) (workflow.Step, error)

// Registry maps step type names to their Constructor: constructors
// register by name at init time and are resolved by name at load time.
type Registry struct {
	ctors map[string]Constructor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{ctors: make(map[string]Constructor)}
}

// Register adds a constructor under name. It panics on a duplicate name or
// an empty one: both are programming errors caught at startup, not runtime
// data the caller can recover from.
func (r *Registry) Register(name string, ctor Constructor) {
	if name == "" {
		panic("manifest: Register called with empty step type name")
	}
	if ctor == nil {
		panic(fmt.Sprintf("manifest: Register(%q) called with nil constructor", name))
	}
	if _, exists := r.ctors[name]; exists {
		panic(fmt.Sprintf("manifest: step type %q already registered", name))
	}
	r.ctors[name] = ctor
}

// Get resolves the constructor registered under name.
func (r *Registry) Get(name string) (Constructor, error) {
	ctor, ok := r.ctors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrStepTypeNotFound, name)
	}
	return ctor, nil
}

// List returns every registered step type name, alphabetically.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.ctors))
	for name := range r.ctors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
