// Package integrator implements the light transport estimators that turn a
// camera ray into a radiance estimate.
package integrator

import (
	"sort"

	"github.com/df07/go-mis-raytracer/pkg/core"
	"github.com/df07/go-mis-raytracer/pkg/scene"
)

// Integrator defines the interface for light transport algorithms. It is the
// scene's interface so that the scene can hold one without an import cycle.
type Integrator = scene.Integrator

// Constructor builds an integrator from its properties
type Constructor func(props *core.Properties) (Integrator, error)

// Registry maps integrator names to their constructors
type Registry struct {
	constructors map[string]Constructor
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{constructors: make(map[string]Constructor)}
}

// DefaultRegistry returns a registry holding every built-in integrator
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.mustRegister("ao", adapt(NewAmbientOcclusionFromProperties))
	r.mustRegister("direct", adapt(NewDirectFromProperties))
	r.mustRegister("direct-mis", adapt(NewDirectMISFromProperties))
	r.mustRegister("path", adapt(NewPathFromProperties))
	r.mustRegister("volume", adapt(NewVolumeFromProperties))
	r.mustRegister("normals", func(*core.Properties) (Integrator, error) { return NewNormals(), nil })
	r.mustRegister("simple", func(*core.Properties) (Integrator, error) { return NewSimple(), nil })
	return r
}

// adapt turns a typed constructor into a Constructor without leaking typed nils
func adapt[T Integrator](build func(*core.Properties) (T, error)) Constructor {
	return func(props *core.Properties) (Integrator, error) {
		integrator, err := build(props)
		if err != nil {
			return nil, err
		}
		return integrator, nil
	}
}

// Register adds a constructor under name. Names must be unique.
func (r *Registry) Register(name string, constructor Constructor) error {
	if _, exists := r.constructors[name]; exists {
		return core.NewConfigurationError("integrator registry", "integrator %q is already registered", name)
	}
	r.constructors[name] = constructor
	return nil
}

func (r *Registry) mustRegister(name string, constructor Constructor) {
	if err := r.Register(name, constructor); err != nil {
		panic(err)
	}
}

// Create builds the named integrator. A nil props is treated as empty.
func (r *Registry) Create(name string, props *core.Properties) (Integrator, error) {
	constructor, ok := r.constructors[name]
	if !ok {
		return nil, core.NewConfigurationError("integrator registry", "unknown integrator %q", name)
	}
	if props == nil {
		props = core.NewProperties()
	}
	return constructor(props)
}

// Names returns the registered integrator names in sorted order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.constructors))
	for name := range r.constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
