package systems

import (
	"fmt"
	"sort"

	"chaoslab/internal/dynamo"
)

// Registry maps system names to factories. Each call to New returns a
// fresh instance, so callers can tune parameters without sharing state.
type Registry struct {
	factories map[string]func() dynamo.System
}

func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]func() dynamo.System)}

	r.factories["lorenz"] = func() dynamo.System { return NewLorenz() }
	r.factories["rossler"] = func() dynamo.System { return NewRossler() }
	r.factories["thomas"] = func() dynamo.System { return NewThomas() }
	r.factories["aizawa"] = func() dynamo.System { return NewAizawa() }

	return r
}

func (r *Registry) New(name string) (dynamo.System, error) {
	fn, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, dynamo.ErrUnknownSystem)
	}
	return fn(), nil
}

// NewWithParams creates a named system and applies parameter overrides.
func (r *Registry) NewWithParams(name string, params map[string]float64) (dynamo.System, error) {
	sys, err := r.New(name)
	if err != nil {
		return nil, err
	}
	if len(params) == 0 {
		return sys, nil
	}
	tunable, ok := sys.(dynamo.Configurable)
	if !ok {
		return nil, fmt.Errorf("system %q is not configurable: %w", name, dynamo.ErrUnknownParam)
	}
	for k, v := range params {
		if err := tunable.SetParam(k, v); err != nil {
			return nil, err
		}
	}
	return sys, nil
}

// Factory returns a closure producing fresh pre-parameterized
// instances, suitable for parallel sweeps.
func (r *Registry) Factory(name string, params map[string]float64) (func() dynamo.System, error) {
	if _, err := r.NewWithParams(name, params); err != nil {
		return nil, err
	}
	return func() dynamo.System {
		sys, _ := r.NewWithParams(name, params)
		return sys
	}, nil
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultState returns a system's conventional initial state, or a
// zero vector when it does not declare one.
func DefaultState(sys dynamo.System) dynamo.State {
	if s, ok := sys.(dynamo.Seeded); ok {
		return s.DefaultState()
	}
	return make(dynamo.State, sys.Dim())
}
