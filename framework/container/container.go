// Package container is the service container the application kernel is
// assembled in. Services are registered by providers as factories keyed by
// name and resolved lazily; singletons are built once.
//
//	c := container.New()
//	c.Singleton(container.KeyConfig, func(c *container.Container) (any, error) {
//	    return config.Load(), nil
//	})
//	cfg, err := container.Resolve[*config.Config](c, container.KeyConfig)
package container

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// Well-known service keys.
const (
	KeyConfig  = "config"
	KeyLogger  = "logger"
	KeyKinds   = "forms.kinds"
	KeyClock   = "forms.clock"
	KeyRouter  = "router"
	KeyViews   = "view"
	KeyMetrics = "metrics"
)

// ErrNotBound is returned when resolving a key nothing was registered for.
var ErrNotBound = errors.New("container: no binding")

// ErrCycle is returned when a factory resolves itself, directly or not.
var ErrCycle = errors.New("container: resolution cycle")

// Factory builds a service, resolving its own dependencies from c.
type Factory func(c *Container) (any, error)

type binding struct {
	factory   Factory
	singleton bool
}

// Container holds service bindings and resolved singletons.
type Container struct {
	mu        sync.Mutex
	bindings  map[string]binding
	instances map[string]any
	building  map[string]bool
}

// New creates an empty container.
func New() *Container {
	return &Container{
		bindings:  make(map[string]binding),
		instances: make(map[string]any),
		building:  make(map[string]bool),
	}
}

// Bind registers a factory that runs on every Make.
func (c *Container) Bind(key string, f Factory) { c.bind(key, f, false) }

// Singleton registers a factory whose result is cached after first use.
func (c *Container) Singleton(key string, f Factory) { c.bind(key, f, true) }

// Instance registers an already built service.
func (c *Container) Instance(key string, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.bindings, key)
	c.instances[key] = v
}

func (c *Container) bind(key string, f Factory, singleton bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.instances, key)
	c.bindings[key] = binding{factory: f, singleton: singleton}
}

// Bound reports whether key has a binding or an instance.
func (c *Container) Bound(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, inst := c.instances[key]
	_, bound := c.bindings[key]
	return inst || bound
}

// Keys returns every registered key, sorted.
func (c *Container) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]string, 0, len(c.bindings)+len(c.instances))
	for k := range c.bindings {
		keys = append(keys, k)
	}
	for k := range c.instances {
		if _, dup := c.bindings[k]; !dup {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}

// Make resolves key.
func (c *Container) Make(key string) (any, error) {
	c.mu.Lock()
	if v, ok := c.instances[key]; ok {
		c.mu.Unlock()
		return v, nil
	}
	b, ok := c.bindings[key]
	if !ok {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w for %q", ErrNotBound, key)
	}
	if c.building[key] {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w at %q", ErrCycle, key)
	}
	c.building[key] = true
	c.mu.Unlock()

	v, err := b.factory(c)

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.building, key)
	if err != nil {
		return nil, fmt.Errorf("container: build %q: %w", key, err)
	}
	if b.singleton {
		c.instances[key] = v
	}
	return v, nil
}

// Resolve is Make with a type assertion.
func Resolve[T any](c *Container, key string) (T, error) {
	var zero T
	v, err := c.Make(key)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("container: %q is %T, not %T", key, v, zero)
	}
	return t, nil
}

// MustResolve panics when key cannot be resolved. It is meant for kernel
// accessors whose services are registered by the kernel itself.
func MustResolve[T any](c *Container, key string) T {
	t, err := Resolve[T](c, key)
	if err != nil {
		panic(err)
	}
	return t
}
