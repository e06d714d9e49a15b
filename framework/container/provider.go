package container

import "fmt"

// ServiceProvider registers services into a container. Boot runs once every
// provider has registered, so it may resolve services of other providers.
type ServiceProvider interface {
	Register(c *Container) error
	Boot(c *Container) error
}

// BaseProvider gives providers a no-op Boot.
type BaseProvider struct{}

// Boot does nothing.
func (BaseProvider) Boot(*Container) error { return nil }

// Registry registers and boots providers in order.
type Registry struct {
	c         *Container
	providers []ServiceProvider
	booted    bool
}

// NewRegistry creates a registry for c.
func NewRegistry(c *Container) *Registry {
	return &Registry{c: c}
}

// Register calls p.Register now, and p.Boot now too if the registry has
// already booted.
func (r *Registry) Register(p ServiceProvider) error {
	if err := p.Register(r.c); err != nil {
		return fmt.Errorf("register %T: %w", p, err)
	}
	r.providers = append(r.providers, p)
	if r.booted {
		if err := p.Boot(r.c); err != nil {
			return fmt.Errorf("boot %T: %w", p, err)
		}
	}
	return nil
}

// Boot boots every registered provider once.
func (r *Registry) Boot() error {
	if r.booted {
		return nil
	}
	r.booted = true
	for _, p := range r.providers {
		if err := p.Boot(r.c); err != nil {
			return fmt.Errorf("boot %T: %w", p, err)
		}
	}
	return nil
}

// Booted reports whether Boot has run.
func (r *Registry) Booted() bool { return r.booted }

// Providers returns the registered providers in order.
func (r *Registry) Providers() []ServiceProvider { return r.providers }
