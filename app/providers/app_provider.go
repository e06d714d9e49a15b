// Package providers registers the HR application into the kernel.
package providers

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/km-arc/go-rh-forms/app/controllers"
	"github.com/km-arc/go-rh-forms/app/models"
	"github.com/km-arc/go-rh-forms/app/store"
	"github.com/km-arc/go-rh-forms/framework/config"
	"github.com/km-arc/go-rh-forms/framework/container"
	"github.com/km-arc/go-rh-forms/framework/forms"
	gohttp "github.com/km-arc/go-rh-forms/framework/http"
	"github.com/km-arc/go-rh-forms/framework/metrics"
	"github.com/km-arc/go-rh-forms/framework/routing"
)

// Container keys of the HR services.
const (
	KeyStore     = "store"
	KeyValidator = "validator"
)

// AppServiceProvider binds the store and the model validator, and mounts the
// HR routes on boot.
type AppServiceProvider struct {
	// Store replaces the seeded store when set.
	Store *store.Store
	// Now replaces the forms clock when set.
	Now func() time.Time
}

func (p *AppServiceProvider) Register(c *container.Container) error {
	if p.Now != nil {
		c.Instance(container.KeyClock, p.Now)
	}
	c.Singleton(KeyStore, func(c *container.Container) (any, error) {
		if p.Store != nil {
			return p.Store, nil
		}
		now, err := container.Resolve[func() time.Time](c, container.KeyClock)
		if err != nil {
			return nil, err
		}
		return store.Seeded(now()), nil
	})
	c.Singleton(KeyValidator, func(c *container.Container) (any, error) {
		now, err := container.Resolve[func() time.Time](c, container.KeyClock)
		if err != nil {
			return nil, err
		}
		return models.NewValidator(now), nil
	})
	return nil
}

func (p *AppServiceProvider) Boot(c *container.Container) error {
	deps, err := resolveDeps(c)
	if err != nil {
		return err
	}
	cfg, err := container.Resolve[*config.Config](c, container.KeyConfig)
	if err != nil {
		return err
	}
	router, err := container.Resolve[*routing.Router](c, container.KeyRouter)
	if err != nil {
		return err
	}
	controllers.Register(router, deps, cfg.HTTP)
	return nil
}

func resolveDeps(c *container.Container) (*controllers.Deps, error) {
	d := &controllers.Deps{}
	var err error
	if d.Store, err = container.Resolve[*store.Store](c, KeyStore); err != nil {
		return nil, err
	}
	if d.Validator, err = container.Resolve[*models.Validator](c, KeyValidator); err != nil {
		return nil, err
	}
	if d.Now, err = container.Resolve[func() time.Time](c, container.KeyClock); err != nil {
		return nil, err
	}
	if d.Views, err = container.Resolve[*gohttp.ViewEngine](c, container.KeyViews); err != nil {
		return nil, err
	}
	if d.Kinds, err = container.Resolve[*forms.Kinds](c, container.KeyKinds); err != nil {
		return nil, err
	}
	if d.Metrics, err = container.Resolve[*metrics.Metrics](c, container.KeyMetrics); err != nil {
		return nil, err
	}
	log, err := container.Resolve[zerolog.Logger](c, container.KeyLogger)
	if err != nil {
		return nil, err
	}
	d.Log = log.With().Str("component", "rh").Logger()
	return d, nil
}
