// Package providers registers the framework services into the kernel's
// container: configuration, logging, form kinds, metrics, router and views.
package providers

import (
	"io/fs"
	"time"

	"github.com/rs/zerolog"

	"github.com/km-arc/go-rh-forms/framework/config"
	"github.com/km-arc/go-rh-forms/framework/container"
	"github.com/km-arc/go-rh-forms/framework/forms"
	gohttp "github.com/km-arc/go-rh-forms/framework/http"
	"github.com/km-arc/go-rh-forms/framework/logging"
	"github.com/km-arc/go-rh-forms/framework/metrics"
	"github.com/km-arc/go-rh-forms/framework/routing"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider binds the configuration as container.KeyConfig. A
// preset Config wins over loading the env files.
type ConfigServiceProvider struct {
	container.BaseProvider
	EnvFiles []string
	Config   *config.Config
}

func (p *ConfigServiceProvider) Register(c *container.Container) error {
	if p.Config != nil {
		c.Instance(container.KeyConfig, p.Config)
		return nil
	}
	envFiles := p.EnvFiles
	c.Singleton(container.KeyConfig, func(*container.Container) (any, error) {
		return config.Load(envFiles...), nil
	})
	return nil
}

// ── LogServiceProvider ────────────────────────────────────────────────────────

// LogServiceProvider configures the global zerolog logger from the
// configuration and binds it as container.KeyLogger.
type LogServiceProvider struct {
	container.BaseProvider
}

func (p *LogServiceProvider) Register(c *container.Container) error {
	c.Singleton(container.KeyLogger, func(c *container.Container) (any, error) {
		cfg, err := container.Resolve[*config.Config](c, container.KeyConfig)
		if err != nil {
			return nil, err
		}
		logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
		return logging.Logger(), nil
	})
	return nil
}

// Boot forces the logger to be configured before anything logs.
func (p *LogServiceProvider) Boot(c *container.Container) error {
	_, err := c.Make(container.KeyLogger)
	return err
}

// ── FormsServiceProvider ──────────────────────────────────────────────────────

// FormsServiceProvider binds the form kind configuration as
// container.KeyKinds (the file named by FORMS_KINDS_FILE, else the embedded
// defaults) and the clock deciding "today" as container.KeyClock.
type FormsServiceProvider struct {
	container.BaseProvider
}

func (p *FormsServiceProvider) Register(c *container.Container) error {
	c.Singleton(container.KeyClock, func(c *container.Container) (any, error) {
		cfg, err := container.Resolve[*config.Config](c, container.KeyConfig)
		if err != nil {
			return nil, err
		}
		loc := cfg.Forms.Location()
		return func() time.Time { return time.Now().In(loc) }, nil
	})
	c.Singleton(container.KeyKinds, func(c *container.Container) (any, error) {
		cfg, err := container.Resolve[*config.Config](c, container.KeyConfig)
		if err != nil {
			return nil, err
		}
		if cfg.Forms.KindsFile == "" {
			return forms.DefaultKinds(), nil
		}
		return forms.LoadKindsFile(cfg.Forms.KindsFile)
	})
	return nil
}

// Boot fails fast on a broken kinds file.
func (p *FormsServiceProvider) Boot(c *container.Container) error {
	_, err := c.Make(container.KeyKinds)
	return err
}

// ── MetricsServiceProvider ────────────────────────────────────────────────────

// MetricsServiceProvider binds a Prometheus registry as container.KeyMetrics.
type MetricsServiceProvider struct {
	container.BaseProvider
}

func (p *MetricsServiceProvider) Register(c *container.Container) error {
	c.Singleton(container.KeyMetrics, func(*container.Container) (any, error) {
		return metrics.New(), nil
	})
	return nil
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider binds the HTTP router as container.KeyRouter and
// mounts /metrics on it.
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(c *container.Container) error {
	c.Singleton(container.KeyRouter, func(c *container.Container) (any, error) {
		log, err := container.Resolve[zerolog.Logger](c, container.KeyLogger)
		if err != nil {
			return nil, err
		}
		return routing.New(log.With().Str("component", "http").Logger()), nil
	})
	return nil
}

func (p *RoutingServiceProvider) Boot(c *container.Container) error {
	router, err := container.Resolve[*routing.Router](c, container.KeyRouter)
	if err != nil {
		return err
	}
	m, err := container.Resolve[*metrics.Metrics](c, container.KeyMetrics)
	if err != nil {
		return err
	}
	router.Handle("/metrics", m.Handler())
	return nil
}

// ── ViewServiceProvider ───────────────────────────────────────────────────────

// ViewServiceProvider binds the template engine as container.KeyViews.
type ViewServiceProvider struct {
	container.BaseProvider
	FS     fs.FS
	Layout string // default "layout"
	Ext    string // default ".html"
}

func (p *ViewServiceProvider) Register(c *container.Container) error {
	layout, ext := p.Layout, p.Ext
	if layout == "" {
		layout = "layout"
	}
	if ext == "" {
		ext = ".html"
	}
	fsys := p.FS
	c.Singleton(container.KeyViews, func(*container.Container) (any, error) {
		return gohttp.NewViewEngine(fsys, layout, ext), nil
	})
	return nil
}
