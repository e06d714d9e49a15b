// Package app is the application kernel: a service container populated by
// the framework providers, plus the HTTP server lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/km-arc/go-rh-forms/framework/config"
	"github.com/km-arc/go-rh-forms/framework/container"
	"github.com/km-arc/go-rh-forms/framework/forms"
	gohttp "github.com/km-arc/go-rh-forms/framework/http"
	"github.com/km-arc/go-rh-forms/framework/metrics"
	"github.com/km-arc/go-rh-forms/framework/providers"
	"github.com/km-arc/go-rh-forms/framework/routing"
)

// Version is overridden at build time with -ldflags "-X ...app.Version=...".
var Version = "0.1.0"

// Application embeds the service container so callers can bind their own
// services next to the framework ones.
type Application struct {
	*container.Container
	Providers *container.Registry
}

// Option configures the kernel before the framework providers register.
type Option func(*options)

type options struct {
	envFiles []string
	cfg      *config.Config
	views    fs.FS
}

// WithEnvFiles loads configuration from the given .env files.
func WithEnvFiles(files ...string) Option {
	return func(o *options) { o.envFiles = files }
}

// WithConfig uses cfg instead of loading the environment.
func WithConfig(cfg *config.Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithViews sets the filesystem views are loaded from.
func WithViews(fsys fs.FS) Option {
	return func(o *options) { o.views = fsys }
}

// New creates the application and registers the framework providers.
func New(opts ...Option) (*Application, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.views == nil {
		return nil, errors.New("app: no views filesystem")
	}

	c := container.New()
	a := &Application{Container: c, Providers: container.NewRegistry(c)}
	c.Instance("app", a)

	for _, p := range []container.ServiceProvider{
		&providers.ConfigServiceProvider{EnvFiles: o.envFiles, Config: o.cfg},
		&providers.LogServiceProvider{},
		&providers.FormsServiceProvider{},
		&providers.MetricsServiceProvider{},
		&providers.RoutingServiceProvider{},
		&providers.ViewServiceProvider{FS: o.views},
	} {
		if err := a.Register(p); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(p container.ServiceProvider) error {
	return a.Providers.Register(p)
}

// Boot runs the Boot phase of every provider.
func (a *Application) Boot() error {
	return a.Providers.Boot()
}

// ── services ─────────────────────────────────────────────────────────────────

func (a *Application) Config() *config.Config {
	return container.MustResolve[*config.Config](a.Container, container.KeyConfig)
}

func (a *Application) Logger() zerolog.Logger {
	return container.MustResolve[zerolog.Logger](a.Container, container.KeyLogger)
}

func (a *Application) Kinds() *forms.Kinds {
	return container.MustResolve[*forms.Kinds](a.Container, container.KeyKinds)
}

func (a *Application) Metrics() *metrics.Metrics {
	return container.MustResolve[*metrics.Metrics](a.Container, container.KeyMetrics)
}

func (a *Application) Router() *routing.Router {
	return container.MustResolve[*routing.Router](a.Container, container.KeyRouter)
}

func (a *Application) Views() *gohttp.ViewEngine {
	return container.MustResolve[*gohttp.ViewEngine](a.Container, container.KeyViews)
}

// Clock returns "now" in the configured forms timezone.
func (a *Application) Clock() func() time.Time {
	return container.MustResolve[func() time.Time](a.Container, container.KeyClock)
}

// ── server ───────────────────────────────────────────────────────────────────

// Server builds the HTTP server for the application.
func (a *Application) Server() *http.Server {
	return &http.Server{
		Addr:              net.JoinHostPort("", a.Config().App.Port),
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run boots the application if needed and serves until ctx is cancelled,
// then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	if !a.Providers.Booted() {
		if err := a.Boot(); err != nil {
			return err
		}
	}
	cfg := a.Config()
	log := a.Logger()
	srv := a.Server()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("app", cfg.App.Name).Str("addr", srv.Addr).Str("env", cfg.App.Env).Msg("server started")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("app: serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	log.Info().Msg("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("app: shutdown: %w", err)
	}
	return nil
}

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.Config().App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsDebug() bool       { return a.Config().App.Debug }

// ── Controller base ───────────────────────────────────────────────────────────

// Controller is an embeddable base for controllers.
type Controller struct{}

func (c *Controller) Request(r *http.Request) *gohttp.Request {
	return gohttp.NewRequest(r)
}

func (c *Controller) Response(w http.ResponseWriter) *gohttp.Response {
	return gohttp.NewResponse(w)
}
