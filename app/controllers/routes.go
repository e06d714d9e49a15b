package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/km-arc/go-rh-forms/framework/config"
	"github.com/km-arc/go-rh-forms/framework/routing"
)

// Register mounts the HR routes.
//
//	GET  /                         → /employees
//	GET  /login                    → login page
//	GET  /{resource}               → filterable list
//	GET  /{resource}/new           → empty form
//	POST /{resource}               → validate and store
//	POST /api/validate/{resource}  → JSON verdicts
func Register(r *routing.Router, deps *Deps, cfg config.HTTPConfig) {
	resources := Resources()

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, resources[0].Path, http.StatusFound)
	})
	r.Get("/login", NewLoginController(deps).Show)

	for _, res := range resources {
		r.Resource(res.Path, NewResourceController(res, deps))
	}

	api := NewValidateController(deps, resources)
	r.Prefix("/api", func(r *routing.Router) {
		// go-chi/cors allows every origin when the list is empty.
		if len(cfg.CORSOrigins) > 0 {
			r.Middleware(cors.Handler(cors.Options{
				AllowedOrigins: cfg.CORSOrigins,
				AllowedMethods: []string{http.MethodPost, http.MethodOptions},
				AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
				ExposedHeaders: []string{"X-Request-ID"},
				MaxAge:         300,
			}))
		}
		if cfg.RateLimit > 0 {
			r.Middleware(httprate.LimitByIP(cfg.RateLimit, time.Minute))
		}
		r.Post("/validate/{resource}", api.Validate)
	})
}
