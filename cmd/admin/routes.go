package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/justinas/nosurf"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// routes sets up the HTTP router for the admin application.
func (app *adminApplication) routes() http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Handle("/metrics", promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}))

	// HTML dashboard and its form posts, CSRF protected
	r.Group(func(r chi.Router) {
		r.Use(app.noSurf)

		r.Get("/", app.dashboardHandler)
		r.Post("/terms/new", app.termCreateHandler)
		r.Post("/terms/edit", app.termEditHandler)
		r.Post("/terms/delete", app.termDeleteHandler)
		r.Post("/storage/recreate", app.storageRecreateHandler)
	})

	// JSON API
	r.Route("/api", func(r chi.Router) {
		r.Get("/terms", app.apiListTermsHandler)
		r.Post("/terms", app.apiAddTermHandler)
		r.Put("/terms/{name}", app.apiUpdateTermHandler)
		r.Delete("/terms/{name}", app.apiRemoveTermHandler)
		r.Post("/storage/recreate", app.apiRecreateStorageHandler)
	})

	return r
}

// noSurf wraps next with CSRF protection for the form based pages.
func (app *adminApplication) noSurf(next http.Handler) http.Handler {
	h := nosurf.New(next)
	h.SetBaseCookie(http.Cookie{
		HttpOnly: true,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})
	h.SetFailureHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.logger.Warn("CSRF check failed", "method", r.Method, "path", r.URL.Path, "reason", nosurf.Reason(r))
		http.Error(w, "Forbidden - invalid CSRF token", http.StatusForbidden)
	}))
	return h
}
