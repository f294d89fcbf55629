// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package server assembles the HTTP router: middleware stack, route table
// and access guards.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/campusweb/internal/auth"
	"github.com/olegiv/campusweb/internal/config"
	"github.com/olegiv/campusweb/internal/handler"
	"github.com/olegiv/campusweb/internal/middleware"
	"github.com/olegiv/campusweb/internal/store"
	"github.com/olegiv/campusweb/internal/version"
)

// RequestTimeout bounds every request handled by the router.
const RequestTimeout = 30 * time.Second

// Public write limits per client IP: contact form, admissions inquiries
// and the visit counter.
const (
	PublicWriteRate  = 2.0
	PublicWriteBurst = 20
)

// Deps holds everything the router needs.
type Deps struct {
	Config          *config.Config
	Queries         *store.Queries
	Sessions        *scs.SessionManager
	Notifier        handler.ContactNotifier
	LoginProtection *middleware.LoginProtection
	PublicLimiter   *middleware.GlobalRateLimiter
	Version         version.Info
	Logger          *slog.Logger
}

// NewRouter builds the application router.
func NewRouter(d Deps) http.Handler {
	if d.PublicLimiter == nil {
		d.PublicLimiter = middleware.NewGlobalRateLimiter(PublicWriteRate, PublicWriteBurst)
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}

	authHandler := handler.NewAuthHandler(auth.NewAuthenticator(d.Queries, d.Logger), d.Sessions, d.LoginProtection)
	newsHandler := handler.NewNewsHandler(d.Queries)
	contactHandler := handler.NewContactHandler(d.Queries, d.Notifier)
	admissionsHandler := handler.NewAdmissionsHandler(d.Queries)
	datesHandler := handler.NewImportantDatesHandler(d.Queries)
	visitorsHandler := handler.NewVisitorsHandler(d.Queries)
	eventsHandler := handler.NewEventsHandler(d.Queries)
	healthHandler := handler.NewHealthHandler(d.Queries, d.Version)
	if p, ok := d.Sessions.Store.(handler.Pinger); ok {
		healthHandler.AddCheck("session_store", p)
	}

	isDev := d.Config.IsDevelopment()
	publicWrite := d.PublicLimiter.Middleware()

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(middleware.Timeout(RequestTimeout))
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(isDev)))
	r.Use(d.Sessions.LoadAndSave)
	r.Use(middleware.CSRF(middleware.DefaultCSRFConfig([]byte(d.Config.SessionSecret), isDev, d.Config.TrustedOrigins)))
	r.Use(middleware.LoadUser(d.Sessions, d.Queries))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		middleware.WriteAPIError(w, http.StatusNotFound, middleware.CodeNotFound, "Resource not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		middleware.WriteAPIError(w, http.StatusMethodNotAllowed, middleware.CodeBadRequest, "Method not allowed", nil)
	})

	r.Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	r.Route("/api", func(r chi.Router) {
		// Auth
		if d.LoginProtection != nil {
			r.With(d.LoginProtection.Middleware()).Post("/login", authHandler.Login)
		} else {
			r.Post("/login", authHandler.Login)
		}
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuthenticated)
			r.Post("/logout", authHandler.Logout)
			r.Get("/user", authHandler.User)
		})

		// Public reads and writes
		r.Get("/news", newsHandler.List)
		r.Get("/news/{id}", newsHandler.Get)
		r.Get("/important-dates", datesHandler.List)
		r.Get("/important-dates/{id}", datesHandler.Get)
		r.Get("/visitors", visitorsHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(publicWrite)
			r.Post("/visitors/increment", visitorsHandler.Increment)
			r.Post("/contact", contactHandler.Create)
			r.Post("/admissions/inquiries", admissionsHandler.Create)
		})

		// Administration
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)

			r.Post("/news", newsHandler.Create)
			r.Put("/news/{id}", newsHandler.Update)
			r.Delete("/news/{id}", newsHandler.Delete)

			r.Post("/important-dates", datesHandler.Create)
			r.Put("/important-dates/{id}", datesHandler.Update)
			r.Delete("/important-dates/{id}", datesHandler.Delete)

			r.Post("/visitors/reset", visitorsHandler.Reset)

			r.Get("/contact", contactHandler.List)
			r.Get("/contact/{id}", contactHandler.Get)
			r.Put("/contact/{id}/read", contactHandler.MarkRead)

			r.Get("/admissions/inquiries", admissionsHandler.List)
			r.Get("/admissions/inquiries/{id}", admissionsHandler.Get)
			r.Put("/admissions/inquiries/{id}/status", admissionsHandler.UpdateStatus)

			r.Get("/events", eventsHandler.List)
		})
	})

	return r
}
