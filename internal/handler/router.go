// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/portfolio-go/internal/auth"
	"github.com/olegiv/portfolio-go/internal/contact"
	"github.com/olegiv/portfolio-go/internal/content"
	"github.com/olegiv/portfolio-go/internal/media"
	"github.com/olegiv/portfolio-go/internal/middleware"
	"github.com/olegiv/portfolio-go/internal/render"
	"github.com/olegiv/portfolio-go/internal/scheduler"
	"github.com/olegiv/portfolio-go/internal/store"
	"github.com/olegiv/portfolio-go/web"
)

const requestTimeout = 30 * time.Second

// RouterConfig holds everything the router wires together. Media,
// RateLimiter, LoginProtection, Captcha and Jobs are optional.
type RouterConfig struct {
	Services        *content.Services
	Renderer        *render.Renderer
	Sessions        *scs.SessionManager
	Accounts        auth.AccountService
	DB              store.DBTX
	Logger          *slog.Logger
	Sender          contact.Sender
	Captcha         *contact.Captcha
	HCaptchaSiteKey string
	Media           media.Source
	Health          *scheduler.StoreHealth
	Jobs            JobLister
	LoginProtection *middleware.LoginProtection
	RateLimiter     *middleware.RateLimiter
	CSRF            middleware.CSRFConfig
	Security        middleware.SecurityHeadersConfig
	RequestLogging  bool
	// SiteURL is the canonical base URL; empty derives it per request.
	SiteURL          string
	DisallowCrawlers bool
}

// NewRouter builds the chi router of the site.
func NewRouter(cfg RouterConfig) (http.Handler, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	frontend := NewFrontendHandler(cfg.Services, cfg.Renderer, logger, cfg.HCaptchaSiteKey)
	contactHandler := NewContactHandler(frontend, cfg.Sender, cfg.Captcha, logger)
	authHandler := NewAuthHandler(cfg.Services, cfg.Renderer, logger, cfg.LoginProtection)
	adminHandler := NewAdminHandler(cfg.Services, cfg.Renderer, logger, cfg.DB, cfg.Jobs, cfg.Health)
	healthHandler := NewHealthHandler(cfg.Health)
	seoHandler := NewSEOHandler(cfg.SiteURL, cfg.DisallowCrawlers, logger)

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	if cfg.RequestLogging {
		r.Use(chimw.Logger)
	}
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(chimw.Timeout(requestTimeout))
	r.Use(chimw.RedirectSlashes)
	r.Use(middleware.SecurityHeaders(cfg.Security))
	r.Use(middleware.RequestPath)

	// Health, crawler files and static files need no session.
	r.Get(RouteHealth+"/live", healthHandler.Liveness)
	r.Get(RouteHealth+"/ready", healthHandler.Readiness)
	r.Get(RouteRobots, seoHandler.Robots)
	r.Get(RouteSitemap, seoHandler.Sitemap)
	r.Handle(RouteStatic+"/*", http.StripPrefix(RouteStatic+"/", http.FileServer(http.FS(staticFS))))
	if cfg.Media != nil {
		r.Handle(RouteMedia+"/*", media.Handler(cfg.Media, RouteMedia+"/", logger))
	}

	r.Group(func(r chi.Router) {
		r.Use(cfg.Sessions.LoadAndSave)
		r.Use(middleware.LoadSession(cfg.Accounts))
		r.Use(middleware.CSRF(cfg.CSRF))
		if cfg.RateLimiter != nil {
			r.Use(cfg.RateLimiter.Middleware())
		}

		r.Get(RouteHealth, healthHandler.Health)

		r.Get(RouteRoot, frontend.Home)
		r.Get(RouteProjects, frontend.Projects)
		r.Post(RouteContact, contactHandler.Submit)

		r.Get(RouteLogin, authHandler.LoginForm)
		login := r.With()
		if cfg.LoginProtection != nil {
			login = r.With(cfg.LoginProtection.Middleware())
		}
		login.Post(RouteLogin, authHandler.Login)
		r.Post(RouteLogout, authHandler.Logout)

		r.Route(RouteAdmin, func(r chi.Router) {
			r.Use(auth.Guard(http.HandlerFunc(adminHandler.loading)))
			r.Get(RouteRoot, adminHandler.Dashboard)
			r.Post("/personal", adminHandler.UpdatePersonal)
			r.Post(RouteProjects, adminHandler.CreateProject)
			r.Post(RouteProjects+RouteParamID+"/delete", adminHandler.DeleteProject)
		})

		r.Get("/*", frontend.Home)
	})

	return r, nil
}
