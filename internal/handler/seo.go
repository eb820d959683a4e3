// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/olegiv/portfolio-go/internal/seo"
)

// SEOHandler serves robots.txt and sitemap.xml.
type SEOHandler struct {
	siteURL     string
	disallowAll bool
	logger      *slog.Logger
}

// NewSEOHandler creates an SEOHandler. An empty siteURL is derived from each
// request.
func NewSEOHandler(siteURL string, disallowAll bool, logger *slog.Logger) *SEOHandler {
	return &SEOHandler{siteURL: siteURL, disallowAll: disallowAll, logger: logger}
}

func (h *SEOHandler) baseURL(r *http.Request) string {
	if h.siteURL != "" {
		return h.siteURL
	}
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

// Robots handles GET /robots.txt.
func (h *SEOHandler) Robots(w http.ResponseWriter, r *http.Request) {
	body := seo.BuildRobots(seo.RobotsConfig{
		SiteURL:     h.baseURL(r),
		DisallowAll: h.disallowAll,
	})
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write([]byte(body))
}

// Sitemap handles GET /sitemap.xml.
func (h *SEOHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	b := seo.NewSitemapBuilder(h.baseURL(r))
	b.AddHomepage(time.Time{})
	b.AddPath(RouteProjects, time.Time{})

	out, err := b.Build()
	if err != nil {
		logAndInternalError(w, r, h.logger, "failed to build sitemap", "error", err)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(out)
}
