// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/olegiv/portfolio-go/internal/testutil"
)

func TestSEOHandler_Robots(t *testing.T) {
	tests := []struct {
		name        string
		siteURL     string
		disallowAll bool
		want        []string
		notWant     []string
	}{
		{"configured url", "https://alex.example.com", false,
			[]string{"Disallow: /admin", "Sitemap: https://alex.example.com/sitemap.xml"}, nil},
		{"derived url", "", false,
			[]string{"Sitemap: http://example.com/sitemap.xml"}, nil},
		{"development", "", true,
			[]string{"Disallow: /\n"}, []string{"Sitemap:"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSEOHandler(tt.siteURL, tt.disallowAll, testutil.TestLoggerSilent())
			rr := httptest.NewRecorder()
			h.Robots(rr, httptest.NewRequest(http.MethodGet, RouteRobots, nil))

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, "text/plain; charset=utf-8", rr.Header().Get("Content-Type"))
			for _, s := range tt.want {
				assert.Contains(t, rr.Body.String(), s)
			}
			for _, s := range tt.notWant {
				assert.NotContains(t, rr.Body.String(), s)
			}
		})
	}
}

func TestSEOHandler_Sitemap(t *testing.T) {
	h := NewSEOHandler("", false, testutil.TestLoggerSilent())
	req := httptest.NewRequest(http.MethodGet, RouteSitemap, nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rr := httptest.NewRecorder()
	h.Sitemap(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/xml")
	assert.Contains(t, rr.Body.String(), "<loc>https://example.com/</loc>")
	assert.Contains(t, rr.Body.String(), "<loc>https://example.com/projects</loc>")
}

func TestRouter_CrawlerFiles(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.get(t, RouteRobots)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Disallow: /admin")

	resp, body = env.get(t, RouteSitemap)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "/projects</loc>")
}
