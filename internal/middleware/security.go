// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
)

// SecurityHeadersConfig holds the response security headers.
type SecurityHeadersConfig struct {
	IsDevelopment         bool
	ContentSecurityPolicy string
	HSTSMaxAge            int // seconds; 0 disables HSTS
	HSTSIncludeSubDomains bool
	FrameOptions          string
	ReferrerPolicy        string
	PermissionsPolicy     string
	ExcludePaths          []string // path prefixes served without the headers
}

var cspOrder = []string{
	"default-src", "script-src", "style-src", "img-src", "font-src",
	"connect-src", "frame-src", "object-src", "base-uri", "form-action",
	"frame-ancestors",
}

// DefaultSecurityHeadersConfig allows the hCaptcha widget and media from the
// storage bucket host.
func DefaultSecurityHeadersConfig(isDev bool, mediaHost string) SecurityHeadersConfig {
	img := "'self' data:"
	if mediaHost != "" {
		img += " " + mediaHost
	}
	directives := map[string]string{
		"default-src":     "'self'",
		"script-src":      "'self' https://hcaptcha.com https://*.hcaptcha.com",
		"style-src":       "'self' 'unsafe-inline' https://hcaptcha.com https://*.hcaptcha.com",
		"img-src":         img,
		"font-src":        "'self' data:",
		"connect-src":     "'self' https://hcaptcha.com https://*.hcaptcha.com",
		"frame-src":       "https://hcaptcha.com https://*.hcaptcha.com",
		"object-src":      "'none'",
		"base-uri":        "'self'",
		"form-action":     "'self'",
		"frame-ancestors": "'self'",
	}
	if isDev {
		directives["script-src"] += " 'unsafe-inline'"
	}

	return SecurityHeadersConfig{
		IsDevelopment:         isDev,
		ContentSecurityPolicy: buildCSP(directives),
		HSTSMaxAge:            31536000,
		HSTSIncludeSubDomains: !isDev,
		FrameOptions:          "SAMEORIGIN",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		PermissionsPolicy:     "camera=(), geolocation=(), microphone=(), payment=(), usb=(), browsing-topics=()",
	}
}

// buildCSP joins directives in a fixed order, unknown ones last and sorted.
func buildCSP(directives map[string]string) string {
	parts := make([]string, 0, len(directives))
	for _, key := range cspOrder {
		if v, ok := directives[key]; ok {
			parts = append(parts, key+" "+v)
		}
	}
	var extra []string
	for key, v := range directives {
		if !slices.Contains(cspOrder, key) {
			extra = append(extra, key+" "+v)
		}
	}
	slices.Sort(extra)
	return strings.Join(append(parts, extra...), "; ")
}

// SecurityHeaders sets the configured headers on every response outside the
// excluded prefixes.
func SecurityHeaders(cfg SecurityHeadersConfig) func(http.Handler) http.Handler {
	hsts := ""
	if !cfg.IsDevelopment && cfg.HSTSMaxAge > 0 {
		hsts = "max-age=" + strconv.Itoa(cfg.HSTSMaxAge)
		if cfg.HSTSIncludeSubDomains {
			hsts += "; includeSubDomains"
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, prefix := range cfg.ExcludePaths {
				if strings.HasPrefix(r.URL.Path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}

			h := w.Header()
			if cfg.ContentSecurityPolicy != "" {
				h.Set("Content-Security-Policy", cfg.ContentSecurityPolicy)
			}
			if hsts != "" {
				h.Set("Strict-Transport-Security", hsts)
			}
			if cfg.FrameOptions != "" {
				h.Set("X-Frame-Options", cfg.FrameOptions)
			}
			h.Set("X-Content-Type-Options", "nosniff")
			if cfg.ReferrerPolicy != "" {
				h.Set("Referrer-Policy", cfg.ReferrerPolicy)
			}
			if cfg.PermissionsPolicy != "" {
				h.Set("Permissions-Policy", cfg.PermissionsPolicy)
			}
			next.ServeHTTP(w, r)
		})
	}
}
