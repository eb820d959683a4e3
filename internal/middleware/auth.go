// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides the HTTP middleware of the portfolio server:
// per-request auth sessions, CSRF, rate limiting and security headers.
package middleware

import (
	"net/http"

	"github.com/olegiv/portfolio-go/internal/auth"
	"github.com/olegiv/portfolio-go/internal/logging"
)

// LoadSession attaches a resolved auth.Session to every request. It must run
// inside scs.SessionManager.LoadAndSave.
func LoadSession(accounts auth.AccountService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := auth.NewSession(accounts)
			s.Init(r.Context())
			next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), s)))
		})
	}
}

// RequestPath stores the request path in the context for the event log.
func RequestPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(logging.WithRequestPath(r.Context(), r.URL.Path)))
	})
}
