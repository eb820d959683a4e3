// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"net/http"
)

// LoginPath is where unauthenticated visitors of guarded pages are sent.
const LoginPath = "/login"

// Guard protects next by the session state of the request. An unresolved
// session gets the loading placeholder without a redirect, an
// unauthenticated one is redirected to LoginPath and an authenticated one
// reaches next. A nil loading handler writes a plain placeholder.
func Guard(loading http.Handler) func(http.Handler) http.Handler {
	if loading == nil {
		loading = http.HandlerFunc(loadingPlaceholder)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := FromContext(r.Context())
			status := StatusUnknown
			if s != nil {
				status = s.Status()
			}

			switch status {
			case StatusAuthenticated:
				next.ServeHTTP(w, r)
			case StatusUnauthenticated:
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			default:
				loading.ServeHTTP(w, r)
			}
		})
	}
}

func loadingPlaceholder(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte("Loading..."))
}
