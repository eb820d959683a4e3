// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures the scs session manager that carries admin
// sign-ins, persisted in the SQLite sessions table.
package session

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// Session cookie settings.
const (
	Lifetime         = 24 * time.Hour
	IdleTimeout      = 2 * time.Hour
	CookieName       = "portfolio_session"
	SecureCookieName = "__Host-portfolio_session"
)

// New creates a session manager over db. Outside development the cookie is
// Secure and uses the __Host- prefix, which requires Path=/ and no Domain.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.New(db)

	sm.Lifetime = Lifetime
	sm.IdleTimeout = IdleTimeout
	sm.Cookie.Name = CookieName
	sm.Cookie.Path = "/"
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev
	if !isDev {
		sm.Cookie.Name = SecureCookieName
	}
	return sm
}
