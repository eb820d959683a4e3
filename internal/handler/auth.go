// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/olegiv/portfolio-go/internal/auth"
	"github.com/olegiv/portfolio-go/internal/content"
	"github.com/olegiv/portfolio-go/internal/middleware"
	"github.com/olegiv/portfolio-go/internal/render"
)

// AuthHandler handles authentication routes.
type AuthHandler struct {
	pages
	loginProtection *middleware.LoginProtection
}

// NewAuthHandler creates a new AuthHandler. A nil lp disables account
// lockout.
func NewAuthHandler(services *content.Services, renderer *render.Renderer, logger *slog.Logger, lp *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{
		pages:           pages{services: services, renderer: renderer, logger: logger},
		loginProtection: lp,
	}
}

// LoginData is the data of the login page.
type LoginData struct {
	Email string
}

// LoginForm renders the login page. Signed-in users go to the admin panel.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if s := auth.FromContext(r.Context()); s != nil && s.Authenticated() {
		http.Redirect(w, r, redirectAdmin, http.StatusSeeOther)
		return
	}
	h.render(w, r, http.StatusOK, "login", render.TemplateData{
		Title: "Log in",
		Data:  LoginData{},
	})
}

// Login handles the login form submission.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectLogin) {
		return
	}
	ctx := r.Context()
	email := strings.ToLower(trimmed(r, "email"))
	password := r.FormValue("password")
	if email == "" || password == "" {
		flashError(w, r, h.renderer, redirectLogin, "Email and password are required")
		return
	}

	s := auth.FromContext(ctx)
	if s == nil {
		logAndInternalError(w, r, h.logger, "login without session middleware")
		return
	}

	clientIP := middleware.ClientIP(r)
	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsLocked(email); locked {
			h.logger.WarnContext(ctx, "login attempt on locked account", "email", email, "ip", clientIP)
			flashError(w, r, h.renderer, redirectLogin,
				fmt.Sprintf("Account temporarily locked. Try again in %s.", formatDuration(remaining)))
			return
		}
	}

	if err := s.Login(ctx, email, password); err != nil {
		h.loginFailed(w, r, email, clientIP, err)
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccess(email)
	}
	user := s.User()
	h.logger.InfoContext(ctx, "user logged in", "user_id", user.ID, "email", user.Email)

	name := user.Name
	if name == "" {
		name = user.Email
	}
	flashSuccess(w, r, h.renderer, redirectAdmin, "Welcome back, "+name+"!")
}

func (h *AuthHandler) loginFailed(w http.ResponseWriter, r *http.Request, email, clientIP string, err error) {
	ctx := r.Context()
	if !errors.Is(err, auth.ErrInvalidCredentials) {
		h.logger.ErrorContext(ctx, "login error", "email", email, "error", err)
		flashError(w, r, h.renderer, redirectLogin, sentence(err))
		return
	}

	h.logger.WarnContext(ctx, "login failed: invalid credentials", "email", email, "ip", clientIP)
	if h.loginProtection != nil {
		if locked, lockDuration := h.loginProtection.RecordFailure(email); locked {
			h.logger.WarnContext(ctx, "account locked due to failed login attempts",
				"email", email, "duration", lockDuration.String())
			flashError(w, r, h.renderer, redirectLogin,
				fmt.Sprintf("Too many failed attempts. Account locked for %s.", formatDuration(lockDuration)))
			return
		}
		if remaining := h.loginProtection.Remaining(email); remaining > 0 && remaining <= 3 {
			flashError(w, r, h.renderer, redirectLogin,
				fmt.Sprintf("%s. %d attempts remaining.", sentence(err), remaining))
			return
		}
	}
	flashError(w, r, h.renderer, redirectLogin, sentence(err))
}

// Logout handles POST /logout. A failed logout keeps the session and says
// so.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	s := auth.FromContext(r.Context())
	if s == nil || !s.Authenticated() {
		http.Redirect(w, r, redirectLogin, http.StatusSeeOther)
		return
	}

	userID := s.User().ID
	if err := s.Logout(r.Context()); err != nil {
		h.logger.ErrorContext(r.Context(), "logout error", "user_id", userID, "error", err)
		flashError(w, r, h.renderer, redirectAdmin, "Logout failed: "+err.Error())
		return
	}

	h.logger.InfoContext(r.Context(), "user logged out", "user_id", userID)
	flashAndRedirect(w, r, h.renderer, redirectLogin, "You have been logged out", render.FlashInfo)
}

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", mins)
	}
	hours := int(d.Hours())
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
