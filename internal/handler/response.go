// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/olegiv/portfolio-go/internal/content"
	"github.com/olegiv/portfolio-go/internal/fallback"
	"github.com/olegiv/portfolio-go/internal/model"
	"github.com/olegiv/portfolio-go/internal/render"
)

// flashAndRedirect sets a flash message and redirects to the given URL.
// Uses http.StatusSeeOther (303) for POST redirects.
func flashAndRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message, messageType string) {
	renderer.SetFlash(r, message, messageType)
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// flashError sets an error flash message and redirects to the given URL.
func flashError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, render.FlashError)
}

// flashSuccess sets a success flash message and redirects to the given URL.
func flashSuccess(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, render.FlashSuccess)
}

// parseFormOrRedirect parses the request form and redirects with an error message on failure.
// Returns true if parsing succeeded, false if it failed (and redirect was performed).
func parseFormOrRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, redirectURL string) bool {
	if err := r.ParseForm(); err != nil {
		flashError(w, r, renderer, redirectURL, "Invalid form data")
		return false
	}
	return true
}

// logAndInternalError logs an error and writes a 500 Internal Server Error response.
func logAndInternalError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, logMsg string, args ...any) {
	logger.ErrorContext(r.Context(), logMsg, args...)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// sentence upper-cases the first letter of an error message for display.
func sentence(err error) string {
	msg := err.Error()
	r, size := utf8.DecodeRuneInString(msg)
	if r == utf8.RuneError {
		return msg
	}
	return string(unicode.ToUpper(r)) + msg[size:]
}

// pages renders pages with the site navigation and footer around them.
type pages struct {
	services *content.Services
	renderer *render.Renderer
	logger   *slog.Logger
}

// chrome loads what the layout needs besides the page itself.
func (p pages) chrome(ctx context.Context) (*model.NavigationData, *model.Footer) {
	nav := fallback.Load(ctx, p.logger, p.services.Navigation.Fetch, fallback.Navigation)
	personal := fallback.Load(ctx, p.logger, p.services.Personal.Fetch, fallback.Personal)
	if personal == nil {
		return nav, nil
	}
	return nav, &personal.Footer
}

// render writes page with status, filling in the layout data when the
// caller did not.
func (p pages) render(w http.ResponseWriter, r *http.Request, status int, page string, data render.TemplateData) {
	if data.Navigation == nil && data.Footer == nil {
		data.Navigation, data.Footer = p.chrome(r.Context())
	}
	if err := p.renderer.RenderStatus(w, r, status, page, data); err != nil {
		logAndInternalError(w, r, p.logger, "failed to render page", "page", page, "error", err)
	}
}

// loading writes the placeholder shown while required content is missing.
func (p pages) loading(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	p.render(w, r, http.StatusOK, "loading", render.TemplateData{Title: "Loading"})
}

func trimmed(r *http.Request, field string) string {
	return strings.TrimSpace(r.FormValue(field))
}
