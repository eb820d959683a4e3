// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/olegiv/portfolio-go/internal/contact"
	"github.com/olegiv/portfolio-go/internal/middleware"
	"github.com/olegiv/portfolio-go/internal/render"
)

// ContactHandler receives the contact form.
type ContactHandler struct {
	home     *FrontendHandler
	sender   contact.Sender
	captcha  *contact.Captcha
	renderer *render.Renderer
	logger   *slog.Logger
}

// NewContactHandler creates a new ContactHandler. A nil captcha disables
// captcha checks.
func NewContactHandler(home *FrontendHandler, sender contact.Sender, captcha *contact.Captcha, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{
		home:     home,
		sender:   sender,
		captcha:  captcha,
		renderer: home.renderer,
		logger:   logger,
	}
}

// Submit handles POST /contact. Invalid input re-renders the home page with
// the field errors; delivery failures end in an error toast.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectContact) {
		return
	}
	ctx := r.Context()
	form := contact.FormFromRequest(r)
	clientIP := middleware.ClientIP(r)

	// Bots get the same answer as people.
	if form.IsSpam() {
		h.logger.InfoContext(ctx, "honeypot triggered", "ip", clientIP)
		flashSuccess(w, r, h.renderer, redirectContact, "Thank you for your message!")
		return
	}

	errs := form.Validate()
	if err := h.captcha.Verify(ctx, r.FormValue(contact.CaptchaField), clientIP); err != nil {
		if errs == nil {
			errs = contact.Errors{}
		}
		errs["captcha"] = sentence(err)
	}
	if errs != nil {
		h.home.renderHome(w, r, http.StatusUnprocessableEntity, form, errs)
		return
	}

	if err := h.sender.Send(ctx, form); err != nil {
		h.logger.ErrorContext(ctx, "failed to send contact message", "error", err, "email", form.Email)
		flashError(w, r, h.renderer, redirectContact, "Sorry, your message could not be sent. Please try again later.")
		return
	}

	h.logger.InfoContext(ctx, "contact message sent", "email", form.Email)
	flashSuccess(w, r, h.renderer, redirectContact, "Thank you for your message!")
}
