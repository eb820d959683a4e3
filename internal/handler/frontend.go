// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides the HTTP handlers of the portfolio site.
package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/olegiv/portfolio-go/internal/contact"
	"github.com/olegiv/portfolio-go/internal/content"
	"github.com/olegiv/portfolio-go/internal/fallback"
	"github.com/olegiv/portfolio-go/internal/model"
	"github.com/olegiv/portfolio-go/internal/render"
)

// FrontendHandler serves the public pages.
type FrontendHandler struct {
	pages
	hcaptchaSiteKey string
}

// NewFrontendHandler creates a new FrontendHandler. An empty site key
// hides the captcha widget.
func NewFrontendHandler(services *content.Services, renderer *render.Renderer, logger *slog.Logger, hcaptchaSiteKey string) *FrontendHandler {
	return &FrontendHandler{
		pages:           pages{services: services, renderer: renderer, logger: logger},
		hcaptchaSiteKey: hcaptchaSiteKey,
	}
}

// HomeData is the data of the home page.
type HomeData struct {
	Site   *fallback.Site
	Form   contact.Form
	Errors contact.Errors
}

// ProjectsData is the data of the project browser.
type ProjectsData struct {
	SectionTitle string
	Projects     []model.Project
	Total        int
	Search       string
	Tech         string
	Technologies []string
}

// Home handles GET / and every unknown GET path.
func (h *FrontendHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.renderHome(w, r, http.StatusOK, contact.Form{}, nil)
}

// renderHome loads every section and renders the one-page site. The contact
// form is refilled with form and errs after a failed submission.
func (h *FrontendHandler) renderHome(w http.ResponseWriter, r *http.Request, status int, form contact.Form, errs contact.Errors) {
	site := fallback.LoadSite(r.Context(), h.logger, h.services)
	if r.Context().Err() != nil {
		return
	}
	if site.Loading() {
		h.loading(w, r)
		return
	}

	h.render(w, r, status, "home", render.TemplateData{
		Title:           site.Personal.Name,
		Data:            HomeData{Site: site, Form: form, Errors: errs},
		Navigation:      site.Navigation,
		Footer:          &site.Personal.Footer,
		HCaptchaSiteKey: h.hcaptchaSiteKey,
	})
}

// Projects handles GET /projects?q=&tech=.
func (h *FrontendHandler) Projects(w http.ResponseWriter, r *http.Request) {
	all := fallback.Load(r.Context(), h.logger, h.services.Projects.FetchAll, fallback.Projects)
	if r.Context().Err() != nil {
		return
	}
	if all == nil {
		h.loading(w, r)
		return
	}

	search := strings.TrimSpace(r.URL.Query().Get("q"))
	tech := strings.TrimSpace(r.URL.Query().Get("tech"))
	title := all.SectionTitle
	if title == "" {
		title = "projects"
	}

	h.render(w, r, http.StatusOK, "projects", render.TemplateData{
		Title: "Projects",
		Data: ProjectsData{
			SectionTitle: title,
			Projects:     content.FilterProjects(all.Projects, search, tech),
			Total:        len(all.Projects),
			Search:       search,
			Tech:         tech,
			Technologies: content.Technologies(all.Projects),
		},
	})
}
