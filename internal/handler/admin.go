// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"html"
	"log/slog"
	"net/http"
	"net/mail"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/microcosm-cc/bluemonday"

	"github.com/olegiv/portfolio-go/internal/content"
	"github.com/olegiv/portfolio-go/internal/docstore"
	"github.com/olegiv/portfolio-go/internal/model"
	"github.com/olegiv/portfolio-go/internal/render"
	"github.com/olegiv/portfolio-go/internal/scheduler"
	"github.com/olegiv/portfolio-go/internal/store"
)

// JobLister reports the scheduled jobs for the activity tab.
type JobLister interface {
	Jobs() []scheduler.JobInfo
}

// AdminHandler serves the admin panel. Every route sits behind auth.Guard.
type AdminHandler struct {
	pages
	queries *store.Queries
	jobs    JobLister
	health  *scheduler.StoreHealth
	policy  *bluemonday.Policy
}

// NewAdminHandler creates a new AdminHandler. jobs and health may be nil.
func NewAdminHandler(services *content.Services, renderer *render.Renderer, logger *slog.Logger, db store.DBTX, jobs JobLister, health *scheduler.StoreHealth) *AdminHandler {
	return &AdminHandler{
		pages:   pages{services: services, renderer: renderer, logger: logger},
		queries: store.New(db),
		jobs:    jobs,
		health:  health,
		policy:  bluemonday.StrictPolicy(),
	}
}

// AdminData is the data of the admin page. Only the fields of the active
// tab are filled in.
type AdminData struct {
	Tab      string
	Tabs     []string
	Personal *model.PersonalInfo
	Projects []model.Project
	Skills   *model.SkillsData
	Events   []model.Event
	Counts   []content.CollectionCount
	Jobs     []scheduler.JobInfo
	Health   *scheduler.Health
}

// Dashboard handles GET /admin?tab=.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tab := r.URL.Query().Get("tab")
	if !slices.Contains(AdminTabs, tab) {
		tab = TabPersonal
	}

	data := AdminData{Tab: tab, Tabs: AdminTabs}
	switch tab {
	case TabPersonal:
		data.Personal = h.services.Personal.Get(ctx)
	case TabProjects:
		data.Projects = h.services.Projects.GetAll(ctx).Projects
	case TabSkills:
		data.Skills = h.services.Skills.Get(ctx)
	case TabActivity:
		events, err := h.queries.ListRecentEvents(ctx, recentEventsLimit)
		if err != nil {
			h.logger.ErrorContext(ctx, "failed to list events", "error", err)
		}
		data.Events = events
		data.Counts = h.services.Counts(ctx)
		if h.jobs != nil {
			data.Jobs = h.jobs.Jobs()
		}
		if h.health != nil {
			last := h.health.Last()
			data.Health = &last
		}
	}

	w.Header().Set("Cache-Control", "no-store")
	h.render(w, r, http.StatusOK, "admin", render.TemplateData{Title: "Admin", Data: data})
}

// UpdatePersonal handles POST /admin/personal.
func (h *AdminHandler) UpdatePersonal(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminPersonal) {
		return
	}
	ctx := r.Context()

	name := h.clean(r.FormValue("name"))
	title := h.clean(r.FormValue("title"))
	email := h.clean(r.FormValue("email"))
	if name == "" {
		flashError(w, r, h.renderer, redirectAdminPersonal, "Name is required")
		return
	}
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			flashError(w, r, h.renderer, redirectAdminPersonal, "Invalid email address")
			return
		}
	}

	updated, err := h.services.Personal.Update(ctx, docstore.Fields{
		"name":  name,
		"title": title,
		"email": email,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to update personal content", "error", err)
		flashError(w, r, h.renderer, redirectAdminPersonal, "Failed to save personal information")
		return
	}
	if updated == nil {
		flashError(w, r, h.renderer, redirectAdminPersonal, "No personal information stored yet")
		return
	}

	h.logger.InfoContext(ctx, "personal content updated", "name", name)
	flashSuccess(w, r, h.renderer, redirectAdminPersonal, "Personal information saved")
}

// CreateProject handles POST /admin/projects.
func (h *AdminHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminProjects) {
		return
	}
	ctx := r.Context()

	title := h.clean(r.FormValue("title"))
	if title == "" {
		flashError(w, r, h.renderer, redirectAdminProjects, "Title is required")
		return
	}
	liveURL := h.clean(r.FormValue("liveUrl"))
	codeURL := h.clean(r.FormValue("codeUrl"))
	image := h.clean(r.FormValue("image"))
	for _, u := range []string{liveURL, codeURL, image} {
		if !safeURL(u) {
			flashError(w, r, h.renderer, redirectAdminProjects, "Links must be http(s) URLs or site paths")
			return
		}
	}

	p := content.NewAdminProject(
		title,
		h.clean(r.FormValue("description")),
		image,
		h.clean(r.FormValue("technologies")),
		liveURL,
		codeURL,
	)
	created, err := h.services.Projects.Create(ctx, p)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create project", "title", title, "error", err)
		flashError(w, r, h.renderer, redirectAdminProjects, "Failed to add project")
		return
	}

	h.logger.InfoContext(ctx, "project created", "id", created.ID, "title", created.Title)
	flashSuccess(w, r, h.renderer, redirectAdminProjects, "Project added")
}

// DeleteProject handles POST /admin/projects/{id}/delete.
func (h *AdminHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if err := h.services.Projects.Delete(ctx, id); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			flashError(w, r, h.renderer, redirectAdminProjects, "Project not found")
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete project", "id", id, "error", err)
		flashError(w, r, h.renderer, redirectAdminProjects, "Failed to delete project")
		return
	}

	h.logger.InfoContext(ctx, "project deleted", "id", id)
	flashSuccess(w, r, h.renderer, redirectAdminProjects, "Project deleted")
}

// clean strips markup from admin input and returns plain text.
func (h *AdminHandler) clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(h.policy.Sanitize(s)))
}

// safeURL accepts empty values, absolute http(s) URLs and site paths.
func safeURL(u string) bool {
	if u == "" || (strings.HasPrefix(u, "/") && !strings.HasPrefix(u, "//")) {
		return true
	}
	lower := strings.ToLower(u)
	return strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "http://")
}
