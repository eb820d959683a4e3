// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render parses the embedded page templates and renders them with
// the shared layout, flash messages and signed-in account.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/portfolio-go/internal/auth"
	"github.com/olegiv/portfolio-go/internal/model"
)

// Template layout inside the templates filesystem.
const (
	baseLayout  = "layouts/base.html"
	partialsDir = "partials"
	pagesDir    = "pages"
)

// Flash types.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

const (
	flashKey     = "flash"
	flashTypeKey = "flash_type"
)

// Renderer renders cached page templates.
type Renderer struct {
	templates      map[string]*template.Template
	sessionManager *scs.SessionManager
	now            func() time.Time
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS    fs.FS
	SessionManager *scs.SessionManager
}

// TemplateData is passed to every page.
type TemplateData struct {
	Title           string
	Data            any
	Flash           string
	FlashType       string
	CurrentYear     int
	User            *model.User
	Navigation      *model.NavigationData
	Footer          *model.Footer
	HCaptchaSiteKey string
}

// New parses every page under pages/ together with the base layout and the
// partials.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		templates:      make(map[string]*template.Template),
		sessionManager: cfg.SessionManager,
		now:            time.Now,
	}

	partials, err := htmlFiles(cfg.TemplatesFS, partialsDir)
	if err != nil {
		return nil, fmt.Errorf("listing partials: %w", err)
	}
	pages, err := htmlFiles(cfg.TemplatesFS, pagesDir)
	if err != nil {
		return nil, fmt.Errorf("listing pages: %w", err)
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("no page templates under %s", pagesDir)
	}

	for _, page := range pages {
		name := strings.TrimSuffix(path.Base(page), ".html")
		files := append([]string{baseLayout}, partials...)
		files = append(files, page)

		tmpl, err := template.New("").Funcs(templateFuncs()).ParseFS(cfg.TemplatesFS, files...)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		r.templates[name] = tmpl
	}
	return r, nil
}

func htmlFiles(fsys fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".html") {
			files = append(files, path.Join(dir, e.Name()))
		}
	}
	return files, nil
}

// Has reports whether a page template called name exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}

// Render writes page name with status 200.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, name string, data TemplateData) error {
	return r.RenderStatus(w, req, http.StatusOK, name, data)
}

// RenderStatus writes page name with status. The page is executed into a
// buffer first so a template error never leaves a half-written response.
func (r *Renderer) RenderStatus(w http.ResponseWriter, req *http.Request, status int, name string, data TemplateData) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	data.CurrentYear = r.now().Year()
	if data.User == nil {
		data.User = auth.UserFromContext(req.Context())
	}
	if r.sessionManager != nil && data.Flash == "" {
		if flash := r.sessionManager.PopString(req.Context(), flashKey); flash != "" {
			data.Flash = flash
			data.FlashType = r.sessionManager.PopString(req.Context(), flashTypeKey)
		}
	}
	if data.Flash != "" && data.FlashType == "" {
		data.FlashType = FlashInfo
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// SetFlash stores a one-shot toast for the next rendered page.
func (r *Renderer) SetFlash(req *http.Request, message, flashType string) {
	if r.sessionManager == nil {
		return
	}
	r.sessionManager.Put(req.Context(), flashKey, message)
	r.sessionManager.Put(req.Context(), flashTypeKey, flashType)
}
