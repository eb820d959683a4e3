// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/portfolio-go/internal/model"
	"github.com/olegiv/portfolio-go/web"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"layouts/base.html": {Data: []byte(`{{define "base"}}<title>{{template "title" .}}</title>{{template "flash" .}}{{template "content" .}}|{{.CurrentYear}}{{with .User}}|{{.Email}}{{end}}{{end}}`)},
		"partials/flash.html": {Data: []byte(`{{define "flash"}}{{if .Flash}}[{{.FlashType}}:{{.Flash}}]{{end}}{{end}}`)},
		"pages/hello.html":    {Data: []byte(`{{define "title"}}Hello{{end}}{{define "content"}}hi {{.Data}}{{end}}`)},
		"pages/broken.html":   {Data: []byte(`{{define "title"}}x{{end}}{{define "content"}}{{.Data.Missing}}{{end}}`)},
	}
}

func TestNew_ParsesPages(t *testing.T) {
	r, err := New(Config{TemplatesFS: testFS()})
	require.NoError(t, err)
	assert.True(t, r.Has("hello"))
	assert.True(t, r.Has("broken"))
	assert.False(t, r.Has("base"))
}

func TestNew_NoPages(t *testing.T) {
	fsys := testFS()
	delete(fsys, "pages/hello.html")
	delete(fsys, "pages/broken.html")
	fsys["pages/readme.txt"] = &fstest.MapFile{Data: []byte("x")}

	_, err := New(Config{TemplatesFS: fsys})
	assert.Error(t, err)
}

func TestNew_EmbeddedTemplates(t *testing.T) {
	r, err := New(Config{TemplatesFS: web.Templates})
	require.NoError(t, err)
	for _, page := range []string{"home", "projects", "login", "admin", "loading"} {
		assert.True(t, r.Has(page), page)
	}
}

func TestRender(t *testing.T) {
	r, err := New(Config{TemplatesFS: testFS()})
	require.NoError(t, err)
	r.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, r.Render(rr, req, "hello", TemplateData{
		Data: "there",
		User: &model.User{Email: "admin@example.com"},
	}))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Equal(t, "<title>Hello</title>hi there|2026|admin@example.com", rr.Body.String())
}

func TestRenderStatus_Errors(t *testing.T) {
	r, err := New(Config{TemplatesFS: testFS()})
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Error(t, r.RenderStatus(rr, req, http.StatusOK, "missing", TemplateData{}))

	rr = httptest.NewRecorder()
	err = r.RenderStatus(rr, req, http.StatusTeapot, "broken", TemplateData{Data: 42})
	assert.Error(t, err)
	assert.Empty(t, rr.Body.String(), "failed execution writes nothing")
}

func TestFlash(t *testing.T) {
	sm := scs.New()
	r, err := New(Config{TemplatesFS: testFS(), SessionManager: sm})
	require.NoError(t, err)

	ctx, err := sm.Load(context.Background(), "")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)

	r.SetFlash(req, "Project deleted", FlashSuccess)

	rr := httptest.NewRecorder()
	require.NoError(t, r.RenderStatus(rr, req, http.StatusOK, "hello", TemplateData{Data: "x"}))
	assert.Contains(t, rr.Body.String(), "[success:Project deleted]")

	rr = httptest.NewRecorder()
	require.NoError(t, r.Render(rr, req, "hello", TemplateData{Data: "x"}))
	assert.NotContains(t, rr.Body.String(), "Project deleted", "flash is shown once")

	rr = httptest.NewRecorder()
	require.NoError(t, r.Render(rr, req, "hello", TemplateData{Data: "x", Flash: "Saved"}))
	assert.Contains(t, rr.Body.String(), "[info:Saved]")
}
