// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/olegiv/portfolio-go/internal/auth"
	"github.com/olegiv/portfolio-go/internal/contact"
	"github.com/olegiv/portfolio-go/internal/content"
	"github.com/olegiv/portfolio-go/internal/docstore"
	"github.com/olegiv/portfolio-go/internal/middleware"
	"github.com/olegiv/portfolio-go/internal/render"
	"github.com/olegiv/portfolio-go/internal/scheduler"
	"github.com/olegiv/portfolio-go/internal/session"
	"github.com/olegiv/portfolio-go/internal/testutil"
	"github.com/olegiv/portfolio-go/web"
)

const (
	testEmail    = "admin@example.com"
	testPassword = "password123"
)

// recordingSender keeps every delivered form.
type recordingSender struct {
	mu   sync.Mutex
	sent []contact.Form
	err  error
}

func (s *recordingSender) Send(_ context.Context, f contact.Form) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, f)
	return nil
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

// testEnv is a running site over an in-memory document store and a temp
// SQLite database.
type testEnv struct {
	server   *httptest.Server
	client   *http.Client
	services *content.Services
	store    *docstore.MemoryStore
	accounts *auth.SessionAccounts
	sender   *recordingSender
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.TestDB(t)
	services, ds := testutil.TestServices(t)
	logger := testutil.TestLoggerSilent()
	sm := session.New(db, true)

	renderer, err := render.New(render.Config{TemplatesFS: web.Templates, SessionManager: sm})
	require.NoError(t, err)

	accounts := auth.NewSessionAccounts(db, sm, logger)
	health := scheduler.NewStoreHealth(ds)
	health.Probe(context.Background())
	sender := &recordingSender{}

	router, err := NewRouter(RouterConfig{
		Services:        services,
		Renderer:        renderer,
		Sessions:        sm,
		Accounts:        accounts,
		DB:              db,
		Logger:          logger,
		Sender:          sender,
		Health:          health,
		LoginProtection: middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig()),
	})
	require.NoError(t, err)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &testEnv{
		server:   srv,
		client:   client,
		services: services,
		store:    ds,
		accounts: accounts,
		sender:   sender,
	}
}

func (e *testEnv) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := e.client.Get(e.server.URL + path)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func (e *testEnv) post(t *testing.T, path string, values url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := e.client.Post(e.server.URL+path, "application/x-www-form-urlencoded", strings.NewReader(values.Encode()))
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

// login creates the admin account and signs the client in.
func (e *testEnv) login(t *testing.T) {
	t.Helper()
	_, err := e.accounts.Create(context.Background(), testEmail, testPassword, "Admin")
	require.NoError(t, err)

	resp, _ := e.post(t, RouteLogin, url.Values{"email": {testEmail}, "password": {testPassword}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, redirectAdmin, resp.Header.Get("Location"))
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

var errSendFailed = errors.New("smtp unavailable")
