// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/portfolio-go/internal/auth"
	"github.com/olegiv/portfolio-go/internal/logging"
	"github.com/olegiv/portfolio-go/internal/model"
)

type stubAccounts struct {
	user *model.User
}

func (s stubAccounts) Create(context.Context, string, string, string) (*model.User, error) {
	return nil, nil
}
func (s stubAccounts) CreateSession(context.Context, string, string) error { return nil }
func (s stubAccounts) DeleteSession(context.Context) error                 { return nil }
func (s stubAccounts) Current(context.Context) (*model.User, error) {
	if s.user == nil {
		return nil, auth.ErrNoSession
	}
	return s.user, nil
}

func TestLoadSession(t *testing.T) {
	tests := []struct {
		name string
		user *model.User
		want auth.Status
	}{
		{"signed in", &model.User{ID: 1, Email: "a@example.com"}, auth.StatusAuthenticated},
		{"anonymous", nil, auth.StatusUnauthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *auth.Session
			h := LoadSession(stubAccounts{user: tt.user})(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				got = auth.FromContext(r.Context())
			}))

			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Status())
			assert.Equal(t, tt.user, got.User())
		})
	}
}

func TestLoadSession_GuardRedirects(t *testing.T) {
	protected := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("admin"))
	})
	h := LoadSession(stubAccounts{})(auth.Guard(nil)(protected))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, auth.LoginPath, rr.Header().Get("Location"))
}

func TestRequestPath(t *testing.T) {
	var got string
	h := RequestPath(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = logging.RequestPath(r.Context())
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/projects?q=go", nil))
	assert.Equal(t, "/projects", got)
}
