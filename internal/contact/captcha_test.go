// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package contact

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/olegiv/portfolio-go/internal/testutil"
)

func newTestCaptcha(t *testing.T, handler http.HandlerFunc) *Captcha {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewCaptcha("0x-secret", testutil.TestLoggerSilent())
	c.verifyURL = srv.URL
	return c
}

func TestCaptcha_Disabled(t *testing.T) {
	c := NewCaptcha("", testutil.TestLoggerSilent())
	assert.False(t, c.Enabled())
	assert.NoError(t, c.Verify(context.Background(), "", ""))

	var nilCaptcha *Captcha
	assert.False(t, nilCaptcha.Enabled())
	assert.NoError(t, nilCaptcha.Verify(context.Background(), "", ""))
}

func TestCaptcha_Verify(t *testing.T) {
	c := newTestCaptcha(t, func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		assert.Equal(t, "0x-secret", r.PostForm.Get("secret"))
		assert.Equal(t, "203.0.113.9", r.PostForm.Get("remoteip"))
		w.Header().Set("Content-Type", "application/json")
		if r.PostForm.Get("response") == "good" {
			_, _ = w.Write([]byte(`{"success":true,"hostname":"example.com"}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":false,"error-codes":["invalid-input-response"]}`))
	})

	assert.True(t, c.Enabled())
	assert.NoError(t, c.Verify(context.Background(), "good", "203.0.113.9"))
	assert.ErrorIs(t, c.Verify(context.Background(), "bad", "203.0.113.9"), ErrCaptchaInvalid)
	assert.ErrorIs(t, c.Verify(context.Background(), "", "203.0.113.9"), ErrCaptchaRequired)
}

func TestCaptcha_MalformedAnswer(t *testing.T) {
	c := newTestCaptcha(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})
	assert.ErrorIs(t, c.Verify(context.Background(), "token", ""), ErrCaptchaInvalid)
}
