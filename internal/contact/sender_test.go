// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package contact

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/portfolio-go/internal/config"
	"github.com/olegiv/portfolio-go/internal/testutil"
)

func TestNewSender(t *testing.T) {
	tests := []struct {
		transport string
		want      any
		wantErr   bool
	}{
		{config.ContactNoop, NoopSender{}, false},
		{config.ContactSMTP, &SMTPSender{}, false},
		{config.ContactRelay, &RelaySender{}, false},
		{"pigeon", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.transport, func(t *testing.T) {
			cfg := &config.Config{ContactTransport: tt.transport, SMTPHost: "mail.example.com", RelayURL: "https://relay.example"}
			s, err := NewSender(cfg, testutil.TestLoggerSilent())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, s)
		})
	}
}

func TestSMTPSender(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{
		Host:     "mail.example.com",
		Port:     587,
		Username: "owner@example.com",
		Password: "secret",
		To:       "owner@example.com",
	})

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	s.sendMail = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	f := validForm()
	f.Subject = "Hi\r\nBcc: victim@example.com"
	require.NoError(t, s.Send(context.Background(), f))

	assert.Equal(t, "mail.example.com:587", gotAddr)
	assert.Equal(t, "owner@example.com", gotFrom)
	assert.Equal(t, []string{"owner@example.com"}, gotTo)
	msg := string(gotMsg)
	assert.Contains(t, msg, "Reply-To: jo@example.com\r\n")
	assert.Contains(t, msg, "Subject: Portfolio contact: Hi  Bcc: victim@example.com\r\n")
	assert.NotContains(t, msg, "\r\nBcc:")
	assert.Contains(t, msg, "I liked your site.")

	s.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}
	assert.Error(t, s.Send(context.Background(), f))
}

func TestRelaySender(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		got = map[string]string{
			"name":    r.PostForm.Get("name"),
			"email":   r.PostForm.Get("email"),
			"subject": r.PostForm.Get("subject"),
		}
		if r.PostForm.Get("subject") == "Reject me" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewRelaySender(srv.URL)
	require.NoError(t, s.Send(context.Background(), validForm()))
	assert.Equal(t, map[string]string{"name": "Jo", "email": "jo@example.com", "subject": "Hello"}, got)

	f := validForm()
	f.Subject = "Reject me"
	assert.Error(t, s.Send(context.Background(), f))
}

func TestNoopSender(t *testing.T) {
	assert.NoError(t, NoopSender{}.Send(context.Background(), validForm()))
	assert.NoError(t, NoopSender{logger: testutil.TestLoggerSilent()}.Send(context.Background(), validForm()))
}
