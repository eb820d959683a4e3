// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package contact

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validForm() Form {
	return Form{
		Name:    "Jo",
		Email:   "jo@example.com",
		Subject: "Hello",
		Message: "I liked your site.",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Form)
		wantErr []string
	}{
		{"valid", func(*Form) {}, nil},
		{"short name", func(f *Form) { f.Name = "J" }, []string{"name"}},
		{"name counted in characters", func(f *Form) { f.Name = "Øé" }, nil},
		{"padded name", func(f *Form) { f.Name = "  J  " }, []string{"name"}},
		{"bad email", func(f *Form) { f.Email = "jo@" }, []string{"email"}},
		{"email without domain dot", func(f *Form) { f.Email = "jo@localhost" }, []string{"email"}},
		{"display name email", func(f *Form) { f.Email = "Jo <jo@example.com>" }, []string{"email"}},
		{"short subject", func(f *Form) { f.Subject = "Hey" }, []string{"subject"}},
		{"short message", func(f *Form) { f.Message = "too short" }, []string{"message"}},
		{"everything empty", func(f *Form) { *f = Form{} }, []string{"name", "email", "subject", "message"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.modify(&f)
			errs := f.Validate()
			if tt.wantErr == nil {
				assert.Nil(t, errs)
				return
			}
			assert.Len(t, errs, len(tt.wantErr))
			for _, field := range tt.wantErr {
				assert.Contains(t, errs, field)
			}
		})
	}
}

func TestFormFromRequest(t *testing.T) {
	values := url.Values{
		"name":        {"  Jo  "},
		"email":       {" jo@example.com"},
		"subject":     {"Hello there"},
		"message":     {"A long enough message\n"},
		HoneypotField: {""},
	}
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	f := FormFromRequest(req)
	assert.Equal(t, "Jo", f.Name)
	assert.Equal(t, "jo@example.com", f.Email)
	assert.Equal(t, "A long enough message", f.Message)
	assert.False(t, f.IsSpam())
	assert.Nil(t, f.Validate())
}

func TestFormFromRequest_Honeypot(t *testing.T) {
	values := url.Values{HoneypotField: {"http://spam.example"}}
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	assert.True(t, FormFromRequest(req).IsSpam())
}
