// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package contact validates contact form submissions and delivers them to
// the site owner.
package contact

import (
	"net/http"
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Minimum lengths in characters, counted after trimming.
const (
	MinNameLength    = 2
	MinSubjectLength = 5
	MinMessageLength = 10
)

// HoneypotField is a form field hidden from people. Bots fill it in.
const HoneypotField = "_website"

// Form is one contact form submission.
type Form struct {
	Name    string
	Email   string
	Subject string
	Message string

	honeypot string
}

// Errors maps a form field to its validation message.
type Errors map[string]string

// FormFromRequest reads and trims the submitted fields of r.
func FormFromRequest(r *http.Request) Form {
	return Form{
		Name:     strings.TrimSpace(r.FormValue("name")),
		Email:    strings.TrimSpace(r.FormValue("email")),
		Subject:  strings.TrimSpace(r.FormValue("subject")),
		Message:  strings.TrimSpace(r.FormValue("message")),
		honeypot: r.FormValue(HoneypotField),
	}
}

// IsSpam reports whether the honeypot field was filled in.
func (f Form) IsSpam() bool {
	return f.honeypot != ""
}

// Validate returns the field errors of f, or nil when the form is valid.
func (f Form) Validate() Errors {
	errs := Errors{}
	if utf8.RuneCountInString(strings.TrimSpace(f.Name)) < MinNameLength {
		errs["name"] = "Name must be at least 2 characters"
	}
	if !validEmail(f.Email) {
		errs["email"] = "Please enter a valid email address"
	}
	if utf8.RuneCountInString(strings.TrimSpace(f.Subject)) < MinSubjectLength {
		errs["subject"] = "Subject must be at least 5 characters"
	}
	if utf8.RuneCountInString(strings.TrimSpace(f.Message)) < MinMessageLength {
		errs["message"] = "Message must be at least 10 characters"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// validEmail accepts a bare address only, not "Name <addr>".
func validEmail(s string) bool {
	s = strings.TrimSpace(s)
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	if addr.Address != s {
		return false
	}
	domain := s[strings.LastIndex(s, "@")+1:]
	return strings.Contains(domain, ".")
}
