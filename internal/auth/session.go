// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"

	"github.com/olegiv/portfolio-go/internal/model"
)

// Status is the authentication state of a request.
type Status int

// Session states. Every session starts unknown.
const (
	StatusUnknown Status = iota
	StatusAuthenticated
	StatusUnauthenticated
)

func (s Status) String() string {
	switch s {
	case StatusAuthenticated:
		return "authenticated"
	case StatusUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Session is the authentication state of one request. It is not safe for
// concurrent use.
type Session struct {
	accounts AccountService
	status   Status
	user     *model.User
}

// NewSession returns an unknown session backed by accounts.
func NewSession(accounts AccountService) *Session {
	return &Session{accounts: accounts}
}

// Status returns the current state.
func (s *Session) Status() Status { return s.status }

// User returns the signed-in account, or nil.
func (s *Session) User() *model.User { return s.user }

// Authenticated reports whether an account is signed in.
func (s *Session) Authenticated() bool { return s.status == StatusAuthenticated }

// Init resolves an unknown session by asking the account service for the
// current account. Any failure leaves the session unauthenticated.
func (s *Session) Init(ctx context.Context) {
	user, err := s.accounts.Current(ctx)
	if err != nil || user == nil {
		s.status, s.user = StatusUnauthenticated, nil
		return
	}
	s.status, s.user = StatusAuthenticated, user
}

// Login creates a session for the credentials and loads the account. On
// failure the state is unchanged and the service error is returned.
func (s *Session) Login(ctx context.Context, email, password string) error {
	if err := s.accounts.CreateSession(ctx, email, password); err != nil {
		return err
	}
	user, err := s.accounts.Current(ctx)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNoSession
	}
	s.status, s.user = StatusAuthenticated, user
	return nil
}

// Logout deletes the session. On failure the state is unchanged.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.accounts.DeleteSession(ctx); err != nil {
		return err
	}
	s.status, s.user = StatusUnauthenticated, nil
	return nil
}

type contextKey struct{}

// WithSession returns ctx carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session carried by ctx, or nil.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(contextKey{}).(*Session)
	return s
}

// UserFromContext returns the signed-in account of ctx, or nil.
func UserFromContext(ctx context.Context) *model.User {
	if s := FromContext(ctx); s != nil {
		return s.User()
	}
	return nil
}
