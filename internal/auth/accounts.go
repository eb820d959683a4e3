// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/portfolio-go/internal/model"
	"github.com/olegiv/portfolio-go/internal/store"
)

// Account errors.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNoSession          = errors.New("no active session")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrPasswordTooShort   = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
)

// SessionKeyUserID is the session key holding the signed-in account id.
const SessionKeyUserID = "user_id"

// AccountService is the remote account and session service the admin area
// authenticates against.
type AccountService interface {
	// Create registers a new admin account.
	Create(ctx context.Context, email, password, name string) (*model.User, error)
	// CreateSession signs the account in on the current session.
	CreateSession(ctx context.Context, email, password string) error
	// Current returns the signed-in account, or ErrNoSession.
	Current(ctx context.Context) (*model.User, error)
	// DeleteSession signs the current session out.
	DeleteSession(ctx context.Context) error
}

// SessionAccounts implements AccountService over the users table and scs
// sessions. Session calls need a context that passed through
// scs.SessionManager.LoadAndSave.
type SessionAccounts struct {
	queries  *store.Queries
	sessions *scs.SessionManager
	logger   *slog.Logger
	now      func() time.Time
}

// NewSessionAccounts returns an account service over db and sm.
func NewSessionAccounts(db store.DBTX, sm *scs.SessionManager, logger *slog.Logger) *SessionAccounts {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionAccounts{
		queries:  store.New(db),
		sessions: sm,
		logger:   logger,
		now:      time.Now,
	}
}

// Create validates and stores a new admin account.
func (a *SessionAccounts) Create(ctx context.Context, email, password, name string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}
	if len([]rune(password)) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	now := a.now().UTC()
	user, err := a.queries.CreateUser(ctx, store.CreateUserParams{
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		Name:         strings.TrimSpace(name),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("creating account: %w", err)
	}
	return &user, nil
}

// CreateSession checks the credentials and binds the account to the
// session under a fresh token.
func (a *SessionAccounts) CreateSession(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := a.queries.GetUserByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrInvalidCredentials
	}
	if err != nil {
		return fmt.Errorf("looking up account: %w", err)
	}

	ok, err := CheckPassword(password, user.PasswordHash)
	if err != nil {
		a.logger.Error("stored password hash unreadable", "user_id", user.ID, "error", err)
		return ErrInvalidCredentials
	}
	if !ok {
		return ErrInvalidCredentials
	}

	if err := a.sessions.RenewToken(ctx); err != nil {
		return fmt.Errorf("renewing session token: %w", err)
	}
	a.sessions.Put(ctx, SessionKeyUserID, user.ID)

	now := a.now().UTC()
	if err := a.queries.UpdateUserLastLogin(ctx, user.ID, now); err != nil {
		a.logger.Warn("failed to record last login", "user_id", user.ID, "error", err)
	}
	if NeedsRehash(user.PasswordHash) {
		if hash, err := HashPassword(password); err == nil {
			if err := a.queries.UpdateUserPassword(ctx, user.ID, hash, now); err != nil {
				a.logger.Warn("failed to upgrade password hash", "user_id", user.ID, "error", err)
			}
		}
	}
	return nil
}

// Current returns the account bound to the session.
func (a *SessionAccounts) Current(ctx context.Context) (*model.User, error) {
	id := a.sessions.GetInt64(ctx, SessionKeyUserID)
	if id == 0 {
		return nil, ErrNoSession
	}
	user, err := a.queries.GetUserByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("loading account: %w", err)
	}
	return &user, nil
}

// DeleteSession destroys the session. It fails with ErrNoSession when no
// account is signed in.
func (a *SessionAccounts) DeleteSession(ctx context.Context) error {
	if a.sessions.GetInt64(ctx, SessionKeyUserID) == 0 {
		return ErrNoSession
	}
	if err := a.sessions.Destroy(ctx); err != nil {
		return fmt.Errorf("destroying session: %w", err)
	}
	return nil
}
