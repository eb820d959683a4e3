// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

// maxLockout caps the exponential account lockout.
const maxLockout = 24 * time.Hour

// LoginProtection combines per-IP rate limiting of login attempts with an
// exponential per-account lockout.
type LoginProtection struct {
	ips *limiterCache[string]

	mu       sync.Mutex
	attempts map[string]*loginAttempt

	maxFailed int
	lockout   time.Duration
	window    time.Duration
	now       func() time.Time
}

type loginAttempt struct {
	count       int
	firstFailed time.Time
	lockedUntil time.Time
	lockouts    int
}

// LoginProtectionConfig holds the login protection limits.
type LoginProtectionConfig struct {
	IPRateLimit       float64       // attempts per second per IP
	IPBurst           int           // burst per IP
	MaxFailedAttempts int           // failures within AttemptWindow before a lockout
	LockoutDuration   time.Duration // first lockout; doubles with each further one
	AttemptWindow     time.Duration
}

// DefaultLoginProtectionConfig returns the production limits.
func DefaultLoginProtectionConfig() LoginProtectionConfig {
	return LoginProtectionConfig{
		IPRateLimit:       0.5,
		IPBurst:           5,
		MaxFailedAttempts: 5,
		LockoutDuration:   15 * time.Minute,
		AttemptWindow:     15 * time.Minute,
	}
}

// NewLoginProtection returns a LoginProtection; zero config fields take the
// defaults.
func NewLoginProtection(cfg LoginProtectionConfig) *LoginProtection {
	def := DefaultLoginProtectionConfig()
	if cfg.IPRateLimit <= 0 {
		cfg.IPRateLimit = def.IPRateLimit
	}
	if cfg.IPBurst <= 0 {
		cfg.IPBurst = def.IPBurst
	}
	if cfg.MaxFailedAttempts <= 0 {
		cfg.MaxFailedAttempts = def.MaxFailedAttempts
	}
	if cfg.LockoutDuration <= 0 {
		cfg.LockoutDuration = def.LockoutDuration
	}
	if cfg.AttemptWindow <= 0 {
		cfg.AttemptWindow = def.AttemptWindow
	}
	return &LoginProtection{
		ips:       newLimiterCache[string](cfg.IPRateLimit, cfg.IPBurst),
		attempts:  make(map[string]*loginAttempt),
		maxFailed: cfg.MaxFailedAttempts,
		lockout:   cfg.LockoutDuration,
		window:    cfg.AttemptWindow,
		now:       time.Now,
	}
}

func accountKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsLocked reports whether email is locked out and for how much longer.
func (lp *LoginProtection) IsLocked(email string) (bool, time.Duration) {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	a, ok := lp.attempts[accountKey(email)]
	if !ok {
		return false, 0
	}
	if remaining := a.lockedUntil.Sub(lp.now()); remaining > 0 {
		return true, remaining
	}
	return false, 0
}

// RecordFailure counts a failed attempt and reports whether it locked the
// account, with the lockout length.
func (lp *LoginProtection) RecordFailure(email string) (bool, time.Duration) {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	key := accountKey(email)
	now := lp.now()
	a, ok := lp.attempts[key]
	if !ok || now.Sub(a.firstFailed) > lp.window {
		if !ok {
			a = &loginAttempt{}
			lp.attempts[key] = a
		}
		a.count, a.firstFailed = 0, now
	}

	a.count++
	if a.count < lp.maxFailed {
		return false, 0
	}

	d := lp.lockout
	for range a.lockouts {
		d *= 2
		if d >= maxLockout {
			d = maxLockout
			break
		}
	}
	a.lockedUntil = now.Add(d)
	a.lockouts++
	a.count = 0

	slog.Warn("account locked after failed logins", "email", key, "lockouts", a.lockouts, "duration", d)
	return true, d
}

// RecordSuccess clears the failure history of email.
func (lp *LoginProtection) RecordSuccess(email string) {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	delete(lp.attempts, accountKey(email))
}

// Remaining returns the failures email may still make before a lockout.
func (lp *LoginProtection) Remaining(email string) int {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	a, ok := lp.attempts[accountKey(email)]
	if !ok || lp.now().Sub(a.firstFailed) > lp.window {
		return lp.maxFailed
	}
	return max(lp.maxFailed-a.count, 0)
}

// Prune drops entries whose lockout and attempt window have both passed.
func (lp *LoginProtection) Prune() int {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	now := lp.now()
	n := 0
	for key, a := range lp.attempts {
		if now.After(a.lockedUntil) && now.Sub(a.firstFailed) > lp.window {
			delete(lp.attempts, key)
			n++
		}
	}
	return n
}

// Middleware rate limits POST requests per client IP.
func (lp *LoginProtection) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}
			ip := ClientIP(r)
			if !lp.ips.get(ip).Allow() {
				slog.WarnContext(r.Context(), "login rate limit exceeded", "ip", ip)
				http.Error(w, "Too many login attempts. Please try again later.", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
