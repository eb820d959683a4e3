// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Supported document store drivers.
const (
	StoreSQLite    = "sqlite"
	StoreFirestore = "firestore"
	StoreRedis     = "redis"
	StoreMemory    = "memory"
)

// Supported contact transports.
const (
	ContactNoop  = "noop"
	ContactSMTP  = "smtp"
	ContactRelay = "relay"
)

// Collections names the store collection used for each content domain.
type Collections struct {
	Personal     string `env:"PERSONAL" envDefault:"personal_info"`
	Projects     string `env:"PROJECTS" envDefault:"projects"`
	Skills       string `env:"SKILLS" envDefault:"skills"`
	Achievements string `env:"ACHIEVEMENTS" envDefault:"achievements"`
	Quotes       string `env:"QUOTES" envDefault:"quotes"`
	Navigation   string `env:"NAVIGATION" envDefault:"navigation"`
	Images       string `env:"IMAGES" envDefault:"images"`
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"PORTFOLIO_DB_PATH" envDefault:"./data/portfolio.db"`
	SessionSecret string `env:"PORTFOLIO_SESSION_SECRET"`
	ServerHost    string `env:"PORTFOLIO_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"PORTFOLIO_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"PORTFOLIO_ENV" envDefault:"development"`
	LogLevel      string `env:"PORTFOLIO_LOG_LEVEL" envDefault:"info"`
	SiteURL       string `env:"PORTFOLIO_SITE_URL"` // canonical URL for robots.txt and sitemap.xml

	// Document store
	StoreDriver       string      `env:"PORTFOLIO_STORE_DRIVER" envDefault:"sqlite"`
	FirestoreProject  string      `env:"PORTFOLIO_FIRESTORE_PROJECT"`
	FirestoreDatabase string      `env:"PORTFOLIO_FIRESTORE_DATABASE" envDefault:"(default)"`
	RedisURL          string      `env:"PORTFOLIO_REDIS_URL"`
	RedisPrefix       string      `env:"PORTFOLIO_REDIS_PREFIX" envDefault:"portfolio:"`
	Collections       Collections `envPrefix:"PORTFOLIO_COLLECTION_"`

	// Media
	MediaBucket string `env:"PORTFOLIO_MEDIA_BUCKET"` // GCS bucket; local MediaDir when empty
	MediaDir    string `env:"PORTFOLIO_MEDIA_DIR" envDefault:"./media"`

	// Contact form
	ContactTransport string `env:"PORTFOLIO_CONTACT_TRANSPORT" envDefault:"noop"`
	ContactTo        string `env:"PORTFOLIO_CONTACT_TO"`
	SMTPHost         string `env:"PORTFOLIO_SMTP_HOST"`
	SMTPPort         int    `env:"PORTFOLIO_SMTP_PORT" envDefault:"587"`
	SMTPUsername     string `env:"PORTFOLIO_SMTP_USERNAME"`
	SMTPPassword     string `env:"PORTFOLIO_SMTP_PASSWORD"`
	SMTPFrom         string `env:"PORTFOLIO_SMTP_FROM"`
	RelayURL         string `env:"PORTFOLIO_RELAY_URL"` // form-relay endpoint, e.g. https://formspree.io/f/<id>

	// hCaptcha configuration
	HCaptchaSiteKey   string `env:"PORTFOLIO_HCAPTCHA_SITE_KEY"`
	HCaptchaSecretKey string `env:"PORTFOLIO_HCAPTCHA_SECRET_KEY"`

	// Scheduled jobs
	HealthProbeSchedule string `env:"PORTFOLIO_HEALTH_PROBE_SCHEDULE" envDefault:"@every 5m"`
	EventRetentionDays  int    `env:"PORTFOLIO_EVENT_RETENTION_DAYS" envDefault:"30"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// HCaptchaEnabled returns true if hCaptcha is configured.
func (c Config) HCaptchaEnabled() bool {
	return c.HCaptchaSiteKey != "" && c.HCaptchaSecretKey != ""
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a validated Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("PORTFOLIO_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

// LoadStore parses only what the operator scripts need. The session secret
// is not checked because the scripts never issue cookies.
func LoadStore() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validateStore(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if len(c.SessionSecret) < MinSessionSecretLength {
		return fmt.Errorf("PORTFOLIO_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(c.SessionSecret))
	}
	if slices.Contains(knownWeakSecrets, c.SessionSecret) {
		return fmt.Errorf("PORTFOLIO_SESSION_SECRET is a known default value and must not be used")
	}
	if err := c.validateStore(); err != nil {
		return err
	}

	switch c.ContactTransport {
	case ContactNoop:
	case ContactSMTP:
		if c.SMTPHost == "" || c.ContactTo == "" {
			return fmt.Errorf("PORTFOLIO_SMTP_HOST and PORTFOLIO_CONTACT_TO are required for the smtp contact transport")
		}
	case ContactRelay:
		if c.RelayURL == "" {
			return fmt.Errorf("PORTFOLIO_RELAY_URL is required for the relay contact transport")
		}
	default:
		return fmt.Errorf("unknown PORTFOLIO_CONTACT_TRANSPORT %q", c.ContactTransport)
	}
	return nil
}

func (c *Config) validateStore() error {
	switch c.StoreDriver {
	case StoreSQLite, StoreMemory:
	case StoreFirestore:
		if c.FirestoreProject == "" {
			return fmt.Errorf("PORTFOLIO_FIRESTORE_PROJECT is required for the firestore store")
		}
	case StoreRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("PORTFOLIO_REDIS_URL is required for the redis store")
		}
	default:
		return fmt.Errorf("unknown PORTFOLIO_STORE_DRIVER %q", c.StoreDriver)
	}
	return nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
