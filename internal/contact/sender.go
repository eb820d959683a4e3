// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package contact

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/smtp"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/olegiv/portfolio-go/internal/config"
)

const relayTimeout = 10 * time.Second

// Sender delivers a validated submission.
type Sender interface {
	Send(ctx context.Context, f Form) error
}

// NewSender returns the transport selected by cfg.ContactTransport.
func NewSender(cfg *config.Config, logger *slog.Logger) (Sender, error) {
	switch cfg.ContactTransport {
	case config.ContactNoop, "":
		return NoopSender{logger: logger}, nil
	case config.ContactSMTP:
		return NewSMTPSender(SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			To:       cfg.ContactTo,
		}), nil
	case config.ContactRelay:
		return NewRelaySender(cfg.RelayURL), nil
	default:
		return nil, fmt.Errorf("unknown contact transport %q", cfg.ContactTransport)
	}
}

// NoopSender only logs submissions.
type NoopSender struct {
	logger *slog.Logger
}

// Send logs f.
func (s NoopSender) Send(_ context.Context, f Form) error {
	if s.logger != nil {
		s.logger.Info("contact message received", "from", f.Email, "subject", f.Subject)
	}
	return nil
}

// SMTPConfig holds mail server settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

// SMTPSender mails submissions to the owner.
type SMTPSender struct {
	cfg      SMTPConfig
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPSender returns an SMTPSender. From defaults to the username.
func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return &SMTPSender{cfg: cfg, sendMail: smtp.SendMail}
}

// Send mails f with Reply-To set to the visitor.
func (s *SMTPSender) Send(_ context.Context, f Form) error {
	var a smtp.Auth
	if s.cfg.Username != "" {
		a = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	if err := s.sendMail(addr, a, s.cfg.From, []string{s.cfg.To}, s.message(f)); err != nil {
		return fmt.Errorf("sending contact mail: %w", err)
	}
	return nil
}

func (s *SMTPSender) message(f Form) []byte {
	var b strings.Builder
	b.WriteString("To: " + s.cfg.To + "\r\n")
	b.WriteString("From: " + s.cfg.From + "\r\n")
	b.WriteString("Reply-To: " + headerValue(f.Email) + "\r\n")
	b.WriteString("Subject: Portfolio contact: " + headerValue(f.Subject) + "\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString("Name: " + f.Name + "\r\n")
	b.WriteString("Email: " + f.Email + "\r\n\r\n")
	b.WriteString(f.Message + "\r\n")
	return []byte(b.String())
}

// headerValue strips line breaks so a value cannot start a new header.
func headerValue(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}

// RelaySender posts submissions to a hosted form endpoint.
type RelaySender struct {
	endpoint string
	client   *http.Client
}

// NewRelaySender returns a RelaySender for endpoint.
func NewRelaySender(endpoint string) *RelaySender {
	return &RelaySender{endpoint: endpoint, client: &http.Client{Timeout: relayTimeout}}
}

// Send posts f as a urlencoded form. Any non-2xx answer is an error.
func (s *RelaySender) Send(ctx context.Context, f Form) error {
	data := url.Values{}
	data.Set("name", f.Name)
	data.Set("email", f.Email)
	data.Set("subject", f.Subject)
	data.Set("message", f.Message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("building relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("relay request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("relay answered %s", resp.Status)
	}
	return nil
}
