// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package contact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	hcaptchaVerifyURL = "https://api.hcaptcha.com/siteverify"
	verifyTimeout     = 10 * time.Second

	// CaptchaField is the form field the hCaptcha widget fills in.
	CaptchaField = "h-captcha-response"
)

// Captcha errors.
var (
	ErrCaptchaRequired = errors.New("please complete the captcha")
	ErrCaptchaInvalid  = errors.New("captcha verification failed")
)

type verifyResponse struct {
	Success    bool     `json:"success"`
	Hostname   string   `json:"hostname"`
	ErrorCodes []string `json:"error-codes"`
}

// Captcha verifies hCaptcha tokens. A Captcha without a secret accepts
// everything.
type Captcha struct {
	secret    string
	verifyURL string
	client    *http.Client
	logger    *slog.Logger
}

// NewCaptcha returns a verifier for secret.
func NewCaptcha(secret string, logger *slog.Logger) *Captcha {
	return &Captcha{
		secret:    secret,
		verifyURL: hcaptchaVerifyURL,
		client:    &http.Client{Timeout: verifyTimeout},
		logger:    logger,
	}
}

// Enabled reports whether tokens are checked.
func (c *Captcha) Enabled() bool {
	return c != nil && c.secret != ""
}

// Verify checks response with the hCaptcha API. Transport failures are
// reported as ErrCaptchaInvalid after being logged.
func (c *Captcha) Verify(ctx context.Context, response, remoteIP string) error {
	if !c.Enabled() {
		return nil
	}
	if response == "" {
		return ErrCaptchaRequired
	}

	data := url.Values{}
	data.Set("secret", c.secret)
	data.Set("response", response)
	if remoteIP != "" {
		data.Set("remoteip", remoteIP)
	}

	result, err := c.post(ctx, data)
	if err != nil {
		c.logger.Error("captcha verification error", "error", err)
		return ErrCaptchaInvalid
	}
	if !result.Success {
		c.logger.Warn("captcha verification failed",
			"error_codes", result.ErrorCodes,
			"remote_ip", remoteIP,
		)
		return ErrCaptchaInvalid
	}
	return nil
}

func (c *Captcha) post(ctx context.Context, data url.Values) (*verifyResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.verifyURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("captcha verification request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var result verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse captcha response: %w", err)
	}
	return &result, nil
}
