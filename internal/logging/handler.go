// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides the slog handler that mirrors warnings and errors
// into the activity log shown on the admin page.
package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/portfolio-go/internal/model"
	"github.com/olegiv/portfolio-go/internal/store"
)

const writeTimeout = 2 * time.Second

type pathKey struct{}

// WithRequestPath returns ctx carrying the request path for event metadata.
func WithRequestPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, pathKey{}, path)
}

// RequestPath returns the request path carried by ctx, or "".
func RequestPath(ctx context.Context) string {
	p, _ := ctx.Value(pathKey{}).(string)
	return p
}

// EventLogHandler wraps another handler and also writes records at or
// above its level to the events table.
type EventLogHandler struct {
	inner   slog.Handler
	queries *store.Queries
	level   slog.Level
	attrs   []slog.Attr
}

// NewEventLogHandler persists WARN and above.
func NewEventLogHandler(inner slog.Handler, db store.DBTX) *EventLogHandler {
	return NewEventLogHandlerWithLevel(inner, db, slog.LevelWarn)
}

// NewEventLogHandlerWithLevel persists records at level and above.
func NewEventLogHandlerWithLevel(inner slog.Handler, db store.DBTX, level slog.Level) *EventLogHandler {
	return &EventLogHandler{inner: inner, queries: store.New(db), level: level}
}

// Enabled implements slog.Handler.
func (h *EventLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *EventLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}
	if r.Level >= h.level {
		h.persist(ctx, r)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &EventLogHandler{
		inner:   h.inner.WithAttrs(attrs),
		queries: h.queries,
		level:   h.level,
		attrs:   append(h.attrs[:len(h.attrs):len(h.attrs)], attrs...),
	}
}

// WithGroup implements slog.Handler.
func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	return &EventLogHandler{
		inner:   h.inner.WithGroup(name),
		queries: h.queries,
		level:   h.level,
		attrs:   h.attrs,
	}
}

// persist writes r detached from the request so a cancelled request still
// leaves its trace. Write failures are dropped.
func (h *EventLogHandler) persist(ctx context.Context, r slog.Record) {
	attrs := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	attrs = append(attrs, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})

	category := ""
	meta := make(map[string]string, len(attrs)+1)
	for _, a := range attrs {
		if a.Key == "category" {
			category = a.Value.String()
			continue
		}
		meta[a.Key] = a.Value.String()
	}
	if category == "" {
		category = inferCategory(r.Message)
	}
	if path := RequestPath(ctx); path != "" {
		meta["path"] = path
	}

	metadata := "{}"
	if len(meta) > 0 {
		if b, err := json.Marshal(meta); err == nil {
			metadata = string(b)
		}
	}

	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()
	_ = h.queries.CreateEvent(wctx, store.CreateEventParams{
		Level:     eventLevel(r.Level),
		Category:  category,
		Message:   r.Message,
		Metadata:  metadata,
		CreatedAt: r.Time.UTC(),
	})
}

func eventLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return model.EventLevelError
	case level >= slog.LevelWarn:
		return model.EventLevelWarning
	default:
		return model.EventLevelInfo
	}
}

func inferCategory(message string) string {
	msg := strings.ToLower(message)
	switch {
	case strings.Contains(msg, "login") || strings.Contains(msg, "logout") ||
		strings.Contains(msg, "session") || strings.Contains(msg, "account") ||
		strings.Contains(msg, "csrf"):
		return model.EventCategoryAuth
	case strings.Contains(msg, "contact") || strings.Contains(msg, "message"):
		return model.EventCategoryContact
	case strings.Contains(msg, "content") || strings.Contains(msg, "project") ||
		strings.Contains(msg, "quote") || strings.Contains(msg, "bundled"):
		return model.EventCategoryContent
	default:
		return model.EventCategorySystem
	}
}
