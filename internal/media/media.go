// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package media serves portfolio images and files from a Google Cloud
// Storage bucket or a local directory.
package media

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"
)

// CacheMaxAge is the browser cache lifetime of served media, one week.
const CacheMaxAge = 7 * 24 * time.Hour

// ErrNotFound is returned for a missing object.
var ErrNotFound = errors.New("media not found")

// ErrInvalidName is returned for names that are empty or leave the root.
var ErrInvalidName = errors.New("invalid media name")

// Object is an opened media file. Callers close Body.
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
	ModTime     time.Time
}

// Source opens media objects by slash-separated name.
type Source interface {
	Open(ctx context.Context, name string) (*Object, error)
}

// CleanName normalizes a request path into an object name.
func CleanName(name string) (string, error) {
	if strings.Contains(name, "\x00") || strings.Contains(name, "\\") {
		return "", ErrInvalidName
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return "", ErrInvalidName
		}
	}
	cleaned := strings.TrimPrefix(path.Clean("/"+name), "/")
	if cleaned == "" || strings.HasPrefix(path.Base(cleaned), ".") {
		return "", ErrInvalidName
	}
	return cleaned, nil
}

// Handler serves the object named by the wildcard remainder of the request
// path after prefix.
func Handler(src Source, prefix string, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		name, err := CleanName(strings.TrimPrefix(r.URL.Path, prefix))
		if err != nil {
			http.NotFound(w, r)
			return
		}

		obj, err := src.Open(r.Context(), name)
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				logger.Error("failed to open media", "name", name, "error", err)
			}
			http.NotFound(w, r)
			return
		}
		defer func() { _ = obj.Body.Close() }()

		ctype := obj.ContentType
		if ctype == "" {
			ctype = mime.TypeByExtension(path.Ext(name))
		}
		if ctype != "" {
			w.Header().Set("Content-Type", ctype)
		}
		w.Header().Set("Cache-Control", "public, max-age="+maxAgeSeconds())
		w.Header().Set("X-Content-Type-Options", "nosniff")

		if rs, ok := obj.Body.(io.ReadSeeker); ok {
			http.ServeContent(w, r, name, obj.ModTime, rs)
			return
		}
		if obj.Size > 0 {
			w.Header().Set("Content-Length", itoa(obj.Size))
		}
		if !obj.ModTime.IsZero() {
			w.Header().Set("Last-Modified", obj.ModTime.UTC().Format(http.TimeFormat))
		}
		if r.Method == http.MethodHead {
			return
		}
		if _, err := io.Copy(w, obj.Body); err != nil {
			logger.Debug("media copy interrupted", "name", name, "error", err)
		}
	})
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }

func maxAgeSeconds() string { return itoa(int64(CacheMaxAge.Seconds())) }
