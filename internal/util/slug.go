// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util holds small helpers shared by the handlers: anchor slugs and
// safe path joining for locally served media.
package util

import (
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

var nonSlugRuns = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify transliterates s to ASCII and reduces it to lowercase words
// joined by single hyphens, e.g. "Café Résumé" -> "cafe-resume".
func Slugify(s string) string {
	ascii := strings.ToLower(unidecode.Unidecode(s))
	return strings.Trim(nonSlugRuns.ReplaceAllString(ascii, "-"), "-")
}
