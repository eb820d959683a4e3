// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"bytes"
	"html/template"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/olegiv/portfolio-go/internal/util"
)

var (
	markdown  = goldmark.New()
	ugcPolicy = bluemonday.UGCPolicy()
)

// Markdown renders s as Markdown and sanitizes the result for inline use.
func Markdown(s string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(s), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(s))
	}
	return template.HTML(ugcPolicy.SanitizeBytes(buf.Bytes()))
}

// LanguageName returns the native name of a BCP 47 code, e.g. "de" ->
// "Deutsch". Unparseable codes are returned upper-cased.
func LanguageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return strings.ToUpper(code)
	}
	if name := display.Self.Name(tag); name != "" {
		return name
	}
	return strings.ToUpper(code)
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"markdown":     Markdown,
		"slug":         util.Slugify,
		"languageName": LanguageName,
		"join":         strings.Join,
		"upper":        strings.ToUpper,
		"formatDateTime": func(t time.Time) string {
			return t.Format("Jan 2, 2006 15:04")
		},
		"add": func(a, b int) int { return a + b },
	}
}
