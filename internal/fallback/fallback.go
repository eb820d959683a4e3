// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package fallback loads page content from the store and substitutes the
// bundled copy of a domain when the store read fails or comes back empty.
package fallback

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/olegiv/portfolio-go/internal/content"
	"github.com/olegiv/portfolio-go/internal/model"
)

//go:embed data/*.json
var bundled embed.FS

// Bundle is the bundled copy of one content domain.
type Bundle[T any] struct {
	Domain content.Domain
	file   string
}

// Load decodes the bundled document.
func (b *Bundle[T]) Load() (*T, error) {
	raw, err := bundled.ReadFile("data/" + b.file)
	if err != nil {
		return nil, fmt.Errorf("reading bundled %s: %w", b.Domain, err)
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decoding bundled %s: %w", b.Domain, err)
	}
	return &v, nil
}

// Bundled content per domain.
var (
	Personal     = &Bundle[model.PersonalInfo]{Domain: content.DomainPersonal, file: "personal.json"}
	Projects     = &Bundle[model.ProjectsData]{Domain: content.DomainProjects, file: "projects.json"}
	Skills       = &Bundle[model.SkillsData]{Domain: content.DomainSkills, file: "skills.json"}
	Achievements = &Bundle[model.AchievementsData]{Domain: content.DomainAchievements, file: "achievements.json"}
	Quotes       = &Bundle[model.QuotesData]{Domain: content.DomainQuotes, file: "quotes.json"}
	Navigation   = &Bundle[model.NavigationData]{Domain: content.DomainNavigation, file: "navigation.json"}
	Images       = &Bundle[model.ImagesData]{Domain: content.DomainImages, file: "images.json"}
)

var files = map[content.Domain]string{
	content.DomainPersonal:     Personal.file,
	content.DomainProjects:     Projects.file,
	content.DomainSkills:       Skills.file,
	content.DomainAchievements: Achievements.file,
	content.DomainQuotes:       Quotes.file,
	content.DomainNavigation:   Navigation.file,
	content.DomainImages:       Images.file,
}

// Raw returns the bundled JSON of domain d.
func Raw(d content.Domain) ([]byte, error) {
	name, ok := files[d]
	if !ok {
		return nil, fmt.Errorf("no bundled content for domain %q", d)
	}
	return bundled.ReadFile("data/" + name)
}

// Load runs fetch and resolves its outcome:
//
//   - a document is returned as is;
//   - an empty result or a failure yields the bundle when fb is set;
//   - without a bundle, an empty result is nil (still loading) and a failure
//     is logged once and also yields nil.
//
// When ctx is done by the time fetch returns, the result is dropped and Load
// returns nil without logging.
func Load[T any](ctx context.Context, logger *slog.Logger, fetch func(context.Context) (*T, error), fb *Bundle[T]) *T {
	v, err := fetch(ctx)
	if ctx.Err() != nil {
		return nil
	}
	if err == nil && v != nil {
		return v
	}
	if fb == nil {
		if err != nil {
			logger.Error("error loading data", "error", err)
		}
		return nil
	}

	if err != nil {
		logger.Warn("serving bundled content", "domain", fb.Domain, "error", err)
	}
	b, berr := fb.Load()
	if berr != nil {
		logger.Error("error loading bundled content", "domain", fb.Domain, "error", berr)
		return nil
	}
	return b
}
