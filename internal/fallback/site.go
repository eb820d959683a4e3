// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package fallback

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/olegiv/portfolio-go/internal/content"
	"github.com/olegiv/portfolio-go/internal/model"
)

// Site is everything the public pages render.
type Site struct {
	Personal     *model.PersonalInfo
	Projects     *model.ProjectsData
	Skills       *model.SkillsData
	Achievements *model.AchievementsData
	Quotes       *model.QuotesData
	Navigation   *model.NavigationData
	Images       *model.ImagesData

	Featured []model.Project
	Quote    *model.Quote
}

// Loading reports whether the page still lacks the content it cannot render
// without.
func (s *Site) Loading() bool {
	return s.Personal == nil || s.Navigation == nil
}

// LoadSite loads every domain concurrently. Domains with a bundle never come
// back nil unless ctx ends first. Featured projects and the random quote have
// no bundle and may be empty.
func LoadSite(ctx context.Context, logger *slog.Logger, svc *content.Services) *Site {
	if logger == nil {
		logger = slog.Default()
	}
	site := &Site{}

	var g errgroup.Group
	g.Go(func() error {
		site.Personal = Load(ctx, logger, svc.Personal.Fetch, Personal)
		return nil
	})
	g.Go(func() error {
		site.Projects = Load(ctx, logger, svc.Projects.FetchAll, Projects)
		return nil
	})
	g.Go(func() error {
		site.Skills = Load(ctx, logger, svc.Skills.Fetch, Skills)
		return nil
	})
	g.Go(func() error {
		site.Achievements = Load(ctx, logger, svc.Achievements.Fetch, Achievements)
		return nil
	})
	g.Go(func() error {
		site.Quotes = Load(ctx, logger, svc.Quotes.FetchAll, Quotes)
		return nil
	})
	g.Go(func() error {
		site.Navigation = Load(ctx, logger, svc.Navigation.Fetch, Navigation)
		return nil
	})
	g.Go(func() error {
		site.Images = Load(ctx, logger, svc.Images.Fetch, Images)
		return nil
	})
	g.Go(func() error {
		site.Featured = svc.Projects.GetFeatured(ctx)
		return nil
	})
	g.Go(func() error {
		site.Quote = svc.Quotes.GetRandom(ctx)
		return nil
	})
	_ = g.Wait()

	return site
}
