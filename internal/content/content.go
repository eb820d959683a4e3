// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package content is the data-access layer: one service per content domain
// over a docstore.Store. Reads never fail past this package; they log and
// return nil or an empty container. Mutations return errors.
package content

import (
	"context"
	"log/slog"

	"github.com/olegiv/portfolio-go/internal/config"
	"github.com/olegiv/portfolio-go/internal/docstore"
	"github.com/olegiv/portfolio-go/internal/model"
)

// Domain identifies a content domain.
type Domain string

// Content domains.
const (
	DomainPersonal     Domain = "personal"
	DomainProjects     Domain = "projects"
	DomainSkills       Domain = "skills"
	DomainAchievements Domain = "achievements"
	DomainQuotes       Domain = "quotes"
	DomainNavigation   Domain = "navigation"
	DomainImages       Domain = "images"
)

// Domains lists every domain in display order.
var Domains = []Domain{
	DomainPersonal,
	DomainProjects,
	DomainSkills,
	DomainAchievements,
	DomainQuotes,
	DomainNavigation,
	DomainImages,
}

// Query limits.
const (
	ProjectsPageSize = 100
	FeaturedLimit    = 3
)

// Services bundles the per-domain services over one store.
type Services struct {
	Personal     *Singleton[model.PersonalInfo]
	Skills       *Singleton[model.SkillsData]
	Achievements *Singleton[model.AchievementsData]
	Navigation   *Singleton[model.NavigationData]
	Images       *Singleton[model.ImagesData]
	Projects     *ProjectService
	Quotes       *QuoteService

	store       docstore.Store
	collections map[Domain]string
}

// NewServices wires every domain service to store using the configured
// collection names.
func NewServices(store docstore.Store, cols config.Collections, logger *slog.Logger) *Services {
	if logger == nil {
		logger = slog.Default()
	}
	collections := map[Domain]string{
		DomainPersonal:     cols.Personal,
		DomainProjects:     cols.Projects,
		DomainSkills:       cols.Skills,
		DomainAchievements: cols.Achievements,
		DomainQuotes:       cols.Quotes,
		DomainNavigation:   cols.Navigation,
		DomainImages:       cols.Images,
	}
	return &Services{
		Personal:     newSingleton[model.PersonalInfo](store, DomainPersonal, cols.Personal, logger),
		Skills:       newSingleton[model.SkillsData](store, DomainSkills, cols.Skills, logger),
		Achievements: newSingleton[model.AchievementsData](store, DomainAchievements, cols.Achievements, logger),
		Navigation:   newSingleton[model.NavigationData](store, DomainNavigation, cols.Navigation, logger),
		Images:       newSingleton[model.ImagesData](store, DomainImages, cols.Images, logger),
		Projects:     newProjectService(store, cols.Projects, logger),
		Quotes:       newQuoteService(store, cols.Quotes, logger),
		store:        store,
		collections:  collections,
	}
}

// DefaultCollections returns the stock collection names.
func DefaultCollections() config.Collections {
	return config.Collections{
		Personal:     "personal_info",
		Projects:     "projects",
		Skills:       "skills",
		Achievements: "achievements",
		Quotes:       "quotes",
		Navigation:   "navigation",
		Images:       "images",
	}
}

// Collection returns the store collection of d.
func (s *Services) Collection(d Domain) string {
	return s.collections[d]
}

// Store returns the underlying document store.
func (s *Services) Store() docstore.Store {
	return s.store
}

// CollectionCount is one row of a connectivity report.
type CollectionCount struct {
	Domain     Domain
	Collection string
	Count      int
	Err        error
}

// Counts reports the document count of every domain collection. A failure on
// one collection does not stop the others.
func (s *Services) Counts(ctx context.Context) []CollectionCount {
	out := make([]CollectionCount, 0, len(Domains))
	for _, d := range Domains {
		c := CollectionCount{Domain: d, Collection: s.collections[d]}
		c.Count, c.Err = s.store.Count(ctx, c.Collection)
		out = append(out, c)
	}
	return out
}
