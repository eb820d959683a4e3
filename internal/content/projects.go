// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/olegiv/portfolio-go/internal/docstore"
	"github.com/olegiv/portfolio-go/internal/model"
)

// ProjectService serves the multi-document projects collection.
type ProjectService struct {
	store      docstore.Store
	collection string
	logger     *slog.Logger
}

func newProjectService(store docstore.Store, collection string, logger *slog.Logger) *ProjectService {
	return &ProjectService{store: store, collection: collection, logger: logger}
}

func (s *ProjectService) list(ctx context.Context, q docstore.Query) ([]model.Project, error) {
	docs, err := s.store.List(ctx, s.collection, q)
	if err != nil {
		return nil, err
	}
	projects := make([]model.Project, 0, len(docs))
	for i := range docs {
		var p model.Project
		if err := docstore.Decode(&docs[i], &p); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, nil
}

func newProjectsData(projects []model.Project) *model.ProjectsData {
	if projects == nil {
		projects = []model.Project{}
	}
	return &model.ProjectsData{
		SectionTitle: model.ProjectsSectionTitle,
		ViewAllText:  model.ProjectsViewAllText,
		Projects:     projects,
	}
}

// FetchAll returns up to ProjectsPageSize projects ordered by order.
func (s *ProjectService) FetchAll(ctx context.Context) (*model.ProjectsData, error) {
	projects, err := s.list(ctx, docstore.Query{OrderBy: "order", Limit: ProjectsPageSize})
	if err != nil {
		return nil, fmt.Errorf("fetching projects: %w", err)
	}
	return newProjectsData(projects), nil
}

// GetAll is FetchAll with failures logged and reported as an empty list.
func (s *ProjectService) GetAll(ctx context.Context) model.ProjectsData {
	data, err := s.FetchAll(ctx)
	if err != nil {
		s.logger.Error("error fetching projects", "error", err)
		return *newProjectsData(nil)
	}
	return *data
}

// GetFeatured returns the featured projects ordered by order, at most
// FeaturedLimit of them. Failures yield an empty slice.
func (s *ProjectService) GetFeatured(ctx context.Context) []model.Project {
	q := docstore.Query{OrderBy: "order", Limit: FeaturedLimit}.Where("featured", true)
	projects, err := s.list(ctx, q)
	if err != nil {
		s.logger.Error("error fetching featured projects", "error", err)
		return []model.Project{}
	}
	return projects
}

// Get returns one project by id.
func (s *ProjectService) Get(ctx context.Context, id string) (*model.Project, error) {
	doc, err := s.store.Get(ctx, s.collection, id)
	if err != nil {
		return nil, fmt.Errorf("fetching project %s: %w", id, err)
	}
	var p model.Project
	if err := docstore.Decode(doc, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create stores p under a store-generated id.
func (s *ProjectService) Create(ctx context.Context, p model.Project) (*model.Project, error) {
	fields, err := docstore.Encode(p)
	if err != nil {
		return nil, err
	}
	doc, err := s.store.Create(ctx, s.collection, "", fields)
	if err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}
	var out model.Project
	if err := docstore.Decode(doc, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update applies patch to the project with id.
func (s *ProjectService) Update(ctx context.Context, id string, patch docstore.Fields) (*model.Project, error) {
	doc, err := s.store.Update(ctx, s.collection, id, patch)
	if err != nil {
		return nil, fmt.Errorf("updating project %s: %w", id, err)
	}
	var out model.Project
	if err := docstore.Decode(doc, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes the project with id. A missing id yields an error wrapping
// docstore.ErrNotFound and leaves the store untouched.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, s.collection, id); err != nil {
		return fmt.Errorf("deleting project %s: %w", id, err)
	}
	return nil
}

// Technologies returns the distinct technologies of projects, sorted.
func Technologies(projects []model.Project) []string {
	var techs []string
	for _, p := range projects {
		for _, t := range p.Technologies {
			if !slices.Contains(techs, t) {
				techs = append(techs, t)
			}
		}
	}
	slices.Sort(techs)
	return techs
}

// FilterProjects keeps the projects whose title or description contains
// search (case-insensitive) and, when tech is set, that use tech.
func FilterProjects(projects []model.Project, search, tech string) []model.Project {
	needle := strings.ToLower(strings.TrimSpace(search))
	out := make([]model.Project, 0, len(projects))
	for _, p := range projects {
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Title), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			continue
		}
		if tech != "" && !slices.Contains(p.Technologies, tech) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// SplitTechnologies parses a comma separated technology list.
func SplitTechnologies(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// NewAdminProject builds a project as the admin create form does: not
// featured, sorted last, with the standard live and code actions.
func NewAdminProject(title, description, image, technologies, liveURL, codeURL string) model.Project {
	return model.Project{
		Title:        title,
		Description:  description,
		Image:        image,
		Technologies: SplitTechnologies(technologies),
		LiveURL:      liveURL,
		CodeURL:      codeURL,
		Featured:     false,
		Order:        999,
		Actions: []model.ProjectAction{
			{Label: "Live <~>", Primary: true, Type: model.ActionLive},
			{Label: "Code >=", Primary: false, Type: model.ActionCode},
		},
	}
}
