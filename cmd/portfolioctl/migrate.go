// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/olegiv/portfolio-go/internal/content"
	"github.com/olegiv/portfolio-go/internal/fallback"
	"github.com/olegiv/portfolio-go/internal/model"
)

// featuredSeedIDs is how many of the first seed projects are featured.
const featuredSeedIDs = 3

// seedExtensions are tried in order for DIR/<domain>.<ext>.
var seedExtensions = []string{".json", ".yaml", ".yml"}

func newMigrateCmd(open opener) *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Copy seed content into the content store",
		Long: `Copy the seed content of every domain into the content store.

Without --from the bundled content is used. With --from DIR each domain is
read from DIR/<domain>.json or DIR/<domain>.yaml; a domain without a file in
DIR uses its bundled copy. The first failure stops the migration.

Example:
  portfolioctl migrate
  portfolioctl migrate --from ./seed`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer b.Close()

			return migrate(cmd.Context(), b.services, from, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Directory with <domain>.json or <domain>.yaml seed files")
	return cmd
}

func migrate(ctx context.Context, svc *content.Services, dir string, w io.Writer) error {
	_, _ = fmt.Fprintf(w, "Starting migration...\n\n")

	for _, d := range content.Domains {
		raw, source, err := readSeed(dir, d)
		if err != nil {
			return errors.Wrapf(err, "failed to read %s seed", d)
		}

		_, _ = fmt.Fprintf(w, "Migrating %s from %s...\n", d, source)
		n, err := seedDomain(ctx, svc, d, raw, w)
		if err != nil {
			return errors.Wrapf(err, "migration failed at %s", d)
		}
		_, _ = fmt.Fprintf(w, "  %d document(s) written to %s\n\n", n, svc.Collection(d))
	}

	_, _ = fmt.Fprintf(w, "Migration completed successfully.\n")
	return nil
}

// readSeed returns the JSON seed of d and where it came from.
func readSeed(dir string, d content.Domain) ([]byte, string, error) {
	if dir != "" {
		for _, ext := range seedExtensions {
			path := filepath.Join(dir, string(d)+ext)
			raw, err := os.ReadFile(path)
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				return nil, "", err
			}
			if ext == ".json" {
				return raw, path, nil
			}
			converted, err := yamlToJSON(raw)
			if err != nil {
				return nil, "", errors.Wrapf(err, "failed to parse %s", path)
			}
			return converted, path, nil
		}
	}

	raw, err := fallback.Raw(d)
	if err != nil {
		return nil, "", err
	}
	return raw, "bundled content", nil
}

func yamlToJSON(raw []byte) ([]byte, error) {
	var v any
	if err := yaml.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

func seedDomain(ctx context.Context, svc *content.Services, d content.Domain, raw []byte, w io.Writer) (int, error) {
	switch d {
	case content.DomainPersonal:
		return seedSingleton(ctx, svc.Personal, raw)
	case content.DomainProjects:
		return seedProjects(ctx, svc.Projects, raw, w)
	case content.DomainSkills:
		return seedSingleton(ctx, svc.Skills, raw)
	case content.DomainAchievements:
		return seedSingleton(ctx, svc.Achievements, raw)
	case content.DomainQuotes:
		return seedQuotes(ctx, svc.Quotes, raw, w)
	case content.DomainNavigation:
		return seedSingleton(ctx, svc.Navigation, raw)
	case content.DomainImages:
		return seedSingleton(ctx, svc.Images, raw)
	}
	return 0, errors.Errorf("unknown domain %q", d)
}

func seedSingleton[T any](ctx context.Context, s *content.Singleton[T], raw []byte) (int, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, errors.Wrap(err, "failed to decode seed")
	}
	if _, err := s.Create(ctx, &v); err != nil {
		return 0, err
	}
	return 1, nil
}

// seedProject carries the numeric id of a seed file, which only decides
// ordering and the featured flag.
type seedProject struct {
	model.Project
	SeedID int `json:"id"`
}

func seedProjects(ctx context.Context, s *content.ProjectService, raw []byte, w io.Writer) (int, error) {
	var data struct {
		Projects []seedProject `json:"projects"`
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return 0, errors.Wrap(err, "failed to decode seed")
	}

	for i, sp := range data.Projects {
		p := sp.Project
		p.ID = ""
		p.Featured = sp.SeedID <= featuredSeedIDs
		p.Order = sp.SeedID
		if _, err := s.Create(ctx, p); err != nil {
			return i, err
		}
		_, _ = fmt.Fprintf(w, "  - %s\n", p.Title)
	}
	return len(data.Projects), nil
}

func seedQuotes(ctx context.Context, s *content.QuoteService, raw []byte, w io.Writer) (int, error) {
	var data model.QuotesData
	if err := json.Unmarshal(raw, &data); err != nil {
		return 0, errors.Wrap(err, "failed to decode seed")
	}

	for i, q := range data.Quotes {
		q.ID = ""
		q.Order = i
		if _, err := s.Create(ctx, q); err != nil {
			return i, err
		}
		_, _ = fmt.Fprintf(w, "  - quote by %s\n", q.Author)
	}
	return len(data.Quotes), nil
}
