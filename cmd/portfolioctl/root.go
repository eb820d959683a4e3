// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/olegiv/portfolio-go/internal/config"
	"github.com/olegiv/portfolio-go/internal/content"
	"github.com/olegiv/portfolio-go/internal/docstore"
	"github.com/olegiv/portfolio-go/internal/store"
	"github.com/olegiv/portfolio-go/internal/version"
)

// backend is what a command works against: the users database and the
// content store.
type backend struct {
	db       *sql.DB
	store    docstore.Store
	services *content.Services
	logger   *slog.Logger
}

func (b *backend) Close() {
	if b.store != nil {
		_ = b.store.Close()
	}
	if b.db != nil {
		_ = b.db.Close()
	}
}

// opener connects a command to its backend.
type opener func(ctx context.Context) (*backend, error)

// openFromEnv connects to the database and content store named by the
// PORTFOLIO_* environment.
func openFromEnv(ctx context.Context) (*backend, error) {
	cfg, err := config.LoadStore()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create data directory")
	}
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}
	if err := store.MigrateContext(ctx, db); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to run migrations")
	}

	ds, err := docstore.Open(ctx, cfg, db)
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "failed to open %s store", cfg.StoreDriver)
	}

	return &backend{
		db:       db,
		store:    ds,
		services: content.NewServices(ds, cfg.Collections, logger),
		logger:   logger,
	}, nil
}

func newRootCmd(open opener) *cobra.Command {
	root := &cobra.Command{
		Use:          "portfolioctl",
		Short:        "Operator scripts for the portfolio site",
		Version:      version.Get().String(),
		SilenceUsage: true,
	}
	root.AddCommand(
		newCreateAdminCmd(open),
		newMigrateCmd(open),
		newTestConnectionCmd(open),
	)
	return root
}
