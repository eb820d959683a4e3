// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package docstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/olegiv/portfolio-go/internal/config"
)

// Open selects the backend named by cfg.StoreDriver. db is only used by the
// sqlite driver and may be nil otherwise.
func Open(ctx context.Context, cfg *config.Config, db *sql.DB) (Store, error) {
	switch cfg.StoreDriver {
	case config.StoreSQLite:
		if db == nil {
			return nil, fmt.Errorf("sqlite document store needs an open database")
		}
		return NewSQLiteStore(db), nil
	case config.StoreFirestore:
		return NewFirestoreStore(ctx, cfg.FirestoreProject, cfg.FirestoreDatabase)
	case config.StoreRedis:
		opts := DefaultRedisStoreOptions()
		opts.URL = cfg.RedisURL
		if cfg.RedisPrefix != "" {
			opts.Prefix = cfg.RedisPrefix
		}
		return NewRedisStore(ctx, opts)
	case config.StoreMemory:
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
