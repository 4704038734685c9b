// Package repository selects the catalog provider for a database URL.
package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/wadjakorntonsri/knowhub/internal/seed"
	"github.com/wadjakorntonsri/knowhub/pkg/adapters/repository/memory"
	"github.com/wadjakorntonsri/knowhub/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/knowhub/pkg/ports"
)

// Open loads the seed catalog and returns a provider for it. An empty dbURL
// keeps everything in memory. Otherwise the SQL catalog is used and seeded
// when it has no rows yet. The returned close func is never nil.
func Open(ctx context.Context, dbURL, seedPath string, logger *zap.Logger) (ports.CatalogProvider, func() error, error) {
	cat, err := seed.Load(seedPath)
	if err != nil {
		return nil, nil, err
	}

	if dbURL == "" {
		logger.Info("Using in-memory catalog", zap.Int("items", len(cat.Items)))
		return memory.NewCatalogRepository(cat), func() error { return nil }, nil
	}

	repo, err := sqlite.NewSQLiteRepository(dbURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	empty, err := repo.IsEmpty(ctx)
	if err != nil {
		repo.Close()
		return nil, nil, err
	}
	if empty {
		if err := repo.Seed(ctx, cat); err != nil {
			repo.Close()
			return nil, nil, fmt.Errorf("seeding catalog: %w", err)
		}
		logger.Info("Seeded SQL catalog", zap.Int("items", len(cat.Items)))
	}
	return repo, repo.Close, nil
}
