// Package dialect opens the save store selected by configuration.
package dialect

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/idlerpg/internal/config"
	"github.com/cory-johannsen/idlerpg/internal/storage"
	"github.com/cory-johannsen/idlerpg/internal/storage/postgres"
	"github.com/cory-johannsen/idlerpg/internal/storage/sqlite"
)

// Open connects to the store named by cfg.Dialect. Postgres schemas are
// migrated up before the repository is returned.
//
// Precondition: cfg must have passed config validation.
// Postcondition: Returns a ready storage.Store or a non-nil error.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (storage.Store, error) {
	start := time.Now()
	switch cfg.Dialect {
	case config.DialectSQLite:
		st, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		logger.Info("save store opened",
			zap.String("dialect", cfg.Dialect),
			zap.String("path", cfg.SQLitePath),
			zap.Duration("elapsed", time.Since(start)),
		)
		return st, nil
	case config.DialectPostgres:
		if _, err := postgres.Migrate(cfg, 0, logger); err != nil {
			return nil, err
		}
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		logger.Info("save store opened",
			zap.String("dialect", cfg.Dialect),
			zap.String("host", cfg.Host),
			zap.Int("port", cfg.Port),
			zap.String("database", cfg.Name),
			zap.Duration("elapsed", time.Since(start)),
		)
		return postgres.NewSaveRepository(pool), nil
	default:
		return nil, fmt.Errorf("unknown database dialect %q", cfg.Dialect)
	}
}
