// Package main provides the save store schema migration runner.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/idlerpg/internal/config"
	"github.com/cory-johannsen/idlerpg/internal/observability"
	"github.com/cory-johannsen/idlerpg/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	direction := flag.String("direction", "up", "migration direction: up or down")
	steps := flag.Int("steps", 0, "number of steps (0 = all, up only)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	logger, err := observability.NewLogger(cfg.Logging, "migrate")
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Database.Dialect != config.DialectPostgres {
		logger.Info("sqlite schema is applied on open; nothing to migrate",
			zap.String("dialect", cfg.Database.Dialect),
		)
		return
	}

	n, err := stepCount(*direction, *steps)
	if err != nil {
		logger.Fatal("invalid arguments", zap.Error(err))
	}

	version, err := postgres.Migrate(cfg.Database, n, logger)
	if err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}
	logger.Info("migration complete",
		zap.String("direction", *direction),
		zap.Uint("version", version),
		zap.Duration("elapsed", time.Since(start)),
	)
}

// stepCount converts the direction and step flags into the signed step count
// accepted by postgres.Migrate.
func stepCount(direction string, steps int) (int, error) {
	if steps < 0 {
		return 0, fmt.Errorf("steps must be >= 0, got %d", steps)
	}
	switch direction {
	case "up":
		return steps, nil
	case "down":
		if steps == 0 {
			return 0, fmt.Errorf("down requires an explicit -steps count")
		}
		return -steps, nil
	default:
		return 0, fmt.Errorf("invalid direction %q: must be 'up' or 'down'", direction)
	}
}
