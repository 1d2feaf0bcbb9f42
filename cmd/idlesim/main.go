// Package main provides the offline simulator: it replays a timed command
// script against a fresh save and prints every engine event as a JSON line.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/idlerpg/internal/config"
	"github.com/cory-johannsen/idlerpg/internal/game/content"
	"github.com/cory-johannsen/idlerpg/internal/game/engine"
	"github.com/cory-johannsen/idlerpg/internal/game/state"
	"github.com/cory-johannsen/idlerpg/internal/observability"
	"github.com/cory-johannsen/idlerpg/internal/storage"
	"github.com/cory-johannsen/idlerpg/internal/storage/dialect"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file; empty uses defaults and IDLE_ environment overrides")
	contentDir := flag.String("content", "", "content directory; overrides content.dir")
	scriptPath := flag.String("script", "-", "simulation script, - for stdin")
	saveID := flag.String("save", "sim", "save id of the simulated save")
	playerName := flag.String("name", "Hero", "player name")
	location := flag.String("location", "", "start location; empty picks the first location by id")
	startMs := flag.Int64("start-ms", 0, "simulation start time in Unix milliseconds")
	until := flag.Duration("until", 0, "simulate up to this offset after start even past the last script line")
	persist := flag.Bool("persist", false, "write the final state to the configured save store")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *contentDir != "" {
		cfg.Content.Dir = *contentDir
	}

	logger, err := observability.NewLogger(cfg.Logging, "idlesim")
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	idx, err := content.LoadDir(cfg.Content.Dir)
	if err != nil {
		logger.Fatal("loading content", zap.String("dir", cfg.Content.Dir), zap.Error(err))
	}
	logger.Info("content loaded",
		zap.String("dir", cfg.Content.Dir),
		zap.Int("locations", len(idx.LocationsByID)),
		zap.Int("quests", len(idx.QuestTemplatesByID)),
		zap.String("digest", idx.Digest()),
	)

	steps, err := readScript(*scriptPath)
	if err != nil {
		logger.Fatal("reading script", zap.String("path", *scriptPath), zap.Error(err))
	}

	startLocation := *location
	if startLocation == "" {
		startLocation = firstLocation(idx)
	}
	s := state.NewState(state.NewStateParams{
		SaveID:          *saveID,
		PlayerID:        *saveID,
		PlayerName:      *playerName,
		NowMs:           *startMs,
		StartLocationID: startLocation,
	})

	eng := engine.New(idx, engine.Config{TickMs: cfg.Engine.TickMs}, logger)
	sim := newSimulator(eng, os.Stdout)
	final, err := sim.run(s, *startMs, steps, until.Milliseconds())
	if err != nil {
		logger.Fatal("simulation failed", zap.Error(err))
	}
	if err := final.Validate(); err != nil {
		logger.Fatal("final state invalid", zap.Error(err))
	}

	rates := final.Rates(final.LastTickAtMs)
	logger.Info("simulation complete",
		zap.Int("lines", len(steps)),
		zap.Int("events", sim.events),
		zap.Int64("ticks", final.TickIndex),
		zap.Int("level", final.Player.Level),
		zap.Int("xp", final.Player.XP),
		zap.Int("gold", final.Player.Gold),
		zap.Float64("xp_per_hour", rates.XPPerHour),
		zap.Float64("gold_per_hour", rates.GoldPerHour),
		zap.Duration("elapsed", time.Since(start)),
	)

	if *persist {
		if err := persistState(context.Background(), cfg.Database, final, logger); err != nil {
			logger.Fatal("persisting final state", zap.Error(err))
		}
	}
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.LoadFromViper(config.NewViper())
	}
	return config.Load(path)
}

func readScript(path string) ([]scriptStep, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	return parseScript(r)
}

func firstLocation(idx *content.Index) string {
	if ids := idx.LocationIDs(); len(ids) > 0 {
		return ids[0]
	}
	return ""
}

// persistState creates the save, or overwrites it when it already exists.
func persistState(ctx context.Context, cfg config.DatabaseConfig, s *state.EngineState, logger *zap.Logger) error {
	store, err := dialect.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	err = store.Create(ctx, s)
	if errors.Is(err, storage.ErrSaveExists) {
		err = store.Put(ctx, s)
	}
	if err != nil {
		return fmt.Errorf("save %s: %w", s.SaveID, err)
	}
	logger.Info("final state persisted", zap.String("save_id", s.SaveID), zap.String("dialect", cfg.Dialect))
	return nil
}
