// Package main provides the long-running idle RPG host. It keeps loaded saves
// ticking in real time, autosaves them, and takes console commands on stdin.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/idlerpg/internal/config"
	"github.com/cory-johannsen/idlerpg/internal/game/content"
	"github.com/cory-johannsen/idlerpg/internal/game/engine"
	"github.com/cory-johannsen/idlerpg/internal/gameserver"
	"github.com/cory-johannsen/idlerpg/internal/observability"
	"github.com/cory-johannsen/idlerpg/internal/server"
	"github.com/cory-johannsen/idlerpg/internal/storage/dialect"
	"github.com/cory-johannsen/idlerpg/internal/storage/journal"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	startLocation := flag.String("start-location", "", "location of new saves; empty picks the first location by id")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging, "idled")
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	contentStart := time.Now()
	idx, err := content.LoadDir(cfg.Content.Dir)
	if err != nil {
		logger.Fatal("loading content", zap.String("dir", cfg.Content.Dir), zap.Error(err))
	}
	logger.Info("content loaded",
		zap.String("dir", cfg.Content.Dir),
		zap.Int("items", len(idx.ItemsByID)),
		zap.Int("locations", len(idx.LocationsByID)),
		zap.String("digest", idx.Digest()),
		zap.Duration("elapsed", time.Since(contentStart)),
	)

	store, err := dialect.Open(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("opening save store", zap.Error(err))
	}

	var sink gameserver.EventSink = gameserver.NopSink{}
	var journalWriter *journal.Writer
	if cfg.Host.JournalDir != "" {
		journalWriter = journal.NewWriter(cfg.Host.JournalDir)
		sink = journalWriter
		logger.Info("event journal enabled", zap.String("dir", cfg.Host.JournalDir))
	}

	location := *startLocation
	if location == "" {
		location = firstLocation(idx)
	}

	clock := gameserver.SystemClock{}
	eng := engine.New(idx, engine.Config{TickMs: cfg.Engine.TickMs}, logger)
	host := gameserver.NewHost(eng, store, sink, clock, logger, gameserver.Options{
		MaxCatchupTicks: cfg.Engine.MaxCatchupTicks,
		StartLocationID: location,
	})

	ticks := gameserver.NewTickManager(time.Duration(cfg.Engine.TickMs)*time.Millisecond, clock)
	ticks.Register("saves", func(nowMs int64) { host.TickAll(nowMs) })

	autosave := gameserver.NewTickManager(cfg.Host.AutosaveInterval, clock)
	autosave.Register("flush", func(int64) {
		if err := host.Flush(ctx); err != nil {
			logger.Error("autosave failed", zap.Error(err))
		}
	})

	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("store", &server.FuncService{
		StartFn: func(ctx context.Context) error {
			<-ctx.Done()
			return nil
		},
		StopFn: func() {
			if err := host.Flush(context.Background()); err != nil {
				logger.Error("final flush failed", zap.Error(err))
			}
			if journalWriter != nil {
				if err := journalWriter.Close(); err != nil {
					logger.Error("closing journal", zap.Error(err))
				}
			}
			if err := store.Close(); err != nil {
				logger.Error("closing save store", zap.Error(err))
			}
		},
	})
	lifecycle.Add("ticker", &server.FuncService{StartFn: ticks.Run})
	lifecycle.Add("autosave", &server.FuncService{StartFn: autosave.Run})
	lifecycle.Add("console", &server.FuncService{
		StartFn: func(ctx context.Context) error {
			return newConsole(host, store, clock, os.Stdout).serve(ctx, os.Stdin)
		},
	})

	logger.Info("host initialized",
		zap.Int64("tick_ms", cfg.Engine.TickMs),
		zap.Int64("max_catchup_ticks", cfg.Engine.MaxCatchupTicks),
		zap.Duration("autosave_interval", cfg.Host.AutosaveInterval),
		zap.Duration("startup", time.Since(start)),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("host error", zap.Error(err))
	}
}

func firstLocation(idx *content.Index) string {
	if ids := idx.LocationIDs(); len(ids) > 0 {
		return ids[0]
	}
	return ""
}
