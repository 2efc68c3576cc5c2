package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/meridianlabs/meridian/internal/config"
	"github.com/meridianlabs/meridian/internal/database"
	"github.com/meridianlabs/meridian/internal/modules/catalog"
	"github.com/meridianlabs/meridian/internal/modules/dataset"
	"github.com/meridianlabs/meridian/internal/modules/reports"
	"github.com/meridianlabs/meridian/internal/observability"
	"github.com/meridianlabs/meridian/internal/scheduler"
	"github.com/meridianlabs/meridian/internal/server"
	"github.com/meridianlabs/meridian/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(logger.Config{Level: "info"})
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting Meridian")

	// Catalog database
	db, err := database.New(database.Config{Path: cfg.CatalogDBPath, Name: "catalog"})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize catalog database")
	}
	defer db.Close()

	catalogRepo, err := catalog.NewRepository(db.Conn(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize catalog repository")
	}

	// Snapshot dataset
	store := dataset.NewStore(cfg.DatasetPaths, log)
	cache := dataset.NewCache(store, cfg.CacheTTL)

	metrics := observability.New()

	// Report engine
	selfBrands := reports.NewSelfBrandResolver(cfg.SelfBrandAliases, log)
	reportService := reports.NewService(cache, catalogRepo, selfBrands, metrics, log)

	// Scheduler
	sched := scheduler.New(log)
	refreshJob := scheduler.NewDatasetRefreshJob(cache, metrics, log)
	if cfg.RefreshSchedule != "" {
		if err := sched.AddJob(cfg.RefreshSchedule, refreshJob); err != nil {
			log.Fatal().Err(err).Msg("Failed to register dataset refresh job")
		}
	}
	sched.Start()
	defer sched.Stop()

	// Warm the cache before serving; a missing snapshot is not fatal, the
	// report endpoints surface it per request.
	if err := sched.RunNow(refreshJob); err != nil {
		log.Warn().Err(err).Msg("Initial dataset load failed, serving degraded until a snapshot appears")
	}

	srv := server.New(server.Config{
		Port:    cfg.Port,
		Log:     log,
		Config:  cfg,
		Reports: reports.NewHandler(reportService, metrics, log),
		Catalog: catalog.NewHandler(catalogRepo, log),
		System:  server.NewSystemHandlers(log, cfg.DatasetPaths, cache),
		DevMode: cfg.DevMode,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
