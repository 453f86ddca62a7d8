package main

import (
	"context"
	"fmt"

	"github.com/cryptguard/cryptguard/internal/config"
	"github.com/cryptguard/cryptguard/internal/handler"
	"github.com/cryptguard/cryptguard/internal/logger"
	"github.com/cryptguard/cryptguard/internal/replay"
	"github.com/cryptguard/cryptguard/internal/server"
	"github.com/cryptguard/cryptguard/internal/service"
	"github.com/cryptguard/cryptguard/internal/store"
	"github.com/cryptguard/cryptguard/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("cryptguard-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	ctx := context.Background()

	storages, err := store.NewStorages(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}

	services, err := service.NewServices(*storages, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	// A misconfigured master key must never reach traffic.
	if err = services.KeyService.SelfCheck(ctx); err != nil {
		log.Fatal().Err(err).Msg("master key self check failed")
	}

	guard, err := newReplayGuard(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating replay guard")
	}

	handlers, err := handler.NewHandlers(services, *cfg, guard, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	workers.NewWorkers(
		workers.NewReplaySweepWorker(guard, cfg.Workers.ReplaySweepInterval, log),
		workers.NewSessionSweepWorker(storages.SessionRepository, cfg.Workers.SessionSweepInterval, log),
	).Run()

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

// newReplayGuard picks the replay-guard backend: Redis when an address is
// configured (shared across instances, TTL-based eviction), otherwise the
// in-memory single-instance guard.
func newReplayGuard(cfg *config.StructuredConfig) (replay.Guard, error) {
	if cfg.Storage.Redis.Addr != "" {
		return replay.NewRedisGuard(cfg.Storage.Redis, cfg.Security.ReplayWindow)
	}

	return replay.NewMemoryGuard(cfg.Security.ReplayWindow), nil
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
