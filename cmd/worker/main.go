// The worker binary runs the maintenance loops that keep the job store
// healthy: the watchdog that fails PENDING jobs past the maximum wait, and
// the janitor that removes terminal jobs past the retention window.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"charforge-server/internal/adapter/repo"
	"charforge-server/internal/infra"
	"charforge-server/internal/orchestrator"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	if cfg.JobStore != "postgres" {
		logger.Fatal().Msg("worker requires JOB_STORE=postgres; a memory store is not visible across processes")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: db connection failed")
	}
	defer pool.Close()

	jobs := repo.NewJobRepository(pool)
	watchdog := orchestrator.NewWatchdog(jobs, cfg.PendingMaxWait, cfg.WatchdogInterval, logger)
	janitor := orchestrator.NewJanitor(jobs, cfg.CleanupAfterDays, 12*cfg.WatchdogInterval, logger)

	logger.Info().
		Dur("pending_max_wait", cfg.PendingMaxWait).
		Int("retention_days", cfg.CleanupAfterDays).
		Msg("worker started")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return watchdog.Run(gctx) })
	g.Go(func() error { return janitor.Run(gctx) })

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("worker stopped with error")
		os.Exit(1)
	}
	logger.Info().Msg("worker stopped")
}
