package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"charforge-server/internal/adapter/repo"
	"charforge-server/internal/catalog"
	"charforge-server/internal/domain"
	"charforge-server/internal/engine"
	"charforge-server/internal/http/handlers"
	"charforge-server/internal/http/httpapi"
	"charforge-server/internal/infra"
	"charforge-server/internal/orchestrator"
	"charforge-server/internal/promptcache"
	"charforge-server/internal/providers/render"
	"charforge-server/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()

	var jobs domain.JobRepository
	switch cfg.JobStore {
	case "postgres":
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect database")
		}
		defer pool.Close()
		jobs = repo.NewJobRepository(pool)
	case "memory":
		jobs = repo.NewJobRepositoryMemory()
		logger.Warn().Msg("using in-memory job store; jobs do not survive restarts")
	}

	var cache promptcache.Cache
	switch cfg.CacheBackend {
	case "redis":
		client, err := infra.NewRedisClient(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect redis")
		}
		defer client.Close()
		cache = promptcache.NewRedis(client, cfg.CacheTTL, logger)
	case "memory":
		memCache, err := promptcache.NewMemory(cfg.CacheSize)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to configure prompt cache")
		}
		cache = memCache
	}

	var renderer render.Renderer
	switch cfg.RenderProvider {
	case "gemini":
		renderer, err = render.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to configure gemini provider")
		}
	case "local":
		renderer = render.NewLocal()
	default:
		logger.Fatal().Str("provider", cfg.RenderProvider).Msg("unknown render provider")
	}

	store, err := storage.NewFileStore(cfg.StoragePath, cfg.StorageBaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure storage")
	}

	cat := catalog.Default()
	validator := engine.NewValidator(cat)
	orch := orchestrator.New(orchestrator.Options{
		Repo:          jobs,
		Validator:     validator,
		Engine:        engine.NewEngine(cat),
		Cache:         cache,
		Renderer:      renderer,
		ProviderName:  cfg.RenderProvider,
		Store:         store,
		Logger:        logger,
		RenderTimeout: cfg.RenderTimeout,
	})

	app := handlers.NewApp(cat, validator, orch, cache, logger)
	router := httpapi.NewRouter(app, httpapi.Options{
		RateLimitPerMin: cfg.RateLimitPerMin,
		StaticPath:      cfg.StoragePath,
	})
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("addr", server.Addr()).Msg("api listening")
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	// Let in-flight dispatches resolve so no job is abandoned in PENDING.
	orch.Wait()
	logger.Info().Msg("server stopped")
}
