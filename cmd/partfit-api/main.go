// Package main provides the compatibility API server entrypoint.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/partfit/compat-engine/internal/cache"
	"github.com/partfit/compat-engine/internal/catalog"
	"github.com/partfit/compat-engine/internal/config"
	"github.com/partfit/compat-engine/internal/engine"
	"github.com/partfit/compat-engine/internal/observability"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if len(os.Args) > 2 && os.Args[1] == "--config" {
		cfgPath = os.Args[2]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(observability.LogConfig{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: "partfit-api",
	})

	provider, err := catalog.LoadDir(cfg.Catalog.ShardDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load catalog")
	}

	var reportCache cache.Client
	if cfg.Cache.Backend == "redis" {
		reportCache, err = cache.NewRedisClient(cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			PoolSize: cfg.Cache.Redis.PoolSize,
			Prefix:   cfg.Cache.Redis.Prefix,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect Redis cache")
		}
	} else {
		mem := cache.NewMemoryClient(cfg.Cache.MaxEntries)
		mem.StartSweeper(cfg.Cache.TTL)
		reportCache = mem
	}
	defer reportCache.Close()

	resolver := engine.NewResolver(provider, logger, engine.Config{
		CacheTTL:              cfg.Cache.TTL,
		HeuristicThreshold:    cfg.Matching.HeuristicThreshold,
		MaxAlternatives:       cfg.Matching.MaxAlternatives,
		SharedPartsDisplayCap: cfg.Matching.SharedPartsDisplayCap,
	}, engine.WithCache(reportCache))

	logger.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("cache", cfg.Cache.Backend).
		Msg("Starting compatibility API")

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      NewRouter(logger, resolver, cfg.Server.ReadTimeout),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("HTTP server listening")
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Fatal().Err(err).Msg("Server error")
	case sig := <-shutdown:
		logger.Info().Str("signal", sig.String()).Msg("Shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			_ = srv.Close()
		}
	}
}
